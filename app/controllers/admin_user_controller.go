package controllers

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tahlil-one/tahlil/app/models"
	"github.com/tahlil-one/tahlil/internal/pkg/subscription"
)

// UserLister pages through users for the admin dashboard.
type UserLister interface {
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// AdminUserController manages subscriptions and access levels.
type AdminUserController struct {
	users UserLister
	subs  *subscription.Service
}

func NewAdminUserController(users UserLister, subs *subscription.Service) *AdminUserController {
	return &AdminUserController{users: users, subs: subs}
}

// HandleListUsers returns one page of users with their subscription summary.
func (ac *AdminUserController) HandleListUsers(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit := queryLimit(c, 25)
	if limit > 100 {
		limit = 100
	}

	users, err := ac.users.List((page-1)*limit, limit)
	if err != nil {
		return internalError(c, "Failed to load users", err)
	}
	total, err := ac.users.Count()
	if err != nil {
		return internalError(c, "Failed to count users", err)
	}

	items := make([]fiber.Map, 0, len(users))
	for i := range users {
		u := &users[i]
		items = append(items, fiber.Map{
			"user":         u,
			"subscription": ac.subs.Status(u),
		})
	}
	return c.JSON(fiber.Map{
		"items": items,
		"page":  page,
		"limit": limit,
		"total": total,
	})
}

// HandleGrantSubscription activates a tier for a number of days.
func (ac *AdminUserController) HandleGrantSubscription(c *fiber.Ctx) error {
	var in subscription.GrantInput
	if handled, err := decodeAndValidate(c, &in); handled {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := ac.subs.GrantFromInput(ctx, c.Params("id"), in)
	if err != nil {
		if isNotFound(err) {
			return notFound(c, "User not found")
		}
		return internalError(c, "Failed to grant subscription", err)
	}
	return c.JSON(user)
}

// HandleRevokeSubscription clears the user's subscription.
func (ac *AdminUserController) HandleRevokeSubscription(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := ac.subs.Revoke(ctx, c.Params("id"))
	if err != nil {
		if isNotFound(err) {
			return notFound(c, "User not found")
		}
		return internalError(c, "Failed to revoke subscription", err)
	}
	return c.JSON(user)
}

// HandleSetAccessLevel promotes or demotes a user.
func (ac *AdminUserController) HandleSetAccessLevel(c *fiber.Ctx) error {
	var in subscription.AccessLevelInput
	if handled, err := decodeAndValidate(c, &in); handled {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := ac.subs.SetAccessLevel(ctx, c.Params("id"), in.AccessLevel)
	if err != nil {
		if isNotFound(err) {
			return notFound(c, "User not found")
		}
		return internalError(c, "Failed to update access level", err)
	}
	return c.JSON(user)
}
