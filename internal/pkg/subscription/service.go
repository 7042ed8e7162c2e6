package subscription

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"

	"github.com/tahlil-one/tahlil/app/models"
	"github.com/tahlil-one/tahlil/internal/pkg/entitlements"
	"gorm.io/gorm"
)

var (
	ErrUserRequired = errors.New("user is required")
	ErrInvalidTier  = errors.New("tier must be one of Beginner, Advanced, Premium")
	ErrInvalidDays  = errors.New("days must be greater than zero")
	ErrInvalidLevel = errors.New("access level must be Limited or admin")
)

// Service applies subscription state changes to users.
type Service struct {
	repo     Repository
	validate *validator.Validate
	now      func() time.Time
}

// NewService creates a subscription service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New(), now: time.Now}
}

// NewServiceFromDB creates a subscription service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// WithClock replaces the time source, used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// EnforceExpiry persists the active -> expired transition of a lapsed subscription and
// updates user in place. It reports whether this call observed the transition.
func (s *Service) EnforceExpiry(ctx context.Context, user *models.User) (bool, error) {
	_ = ctx
	if user == nil {
		return false, ErrUserRequired
	}
	if !entitlements.IsLapsed(user.SubscriptionState(), s.now()) {
		return false, nil
	}

	changed, err := s.repo.MarkExpired(user.UserID)
	if err != nil {
		return false, fmt.Errorf("expire subscription of %s: %w", user.UserID, err)
	}
	user.SubscriptionStatus = entitlements.StatusExpired
	if changed {
		log.Infof("[Subscription] Subscription of user %s expired at %s", user.UserID, user.SubscriptionEndDate.UTC().Format(time.RFC3339))
	}
	return changed, nil
}

// Evaluate enforces expiry and then decides access for the required tier.
func (s *Service) Evaluate(ctx context.Context, user *models.User, required entitlements.Tier) (bool, error) {
	if user == nil {
		return false, nil
	}
	if _, err := s.EnforceExpiry(ctx, user); err != nil {
		return false, err
	}
	return entitlements.HasAccess(user.SubscriptionState(), required, s.now()), nil
}

// Status builds the summary for the subscription status endpoint.
func (s *Service) Status(user *models.User) StatusView {
	now := s.now()
	view := StatusView{
		SubscriptionStatus:  user.SubscriptionStatus,
		SubscriptionType:    user.SubscriptionType,
		HasAccess:           entitlements.HasAccess(user.SubscriptionState(), entitlements.TierAny, now),
		SubscriptionEndDate: user.SubscriptionEndDate,
		AccessLevel:         user.AccessLevel,
	}
	if view.SubscriptionStatus == "" {
		view.SubscriptionStatus = entitlements.StatusNone
	}
	if view.SubscriptionType == "" {
		view.SubscriptionType = string(entitlements.TierNone)
	}
	if user.SubscriptionEndDate != nil {
		days := daysRemaining(*user.SubscriptionEndDate, now)
		view.DaysRemaining = &days
	}
	return view
}

func daysRemaining(end, now time.Time) int {
	if !end.After(now) {
		return 0
	}
	return int(math.Floor(end.Sub(now).Hours() / 24))
}

// Grant activates tier for the given number of days starting now.
func (s *Service) Grant(ctx context.Context, userID string, tier entitlements.Tier, days int) (*models.User, error) {
	_ = ctx
	t := entitlements.ParseTier(string(tier))
	if !entitlements.IsConcrete(t) {
		return nil, ErrInvalidTier
	}
	if days <= 0 {
		return nil, ErrInvalidDays
	}

	start := s.now().UTC()
	end := start.AddDate(0, 0, days)
	if err := s.repo.SaveSubscription(userID, t, entitlements.StatusActive, &start, &end); err != nil {
		return nil, err
	}
	log.Infof("[Subscription] Granted %s to user %s until %s", t, userID, end.Format(time.RFC3339))
	return s.repo.GetUser(userID)
}

// GrantFromInput validates an admin request and grants the subscription.
func (s *Service) GrantFromInput(ctx context.Context, userID string, in GrantInput) (*models.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	return s.Grant(ctx, userID, entitlements.Tier(in.Tier), in.Days)
}

// Revoke removes any subscription from the user.
func (s *Service) Revoke(ctx context.Context, userID string) (*models.User, error) {
	_ = ctx
	if err := s.repo.SaveSubscription(userID, entitlements.TierNone, entitlements.StatusNone, nil, nil); err != nil {
		return nil, err
	}
	log.Infof("[Subscription] Revoked subscription of user %s", userID)
	return s.repo.GetUser(userID)
}

// SetAccessLevel promotes or demotes a user.
func (s *Service) SetAccessLevel(ctx context.Context, userID, level string) (*models.User, error) {
	_ = ctx
	if level != entitlements.AccessLevelLimited && level != entitlements.AccessLevelAdmin {
		return nil, ErrInvalidLevel
	}
	if err := s.repo.SaveAccessLevel(userID, level); err != nil {
		return nil, err
	}
	log.Infof("[Subscription] Access level of user %s set to %s", userID, level)
	return s.repo.GetUser(userID)
}
