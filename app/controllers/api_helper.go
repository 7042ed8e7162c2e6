package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

var validate = validator.New()

func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return jsonError(c, fiber.StatusBadRequest, "bad_request", message)
}

func notFound(c *fiber.Ctx, message string) error {
	return jsonError(c, fiber.StatusNotFound, "not_found", message)
}

func internalError(c *fiber.Ctx, message string, err error) error {
	log.Errorf("[API] %s %s: %s: %v", c.Method(), c.Path(), message, err)
	return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", message)
}

// validationFailed answers validator errors with the offending fields.
func validationFailed(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "validation_failed",
		"message": "invalid fields: " + strings.Join(fields, ", "),
	})
}

// decodeStrict parses the JSON body into dst and rejects unknown fields.
func decodeStrict(c *fiber.Ctx, dst interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// decodeAndValidate is decodeStrict followed by struct validation. It writes the error
// response itself and returns handled=true when the request was rejected.
func decodeAndValidate(c *fiber.Ctx, dst interface{}) (handled bool, err error) {
	if err := decodeStrict(c, dst); err != nil {
		return true, badRequest(c, err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		return true, validationFailed(c, err)
	}
	return false, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// queryLimit reads ?limit=, falling back to def for missing or invalid values.
func queryLimit(c *fiber.Ctx, def int) int {
	raw := c.Query("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
