package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-service/internal/pagination"
	apperrors "github.com/spec-kit/staff-service/pkg/util/errorutil"
)

func connectionArgs(c *fiber.Ctx) (pagination.Args, error) {
	var args pagination.Args
	if raw := c.Query("first"); raw != "" {
		first, err := strconv.Atoi(raw)
		if err != nil {
			return args, apperrors.NewValidationError("first must be an integer", map[string]any{"field": "first", "value": raw})
		}
		args.First = &first
	}
	if after := c.Query("after"); after != "" {
		args.After = &after
	}
	return args, nil
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil
	}
	return &v
}

func boolQuery(c *fiber.Ctx, key string) (bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.NewValidationError(key+" must be a boolean", map[string]any{"field": key, "value": raw})
	}
	return v, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"reason": err.Error()})
	}
	return nil
}

func data(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(fiber.Map{"data": v})
}
