package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

type OperatorContextKey string

const OperatorKey OperatorContextKey = "operator"

// OperatorMiddleware extracts the X-AMO-Operator tenant header and adds it to the context
func OperatorMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		operator := c.Get("X-AMO-Operator")
		if operator != "" {
			ctx := context.WithValue(c.UserContext(), OperatorKey, operator)
			c.SetUserContext(ctx)
			c.Locals("operator", operator)
		}
		return c.Next()
	}
}

// OperatorFromContext returns the tenant operator code, or "" when the header was absent
func OperatorFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(OperatorKey).(string); ok {
		return v
	}
	return ""
}
