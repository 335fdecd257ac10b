package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	operatorKey     = "operator"
	defaultOperator = "system"
)

// Operator resolves who is acting on the request, for audit columns.
// A valid bearer token wins, then the X-Operator header, then "system".
// With required set, requests without a valid token are refused.
func Operator(secret string, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader != "" {
			name, err := operatorFromToken(authHeader, secret)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"success": false,
					"message": "Unauthorized: Invalid token",
					"error":   err.Error(),
				})
			}
			c.Locals(operatorKey, name)
			return c.Next()
		}

		if required {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Missing Authorization header",
			})
		}

		name := strings.TrimSpace(c.Get("X-Operator"))
		if name == "" {
			name = defaultOperator
		}
		c.Locals(operatorKey, name)
		return c.Next()
	}
}

func operatorFromToken(authHeader, secret string) (string, error) {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", fmt.Errorf("invalid Authorization header format")
	}
	if secret == "" {
		return "", fmt.Errorf("token auth is not configured")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	for _, key := range []string{"username", "sub"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("token carries no username or sub claim")
}

// OperatorFrom returns the operator stored by Operator.
func OperatorFrom(c *fiber.Ctx) string {
	if v, ok := c.Locals(operatorKey).(string); ok && v != "" {
		return v
	}
	return defaultOperator
}
