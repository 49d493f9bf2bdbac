package jwt

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/apvclinic/apv/pkg/account"
)

// LocalsKey is where the middleware stores the resolved account on the
// request context.
const LocalsKey = "veterinario"

// AccountFinder resolves a token subject back to an account.
type AccountFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (account.Account, error)
}

// NewAuthMiddleware returns a Fiber middleware that validates Bearer JWT
// (HS256) and loads the subject account.
// On success the account is available via c.Locals(LocalsKey).
func NewAuthMiddleware(secret, expectedIssuer string, accounts AccountFinder) fiber.Handler {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"msg": "missing Authorization header"})
		}
		// Support both "Bearer <token>" and "<token>" (no prefix).
		var tokenStr string
		if strings.Contains(authHeader, " ") {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = strings.TrimSpace(parts[1])
			} else {
				tokenStr = strings.TrimSpace(authHeader)
			}
		} else {
			tokenStr = strings.TrimSpace(authHeader)
		}
		if tokenStr == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"msg": "empty token"})
		}
		token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.ErrUnauthorized
			}
			return secretBytes, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
		if err != nil || !token.Valid {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"msg": "invalid or expired token"})
		}
		claims, ok := token.Claims.(*Claims)
		if !ok {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"msg": "invalid token claims"})
		}
		if expectedIssuer != "" && claims.Issuer != expectedIssuer {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"msg": "invalid token issuer"})
		}
		id, err := uuid.Parse(claims.Subject)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"msg": "invalid token subject"})
		}
		acc, err := accounts.GetByID(c.Context(), id)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"msg": "unknown account"})
		}
		c.Locals(LocalsKey, acc)
		return c.Next()
	}
}

// AccountFromCtx returns the account the auth middleware resolved for
// this request.
func AccountFromCtx(c *fiber.Ctx) (account.Account, bool) {
	acc, ok := c.Locals(LocalsKey).(account.Account)
	return acc, ok
}
