package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/boardroomlabs/boardroomd/internal/logging"
)

// userIDKey is the echo context key holding the authenticated user ID.
const userIDKey = "auth.user_id"

// Middleware returns echo middleware that requires a valid bearer token and
// records the authenticated user ID on the request context.
func Middleware(tokens *TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authorization header must be a bearer token")
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(userIDKey, userID)
			ctx := logging.WithUserID(c.Request().Context(), userID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// UserID returns the authenticated user ID set by Middleware, or "" when
// the request is unauthenticated.
func UserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}
