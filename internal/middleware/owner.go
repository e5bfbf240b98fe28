package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	ownerKey    = "owner_id"
	OwnerHeader = "X-User-ID"
)

// RequireOwner resolves the owner id from the user_id query parameter or the
// X-User-ID header and rejects the request when neither is present.
func RequireOwner() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			owner := strings.TrimSpace(c.QueryParam("user_id"))
			if owner == "" {
				owner = strings.TrimSpace(c.Request().Header.Get(OwnerHeader))
			}
			if owner == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{
					"error": "user_id is required",
				})
			}
			c.Set(ownerKey, owner)
			return next(c)
		}
	}
}

// OwnerID returns the owner resolved by RequireOwner, or "".
func OwnerID(c echo.Context) string {
	owner, _ := c.Get(ownerKey).(string)
	return owner
}
