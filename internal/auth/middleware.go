package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const ContextAuthorizationKey = "authorization"

// RequireAuthorization требует заголовок Authorization и сохраняет его в контексте
// для проброса в вышестоящие сервисы. Подпись токена здесь не проверяется.
func RequireAuthorization() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			if header == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization header required"})
			}

			c.Set(ContextAuthorizationKey, header)
			return next(c)
		}
	}
}

// AuthorizationFromContext возвращает сохраненный заголовок Authorization.
func AuthorizationFromContext(c echo.Context) (string, bool) {
	value, ok := c.Get(ContextAuthorizationKey).(string)
	return value, ok && value != ""
}
