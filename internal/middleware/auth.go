package middleware

import (
	"strings"

	"github.com/fathoor/library-service/internal/service"
	"github.com/fathoor/library-service/pkg/errs"
	"github.com/fathoor/library-service/pkg/response"
	"github.com/labstack/echo/v4"
)

const (
	ContextKeyUser   = "user"
	ContextKeyClaims = "claims"
)

// JWTAuth resolves the bearer token to its user and stores both on the echo
// context for the handlers behind it.
func JWTAuth(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)

			parts := strings.Fields(header)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return response.WriteErrorResponse(c, errs.ErrInvalidToken)
			}

			user, claims, err := authService.CurrentUser(c.Request().Context(), parts[1])
			if err != nil {
				return response.WriteErrorResponse(c, err)
			}

			c.Set(ContextKeyUser, user)
			c.Set(ContextKeyClaims, claims)

			return next(c)
		}
	}
}
