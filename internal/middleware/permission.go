package middleware

import (
	"github.com/fathoor/library-service/internal/domain"
	"github.com/fathoor/library-service/internal/service"
	"github.com/fathoor/library-service/pkg/errs"
	"github.com/fathoor/library-service/pkg/response"
	"github.com/labstack/echo/v4"
)

// RequirePermission gates a route on the authenticated user's role holding
// the permission slug. Runs behind JWTAuth.
func RequirePermission(authorizer service.Authorizer, permissionSlug string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(ContextKeyUser).(domain.User)
			if !ok {
				return response.WriteErrorResponse(c, errs.ErrInvalidToken)
			}

			if err := authorizer.Authorize(c.Request().Context(), user.RoleID, permissionSlug); err != nil {
				return response.WriteErrorResponse(c, err)
			}

			return next(c)
		}
	}
}
