package controller

import (
	"github.com/fathoor/library-service/internal/domain"
	"github.com/fathoor/library-service/internal/dto"
	"github.com/fathoor/library-service/internal/middleware"
	"github.com/fathoor/library-service/internal/service"
	"github.com/fathoor/library-service/pkg/errs"
	"github.com/fathoor/library-service/pkg/response"
	"github.com/fathoor/library-service/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	service service.AuthService
}

func CreateAuthController(e *echo.Group, service service.AuthService, isLoggedIn echo.MiddlewareFunc) {
	ac := AuthController{
		service: service,
	}
	e.POST("/:roleType/register", ac.Register)
	e.POST("/login", ac.Login)
	e.POST("/logout", ac.Logout, isLoggedIn)
	e.POST("/refresh", ac.Refresh, isLoggedIn)
	e.POST("/me", ac.Me, isLoggedIn)
}

func (ac *AuthController) Register(e echo.Context) error {
	payload := dto.RegisterRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "Register").Msg("")
	}

	resp, err := ac.service.Register(e.Request().Context(), e.Param("roleType"), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, "User registered successfully", map[string]interface{}{"user": resp})
}

func (ac *AuthController) Login(e echo.Context) error {
	payload := dto.LoginRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "Login").Msg("")
	}

	resp, err := ac.service.Login(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, "User login successfully", resp)
}

func (ac *AuthController) Logout(e echo.Context) error {
	claims, ok := e.Get(middleware.ContextKeyClaims).(utils.TokenClaims)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrInvalidToken)
	}

	if err := ac.service.Logout(e.Request().Context(), claims); err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, "Successfully logged out", nil)
}

func (ac *AuthController) Refresh(e echo.Context) error {
	user, ok := e.Get(middleware.ContextKeyUser).(domain.User)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrInvalidToken)
	}

	claims, ok := e.Get(middleware.ContextKeyClaims).(utils.TokenClaims)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrInvalidToken)
	}

	resp, err := ac.service.Refresh(e.Request().Context(), user, claims)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, "Token refreshed successfully", resp)
}

func (ac *AuthController) Me(e echo.Context) error {
	user, ok := e.Get(middleware.ContextKeyUser).(domain.User)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrInvalidToken)
	}

	roleName := ""
	if user.RoleName != nil {
		roleName = *user.RoleName
	}

	resp := dto.UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  roleName,
	}

	return response.WriteSuccessResponse(e, "Details fetched successfully", map[string]interface{}{"user": resp})
}
