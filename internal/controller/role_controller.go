package controller

import (
	"github.com/fathoor/library-service/internal/dto"
	"github.com/fathoor/library-service/internal/middleware"
	"github.com/fathoor/library-service/internal/service"
	pkgdto "github.com/fathoor/library-service/pkg/dto"
	"github.com/fathoor/library-service/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type RoleController struct {
	service service.RoleService
}

func CreateRoleController(e *echo.Group, service service.RoleService, authorizer service.Authorizer, isLoggedIn echo.MiddlewareFunc) {
	rc := RoleController{
		service: service,
	}
	e.GET("/roles", rc.GetRoles, isLoggedIn, middleware.RequirePermission(authorizer, "view-role"))
	e.GET("/roles/:id", rc.GetRole, isLoggedIn, middleware.RequirePermission(authorizer, "view-role"))
	e.POST("/roles", rc.AddRole, isLoggedIn, middleware.RequirePermission(authorizer, "create-role"))
	e.PUT("/roles/:id", rc.UpdateRole, isLoggedIn, middleware.RequirePermission(authorizer, "edit-role"))
	e.DELETE("/roles/:id", rc.DeleteRole, isLoggedIn, middleware.RequirePermission(authorizer, "delete-role"))
}

func (rc *RoleController) GetRoles(e echo.Context) error {
	filter := pkgdto.ParseFilter(e)

	resp, err := rc.service.GetRoles(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, "Roles retrieved successfully", resp)
}

func (rc *RoleController) GetRole(e echo.Context) error {
	resp, err := rc.service.GetRole(e.Request().Context(), e.Param("id"))
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, "Role details fetched successfully", resp)
}

func (rc *RoleController) AddRole(e echo.Context) error {
	payload := dto.RoleRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "AddRole").Msg("")
	}

	resp, err := rc.service.AddRole(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, "Role created successfully", resp)
}

func (rc *RoleController) UpdateRole(e echo.Context) error {
	payload := dto.RoleRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateRole").Msg("")
	}

	payload.ID = e.Param("id")
	resp, err := rc.service.UpdateRole(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, "Role updated successfully", resp)
}

func (rc *RoleController) DeleteRole(e echo.Context) error {
	err := rc.service.DeleteRole(e.Request().Context(), e.Param("id"))
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, "Role deleted successfully", nil)
}
