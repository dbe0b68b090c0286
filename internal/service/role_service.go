package service

import (
	"context"

	"github.com/fathoor/library-service/internal/domain"
	"github.com/fathoor/library-service/internal/dto"
	"github.com/fathoor/library-service/internal/repository"
	pkgdto "github.com/fathoor/library-service/pkg/dto"
	"github.com/fathoor/library-service/pkg/errs"
	"github.com/fathoor/library-service/pkg/validation"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type RoleService interface {
	GetRoles(ctx context.Context, filter pkgdto.Filter) (resp dto.RoleListResponse, err error)
	GetRole(ctx context.Context, id string) (resp dto.RoleResponse, err error)
	AddRole(ctx context.Context, payload dto.RoleRequest) (resp dto.RoleResponse, err error)
	UpdateRole(ctx context.Context, payload dto.RoleRequest) (resp dto.RoleResponse, err error)
	DeleteRole(ctx context.Context, id string) (err error)
}

type RoleServiceImpl struct {
	roleRepo repository.RoleRepository
	userRepo repository.UserRepository
}

func CreateNewRoleService(roleRepo repository.RoleRepository, userRepo repository.UserRepository) RoleService {
	return &RoleServiceImpl{roleRepo: roleRepo, userRepo: userRepo}
}

func (s *RoleServiceImpl) GetRoles(ctx context.Context, filter pkgdto.Filter) (resp dto.RoleListResponse, err error) {
	roles, err := s.roleRepo.GetRoles(ctx, filter)
	if err != nil {
		return
	}

	total, err := s.roleRepo.CountRoles(ctx)
	if err != nil {
		return
	}

	resp.Roles = make([]dto.RoleResponse, 0, len(roles))
	for _, role := range roles {
		resp.Roles = append(resp.Roles, dto.RoleResponse{
			ID:   role.ID,
			Name: role.Name,
			Slug: role.Slug,
		})
	}
	resp.Total = total

	return
}

func (s *RoleServiceImpl) GetRole(ctx context.Context, id string) (resp dto.RoleResponse, err error) {
	if uuid.Validate(id) != nil {
		return resp, errs.ErrRoleNotFound
	}

	role, err := s.roleRepo.GetRoleByID(ctx, id)
	if err != nil {
		return
	}

	if role.ID == "" {
		return resp, errs.ErrRoleNotFound
	}

	resp = dto.RoleResponse{
		ID:   role.ID,
		Name: role.Name,
		Slug: role.Slug,
	}

	return
}

func (s *RoleServiceImpl) AddRole(ctx context.Context, payload dto.RoleRequest) (resp dto.RoleResponse, err error) {
	if err = validation.ValidateStruct(payload); err != nil {
		return
	}

	existing, err := s.roleRepo.GetRoleByName(ctx, payload.Name, "")
	if err != nil {
		return
	}

	if existing.ID != "" {
		return resp, errs.ErrRoleNameTaken
	}

	role := domain.Role{
		ID:   uuid.NewString(),
		Name: payload.Name,
		Slug: slug.Make(payload.Name),
	}

	if err = s.roleRepo.AddRole(ctx, role); err != nil {
		return
	}

	resp = dto.RoleResponse{
		ID:   role.ID,
		Name: role.Name,
		Slug: role.Slug,
	}

	return
}

// UpdateRole renames the role and rederives its slug from the new name.
func (s *RoleServiceImpl) UpdateRole(ctx context.Context, payload dto.RoleRequest) (resp dto.RoleResponse, err error) {
	if err = validation.ValidateStruct(payload); err != nil {
		return
	}

	if uuid.Validate(payload.ID) != nil {
		return resp, errs.ErrRoleNotFound
	}

	role, err := s.roleRepo.GetRoleByID(ctx, payload.ID)
	if err != nil {
		return
	}

	if role.ID == "" {
		return resp, errs.ErrRoleNotFound
	}

	existing, err := s.roleRepo.GetRoleByName(ctx, payload.Name, payload.ID)
	if err != nil {
		return
	}

	if existing.ID != "" {
		return resp, errs.ErrRoleNameTaken
	}

	role.Name = payload.Name
	role.Slug = slug.Make(payload.Name)

	if err = s.roleRepo.UpdateRole(ctx, role); err != nil {
		return
	}

	resp = dto.RoleResponse{
		ID:   role.ID,
		Name: role.Name,
		Slug: role.Slug,
	}

	return
}

// DeleteRole refuses while any user still references the role.
func (s *RoleServiceImpl) DeleteRole(ctx context.Context, id string) (err error) {
	if uuid.Validate(id) != nil {
		return errs.ErrRoleNotFound
	}

	role, err := s.roleRepo.GetRoleByID(ctx, id)
	if err != nil {
		return
	}

	if role.ID == "" {
		return errs.ErrRoleNotFound
	}

	count, err := s.userRepo.CountUsersByRoleID(ctx, id)
	if err != nil {
		return
	}

	if count > 0 {
		return errs.ErrRoleInUse
	}

	return s.roleRepo.DeleteRole(ctx, id)
}
