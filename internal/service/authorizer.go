package service

import (
	"context"

	"github.com/fathoor/library-service/internal/repository"
	"github.com/fathoor/library-service/pkg/errs"
)

// Authorizer decides whether a role may perform the operation guarded by a
// permission slug. The check is a plain existence query, evaluated on every
// request.
type Authorizer interface {
	Authorize(ctx context.Context, roleID string, permissionSlug string) error
}

type AuthorizerImpl struct {
	roleRepo repository.RoleRepository
}

func CreateNewAuthorizer(roleRepo repository.RoleRepository) Authorizer {
	return &AuthorizerImpl{roleRepo: roleRepo}
}

func (a *AuthorizerImpl) Authorize(ctx context.Context, roleID string, permissionSlug string) error {
	if roleID == "" {
		return errs.ErrNoPermission
	}

	allowed, err := a.roleRepo.RoleHasPermission(ctx, roleID, permissionSlug)
	if err != nil {
		return err
	}

	if !allowed {
		return errs.ErrNoPermission
	}

	return nil
}
