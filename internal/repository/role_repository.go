package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/fathoor/library-service/internal/domain"
	pkgdto "github.com/fathoor/library-service/pkg/dto"
	"github.com/fathoor/library-service/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type RoleRepository interface {
	GetRoleByID(ctx context.Context, id string) (data domain.Role, err error)
	GetRoleBySlug(ctx context.Context, slug string) (data domain.Role, err error)
	GetRoleByName(ctx context.Context, name string, excludeID string) (data domain.Role, err error)
	GetRoles(ctx context.Context, filter pkgdto.Filter) (data []domain.Role, err error)
	CountRoles(ctx context.Context) (count int64, err error)
	AddRole(ctx context.Context, data domain.Role) (err error)
	UpdateRole(ctx context.Context, data domain.Role) (err error)
	DeleteRole(ctx context.Context, id string) (err error)
	RoleHasPermission(ctx context.Context, roleID string, permissionSlug string) (allowed bool, err error)
}

type RoleRepositoryImpl struct {
	db *sqlx.DB
}

func CreateNewRoleRepository(db *sqlx.DB) RoleRepository {
	return &RoleRepositoryImpl{db: db}
}

func (r *RoleRepositoryImpl) GetRoleByID(ctx context.Context, id string) (data domain.Role, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT * FROM roles WHERE id = $1", id)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, nil
		}
		log.Error().Err(err).Str("component", "GetRoleByID").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *RoleRepositoryImpl) GetRoleBySlug(ctx context.Context, slug string) (data domain.Role, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT * FROM roles WHERE slug = $1", slug)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, nil
		}
		log.Error().Err(err).Str("component", "GetRoleBySlug").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

// GetRoleByName looks up a role by exact name. An empty excludeID keeps the
// exclusion out of the query; the id column is uuid and an empty string would
// fail the bind.
func (r *RoleRepositoryImpl) GetRoleByName(ctx context.Context, name string, excludeID string) (data domain.Role, err error) {
	query := "SELECT * FROM roles WHERE name = $1"
	args := []interface{}{name}

	if excludeID != "" {
		query = "SELECT * FROM roles WHERE name = $1 AND id != $2"
		args = append(args, excludeID)
	}

	row := r.db.QueryRowxContext(ctx, query, args...)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, nil
		}
		log.Error().Err(err).Str("component", "GetRoleByName").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *RoleRepositoryImpl) GetRoles(ctx context.Context, filter pkgdto.Filter) (data []domain.Role, err error) {
	query := "SELECT * FROM roles ORDER BY created_at"

	args := make(map[string]interface{})

	if filter.Limit != 0 {
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = filter.Limit
		args["offset"] = filter.Offset()
	}

	nstmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("component", "GetRoles").Msg("")
		return nil, errs.ErrInternalServer
	}

	err = nstmt.SelectContext(ctx, &data, args)
	if err != nil {
		log.Error().Err(err).Str("component", "GetRoles").Msg("")
		return nil, errs.ErrInternalServer
	}

	return data, nil
}

func (r *RoleRepositoryImpl) CountRoles(ctx context.Context) (count int64, err error) {
	err = r.db.GetContext(ctx, &count, "SELECT COUNT(id) FROM roles")
	if err != nil {
		log.Error().Err(err).Str("component", "CountRoles").Msg("")
		return 0, errs.ErrInternalServer
	}

	return
}

func (r *RoleRepositoryImpl) AddRole(ctx context.Context, data domain.Role) (err error) {
	timestamp := time.Now().UnixMilli()
	data.CreatedAt = timestamp
	data.UpdatedAt = timestamp

	_, err = r.db.NamedExecContext(ctx, "INSERT INTO roles(id, name, slug, created_at, updated_at) VALUES (:id, :name, :slug, :created_at, :updated_at)", data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddRole").Msg("")
		return errs.ErrInternalServer
	}

	return
}

func (r *RoleRepositoryImpl) UpdateRole(ctx context.Context, data domain.Role) (err error) {
	data.UpdatedAt = time.Now().UnixMilli()

	_, err = r.db.NamedExecContext(ctx, "UPDATE roles SET name=:name, slug=:slug, updated_at=:updated_at WHERE id=:id", data)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateRole").Msg("")
		return errs.ErrInternalServer
	}

	return
}

// DeleteRole removes the role together with its permission assignments.
func (r *RoleRepositoryImpl) DeleteRole(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteRole").Msg("")
		return errs.ErrInternalServer
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM role_permissions WHERE role_id = $1", id)
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteRole").Msg("")
		tx.Rollback()
		return errs.ErrInternalServer
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM roles WHERE id = $1", id)
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteRole").Msg("")
		tx.Rollback()
		return errs.ErrInternalServer
	}

	err = tx.Commit()
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteRole").Msg("")
		return errs.ErrInternalServer
	}

	return
}

func (r *RoleRepositoryImpl) RoleHasPermission(ctx context.Context, roleID string, permissionSlug string) (allowed bool, err error) {
	err = r.db.GetContext(ctx, &allowed, "SELECT EXISTS (SELECT 1 FROM role_permissions JOIN permissions ON permissions.id = role_permissions.permission_id WHERE role_permissions.role_id = $1 AND permissions.slug = $2)", roleID, permissionSlug)
	if err != nil {
		log.Error().Err(err).Str("component", "RoleHasPermission").Msg("")
		return false, errs.ErrInternalServer
	}

	return
}
