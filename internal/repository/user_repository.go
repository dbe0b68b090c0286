package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/fathoor/library-service/internal/domain"
	"github.com/fathoor/library-service/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (res domain.User, err error)
	GetUserByID(ctx context.Context, id string) (data domain.User, err error)
	AddUser(ctx context.Context, data domain.User) (err error)
	CountUsersByRoleID(ctx context.Context, roleID string) (count int64, err error)
}

type UserRepositoryImpl struct {
	db *sqlx.DB
}

func CreateNewUserRepository(db *sqlx.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) GetUserByEmail(ctx context.Context, email string) (res domain.User, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT users.*, roles.name AS role_name FROM users LEFT JOIN roles ON roles.id = users.role_id WHERE users.email = $1 AND users.deleted_at IS NULL", email)
	err = row.StructScan(&res)
	if err != nil {
		if err == sql.ErrNoRows {
			return res, nil
		}
		log.Error().Err(err).Str("component", "GetUserByEmail").Msg("")
		return res, errs.ErrInternalServer
	}

	return
}

func (r *UserRepositoryImpl) GetUserByID(ctx context.Context, id string) (data domain.User, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT users.*, roles.name AS role_name FROM users LEFT JOIN roles ON roles.id = users.role_id WHERE users.id = $1 AND users.deleted_at IS NULL", id)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, nil
		}
		log.Error().Err(err).Str("component", "GetUserByID").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *UserRepositoryImpl) AddUser(ctx context.Context, data domain.User) (err error) {
	timestamp := time.Now().UnixMilli()
	data.CreatedAt = timestamp
	data.UpdatedAt = timestamp

	_, err = r.db.NamedExecContext(ctx, "INSERT INTO users(id, name, email, hashed_password, role_id, created_at, updated_at) VALUES (:id, :name, :email, :hashed_password, :role_id, :created_at, :updated_at)", data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddUser").Msg("")
		return errs.ErrInternalServer
	}

	return
}

func (r *UserRepositoryImpl) CountUsersByRoleID(ctx context.Context, roleID string) (count int64, err error) {
	err = r.db.GetContext(ctx, &count, "SELECT COUNT(id) FROM users WHERE role_id = $1 AND deleted_at IS NULL", roleID)
	if err != nil {
		log.Error().Err(err).Str("component", "CountUsersByRoleID").Msg("")
		return 0, errs.ErrInternalServer
	}

	return
}
