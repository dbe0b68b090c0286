package repository

import (
	"context"

	"github.com/fathoor/library-service/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// TokenRepository is the revocation list behind logout and refresh. Rows live
// until the token they blacklist would have expired anyway.
type TokenRepository interface {
	RevokeToken(ctx context.Context, tokenID string, expiresAt int64) (err error)
	IsTokenRevoked(ctx context.Context, tokenID string) (revoked bool, err error)
	DeleteExpiredTokens(ctx context.Context, now int64) (err error)
}

type TokenRepositoryImpl struct {
	db *sqlx.DB
}

func CreateNewTokenRepository(db *sqlx.DB) TokenRepository {
	return &TokenRepositoryImpl{db: db}
}

func (r *TokenRepositoryImpl) RevokeToken(ctx context.Context, tokenID string, expiresAt int64) (err error) {
	_, err = r.db.ExecContext(ctx, "INSERT INTO revoked_tokens(jti, expires_at) VALUES ($1, $2) ON CONFLICT (jti) DO NOTHING", tokenID, expiresAt)
	if err != nil {
		log.Error().Err(err).Str("component", "RevokeToken").Msg("")
		return errs.ErrInternalServer
	}

	return
}

func (r *TokenRepositoryImpl) IsTokenRevoked(ctx context.Context, tokenID string) (revoked bool, err error) {
	err = r.db.GetContext(ctx, &revoked, "SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)", tokenID)
	if err != nil {
		log.Error().Err(err).Str("component", "IsTokenRevoked").Msg("")
		return false, errs.ErrInternalServer
	}

	return
}

func (r *TokenRepositoryImpl) DeleteExpiredTokens(ctx context.Context, now int64) (err error) {
	_, err = r.db.ExecContext(ctx, "DELETE FROM revoked_tokens WHERE expires_at < $1", now)
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteExpiredTokens").Msg("")
		return errs.ErrInternalServer
	}

	return
}
