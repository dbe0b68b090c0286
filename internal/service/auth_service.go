package service

import (
	"context"
	"time"

	"github.com/fathoor/library-service/config"
	"github.com/fathoor/library-service/internal/domain"
	"github.com/fathoor/library-service/internal/dto"
	"github.com/fathoor/library-service/internal/repository"
	"github.com/fathoor/library-service/pkg/errs"
	"github.com/fathoor/library-service/pkg/utils"
	"github.com/fathoor/library-service/pkg/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, roleSlug string, payload dto.RegisterRequest) (resp dto.UserResponse, err error)
	Login(ctx context.Context, payload dto.LoginRequest) (resp dto.LoginResponse, err error)
	CurrentUser(ctx context.Context, token string) (user domain.User, claims utils.TokenClaims, err error)
	Refresh(ctx context.Context, user domain.User, claims utils.TokenClaims) (resp dto.RefreshResponse, err error)
	Logout(ctx context.Context, claims utils.TokenClaims) (err error)
}

type AuthServiceImpl struct {
	userRepo  repository.UserRepository
	roleRepo  repository.RoleRepository
	tokenRepo repository.TokenRepository
	config    config.Config
}

func CreateNewAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, tokenRepo repository.TokenRepository, config config.Config) AuthService {
	return &AuthServiceImpl{userRepo: userRepo, roleRepo: roleRepo, tokenRepo: tokenRepo, config: config}
}

// Register creates the account under the role named by the registration path
// segment. No token is issued; the caller logs in afterwards.
func (s *AuthServiceImpl) Register(ctx context.Context, roleSlug string, payload dto.RegisterRequest) (resp dto.UserResponse, err error) {
	if err = validation.ValidateStruct(payload); err != nil {
		return
	}

	role, err := s.roleRepo.GetRoleBySlug(ctx, roleSlug)
	if err != nil {
		return
	}

	if role.ID == "" {
		return resp, errs.ErrRoleNotFound
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, payload.Email)
	if err != nil {
		return
	}

	if existing.ID != "" {
		return resp, errs.ErrEmailAlreadyUsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Str("component", "Register").Msg("")
		return resp, errs.ErrInternalServer
	}

	user := domain.User{
		ID:             uuid.NewString(),
		Name:           payload.Name,
		Email:          payload.Email,
		HashedPassword: string(hash),
		RoleID:         role.ID,
	}

	if err = s.userRepo.AddUser(ctx, user); err != nil {
		return
	}

	resp = dto.UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  role.Name,
	}

	return
}

func (s *AuthServiceImpl) Login(ctx context.Context, payload dto.LoginRequest) (resp dto.LoginResponse, err error) {
	if err = validation.ValidateStruct(payload); err != nil {
		return
	}

	user, err := s.userRepo.GetUserByEmail(ctx, payload.Email)
	if err != nil {
		return
	}

	if user.ID == "" {
		return resp, errs.ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(payload.Password))
	if err != nil {
		return resp, errs.ErrInvalidCredentials
	}

	expiry := time.Duration(s.config.JWTConfig.ExpiryMinutes) * time.Minute
	token, _, err := utils.CreateJWTToken(user.ID, user.Name, user.RoleID, s.config.JWTConfig.JWTSecret, expiry)
	if err != nil {
		log.Error().Err(err).Str("component", "Login").Msg("")
		return resp, errs.ErrInternalServer
	}

	roleName := ""
	if user.RoleName != nil {
		roleName = *user.RoleName
	}

	resp = dto.LoginResponse{
		User: dto.UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  roleName,
		},
		Token:     "bearer " + token,
		ExpiresIn: int64(expiry.Seconds()),
	}

	return
}

// CurrentUser resolves a raw bearer token to its user, rejecting revoked ids.
func (s *AuthServiceImpl) CurrentUser(ctx context.Context, token string) (user domain.User, claims utils.TokenClaims, err error) {
	claims, err = utils.ParseJWTToken(token, s.config.JWTConfig.JWTSecret)
	if err != nil {
		return
	}

	revoked, err := s.tokenRepo.IsTokenRevoked(ctx, claims.TokenID)
	if err != nil {
		return
	}

	if revoked {
		return user, claims, errs.ErrInvalidToken
	}

	user, err = s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return
	}

	if user.ID == "" {
		return user, claims, errs.ErrInvalidToken
	}

	return
}

// Refresh issues a fresh token and revokes the presented one, so a token can
// only be refreshed once.
func (s *AuthServiceImpl) Refresh(ctx context.Context, user domain.User, claims utils.TokenClaims) (resp dto.RefreshResponse, err error) {
	refreshWindow := time.Duration(s.config.JWTConfig.RefreshWindowMinutes) * time.Minute
	if time.Now().After(time.Unix(claims.IssuedAt, 0).Add(refreshWindow)) {
		return resp, errs.ErrRefreshWindow
	}

	if err = s.tokenRepo.RevokeToken(ctx, claims.TokenID, claims.ExpiresAt*1000); err != nil {
		return
	}

	expiry := time.Duration(s.config.JWTConfig.ExpiryMinutes) * time.Minute
	token, _, err := utils.CreateJWTToken(user.ID, user.Name, user.RoleID, s.config.JWTConfig.JWTSecret, expiry)
	if err != nil {
		log.Error().Err(err).Str("component", "Refresh").Msg("")
		return resp, errs.ErrInternalServer
	}

	resp = dto.RefreshResponse{
		Token:     "bearer " + token,
		ExpiresIn: int64(expiry.Seconds()),
	}

	return
}

func (s *AuthServiceImpl) Logout(ctx context.Context, claims utils.TokenClaims) (err error) {
	return s.tokenRepo.RevokeToken(ctx, claims.TokenID, claims.ExpiresAt*1000)
}
