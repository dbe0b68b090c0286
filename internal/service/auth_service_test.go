package service

import (
	"context"
	"strings"
	"testing"

	"github.com/fathoor/library-service/config"
	"github.com/fathoor/library-service/internal/dto"
	"github.com/fathoor/library-service/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authServiceFixture struct {
	userRepo  *memoryUserRepository
	roleRepo  *memoryRoleRepository
	tokenRepo *memoryTokenRepository
	service   AuthService
}

func newAuthServiceFixture() authServiceFixture {
	userRepo := newMemoryUserRepository()
	roleRepo := newMemoryRoleRepository()
	tokenRepo := newMemoryTokenRepository()

	conf := config.Config{
		JWTConfig: config.JWTConfig{
			JWTSecret:            "test-secret",
			ExpiryMinutes:        60,
			RefreshWindowMinutes: 20160,
		},
	}

	return authServiceFixture{
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		tokenRepo: tokenRepo,
		service:   CreateNewAuthService(userRepo, roleRepo, tokenRepo, conf),
	}
}

func TestRegister(t *testing.T) {
	type TestCase struct {
		Name        string
		RoleSlug    string
		Request     dto.RegisterRequest
		Seed        func(f authServiceFixture)
		ExpectedErr error
	}

	testCases := []TestCase{
		{
			Name:     "Valid request",
			RoleSlug: "user",
			Request:  dto.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "secret1"},
		},
		{
			Name:        "Unknown role slug",
			RoleSlug:    "superuser",
			Request:     dto.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "secret1"},
			ExpectedErr: errs.ErrRoleNotFound,
		},
		{
			Name:     "Email already used",
			RoleSlug: "user",
			Request:  dto.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "secret1"},
			Seed: func(f authServiceFixture) {
				_, err := f.service.Register(context.Background(), "user", dto.RegisterRequest{
					Name: "Earlier Alice", Email: "alice@example.com", Password: "secret1",
				})
				require.NoError(t, err)
			},
			ExpectedErr: errs.ErrEmailAlreadyUsed,
		},
		{
			Name:        "Invalid email",
			RoleSlug:    "user",
			Request:     dto.RegisterRequest{Name: "Alice", Email: "not-an-email", Password: "secret1"},
			ExpectedErr: errs.NewValidationError("The email field must be a valid email address"),
		},
		{
			Name:        "Short password",
			RoleSlug:    "user",
			Request:     dto.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "12345"},
			ExpectedErr: errs.NewValidationError("The password field must be at least 6 characters"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			f := newAuthServiceFixture()
			f.roleRepo.addRole("User", "user")
			if tc.Seed != nil {
				tc.Seed(f)
			}

			resp, err := f.service.Register(context.Background(), tc.RoleSlug, tc.Request)
			if tc.ExpectedErr != nil {
				assert.EqualError(t, err, tc.ExpectedErr.Error())
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, resp.ID)
			assert.Equal(t, "User", resp.Role)

			stored, err := f.userRepo.GetUserByEmail(context.Background(), tc.Request.Email)
			require.NoError(t, err)
			assert.NotEqual(t, tc.Request.Password, stored.HashedPassword)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.HashedPassword), []byte(tc.Request.Password)))
		})
	}
}

func TestLogin(t *testing.T) {
	f := newAuthServiceFixture()
	f.roleRepo.addRole("User", "user")

	_, err := f.service.Register(context.Background(), "user", dto.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	_, err = f.service.Login(context.Background(), dto.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.Equal(t, errs.ErrInvalidCredentials, err)

	_, err = f.service.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: "wrong-password"})
	assert.Equal(t, errs.ErrInvalidCredentials, err)

	resp, err := f.service.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Token, "bearer "))
	assert.EqualValues(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "alice@example.com", resp.User.Email)
}

func TestCurrentUser(t *testing.T) {
	f := newAuthServiceFixture()
	f.roleRepo.addRole("User", "user")

	_, err := f.service.Register(context.Background(), "user", dto.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	login, err := f.service.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	rawToken := strings.TrimPrefix(login.Token, "bearer ")

	user, claims, err := f.service.CurrentUser(context.Background(), rawToken)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEmpty(t, claims.TokenID)
	assert.Equal(t, user.ID, claims.UserID)

	_, _, err = f.service.CurrentUser(context.Background(), "not.a.token")
	assert.Equal(t, errs.ErrInvalidToken, err)

	require.NoError(t, f.service.Logout(context.Background(), claims))

	_, _, err = f.service.CurrentUser(context.Background(), rawToken)
	assert.Equal(t, errs.ErrInvalidToken, err)
}

func TestRefresh(t *testing.T) {
	f := newAuthServiceFixture()
	f.roleRepo.addRole("User", "user")

	_, err := f.service.Register(context.Background(), "user", dto.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	login, err := f.service.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	rawToken := strings.TrimPrefix(login.Token, "bearer ")
	user, claims, err := f.service.CurrentUser(context.Background(), rawToken)
	require.NoError(t, err)

	resp, err := f.service.Refresh(context.Background(), user, claims)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Token, "bearer "))
	assert.NotEqual(t, login.Token, resp.Token)

	// the presented token is spent once refreshed
	_, _, err = f.service.CurrentUser(context.Background(), rawToken)
	assert.Equal(t, errs.ErrInvalidToken, err)

	// the replacement works
	_, _, err = f.service.CurrentUser(context.Background(), strings.TrimPrefix(resp.Token, "bearer "))
	assert.NoError(t, err)
}

func TestRefreshWindowExpired(t *testing.T) {
	f := newAuthServiceFixture()
	f.roleRepo.addRole("User", "user")

	_, err := f.service.Register(context.Background(), "user", dto.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	login, err := f.service.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	user, claims, err := f.service.CurrentUser(context.Background(), strings.TrimPrefix(login.Token, "bearer "))
	require.NoError(t, err)

	// push the issue time past the refresh window
	claims.IssuedAt -= int64(20161 * 60)

	_, err = f.service.Refresh(context.Background(), user, claims)
	assert.Equal(t, errs.ErrRefreshWindow, err)
}
