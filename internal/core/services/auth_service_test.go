package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"delivery-tracker/internal/adapters/persistence/models"
	"delivery-tracker/internal/core/domain"
	"delivery-tracker/internal/core/services"
	"delivery-tracker/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSignUp(t *testing.T) {
	tests := []struct {
		name   string
		input  services.SignUpInput
		fields []string
	}{
		{"valid", services.SignUpInput{Username: "alice", Password: strongPassword, Name: "Alice"}, nil},
		{"all blank", services.SignUpInput{}, []string{"username", "password", "name"}},
		{"short username", services.SignUpInput{Username: "abc", Password: strongPassword, Name: "Alice"}, []string{"username"}},
		{"short password", services.SignUpInput{Username: "alice", Password: "Ab1!", Name: "Alice"}, []string{"password"}},
		{"two classes", services.SignUpInput{Username: "alice", Password: "abcdefgh12345", Name: "Alice"}, []string{"password"}},
		{"multibyte short password", services.SignUpInput{Username: "alice", Password: "비밀번호Ab1!", Name: "Alice"}, []string{"password"}},
		{"multibyte password", services.SignUpInput{Username: "alice", Password: "비밀번호Abc123!!", Name: "Alice"}, nil},
		{"short name", services.SignUpInput{Username: "alice", Password: strongPassword, Name: "A"}, []string{"name"}},
		{"korean name", services.SignUpInput{Username: "alice", Password: strongPassword, Name: "김철"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := services.ValidateSignUp(&tt.input)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.ErrorIs(t, err, domain.ErrValidation)

			var fields []string
			for _, v := range verr.Violations {
				fields = append(fields, v.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestAuthService_SignUp(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user, err := e.auth.SignUp(ctx, &services.SignUpInput{Username: " alice ", Password: strongPassword, Name: "Alice"})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)

	stored, err := e.users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, strongPassword, stored.Password)
	assert.True(t, password.NewHasher(0).Verify(strongPassword, stored.Password))

	_, err = e.auth.SignUp(ctx, &services.SignUpInput{Username: "alice", Password: strongPassword, Name: "Other"})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestAuthService_LoginAndRefresh(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signUp(t, "alice")

	tokens, err := e.auth.Login(ctx, &services.LoginInput{Username: "alice", Password: strongPassword})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.Equal(t, int64(3600), tokens.AccessTokenExpiresIn)
	assert.Equal(t, int64(1209600), tokens.RefreshTokenExpiresIn)
	assert.NotEmpty(t, tokens.RefreshToken)

	assert.True(t, e.tokens.ValidateToken(tokens.AccessToken))
	subject, err := e.tokens.GetUsernameFromToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)

	stored, err := e.refresh.GetByTokenHash(ctx, password.HashToken(tokens.RefreshToken))
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Username)
	assert.True(t, stored.ExpiresAt.Equal(e.clock.Now().Add(refreshTTL)))

	e.clock.Advance(time.Minute)
	refreshed, err := e.auth.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, tokens.RefreshToken, refreshed.RefreshToken)
	assert.NotEqual(t, tokens.AccessToken, refreshed.AccessToken)
	assert.True(t, e.tokens.ValidateToken(refreshed.AccessToken))
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signUp(t, "alice")

	_, wrongPassword := e.auth.Login(ctx, &services.LoginInput{Username: "alice", Password: "Wr0ngP@ssw0rd1"})
	_, unknownUser := e.auth.Login(ctx, &services.LoginInput{Username: "nobody", Password: strongPassword})

	assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())

	_, err := e.auth.Login(ctx, &services.LoginInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAuthService_LoginSupersedesPreviousRefreshToken(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signUp(t, "alice")

	first, err := e.auth.Login(ctx, &services.LoginInput{Username: "alice", Password: strongPassword})
	require.NoError(t, err)
	second, err := e.auth.Login(ctx, &services.LoginInput{Username: "alice", Password: strongPassword})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = e.auth.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrRefreshTokenNotFound)

	_, err = e.auth.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)

	var count int64
	require.NoError(t, e.db.Model(&models.RefreshToken{}).Where("username = ?", "alice").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAuthService_RefreshFailures(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signUp(t, "alice")

	_, err := e.auth.Refresh(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.auth.Refresh(ctx, "not-a-stored-token")
	assert.ErrorIs(t, err, domain.ErrRefreshTokenNotFound)

	tokens, err := e.auth.Login(ctx, &services.LoginInput{Username: "alice", Password: strongPassword})
	require.NoError(t, err)

	e.clock.Advance(refreshTTL + time.Second)
	_, err = e.auth.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrRefreshTokenExpired)

	// the expired row is gone, so a retry reports not found
	_, err = e.auth.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrRefreshTokenNotFound)
}

func TestAuthService_Logout(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signUp(t, "alice")

	tokens, err := e.auth.Login(ctx, &services.LoginInput{Username: "alice", Password: strongPassword})
	require.NoError(t, err)

	require.NoError(t, e.auth.Logout(ctx, "alice"))
	require.NoError(t, e.auth.Logout(ctx, "alice"))

	_, err = e.auth.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrRefreshTokenNotFound)

	// the access token stays valid until it expires
	assert.True(t, e.tokens.ValidateToken(tokens.AccessToken))
}

func TestUserService(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signUp(t, "alice")

	principal, err := e.user.LoadPrincipal(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", principal.Username)
	assert.NotZero(t, principal.UserID)

	profile, err := e.user.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, principal.UserID, profile.ID)
	assert.Equal(t, "Tester", profile.Name)

	_, err = e.user.LoadPrincipal(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
