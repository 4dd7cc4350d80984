package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/tourbook/internal/models"
	"github.com/Skotchmaster/tourbook/internal/verify"
	"github.com/Skotchmaster/tourbook/pkg/events"
	"github.com/Skotchmaster/tourbook/pkg/tokens"
)

func TestAuthService_Register_DefaultsToTraveler(t *testing.T) {
	env := newTestEnv(t)

	u, err := env.Auth.Register(context.Background(), "Ann@Example.com", "password1", "Ann", "")
	require.NoError(t, err)

	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, models.RoleTraveler, u.Role)
	assert.False(t, u.EmailVerified)
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, []string{"user_registered"}, env.Events.Types(events.TopicUser))
	assert.Equal(t, []string{"verification_code_issued"}, env.Events.Types(events.TopicVerification))

	for _, ev := range env.Events.Events() {
		if ev.Topic == events.TopicUser {
			assert.NotContains(t, ev.Event, "code")
		}
	}
}

func TestAuthService_EmailIsNormalized(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Auth.Register(ctx, "  Mixed@Example.COM ", "password1", "Mix", "")
	require.NoError(t, err)

	_, err = env.Auth.Register(ctx, "mixed@example.com", "password1", "Mix", "")
	assert.ErrorIs(t, err, ErrConflict)

	res, err := env.Auth.Login(ctx, " MIXED@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "mixed@example.com", res.User.Email)

	require.NoError(t, env.Codes.Save(ctx, "mixed@example.com", "135790", verify.CodeTTL))
	u, err := env.Auth.VerifyEmail(ctx, "Mixed@Example.com ", "135790")
	require.NoError(t, err)
	assert.True(t, u.EmailVerified)
}

func TestAuthService_VerifyEmail_AttemptLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Auth.Register(ctx, "guess@example.com", "password1", "G", "")
	require.NoError(t, err)
	require.NoError(t, env.Codes.Save(ctx, "guess@example.com", "246810", verify.CodeTTL))

	for i := 0; i < verify.MaxAttempts; i++ {
		_, err = env.Auth.VerifyEmail(ctx, "guess@example.com", "000000")
		assert.ErrorIs(t, err, ErrValidation)
	}
	assert.ErrorIs(t, err, verify.ErrTooManyAttempts)

	_, err = env.Auth.VerifyEmail(ctx, "guess@example.com", "246810")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_Register_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		role     string
		want     error
	}{
		{name: "empty email", email: "", password: "password1", want: ErrValidation},
		{name: "short password", email: "a@b.io", password: "short", want: ErrValidation},
		{name: "unknown role", email: "a@b.io", password: "password1", role: "PILOT", want: ErrValidation},
		{name: "admin role", email: "a@b.io", password: "password1", role: "ADMIN", want: ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Auth.Register(ctx, tt.email, tt.password, "Name", tt.role)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Auth.Register(ctx, "dup@example.com", "password1", "Dup", "GUIDE")
	require.NoError(t, err)

	_, err = env.Auth.Register(ctx, "DUP@example.com", "password2", "Dup", "")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAuthService_VerifyEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Auth.Register(ctx, "v@example.com", "password1", "V", "")
	require.NoError(t, err)

	_, err = env.Auth.VerifyEmail(ctx, "v@example.com", "000000x")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, env.Codes.Save(ctx, "v@example.com", "424242", verify.CodeTTL))
	u, err := env.Auth.VerifyEmail(ctx, "v@example.com", "424242")
	require.NoError(t, err)
	assert.True(t, u.EmailVerified)

	stored, err := env.Repo.UserByEmail(ctx, "v@example.com")
	require.NoError(t, err)
	assert.True(t, stored.EmailVerified)

	_, err = env.Auth.VerifyEmail(ctx, "v@example.com", "424242")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Auth.Register(ctx, "l@example.com", "password1", "L", "GUIDE")
	require.NoError(t, err)

	_, err = env.Auth.Login(ctx, "l@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.Auth.Login(ctx, "nobody@example.com", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := env.Auth.Login(ctx, "l@example.com", "password1")
	require.NoError(t, err)

	claims, err := tokens.AccessClaimsFromToken(res.AccessToken, env.Auth.AccessSecret)
	require.NoError(t, err)
	assert.Equal(t, "GUIDE", claims.Role)
	assert.Equal(t, res.User.ID.String(), claims.Subject)
	assert.True(t, res.RefreshExp.After(res.AccessExp))
}

func TestAuthService_Rotate_RevokesOldToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Auth.Register(ctx, "r@example.com", "password1", "R", "")
	require.NoError(t, err)
	login, err := env.Auth.Login(ctx, "r@example.com", "password1")
	require.NoError(t, err)

	rotated, err := env.Auth.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)

	_, err = env.Auth.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = env.Auth.Refresh(ctx, rotated.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.Auth.Refresh(context.Background(), "not-a-valid-jwt")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_Logout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.Auth.Logout(ctx, ""))

	_, err := env.Auth.Register(ctx, "o@example.com", "password1", "O", "")
	require.NoError(t, err)
	login, err := env.Auth.Login(ctx, "o@example.com", "password1")
	require.NoError(t, err)

	require.NoError(t, env.Auth.Logout(ctx, login.RefreshToken))
	_, err = env.Auth.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}
