package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/tourbook/internal/models"
	"github.com/Skotchmaster/tourbook/internal/repo"
	"github.com/Skotchmaster/tourbook/internal/verify"
	"github.com/Skotchmaster/tourbook/pkg/events"
	pkg_hash "github.com/Skotchmaster/tourbook/pkg/hash"
	"github.com/Skotchmaster/tourbook/pkg/logging"
	middleware "github.com/Skotchmaster/tourbook/pkg/middleware/auth"
	"github.com/Skotchmaster/tourbook/pkg/tokens"
)

const minPasswordLen = 8

type AuthService struct {
	Repo          *repo.GormRepo
	Codes         verify.CodeStore
	Events        events.Publisher
	AccessSecret  []byte
	RefreshSecret []byte
	Now           func() time.Time
}

type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// NormalizeEmail is the single form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, email, password, name, role string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email = NormalizeEmail(email)
	if email == "" || strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("email and name are required: %w", ErrValidation)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, ErrValidation)
	}

	switch models.Role(role) {
	case "":
		role = string(models.RoleTraveler)
	case models.RoleTraveler, models.RoleGuide:
	case models.RoleAdmin:
		return nil, fmt.Errorf("admin role cannot be self-assigned: %w", ErrForbidden)
	default:
		return nil, fmt.Errorf("unknown role %q: %w", role, ErrValidation)
	}

	taken, err := s.Repo.EmailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		l.Warn("register_error", "status", 409, "reason", "email already registered")
		return nil, fmt.Errorf("email already registered: %w", ErrConflict)
	}

	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: pwHash,
		Role:         models.Role(role),
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	code, err := verify.NewCode()
	if err != nil {
		return nil, err
	}
	if err := s.Codes.Save(ctx, user.Email, code, verify.CodeTTL); err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot store verification code", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUser, user.ID.String(), map[string]any{
		"type":   "user_registered",
		"userId": user.ID,
		"email":  user.Email,
		"role":   user.Role,
	})
	// The code travels on its own topic so only the mail sender reads it.
	publish(ctx, s.Events, events.TopicVerification, user.ID.String(), map[string]any{
		"type":  "verification_code_issued",
		"email": user.Email,
		"code":  code,
	})
	return user, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) (*models.User, error) {
	email = NormalizeEmail(email)
	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %w", verify.ErrCodeMismatch, ErrValidation)
		}
		return nil, err
	}

	if err := s.Codes.Consume(ctx, user.Email, code); err != nil {
		if errors.Is(err, verify.ErrCodeMismatch) {
			return nil, fmt.Errorf("%w: %w", err, ErrValidation)
		}
		return nil, err
	}

	if err := s.Repo.MarkEmailVerified(ctx, user.ID); err != nil {
		return nil, err
	}
	user.EmailVerified = true

	publish(ctx, s.Events, events.TopicUser, user.ID.String(), map[string]any{
		"type":   "email_verified",
		"userId": user.ID,
	})
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", ErrValidation)
	}

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}

	res, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUser, user.ID.String(), map[string]any{
		"type":   "user_logged_in",
		"userId": user.ID,
	})
	return res, nil
}

func (s *AuthService) pair(user *models.User) (*LoginResult, *models.RefreshToken, error) {
	now := s.now()
	accessExp := now.Add(tokens.AccessTTL)
	refreshExp := now.Add(tokens.RefreshTTL)

	access, err := tokens.NewAccessToken(user.ID.String(), string(user.Role), accessExp, s.AccessSecret)
	if err != nil {
		return nil, nil, err
	}
	refresh, jti, err := tokens.NewRefreshToken(user.ID.String(), refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, nil, err
	}

	row := &models.RefreshToken{
		JTI:       jti,
		TokenHash: tokens.Sha256Hex(refresh),
		UserID:    user.ID,
		ExpiresAt: refreshExp,
	}
	return &LoginResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, row, nil
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*LoginResult, error) {
	res, row, err := s.pair(user)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.AddRefreshToken(ctx, row); err != nil {
		return nil, err
	}
	return res, nil
}

// Rotate swaps a live refresh token for a new pair. The old token is revoked
// in the same transaction that stores the new one.
func (s *AuthService) Rotate(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	res, row, err := s.pair(user)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, tokens.Sha256Hex(refreshToken), row, s.now()); err != nil {
		if errors.Is(err, repo.ErrNoRows) {
			return nil, fmt.Errorf("refresh token expired or revoked: %w", ErrInvalidRefreshToken)
		}
		return nil, err
	}
	return res, nil
}

// Refresh lets the auth middleware renew expired access cookies in process.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*middleware.RefreshResult, error) {
	res, err := s.Rotate(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return &middleware.RefreshResult{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		AccessExp:    res.AccessExp,
		RefreshExp:   res.RefreshExp,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil
	}
	if err := s.Repo.RevokeRefreshToken(ctx, claims.ID, s.now()); err != nil && !errors.Is(err, repo.ErrNoRows) {
		return err
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.Repo.UserByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}
