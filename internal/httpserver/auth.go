package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/tourbook/internal/service"
	"github.com/Skotchmaster/tourbook/internal/transport"
	"github.com/Skotchmaster/tourbook/pkg/logging"
	"github.com/Skotchmaster/tourbook/pkg/tokens"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.SignupRequest
	if err := bind(c, l, "register_error", &req); err != nil {
		return err
	}

	user, err := h.Svc.Register(ctx, req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		return fail(l, "register_error", err)
	}

	l.Info("register_successful", "user_id", user.ID)
	return c.JSON(http.StatusCreated, transport.NewUserResponse(user))
}

func (h *AuthHTTP) VerifyEmail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.verify_email")

	var req transport.VerifyEmailRequest
	if err := bind(c, l, "verify_email_error", &req); err != nil {
		return err
	}

	user, err := h.Svc.VerifyEmail(ctx, req.Email, req.Code)
	if err != nil {
		return fail(l, "verify_email_error", err)
	}

	l.Info("email_verified", "user_id", user.ID)
	return c.JSON(http.StatusOK, transport.NewUserResponse(user))
}

func (h *AuthHTTP) setSession(c echo.Context, res *service.LoginResult) {
	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, res.AccessToken, "/", res.AccessExp))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, res.RefreshToken, "/", res.RefreshExp))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bind(c, l, "login_error", &req); err != nil {
		return err
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "login_failed", err)
	}

	h.setSession(c, res)
	l.Info("login_successful", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, transport.LoginResponse{
		User:         transport.NewUserResponse(res.User),
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresAt:    res.AccessExp,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	token := ""
	if ck, err := c.Cookie(tokens.RefreshCookie); err == nil {
		token = ck.Value
	}
	if token == "" {
		if err := c.Bind(&body); err == nil {
			token = body.RefreshToken
		}
	}
	if token == "" {
		l.Warn("refresh_error", "status", http.StatusUnauthorized, "reason", "refresh token missing")
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	res, err := h.Svc.Rotate(ctx, token)
	if err != nil {
		c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/"))
		c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/"))
		return fail(l, "refresh_error", err)
	}

	h.setSession(c, res)
	return c.JSON(http.StatusOK, transport.LoginResponse{
		User:         transport.NewUserResponse(res.User),
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresAt:    res.AccessExp,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if ck, err := c.Cookie(tokens.RefreshCookie); err == nil {
		if err := h.Svc.Logout(ctx, ck.Value); err != nil {
			l.Error("logout_failed", "status", 500, "reason", "cannot revoke refresh token", "error", err)
		}
	}

	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/"))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/"))
	l.Info("logout_successful")
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	a, err := actor(c, l, "me_error")
	if err != nil {
		return err
	}
	user, err := h.Svc.Me(ctx, a.ID)
	if err != nil {
		return fail(l, "me_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewUserResponse(user))
}
