package http

import (
	"errors"
	"net/http"
	"net/mail"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/boardroomlabs/boardroomd/internal/auth"
	"github.com/boardroomlabs/boardroomd/internal/store"
)

// RegisterRequest is the request body for POST /api/v1/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest is the request body for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *store.User `json:"user"`
}

func (s *Server) handleRegister(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "a valid email is required")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) || errors.Is(err, auth.ErrPasswordTooLong) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	ctx := c.Request().Context()
	user, err := s.store.CreateUser(ctx, req.Email, req.Name, hash)
	if err != nil {
		return mapStoreError(err)
	}

	token, expiry, err := s.tokens.Issue(user.ID)
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "user registered", zap.String("user_id", user.ID))
	return c.JSON(http.StatusCreated, TokenResponse{Token: token, ExpiresAt: expiry, User: user})
}

func (s *Server) handleLogin(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return err
	}
	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, expiry, err := s.tokens.Issue(user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, TokenResponse{Token: token, ExpiresAt: expiry, User: user})
}

func (s *Server) handleMe(c echo.Context) error {
	user, err := s.store.GetUser(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, user)
}
