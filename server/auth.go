package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/existflow/taskboard/internal/apperr"
	"github.com/existflow/taskboard/internal/auth"
	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/internal/model"
	"github.com/existflow/taskboard/internal/store"
)

const minCredentialLength = 7

type signupRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (r signupRequest) validate() error {
	fields := map[string]string{}
	if len(r.Username) < minCredentialLength {
		fields["username"] = "username must be at least 7 characters"
	}
	if len(r.Password) < minCredentialLength {
		fields["password"] = "password must be at least 7 characters"
	}
	if r.ConfirmPassword != r.Password {
		fields["confirmPassword"] = "confirmPassword does not match"
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid signup", fields)
	}
	return nil
}

// handleSignup creates an account and signs it in
func (s *Server) handleSignup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := req.validate(); err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperr.Storage("hash password", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.db.CreateUser(c.Request().Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return apperr.Conflict("username already used")
		}
		return apperr.Storage("create user", err)
	}

	token, err := s.createSession(c, user.ID)
	if err != nil {
		return err
	}

	logger.Info("User registered", logger.F("user", user.ID))
	return c.JSON(http.StatusCreated, authResponse{Token: token, User: user})
}

// handleLogin exchanges credentials for a bearer token
func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := s.db.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.Unauthorized("invalid credentials")
		}
		return apperr.Storage("get user", err)
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return apperr.Unauthorized("invalid credentials")
	}

	if n, err := s.db.DeleteExpiredSessions(ctx, time.Now()); err != nil {
		logger.Warn("Failed to prune sessions", logger.F("error", err.Error()))
	} else if n > 0 {
		logger.Debug("Pruned expired sessions", logger.F("count", n))
	}

	token, err := s.createSession(c, user.ID)
	if err != nil {
		return err
	}

	logger.Info("User logged in", logger.F("user", user.ID))
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// handleVerifyToken returns the signed-in user
func (s *Server) handleVerifyToken(c echo.Context) error {
	user, err := s.db.GetUser(c.Request().Context(), userID(c))
	if err != nil {
		return apperr.Unauthorized("user not found")
	}
	return c.JSON(http.StatusOK, map[string]*model.User{"user": user})
}

// handleLogout revokes the current token
func (s *Server) handleLogout(c echo.Context) error {
	sessionID, _ := c.Get(ctxSessionID).(string)
	if err := s.db.DeleteSession(c.Request().Context(), sessionID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return apperr.Storage("delete session", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "logged out"})
}

// createSession issues a token for userID and records its id
func (s *Server) createSession(c echo.Context, userID string) (string, error) {
	token, claims, err := s.issuer.Issue(userID)
	if err != nil {
		return "", apperr.Storage("issue token", err)
	}

	session := &model.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     claims.SessionID(),
		ExpiresAt: claims.ExpiresAt.Time,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.CreateSession(c.Request().Context(), session); err != nil {
		return "", apperr.Storage("create session", err)
	}
	return token, nil
}
