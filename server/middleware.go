package server

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/existflow/taskboard/internal/apperr"
	"github.com/existflow/taskboard/internal/auth"
)

const (
	ctxUserID    = "user_id"
	ctxSessionID = "session_id"
)

// authMiddleware checks the bearer token and its server-side session
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Get token from Authorization header
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return apperr.Unauthorized("authorization required")
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			return apperr.Unauthorized("invalid authorization format")
		}

		claims, err := s.issuer.Parse(token)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				return apperr.Unauthorized("token expired")
			}
			return apperr.Unauthorized("invalid token")
		}

		// Validate session
		session, err := s.db.GetSession(c.Request().Context(), claims.SessionID())
		if err != nil || session.UserID != claims.UserID() {
			return apperr.Unauthorized("invalid token")
		}
		if session.IsExpired() {
			return apperr.Unauthorized("token expired")
		}

		c.Set(ctxUserID, session.UserID)
		c.Set(ctxSessionID, session.Token)
		return next(c)
	}
}

func userID(c echo.Context) string {
	id, _ := c.Get(ctxUserID).(string)
	return id
}
