package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/existflow/taskboard/internal/apperr"
	"github.com/existflow/taskboard/internal/logger"
)

type errorResponse struct {
	Error   string            `json:"error"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// handleError renders application and echo errors as JSON
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	resp := errorResponse{Error: "internal error"}

	var (
		appErr  *apperr.Error
		httpErr *echo.HTTPError
	)
	switch {
	case errors.As(err, &appErr):
		status = appErr.Status()
		resp.Error = appErr.Message
		resp.Fields = appErr.Fields
		if appErr.Err != nil {
			resp.Details = appErr.Err.Error()
		}
	case errors.As(err, &httpErr):
		status = httpErr.Code
		resp.Error = fmt.Sprint(httpErr.Message)
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			logger.F("method", c.Request().Method),
			logger.F("uri", c.Request().RequestURI),
			logger.F("error", err.Error()))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, resp)
	}
	if err != nil {
		logger.Error("Failed to write error response", logger.F("error", err.Error()))
	}
}
