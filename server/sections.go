package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/existflow/taskboard/internal/board"
)

func (s *Server) handleCreateSection(c echo.Context) error {
	sec, err := s.boards.CreateSection(c.Request().Context(), userID(c), c.Param("boardId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sec)
}

func (s *Server) handleUpdateSection(c echo.Context) error {
	var req board.SectionUpdate
	if err := c.Bind(&req); err != nil {
		return err
	}
	sec, err := s.boards.UpdateSection(c.Request().Context(), userID(c), c.Param("boardId"), c.Param("sectionId"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sec)
}

func (s *Server) handleDeleteSection(c echo.Context) error {
	err := s.boards.DeleteSection(c.Request().Context(), userID(c), c.Param("boardId"), c.Param("sectionId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
