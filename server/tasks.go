package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/existflow/taskboard/internal/board"
)

type createTaskRequest struct {
	SectionID string `json:"sectionId"`
}

type moveTaskRequest struct {
	ResourceList         []idRef `json:"resourceList"`
	DestinationList      []idRef `json:"destinationList"`
	ResourceSectionID    string  `json:"resourceSectionId"`
	DestinationSectionID string  `json:"destinationSectionId"`
}

func (s *Server) handleCreateTask(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	t, err := s.boards.CreateTask(c.Request().Context(), userID(c), c.Param("boardId"), req.SectionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, t)
}

func (s *Server) handleUpdateTask(c echo.Context) error {
	var req board.TaskUpdate
	if err := c.Bind(&req); err != nil {
		return err
	}
	t, err := s.boards.UpdateTask(c.Request().Context(), userID(c), c.Param("boardId"), c.Param("taskId"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) handleDeleteTask(c echo.Context) error {
	if err := s.boards.DeleteTask(c.Request().Context(), userID(c), c.Param("boardId"), c.Param("taskId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleMoveTask(c echo.Context) error {
	var req moveTaskRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	err := s.boards.MoveTask(c.Request().Context(), userID(c), c.Param("boardId"), board.TaskMove{
		SourceSectionID:      req.ResourceSectionID,
		DestinationSectionID: req.DestinationSectionID,
		SourceIDs:            refIDs(req.ResourceList),
		DestinationIDs:       refIDs(req.DestinationList),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}
