package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/existflow/taskboard/internal/board"
)

type idRef struct {
	ID string `json:"id"`
}

func refIDs(refs []idRef) []string {
	ids := make([]string, len(refs))
	for i, r := range refs {
		ids[i] = r.ID
	}
	return ids
}

type reorderBoardsRequest struct {
	Boards []idRef `json:"boards"`
}

func (s *Server) handleCreateBoard(c echo.Context) error {
	b, err := s.boards.CreateBoard(c.Request().Context(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, b)
}

func (s *Server) handleListBoards(c echo.Context) error {
	boards, err := s.boards.ListBoards(c.Request().Context(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, boards)
}

func (s *Server) handleReorderBoards(c echo.Context) error {
	var req reorderBoardsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := s.boards.ReorderBoards(c.Request().Context(), userID(c), refIDs(req.Boards)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleListBookmarks(c echo.Context) error {
	boards, err := s.boards.ListBookmarks(c.Request().Context(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, boards)
}

func (s *Server) handleReorderBookmarks(c echo.Context) error {
	var req reorderBoardsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := s.boards.ReorderBookmarks(c.Request().Context(), userID(c), refIDs(req.Boards)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleGetBoard(c echo.Context) error {
	b, err := s.boards.GetBoard(c.Request().Context(), userID(c), c.Param("boardId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (s *Server) handleUpdateBoard(c echo.Context) error {
	var req board.BoardUpdate
	if err := c.Bind(&req); err != nil {
		return err
	}
	b, err := s.boards.UpdateBoard(c.Request().Context(), userID(c), c.Param("boardId"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (s *Server) handleDeleteBoard(c echo.Context) error {
	if err := s.boards.DeleteBoard(c.Request().Context(), userID(c), c.Param("boardId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
