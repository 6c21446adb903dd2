// Package board implements board, section, task and bookmark operations for
// a signed-in user on top of the ordering engine.
package board

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/existflow/taskboard/internal/apperr"
	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/internal/model"
	"github.com/existflow/taskboard/internal/ordering"
	"github.com/existflow/taskboard/internal/store"
)

// Store is the persistence the service needs
type Store interface {
	ordering.Store

	CreateBoard(ctx context.Context, b *model.Board) error
	GetBoard(ctx context.Context, id string) (*model.Board, error)
	ListBoards(ctx context.Context, userID string) ([]model.Board, error)
	ListBookmarks(ctx context.Context, userID string) ([]model.Board, error)
	UpdateBoard(ctx context.Context, b *model.Board) error
	DeleteBoard(ctx context.Context, id string) error

	CreateSection(ctx context.Context, s *model.Section) error
	GetSection(ctx context.Context, id string) (*model.Section, error)
	ListSections(ctx context.Context, boardID string) ([]model.Section, error)
	UpdateSection(ctx context.Context, s *model.Section) error
	DeleteSection(ctx context.Context, id string) error

	CreateTask(ctx context.Context, t *model.Task) error
	GetTask(ctx context.Context, id string) (*model.Task, error)
	UpdateTask(ctx context.Context, t *model.Task) error
	DeleteTask(ctx context.Context, id string) error
}

// Lists serves a user's ordered board lists, possibly from a cache
type Lists interface {
	ListBoards(ctx context.Context, userID string) ([]model.Board, error)
	ListBookmarks(ctx context.Context, userID string) ([]model.Board, error)
	Evict(ctx context.Context, userID string)
}

type uncached struct {
	Store
}

func (uncached) Evict(context.Context, string) {}

// Service runs every board operation scoped to the calling user
type Service struct {
	store   Store
	lists   Lists
	engine  *ordering.Engine
	overlay *ordering.Overlay
	newID   func() string
}

// NewService creates a service over st. lists may be nil, in which case
// lists are read straight from st.
func NewService(st Store, lists Lists) *Service {
	if lists == nil {
		lists = uncached{st}
	}
	engine := ordering.NewEngine(st)
	return &Service{
		store:   st,
		lists:   lists,
		engine:  engine,
		overlay: ordering.NewOverlay(engine),
		newID:   uuid.NewString,
	}
}

// storageErr converts a store error into an application error
func storageErr(msg string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("%s: not found", msg)
	}
	logger.Error("Storage failure", logger.F("op", msg), logger.F("error", err.Error()))
	return apperr.Storage(msg, err)
}

// ownedBoard loads boardID and checks it belongs to userID
func (s *Service) ownedBoard(ctx context.Context, userID, boardID string) (*model.Board, error) {
	if err := validateIDs(map[string]string{"boardId": boardID}); err != nil {
		return nil, err
	}
	b, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, storageErr("get board", err)
	}
	if b.UserID != userID {
		return nil, apperr.NotFound("board %s not found", boardID)
	}
	return b, nil
}

// ownedSection loads sectionID and checks it sits on board b
func (s *Service) ownedSection(ctx context.Context, b *model.Board, sectionID string) (*model.Section, error) {
	if err := validateIDs(map[string]string{"sectionId": sectionID}); err != nil {
		return nil, err
	}
	sec, err := s.store.GetSection(ctx, sectionID)
	if err != nil {
		return nil, storageErr("get section", err)
	}
	if sec.BoardID != b.ID {
		return nil, apperr.NotFound("section %s not found", sectionID)
	}
	return sec, nil
}

// ownedTask loads taskID and checks its section sits on board b
func (s *Service) ownedTask(ctx context.Context, b *model.Board, taskID string) (*model.Task, error) {
	if err := validateIDs(map[string]string{"taskId": taskID}); err != nil {
		return nil, err
	}
	t, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, storageErr("get task", err)
	}
	sec, err := s.store.GetSection(ctx, t.SectionID)
	if err != nil {
		return nil, storageErr("get section", err)
	}
	if sec.BoardID != b.ID {
		return nil, apperr.NotFound("task %s not found", taskID)
	}
	return t, nil
}
