package board

import (
	"context"

	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/internal/model"
	"github.com/existflow/taskboard/internal/ordering"
)

// BoardUpdate holds the fields a client may change; nil leaves a field as is
type BoardUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Bookmark    *bool   `json:"bookmark,omitempty"`
}

// CreateBoard adds a default board on top of userID's list
func (s *Service) CreateBoard(ctx context.Context, userID string) (*model.Board, error) {
	rank, err := s.engine.NextRank(ctx, ordering.Boards(userID))
	if err != nil {
		return nil, storageErr("count boards", err)
	}

	b := model.NewBoard(s.newID(), userID, rank)
	if err := s.store.CreateBoard(ctx, &b); err != nil {
		return nil, storageErr("create board", err)
	}
	s.lists.Evict(ctx, userID)

	logger.Info("Board created", logger.F("board", b.ID), logger.F("position", rank))
	return &b, nil
}

// ListBoards returns userID's boards, top first
func (s *Service) ListBoards(ctx context.Context, userID string) ([]model.Board, error) {
	boards, err := s.lists.ListBoards(ctx, userID)
	if err != nil {
		return nil, storageErr("list boards", err)
	}
	return boards, nil
}

// ListBookmarks returns userID's bookmarked boards, top first
func (s *Service) ListBookmarks(ctx context.Context, userID string) ([]model.Board, error) {
	boards, err := s.lists.ListBookmarks(ctx, userID)
	if err != nil {
		return nil, storageErr("list bookmarks", err)
	}
	return boards, nil
}

// GetBoard returns the board with its sections and their tasks
func (s *Service) GetBoard(ctx context.Context, userID, boardID string) (*model.Board, error) {
	b, err := s.ownedBoard(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}
	sections, err := s.store.ListSections(ctx, b.ID)
	if err != nil {
		return nil, storageErr("list sections", err)
	}
	b.Sections = sections
	return b, nil
}

// UpdateBoard applies u. An empty title or description resets it to the
// default. Bookmark transitions maintain the bookmark ordering; the board's
// own position is never touched.
func (s *Service) UpdateBoard(ctx context.Context, userID, boardID string, u BoardUpdate) (*model.Board, error) {
	b, err := s.ownedBoard(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}

	if u.Title != nil {
		b.Title = *u.Title
		if b.Title == "" {
			b.Title = model.DefaultBoardTitle
		}
	}
	if u.Description != nil {
		b.Description = *u.Description
		if b.Description == "" {
			b.Description = model.DefaultBoardDescription
		}
	}
	if u.Icon != nil {
		b.Icon = *u.Icon
	}

	if u.Bookmark != nil && *u.Bookmark != b.Bookmark {
		if *u.Bookmark {
			rank, err := s.overlay.Added(ctx, userID, b.ID)
			if err != nil {
				return nil, storageErr("bookmark board", err)
			}
			b.BookmarkPosition = rank
		} else if err := s.overlay.Removed(ctx, userID, b.ID); err != nil {
			return nil, storageErr("unbookmark board", err)
		}
		b.Bookmark = *u.Bookmark
	}

	if err := s.store.UpdateBoard(ctx, b); err != nil {
		return nil, storageErr("update board", err)
	}
	s.lists.Evict(ctx, userID)
	return b, nil
}

// ReorderBoards stores a new top-to-bottom order for all of userID's boards
func (s *Service) ReorderBoards(ctx context.Context, userID string, ids []string) error {
	if err := s.checkPartition(ctx, ordering.Boards(userID), "boards", ids); err != nil {
		return err
	}
	if err := s.engine.Reorder(ctx, ordering.Boards(userID), ids); err != nil {
		s.lists.Evict(ctx, userID)
		return storageErr("reorder boards", err)
	}
	s.lists.Evict(ctx, userID)
	return nil
}

// ReorderBookmarks stores a new top-to-bottom order for userID's bookmarks
func (s *Service) ReorderBookmarks(ctx context.Context, userID string, ids []string) error {
	if err := s.checkPartition(ctx, ordering.Bookmarks(userID), "boards", ids); err != nil {
		return err
	}
	if err := s.overlay.Reorder(ctx, userID, ids); err != nil {
		s.lists.Evict(ctx, userID)
		return storageErr("reorder bookmarks", err)
	}
	s.lists.Evict(ctx, userID)
	return nil
}

// DeleteBoard removes the board, its sections and tasks, and closes the gaps
// it leaves in the bookmark and board orderings
func (s *Service) DeleteBoard(ctx context.Context, userID, boardID string) error {
	b, err := s.ownedBoard(ctx, userID, boardID)
	if err != nil {
		return err
	}
	defer s.lists.Evict(ctx, userID)

	if b.Bookmark {
		if err := s.overlay.Removed(ctx, userID, b.ID); err != nil {
			return storageErr("renumber bookmarks", err)
		}
	}
	if err := s.store.DeleteBoard(ctx, b.ID); err != nil {
		return storageErr("delete board", err)
	}
	if err := s.engine.Renumber(ctx, ordering.Boards(userID)); err != nil {
		return storageErr("renumber boards", err)
	}

	logger.Info("Board deleted", logger.F("board", b.ID))
	return nil
}

func (s *Service) checkPartition(ctx context.Context, p ordering.Partition, field string, ids []string) error {
	if err := validateList(field, ids); err != nil {
		return err
	}
	members, err := s.store.Members(ctx, p)
	if err != nil {
		return storageErr("list "+p.Kind.String(), err)
	}
	return matchMembers(field, ids, members)
}
