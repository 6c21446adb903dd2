package board

import (
	"context"

	"github.com/existflow/taskboard/internal/model"
)

// SectionUpdate holds the section fields a client may change
type SectionUpdate struct {
	Title *string `json:"title,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

// CreateSection adds an empty section to the board
func (s *Service) CreateSection(ctx context.Context, userID, boardID string) (*model.Section, error) {
	b, err := s.ownedBoard(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}

	sec := model.NewSection(s.newID(), b.ID)
	if err := s.store.CreateSection(ctx, &sec); err != nil {
		return nil, storageErr("create section", err)
	}
	return &sec, nil
}

// UpdateSection applies u to the section
func (s *Service) UpdateSection(ctx context.Context, userID, boardID, sectionID string, u SectionUpdate) (*model.Section, error) {
	b, err := s.ownedBoard(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}
	sec, err := s.ownedSection(ctx, b, sectionID)
	if err != nil {
		return nil, err
	}

	if u.Title != nil {
		sec.Title = *u.Title
	}
	if u.Icon != nil {
		sec.Icon = *u.Icon
	}
	if err := s.store.UpdateSection(ctx, sec); err != nil {
		return nil, storageErr("update section", err)
	}
	return sec, nil
}

// DeleteSection removes the section and all of its tasks
func (s *Service) DeleteSection(ctx context.Context, userID, boardID, sectionID string) error {
	b, err := s.ownedBoard(ctx, userID, boardID)
	if err != nil {
		return err
	}
	sec, err := s.ownedSection(ctx, b, sectionID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteSection(ctx, sec.ID); err != nil {
		return storageErr("delete section", err)
	}
	return nil
}
