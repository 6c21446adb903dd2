package board

import (
	"context"

	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/internal/model"
	"github.com/existflow/taskboard/internal/ordering"
)

// TaskUpdate holds the task fields a client may change
type TaskUpdate struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// TaskMove is a drag of one task. DestinationIDs is the destination
// section's final top-to-bottom order including the moved task; SourceIDs is
// the source section's order after the task left it.
type TaskMove struct {
	SourceSectionID      string
	DestinationSectionID string
	SourceIDs            []string
	DestinationIDs       []string
}

// CreateTask adds an empty task on top of the section
func (s *Service) CreateTask(ctx context.Context, userID, boardID, sectionID string) (*model.Task, error) {
	b, err := s.ownedBoard(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}
	sec, err := s.ownedSection(ctx, b, sectionID)
	if err != nil {
		return nil, err
	}

	rank, err := s.engine.NextRank(ctx, ordering.Tasks(sec.ID))
	if err != nil {
		return nil, storageErr("count tasks", err)
	}

	t := model.NewTask(s.newID(), sec.ID, rank)
	if err := s.store.CreateTask(ctx, &t); err != nil {
		return nil, storageErr("create task", err)
	}
	return &t, nil
}

// UpdateTask applies u to the task
func (s *Service) UpdateTask(ctx context.Context, userID, boardID, taskID string, u TaskUpdate) (*model.Task, error) {
	b, err := s.ownedBoard(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}
	t, err := s.ownedTask(ctx, b, taskID)
	if err != nil {
		return nil, err
	}

	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Content != nil {
		t.Content = *u.Content
	}
	if err := s.store.UpdateTask(ctx, t); err != nil {
		return nil, storageErr("update task", err)
	}
	return t, nil
}

// DeleteTask removes the task and renumbers what is left in its section
func (s *Service) DeleteTask(ctx context.Context, userID, boardID, taskID string) error {
	b, err := s.ownedBoard(ctx, userID, boardID)
	if err != nil {
		return err
	}
	t, err := s.ownedTask(ctx, b, taskID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteTask(ctx, t.ID); err != nil {
		return storageErr("delete task", err)
	}
	if err := s.engine.Renumber(ctx, ordering.Tasks(t.SectionID)); err != nil {
		return storageErr("renumber tasks", err)
	}

	logger.Info("Task deleted", logger.F("task", t.ID), logger.F("section", t.SectionID))
	return nil
}

// MoveTask reorders tasks within a section or moves one across sections.
//
// Both sections must be on the board. Within one section DestinationIDs must
// list the section exactly. Across sections the two lists together must list
// both sections exactly; every task in SourceIDs also ends up in the
// destination section.
func (s *Service) MoveTask(ctx context.Context, userID, boardID string, m TaskMove) error {
	b, err := s.ownedBoard(ctx, userID, boardID)
	if err != nil {
		return err
	}
	src, err := s.ownedSection(ctx, b, m.SourceSectionID)
	if err != nil {
		return err
	}
	dst, err := s.ownedSection(ctx, b, m.DestinationSectionID)
	if err != nil {
		return err
	}

	if err := validateList("destinationList", m.DestinationIDs); err != nil {
		return err
	}

	dstMembers, err := s.store.Members(ctx, ordering.Tasks(dst.ID))
	if err != nil {
		return storageErr("list tasks", err)
	}

	if src.ID == dst.ID {
		if err := matchMembers("destinationList", m.DestinationIDs, dstMembers); err != nil {
			return err
		}
	} else {
		if err := validateList("resourceList", m.SourceIDs); err != nil {
			return err
		}
		srcMembers, err := s.store.Members(ctx, ordering.Tasks(src.ID))
		if err != nil {
			return storageErr("list tasks", err)
		}
		all := append(append([]string{}, m.SourceIDs...), m.DestinationIDs...)
		if err := validateList("tasks", all); err != nil {
			return err
		}
		if err := matchMembers("tasks", all, append(srcMembers, dstMembers...)); err != nil {
			return err
		}
	}

	if err := s.engine.MoveTasks(ctx, src.ID, dst.ID, m.SourceIDs, m.DestinationIDs); err != nil {
		return storageErr("move task", err)
	}
	return nil
}
