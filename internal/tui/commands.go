package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/taskboard/internal/board"
	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/internal/model"
)

const requestTimeout = 15 * time.Second

// API is the subset of the server API the TUI drives
type API interface {
	ListBoards(ctx context.Context) ([]model.Board, error)
	ListBookmarks(ctx context.Context) ([]model.Board, error)
	ReorderBoards(ctx context.Context, ids []string) error
	ReorderBookmarks(ctx context.Context, ids []string) error
	CreateBoard(ctx context.Context) (*model.Board, error)
	GetBoard(ctx context.Context, boardID string) (*model.Board, error)
	UpdateBoard(ctx context.Context, boardID string, u board.BoardUpdate) (*model.Board, error)
	DeleteBoard(ctx context.Context, boardID string) error
	CreateSection(ctx context.Context, boardID string) (*model.Section, error)
	CreateTask(ctx context.Context, boardID, sectionID string) (*model.Task, error)
	UpdateTask(ctx context.Context, boardID, taskID string, u board.TaskUpdate) (*model.Task, error)
	DeleteTask(ctx context.Context, boardID, taskID string) error
	MoveTask(ctx context.Context, boardID string, m board.TaskMove) error
}

// listsMsg carries freshly fetched board and bookmark lists
type listsMsg struct {
	boards    []model.Board
	bookmarks []model.Board
}

// boardMsg carries a freshly fetched board with its sections
type boardMsg struct {
	board *model.Board
}

// doneMsg reports a finished write; reload asks for a refetch of the lists
// and, when a board is open, of that board
type doneMsg struct {
	text   string
	reload bool
}

// errMsg reports a failed request. The local view is left as is.
type errMsg struct {
	op  string
	err error
}

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func failed(op string, err error) tea.Msg {
	logger.Warn("TUI request failed", logger.F("op", op), logger.F("error", err.Error()))
	return errMsg{op: op, err: err}
}

func (m Model) fetchLists() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()

		boards, err := api.ListBoards(ctx)
		if err != nil {
			return failed("load boards", err)
		}
		bookmarks, err := api.ListBookmarks(ctx)
		if err != nil {
			return failed("load bookmarks", err)
		}
		return listsMsg{boards: boards, bookmarks: bookmarks}
	}
}

func (m Model) fetchBoard(boardID string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()

		b, err := api.GetBoard(ctx, boardID)
		if err != nil {
			return failed("load board", err)
		}
		return boardMsg{board: b}
	}
}

// write runs fn as a request and reports its outcome
func (m Model) write(op, text string, reload bool, fn func(ctx context.Context, api API) error) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()

		if err := fn(ctx, api); err != nil {
			return failed(op, err)
		}
		return doneMsg{text: text, reload: reload}
	}
}

// waitForEvent delivers results of debounced writes, which finish outside
// the update loop
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return <-events
	}
}

// saveLater schedules a debounced write whose outcome arrives via waitForEvent
func (m Model) saveLater(key, op string, fn func(ctx context.Context, api API) error) {
	api, events := m.api, m.events
	m.debounce.Schedule(key, func() {
		ctx, cancel := withTimeout()
		defer cancel()

		var msg tea.Msg = doneMsg{text: "Saved"}
		if err := fn(ctx, api); err != nil {
			msg = failed(op, err)
		}
		select {
		case events <- msg:
		default:
		}
	})
}
