package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/taskboard/internal/client"
	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/internal/model"
)

// Pane represents which list is focused in the lists view
type Pane int

const (
	PaneBoards Pane = iota
	PaneBookmarks
)

// Screen is the top-level view being shown
type Screen int

const (
	ScreenLists Screen = iota
	ScreenBoard
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeEditBoard
	ModeEditTask
	ModeHelp
)

// Model is the main TUI model. boards, bookmarks and board are the local
// ordered view; reorders are applied to it before the request is sent and are
// not rolled back when the request fails.
type Model struct {
	api      API
	debounce *client.Debouncer
	events   chan tea.Msg

	boards    []model.Board
	bookmarks []model.Board
	board     *model.Board

	// UI state
	width          int
	height         int
	screen         Screen
	pane           Pane
	mode           Mode
	boardCursor    int
	bookmarkCursor int
	sectionCursor  int
	taskCursor     int

	// Input
	input   textinput.Model
	editKey string
	editID  string

	message string
	err     error
}

// NewModel creates a new TUI model over api. Title edits are coalesced by
// debounce before they are sent.
func NewModel(api API, debounce *client.Debouncer) Model {
	logger.Info("Initializing TUI model")

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50

	return Model{
		api:      api,
		debounce: debounce,
		events:   make(chan tea.Msg, 16),
		input:    ti,
		message:  "Loading boards...",
	}
}

// currentList returns the focused list in the lists view
func (m *Model) currentList() ([]model.Board, int) {
	if m.pane == PaneBookmarks {
		return m.bookmarks, m.bookmarkCursor
	}
	return m.boards, m.boardCursor
}

func (m *Model) currentBoard() *model.Board {
	list, cursor := m.currentList()
	if cursor < 0 || cursor >= len(list) {
		return nil
	}
	return &list[cursor]
}

func (m *Model) setCursor(c int) {
	if m.pane == PaneBookmarks {
		m.bookmarkCursor = c
	} else {
		m.boardCursor = c
	}
}

func (m *Model) currentSection() *model.Section {
	if m.board == nil || m.sectionCursor < 0 || m.sectionCursor >= len(m.board.Sections) {
		return nil
	}
	return &m.board.Sections[m.sectionCursor]
}

func (m *Model) currentTask() *model.Task {
	s := m.currentSection()
	if s == nil || m.taskCursor < 0 || m.taskCursor >= len(s.Tasks) {
		return nil
	}
	return &s.Tasks[m.taskCursor]
}

// setBoards replaces both lists, keeping cursors in range
func (m *Model) setBoards(boards, bookmarks []model.Board) {
	m.boards = boards
	m.bookmarks = bookmarks
	m.boardCursor = clampCursor(m.boardCursor, len(boards))
	m.bookmarkCursor = clampCursor(m.bookmarkCursor, len(bookmarks))
}

// renameBoard updates the title of id in both local lists
func (m *Model) renameBoard(id, title string) {
	for i := range m.boards {
		if m.boards[i].ID == id {
			m.boards[i].Title = title
		}
	}
	for i := range m.bookmarks {
		if m.bookmarks[i].ID == id {
			m.bookmarks[i].Title = title
		}
	}
	if m.board != nil && m.board.ID == id {
		m.board.Title = title
	}
}
