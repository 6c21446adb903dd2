package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/taskboard/internal/board"
	"github.com/existflow/taskboard/internal/model"
	"github.com/existflow/taskboard/internal/ordering"
)

// eventMsg wraps a message delivered through the events channel
type eventMsg struct {
	msg tea.Msg
}

// Init loads the lists and starts listening for debounced write results
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchLists(), m.listen())
}

func (m Model) listen() tea.Cmd {
	wait := m.waitForEvent()
	return func() tea.Msg {
		return eventMsg{msg: wait()}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case eventMsg:
		next, cmd := m.Update(msg.msg)
		return next, tea.Batch(cmd, next.(Model).listen())

	case listsMsg:
		m.setBoards(msg.boards, msg.bookmarks)
		m.err = nil
		m.message = fmt.Sprintf("%d boards, %d bookmarks", len(m.boards), len(m.bookmarks))
		return m, nil

	case boardMsg:
		m.board = msg.board
		m.screen = ScreenBoard
		m.sectionCursor = clampCursor(m.sectionCursor, len(m.board.Sections))
		if s := m.currentSection(); s != nil {
			m.taskCursor = clampCursor(m.taskCursor, len(s.Tasks))
		} else {
			m.taskCursor = 0
		}
		m.err = nil
		m.message = fmt.Sprintf("%s %s", m.board.Icon, m.board.Title)
		return m, nil

	case doneMsg:
		m.err = nil
		m.message = msg.text
		if !msg.reload {
			return m, nil
		}
		if m.screen == ScreenBoard && m.board != nil {
			return m, m.fetchBoard(m.board.ID)
		}
		return m, m.fetchLists()

	case errMsg:
		m.err = fmt.Errorf("%s: %w", msg.op, msg.err)
		m.message = ""
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeEditBoard, ModeEditTask:
			return m.updateInput(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}

		if key.Matches(msg, keys.Quit) {
			m.debounce.Stop()
			return m, tea.Quit
		}
		if key.Matches(msg, keys.Help) {
			m.mode = ModeHelp
			return m, nil
		}
		if m.screen == ScreenBoard {
			return m.handleBoardKeys(msg)
		}
		return m.handleListKeys(msg)
	}

	return m, nil
}

// handleListKeys handles key presses on the boards and bookmarks panes
func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Tab), key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
		if m.pane == PaneBoards {
			m.pane = PaneBookmarks
		} else {
			m.pane = PaneBoards
		}

	case key.Matches(msg, keys.Up):
		_, cursor := m.currentList()
		if cursor > 0 {
			m.setCursor(cursor - 1)
		}

	case key.Matches(msg, keys.Down):
		list, cursor := m.currentList()
		if cursor < len(list)-1 {
			m.setCursor(cursor + 1)
		}

	case key.Matches(msg, keys.MoveUp):
		return m.moveBoard(-1)

	case key.Matches(msg, keys.MoveDown):
		return m.moveBoard(1)

	case key.Matches(msg, keys.New):
		m.pane = PaneBoards
		m.boardCursor = 0
		return m, m.write("create board", "Board created", true, func(ctx context.Context, api API) error {
			_, err := api.CreateBoard(ctx)
			return err
		})

	case key.Matches(msg, keys.Delete):
		return m.deleteBoard()

	case key.Matches(msg, keys.Bookmark):
		return m.toggleBookmark()

	case key.Matches(msg, keys.Edit):
		b := m.currentBoard()
		if b == nil {
			return m, nil
		}
		return m.startEdit(ModeEditBoard, b.ID, b.Title)

	case key.Matches(msg, keys.Enter):
		b := m.currentBoard()
		if b == nil {
			return m, nil
		}
		m.sectionCursor, m.taskCursor = 0, 0
		m.message = "Opening " + b.Title + "..."
		return m, m.fetchBoard(b.ID)

	case key.Matches(msg, keys.Refresh):
		m.message = "Refreshing..."
		return m, m.fetchLists()
	}

	return m, nil
}

// moveBoard swaps the selected board with its neighbour in the focused list
// and submits the whole new order
func (m Model) moveBoard(delta int) (tea.Model, tea.Cmd) {
	list, from := m.currentList()
	to := from + delta
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) {
		return m, nil
	}

	moved := ordering.Move(list, from, to)
	ids := boardIDs(moved)
	if m.pane == PaneBookmarks {
		m.bookmarks = moved
		m.bookmarkCursor = to
		return m, m.write("reorder bookmarks", "Bookmarks reordered", false, func(ctx context.Context, api API) error {
			return api.ReorderBookmarks(ctx, ids)
		})
	}
	m.boards = moved
	m.boardCursor = to
	return m, m.write("reorder boards", "Boards reordered", false, func(ctx context.Context, api API) error {
		return api.ReorderBoards(ctx, ids)
	})
}

func (m Model) deleteBoard() (tea.Model, tea.Cmd) {
	b := m.currentBoard()
	if b == nil {
		return m, nil
	}
	id, title := b.ID, b.Title

	m.setBoards(removeBoard(m.boards, id), removeBoard(m.bookmarks, id))
	return m, m.write("delete board", "Deleted "+title, true, func(ctx context.Context, api API) error {
		return api.DeleteBoard(ctx, id)
	})
}

func (m Model) toggleBookmark() (tea.Model, tea.Cmd) {
	b := m.currentBoard()
	if b == nil {
		return m, nil
	}
	on := !b.Bookmark
	updated := *b
	updated.Bookmark = on

	boards := make([]model.Board, len(m.boards))
	copy(boards, m.boards)
	for i := range boards {
		if boards[i].ID == updated.ID {
			boards[i].Bookmark = on
		}
	}
	bookmarks := removeBoard(m.bookmarks, updated.ID)
	if on {
		bookmarks = append([]model.Board{updated}, bookmarks...)
	}
	m.setBoards(boards, bookmarks)

	text := "Bookmarked " + updated.Title
	if !on {
		text = "Removed bookmark from " + updated.Title
	}
	return m, m.write("toggle bookmark", text, true, func(ctx context.Context, api API) error {
		_, err := api.UpdateBoard(ctx, updated.ID, board.BoardUpdate{Bookmark: &on})
		return err
	})
}

// handleBoardKeys handles key presses in the board view
func (m Model) handleBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.board == nil {
		m.screen = ScreenLists
		return m, nil
	}
	boardID := m.board.ID

	switch {
	case key.Matches(msg, keys.Escape):
		m.screen = ScreenLists
		m.board = nil
		return m, m.fetchLists()

	case key.Matches(msg, keys.Left):
		if m.sectionCursor > 0 {
			m.sectionCursor--
			m.taskCursor = clampCursor(m.taskCursor, len(m.currentSection().Tasks))
		}

	case key.Matches(msg, keys.Right):
		if m.sectionCursor < len(m.board.Sections)-1 {
			m.sectionCursor++
			m.taskCursor = clampCursor(m.taskCursor, len(m.currentSection().Tasks))
		}

	case key.Matches(msg, keys.Up):
		if m.taskCursor > 0 {
			m.taskCursor--
		}

	case key.Matches(msg, keys.Down):
		if s := m.currentSection(); s != nil && m.taskCursor < len(s.Tasks)-1 {
			m.taskCursor++
		}

	case key.Matches(msg, keys.MoveUp):
		return m.moveTask(-1)

	case key.Matches(msg, keys.MoveDown):
		return m.moveTask(1)

	case key.Matches(msg, keys.MoveLeft):
		return m.transferTask(-1)

	case key.Matches(msg, keys.MoveRight):
		return m.transferTask(1)

	case key.Matches(msg, keys.AddTask):
		s := m.currentSection()
		if s == nil {
			m.message = "Add a section first (s)"
			return m, nil
		}
		sectionID := s.ID
		m.taskCursor = 0
		return m, m.write("add task", "Task added", true, func(ctx context.Context, api API) error {
			_, err := api.CreateTask(ctx, boardID, sectionID)
			return err
		})

	case key.Matches(msg, keys.AddSection):
		return m, m.write("add section", "Section added", true, func(ctx context.Context, api API) error {
			_, err := api.CreateSection(ctx, boardID)
			return err
		})

	case key.Matches(msg, keys.Delete):
		t := m.currentTask()
		if t == nil {
			return m, nil
		}
		taskID := t.ID
		s := m.currentSection()
		s.Tasks = removeTask(s.Tasks, taskID)
		m.taskCursor = clampCursor(m.taskCursor, len(s.Tasks))
		return m, m.write("delete task", "Task deleted", false, func(ctx context.Context, api API) error {
			return api.DeleteTask(ctx, boardID, taskID)
		})

	case key.Matches(msg, keys.Edit):
		t := m.currentTask()
		if t == nil {
			return m, nil
		}
		return m.startEdit(ModeEditTask, t.ID, t.Title)

	case key.Matches(msg, keys.Refresh):
		m.message = "Refreshing..."
		return m, m.fetchBoard(boardID)
	}

	return m, nil
}

// moveTask reorders the selected task within its section
func (m Model) moveTask(delta int) (tea.Model, tea.Cmd) {
	s := m.currentSection()
	if s == nil {
		return m, nil
	}
	from := m.taskCursor
	to := from + delta
	if from < 0 || from >= len(s.Tasks) || to < 0 || to >= len(s.Tasks) {
		return m, nil
	}

	s.Tasks = ordering.Move(s.Tasks, from, to)
	m.taskCursor = to

	mv := board.TaskMove{
		SourceSectionID:      s.ID,
		DestinationSectionID: s.ID,
		DestinationIDs:       taskIDs(s.Tasks),
	}
	boardID := m.board.ID
	return m, m.write("move task", "Task moved", false, func(ctx context.Context, api API) error {
		return api.MoveTask(ctx, boardID, mv)
	})
}

// transferTask moves the selected task into the neighbouring section at the
// same row and submits both resulting lists
func (m Model) transferTask(delta int) (tea.Model, tea.Cmd) {
	src := m.currentSection()
	if src == nil || m.taskCursor >= len(src.Tasks) {
		return m, nil
	}
	j := m.sectionCursor + delta
	if j < 0 || j >= len(m.board.Sections) {
		return m, nil
	}
	dst := &m.board.Sections[j]

	to := clampCursor(m.taskCursor, len(dst.Tasks)+1)
	src.Tasks, dst.Tasks = ordering.Transfer(src.Tasks, dst.Tasks, m.taskCursor, to)
	m.sectionCursor = j
	m.taskCursor = to

	mv := board.TaskMove{
		SourceSectionID:      src.ID,
		DestinationSectionID: dst.ID,
		SourceIDs:            taskIDs(src.Tasks),
		DestinationIDs:       taskIDs(dst.Tasks),
	}
	boardID := m.board.ID
	return m, m.write("move task", "Task moved", false, func(ctx context.Context, api API) error {
		return api.MoveTask(ctx, boardID, mv)
	})
}

func (m Model) startEdit(mode Mode, id, title string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.editID = id
	m.input.SetValue(title)
	m.input.Placeholder = "Title"
	m.input.Focus()
	m.input.CursorEnd()
	return m, textinput.Blink
}

// updateInput applies each keystroke to the local view and schedules a
// debounced save of the title
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Enter):
		m.mode = ModeNormal
		m.input.Blur()
		if key.Matches(msg, keys.Enter) {
			d := m.debounce
			return m, func() tea.Msg {
				d.Flush()
				return nil
			}
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	title := m.input.Value()
	if title == before {
		return m, cmd
	}

	id := m.editID
	if m.mode == ModeEditBoard {
		m.renameBoard(id, title)
		m.saveLater("board:"+id+":title", "save board title", func(ctx context.Context, api API) error {
			_, err := api.UpdateBoard(ctx, id, board.BoardUpdate{Title: &title})
			return err
		})
		return m, cmd
	}

	if m.board == nil {
		return m, cmd
	}
	boardID := m.board.ID
	m.renameTask(id, title)
	m.saveLater("task:"+id+":title", "save task title", func(ctx context.Context, api API) error {
		_, err := api.UpdateTask(ctx, boardID, id, board.TaskUpdate{Title: &title})
		return err
	})
	return m, cmd
}

func (m *Model) renameTask(id, title string) {
	for i := range m.board.Sections {
		for j := range m.board.Sections[i].Tasks {
			if m.board.Sections[i].Tasks[j].ID == id {
				m.board.Sections[i].Tasks[j].Title = title
			}
		}
	}
}

func removeBoard(boards []model.Board, id string) []model.Board {
	out := make([]model.Board, 0, len(boards))
	for _, b := range boards {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out
}

func removeTask(tasks []model.Task, id string) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
