package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/taskboard/internal/model"
)

const paneWidth = 34

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var mainContent string
	if m.screen == ScreenBoard && m.board != nil {
		mainContent = m.renderBoard()
	} else {
		mainContent = lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderList("Boards", m.boards, m.boardCursor, m.pane == PaneBoards),
			m.renderList("Bookmarks", m.bookmarks, m.bookmarkCursor, m.pane == PaneBookmarks),
		)
	}

	if m.mode == ModeEditBoard || m.mode == ModeEditTask {
		mainContent = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			m.renderModal(),
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	if m.mode == ModeHelp {
		mainContent = m.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, m.renderStatusBar())
}

func (m Model) renderList(title string, boards []model.Board, cursor int, focused bool) string {
	var s strings.Builder

	s.WriteString(PaneTitleStyle.Render(fmt.Sprintf("%s (%d)", title, len(boards))) + "\n")
	s.WriteString(lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", paneWidth-4)) + "\n\n")

	if len(boards) == 0 {
		s.WriteString(HelpStyle.Render("  Nothing here yet"))
	}

	for i, b := range boards {
		marker := "  "
		style := ItemStyle
		if i == cursor && focused {
			marker = "❯ "
			style = ItemSelectedStyle
		}
		star := " "
		if b.Bookmark {
			star = StarStyle.Render("★")
		}
		line := fmt.Sprintf("%s%s %s", marker, b.Icon, truncate(b.Title, paneWidth-12))
		s.WriteString(style.Render(line) + " " + star + "\n")
	}

	return PaneStyle.Width(paneWidth).Height(m.height - 2).Render(s.String())
}

func (m Model) renderBoard() string {
	b := m.board
	header := PaneTitleStyle.Render(fmt.Sprintf("%s %s", b.Icon, b.Title)) + "\n" +
		HelpStyle.Render(truncate(strings.ReplaceAll(b.Description, "\n", "  "), m.width-4)) + "\n"

	if len(b.Sections) == 0 {
		return header + "\n" + HelpStyle.Render("  No sections. Press 's' to add one.")
	}

	colWidth := 28
	if n := len(b.Sections); n > 0 && m.width/n-4 > colWidth {
		colWidth = m.width/n - 4
	}

	columns := make([]string, len(b.Sections))
	for i, sec := range b.Sections {
		var s strings.Builder
		title := sec.Title
		if title == "" {
			title = "Untitled"
		}
		s.WriteString(PaneTitleStyle.Render(truncate(sec.Icon+" "+title, colWidth-2)) + "\n")
		s.WriteString(HelpStyle.Render(fmt.Sprintf("%d tasks", len(sec.Tasks))) + "\n\n")

		for j, t := range sec.Tasks {
			style := ItemStyle
			marker := "  "
			if i == m.sectionCursor && j == m.taskCursor {
				style = ItemSelectedStyle
				marker = "❯ "
			}
			name := t.Title
			if name == "" {
				name = "(untitled)"
			}
			s.WriteString(style.Render(marker+truncate(name, colWidth-6)) + "\n")
		}

		style := ColumnStyle
		if i == m.sectionCursor {
			style = ColumnFocusedStyle
		}
		columns[i] = style.Width(colWidth).Render(s.String())
	}

	return header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func (m Model) renderStatusBar() string {
	help := "j/k:nav  J/K:move  tab:pane  enter:open  n:new  e:edit  b:bookmark  d:del  r:refresh  ?:help  q:quit"
	if m.screen == ScreenBoard {
		help = "h/j/k/l:nav  J/K:move  H/L:move section  a:task  s:section  e:edit  d:del  esc:back  q:quit"
	}

	switch {
	case m.err != nil:
		help = ErrorStyle.Render("Error: "+m.err.Error()) + HelpStyle.Render("  (r to refresh)")
	case m.message != "":
		help = m.message
	}

	if n := m.debounce.Pending(); n > 0 {
		help += fmt.Sprintf("  [saving %d]", n)
	}

	return StatusBarStyle.Width(m.width).Render(help)
}

func (m Model) renderModal() string {
	title := "Edit Board Title"
	if m.mode == ModeEditTask {
		title = "Edit Task Title"
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	content += m.input.View() + "\n\n"
	content += HelpStyle.Render("Saves as you type  Enter:save now  Esc:close")

	return ModalStyle.Render(content)
}

func (m Model) renderHelp() string {
	help := `
╭──── Keyboard Shortcuts ─────╮
│                             │
│  Boards                     │
│  ──────                     │
│  j/k      Move cursor       │
│  J/K      Move board        │
│  tab/h/l  Switch pane       │
│  enter    Open board        │
│  n        New board         │
│  e        Edit title        │
│  b        Toggle bookmark   │
│  d        Delete board      │
│                             │
│  Board view                 │
│  ──────────                 │
│  h/l      Switch section    │
│  J/K      Move task         │
│  H/L      Move to section   │
│  a        Add task          │
│  s        Add section       │
│  esc      Back to boards    │
│                             │
│  r refresh  ? help  q quit  │
│                             │
╰─────────────────────────────╯

     Press any key to close
`
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, help)
}
