package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/existflow/taskboard/internal/client"
	"github.com/existflow/taskboard/internal/model"
)

const requestTimeout = 15 * time.Second

// newClient creates an API client from the loaded config and stored session
func newClient() (*client.Client, error) {
	c, err := client.New(client.DefaultSessionPath(), cfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return c, nil
}

// loggedInClient is newClient that fails early without a session
func loggedInClient() (*client.Client, error) {
	c, err := newClient()
	if err != nil {
		return nil, err
	}
	if !c.IsLoggedIn() {
		return nil, fmt.Errorf("not logged in. Run 'taskboard auth login' first")
	}
	return c, nil
}

func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, requestTimeout)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// matchID finds the single id in ids starting with prefix
func matchID(kind, prefix string, ids []string) (string, error) {
	var found []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%s not found: %s", kind, prefix)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%s id %q is ambiguous (%d matches)", kind, prefix, len(found))
	}
}

func boardIDs(boards []model.Board) []string {
	ids := make([]string, len(boards))
	for i, b := range boards {
		ids[i] = b.ID
	}
	return ids
}

func taskIDs(tasks []model.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// resolveBoard expands a board id prefix, falling back to the current
// context when arg is empty
func resolveBoard(ctx context.Context, c *client.Client, arg string) (string, error) {
	if arg == "" {
		arg = GetCurrentContext()
		if arg == "" {
			return "", fmt.Errorf("no board given and no context set. Use 'taskboard context set <board-id>'")
		}
	}
	boards, err := c.ListBoards(ctx)
	if err != nil {
		return "", err
	}
	return matchID("board", arg, boardIDs(boards))
}

// sectionOf finds the section with the given id prefix on b
func sectionOf(b *model.Board, prefix string) (*model.Section, error) {
	ids := make([]string, len(b.Sections))
	for i, s := range b.Sections {
		ids[i] = s.ID
	}
	id, err := matchID("section", prefix, ids)
	if err != nil {
		return nil, err
	}
	return &b.Sections[indexOf(ids, id)], nil
}

// taskOf finds the task with the given id prefix and the section holding it
func taskOf(b *model.Board, prefix string) (*model.Section, int, error) {
	var ids []string
	for _, s := range b.Sections {
		ids = append(ids, taskIDs(s.Tasks)...)
	}
	id, err := matchID("task", prefix, ids)
	if err != nil {
		return nil, -1, err
	}
	for i := range b.Sections {
		if idx := indexOf(taskIDs(b.Sections[i].Tasks), id); idx >= 0 {
			return &b.Sections[i], idx, nil
		}
	}
	return nil, -1, fmt.Errorf("task not found: %s", prefix)
}

func printBoards(boards []model.Board, current string) {
	if len(boards) == 0 {
		fmt.Println("📭 No boards found")
		return
	}
	fmt.Println()
	for i, b := range boards {
		marker := "  "
		if b.ID == current {
			marker = "❯ "
		}
		star := " "
		if b.Bookmark {
			star = "★"
		}
		fmt.Printf("%s%2d. %s %s %s  %s\n", marker, i, star, shortID(b.ID), b.Icon, b.Title)
	}
	fmt.Println()
}

func printBoard(b *model.Board) {
	fmt.Printf("\n%s %s  (%s)\n", b.Icon, b.Title, shortID(b.ID))
	if b.Description != "" {
		for _, line := range strings.Split(b.Description, "\n") {
			fmt.Printf("   %s\n", line)
		}
	}
	if len(b.Sections) == 0 {
		fmt.Println("\n   No sections yet. Use 'taskboard section add'")
		fmt.Println()
		return
	}
	for _, s := range b.Sections {
		title := s.Title
		if title == "" {
			title = "Untitled"
		}
		fmt.Printf("\n── %s %s (%s) ─ %d tasks\n", s.Icon, title, shortID(s.ID), len(s.Tasks))
		for i, t := range s.Tasks {
			name := t.Title
			if name == "" {
				name = "(untitled)"
			}
			fmt.Printf("   %2d. %s  %s\n", i, shortID(t.ID), name)
		}
	}
	fmt.Println()
}
