package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/taskboard/internal/config"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage the current board",
	Long: `Set or view the current board context.

When a context is set, section and task commands act on that board by default.

Examples:
  taskboard context              # Show current board
  taskboard context set 3f2a     # Switch to the board whose id starts with 3f2a
  taskboard context clear        # Clear the context`,
	RunE: runContextShow,
}

var contextSetCmd = &cobra.Command{
	Use:   "set [board-id]",
	Short: "Set the current board",
	Args:  cobra.ExactArgs(1),
	RunE:  runContextSet,
}

var contextClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the current board",
	RunE:  runContextClear,
}

func init() {
	contextCmd.AddCommand(contextSetCmd)
	contextCmd.AddCommand(contextClearCmd)
}

func contextFilePath() string {
	return filepath.Join(config.Dir(), "context")
}

// GetCurrentContext returns the current board id, or empty when unset
func GetCurrentContext() string {
	data, err := os.ReadFile(contextFilePath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetContext saves the current board id
func SetContext(boardID string) error {
	path := contextFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(boardID), 0644)
}

// ClearContext removes the context file
func ClearContext() error {
	if err := os.Remove(contextFilePath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func runContextShow(cmd *cobra.Command, args []string) error {
	current := GetCurrentContext()
	if current == "" {
		fmt.Println("📭 No board selected")
		return nil
	}

	c, err := loggedInClient()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd)
	defer cancel()

	b, err := c.GetBoard(ctx, current)
	if err != nil {
		fmt.Printf("⚠️  Context set to '%s' but board not found\n", shortID(current))
		return nil
	}
	fmt.Printf("📋 Current board: %s %s (%d sections)\n", b.Icon, b.Title, len(b.Sections))
	return nil
}

func runContextSet(cmd *cobra.Command, args []string) error {
	c, err := loggedInClient()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd)
	defer cancel()

	id, err := resolveBoard(ctx, c, args[0])
	if err != nil {
		return err
	}
	b, err := c.GetBoard(ctx, id)
	if err != nil {
		return err
	}

	if err := SetContext(id); err != nil {
		return fmt.Errorf("failed to set context: %w", err)
	}
	fmt.Printf("📋 Switched to: %s %s\n", b.Icon, b.Title)
	return nil
}

func runContextClear(cmd *cobra.Command, args []string) error {
	if err := ClearContext(); err != nil {
		return fmt.Errorf("failed to clear context: %w", err)
	}
	fmt.Println("📭 Context cleared")
	return nil
}
