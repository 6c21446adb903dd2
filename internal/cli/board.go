package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/taskboard/internal/board"
	"github.com/existflow/taskboard/internal/ordering"
)

var boardCmd = &cobra.Command{
	Use:     "board",
	Aliases: []string{"b"},
	Short:   "Manage boards",
	Long: `Create, arrange and delete boards.

Board ids may be abbreviated to any unique prefix.

Examples:
  taskboard board ls
  taskboard board new --title "Sprint 12"
  taskboard board move 3f2a 0      # Move board to the top
  taskboard board rename 3f2a "Roadmap"`,
}

var boardLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List boards, top first",
	RunE:    runBoardList,
}

var boardNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a board on top of the list",
	RunE:  runBoardNew,
}

var boardShowCmd = &cobra.Command{
	Use:   "show [board-id]",
	Short: "Show a board with its sections and tasks",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBoardShow,
}

var boardRenameCmd = &cobra.Command{
	Use:   "rename <board-id> <title>",
	Short: "Change a board's title",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args[1:], " ")
		return updateBoard(cmd, args[0], board.BoardUpdate{Title: &title})
	},
}

var boardDescribeCmd = &cobra.Command{
	Use:   "describe <board-id> <description>",
	Short: "Change a board's description",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		desc := strings.Join(args[1:], " ")
		return updateBoard(cmd, args[0], board.BoardUpdate{Description: &desc})
	},
}

var boardIconCmd = &cobra.Command{
	Use:   "icon <board-id> <icon>",
	Short: "Change a board's icon",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateBoard(cmd, args[0], board.BoardUpdate{Icon: &args[1]})
	},
}

var boardRmCmd = &cobra.Command{
	Use:     "rm <board-id>",
	Aliases: []string{"delete"},
	Short:   "Delete a board with its sections and tasks",
	Args:    cobra.ExactArgs(1),
	RunE:    runBoardRm,
}

var boardMoveCmd = &cobra.Command{
	Use:   "move <board-id> <index>",
	Short: "Move a board to a display index (0 is the top)",
	Args:  cobra.ExactArgs(2),
	RunE:  runBoardMove,
}

var (
	boardNewTitle string
	boardNewIcon  string
)

func init() {
	boardNewCmd.Flags().StringVarP(&boardNewTitle, "title", "t", "", "Board title")
	boardNewCmd.Flags().StringVarP(&boardNewIcon, "icon", "i", "", "Board icon")

	boardCmd.AddCommand(boardLsCmd)
	boardCmd.AddCommand(boardNewCmd)
	boardCmd.AddCommand(boardShowCmd)
	boardCmd.AddCommand(boardRenameCmd)
	boardCmd.AddCommand(boardDescribeCmd)
	boardCmd.AddCommand(boardIconCmd)
	boardCmd.AddCommand(boardRmCmd)
	boardCmd.AddCommand(boardMoveCmd)
}

func runBoardList(cmd *cobra.Command, args []string) error {
	c, err := loggedInClient()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd)
	defer cancel()

	boards, err := c.ListBoards(ctx)
	if err != nil {
		return fmt.Errorf("failed to list boards: %w", err)
	}
	printBoards(boards, GetCurrentContext())
	return nil
}

func runBoardNew(cmd *cobra.Command, args []string) error {
	c, err := loggedInClient()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd)
	defer cancel()

	b, err := c.CreateBoard(ctx)
	if err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}

	var u board.BoardUpdate
	if boardNewTitle != "" {
		u.Title = &boardNewTitle
	}
	if boardNewIcon != "" {
		u.Icon = &boardNewIcon
	}
	if u.Title != nil || u.Icon != nil {
		if b, err = c.UpdateBoard(ctx, b.ID, u); err != nil {
			return fmt.Errorf("board created but update failed: %w", err)
		}
	}

	fmt.Printf("✅ Created board %s %s (%s)\n", b.Icon, b.Title, shortID(b.ID))
	return nil
}

func runBoardShow(cmd *cobra.Command, args []string) error {
	c, err := loggedInClient()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd)
	defer cancel()

	arg := ""
	if len(args) == 1 {
		arg = args[0]
	}
	id, err := resolveBoard(ctx, c, arg)
	if err != nil {
		return err
	}
	b, err := c.GetBoard(ctx, id)
	if err != nil {
		return err
	}
	printBoard(b)
	return nil
}

func updateBoard(cmd *cobra.Command, arg string, u board.BoardUpdate) error {
	c, err := loggedInClient()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd)
	defer cancel()

	id, err := resolveBoard(ctx, c, arg)
	if err != nil {
		return err
	}
	b, err := c.UpdateBoard(ctx, id, u)
	if err != nil {
		return fmt.Errorf("failed to update board: %w", err)
	}
	fmt.Printf("✅ Updated %s %s\n", b.Icon, b.Title)
	return nil
}

func runBoardRm(cmd *cobra.Command, args []string) error {
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
	if err := c.DeleteBoard(ctx, id); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}
	if GetCurrentContext() == id {
		_ = ClearContext()
	}
	fmt.Printf("🗑️  Deleted board %s\n", shortID(id))
	return nil
}

func runBoardMove(cmd *cobra.Command, args []string) error {
	to, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid index %q", args[1])
	}

	c, err := loggedInClient()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd)
	defer cancel()

	boards, err := c.ListBoards(ctx)
	if err != nil {
		return err
	}
	ids := boardIDs(boards)
	id, err := matchID("board", args[0], ids)
	if err != nil {
		return err
	}

	reordered := ordering.Move(ids, indexOf(ids, id), to)
	if err := c.ReorderBoards(ctx, reordered); err != nil {
		return fmt.Errorf("failed to reorder boards: %w", err)
	}
	fmt.Printf("✅ Moved board %s to position %d\n", shortID(id), indexOf(reordered, id))
	return nil
}
