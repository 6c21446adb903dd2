package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/existflow/taskboard/internal/board"
	"github.com/existflow/taskboard/internal/ordering"
)

var bookmarkCmd = &cobra.Command{
	Use:     "bookmark",
	Aliases: []string{"fav"},
	Short:   "Manage bookmarked boards",
	Long: `Bookmarks are a second ordered list over your boards.

Examples:
  taskboard bookmark ls
  taskboard bookmark add 3f2a
  taskboard bookmark move 3f2a 0`,
}

var bookmarkLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List bookmarked boards, top first",
	RunE:    runBookmarkList,
}

var bookmarkAddCmd = &cobra.Command{
	Use:   "add <board-id>",
	Short: "Bookmark a board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setBookmark(cmd, args[0], true)
	},
}

var bookmarkRmCmd = &cobra.Command{
	Use:   "rm <board-id>",
	Short: "Remove a board's bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setBookmark(cmd, args[0], false)
	},
}

var bookmarkMoveCmd = &cobra.Command{
	Use:   "move <board-id> <index>",
	Short: "Move a bookmark to a display index (0 is the top)",
	Args:  cobra.ExactArgs(2),
	RunE:  runBookmarkMove,
}

func init() {
	bookmarkCmd.AddCommand(bookmarkLsCmd)
	bookmarkCmd.AddCommand(bookmarkAddCmd)
	bookmarkCmd.AddCommand(bookmarkRmCmd)
	bookmarkCmd.AddCommand(bookmarkMoveCmd)
}

func runBookmarkList(cmd *cobra.Command, args []string) error {
	c, err := loggedInClient()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd)
	defer cancel()

	boards, err := c.ListBookmarks(ctx)
	if err != nil {
		return fmt.Errorf("failed to list bookmarks: %w", err)
	}
	printBoards(boards, GetCurrentContext())
	return nil
}

func setBookmark(cmd *cobra.Command, arg string, on bool) error {
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
	b, err := c.UpdateBoard(ctx, id, board.BoardUpdate{Bookmark: &on})
	if err != nil {
		return fmt.Errorf("failed to update bookmark: %w", err)
	}
	if on {
		fmt.Printf("★ Bookmarked %s %s\n", b.Icon, b.Title)
	} else {
		fmt.Printf("☆ Removed bookmark from %s %s\n", b.Icon, b.Title)
	}
	return nil
}

func runBookmarkMove(cmd *cobra.Command, args []string) error {
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

	bookmarks, err := c.ListBookmarks(ctx)
	if err != nil {
		return err
	}
	ids := boardIDs(bookmarks)
	id, err := matchID("bookmark", args[0], ids)
	if err != nil {
		return err
	}

	reordered := ordering.Move(ids, indexOf(ids, id), to)
	if err := c.ReorderBookmarks(ctx, reordered); err != nil {
		return fmt.Errorf("failed to reorder bookmarks: %w", err)
	}
	fmt.Printf("✅ Moved bookmark %s to position %d\n", shortID(id), indexOf(reordered, id))
	return nil
}
