package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/taskboard/internal/board"
	"github.com/existflow/taskboard/internal/ordering"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"t"},
	Short:   "Manage tasks of a board",
	Long: `Add, edit, move and delete tasks. Commands act on the current board
unless --board is given.

Examples:
  taskboard task add --section 9c1e --title "Write release notes"
  taskboard task edit 41d0 --content "Draft in docs/"
  taskboard task move 41d0 --index 0             # Top of its section
  taskboard task move 41d0 --to 7ab2 --index 2   # Into another section`,
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a task on top of a section",
	RunE:  runTaskAdd,
}

var taskEditCmd = &cobra.Command{
	Use:   "edit <task-id>",
	Short: "Change a task's title or content",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskEdit,
}

var taskRmCmd = &cobra.Command{
	Use:     "rm <task-id>",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskRm,
}

var taskMoveCmd = &cobra.Command{
	Use:   "move <task-id>",
	Short: "Move a task within or across sections",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskMove,
}

var (
	taskBoard   string
	taskSection string
	taskTitle   string
	taskContent string
	taskTo      string
	taskIndex   int
)

func init() {
	taskCmd.PersistentFlags().StringVarP(&taskBoard, "board", "b", "", "Board id (defaults to the current context)")

	taskAddCmd.Flags().StringVarP(&taskSection, "section", "s", "", "Section id (defaults to the first section)")
	taskAddCmd.Flags().StringVarP(&taskTitle, "title", "t", "", "Task title")
	taskAddCmd.Flags().StringVarP(&taskContent, "content", "c", "", "Task content")

	taskEditCmd.Flags().StringVarP(&taskTitle, "title", "t", "", "New title")
	taskEditCmd.Flags().StringVarP(&taskContent, "content", "c", "", "New content")

	taskMoveCmd.Flags().StringVar(&taskTo, "to", "", "Destination section id (defaults to the task's section)")
	taskMoveCmd.Flags().IntVarP(&taskIndex, "index", "i", 0, "Destination display index (0 is the top)")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskEditCmd)
	taskCmd.AddCommand(taskRmCmd)
	taskCmd.AddCommand(taskMoveCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	c, err := loggedInClient()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd)
	defer cancel()

	boardID, err := resolveBoard(ctx, c, taskBoard)
	if err != nil {
		return err
	}
	b, err := c.GetBoard(ctx, boardID)
	if err != nil {
		return err
	}
	if len(b.Sections) == 0 {
		return fmt.Errorf("board has no sections. Use 'taskboard section add' first")
	}
	sectionID := b.Sections[0].ID
	if taskSection != "" {
		sec, err := sectionOf(b, taskSection)
		if err != nil {
			return err
		}
		sectionID = sec.ID
	}

	t, err := c.CreateTask(ctx, boardID, sectionID)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	var u board.TaskUpdate
	if cmd.Flags().Changed("title") {
		u.Title = &taskTitle
	}
	if cmd.Flags().Changed("content") {
		u.Content = &taskContent
	}
	if u.Title != nil || u.Content != nil {
		if t, err = c.UpdateTask(ctx, boardID, t.ID, u); err != nil {
			return fmt.Errorf("task created but update failed: %w", err)
		}
	}

	fmt.Printf("✅ Added task %s %s\n", shortID(t.ID), t.Title)
	return nil
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
	var u board.TaskUpdate
	if cmd.Flags().Changed("title") {
		u.Title = &taskTitle
	}
	if cmd.Flags().Changed("content") {
		u.Content = &taskContent
	}
	if u.Title == nil && u.Content == nil {
		return fmt.Errorf("nothing to change. Pass --title or --content")
	}

	c, err := loggedInClient()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd)
	defer cancel()

	boardID, err := resolveBoard(ctx, c, taskBoard)
	if err != nil {
		return err
	}
	b, err := c.GetBoard(ctx, boardID)
	if err != nil {
		return err
	}
	sec, idx, err := taskOf(b, args[0])
	if err != nil {
		return err
	}

	t, err := c.UpdateTask(ctx, boardID, sec.Tasks[idx].ID, u)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	fmt.Printf("✅ Updated task %s %s\n", shortID(t.ID), t.Title)
	return nil
}

func runTaskRm(cmd *cobra.Command, args []string) error {
	c, err := loggedInClient()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd)
	defer cancel()

	boardID, err := resolveBoard(ctx, c, taskBoard)
	if err != nil {
		return err
	}
	b, err := c.GetBoard(ctx, boardID)
	if err != nil {
		return err
	}
	sec, idx, err := taskOf(b, args[0])
	if err != nil {
		return err
	}

	id := sec.Tasks[idx].ID
	if err := c.DeleteTask(ctx, boardID, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	fmt.Printf("🗑️  Deleted task %s\n", shortID(id))
	return nil
}

func runTaskMove(cmd *cobra.Command, args []string) error {
	c, err := loggedInClient()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd)
	defer cancel()

	boardID, err := resolveBoard(ctx, c, taskBoard)
	if err != nil {
		return err
	}
	b, err := c.GetBoard(ctx, boardID)
	if err != nil {
		return err
	}
	src, from, err := taskOf(b, args[0])
	if err != nil {
		return err
	}
	dst := src
	if taskTo != "" {
		if dst, err = sectionOf(b, taskTo); err != nil {
			return err
		}
	}

	m := buildTaskMove(src.ID, dst.ID, taskIDs(src.Tasks), taskIDs(dst.Tasks), from, taskIndex)
	if err := c.MoveTask(ctx, boardID, m); err != nil {
		return fmt.Errorf("failed to move task: %w", err)
	}
	fmt.Printf("✅ Moved task %s to position %d\n", shortID(args[0]), indexOf(m.DestinationIDs, src.Tasks[from].ID))
	return nil
}

// buildTaskMove applies a drag locally and returns the resulting lists
func buildTaskMove(srcID, dstID string, srcIDs, dstIDs []string, from, to int) board.TaskMove {
	if srcID == dstID {
		return board.TaskMove{
			SourceSectionID:      srcID,
			DestinationSectionID: dstID,
			DestinationIDs:       ordering.Move(srcIDs, from, to),
		}
	}
	newSrc, newDst := ordering.Transfer(srcIDs, dstIDs, from, to)
	return board.TaskMove{
		SourceSectionID:      srcID,
		DestinationSectionID: dstID,
		SourceIDs:            newSrc,
		DestinationIDs:       newDst,
	}
}
