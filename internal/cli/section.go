package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/taskboard/internal/board"
)

var sectionCmd = &cobra.Command{
	Use:     "section",
	Aliases: []string{"s"},
	Short:   "Manage sections of a board",
	Long: `Add, rename and delete sections. Commands act on the current board
unless --board is given.

Examples:
  taskboard section add --title "Doing"
  taskboard section rename 9c1e "Done"
  taskboard section rm 9c1e`,
}

var sectionAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a section to the board",
	RunE:  runSectionAdd,
}

var sectionRenameCmd = &cobra.Command{
	Use:   "rename <section-id> <title>",
	Short: "Change a section's title",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runSectionRename,
}

var sectionRmCmd = &cobra.Command{
	Use:     "rm <section-id>",
	Aliases: []string{"delete"},
	Short:   "Delete a section and its tasks",
	Args:    cobra.ExactArgs(1),
	RunE:    runSectionRm,
}

var (
	sectionBoard    string
	sectionAddTitle string
)

func init() {
	sectionCmd.PersistentFlags().StringVarP(&sectionBoard, "board", "b", "", "Board id (defaults to the current context)")
	sectionAddCmd.Flags().StringVarP(&sectionAddTitle, "title", "t", "", "Section title")

	sectionCmd.AddCommand(sectionAddCmd)
	sectionCmd.AddCommand(sectionRenameCmd)
	sectionCmd.AddCommand(sectionRmCmd)
}

func runSectionAdd(cmd *cobra.Command, args []string) error {
	c, err := loggedInClient()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd)
	defer cancel()

	boardID, err := resolveBoard(ctx, c, sectionBoard)
	if err != nil {
		return err
	}
	s, err := c.CreateSection(ctx, boardID)
	if err != nil {
		return fmt.Errorf("failed to create section: %w", err)
	}
	if sectionAddTitle != "" {
		if s, err = c.UpdateSection(ctx, boardID, s.ID, board.SectionUpdate{Title: &sectionAddTitle}); err != nil {
			return fmt.Errorf("section created but rename failed: %w", err)
		}
	}

	fmt.Printf("✅ Added section %s %s\n", shortID(s.ID), s.Title)
	return nil
}

func runSectionRename(cmd *cobra.Command, args []string) error {
	c, err := loggedInClient()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd)
	defer cancel()

	boardID, err := resolveBoard(ctx, c, sectionBoard)
	if err != nil {
		return err
	}
	b, err := c.GetBoard(ctx, boardID)
	if err != nil {
		return err
	}
	sec, err := sectionOf(b, args[0])
	if err != nil {
		return err
	}

	title := strings.Join(args[1:], " ")
	if _, err := c.UpdateSection(ctx, boardID, sec.ID, board.SectionUpdate{Title: &title}); err != nil {
		return fmt.Errorf("failed to rename section: %w", err)
	}
	fmt.Printf("✅ Renamed section %s to %s\n", shortID(sec.ID), title)
	return nil
}

func runSectionRm(cmd *cobra.Command, args []string) error {
	c, err := loggedInClient()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd)
	defer cancel()

	boardID, err := resolveBoard(ctx, c, sectionBoard)
	if err != nil {
		return err
	}
	b, err := c.GetBoard(ctx, boardID)
	if err != nil {
		return err
	}
	sec, err := sectionOf(b, args[0])
	if err != nil {
		return err
	}

	if err := c.DeleteSection(ctx, boardID, sec.ID); err != nil {
		return fmt.Errorf("failed to delete section: %w", err)
	}
	fmt.Printf("🗑️  Deleted section %s and %d tasks\n", shortID(sec.ID), len(sec.Tasks))
	return nil
}
