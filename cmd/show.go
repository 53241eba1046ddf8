package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/practiz/internal/exercise"
	"github.com/abhisek/practiz/internal/ui/components"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [exercise-id]",
	Short: "Show a stored exercise, or list recent ones",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().Int("hints", 0, "Reveal the first N hints")
	showCmd.Flags().Bool("solution", false, "Include the solution")
	showCmd.Flags().Bool("history", false, "Include past submissions")
	showCmd.Flags().StringP("subject", "s", "", "Subject filter when listing")
	showCmd.Flags().IntP("limit", "n", 20, "Number of exercises or submissions to show")
	showCmd.Flags().Bool("json", false, "Print the exercise as JSON")
}

func runShow(cmd *cobra.Command, args []string) error {
	hints, _ := cmd.Flags().GetInt("hints")
	withSolution, _ := cmd.Flags().GetBool("solution")
	withHistory, _ := cmd.Flags().GetBool("history")
	subject, _ := cmd.Flags().GetString("subject")
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	d, err := openDeps(cmd, "quiet")
	if err != nil {
		return err
	}
	defer d.Close()
	ctx := cmd.Context()

	if len(args) == 0 {
		list, err := d.service.List(ctx, exercise.Subject(strings.ToLower(strings.TrimSpace(subject))), limit)
		if err != nil {
			return fmt.Errorf("list exercises: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No exercises stored yet.")
			return nil
		}
		fmt.Printf("%-40s  %-10s  %-16s  %-12s  %s\n", "ID", "Subject", "Type", "Difficulty", "Instruction")
		fmt.Println(strings.Repeat("─", 110))
		for _, ex := range list {
			fmt.Printf("%-40s  %-10s  %-16s  %-12s  %s\n",
				truncate(ex.ID, 40), ex.Subject, ex.Type, ex.Difficulty, truncate(ex.Problem.Instruction, 40))
		}
		return nil
	}

	ex, err := d.service.Get(ctx, args[0])
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(ex)
	}

	fmt.Printf("ID:         %s\n", ex.ID)
	fmt.Printf("Subject:    %s / %s\n", ex.Subject, ex.Category)
	fmt.Printf("Type:       %s (%s)\n", ex.Type, ex.Difficulty)
	fmt.Printf("Points:     %d, pass at %d\n", ex.Problem.MaxPoints, ex.Validation.PassingScore)
	fmt.Printf("Generated:  %s by %s\n", ex.Metadata.CreatedAt.Local().Format("2006-01-02 15:04:05"), ex.Metadata.GeneratedBy)
	fmt.Println()
	fmt.Println(components.ExerciseBody(ex))

	if hints > 0 {
		revealed, err := d.service.Hints(ctx, ex.ID, hints, false)
		if err != nil {
			return err
		}
		fmt.Println()
		for i, h := range revealed {
			fmt.Printf("Hint %d: %s\n", i+1, h)
		}
	}

	if withSolution {
		printSolution(&ex.Solution)
	}

	if withHistory {
		subs, err := d.service.History(ctx, ex.ID, limit)
		if err != nil {
			return fmt.Errorf("query submissions: %w", err)
		}
		fmt.Println()
		if len(subs) == 0 {
			fmt.Println("No submissions yet.")
			return nil
		}
		fmt.Printf("%-19s  %-12s  %5s  %5s  %5s  %s\n", "Timestamp", "User", "Score", "Pts", "Hints", "Passed")
		fmt.Println(strings.Repeat("─", 64))
		for _, s := range subs {
			ok := "✓"
			if !s.Passed {
				ok = "✗"
			}
			fmt.Printf("%-19s  %-12s  %5d  %5d  %5d  %s\n",
				s.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(s.UserID, 12), s.Score, s.PointsEarned, s.HintsUsed, ok)
		}
	}
	return nil
}
