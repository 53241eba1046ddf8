package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/practiz/internal/exercise"
	"github.com/abhisek/practiz/internal/practice"
	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit <exercise-id> <answer>",
	Short: "Grade an answer to a stored exercise",
	Long: `Grade an answer to a stored exercise.

The answer is typed the way the exercise type expects it, e.g. an option id
("b"), one value per blank ("cat, dog"), true/false per statement ("t, f"),
pairs for matching ("l1=r2, l2=r1") or a number ("9.8", "3/4" or "9.8 m/s^2").
Use --raw to pass the answer as JSON instead.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().Int("hints", 0, "Number of hints used")
	submitCmd.Flags().Int("time", 0, "Time taken in seconds")
	submitCmd.Flags().String("user", "", "User id recorded with the submission")
	submitCmd.Flags().Bool("raw", false, "Treat the answer as JSON")
	submitCmd.Flags().Bool("json", false, "Print the result as JSON")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	hints, _ := cmd.Flags().GetInt("hints")
	taken, _ := cmd.Flags().GetInt("time")
	user, _ := cmd.Flags().GetString("user")
	raw, _ := cmd.Flags().GetBool("raw")
	asJSON, _ := cmd.Flags().GetBool("json")

	d, err := openDeps(cmd, "quiet")
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	id := args[0]
	ex, err := d.service.Get(ctx, id)
	if err != nil {
		return err
	}

	input := strings.Join(args[1:], " ")
	var answer []byte
	if raw {
		answer = []byte(input)
	} else {
		answer, err = exercise.ParseTextAnswer(ex.Type, input)
		if err != nil {
			return fmt.Errorf("parse answer: %w", err)
		}
	}

	resp, err := d.service.Submit(ctx, practice.SubmitRequest{
		ExerciseID: id,
		Answer:     answer,
		TimeTaken:  taken,
		HintsUsed:  hints,
		UserID:     user,
	})
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(resp)
	}
	printSubmitted(resp)
	return nil
}

func printSubmitted(resp *practice.SubmitResponse) {
	if resp.Passed {
		fmt.Printf("\033[32m✓ Passed\033[0m  score %d, %d pts\n", resp.Score, resp.PointsEarned)
	} else {
		fmt.Printf("\033[31m✗ Not passed\033[0m  score %d, %d pts\n", resp.Score, resp.PointsEarned)
	}
	fmt.Println(resp.Feedback)

	if resp.Solution != nil {
		printSolution(resp.Solution)
	}
}

func printSolution(sol *exercise.Solution) {
	fmt.Println()
	fmt.Printf("Answer:      %s\n", exercise.AnswerText(sol.CorrectAnswer))
	if sol.Explanation != "" {
		fmt.Printf("Explanation: %s\n", sol.Explanation)
	}
	for i, step := range sol.Steps {
		fmt.Printf("  %d. %s\n", i+1, step)
	}
	if len(sol.CommonMistakes) > 0 {
		fmt.Println("Common mistakes:")
		for _, m := range sol.CommonMistakes {
			fmt.Printf("  - %s\n", m)
		}
	}
}
