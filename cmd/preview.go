package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/practiz/internal/exercise"
	"github.com/abhisek/practiz/internal/scoring"
	"github.com/abhisek/practiz/internal/ui/components"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview generated exercises for a topic (no database)",
	Long: `Generate and interactively answer exercises for a topic.

This is a stateless developer tool: nothing is stored and no LLM events are
recorded. Useful for evaluating exercise quality and prompt changes.`,
	RunE: runPreview,
}

func init() {
	addRequestFlags(previewCmd, 3)
}

func runPreview(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cmd, "quiet")
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	gen, closeGen, err := newGenerator(ctx, nil, log)
	if err != nil {
		return err
	}
	defer closeGen()

	fmt.Printf("Topic: %s (%s, %s)\n", req.Topic, req.Subject, req.Difficulty)
	fmt.Printf("Generating %d exercises...\n\n", req.Count)

	res, err := gen.Generate(ctx, req.GenerationRequest())
	if err != nil {
		return err
	}
	if res.Warning != "" {
		fmt.Fprintln(os.Stderr, "Warning:", res.Warning)
	}

	scanner := bufio.NewScanner(os.Stdin)
	var passed, points, maxPoints int
	for i, ex := range res.Exercises {
		maxPoints += ex.Problem.MaxPoints

		fmt.Printf("── Exercise %d/%d (%s, %s) ──\n", i+1, len(res.Exercises), ex.Type, ex.Metadata.GeneratedBy)
		fmt.Println(components.ExerciseBody(ex))
		fmt.Printf("(%s)\n", components.AnswerFormat(ex.Type))

		fmt.Print("\nYour answer: ")
		if !scanner.Scan() {
			fmt.Println("\n(input closed)")
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			fmt.Print("(skipped)\n\n")
			continue
		}
		answer, err := exercise.ParseTextAnswer(ex.Type, input)
		if err != nil {
			fmt.Printf("Could not read answer: %v\n\n", err)
			continue
		}

		r := scoring.Grade(ex, scoring.Submission{Answer: answer})
		points += r.PointsEarned
		if r.Passed {
			passed++
			fmt.Printf("\033[32m✓ %s\033[0m (%d)\n", r.Feedback, r.Score)
		} else {
			fmt.Printf("\033[31m✗ %s\033[0m (%d) Answer: %s\n", r.Feedback, r.Score,
				exercise.AnswerText(ex.Solution.CorrectAnswer))
		}
		if ex.Solution.Explanation != "" {
			fmt.Printf("Explanation: %s\n", ex.Solution.Explanation)
		}
		fmt.Println()
	}

	fmt.Printf("── Summary: %d/%d passed, %d/%d pts ──\n", passed, len(res.Exercises), points, maxPoints)
	return nil
}
