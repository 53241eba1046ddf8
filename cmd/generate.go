package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/practiz/internal/practice"
	"github.com/abhisek/practiz/internal/ui/components"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and store exercises",
	Example: `  practiz generate -s math -t "adding fractions" -n 3
  practiz generate -s spanish -t "ser vs estar" --type fill-blank --json`,
	RunE: runGenerate,
}

func init() {
	addRequestFlags(generateCmd, 1)
	generateCmd.Flags().Bool("json", false, "Print the response as JSON")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	d, err := openDeps(cmd, "quiet")
	if err != nil {
		return err
	}
	defer d.Close()

	resp, err := d.service.Generate(cmd.Context(), req)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(resp)
	}
	printGenerated(resp)
	return nil
}

func printGenerated(resp *practice.GenerateResponse) {
	sep := strings.Repeat("─", 60)
	for i, ex := range resp.Exercises {
		fmt.Printf("── Exercise %d/%d ── %s\n", i+1, len(resp.Exercises), ex.ID)
		fmt.Printf("%s · %s · %d pts\n\n", ex.Type, ex.Difficulty, ex.Problem.MaxPoints)
		fmt.Println(components.ExerciseBody(ex))
		fmt.Printf("\nAnswer format: %s\n", components.AnswerFormat(ex.Type))
		fmt.Println(sep)
	}

	meta := resp.Meta
	source := meta.Model
	if meta.Cached {
		source += " (cached)"
	}
	fmt.Printf("Generated by %s at %s", source, meta.GeneratedAt.Local().Format("2006-01-02 15:04:05"))
	if meta.TokensUsed > 0 {
		fmt.Printf(", %d tokens", meta.TokensUsed)
	}
	fmt.Println()
	if meta.Warning != "" {
		fmt.Fprintln(os.Stderr, "Warning:", meta.Warning)
	}
	fmt.Printf("\nSubmit with: practiz submit <id> <answer>\n")
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
