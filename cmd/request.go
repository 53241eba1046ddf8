package cmd

import (
	"fmt"

	"github.com/abhisek/practiz/internal/exercise"
	"github.com/abhisek/practiz/internal/practice"
	"github.com/spf13/cobra"
)

// addRequestFlags registers the generation request flags on c.
func addRequestFlags(c *cobra.Command, defaultCount int) {
	c.Flags().StringP("subject", "s", "", "Subject, e.g. math, physics, spanish (required)")
	c.Flags().StringP("topic", "t", "", "Topic to practice (required)")
	c.Flags().String("category", "", "Category within the subject")
	c.Flags().StringP("difficulty", "d", "intermediate", "Difficulty: beginner, elementary, intermediate, advanced or expert")
	c.Flags().StringSlice("type", nil, "Preferred exercise types (repeatable); empty means any")
	c.Flags().IntP("count", "n", defaultCount, "Number of exercises")
	c.Flags().String("language", "", "Language of the exercise text (default en)")
	c.Flags().String("target-language", "", "Language being learned, for language subjects")
	c.Flags().Int("hints", 0, "Number of hints per exercise (0 = default)")
	c.Flags().String("quality", "", "Backend tier: fast, balanced or quality")
	c.Flags().String("model", "", "Backend model to try first")
	c.Flags().String("instructions", "", "Extra instructions for the generator")
	_ = c.MarkFlagRequired("subject")
	_ = c.MarkFlagRequired("topic")
}

// requestFromFlags builds a GenerateRequest from the flags registered by
// addRequestFlags. Type names are checked here so typos fail fast; the
// remaining validation happens in the generator.
func requestFromFlags(c *cobra.Command) (practice.GenerateRequest, error) {
	f := c.Flags()
	subject, _ := f.GetString("subject")
	topic, _ := f.GetString("topic")
	category, _ := f.GetString("category")
	difficulty, _ := f.GetString("difficulty")
	typeNames, _ := f.GetStringSlice("type")
	count, _ := f.GetInt("count")
	language, _ := f.GetString("language")
	target, _ := f.GetString("target-language")
	hints, _ := f.GetInt("hints")
	quality, _ := f.GetString("quality")
	model, _ := f.GetString("model")
	instructions, _ := f.GetString("instructions")

	var types []exercise.Type
	for _, name := range typeNames {
		t, ok := exercise.ParseType(name)
		if !ok {
			return practice.GenerateRequest{}, fmt.Errorf("unknown exercise type %q", name)
		}
		types = append(types, t)
	}

	return practice.GenerateRequest{
		Subject:        exercise.Subject(subject),
		Category:       category,
		Topic:          topic,
		Difficulty:     exercise.Difficulty(difficulty),
		Types:          types,
		Count:          count,
		Language:       language,
		TargetLanguage: target,
		Options: exercise.Options{
			HintCount:          hints,
			Quality:            exercise.Quality(quality),
			Model:              model,
			CustomInstructions: instructions,
		},
	}, nil
}
