package cmd

import (
	"github.com/abhisek/practiz/internal/app"
	"github.com/spf13/cobra"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Practice interactively in the terminal",
	Example: `  practiz practice -s math -t "adding fractions"
  practiz practice -s physics -t kinematics -d advanced --type calculation`,
	RunE: runPractice,
}

func init() {
	addRequestFlags(practiceCmd, 5)
	practiceCmd.Flags().String("user", envOr("USER", ""), "User id recorded with submissions")
}

// runPractice opens the store, builds dependencies, and launches the TUI.
func runPractice(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}
	user, _ := cmd.Flags().GetString("user")

	// The TUI owns the terminal, so only warnings reach stderr.
	d, err := openDeps(cmd, "quiet")
	if err != nil {
		return err
	}
	defer d.Close()

	return app.Run(app.Options{
		Service: d.service,
		Request: req,
		UserID:  user,
	})
}

