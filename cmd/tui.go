package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/cepheid/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse datasets interactively",
	Long: `Opens the interactive dataset browser. Display flags toggled in the
browser are persisted when it exits.`,
	RunE: runTUICmd,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUICmd(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()
	return runBrowser(s)
}

// runBrowser runs the dataset browser over an open session and persists
// flag toggles on exit.
func runBrowser(s *session) error {
	if err := tui.Run(s.registry, s.eph); err != nil {
		return err
	}
	return s.persist(context.Background())
}
