package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/cepheid/internal/telemetry"
)

var readdCmd = &cobra.Command{
	Use:   "readd",
	Short: "Re-register every dataset with the solver",
	Long: `Re-submits each record's defining fields to the solver unchanged, in
registry order. Use after a structural solver-side change invalidates the
dataset registrations. Running it twice yields the same remote state.`,
	RunE: runReadd,
}

func init() {
	rootCmd.AddCommand(readdCmd)
}

func runReadd(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.registry.ReaddAll(cmd.Context()); err != nil {
		return err
	}
	s.emit(telemetry.KindDatasetsReadd, "", map[string]int{"datasets": s.registry.Len()})

	fmt.Fprintf(cmd.OutOrStdout(), "re-registered %d datasets\n", s.registry.Len())
	return nil
}
