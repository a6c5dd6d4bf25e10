package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/cepheid/internal/solver"
	"github.com/papapumpkin/cepheid/internal/telemetry"
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Run the remote model computation",
	Long: `Submits the active ephemeris to the solver and installs the returned
model arrays. Datasets the solver did not compute have their models
cleared.`,
	RunE: runCompute,
}

func init() {
	rootCmd.AddCommand(computeCmd)
}

func runCompute(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	eph, err := s.requireEphemeris()
	if err != nil {
		return err
	}

	results, err := s.client.Compute(cmd.Context(), solver.ComputeRequest{Period: eph.Period, T0: eph.T0})
	if err != nil {
		return err
	}
	s.registry.ApplyModel(results)

	if err := s.persist(cmd.Context()); err != nil {
		return err
	}
	s.emit(telemetry.KindComputeDone, "", map[string]int{"datasets": len(results)})

	fmt.Fprintf(cmd.OutOrStdout(), "computed models for %d datasets\n", len(results))
	return nil
}
