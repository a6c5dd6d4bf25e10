package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/cepheid/internal/ephemeris"
)

var ephemerisCmd = &cobra.Command{
	Use:   "ephemeris",
	Short: "Show or set the orbital ephemeris",
}

func init() {
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Set the active ephemeris",
		Long: `Sets the orbital period and reference epoch. Every computed model
depends on the ephemeris, so changing it clears the model arrays of all
datasets.`,
		RunE: runEphemerisSet,
	}
	setCmd.Flags().Float64("period", 0, "orbital period in days (required)")
	setCmd.Flags().Float64("t0", 0, "reference epoch (time of superior conjunction)")
	_ = setCmd.MarkFlagRequired("period")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active ephemeris",
		RunE:  runEphemerisShow,
	}

	ephemerisCmd.AddCommand(setCmd)
	ephemerisCmd.AddCommand(showCmd)
	rootCmd.AddCommand(ephemerisCmd)
}

func runEphemerisSet(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	period, _ := cmd.Flags().GetFloat64("period")
	t0, _ := cmd.Flags().GetFloat64("t0")
	eph := ephemeris.Ephemeris{Period: period, T0: t0}
	if err := eph.Validate(); err != nil {
		return err
	}

	s.eph = eph
	s.ephFound = true
	s.registry.ClearModels()

	if err := s.store.SaveEphemeris(cmd.Context(), eph); err != nil {
		return err
	}
	if err := s.persist(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "ephemeris set: P=%g T0=%g (models cleared)\n", period, t0)
	return nil
}

func runEphemerisShow(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	if !s.ephFound {
		fmt.Fprintln(cmd.OutOrStdout(), "no ephemeris set")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "P=%g T0=%g\n", s.eph.Period, s.eph.T0)
	return nil
}
