package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/cepheid/internal/solver"
	"github.com/papapumpkin/cepheid/internal/telemetry"
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Run the remote fitting solver",
	Long: `Submits the named adjustable parameters and step sizes to the solver's
fitting run and prints the solution.

  --param   Repeatable: parameter to adjust, e.g. period@binary
  --step    Repeatable: step size, index-aligned with --param
  --adopt   Apply fitted period/t0 to the local ephemeris and clear models`,
	RunE: runFit,
}

func init() {
	fitCmd.Flags().StringArray("param", nil, "parameter to adjust (repeatable, required)")
	fitCmd.Flags().Float64Slice("step", nil, "step size per parameter (repeatable)")
	fitCmd.Flags().Bool("adopt", false, "adopt the fitted values locally")
	_ = fitCmd.MarkFlagRequired("param")
	rootCmd.AddCommand(fitCmd)
}

func runFit(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	params, _ := cmd.Flags().GetStringArray("param")
	steps, _ := cmd.Flags().GetFloat64Slice("step")
	adopt, _ := cmd.Flags().GetBool("adopt")

	if len(steps) > 0 && len(steps) != len(params) {
		return fmt.Errorf("%d steps for %d parameters", len(steps), len(params))
	}

	solution, err := s.client.RunSolver(cmd.Context(), solver.FitRequest{
		Parameters: params,
		Steps:      steps,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, name := range solution.Parameters {
		var initial, fitted float64
		if i < len(solution.Initial) {
			initial = solution.Initial[i]
		}
		if i < len(solution.Fitted) {
			fitted = solution.Fitted[i]
		}
		change := "-"
		if initial != 0 {
			change = fmt.Sprintf("%+.3f%%", 100*(fitted-initial)/initial)
		}
		fmt.Fprintf(out, "%-24s %12g -> %-12g %s\n", name, initial, fitted, change)
	}
	s.emit(telemetry.KindFitDone, "", map[string]any{"parameters": solution.Parameters})

	if !adopt {
		return nil
	}

	// Adopting invalidates every computed model; fitted ephemeris values
	// update the local ephemeris as well.
	for i, name := range solution.Parameters {
		if i >= len(solution.Fitted) {
			break
		}
		switch qualifierOf(name) {
		case "period":
			s.eph.Period = solution.Fitted[i]
			s.ephFound = true
		case "t0", "t0_supconj":
			s.eph.T0 = solution.Fitted[i]
			s.ephFound = true
		}
	}
	s.registry.ClearModels()
	if s.ephFound {
		if err := s.store.SaveEphemeris(cmd.Context(), s.eph); err != nil {
			return err
		}
	}
	if err := s.persist(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(out, "adopted fitted values (models cleared)")
	return nil
}

// qualifierOf strips the @component suffix from a parameter name.
func qualifierOf(name string) string {
	if i := strings.IndexByte(name, '@'); i >= 0 {
		return name[:i]
	}
	return name
}
