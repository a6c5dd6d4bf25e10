package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/cepheid/internal/dataset"
	"github.com/papapumpkin/cepheid/internal/telemetry"
	"github.com/papapumpkin/cepheid/internal/view"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Assemble a figure and emit it as JSON",
	Long: `Folds, converts, tiles, and aliases the visible datasets into a
plot-ready figure.

  --kind   lc or rv
  --x      time or phase
  --y      flux or magnitude (lc only)
  --out    output file (default stdout)`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().String("kind", "lc", "dataset kind to render: lc or rv")
	renderCmd.Flags().String("x", "phase", "x axis: time or phase")
	renderCmd.Flags().String("y", "flux", "y axis: flux or magnitude")
	renderCmd.Flags().String("out", "", "output file (default stdout)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	kindFlag, _ := cmd.Flags().GetString("kind")
	xFlag, _ := cmd.Flags().GetString("x")
	yFlag, _ := cmd.Flags().GetString("y")
	outPath, _ := cmd.Flags().GetString("out")

	kind := dataset.Kind(kindFlag)
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", dataset.ErrInvalidKind, kindFlag)
	}
	x, err := parseXAxis(xFlag)
	if err != nil {
		return err
	}
	y, err := parseYAxis(yFlag)
	if err != nil {
		return err
	}

	eph, err := s.requireEphemeris()
	if err != nil {
		return err
	}

	assembler := view.Assembler{ExtendRange: s.cfg.ExtendRange}
	fig, err := assembler.Assemble(s.registry.Records(), eph, kind, x, y)
	if err != nil {
		return err
	}
	for _, w := range fig.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}

	data, err := json.MarshalIndent(fig, "", "  ")
	if err != nil {
		return fmt.Errorf("encode figure: %w", err)
	}
	data = append(data, '\n')

	if outPath == "" {
		_, err = cmd.OutOrStdout().Write(data)
	} else {
		err = os.WriteFile(outPath, data, 0o644)
	}
	if err != nil {
		return err
	}

	s.emit(telemetry.KindRenderDone, "", map[string]any{
		"kind": kind, "x": x, "y": y, "series": len(fig.Series),
	})
	return nil
}

func parseXAxis(s string) (view.XAxis, error) {
	switch view.XAxis(s) {
	case view.XTime, view.XPhase:
		return view.XAxis(s), nil
	}
	return "", fmt.Errorf("unknown x axis %q: want time or phase", s)
}

func parseYAxis(s string) (view.YAxis, error) {
	switch view.YAxis(s) {
	case view.YFlux, view.YMagnitude:
		return view.YAxis(s), nil
	}
	return "", fmt.Errorf("unknown y axis %q: want flux or magnitude", s)
}
