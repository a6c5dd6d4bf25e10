package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/cepheid/internal/dataset"
	"github.com/papapumpkin/cepheid/internal/obsfile"
	"github.com/papapumpkin/cepheid/internal/telemetry"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-upload datasets when observation files change",
	Long: `Watches a directory of observation files. When a file whose base name
matches a registered dataset label changes, the dataset is re-registered
with the new observations. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	w, err := obsfile.NewWatcher(args[0])
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "watching %s\n", args[0])

	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-w.Changes:
			if !ok {
				return nil
			}
			if change.Kind != obsfile.ChangeModified {
				continue
			}
			label := labelForFile(change.File)
			old, exists := s.registry.Get(label)
			if !exists {
				fmt.Fprintf(out, "ignoring %s: no dataset %q\n", change.File, label)
				continue
			}

			cols, err := obsfile.Read(change.File)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
				continue
			}
			fields := dataset.Fields{
				Kind:     old.Kind,
				Label:    label,
				Passband: old.Passband,
				Window:   &old.Window,
				Times:    cols.Times,
				Sigmas:   cols.Sigmas,
			}
			if old.Kind == dataset.KindLightCurve {
				fields.Fluxes = cols.Values
			} else {
				fields.RVPrimary = cols.Values
			}

			if _, err := s.registry.Update(ctx, fields); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
				continue
			}
			if err := s.persist(ctx); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
				continue
			}
			s.emit(telemetry.KindDatasetUpdated, label, map[string]any{"file": change.File, "points": cols.Len()})
			fmt.Fprintf(out, "re-uploaded %s (%d points)\n", label, cols.Len())
		}
	}
}

// labelForFile maps an observation file to a dataset label by its base name
// without extension.
func labelForFile(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
