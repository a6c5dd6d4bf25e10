package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/cepheid/internal/telemetry"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rebuild the registry from the solver's state",
	Long: `Destructively replaces every local record with the solver's view.

  --from snapshot   rebuild from the full parameter-set snapshot
  --from summary    rebuild from the flat per-dataset summaries

A snapshot sync carries solver-side model arrays; a summary sync leaves
models empty until the next compute. Local-only records are lost either
way.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().String("from", "snapshot", "sync source: snapshot or summary")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	from, _ := cmd.Flags().GetString("from")
	switch strings.ToLower(from) {
	case "snapshot":
		pset, err := s.client.FetchSnapshot(cmd.Context())
		if err != nil {
			return err
		}
		s.registry.SyncFromSnapshot(pset)
		s.emit(telemetry.KindSyncSnapshot, "", map[string]int{"datasets": s.registry.Len()})
	case "summary":
		if err := s.registry.SyncFromSummary(cmd.Context()); err != nil {
			return err
		}
		s.emit(telemetry.KindSyncSummary, "", map[string]int{"datasets": s.registry.Len()})
	default:
		return fmt.Errorf("unknown sync source %q: want snapshot or summary", from)
	}

	if err := s.persist(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "synced %d datasets from %s\n", s.registry.Len(), from)
	return nil
}
