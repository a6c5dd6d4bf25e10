package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/cepheid/internal/curve"
	"github.com/papapumpkin/cepheid/internal/dataset"
	"github.com/papapumpkin/cepheid/internal/obsfile"
	"github.com/papapumpkin/cepheid/internal/telemetry"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Manage the dataset registry",
	Long: `The dataset command group creates, edits, lists, and removes datasets.
Every structural change is registered with the remote solver before the
local registry mutates, so a failed solver call leaves the session
unchanged.`,
}

func init() {
	addCmd := &cobra.Command{
		Use:   "add [label]",
		Short: "Add a dataset to the registry and the solver",
		Long: `Adds a dataset. Without --file the dataset is synthetic: it carries no
observations and only a computed model can be plotted for it.

  --kind        Required: lc or rv
  --file        Observation file (time value sigma columns; value is flux
                for lc, primary RV for rv)
  --secondary   Secondary-component RV file (rv only)`,
		Args: cobra.ExactArgs(1),
		RunE: runDatasetAdd,
	}
	addCmd.Flags().String("kind", "", "dataset kind: lc or rv (required)")
	addCmd.Flags().String("passband", "", "passband (default "+dataset.DefaultPassband+")")
	addCmd.Flags().String("file", "", "observation file to upload")
	addCmd.Flags().String("secondary", "", "secondary-component RV file (rv only)")
	addCmd.Flags().Float64("phase-min", -0.5, "model window lower phase")
	addCmd.Flags().Float64("phase-max", 0.5, "model window upper phase")
	addCmd.Flags().Int("resolution", 201, "model window sample count")
	_ = addCmd.MarkFlagRequired("kind")

	editCmd := &cobra.Command{
		Use:   "edit [label]",
		Short: "Replace the defining fields of an existing dataset",
		Long: `Re-registers the dataset with the solver under new defining fields.
Kind is immutable; display flags survive the edit; the computed model is
cleared because the definition changed.`,
		Args: cobra.ExactArgs(1),
		RunE: runDatasetEdit,
	}
	editCmd.Flags().String("passband", "", "passband")
	editCmd.Flags().String("file", "", "observation file to upload")
	editCmd.Flags().String("secondary", "", "secondary-component RV file (rv only)")
	editCmd.Flags().Float64("phase-min", -0.5, "model window lower phase")
	editCmd.Flags().Float64("phase-max", 0.5, "model window upper phase")
	editCmd.Flags().Int("resolution", 201, "model window sample count")

	removeCmd := &cobra.Command{
		Use:   "remove [label]",
		Short: "Drop a dataset from the solver and the registry",
		Args:  cobra.ExactArgs(1),
		RunE:  runDatasetRemove,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List datasets in registry order",
		RunE:  runDatasetList,
	}

	setCmd := &cobra.Command{
		Use:   "set [label]",
		Short: "Toggle the per-dataset display flags",
		Long: `Sets the plot toggles without touching the solver.

  --data   on|off   plot the observational points
  --model  on|off   plot the computed model`,
		Args: cobra.ExactArgs(1),
		RunE: runDatasetSet,
	}
	setCmd.Flags().String("data", "", "show observational points: on or off")
	setCmd.Flags().String("model", "", "show computed model: on or off")

	datasetCmd.AddCommand(addCmd)
	datasetCmd.AddCommand(editCmd)
	datasetCmd.AddCommand(removeCmd)
	datasetCmd.AddCommand(listCmd)
	datasetCmd.AddCommand(setCmd)
	rootCmd.AddCommand(datasetCmd)
}

// fieldsFromFlags assembles the registry form from the shared add/edit
// flags. base seeds the window so an edit without window flags keeps the
// record's existing window.
func fieldsFromFlags(cmd *cobra.Command, label string, kind dataset.Kind, base curve.Window) (dataset.Fields, error) {
	passband, _ := cmd.Flags().GetString("passband")
	file, _ := cmd.Flags().GetString("file")
	secondary, _ := cmd.Flags().GetString("secondary")

	window := base
	if cmd.Flags().Changed("phase-min") {
		window.PhaseMin, _ = cmd.Flags().GetFloat64("phase-min")
	}
	if cmd.Flags().Changed("phase-max") {
		window.PhaseMax, _ = cmd.Flags().GetFloat64("phase-max")
	}
	if cmd.Flags().Changed("resolution") {
		window.Resolution, _ = cmd.Flags().GetInt("resolution")
	}
	fields := dataset.Fields{
		Kind:     kind,
		Label:    label,
		Passband: passband,
		Window:   &window,
	}

	if file != "" {
		cols, err := obsfile.Read(file)
		if err != nil {
			return dataset.Fields{}, err
		}
		fields.Times = cols.Times
		fields.Sigmas = cols.Sigmas
		switch kind {
		case dataset.KindLightCurve:
			fields.Fluxes = cols.Values
		case dataset.KindRadialVelocity:
			fields.RVPrimary = cols.Values
		}
	}
	if secondary != "" {
		if kind != dataset.KindRadialVelocity {
			return dataset.Fields{}, fmt.Errorf("--secondary only applies to rv datasets")
		}
		cols, err := obsfile.Read(secondary)
		if err != nil {
			return dataset.Fields{}, err
		}
		fields.RVSecondary = cols.Values
		if len(fields.Times) == 0 {
			fields.Times = cols.Times
			fields.Sigmas = cols.Sigmas
		}
	}
	return fields, nil
}

func runDatasetAdd(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	kindFlag, _ := cmd.Flags().GetString("kind")
	fields, err := fieldsFromFlags(cmd, args[0], dataset.Kind(kindFlag), curve.DefaultWindow())
	if err != nil {
		return err
	}

	rec, err := s.registry.Add(cmd.Context(), fields)
	if err != nil {
		return err
	}
	if err := s.persist(cmd.Context()); err != nil {
		return err
	}
	s.emit(telemetry.KindDatasetAdded, rec.Label, map[string]any{"kind": rec.Kind, "points": rec.DataPoints()})

	fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s, %d points, %s)\n",
		rec.Label, rec.Kind, rec.DataPoints(), rec.Source)
	return nil
}

func runDatasetEdit(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	// Kind is resolved from the existing record; Update rejects changes.
	old, ok := s.registry.Get(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", dataset.ErrUnknownLabel, args[0])
	}
	fields, err := fieldsFromFlags(cmd, args[0], old.Kind, old.Window)
	if err != nil {
		return err
	}
	// Flags not passed keep the record's current values.
	if fields.Passband == "" {
		fields.Passband = old.Passband
	}
	if !cmd.Flags().Changed("file") && !cmd.Flags().Changed("secondary") {
		fields.Times, fields.Sigmas = old.Times, old.Sigmas
		fields.Fluxes = old.Fluxes
		fields.RVPrimary, fields.RVSecondary = old.RVPrimary, old.RVSecondary
		fields.Source = old.Source
	}

	rec, err := s.registry.Update(cmd.Context(), fields)
	if err != nil {
		return err
	}
	if err := s.persist(cmd.Context()); err != nil {
		return err
	}
	s.emit(telemetry.KindDatasetUpdated, rec.Label, map[string]any{"points": rec.DataPoints()})

	fmt.Fprintf(cmd.OutOrStdout(), "updated %s (%d points, model cleared)\n", rec.Label, rec.DataPoints())
	return nil
}

func runDatasetRemove(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.registry.Remove(cmd.Context(), args[0]); err != nil {
		return err
	}
	if err := s.persist(cmd.Context()); err != nil {
		return err
	}
	s.emit(telemetry.KindDatasetRemoved, args[0], nil)

	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
	return nil
}

func runDatasetList(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	records := s.registry.Records()
	if len(records) == 0 {
		fmt.Fprintln(out, "no datasets")
		return nil
	}
	for _, rec := range records {
		model := "-"
		if rec.HasModel() {
			model = "model"
		}
		fmt.Fprintf(out, "%-12s %-3s %-14s %5d pts  data:%-3s model:%-3s  %s  %s\n",
			rec.Label, rec.Kind, rec.Passband, rec.DataPoints(),
			onOff(rec.ShowData), onOff(rec.ShowModel), rec.Source, model)
	}
	return nil
}

func runDatasetSet(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	touched := false
	for _, f := range []struct {
		name string
		flag dataset.DisplayFlag
	}{
		{"data", dataset.FlagShowData},
		{"model", dataset.FlagShowModel},
	} {
		raw, _ := cmd.Flags().GetString(f.name)
		if raw == "" {
			continue
		}
		value, err := parseOnOff(raw)
		if err != nil {
			return fmt.Errorf("--%s: %w", f.name, err)
		}
		if err := s.registry.SetDisplayFlag(args[0], f.flag, value); err != nil {
			return err
		}
		touched = true
	}
	if !touched {
		return fmt.Errorf("nothing to set: pass --data and/or --model")
	}
	return s.persist(cmd.Context())
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("want on or off, got %q", s)
}
