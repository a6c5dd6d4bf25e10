package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/cepheid/internal/dataset"
	"github.com/papapumpkin/cepheid/internal/obsfile"
	"github.com/papapumpkin/cepheid/internal/project"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Export or import a portable project file",
	Long: `A project file carries the ephemeris and dataset definitions without
bulk observation arrays, so a session can be re-created elsewhere. On
import, entries naming a data file re-read observations from disk.`,
}

func init() {
	exportCmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Write the session to a project file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runProjectExport,
	}

	importCmd := &cobra.Command{
		Use:   "import [path]",
		Short: "Create datasets from a project file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runProjectImport,
	}

	projectCmd.AddCommand(exportCmd)
	projectCmd.AddCommand(importCmd)
	rootCmd.AddCommand(projectCmd)
}

func projectPath(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return project.DefaultPath
}

func runProjectExport(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	path := projectPath(args)
	p := project.FromSession(s.eph, s.registry.Records())
	if err := project.Save(path, p); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "exported %d datasets to %s\n", len(p.Datasets), path)
	return nil
}

func runProjectImport(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	path := projectPath(args)
	p, err := project.Load(path)
	if err != nil {
		return err
	}

	if p.Period != 0 {
		eph := p.Ephemeris()
		if err := eph.Validate(); err != nil {
			return fmt.Errorf("project %s: %w", path, err)
		}
		s.eph = eph
		s.ephFound = true
		if err := s.store.SaveEphemeris(cmd.Context(), eph); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	added := 0
	for _, entry := range p.Datasets {
		if _, exists := s.registry.Get(entry.Label); exists {
			fmt.Fprintf(out, "skipping %s: already in registry\n", entry.Label)
			continue
		}

		fields := entry.Fields()
		if entry.DataFile != "" {
			cols, err := obsfile.Read(entry.DataFile)
			if err != nil {
				return fmt.Errorf("project %s: dataset %s: %w", path, entry.Label, err)
			}
			fields.Times = cols.Times
			fields.Sigmas = cols.Sigmas
			if fields.Kind == dataset.KindLightCurve {
				fields.Fluxes = cols.Values
			} else {
				fields.RVPrimary = cols.Values
			}
		}

		rec, err := s.registry.Add(cmd.Context(), fields)
		if err != nil {
			return err
		}
		added++

		for _, toggle := range []struct {
			flag  dataset.DisplayFlag
			value bool
		}{
			{dataset.FlagShowData, entry.ShowData},
			{dataset.FlagShowModel, entry.ShowModel},
		} {
			if err := s.registry.SetDisplayFlag(rec.Label, toggle.flag, toggle.value); err != nil {
				return err
			}
		}
	}

	if err := s.persist(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(out, "imported %d datasets from %s\n", added, path)
	return nil
}
