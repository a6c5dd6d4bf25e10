package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/papapumpkin/cepheid/internal/config"
	"github.com/papapumpkin/cepheid/internal/dataset"
	"github.com/papapumpkin/cepheid/internal/ephemeris"
	"github.com/papapumpkin/cepheid/internal/solver"
	"github.com/papapumpkin/cepheid/internal/store"
	"github.com/papapumpkin/cepheid/internal/telemetry"
)

// session bundles the long-lived pieces every command needs: the config,
// the local store, the registry hydrated from it, the solver client, and
// the telemetry emitter.
type session struct {
	cfg      config.Config
	store    *store.Store
	registry *dataset.Registry
	client   *solver.Client
	events   *telemetry.Emitter

	eph      ephemeris.Ephemeris
	ephFound bool
}

// openSession loads config, opens the store, and hydrates the registry from
// persisted state. Telemetry is best-effort: a failed open leaves a nil
// no-op emitter rather than blocking the command.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	client := solver.New(cfg.SolverURL)
	reg := dataset.NewRegistry(client)

	records, err := st.LoadRecords(ctx)
	if err != nil {
		st.Close()
		return nil, err
	}
	reg.Restore(records)

	eph, found, err := st.LoadEphemeris(ctx)
	if err != nil {
		st.Close()
		return nil, err
	}

	events, err := telemetry.NewEmitter(cfg.TelemetryPath)
	if err != nil {
		events = nil
	}

	return &session{
		cfg:      cfg,
		store:    st,
		registry: reg,
		client:   client,
		events:   events,
		eph:      eph,
		ephFound: found,
	}, nil
}

// persist writes the registry and ephemeris back to the store.
func (s *session) persist(ctx context.Context) error {
	if err := s.store.SaveRecords(ctx, s.registry.Records()); err != nil {
		return err
	}
	if s.ephFound {
		if err := s.store.SaveEphemeris(ctx, s.eph); err != nil {
			return err
		}
	}
	return nil
}

// requireEphemeris returns the active ephemeris or a usable error.
func (s *session) requireEphemeris() (ephemeris.Ephemeris, error) {
	if !s.ephFound {
		return ephemeris.Ephemeris{}, fmt.Errorf("no ephemeris set: run `cepheid ephemeris set --period P --t0 T`")
	}
	if err := s.eph.Validate(); err != nil {
		return ephemeris.Ephemeris{}, err
	}
	return s.eph, nil
}

// emit records a telemetry event, stamping the time.
func (s *session) emit(kind, label string, data any) {
	_ = s.events.Emit(telemetry.Event{
		Timestamp: time.Now().UTC(),
		Kind:      kind,
		Dataset:   label,
		Data:      data,
	})
}

// Close releases the store and telemetry file.
func (s *session) Close() {
	_ = s.events.Close()
	_ = s.store.Close()
}
