package api

import (
	"time"

	"go.uber.org/zap"

	"steam-toolbox/adapters/input"
	"steam-toolbox/adapters/storage"
	"steam-toolbox/core/solver"
	"steam-toolbox/core/units"
	"steam-toolbox/internal/config"
)

// FromConfig builds a server and opens its history store from application
// configuration. The caller closes the returned store (nil when history is
// disabled) after the server has shut down.
func FromConfig(cfg *config.Config, version string, logger *zap.Logger) (*Server, storage.Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	mode, err := units.ParsePressureMode(cfg.Defaults.PressureMode)
	if err != nil {
		return nil, nil, err
	}

	var store storage.Store
	if cfg.Storage.Enabled {
		store, err = storage.Open(storage.Backend(cfg.Storage.Backend), cfg.Storage.Location())
		if err != nil {
			return nil, nil, err
		}
		logger.Info("calculation history enabled", zap.String("backend", cfg.Storage.Backend))
	}

	srv := NewServer(Options{
		Version: version,
		Store:   store,
		Builder: input.NewBuilder(input.Defaults{
			Fluid:        cfg.Defaults.Fluid,
			Material:     cfg.Defaults.Material,
			PressureMode: mode,
			Correlation:  cfg.Defaults.Correlation,
			SpeedOfSound: cfg.Defaults.SpeedOfSound,
		}),
		Solver:        solver.New(solver.WithLogger(logger.Named("solver"))),
		Logger:        logger.Named("api"),
		Workers:       cfg.Batch.Workers,
		MaxBatchCases: cfg.Server.MaxBatchCases,
		PressureMode:  mode,
		Mode:          cfg.Server.Mode,
		ReadTimeout:   time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:  time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	})
	return srv, store, nil
}
