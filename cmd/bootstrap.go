package cmd

import (
	"context"
	"fmt"

	"payqr/core/config"
	"payqr/core/database"
	"payqr/core/logger"
	"payqr/core/prefs"

	"go.uber.org/zap"
)

// runtime is what every command needs before doing its work.
type runtime struct {
	cfg   *config.Config
	log   *zap.Logger
	store *prefs.Store
}

// bootstrap loads configuration, builds the logger and opens the preference store.
// A database failure is not fatal: the store then persists nothing.
func bootstrap() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store := prefs.NewStore(nil, logg)
	if db, err := database.Connect(cfg.Database); err != nil {
		logg.Warn("Optional database connection failed, preferences will not persist", zap.Error(err))
	} else {
		store = prefs.NewStore(db, logg)
		if err := store.Migrate(); err != nil {
			logg.Warn("Preference table unavailable", zap.Error(err))
			store = prefs.NewStore(nil, logg)
		} else {
			logg.Info("Connected to preference database", zap.String("driver", cfg.Database.Driver))
		}
	}

	return &runtime{cfg: cfg, log: logg, store: store}, nil
}

func (r *runtime) state(ctx context.Context) prefs.State {
	return r.store.Load(ctx)
}
