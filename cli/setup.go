package cli

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spachava753/assistant/config"
	"github.com/spachava753/assistant/logging"
	"github.com/spachava753/assistant/storage"
	"github.com/spachava753/assistant/storage/filestore"
	"github.com/spachava753/assistant/storage/sqlitestore"
)

const defaultEnvFile = ".env"

type environment struct {
	cfg    *config.Config
	logger *zap.Logger
	store  storage.Store
	closer io.Closer
}

func (e *environment) Close() {
	if e.closer != nil {
		if err := e.closer.Close(); err != nil {
			e.logger.Warn("closing store failed", zap.Error(err))
		}
	}
	_ = e.logger.Sync()
}

// setup resolves configuration, then builds the logger and the store it
// names.
func setup(opts *options, flags *pflag.FlagSet) (*environment, error) {
	v := config.New()
	if err := bindFlags(v, flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	envFile := opts.EnvFile
	if envFile == "" && config.EnvFileExists(defaultEnvFile) {
		envFile = defaultEnvFile
	}
	if err := config.Read(v, config.Options{ConfigFile: opts.ConfigFile, EnvFile: envFile}); err != nil {
		return nil, err //nolint:wrapcheck
	}
	cfg, err := config.Decode(v)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	env := &environment{cfg: cfg, logger: logger}
	switch cfg.Backend {
	case config.BackendSQLite:
		store, err := sqlitestore.Open(cfg.DataFile)
		if err != nil {
			_ = logger.Sync()
			return nil, err //nolint:wrapcheck
		}
		env.store, env.closer = store, store
	default:
		store, err := filestore.New(afero.NewOsFs(), cfg.DataFile, filestore.Codec(cfg.Format))
		if err != nil {
			_ = logger.Sync()
			return nil, err //nolint:wrapcheck
		}
		env.store = store
	}

	logger.Debug("configuration loaded",
		zap.String("backend", cfg.Backend),
		zap.String("data_file", cfg.DataFile),
	)
	return env, nil
}
