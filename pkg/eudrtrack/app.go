package eudrtrack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/forestline/eudrtrack/pkg/archive"
	"github.com/forestline/eudrtrack/pkg/auth"
	"github.com/forestline/eudrtrack/pkg/hooks"
	"github.com/forestline/eudrtrack/pkg/logger"
	"github.com/forestline/eudrtrack/pkg/mode"
	"github.com/forestline/eudrtrack/pkg/storage"
	"github.com/forestline/eudrtrack/pkg/storage/postgres"
	"github.com/forestline/eudrtrack/pkg/storage/redis"
	"github.com/forestline/eudrtrack/pkg/storage/sqlite"
	"github.com/forestline/eudrtrack/pkg/store/hybrid"
	"github.com/forestline/eudrtrack/pkg/store/local"
	"github.com/forestline/eudrtrack/pkg/store/remote"
)

// App wires the stores, the mode preference and the credentials together.
type App struct {
	config  *Config
	logData *logger.LogData
	log     zerolog.Logger
	out     io.Writer

	medium   storage.Medium
	local    *local.Store
	creds    *auth.TokenStore
	mode     *mode.Preference
	remote   *remote.Client
	router   *hybrid.Router
	entities map[string]entity
}

// New opens the configured medium, seeds it on first use and connects the
// remote client.
func New(ctx context.Context, cfg *Config, out io.Writer) (*App, error) {
	logData, err := logger.New().
		FromPath(cfg.Log.File).
		Level(cfg.Log.Level).
		Console(cfg.Log.Console).
		Make()
	if err != nil {
		return nil, err
	}
	log := logData.Logger

	medium, err := openMedium(ctx, cfg.Storage)
	if err != nil {
		_ = logData.Close()
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}

	app := &App{
		config:  cfg,
		logData: logData,
		log:     log,
		out:     out,
		medium:  medium,
	}

	app.local = local.New(medium, local.WithLogger(log))
	if seeded, err := app.local.EnsureSeeded(ctx); err != nil {
		_ = app.Close()
		return nil, err
	} else if seeded {
		log.Info().Str("driver", cfg.Storage.Driver).Msg("seeded sample records")
	}

	app.creds, err = auth.NewTokenStore(ctx, medium, log)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.mode = mode.NewPreference(medium, cfg.Offline, log)

	app.remote, err = remote.Dial(remote.Config{
		URL:       cfg.Remote.URL,
		Transport: cfg.Remote.Transport,
		Codec:     cfg.Remote.Codec,
		Timeout:   cfg.Remote.Timeout,
	}, app.creds, log)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.router, err = hybrid.New(app.local, app.remote, app.mode,
		hybrid.WithLogger(log),
		hybrid.WithRegisterer(prometheus.NewRegistry()),
	)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.entities = bindEntities(app.router, hooks.LogNotifier{Log: log}, log)
	return app, nil
}

func openMedium(ctx context.Context, cfg StorageConfig) (storage.Medium, error) {
	switch cfg.Driver {
	case "memory":
		m := storage.NewMemory()
		m.Quota = cfg.Quota
		return m, nil
	case "file":
		return storage.OpenDir(cfg.Path)
	case "sqlite":
		path := cfg.Path
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "eudrtrack.db")
		}
		return sqlite.Open(path)
	case "postgres":
		return postgres.Open(cfg.PostgresDSN)
	case "redis":
		return redis.Open(ctx, cfg.RedisURL)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// Close releases every resource, reporting the first failure.
func (a *App) Close() error {
	var errs []error
	if a.remote != nil {
		errs = append(errs, a.remote.Close())
	}
	if a.medium != nil {
		errs = append(errs, a.medium.Close())
	}
	if a.logData != nil {
		errs = append(errs, a.logData.Close())
	}
	return errors.Join(errs...)
}

func (a *App) entity(name string) (entity, error) {
	e, ok := a.entities[canonical(name)]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", name)
	}
	return e, nil
}

func (a *App) print(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}

func (a *App) archiveTarget(ctx context.Context, location string) (archive.Target, error) {
	return archive.Open(ctx, location, archive.S3Config{
		Region:    a.config.Archive.S3Region,
		Endpoint:  a.config.Archive.S3Endpoint,
		PathStyle: a.config.Archive.S3PathStyle,
	})
}
