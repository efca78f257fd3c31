package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"

	"estate_browser/config"
	"estate_browser/httputil"
	"estate_browser/logging"
	"estate_browser/models"
	"estate_browser/services"
	"estate_browser/storage"
)

// app is everything one command invocation needs, built from config
type app struct {
	cfg     *config.Config
	browse  *services.BrowseService
	sync    *services.SyncService
	sqlite  *storage.SQLiteStore
	cache   *storage.CachedPropertyStore
	logFile *logging.RotatingWriter
	closers []func()
}

func openApp(ctx context.Context) (*app, error) {
	cfg, logFile, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logFile: logFile}
	if err := a.wire(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	a.logFile.Close()
}

func (a *app) wire(ctx context.Context) error {
	cfg := a.cfg

	var (
		seed    *storage.SeedFile
		remote  *storage.RemoteStore
		pgStore *storage.PostgresStore
	)
	loadSeed := func() (*storage.SeedFile, error) {
		if seed != nil {
			return seed, nil
		}
		s, err := storage.LoadSeedFile(cfg.SeedPath)
		if err != nil {
			return nil, fmt.Errorf("load seed %s: %w", cfg.SeedPath, err)
		}
		log.Printf("Loaded %d listings from %s", len(s.Properties), cfg.SeedPath)
		seed = s
		return seed, nil
	}
	openRemote := func() (*storage.RemoteStore, error) {
		if remote != nil {
			return remote, nil
		}
		clients, err := httputil.NewClients(&cfg.RecordService)
		if err != nil {
			return nil, err
		}
		remote = storage.NewRemoteStore(storage.RemoteConfig{
			BaseURL:   cfg.RecordService.URL,
			ProjectID: cfg.RecordService.ProjectID,
			APIKey:    cfg.RecordService.APIKey,
		}, clients.Records)
		log.Printf("Record service: %s", cfg.RecordService.URL)
		return remote, nil
	}
	openPostgres := func() (*storage.PostgresStore, error) {
		if pgStore != nil {
			return pgStore, nil
		}
		s, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		a.closers = append(a.closers, s.Close)
		log.Printf("Connected to Postgres: %s", maskConnectionString(cfg.DatabaseURL))
		pgStore = s
		return pgStore, nil
	}
	openSQLite := func() (*storage.SQLiteStore, error) {
		if a.sqlite != nil {
			return a.sqlite, nil
		}
		s, err := storage.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		a.closers = append(a.closers, func() { s.Close() })
		logging.Debugf("SQLite database: %s", cfg.DBPath)
		a.sqlite = s
		return s, nil
	}

	var props storage.PropertyStore
	switch cfg.PropertyBackend {
	case config.BackendStatic:
		s, err := loadSeed()
		if err != nil {
			return err
		}
		props = storage.NewStaticStore(s.Properties)
	case config.BackendSQLite:
		s, err := openSQLite()
		if err != nil {
			return err
		}
		props = s
	case config.BackendPostgres:
		s, err := openPostgres()
		if err != nil {
			return err
		}
		props = s
	case config.BackendRemote:
		s, err := openRemote()
		if err != nil {
			return err
		}
		props = s
	}

	if cfg.Redis.Addr != "" {
		client := storage.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password)
		a.closers = append(a.closers, func() { client.Close() })
		a.cache = storage.NewCachedPropertyStore(props, client, cfg.Redis.TTL)
		props = a.cache
		log.Printf("Listing cache: redis %s (ttl %s)", cfg.Redis.Addr, cfg.Redis.TTL)
	}

	var saved storage.SavedStore
	switch cfg.SavedBackend {
	case config.BackendMemory:
		var initial []models.SavedProperty
		if s, err := loadSeed(); err == nil {
			initial = s.Saved
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		saved = storage.NewMemorySavedStore(initial)
	case config.BackendSQLite:
		s, err := openSQLite()
		if err != nil {
			return err
		}
		saved = s
	case config.BackendRemote:
		s, err := openRemote()
		if err != nil {
			return err
		}
		saved = s
	}

	a.browse = services.NewBrowseService(services.NewPropertyService(props), services.NewSavedPropertyService(saved))

	if cfg.Sync.Source == "" {
		return nil
	}
	if cfg.PropertyBackend != config.BackendSQLite {
		return fmt.Errorf("SYNC_SOURCE requires PROPERTY_BACKEND=sqlite, got %s", cfg.PropertyBackend)
	}

	var upstream storage.PropertyStore
	switch cfg.Sync.Source {
	case config.BackendStatic:
		s, err := loadSeed()
		if err != nil {
			return err
		}
		upstream = storage.NewStaticStore(s.Properties)
	case config.BackendPostgres:
		s, err := openPostgres()
		if err != nil {
			return err
		}
		upstream = s
	case config.BackendRemote:
		s, err := openRemote()
		if err != nil {
			return err
		}
		upstream = s
	}

	var invalidator services.Invalidator
	if a.cache != nil {
		invalidator = a.cache
	}
	a.sync = services.NewSyncService(cfg.Sync.Source, upstream, a.sqlite, a.sqlite, invalidator)
	return nil
}

// maskConnectionString hides the password in a connection URL for logging
func maskConnectionString(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil || u.User == nil {
		return connStr
	}
	return u.Redacted()
}
