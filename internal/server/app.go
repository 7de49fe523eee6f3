package server

import (
	"context"
	"fmt"
	"io"
	"log"

	"sparrow-backend/internal/config"
	"sparrow-backend/internal/database"
	"sparrow-backend/internal/deploy"
	"sparrow-backend/internal/events"
	"sparrow-backend/internal/llm"
	"sparrow-backend/internal/services"
	"sparrow-backend/internal/store"
	"sparrow-backend/internal/supabase"
)

// App is a fully wired backend.
type App struct {
	Service *services.WorkspaceService
	Bus     *events.Bus

	closers []io.Closer
}

// Close releases database connections and ends every event stream.
func (a *App) Close() error {
	a.Bus.Close()
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Build selects the store, deploy target and LLM provider named by cfg and
// runs pending migrations for SQL stores.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Bus: events.NewBus()}

	completer, err := llm.NewCompleter(cfg)
	if err != nil {
		return nil, err
	}
	// both providers can describe images
	describer, _ := completer.(llm.Describer)

	var storageClient *supabase.StorageClient
	if cfg.StoreDriver == "supabase" || cfg.DeployTarget == "supabase" {
		client, err := supabase.NewClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Supabase client: %w", err)
		}
		storageClient = client.Storage(cfg.SupabaseStorageBucket)
	}

	repo, err := app.openStore(ctx, cfg, storageClient)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	var deployer deploy.Deployer
	switch cfg.DeployTarget {
	case "netlify":
		deployer = deploy.NewNetlifyClient("", cfg.NetlifyToken)
	case "supabase":
		deployer = storageClient
	default:
		deployer = deploy.Nop{}
	}

	var publisher events.Publisher = app.Bus
	if cfg.SupabaseRealtime {
		rt := supabase.NewRealtimeClient(cfg.SupabaseURL, cfg.SupabaseServiceKey)
		app.closers = append(app.closers, rt)
		publisher = events.Multi{app.Bus, rt}
	}

	app.Service = services.NewWorkspaceService(services.Options{
		Repository: repo,
		Deployer:   deployer,
		Completer:  completer,
		Describer:  describer,
		Publisher:  publisher,
		Backoff:    llm.Backoff{MaxRetries: cfg.LLMMaxRetries, BaseDelay: cfg.LLMBaseDelay},
	})
	return app, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config, storageClient *supabase.StorageClient) (store.Repository, error) {
	switch cfg.StoreDriver {
	case "postgres":
		return a.openDatabase(ctx, database.DriverPostgres, cfg.DatabaseURL)
	case "sqlite":
		return a.openDatabase(ctx, database.DriverSQLite, cfg.SQLitePath)
	case "supabase":
		return storageClient, nil
	default:
		return store.NewMemory(), nil
	}
}

func (a *App) openDatabase(ctx context.Context, driver, dsn string) (store.Repository, error) {
	dbClient, err := supabase.NewDatabaseClient(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database client: %w", err)
	}
	a.closers = append(a.closers, dbClient)

	if err := database.NewMigrator(dbClient.DB(), driver).Run(ctx); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	log.Println("Migrations completed successfully")
	return dbClient, nil
}
