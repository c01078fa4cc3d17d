package app

import (
	"context"

	"github.com/doeshing/chatcmd-go/internal/domain"
	"github.com/doeshing/chatcmd-go/internal/infrastructure/ai"
	"github.com/doeshing/chatcmd-go/internal/infrastructure/config"
	"github.com/doeshing/chatcmd-go/internal/infrastructure/credentials"
	"github.com/doeshing/chatcmd-go/internal/infrastructure/history"
	"github.com/doeshing/chatcmd-go/internal/pkg/logger"
	"github.com/doeshing/chatcmd-go/internal/ports"
	"github.com/doeshing/chatcmd-go/internal/registry"
	"github.com/doeshing/chatcmd-go/internal/services"
)

// Container wires application services with infrastructure adapters.
type Container struct {
	LookupService *services.LookupService
	Registry      *registry.Registry
	Credentials   ports.CredentialStore
	HistoryStore  *history.SQLiteStore
	Config        domain.Config
	Logger        ports.Logger
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New(verbose)
	reg := registry.New()
	credStore := credentials.NewStore(config.ConfigDir())

	historyStore, err := history.NewSQLiteStore(history.DefaultPath())
	if err != nil {
		return nil, err
	}

	endpoints := make(map[domain.ProviderFamily]string, len(cfg.Endpoints))
	for name, base := range cfg.Endpoints {
		endpoints[domain.ProviderFamily(name)] = base
	}

	lookupService := &services.LookupService{
		Registry:    reg,
		Credentials: credStore,
		Providers:   ai.NewFactory(endpoints),
		History:     historyStore,
		Usage:       historyStore,
		Logger:      log,
		Policy: services.RetryPolicy{
			MaxAttempts:    cfg.Preferences.MaxAttempts,
			InitialBackoff: cfg.Preferences.Backoff(),
			AttemptTimeout: cfg.Preferences.Timeout(),
		},
	}

	return &Container{
		LookupService: lookupService,
		Registry:      reg,
		Credentials:   credStore,
		HistoryStore:  historyStore,
		Config:        cfg,
		Logger:        log,
	}, nil
}

// Close releases held resources.
func (c *Container) Close() error {
	if c.HistoryStore != nil {
		return c.HistoryStore.Close()
	}
	return nil
}
