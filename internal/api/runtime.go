package api

import (
	"github.com/kestrelworks/winnow/internal/config"
	"github.com/kestrelworks/winnow/internal/infrastructure"
	"github.com/kestrelworks/winnow/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Config     *config.Config
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Engine:    infra.Engine,
		},
		Config:     cfg,
		Pagination: cfg.API.Pagination,
	}
}
