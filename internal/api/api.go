// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"context"
	"net/http"

	"github.com/kestrelworks/winnow/internal/config"
	"github.com/kestrelworks/winnow/internal/infrastructure"
	"github.com/kestrelworks/winnow/pkg/middleware"
	"github.com/kestrelworks/winnow/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(ctx context.Context, cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))

	auth, err := middleware.Auth(ctx, &cfg.API.Auth)
	if err != nil {
		return nil, err
	}
	m.Use(auth)

	return m, nil
}
