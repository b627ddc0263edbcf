package api

import (
	"net/http"

	"github.com/kestrelworks/winnow/internal/config"
	"github.com/kestrelworks/winnow/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	routes.Register(
		mux,
		domain.Uploads.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Presets.Handler().Routes(),
		domain.Jobs.Handler().Routes(),
		domain.Wizard.Handler().Routes(),
	)
}
