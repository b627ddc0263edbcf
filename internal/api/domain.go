package api

import (
	"github.com/kestrelworks/winnow/internal/jobs"
	"github.com/kestrelworks/winnow/internal/presets"
	"github.com/kestrelworks/winnow/internal/processing"
	"github.com/kestrelworks/winnow/internal/rules"
	"github.com/kestrelworks/winnow/internal/uploads"
	"github.com/kestrelworks/winnow/internal/wizard"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Uploads uploads.System
	Presets presets.System
	Jobs    jobs.System
	Wizard  wizard.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	uploadsSystem := uploads.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Engine,
		runtime.Logger,
		runtime.Pagination,
	)

	presetsSystem := presets.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	jobsSystem := jobs.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	options := processing.SmartOptions()
	options.ListFallback = runtime.Config.Engine.ListFallbackEnabled()

	wizardSystem := wizard.New(
		runtime.Engine,
		presetsSystem,
		jobsSystem,
		rules.NewSuggester(runtime.Config.Agent, runtime.Logger),
		runtime.Config.Engine.SampleSize,
		options,
		runtime.Logger,
	)

	return &Domain{
		Uploads: uploadsSystem,
		Presets: presetsSystem,
		Jobs:    jobsSystem,
		Wizard:  wizardSystem,
	}
}
