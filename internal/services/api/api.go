// Package api provides the HTTP API for the application
package api

import (
	"time"

	"mgnrega/internal/core/version"
	"mgnrega/internal/platform/cache"
	"mgnrega/internal/platform/config"
	"mgnrega/internal/platform/logger"
	"mgnrega/internal/platform/metrics"
	phttp "mgnrega/internal/platform/net/http"
	"mgnrega/internal/platform/net/middleware"
	"mgnrega/internal/platform/store"

	"mgnrega/internal/modkit"
	"mgnrega/internal/modkit/httpkit"
	"mgnrega/internal/modkit/module"
	"mgnrega/internal/modkit/swaggerkit"

	metamod "mgnrega/internal/services/api/meta/module"
	"mgnrega/internal/services/districts/domain"
	districtsmod "mgnrega/internal/services/districts/module"
	refreshermod "mgnrega/internal/services/refresher/module"
)

// Options are the API options
type Options struct {
	Config  config.Conf
	Store   *store.Store
	Cache   *cache.Cache
	Logger  *logger.Logger
	Metrics *metrics.Recorder

	// Source yields the csv export, FinYear selects the reporting year
	Source  domain.Source
	FinYear string

	// Refresh configures the background cache refresher
	Refresh refreshermod.Options

	EnableSwagger  bool
	EnableProfiler bool
	EnableMetrics  bool
}

// Mounted carries what the caller must run alongside the http server
type Mounted struct {
	// Refresher is nil unless Refresh.Enabled
	Refresher refreshermod.Worker
}

// Mount mounts the API service onto the given router; call it before any other route is added
func Mount(r phttp.Router, opt Options) Mounted {
	r.Use(middleware.Defaults()...)

	deps := modkit.Deps{
		Log:   opt.Logger,
		Cfg:   opt.Config,
		Store: opt.Store,
		Cache: opt.Cache,
	}

	districts := districtsmod.New(deps, opt.Source, opt.FinYear)
	stats := module.MustPortsOf[domain.CacheStats](districts)
	refresher := refreshermod.New(deps, module.MustPortsOf[domain.WarmPort](districts), opt.Refresh)

	mods := []module.Module{
		metamod.New(deps, modkit.WithPorts(stats)),
		districts,
		refresher,
	}

	var out Mounted
	if refresher.Enabled() {
		out.Refresher = module.MustPortsOf[refreshermod.Worker](refresher)
	}

	stack := httpkit.StackOptions{
		Timeout:     opt.Config.MayDuration("REQUEST_TIMEOUT", 60*time.Second),
		Slow:        opt.Config.MayDuration("SLOW_REQUEST", 2*time.Second),
		CORSOrigins: opt.Config.MayCSV("CORS_ORIGINS", nil),
	}
	if opt.Metrics != nil {
		stack.Observe = opt.Metrics.ObserveHTTP
	}

	// swagger, profiler and metrics live outside the versioned scope
	swaggerkit.Mount(r, opt.EnableSwagger, swaggerkit.WithVersion(version.Info().Version))
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	if opt.EnableMetrics && opt.Metrics != nil {
		r.Handle("/metrics", opt.Metrics.Handler())
	}

	httpkit.MountAPIV1(r, httpkit.CommonStack(stack), func(api httpkit.Router) {
		names := module.MountAll(api, mods...)
		deps.Logger("api").Debug().Strs("modules", names).Msg("modules mounted")
	})
	return out
}
