// @title         MGNREGA district API
// @version       0.1.0
// @description   Read only district statistics aggregated from the MGNREGA csv export

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"mgnrega/internal/adapters/source"
	"mgnrega/internal/core/version"
	"mgnrega/internal/modkit/repokit"
	"mgnrega/internal/platform/cache"
	"mgnrega/internal/platform/config"
	"mgnrega/internal/platform/logger"
	"mgnrega/internal/platform/metrics"
	phttp "mgnrega/internal/platform/net/http"
	"mgnrega/internal/platform/store"

	"mgnrega/internal/services/api"
	refreshermod "mgnrega/internal/services/refresher/module"
)

func main() {
	logger.Init(logger.FromEnv())
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// service-scoped config for HTTP etc (CORE_API_*), dataset config under MGNREGA_*
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	mgCfg := root.Prefix("MGNREGA_")

	// only backends with a url are opened; the default file cache needs none
	st, err := store.Open(ctx, store.FromEnv(root, "api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	rec := metrics.New()
	bi := version.Info()
	rec.SetBuildInfo(bi.Service, bi.Version, bi.Commit)

	cs := cache.SettingsFrom(root)
	persister, err := cs.Persister(ctx, st)
	if err != nil {
		l.Panic().Err(err).Str("backend", cs.Backend).Msg("cache persister")
	}
	c := cache.New(ctx, cache.Options{
		TTL:       cs.TTL,
		Persister: persister,
		Observer:  rec,
		Logger:    logger.Named("cache"),
	})

	src, err := source.Open(
		mgCfg.MustString("SOURCE"),
		mgCfg.MayDuration("SOURCE_TIMEOUT", source.DefaultTimeout),
		mgCfg.MayString("SOURCE_MIRROR_DIR", ""),
	)
	if err != nil {
		l.Panic().Err(err).Msg("MGNREGA_SOURCE")
	}

	// http server (reads CORE_API_API_PORT / CORE_API_SHUTDOWN_GRACE)
	srv := phttp.NewServer(apiCfg)

	mounted := api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Store:          st,
			Cache:          c,
			Logger:         l,
			Metrics:        rec,
			Source:         src,
			FinYear:        mgCfg.MayString("FIN_YEAR", "2024-2025"),
			Refresh:        refreshermod.FromConfig(root),
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
			EnableMetrics:  apiCfg.MayBool("METRICS", true),
		},
	)

	if mounted.Refresher != nil {
		go func() {
			if err := mounted.Refresher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				l.Error().Err(err).Msg("refresher stopped")
			}
		}()
	}

	l.Info().Str("addr", srv.Addr()).Int("cached", c.Len()).Str("cache", cs.Backend).Msg("mgnrega api starting")
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("mgnrega api stopped")
}
