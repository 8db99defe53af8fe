// Package module wires the cache refresher and its status route
package module

import (
	"context"
	"net/http"

	modkit "mgnrega/internal/modkit"
	"mgnrega/internal/modkit/httpkit"
	"mgnrega/internal/services/districts/domain"
	"mgnrega/internal/services/refresher/service"
)

// Worker is the long running half of the module
type Worker interface {
	Run(ctx context.Context) error
}

// Ports are what the binaries consume
type Ports struct {
	Worker Worker
}

// Module defines the refresher module
type Module struct {
	b     modkit.Built
	opts  Options
	svc   *service.Svc
	ports Ports
}

var _ modkit.Module = (*Module)(nil)

// New builds the refresher over the districts warm port
func New(deps modkit.Deps, target domain.WarmPort, opts Options, mopts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("refresher"),
		modkit.WithPrefix("/refresher"),
	}, mopts...)...)

	svc := service.New(target, service.Config{
		States:    opts.States,
		Interval:  opts.Interval,
		RetryBase: opts.RetryBase,
		MaxDelay:  opts.MaxDelay,
	}, deps.Logger("refresher"))

	return &Module{b: b, opts: opts, svc: svc, ports: Ports{Worker: svc}}
}

// Enabled reports whether the binary should start the worker
func (m *Module) Enabled() bool { return m.opts.Enabled }

// MountRoutes exposes GET /status
func (m *Module) MountRoutes(r httpkit.Router) {
	modkit.Mount(r, m.b, func(rr httpkit.Router) {
		httpkit.Get(rr, "/status", func(*http.Request) (any, error) {
			return map[string]any{"enabled": m.opts.Enabled, "states": m.svc.Status()}, nil
		})
	})
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }
