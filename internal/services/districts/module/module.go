// Package module wires district queries into the API using modkit
package module

import (
	modkit "mgnrega/internal/modkit"
	"mgnrega/internal/modkit/httpkit"
	str "mgnrega/internal/platform/strings"
	"mgnrega/internal/services/districts/domain"
	dhttp "mgnrega/internal/services/districts/http"
	dsvc "mgnrega/internal/services/districts/service"
)

// Ports are what other modules may consume
type Ports struct {
	Districts domain.ServicePort
	Stats     domain.CacheStats
	Warm      domain.WarmPort
}

// Module implements the districts module
type Module struct {
	b     modkit.Built
	svc   *dsvc.Svc
	ports Ports
}

var _ modkit.Module = (*Module)(nil)

// New constructs the module; deps.Cache must be set and src yields the csv export
func New(deps modkit.Deps, src domain.Source, finYear string, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("districts"),
		modkit.WithPrefix("/mgnrega"),
	}, opts...)...)

	svc := dsvc.New(deps.Cache, src, finYear)
	deps.Logger("districts").Debug().Str("fin_year", finYear).Str("prefix", b.Prefix).Msg("districts module built")

	return &Module{
		b:     b,
		svc:   svc,
		ports: Ports{Districts: svc, Stats: svc, Warm: svc},
	}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	modkit.Mount(r, m.b, func(rr httpkit.Router) { dhttp.Register(rr, m.svc) })
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.b.Name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.b.Prefix) }

// Service exposes the concrete service for the ingest command
func (m *Module) Service() *dsvc.Svc { return m.svc }
