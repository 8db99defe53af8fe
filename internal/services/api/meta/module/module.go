// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	modkit "mgnrega/internal/modkit"
	"mgnrega/internal/modkit/httpkit"
	str "mgnrega/internal/platform/strings"

	metahttp "mgnrega/internal/services/api/meta/http"
)

// ServiceName is reported by health and service endpoints
const ServiceName = "mgnrega-api"

// Module implements the modkit.Module interface
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New constructs a meta module; pass modkit.WithPorts(entries) to report the cache size
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	d := metahttp.Deps{
		ServiceName: ServiceName,
		StartedAt:   time.Now(),
	}
	if st := deps.Store; st != nil {
		d.Checks = []metahttp.Check{
			{Name: "pg", Seam: st.PG},
			{Name: "ch", Seam: st.CH},
			{Name: "mongo", Seam: st.Mongo},
		}
	}
	if e, ok := b.Ports.(metahttp.Entries); ok {
		d.Cache = e
	} else if deps.Cache != nil {
		d.Cache = cacheLen{deps.Cache}
	}
	return &Module{b: b, deps: d}
}

// cacheLen adapts the raw cache when no districts port was injected
type cacheLen struct{ c interface{ Len() int } }

func (c cacheLen) Entries() int { return c.c.Len() }

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	modkit.Mount(r, m.b, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.b.Name, "meta") }

// Prefix returns the route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.b.Prefix) }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
