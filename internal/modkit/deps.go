// Package modkit provides module wiring and core deps
package modkit

import (
	"mgnrega/internal/platform/cache"
	"mgnrega/internal/platform/config"
	"mgnrega/internal/platform/logger"
	"mgnrega/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log   *logger.Logger
	Cfg   config.Conf
	Store *store.Store
	Cache *cache.Cache
}

// Logger returns Log or a component logger when Log is unset
func (d Deps) Logger(component string) *logger.Logger {
	if d.Log != nil {
		ll := d.Log.With().Str("component", component).Logger()
		return &ll
	}
	return logger.Named(component)
}
