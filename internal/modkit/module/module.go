// Package module holds the module contract and port lookup; it sits below modkit
// so a module's ports type can import it without a cycle
package module

import (
	phttp "mgnrega/internal/platform/net/http"
)

// Module is a feature that mounts routes and exposes ports to its siblings
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

// MountAll mounts every module in order and returns their names, for the startup log
func MountAll(r phttp.Router, mods ...Module) []string {
	names := make([]string, 0, len(mods))
	for _, m := range mods {
		if m == nil {
			continue
		}
		m.MountRoutes(r)
		names = append(names, m.Name())
	}
	return names
}
