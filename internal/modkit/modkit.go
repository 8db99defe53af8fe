// Package modkit builds feature modules: shared deps in, a prefix and routes out
package modkit

import "mgnrega/internal/modkit/module"

// Module is re-exported so feature packages need a single import for wiring
type Module = module.Module
