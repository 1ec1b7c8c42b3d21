// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/genpack/internal/adapters/cas"
	_ "go.trai.ch/genpack/internal/adapters/config"
	_ "go.trai.ch/genpack/internal/adapters/fs"
	_ "go.trai.ch/genpack/internal/adapters/logger"
	_ "go.trai.ch/genpack/internal/adapters/lowerimage"
	_ "go.trai.ch/genpack/internal/adapters/nspawn"
	_ "go.trai.ch/genpack/internal/adapters/shell"
	_ "go.trai.ch/genpack/internal/adapters/squashfs"
	// Register app nodes.
	_ "go.trai.ch/genpack/internal/app"
)
