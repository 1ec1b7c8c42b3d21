package app

import "go.trai.ch/genpack/internal/core/ports"

// Components is the resolved object graph handed to the CLI.
type Components struct {
	App    *App
	Logger ports.Logger
}
