// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/pakt/internal/adapters/cas"
	_ "go.trai.ch/pakt/internal/adapters/config"
	_ "go.trai.ch/pakt/internal/adapters/fs"
	_ "go.trai.ch/pakt/internal/adapters/lockfile"
	_ "go.trai.ch/pakt/internal/adapters/logger"
	_ "go.trai.ch/pakt/internal/adapters/shell"
	_ "go.trai.ch/pakt/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/pakt/internal/app"
	_ "go.trai.ch/pakt/internal/engine/orchestrator"
)
