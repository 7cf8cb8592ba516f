// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/snaplink/internal/adapters/cache"
	_ "go.trai.ch/snaplink/internal/adapters/config"
	_ "go.trai.ch/snaplink/internal/adapters/fs"
	_ "go.trai.ch/snaplink/internal/adapters/logger"
	_ "go.trai.ch/snaplink/internal/adapters/rewriter"
	_ "go.trai.ch/snaplink/internal/adapters/telemetry"
	_ "go.trai.ch/snaplink/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/snaplink/internal/app"
	_ "go.trai.ch/snaplink/internal/engine/linker"
	_ "go.trai.ch/snaplink/internal/engine/traversal"
)
