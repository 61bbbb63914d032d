// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/dirpoll/internal/adapters/config"
	_ "go.trai.ch/dirpoll/internal/adapters/fs"
	_ "go.trai.ch/dirpoll/internal/adapters/logger"
	_ "go.trai.ch/dirpoll/internal/adapters/metrics"
	_ "go.trai.ch/dirpoll/internal/adapters/telemetry/progrock"
	// Register app nodes.
	_ "go.trai.ch/dirpoll/internal/app"
)
