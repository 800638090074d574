// Package di wires the application together. Run `wire` in this directory
// after changing providers; wire_gen.go is committed.
package di

import (
	"studio-backend/application/services"
	"studio-backend/infrastructure/config"
	"studio-backend/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Dashboard *services.DashboardService
	Metrics   *observability.Metrics
	Tracer    *observability.Tracer
}
