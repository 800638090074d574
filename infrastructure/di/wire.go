//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"studio-backend/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideContentBackend,
	ProvideEventPublisher,
	ProvideGraphValidator,
	ProvideEngine,
	ProvideTracer,
	ProvideMetrics,
	ProvideDashboardService,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
