package di

import (
	"context"
	"fmt"

	"studio-backend/application/ports"
	"studio-backend/application/services"
	"studio-backend/application/session"
	domainconfig "studio-backend/domain/config"
	"studio-backend/domain/core/validators"
	"studio-backend/infrastructure/config"
	"studio-backend/infrastructure/messaging/eventbridge"
	"studio-backend/infrastructure/persistence/dynamodb"
	"studio-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideContentBackend creates the DynamoDB-backed content store
func ProvideContentBackend(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ContentBackend {
	return dynamodb.NewContentStore(client, cfg.DynamoDBTable, cfg.ContentKey, logger)
}

// ProvideEventPublisher creates the EventBridge publisher, or a no-op
// publisher when no bus is configured
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return eventbridge.NopPublisher{}
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideGraphValidator creates the graph validator with per-environment
// domain limits
func ProvideGraphValidator(cfg *config.Config, logger *zap.Logger) *validators.GraphValidator {
	return validators.NewGraphValidatorWithConfig(domainconfig.LoadDomainConfig(cfg.Environment), logger)
}

// ProvideEngine creates the edit-session engine
func ProvideEngine(backend ports.ContentBackend, validator *validators.GraphValidator, logger *zap.Logger) *session.Engine {
	return session.NewEngine(backend, validator, logger)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer("studio-content", cfg.EnableTracing)
}

// ProvideMetrics creates the CloudWatch metrics recorder. Metrics are
// disabled by leaving the client out, not by branching at every call site.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	if !cfg.EnableMetrics {
		return observability.NewMetrics(nil, "", logger)
	}
	namespace := fmt.Sprintf("Studio/%s", cfg.Environment)
	return observability.NewMetrics(client, namespace, logger)
}

// ProvideDashboardService creates the dashboard service
func ProvideDashboardService(
	engine *session.Engine,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *services.DashboardService {
	return services.NewDashboardService(engine, publisher, metrics, tracer, logger)
}
