package ranksyncservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/open-ladder/ranksync/internal/attr"
	"github.com/open-ladder/ranksync/internal/observability"
	"github.com/open-ladder/ranksync/internal/results"
	"github.com/open-ladder/ranksync/internal/retry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "RankSyncService"

// RankSyncService implements the Service interface.
type RankSyncService struct {
	ratings  RatingService
	roles    RoleDirectory
	store    AchievementStore
	links    LinkSource
	settings SettingsProvider
	notifier NotificationSink
	guard    *RunGuard
	retry    retry.Policy
	logger   *slog.Logger
	metrics  observability.ServiceMetrics
	tracer   trace.Tracer
}

// NewRankSyncService creates a new RankSyncService.
func NewRankSyncService(
	ratings RatingService,
	roles RoleDirectory,
	store AchievementStore,
	links LinkSource,
	settings SettingsProvider,
	notifier NotificationSink,
	logger *slog.Logger,
	metrics observability.ServiceMetrics,
	tracer trace.Tracer,
) *RankSyncService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RankSyncService{
		ratings:  ratings,
		roles:    roles,
		store:    store,
		links:    links,
		settings: settings,
		notifier: notifier,
		guard:    NewRunGuard(),
		retry:    retry.Default,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
	}
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *RankSyncService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.OperationAttempt(ctx, serviceName, operationName)
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.OperationDuration(ctx, serviceName, operationName, time.Since(startTime))
		}
	}()

	s.logger.InfoContext(ctx, "Operation triggered", attr.CorrelationID(ctx), slog.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.CorrelationID(ctx),
				slog.String("identifier", identifier),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.OperationFailure(ctx, serviceName, operationName)
			}
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.CorrelationID(ctx),
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.OperationFailure(ctx, serviceName, operationName)
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.CorrelationID(ctx),
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
			slog.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.CorrelationID(ctx),
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
		)
	}

	if s.metrics != nil {
		s.metrics.OperationSuccess(ctx, serviceName, operationName)
	}

	return result, nil
}
