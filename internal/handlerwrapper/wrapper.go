// Package handlerwrapper adapts typed event handlers to watermill. A wrapped
// handler decodes the incoming payload, runs the handler under a span with
// metrics, and publishes whatever result events the handler returns.
package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/open-ladder/ranksync/internal/attr"
)

// Result is one event produced by a handler: the topic it goes to, the
// payload to marshal, and optional metadata.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// Metrics counts handler executions.
type Metrics interface {
	HandlerAttempt(handlerName string)
	HandlerSuccess(handlerName string)
	HandlerFailure(handlerName string)
	HandlerDuration(handlerName string, d time.Duration)
}

// NoOpMetrics discards all measurements.
type NoOpMetrics struct{}

func (NoOpMetrics) HandlerAttempt(string)                 {}
func (NoOpMetrics) HandlerSuccess(string)                 {}
func (NoOpMetrics) HandlerFailure(string)                 {}
func (NoOpMetrics) HandlerDuration(string, time.Duration) {}

// Config wires the dependencies shared by all wrapped handlers.
type Config struct {
	Logger    *slog.Logger
	Tracer    trace.Tracer
	Metrics   Metrics
	Publisher message.Publisher
}

// WrapTyped turns a typed handler into a watermill handler. The returned
// error causes a Nack and redelivery, so handlers must stay tolerant of
// repeats. Results are published individually; a publish failure Nacks the
// whole message.
func WrapTyped[T any](cfg Config, handlerName string, fn func(ctx context.Context, payload *T, msg *message.Message) ([]Result, error)) message.NoPublishHandlerFunc {
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NoOpMetrics{}
	}

	return func(msg *message.Message) error {
		ctx := msg.Context()
		correlationID := middleware.MessageCorrelationID(msg)
		if correlationID != "" {
			ctx = attr.WithCorrelationID(ctx, correlationID)
		}

		ctx, span := cfg.Tracer.Start(ctx, handlerName)
		defer span.End()

		start := time.Now()
		metrics.HandlerAttempt(handlerName)
		defer func() { metrics.HandlerDuration(handlerName, time.Since(start)) }()

		var payload T
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			metrics.HandlerFailure(handlerName)
			span.SetStatus(codes.Error, "payload decode failed")
			cfg.Logger.ErrorContext(ctx, "Failed to decode payload",
				slog.String("handler", handlerName),
				slog.String("message_uuid", msg.UUID),
				attr.Error(err),
			)
			return fmt.Errorf("%s: decode payload: %w", handlerName, err)
		}

		results, err := fn(ctx, &payload, msg)
		if err != nil {
			metrics.HandlerFailure(handlerName)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			cfg.Logger.ErrorContext(ctx, "Handler failed",
				slog.String("handler", handlerName),
				slog.String("message_uuid", msg.UUID),
				attr.CorrelationID(ctx),
				attr.Error(err),
			)
			return fmt.Errorf("%s: %w", handlerName, err)
		}

		for _, result := range results {
			data, err := json.Marshal(result.Payload)
			if err != nil {
				metrics.HandlerFailure(handlerName)
				return fmt.Errorf("%s: encode result for %s: %w", handlerName, result.Topic, err)
			}

			out := message.NewMessage(uuid.New().String(), data)
			out.SetContext(ctx)
			if correlationID != "" {
				middleware.SetCorrelationID(correlationID, out)
			}
			for k, v := range result.Metadata {
				out.Metadata.Set(k, v)
			}

			if err := cfg.Publisher.Publish(result.Topic, out); err != nil {
				metrics.HandlerFailure(handlerName)
				return fmt.Errorf("%s: publish to %s: %w", handlerName, result.Topic, err)
			}
		}

		metrics.HandlerSuccess(handlerName)
		return nil
	}
}
