// Package logging attaches a zap logger to the event bus.
package logging

import (
	"context"

	"go.uber.org/zap"

	eventbus "github.com/graphmock/graphmock/internal/eventbus"
	events "github.com/graphmock/graphmock/internal/events"
	reqid "github.com/graphmock/graphmock/internal/reqid"
)

// Setup builds a logger and subscribes it to the event bus. With debug set
// it uses the development config and additionally logs per-field mock
// resolution failures.
func Setup(debug bool) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	subscribe(logger, debug)
	return logger, nil
}

func subscribe(log *zap.Logger, debug bool) {
	eventbus.Subscribe(func(ctx context.Context, e events.HTTPFinish) {
		rid, _ := reqid.FromContext(ctx)
		log.Info("http request",
			zap.String("method", e.Request.Method),
			zap.String("path", e.Request.URL.Path),
			zap.Int("status", e.Status),
			zap.Duration("duration", e.Duration),
			zap.Int64("request_id", rid),
		)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.GraphQLFinish) {
		rid, _ := reqid.FromContext(ctx)
		log.Info("graphql operation",
			zap.String("operation", e.OperationName),
			zap.String("type", e.OperationType),
			zap.Int("errors", len(e.Errors)),
			zap.Duration("duration", e.Duration),
			zap.Int64("request_id", rid),
		)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.MockResolve) {
		if e.Err == nil && !debug {
			return
		}
		rid, _ := reqid.FromContext(ctx)
		fields := []zap.Field{
			zap.String("type", e.ObjectType),
			zap.String("field", e.Field),
			zap.Bool("merged", e.Merged),
			zap.Duration("duration", e.Duration),
			zap.Int64("request_id", rid),
		}
		if e.Err != nil {
			log.Warn("mock resolution failed", append(fields, zap.Error(e.Err))...)
			return
		}
		log.Debug("mock resolved", fields...)
	})
}
