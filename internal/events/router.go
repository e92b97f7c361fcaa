// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
)

// RouterConfig holds handler middleware settings.
type RouterConfig struct {
	CloseTimeout         time.Duration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64
}

// DefaultRouterConfig returns production defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     2 * time.Second,
		RetryMultiplier:      2,
	}
}

// Router wraps the Watermill Router with recovery and retry middleware.
// A Router runs once; build a new one to restart consumption.
type Router struct {
	router *message.Router
	logger watermill.LoggerAdapter
}

// NewRouter creates a Router. Middleware runs outer to inner:
// Recoverer, then Retry.
func NewRouter(cfg RouterConfig, logger watermill.LoggerAdapter) (*Router, error) {
	if logger == nil {
		logger = watermill.NewSlogLogger(logging.NewSlogLogger())
	}

	wmRouter, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	wmRouter.AddMiddleware(middleware.Recoverer)

	retry := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		Multiplier:      cfg.RetryMultiplier,
		Logger:          logger,
	}
	wmRouter.AddMiddleware(retry.Middleware)

	return &Router{router: wmRouter, logger: logger}, nil
}

// AddConsumerHandler registers a handler that produces no output messages.
func (r *Router) AddConsumerHandler(name, topic string, sub message.Subscriber, handler message.NoPublishHandlerFunc) {
	r.router.AddConsumerHandler(name, topic, sub, handler)
}

// Run blocks until ctx is cancelled or Close is called.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running is closed once all handlers are subscribed.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}

// Close stops the router, waiting up to CloseTimeout for in-flight handlers.
func (r *Router) Close() error {
	return r.router.Close()
}

// CatalogReloadedHandler adapts fn to a Watermill handler. Undecodable
// payloads are logged and acked since retrying cannot fix them.
func CatalogReloadedHandler(fn func(ctx context.Context, event *CatalogReloaded) error) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		event, err := Unmarshal(msg.Payload)
		if err != nil {
			metrics.RecordCatalogEvent(TopicCatalogReloaded, false)
			logging.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed catalog event")
			return nil
		}

		ctx := msg.Context()
		if id := middleware.MessageCorrelationID(msg); id != "" {
			ctx = logging.ContextWithCorrelationID(ctx, id)
		}

		if err := fn(ctx, event); err != nil {
			metrics.RecordCatalogEvent(TopicCatalogReloaded, false)
			return err
		}
		metrics.RecordCatalogEvent(TopicCatalogReloaded, true)
		return nil
	}
}
