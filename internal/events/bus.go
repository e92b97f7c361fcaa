// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// ErrBusClosed is returned when publishing on a closed Bus.
var ErrBusClosed = errors.New("event bus is closed")

// BusConfig configures the Go-channel pub/sub.
type BusConfig struct {
	// BufferSize is the per-subscriber output channel buffer.
	BufferSize int64
}

// Bus is an in-process publisher and subscriber.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter

	mu     sync.RWMutex
	closed bool
}

var _ recommend.Publisher = (*Bus)(nil)

// NewBus creates a Bus. A nil logger logs through the global zerolog logger.
func NewBus(cfg BusConfig, logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NewSlogLogger(logging.NewSlogLogger())
	}
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.BufferSize,
		}, logger),
		logger: logger,
	}
}

// Publisher returns the underlying Watermill publisher.
func (b *Bus) Publisher() message.Publisher { return b.pubsub }

// Subscriber returns the underlying Watermill subscriber.
func (b *Bus) Subscriber() message.Subscriber { return b.pubsub }

// Logger returns the Watermill logger used by the bus.
func (b *Bus) Logger() watermill.LoggerAdapter { return b.logger }

// PublishCatalogReloaded implements recommend.Publisher.
func (b *Bus) PublishCatalogReloaded(ctx context.Context, info recommend.ReloadInfo) error {
	correlationID := logging.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = logging.GenerateCorrelationID()
	}
	return b.Publish(ctx, NewCatalogReloaded(info, correlationID))
}

// Publish sends event on TopicCatalogReloaded.
func (b *Bus) Publish(ctx context.Context, event *CatalogReloaded) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}

	data, err := Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(event.EventID, data)
	msg.SetContext(ctx)
	if event.CorrelationID != "" {
		middleware.SetCorrelationID(event.CorrelationID, msg)
	}

	if err := b.pubsub.Publish(TopicCatalogReloaded, msg); err != nil {
		metrics.RecordCatalogEvent(TopicCatalogReloaded+".publish", false)
		return fmt.Errorf("publish %s: %w", TopicCatalogReloaded, err)
	}
	metrics.RecordCatalogEvent(TopicCatalogReloaded+".publish", true)
	return nil
}

// Subscribe returns a channel of raw messages on topic. Each message must
// be acked or nacked.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

// Close stops the pub/sub and closes subscriber channels.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.pubsub.Close()
}
