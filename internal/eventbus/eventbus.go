// Package eventbus connects the service to NATS JetStream through watermill.
// One bus serves both publishing and subscribing and provisions the streams
// it is asked for.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nkeys"
)

// Config holds the NATS connection settings.
type Config struct {
	URL string
	// NKeySeed authenticates the connection when non-empty.
	NKeySeed string
}

// EventBus is the messaging surface handed to routers and handlers. It is a
// watermill publisher and subscriber plus JetStream stream provisioning.
type EventBus interface {
	message.Publisher
	message.Subscriber
	CreateStream(ctx context.Context, streamName string) error
	Close() error
}

type jetStreamBus struct {
	logger     *slog.Logger
	publisher  *wmnats.Publisher
	subscriber *wmnats.Subscriber
	conn       *nc.Conn
	js         nc.JetStreamContext
}

var _ EventBus = (*jetStreamBus)(nil)

// NewEventBus connects to NATS and builds the watermill publisher and
// subscriber over JetStream. Streams are not auto-provisioned; callers create
// the ones they own via CreateStream.
func NewEventBus(ctx context.Context, cfg Config, logger *slog.Logger) (EventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	options := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(1 * time.Second),
		nc.ErrorHandler(func(_ *nc.Conn, s *nc.Subscription, err error) {
			if s != nil {
				logger.Error("NATS subscription error",
					slog.String("subject", s.Subject),
					slog.String("queue", s.Queue),
					slog.String("error", err.Error()),
				)
			} else {
				logger.Error("NATS connection error", slog.String("error", err.Error()))
			}
		}),
	}

	if cfg.NKeySeed != "" {
		keyPair, err := nkeys.FromSeed([]byte(cfg.NKeySeed))
		if err != nil {
			return nil, fmt.Errorf("failed to parse nkey seed: %w", err)
		}
		publicKey, err := keyPair.PublicKey()
		if err != nil {
			return nil, fmt.Errorf("failed to derive nkey public key: %w", err)
		}
		options = append(options, nc.Nkey(publicKey, keyPair.Sign))
	}

	conn, err := nc.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	publisher, err := wmnats.NewPublisher(
		wmnats.PublisherConfig{
			URL:         cfg.URL,
			NatsOptions: options,
			Marshaler:   &wmnats.NATSMarshaler{},
			JetStream: wmnats.JetStreamConfig{
				Disabled:      false,
				AutoProvision: false,
			},
		},
		wmLogger,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create watermill NATS publisher: %w", err)
	}

	subscriber, err := wmnats.NewSubscriber(
		wmnats.SubscriberConfig{
			URL:         cfg.URL,
			NatsOptions: options,
			Unmarshaler: &wmnats.NATSMarshaler{},
			JetStream: wmnats.JetStreamConfig{
				Disabled:      false,
				AutoProvision: false,
			},
		},
		wmLogger,
	)
	if err != nil {
		_ = publisher.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to create watermill NATS subscriber: %w", err)
	}

	logger.InfoContext(ctx, "Connected to NATS", slog.String("url", cfg.URL))

	return &jetStreamBus{
		logger:     logger,
		publisher:  publisher,
		subscriber: subscriber,
		conn:       conn,
		js:         js,
	}, nil
}

func (b *jetStreamBus) Publish(topic string, messages ...*message.Message) error {
	return b.publisher.Publish(topic, messages...)
}

func (b *jetStreamBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.subscriber.Subscribe(ctx, topic)
}

// CreateStream provisions a JetStream stream owning the "<name>.>" subject
// space. Existing streams are left untouched.
func (b *jetStreamBus) CreateStream(ctx context.Context, streamName string) error {
	if !isValidStreamName(streamName) {
		return fmt.Errorf("invalid stream name: %s", streamName)
	}

	info, err := b.js.StreamInfo(streamName, nc.Context(ctx))
	if err != nil && !errors.Is(err, nc.ErrStreamNotFound) {
		return fmt.Errorf("failed to get stream info for %s: %w", streamName, err)
	}
	if info != nil {
		return nil
	}

	_, err = b.js.AddStream(&nc.StreamConfig{
		Name:     streamName,
		Subjects: []string{fmt.Sprintf("%s.>", streamName)},
	}, nc.Context(ctx))
	if err != nil {
		return fmt.Errorf("failed to add stream %s: %w", streamName, err)
	}

	b.logger.InfoContext(ctx, "Created JetStream stream", slog.String("stream", streamName))
	return nil
}

func (b *jetStreamBus) Close() error {
	var errs []error
	if err := b.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	if err := b.subscriber.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close subscriber: %w", err))
	}
	if err := b.conn.Drain(); err != nil {
		errs = append(errs, fmt.Errorf("drain connection: %w", err))
	}
	return errors.Join(errs...)
}

// isValidStreamName checks a name against NATS stream naming rules: only
// alphanumerics, hyphens, and underscores, not starting or ending with a
// hyphen.
func isValidStreamName(name string) bool {
	if name == "" || name[0] == '-' || name[len(name)-1] == '-' {
		return false
	}
	for _, r := range name {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_') {
			return false
		}
	}
	return true
}
