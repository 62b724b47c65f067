package tui

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	gochannel "github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Bus struct {
	Router     *message.Router
	Publisher  message.Publisher
	Subscriber message.Subscriber

	runOnce sync.Once
}

func NewInMemoryBus() (*Bus, error) {
	logger := NewZerologAdapter(log.Logger.Level(zerolog.WarnLevel))
	pubsub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 1024}, logger)

	r, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return nil, errors.Wrap(err, "new watermill router")
	}
	return &Bus{
		Router:     r,
		Publisher:  pubsub,
		Subscriber: pubsub,
	}, nil
}

func (b *Bus) AddHandler(name, topic string, handler func(*message.Message) error) {
	b.Router.AddConsumerHandler(name, topic, b.Subscriber, handler)
}

// Running is closed once the router is ready to deliver messages.
func (b *Bus) Running() chan struct{} {
	return b.Router.Running()
}

func (b *Bus) Run(ctx context.Context) error {
	var runErr error
	b.runOnce.Do(func() {
		go func() {
			<-ctx.Done()
			_ = b.Router.Close()
		}()
		runErr = b.Router.Run(ctx)
		if err := b.Publisher.Close(); err != nil && runErr == nil {
			runErr = errors.Wrap(err, "close publisher")
		}
	})
	return runErr
}

// zerologAdapter routes watermill's own logging into zerolog.
type zerologAdapter struct {
	l zerolog.Logger
}

func NewZerologAdapter(l zerolog.Logger) watermill.LoggerAdapter {
	return zerologAdapter{l: l}
}

func (a zerologAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.l.Error().Err(err).Fields(map[string]interface{}(fields)).Msg(msg)
}

func (a zerologAdapter) Info(msg string, fields watermill.LogFields) {
	a.l.Info().Fields(map[string]interface{}(fields)).Msg(msg)
}

func (a zerologAdapter) Debug(msg string, fields watermill.LogFields) {
	a.l.Debug().Fields(map[string]interface{}(fields)).Msg(msg)
}

func (a zerologAdapter) Trace(msg string, fields watermill.LogFields) {
	a.l.Trace().Fields(map[string]interface{}(fields)).Msg(msg)
}

func (a zerologAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return zerologAdapter{l: a.l.With().Fields(map[string]interface{}(fields)).Logger()}
}
