// Package nats broadcasts chat events over NATS core subjects.
package nats

import (
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/nats-io/nats.go"
)

// PubSub publishes and subscribes raw payloads by topic.
// Topics map one to one to NATS subjects.
type PubSub struct {
	conn   *nats.Conn
	logger log.Logger
}

// Connect dials the server and keeps reconnecting forever, reporting
// connection events to logger.
func Connect(url, name string, logger log.Logger) (*PubSub, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				_ = logger.Log("msg", "nats disconnected", "err", err)
			}
		}),
		nats.ReconnectHandler(func(conn *nats.Conn) {
			_ = logger.Log("msg", "nats reconnected", "url", conn.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			subject := ""
			if sub != nil {
				subject = sub.Subject
			}
			_ = logger.Log("msg", "nats async error", "subject", subject, "err", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &PubSub{conn: conn, logger: logger}, nil
}

func (ps *PubSub) Pub(topic string, data []byte) error {
	if err := ps.conn.Publish(topic, data); err != nil {
		return fmt.Errorf("nats publish %s: %w", topic, err)
	}
	return nil
}

// Sub calls fn with every payload published on topic until the returned
// unsubscribe func is called. fn runs on the subscription goroutine.
func (ps *PubSub) Sub(topic string, fn func(data []byte)) (func() error, error) {
	sub, err := ps.conn.Subscribe(topic, func(msg *nats.Msg) {
		fn(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("nats subscribe %s: %w", topic, err)
	}

	return func() error {
		if err := sub.Unsubscribe(); err != nil {
			return fmt.Errorf("nats unsubscribe %s: %w", topic, err)
		}
		return nil
	}, nil
}

func (ps *PubSub) Ping() error {
	if !ps.conn.IsConnected() {
		return fmt.Errorf("nats: %s", ps.conn.Status())
	}
	return nil
}

// Close flushes pending publishes before closing the connection.
func (ps *PubSub) Close() error {
	if err := ps.conn.Drain(); err != nil {
		return fmt.Errorf("nats drain: %w", err)
	}
	return nil
}
