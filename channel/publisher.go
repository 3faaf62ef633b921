package channel

import (
	"context"
	"errors"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"
)

// ErrRejected is returned by a transport when the remote end refused the
// update, as opposed to the update never reaching it.
var ErrRejected = errors.New("update rejected")

// Channel is a configured destination for one schema key.
type Channel struct {
	Key    Key
	ID     string
	APIKey string
}

// Transport moves one record to one channel. Implementations must not retry
// on their own; a failed record is reported and the next cycle carries on.
type Transport interface {
	Send(ctx context.Context, ch Channel, rec Record) error
	Close() error
}

// PublishError reports a record that could not be handed over.
type PublishError struct {
	Channel Key
	Err     error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %v: %v", e.Channel, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

type Publisher struct {
	transport Transport
	timeout   time.Duration
}

// NewPublisher bounds every Send by timeout; zero means only ctx applies.
func NewPublisher(t Transport, timeout time.Duration) *Publisher {
	return &Publisher{transport: t, timeout: timeout}
}

// Publish hands rec to the transport once. A failure is returned as a
// *PublishError and is never retried here.
func (p *Publisher) Publish(ctx context.Context, ch Channel, rec Record) error {
	if ch.ID == "" || ch.APIKey == "" {
		return &PublishError{Channel: ch.Key, Err: errors.New("channel not configured")}
	}
	if len(rec.Fields) == 0 {
		return &PublishError{Channel: ch.Key, Err: errors.New("empty record")}
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if err := p.transport.Send(ctx, ch, rec); err != nil {
		logger.Errorf("Failed to publish %v to channel %v [%v]", ch.Key, ch.ID, err)
		return &PublishError{Channel: ch.Key, Err: err}
	}
	logger.Debugf("Published %v to channel %v %v", ch.Key, ch.ID, rec.Fields)
	return nil
}

func (p *Publisher) Close() error {
	return p.transport.Close()
}
