package ingestion

import (
	"context"
	"sync/atomic"

	"github.com/sideletter/callprep/core/message"
)

// ChanBroker is an in-process broker.Broker backed by a buffered channel.
// It plays the role the teacher's MockBroker plays in tests, but actually
// queues messages instead of printing them, since the Ingestion Pipeline
// needs a real intake queue between "upload accepted" and "worker claims".
// Ack and Nack are both no-ops: nothing is held pending acknowledgement
// once a message leaves the channel, and a Nacked message is not
// requeued.
type ChanBroker struct {
	ch     chan *message.Msg
	closed atomic.Bool
}

// NewChanBroker builds a ChanBroker with the given intake queue depth.
func NewChanBroker(capacity int) *ChanBroker {
	if capacity <= 0 {
		capacity = 256
	}
	return &ChanBroker{ch: make(chan *message.Msg, capacity)}
}

func (c *ChanBroker) Produce(ctx context.Context, msgs ...*message.Msg) error {
	for _, m := range msgs {
		select {
		case c.ch <- m:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Consume returns the next queued message, or (nil, nil, nil) if none is
// immediately available, matching the StreamWorker contract's "sleep on
// empty" convention.
func (c *ChanBroker) Consume(ctx context.Context) (*message.Msg, message.ID, error) {
	select {
	case m, ok := <-c.ch:
		if !ok {
			return nil, nil, nil
		}
		return m, nil, nil
	default:
		return nil, nil, nil
	}
}

func (c *ChanBroker) Ack(ctx context.Context, id message.ID) error {
	return nil
}

func (c *ChanBroker) Nack(ctx context.Context, id message.ID) error {
	return nil
}

func (c *ChanBroker) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		close(c.ch)
	}
	return nil
}
