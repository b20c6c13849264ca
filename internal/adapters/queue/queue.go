package queue

import (
	"context"
	"errors"
)

var ErrClosed = errors.New("queue closed")

// Handler processes one message taken from a topic.
type Handler func(ctx context.Context, message []byte) error

// Queue is a topic based message queue.
type Queue interface {
	Publish(ctx context.Context, topic string, message []byte) error
	// Consume blocks, passing every message on topic to handler until the
	// queue is closed or ctx is done.
	Consume(ctx context.Context, topic string, handler Handler) error
	Close()
}
