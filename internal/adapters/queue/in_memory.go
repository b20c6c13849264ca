package queue

import (
	"context"
	"log"
	"sync"
)

const topicBuffer = 64

// InMemoryQueue is an in-memory implementation of the Queue interface.
// Each message is delivered to one consumer of its topic.
type InMemoryQueue struct {
	mu     sync.Mutex
	topics map[string]chan []byte
	done   chan struct{}
	once   sync.Once
}

// NewInMemoryQueue creates a new InMemoryQueue.
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		topics: make(map[string]chan []byte),
		done:   make(chan struct{}),
	}
}

func (q *InMemoryQueue) topic(name string) chan []byte {
	q.mu.Lock()
	defer q.mu.Unlock()

	ch, ok := q.topics[name]
	if !ok {
		ch = make(chan []byte, topicBuffer)
		q.topics[name] = ch
	}

	return ch
}

// Publish publishes a message on a topic. It blocks while the topic buffer
// is full.
func (q *InMemoryQueue) Publish(ctx context.Context, topic string, message []byte) error {
	select {
	case <-q.done:
		return ErrClosed
	default:
	}

	select {
	case q.topic(topic) <- message:
		return nil
	case <-q.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume consumes messages from a topic and passes them to the handler.
// Handler errors are logged and do not stop consumption.
func (q *InMemoryQueue) Consume(ctx context.Context, topic string, handler Handler) error {
	ch := q.topic(topic)

	for {
		select {
		case <-q.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case message := <-ch:
			if err := handler(ctx, message); err != nil {
				log.Printf("Error processing message on %s: %v", topic, err)
			}
		}
	}
}

// Close stops all consumers. Publishing after Close fails with ErrClosed.
func (q *InMemoryQueue) Close() {
	q.once.Do(func() { close(q.done) })
}
