package order

import (
	"context"
	"log"
	"sync"
	"time"

	"go-storefront/internal/adapters/queue"
)

const defaultBatchSize = 100

// OutboxWorker moves stored outbox messages onto the queue. A message is
// marked processed only after it has been published, so delivery is at
// least once.
type OutboxWorker struct {
	repository Repository
	queue      queue.Queue
	interval   time.Duration
	batchSize  int
	done       chan struct{}
	stopped    sync.WaitGroup
	stopOnce   sync.Once
}

func NewOutboxWorker(repository Repository, queue queue.Queue, interval time.Duration) *OutboxWorker {
	return &OutboxWorker{
		repository: repository,
		queue:      queue,
		interval:   interval,
		batchSize:  defaultBatchSize,
		done:       make(chan struct{}),
	}
}

func (w *OutboxWorker) Start() {
	w.stopped.Add(1)
	go w.processOutbox()
}

// Stop ends the polling loop and waits for the current batch to finish.
func (w *OutboxWorker) Stop() {
	w.stopOnce.Do(func() { close(w.done) })
	w.stopped.Wait()
}

func (w *OutboxWorker) processOutbox() {
	defer w.stopped.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			if _, err := w.ProcessMessages(context.Background()); err != nil {
				log.Printf("Error processing outbox messages: %v", err)
			}
		}
	}
}

// ProcessMessages publishes one batch of pending messages and returns how
// many were published.
func (w *OutboxWorker) ProcessMessages(ctx context.Context) (int, error) {
	messages, err := w.repository.GetPendingOutboxMessages(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, msg := range messages {
		if err := w.queue.Publish(ctx, msg.Topic, msg.Message); err != nil {
			log.Printf("Error publishing message %s: %v", msg.ID, err)
			continue
		}

		if err := w.repository.MarkOutboxMessageAsProcessed(ctx, msg.ID); err != nil {
			log.Printf("Error marking message %s as processed: %v", msg.ID, err)
			continue
		}
		published++
	}

	return published, nil
}
