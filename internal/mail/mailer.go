package mail

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Message is an outbound email.
type Message struct {
	To      []string
	Subject string
	Body    string
	ReplyTo string
}

// Sender delivers a single message to the mail provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer accepts messages for asynchronous delivery. Enqueue success means
// the message is owned by the queue, not that it was delivered.
type Mailer interface {
	Enqueue(ctx context.Context, msg Message) error
}

// ErrQueueClosed is returned when enqueueing after shutdown.
var ErrQueueClosed = errors.New("mail queue closed")

// ErrQueueFull is returned when the buffer is saturated.
var ErrQueueFull = errors.New("mail queue full")

// Queue is an in-process buffered mail queue with delivery workers.
type Queue struct {
	sender  Sender
	logger  *zap.Logger
	ch      chan Message
	workers int

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewQueue builds a queue with the given buffer size and worker count.
func NewQueue(size, workers int, sender Sender, logger *zap.Logger) *Queue {
	if size <= 0 {
		size = 64
	}
	if workers <= 0 {
		workers = 1
	}
	return &Queue{
		sender:  sender,
		logger:  logger,
		ch:      make(chan Message, size),
		workers: workers,
	}
}

// Start launches delivery workers.
func (q *Queue) Start() {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
}

// Stop closes the queue and waits for in-flight deliveries to finish.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()
	q.wg.Wait()
}

// Enqueue hands a message to the queue without blocking the caller.
func (q *Queue) Enqueue(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("message has no recipients")
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for msg := range q.ch {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := q.sender.Send(ctx, msg); err != nil {
			q.logger.Error("mail delivery failed",
				zap.Strings("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.Error(err))
		} else {
			q.logger.Debug("mail delivered",
				zap.Strings("to", msg.To),
				zap.String("subject", msg.Subject))
		}
		cancel()
	}
}
