package mail

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	mu       sync.Mutex
	messages []Message
}

func (s *recordingSender) Send(ctx context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

func (s *recordingSender) delivered() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message{}, s.messages...)
}

func TestQueueDeliversEnqueuedMessages(t *testing.T) {
	sender := &recordingSender{}
	queue := NewQueue(8, 2, sender, zap.NewNop())
	queue.Start()

	for i := 0; i < 5; i++ {
		err := queue.Enqueue(context.Background(), Message{
			To:      []string{"legal@example.com"},
			Subject: "reminder",
			Body:    "body",
		})
		require.NoError(t, err)
	}
	queue.Stop()

	assert.Len(t, sender.delivered(), 5)
}

func TestQueueRejectsMessageWithoutRecipients(t *testing.T) {
	queue := NewQueue(1, 1, &recordingSender{}, zap.NewNop())
	err := queue.Enqueue(context.Background(), Message{Subject: "x"})
	assert.Error(t, err)
}

func TestQueueFullReturnsError(t *testing.T) {
	// No workers started, so the buffer never drains.
	queue := NewQueue(1, 1, &recordingSender{}, zap.NewNop())

	msg := Message{To: []string{"a@example.com"}, Subject: "x"}
	require.NoError(t, queue.Enqueue(context.Background(), msg))
	err := queue.Enqueue(context.Background(), msg)
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestQueueClosedReturnsError(t *testing.T) {
	queue := NewQueue(4, 1, &recordingSender{}, zap.NewNop())
	queue.Start()
	queue.Stop()

	err := queue.Enqueue(context.Background(), Message{To: []string{"a@example.com"}})
	assert.ErrorIs(t, err, ErrQueueClosed)

	// Stop is safe to call twice.
	queue.Stop()
}
