package notifier

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/commercialspace/backend/internal/adapter/email"
	"github.com/commercialspace/backend/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (s *recordingSender) Send(ctx context.Context, to, subject, htmlBody string, attachment *email.Attachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to)
	return s.err
}

func (s *recordingSender) recipients() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

func TestNotifier_DeliversQueuedTasks(t *testing.T) {
	sender := &recordingSender{}
	n := New(sender, logger.NoOp(), 8, time.Second)
	n.Start()

	n.Enqueue(Task{To: "alice@example.com", Subject: "hi", HTMLBody: "<p>hi</p>"})
	n.Enqueue(Task{To: "bob@example.com", Subject: "hi", HTMLBody: "<p>hi</p>"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, n.Stop(ctx))

	assert.ElementsMatch(t, []string{"alice@example.com", "bob@example.com"}, sender.recipients())
}

func TestNotifier_SendFailureDoesNotStopWorker(t *testing.T) {
	sender := &recordingSender{err: assert.AnError}
	n := New(sender, logger.NoOp(), 8, time.Second)
	n.Start()

	n.Enqueue(Task{To: "alice@example.com", Subject: "a", HTMLBody: "x"})
	n.Enqueue(Task{To: "bob@example.com", Subject: "b", HTMLBody: "y"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, n.Stop(ctx))

	assert.Len(t, sender.recipients(), 2)
}

func TestNotifier_EnqueueNeverBlocksWhenSaturated(t *testing.T) {
	sender := &recordingSender{}
	n := New(sender, logger.NoOp(), 1, time.Second)
	// Worker not started: the queue fills and further enqueues must drop.

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			n.Enqueue(Task{To: "x@example.com"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a saturated queue")
	}
}
