package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/commercialspace/backend/internal/adapter/email"
	"github.com/commercialspace/backend/internal/platform/logger"
)

// Task is one outbound notification. Tasks are enqueued only after the
// state change they announce has been committed.
type Task struct {
	To         string
	Subject    string
	HTMLBody   string
	Attachment *email.Attachment
}

// Dispatcher accepts notification tasks without blocking the caller.
type Dispatcher interface {
	Enqueue(task Task)
}

// Notifier runs a single worker draining a buffered task queue into the
// email sender. Send failures are logged and dropped; the records the
// notifications describe are already authoritative.
type Notifier struct {
	sender      email.Sender
	log         logger.Logger
	tasks       chan Task
	sendTimeout time.Duration
	done        chan struct{}
	wg          sync.WaitGroup
}

func New(sender email.Sender, log logger.Logger, queueSize int, sendTimeout time.Duration) *Notifier {
	if queueSize <= 0 {
		queueSize = 64
	}
	if sendTimeout <= 0 {
		sendTimeout = 30 * time.Second
	}
	return &Notifier{
		sender:      sender,
		log:         log,
		tasks:       make(chan Task, queueSize),
		sendTimeout: sendTimeout,
		done:        make(chan struct{}),
	}
}

func (n *Notifier) Start() {
	n.wg.Add(1)
	go n.run()
}

func (n *Notifier) run() {
	defer n.wg.Done()
	for {
		select {
		case <-n.done:
			// Drain what is already queued before exiting.
			for {
				select {
				case task := <-n.tasks:
					n.deliver(task)
				default:
					return
				}
			}
		case task := <-n.tasks:
			n.deliver(task)
		}
	}
}

func (n *Notifier) deliver(task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), n.sendTimeout)
	defer cancel()

	if err := n.sender.Send(ctx, task.To, task.Subject, task.HTMLBody, task.Attachment); err != nil {
		n.log.Errorf("Notification to %s (subject: %s) failed: %v", task.To, task.Subject, err)
	}
}

// Enqueue hands a task to the worker. When the queue is saturated the task
// is dropped with a warning rather than stalling the request path.
func (n *Notifier) Enqueue(task Task) {
	select {
	case n.tasks <- task:
	default:
		n.log.Warnf("Notification queue full, dropping message to %s (subject: %s)", task.To, task.Subject)
	}
}

// Stop waits for queued tasks to drain, up to the context deadline.
func (n *Notifier) Stop(ctx context.Context) error {
	close(n.done)

	finished := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(finished)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-finished:
		return nil
	}
}
