package sms

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrQueueStopped is returned for templates offered to, or still buffered in, a stopped queue
var ErrQueueStopped = errors.New("sms queue stopped")

// Queue sends templates in the background through a Client
type Queue struct {
	queue  chan *Template
	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
	ctx    context.Context
	cancel context.CancelFunc
	client *Client
	logger logrus.FieldLogger

	// mu guards stopped and onError. Enqueuers hold it shared so Stop can
	// wait for them before draining the buffer.
	mu      sync.RWMutex
	stopped bool
	onError func(*Template, error)
}

func NewQueue(client *Client, bufferSize int) *Queue {
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		queue:  make(chan *Template, bufferSize),
		stopCh: make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
		client: client,
		logger: client.logger,
	}
}

// OnError sets a callback invoked for every template that failed to send,
// including templates dropped by Stop.
func (q *Queue) OnError(fn func(*Template, error)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.onError = fn
}

// Enqueue queues a template for sending. It blocks while the buffer is full
// and returns ErrQueueStopped once Stop has been called.
func (q *Queue) Enqueue(tpl *Template) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.isStopping() {
		return ErrQueueStopped
	}
	select {
	case q.queue <- tpl:
		return nil
	case <-q.stopCh:
		return ErrQueueStopped
	}
}

// TryEnqueue queues a template unless the buffer is full or the queue is stopped
func (q *Queue) TryEnqueue(tpl *Template) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.isStopping() {
		return false
	}
	select {
	case q.queue <- tpl:
		return true
	default:
		return false
	}
}

func (q *Queue) isStopping() bool {
	if q.stopped {
		return true
	}
	select {
	case <-q.stopCh:
		return true
	default:
		return false
	}
}

// Start begins processing the queue
func (q *Queue) Start() {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case tpl := <-q.queue:
				if tpl == nil {
					continue
				}
				if err := q.client.Send(q.ctx, tpl); err != nil {
					q.logger.WithError(err).
						WithField("recipients", maskPhones(tpl.PhoneNumbers)).
						Error("failed to send queued sms")
					q.reportError(tpl, err)
				}
			case <-q.stopCh:
				return
			}
		}
	}()
}

// Stop cancels an in-flight send, waits for the worker and hands templates
// still buffered to the OnError callback. Calling it again is a no-op.
func (q *Queue) Stop() {
	q.once.Do(func() {
		close(q.stopCh)

		q.mu.Lock()
		q.stopped = true
		q.mu.Unlock()

		q.cancel()
		q.wg.Wait()

		for {
			select {
			case tpl := <-q.queue:
				if tpl == nil {
					continue
				}
				q.logger.WithField("recipients", maskPhones(tpl.PhoneNumbers)).
					Warn("dropping queued sms on stop")
				q.reportError(tpl, ErrQueueStopped)
			default:
				return
			}
		}
	})
}

func (q *Queue) reportError(tpl *Template, err error) {
	q.mu.RLock()
	fn := q.onError
	q.mu.RUnlock()
	if fn != nil {
		fn(tpl, err)
	}
}
