package job

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rosterd/rosterd/internal/domain/model"
)

// ErrWaiterRequired indicates a notifier cannot be constructed without a waiter.
var ErrWaiterRequired = errors.New("notifier waiter is required")

// Waiter blocks until a job of the given type may be available. The data
// layer implements it on top of Postgres LISTEN/NOTIFY.
type Waiter interface {
	WaitForNotification(ctx context.Context, jobType model.JobType) error
}

// Notifier fans job availability wakeups out to in-process subscribers so
// that many workers can share one database listener per job type.
type Notifier interface {
	Subscribe(jobType model.JobType) (func(), <-chan struct{})
	StopAll()
}

// NotifierOptions configure the fanout notifier.
type NotifierOptions struct {
	// Waiter is the blocking notification source. Required.
	Waiter Waiter

	// WaitWindow bounds a single wait. Subscribers are woken when it
	// elapses even if no notification arrived, which turns the notifier
	// into a slow poll whenever a NOTIFY is missed. Defaults to one minute.
	WaitWindow time.Duration

	// Backoff is the pause after a failed wait before listening again.
	// Defaults to 250ms.
	Backoff time.Duration
}

// FanoutNotifier multiplexes one Waiter onto any number of subscribers. It
// starts a listener goroutine per subscribed job type and stops it when the
// last subscriber for that type unsubscribes.
type FanoutNotifier struct {
	waiter     Waiter
	waitWindow time.Duration
	backoff    time.Duration

	mu        sync.Mutex
	subs      map[model.JobType]map[chan struct{}]struct{}
	listeners map[model.JobType]context.CancelFunc
}

var _ Notifier = (*FanoutNotifier)(nil)

// NewNotifier constructs a FanoutNotifier around the given waiter.
func NewNotifier(opts NotifierOptions) (*FanoutNotifier, error) {
	if opts.Waiter == nil {
		return nil, ErrWaiterRequired
	}

	waitWindow := opts.WaitWindow
	if waitWindow <= 0 {
		waitWindow = time.Minute
	}

	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = 250 * time.Millisecond
	}

	return &FanoutNotifier{
		waiter:     opts.Waiter,
		waitWindow: waitWindow,
		backoff:    backoff,
		subs:       make(map[model.JobType]map[chan struct{}]struct{}),
		listeners:  make(map[model.JobType]context.CancelFunc),
	}, nil
}

// Subscribe registers interest in wakeups for jobType. The returned channel
// carries at most one pending wakeup; the returned func unsubscribes and
// closes it.
func (n *FanoutNotifier) Subscribe(jobType model.JobType) (func(), <-chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.ensureListener(jobType)

	ch := make(chan struct{}, 1)
	if n.subs[jobType] == nil {
		n.subs[jobType] = make(map[chan struct{}]struct{})
	}
	n.subs[jobType][ch] = struct{}{}

	unsub := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		subscribers := n.subs[jobType]
		if _, ok := subscribers[ch]; !ok {
			return
		}
		delete(subscribers, ch)
		drainClose(ch)
		if len(subscribers) == 0 {
			n.dropListener(jobType)
			delete(n.subs, jobType)
		}
	}

	return unsub, ch
}

// StopAll cancels every listener and closes every subscriber channel.
func (n *FanoutNotifier) StopAll() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for jobType, cancel := range n.listeners {
		cancel()
		delete(n.listeners, jobType)
	}
	for jobType, subscribers := range n.subs {
		for ch := range subscribers {
			drainClose(ch)
		}
		delete(n.subs, jobType)
	}
}

// ensureListener starts the listener goroutine for jobType if none is
// running. Callers must hold n.mu.
func (n *FanoutNotifier) ensureListener(jobType model.JobType) {
	if _, ok := n.listeners[jobType]; ok {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	n.listeners[jobType] = cancel
	go n.listen(ctx, jobType)
}

// dropListener cancels the listener goroutine for jobType. Callers must
// hold n.mu.
func (n *FanoutNotifier) dropListener(jobType model.JobType) {
	cancel, ok := n.listeners[jobType]
	if !ok {
		return
	}
	cancel()
	delete(n.listeners, jobType)
}

func (n *FanoutNotifier) listen(ctx context.Context, jobType model.JobType) {
	for ctx.Err() == nil {
		waitCtx, cancel := context.WithTimeout(ctx, n.waitWindow)
		err := n.waiter.WaitForNotification(waitCtx, jobType)
		cancel()

		// Broadcast on every wake, expiry and error included. Subscribers
		// rescan the queue at least once per wait window, so a NOTIFY lost
		// between their reserve attempt and our LISTEN only delays them.
		n.broadcast(jobType)

		if err != nil && ctx.Err() == nil {
			timer := time.NewTimer(n.backoff)
			select {
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				return
			case <-timer.C:
			}
		}
	}
}

func (n *FanoutNotifier) broadcast(jobType model.JobType) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for ch := range n.subs[jobType] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// drainClose removes any buffered wakeup before closing the channel so
// receivers observe a closed channel immediately.
func drainClose(ch chan struct{}) {
	for {
		select {
		case <-ch:
		default:
			close(ch)
			return
		}
	}
}
