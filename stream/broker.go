// ABOUTME: Per-run event channel: fan-out broker with buffered subscriber queues,
// ABOUTME: heartbeats on idle intervals, and a terminal stream_end per subscriber.
package stream

import (
	"context"
	"sync"
	"time"

	"github.com/2389-research/qaforge/runner"
)

const (
	// DefaultHeartbeatInterval is how long a stream may idle before a
	// synthetic heartbeat is emitted.
	DefaultHeartbeatInterval = 1 * time.Second
	// DefaultQueueSize bounds each subscriber's pending event queue.
	DefaultQueueSize = 256
)

// Options configures a Broker. Zero values take the defaults above.
type Options struct {
	HeartbeatInterval time.Duration
	QueueSize         int
}

// Broker routes run events to any number of concurrent subscribers. It
// implements runner.Publisher. Publishing never blocks: a saturated
// subscriber queue drops its oldest non-terminal event instead.
type Broker struct {
	mu        sync.Mutex
	topics    map[string]*topic
	heartbeat time.Duration
	queueSize int
}

type topic struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscriber
	done   bool
}

type subscriber struct {
	mu     sync.Mutex
	queue  []runner.Event
	notify chan struct{}
}

// NewBroker creates a broker.
func NewBroker(opts Options) *Broker {
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	return &Broker{
		topics:    make(map[string]*topic),
		heartbeat: opts.HeartbeatInterval,
		queueSize: opts.QueueSize,
	}
}

// Open registers a run so subscribers can attach before events flow.
// Opening an already-open run is a no-op.
func (b *Broker) Open(runID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.topics[runID]; !ok {
		b.topics[runID] = &topic{subs: make(map[int]*subscriber)}
	}
}

// Publish delivers an event to every subscriber of the run. Events for
// unknown or already-ended runs are dropped. A stream_end event tears the
// run's topic down after delivery.
func (b *Broker) Publish(runID string, ev runner.Event) {
	b.mu.Lock()
	tp, ok := b.topics[runID]
	b.mu.Unlock()
	if !ok {
		return
	}

	tp.mu.Lock()
	if tp.done {
		tp.mu.Unlock()
		return
	}
	if ev.Type == runner.EventStreamEnd {
		tp.done = true
	}
	subs := make([]*subscriber, 0, len(tp.subs))
	for _, s := range tp.subs {
		subs = append(subs, s)
	}
	tp.mu.Unlock()

	for _, s := range subs {
		s.enqueue(ev, b.queueSize)
	}

	if ev.Type == runner.EventStreamEnd {
		b.mu.Lock()
		delete(b.topics, runID)
		b.mu.Unlock()
	}
}

// enqueue appends an event, dropping the oldest non-terminal event when the
// queue is saturated. Terminal events are never dropped.
func (s *subscriber) enqueue(ev runner.Event, max int) {
	s.mu.Lock()
	if len(s.queue) >= max {
		for i, queued := range s.queue {
			if !queued.Terminal() {
				s.queue = append(s.queue[:i], s.queue[i+1:]...)
				break
			}
		}
	}
	s.queue = append(s.queue, ev)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *subscriber) pop() (runner.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return runner.Event{}, false
	}
	ev := s.queue[0]
	s.queue = s.queue[1:]
	return ev, true
}

// Subscribe attaches to a run's event stream. The returned channel delivers
// a synthetic connected event, live events from this point on, heartbeats
// while idle, and closes after stream_end. Subscribing to an unknown run
// yields exactly one error event before the channel closes.
func (b *Broker) Subscribe(ctx context.Context, runID string) <-chan runner.Event {
	out := make(chan runner.Event)

	b.mu.Lock()
	tp, ok := b.topics[runID]
	b.mu.Unlock()

	// The done check and the registration must share one critical section:
	// a stream_end delivered between them would strand the subscriber on a
	// torn-down topic with a channel that never closes.
	var sub *subscriber
	var id int
	if ok {
		tp.mu.Lock()
		if tp.done {
			ok = false
		} else {
			sub = &subscriber{notify: make(chan struct{}, 1)}
			id = tp.nextID
			tp.nextID++
			tp.subs[id] = sub
		}
		tp.mu.Unlock()
	}
	if !ok {
		go func() {
			defer close(out)
			ev := runner.NewEvent(runner.EventError, runID)
			ev.Message = "unknown run id"
			select {
			case out <- ev:
			case <-ctx.Done():
			}
		}()
		return out
	}

	go b.pump(ctx, runID, tp, id, sub, out)
	return out
}

// pump moves events from a subscriber queue to its channel, injecting
// heartbeats when the stream idles past the heartbeat interval.
func (b *Broker) pump(ctx context.Context, runID string, tp *topic, id int, sub *subscriber, out chan<- runner.Event) {
	defer func() {
		tp.mu.Lock()
		delete(tp.subs, id)
		tp.mu.Unlock()
		close(out)
	}()

	connected := runner.NewEvent(runner.EventConnected, runID)
	connected.Message = "subscribed to run events"
	if !send(ctx, out, connected) {
		return
	}

	for {
		for {
			ev, ok := sub.pop()
			if !ok {
				break
			}
			if !send(ctx, out, ev) {
				return
			}
			if ev.Type == runner.EventStreamEnd {
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-sub.notify:
		case <-time.After(b.heartbeat):
			hb := runner.NewEvent(runner.EventHeartbeat, runID)
			if !send(ctx, out, hb) {
				return
			}
		}
	}
}

func send(ctx context.Context, out chan<- runner.Event, ev runner.Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
