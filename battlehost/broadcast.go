package battlehost

import (
	"context"
	"sync"

	"github.com/battlecore/engine/battleerr"
	"github.com/battlecore/engine/battlelog"
)

// LogBroadcaster fans a battle's log out to any number of subscribers
// (spec.md §5: "observers read the append-only log via a broadcast
// channel that buffers up to N entries and drops oldest on overflow.
// A subscriber that falls behind is notified via a Lagged signal and
// may resubscribe from the current tail"). No pack example ships a
// broadcast-with-drop-oldest primitive — built directly on buffered
// channels plus a mutex-guarded subscriber set, the same
// mutex-protects-a-listener-collection shape events.Bus uses for its
// handler list, generalized from a handler-call fan-out to a
// channel-send fan-out (see DESIGN.md).
type LogBroadcaster struct {
	mu          sync.Mutex
	buffer      int
	subscribers map[*subscriber]struct{}
}

type subscriber struct {
	ch      chan battlelog.Entry
	lagged  bool
	dropped int
}

// NewLogBroadcaster creates a broadcaster whose subscriber channels
// each buffer up to buffer entries before dropping the oldest.
func NewLogBroadcaster(buffer int) *LogBroadcaster {
	if buffer <= 0 {
		buffer = 1
	}
	return &LogBroadcaster{buffer: buffer, subscribers: make(map[*subscriber]struct{})}
}

// Subscription is a live handle into a LogBroadcaster.
type Subscription struct {
	b *LogBroadcaster
	s *subscriber
}

// Subscribe registers a new subscriber starting from the current
// tail — it never receives entries published before this call.
func (b *LogBroadcaster) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := &subscriber{ch: make(chan battlelog.Entry, b.buffer)}
	b.subscribers[s] = struct{}{}
	return &Subscription{b: b, s: s}
}

// Unsubscribe removes the subscription from its broadcaster.
func (sub *Subscription) Unsubscribe() {
	sub.b.mu.Lock()
	defer sub.b.mu.Unlock()
	delete(sub.b.subscribers, sub.s)
}

// Receive blocks until an entry arrives or ctx is cancelled. It
// reports a battleerr.ChannelLagged error exactly once per gap a
// subscriber fell behind, naming how many entries were dropped; the
// caller is expected to resubscribe (or just keep reading — the
// channel itself is still live, only some history was lost).
func (sub *Subscription) Receive(ctx context.Context) (battlelog.Entry, error) {
	sub.b.mu.Lock()
	if sub.s.lagged {
		missed := sub.s.dropped
		sub.s.lagged = false
		sub.s.dropped = 0
		sub.b.mu.Unlock()
		return battlelog.Entry{}, battleerr.ChannelLagged(missed)
	}
	sub.b.mu.Unlock()

	select {
	case e, ok := <-sub.s.ch:
		if !ok {
			return battlelog.Entry{}, battleerr.InvalidArgument("subscription closed")
		}
		return e, nil
	case <-ctx.Done():
		return battlelog.Entry{}, ctx.Err()
	}
}

// Publish fans entry out to every live subscriber, dropping the oldest
// buffered entry and marking the subscriber lagged if its channel is
// already full (spec.md §5's "drops oldest on overflow").
func (b *LogBroadcaster) Publish(entry battlelog.Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for s := range b.subscribers {
		select {
		case s.ch <- entry:
		default:
			select {
			case <-s.ch:
				s.dropped++
			default:
			}
			s.lagged = true
			select {
			case s.ch <- entry:
			default:
			}
		}
	}
}

// Close shuts down every live subscriber channel. A Subscription's
// Receive returns an error instead of blocking forever once this has
// run — the outbound-side analogue of the inbound ControlChannel
// cancellation spec.md §5 describes.
func (b *LogBroadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for s := range b.subscribers {
		close(s.ch)
	}
	b.subscribers = make(map[*subscriber]struct{})
}
