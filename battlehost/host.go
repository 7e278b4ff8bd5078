package battlehost

import (
	"sync"

	"go.uber.org/zap"

	"github.com/battlecore/engine/battleerr"
	"github.com/battlecore/engine/datastore"
)

// Host runs any number of battles concurrently, one goroutine per
// battle, talking to each over a ControlChannel per player and a
// shared LogBroadcaster (spec.md §5's multi-threaded cooperative
// envelope). It never touches a Session from more than one goroutine
// at a time, so Session itself carries no locking of its own. A
// session stays registered (and its Session still answers PlayerData/
// NewLogEntries directly) after its battle goroutine exits, whether
// from a natural end or EndSession — Host never prunes its own
// registry, leaving that to whatever process owns the Host.
type Host struct {
	mu       sync.Mutex
	log      *zap.Logger
	store    datastore.DataStore
	sessions map[string]*hostedSession
}

type hostedSession struct {
	session   *Session
	control   map[string]*ControlChannel
	broadcast *LogBroadcaster
	notify    chan struct{}
	cancel    chan struct{}
	done      chan struct{}
}

// NewHost creates a Host whose sessions resolve content against store.
// logger may be nil, in which case diagnostics are discarded.
func NewHost(store datastore.DataStore, logger *zap.Logger) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host{
		log:      logger,
		store:    store,
		sessions: make(map[string]*hostedSession),
	}
}

// StartSession builds a Session from opts, starts it, and launches its
// battle goroutine. The returned Session's own NewLogEntries carries
// the initial switch-in lines Start produced — call it once, directly,
// before relying on Subscribe for everything after: a Subscription
// only ever sees entries published once the caller has subscribed, so
// it can never retroactively deliver what Start already logged.
func (h *Host) StartSession(opts Options, controlBuffer, logBuffer int) (*Session, error) {
	sess, err := NewSession(opts, h.store, h.log)
	if err != nil {
		return nil, err
	}
	if err := sess.Start(); err != nil {
		return nil, err
	}

	hs := &hostedSession{
		session:   sess,
		control:   make(map[string]*ControlChannel),
		broadcast: NewLogBroadcaster(logBuffer),
		notify:    make(chan struct{}, 1),
		cancel:    make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, playerID := range sess.PlayerIDs() {
		hs.control[playerID] = NewControlChannel(controlBuffer)
	}

	h.mu.Lock()
	h.sessions[sess.ID] = hs
	h.mu.Unlock()

	go h.runLoop(hs)
	return sess, nil
}

// Submit enqueues a player's choice string on its control channel for
// the battle goroutine to pick up, waking the loop if it is idle.
func (h *Host) Submit(sessionID, playerID, choice string) error {
	hs, err := h.lookup(sessionID)
	if err != nil {
		return err
	}
	cc, ok := hs.control[playerID]
	if !ok {
		return battleerr.NotFound("player", playerID)
	}
	if !cc.Send(choice) {
		return battleerr.InvalidArgument("control channel full; host is not keeping up")
	}
	h.wake(hs)
	return nil
}

// Subscribe returns a live Subscription to sessionID's broadcast log.
func (h *Host) Subscribe(sessionID string) (*Subscription, error) {
	hs, err := h.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return hs.broadcast.Subscribe(), nil
}

// EndSession implements spec.md §5's `end_session(realm, id)` control
// message: the battle goroutine finishes whatever action is already in
// progress, then exits without accepting any further choices. realm is
// accepted for signature fidelity with the spec's two-part session
// address; this Host keeps one flat id namespace, so realm is only
// threaded through into diagnostics. A host that needs true realm
// partitioning would key its own session registry by (realm, id)
// instead.
func (h *Host) EndSession(realm, id string) error {
	hs, err := h.lookup(id)
	if err != nil {
		return err
	}
	h.log.Info("ending session", zap.String("realm", realm), zap.String("session_id", id))
	close(hs.cancel)
	return nil
}

// Wait blocks until sessionID's battle goroutine has exited, either
// because the battle ended or EndSession was called.
func (h *Host) Wait(sessionID string) error {
	hs, err := h.lookup(sessionID)
	if err != nil {
		return err
	}
	<-hs.done
	return nil
}

func (h *Host) lookup(sessionID string) (*hostedSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	hs, ok := h.sessions[sessionID]
	if !ok {
		return nil, battleerr.NotFound("session", sessionID)
	}
	return hs, nil
}

func (h *Host) wake(hs *hostedSession) {
	select {
	case hs.notify <- struct{}{}:
	default:
	}
}

// runLoop is the one goroutine that ever touches hs.session. It blocks
// on either cancellation or a wake-up from Submit, applies whatever
// choices have queued, advances the battle as far as AutoContinue
// allows, and republishes the resulting log delta — spec.md §5's
// "suspension only at set_player_choice/continue_battle boundaries",
// expressed as a goroutine parked on a channel receive instead of a
// busy poll. It returns once any player's control channel is found
// closed, after that pass's choices have been applied.
func (h *Host) runLoop(hs *hostedSession) {
	defer close(hs.done)
	defer hs.broadcast.Close()

	for {
		select {
		case <-hs.cancel:
			return
		case <-hs.notify:
		}

		if h.pump(hs) || hs.session.ended {
			return
		}
	}
}

// pump applies every queued choice, advances the battle, and reports
// whether any player's control channel was closed.
func (h *Host) pump(hs *hostedSession) bool {
	anyClosed := false
	for playerID, cc := range hs.control {
		choices, closed := cc.Drain()
		for _, choice := range choices {
			if err := hs.session.SetPlayerChoice(playerID, choice); err != nil {
				h.log.Warn("choice rejected",
					zap.String("session_id", hs.session.ID),
					zap.String("player_id", playerID),
					zap.Error(err))
			}
		}
		if closed {
			anyClosed = true
			h.log.Info("player control channel closed", zap.String("session_id", hs.session.ID), zap.String("player_id", playerID))
		}
	}

	var advanced bool
	if hs.session.opts.AutoContinue {
		results, err := hs.session.AutoContinue()
		if err != nil {
			h.log.Error("turn execution failed", zap.String("session_id", hs.session.ID), zap.Error(err))
		}
		advanced = len(results) > 0
	} else {
		result, err := hs.session.ContinueBattle()
		if err != nil {
			h.log.Error("turn execution failed", zap.String("session_id", hs.session.ID), zap.Error(err))
		}
		advanced = result != nil
	}
	if advanced {
		for _, e := range hs.session.NewLogEntries() {
			hs.broadcast.Publish(e)
		}
	}
	return anyClosed
}
