package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/inamate/composer/internal/document"
	"github.com/inamate/composer/internal/engine"
	"github.com/inamate/composer/internal/geom"
	"github.com/inamate/composer/internal/interact"
	"github.com/inamate/composer/internal/ops"
)

var ErrClosed = errors.New("session closed")

// Session is one editing session: an engine and its gesture controller,
// owned by a single goroutine. Everything that touches them goes through
// Do.
type Session struct {
	ID string

	eng     *engine.Engine
	ctrl    *interact.Controller
	catalog *document.Catalog

	ops  chan func()
	quit chan struct{}
	once sync.Once

	mu         sync.RWMutex
	clients    map[string]*Client // clientID -> client
	lastActive time.Time
}

func newSession(id string, catalog *document.Catalog, opts ...engine.Option) *Session {
	s := &Session{
		ID:         id,
		eng:        engine.New(opts...),
		catalog:    catalog,
		ops:        make(chan func()),
		quit:       make(chan struct{}),
		clients:    make(map[string]*Client),
		lastActive: time.Now(),
	}
	s.ctrl = interact.New(s.eng, interact.WithGuideListener(s.broadcastGuides))
	return s
}

// Run executes submitted closures one at a time until Close is called.
func (s *Session) Run() {
	for {
		select {
		case fn := <-s.ops:
			fn()
		case <-s.quit:
			return
		}
	}
}

// Close stops the session goroutine. Pending and later Do calls return
// ErrClosed.
func (s *Session) Close() {
	s.once.Do(func() { close(s.quit) })
}

// Do runs fn on the session goroutine and waits for it to finish.
func (s *Session) Do(ctx context.Context, fn func(*engine.Engine, *interact.Controller)) error {
	done := make(chan struct{})
	op := func() {
		defer close(done)
		fn(s.eng, s.ctrl)
	}

	select {
	case s.ops <- op:
	case <-s.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	s.touch()
	// Once accepted, the closure runs to completion.
	<-done
	return nil
}

// Snapshot returns a copy of the current document.
func (s *Session) Snapshot(ctx context.Context) (document.Document, error) {
	var doc document.Document
	err := s.Do(ctx, func(eng *engine.Engine, _ *interact.Controller) {
		doc = eng.Document()
	})
	return doc, err
}

// Apply runs one operation and broadcasts the resulting document.
func (s *Session) Apply(ctx context.Context, op ops.Operation) (OperationAckPayload, error) {
	var (
		ack    OperationAckPayload
		opErr  error
		result string
	)
	err := s.Do(ctx, func(eng *engine.Engine, _ *interact.Controller) {
		result, opErr = ops.Apply(eng, s.catalog, op)
		if opErr != nil {
			return
		}
		ack = OperationAckPayload{OperationID: op.ID, ElementID: result, HistoryIndex: eng.HistoryIndex()}
		s.broadcast(s.syncMessage())
	})
	if err != nil {
		return ack, err
	}
	return ack, opErr
}

// Pointer feeds one pointer event to the gesture controller.
func (s *Session) Pointer(ctx context.Context, msgType string, ev interact.PointerEvent) error {
	return s.Do(ctx, func(eng *engine.Engine, ctrl *interact.Controller) {
		var changed bool
		switch msgType {
		case TypePointerDown:
			before := eng.SelectedID()
			changed = ctrl.Press(ev) || before != eng.SelectedID()
		case TypePointerMove:
			changed = ctrl.Move(ev)
		case TypePointerUp:
			changed = ctrl.State() != interact.Idle
			ctrl.Release(ev)
		}
		if changed {
			s.broadcast(s.syncMessage())
		}
	})
}

// State returns the document together with its history position.
func (s *Session) State(ctx context.Context) (DocSyncPayload, error) {
	var state DocSyncPayload
	err := s.Do(ctx, func(*engine.Engine, *interact.Controller) {
		state = s.syncPayload()
	})
	return state, err
}

// syncPayload and syncMessage must run on the session goroutine.
func (s *Session) syncPayload() DocSyncPayload {
	return DocSyncPayload{
		Document:     s.eng.Document(),
		HistoryIndex: s.eng.HistoryIndex(),
		HistoryLen:   s.eng.HistoryLen(),
		CanUndo:      s.eng.CanUndo(),
		CanRedo:      s.eng.CanRedo(),
		LastAction:   s.eng.LastAction(),
		Gesture:      s.ctrl.State().String(),
	}
}

func (s *Session) syncMessage() *Message {
	return newMessage(TypeDocSync, s.ID, s.syncPayload())
}

func (s *Session) broadcastGuides(guides []geom.Guide) {
	if guides == nil {
		guides = []geom.Guide{}
	}
	s.broadcast(newMessage(TypeGuides, s.ID, GuidesPayload{Guides: guides}))
}

func (s *Session) broadcast(msg *Message) {
	s.mu.RLock()
	clients := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

func (s *Session) addClient(c *Client) {
	s.mu.Lock()
	s.clients[c.ClientID] = c
	s.lastActive = time.Now()
	s.mu.Unlock()
}

func (s *Session) removeClient(c *Client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c.ClientID]; !ok {
		return false
	}
	delete(s.clients, c.ClientID)
	s.lastActive = time.Now()
	return true
}

// ClientCount returns the number of connected clients.
func (s *Session) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

// idleSince reports whether the session has no clients and has seen no
// activity since before t.
func (s *Session) idleSince(t time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients) == 0 && s.lastActive.Before(t)
}
