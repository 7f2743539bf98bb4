package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/composer/internal/document"
	"github.com/inamate/composer/internal/engine"
	"github.com/inamate/composer/internal/interact"
	"github.com/inamate/composer/internal/typeid"
)

var ErrSessionNotFound = errors.New("session not found")

const maxReapInterval = time.Minute

// Hub keeps every live session and the websocket clients attached to them.
type Hub struct {
	mu         sync.RWMutex
	sessions   map[string]*Session // sessionID -> session
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	catalog     *document.Catalog
	idleTimeout time.Duration
}

func NewHub(catalog *document.Catalog, idleTimeout time.Duration) *Hub {
	return &Hub{
		sessions:    make(map[string]*Session),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		done:        make(chan struct{}),
		catalog:     catalog,
		idleTimeout: idleTimeout,
	}
}

// Run serves client (un)registration and drops idle sessions until ctx
// is done, then closes every session.
func (h *Hub) Run(ctx context.Context) {
	interval := maxReapInterval
	if h.idleTimeout > 0 && h.idleTimeout < interval {
		interval = h.idleTimeout
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case now := <-ticker.C:
			h.reap(now)
		case <-ctx.Done():
			close(h.done)
			h.Stop()
			return
		}
	}
}

// Create starts a new session with an empty document.
func (h *Hub) Create(opts ...engine.Option) *Session {
	s := newSession(typeid.NewSessionID(), h.catalog, opts...)
	go s.Run()

	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()

	slog.Info("session created", "session", s.ID)
	return s
}

func (h *Hub) Get(id string) (*Session, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Snapshot returns the current document of a session.
func (h *Hub) Snapshot(ctx context.Context, id string) (document.Document, error) {
	s, err := h.Get(id)
	if err != nil {
		return document.Document{}, err
	}
	return s.Snapshot(ctx)
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Register attaches a client to its session. It returns false once the
// hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		client.close()
	}
}

// Stop closes every session.
func (h *Hub) Stop() {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*Session)
	h.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

func (h *Hub) addClient(client *Client) {
	s := client.session
	s.addClient(client)

	client.Send(newMessage(TypeWelcome, s.ID, WelcomePayload{
		SessionID: s.ID,
		ClientID:  client.ClientID,
	}))

	// The initial doc.sync waits on the session goroutine; keep it off
	// the hub loop.
	go func() {
		err := s.Do(context.Background(), func(*engine.Engine, *interact.Controller) {
			client.Send(s.syncMessage())
		})
		if err != nil {
			client.Send(newMessage(TypeError, s.ID, ErrorPayload{Message: err.Error()}))
		}
	}()

	slog.Info("client joined", "client", client.ClientID, "session", s.ID)
}

func (h *Hub) removeClient(client *Client) {
	if client.session.removeClient(client) {
		client.close()
		slog.Info("client left", "client", client.ClientID, "session", client.SessionID)
	}
}

// reap closes sessions that have had no clients and no activity for
// longer than the idle timeout.
func (h *Hub) reap(now time.Time) {
	if h.idleTimeout <= 0 {
		return
	}
	cutoff := now.Add(-h.idleTimeout)

	h.mu.Lock()
	var idle []*Session
	for id, s := range h.sessions {
		if s.idleSince(cutoff) {
			idle = append(idle, s)
			delete(h.sessions, id)
		}
	}
	h.mu.Unlock()

	for _, s := range idle {
		s.Close()
		slog.Info("session expired", "session", s.ID)
	}
}
