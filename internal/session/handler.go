package session

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/composer/internal/auth"
)

type Handler struct {
	hub            *Hub
	auth           *auth.Service
	originPatterns []string
}

func NewHandler(hub *Hub, authSvc *auth.Service, originPatterns []string) *Handler {
	return &Handler{hub: hub, auth: authSvc, originPatterns: originPatterns}
}

type createResponse struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
}

// Create starts a session and returns a token for it.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.hub.Create()

	token, err := h.auth.IssueSessionToken(s.ID)
	if err != nil {
		slog.Error("issue session token", "error", err, "session", s.ID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, createResponse{SessionID: s.ID, Token: token})
}

// Document returns the session's current document with its history state.
func (h *Handler) Document(w http.ResponseWriter, r *http.Request) {
	s, err := h.hub.Get(auth.SessionIDFromContext(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	payload, err := s.State(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "session unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, payload)
}

// ServeWS upgrades the request and attaches the connection to the
// session. The token comes from the query string since browsers cannot
// set headers on websocket requests.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	tokenSession, err := h.auth.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if tokenSession != sessionID {
		http.Error(w, "token is for another session", http.StatusForbidden)
		return
	}

	s, err := h.hub.Get(sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(h.hub, s, conn, uuid.New().String())
	if !h.hub.Register(client) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
