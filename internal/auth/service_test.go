package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService("test-secret")
	token, err := svc.IssueSessionToken("sess_123")
	require.NoError(t, err)

	id, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sess_123", id)
}

func TestValidateTokenRejects(t *testing.T) {
	svc := NewService("test-secret")
	token, err := svc.IssueSessionToken("sess_123")
	require.NoError(t, err)

	_, err = NewService("other-secret").ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	svc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionMiddleware(t *testing.T) {
	svc := NewService("test-secret")
	token, err := svc.IssueSessionToken("sess_a")
	require.NoError(t, err)

	r := mux.NewRouter()
	r.Handle("/api/sessions/{sessionId}", svc.SessionMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(SessionIDFromContext(r.Context())))
	})))

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"ok", "/api/sessions/sess_a", "Bearer " + token, http.StatusOK},
		{"missing", "/api/sessions/sess_a", "", http.StatusUnauthorized},
		{"bad format", "/api/sessions/sess_a", "Token " + token, http.StatusUnauthorized},
		{"bad token", "/api/sessions/sess_a", "Bearer nope", http.StatusUnauthorized},
		{"other session", "/api/sessions/sess_b", "Bearer " + token, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "sess_a", rec.Body.String())
			}
		})
	}
}
