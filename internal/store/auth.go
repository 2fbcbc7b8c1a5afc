package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/taskdeck/taskdeck/internal/observability"
	"github.com/taskdeck/taskdeck/internal/storage"
	"github.com/taskdeck/taskdeck/pkg/models"
)

// AuthStore owns the current session. Login, Register, and Initialize move
// it between the anonymous and authenticated states; Logout always returns
// it to anonymous. Failures are returned to the caller for inline display.
type AuthStore interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, username, email, password string) error
	Logout()
	Initialize(ctx context.Context)
	Session() models.Session
}

type authStore struct {
	api     authAPI
	storage storage.SessionStorage
	events  observability.EventLog

	mu      sync.Mutex
	session models.Session
}

// NewAuthStore creates an AuthStore starting in the anonymous state. The
// persisted session, if any, is only adopted by Initialize after the token
// has been validated against the server. events may be nil.
func NewAuthStore(apiClient authAPI, sessionStorage storage.SessionStorage, events observability.EventLog) AuthStore {
	return &authStore{
		api:     apiClient,
		storage: sessionStorage,
		events:  events,
		session: models.Session{IsLoading: true},
	}
}

// Session returns a copy of the current session state.
func (s *authStore) Session() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.session
	if session.User != nil {
		user := *session.User
		session.User = &user
	}
	return session
}

// Login authenticates with the backend. On success the session becomes
// authenticated and is persisted; on failure the session is cleared to
// anonymous and the error is returned for the caller to display.
func (s *authStore) Login(ctx context.Context, email, password string) error {
	s.setLoading(true)

	data, err := s.api.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		s.clearSession()
		observability.Emit(s.events, "auth.login_failed", errorMessage(err), nil)
		return err
	}

	return s.adoptSession(data, "auth.login")
}

// Register creates a new identity server-side; same state transitions as Login.
func (s *authStore) Register(ctx context.Context, username, email, password string) error {
	s.setLoading(true)

	data, err := s.api.Register(ctx, models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		s.clearSession()
		observability.Emit(s.events, "auth.register_failed", errorMessage(err), nil)
		return err
	}

	return s.adoptSession(data, "auth.register")
}

// Logout clears the in-memory session and durable storage. It always
// succeeds: a failed storage removal still leaves the process anonymous.
func (s *authStore) Logout() {
	s.clearSession()
	observability.Emit(s.events, "auth.logout", "session cleared", nil)
}

// Initialize validates a persisted token against the server once at process
// start. A valid token keeps the session authenticated with a freshly
// fetched identity; anything else degrades to anonymous. It never fails.
func (s *authStore) Initialize(ctx context.Context) {
	s.setLoading(true)

	snap, err := s.storage.Load()
	if err != nil || snap.Token == "" {
		s.mu.Lock()
		s.session = models.Session{}
		s.mu.Unlock()
		return
	}

	// Profile reads the token from durable storage through the client's
	// token source, so this call exercises the persisted token directly.
	user, err := s.api.Profile(ctx)
	if err != nil {
		s.clearSession()
		observability.Emit(s.events, "auth.validate_failed", errorMessage(err), nil)
		return
	}

	s.mu.Lock()
	s.session = models.Session{User: user, Token: snap.Token, IsAuthenticated: true}
	s.mu.Unlock()
	s.persist()
	observability.Emit(s.events, "auth.validated", "persisted token accepted", map[string]any{"user_id": user.ID})
}

func (s *authStore) adoptSession(data *models.AuthData, eventType string) error {
	user := data.User
	s.mu.Lock()
	s.session = models.Session{User: &user, Token: data.Token, IsAuthenticated: true}
	s.mu.Unlock()

	if err := s.persist(); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	observability.Emit(s.events, eventType, "session established", map[string]any{"user_id": user.ID})
	return nil
}

func (s *authStore) persist() error {
	session := s.Session()
	return s.storage.Save(storage.SessionSnapshot{
		User:            session.User,
		Token:           session.Token,
		IsAuthenticated: session.IsAuthenticated,
	})
}

func (s *authStore) setLoading(loading bool) {
	s.mu.Lock()
	s.session.IsLoading = loading
	s.mu.Unlock()
}

func (s *authStore) clearSession() {
	s.mu.Lock()
	s.session = models.Session{}
	s.mu.Unlock()
	if err := s.storage.Clear(); err != nil {
		observability.Emit(s.events, "auth.storage_clear_failed", err.Error(), nil)
	}
}
