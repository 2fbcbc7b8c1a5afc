package store

import (
	"context"
	"errors"
	"testing"

	"github.com/taskdeck/taskdeck/pkg/models"
)

func TestLogin_SuccessPersistsSession(t *testing.T) {
	apiFake := &fakeAuthAPI{
		loginData: &models.AuthData{
			Token: "tok-1",
			User:  models.User{ID: "u1", Username: "alice", Email: "a@b.c"},
		},
	}
	sessions := &memSessionStorage{}
	store := NewAuthStore(apiFake, sessions, nil)

	if err := store.Login(context.Background(), "a@b.c", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	session := store.Session()
	if !session.IsAuthenticated {
		t.Error("session not authenticated after successful login")
	}
	if session.IsLoading {
		t.Error("session still loading after login")
	}
	if session.User == nil || session.User.Username != "alice" {
		t.Errorf("unexpected user: %+v", session.User)
	}
	if session.Token != "tok-1" {
		t.Errorf("token = %q, want tok-1", session.Token)
	}

	if sessions.snap.Token != "tok-1" || !sessions.snap.IsAuthenticated {
		t.Errorf("session not persisted: %+v", sessions.snap)
	}
}

func TestLogin_FailureClearsSessionToAnonymous(t *testing.T) {
	sessions := &memSessionStorage{}
	apiFake := &fakeAuthAPI{
		loginData: &models.AuthData{Token: "tok", User: models.User{ID: "u1"}},
	}
	store := NewAuthStore(apiFake, sessions, nil)

	if err := store.Login(context.Background(), "a@b.c", "right"); err != nil {
		t.Fatalf("setup login failed: %v", err)
	}

	apiFake.loginData = nil
	apiFake.loginErr = serverError("invalid credentials")

	err := store.Login(context.Background(), "a@b.c", "wrong")
	if err == nil {
		t.Fatal("expected error from failed login")
	}

	session := store.Session()
	if session.IsAuthenticated || session.User != nil || session.Token != "" {
		t.Errorf("session not cleared after failed login: %+v", session)
	}
	if sessions.snap.Token != "" {
		t.Errorf("persisted session not cleared: %+v", sessions.snap)
	}
}

func TestRegister_SuccessEstablishesSession(t *testing.T) {
	apiFake := &fakeAuthAPI{
		registerData: &models.AuthData{
			Token: "tok-new",
			User:  models.User{ID: "u2", Username: "bob", Email: "b@c.d"},
		},
	}
	store := NewAuthStore(apiFake, &memSessionStorage{}, nil)

	if err := store.Register(context.Background(), "bob", "b@c.d", "pw"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	session := store.Session()
	if !session.IsAuthenticated || session.Token != "tok-new" {
		t.Errorf("unexpected session after register: %+v", session)
	}
}

func TestRegister_FailureClearsSession(t *testing.T) {
	apiFake := &fakeAuthAPI{registerErr: serverError("email already taken")}
	store := NewAuthStore(apiFake, &memSessionStorage{}, nil)

	if err := store.Register(context.Background(), "bob", "b@c.d", "pw"); err == nil {
		t.Fatal("expected error from failed register")
	}

	session := store.Session()
	if session.IsAuthenticated || session.User != nil {
		t.Errorf("session not anonymous after failed register: %+v", session)
	}
}

func TestLogout_AlwaysReturnsToAnonymous(t *testing.T) {
	apiFake := &fakeAuthAPI{
		loginData: &models.AuthData{Token: "tok", User: models.User{ID: "u1"}},
	}
	sessions := &memSessionStorage{}
	store := NewAuthStore(apiFake, sessions, nil)

	if err := store.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	store.Logout()

	session := store.Session()
	if session.IsAuthenticated || session.User != nil || session.Token != "" {
		t.Errorf("session not anonymous after logout: %+v", session)
	}
	if sessions.snap.Token != "" {
		t.Errorf("durable session not cleared: %+v", sessions.snap)
	}
}

func TestLogout_StorageFailureStillClearsMemory(t *testing.T) {
	apiFake := &fakeAuthAPI{
		loginData: &models.AuthData{Token: "tok", User: models.User{ID: "u1"}},
	}
	sessions := &memSessionStorage{}
	store := NewAuthStore(apiFake, sessions, nil)

	if err := store.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	sessions.clearErr = errors.New("disk full")
	store.Logout()

	if session := store.Session(); session.IsAuthenticated {
		t.Error("in-memory session still authenticated after logout with failing storage")
	}
}

func TestInitialize_ValidTokenRestoresSession(t *testing.T) {
	sessions := &memSessionStorage{}
	if err := sessions.Save(sessionSnapshotFor("tok-persisted", "u1", "alice")); err != nil {
		t.Fatalf("seeding storage: %v", err)
	}

	apiFake := &fakeAuthAPI{
		profileUser: &models.User{ID: "u1", Username: "alice-fresh", Email: "a@b.c"},
	}
	store := NewAuthStore(apiFake, sessions, nil)

	store.Initialize(context.Background())

	session := store.Session()
	if !session.IsAuthenticated {
		t.Fatal("session not authenticated after initialize with valid token")
	}
	if session.Token != "tok-persisted" {
		t.Errorf("token = %q, want persisted token", session.Token)
	}
	// The identity comes from the fresh profile fetch, not the stale snapshot.
	if session.User == nil || session.User.Username != "alice-fresh" {
		t.Errorf("user = %+v, want freshly fetched identity", session.User)
	}
}

func TestInitialize_InvalidTokenDegradesToAnonymous(t *testing.T) {
	sessions := &memSessionStorage{}
	if err := sessions.Save(sessionSnapshotFor("tok-expired", "u1", "alice")); err != nil {
		t.Fatalf("seeding storage: %v", err)
	}

	apiFake := &fakeAuthAPI{profileErr: serverError("invalid token")}
	store := NewAuthStore(apiFake, sessions, nil)

	store.Initialize(context.Background())

	session := store.Session()
	if session.IsAuthenticated || session.User != nil || session.Token != "" {
		t.Errorf("session not anonymous after invalid token: %+v", session)
	}
	if session.IsLoading {
		t.Error("session still loading after initialize")
	}
	if sessions.snap.Token != "" {
		t.Errorf("stale persisted session not cleared: %+v", sessions.snap)
	}
}

func TestInitialize_NoPersistedTokenStaysAnonymous(t *testing.T) {
	apiFake := &fakeAuthAPI{profileErr: serverError("should not be called")}
	store := NewAuthStore(apiFake, &memSessionStorage{}, nil)

	store.Initialize(context.Background())

	session := store.Session()
	if session.IsAuthenticated || session.IsLoading {
		t.Errorf("expected settled anonymous session, got %+v", session)
	}
}

func TestSession_ReturnsCopy(t *testing.T) {
	apiFake := &fakeAuthAPI{
		loginData: &models.AuthData{Token: "tok", User: models.User{ID: "u1", Username: "alice"}},
	}
	store := NewAuthStore(apiFake, &memSessionStorage{}, nil)

	if err := store.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	first := store.Session()
	first.User.Username = "mutated"

	second := store.Session()
	if second.User.Username != "alice" {
		t.Error("mutating a returned session leaked into store state")
	}
}
