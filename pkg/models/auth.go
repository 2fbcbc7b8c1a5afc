// Package models defines the data types shared between the API client, the
// state stores, and the presentation layer.
package models

import "time"

// User is the authenticated user's identity as reported by the backend.
// It is replaced wholesale on re-fetch, never partially mutated.
type User struct {
	ID        string    `json:"id" yaml:"id"`
	Username  string    `json:"username" yaml:"username"`
	Email     string    `json:"email" yaml:"email"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}

// Session is the in-memory authentication state. IsAuthenticated is true
// iff both User and Token were set by a successful login, register, or
// token-validation cycle.
type Session struct {
	User            *User
	Token           string
	IsAuthenticated bool
	IsLoading       bool
}

// AuthData is the data payload of a successful login or register response.
type AuthData struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
