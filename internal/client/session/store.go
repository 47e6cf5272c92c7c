// Package session persists the CLI's login state (token and profile) in a
// local SQLite database so it survives between invocations.
package session

import "context"

// Profile is the locally cached view of the logged-in user.
type Profile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Store keeps the current session. An empty token means logged out.
type Store interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	User(ctx context.Context) (*Profile, error)
	SetUser(ctx context.Context, p *Profile) error
	Clear(ctx context.Context) error
	Close() error
}
