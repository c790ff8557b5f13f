// Package session manages manager sessions for the protected dashboard
// endpoints. Tokens are opaque UUIDs handed out at login and expired after
// a configurable TTL.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNoSession is returned when a token is unknown or has expired.
var ErrNoSession = errors.New("session: not found or expired")

// Store is the port for session persistence. Redis backs it in deployments
// that configure an address; Memory backs tests and single-node setups.
type Store interface {
	// Create registers a new session for user and returns its token.
	Create(ctx context.Context, user string) (string, error)

	// User resolves a token to the logged-in username, or ErrNoSession.
	User(ctx context.Context, token string) (string, error)

	// Destroy invalidates a token. Destroying an unknown token is not an
	// error.
	Destroy(ctx context.Context, token string) error
}

// DefaultTTL bounds a session's lifetime when no TTL is configured.
const DefaultTTL = 12 * time.Hour
