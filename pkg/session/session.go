// Package session keeps the current point set of each interactive user.
//
// The HTTP front-end holds one "current" point set per browser. A session
// stores the inputs of the last run together with its accepted points, so
// that export always sees exactly what the page showed. A regeneration
// replaces the whole session value in one Set; stores never expose a
// half-updated set.
//
// Implementations:
//   - [MemoryStore]: in-process map, the default for `stipple serve`
//   - [FileStore]: JSON files in a directory, survives restarts
//   - [SQLiteStore]: a single SQLite file with embedded migrations
//   - [RedisStore]: shared storage for multi-instance deployments
//
// # Usage
//
//	sess := session.New(opts, result, session.DefaultTTL)
//	if err := store.Set(ctx, sess); err != nil {
//	    return err
//	}
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    // Session not found or expired
//	}
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/stipple/pkg/pipeline"
	"github.com/matzehuels/stipple/pkg/scatter"
)

// DefaultTTL is the default session duration. Every Replace extends it.
const DefaultTTL = 24 * time.Hour

// Session stores the current point set of one user.
type Session struct {
	ID        string           `json:"id"`
	Options   pipeline.Options `json:"options"`
	Points    []scatter.Point  `json:"points"`
	Requested int              `json:"requested"`
	Skipped   int              `json:"skipped"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// PointSet returns the stored points as a set.
func (s *Session) PointSet() scatter.PointSet {
	return scatter.NewPointSet(s.Points)
}

// Replace swaps in the result of a new run and extends the expiry.
func (s *Session) Replace(opts pipeline.Options, res scatter.Result, ttl time.Duration) {
	now := time.Now()
	s.Options = opts
	s.Points = res.Points.Points()
	s.Requested = res.Requested
	s.Skipped = res.Skipped
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}

// TTL returns the time left before expiry, at least one second.
func (s *Session) TTL() time.Duration {
	return max(time.Until(s.ExpiresAt), time.Second)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session, replacing any previous value.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (optional, may be no-op for Redis).
	Cleanup(ctx context.Context) error

	// Close releases resources held by the store.
	Close() error
}

// GenerateID creates a random (version 4) session ID.
func GenerateID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an ID from GenerateID. Cookies that
// fail this check are treated as absent.
func ValidID(id string) bool {
	u, err := uuid.Parse(id)
	return err == nil && u.Version() == 4 && u.String() == id
}

// New creates a new session holding res.
func New(opts pipeline.Options, res scatter.Result, ttl time.Duration) *Session {
	now := time.Now()
	s := &Session{
		ID:        GenerateID(),
		CreatedAt: now,
	}
	s.Replace(opts, res, ttl)
	return s
}
