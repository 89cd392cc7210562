package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stipple/pkg/pipeline"
)

func newSQLiteStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	testStore(t, newSQLiteStore(t, filepath.Join(t.TempDir(), "sessions.db")))
}

func TestSQLiteStoreCleanup(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t, filepath.Join(t.TempDir(), "sessions.db"))

	live := New(pipeline.DefaultOptions(), testResult(), time.Hour)
	dead := New(pipeline.DefaultOptions(), testResult(), time.Hour)
	dead.ExpiresAt = time.Now().Add(-time.Second)
	require.NoError(t, s.Set(ctx, live))
	require.NoError(t, s.Set(ctx, dead))

	require.NoError(t, s.Cleanup(ctx))
	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLiteStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "sessions.db")

	first, err := NewSQLiteStore(path)
	require.NoError(t, err)
	sess := New(pipeline.DefaultOptions(), testResult(), time.Hour)
	require.NoError(t, first.Set(ctx, sess))
	require.NoError(t, first.Close())

	// Migrations are already applied on the second open.
	second := newSQLiteStore(t, path)
	got, err := second.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sess.Points, got.Points)
	assert.Equal(t, sess.Options, got.Options)
}
