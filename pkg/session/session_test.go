package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/pipeline"
	"github.com/matzehuels/stipple/pkg/scatter"
)

func testResult() scatter.Result {
	return scatter.Result{
		Points:    scatter.NewPointSet([]scatter.Point{{10, 20}, {30.5, 40}}),
		Requested: 4,
		Skipped:   2,
	}
}

func TestNew(t *testing.T) {
	opts := pipeline.DefaultOptions()
	s := New(opts, testResult(), time.Hour)

	if !ValidID(s.ID) {
		t.Errorf("ID %q is not a valid session ID", s.ID)
	}
	if s.IsExpired() {
		t.Error("new session should not be expired")
	}
	if s.PointSet().Len() != 2 || s.Requested != 4 || s.Skipped != 2 {
		t.Errorf("session = %+v", s)
	}
}

func TestReplace(t *testing.T) {
	s := New(pipeline.DefaultOptions(), testResult(), time.Hour)
	created := s.CreatedAt

	opts := pipeline.DefaultOptions()
	opts.Density = 1
	s.Replace(opts, scatter.Result{Requested: 48, Skipped: 48}, time.Hour)

	if s.PointSet().Len() != 0 {
		t.Errorf("points not replaced: %v", s.Points)
	}
	if s.Options.Density != 1 || s.Requested != 48 {
		t.Errorf("session = %+v", s)
	}
	if !s.CreatedAt.Equal(created) {
		t.Error("Replace must not change CreatedAt")
	}
}

func TestValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{GenerateID(), true},
		{"", false},
		{"../../etc/passwd", false},
		{"6ba7b810-9dad-11d1-80b4-00c04fd430c8", false}, // version 1
		{"{" + GenerateID() + "}", false},
	}
	for _, tt := range tests {
		if got := ValidID(tt.id); got != tt.want {
			t.Errorf("ValidID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

// testStore runs the Store contract against s.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing", func(t *testing.T) {
		got, err := s.Get(ctx, GenerateID())
		if err != nil || got != nil {
			t.Errorf("Get(missing) = %v, %v; want nil, nil", got, err)
		}
	})

	t.Run("set get replace delete", func(t *testing.T) {
		sess := New(pipeline.DefaultOptions(), testResult(), time.Hour)
		if err := s.Set(ctx, sess); err != nil {
			t.Fatalf("Set: %v", err)
		}

		got, err := s.Get(ctx, sess.ID)
		if err != nil || got == nil {
			t.Fatalf("Get = %v, %v", got, err)
		}
		if diff := cmp.Diff(sess.Points, got.Points); diff != "" {
			t.Errorf("points mismatch (-want +got):\n%s", diff)
		}

		sess.Replace(sess.Options, scatter.Result{Points: scatter.NewPointSet([]scatter.Point{{1, 1}})}, time.Hour)
		if err := s.Set(ctx, sess); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, _ = s.Get(ctx, sess.ID)
		if got == nil || len(got.Points) != 1 {
			t.Fatalf("replaced session = %+v", got)
		}

		if err := s.Delete(ctx, sess.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if got, _ := s.Get(ctx, sess.ID); got != nil {
			t.Error("session still present after Delete")
		}
	})

	t.Run("expired", func(t *testing.T) {
		sess := New(pipeline.DefaultOptions(), testResult(), time.Hour)
		sess.ExpiresAt = time.Now().Add(-time.Minute)
		if err := s.Set(ctx, sess); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if got, err := s.Get(ctx, sess.ID); err != nil || got != nil {
			t.Errorf("Get(expired) = %v, %v; want nil, nil", got, err)
		}
		if err := s.Cleanup(ctx); err != nil {
			t.Errorf("Cleanup: %v", err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	testStore(t, s)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	sess := New(pipeline.DefaultOptions(), testResult(), time.Hour)
	_ = s.Set(ctx, sess)

	sess.Points[0] = scatter.Point{-1, -1}
	got, _ := s.Get(ctx, sess.ID)
	if got.Points[0] == (scatter.Point{-1, -1}) {
		t.Error("store shares the caller's point slice")
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	opts := pipeline.DefaultOptions()
	opts.Formats = []string{"svg"}
	sess := New(opts, testResult(), time.Hour)
	_ = s.Set(ctx, sess)

	first, _ := s.Get(ctx, sess.ID)
	first.Points[0] = scatter.Point{-1, -1}
	first.Options.Formats[0] = "png"

	second, _ := s.Get(ctx, sess.ID)
	if second.Points[0] != (scatter.Point{10, 20}) {
		t.Errorf("stored point changed through Get: %v", second.Points[0])
	}
	if second.Options.Formats[0] != "svg" {
		t.Errorf("stored formats changed through Get: %v", second.Options.Formats)
	}
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	sess := New(pipeline.DefaultOptions(), testResult(), time.Hour)
	sess.ExpiresAt = time.Now().Add(-time.Second)
	_ = s.Set(ctx, sess)

	if err := s.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after cleanup, want 0", s.Len())
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()
	testStore(t, s)
}

func TestFileStoreRejectsPathIDs(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	_, err = s.Get(context.Background(), "../escape")
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("err = %v, want INVALID_PATH", err)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("STIPPLE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("STIPPLE_TEST_REDIS_ADDR not set")
	}
	s, err := NewRedisStore(context.Background(), RedisConfig{
		Addr:   addr,
		Prefix: "stipple:test:" + GenerateID() + ":",
	})
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer s.Close()
	testStore(t, s)
}
