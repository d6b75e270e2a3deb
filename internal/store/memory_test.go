package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/bubbles/internal/game"
)

func newSession(t *testing.T) *game.Session {
	t.Helper()
	s, err := game.NewSession(game.DefaultConfig(), game.ModeClassic, 7)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := newSession(t)

	if _, err := st.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get before save: %v", err)
	}
	if err := st.Save(ctx, s); err != nil {
		t.Fatal(err)
	}
	got, err := st.Get(ctx, s.ID)
	if err != nil || got != s {
		t.Fatalf("get = %p, %v; want %p", got, err, s)
	}
	if err := st.Delete(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete: %v", err)
	}
	if err := st.Delete(ctx, "missing"); err != nil {
		t.Fatalf("delete unknown: %v", err)
	}
}

func TestMemoryStorePrune(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	old, fresh := newSession(t), newSession(t)
	old.Created = time.Now().Add(-2 * time.Hour)
	_ = st.Save(ctx, old)
	_ = st.Save(ctx, fresh)

	if n := st.Prune(ctx, time.Now().Add(-time.Hour)); n != 1 {
		t.Fatalf("pruned %d, want 1", n)
	}
	if _, err := st.Get(ctx, old.ID); !errors.Is(err, ErrNotFound) {
		t.Fatal("old session survived prune")
	}
	if _, err := st.Get(ctx, fresh.ID); err != nil {
		t.Fatalf("fresh session pruned: %v", err)
	}
}
