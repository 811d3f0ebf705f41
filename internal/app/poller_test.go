package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/five82/nib/internal/inkwell"
	"github.com/five82/nib/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type fakeLister struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeLister) ListPublic(context.Context, inkwell.PageQuery) (inkwell.ArticlePage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return inkwell.ArticlePage{}, f.err
	}
	return inkwell.ArticlePage{Count: 1, Results: []inkwell.Article{{ID: 1, Title: "Hello"}}}, nil
}

func (f *fakeLister) ListOwned(context.Context, int64, inkwell.PageQuery) (inkwell.ArticlePage, error) {
	return inkwell.ArticlePage{}, nil
}

func (f *fakeLister) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestStartPoller_RefreshesStore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &state.Store{}
	store.SetQuery(state.Query{Scope: state.ScopeFeed, Page: 1, PageSize: 10})
	lister := &fakeLister{}

	StartPoller(ctx, store, lister, nil, 10*time.Millisecond, nil)

	deadline := time.Now().Add(2 * time.Second)
	for !store.Snapshot().HasData {
		if time.Now().After(deadline) {
			t.Fatalf("store not refreshed after 2s (calls = %d)", lister.Calls())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := store.Snapshot().Articles[0].Title; got != "Hello" {
		t.Fatalf("article title = %q, want Hello", got)
	}
}

func TestStartPoller_RecordsFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &state.Store{}
	store.SetQuery(state.Query{Scope: state.ScopeFeed, Page: 1, PageSize: 10})
	lister := &fakeLister{err: errors.New("connection refused")}

	StartPoller(ctx, store, lister, nil, 10*time.Millisecond, nil)

	deadline := time.Now().Add(2 * time.Second)
	for store.Snapshot().ConsecutiveFailures == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("no failure recorded after 2s")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if store.Snapshot().LastError == nil {
		t.Fatalf("LastError = nil, want error")
	}
}

func TestStartPoller_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := &state.Store{}
	lister := &fakeLister{}

	cancel()
	StartPoller(ctx, store, lister, nil, time.Minute, nil)
	time.Sleep(50 * time.Millisecond)

	if got := lister.Calls(); got != 0 {
		t.Fatalf("ListPublic calls after cancel = %d, want 0", got)
	}
}
