package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "autoriza/pkg/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecorder_StampsTimestamp(t *testing.T) {
	r := NewRecorder(4, discardLogger())

	r.Record(context.Background(), Entry{CaseID: id.NewCaseID(), Action: ActionCaseCreated})

	got := <-r.Inbox()
	assert.False(t, got.Timestamp.IsZero())
}

func TestRecorder_FullInboxDropsInsteadOfBlocking(t *testing.T) {
	r := NewRecorder(1, discardLogger())
	caseID := id.NewCaseID()

	r.Record(context.Background(), Entry{CaseID: caseID, Action: ActionCaseCreated})

	done := make(chan struct{})
	go func() {
		r.Record(context.Background(), Entry{CaseID: caseID, Action: ActionOutcomeApplied})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("record blocked on a full inbox")
	}
	assert.Len(t, r.Inbox(), 1)
}

func TestWorker_PersistsUntilCancelled(t *testing.T) {
	store := NewInMemoryStore()
	r := NewRecorder(8, discardLogger())
	w := NewWorker(store, r.Inbox(), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = w.Run(ctx)
	}()

	caseID := id.NewCaseID()
	r.Record(ctx, Entry{CaseID: caseID, Action: ActionCaseCreated, State: "RECEIVED"})
	r.Record(ctx, Entry{CaseID: caseID, Action: ActionOutcomeApplied, State: "PENDING_AUDIT", Outcome: "PENDING_AUDIT"})

	require.Eventually(t, func() bool {
		entries, err := store.ListByCase(context.Background(), caseID)
		return err == nil && len(entries) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	wg.Wait()

	entries, err := store.ListByCase(context.Background(), caseID)
	require.NoError(t, err)
	assert.Equal(t, ActionCaseCreated, entries[0].Action)
	assert.Equal(t, ActionOutcomeApplied, entries[1].Action)
}

type failingStore struct {
	mu    sync.Mutex
	calls int
}

func (s *failingStore) Append(context.Context, Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return errors.New("disk full")
}

func (s *failingStore) ListByCase(context.Context, id.CaseID) ([]Entry, error) {
	return nil, nil
}

func (s *failingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestWorker_KeepsDrainingAfterAppendFailure(t *testing.T) {
	store := &failingStore{}
	r := NewRecorder(8, discardLogger())
	w := NewWorker(store, r.Inbox(), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	r.Record(ctx, Entry{CaseID: id.NewCaseID(), Action: ActionCaseCreated})
	r.Record(ctx, Entry{CaseID: id.NewCaseID(), Action: ActionCaseClosed})

	require.Eventually(t, func() bool { return store.count() == 2 },
		time.Second, 10*time.Millisecond)
}

func TestInMemoryStore_IsolatesReturnedSlice(t *testing.T) {
	store := NewInMemoryStore()
	caseID := id.NewCaseID()
	require.NoError(t, store.Append(context.Background(), Entry{CaseID: caseID, Action: ActionCaseCreated}))

	entries, err := store.ListByCase(context.Background(), caseID)
	require.NoError(t, err)
	entries[0].Action = ActionCaseClosed

	again, err := store.ListByCase(context.Background(), caseID)
	require.NoError(t, err)
	assert.Equal(t, ActionCaseCreated, again[0].Action)
}
