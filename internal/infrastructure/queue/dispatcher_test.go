package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/facecheck/attendance-api/internal/core/domain"
)

type stubAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
	err     error
	block   chan struct{}
}

func (r *stubAuditRepo) Insert(_ context.Context, e *domain.AuditEntry) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubAuditRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func TestAuditDispatcher_WritesAllEntriesBeforeClose(t *testing.T) {
	repo := &stubAuditRepo{}
	d := NewAuditDispatcher(3, repo, zerolog.Nop())
	d.Start()

	for i := 0; i < 50; i++ {
		d.Record(context.Background(), domain.AuditEntry{AttemptID: fmt.Sprintf("attempt-%d", i), Action: domain.AuditCheckIn})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if got := repo.count(); got != 50 {
		t.Fatalf("expected 50 entries written, got %d", got)
	}
}

func TestAuditDispatcher_WriteFailureIsSwallowed(t *testing.T) {
	repo := &stubAuditRepo{err: errors.New("not primary")}
	d := NewAuditDispatcher(1, repo, zerolog.Nop())
	d.Start()

	d.Record(context.Background(), domain.AuditEntry{AttemptID: "a"})

	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if repo.count() != 0 {
		t.Fatalf("expected no stored entries")
	}
}

func TestAuditDispatcher_DropsWhenFull(t *testing.T) {
	repo := &stubAuditRepo{block: make(chan struct{})}
	d := newAuditDispatcher(1, 1, repo, zerolog.Nop())
	d.Start()

	done := make(chan struct{})
	go func() {
		// One entry is held by the blocked worker, one fits the buffer, the
		// rest must be dropped without blocking this goroutine.
		for i := 0; i < 10; i++ {
			d.Record(context.Background(), domain.AuditEntry{AttemptID: fmt.Sprintf("a-%d", i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a full queue")
	}

	close(repo.block)
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if got := repo.count(); got < 1 || got > 2 {
		t.Fatalf("expected 1 or 2 entries written, got %d", got)
	}
}

func TestAuditDispatcher_RecordAfterClose(t *testing.T) {
	repo := &stubAuditRepo{}
	d := NewAuditDispatcher(2, repo, zerolog.Nop())
	d.Start()

	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	d.Record(context.Background(), domain.AuditEntry{AttemptID: "late"})

	if repo.count() != 0 {
		t.Fatalf("entries recorded after Close must be dropped")
	}
}

func TestAuditDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewAuditDispatcher(8, &stubAuditRepo{}, zerolog.Nop())

	first := d.shardIndex("attempt-42")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("attempt-42"); got != first {
			t.Fatalf("shard index changed: %d != %d", got, first)
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard index out of range: %d", first)
	}
}
