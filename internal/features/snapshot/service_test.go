package snapshot

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/periljames/amo-portal-sub002/internal/features/system"
	"github.com/periljames/amo-portal-sub002/internal/metrics"
	"github.com/periljames/amo-portal-sub002/internal/providers"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type fakeHistoryProvider struct {
	snapshots  []providers.Snapshot
	listErr    error
	restoreErr error
	restored   []string
	reapplied  []string
}

func (f *fakeHistoryProvider) Commit(ctx context.Context, payload providers.CommitPayload) (*providers.CommitResult, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeHistoryProvider) Snapshots(ctx context.Context, batchID string) ([]providers.Snapshot, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.snapshots, nil
}

func (f *fakeHistoryProvider) Restore(ctx context.Context, snapshotID string) (*providers.RestoreResult, error) {
	if f.restoreErr != nil {
		return nil, f.restoreErr
	}
	f.restored = append(f.restored, snapshotID)
	return &providers.RestoreResult{Restored: 12}, nil
}

func (f *fakeHistoryProvider) Reapply(ctx context.Context, snapshotID string) (*providers.ReapplyResult, error) {
	f.reapplied = append(f.reapplied, snapshotID)
	return &providers.ReapplyResult{Reapplied: 12}, nil
}

func newTestSnapshots(t *testing.T, provider *fakeHistoryProvider) SnapshotService {
	t.Helper()
	return NewSnapshotService(
		provider,
		metrics.NewRegistryWith(promclient.NewRegistry()),
		system.NewEventsHub(zap.NewNop()),
		zap.NewNop(),
	)
}

func history() []providers.Snapshot {
	now := time.Now()
	return []providers.Snapshot{
		{ID: "snap-3", BatchID: "batch-1", CreatedAt: now},
		{ID: "snap-2", BatchID: "batch-1", CreatedAt: now.Add(-time.Hour)},
		{ID: "snap-1", BatchID: "batch-1", CreatedAt: now.Add(-2 * time.Hour)},
	}
}

func TestList_DefaultsToNewest(t *testing.T) {
	svc := newTestSnapshots(t, &fakeHistoryProvider{snapshots: history()})

	list, err := svc.List(context.Background(), "batch-1")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list.Snapshots) != 3 {
		t.Fatalf("snapshots = %d, want 3", len(list.Snapshots))
	}
	if list.SelectedID != "snap-3" {
		t.Errorf("selected = %q, want the newest snapshot", list.SelectedID)
	}
}

func TestList_RequiresBatchID(t *testing.T) {
	svc := newTestSnapshots(t, &fakeHistoryProvider{})
	if _, err := svc.List(context.Background(), ""); err == nil {
		t.Fatal("expected an error for a missing batch id")
	}
}

func TestRestore_MovesSelection(t *testing.T) {
	provider := &fakeHistoryProvider{snapshots: history()}
	svc := newTestSnapshots(t, provider)

	result, err := svc.Restore(context.Background(), "batch-1", "snap-1")
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if result.Restored != 12 {
		t.Errorf("restored = %d, want 12", result.Restored)
	}
	if len(provider.restored) != 1 || provider.restored[0] != "snap-1" {
		t.Errorf("provider restore calls = %v", provider.restored)
	}

	list, err := svc.List(context.Background(), "batch-1")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if list.SelectedID != "snap-1" {
		t.Errorf("selected = %q, want the restored snapshot", list.SelectedID)
	}
}

func TestReapply_MovesSelectionForward(t *testing.T) {
	provider := &fakeHistoryProvider{snapshots: history()}
	svc := newTestSnapshots(t, provider)

	if _, err := svc.Restore(context.Background(), "batch-1", "snap-1"); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if _, err := svc.Reapply(context.Background(), "batch-1", "snap-2"); err != nil {
		t.Fatalf("Reapply() error: %v", err)
	}

	list, err := svc.List(context.Background(), "batch-1")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if list.SelectedID != "snap-2" {
		t.Errorf("selected = %q, want snap-2 after redo", list.SelectedID)
	}
}

func TestRestore_FailureLeavesSelection(t *testing.T) {
	provider := &fakeHistoryProvider{snapshots: history(), restoreErr: fmt.Errorf("snapshot expired")}
	svc := newTestSnapshots(t, provider)

	if _, err := svc.Restore(context.Background(), "batch-1", "snap-1"); err == nil {
		t.Fatal("expected restore error")
	}

	list, err := svc.List(context.Background(), "batch-1")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if list.SelectedID != "snap-3" {
		t.Errorf("selected = %q, failed restore must not move the selection", list.SelectedID)
	}
}

func TestList_StaleSelectionFallsBack(t *testing.T) {
	provider := &fakeHistoryProvider{snapshots: history()}
	svc := newTestSnapshots(t, provider)

	if _, err := svc.Restore(context.Background(), "batch-1", "snap-1"); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}

	// The selected snapshot ages out server-side
	provider.snapshots = history()[:2]
	list, err := svc.List(context.Background(), "batch-1")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if list.SelectedID != "snap-3" {
		t.Errorf("selected = %q, want fallback to newest", list.SelectedID)
	}
}
