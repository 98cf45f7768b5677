package snapshot

import (
	"context"
	"fmt"
	"sync"

	"github.com/periljames/amo-portal-sub002/internal/features/system"
	"github.com/periljames/amo-portal-sub002/internal/metrics"
	"github.com/periljames/amo-portal-sub002/internal/providers"

	"go.uber.org/zap"
)

// SnapshotList is a batch's undo history, newest first, with the snapshot the
// engine currently considers selected. Fresh histories select the newest
// entry; a restore moves the selection to the restored snapshot.
type SnapshotList struct {
	Snapshots  []providers.Snapshot `json:"snapshots"`
	SelectedID string               `json:"selected_id,omitempty"`
}

type SnapshotService interface {
	List(ctx context.Context, batchID string) (*SnapshotList, error)
	Restore(ctx context.Context, batchID, snapshotID string) (*providers.RestoreResult, error)
	Reapply(ctx context.Context, batchID, snapshotID string) (*providers.ReapplyResult, error)
}

type SnapshotServiceImpl struct {
	Provider providers.ImportProvider
	Metrics  *metrics.Registry
	Hub      *system.EventsHub
	Logger   *zap.Logger

	mu       sync.Mutex
	selected map[string]string // batchID -> snapshotID
}

func NewSnapshotService(
	provider providers.ImportProvider,
	reg *metrics.Registry,
	hub *system.EventsHub,
	logger *zap.Logger,
) SnapshotService {
	return &SnapshotServiceImpl{
		Provider: provider,
		Metrics:  reg,
		Hub:      hub,
		Logger:   logger,
		selected: map[string]string{},
	}
}

func (s *SnapshotServiceImpl) List(ctx context.Context, batchID string) (*SnapshotList, error) {
	if batchID == "" {
		return nil, fmt.Errorf("batch_id is required")
	}

	snapshots, err := s.Provider.Snapshots(ctx, batchID)
	if err != nil {
		s.Metrics.SnapshotOpsTotal.WithLabelValues("list", "error").Inc()
		return nil, err
	}
	s.Metrics.SnapshotOpsTotal.WithLabelValues("list", "ok").Inc()

	list := &SnapshotList{Snapshots: snapshots}

	s.mu.Lock()
	selected := s.selected[batchID]
	s.mu.Unlock()

	// A stale selection (snapshot expired server-side) falls back to newest
	if selected != "" && !containsSnapshot(snapshots, selected) {
		selected = ""
	}
	if selected == "" && len(snapshots) > 0 {
		selected = snapshots[0].ID
	}
	list.SelectedID = selected
	return list, nil
}

func (s *SnapshotServiceImpl) Restore(ctx context.Context, batchID, snapshotID string) (*providers.RestoreResult, error) {
	result, err := s.Provider.Restore(ctx, snapshotID)
	if err != nil {
		s.Metrics.SnapshotOpsTotal.WithLabelValues("restore", "error").Inc()
		return nil, err
	}

	s.markSelected(batchID, snapshotID)
	s.Metrics.SnapshotOpsTotal.WithLabelValues("restore", "ok").Inc()
	s.Logger.Info("snapshot restored",
		zap.String("batch_id", batchID),
		zap.String("snapshot_id", snapshotID),
		zap.Int("restored", result.Restored),
	)
	s.Hub.Broadcast("snapshot_restored", map[string]interface{}{
		"batch_id":    batchID,
		"snapshot_id": snapshotID,
		"restored":    result.Restored,
	})
	return result, nil
}

func (s *SnapshotServiceImpl) Reapply(ctx context.Context, batchID, snapshotID string) (*providers.ReapplyResult, error) {
	result, err := s.Provider.Reapply(ctx, snapshotID)
	if err != nil {
		s.Metrics.SnapshotOpsTotal.WithLabelValues("reapply", "error").Inc()
		return nil, err
	}

	s.markSelected(batchID, snapshotID)
	s.Metrics.SnapshotOpsTotal.WithLabelValues("reapply", "ok").Inc()
	s.Logger.Info("snapshot reapplied",
		zap.String("batch_id", batchID),
		zap.String("snapshot_id", snapshotID),
		zap.Int("reapplied", result.Reapplied),
	)
	s.Hub.Broadcast("snapshot_reapplied", map[string]interface{}{
		"batch_id":    batchID,
		"snapshot_id": snapshotID,
		"reapplied":   result.Reapplied,
	})
	return result, nil
}

func (s *SnapshotServiceImpl) markSelected(batchID, snapshotID string) {
	if batchID == "" {
		return
	}
	s.mu.Lock()
	s.selected[batchID] = snapshotID
	s.mu.Unlock()
}

func containsSnapshot(snapshots []providers.Snapshot, id string) bool {
	for i := range snapshots {
		if snapshots[i].ID == id {
			return true
		}
	}
	return false
}
