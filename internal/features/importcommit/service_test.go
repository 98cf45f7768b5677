package importcommit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/periljames/amo-portal-sub002/internal/config"
	"github.com/periljames/amo-portal-sub002/internal/features/preview"
	"github.com/periljames/amo-portal-sub002/internal/features/system"
	"github.com/periljames/amo-portal-sub002/internal/metrics"
	"github.com/periljames/amo-portal-sub002/internal/providers"
	"github.com/periljames/amo-portal-sub002/internal/reconcile"
	"github.com/periljames/amo-portal-sub002/internal/registry"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type fakeImportProvider struct {
	payloads  []providers.CommitPayload
	commitErr error
	result    providers.CommitResult
}

func (f *fakeImportProvider) Commit(ctx context.Context, payload providers.CommitPayload) (*providers.CommitResult, error) {
	f.payloads = append(f.payloads, payload)
	if f.commitErr != nil {
		return nil, f.commitErr
	}
	result := f.result
	result.BatchID = payload.BatchID
	return &result, nil
}

func (f *fakeImportProvider) Snapshots(ctx context.Context, batchID string) ([]providers.Snapshot, error) {
	return nil, nil
}

func (f *fakeImportProvider) Restore(ctx context.Context, snapshotID string) (*providers.RestoreResult, error) {
	return nil, nil
}

func (f *fakeImportProvider) Reapply(ctx context.Context, snapshotID string) (*providers.ReapplyResult, error) {
	return nil, nil
}

type fakeBatchRepo struct {
	upserts []ImportBatch
}

func (f *fakeBatchRepo) Upsert(ctx context.Context, batch *ImportBatch) error {
	f.upserts = append(f.upserts, *batch)
	return nil
}

func (f *fakeBatchRepo) Get(ctx context.Context, batchID string) (*ImportBatch, error) {
	for i := range f.upserts {
		if f.upserts[i].BatchID == batchID {
			return &f.upserts[i], nil
		}
	}
	return nil, fmt.Errorf("batch %s not found", batchID)
}

func (f *fakeBatchRepo) FindByOperator(ctx context.Context, operator string, limit int64) ([]ImportBatch, error) {
	return f.upserts, nil
}

func newTestCommit(t *testing.T, provider *fakeImportProvider) (*CommitServiceImpl, *preview.SessionStore, *fakeBatchRepo) {
	t.Helper()
	cfg := &config.Config{EmbedThreshold: 1500, SessionTTL: time.Hour}
	reg := metrics.NewRegistryWith(promclient.NewRegistry())
	store := preview.NewSessionStore(cfg, reg)
	repo := &fakeBatchRepo{}
	svc := &CommitServiceImpl{
		Provider: provider,
		Store:    store,
		Repo:     repo,
		Metrics:  reg,
		Hub:      system.NewEventsHub(zap.NewNop()),
		Logger:   zap.NewNop(),
	}
	return svc, store, repo
}

func embeddedSession() *preview.Session {
	sess := &preview.Session{
		ID:         "sess-1",
		EntityType: registry.EntityAircraft,
		Mode:       preview.ModeEmbedded,
		State:      preview.StateEditing,
		BatchID:    "batch-1",
		TotalRows:  3,
	}
	r1 := reconcile.NewRow(registry.EntityAircraft, 1, map[string]interface{}{
		"serial_number": "SN-1", "total_hours": 100.0,
	}, reconcile.ActionNew)
	r2 := reconcile.NewRow(registry.EntityAircraft, 2, map[string]interface{}{
		"serial_number": "SN-2", "total_hours": 200.0,
	}, reconcile.ActionUpdate)
	r2 = reconcile.ApplyEdit(r2, registry.EntityAircraft, "total_hours", 250.0, reconcile.SourceUser, nil)
	r3 := reconcile.NewRow(registry.EntityAircraft, 3, map[string]interface{}{
		"serial_number": "SN-3",
	}, reconcile.ActionNew)
	r3 = reconcile.ToggleApproval(r3, false)
	sess.Rows = []reconcile.Row{r1, r2, r3}
	return sess
}

func TestCommit_NoApprovedRows(t *testing.T) {
	provider := &fakeImportProvider{}
	svc, store, _ := newTestCommit(t, provider)

	sess := &preview.Session{
		ID:         "sess-empty",
		EntityType: registry.EntityAircraft,
		Mode:       preview.ModeEmbedded,
		State:      preview.StateEditing,
		BatchID:    "batch-empty",
	}
	sess.Rows = []reconcile.Row{
		reconcile.NewRow(registry.EntityAircraft, 1, map[string]interface{}{}, reconcile.ActionInvalid),
	}
	store.Put(sess)

	if _, err := svc.Commit(context.Background(), sess.ID); err != ErrNoApprovedRows {
		t.Fatalf("Commit() error = %v, want ErrNoApprovedRows", err)
	}
	if len(provider.payloads) != 0 {
		t.Error("precondition failure must not reach the commit service")
	}
}

func TestCommit_EmbeddedPayload(t *testing.T) {
	provider := &fakeImportProvider{result: providers.CommitResult{Created: 1, Updated: 1}}
	svc, store, repo := newTestCommit(t, provider)

	sess := embeddedSession()
	store.Put(sess)

	outcome, err := svc.Commit(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("Commit() error: %v", err)
	}

	if len(provider.payloads) != 1 {
		t.Fatalf("expected 1 commit call, got %d", len(provider.payloads))
	}
	payload := provider.payloads[0]
	if len(payload.Rows) != 2 {
		t.Fatalf("payload rows = %d, want 2 (rejected row excluded)", len(payload.Rows))
	}
	for _, row := range payload.Rows {
		if row.RowNumber == 3 {
			t.Error("rejected row must not be committed")
		}
	}

	// The edited cell travels as a confirmed original/final pair
	cells, ok := payload.ConfirmedRows[2]
	if !ok {
		t.Fatal("edited row missing from confirmed rows")
	}
	cell, ok := cells["total_hours"]
	if !ok {
		t.Fatal("edited field missing from confirmed cells")
	}
	if cell.Original != 200.0 || cell.Final != 250.0 {
		t.Errorf("confirmed cell = %+v, want original 200 final 250", cell)
	}

	if outcome.State != preview.StateCommitted {
		t.Errorf("state = %q, want committed", outcome.State)
	}
	if outcome.BatchID != "batch-1" {
		t.Errorf("batch id = %q, want batch-1", outcome.BatchID)
	}
	if len(repo.upserts) != 1 || repo.upserts[0].Created != 1 {
		t.Errorf("batch record not persisted: %+v", repo.upserts)
	}
}

func TestCommit_FailureReturnsToEditingAndRetainsBatchID(t *testing.T) {
	provider := &fakeImportProvider{commitErr: fmt.Errorf("gateway timeout")}
	svc, store, _ := newTestCommit(t, provider)

	sess := embeddedSession()
	store.Put(sess)

	if _, err := svc.Commit(context.Background(), sess.ID); err == nil {
		t.Fatal("expected commit error")
	}

	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("session gone after failed commit: %v", err)
	}
	got.Lock()
	state, lastErr := got.State, got.LastError
	got.Unlock()
	if state != preview.StateEditing {
		t.Errorf("state = %q, want editing after failure", state)
	}
	if lastErr == "" {
		t.Error("failure must be recorded on the session")
	}

	// Retry succeeds and reuses the same batch id
	provider.commitErr = nil
	outcome, err := svc.Commit(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("retry error: %v", err)
	}
	if outcome.BatchID != "batch-1" {
		t.Errorf("retry minted a new batch id: %q", outcome.BatchID)
	}
	if provider.payloads[0].BatchID != provider.payloads[1].BatchID {
		t.Error("both attempts must carry the same batch id")
	}
}

func TestCommit_WindowedPayload(t *testing.T) {
	provider := &fakeImportProvider{result: providers.CommitResult{Created: 10, Updated: 4}}
	svc, store, _ := newTestCommit(t, provider)

	sess := &preview.Session{
		ID:         "sess-win",
		EntityType: registry.EntityComponent,
		AircraftID: "ac-9",
		Mode:       preview.ModeWindowed,
		State:      preview.StateEditing,
		BatchID:    "batch-win",
		PreviewID:  "pv-9",
		TotalRows:  5000,
		Summary:    providers.Summary{New: 10, Update: 5, Invalid: 1},
		RowOverrides: map[int]reconcile.Row{
			12: { // valid row the user rejected
				RowNumber:    12,
				Action:       reconcile.ActionUpdate,
				Approved:     false,
				Data:         map[string]interface{}{"position": "ENG-1"},
				OriginalData: map[string]interface{}{"position": "ENG-1"},
			},
			40: { // invalid row repaired and approved
				RowNumber:    40,
				Action:       reconcile.ActionInvalid,
				Approved:     true,
				Data:         map[string]interface{}{"position": "APU", "tsn_hours": 900.0},
				OriginalData: map[string]interface{}{"position": "", "tsn_hours": 900.0},
			},
			7: { // valid row with an edit, still approved
				RowNumber:     7,
				Action:        reconcile.ActionUpdate,
				Approved:      true,
				Data:          map[string]interface{}{"position": "ENG-2", "tsn_hours": 1200.0},
				OriginalData:  map[string]interface{}{"position": "ENG-2", "tsn_hours": 1100.0},
				UserOverrides: map[string]bool{"tsn_hours": true},
			},
		},
	}
	store.Put(sess)

	if _, err := svc.Commit(context.Background(), sess.ID); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}

	payload := provider.payloads[0]
	if payload.PreviewID != "pv-9" {
		t.Errorf("preview id = %q", payload.PreviewID)
	}
	if len(payload.Rows) != 0 {
		t.Error("windowed commits must not send full row data")
	}
	if len(payload.RejectedRowNumbers) != 1 || payload.RejectedRowNumbers[0] != 12 {
		t.Errorf("rejected = %v, want [12]", payload.RejectedRowNumbers)
	}
	if len(payload.ApprovedRowNumbers) != 1 || payload.ApprovedRowNumbers[0] != 40 {
		t.Errorf("approved = %v, want [40]", payload.ApprovedRowNumbers)
	}

	cell := payload.ConfirmedRows[7]["tsn_hours"]
	if cell.Original != 1100.0 || cell.Final != 1200.0 {
		t.Errorf("confirmed cell = %+v", cell)
	}
	if payload.ConfirmedRows[40]["position"].Final != "APU" {
		t.Error("repaired field missing from confirmed cells")
	}
}

func TestCommit_WindowedSkipsUncommittedInvalidRows(t *testing.T) {
	provider := &fakeImportProvider{result: providers.CommitResult{Updated: 1}}
	svc, store, _ := newTestCommit(t, provider)

	sess := &preview.Session{
		ID:         "sess-win-skip",
		EntityType: registry.EntityComponent,
		AircraftID: "ac-9",
		Mode:       preview.ModeWindowed,
		State:      preview.StateEditing,
		BatchID:    "batch-win-skip",
		PreviewID:  "pv-10",
		TotalRows:  5000,
		Summary:    providers.Summary{Update: 3, Invalid: 1},
		RowOverrides: map[int]reconcile.Row{
			5: { // invalid row the user touched but never repaired or approved
				RowNumber:     5,
				Action:        reconcile.ActionInvalid,
				Approved:      false,
				Errors:        []string{"Position is required"},
				Data:          map[string]interface{}{"position": "", "tsn_hours": 500.0},
				OriginalData:  map[string]interface{}{"position": "", "tsn_hours": 400.0},
				UserOverrides: map[string]bool{"tsn_hours": true},
			},
			8: { // valid row with an edit, still approved
				RowNumber:     8,
				Action:        reconcile.ActionUpdate,
				Approved:      true,
				Data:          map[string]interface{}{"position": "ENG-1", "tsn_hours": 2100.0},
				OriginalData:  map[string]interface{}{"position": "ENG-1", "tsn_hours": 2000.0},
				UserOverrides: map[string]bool{"tsn_hours": true},
			},
		},
	}
	store.Put(sess)

	if _, err := svc.Commit(context.Background(), sess.ID); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}

	payload := provider.payloads[0]
	if len(payload.ApprovedRowNumbers) != 0 {
		t.Errorf("approved = %v, want none", payload.ApprovedRowNumbers)
	}
	if cells, ok := payload.ConfirmedRows[5]; ok {
		t.Errorf("confirmed cells sent for uncommitted invalid row 5: %v", cells)
	}
	if _, ok := payload.ConfirmedRows[8]; !ok {
		t.Error("committed row 8 missing from confirmed cells")
	}
}

func TestCommit_ConcurrentRejected(t *testing.T) {
	provider := &fakeImportProvider{}
	svc, store, _ := newTestCommit(t, provider)

	sess := embeddedSession()
	sess.State = preview.StateCommitting
	store.Put(sess)

	if _, err := svc.Commit(context.Background(), sess.ID); err != ErrCommitInProgress {
		t.Fatalf("Commit() error = %v, want ErrCommitInProgress", err)
	}
}
