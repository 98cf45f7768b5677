package importcommit

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/periljames/amo-portal-sub002/internal/features/preview"
	"github.com/periljames/amo-portal-sub002/internal/features/system"
	"github.com/periljames/amo-portal-sub002/internal/metrics"
	"github.com/periljames/amo-portal-sub002/internal/providers"
	"github.com/periljames/amo-portal-sub002/internal/reconcile"
	"github.com/periljames/amo-portal-sub002/internal/registry"

	"go.uber.org/zap"
)

// ErrNoApprovedRows rejects a commit before any network call is made
var ErrNoApprovedRows = fmt.Errorf("Select at least one valid row to import.")

// ErrCommitInProgress rejects a concurrent commit of the same session
var ErrCommitInProgress = fmt.Errorf("a commit for this session is already in progress")

// CommitOutcome is what the controller reports back after a commit attempt
type CommitOutcome struct {
	Created int           `json:"created"`
	Updated int           `json:"updated"`
	BatchID string        `json:"batch_id"`
	State   preview.State `json:"state"`
}

type CommitService interface {
	Commit(ctx context.Context, sessionID string) (*CommitOutcome, error)
	ListBatches(ctx context.Context, operator string) ([]ImportBatch, error)
	GetBatch(ctx context.Context, batchID string) (*ImportBatch, error)
}

type CommitServiceImpl struct {
	Provider providers.ImportProvider
	Store    *preview.SessionStore
	Repo     BatchRepository
	Metrics  *metrics.Registry
	Hub      *system.EventsHub
	Logger   *zap.Logger
}

func NewCommitService(
	provider providers.ImportProvider,
	store *preview.SessionStore,
	repo BatchRepository,
	reg *metrics.Registry,
	hub *system.EventsHub,
	logger *zap.Logger,
) CommitService {
	return &CommitServiceImpl{
		Provider: provider,
		Store:    store,
		Repo:     repo,
		Metrics:  reg,
		Hub:      hub,
		Logger:   logger,
	}
}

// Commit validates preconditions locally, builds the transactional payload,
// and hands it to the commit service. The batch id never changes across
// retries of the same session, so a retry after a timeout cannot duplicate
// rows on an idempotent server.
func (s *CommitServiceImpl) Commit(ctx context.Context, sessionID string) (*CommitOutcome, error) {
	sess, err := s.Store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	if sess.State == preview.StateCommitting {
		sess.Unlock()
		return nil, ErrCommitInProgress
	}
	approved := sess.ApprovedCount()
	if approved < 1 {
		sess.Unlock()
		return nil, ErrNoApprovedRows
	}

	payload := s.buildPayload(sess)
	sess.State = preview.StateCommitting
	batch := &ImportBatch{
		BatchID:       sess.BatchID,
		EntityType:    sess.EntityType,
		AircraftID:    sess.AircraftID,
		Operator:      sess.Operator,
		SessionID:     sess.ID,
		PreviewID:     sess.PreviewID,
		Mode:          string(sess.Mode),
		ApprovedCount: approved,
	}
	sess.Unlock()

	result, commitErr := s.Provider.Commit(ctx, payload)

	sess.Lock()
	defer sess.Unlock()

	if commitErr != nil {
		// Nothing was durably applied; the session drops back to editing with
		// the failure recorded so the operator can retry under the same batch
		sess.State = preview.StateEditing
		sess.LastError = commitErr.Error()
		s.Store.Put(sess)

		batch.LastError = commitErr.Error()
		if err := s.Repo.Upsert(ctx, batch); err != nil {
			s.Logger.Warn("failed to record commit attempt", zap.Error(err))
		}

		s.Metrics.CommitsTotal.WithLabelValues(string(sess.EntityType), "error").Inc()
		s.Logger.Error("import commit failed",
			zap.String("session_id", sess.ID),
			zap.String("batch_id", sess.BatchID),
			zap.String("operator", sess.Operator),
			zap.Error(commitErr),
		)
		return nil, commitErr
	}

	sess.State = preview.StateCommitted
	sess.LastError = ""
	s.Store.Put(sess)

	batch.Created = result.Created
	batch.Updated = result.Updated
	batch.CommittedAt = time.Now()
	if err := s.Repo.Upsert(ctx, batch); err != nil {
		s.Logger.Warn("failed to record committed batch", zap.Error(err))
	}

	s.Metrics.CommitsTotal.WithLabelValues(string(sess.EntityType), "ok").Inc()
	s.Metrics.CommitRowCounts.WithLabelValues(string(sess.EntityType)).Observe(float64(approved))
	s.Logger.Info("import committed",
		zap.String("session_id", sess.ID),
		zap.String("batch_id", sess.BatchID),
		zap.String("operator", sess.Operator),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
	)
	s.Hub.Broadcast("commit_finished", map[string]interface{}{
		"session_id": sess.ID,
		"batch_id":   sess.BatchID,
		"created":    result.Created,
		"updated":    result.Updated,
	})

	return &CommitOutcome{
		Created: result.Created,
		Updated: result.Updated,
		BatchID: sess.BatchID,
		State:   sess.State,
	}, nil
}

// buildPayload assembles the commit request under the session lock.
//
// Embedded sessions send full row data for every approved row. Windowed
// sessions send the preview id plus the deltas the user introduced: rejected
// valid rows, explicitly approved repaired rows, and per-field confirmed cells
// carrying the final values for every touched row.
func (s *CommitServiceImpl) buildPayload(sess *preview.Session) providers.CommitPayload {
	payload := providers.CommitPayload{
		EntityType:    sess.EntityType,
		AircraftID:    sess.AircraftID,
		BatchID:       sess.BatchID,
		ConfirmedRows: map[int]map[string]providers.ConfirmedCell{},
	}

	if sess.Mode == preview.ModeEmbedded {
		for i := range sess.Rows {
			row := sess.Rows[i]
			if !row.Approved || len(row.Errors) > 0 {
				continue
			}
			payload.Rows = append(payload.Rows, providers.CommittedRow{
				RowNumber: row.RowNumber,
				Action:    string(row.Action),
				Data:      row.Data,
			})
			if cells := confirmedCells(row, sess.EntityType, sess.ColumnMapping); len(cells) > 0 {
				payload.ConfirmedRows[row.RowNumber] = cells
			}
		}
		return payload
	}

	payload.PreviewID = sess.PreviewID
	rowNumbers := make([]int, 0, len(sess.RowOverrides))
	for n := range sess.RowOverrides {
		rowNumbers = append(rowNumbers, n)
	}
	sort.Ints(rowNumbers)

	for _, n := range rowNumbers {
		o := sess.RowOverrides[n]
		if o.Action == reconcile.ActionInvalid || len(o.Errors) > 0 {
			// A repaired row joins the commit only once it is clean and
			// explicitly approved; anything else stays out of the audit trail.
			if !o.Approved || len(o.Errors) > 0 {
				continue
			}
			payload.ApprovedRowNumbers = append(payload.ApprovedRowNumbers, n)
		} else if !o.Approved {
			payload.RejectedRowNumbers = append(payload.RejectedRowNumbers, n)
			continue
		}
		if cells := confirmedCells(o, sess.EntityType, sess.ColumnMapping); len(cells) > 0 {
			payload.ConfirmedRows[n] = cells
		}
	}
	return payload
}

// confirmedCells builds the field-level audit record for one row: every
// tracked field whose final value differs from the upload, or that carries a
// formula proposal or a template fill.
func confirmedCells(row reconcile.Row, entityType registry.EntityType, mapping map[string]string) map[string]providers.ConfirmedCell {
	cells := map[string]providers.ConfirmedCell{}
	for _, field := range registry.DiffFieldsFor(entityType) {
		proposal := reconcile.ProposalFor(row, field.Key, mapping)
		changed := !reconcile.ValuesEqual(row.Data[field.Key], row.OriginalData[field.Key])
		if !changed && proposal == nil && !row.ProposedFields[field.Key] {
			continue
		}

		cell := providers.ConfirmedCell{
			Original: row.OriginalData[field.Key],
			Final:    row.Data[field.Key],
		}
		if proposal != nil {
			cell.Proposed = proposal.ProposedValue
		}
		if decision, ok := reconcile.DecisionFor(row, field.Key, mapping); ok {
			cell.Decision = string(decision)
		}
		cells[field.Key] = cell
	}
	return cells
}

func (s *CommitServiceImpl) ListBatches(ctx context.Context, operator string) ([]ImportBatch, error) {
	return s.Repo.FindByOperator(ctx, operator, 50)
}

func (s *CommitServiceImpl) GetBatch(ctx context.Context, batchID string) (*ImportBatch, error) {
	return s.Repo.Get(ctx, batchID)
}
