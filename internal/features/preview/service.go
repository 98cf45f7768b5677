package preview

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/periljames/amo-portal-sub002/internal/config"
	"github.com/periljames/amo-portal-sub002/internal/features/system"
	"github.com/periljames/amo-portal-sub002/internal/features/template"
	"github.com/periljames/amo-portal-sub002/internal/metrics"
	"github.com/periljames/amo-portal-sub002/internal/providers"
	"github.com/periljames/amo-portal-sub002/internal/reconcile"
	"github.com/periljames/amo-portal-sub002/internal/registry"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrTemplateWindowed is surfaced when a template application is attempted on
// a windowed session. Documented behavior, not a bug.
var ErrTemplateWindowed = fmt.Errorf("Template defaults are disabled in large preview mode")

// CreateSessionInput describes one upload arriving for reconciliation
type CreateSessionInput struct {
	EntityType registry.EntityType
	AircraftID string
	Operator   string
	Filename   string
	File       io.Reader
	BatchID    string // reuse to keep undo/redo history across re-parses of the same logical batch
}

type PreviewService interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (*Session, []reconcile.Row, error)
	Reparse(ctx context.Context, sessionID string, ocrText string) (*Session, []reconcile.Row, error)
	GetSession(sessionID string) (*Session, error)
	GetRows(ctx context.Context, sessionID string, offset, limit int) ([]reconcile.Row, int, error)
	EditCell(ctx context.Context, sessionID string, rowNumber int, field string, value interface{}, decision *reconcile.Decision) (*reconcile.Row, error)
	SetApproval(ctx context.Context, sessionID string, rowNumber int, approved bool) (*reconcile.Row, error)
	ApplyFormulaDecision(ctx context.Context, sessionID string, rowNumber int, field string, decision reconcile.Decision, value interface{}) (*reconcile.Row, error)
	ApplyTemplate(ctx context.Context, sessionID string, tpl *template.ImportTemplate) (int, error)
	DiscardSession(sessionID string)
}

type PreviewServiceImpl struct {
	Provider  providers.PreviewProvider
	Store     *SessionStore
	RowSource *RowSource
	Config    *config.Config
	Metrics   *metrics.Registry
	Hub       *system.EventsHub
	Logger    *zap.Logger
}

func NewPreviewService(
	provider providers.PreviewProvider,
	store *SessionStore,
	cfg *config.Config,
	reg *metrics.Registry,
	hub *system.EventsHub,
	logger *zap.Logger,
) PreviewService {
	return &PreviewServiceImpl{
		Provider:  provider,
		Store:     store,
		RowSource: &RowSource{Provider: provider},
		Config:    cfg,
		Metrics:   reg,
		Hub:       hub,
		Logger:    logger,
	}
}

func (s *PreviewServiceImpl) CreateSession(ctx context.Context, input CreateSessionInput) (*Session, []reconcile.Row, error) {
	result, err := s.Provider.Parse(ctx, providers.ParseRequest{
		EntityType: input.EntityType,
		AircraftID: input.AircraftID,
		Filename:   input.Filename,
		File:       input.File,
	})
	if err != nil {
		return nil, nil, err
	}

	batchID := input.BatchID
	if batchID == "" {
		batchID = uuid.NewString()
	}

	sess := &Session{
		ID:            uuid.NewString(),
		EntityType:    input.EntityType,
		AircraftID:    input.AircraftID,
		Operator:      input.Operator,
		State:         StatePreviewed,
		BatchID:       batchID,
		PreviewID:     result.PreviewID,
		TotalRows:     result.TotalRows,
		ColumnMapping: result.ColumnMapping,
		Summary:       result.Summary,
		RowOverrides:  map[int]reconcile.Row{},
		OCRText:       result.OCRText,
		CreatedAt:     time.Now(),
	}

	if result.TotalRows > s.Config.EmbedThreshold {
		sess.Mode = ModeWindowed
	} else {
		sess.Mode = ModeEmbedded
	}

	firstRows := s.ingestRows(sess, result.Rows)
	s.Store.Put(sess)

	s.Metrics.PreviewsStarted.WithLabelValues(string(sess.EntityType), string(sess.Mode)).Inc()
	s.Logger.Info("preview session created",
		zap.String("session_id", sess.ID),
		zap.String("batch_id", sess.BatchID),
		zap.String("mode", string(sess.Mode)),
		zap.Int("total_rows", sess.TotalRows),
		zap.String("operator", sess.Operator),
	)
	s.Hub.Broadcast("preview_ready", eventPayload(sess))

	return sess, firstRows, nil
}

// Reparse treats corrected OCR text as a new file against the same logical
// batch. A generation counter guards against a stale response landing after a
// newer re-parse already replaced the session contents.
func (s *PreviewServiceImpl) Reparse(ctx context.Context, sessionID string, ocrText string) (*Session, []reconcile.Row, error) {
	sess, err := s.Store.Get(sessionID)
	if err != nil {
		return nil, nil, err
	}

	sess.Lock()
	sess.Generation++
	generation := sess.Generation
	entityType, aircraftID := sess.EntityType, sess.AircraftID
	sess.Unlock()

	result, err := s.Provider.Parse(ctx, providers.ParseRequest{
		EntityType: entityType,
		AircraftID: aircraftID,
		OCRText:    ocrText,
	})

	sess.Lock()
	defer sess.Unlock()

	if sess.Generation != generation {
		// A newer re-parse won the race; this response is stale
		return nil, nil, fmt.Errorf("preview superseded by a newer re-parse")
	}
	if err != nil {
		sess.LastError = err.Error()
		return nil, nil, err
	}

	sess.PreviewID = result.PreviewID
	sess.TotalRows = result.TotalRows
	sess.ColumnMapping = result.ColumnMapping
	sess.Summary = result.Summary
	sess.OCRText = result.OCRText
	sess.LastError = ""
	sess.State = StatePreviewed
	sess.Rows = nil
	sess.RowOverrides = map[int]reconcile.Row{}
	if result.TotalRows > s.Config.EmbedThreshold {
		sess.Mode = ModeWindowed
	} else {
		sess.Mode = ModeEmbedded
	}

	firstRows := s.ingestRows(sess, result.Rows)
	s.Store.Put(sess)

	s.Logger.Info("preview session re-parsed",
		zap.String("session_id", sess.ID),
		zap.String("batch_id", sess.BatchID),
		zap.Int("total_rows", sess.TotalRows),
	)
	return sess, firstRows, nil
}

// ingestRows normalizes parsed rows into the session. Embedded sessions own
// the full set; windowed sessions keep nothing resident and only return the
// materialized first window for the response. Caller holds the lock or owns
// the session exclusively.
func (s *PreviewServiceImpl) ingestRows(sess *Session, raws []providers.RawRow) []reconcile.Row {
	rows := make([]reconcile.Row, 0, len(raws))
	for _, raw := range raws {
		rows = append(rows, RowFromRaw(sess.EntityType, raw))
	}
	if sess.Mode == ModeEmbedded {
		sess.Rows = rows
	}
	return rows
}

func (s *PreviewServiceImpl) GetSession(sessionID string) (*Session, error) {
	return s.Store.Get(sessionID)
}

func (s *PreviewServiceImpl) GetRows(ctx context.Context, sessionID string, offset, limit int) ([]reconcile.Row, int, error) {
	sess, err := s.Store.Get(sessionID)
	if err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 100
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.Mode == ModeEmbedded {
		if offset < 0 || offset >= len(sess.Rows) {
			return []reconcile.Row{}, len(sess.Rows), nil
		}
		end := offset + limit
		if end > len(sess.Rows) {
			end = len(sess.Rows)
		}
		page := make([]reconcile.Row, end-offset)
		copy(page, sess.Rows[offset:end])
		s.Metrics.PreviewPages.WithLabelValues(string(ModeEmbedded), "ok").Inc()
		return page, len(sess.Rows), nil
	}

	rows, total, err := s.RowSource.Page(ctx, sess, offset, limit)
	if err != nil {
		// Fail-soft: prior state untouched, the window just does not populate
		s.Metrics.PreviewPages.WithLabelValues(string(ModeWindowed), "error").Inc()
		sess.LastError = err.Error()
		return nil, 0, err
	}
	s.Metrics.PreviewPages.WithLabelValues(string(ModeWindowed), "ok").Inc()
	return rows, total, nil
}

func (s *PreviewServiceImpl) EditCell(ctx context.Context, sessionID string, rowNumber int, field string, value interface{}, decision *reconcile.Decision) (*reconcile.Row, error) {
	return s.mutateRow(ctx, sessionID, rowNumber, "user", func(sess *Session, row reconcile.Row) reconcile.Row {
		return reconcile.ApplyEdit(row, sess.EntityType, field, value, reconcile.SourceUser, decision)
	})
}

func (s *PreviewServiceImpl) SetApproval(ctx context.Context, sessionID string, rowNumber int, approved bool) (*reconcile.Row, error) {
	return s.mutateRow(ctx, sessionID, rowNumber, "user", func(sess *Session, row reconcile.Row) reconcile.Row {
		return reconcile.ToggleApproval(row, approved)
	})
}

func (s *PreviewServiceImpl) ApplyFormulaDecision(ctx context.Context, sessionID string, rowNumber int, field string, decision reconcile.Decision, value interface{}) (*reconcile.Row, error) {
	return s.mutateRow(ctx, sessionID, rowNumber, "user", func(sess *Session, row reconcile.Row) reconcile.Row {
		return reconcile.ApplyDecision(row, sess.EntityType, field, decision, value, sess.ColumnMapping)
	})
}

// mutateRow loads the target row (fetching its base from the preview service
// when a windowed row has no override yet), applies fn, and writes the result
// back into the aggregate.
func (s *PreviewServiceImpl) mutateRow(ctx context.Context, sessionID string, rowNumber int, source string, fn func(*Session, reconcile.Row) reconcile.Row) (*reconcile.Row, error) {
	sess, err := s.Store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	base := sess.Row(rowNumber)
	if base == nil {
		if sess.Mode == ModeEmbedded {
			return nil, fmt.Errorf("row %d not found in session", rowNumber)
		}
		fetched, _, err := s.RowSource.Page(ctx, sess, rowNumber-1, 1)
		if err != nil {
			return nil, err
		}
		if len(fetched) == 0 || fetched[0].RowNumber != rowNumber {
			return nil, fmt.Errorf("row %d not found in preview", rowNumber)
		}
		base = &fetched[0]
	}

	updated := fn(sess, *base)
	sess.SetRow(updated)
	sess.markEditing()
	s.Store.Put(sess)

	s.Metrics.EditsApplied.WithLabelValues(source).Inc()
	return &updated, nil
}

func (s *PreviewServiceImpl) ApplyTemplate(ctx context.Context, sessionID string, tpl *template.ImportTemplate) (int, error) {
	sess, err := s.Store.Get(sessionID)
	if err != nil {
		return 0, err
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.Mode == ModeWindowed {
		// The applicator cannot safely mutate rows it does not hold
		return 0, ErrTemplateWindowed
	}

	filled, touched, err := template.Apply(tpl, sess.EntityType, sess.Rows)
	if err != nil {
		return 0, err
	}
	sess.Rows = filled
	sess.markEditing()
	s.Store.Put(sess)

	s.Metrics.TemplatesApplied.Inc()
	s.Logger.Info("template applied",
		zap.String("session_id", sess.ID),
		zap.String("template", tpl.Name),
		zap.Int("rows_touched", touched),
	)
	return touched, nil
}

func (s *PreviewServiceImpl) DiscardSession(sessionID string) {
	s.Store.Delete(sessionID)
}

// eventPayload strips the row payloads off a session for event broadcasting
func eventPayload(sess *Session) map[string]interface{} {
	return map[string]interface{}{
		"session_id": sess.ID,
		"batch_id":   sess.BatchID,
		"mode":       sess.Mode,
		"total_rows": sess.TotalRows,
		"summary":    sess.Summary,
	}
}
