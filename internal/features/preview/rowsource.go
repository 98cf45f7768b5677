package preview

import (
	"context"

	"github.com/periljames/amo-portal-sub002/internal/providers"
	"github.com/periljames/amo-portal-sub002/internal/reconcile"
	"github.com/periljames/amo-portal-sub002/internal/registry"
)

// RowFromRaw normalizes a preview-service row into an engine row. The service's
// error list and classification are authoritative at ingestion; local
// validation findings are appended after them.
func RowFromRaw(entityType registry.EntityType, raw providers.RawRow) reconcile.Row {
	row := reconcile.NewRow(entityType, raw.RowNumber, raw.Data, reconcile.Action(raw.Action))
	if len(raw.Errors) > 0 {
		merged := append([]string(nil), raw.Errors...)
		for _, e := range row.Errors {
			if !containsMessage(merged, e) {
				merged = append(merged, e)
			}
		}
		row.Errors = merged
		row.Approved = false
	}
	if len(raw.Warnings) > 0 {
		row.Warnings = append([]string(nil), raw.Warnings...)
	}
	row.FormulaProposals = append([]reconcile.FormulaProposal(nil), raw.FormulaProposals...)
	row.ExistingComponent = raw.ExistingComponent
	row.DedupeSuggestions = append([]reconcile.DedupeSuggestion(nil), raw.DedupeSuggestions...)
	return row
}

func containsMessage(list []string, msg string) bool {
	for _, m := range list {
		if m == msg {
			return true
		}
	}
	return false
}

// RowSource fetches row windows on demand for sessions above the embedding
// threshold and re-applies locally held overrides onto each fresh page.
type RowSource struct {
	Provider providers.PreviewProvider
}

// Page fetches one window. On failure it returns the error without having
// touched any session state; a failed page simply does not populate.
// Callers hold the session lock so override reads are consistent.
func (rs *RowSource) Page(ctx context.Context, sess *Session, offset, limit int) ([]reconcile.Row, int, error) {
	page, err := rs.Provider.FetchRows(ctx, sess.PreviewID, sess.AircraftID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	rows := make([]reconcile.Row, 0, len(page.Rows))
	for _, raw := range page.Rows {
		row := RowFromRaw(sess.EntityType, raw)
		if override, ok := sess.RowOverrides[raw.RowNumber]; ok {
			row = MergeOverride(row, override)
		}
		rows = append(rows, row)
	}
	return rows, page.TotalRows, nil
}
