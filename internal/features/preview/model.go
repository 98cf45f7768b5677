package preview

import (
	"sync"
	"time"

	"github.com/periljames/amo-portal-sub002/internal/providers"
	"github.com/periljames/amo-portal-sub002/internal/reconcile"
	"github.com/periljames/amo-portal-sub002/internal/registry"
)

// Mode is the transport/pagination strategy for a session. Chosen once at
// ingestion from the total row count; immutable for the session's lifetime.
type Mode string

const (
	ModeEmbedded Mode = "embedded"
	ModeWindowed Mode = "windowed"
)

// State tracks the session's position in the review lifecycle
type State string

const (
	StatePreviewed  State = "previewed"
	StateEditing    State = "editing"
	StateCommitting State = "committing"
	StateCommitted  State = "committed"
)

// Session is the aggregate root for one import attempt.
//
// Embedded mode keeps the full row set in Rows. Windowed mode keeps no full
// set: RowOverrides holds a sparse map of every row the user has touched, and
// freshly fetched pages are merged against it so edits survive repagination.
type Session struct {
	ID         string              `json:"id"`
	EntityType registry.EntityType `json:"entity_type"`
	AircraftID string              `json:"aircraft_id,omitempty"`
	Operator   string              `json:"operator,omitempty"`
	Mode       Mode                `json:"mode"`
	State      State               `json:"state"`
	BatchID    string              `json:"batch_id"`
	PreviewID  string              `json:"preview_id,omitempty"`
	TotalRows  int                 `json:"total_rows"`

	ColumnMapping map[string]string `json:"column_mapping"`
	Summary       providers.Summary `json:"summary"`

	Rows         []reconcile.Row       `json:"-"`
	RowOverrides map[int]reconcile.Row `json:"-"`

	// Generation guards against stale preview responses: a re-parse bumps it,
	// and any response carrying an older generation is discarded on arrival.
	Generation int `json:"-"`

	LastError string    `json:"last_error,omitempty"`
	OCRText   string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`

	mu sync.Mutex
}

// Lock acquires the session's aggregate lock
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session's aggregate lock
func (s *Session) Unlock() { s.mu.Unlock() }

// Row returns a pointer to the resident row with the given number: the
// embedded row in embedded mode, the override entry in windowed mode. Nil when
// the row is not resident. Callers hold the session lock.
func (s *Session) Row(rowNumber int) *reconcile.Row {
	if s.Mode == ModeEmbedded {
		for i := range s.Rows {
			if s.Rows[i].RowNumber == rowNumber {
				return &s.Rows[i]
			}
		}
		return nil
	}
	if o, ok := s.RowOverrides[rowNumber]; ok {
		row := o
		return &row
	}
	return nil
}

// SetRow writes a row back into the aggregate: in place for embedded mode,
// into the override map for windowed mode. Callers hold the session lock.
func (s *Session) SetRow(row reconcile.Row) {
	if s.Mode == ModeEmbedded {
		for i := range s.Rows {
			if s.Rows[i].RowNumber == row.RowNumber {
				s.Rows[i] = row
				return
			}
		}
		s.Rows = append(s.Rows, row)
		return
	}
	s.RowOverrides[row.RowNumber] = row
}

// ApprovedCount derives the number of rows that will commit. Embedded mode
// filters resident rows. Windowed mode cannot (most rows are never fetched):
// it adjusts the service's authoritative new+update counts by the deltas the
// user introduced through overrides: explicitly rejected rows subtract,
// explicitly approved invalid rows add.
func (s *Session) ApprovedCount() int {
	if s.Mode == ModeEmbedded {
		n := 0
		for i := range s.Rows {
			if s.Rows[i].Approved && len(s.Rows[i].Errors) == 0 {
				n++
			}
		}
		return n
	}

	count := s.Summary.New + s.Summary.Update
	for _, o := range s.RowOverrides {
		if o.Action == reconcile.ActionInvalid || len(o.Errors) > 0 {
			if o.Approved && len(o.Errors) == 0 {
				count++
			}
		} else if !o.Approved {
			count--
		}
	}
	return count
}

// DerivedSummary returns new/update/invalid counts: recounted from resident
// rows in embedded mode, the service's authoritative figures in windowed mode.
func (s *Session) DerivedSummary() providers.Summary {
	if s.Mode == ModeWindowed {
		return s.Summary
	}
	var out providers.Summary
	for i := range s.Rows {
		switch {
		case s.Rows[i].Invalid():
			out.Invalid++
		case s.Rows[i].Action == reconcile.ActionUpdate:
			out.Update++
		default:
			out.New++
		}
	}
	return out
}

// markEditing moves a previewed session into the editing self-loop
func (s *Session) markEditing() {
	if s.State == StatePreviewed || s.State == StateCommitting {
		s.State = StateEditing
	}
}
