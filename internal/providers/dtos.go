package providers

import (
	"time"

	"github.com/periljames/amo-portal-sub002/internal/reconcile"
	"github.com/periljames/amo-portal-sub002/internal/registry"
)

// Summary is the preview service's authoritative new/update/invalid counts
type Summary struct {
	New     int `json:"new"`
	Update  int `json:"update"`
	Invalid int `json:"invalid"`
}

// RawRow is one candidate row as the preview service returned it
type RawRow struct {
	RowNumber         int                          `json:"row_number"`
	Data              map[string]interface{}       `json:"data"`
	Errors            []string                     `json:"errors,omitempty"`
	Warnings          []string                     `json:"warnings,omitempty"`
	Action            string                       `json:"action"`
	FormulaProposals  []reconcile.FormulaProposal  `json:"formula_proposals,omitempty"`
	ExistingComponent *reconcile.ExistingComponent `json:"existing_component,omitempty"`
	DedupeSuggestions []reconcile.DedupeSuggestion `json:"dedupe_suggestions,omitempty"`
}

// ParseResult is the preview service's response to a parse request
type ParseResult struct {
	Rows          []RawRow          `json:"rows"`
	TotalRows     int               `json:"total_rows"`
	PreviewID     string            `json:"preview_id,omitempty"`
	ColumnMapping map[string]string `json:"column_mapping"`
	Summary       Summary           `json:"summary"`
	OCRText       string            `json:"ocr,omitempty"`
}

// RowsPage is one window of rows fetched by offset/limit
type RowsPage struct {
	Rows      []RawRow `json:"rows"`
	TotalRows int      `json:"total_rows"`
}

// ConfirmedCell is the field-level audit record sent with a commit and echoed
// back inside snapshot diff maps: what was uploaded, what was proposed, what
// was finally written, and how the user decided.
type ConfirmedCell struct {
	Original interface{} `json:"original"`
	Proposed interface{} `json:"proposed,omitempty"`
	Final    interface{} `json:"final"`
	Decision string      `json:"decision,omitempty"`
}

// CommittedRow carries full row data for embedded-mode commits
type CommittedRow struct {
	RowNumber int                    `json:"row_number"`
	Action    string                 `json:"action"`
	Data      map[string]interface{} `json:"data"`
}

// CommitPayload is the transactional commit request. Embedded mode sends Rows;
// windowed mode sends PreviewID plus approved/rejected row numbers instead.
type CommitPayload struct {
	EntityType         registry.EntityType              `json:"entity_type"`
	AircraftID         string                           `json:"aircraft_id,omitempty"`
	BatchID            string                           `json:"batch_id"`
	PreviewID          string                           `json:"preview_id,omitempty"`
	Rows               []CommittedRow                   `json:"rows,omitempty"`
	ApprovedRowNumbers []int                            `json:"approved_row_numbers,omitempty"`
	RejectedRowNumbers []int                            `json:"rejected_row_numbers,omitempty"`
	ConfirmedRows      map[int]map[string]ConfirmedCell `json:"confirmed_rows,omitempty"`
}

// CommitResult is the commit service's response
type CommitResult struct {
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	BatchID string `json:"batch_id"`
}

// Snapshot is a server-recorded diff of one committed batch, newest first
type Snapshot struct {
	ID         string                           `json:"id"`
	BatchID    string                           `json:"batch_id"`
	ImportType string                           `json:"import_type"`
	DiffMap    map[int]map[string]ConfirmedCell `json:"diff_map"`
	CreatedAt  time.Time                        `json:"created_at"`
}

// RestoreResult reports a snapshot restore (undo)
type RestoreResult struct {
	Restored int    `json:"restored"`
	BatchID  string `json:"batch_id"`
}

// ReapplyResult reports a snapshot reapply (redo)
type ReapplyResult struct {
	Reapplied int    `json:"reapplied"`
	BatchID   string `json:"batch_id"`
}
