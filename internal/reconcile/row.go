package reconcile

import "github.com/periljames/amo-portal-sub002/internal/registry"

// Action is the server-classified relationship of an uploaded row to existing records
type Action string

const (
	ActionNew     Action = "new"
	ActionUpdate  Action = "update"
	ActionInvalid Action = "invalid"
)

// Decision records how a formula proposal was resolved for one field
type Decision string

const (
	DecisionAccept   Decision = "accept"   // final value equals the recomputed proposal
	DecisionKeep     Decision = "keep"     // final value equals the uploaded original
	DecisionOverride Decision = "override" // final value differs from both
)

// EditSource distinguishes user edits from system fills (template defaults, decisions)
type EditSource string

const (
	SourceUser   EditSource = "user"
	SourceSystem EditSource = "system"
)

// FormulaProposal is a server-recomputed value offered against the uploaded one.
// Field carries the free-text recalculation column name as the preview service
// produced it; resolution to a typed field key goes through ProposalFor.
type FormulaProposal struct {
	Field         string      `json:"field"`
	CurrentValue  interface{} `json:"current_value"`
	ProposedValue interface{} `json:"proposed_value"`
	Confidence    float64     `json:"confidence"`
}

// ExistingComponent describes the on-file component a row updates
type ExistingComponent struct {
	Position     string `json:"position"`
	PartNumber   string `json:"part_number"`
	SerialNumber string `json:"serial_number"`
}

// DedupeSuggestion is a candidate duplicate match by part+serial
type DedupeSuggestion struct {
	RowNumber    int    `json:"row_number,omitempty"` // other row in the same file, 0 if from inventory
	PartNumber   string `json:"part_number"`
	SerialNumber string `json:"serial_number"`
	Source       string `json:"source"` // "file" or "inventory"
}

// Row is one candidate record from an uploaded file, pending approval.
// OriginalData is the as-uploaded baseline and is never mutated after creation.
type Row struct {
	RowNumber         int                    `json:"row_number"`
	Data              map[string]interface{} `json:"data"`
	OriginalData      map[string]interface{} `json:"original_data"`
	Errors            []string               `json:"errors"`
	Warnings          []string               `json:"warnings"`
	Action            Action                 `json:"action"`
	Approved          bool                   `json:"approved"`
	ProposedFields    map[string]bool        `json:"proposed_fields,omitempty"`
	UserOverrides     map[string]bool        `json:"user_overrides,omitempty"`
	FormulaProposals  []FormulaProposal      `json:"formula_proposals,omitempty"`
	FormulaDecisions  map[string]Decision    `json:"formula_decisions,omitempty"`
	ExistingComponent *ExistingComponent     `json:"existing_component,omitempty"`
	DedupeSuggestions []DedupeSuggestion     `json:"dedupe_suggestions,omitempty"`
}

// NewRow ingests an uploaded row: snapshots the original data, validates, and
// grants initial approval only to rows that validate clean and are not invalid.
func NewRow(entityType registry.EntityType, rowNumber int, data map[string]interface{}, action Action) Row {
	if data == nil {
		data = map[string]interface{}{}
	}
	row := Row{
		RowNumber:        rowNumber,
		Data:             copyData(data),
		OriginalData:     copyData(data),
		Action:           action,
		ProposedFields:   map[string]bool{},
		UserOverrides:    map[string]bool{},
		FormulaDecisions: map[string]Decision{},
	}
	row.Errors = Validate(entityType, row.Data)
	row.Approved = len(row.Errors) == 0 && action != ActionInvalid
	return row
}

// Invalid reports whether the row must be treated as invalid for approval
// purposes: either server-classified or carrying validation errors.
func (r Row) Invalid() bool {
	return r.Action == ActionInvalid || len(r.Errors) > 0
}

// Clone returns a deep copy; edits are copy-on-write over clones
func (r Row) Clone() Row {
	out := r
	out.Data = copyData(r.Data)
	out.OriginalData = copyData(r.OriginalData)
	out.Errors = append([]string(nil), r.Errors...)
	out.Warnings = append([]string(nil), r.Warnings...)
	out.ProposedFields = copyFlags(r.ProposedFields)
	out.UserOverrides = copyFlags(r.UserOverrides)
	out.FormulaProposals = append([]FormulaProposal(nil), r.FormulaProposals...)
	out.FormulaDecisions = copyDecisions(r.FormulaDecisions)
	out.DedupeSuggestions = append([]DedupeSuggestion(nil), r.DedupeSuggestions...)
	if r.ExistingComponent != nil {
		ec := *r.ExistingComponent
		out.ExistingComponent = &ec
	}
	return out
}

func copyData(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyFlags(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyDecisions(m map[string]Decision) map[string]Decision {
	out := make(map[string]Decision, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
