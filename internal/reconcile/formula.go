package reconcile

import "math"

// DeltaTolerance is the absolute tolerance used to flag uploaded-vs-recomputed
// numeric deltas as "within tolerance". Cosmetic: affects badge color, never
// approval.
const DeltaTolerance = 0.01

// ProposalFor resolves the formula proposal targeting a field key. Proposal
// names are free-text recalculation column names; they resolve through the
// session's column mapping under header normalization, falling back to a direct
// normalized match against the field key itself.
func ProposalFor(row Row, field string, columnMapping map[string]string) *FormulaProposal {
	for i := range row.FormulaProposals {
		p := &row.FormulaProposals[i]
		if resolveProposalField(p.Field, columnMapping) == field {
			return p
		}
	}
	return nil
}

func resolveProposalField(proposalName string, columnMapping map[string]string) string {
	norm := NormalizeHeader(proposalName)
	for column, fieldKey := range columnMapping {
		if NormalizeHeader(column) == norm {
			return fieldKey
		}
	}
	// No mapping entry: fall back to matching the field key directly
	return norm
}

// DecisionFor returns the recorded decision for a field, or infers one for
// display: accept when the final value equals the proposal, keep when it equals
// the uploaded original, override otherwise. Inference is never persisted; only
// ApplyDecision freezes a decision onto the row.
func DecisionFor(row Row, field string, columnMapping map[string]string) (Decision, bool) {
	if d, ok := row.FormulaDecisions[field]; ok {
		return d, true
	}
	p := ProposalFor(row, field, columnMapping)
	if p == nil {
		return "", false
	}
	final := row.Data[field]
	switch {
	case ValuesEqual(final, p.ProposedValue):
		return DecisionAccept, true
	case ValuesEqual(final, row.OriginalData[field]):
		return DecisionKeep, true
	default:
		return DecisionOverride, true
	}
}

// WithinTolerance reports whether two numeric cell values agree within
// DeltaTolerance. Non-numeric values are never within tolerance.
func WithinTolerance(a, b interface{}) bool {
	fa, okA := AsFloat(a)
	fb, okB := AsFloat(b)
	if !okA || !okB {
		return false
	}
	return math.Abs(fa-fb) <= DeltaTolerance
}
