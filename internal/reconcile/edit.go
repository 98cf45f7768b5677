package reconcile

import "github.com/periljames/amo-portal-sub002/internal/registry"

// ApplyEdit produces a new row with the field set to value, errors recomputed,
// and override/proposal bookkeeping updated.
//
// For user edits, the field joins UserOverrides only while its value differs
// from the uploaded original; editing it back clears the override entirely.
// New validation errors downgrade approval; an edit never upgrades it, the
// user must re-approve explicitly.
func ApplyEdit(row Row, entityType registry.EntityType, field string, value interface{}, source EditSource, decision *Decision) Row {
	out := row.Clone()
	out.Data[field] = value
	out.Errors = Validate(entityType, out.Data)

	switch source {
	case SourceUser:
		if ValuesEqual(value, out.OriginalData[field]) {
			delete(out.UserOverrides, field)
		} else {
			out.UserOverrides[field] = true
		}
	case SourceSystem:
		if !ValuesEqual(value, out.OriginalData[field]) {
			out.ProposedFields[field] = true
		}
	}

	if decision != nil {
		out.FormulaDecisions[field] = *decision
	}

	if len(out.Errors) > 0 {
		out.Approved = false
	}

	return out
}

// ToggleApproval sets the approved flag. Approving a row with outstanding
// errors is a no-op, not an error.
func ToggleApproval(row Row, approved bool) Row {
	out := row.Clone()
	if approved && len(out.Errors) > 0 {
		return out
	}
	out.Approved = approved
	return out
}

// ApplyDecision resolves a formula proposal on a field and records the decision:
// accept writes the proposed value, keep restores the uploaded original, and
// override writes the supplied value.
func ApplyDecision(row Row, entityType registry.EntityType, field string, decision Decision, overrideValue interface{}, columnMapping map[string]string) Row {
	var value interface{}
	switch decision {
	case DecisionAccept:
		if p := ProposalFor(row, field, columnMapping); p != nil {
			value = p.ProposedValue
		} else {
			value = row.Data[field]
		}
	case DecisionKeep:
		value = row.OriginalData[field]
	default:
		value = overrideValue
	}
	d := decision
	return ApplyEdit(row, entityType, field, value, SourceUser, &d)
}
