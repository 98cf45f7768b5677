package preview

import "github.com/periljames/amo-portal-sub002/internal/reconcile"

// MergeOverride lays a locally held override row over a freshly fetched copy
// of the same row number. An override entry is a full snapshot of the row at
// its last local mutation, so data, errors, warnings, approved, originalData,
// proposedFields, userOverrides, formulaDecisions, and formulaProposals all
// come from the override; the fetched row only provides defaults for the
// server-classified parts. Errors and warnings carry over even when nil so a
// repaired row does not resurface the stale fetched errors. Action and
// component linkage stay with the fetch because the override never changes
// them.
func MergeOverride(fetched, override reconcile.Row) reconcile.Row {
	out := fetched.Clone()

	if override.Data != nil {
		out.Data = override.Clone().Data
	}
	if override.OriginalData != nil {
		out.OriginalData = override.Clone().OriginalData
	}
	out.Errors = append([]string(nil), override.Errors...)
	out.Warnings = append([]string(nil), override.Warnings...)
	out.Approved = override.Approved
	if override.ProposedFields != nil {
		out.ProposedFields = cloneFlags(override.ProposedFields)
	}
	if override.UserOverrides != nil {
		out.UserOverrides = cloneFlags(override.UserOverrides)
	}
	if override.FormulaDecisions != nil {
		out.FormulaDecisions = cloneDecisions(override.FormulaDecisions)
	}
	if override.FormulaProposals != nil {
		out.FormulaProposals = append([]reconcile.FormulaProposal(nil), override.FormulaProposals...)
	}

	return out
}

func cloneFlags(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneDecisions(m map[string]reconcile.Decision) map[string]reconcile.Decision {
	out := make(map[string]reconcile.Decision, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
