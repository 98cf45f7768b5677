package reconcile

import (
	"testing"

	"github.com/periljames/amo-portal-sub002/internal/registry"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Total Hours", "total_hours"},
		{"  Total.Hours ", "total_hours"},
		{"TOTAL-HOURS", "total_hours"},
		{"total/hours", "total_hours"},
		{"Total  -  Hours", "total_hours"},
		{"a.b-c/d e", "a_b_c_d_e"},
		{"total_hours", "total_hours"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeHeader(tt.in); got != tt.want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func rowWithProposal() Row {
	row := NewRow(registry.EntityAircraft, 1, map[string]interface{}{
		"serial_number": "MSN-1001",
		"total_hours":   "100",
	}, ActionUpdate)
	row.FormulaProposals = []FormulaProposal{
		{Field: "Total Hours (recalc)", CurrentValue: "100", ProposedValue: 105.0, Confidence: 0.93},
	}
	return row
}

func TestProposalFor_MappingAndFallback(t *testing.T) {
	row := rowWithProposal()

	// Through the column mapping: the free-text name matches a mapped column
	mapping := map[string]string{"Total Hours (recalc)": "total_hours"}
	if p := ProposalFor(row, "total_hours", mapping); p == nil {
		t.Fatalf("expected proposal resolved through column mapping")
	}

	// Without a mapping entry, direct normalized field-name matching applies
	direct := row
	direct.FormulaProposals = []FormulaProposal{
		{Field: "Total-Hours", CurrentValue: "100", ProposedValue: 105.0},
	}
	if p := ProposalFor(direct, "total_hours", nil); p == nil {
		t.Fatalf("expected proposal resolved by direct field-name fallback")
	}

	if p := ProposalFor(row, "engine_hours", mapping); p != nil {
		t.Fatalf("expected no proposal for unrelated field, got %+v", p)
	}
}

func TestDecisionFor_Inference(t *testing.T) {
	mapping := map[string]string{"Total Hours (recalc)": "total_hours"}

	tests := []struct {
		name  string
		final interface{}
		want  Decision
	}{
		{"final equals proposal", 105.0, DecisionAccept},
		{"final equals original", "100", DecisionKeep},
		{"final differs from both", 101.5, DecisionOverride},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := rowWithProposal()
			row.Data["total_hours"] = tt.final
			got, ok := DecisionFor(row, "total_hours", mapping)
			if !ok || got != tt.want {
				t.Errorf("DecisionFor() = %v/%v, want %v", got, ok, tt.want)
			}
			// Inference must not persist onto the row
			if _, frozen := row.FormulaDecisions["total_hours"]; frozen {
				t.Errorf("inferred decision was persisted")
			}
		})
	}
}

func TestDecisionFor_ExplicitWins(t *testing.T) {
	row := rowWithProposal()
	row.Data["total_hours"] = 105.0 // would infer accept
	row.FormulaDecisions["total_hours"] = DecisionOverride

	got, ok := DecisionFor(row, "total_hours", nil)
	if !ok || got != DecisionOverride {
		t.Fatalf("explicit decision must win over inference, got %v/%v", got, ok)
	}
}

func TestDecisionFor_NoProposal(t *testing.T) {
	row := NewRow(registry.EntityAircraft, 1, map[string]interface{}{"serial_number": "S"}, ActionNew)
	if _, ok := DecisionFor(row, "total_hours", nil); ok {
		t.Fatalf("expected no decision without a proposal")
	}
}

func TestApplyDecision_Keep(t *testing.T) {
	mapping := map[string]string{"Total Hours (recalc)": "total_hours"}
	row := rowWithProposal()
	// User had accepted the recomputed value earlier
	row = ApplyDecision(row, registry.EntityAircraft, "total_hours", DecisionAccept, nil, mapping)
	if !ValuesEqual(row.Data["total_hours"], 105.0) {
		t.Fatalf("accept should write the proposed value, got %v", row.Data["total_hours"])
	}

	// Clicking Keep reverts to the uploaded original and records the decision
	row = ApplyDecision(row, registry.EntityAircraft, "total_hours", DecisionKeep, nil, mapping)
	if !ValuesEqual(row.Data["total_hours"], "100") {
		t.Fatalf("keep should restore the original, got %v", row.Data["total_hours"])
	}
	if row.FormulaDecisions["total_hours"] != DecisionKeep {
		t.Fatalf("expected keep decision recorded, got %v", row.FormulaDecisions)
	}
	// Keep lands on the original, so no user override remains
	if _, present := row.UserOverrides["total_hours"]; present {
		t.Fatalf("keep must not leave a user override")
	}
}

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		a, b interface{}
		want bool
	}{
		{100.0, 100.005, true},
		{"100", 100.01, true},
		{100.0, 100.02, false},
		{"100", "105", false},
		{"n/a", 100.0, false},
	}
	for _, tt := range tests {
		if got := WithinTolerance(tt.a, tt.b); got != tt.want {
			t.Errorf("WithinTolerance(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
