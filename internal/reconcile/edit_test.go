package reconcile

import (
	"testing"

	"github.com/periljames/amo-portal-sub002/internal/registry"
)

func newAircraftRow(t *testing.T, data map[string]interface{}) Row {
	t.Helper()
	return NewRow(registry.EntityAircraft, 1, data, ActionUpdate)
}

func TestApplyEdit_OverrideClearing(t *testing.T) {
	row := newAircraftRow(t, map[string]interface{}{
		"serial_number": "MSN-1001",
		"registration":  "N123AB",
	})

	edited := ApplyEdit(row, registry.EntityAircraft, "registration", "N999ZZ", SourceUser, nil)
	if !edited.UserOverrides["registration"] {
		t.Fatalf("expected registration in user overrides after edit")
	}

	// Editing back to the original must remove the override, not just leave it false
	reverted := ApplyEdit(edited, registry.EntityAircraft, "registration", "N123AB", SourceUser, nil)
	if _, present := reverted.UserOverrides["registration"]; present {
		t.Fatalf("expected registration absent from user overrides after round-trip, got %v", reverted.UserOverrides)
	}
}

func TestApplyEdit_OverrideClearingNumericForms(t *testing.T) {
	row := newAircraftRow(t, map[string]interface{}{
		"serial_number": "MSN-1001",
		"total_hours":   "100",
	})

	edited := ApplyEdit(row, registry.EntityAircraft, "total_hours", 105.0, SourceUser, nil)
	if !edited.UserOverrides["total_hours"] {
		t.Fatalf("expected total_hours override")
	}

	// 100.0 normalizes equal to the uploaded "100"
	reverted := ApplyEdit(edited, registry.EntityAircraft, "total_hours", 100.0, SourceUser, nil)
	if _, present := reverted.UserOverrides["total_hours"]; present {
		t.Fatalf("expected numeric round-trip to clear the override")
	}
}

func TestApplyEdit_ApprovalMonotonicity(t *testing.T) {
	row := newAircraftRow(t, map[string]interface{}{
		"serial_number": "MSN-1001",
	})
	if !row.Approved {
		t.Fatalf("expected clean row approved at ingestion")
	}

	// Blanking the only identity field introduces an error and must drop approval
	broken := ApplyEdit(row, registry.EntityAircraft, "serial_number", "", SourceUser, nil)
	if len(broken.Errors) == 0 {
		t.Fatalf("expected validation error after blanking serial_number")
	}
	if broken.Approved {
		t.Fatalf("expected approval downgraded when errors appear")
	}

	// Fixing the error must NOT auto-re-approve
	fixed := ApplyEdit(broken, registry.EntityAircraft, "serial_number", "MSN-1001", SourceUser, nil)
	if len(fixed.Errors) != 0 {
		t.Fatalf("unexpected errors after fix: %v", fixed.Errors)
	}
	if fixed.Approved {
		t.Fatalf("edits must not auto-upgrade approval")
	}
}

func TestApplyEdit_DoesNotMutateInput(t *testing.T) {
	row := newAircraftRow(t, map[string]interface{}{
		"serial_number": "MSN-1001",
		"registration":  "N123AB",
	})

	_ = ApplyEdit(row, registry.EntityAircraft, "registration", "N999ZZ", SourceUser, nil)

	if row.Data["registration"] != "N123AB" {
		t.Fatalf("ApplyEdit mutated its input row")
	}
	if len(row.UserOverrides) != 0 {
		t.Fatalf("ApplyEdit mutated input overrides: %v", row.UserOverrides)
	}
}

func TestApplyEdit_SystemFillTracksProposedFields(t *testing.T) {
	row := newAircraftRow(t, map[string]interface{}{
		"serial_number": "MSN-1001",
	})

	filled := ApplyEdit(row, registry.EntityAircraft, "operator_code", "AMO", SourceSystem, nil)
	if !filled.ProposedFields["operator_code"] {
		t.Fatalf("expected system fill tracked in proposed fields")
	}
	if len(filled.UserOverrides) != 0 {
		t.Fatalf("system fills must not register user overrides")
	}
}

func TestToggleApproval(t *testing.T) {
	clean := newAircraftRow(t, map[string]interface{}{"serial_number": "MSN-1"})
	dirty := newAircraftRow(t, map[string]interface{}{"status": "active"})

	if got := ToggleApproval(clean, false); got.Approved {
		t.Fatalf("expected un-approve to stick")
	}
	// Approving a row with errors is a no-op, not an error
	if got := ToggleApproval(dirty, true); got.Approved {
		t.Fatalf("expected approval refused while errors present")
	}
}

func TestNewRow_InvalidActionNotApproved(t *testing.T) {
	row := NewRow(registry.EntityAircraft, 3, map[string]interface{}{"serial_number": "MSN-3"}, ActionInvalid)
	if row.Approved {
		t.Fatalf("server-classified invalid rows must not start approved")
	}
	if !row.Invalid() {
		t.Fatalf("expected Invalid() true for action=invalid")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		entityType registry.EntityType
		data       map[string]interface{}
		wantErrs   int
	}{
		{
			name:       "aircraft with serial only",
			entityType: registry.EntityAircraft,
			data:       map[string]interface{}{"serial_number": "MSN-1"},
			wantErrs:   0,
		},
		{
			name:       "aircraft with registration only",
			entityType: registry.EntityAircraft,
			data:       map[string]interface{}{"registration": "N1AB"},
			wantErrs:   0,
		},
		{
			name:       "aircraft missing both identity fields",
			entityType: registry.EntityAircraft,
			data:       map[string]interface{}{"total_hours": 12.0},
			wantErrs:   1,
		},
		{
			name:       "aircraft whitespace-only identity",
			entityType: registry.EntityAircraft,
			data:       map[string]interface{}{"serial_number": "   ", "registration": ""},
			wantErrs:   1,
		},
		{
			name:       "component with position",
			entityType: registry.EntityComponent,
			data:       map[string]interface{}{"position": "ENG-1"},
			wantErrs:   0,
		},
		{
			name:       "component missing position",
			entityType: registry.EntityComponent,
			data:       map[string]interface{}{"part_number": "P-1"},
			wantErrs:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.entityType, tt.data)
			if len(errs) != tt.wantErrs {
				t.Errorf("Validate() = %v, want %d errors", errs, tt.wantErrs)
			}
		})
	}
}
