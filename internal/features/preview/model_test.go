package preview

import (
	"testing"

	"github.com/periljames/amo-portal-sub002/internal/providers"
	"github.com/periljames/amo-portal-sub002/internal/reconcile"
)

func TestApprovedCount_Embedded(t *testing.T) {
	sess := &Session{Mode: ModeEmbedded}
	sess.Rows = []reconcile.Row{
		{RowNumber: 1, Approved: true},
		{RowNumber: 2, Approved: true},
		{RowNumber: 3, Approved: false},
		{RowNumber: 4, Approved: true, Errors: []string{"missing serial number"}},
	}

	if got := sess.ApprovedCount(); got != 2 {
		t.Errorf("ApprovedCount() = %d, want 2", got)
	}
}

func TestApprovedCount_WindowedDerivation(t *testing.T) {
	// 10 new + 5 updates from the parse, one valid row rejected by the user,
	// one invalid row repaired and approved. 10 + 5 - 1 + 1 = 15.
	sess := &Session{
		Mode:         ModeWindowed,
		Summary:      providers.Summary{New: 10, Update: 5, Invalid: 3},
		RowOverrides: map[int]reconcile.Row{},
	}

	sess.RowOverrides[4] = reconcile.Row{
		RowNumber: 4,
		Action:    reconcile.ActionUpdate,
		Approved:  false,
	}
	sess.RowOverrides[12] = reconcile.Row{
		RowNumber: 12,
		Action:    reconcile.ActionInvalid,
		Approved:  true, // errors fixed by edits, then approved
	}

	if got := sess.ApprovedCount(); got != 15 {
		t.Errorf("ApprovedCount() = %d, want 15", got)
	}
}

func TestApprovedCount_WindowedInvalidStillBroken(t *testing.T) {
	sess := &Session{
		Mode:         ModeWindowed,
		Summary:      providers.Summary{New: 8, Update: 0, Invalid: 2},
		RowOverrides: map[int]reconcile.Row{},
	}

	// approved flag set but errors remain, so it must not count
	sess.RowOverrides[9] = reconcile.Row{
		RowNumber: 9,
		Action:    reconcile.ActionInvalid,
		Approved:  true,
		Errors:    []string{"position is required"},
	}
	// untouched-value edits on a valid row leave the count alone
	sess.RowOverrides[2] = reconcile.Row{
		RowNumber: 2,
		Action:    reconcile.ActionNew,
		Approved:  true,
	}

	if got := sess.ApprovedCount(); got != 8 {
		t.Errorf("ApprovedCount() = %d, want 8", got)
	}
}

func TestDerivedSummary_EmbeddedRecounts(t *testing.T) {
	sess := &Session{Mode: ModeEmbedded}
	sess.Rows = []reconcile.Row{
		{RowNumber: 1, Action: reconcile.ActionNew},
		{RowNumber: 2, Action: reconcile.ActionUpdate},
		{RowNumber: 3, Action: reconcile.ActionInvalid, Errors: []string{"bad"}},
		{RowNumber: 4, Action: reconcile.ActionNew},
	}

	got := sess.DerivedSummary()
	want := providers.Summary{New: 2, Update: 1, Invalid: 1}
	if got != want {
		t.Errorf("DerivedSummary() = %+v, want %+v", got, want)
	}
}

func TestSetRow_WindowedStoresOverride(t *testing.T) {
	sess := &Session{Mode: ModeWindowed, RowOverrides: map[int]reconcile.Row{}}

	sess.SetRow(reconcile.Row{RowNumber: 42, Approved: true})

	row := sess.Row(42)
	if row == nil || !row.Approved {
		t.Fatal("windowed SetRow should store an override retrievable by Row()")
	}
	if sess.Row(43) != nil {
		t.Error("Row() should be nil for non-resident rows")
	}
}
