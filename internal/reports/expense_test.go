package reports

import (
	"testing"

	"github.com/greenmart/greenmart/internal/records"
)

func TestBuildExpenseKPISplitsFixedAndVariable(t *testing.T) {
	snap := Snapshot{
		Expenses: []records.Expense{
			{ID: "e1", Category: "Rent", Amount: 600, Date: day(2025, 1, 2)},
			{ID: "e2", Category: " SALARY ", Amount: 400, Date: day(2025, 1, 3)},
			{ID: "e3", Category: "Fuel", Amount: 150, Date: day(2025, 1, 4)},
			{ID: "e4", Category: "Packaging", Amount: 50, Date: day(2025, 1, 5)},
		},
	}
	p := mustPeriod(t, day(2025, 1, 1), day(2025, 1, 31))
	kpi := BuildExpenseKPI(BuildDataset(snap, p))

	if kpi.FixedTotal != 1000 {
		t.Fatalf("fixed total = %v, want 1000 (category match is case-insensitive)", kpi.FixedTotal)
	}
	if kpi.VariableTotal != 200 {
		t.Fatalf("variable total = %v, want 200", kpi.VariableTotal)
	}
	if !approxEqual(kpi.FixedPct+kpi.VariablePct, 100) {
		t.Fatalf("split percentages sum to %v, want 100", kpi.FixedPct+kpi.VariablePct)
	}
	if len(kpi.ByCategory) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(kpi.ByCategory))
	}
	if kpi.ByCategory[0].Category != "Rent" || !kpi.ByCategory[0].Fixed {
		t.Fatalf("largest category first, got %+v", kpi.ByCategory[0])
	}
}

func TestBuildExpenseKPIEmptyPeriod(t *testing.T) {
	p := mustPeriod(t, day(2025, 1, 1), day(2025, 1, 31))
	kpi := BuildExpenseKPI(BuildDataset(Snapshot{}, p))

	if kpi.FixedPct != 0 || kpi.VariablePct != 0 {
		t.Fatalf("empty period split = %v/%v, want 0/0", kpi.FixedPct, kpi.VariablePct)
	}
}

func TestCapitalROI(t *testing.T) {
	if got := CapitalROI(500, 2000); !approxEqual(got, 25) {
		t.Fatalf("roi = %v, want 25", got)
	}
	if got := CapitalROI(500, 0); got != 0 {
		t.Fatalf("roi with no inventory = %v, want 0", got)
	}
	if got := CapitalROI(-100, 1000); !approxEqual(got, -10) {
		t.Fatalf("negative profit roi = %v, want -10", got)
	}
}
