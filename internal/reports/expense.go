package reports

import (
	"sort"
	"strings"
)

// Categories treated as fixed costs. Everything else is variable.
var fixedCategories = map[string]struct{}{
	"rent":      {},
	"salary":    {},
	"utilities": {},
	"insurance": {},
}

// CategoryTotal is one slice of the expense breakdown.
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Fixed    bool    `json:"fixed"`
}

// ExpenseKPI splits period expenses into fixed and variable costs.
type ExpenseKPI struct {
	FixedTotal    float64         `json:"fixedTotal"`
	VariableTotal float64         `json:"variableTotal"`
	FixedPct      float64         `json:"fixedPct"`
	VariablePct   float64         `json:"variablePct"`
	ByCategory    []CategoryTotal `json:"byCategory"`
}

// BuildExpenseKPI classifies the period's expenses by category. Category
// matching is case-insensitive; an empty period reports a 0/0 split.
func BuildExpenseKPI(d *Dataset) ExpenseKPI {
	byCategory := make(map[string]*CategoryTotal)
	var kpi ExpenseKPI
	for _, e := range d.Expenses {
		_, fixed := fixedCategories[strings.ToLower(strings.TrimSpace(e.Category))]
		if fixed {
			kpi.FixedTotal += e.Amount
		} else {
			kpi.VariableTotal += e.Amount
		}
		row, ok := byCategory[e.Category]
		if !ok {
			row = &CategoryTotal{Category: e.Category, Fixed: fixed}
			byCategory[e.Category] = row
		}
		row.Amount += e.Amount
	}

	total := kpi.FixedTotal + kpi.VariableTotal
	kpi.FixedPct = safeDivide(kpi.FixedTotal, total, 0) * 100
	kpi.VariablePct = safeDivide(kpi.VariableTotal, total, 0) * 100

	kpi.ByCategory = make([]CategoryTotal, 0, len(byCategory))
	for _, row := range byCategory {
		kpi.ByCategory = append(kpi.ByCategory, *row)
	}
	sort.Slice(kpi.ByCategory, func(i, j int) bool {
		if kpi.ByCategory[i].Amount != kpi.ByCategory[j].Amount {
			return kpi.ByCategory[i].Amount > kpi.ByCategory[j].Amount
		}
		return kpi.ByCategory[i].Category < kpi.ByCategory[j].Category
	})
	return kpi
}

// CapitalROI relates the period's net profit to the capital locked in
// inventory, valued globally (every lot, every warehouse).
func CapitalROI(netProfit, totalInventoryValue float64) float64 {
	return safeDivide(netProfit, totalInventoryValue, 0) * 100
}
