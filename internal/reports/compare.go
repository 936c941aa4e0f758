package reports

// PeriodTotals are the headline figures for one window.
type PeriodTotals struct {
	Period    Period  `json:"period"`
	Revenue   float64 `json:"revenue"`
	Expenses  float64 `json:"expenses"`
	Returns   float64 `json:"returns"`
	NetProfit float64 `json:"netProfit"`
}

// PeriodComparison is a like-for-like comparison of the current window
// against the equal-length window immediately preceding it. The previous
// window slides; it is not aligned to calendar months.
type PeriodComparison struct {
	Current          PeriodTotals `json:"current"`
	Previous         PeriodTotals `json:"previous"`
	RevenueChangePct float64      `json:"revenueChangePct"`
	ExpenseChangePct float64      `json:"expenseChangePct"`
	ProfitChangePct  float64      `json:"profitChangePct"`
}

// BuildComparison computes current-vs-previous period deltas from the
// unfiltered record views held by the dataset.
func BuildComparison(d *Dataset) PeriodComparison {
	current := totalsFor(d, d.Period)
	previous := totalsFor(d, d.Period.Previous())
	return PeriodComparison{
		Current:          current,
		Previous:         previous,
		RevenueChangePct: changePct(current.Revenue, previous.Revenue),
		ExpenseChangePct: changePct(current.Expenses, previous.Expenses),
		ProfitChangePct:  changePct(current.NetProfit, previous.NetProfit),
	}
}

func totalsFor(d *Dataset, p Period) PeriodTotals {
	t := PeriodTotals{Period: p}
	for _, sale := range d.AllSales {
		if p.Contains(sale.Date) {
			t.Revenue += sale.TotalAmount
		}
	}
	for _, e := range d.AllExpenses {
		if p.Contains(e.Date) {
			t.Expenses += e.Amount
		}
	}
	for _, ret := range d.AllReturns {
		if p.Contains(ret.Date) {
			t.Returns += ret.TotalRefundAmount
		}
	}
	t.NetProfit = t.Revenue - t.Expenses - t.Returns
	return t
}

func changePct(current, previous float64) float64 {
	return safeDivide(current-previous, previous, 0) * 100
}
