package reports

import (
	"time"

	"github.com/greenmart/greenmart/internal/records"
)

// AgingBucket groups unpaid invoice amounts by days outstanding. Bounds
// are inclusive: an invoice 30 days out sits in 0-30, one 31 days out in
// 31-60.
type AgingBucket struct {
	Label  string  `json:"label"`
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// UnpaidInvoice is one outstanding sale in the credit report.
type UnpaidInvoice struct {
	InvoiceNumber   string    `json:"invoiceNumber"`
	CustomerName    string    `json:"customerName"`
	Channel         string    `json:"channel"`
	Date            time.Time `json:"date"`
	Amount          float64   `json:"amount"`
	DaysOutstanding int       `json:"daysOutstanding"`
}

// CreditAging is the unpaid-invoice aging report for one period.
type CreditAging struct {
	Buckets            []AgingBucket   `json:"buckets"`
	Invoices           []UnpaidInvoice `json:"invoices"`
	TotalUnpaid        float64         `json:"totalUnpaid"`
	InvoiceCount       int             `json:"invoiceCount"`
	AvgDaysOutstanding float64         `json:"avgDaysOutstanding"`
}

var agingBounds = []struct {
	label string
	max   int
}{
	{"0-30", 30},
	{"31-60", 60},
	{"61-90", 90},
	{"90+", -1},
}

// BuildCreditAging buckets unpaid sales in the period by how long they
// have been outstanding relative to the period end. The average is
// amount-weighted so a large old invoice moves it more than many small
// recent ones.
func BuildCreditAging(d *Dataset) CreditAging {
	out := CreditAging{Buckets: make([]AgingBucket, len(agingBounds))}
	for i, b := range agingBounds {
		out.Buckets[i].Label = b.label
	}

	var weightedDays float64
	for _, sale := range d.Sales {
		if sale.Status != records.StatusUnpaid {
			continue
		}
		days := int(d.Period.End.Sub(DayStart(sale.Date)).Hours() / 24)
		if days < 0 {
			days = 0
		}
		idx := len(agingBounds) - 1
		for i, b := range agingBounds {
			if b.max >= 0 && days <= b.max {
				idx = i
				break
			}
		}
		out.Buckets[idx].Count++
		out.Buckets[idx].Amount += sale.TotalAmount
		out.TotalUnpaid += sale.TotalAmount
		out.InvoiceCount++
		weightedDays += float64(days) * sale.TotalAmount
		out.Invoices = append(out.Invoices, UnpaidInvoice{
			InvoiceNumber:   sale.InvoiceNumber,
			CustomerName:    sale.CustomerName,
			Channel:         string(sale.Channel),
			Date:            sale.Date,
			Amount:          sale.TotalAmount,
			DaysOutstanding: days,
		})
	}

	out.AvgDaysOutstanding = safeDivide(weightedDays, out.TotalUnpaid, 0)
	return out
}
