package reports

import (
	"testing"
	"time"

	"github.com/greenmart/greenmart/internal/records"
)

func unpaidSale(id string, date time.Time, amount float64) records.Sale {
	return records.Sale{
		ID: id, InvoiceNumber: "INV-" + id, CustomerName: "Customer " + id,
		Date: date, Status: records.StatusUnpaid, TotalAmount: amount,
	}
}

func TestCreditAgingBucketsInclusiveBounds(t *testing.T) {
	p := mustPeriod(t, day(2025, 1, 1), day(2025, 3, 31))
	snap := Snapshot{
		Sales: []records.Sale{
			unpaidSale("a", day(2025, 3, 1), 100),  // 30 days out
			unpaidSale("b", day(2025, 2, 14), 200), // 45 days out
			unpaidSale("c", day(2025, 1, 30), 300), // 60 days out
			unpaidSale("d", day(2025, 1, 5), 400),  // 85 days out
			unpaidSale("e", day(2025, 1, 1), 500),  // 89 days out
		},
	}
	aging := BuildCreditAging(BuildDataset(snap, p))

	byLabel := make(map[string]AgingBucket, len(aging.Buckets))
	for _, b := range aging.Buckets {
		byLabel[b.Label] = b
	}

	if b := byLabel["0-30"]; b.Count != 1 || b.Amount != 100 {
		t.Fatalf("0-30 bucket = %+v, want the 30-day invoice", b)
	}
	if b := byLabel["31-60"]; b.Count != 2 || b.Amount != 500 {
		t.Fatalf("31-60 bucket = %+v, want the 45 and 60 day invoices", b)
	}
	if b := byLabel["61-90"]; b.Count != 2 || b.Amount != 900 {
		t.Fatalf("61-90 bucket = %+v, want the 85 and 89 day invoices", b)
	}
	if b := byLabel["90+"]; b.Count != 0 {
		t.Fatalf("90+ bucket = %+v, want empty", b)
	}

	if aging.InvoiceCount != 5 || aging.TotalUnpaid != 1500 {
		t.Fatalf("totals = %d invoices / %v, want 5 / 1500", aging.InvoiceCount, aging.TotalUnpaid)
	}
}

func TestCreditAgingAverageIsAmountWeighted(t *testing.T) {
	p := mustPeriod(t, day(2025, 1, 1), day(2025, 1, 31))
	snap := Snapshot{
		Sales: []records.Sale{
			unpaidSale("small", day(2025, 1, 31), 100), // 0 days, small
			unpaidSale("large", day(2025, 1, 1), 900),  // 30 days, large
		},
	}
	aging := BuildCreditAging(BuildDataset(snap, p))

	// (0*100 + 30*900) / 1000 = 27, far above the unweighted mean of 15.
	if !approxEqual(aging.AvgDaysOutstanding, 27) {
		t.Fatalf("avg days outstanding = %v, want 27", aging.AvgDaysOutstanding)
	}
}

func TestCreditAgingIgnoresSettledSales(t *testing.T) {
	p := mustPeriod(t, day(2025, 1, 1), day(2025, 1, 31))
	paid := unpaidSale("paid", day(2025, 1, 10), 100)
	paid.Status = records.StatusPaid
	cash := unpaidSale("cash", day(2025, 1, 11), 100)
	cash.Status = records.StatusCash

	snap := Snapshot{Sales: []records.Sale{paid, cash, unpaidSale("open", day(2025, 1, 12), 250)}}
	aging := BuildCreditAging(BuildDataset(snap, p))

	if aging.InvoiceCount != 1 || aging.TotalUnpaid != 250 {
		t.Fatalf("settled sales leaked into aging: %+v", aging)
	}
	if len(aging.Invoices) != 1 || aging.Invoices[0].InvoiceNumber != "INV-open" {
		t.Fatalf("invoice list = %+v", aging.Invoices)
	}
}

func TestCreditAgingEmptyPeriod(t *testing.T) {
	p := mustPeriod(t, day(2025, 6, 1), day(2025, 6, 30))
	aging := BuildCreditAging(BuildDataset(Snapshot{}, p))

	if aging.TotalUnpaid != 0 || aging.AvgDaysOutstanding != 0 {
		t.Fatalf("empty period must report zeros, got %+v", aging)
	}
	if len(aging.Buckets) != 4 {
		t.Fatalf("bucket labels must always be present, got %d", len(aging.Buckets))
	}
}
