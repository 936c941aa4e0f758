package reports

import (
	"fmt"
	"sort"

	"github.com/greenmart/greenmart/internal/records"
)

// Kind selects which report the engine assembles.
type Kind string

const (
	KindSales             Kind = "sales"
	KindProfitAndLoss     Kind = "profit-and-loss"
	KindReturns           Kind = "returns"
	KindWarehouseOverview Kind = "warehouse-overview"
	KindCredits           Kind = "credits"
	KindAdvanced          Kind = "advanced"
)

// Kinds lists every report kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindSales, KindProfitAndLoss, KindReturns, KindWarehouseOverview, KindCredits, KindAdvanced}
}

// ParseKind validates a caller-supplied report kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if s == string(k) {
			return k, nil
		}
	}
	return "", fmt.Errorf("reports: unknown report kind %q", s)
}

// Report is the assembled result of one generation. Exactly one of the
// payload fields is set, matching Kind. Values are plain serializable
// structures; formatting and file encoding are downstream concerns.
type Report struct {
	Kind   Kind   `json:"kind"`
	Period Period `json:"period"`
	Days   int    `json:"days"`

	Sales         *SalesAnalysis        `json:"sales,omitempty"`
	ProfitAndLoss *ProfitAndLossSummary `json:"profitAndLoss,omitempty"`
	Returns       *ReturnsAnalysis      `json:"returns,omitempty"`
	Warehouses    *WarehouseOverview    `json:"warehouses,omitempty"`
	Credits       *CreditAging          `json:"credits,omitempty"`
	Advanced      *AdvancedReport       `json:"advanced,omitempty"`
}

// SalesAnalysis is the revenue-focused report for one period.
type SalesAnalysis struct {
	TotalRevenue     float64             `json:"totalRevenue"`
	RetailRevenue    float64             `json:"retailRevenue"`
	WholesaleRevenue float64             `json:"wholesaleRevenue"`
	OrderCount       int                 `json:"orderCount"`
	TopSelling       []ProductAggregate  `json:"topSelling"`
	TopMargin        []ProductAggregate  `json:"topMargin"`
	Customers        []CustomerAggregate `json:"customers"`
}

// ProfitAndLossSummary condenses revenue, cost and expense movements.
type ProfitAndLossSummary struct {
	Revenue       float64    `json:"revenue"`
	COGS          float64    `json:"cogs"`
	GrossMargin   float64    `json:"grossMargin"`
	ReturnsAmount float64    `json:"returnsAmount"`
	ExpenseTotal  float64    `json:"expenseTotal"`
	NetProfit     float64    `json:"netProfit"`
	Expenses      ExpenseKPI `json:"expenses"`
}

// ProductReturnRow is one product's refund activity.
type ProductReturnRow struct {
	ProductName string  `json:"name"`
	Quantity    float64 `json:"quantity"`
	Amount      float64 `json:"amount"`
}

// ReturnsAnalysis summarises refunds in the period.
type ReturnsAnalysis struct {
	ReturnCount   int                `json:"returnCount"`
	TotalRefund   float64            `json:"totalRefund"`
	RefundRatePct float64            `json:"refundRatePct"`
	Products      []ProductReturnRow `json:"products"`
}

// WarehouseSummary is one location's stock position and period activity.
type WarehouseSummary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	StockQty   float64 `json:"stockQty"`
	StockValue float64 `json:"stockValue"`
	Revenue    float64 `json:"revenue"`
	Expenses   float64 `json:"expenses"`
	OrderCount int     `json:"orderCount"`
}

// WarehouseOverview reports per-warehouse stock and activity.
type WarehouseOverview struct {
	Warehouses          []WarehouseSummary `json:"warehouses"`
	TotalInventoryValue float64            `json:"totalInventoryValue"`
}

// AdvancedReport bundles the statistical reports: classification,
// replenishment, forecasting, aging-independent comparison and capital ROI.
type AdvancedReport struct {
	ABC           ABCClassification   `json:"abc"`
	Reorder       []ReorderSuggestion `json:"reorder"`
	Forecast      []ForecastEntry     `json:"forecast"`
	Comparison    PeriodComparison    `json:"comparison"`
	ExpenseKPI    ExpenseKPI          `json:"expenseKpi"`
	CapitalROIPct float64             `json:"capitalRoiPct"`
}

const topProductCount = 10

func buildSalesAnalysis(d *Dataset) *SalesAnalysis {
	out := &SalesAnalysis{}
	for _, sale := range d.Sales {
		out.TotalRevenue += sale.TotalAmount
		out.OrderCount++
		if sale.Channel == records.ChannelWholesale {
			out.WholesaleRevenue += sale.TotalAmount
		} else {
			out.RetailRevenue += sale.TotalAmount
		}
	}
	products := AggregateProducts(d)
	out.TopSelling = TopByRevenue(products, topProductCount)
	out.TopMargin = TopByNetMargin(products, topProductCount)
	out.Customers = AggregateCustomers(d)
	return out
}

func buildProfitAndLoss(d *Dataset) *ProfitAndLossSummary {
	out := &ProfitAndLossSummary{}
	for _, sale := range d.Sales {
		out.Revenue += sale.TotalAmount
	}
	for _, p := range AggregateProducts(d) {
		out.COGS += p.COGS
	}
	for _, ret := range d.Returns {
		out.ReturnsAmount += ret.TotalRefundAmount
	}
	out.Expenses = BuildExpenseKPI(d)
	out.ExpenseTotal = out.Expenses.FixedTotal + out.Expenses.VariableTotal
	out.GrossMargin = out.Revenue - out.COGS
	out.NetProfit = out.Revenue - out.ExpenseTotal - out.ReturnsAmount
	return out
}

func buildReturnsAnalysis(d *Dataset) *ReturnsAnalysis {
	out := &ReturnsAnalysis{ReturnCount: len(d.Returns)}
	var revenue float64
	for _, sale := range d.Sales {
		revenue += sale.TotalAmount
	}
	for _, ret := range d.Returns {
		out.TotalRefund += ret.TotalRefundAmount
	}
	out.RefundRatePct = safeDivide(out.TotalRefund, revenue, 0) * 100

	for _, p := range AggregateProducts(d) {
		if p.ReturnsQty <= 0 && p.ReturnsAmount == 0 {
			continue
		}
		out.Products = append(out.Products, ProductReturnRow{
			ProductName: p.Name,
			Quantity:    p.ReturnsQty,
			Amount:      p.ReturnsAmount,
		})
	}
	sort.Slice(out.Products, func(i, j int) bool {
		if out.Products[i].Amount != out.Products[j].Amount {
			return out.Products[i].Amount > out.Products[j].Amount
		}
		return out.Products[i].ProductName < out.Products[j].ProductName
	})
	return out
}

func buildWarehouseOverview(d *Dataset) *WarehouseOverview {
	byID := make(map[string]*WarehouseSummary, len(d.Warehouses))
	out := &WarehouseOverview{TotalInventoryValue: d.TotalInventoryValue()}
	for _, w := range d.Warehouses {
		byID[w.ID] = &WarehouseSummary{ID: w.ID, Name: w.Name}
	}
	for _, lot := range d.Inventory {
		if w, ok := byID[lot.WarehouseID]; ok {
			w.StockQty += lot.QuantityOnHand
			w.StockValue += lot.QuantityOnHand * lot.CostPerUnit
		}
	}
	for _, sale := range d.Sales {
		if w, ok := byID[sale.WarehouseID]; ok {
			w.Revenue += sale.TotalAmount
			w.OrderCount++
		}
	}
	for _, e := range d.Expenses {
		if w, ok := byID[e.WarehouseID]; ok {
			w.Expenses += e.Amount
		}
	}
	for _, w := range d.Warehouses {
		out.Warehouses = append(out.Warehouses, *byID[w.ID])
	}
	sort.Slice(out.Warehouses, func(i, j int) bool { return out.Warehouses[i].Name < out.Warehouses[j].Name })
	return out
}

func buildAdvanced(d *Dataset) *AdvancedReport {
	products := AggregateProducts(d)
	comparison := BuildComparison(d)
	return &AdvancedReport{
		ABC:           ClassifyABC(products),
		Reorder:       BuildReorder(d, products),
		Forecast:      BuildForecast(d),
		Comparison:    comparison,
		ExpenseKPI:    BuildExpenseKPI(d),
		CapitalROIPct: CapitalROI(comparison.Current.NetProfit, d.TotalInventoryValue()),
	}
}
