package reports

import "sort"

// ProductAggregate is the per-product revenue and margin roll-up for one
// period. COGS uses the average inventory cost per unit; products with no
// stocked lots carry a zero cost basis, which understates margin for
// service items. That approximation is deliberate.
type ProductAggregate struct {
	Name           string  `json:"name"`
	Quantity       float64 `json:"quantity"`
	Revenue        float64 `json:"revenue"`
	COGS           float64 `json:"cogs"`
	GrossMargin    float64 `json:"grossMargin"`
	GrossMarginPct float64 `json:"grossMarginPct"`
	ReturnsQty     float64 `json:"returnsQty"`
	ReturnsAmount  float64 `json:"returnsAmount"`
	NetMargin      float64 `json:"netMargin"`
	InventoryValue float64 `json:"inventoryValue"`
	ROIPercent     float64 `json:"roiPercent"`
}

// CustomerAggregate rolls revenue and refunds up per customer name.
// Returns are matched to customers by name, best effort.
type CustomerAggregate struct {
	Name       string  `json:"name"`
	Revenue    float64 `json:"revenue"`
	Returns    float64 `json:"returns"`
	NetRevenue float64 `json:"netRevenue"`
	OrderCount int     `json:"orderCount"`
}

// AggregateProducts reduces the filtered sales and returns into immutable
// per-product aggregates, sorted by name for a deterministic base order.
// Revenue here is recomputed from line items (qty*unitPrice); the stored
// invoice total is only authoritative for whole-sale revenue figures.
func AggregateProducts(d *Dataset) []ProductAggregate {
	acc := make(map[string]*ProductAggregate)
	get := func(name string) *ProductAggregate {
		if name == "" {
			name = UnknownProduct
		}
		row, ok := acc[name]
		if !ok {
			row = &ProductAggregate{Name: name}
			acc[name] = row
		}
		return row
	}

	for _, sale := range d.Sales {
		for _, li := range sale.LineItems {
			row := get(li.ProductName)
			row.Quantity += li.Quantity
			row.Revenue += li.LineTotal()
		}
	}

	for _, ret := range d.Returns {
		for _, item := range ret.ReturnedItems {
			row := get(d.Resolver.NameByID(item.ProductID))
			row.ReturnsQty += item.Quantity
			row.ReturnsAmount += item.RefundTotal()
		}
	}

	rows := make([]ProductAggregate, 0, len(acc))
	for name, row := range acc {
		stock := d.StockForName(name)
		row.COGS = row.Quantity * stock.AvgCost
		row.InventoryValue = stock.Value
		row.GrossMargin = row.Revenue - row.COGS
		row.NetMargin = row.GrossMargin - row.ReturnsAmount
		row.GrossMarginPct = safeDivide(row.GrossMargin, row.Revenue, 0) * 100
		row.ROIPercent = safeDivide(row.NetMargin, row.InventoryValue, 0) * 100
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}

// AggregateCustomers reduces the filtered sales and returns into
// per-customer aggregates, sorted by net revenue descending.
func AggregateCustomers(d *Dataset) []CustomerAggregate {
	acc := make(map[string]*CustomerAggregate)
	get := func(name string) *CustomerAggregate {
		row, ok := acc[name]
		if !ok {
			row = &CustomerAggregate{Name: name}
			acc[name] = row
		}
		return row
	}

	for _, sale := range d.Sales {
		row := get(sale.CustomerName)
		row.Revenue += sale.TotalAmount
		row.OrderCount++
	}
	for _, ret := range d.Returns {
		get(ret.CustomerName).Returns += ret.TotalRefundAmount
	}

	rows := make([]CustomerAggregate, 0, len(acc))
	for _, row := range acc {
		row.NetRevenue = row.Revenue - row.Returns
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].NetRevenue != rows[j].NetRevenue {
			return rows[i].NetRevenue > rows[j].NetRevenue
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// TopByRevenue returns the n best-selling products by revenue, ties broken
// by name ascending.
func TopByRevenue(rows []ProductAggregate, n int) []ProductAggregate {
	return topBy(rows, n, func(p ProductAggregate) float64 { return p.Revenue })
}

// TopByNetMargin returns the n most profitable products by net margin.
func TopByNetMargin(rows []ProductAggregate, n int) []ProductAggregate {
	return topBy(rows, n, func(p ProductAggregate) float64 { return p.NetMargin })
}

func topBy(rows []ProductAggregate, n int, metric func(ProductAggregate) float64) []ProductAggregate {
	sorted := make([]ProductAggregate, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		mi, mj := metric(sorted[i]), metric(sorted[j])
		if mi != mj {
			return mi > mj
		}
		return sorted[i].Name < sorted[j].Name
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
