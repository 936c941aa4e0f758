package reports

import (
	"math"
	"sort"
)

const (
	// Stock is replenished to cover this many days of average demand.
	coverageTargetDays = 30
	// The demand forecast looks back over this trailing window.
	forecastWindowDays = 30
	forecastTopN       = 20
)

// ReorderSuggestion recommends a purchase quantity for one product.
type ReorderSuggestion struct {
	ProductName    string  `json:"name"`
	DailyAvgQty    float64 `json:"dailyAvgQty"`
	CurrentStock   float64 `json:"currentStock"`
	CoverageDays   float64 `json:"coverageDays"`
	TargetQty      float64 `json:"targetQty"`
	RecommendedQty float64 `json:"recommendedQty"`
}

// ForecastEntry projects 30-day demand for one product.
type ForecastEntry struct {
	ProductName   string  `json:"name"`
	DailyAvgQty   float64 `json:"dailyAvgQty"`
	Forecast30Qty float64 `json:"forecast30dQty"`
}

// BuildReorder computes coverage-based reorder quantities for every
// product sold in the period. Only products that actually need stock
// (recommended quantity > 0) appear, sorted by recommended quantity
// descending.
func BuildReorder(d *Dataset, products []ProductAggregate) []ReorderSuggestion {
	days := float64(d.Period.Days())
	var out []ReorderSuggestion
	for _, p := range products {
		if p.Quantity <= 0 {
			continue
		}
		dailyAvg := p.Quantity / days
		stock := d.StockForName(p.Name).Qty
		target := dailyAvg * coverageTargetDays
		recommended := math.Max(0, roundQty(target-stock))
		if recommended <= 0 {
			continue
		}
		out = append(out, ReorderSuggestion{
			ProductName: p.Name,
			DailyAvgQty: dailyAvg,
			// Zero coverage is reported when demand is zero rather than
			// an infinite horizon.
			CoverageDays:   safeDivide(stock, dailyAvg, 0),
			CurrentStock:   stock,
			TargetQty:      target,
			RecommendedQty: recommended,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RecommendedQty != out[j].RecommendedQty {
			return out[i].RecommendedQty > out[j].RecommendedQty
		}
		return out[i].ProductName < out[j].ProductName
	})
	return out
}

// BuildForecast computes a moving-average demand forecast from the
// trailing 30-day window ending at the report's end date, independent of
// the report's own span. Products without sales in that window are absent.
func BuildForecast(d *Dataset) []ForecastEntry {
	window := d.Period.TrailingWindow(forecastWindowDays)
	qtyByName := make(map[string]float64)
	for _, sale := range d.AllSales {
		if !window.Contains(sale.Date) {
			continue
		}
		for _, li := range sale.LineItems {
			name := li.ProductName
			if name == "" {
				name = UnknownProduct
			}
			qtyByName[name] += li.Quantity
		}
	}

	out := make([]ForecastEntry, 0, len(qtyByName))
	for name, qty := range qtyByName {
		if qty <= 0 {
			continue
		}
		dailyAvg := qty / forecastWindowDays
		out = append(out, ForecastEntry{
			ProductName:   name,
			DailyAvgQty:   dailyAvg,
			Forecast30Qty: dailyAvg * forecastWindowDays,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Forecast30Qty != out[j].Forecast30Qty {
			return out[i].Forecast30Qty > out[j].Forecast30Qty
		}
		return out[i].ProductName < out[j].ProductName
	})
	if len(out) > forecastTopN {
		out = out[:forecastTopN]
	}
	return out
}
