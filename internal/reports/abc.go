package reports

import (
	"math"
	"sort"
)

// Pareto boundaries for ABC classification, as cumulative revenue shares.
const (
	abcBoundaryA = 0.80
	abcBoundaryB = 0.95
)

// ABCClass summarises one Pareto class.
type ABCClass struct {
	Class        string   `json:"class"`
	ProductCount int      `json:"productCount"`
	Revenue      float64  `json:"revenue"`
	RevenueShare float64  `json:"revenueShare"`
	Margin       float64  `json:"margin"`
	MarginShare  float64  `json:"marginShare"`
	Products     []string `json:"products"`
}

// ABCClassification partitions every product into exactly one class.
type ABCClassification struct {
	Classes      []ABCClass `json:"classes"`
	TotalRevenue float64    `json:"totalRevenue"`
}

// ClassifyABC groups products by cumulative revenue share: products are
// class A while the share accumulated before them is under 80%, class B
// under 95%, class C after. A product that lands exactly on the 80% line
// is therefore the last A; the one after it opens class B.
func ClassifyABC(rows []ProductAggregate) ABCClassification {
	sorted := make([]ProductAggregate, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Revenue != sorted[j].Revenue {
			return sorted[i].Revenue > sorted[j].Revenue
		}
		return sorted[i].Name < sorted[j].Name
	})

	var totalRevenue float64
	for _, p := range sorted {
		totalRevenue += p.Revenue
	}

	classes := []ABCClass{{Class: "A"}, {Class: "B"}, {Class: "C"}}
	var running float64
	for _, p := range sorted {
		share := safeDivide(running, totalRevenue, 0)
		idx := 2
		switch {
		case share < abcBoundaryA:
			idx = 0
		case share < abcBoundaryB:
			idx = 1
		}
		cls := &classes[idx]
		cls.ProductCount++
		cls.Revenue += p.Revenue
		cls.Margin += p.NetMargin
		cls.Products = append(cls.Products, p.Name)
		running += p.Revenue
	}

	var totalMargin float64
	for _, cls := range classes {
		totalMargin += cls.Margin
	}
	// The margin-share denominator sums across the three classes and is
	// floored at 1 so the split stays stable when total margin is zero or
	// negative.
	marginDenom := math.Max(totalMargin, 1)
	for i := range classes {
		classes[i].RevenueShare = safeDivide(classes[i].Revenue, totalRevenue, 0) * 100
		classes[i].MarginShare = classes[i].Margin / marginDenom * 100
	}

	return ABCClassification{Classes: classes, TotalRevenue: totalRevenue}
}
