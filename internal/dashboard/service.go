// Package dashboard computes the landing-page statistics and the
// aggregated customer directory from the raw record store.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/greenmart/greenmart/internal/records"
	"github.com/greenmart/greenmart/internal/reports"
)

// DaySales is one day's paid sales activity inside the current month.
type DaySales struct {
	Day             int     `json:"day"`
	Sales           float64 `json:"sales"`
	RetailOrders    int     `json:"retailOrders"`
	WholesaleOrders int     `json:"wholesaleOrders"`
}

// CategoryAmount is one slice of the expense breakdown chart.
type CategoryAmount struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Stats are the current-month headline numbers. Free sales count as an
// expense at their absolute value, not as revenue: giving stock away costs
// the business what the stock was worth.
type Stats struct {
	MonthSales          float64          `json:"currentMonthSales"`
	MonthRetailSales    float64          `json:"currentMonthRetailSales"`
	MonthWholesaleSales float64          `json:"currentMonthWholesaleSales"`
	MonthExpenses       float64          `json:"currentMonthExpenses"`
	NormalExpenses      float64          `json:"currentMonthNormalExpenses"`
	FreeSampleExpense   float64          `json:"freeSampleAsExpense"`
	MonthProfit         float64          `json:"currentMonthProfit"`
	ActiveSubscriptions int              `json:"activeSubscriptions"`
	SalesByDay          []DaySales       `json:"salesByDay"`
	ExpenseBreakdown    []CategoryAmount `json:"expenseBreakdown"`
}

// Customer is the merged view of one buyer across subscriptions, retail
// and wholesale activity.
type Customer struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Types         []string  `json:"types"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	TotalSpent    float64   `json:"totalSpent"`
	OrderCount    int       `json:"orderCount"`
	FirstActivity time.Time `json:"firstActivityDate"`
	LastActivity  time.Time `json:"lastActivityDate"`
}

// Service reads record snapshots and derives dashboard values.
type Service struct {
	store records.Store
	now   func() time.Time
}

// NewService constructs a Service.
func NewService(store records.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Stats aggregates the current calendar month.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	snap, err := reports.LoadSnapshot(ctx, s.store)
	if err != nil {
		return Stats{}, fmt.Errorf("dashboard: load records: %w", err)
	}

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	month := reports.Period{Start: monthStart, End: monthEnd}

	var stats Stats
	byDay := make(map[int]*DaySales)
	for _, sale := range snap.CombinedSales() {
		if !month.Contains(sale.Date) {
			continue
		}
		if sale.Status == records.StatusFree {
			stats.FreeSampleExpense += abs(sale.TotalAmount)
			continue
		}
		stats.MonthSales += sale.TotalAmount
		day := sale.Date.UTC().Day()
		row, ok := byDay[day]
		if !ok {
			row = &DaySales{Day: day}
			byDay[day] = row
		}
		row.Sales += sale.TotalAmount
		if sale.Channel == records.ChannelWholesale {
			stats.MonthWholesaleSales += sale.TotalAmount
			row.WholesaleOrders++
		} else {
			stats.MonthRetailSales += sale.TotalAmount
			row.RetailOrders++
		}
	}

	byCategory := make(map[string]float64)
	for _, e := range snap.Expenses {
		if !month.Contains(e.Date) {
			continue
		}
		stats.NormalExpenses += e.Amount
		byCategory[e.Category] += e.Amount
	}
	stats.MonthExpenses = stats.NormalExpenses + stats.FreeSampleExpense
	stats.MonthProfit = stats.MonthSales - stats.MonthExpenses

	for _, sub := range snap.Subscriptions {
		if sub.Status == records.SubscriptionActive {
			stats.ActiveSubscriptions++
		}
	}

	for _, row := range byDay {
		stats.SalesByDay = append(stats.SalesByDay, *row)
	}
	sort.Slice(stats.SalesByDay, func(i, j int) bool { return stats.SalesByDay[i].Day < stats.SalesByDay[j].Day })

	for name, value := range byCategory {
		stats.ExpenseBreakdown = append(stats.ExpenseBreakdown, CategoryAmount{Name: name, Value: value})
	}
	sort.Slice(stats.ExpenseBreakdown, func(i, j int) bool {
		if stats.ExpenseBreakdown[i].Value != stats.ExpenseBreakdown[j].Value {
			return stats.ExpenseBreakdown[i].Value > stats.ExpenseBreakdown[j].Value
		}
		return stats.ExpenseBreakdown[i].Name < stats.ExpenseBreakdown[j].Name
	})

	return stats, nil
}

// Customers merges subscriptions, retail and wholesale buyers into one
// directory. Identity is name plus phone; retail sales carry no phone, so
// retail-only buyers with the same name still collapse into one entry.
func (s *Service) Customers(ctx context.Context) ([]Customer, error) {
	snap, err := reports.LoadSnapshot(ctx, s.store)
	if err != nil {
		return nil, fmt.Errorf("dashboard: load records: %w", err)
	}

	byKey := make(map[string]*Customer)
	get := func(key, id, name string, first time.Time) *Customer {
		c, ok := byKey[key]
		if !ok {
			c = &Customer{ID: id, Name: name, FirstActivity: first, LastActivity: first}
			byKey[key] = c
		}
		return c
	}
	touch := func(c *Customer, t time.Time, kind string) {
		if t.Before(c.FirstActivity) {
			c.FirstActivity = t
		}
		if t.After(c.LastActivity) {
			c.LastActivity = t
		}
		for _, existing := range c.Types {
			if existing == kind {
				return
			}
		}
		c.Types = append(c.Types, kind)
	}

	for _, sub := range snap.Subscriptions {
		c := get(customerKey(sub.Name, sub.Phone), sub.ID, sub.Name, sub.StartDate)
		c.Email = sub.Email
		c.Phone = sub.Phone
		c.Address = sub.Address
		touch(c, sub.StartDate, "Subscription")
	}
	for _, sale := range snap.Sales {
		c := get(customerKey(sale.CustomerName, ""), sale.ID, sale.CustomerName, sale.Date)
		c.TotalSpent += sale.TotalAmount
		c.OrderCount++
		touch(c, sale.Date, "Retail")
	}
	for _, sale := range snap.Wholesale {
		c := get(customerKey(sale.CustomerName, ""), sale.ID, sale.CustomerName, sale.Date)
		c.TotalSpent += sale.TotalAmount
		c.OrderCount++
		touch(c, sale.Date, "Wholesale")
	}

	customers := make([]Customer, 0, len(byKey))
	for _, c := range byKey {
		sort.Strings(c.Types)
		customers = append(customers, *c)
	}
	sort.Slice(customers, func(i, j int) bool {
		if customers[i].TotalSpent != customers[j].TotalSpent {
			return customers[i].TotalSpent > customers[j].TotalSpent
		}
		return customers[i].Name < customers[j].Name
	})
	return customers, nil
}

func customerKey(name, phone string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "-" + strings.TrimSpace(phone)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
