package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenmart/greenmart/internal/records"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 18, 10, 30, 0, 0, time.UTC)
}

func juneDay(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func newStatsStore() *records.MemoryStore {
	store := records.NewMemoryStore()
	store.AddSale(records.Sale{
		ID: "sale_1", CustomerName: "Asha", Date: juneDay(3),
		Status: records.StatusPaid, Channel: records.ChannelRetail, TotalAmount: 500,
	})
	store.AddSale(records.Sale{
		ID: "sale_2", CustomerName: "Asha", Date: juneDay(3),
		Status: records.StatusCash, Channel: records.ChannelRetail, TotalAmount: 300,
	})
	store.AddSale(records.Sale{
		ID: "sale_3", CustomerName: "Hotel Sunrise", Date: juneDay(10),
		Status: records.StatusUnpaid, Channel: records.ChannelWholesale, TotalAmount: 2000,
	})
	store.AddSale(records.Sale{
		ID: "sale_free", CustomerName: "Ravi", Date: juneDay(12),
		Status: records.StatusFree, Channel: records.ChannelRetail, TotalAmount: 150,
	})
	// Outside the current month.
	store.AddSale(records.Sale{
		ID: "sale_old", CustomerName: "Asha", Date: time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
		Status: records.StatusPaid, Channel: records.ChannelRetail, TotalAmount: 9999,
	})
	store.AddExpense(records.Expense{ID: "exp_1", Category: "Rent", Amount: 800, Date: juneDay(1)})
	store.AddExpense(records.Expense{ID: "exp_2", Category: "Fuel", Amount: 200, Date: juneDay(5)})
	store.AddSubscription(records.Subscription{ID: "sub_1", Name: "Lakshmi", Phone: "111", Status: records.SubscriptionActive, StartDate: juneDay(1)})
	store.AddSubscription(records.Subscription{ID: "sub_2", Name: "Joseph", Phone: "222", Status: records.SubscriptionPaused, StartDate: juneDay(1)})
	return store
}

func TestStatsCurrentMonth(t *testing.T) {
	svc := NewService(newStatsStore())
	svc.WithNow(fixedNow)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2800.0, stats.MonthSales, "free and prior-month sales excluded")
	assert.Equal(t, 800.0, stats.MonthRetailSales)
	assert.Equal(t, 2000.0, stats.MonthWholesaleSales)

	// Free sales cost the business their value.
	assert.Equal(t, 150.0, stats.FreeSampleExpense)
	assert.Equal(t, 1000.0, stats.NormalExpenses)
	assert.Equal(t, 1150.0, stats.MonthExpenses)
	assert.Equal(t, 2800.0-1150.0, stats.MonthProfit)

	assert.Equal(t, 1, stats.ActiveSubscriptions)
}

func TestStatsSalesByDay(t *testing.T) {
	svc := NewService(newStatsStore())
	svc.WithNow(fixedNow)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	require.Len(t, stats.SalesByDay, 2)
	assert.Equal(t, 3, stats.SalesByDay[0].Day)
	assert.Equal(t, 800.0, stats.SalesByDay[0].Sales)
	assert.Equal(t, 2, stats.SalesByDay[0].RetailOrders)
	assert.Equal(t, 10, stats.SalesByDay[1].Day)
	assert.Equal(t, 1, stats.SalesByDay[1].WholesaleOrders)
}

func TestStatsExpenseBreakdownSorted(t *testing.T) {
	svc := NewService(newStatsStore())
	svc.WithNow(fixedNow)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	require.Len(t, stats.ExpenseBreakdown, 2)
	assert.Equal(t, "Rent", stats.ExpenseBreakdown[0].Name)
	assert.Equal(t, 800.0, stats.ExpenseBreakdown[0].Value)
	assert.Equal(t, "Fuel", stats.ExpenseBreakdown[1].Name)
}

func TestCustomersMergeByNameAndPhone(t *testing.T) {
	store := records.NewMemoryStore()
	store.AddSubscription(records.Subscription{
		ID: "sub_1", Name: "Lakshmi Nair", Phone: "111", Email: "ln@example.com",
		Status: records.SubscriptionActive, StartDate: juneDay(1),
	})
	// Same name, different casing and spacing, no phone: separate identity
	// from the subscription but shared with other phoneless sales.
	store.AddSale(records.Sale{
		ID: "sale_1", CustomerName: "  lakshmi nair ", Date: juneDay(5),
		Status: records.StatusPaid, Channel: records.ChannelRetail, TotalAmount: 400,
	})
	store.AddSale(records.Sale{
		ID: "sale_2", CustomerName: "Lakshmi Nair", Date: juneDay(8),
		Status: records.StatusPaid, Channel: records.ChannelWholesale, TotalAmount: 600,
	})

	svc := NewService(store)
	svc.WithNow(fixedNow)

	customers, err := svc.Customers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 2)

	// Sales collapse into one buyer with both channel types.
	buyer := customers[0]
	assert.Equal(t, 1000.0, buyer.TotalSpent)
	assert.Equal(t, 2, buyer.OrderCount)
	assert.Equal(t, []string{"Retail", "Wholesale"}, buyer.Types)
	assert.Equal(t, juneDay(5), buyer.FirstActivity)
	assert.Equal(t, juneDay(8), buyer.LastActivity)

	subscriber := customers[1]
	assert.Equal(t, []string{"Subscription"}, subscriber.Types)
	assert.Equal(t, "ln@example.com", subscriber.Email)
	assert.Equal(t, 0.0, subscriber.TotalSpent)
}
