package subscriptions

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenmart/greenmart/internal/records"
)

// Monday June 2nd 2025; "tomorrow" is Tuesday the 3rd.
var prepNow = time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildStockPrepSplitsTodayAndTomorrow(t *testing.T) {
	subs := []records.Subscription{
		{
			ID: "sub_1", Name: "Lakshmi Nair", Plan: "Family", Address: "12 Rose St", FlatNo: "3B",
			Status: records.SubscriptionActive, PreferredDeliveryDay: "Monday", BoxesPerMonth: 5,
		},
		{
			ID: "sub_2", Name: "Ravi Menon", Plan: "Solo",
			Status: records.SubscriptionActive, PreferredDeliveryDay: "Tuesday", BoxesPerMonth: 4,
		},
	}
	retail := []records.Sale{
		{
			ID: "sale_1", CustomerName: "Asha", Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			Channel: records.ChannelRetail,
			LineItems: []records.LineItem{
				{ProductName: "Spinach", Quantity: 3},
				{ProductName: "Tomato", Quantity: 2},
			},
		},
		// Outside the two-day window, must not appear.
		{ID: "sale_2", CustomerName: "Late", Date: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)},
	}
	wholesale := []records.Sale{
		{
			ID: "ws_1", CustomerName: "Green Grocer", Date: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
			Channel:   records.ChannelWholesale,
			LineItems: []records.LineItem{{ProductName: "Spinach", Quantity: 10}},
		},
	}

	prep := BuildStockPrep(subs, retail, wholesale, prepNow)

	assert.Equal(t, "Monday", prep.Today.Day)
	assert.Equal(t, "Tuesday", prep.Tomorrow.Day)

	// Today: one subscription box (5 boxes over 5 Mondays) plus the
	// five retail units.
	require.Len(t, prep.Today.Deliveries, 2)
	assert.Equal(t, PrepBreakdown{Subscriptions: 1, Retail: 1}, prep.Today.Breakdown)
	assert.Equal(t, 6.0, prep.Today.TotalBoxes)
	assert.Equal(t, "sub_1", prep.Today.Deliveries[0].ID)
	assert.Equal(t, "12 Rose St", prep.Today.Deliveries[0].Address)
	assert.Equal(t, 1, prep.Today.Deliveries[0].Boxes)

	// Tomorrow: one subscription box plus the ten wholesale units.
	require.Len(t, prep.Tomorrow.Deliveries, 2)
	assert.Equal(t, PrepBreakdown{Subscriptions: 1, Wholesale: 1}, prep.Tomorrow.Breakdown)
	assert.Equal(t, 11.0, prep.Tomorrow.TotalBoxes)
	assert.Equal(t, "Green Grocer", prep.Tomorrow.Deliveries[1].CustomerName)
}

func TestBuildStockPrepSkipsInactiveSubscriptions(t *testing.T) {
	subs := []records.Subscription{
		{
			ID: "sub_1", Name: "Paused Customer",
			Status: records.SubscriptionPaused, PreferredDeliveryDay: "Monday", BoxesPerMonth: 8,
		},
	}

	prep := BuildStockPrep(subs, nil, nil, prepNow)

	assert.Empty(t, prep.Today.Deliveries)
	assert.Empty(t, prep.Tomorrow.Deliveries)
	assert.Zero(t, prep.Today.TotalBoxes)
}

func TestStockPrepEndpoint(t *testing.T) {
	store := records.NewMemoryStore()
	store.AddSubscription(records.Subscription{
		ID: "sub_1", Name: "Lakshmi Nair", Plan: "Family",
		Status: records.SubscriptionActive, PreferredDeliveryDay: "Monday", BoxesPerMonth: 5,
	})
	store.AddSale(records.Sale{
		ID: "sale_1", CustomerName: "Asha", Date: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		Channel:   records.ChannelRetail,
		LineItems: []records.LineItem{{ProductName: "Spinach", Quantity: 2}},
	})

	handler := NewHandler(testLogger(), store)
	handler.WithNow(func() time.Time { return prepNow })
	router := chi.NewRouter()
	handler.MountRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stock-prep", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var prep StockPrep
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prep))
	require.Len(t, prep.Today.Deliveries, 1)
	assert.Equal(t, "Subscription", prep.Today.Deliveries[0].Type)
	require.Len(t, prep.Tomorrow.Deliveries, 1)
	assert.Equal(t, "Retail", prep.Tomorrow.Deliveries[0].Type)
}
