package subscriptions

import (
	"time"

	"github.com/greenmart/greenmart/internal/records"
)

// PrepDelivery is one drop-off due on a prep day, from any order source.
type PrepDelivery struct {
	Type         string             `json:"type"`
	ID           string             `json:"id"`
	CustomerName string             `json:"customerName"`
	Address      string             `json:"address,omitempty"`
	FlatNo       string             `json:"flatNo,omitempty"`
	Phone        string             `json:"phone,omitempty"`
	Plan         string             `json:"plan,omitempty"`
	Boxes        int                `json:"boxes,omitempty"`
	Products     []records.LineItem `json:"products,omitempty"`
	DeliveryDate time.Time          `json:"deliveryDate"`
}

// PrepBreakdown counts deliveries by order source.
type PrepBreakdown struct {
	Subscriptions int `json:"subscriptions"`
	Retail        int `json:"retail"`
	Wholesale     int `json:"wholesale"`
}

// PrepDay is everything due on one day: the deliveries themselves plus
// the box total the packing crew works from.
type PrepDay struct {
	Date       time.Time      `json:"date"`
	Day        string         `json:"day"`
	Deliveries []PrepDelivery `json:"deliveries"`
	TotalBoxes float64        `json:"totalBoxes"`
	Breakdown  PrepBreakdown  `json:"breakdown"`
}

// StockPrep is the two-day packing view for the warehouse crew.
type StockPrep struct {
	Today    PrepDay `json:"today"`
	Tomorrow PrepDay `json:"tomorrow"`
}

// BuildStockPrep assembles the packing view for now's date and the day
// after: planned deliveries of active subscriptions falling on either day,
// plus retail and wholesale orders dated on either day. Subscription
// deliveries count by boxes; sale deliveries count by line quantities.
func BuildStockPrep(subs []records.Subscription, retail, wholesale []records.Sale, now time.Time) StockPrep {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	prep := StockPrep{
		Today:    PrepDay{Date: today, Day: today.Weekday().String(), Deliveries: []PrepDelivery{}},
		Tomorrow: PrepDay{Date: tomorrow, Day: tomorrow.Weekday().String(), Deliveries: []PrepDelivery{}},
	}

	add := func(date time.Time, d PrepDelivery) {
		var day *PrepDay
		switch {
		case sameDate(date, today):
			day = &prep.Today
		case sameDate(date, tomorrow):
			day = &prep.Tomorrow
		default:
			return
		}
		day.Deliveries = append(day.Deliveries, d)
		switch d.Type {
		case "Subscription":
			day.Breakdown.Subscriptions++
			day.TotalBoxes += float64(d.Boxes)
		case "Retail":
			day.Breakdown.Retail++
			day.TotalBoxes += lineQuantity(d.Products)
		case "Wholesale":
			day.Breakdown.Wholesale++
			day.TotalBoxes += lineQuantity(d.Products)
		}
	}

	for _, sub := range subs {
		if sub.Status != records.SubscriptionActive {
			continue
		}
		for _, delivery := range Schedule(sub, today) {
			add(delivery.Date, PrepDelivery{
				Type:         "Subscription",
				ID:           sub.ID,
				CustomerName: sub.Name,
				Address:      sub.Address,
				FlatNo:       sub.FlatNo,
				Phone:        sub.Phone,
				Plan:         sub.Plan,
				Boxes:        delivery.Boxes,
				DeliveryDate: delivery.Date,
			})
		}
	}

	for _, sale := range retail {
		add(sale.Date, PrepDelivery{
			Type:         "Retail",
			ID:           sale.ID,
			CustomerName: sale.CustomerName,
			Products:     sale.LineItems,
			DeliveryDate: sale.Date,
		})
	}

	for _, sale := range wholesale {
		add(sale.Date, PrepDelivery{
			Type:         "Wholesale",
			ID:           sale.ID,
			CustomerName: sale.CustomerName,
			Products:     sale.LineItems,
			DeliveryDate: sale.Date,
		})
	}

	return prep
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func lineQuantity(items []records.LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Quantity
	}
	return total
}
