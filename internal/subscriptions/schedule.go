// Package subscriptions derives delivery schedules for recurring box
// customers.
package subscriptions

import (
	"time"

	"github.com/greenmart/greenmart/internal/records"
)

// Delivery is one planned drop-off.
type Delivery struct {
	Date  time.Time `json:"date"`
	Day   string    `json:"day"`
	Boxes int       `json:"boxes"`
}

var weekdays = map[string]time.Weekday{
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
	"Sunday":    time.Sunday,
}

// Schedule plans the next month of deliveries starting from the reference
// day: every occurrence of the preferred weekday in the next 31 days gets
// an even share of the monthly boxes, with the remainder going to the
// earliest dates. Subscriptions without a fixed day have no schedule.
func Schedule(sub records.Subscription, from time.Time) []Delivery {
	target, ok := weekdays[sub.PreferredDeliveryDay]
	if !ok || sub.BoxesPerMonth <= 0 {
		return nil
	}

	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	var dates []time.Time
	for offset := 0; offset < 31; offset++ {
		day := from.AddDate(0, 0, offset)
		if day.Weekday() == target {
			dates = append(dates, day)
		}
	}
	if len(dates) == 0 {
		return nil
	}

	perDelivery := sub.BoxesPerMonth / len(dates)
	remainder := sub.BoxesPerMonth % len(dates)
	schedule := make([]Delivery, 0, len(dates))
	for i, date := range dates {
		boxes := perDelivery
		if i < remainder {
			boxes++
		}
		schedule = append(schedule, Delivery{Date: date, Day: sub.PreferredDeliveryDay, Boxes: boxes})
	}
	return schedule
}
