package subscriptions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenmart/greenmart/internal/records"
)

func TestScheduleEvenSplitWithRemainderFirst(t *testing.T) {
	sub := records.Subscription{
		Name:                 "Lakshmi Nair",
		PreferredDeliveryDay: "Monday",
		BoxesPerMonth:        10,
		Status:               records.SubscriptionActive,
	}
	// Sunday June 1st 2025: Mondays land on the 2nd, 9th, 16th, 23rd, 30th.
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	deliveries := Schedule(sub, from)
	require.Len(t, deliveries, 5)

	var total int
	for i, d := range deliveries {
		assert.Equal(t, time.Monday, d.Date.Weekday())
		assert.Equal(t, "Monday", d.Day)
		if i > 0 {
			assert.True(t, d.Date.After(deliveries[i-1].Date), "dates must ascend")
		}
		total += d.Boxes
	}
	assert.Equal(t, 10, total, "every box must be scheduled")

	// 10 boxes over 5 Mondays: an even 2 each.
	for _, d := range deliveries {
		assert.Equal(t, 2, d.Boxes)
	}
}

func TestScheduleRemainderGoesToEarliestDates(t *testing.T) {
	sub := records.Subscription{
		PreferredDeliveryDay: "Monday",
		BoxesPerMonth:        7,
	}
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	deliveries := Schedule(sub, from)
	require.Len(t, deliveries, 5)

	// 7 boxes over 5 Mondays: the first two dates carry the extras.
	assert.Equal(t, []int{2, 2, 1, 1, 1}, []int{
		deliveries[0].Boxes, deliveries[1].Boxes, deliveries[2].Boxes,
		deliveries[3].Boxes, deliveries[4].Boxes,
	})
}

func TestScheduleStartsOnReferenceDay(t *testing.T) {
	sub := records.Subscription{
		PreferredDeliveryDay: "Wednesday",
		BoxesPerMonth:        4,
	}
	// Wednesday itself counts as the first occurrence.
	from := time.Date(2025, 6, 4, 15, 45, 0, 0, time.UTC)

	deliveries := Schedule(sub, from)
	require.NotEmpty(t, deliveries)
	assert.Equal(t, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), deliveries[0].Date)
}

func TestScheduleWithoutPreferredDay(t *testing.T) {
	assert.Nil(t, Schedule(records.Subscription{BoxesPerMonth: 8}, time.Now()))
	assert.Nil(t, Schedule(records.Subscription{PreferredDeliveryDay: "Someday", BoxesPerMonth: 8}, time.Now()))
	assert.Nil(t, Schedule(records.Subscription{PreferredDeliveryDay: "Monday"}, time.Now()))
}
