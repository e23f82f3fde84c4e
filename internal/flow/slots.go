package flow

import (
	"context"
	"time"

	"github.com/techsolutions/assistente/internal/store"
)

// Business-hour start times offered for meetings, local to São Paulo.
var businessHours = []int{9, 11, 14, 16}

const (
	maxSlots     = 6
	slotHorizon  = 7 // calendar days to look ahead
	slotTimeZone = "America/Sao_Paulo"
)

var slotLocation = loadSlotLocation()

func loadSlotLocation() *time.Location {
	loc, err := time.LoadLocation(slotTimeZone)
	if err != nil {
		return time.FixedZone("BRT", -3*60*60)
	}
	return loc
}

// FormatSlot renders a slot the way it is offered to users and stored with
// bookings: "dd/mm/yyyy HH:MM BRT".
func FormatSlot(t time.Time) string {
	return t.In(slotLocation).Format("02/01/2006 15:04") + " BRT"
}

// GenerateSlots returns up to six future business-hour slots over the next
// seven calendar days, skipping weekends and any slot already booked. The
// bookings store being unreadable is reported but still yields slots, as if
// nothing were booked.
func GenerateSlots(ctx context.Context, bookings store.BookingStore, now time.Time) ([]string, error) {
	booked := make(map[string]struct{})
	existing, err := bookings.LoadAll(ctx)
	for _, b := range existing {
		booked[b.Slot] = struct{}{}
	}

	local := now.In(slotLocation)
	slots := make([]string, 0, maxSlots)
	for dayOffset := 0; dayOffset < slotHorizon && len(slots) < maxSlots; dayOffset++ {
		day := local.AddDate(0, 0, dayOffset+1)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		for _, hour := range businessHours {
			slot := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, slotLocation)
			formatted := FormatSlot(slot)
			if _, taken := booked[formatted]; !taken {
				slots = append(slots, formatted)
			}
			if len(slots) >= maxSlots {
				break
			}
		}
	}
	return slots, err
}
