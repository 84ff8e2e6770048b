package persian

import (
	"fmt"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

// Calendar implements domain.CalendarConverter for the Solar Hijri calendar.
type Calendar struct {
	loc *time.Location
}

// NewCalendar creates a converter whose wall clocks are read in loc.
func NewCalendar(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc}
}

// FixedZone returns a location with a constant offset from UTC, e.g. +04:30
// for Iran Standard Time.
func FixedZone(offset time.Duration) *time.Location {
	return time.FixedZone(zoneName(offset), int(offset/time.Second))
}

// ConvertCalendar converts a Persian wall clock to a Gregorian time in the
// calendar's location. The library normalizes overflowing values (31 Mehr
// becomes 1 Aban), so the result is checked against the input.
func (c *Calendar) ConvertCalendar(year, month, day, hour, minute int) (time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("persian month %d out of range", month)
	}

	pt := ptime.Date(year, ptime.Month(month), day, hour, minute, 0, 0, c.loc)
	if pt.Year() != year || int(pt.Month()) != month || pt.Day() != day ||
		pt.Hour() != hour || pt.Minute() != minute {
		return time.Time{}, fmt.Errorf("persian date %04d-%02d-%02d %02d:%02d does not exist",
			year, month, day, hour, minute)
	}
	return pt.Time(), nil
}

func zoneName(offset time.Duration) string {
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	h := int(offset / time.Hour)
	m := int((offset % time.Hour) / time.Minute)
	return fmt.Sprintf("UTC%s%02d:%02d", sign, h, m)
}
