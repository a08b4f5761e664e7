package repository

import (
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// RentalDays returns the whole-day duration of a booking.  Both arguments
// are calendar dates ("YYYY-MM-DD"); time of day is ignored.  The result
// is floored at 1: a same-day rental counts as one day, and a range whose
// end precedes its start is treated as one day rather than a negative
// count.  Unparseable input also yields 1 so that pricing never produces a
// negative or zero total from bad data.
func RentalDays(start, end string) int {
	s, errS := time.ParseInLocation(dateLayout, start, time.UTC)
	e, errE := time.ParseInLocation(dateLayout, end, time.UTC)
	if errS != nil || errE != nil {
		return 1
	}
	days := int(e.Sub(s).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// AsNumber converts a loosely typed cost value to float64.  DECIMAL
// columns arrive as strings from the driver and migrated documents may
// carry strings or nulls; anything that cannot be parsed counts as 0 so
// monetary sums never propagate an error or NaN.
func AsNumber(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		if n, err := strconv.ParseFloat(t, 64); err == nil {
			return n
		}
	case []byte:
		if n, err := strconv.ParseFloat(string(t), 64); err == nil {
			return n
		}
	}
	return 0
}

// today returns the current UTC calendar date, the gate for "upcoming"
// bookings on the document backend (SQL uses CURDATE()).
func today() string {
	return time.Now().UTC().Format(dateLayout)
}
