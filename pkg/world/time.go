package world

import "time"

// TimeOfDay is the categorical bucket derived from the simulated clock.
type TimeOfDay string

const (
	EarlyMorning TimeOfDay = "early_morning"
	LateMorning  TimeOfDay = "late_morning"
	Afternoon    TimeOfDay = "afternoon"
	Evening      TimeOfDay = "evening"
	LateNight    TimeOfDay = "late_night"
)

// WorldTime tracks the simulated clock. TimeOfDay is always derived from
// CurrentDatetime through the fixed hour table; it is never set directly.
type WorldTime struct {
	CurrentDatetime time.Time `json:"current_datetime"`
	DaysIntoOffgrid int       `json:"days_into_offgrid"`
	TimeOfDay       TimeOfDay `json:"time_of_day"`
}

// BucketFor maps an instant to its time-of-day bucket.
func BucketFor(t time.Time) TimeOfDay {
	hour := t.UTC().Hour()
	switch {
	case hour >= 6 && hour < 9:
		return EarlyMorning
	case hour >= 9 && hour < 12:
		return LateMorning
	case hour >= 12 && hour < 17:
		return Afternoon
	case hour >= 17 && hour < 21:
		return Evening
	default:
		return LateNight
	}
}

// Advance moves the clock forward and rederives the bucket. Crossing a
// calendar day increments the off-grid day count.
func (wt WorldTime) Advance(minutes int) WorldTime {
	previous := wt.CurrentDatetime.UTC()
	next := previous.Add(time.Duration(minutes) * time.Minute)

	days := wt.DaysIntoOffgrid
	if next.UTC().Day() != previous.Day() {
		days++
	}

	return WorldTime{
		CurrentDatetime: next,
		DaysIntoOffgrid: days,
		TimeOfDay:       BucketFor(next),
	}
}

// Description returns the human-readable phrasing for a bucket.
func (t TimeOfDay) Description() string {
	switch t {
	case EarlyMorning:
		return "early morning"
	case LateMorning:
		return "late morning"
	case Afternoon:
		return "afternoon"
	case Evening:
		return "evening"
	case LateNight:
		return "late at night"
	default:
		return string(t)
	}
}
