package recommend

import (
	"time"

	"github.com/pawroute/pawroute/internal/safety"
)

// Fixed fallback windows used when the advisor yields nothing usable.
const (
	fallbackMorningStartHour = 6
	fallbackMorningEndHour   = 8
	fallbackMorningScore     = 75

	fallbackEveningStartHour = 18
	fallbackEveningEndHour   = 20
	fallbackEveningScore     = 70
)

// FallbackWindows returns exactly two non-overlapping default windows for
// today in the given zone: a cool-morning interval and an evening one with
// fixed scores and rationale.
func FallbackWindows(now time.Time, loc *time.Location) []safety.Window {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	at := func(hour int) time.Time { return day.Add(time.Duration(hour) * time.Hour) }

	return []safety.Window{
		{
			Start:        at(fallbackMorningStartHour),
			End:          at(fallbackMorningEndHour),
			ComfortScore: fallbackMorningScore,
			Label:        "morning",
			Reason:       "Cool air and usually some breeze before the sun climbs",
		},
		{
			Start:        at(fallbackEveningStartHour),
			End:          at(fallbackEveningEndHour),
			ComfortScore: fallbackEveningScore,
			Label:        "evening",
			Reason:       "Weaker sun and falling surface temperatures",
		},
	}
}
