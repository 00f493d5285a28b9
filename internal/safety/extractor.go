package safety

import (
	"fmt"
	"sort"
	"time"

	"github.com/pawroute/pawroute/internal/dog"
	"github.com/pawroute/pawroute/internal/weather"
)

// Extract scans time-ordered samples and returns the maximal contiguous
// safe runs for the profile. Windows never overlap and are never empty.
// Samples missing temperature or wind break a run.
func Extract(samples []weather.HourlySample, profile dog.Profile) []Window {
	threshold := profile.ThresholdC()

	var (
		windows   []Window
		open      bool
		start     time.Time
		runScores []int
	)

	closeWindow := func(end time.Time) {
		if !open {
			return
		}
		// A run of a single trailing sample would close as an empty
		// interval; give it the sample's full hour instead.
		if !start.Before(end) {
			end = start.Add(time.Hour)
		}
		windows = append(windows, Window{
			Start:        start,
			End:          end,
			ComfortScore: aggregateScore(runScores),
			Label:        labelFor(start),
			Reason:       reasonFor(runScores, threshold),
		})
		open = false
		runScores = nil
	}

	for _, s := range samples {
		if IsSafe(s, threshold) {
			if !open {
				open = true
				start = s.Time
			}
			runScores = append(runScores, Score(s, threshold))
			continue
		}
		closeWindow(s.Time)
	}

	if open && len(samples) > 0 {
		closeWindow(samples[len(samples)-1].Time)
	}

	return windows
}

// SortByComfort orders windows by descending comfort score, earliest start
// first on ties.
func SortByComfort(windows []Window) []Window {
	out := make([]Window, len(windows))
	copy(out, windows)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ComfortScore != out[j].ComfortScore {
			return out[i].ComfortScore > out[j].ComfortScore
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

func reasonFor(scores []int, thresholdC float64) string {
	agg := aggregateScore(scores)
	switch {
	case agg >= 70:
		return fmt.Sprintf("Comfortable conditions, surface temperature well under the %.0f°C limit", thresholdC)
	case agg >= 50:
		return fmt.Sprintf("Acceptable conditions near the %.0f°C limit", thresholdC)
	default:
		return fmt.Sprintf("Walkable but close to the %.0f°C limit, keep it short", thresholdC)
	}
}
