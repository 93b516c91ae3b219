package planner

import (
	"fmt"
	"strings"

	"github.com/samirrijal/dayroute/internal/core/domain"
)

// DefaultClusterDistanceKm is the grouping radius used when none is given.
const DefaultClusterDistanceKm = 2.0

// FindLocationClusters groups activities in one greedy pass: each
// unassigned activity seeds a cluster that takes every later unassigned
// activity within maxKm of the seed. Every activity lands in exactly one
// cluster and clusters keep first-seen order.
func FindLocationClusters(acts []domain.Activity, maxKm float64) [][]domain.Activity {
	if maxKm <= 0 {
		maxKm = DefaultClusterDistanceKm
	}
	assigned := make([]bool, len(acts))
	clusters := make([][]domain.Activity, 0)

	for i := range acts {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		cluster := []domain.Activity{acts[i]}
		for j := i + 1; j < len(acts); j++ {
			if assigned[j] {
				continue
			}
			if CalculateDistance(acts[i].Location, acts[j].Location) <= maxKm {
				assigned[j] = true
				cluster = append(cluster, acts[j])
			}
		}
		clusters = append(clusters, cluster)
	}
	return clusters
}

// SuggestOptimalTiming flags activities scheduled in a category's avoid
// window, or outside all of its ideal windows.
func SuggestOptimalTiming(acts []domain.Activity) domain.TimingAdvice {
	advice := domain.TimingAdvice{Suggestions: []string{}}
	for _, a := range acts {
		if a.TimeSlot.Start.IsZero() || !a.Category.Valid() {
			continue
		}
		hour := a.TimeSlot.Start.Hour()
		p := a.Category.Profile()

		switch {
		case inAnyRange(p.Avoid, hour):
			advice.Suggestions = append(advice.Suggestions, fmt.Sprintf(
				"%s starts at %02d:00, a poor time for %s; consider %s",
				label(a), hour, p.Name, joinRanges(p.Ideal)))
		case len(p.Ideal) > 0 && !inAnyRange(p.Ideal, hour):
			advice.Suggestions = append(advice.Suggestions, fmt.Sprintf(
				"%s starts at %02d:00, outside the usual %s hours (%s)",
				label(a), hour, p.Name, joinRanges(p.Ideal)))
		}
	}
	return advice
}

func inAnyRange(ranges []domain.HourRange, hour int) bool {
	for _, r := range ranges {
		if r.Contains(hour) {
			return true
		}
	}
	return false
}

func joinRanges(ranges []domain.HourRange) string {
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, " or ")
}

func label(a domain.Activity) string {
	if a.Title != "" {
		return fmt.Sprintf("%q", a.Title)
	}
	return a.ID
}
