package selection

import (
	"sort"
	"time"

	"github.com/wonny/covercall/internal/contracts"
)

// SelectWindow returns the first n expiration dates in chronological order.
// Fewer than n distinct dates returns all of them.
func SelectWindow(dates []time.Time, n int) []time.Time {
	if n <= 0 {
		return []time.Time{}
	}

	sorted := distinctDays(dates)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// upcoming drops expirations on or before asOf (DTE must be > 0)
func upcoming(dates []time.Time, asOf time.Time) []time.Time {
	day := contracts.Day(asOf)
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if contracts.Day(d).After(day) {
			out = append(out, d)
		}
	}
	return out
}

func distinctDays(dates []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(dates))
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := contracts.Day(d)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	return out
}
