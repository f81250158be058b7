package selection

import (
	"sort"
	"time"

	"github.com/wonny/covercall/internal/contracts"
)

// ReducePerExpiry keeps exactly one contract per expiration: the max premium.
// Tie-break: equal premium → lower strike, then first encountered.
// Output is ordered by expiration ascending.
func ReducePerExpiry(input []contracts.OptionContract) []contracts.OptionContract {
	best := make(map[time.Time]contracts.OptionContract)
	order := make([]time.Time, 0)

	for _, c := range input {
		day := contracts.Day(c.Expiration)
		current, exists := best[day]
		if !exists {
			best[day] = c
			order = append(order, day)
			continue
		}
		if beats(c, current) {
			best[day] = c
		}
	}

	sort.Slice(order, func(i, j int) bool {
		return order[i].Before(order[j])
	})

	out := make([]contracts.OptionContract, 0, len(order))
	for _, day := range order {
		out = append(out, best[day])
	}
	return out
}

// beats reports whether challenger replaces the current leader
func beats(challenger, current contracts.OptionContract) bool {
	if challenger.Premium != current.Premium {
		return challenger.Premium > current.Premium
	}
	return challenger.Strike < current.Strike
}
