// Package achievement holds the badge catalog and the pure evaluation rule
// that decides which badges an item's wash count has earned.
//
// The package does no I/O. Persistence (and the idempotency of granting —
// a badge is inserted at most once per item) lives in the repository; this
// package only answers "which badges should exist at this count?".
package achievement

import "github.com/sakif/washday/internal/model"

// Badge describes one entry in the catalog: the wash-count threshold and
// the record created when an item reaches it.
type Badge struct {
	Name        string
	Description string
	Icon        string
	Tier        model.Tier
	Threshold   int
}

// Catalog lists every badge, in ascending threshold order.
var Catalog = []Badge{
	{
		Name:        "Fresh Prince",
		Description: "Washed 10 times - still looking royal!",
		Icon:        "👑",
		Tier:        model.TierBronze,
		Threshold:   10,
	},
	{
		Name:        "Clean Machine",
		Description: "Reached 25 washes - squeaky clean champion!",
		Icon:        "🧽",
		Tier:        model.TierSilver,
		Threshold:   25,
	},
	{
		Name:        "Wash Warrior",
		Description: "Survived 50 washes - legendary durability!",
		Icon:        "⚔️",
		Tier:        model.TierGold,
		Threshold:   50,
	},
}

// Earned returns every badge whose threshold washCount has reached or
// passed. Detection is range-based rather than an exact-equality check on
// the counter, so a counter that jumps over a threshold (say 9 straight to
// 11 in a bulk update) still earns the badge the next time it is
// evaluated. Badges are never revoked: a caller only ever adds the
// returned badges that are not already present.
func Earned(washCount int) []Badge {
	var earned []Badge
	for _, b := range Catalog {
		if washCount >= b.Threshold {
			earned = append(earned, b)
		}
	}
	return earned
}
