package model

import "time"

// Tier is an achievement rank.
type Tier string

const (
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

// Achievement is an immutable badge record unlocked by an item's wash count.
//
// At most one achievement exists per (item, name) pair — the achievements
// table carries a UNIQUE(item_id, name) constraint and grants use
// insert-or-ignore semantics, so re-evaluating never duplicates a badge.
// UnlockedAt is set at creation and never updated.
type Achievement struct {
	ID          string    `json:"id"`
	ItemID      string    `json:"-"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Tier        Tier      `json:"tier"`
	UnlockedAt  time.Time `json:"unlocked_at"`
}
