package model

import "time"

// Material is the fabric an item is made of.
type Material string

const (
	MaterialCotton    Material = "cotton"
	MaterialBlend     Material = "blend"
	MaterialSynthetic Material = "synthetic"
	MaterialCustom    Material = "custom"
)

// Valid reports whether m is one of the known materials.
func (m Material) Valid() bool {
	switch m {
	case MaterialCotton, MaterialBlend, MaterialSynthetic, MaterialCustom:
		return true
	}
	return false
}

// Item is a tracked garment with a wash counter and optional retirement.
//
// PurchaseDate is a calendar date without a time component, kept as a
// "YYYY-MM-DD" string to match the wire format exactly.
//
// Invariant: Retired is true if and only if RetiredDate is non-nil.
// The repository enforces this — RetiredDate is stamped exactly once,
// when the retired flag first flips to true.
//
// Achievements and Owner are attached by the repository on every read;
// they are not columns on the items table.
type Item struct {
	ID           string        `json:"id"`
	UserID       string        `json:"-"`
	Name         string        `json:"name"`
	Color        string        `json:"color"`
	Material     Material      `json:"material"`
	CustomWashes int           `json:"custom_washes"`
	Accessories  []string      `json:"accessories"`
	PurchaseDate string        `json:"purchase_date"`
	WashCount    int           `json:"wash_count"`
	Retired      bool          `json:"retired"`
	RetiredDate  *time.Time    `json:"retired_date"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Achievements []Achievement `json:"achievements"`
	Owner        *PublicUser   `json:"user"`
}
