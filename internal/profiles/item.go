package profiles

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/buttongame/internal/common"
)

// Item is a catalog variant. Its numeric value is the persisted
// discriminant and must never be renumbered.
type Item uint8

// Catalog version 1.
const (
	DarkMode    Item = 1
	GayButton   Item = 2
	DoubleSpeed Item = 3
	FiftyFifty  Item = 4
	Thanos      Item = 5
)

// CatalogVersion identifies the discriminant table below.
const CatalogVersion = 1

var itemNames = map[Item]string{
	DarkMode:    "DarkMode",
	GayButton:   "GayButton",
	DoubleSpeed: "DoubleSpeed",
	FiftyFifty:  "FiftyFifty",
	Thanos:      "Thanos",
}

// AllItems lists every variant in discriminant order.
func AllItems() []Item {
	return []Item{DarkMode, GayButton, DoubleSpeed, FiftyFifty, Thanos}
}

// Valid reports whether i is a known variant.
func (i Item) Valid() bool {
	_, ok := itemNames[i]
	return ok
}

func (i Item) String() string {
	if name, ok := itemNames[i]; ok {
		return name
	}
	return fmt.Sprintf("Item(%d)", uint8(i))
}

// ParseItem resolves a catalog name (case-insensitive).
func ParseItem(name string) (Item, error) {
	name = strings.TrimSpace(name)
	for item, n := range itemNames {
		if strings.EqualFold(n, name) {
			return item, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", common.ErrInvalidItem, name)
}

// ItemSet is an ordered set of items: each variant appears at most once,
// in the order it was acquired.
type ItemSet []Item

// Has reports whether item is in the set.
func (s ItemSet) Has(item Item) bool {
	for _, it := range s {
		if it == item {
			return true
		}
	}
	return false
}

// Add appends item unless it is already present.
func (s *ItemSet) Add(item Item) {
	if s.Has(item) {
		return
	}
	*s = append(*s, item)
}

// Remove drops item from the set if present.
func (s *ItemSet) Remove(item Item) {
	out := (*s)[:0]
	for _, it := range *s {
		if it != item {
			out = append(out, it)
		}
	}
	*s = out
}

// Clone returns an independent copy.
func (s ItemSet) Clone() ItemSet {
	if s == nil {
		return nil
	}
	out := make(ItemSet, len(s))
	copy(out, s)
	return out
}
