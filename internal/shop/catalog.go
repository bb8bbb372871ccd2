// Package shop implements the item catalog, sell-back pricing and the
// buy/sell transaction together with the side effects of special items.
package shop

import (
	"fmt"
	"sort"

	"github.com/dmitrijs2005/buttongame/internal/common"
	"github.com/dmitrijs2005/buttongame/internal/profiles"
)

var basePrices = map[profiles.Item]uint16{
	profiles.DarkMode:    3,
	profiles.GayButton:   10,
	profiles.DoubleSpeed: 20,
	profiles.FiftyFifty:  1,
	profiles.Thanos:      50,
}

// Listing is one row of the shop as shown to a given profile.
type Listing struct {
	Item  profiles.Item
	Name  string
	Price uint16
	Owned bool
}

// BasePrice is the purchase price of item.
func BasePrice(item profiles.Item) (uint16, error) {
	p, ok := basePrices[item]
	if !ok {
		return 0, fmt.Errorf("%w: %s", common.ErrInvalidItem, item)
	}
	return p, nil
}

// Price is what item costs (or, when already owned, what it sells back for)
// for the holder of d. Owned items are worth 80% of base, truncated.
func Price(item profiles.Item, d profiles.UserData) (uint16, error) {
	base, err := BasePrice(item)
	if err != nil {
		return 0, err
	}
	if d.HasItem(item) {
		return uint16(uint32(base) * 8 / 10), nil
	}
	return base, nil
}

// DisplayPrices lists the whole catalog for d, cheapest first and by name
// among equal prices.
func DisplayPrices(d profiles.UserData) []Listing {
	out := make([]Listing, 0, len(basePrices))
	for _, item := range profiles.AllItems() {
		price, _ := Price(item, d)
		out = append(out, Listing{
			Item:  item,
			Name:  item.String(),
			Price: price,
			Owned: d.HasItem(item),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Price != out[j].Price {
			return out[i].Price < out[j].Price
		}
		return out[i].Name < out[j].Name
	})
	return out
}
