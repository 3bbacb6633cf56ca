// Package karma turns per-category claims into catch-up bonuses for the
// trailing player.
package karma

import (
	"sort"
	"strings"
)

// Claim records that owner holds itemID in category.
type Claim struct {
	Category string `json:"category"`
	ItemID   string `json:"itemId"`
	Owner    string `json:"owner"`
}

type Tally struct {
	Category string         `json:"category"`
	Counts   map[string]int `json:"counts"`
	Bonus    map[string]int `json:"bonus"`
}

// Compute counts claims per category for the two players. Owners are matched
// case-insensitively and anyone else is ignored. The trailing player of a
// category receives the difference as bonus.
func Compute(players [2]string, claims []Claim) []Tally {
	counts := map[string][2]int{}
	for _, claim := range claims {
		c := counts[claim.Category]
		switch {
		case strings.EqualFold(claim.Owner, players[0]):
			c[0]++
		case strings.EqualFold(claim.Owner, players[1]):
			c[1]++
		}
		counts[claim.Category] = c
	}

	tallies := make([]Tally, 0, len(counts))
	for category, c := range counts {
		diff := c[0] - c[1]
		bonus := [2]int{}
		if diff < 0 {
			bonus[0] = -diff
		} else {
			bonus[1] = diff
		}
		tallies = append(tallies, Tally{
			Category: category,
			Counts:   map[string]int{players[0]: c[0], players[1]: c[1]},
			Bonus:    map[string]int{players[0]: bonus[0], players[1]: bonus[1]},
		})
	}
	sort.Slice(tallies, func(i, j int) bool {
		return tallies[i].Category < tallies[j].Category
	})
	return tallies
}

// Total sums the bonus of every tally per player.
func Total(tallies []Tally) map[string]int {
	total := map[string]int{}
	for _, t := range tallies {
		for player, bonus := range t.Bonus {
			total[player] += bonus
		}
	}
	return total
}
