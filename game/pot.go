package game

import (
	"fmt"
	"sort"
)

// BuildPots partitions the hand's total contributions into the main/side
// pot ladder. Distinct positive contribution levels are processed in
// ascending order; at each level every contender who put in at least that
// much pays the slice between the previous level and this one. Folded
// players still pay into the slices (dead money) but are never eligible
// to win them. A slice with no eligible winner is omitted.
func BuildPots(totalContributions map[string]int64, contenders []string, folded map[string]bool) []PotBreakdownItem {
	levels := make([]int64, 0, len(contenders))
	seen := make(map[int64]bool)
	for _, playerID := range contenders {
		amount := totalContributions[playerID]
		if amount <= 0 || seen[amount] {
			continue
		}
		seen[amount] = true
		levels = append(levels, amount)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	pots := make([]PotBreakdownItem, 0, len(levels))
	prevLevel := int64(0)
	for _, level := range levels {
		contributors := 0
		eligible := make([]string, 0, len(contenders))
		for _, playerID := range contenders {
			if totalContributions[playerID] < level {
				continue
			}
			contributors++
			if !folded[playerID] {
				eligible = append(eligible, playerID)
			}
		}

		amount := (level - prevLevel) * int64(contributors)
		prevLevel = level
		if amount <= 0 || len(eligible) == 0 {
			continue
		}

		pot := PotBreakdownItem{
			Kind:     PotSide,
			Name:     fmt.Sprintf("side-%d", len(pots)),
			Amount:   amount,
			Eligible: eligible,
			Level:    level,
		}
		if len(pots) == 0 {
			pot.Kind = PotMain
			pot.Name = "main"
		}
		pots = append(pots, pot)
	}
	return pots
}

// PotTotal is the sum of all contributions this hand so far.
func (h *Hand) PotTotal() int64 {
	total := int64(0)
	for _, amount := range h.TotalBets {
		total += amount
	}
	return total
}
