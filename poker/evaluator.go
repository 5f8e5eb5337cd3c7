package poker

import (
	"fmt"
	"sort"
)

// HandCategory enumerates hand categories in ascending strength order.
type HandCategory int32

const (
	HighCard HandCategory = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var categoryToString = map[HandCategory]string{
	HighCard:      "High Card",
	Pair:          "Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
}

func (c HandCategory) String() string {
	return categoryToString[c]
}

// HandRank is a comparable rank of a five card hand. Kickers hold card
// values (2-14) in category specific order; suit never contributes.
type HandRank struct {
	Category HandCategory
	Kickers  []int32
	Label    string
}

// Compare orders two hand ranks: -1 if a < b, 0 on a tie, 1 if a > b.
// Missing kicker slots compare as zero.
func Compare(a, b HandRank) int {
	if a.Category != b.Category {
		if a.Category < b.Category {
			return -1
		}
		return 1
	}
	n := len(a.Kickers)
	if len(b.Kickers) > n {
		n = len(b.Kickers)
	}
	for i := 0; i < n; i++ {
		av := int32(0)
		bv := int32(0)
		if i < len(a.Kickers) {
			av = a.Kickers[i]
		}
		if i < len(b.Kickers) {
			bv = b.Kickers[i]
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Rank5 ranks exactly five cards.
func Rank5(cards []Card) HandRank {
	if len(cards) != 5 {
		panic(fmt.Sprintf("Rank5 requires 5 cards, got %d", len(cards)))
	}

	values := make([]int32, 5)
	for i, c := range cards {
		values[i] = c.Value()
	}
	sort.Slice(values, func(i, j int) bool { return values[i] > values[j] })

	flush := true
	for _, c := range cards[1:] {
		if c.Suit() != cards[0].Suit() {
			flush = false
			break
		}
	}

	straightHigh := straightHighValue(values)

	if flush && straightHigh > 0 {
		label := "Straight Flush"
		if straightHigh == 14 {
			label = "Royal Flush"
		}
		return HandRank{Category: StraightFlush, Kickers: []int32{straightHigh}, Label: label}
	}

	// group values by multiplicity
	counts := make(map[int32]int32)
	for _, v := range values {
		counts[v]++
	}
	type group struct {
		value int32
		count int32
	}
	groups := make([]group, 0, len(counts))
	for v, n := range counts {
		groups = append(groups, group{value: v, count: n})
	}
	// higher multiplicity first, then higher value
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].value > groups[j].value
	})

	switch {
	case groups[0].count == 4:
		return HandRank{
			Category: FourOfAKind,
			Kickers:  []int32{groups[0].value, groups[1].value},
			Label:    categoryToString[FourOfAKind],
		}
	case groups[0].count == 3 && groups[1].count == 2:
		return HandRank{
			Category: FullHouse,
			Kickers:  []int32{groups[0].value, groups[1].value},
			Label:    categoryToString[FullHouse],
		}
	case flush:
		return HandRank{Category: Flush, Kickers: values, Label: categoryToString[Flush]}
	case straightHigh > 0:
		return HandRank{Category: Straight, Kickers: []int32{straightHigh}, Label: categoryToString[Straight]}
	case groups[0].count == 3:
		return HandRank{
			Category: ThreeOfAKind,
			Kickers:  []int32{groups[0].value, groups[1].value, groups[2].value},
			Label:    categoryToString[ThreeOfAKind],
		}
	case groups[0].count == 2 && groups[1].count == 2:
		return HandRank{
			Category: TwoPair,
			Kickers:  []int32{groups[0].value, groups[1].value, groups[2].value},
			Label:    categoryToString[TwoPair],
		}
	case groups[0].count == 2:
		return HandRank{
			Category: Pair,
			Kickers:  []int32{groups[0].value, groups[1].value, groups[2].value, groups[3].value},
			Label:    categoryToString[Pair],
		}
	default:
		return HandRank{Category: HighCard, Kickers: values, Label: categoryToString[HighCard]}
	}
}

// Rank7 returns the best five card rank among all 21 subsets of seven cards.
func Rank7(cards []Card) HandRank {
	if len(cards) != 7 {
		panic(fmt.Sprintf("Rank7 requires 7 cards, got %d", len(cards)))
	}

	var best HandRank
	first := true
	hand := make([]Card, 0, 5)
	for i := 0; i < 7; i++ {
		for j := i + 1; j < 7; j++ {
			hand = hand[:0]
			for k := 0; k < 7; k++ {
				if k == i || k == j {
					continue
				}
				hand = append(hand, cards[k])
			}
			rank := Rank5(hand)
			if first || Compare(rank, best) > 0 {
				best = rank
				first = false
			}
		}
	}
	return best
}

// straightHighValue returns the high card value of a straight made of the
// given descending sorted values, or 0 when there is none. The wheel
// (A-2-3-4-5) counts as a five high straight.
func straightHighValue(desc []int32) int32 {
	consecutive := true
	for i := 1; i < len(desc); i++ {
		if desc[i] != desc[i-1]-1 {
			consecutive = false
			break
		}
	}
	if consecutive {
		return desc[0]
	}

	// wheel: ace plays low
	if desc[0] == 14 && desc[1] == 5 && desc[2] == 4 && desc[3] == 3 && desc[4] == 2 {
		return 5
	}
	return 0
}
