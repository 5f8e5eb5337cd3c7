package poker

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func cards(strs ...string) []Card {
	result := make([]Card, 0, len(strs))
	for _, s := range strs {
		result = append(result, NewCard(s))
	}
	return result
}

func TestRank5Categories(t *testing.T) {
	testCases := []struct {
		name     string
		cards    []string
		category HandCategory
		kickers  []int32
		label    string
	}{
		{
			name:     "royal flush",
			cards:    []string{"As", "Ks", "Qs", "Js", "Ts"},
			category: StraightFlush,
			kickers:  []int32{14},
			label:    "Royal Flush",
		},
		{
			name:     "straight flush",
			cards:    []string{"9h", "8h", "7h", "6h", "5h"},
			category: StraightFlush,
			kickers:  []int32{9},
			label:    "Straight Flush",
		},
		{
			name:     "steel wheel counts the ace low",
			cards:    []string{"Ad", "2d", "3d", "4d", "5d"},
			category: StraightFlush,
			kickers:  []int32{5},
			label:    "Straight Flush",
		},
		{
			name:     "four of a kind",
			cards:    []string{"9c", "9d", "9h", "9s", "Kd"},
			category: FourOfAKind,
			kickers:  []int32{9, 13},
			label:    "Four of a Kind",
		},
		{
			name:     "full house keeps trips before the pair",
			cards:    []string{"3c", "3d", "3h", "Ks", "Kd"},
			category: FullHouse,
			kickers:  []int32{3, 13},
			label:    "Full House",
		},
		{
			name:     "flush",
			cards:    []string{"Kc", "Jc", "8c", "5c", "2c"},
			category: Flush,
			kickers:  []int32{13, 11, 8, 5, 2},
			label:    "Flush",
		},
		{
			name:     "straight",
			cards:    []string{"8c", "7d", "6h", "5s", "4d"},
			category: Straight,
			kickers:  []int32{8},
			label:    "Straight",
		},
		{
			name:     "wheel straight ranks by the five",
			cards:    []string{"Ac", "2d", "3h", "4s", "5d"},
			category: Straight,
			kickers:  []int32{5},
			label:    "Straight",
		},
		{
			name:     "three of a kind",
			cards:    []string{"7c", "7d", "7h", "Ks", "2d"},
			category: ThreeOfAKind,
			kickers:  []int32{7, 13, 2},
			label:    "Three of a Kind",
		},
		{
			name:     "two pair orders high pair first",
			cards:    []string{"Jc", "Jd", "4h", "4s", "Ad"},
			category: TwoPair,
			kickers:  []int32{11, 4, 14},
			label:    "Two Pair",
		},
		{
			name:     "pair",
			cards:    []string{"Tc", "Td", "Ah", "8s", "3d"},
			category: Pair,
			kickers:  []int32{10, 14, 8, 3},
			label:    "Pair",
		},
		{
			name:     "high card",
			cards:    []string{"Ac", "Jd", "9h", "6s", "3d"},
			category: HighCard,
			kickers:  []int32{14, 11, 9, 6, 3},
			label:    "High Card",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rank := Rank5(cards(tc.cards...))
			if rank.Category != tc.category {
				t.Errorf("category %v, expected %v", rank.Category, tc.category)
			}
			if !cmp.Equal(rank.Kickers, tc.kickers) {
				t.Errorf("kickers %v, expected %v", rank.Kickers, tc.kickers)
			}
			if rank.Label != tc.label {
				t.Errorf("label %q, expected %q", rank.Label, tc.label)
			}
		})
	}
}

func TestCompareIsSuitIndependent(t *testing.T) {
	spades := Rank5(cards("Kc", "Jc", "8c", "5c", "2c"))
	hearts := Rank5(cards("Kh", "Jh", "8h", "5h", "2h"))
	if Compare(spades, hearts) != 0 {
		t.Errorf("equal flushes in different suits must tie")
	}
}

func TestCompareOrdersCategoriesAndKickers(t *testing.T) {
	testCases := []struct {
		name     string
		a        []string
		b        []string
		expected int
	}{
		{
			name:     "straight flush beats quads",
			a:        []string{"9h", "8h", "7h", "6h", "5h"},
			b:        []string{"Ac", "Ad", "Ah", "As", "Kd"},
			expected: 1,
		},
		{
			name:     "ace high straight beats wheel",
			a:        []string{"Ac", "Kd", "Qh", "Js", "Td"},
			b:        []string{"Ac", "2d", "3h", "4s", "5d"},
			expected: 1,
		},
		{
			name:     "kicker breaks pair tie",
			a:        []string{"Tc", "Td", "Ah", "8s", "3d"},
			b:        []string{"Th", "Ts", "Kh", "8d", "3c"},
			expected: 1,
		},
		{
			name:     "high card loses to pair",
			a:        []string{"Ac", "Jd", "9h", "6s", "3d"},
			b:        []string{"2c", "2d", "5h", "6h", "7h"},
			expected: -1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Compare(Rank5(cards(tc.a...)), Rank5(cards(tc.b...)))
			if result != tc.expected {
				t.Errorf("Compare returned %d, expected %d", result, tc.expected)
			}
		})
	}
}

func TestRank7PicksBestFive(t *testing.T) {
	testCases := []struct {
		name     string
		cards    []string
		category HandCategory
		kickers  []int32
	}{
		{
			name:     "flush hides a straight",
			cards:    []string{"Ah", "Kh", "Qh", "Jh", "9h", "Tc", "2d"},
			category: Flush,
			kickers:  []int32{14, 13, 12, 11, 9},
		},
		{
			name:     "board plays",
			cards:    []string{"2c", "3d", "As", "Ks", "Qs", "Js", "Ts"},
			category: StraightFlush,
			kickers:  []int32{14},
		},
		{
			name:     "two pair from three pairs keeps the best kicker",
			cards:    []string{"Ac", "Ad", "Kh", "Ks", "Qd", "Qc", "Jh"},
			category: TwoPair,
			kickers:  []int32{14, 13, 12},
		},
		{
			name:     "full house over two trips",
			cards:    []string{"9c", "9d", "9h", "7s", "7d", "7c", "Ad"},
			category: FullHouse,
			kickers:  []int32{9, 7},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rank := Rank7(cards(tc.cards...))
			if rank.Category != tc.category {
				t.Errorf("category %v, expected %v", rank.Category, tc.category)
			}
			if !cmp.Equal(rank.Kickers, tc.kickers) {
				t.Errorf("kickers %v, expected %v", rank.Kickers, tc.kickers)
			}
		})
	}
}
