package poker

import (
	"fmt"
	"strings"
)

type Card int32

var (
	intRanks [13]int32
	strRanks = "23456789TJQKA"
)

var (
	charRankToIntRank = map[uint8]int32{}
	charSuitToIntSuit = map[uint8]int32{
		's': 1, // spades
		'h': 2, // hearts
		'd': 4, // diamonds
		'c': 8, // clubs
	}
	intSuitToCharSuit = "xshxdxxxc"
)

var prettySuits = map[int]string{
	1: "♠", // spades
	2: "❤", // hearts
	4: "♦", // diamonds
	8: "♣", // clubs
}

func init() {
	for i := 0; i < 13; i++ {
		intRanks[i] = int32(i)
	}

	for i := range strRanks {
		charRankToIntRank[strRanks[i]] = intRanks[i]
	}
}

// NewCard creates a card from its two character notation ("As", "Td", "2c").
func NewCard(s string) Card {
	rankInt := charRankToIntRank[s[0]]
	suitInt := charSuitToIntSuit[s[1]]

	suit := suitInt << 8
	rank := rankInt

	return Card(suit | rank)
}

func (c *Card) MarshalJSON() ([]byte, error) {
	return []byte("\"" + c.String() + "\""), nil
}

func (c *Card) UnmarshalJSON(b []byte) error {
	*c = NewCard(string(b[1:3]))
	return nil
}

func (c Card) String() string {
	return string(strRanks[c.Rank()]) + string(intSuitToCharSuit[c.Suit()])
}

// Rank returns the rank index of the card (0 = deuce .. 12 = ace).
func (c Card) Rank() int32 {
	return int32(c) & 0xFF
}

// Value returns the card value used in kicker comparisons (2 .. 14).
func (c Card) Value() int32 {
	return c.Rank() + 2
}

func (c Card) Suit() int32 {
	return (int32(c) >> 8) & 0xF
}

func (c Card) PrettyString() string {
	return fmt.Sprintf("%s%s", string(strRanks[c.Rank()]), prettySuits[int(c.Suit())])
}

func CardsToString(cards []Card) string {
	var b strings.Builder
	b.Grow(32)
	fmt.Fprintf(&b, "[")
	for _, c := range cards {
		fmt.Fprintf(&b, " %s ", c.PrettyString())
	}
	fmt.Fprintf(&b, "]")
	return b.String()
}

func PrintCards(cards []Card) string {
	return CardsToString(cards)
}
