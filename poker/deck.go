package poker

import (
	crypto_rand "crypto/rand"
	"encoding/binary"
	"encoding/json"
	"math/rand"
)

var fullDeck *Deck

func init() {
	fullDeck = &Deck{cards: initializeFullCards()}
}

type Deck struct {
	cards []Card
}

func newSeed() rand.Source {
	var b [8]byte
	_, err := crypto_rand.Read(b[:])
	if err != nil {
		panic("cannot seed math/rand package with cryptographically secure random number generator")
	}
	source := rand.NewSource(int64(binary.LittleEndian.Uint64(b[:])))
	return source
}

func NewDeck() *Deck {
	deck := &Deck{}
	deck.Shuffle()
	return deck
}

func NewDeckNoShuffle() *Deck {
	deck := &Deck{}
	deck.cards = make([]Card, len(fullDeck.cards))
	copy(deck.cards, fullDeck.cards)
	return deck
}

func (deck *Deck) Shuffle() *Deck {
	deck.cards = make([]Card, len(fullDeck.cards))
	copy(deck.cards, fullDeck.cards)

	randGen := rand.New(newSeed())
	for i := range deck.cards {
		loc := randGen.Intn(len(deck.cards))
		deck.cards[i], deck.cards[loc] = deck.cards[loc], deck.cards[i]
	}

	return deck
}

func (deck *Deck) Draw(n int) []Card {
	cards := make([]Card, n)
	copy(cards, deck.cards[:n])
	deck.cards = deck.cards[n:]
	return cards
}

func (deck *Deck) Empty() bool {
	return len(deck.cards) == 0
}

func (deck *Deck) Remaining() int {
	return len(deck.cards)
}

func initializeFullCards() []Card {
	var cards []Card

	for _, rank := range strRanks {
		for suit := range charSuitToIntSuit {
			cards = append(cards, NewCard(string(rank)+string(suit)))
		}
	}

	return cards
}

func (deck *Deck) PrettyPrint() string {
	return CardsToString(deck.cards)
}

// MarshalJSON serializes the remaining cards so a deck survives a trip
// through the room store mid hand.
func (deck Deck) MarshalJSON() ([]byte, error) {
	return json.Marshal(deck.cards)
}

func (deck *Deck) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &deck.cards)
}

type CardsInAscii []string

// DeckFromScript arranges a deck so that the given hole cards, flop, turn
// and river come off the top in dealing order. Used by deterministic tests.
func DeckFromScript(playerCards []CardsInAscii, flop CardsInAscii, turn Card, river Card) *Deck {
	deck := NewDeck()
	noOfPlayers := len(playerCards)
	for i, cards := range playerCards {
		for j, cardStr := range cards {
			deckIndex := i + j*noOfPlayers
			deck.placeCard(NewCard(cardStr), deckIndex)
		}
	}

	deckIndex := len(playerCards) * len(playerCards[0])
	for _, cardStr := range flop {
		deck.placeCard(NewCard(cardStr), deckIndex)
		deckIndex++
	}

	deck.placeCard(turn, deckIndex)
	deckIndex++
	deck.placeCard(river, deckIndex)

	return deck
}

func (deck *Deck) placeCard(card Card, deckIndex int) {
	cardLoc := deck.getCardLoc(card)
	currentCard := deck.cards[deckIndex]
	deck.cards[deckIndex] = card
	deck.cards[cardLoc] = currentCard
}

func (deck *Deck) getCardLoc(cardToLocate Card) int {
	for i, card := range deck.cards {
		if card == cardToLocate {
			return i
		}
	}
	return -1
}
