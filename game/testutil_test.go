package game

import (
	"fmt"
	"testing"
	"time"

	"cardroom.io/server/poker"
)

var testNow = time.Date(2021, 8, 1, 12, 0, 0, 0, time.UTC)

func testRules() Rules {
	return Rules{
		MaxSeats:      9,
		BetStep:       1,
		RechargeStep:  100,
		ActionLogSize: 100,
		Liveness:      30 * time.Second,
	}
}

// newTestRoom seats len(stacks) players at seats 1..n with the given
// stacks. The host sits at seat 1. Returned ids are indexed by seat-1.
func newTestRoom(t *testing.T, smallBlind int64, bigBlind int64, stacks []int64) (*Room, []string) {
	t.Helper()
	room := NewRoom("room-id", "123456", "host", smallBlind, bigBlind, testRules(), "host-id", testNow)
	ids := make([]string, len(stacks))
	ids[0] = "host-id"
	for i := 1; i < len(stacks); i++ {
		playerID := fmt.Sprintf("player-%d", i+1)
		room.Join(playerID, fmt.Sprintf("player %d", i+1), testNow)
		ids[i] = playerID
	}
	for i, playerID := range ids {
		if err := room.Seat(playerID, uint32(i+1)); err != nil {
			t.Fatalf("seating player %d failed: %v", i+1, err)
		}
		room.Players[playerID].Stack = stacks[i]
	}
	return room, ids
}

var actionSeq int

// act submits one action with a generated action ID and fails the test
// on rejection.
func act(t *testing.T, room *Room, playerID string, actionType ActionType, amount int64) {
	t.Helper()
	actionSeq++
	err := room.ApplyAction(playerID, ActionCommand{
		ActionID: fmt.Sprintf("action-%d", actionSeq),
		Type:     actionType,
		Amount:   amount,
	}, testNow)
	if err != nil {
		t.Fatalf("action %s by %s rejected: %v", actionType, playerID, err)
	}
}

func totalChips(room *Room) int64 {
	total := int64(0)
	for _, player := range room.Players {
		total += player.Stack
	}
	if room.Hand != nil {
		total += room.Hand.PotTotal()
	}
	return total
}

// scriptedDeck arranges hole cards per seat order plus the full board.
func scriptedDeck(holeCards []poker.CardsInAscii, flop poker.CardsInAscii, turn string, river string) *poker.Deck {
	return poker.DeckFromScript(holeCards, flop, poker.NewCard(turn), poker.NewCard(river))
}
