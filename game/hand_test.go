package game

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStartHandHeadsUpPositions(t *testing.T) {
	room, ids := newTestRoom(t, 10, 20, []int64{1000, 1000})

	if err := room.StartHand(testNow); err != nil {
		t.Fatalf("StartHand failed: %v", err)
	}

	hand := room.Hand
	if room.Status != RoomStatusInHand {
		t.Errorf("room status %s, expected %s", room.Status, RoomStatusInHand)
	}
	if room.DealerSeat != 1 {
		t.Errorf("dealer seat %d, expected 1", room.DealerSeat)
	}
	if hand.SmallBlindSeat != 2 || hand.BigBlindSeat != 1 {
		t.Errorf("blind seats %d/%d, expected 2/1", hand.SmallBlindSeat, hand.BigBlindSeat)
	}
	if hand.CurrentBet != 20 || hand.MinRaise != 20 {
		t.Errorf("currentBet/minRaise %d/%d, expected 20/20", hand.CurrentBet, hand.MinRaise)
	}
	// blinds leave the table: seat 2 posted 10, seat 1 posted 20
	if room.Players[ids[0]].Stack != 980 || room.Players[ids[1]].Stack != 990 {
		t.Errorf("stacks %d/%d, expected 980/990",
			room.Players[ids[0]].Stack, room.Players[ids[1]].Stack)
	}
	// first to act preflop is the seat after the big blind
	if hand.ToActID != ids[1] {
		t.Errorf("toAct %s, expected %s", hand.ToActID, ids[1])
	}
	for _, playerID := range ids {
		if len(hand.HoleCards[playerID]) != 2 {
			t.Errorf("player %s has %d hole cards", playerID, len(hand.HoleCards[playerID]))
		}
	}
}

func TestStartHandThreeWayPositions(t *testing.T) {
	room, ids := newTestRoom(t, 10, 20, []int64{1000, 1000, 1000})

	if err := room.StartHand(testNow); err != nil {
		t.Fatalf("StartHand failed: %v", err)
	}

	hand := room.Hand
	if room.DealerSeat != 1 || hand.SmallBlindSeat != 2 || hand.BigBlindSeat != 3 {
		t.Errorf("positions dealer/sb/bb %d/%d/%d, expected 1/2/3",
			room.DealerSeat, hand.SmallBlindSeat, hand.BigBlindSeat)
	}
	if hand.ToActID != ids[0] {
		t.Errorf("toAct %s, expected the dealer %s", hand.ToActID, ids[0])
	}
}

func TestDealerButtonRotates(t *testing.T) {
	room, ids := newTestRoom(t, 10, 20, []int64{1000, 1000, 1000})

	if err := room.StartHand(testNow); err != nil {
		t.Fatalf("first StartHand failed: %v", err)
	}
	// fold the hand out to get back to waiting
	act(t, room, ids[0], ActionFold, 0)
	act(t, room, ids[1], ActionFold, 0)
	if room.Status != RoomStatusWaiting {
		t.Fatalf("room status %s after fold-out, expected waiting", room.Status)
	}

	if err := room.StartHand(testNow); err != nil {
		t.Fatalf("second StartHand failed: %v", err)
	}
	if room.DealerSeat != 2 {
		t.Errorf("dealer seat %d on hand 2, expected 2", room.DealerSeat)
	}
	if room.HandNum != 2 {
		t.Errorf("hand number %d, expected 2", room.HandNum)
	}
}

func TestStartHandRejections(t *testing.T) {
	t.Run("needs two seated players", func(t *testing.T) {
		room, _ := newTestRoom(t, 10, 20, []int64{1000})
		err := room.StartHand(testNow)
		if err == nil {
			t.Fatal("expected rejection with one seated player")
		}
		if KindOf(err) != ErrState {
			t.Errorf("error kind %v, expected state error", KindOf(err))
		}
	})

	t.Run("rejects a broke seated player", func(t *testing.T) {
		room, _ := newTestRoom(t, 10, 20, []int64{1000, 0})
		if err := room.StartHand(testNow); err == nil {
			t.Fatal("expected rejection with a broke seated player")
		}
	})

	t.Run("rejects while a hand runs", func(t *testing.T) {
		room, _ := newTestRoom(t, 10, 20, []int64{1000, 1000})
		if err := room.StartHand(testNow); err != nil {
			t.Fatalf("StartHand failed: %v", err)
		}
		version := room.Version
		if err := room.StartHand(testNow); err == nil {
			t.Fatal("expected rejection while in hand")
		}
		if room.Version != version {
			t.Error("rejected StartHand must not bump the version")
		}
	})
}

func TestBlindsCanForceAllIn(t *testing.T) {
	// the big blind only has 5 chips; posting puts them all-in at once
	room, ids := newTestRoom(t, 10, 20, []int64{1000, 1000, 5})

	if err := room.StartHand(testNow); err != nil {
		t.Fatalf("StartHand failed: %v", err)
	}
	hand := room.Hand
	if !hand.AllIn[ids[2]] {
		t.Error("short big blind should be all-in after posting")
	}
	if hand.TotalBets[ids[2]] != 5 {
		t.Errorf("short blind posted %d, expected 5", hand.TotalBets[ids[2]])
	}
	// current bet is still the posted small blind vs big blind maximum
	if hand.CurrentBet != 10 {
		t.Errorf("currentBet %d, expected 10", hand.CurrentBet)
	}
}

func TestStreetAdvanceResetsBettingState(t *testing.T) {
	room, ids := newTestRoom(t, 10, 20, []int64{1000, 1000, 1000})
	if err := room.StartHand(testNow); err != nil {
		t.Fatalf("StartHand failed: %v", err)
	}

	act(t, room, ids[0], ActionCall, 20)
	act(t, room, ids[1], ActionCall, 10)
	act(t, room, ids[2], ActionCheck, 0)

	hand := room.Hand
	if hand.Street != StreetFlop {
		t.Fatalf("street %s, expected flop", hand.Street)
	}
	if len(hand.Community) != 3 {
		t.Errorf("community has %d cards, expected 3", len(hand.Community))
	}
	if hand.CurrentBet != 0 || hand.MinRaise != 20 {
		t.Errorf("currentBet/minRaise %d/%d, expected 0/20", hand.CurrentBet, hand.MinRaise)
	}
	expectedStreetBets := map[string]int64{ids[0]: 0, ids[1]: 0, ids[2]: 0}
	if !cmp.Equal(hand.StreetBets, expectedStreetBets) {
		t.Errorf("street bets not reset: %v", hand.StreetBets)
	}
	// post-flop the first actor is the first live seat after the dealer
	if hand.ToActID != ids[1] {
		t.Errorf("toAct %s on the flop, expected %s", hand.ToActID, ids[1])
	}
}
