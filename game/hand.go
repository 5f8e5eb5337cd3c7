package game

import (
	"sort"
	"time"

	"cardroom.io/server/logging"
	"cardroom.io/server/poker"
)

var handLogger = logging.GetZeroLogger("game::hand", nil)

// StartHand deals a new hand. It fails without mutating the room when the
// room is already in a hand, when any seated player is broke, or when
// fewer than two contenders are available.
func (r *Room) StartHand(now time.Time) error {
	return r.StartHandWithDeck(nil, now)
}

// StartHandWithDeck is StartHand with an arranged deck for deterministic
// tests. A nil deck shuffles a fresh one.
func (r *Room) StartHandWithDeck(deck *poker.Deck, now time.Time) error {
	if r.Status == RoomStatusInHand || r.Hand != nil {
		return stateError("A hand is already in progress in room %s", r.Code)
	}

	contenderSeats := make([]uint32, 0, r.Rules.MaxSeats)
	for seatNo := uint32(1); seatNo <= r.Rules.MaxSeats; seatNo++ {
		player := r.playerAtSeat(seatNo)
		if player == nil {
			continue
		}
		if player.Stack <= 0 {
			return stateError("Seated player %s has no chips. Recharge or remove them before dealing", player.Name)
		}
		contenderSeats = append(contenderSeats, seatNo)
	}
	if len(contenderSeats) < 2 {
		return stateError("Need at least 2 seated players with chips to start a hand. Have %d", len(contenderSeats))
	}

	dealerSeat := contenderSeats[0]
	if r.DealerSeat != 0 {
		dealerSeat = nextSeatIn(contenderSeats, r.DealerSeat)
	}
	sbSeat := nextSeatIn(contenderSeats, dealerSeat)
	bbSeat := nextSeatIn(contenderSeats, sbSeat)

	if deck == nil {
		deck = poker.NewDeck()
	}

	r.HandNum++
	hand := &Hand{
		Num:              r.HandNum,
		Street:           StreetPreflop,
		Deck:             deck,
		Community:        make([]poker.Card, 0, 5),
		HoleCards:        make(map[string][]poker.Card),
		Contenders:       make([]string, 0, len(contenderSeats)),
		Folded:           make(map[string]bool),
		AllIn:            make(map[string]bool),
		StreetBets:       make(map[string]int64),
		TotalBets:        make(map[string]int64),
		MinRaise:         r.BigBlind,
		ActedSince:       make(map[string]bool),
		SmallBlindSeat:   sbSeat,
		BigBlindSeat:     bbSeat,
		ProcessedActions: make(map[string]bool),
	}
	for _, seatNo := range contenderSeats {
		playerID := r.Seats[seatNo]
		hand.Contenders = append(hand.Contenders, playerID)
		hand.StreetBets[playerID] = 0
		hand.TotalBets[playerID] = 0
		hand.HoleCards[playerID] = make([]poker.Card, 0, 2)
	}

	// two hole cards per contender, dealt one at a time in seat order
	for cardNum := 0; cardNum < 2; cardNum++ {
		for _, playerID := range hand.Contenders {
			hand.HoleCards[playerID] = append(hand.HoleCards[playerID], deck.Draw(1)[0])
		}
	}

	r.DealerSeat = dealerSeat
	r.Hand = hand
	r.Status = RoomStatusInHand
	r.Results = make([]Result, 0)

	// post blinds; a short stack can be forced all-in right here
	sbPosted := r.postBlind(r.Seats[sbSeat], r.SmallBlind, ActionSmallBlind, now)
	bbPosted := r.postBlind(r.Seats[bbSeat], r.BigBlind, ActionBigBlind, now)
	hand.CurrentBet = sbPosted
	if bbPosted > hand.CurrentBet {
		hand.CurrentBet = bbPosted
	}

	firstActor := r.nextActorSeat(bbSeat)
	if firstActor == 0 {
		// blinds put everyone all-in; no betting is possible
		r.runOutAndSettle()
		r.touch()
		return nil
	}
	hand.ToActID = r.Seats[firstActor]
	r.maybeRunOut()
	r.touch()

	handLogger.Info().
		Str(logging.RoomCodeKey, r.Code).
		Uint32(logging.HandNumKey, hand.Num).
		Uint32("dealerSeat", dealerSeat).
		Uint32("sbSeat", sbSeat).
		Uint32("bbSeat", bbSeat).
		Msg("New hand dealt")
	return nil
}

func (r *Room) postBlind(playerID string, blind int64, action ActionType, now time.Time) int64 {
	hand := r.Hand
	player := r.Players[playerID]
	posted := blind
	if player.Stack < posted {
		posted = player.Stack
	}
	player.Stack -= posted
	hand.StreetBets[playerID] += posted
	hand.TotalBets[playerID] += posted
	if player.Stack == 0 {
		hand.AllIn[playerID] = true
	}
	r.appendActionLog(ActionLogEntry{
		HandNum:  hand.Num,
		Street:   hand.Street,
		SeatNo:   player.SeatNo,
		PlayerID: playerID,
		Action:   action,
		Amount:   posted,
		At:       now,
	})
	return posted
}

// nextSeatIn returns the next seat clockwise after the given seat among
// the sorted candidate seats, wrapping around the table.
func nextSeatIn(seats []uint32, after uint32) uint32 {
	sorted := make([]uint32, len(seats))
	copy(sorted, seats)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for _, seatNo := range sorted {
		if seatNo > after {
			return seatNo
		}
	}
	return sorted[0]
}

func (h *Hand) isContender(playerID string) bool {
	_, ok := h.TotalBets[playerID]
	return ok
}

// nextActorSeat returns the next seat clockwise after the given seat whose
// occupant can still act this round: a contender that has not folded, is
// not all-in and has not acted since the last full bet-size change.
func (r *Room) nextActorSeat(from uint32) uint32 {
	hand := r.Hand
	seatNo := from
	for i := uint32(1); i <= r.Rules.MaxSeats; i++ {
		seatNo++
		if seatNo > r.Rules.MaxSeats {
			seatNo = 1
		}
		playerID := r.Seats[seatNo]
		if playerID == "" || !hand.isContender(playerID) {
			continue
		}
		if hand.Folded[playerID] || hand.AllIn[playerID] || hand.ActedSince[playerID] {
			continue
		}
		return seatNo
	}
	return 0
}

func (h *Hand) nonFolded() []string {
	alive := make([]string, 0, len(h.Contenders))
	for _, playerID := range h.Contenders {
		if !h.Folded[playerID] {
			alive = append(alive, playerID)
		}
	}
	return alive
}

// liveActors are the contenders that can still make betting decisions.
func (h *Hand) liveActors() []string {
	live := make([]string, 0, len(h.Contenders))
	for _, playerID := range h.Contenders {
		if !h.Folded[playerID] && !h.AllIn[playerID] {
			live = append(live, playerID)
		}
	}
	return live
}

// bettingRoundComplete reports whether every live contender has acted
// since the last full bet-size change. A short all-in does not clear the
// acted set, so players who already matched the prior bet are not asked
// to act again; the uncontested slice comes back through the pot ladder.
func (h *Hand) bettingRoundComplete() bool {
	for _, playerID := range h.Contenders {
		if h.Folded[playerID] || h.AllIn[playerID] {
			continue
		}
		if !h.ActedSince[playerID] {
			return false
		}
	}
	return true
}

// progressHand recomputes the hand state after an applied action: settle
// on a fold-out, run out the board when betting is impossible, advance the
// street when the round is complete, or pass the turn to the next actor.
func (r *Room) progressHand(fromSeat uint32) {
	hand := r.Hand
	if len(hand.nonFolded()) <= 1 {
		r.settleFoldOut()
		return
	}

	if r.maybeRunOut() {
		return
	}

	if hand.bettingRoundComplete() {
		if hand.Street == StreetRiver {
			hand.Street = StreetShowdown
			hand.ToActID = ""
			r.settleShowdown()
			return
		}
		r.advanceStreet()
		return
	}

	nextSeat := r.nextActorSeat(fromSeat)
	if nextSeat == 0 {
		// no one left to ask; treat the round as complete
		if hand.Street == StreetRiver {
			hand.Street = StreetShowdown
			hand.ToActID = ""
			r.settleShowdown()
			return
		}
		r.advanceStreet()
		return
	}
	hand.ToActID = r.Seats[nextSeat]
}

// maybeRunOut deals the remaining board and settles when no further
// betting is possible: everyone live is all-in, or a single live player
// remains with nothing left to call.
func (r *Room) maybeRunOut() bool {
	hand := r.Hand
	live := hand.liveActors()
	if len(live) == 0 {
		r.runOutAndSettle()
		return true
	}
	if len(live) == 1 && hand.StreetBets[live[0]] >= hand.CurrentBet {
		r.runOutAndSettle()
		return true
	}
	return false
}

// advanceStreet moves to the next street: deals the community cards,
// clears the per-street betting state and hands the turn to the first
// live contender after the dealer.
func (r *Room) advanceStreet() {
	hand := r.Hand
	switch hand.Street {
	case StreetPreflop:
		hand.Street = StreetFlop
		hand.Community = append(hand.Community, hand.Deck.Draw(3)...)
	case StreetFlop:
		hand.Street = StreetTurn
		hand.Community = append(hand.Community, hand.Deck.Draw(1)...)
	case StreetTurn:
		hand.Street = StreetRiver
		hand.Community = append(hand.Community, hand.Deck.Draw(1)...)
	default:
		panic("advanceStreet called on " + string(hand.Street))
	}

	for _, playerID := range hand.Contenders {
		hand.StreetBets[playerID] = 0
	}
	hand.ActedSince = make(map[string]bool)
	hand.CurrentBet = 0
	hand.MinRaise = r.BigBlind

	firstSeat := r.nextActorSeat(r.DealerSeat)
	if firstSeat == 0 {
		// everyone who could act is all-in; unreachable because run-out
		// is decided before advancing
		panic("no actor available after street advance")
	}
	hand.ToActID = r.Seats[firstSeat]

	handLogger.Debug().
		Str(logging.RoomCodeKey, r.Code).
		Uint32(logging.HandNumKey, hand.Num).
		Str("street", string(hand.Street)).
		Msg("Street advanced")
}

// runOutAndSettle deals the remaining community cards without betting and
// settles at showdown.
func (r *Room) runOutAndSettle() {
	hand := r.Hand
	for len(hand.Community) < 5 {
		hand.Community = append(hand.Community, hand.Deck.Draw(1)...)
	}
	hand.Street = StreetShowdown
	hand.ToActID = ""
	r.settleShowdown()
}
