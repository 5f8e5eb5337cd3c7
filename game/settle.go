package game

import (
	"fmt"
	"sort"

	"cardroom.io/server/logging"
	"cardroom.io/server/poker"
)

var settleLogger = logging.GetZeroLogger("game::settle", nil)

// settleFoldOut awards the whole pot to the last player standing. Hole
// cards stay hidden, so no showdown detail is recorded.
func (r *Room) settleFoldOut() {
	hand := r.Hand
	alive := hand.nonFolded()
	if len(alive) != 1 {
		panic(fmt.Sprintf("fold-out settlement with %d live players", len(alive)))
	}
	winnerID := alive[0]
	pot := hand.PotTotal()
	r.Players[winnerID].Stack += pot
	r.Results = append(r.Results, Result{
		Winners: []string{winnerID},
		Amount:  pot,
		Reason:  "all opponents folded",
	})
	r.LastShowdown = nil
	r.finishHand()

	settleLogger.Info().
		Str(logging.RoomCodeKey, r.Code).
		Uint32(logging.HandNumKey, hand.Num).
		Str(logging.PlayerIDKey, winnerID).
		Int64("amount", pot).
		Msg("Hand settled by fold-out")
}

// settleShowdown ranks every live contender's best seven card hand and
// distributes each pot of the ladder to its best eligible hand(s). Tied
// pots split evenly; odd chips go to the lowest seats first.
func (r *Room) settleShowdown() {
	hand := r.Hand
	ranks := make(map[string]poker.HandRank)
	for _, playerID := range hand.nonFolded() {
		cards := make([]poker.Card, 0, 7)
		cards = append(cards, hand.HoleCards[playerID]...)
		cards = append(cards, hand.Community...)
		ranks[playerID] = poker.Rank7(cards)
	}

	pots := BuildPots(hand.TotalBets, hand.Contenders, hand.Folded)
	overallWinners := make(map[string]bool)
	for _, pot := range pots {
		winners := bestRanked(pot.Eligible, ranks)
		sort.Slice(winners, func(i, j int) bool {
			return r.seatOf(winners[i]) < r.seatOf(winners[j])
		})
		share := pot.Amount / int64(len(winners))
		remainder := pot.Amount % int64(len(winners))
		for i, winnerID := range winners {
			won := share
			if int64(i) < remainder {
				won++
			}
			r.Players[winnerID].Stack += won
			overallWinners[winnerID] = true
		}
		r.Results = append(r.Results, Result{
			Winners: winners,
			Amount:  pot.Amount,
			Reason:  fmt.Sprintf("%s pot won with %s", pot.Name, ranks[winners[0]].Label),
		})
	}

	detail := &ShowdownDetail{
		HandNum:   hand.Num,
		Community: hand.Community,
		Hands:     make([]ShowdownHand, 0, len(hand.Contenders)),
	}
	for _, playerID := range hand.Contenders {
		if hand.Folded[playerID] {
			continue
		}
		detail.Hands = append(detail.Hands, ShowdownHand{
			PlayerID:  playerID,
			SeatNo:    r.seatOf(playerID),
			HoleCards: hand.HoleCards[playerID],
			RankLabel: ranks[playerID].Label,
			Winner:    overallWinners[playerID],
		})
	}
	r.LastShowdown = detail
	r.finishHand()

	settleLogger.Info().
		Str(logging.RoomCodeKey, r.Code).
		Uint32(logging.HandNumKey, hand.Num).
		Int("pots", len(pots)).
		Msg("Hand settled by showdown")
}

// bestRanked returns the eligible players holding the best rank, in the
// order they appear in eligible.
func bestRanked(eligible []string, ranks map[string]poker.HandRank) []string {
	var best poker.HandRank
	winners := make([]string, 0, len(eligible))
	for _, playerID := range eligible {
		rank, ok := ranks[playerID]
		if !ok {
			continue
		}
		if len(winners) == 0 {
			best = rank
			winners = append(winners, playerID)
			continue
		}
		switch poker.Compare(rank, best) {
		case 1:
			best = rank
			winners = winners[:0]
			winners = append(winners, playerID)
		case 0:
			winners = append(winners, playerID)
		}
	}
	return winners
}

// finishHand returns the room to the waiting state. The settled hand is
// dropped; its outcome lives on in Results, LastShowdown and the log.
func (r *Room) finishHand() {
	r.Hand.Street = StreetSettled
	r.Hand = nil
	r.Status = RoomStatusWaiting
}
