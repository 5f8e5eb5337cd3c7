package game

import (
	"time"

	"cardroom.io/server/poker"
)

// SeatSnapshot is the public view of one occupied seat.
type SeatSnapshot struct {
	SeatNo    uint32 `json:"seatNo"`
	PlayerID  string `json:"playerId"`
	Name      string `json:"name"`
	Stack     int64  `json:"stack"`
	Connected bool   `json:"connected"`

	Folded  bool `json:"folded"`
	AllIn   bool `json:"allIn"`
	IsTurn  bool `json:"isTurn"`
	Dealer  bool `json:"dealer"`
	SmallBlind bool `json:"smallBlind"`
	BigBlind   bool `json:"bigBlind"`

	StreetBet int64 `json:"streetBet"`
	TotalBet  int64 `json:"totalBet"`
}

// PrivateSnapshot is the viewer-only section of a snapshot. Only the
// seated viewer ever sees their own hole cards, and allowed actions are
// populated only while the viewer holds the turn.
type PrivateSnapshot struct {
	HoleCards []poker.Card    `json:"holeCards"`
	Allowed   *AllowedActions `json:"allowed,omitempty"`
}

// Snapshot is a point-in-time read model of a room scoped to one viewer.
type Snapshot struct {
	RoomID     string     `json:"roomId"`
	RoomCode   string     `json:"roomCode"`
	Status     RoomStatus `json:"status"`
	SmallBlind int64      `json:"smallBlind"`
	BigBlind   int64      `json:"bigBlind"`
	MaxSeats   uint32     `json:"maxSeats"`
	Version    uint64     `json:"version"`

	HandNum    uint32       `json:"handNum"`
	Street     HandStreet   `json:"street,omitempty"`
	Community  []poker.Card `json:"community,omitempty"`
	DealerSeat uint32       `json:"dealerSeat"`
	ToActSeat  uint32       `json:"toActSeat"`
	CurrentBet int64        `json:"currentBet"`
	MinRaise   int64        `json:"minRaise"`

	PotTotal int64              `json:"potTotal"`
	Pots     []PotBreakdownItem `json:"pots,omitempty"`

	Seats []SeatSnapshot `json:"seats"`

	ActionLog    []ActionLogEntry `json:"actionLog"`
	Results      []Result         `json:"results,omitempty"`
	LastShowdown *ShowdownDetail  `json:"lastShowdown,omitempty"`

	Private *PrivateSnapshot `json:"private,omitempty"`

	ProjectedAt time.Time `json:"projectedAt"`
}

// Project builds the viewer-scoped snapshot of a room. It is a pure
// function of (room, viewer, now) and never mutates room state. A nil
// viewer produces the anonymous spectator view.
func Project(r *Room, viewer *Identity, now time.Time) Snapshot {
	snap := Snapshot{
		RoomID:      r.ID,
		RoomCode:    r.Code,
		Status:      r.Status,
		SmallBlind:  r.SmallBlind,
		BigBlind:    r.BigBlind,
		MaxSeats:    r.Rules.MaxSeats,
		Version:     r.Version,
		HandNum:     r.HandNum,
		DealerSeat:  r.DealerSeat,
		ActionLog:   append([]ActionLogEntry(nil), r.ActionLog...),
		Results:     append([]Result(nil), r.Results...),
		ProjectedAt: now,
	}
	if r.LastShowdown != nil {
		detail := *r.LastShowdown
		snap.LastShowdown = &detail
	}

	h := r.Hand
	var toActSeat uint32
	if h != nil {
		snap.Street = h.Street
		snap.Community = append([]poker.Card(nil), h.Community...)
		snap.CurrentBet = h.CurrentBet
		snap.MinRaise = h.MinRaise
		snap.PotTotal = h.PotTotal()
		snap.Pots = BuildPots(h.TotalBets, h.Contenders, h.Folded)
		toActSeat = r.seatOf(h.ToActID)
		snap.ToActSeat = toActSeat
	}

	for seatNo := uint32(1); seatNo <= r.Rules.MaxSeats; seatNo++ {
		player := r.playerAtSeat(seatNo)
		if player == nil {
			continue
		}
		seat := SeatSnapshot{
			SeatNo:    seatNo,
			PlayerID:  player.ID,
			Name:      player.Name,
			Stack:     player.Stack,
			Connected: now.Sub(player.LastSeenAt) <= r.Rules.Liveness,
			Dealer:    seatNo == r.DealerSeat,
		}
		if h != nil {
			seat.Folded = h.Folded[player.ID]
			seat.AllIn = h.AllIn[player.ID]
			seat.IsTurn = seatNo == toActSeat
			seat.SmallBlind = seatNo == h.SmallBlindSeat
			seat.BigBlind = seatNo == h.BigBlindSeat
			seat.StreetBet = h.StreetBets[player.ID]
			seat.TotalBet = h.TotalBets[player.ID]
		}
		snap.Seats = append(snap.Seats, seat)
	}

	if viewer == nil || h == nil {
		return snap
	}
	player, ok := r.Players[viewer.PlayerID]
	if !ok {
		return snap
	}
	cards, dealtIn := h.HoleCards[player.ID]
	if !dealtIn {
		return snap
	}
	private := &PrivateSnapshot{
		HoleCards: append([]poker.Card(nil), cards...),
	}
	if viewer.Role == RolePlayer && h.ToActID == player.ID {
		allowed := r.ComputeAllowedActions(player.ID)
		private.Allowed = &allowed
	}
	snap.Private = private
	return snap
}
