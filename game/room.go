package game

import (
	"fmt"
	"time"

	"cardroom.io/server/logging"
)

var roomLogger = logging.GetZeroLogger("game::room", nil)

func NewRoom(id string, code string, hostName string, smallBlind int64, bigBlind int64, rules Rules, hostID string, now time.Time) *Room {
	room := &Room{
		ID:         id,
		Code:       code,
		HostID:     hostID,
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		Rules:      rules,
		Seats:      make([]string, rules.MaxSeats+1),
		Players:    make(map[string]*Player),
		Status:     RoomStatusWaiting,
		ActionLog:  make([]ActionLogEntry, 0, rules.ActionLogSize),
		Results:    make([]Result, 0),
		CreatedAt:  now,
	}
	room.Players[hostID] = &Player{
		ID:         hostID,
		Name:       room.uniqueName(hostName),
		JoinedAt:   now,
		LastSeenAt: now,
	}
	room.touch()
	return room
}

// touch bumps the room version. Every mutating command ends here.
func (r *Room) touch() {
	r.Version++
}

// uniqueName suffixes the display name until it is unique in the room.
func (r *Room) uniqueName(name string) string {
	if name == "" {
		name = "player"
	}
	candidate := name
	suffix := 2
	for {
		taken := false
		for _, p := range r.Players {
			if p.Name == candidate {
				taken = true
				break
			}
		}
		if !taken {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", name, suffix)
		suffix++
	}
}

// Join adds a player to the room. The player starts without a seat and
// with an empty stack; the host recharges them before play.
func (r *Room) Join(playerID string, displayName string, now time.Time) *Player {
	player := &Player{
		ID:         playerID,
		Name:       r.uniqueName(displayName),
		JoinedAt:   now,
		LastSeenAt: now,
	}
	r.Players[playerID] = player
	r.touch()
	roomLogger.Info().
		Str(logging.RoomCodeKey, r.Code).
		Str(logging.PlayerIDKey, playerID).
		Str(logging.PlayerNameKey, player.Name).
		Msg("Player joined the room")
	return player
}

// Seat places a joined player in an open seat. A player keeps their seat
// until they are removed.
func (r *Room) Seat(playerID string, seatNo uint32) error {
	player, ok := r.Players[playerID]
	if !ok {
		return stateError("Player %s is not in room %s", playerID, r.Code)
	}
	if seatNo < 1 || seatNo > r.Rules.MaxSeats {
		return validationError("Invalid seat number %d. Valid seats are 1-%d", seatNo, r.Rules.MaxSeats)
	}
	if player.SeatNo != 0 {
		return stateError("Player %s is already seated at seat %d", player.Name, player.SeatNo)
	}
	if r.Seats[seatNo] != "" {
		return stateError("Seat %d is already taken", seatNo)
	}
	r.Seats[seatNo] = playerID
	player.SeatNo = seatNo
	r.touch()
	return nil
}

// Recharge adds chips to a player's stack. Rejected while a hand runs.
func (r *Room) Recharge(targetPlayerID string, amount int64) error {
	if r.Status == RoomStatusInHand {
		return stateError("Cannot recharge while a hand is in progress")
	}
	if amount <= 0 || amount%r.Rules.RechargeStep != 0 {
		return validationError("Recharge amount %d must be a positive multiple of %d", amount, r.Rules.RechargeStep)
	}
	player, ok := r.Players[targetPlayerID]
	if !ok {
		return stateError("Player %s is not in room %s", targetPlayerID, r.Code)
	}
	player.Stack += amount
	r.touch()
	return nil
}

// Remove evicts a player from the room. Only allowed between hands; the
// host cannot remove themselves.
func (r *Room) Remove(targetPlayerID string) error {
	if r.Status != RoomStatusWaiting {
		return stateError("Cannot remove a player while a hand is in progress")
	}
	if targetPlayerID == r.HostID {
		return validationError("The host cannot remove themselves")
	}
	player, ok := r.Players[targetPlayerID]
	if !ok {
		return stateError("Player %s is not in room %s", targetPlayerID, r.Code)
	}
	if player.SeatNo != 0 {
		r.Seats[player.SeatNo] = ""
	}
	delete(r.Players, targetPlayerID)
	r.touch()
	return nil
}

// AvailableSeats lists the open seat numbers in ascending order.
func (r *Room) AvailableSeats() []uint32 {
	seats := make([]uint32, 0, r.Rules.MaxSeats)
	for seatNo := uint32(1); seatNo <= r.Rules.MaxSeats; seatNo++ {
		if r.Seats[seatNo] == "" {
			seats = append(seats, seatNo)
		}
	}
	return seats
}

func (r *Room) playerAtSeat(seatNo uint32) *Player {
	if seatNo < 1 || seatNo > r.Rules.MaxSeats {
		return nil
	}
	playerID := r.Seats[seatNo]
	if playerID == "" {
		return nil
	}
	return r.Players[playerID]
}

func (r *Room) seatOf(playerID string) uint32 {
	player, ok := r.Players[playerID]
	if !ok {
		return 0
	}
	return player.SeatNo
}

// appendActionLog keeps a capped ring of recent hand actions.
func (r *Room) appendActionLog(entry ActionLogEntry) {
	if r.Rules.ActionLogSize <= 0 {
		return
	}
	if len(r.ActionLog) >= r.Rules.ActionLogSize {
		// drop the oldest entry
		copy(r.ActionLog, r.ActionLog[1:])
		r.ActionLog = r.ActionLog[:len(r.ActionLog)-1]
	}
	r.ActionLog = append(r.ActionLog, entry)
}
