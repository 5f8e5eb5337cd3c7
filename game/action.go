package game

import (
	"time"

	"cardroom.io/server/logging"
)

var actionLogger = logging.GetZeroLogger("game::action", nil)

// ApplyAction validates and applies one player command against the active
// hand. Retries with an already-processed action ID succeed without
// touching any state. Any rejection leaves the room unmodified.
func (r *Room) ApplyAction(actorID string, command ActionCommand, now time.Time) error {
	hand := r.Hand
	if r.Status != RoomStatusInHand || hand == nil {
		return stateError("No hand is in progress in room %s", r.Code)
	}
	if command.ActionID == "" {
		return validationError("Action is missing an action ID")
	}

	// retries are resolved before any turn or legality check
	if hand.ProcessedActions[command.ActionID] {
		return nil
	}

	player, ok := r.Players[actorID]
	if !ok || !hand.isContender(actorID) {
		return stateError("Player %s is not in the current hand", actorID)
	}
	if actorID != hand.ToActID {
		return stateError("It is not player %s's turn to act", player.Name)
	}
	if hand.Folded[actorID] {
		return stateError("Player %s has already folded", player.Name)
	}
	if hand.AllIn[actorID] {
		return stateError("Player %s is all-in and cannot act", player.Name)
	}

	toCall := hand.CurrentBet - hand.StreetBets[actorID]
	var applied ActionCommand

	switch command.Type {
	case ActionFold:
		hand.Folded[actorID] = true
		hand.ActedSince[actorID] = true
		applied = command

	case ActionCheck:
		if toCall > 0 {
			return validationError("Cannot check. %d to call", toCall)
		}
		hand.ActedSince[actorID] = true
		applied = command

	case ActionCall:
		if toCall <= 0 {
			return validationError("Nothing to call. Check instead")
		}
		pay := toCall
		if player.Stack < pay {
			pay = player.Stack
		}
		r.commitChips(actorID, pay)
		hand.ActedSince[actorID] = true
		applied = command
		applied.Amount = pay

	case ActionBet:
		if toCall > 0 {
			return validationError("Cannot bet into an outstanding bet of %d. Raise instead", hand.CurrentBet)
		}
		if err := r.validateWager(player, command.Amount); err != nil {
			return err
		}
		allIn := command.Amount == player.Stack
		newTotal := hand.StreetBets[actorID] + command.Amount
		if newTotal < r.BigBlind && !allIn {
			return validationError("Bet must be at least the big blind (%d)", r.BigBlind)
		}
		// at the big blind option the bet is over posted chips, so it
		// follows the same full/short rules as a raise
		raiseBy := newTotal - hand.CurrentBet
		if raiseBy < hand.MinRaise && !allIn {
			return validationError("Bet must increase the bet by at least %d", hand.MinRaise)
		}
		r.commitChips(actorID, command.Amount)
		hand.CurrentBet = newTotal
		if raiseBy >= hand.MinRaise {
			// a full bet forces everyone to act again
			hand.ActedSince = make(map[string]bool)
			hand.MinRaise = raiseBy
		}
		hand.ActedSince[actorID] = true
		applied = command

	case ActionRaise:
		if toCall <= 0 {
			return validationError("Nothing to raise over. Bet instead")
		}
		if err := r.validateWager(player, command.Amount); err != nil {
			return err
		}
		if command.Amount <= toCall {
			return validationError("Raise of %d does not exceed the %d to call", command.Amount, toCall)
		}
		allIn := command.Amount == player.Stack
		newTotal := hand.StreetBets[actorID] + command.Amount
		raiseBy := newTotal - hand.CurrentBet
		if raiseBy < hand.MinRaise && !allIn {
			return validationError("Raise must increase the bet by at least %d", hand.MinRaise)
		}
		r.commitChips(actorID, command.Amount)
		hand.CurrentBet = newTotal
		if raiseBy >= hand.MinRaise {
			hand.ActedSince = make(map[string]bool)
			hand.MinRaise = raiseBy
		}
		// a short all-in raise does not reopen the action
		hand.ActedSince[actorID] = true
		applied = command

	case ActionAllIn:
		if player.Stack <= 0 {
			return stateError("Player %s has no chips left", player.Name)
		}
		amount := player.Stack
		newTotal := hand.StreetBets[actorID] + amount
		if newTotal > hand.CurrentBet {
			minimum := hand.MinRaise
			if hand.CurrentBet == 0 {
				minimum = r.BigBlind
			}
			raiseBy := newTotal - hand.CurrentBet
			if raiseBy >= minimum {
				hand.ActedSince = make(map[string]bool)
				hand.MinRaise = raiseBy
			}
			hand.CurrentBet = newTotal
		}
		r.commitChips(actorID, amount)
		hand.ActedSince[actorID] = true
		applied = command
		applied.Amount = amount

	default:
		return validationError("Unknown action type %s", command.Type)
	}

	hand.ProcessedActions[command.ActionID] = true
	player.LastSeenAt = now
	r.appendActionLog(ActionLogEntry{
		HandNum:  hand.Num,
		Street:   hand.Street,
		SeatNo:   player.SeatNo,
		PlayerID: actorID,
		Action:   applied.Type,
		Amount:   applied.Amount,
		At:       now,
	})

	actionLogger.Info().
		Str(logging.RoomCodeKey, r.Code).
		Uint32(logging.HandNumKey, hand.Num).
		Uint32(logging.SeatNumKey, player.SeatNo).
		Str(logging.ActionKey, string(applied.Type)).
		Int64("amount", applied.Amount).
		Msg("Action applied")

	r.progressHand(player.SeatNo)
	r.touch()
	return nil
}

// commitChips moves chips from the player's stack into the hand and marks
// the player all-in when the stack hits zero.
func (r *Room) commitChips(playerID string, amount int64) {
	hand := r.Hand
	player := r.Players[playerID]
	player.Stack -= amount
	hand.StreetBets[playerID] += amount
	hand.TotalBets[playerID] += amount
	if player.Stack == 0 {
		hand.AllIn[playerID] = true
	}
}

func (r *Room) validateWager(player *Player, amount int64) error {
	if amount <= 0 {
		return validationError("Amount must be positive")
	}
	if amount%r.Rules.BetStep != 0 {
		return validationError("Amount %d must be a multiple of %d", amount, r.Rules.BetStep)
	}
	if amount > player.Stack {
		return validationError("Amount %d exceeds player %s's stack of %d", amount, player.Name, player.Stack)
	}
	return nil
}

// ComputeAllowedActions is a pure projection of what the given player may
// do right now. It returns the zero value for anyone not holding the turn.
func (r *Room) ComputeAllowedActions(playerID string) AllowedActions {
	var allowed AllowedActions
	hand := r.Hand
	if r.Status != RoomStatusInHand || hand == nil {
		return allowed
	}
	if playerID != hand.ToActID || hand.Folded[playerID] || hand.AllIn[playerID] {
		return allowed
	}
	player, ok := r.Players[playerID]
	if !ok {
		return allowed
	}

	toCall := hand.CurrentBet - hand.StreetBets[playerID]
	allowed.CanFold = true
	allowed.CanAllIn = player.Stack > 0
	allowed.MaxAmount = player.Stack

	if toCall <= 0 {
		allowed.CanCheck = true
		if player.Stack > 0 {
			allowed.CanBet = true
			// big blind normally; at the big blind option the posted
			// chips count, so a full minimum raise is required on top
			minBet := hand.MinRaise + hand.CurrentBet - hand.StreetBets[playerID]
			if minBet < r.Rules.BetStep {
				minBet = r.Rules.BetStep
			}
			if minBet > player.Stack {
				minBet = player.Stack
			}
			allowed.MinBet = minBet
		}
		return allowed
	}

	allowed.CanCall = true
	allowed.CallAmount = toCall
	if player.Stack < toCall {
		allowed.CallAmount = player.Stack
	}
	if player.Stack > toCall {
		allowed.CanRaise = true
		minRaiseTo := hand.CurrentBet + hand.MinRaise
		maxTo := hand.StreetBets[playerID] + player.Stack
		if minRaiseTo > maxTo {
			minRaiseTo = maxTo
		}
		allowed.MinRaiseTo = minRaiseTo
	}
	return allowed
}
