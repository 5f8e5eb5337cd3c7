package bot

import (
	"time"

	"github.com/google/uuid"

	"cardroom.io/server/game"
	"cardroom.io/server/logging"
)

var botPlayerLogger = logging.GetZeroLogger("bot::player", nil)

// PlayerBot fills one seat in one room. It wakes up on room events,
// and when it holds the turn it picks a command from the allowed-action
// bounds and submits it like any other player. The engine cannot tell a
// bot command from a human one.
type PlayerBot struct {
	manager  *game.Manager
	identity game.Identity
	name     string
	delay    time.Duration
}

func NewPlayerBot(manager *game.Manager, identity game.Identity, name string, delay time.Duration) *PlayerBot {
	return &PlayerBot{
		manager:  manager,
		identity: identity,
		name:     name,
		delay:    delay,
	}
}

func (b *PlayerBot) PlayerID() string {
	return b.identity.PlayerID
}

// OnRoomEvent reacts to one room event. Every failure path degrades to
// the safe default of check-else-fold so the turn always progresses.
func (b *PlayerBot) OnRoomEvent(event game.RoomEvent) {
	if event.ToActPlayerID != b.identity.PlayerID {
		return
	}
	if b.delay > 0 {
		time.Sleep(b.delay)
	}

	allowed, err := b.manager.AllowedActions(b.identity.RoomCode, b.identity.PlayerID)
	if err != nil {
		botPlayerLogger.Error().
			Err(err).
			Str(logging.RoomCodeKey, b.identity.RoomCode).
			Str(logging.PlayerNameKey, b.name).
			Msg("Could not fetch allowed actions, submitting safe default")
		b.submit(game.ActionCommand{ActionID: uuid.New().String(), Type: game.ActionCheck})
		return
	}

	command := decide(allowed)
	command.ActionID = uuid.New().String()
	b.submit(command)
}

// decide picks the cheapest reasonable command: check when free, call a
// small bet, fold otherwise. "Small" means at most a tenth of the stack
// still behind after calling.
func decide(allowed *game.AllowedActions) game.ActionCommand {
	if allowed.CanCheck {
		return game.ActionCommand{Type: game.ActionCheck}
	}
	if allowed.CanCall && allowed.CallAmount*10 <= allowed.MaxAmount {
		return game.ActionCommand{Type: game.ActionCall, Amount: allowed.CallAmount}
	}
	if allowed.CanFold {
		return game.ActionCommand{Type: game.ActionFold}
	}
	return game.ActionCommand{Type: game.ActionCheck}
}

func (b *PlayerBot) submit(command game.ActionCommand) {
	err := b.manager.ApplyAction(b.identity, b.identity.RoomCode, command, time.Now())
	if err == nil {
		return
	}
	botPlayerLogger.Warn().
		Err(err).
		Str(logging.RoomCodeKey, b.identity.RoomCode).
		Str(logging.PlayerNameKey, b.name).
		Str(logging.ActionKey, string(command.Type)).
		Msg("Bot action rejected, falling back")

	// fallback ladder: check, then fold
	if command.Type != game.ActionCheck {
		fallback := game.ActionCommand{ActionID: uuid.New().String(), Type: game.ActionCheck}
		if b.manager.ApplyAction(b.identity, b.identity.RoomCode, fallback, time.Now()) == nil {
			return
		}
	}
	if command.Type != game.ActionFold {
		fallback := game.ActionCommand{ActionID: uuid.New().String(), Type: game.ActionFold}
		_ = b.manager.ApplyAction(b.identity, b.identity.RoomCode, fallback, time.Now())
	}
}
