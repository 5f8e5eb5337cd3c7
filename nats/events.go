package nats

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	natsgo "github.com/nats-io/nats.go"

	"cardroom.io/server/game"
	"cardroom.io/server/logging"
)

var natsLogger = logging.GetZeroLogger("nats::events", nil)

// Each room publishes its post-mutation events on one subject:
// room.<code>.events
// Subscribers (the bot scheduler, UI pushers) treat events as hints to
// fetch a fresh snapshot; delivery is best effort.

// EventBus publishes room events to a NATS server.
type EventBus struct {
	nc *natsgo.Conn
}

func NewEventBus(natsURL string) (*EventBus, error) {
	nc, err := natsgo.Connect(natsURL)
	if err != nil {
		natsLogger.Error().Msg(fmt.Sprintf("Failed to connect to nats server: %v", err))
		return nil, err
	}
	return &EventBus{nc: nc}, nil
}

func roomSubject(roomCode string) string {
	return fmt.Sprintf("room.%s.events", roomCode)
}

// PublishRoomEvent implements game.Publisher. Failures are logged and
// swallowed; event delivery never fails the mutation that produced it.
func (b *EventBus) PublishRoomEvent(event game.RoomEvent) {
	data, err := jsoniter.Marshal(event)
	if err != nil {
		natsLogger.Error().
			Err(err).
			Str(logging.RoomCodeKey, event.RoomCode).
			Msg("Could not marshal room event")
		return
	}
	if err := b.nc.Publish(roomSubject(event.RoomCode), data); err != nil {
		natsLogger.Error().
			Err(err).
			Str(logging.RoomCodeKey, event.RoomCode).
			Msg("Could not publish room event")
	}
}

// SubscribeRoom delivers every event published for a room to handler.
func (b *EventBus) SubscribeRoom(roomCode string, handler func(game.RoomEvent)) (*natsgo.Subscription, error) {
	return b.nc.Subscribe(roomSubject(roomCode), func(msg *natsgo.Msg) {
		var event game.RoomEvent
		if err := jsoniter.Unmarshal(msg.Data, &event); err != nil {
			natsLogger.Error().
				Err(err).
				Str(logging.RoomCodeKey, roomCode).
				Msg("Dropping malformed room event")
			return
		}
		handler(event)
	})
}

func (b *EventBus) Close() {
	b.nc.Close()
}
