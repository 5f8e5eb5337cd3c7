package game

// RoomEventType tags a post-mutation notification.
type RoomEventType string

const (
	EventRoomCreated   RoomEventType = "ROOM_CREATED"
	EventPlayerJoined  RoomEventType = "PLAYER_JOINED"
	EventPlayerSeated  RoomEventType = "PLAYER_SEATED"
	EventPlayerRemoved RoomEventType = "PLAYER_REMOVED"
	EventRecharged     RoomEventType = "PLAYER_RECHARGED"
	EventHandStarted   RoomEventType = "HAND_STARTED"
	EventActionApplied RoomEventType = "ACTION_APPLIED"
	EventHandSettled   RoomEventType = "HAND_SETTLED"
)

// RoomEvent is published after every successful mutation. It carries just
// enough for a subscriber to decide whether to fetch a fresh snapshot.
type RoomEvent struct {
	Type     RoomEventType `json:"type"`
	RoomCode string        `json:"roomCode"`
	RoomID   string        `json:"roomId"`
	Version  uint64        `json:"version"`
	HandNum  uint32        `json:"handNum"`
	Status   RoomStatus    `json:"status"`

	// ToActPlayerID is set while a hand is waiting on a player.
	ToActPlayerID string `json:"toActPlayerId,omitempty"`
	PlayerID      string `json:"playerId,omitempty"`
	SeatNo        uint32 `json:"seatNo,omitempty"`
}

// Publisher delivers room events to interested collaborators. Publishing
// is fire and forget; failures must never affect the mutation that
// produced the event.
type Publisher interface {
	PublishRoomEvent(event RoomEvent)
}

type nopPublisher struct{}

func (nopPublisher) PublishRoomEvent(RoomEvent) {}

// NopPublisher returns a publisher that drops every event.
func NopPublisher() Publisher {
	return nopPublisher{}
}
