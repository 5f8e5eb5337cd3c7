package game

import (
	jsoniter "github.com/json-iterator/go"
)

// RoomStore persists encoded room state between commands. The manager
// encodes rooms while holding the room lock, so implementations only
// ever see bytes; they must be safe for concurrent use across rooms.
type RoomStore interface {
	Load(roomCode string) ([]byte, error)
	Save(roomCode string, data []byte) error
	Remove(roomCode string) error
}

// EncodeRoom and DecodeRoom are the store codec. The full Room round
// trips, including a mid-hand Hand and its deck.
func EncodeRoom(room *Room) ([]byte, error) {
	return jsoniter.Marshal(room)
}

func DecodeRoom(data []byte) (*Room, error) {
	room := &Room{}
	if err := jsoniter.Unmarshal(data, room); err != nil {
		return nil, err
	}
	return room, nil
}
