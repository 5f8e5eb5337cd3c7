package caches

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

type RoomCodeCacheStruct struct {
	roomIDToCode *lru.Cache
	roomCodeToID *lru.Cache
}

var RoomCodeCache = createCache()

func createCache() *RoomCodeCacheStruct {
	c, err := NewCache()
	if err != nil {
		panic("Cannot initialize room code cache")
	}
	return c
}

func NewCache() (*RoomCodeCacheStruct, error) {
	size := 100000
	roomIDToCode, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to initialize roomIDToCode cache")
	}
	roomCodeToID, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to initialize roomCodeToID cache")
	}
	return &RoomCodeCacheStruct{
		roomIDToCode: roomIDToCode,
		roomCodeToID: roomCodeToID,
	}, nil
}

func (c *RoomCodeCacheStruct) Add(roomID string, roomCode string) error {
	if roomID == "" {
		return fmt.Errorf("Invalid room ID [%s]", roomID)
	} else if roomCode == "" {
		return fmt.Errorf("Invalid room Code [%s]", roomCode)
	}

	c.roomIDToCode.Add(roomID, roomCode)
	c.roomCodeToID.Add(roomCode, roomID)
	return nil
}

func (c *RoomCodeCacheStruct) RoomIDToCode(roomID string) (string, bool) {
	v, exists := c.roomIDToCode.Get(roomID)
	if !exists {
		return "", false
	}
	return v.(string), true
}

func (c *RoomCodeCacheStruct) RoomCodeToID(roomCode string) (string, bool) {
	v, exists := c.roomCodeToID.Get(roomCode)
	if !exists {
		return "", false
	}
	return v.(string), true
}
