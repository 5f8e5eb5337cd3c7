package game

import (
	"fmt"
	"sync"
)

type MemoryRoomStore struct {
	mu    sync.RWMutex
	rooms map[string][]byte
}

func NewMemoryRoomStore() *MemoryRoomStore {
	return &MemoryRoomStore{
		rooms: make(map[string][]byte),
	}
}

func (m *MemoryRoomStore) Load(roomCode string) ([]byte, error) {
	m.mu.RLock()
	roomBytes, ok := m.rooms[roomCode]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("Room state for Room: %s is not found", roomCode)
	}
	return roomBytes, nil
}

func (m *MemoryRoomStore) Save(roomCode string, data []byte) error {
	m.mu.Lock()
	m.rooms[roomCode] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryRoomStore) Remove(roomCode string) error {
	m.mu.Lock()
	delete(m.rooms, roomCode)
	m.mu.Unlock()
	return nil
}
