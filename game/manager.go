package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map"

	"cardroom.io/server/internal/caches"
	"cardroom.io/server/logging"
	"cardroom.io/server/util"
	"cardroom.io/server/util/random"
)

var managerLogger = logging.GetZeroLogger("game::manager", nil)

// TokenIssuer mints verifiable credentials for room identities. The
// manager never inspects tokens; the transport layer verifies them and
// hands the manager a trusted Identity.
type TokenIssuer interface {
	Issue(identity Identity, now time.Time) (string, error)
}

// roomEntry pairs a room with the mutex serializing its commands.
// Commands take the write lock, snapshot reads the read lock.
type roomEntry struct {
	mu   sync.RWMutex
	room *Room
}

type CreateRoomResult struct {
	RoomID           string   `json:"roomId"`
	RoomCode         string   `json:"roomCode"`
	HostID           string   `json:"hostId"`
	HostCredential   string   `json:"hostCredential"`
	PlayerCredential string   `json:"playerCredential"`
	AvailableSeats   []uint32 `json:"availableSeats"`
}

type JoinRoomResult struct {
	PlayerID         string   `json:"playerId"`
	PlayerCredential string   `json:"playerCredential"`
	AvailableSeats   []uint32 `json:"availableSeats"`
}

// Manager owns the active room registry and drives every room command
// through per-room serialization.
type Manager struct {
	config      *util.ServerConfig
	store       RoomStore
	publisher   Publisher
	issuer      TokenIssuer
	activeRooms cmap.ConcurrentMap

	codeMu   sync.Mutex
	codeRand *rand.Rand
}

func NewRoomManager(config *util.ServerConfig, store RoomStore, publisher Publisher, issuer TokenIssuer) *Manager {
	if publisher == nil {
		publisher = NopPublisher()
	}
	return &Manager{
		config:      config,
		store:       store,
		publisher:   publisher,
		issuer:      issuer,
		activeRooms: cmap.New(),
		codeRand:    rand.New(rand.NewSource(random.NewSeed())),
	}
}

// CreateRoom provisions a room with the caller as host. The host is also
// seated-eligible as a regular player, so both credentials are returned.
func (m *Manager) CreateRoom(hostName string, smallBlind int64, bigBlind int64, now time.Time) (*CreateRoomResult, error) {
	if hostName == "" {
		return nil, validationError("display name is required")
	}
	if smallBlind <= 0 || bigBlind <= 0 {
		return nil, validationError("blinds must be positive")
	}
	if bigBlind < 2*smallBlind {
		return nil, validationError("big blind must be at least twice the small blind")
	}

	roomID := uuid.New().String()
	hostID := uuid.New().String()
	rules := Rules{
		MaxSeats:      m.config.MaxSeats,
		BetStep:       m.config.BetStep,
		RechargeStep:  m.config.RechargeStep,
		ActionLogSize: m.config.ActionLogSize,
		Liveness:      m.config.LivenessWindow(),
	}

	// SetIfAbsent reserves the code; a losing race just draws again
	var room *Room
	var entry *roomEntry
	for {
		roomCode := m.newRoomCode()
		room = NewRoom(roomID, roomCode, hostName, smallBlind, bigBlind, rules, hostID, now)
		entry = &roomEntry{room: room}
		if m.activeRooms.SetIfAbsent(roomCode, entry) {
			break
		}
	}
	roomCode := room.Code
	util.Metrics.RoomCreated()
	util.Metrics.SetActiveRoomsMapCount(m.activeRooms.Count())
	_ = caches.RoomCodeCache.Add(roomID, roomCode)

	hostCredential, err := m.issuer.Issue(Identity{RoomCode: roomCode, Role: RoleHost, PlayerID: hostID}, now)
	if err != nil {
		m.activeRooms.Remove(roomCode)
		return nil, internalError("could not issue host credential: %v", err)
	}
	playerCredential, err := m.issuer.Issue(Identity{RoomCode: roomCode, Role: RolePlayer, PlayerID: hostID}, now)
	if err != nil {
		m.activeRooms.Remove(roomCode)
		return nil, internalError("could not issue player credential: %v", err)
	}

	m.saveRoom(entry)

	// the room is already discoverable through the registry
	entry.mu.RLock()
	version := room.Version
	status := room.Status
	availableSeats := room.AvailableSeats()
	entry.mu.RUnlock()

	managerLogger.Info().
		Str(logging.RoomIDKey, roomID).
		Str(logging.RoomCodeKey, roomCode).
		Str(logging.PlayerNameKey, hostName).
		Msg("Room created")
	m.publisher.PublishRoomEvent(RoomEvent{
		Type:     EventRoomCreated,
		RoomCode: roomCode,
		RoomID:   roomID,
		Version:  version,
		Status:   status,
	})

	return &CreateRoomResult{
		RoomID:           roomID,
		RoomCode:         roomCode,
		HostID:           hostID,
		HostCredential:   hostCredential,
		PlayerCredential: playerCredential,
		AvailableSeats:   availableSeats,
	}, nil
}

func (m *Manager) JoinRoom(roomCode string, displayName string, now time.Time) (*JoinRoomResult, error) {
	if displayName == "" {
		return nil, validationError("display name is required")
	}
	entry, err := m.roomEntry(roomCode)
	if err != nil {
		return nil, err
	}

	playerID := uuid.New().String()
	credential, err := m.issuer.Issue(Identity{RoomCode: roomCode, Role: RolePlayer, PlayerID: playerID}, now)
	if err != nil {
		return nil, internalError("could not issue player credential: %v", err)
	}

	var result *JoinRoomResult
	entry.mu.Lock()
	player := entry.room.Join(playerID, displayName, now)
	result = &JoinRoomResult{
		PlayerID:         player.ID,
		PlayerCredential: credential,
		AvailableSeats:   entry.room.AvailableSeats(),
	}
	version := entry.room.Version
	status := entry.room.Status
	entry.mu.Unlock()

	m.saveRoom(entry)
	managerLogger.Info().
		Str(logging.RoomCodeKey, roomCode).
		Str(logging.PlayerIDKey, playerID).
		Str(logging.PlayerNameKey, displayName).
		Msg("Player joined room")
	m.publisher.PublishRoomEvent(RoomEvent{
		Type:     EventPlayerJoined,
		RoomCode: roomCode,
		RoomID:   entry.room.ID,
		Version:  version,
		Status:   status,
		PlayerID: playerID,
	})
	return result, nil
}

func (m *Manager) SeatPlayer(identity Identity, roomCode string, seatNo uint32) error {
	entry, err := m.authorizedEntry(identity, roomCode, RolePlayer)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	err = entry.room.Seat(identity.PlayerID, seatNo)
	version := entry.room.Version
	status := entry.room.Status
	entry.mu.Unlock()
	if err != nil {
		return err
	}

	m.saveRoom(entry)
	m.publisher.PublishRoomEvent(RoomEvent{
		Type:     EventPlayerSeated,
		RoomCode: roomCode,
		RoomID:   entry.room.ID,
		Version:  version,
		Status:   status,
		PlayerID: identity.PlayerID,
		SeatNo:   seatNo,
	})
	return nil
}

func (m *Manager) RechargePlayer(identity Identity, roomCode string, targetPlayerID string, amount int64) error {
	entry, err := m.authorizedEntry(identity, roomCode, RoleHost)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	err = entry.room.Recharge(targetPlayerID, amount)
	version := entry.room.Version
	status := entry.room.Status
	entry.mu.Unlock()
	if err != nil {
		return err
	}

	m.saveRoom(entry)
	m.publisher.PublishRoomEvent(RoomEvent{
		Type:     EventRecharged,
		RoomCode: roomCode,
		RoomID:   entry.room.ID,
		Version:  version,
		Status:   status,
		PlayerID: targetPlayerID,
	})
	return nil
}

func (m *Manager) RemovePlayer(identity Identity, roomCode string, targetPlayerID string) error {
	entry, err := m.authorizedEntry(identity, roomCode, RoleHost)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	err = entry.room.Remove(targetPlayerID)
	version := entry.room.Version
	status := entry.room.Status
	entry.mu.Unlock()
	if err != nil {
		return err
	}

	m.saveRoom(entry)
	m.publisher.PublishRoomEvent(RoomEvent{
		Type:     EventPlayerRemoved,
		RoomCode: roomCode,
		RoomID:   entry.room.ID,
		Version:  version,
		Status:   status,
		PlayerID: targetPlayerID,
	})
	return nil
}

func (m *Manager) StartHand(identity Identity, roomCode string, now time.Time) error {
	entry, err := m.authorizedEntry(identity, roomCode, RoleHost)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	err = entry.room.StartHand(now)
	version := entry.room.Version
	handNum := entry.room.HandNum
	var toActID string
	if entry.room.Hand != nil {
		toActID = entry.room.Hand.ToActID
	}
	status := entry.room.Status
	entry.mu.Unlock()
	if err != nil {
		return err
	}

	util.Metrics.HandDealt()
	m.saveRoom(entry)
	managerLogger.Info().
		Str(logging.RoomCodeKey, roomCode).
		Uint32(logging.HandNumKey, handNum).
		Msg("Hand started")
	m.publisher.PublishRoomEvent(RoomEvent{
		Type:          EventHandStarted,
		RoomCode:      roomCode,
		RoomID:        entry.room.ID,
		Version:       version,
		HandNum:       handNum,
		Status:        status,
		ToActPlayerID: toActID,
	})
	return nil
}

func (m *Manager) ApplyAction(identity Identity, roomCode string, command ActionCommand, now time.Time) error {
	entry, err := m.authorizedEntry(identity, roomCode, RolePlayer)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	err = entry.room.ApplyAction(identity.PlayerID, command, now)
	version := entry.room.Version
	handNum := entry.room.HandNum
	status := entry.room.Status
	var toActID string
	if entry.room.Hand != nil {
		toActID = entry.room.Hand.ToActID
	}
	entry.mu.Unlock()
	if err != nil {
		util.Metrics.ActionRejected()
		return err
	}

	util.Metrics.ActionApplied()
	m.saveRoom(entry)
	eventType := EventActionApplied
	if status == RoomStatusWaiting {
		eventType = EventHandSettled
	}
	m.publisher.PublishRoomEvent(RoomEvent{
		Type:          eventType,
		RoomCode:      roomCode,
		RoomID:        entry.room.ID,
		Version:       version,
		HandNum:       handNum,
		Status:        status,
		ToActPlayerID: toActID,
		PlayerID:      identity.PlayerID,
	})
	return nil
}

// GetSnapshot projects the room for the given viewer. A nil identity
// produces the anonymous spectator view.
func (m *Manager) GetSnapshot(roomCode string, identity *Identity, now time.Time) (*Snapshot, error) {
	entry, err := m.roomEntry(roomCode)
	if err != nil {
		return nil, err
	}
	if identity != nil && identity.RoomCode != roomCode {
		return nil, authorizationError("credential does not match this room")
	}

	entry.mu.RLock()
	snap := Project(entry.room, identity, now)
	entry.mu.RUnlock()
	return &snap, nil
}

func (m *Manager) GetAvailableSeats(roomCode string) ([]uint32, error) {
	entry, err := m.roomEntry(roomCode)
	if err != nil {
		return nil, err
	}
	entry.mu.RLock()
	seats := entry.room.AvailableSeats()
	entry.mu.RUnlock()
	return seats, nil
}

// AllowedActions computes the acting bounds for a player without holding
// the turn lock across the caller's decision.
func (m *Manager) AllowedActions(roomCode string, playerID string) (*AllowedActions, error) {
	entry, err := m.roomEntry(roomCode)
	if err != nil {
		return nil, err
	}
	entry.mu.RLock()
	allowed := entry.room.ComputeAllowedActions(playerID)
	entry.mu.RUnlock()
	return &allowed, nil
}

// TouchPlayer refreshes a player's liveness timestamp. It does not bump
// the room version; presence is not game state.
func (m *Manager) TouchPlayer(identity Identity, roomCode string, now time.Time) error {
	entry, err := m.authorizedEntry(identity, roomCode, RolePlayer)
	if err != nil {
		return err
	}
	entry.mu.Lock()
	player, ok := entry.room.Players[identity.PlayerID]
	if ok {
		player.LastSeenAt = now
	}
	entry.mu.Unlock()
	if !ok {
		return stateError("player is not in this room")
	}
	return nil
}

func (m *Manager) roomEntry(roomCode string) (*roomEntry, error) {
	if !isRoomCode(roomCode) {
		return nil, validationError("room code must be a 6 digit number")
	}
	v, ok := m.activeRooms.Get(roomCode)
	if ok {
		return v.(*roomEntry), nil
	}

	// not in the registry; the store may still hold it from a prior run
	data, err := m.store.Load(roomCode)
	if err != nil {
		return nil, stateError("room %s is not found", roomCode)
	}
	room, err := DecodeRoom(data)
	if err != nil {
		return nil, internalError("room %s state is corrupt: %v", roomCode, err)
	}
	entry := &roomEntry{room: room}
	// concurrent misses race to install; everyone adopts the winner so a
	// single mutex guards each logical room
	if !m.activeRooms.SetIfAbsent(roomCode, entry) {
		if v, ok := m.activeRooms.Get(roomCode); ok {
			return v.(*roomEntry), nil
		}
	}
	util.Metrics.SetActiveRoomsMapCount(m.activeRooms.Count())
	_ = caches.RoomCodeCache.Add(room.ID, roomCode)
	return entry, nil
}

func (m *Manager) authorizedEntry(identity Identity, roomCode string, role Role) (*roomEntry, error) {
	if identity.RoomCode != roomCode {
		return nil, authorizationError("credential does not match this room")
	}
	if identity.Role != role {
		return nil, authorizationError("operation requires the %s role", role)
	}
	return m.roomEntry(roomCode)
}

// saveRoom persists the room. Encoding happens under the room's read
// lock so the store never sees a mid-mutation hand; the store write
// itself runs outside the lock.
func (m *Manager) saveRoom(entry *roomEntry) {
	if m.store == nil {
		return
	}
	entry.mu.RLock()
	roomCode := entry.room.Code
	data, err := EncodeRoom(entry.room)
	entry.mu.RUnlock()
	if err != nil {
		managerLogger.Warn().
			Err(err).
			Str(logging.RoomCodeKey, roomCode).
			Msg("Could not encode room state")
		return
	}
	if err := m.store.Save(roomCode, data); err != nil {
		managerLogger.Warn().
			Err(err).
			Str(logging.RoomCodeKey, roomCode).
			Msg("Could not persist room state")
	}
}

func (m *Manager) newRoomCode() string {
	m.codeMu.Lock()
	defer m.codeMu.Unlock()
	return fmt.Sprintf("%06d", m.codeRand.Intn(1000000))
}

func isRoomCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
