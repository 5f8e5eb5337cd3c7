package bot

import (
	"fmt"
	"sync"
	"time"

	natsgo "github.com/nats-io/nats.go"

	"cardroom.io/server/game"
	"cardroom.io/server/logging"
)

var schedulerLogger = logging.GetZeroLogger("bot::scheduler", nil)

var botNames = []string{
	"yong", "brian", "tom", "jim", "rob", "john", "michael", "bill", "david",
}

// EventSource is the room event feed the scheduler listens on.
type EventSource interface {
	SubscribeRoom(roomCode string, handler func(game.RoomEvent)) (*natsgo.Subscription, error)
}

// AddBotResult reports the seat a new bot took.
type AddBotResult struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	SeatNo   uint32 `json:"seatNo"`
}

type roomBots struct {
	bots []*PlayerBot
	sub  *natsgo.Subscription
}

// Scheduler owns the bot seat fillers. It runs in process next to the
// room manager, so bots command rooms through the same API human
// transports do.
type Scheduler struct {
	manager       *game.Manager
	events        EventSource
	delay         time.Duration
	startingStack int64

	mu    sync.Mutex
	rooms map[string]*roomBots
}

func NewScheduler(manager *game.Manager, events EventSource, delay time.Duration, startingStack int64) *Scheduler {
	return &Scheduler{
		manager:       manager,
		events:        events,
		delay:         delay,
		startingStack: startingStack,
		rooms:         make(map[string]*roomBots),
	}
}

// AddBot joins a bot to the room, seats it at the first open seat and
// stakes it with the starting stack. The caller must hold the host role;
// the transport layer enforces that before calling in.
func (s *Scheduler) AddBot(roomCode string, now time.Time) (*AddBotResult, error) {
	s.mu.Lock()
	entry := s.rooms[roomCode]
	botCount := 0
	if entry != nil {
		botCount = len(entry.bots)
	}
	s.mu.Unlock()

	name := fmt.Sprintf("%s (bot)", botNames[botCount%len(botNames)])
	joined, err := s.manager.JoinRoom(roomCode, name, now)
	if err != nil {
		return nil, err
	}
	if len(joined.AvailableSeats) == 0 {
		return nil, fmt.Errorf("room %s has no open seat for a bot", roomCode)
	}
	identity := game.Identity{RoomCode: roomCode, Role: game.RolePlayer, PlayerID: joined.PlayerID}
	seatNo := joined.AvailableSeats[0]
	if err := s.manager.SeatPlayer(identity, roomCode, seatNo); err != nil {
		return nil, err
	}
	// stake the bot acting with host privileges; bots never buy in
	hostIdentity := game.Identity{RoomCode: roomCode, Role: game.RoleHost}
	if err := s.manager.RechargePlayer(hostIdentity, roomCode, joined.PlayerID, s.startingStack); err != nil {
		return nil, err
	}

	bot := NewPlayerBot(s.manager, identity, name, s.delay)
	if err := s.register(roomCode, bot); err != nil {
		return nil, err
	}
	schedulerLogger.Info().
		Str(logging.RoomCodeKey, roomCode).
		Str(logging.PlayerNameKey, name).
		Uint32(logging.SeatNumKey, seatNo).
		Msg("Bot seated")
	return &AddBotResult{
		PlayerID: joined.PlayerID,
		Name:     name,
		SeatNo:   seatNo,
	}, nil
}

func (s *Scheduler) register(roomCode string, bot *PlayerBot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.rooms[roomCode]
	if entry == nil {
		entry = &roomBots{}
		sub, err := s.events.SubscribeRoom(roomCode, func(event game.RoomEvent) {
			s.dispatch(roomCode, event)
		})
		if err != nil {
			return err
		}
		entry.sub = sub
		s.rooms[roomCode] = entry
	}
	entry.bots = append(entry.bots, bot)
	return nil
}

// dispatch fans an event out to the room's bots. Each bot reacts on its
// own goroutine; a sleeping bot must not hold up the event feed.
func (s *Scheduler) dispatch(roomCode string, event game.RoomEvent) {
	s.mu.Lock()
	entry := s.rooms[roomCode]
	var bots []*PlayerBot
	if entry != nil {
		bots = append(bots, entry.bots...)
	}
	s.mu.Unlock()

	for _, bot := range bots {
		go bot.OnRoomEvent(event)
	}
}

// Stop unsubscribes every room feed.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for roomCode, entry := range s.rooms {
		if entry.sub != nil {
			if err := entry.sub.Unsubscribe(); err != nil {
				schedulerLogger.Warn().
					Err(err).
					Str(logging.RoomCodeKey, roomCode).
					Msg("Could not unsubscribe room event feed")
			}
		}
	}
	s.rooms = make(map[string]*roomBots)
}
