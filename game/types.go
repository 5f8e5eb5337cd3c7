package game

import (
	"time"

	"cardroom.io/server/poker"
)

/**
NOTE: Seat numbers are indexed from 1-9 like the real poker table.
Index 0 of the seat array is a sentinel and never occupied.
**/

type RoomStatus string

const (
	RoomStatusWaiting RoomStatus = "waiting"
	RoomStatusInHand  RoomStatus = "in_hand"
)

type HandStreet string

const (
	StreetPreflop  HandStreet = "preflop"
	StreetFlop     HandStreet = "flop"
	StreetTurn     HandStreet = "turn"
	StreetRiver    HandStreet = "river"
	StreetShowdown HandStreet = "showdown"
	StreetSettled  HandStreet = "settled"
)

type ActionType string

const (
	ActionFold  ActionType = "FOLD"
	ActionCheck ActionType = "CHECK"
	ActionCall  ActionType = "CALL"
	ActionBet   ActionType = "BET"
	ActionRaise ActionType = "RAISE"
	ActionAllIn ActionType = "ALL_IN"

	// blind posts recorded in the action log; never sent by players
	ActionSmallBlind ActionType = "SB"
	ActionBigBlind   ActionType = "BB"
)

type Role string

const (
	RoleHost   Role = "host"
	RolePlayer Role = "player"
)

// Identity is a verified credential payload. The engine trusts it; the
// transport layer is responsible for verification.
type Identity struct {
	RoomCode string
	Role     Role
	PlayerID string
}

// Rules are the per-room table tunables, fixed at room creation.
type Rules struct {
	MaxSeats      uint32        `json:"maxSeats"`
	BetStep       int64         `json:"betStep"`
	RechargeStep  int64         `json:"rechargeStep"`
	ActionLogSize int           `json:"actionLogSize"`
	Liveness      time.Duration `json:"liveness"`
}

type Player struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SeatNo     uint32    `json:"seatNo"` // 0 when not seated
	Stack      int64     `json:"stack"`
	JoinedAt   time.Time `json:"joinedAt"`
	LastSeenAt time.Time `json:"lastSeenAt"`
}

// ActionCommand is a player command against the active hand. ActionID
// makes network retries idempotent.
type ActionCommand struct {
	ActionID string     `json:"actionId"`
	Type     ActionType `json:"type"`
	Amount   int64      `json:"amount"`
}

type ActionLogEntry struct {
	HandNum  uint32     `json:"handNum"`
	Street   HandStreet `json:"street"`
	SeatNo   uint32     `json:"seatNo"`
	PlayerID string     `json:"playerId"`
	Action   ActionType `json:"action"`
	Amount   int64      `json:"amount"`
	At       time.Time  `json:"at"`
}

// Result records one settlement award.
type Result struct {
	Winners []string `json:"winners"`
	Amount  int64    `json:"amount"`
	Reason  string   `json:"reason"`
}

// ShowdownHand is one contender's revealed hand at showdown.
type ShowdownHand struct {
	PlayerID  string       `json:"playerId"`
	SeatNo    uint32       `json:"seatNo"`
	HoleCards []poker.Card `json:"holeCards"`
	RankLabel string       `json:"rankLabel"`
	Winner    bool         `json:"winner"`
}

type ShowdownDetail struct {
	HandNum   uint32         `json:"handNum"`
	Community []poker.Card   `json:"community"`
	Hands     []ShowdownHand `json:"hands"`
}

// PotKind labels a pot in the breakdown ladder.
type PotKind string

const (
	PotMain PotKind = "main"
	PotSide PotKind = "side"
)

// PotBreakdownItem is a derived pot tier; never stored.
type PotBreakdownItem struct {
	Name     string   `json:"name"`
	Kind     PotKind  `json:"kind"`
	Amount   int64    `json:"amount"`
	Eligible []string `json:"eligible"`
	Level    int64    `json:"level"`
}

// Hand holds the state of one dealt hand. It exists only while the room
// status is in_hand.
type Hand struct {
	Num       uint32       `json:"num"`
	Street    HandStreet   `json:"street"`
	Deck      *poker.Deck  `json:"deck"`
	Community []poker.Card `json:"community"`

	HoleCards  map[string][]poker.Card `json:"holeCards"`
	Contenders []string                `json:"contenders"` // player IDs in seat order
	Folded     map[string]bool         `json:"folded"`
	AllIn      map[string]bool         `json:"allIn"`

	StreetBets map[string]int64 `json:"streetBets"`
	TotalBets  map[string]int64 `json:"totalBets"`

	CurrentBet int64  `json:"currentBet"`
	MinRaise   int64  `json:"minRaise"`
	ToActID    string `json:"toActId"` // empty while running out streets

	// ActedSince holds the players that acted since the last full
	// bet-size change. Cleared at street boundaries and on full raises.
	ActedSince map[string]bool `json:"actedSince"`

	SmallBlindSeat uint32 `json:"smallBlindSeat"`
	BigBlindSeat   uint32 `json:"bigBlindSeat"`

	// ProcessedActions is the idempotency guard for command retries.
	ProcessedActions map[string]bool `json:"processedActions"`
}

type Room struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	HostID     string `json:"hostId"`
	SmallBlind int64  `json:"smallBlind"`
	BigBlind   int64  `json:"bigBlind"`
	Rules      Rules  `json:"rules"`

	// Seats[1..MaxSeats] hold occupant player IDs; "" means empty.
	Seats   []string           `json:"seats"`
	Players map[string]*Player `json:"players"`

	DealerSeat uint32     `json:"dealerSeat"` // 0 until the first hand
	Status     RoomStatus `json:"status"`
	Version    uint64     `json:"version"`
	HandNum    uint32     `json:"handNum"`
	Hand       *Hand      `json:"hand"`

	ActionLog    []ActionLogEntry `json:"actionLog"`
	Results      []Result         `json:"results"`
	LastShowdown *ShowdownDetail  `json:"lastShowdown"`

	CreatedAt time.Time `json:"createdAt"`
}

// AllowedActions bounds what the acting player may do right now. All
// fields are zero for a player who does not hold the turn.
type AllowedActions struct {
	CanFold  bool `json:"canFold"`
	CanCheck bool `json:"canCheck"`
	CanCall  bool `json:"canCall"`
	CanBet   bool `json:"canBet"`
	CanRaise bool `json:"canRaise"`
	CanAllIn bool `json:"canAllIn"`

	CallAmount int64 `json:"callAmount"`
	MinBet     int64 `json:"minBet"`
	MinRaiseTo int64 `json:"minRaiseTo"`
	MaxAmount  int64 `json:"maxAmount"`
}
