package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"cardroom.io/server/auth"
	"cardroom.io/server/bot"
	"cardroom.io/server/game"
	"cardroom.io/server/logging"
)

var restLogger = logging.GetZeroLogger("rest::rest", nil)

const identityKey = "identity"

//
// APP error definition
//
type appError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Server struct {
	manager   *game.Manager
	issuer    *auth.Issuer
	scheduler *bot.Scheduler

	// room creation and joining are the unauthenticated surface, so
	// they carry their own limiters
	createLimiter *rate.Limiter
	joinLimiter   *rate.Limiter
}

func NewServer(manager *game.Manager, issuer *auth.Issuer, scheduler *bot.Scheduler) *Server {
	return &Server{
		manager:       manager,
		issuer:        issuer,
		scheduler:     scheduler,
		createLimiter: rate.NewLimiter(rate.Limit(5), 10),
		joinLimiter:   rate.NewLimiter(rate.Limit(20), 40),
	}
}

func (s *Server) Run(listenAddr string) error {
	return s.routes(gin.Default()).Run(listenAddr)
}

func (s *Server) routes(r *gin.Engine) *gin.Engine {
	r.POST("/rooms", s.createRoom)
	r.POST("/rooms/:code/join", s.joinRoom)
	r.POST("/rooms/:code/seat", s.authenticated(s.seatPlayer))
	r.POST("/rooms/:code/recharge", s.authenticated(s.rechargePlayer))
	r.POST("/rooms/:code/remove-player", s.authenticated(s.removePlayer))
	r.POST("/rooms/:code/start-hand", s.authenticated(s.startHand))
	r.POST("/rooms/:code/action", s.authenticated(s.applyAction))
	r.POST("/rooms/:code/add-bot", s.authenticated(s.addBot))
	r.POST("/rooms/:code/ping", s.authenticated(s.ping))
	r.GET("/rooms/:code/snapshot", s.getSnapshot)
	r.GET("/rooms/:code/seats", s.getAvailableSeats)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// authenticated verifies the bearer credential before the handler runs.
// The verified identity is stashed in the request context.
func (s *Server) authenticated(handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := s.bearerIdentity(c)
		if !ok {
			c.IndentedJSON(http.StatusUnauthorized, appError{
				Code:    http.StatusUnauthorized,
				Message: "Missing or invalid credential",
			})
			return
		}
		c.Set(identityKey, *identity)
		handler(c)
	}
}

func (s *Server) bearerIdentity(c *gin.Context) (*game.Identity, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}
	identity, err := s.issuer.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, false
	}
	return identity, true
}

func identityOf(c *gin.Context) game.Identity {
	return c.MustGet(identityKey).(game.Identity)
}

// reportError maps engine error kinds onto HTTP statuses.
func reportError(c *gin.Context, err error) {
	var status int
	switch game.KindOf(err) {
	case game.ErrValidation:
		status = http.StatusBadRequest
	case game.ErrState:
		status = http.StatusConflict
	case game.ErrAuthorization:
		status = http.StatusForbidden
	default:
		status = http.StatusInternalServerError
	}
	c.IndentedJSON(status, appError{Code: status, Message: err.Error()})
	_ = c.Error(err)
}

type createRoomRequest struct {
	HostName   string `json:"hostName"`
	SmallBlind int64  `json:"smallBlind"`
	BigBlind   int64  `json:"bigBlind"`
}

func (s *Server) createRoom(c *gin.Context) {
	if !s.createLimiter.Allow() {
		c.IndentedJSON(http.StatusTooManyRequests, appError{
			Code:    http.StatusTooManyRequests,
			Message: "Too many rooms are being created, try again shortly",
		})
		return
	}
	var req createRoomRequest
	if err := c.BindJSON(&req); err != nil {
		restLogger.Error().Msgf("Failed to parse create room request. Error: %v", err)
		return
	}
	result, err := s.manager.CreateRoom(req.HostName, req.SmallBlind, req.BigBlind, time.Now())
	if err != nil {
		reportError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, result)
}

type joinRoomRequest struct {
	DisplayName string `json:"displayName"`
}

func (s *Server) joinRoom(c *gin.Context) {
	if !s.joinLimiter.Allow() {
		c.IndentedJSON(http.StatusTooManyRequests, appError{
			Code:    http.StatusTooManyRequests,
			Message: "Too many players are joining, try again shortly",
		})
		return
	}
	var req joinRoomRequest
	if err := c.BindJSON(&req); err != nil {
		restLogger.Error().Msgf("Failed to parse join room request. Error: %v", err)
		return
	}
	result, err := s.manager.JoinRoom(c.Param("code"), req.DisplayName, time.Now())
	if err != nil {
		reportError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, result)
}

type seatRequest struct {
	SeatNo uint32 `json:"seatNo"`
}

func (s *Server) seatPlayer(c *gin.Context) {
	var req seatRequest
	if err := c.BindJSON(&req); err != nil {
		restLogger.Error().Msgf("Failed to parse seat request. Error: %v", err)
		return
	}
	if err := s.manager.SeatPlayer(identityOf(c), c.Param("code"), req.SeatNo); err != nil {
		reportError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"status": "OK"})
}

type rechargeRequest struct {
	PlayerID string `json:"playerId"`
	Amount   int64  `json:"amount"`
}

func (s *Server) rechargePlayer(c *gin.Context) {
	var req rechargeRequest
	if err := c.BindJSON(&req); err != nil {
		restLogger.Error().Msgf("Failed to parse recharge request. Error: %v", err)
		return
	}
	if err := s.manager.RechargePlayer(identityOf(c), c.Param("code"), req.PlayerID, req.Amount); err != nil {
		reportError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"status": "OK"})
}

type removePlayerRequest struct {
	PlayerID string `json:"playerId"`
}

func (s *Server) removePlayer(c *gin.Context) {
	var req removePlayerRequest
	if err := c.BindJSON(&req); err != nil {
		restLogger.Error().Msgf("Failed to parse remove player request. Error: %v", err)
		return
	}
	if err := s.manager.RemovePlayer(identityOf(c), c.Param("code"), req.PlayerID); err != nil {
		reportError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *Server) startHand(c *gin.Context) {
	if err := s.manager.StartHand(identityOf(c), c.Param("code"), time.Now()); err != nil {
		reportError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *Server) applyAction(c *gin.Context) {
	var command game.ActionCommand
	if err := c.BindJSON(&command); err != nil {
		restLogger.Error().Msgf("Failed to parse action command. Error: %v", err)
		return
	}
	if err := s.manager.ApplyAction(identityOf(c), c.Param("code"), command, time.Now()); err != nil {
		reportError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"status": "OK"})
}

// addBot seats an automated player. Host only: bots get staked from
// thin air, which only the host may authorize.
func (s *Server) addBot(c *gin.Context) {
	identity := identityOf(c)
	roomCode := c.Param("code")
	if identity.Role != game.RoleHost || identity.RoomCode != roomCode {
		c.IndentedJSON(http.StatusForbidden, appError{
			Code:    http.StatusForbidden,
			Message: "Adding a bot requires the host credential for this room",
		})
		return
	}
	result, err := s.scheduler.AddBot(roomCode, time.Now())
	if err != nil {
		reportError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, result)
}

// ping refreshes the caller's liveness timestamp for the connectivity
// flags in snapshots.
func (s *Server) ping(c *gin.Context) {
	if err := s.manager.TouchPlayer(identityOf(c), c.Param("code"), time.Now()); err != nil {
		reportError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"status": "OK"})
}

// getSnapshot serves the room view. The credential is optional; an
// anonymous caller gets the public spectator view.
func (s *Server) getSnapshot(c *gin.Context) {
	identity, _ := s.bearerIdentity(c)
	snapshot, err := s.manager.GetSnapshot(c.Param("code"), identity, time.Now())
	if err != nil {
		reportError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, snapshot)
}

func (s *Server) getAvailableSeats(c *gin.Context) {
	seats, err := s.manager.GetAvailableSeats(c.Param("code"))
	if err != nil {
		reportError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"seats": seats})
}
