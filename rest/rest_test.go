package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	natsgo "github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardroom.io/server/auth"
	"cardroom.io/server/bot"
	"cardroom.io/server/game"
	"cardroom.io/server/util"
)

type stubEventSource struct{}

func (stubEventSource) SubscribeRoom(string, func(game.RoomEvent)) (*natsgo.Subscription, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config := util.DefaultServerConfig()
	issuer, err := auth.NewIssuer("")
	require.NoError(t, err)
	manager := game.NewRoomManager(&config, game.NewMemoryRoomStore(), nil, issuer)
	scheduler := bot.NewScheduler(manager, stubEventSource{}, 0, config.StartingStack)
	server := NewServer(manager, issuer, scheduler)
	return server.routes(gin.New())
}

func do(t *testing.T, router *gin.Engine, method, path, credential string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestCreateRoomRoute(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/rooms", "", gin.H{
		"hostName": "alice", "smallBlind": 10, "bigBlind": 20,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created game.CreateRoomResult
	decode(t, w, &created)
	assert.Len(t, created.RoomCode, 6)
	assert.NotEmpty(t, created.HostCredential)
	assert.NotEmpty(t, created.PlayerCredential)
	assert.Len(t, created.AvailableSeats, 9)

	t.Run("bad blinds are a 400", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/rooms", "", gin.H{
			"hostName": "alice", "smallBlind": 10, "bigBlind": 15,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRoutesRequireCredential(t *testing.T) {
	router := newTestRouter(t)

	var created game.CreateRoomResult
	w := do(t, router, http.MethodPost, "/rooms", "", gin.H{
		"hostName": "alice", "smallBlind": 10, "bigBlind": 20,
	})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &created)

	seatPath := fmt.Sprintf("/rooms/%s/seat", created.RoomCode)
	w = do(t, router, http.MethodPost, seatPath, "", gin.H{"seatNo": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, http.MethodPost, seatPath, "not-a-token", gin.H{"seatNo": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// a player credential cannot start a hand
	w = do(t, router, http.MethodPost, fmt.Sprintf("/rooms/%s/start-hand", created.RoomCode), created.PlayerCredential, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCredentialIsBoundToItsRoom(t *testing.T) {
	router := newTestRouter(t)

	var first, second game.CreateRoomResult
	w := do(t, router, http.MethodPost, "/rooms", "", gin.H{"hostName": "alice", "smallBlind": 10, "bigBlind": 20})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &first)
	w = do(t, router, http.MethodPost, "/rooms", "", gin.H{"hostName": "bob", "smallBlind": 10, "bigBlind": 20})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &second)

	// alice's player credential is useless in bob's room
	w = do(t, router, http.MethodPost, fmt.Sprintf("/rooms/%s/seat", second.RoomCode), first.PlayerCredential, gin.H{"seatNo": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFullHandOverRest(t *testing.T) {
	router := newTestRouter(t)

	var created game.CreateRoomResult
	w := do(t, router, http.MethodPost, "/rooms", "", gin.H{"hostName": "alice", "smallBlind": 10, "bigBlind": 20})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &created)
	code := created.RoomCode

	var joined game.JoinRoomResult
	w = do(t, router, http.MethodPost, fmt.Sprintf("/rooms/%s/join", code), "", gin.H{"displayName": "bob"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &joined)

	w = do(t, router, http.MethodPost, fmt.Sprintf("/rooms/%s/seat", code), created.PlayerCredential, gin.H{"seatNo": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = do(t, router, http.MethodPost, fmt.Sprintf("/rooms/%s/seat", code), joined.PlayerCredential, gin.H{"seatNo": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, playerID := range []string{created.HostID, joined.PlayerID} {
		w = do(t, router, http.MethodPost, fmt.Sprintf("/rooms/%s/recharge", code), created.HostCredential, gin.H{
			"playerId": playerID, "amount": 1000,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodPost, fmt.Sprintf("/rooms/%s/start-hand", code), created.HostCredential, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// heads up: seat 2 posts the small blind and acts first
	var snap game.Snapshot
	w = do(t, router, http.MethodGet, fmt.Sprintf("/rooms/%s/snapshot", code), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &snap)
	require.Equal(t, game.RoomStatusInHand, snap.Status)
	assert.EqualValues(t, 20, snap.CurrentBet)
	assert.EqualValues(t, 30, snap.PotTotal)
	assert.Nil(t, snap.Private, "spectators never see a private section")
	require.EqualValues(t, 2, snap.ToActSeat)

	// the actor's snapshot carries hole cards and allowed actions
	w = do(t, router, http.MethodGet, fmt.Sprintf("/rooms/%s/snapshot", code), joined.PlayerCredential, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &snap)
	require.NotNil(t, snap.Private)
	assert.Len(t, snap.Private.HoleCards, 2)
	require.NotNil(t, snap.Private.Allowed)
	assert.True(t, snap.Private.Allowed.CanCall)
	assert.EqualValues(t, 10, snap.Private.Allowed.CallAmount)

	// out-of-turn action is rejected without state change
	w = do(t, router, http.MethodPost, fmt.Sprintf("/rooms/%s/action", code), created.PlayerCredential, gin.H{
		"actionId": "alice-1", "type": "CHECK",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, router, http.MethodPost, fmt.Sprintf("/rooms/%s/action", code), joined.PlayerCredential, gin.H{
		"actionId": "bob-1", "type": "FOLD",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, router, http.MethodGet, fmt.Sprintf("/rooms/%s/snapshot", code), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &snap)
	assert.Equal(t, game.RoomStatusWaiting, snap.Status)
	require.Len(t, snap.Results, 1)
	assert.Equal(t, []string{created.HostID}, snap.Results[0].Winners)
	assert.EqualValues(t, 30, snap.Results[0].Amount)
}

func TestSeatsRoute(t *testing.T) {
	router := newTestRouter(t)

	var created game.CreateRoomResult
	w := do(t, router, http.MethodPost, "/rooms", "", gin.H{"hostName": "alice", "smallBlind": 10, "bigBlind": 20})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &created)

	w = do(t, router, http.MethodGet, fmt.Sprintf("/rooms/%s/seats", created.RoomCode), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Seats []uint32 `json:"seats"`
	}
	decode(t, w, &resp)
	assert.Len(t, resp.Seats, 9)

	w = do(t, router, http.MethodGet, "/rooms/000000/seats", "", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, router, http.MethodGet, "/rooms/abc/seats", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
