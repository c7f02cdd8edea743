package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/rocketscienceinc/triqui/internal/entity"
	"github.com/rocketscienceinc/triqui/internal/repository"
	"github.com/rocketscienceinc/triqui/internal/service"
	"github.com/rocketscienceinc/triqui/internal/usecase"
)

type testEnv struct {
	server *httptest.Server
	auth   service.AuthService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	store := repository.NewMemoryKeyValueStore()

	games := usecase.NewGameManager(
		logger,
		repository.NewPlayerRepository(store),
		repository.NewMatchRepository(logger, repository.NewMemoryDocumentStore(), "matches"),
		repository.NewScoreRepository(store),
		repository.NewSnapshotRepository(store),
		service.NewBotService(rand.New(rand.NewSource(7))), //nolint: gosec // deterministic in tests
		usecase.GameOptions{ThinkDelay: 5 * time.Millisecond},
	)
	auth := service.NewAuthService("test-secret", time.Hour)

	server := httptest.NewServer(New(logger, games, auth).Handler())
	t.Cleanup(server.Close)

	return &testEnv{server: server, auth: auth}
}

func (that *testEnv) dial(t *testing.T) *websocket.Conn {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(that.server.URL, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })

	return conn
}

func send(t *testing.T, conn *websocket.Conn, action string, request RequestPayload) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload, err := json.Marshal(request)
	require.NoError(t, err)
	require.NoError(t, wsjson.Write(ctx, conn, Message{Action: action, Payload: payload}))
}

// readUntil skips messages until one with action satisfies check.
func readUntil(t *testing.T, conn *websocket.Conn, action string, check func(ResponsePayload) bool) ResponsePayload {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for {
		var message Message
		require.NoError(t, wsjson.Read(ctx, conn, &message))

		if message.Action != action {
			continue
		}

		var payload ResponsePayload
		require.NoError(t, json.Unmarshal(message.Payload, &payload))

		if check == nil || check(payload) {
			return payload
		}
	}
}

// readAction returns the next message carrying one of actions.
func readAction(t *testing.T, conn *websocket.Conn, actions ...string) Message {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for {
		var message Message
		require.NoError(t, wsjson.Read(ctx, conn, &message))

		if slices.Contains(actions, message.Action) {
			return message
		}
	}
}

func connect(t *testing.T, conn *websocket.Conn, token string) ResponsePayload {
	t.Helper()

	send(t, conn, actionConnect, RequestPayload{Token: token})
	response := readUntil(t, conn, actionConnect, nil)
	require.Empty(t, response.Error)
	require.NotNil(t, response.Player)

	return response
}

func cell(i int) *int {
	return &i
}

func TestServer_Connect(t *testing.T) {
	t.Run("New player gets a token that identifies them later", func(t *testing.T) {
		env := setupTestEnv(t)

		// Given: a first connection without a token
		first := connect(t, env.dial(t), "")
		assert.NotEmpty(t, first.Player.ID)
		assert.NotEmpty(t, first.Token)

		// When: reconnecting with that token
		second := connect(t, env.dial(t), first.Token)

		// Then: it is the same player
		assert.Equal(t, first.Player.ID, second.Player.ID)
	})

	t.Run("Forged token is rejected", func(t *testing.T) {
		env := setupTestEnv(t)
		conn := env.dial(t)

		send(t, conn, actionConnect, RequestPayload{Token: "not-a-token"})
		response := readUntil(t, conn, actionConnect, nil)

		assert.Equal(t, service.ErrInvalidToken.Error(), response.Error)
	})

	t.Run("Actions before connect are refused", func(t *testing.T) {
		env := setupTestEnv(t)
		conn := env.dial(t)

		send(t, conn, actionLocalNew, RequestPayload{})
		response := readUntil(t, conn, actionLocalNew, nil)

		assert.Equal(t, errNotConnected.Error(), response.Error)
	})

	t.Run("Unknown actions are reported", func(t *testing.T) {
		env := setupTestEnv(t)
		conn := env.dial(t)

		send(t, conn, "dance", RequestPayload{})
		response := readUntil(t, conn, "dance", nil)

		assert.Equal(t, errUnknownAction.Error(), response.Error)
	})
}

func TestServer_LocalGame(t *testing.T) {
	env := setupTestEnv(t)
	conn := env.dial(t)
	connect(t, conn, "")

	// Given: a new easy game
	send(t, conn, actionLocalNew, RequestPayload{Difficulty: "Easy"})
	started := readUntil(t, conn, actionLocalState, nil)
	require.NotNil(t, started.Local)
	assert.Equal(t, entity.EasyDifficulty, started.Local.Difficulty)
	assert.Equal(t, usecase.PhaseAwaitingHuman, started.Local.Phase)

	// When: the human takes the center
	send(t, conn, actionLocalMove, RequestPayload{Cell: cell(entity.CenterCell)})

	// Then: the move is echoed and the computer answers
	moved := readUntil(t, conn, actionLocalState, nil)
	assert.Equal(t, entity.Human, moved.Local.Board[entity.CenterCell])

	answered := readUntil(t, conn, actionLocalState, func(payload ResponsePayload) bool {
		return payload.Local.Board.Filled() == 2
	})
	assert.Equal(t, usecase.PhaseAwaitingHuman, answered.Local.Phase)

	// When: the human plays an occupied cell
	send(t, conn, actionLocalMove, RequestPayload{Cell: cell(entity.CenterCell)})
	rejected := readUntil(t, conn, actionLocalMove, nil)

	// Then: the error names the problem
	assert.Equal(t, "invalid move: cell is already occupied", rejected.Error)

	send(t, conn, actionLocalNew, RequestPayload{Difficulty: "impossible"})
	rejected = readUntil(t, conn, actionLocalNew, nil)
	assert.Equal(t, entity.ErrUnknownDifficulty.Error(), rejected.Error)
}

func TestServer_Match(t *testing.T) {
	env := setupTestEnv(t)

	alice := env.dial(t)
	connect(t, alice, "")
	bob := env.dial(t)
	connect(t, bob, "")

	// Given: A creates a match
	send(t, alice, actionMatchCreate, RequestPayload{})
	waiting := readUntil(t, alice, actionMatchState, nil)
	require.NotNil(t, waiting.Match)
	assert.Equal(t, entity.StatusWaiting, waiting.Match.Status)

	// When: B joins it
	send(t, bob, actionMatchJoin, RequestPayload{MatchID: waiting.Match.ID})

	// Then: both see it active
	readUntil(t, bob, actionMatchState, func(payload ResponsePayload) bool {
		return payload.Match.IsActive()
	})
	readUntil(t, alice, actionMatchState, func(payload ResponsePayload) bool {
		return payload.Match.IsActive()
	})

	// When: A moves
	send(t, alice, actionMatchMove, RequestPayload{Cell: cell(0)})

	// Then: B hears the move and sees it
	sound := readUntil(t, bob, actionSound, nil)
	assert.Equal(t, entity.SoundOpponentMove, sound.Sound)

	moved := readUntil(t, bob, actionMatchState, func(payload ResponsePayload) bool {
		return payload.Match.Board[0] == entity.PlayerOne
	})
	assert.Equal(t, entity.PlayerTwo, moved.Match.TurnOwner)

	// When: A moves out of turn
	send(t, alice, actionMatchMove, RequestPayload{Cell: cell(1)})
	rejected := readUntil(t, alice, actionMatchMove, nil)
	assert.Equal(t, "invalid move: it's not your turn", rejected.Error)

	// When: A leaves
	send(t, alice, actionMatchLeave, RequestPayload{})
	readUntil(t, alice, actionMatchLeave, nil)

	// Then: B is told the match is gone and may start another
	gone := readUntil(t, bob, actionMatchGone, nil)
	assert.Equal(t, entity.StatusDeleted, gone.Match.Status)

	for attempt := 0; ; attempt++ {
		send(t, bob, actionMatchCreate, RequestPayload{})

		message := readAction(t, bob, actionMatchCreate, actionMatchState)
		if message.Action == actionMatchState {
			var next ResponsePayload
			require.NoError(t, json.Unmarshal(message.Payload, &next))
			assert.NotEqual(t, waiting.Match.ID, next.Match.ID)
			assert.Equal(t, entity.StatusWaiting, next.Match.Status)
			break
		}

		require.Less(t, attempt, 20, "match was never released")
		time.Sleep(20 * time.Millisecond)
	}
}
