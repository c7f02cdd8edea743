package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/rocketscienceinc/triqui/internal/apperror"
	"github.com/rocketscienceinc/triqui/internal/entity"
	"github.com/rocketscienceinc/triqui/internal/service"
	"github.com/rocketscienceinc/triqui/internal/usecase"
)

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
)

var (
	errNotConnected     = errors.New("not connected")
	errAlreadyConnected = errors.New("already connected")
	errNoLocalGame      = errors.New("no local game")
	errInvalidPayload   = errors.New("invalid payload")
	errUnknownAction    = errors.New("unknown action")
	errInternal         = errors.New("internal error")
)

// clientErrors are reported to the client verbatim. More specific errors come first.
var clientErrors = []error{
	apperror.ErrInvalidCell,
	apperror.ErrCellOccupied,
	apperror.ErrNotYourTurn,
	apperror.ErrInvalidMove,
	apperror.ErrGameFinished,
	apperror.ErrGameIsNotStarted,
	apperror.ErrGameAlreadyStarted,
	apperror.ErrGameAlreadyExists,
	apperror.ErrSessionClosed,
	apperror.ErrPlayerNotInGame,
	apperror.ErrCannotJoinOwnGame,
	apperror.ErrNoWaitingMatches,
	apperror.ErrMatchGone,
	apperror.ErrRemoteRead,
	apperror.ErrRemoteWrite,
	entity.ErrUnknownDifficulty,
	service.ErrInvalidToken,
	errNotConnected,
	errAlreadyConnected,
	errNoLocalGame,
	errInvalidPayload,
	errUnknownAction,
}

func errorText(err error) string {
	for _, known := range clientErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	return errInternal.Error()
}

// client is the server side of one connection.
type client struct {
	logger *slog.Logger

	ctx  context.Context
	conn *websocket.Conn
	send chan Message

	mu     sync.Mutex
	player *entity.Player
	local  *usecase.LocalSession
	match  *usecase.MatchSession

	// localOrder keeps local:state pushes in the order the states were produced.
	localOrder sync.Mutex

	wg sync.WaitGroup
}

func newClient(ctx context.Context, logger *slog.Logger, conn *websocket.Conn) *client {
	return &client{
		logger: logger,
		ctx:    ctx,
		conn:   conn,
		send:   make(chan Message, sendBuffer),
	}
}

func (that *client) writeLoop() {
	log := that.logger.With("method", "writeLoop")

	for {
		select {
		case <-that.ctx.Done():
			return
		case message := <-that.send:
			ctx, cancel := context.WithTimeout(that.ctx, writeTimeout)
			err := wsjson.Write(ctx, that.conn, message)
			cancel()

			if err != nil {
				log.Warn("failed to write message", "action", message.Action, "error", err)
				return
			}
		}
	}
}

func (that *client) sendMessage(action string, payload ResponsePayload) {
	raw, err := json.Marshal(payload)
	if err != nil {
		that.logger.Error("failed to marshal payload", "action", action, "error", err)
		return
	}

	select {
	case that.send <- Message{Action: action, Payload: raw}:
	case <-that.ctx.Done():
	}
}

func (that *client) sendError(action string, err error) {
	that.sendMessage(action, ResponsePayload{Error: errorText(err)})
}

func (that *client) soundPlayer() usecase.SoundPlayer {
	return usecase.SoundPlayerFunc(func(event entity.SoundEvent) {
		that.sendMessage(actionSound, ResponsePayload{Sound: event})
	})
}

func (that *client) localChanged(status usecase.LocalStatus) {
	that.localOrder.Lock()
	defer that.localOrder.Unlock()

	that.sendMessage(actionLocalState, ResponsePayload{Local: &status})
}

func (that *client) connect(player *entity.Player, match *usecase.MatchSession) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.player != nil {
		return errAlreadyConnected
	}

	that.player = player
	that.match = match

	return nil
}

func (that *client) requirePlayer() (*entity.Player, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.player == nil {
		return nil, errNotConnected
	}

	return that.player, nil
}

func (that *client) requireMatch() (*usecase.MatchSession, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.match == nil {
		return nil, errNotConnected
	}

	return that.match, nil
}

func (that *client) requireLocal() (*usecase.LocalSession, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.player == nil {
		return nil, errNotConnected
	}

	if that.local == nil {
		return nil, errNoLocalGame
	}

	return that.local, nil
}

// closeLocal must not be called while holding localOrder: Close waits for a pending computer move.
func (that *client) closeLocal() {
	that.mu.Lock()
	local := that.local
	that.local = nil
	that.mu.Unlock()

	if local != nil {
		local.Close()
	}
}

func (that *client) setLocal(local *usecase.LocalSession) {
	that.mu.Lock()
	previous := that.local
	that.local = local
	that.mu.Unlock()

	if previous != nil {
		previous.Close()
	}
}

// close releases the sessions. The match is kept so the player can reconnect to it.
func (that *client) close() {
	that.closeLocal()

	that.mu.Lock()
	match := that.match
	that.mu.Unlock()

	if match != nil {
		match.Close()
	}

	that.wg.Wait()
}
