package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/rocketscienceinc/triqui/internal/entity"
	"github.com/rocketscienceinc/triqui/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

type gameManager interface {
	GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error)

	NewLocalGame(
		ctx context.Context,
		owner string,
		difficulty entity.Difficulty,
		sound usecase.SoundPlayer,
		onChange func(usecase.LocalStatus),
	) (*usecase.LocalSession, usecase.LocalStatus, error)
	ResumeLocalGame(
		ctx context.Context,
		owner string,
		sound usecase.SoundPlayer,
		onChange func(usecase.LocalStatus),
	) (*usecase.LocalSession, usecase.LocalStatus, error)

	NewMatchSession(playerID string, sound usecase.SoundPlayer) *usecase.MatchSession
}

type authService interface {
	GenerateToken(playerID string) (string, error)
	ParseToken(tokenString string) (string, error)
}

type handlerFunc func(ctx context.Context, client *client, request *RequestPayload) error

type Server struct {
	logger *slog.Logger
	games  gameManager
	auth   authService

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, games gameManager, auth authService) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		games:  games,
		auth:   auth,
	}

	server.handlers = map[string]handlerFunc{
		actionConnect: server.handleConnect,

		actionLocalNew:    server.handleLocalNew,
		actionLocalResume: server.handleLocalResume,
		actionLocalMove:   server.handleLocalMove,
		actionLocalReset:  server.handleLocalReset,

		actionMatchCreate:  server.handleMatchCreate,
		actionMatchJoin:    server.handleMatchJoin,
		actionMatchQuick:   server.handleMatchQuick,
		actionMatchMove:    server.handleMatchMove,
		actionMatchReset:   server.handleMatchReset,
		actionMatchLeave:   server.handleMatchLeave,
		actionMatchAbandon: server.handleMatchAbandon,
	}

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.upgradeToWebSocket)

	return mux
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) upgradeToWebSocket(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := websocket.Accept(writer, req, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		log.Error("failed to accept connection", "error", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx, cancel := context.WithCancel(req.Context())

	client := newClient(ctx, that.logger.With("remote", req.RemoteAddr), conn)
	defer client.close()
	defer cancel()

	go client.writeLoop()

	log.Info("WebSocket connection established", "remote", req.RemoteAddr)

	that.handleMessages(ctx, client)
}

// handleMessages - processes messages from the client until the connection drops.
func (that *Server) handleMessages(ctx context.Context, client *client) {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := client.conn.Read(ctx)
		if err != nil {
			if status := websocket.CloseStatus(err); status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				log.Info("client disconnected")
			} else {
				log.Warn("failed to read message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			client.sendError(actionError, errInvalidPayload)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			client.sendError(message.Action, errUnknownAction)
			continue
		}

		var request RequestPayload
		if len(message.Payload) > 0 {
			if err = json.Unmarshal(message.Payload, &request); err != nil {
				client.sendError(message.Action, errInvalidPayload)
				continue
			}
		}

		if err = handler(ctx, client, &request); err != nil {
			log.Warn("failed to handle message", "action", message.Action, "error", err)
			client.sendError(message.Action, err)
		}
	}
}
