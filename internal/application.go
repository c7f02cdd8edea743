package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/triqui/internal/config"
	"github.com/rocketscienceinc/triqui/internal/entity"
	"github.com/rocketscienceinc/triqui/internal/repository"
	"github.com/rocketscienceinc/triqui/internal/repository/storage"
	"github.com/rocketscienceinc/triqui/internal/service"
	"github.com/rocketscienceinc/triqui/internal/usecase"
	"github.com/rocketscienceinc/triqui/transport/rest"
	"github.com/rocketscienceinc/triqui/transport/websocket"
)

var (
	ErrAddrNotFound   = errors.New("redis address string is empty")
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrNoSecretKey    = errors.New("jwt secret key is empty")
)

// RunApp - runs the application until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if conf.JWTSecretKey == "" {
		return ErrNoSecretKey
	}

	difficulty, err := entity.ParseDifficulty(conf.Game.DefaultDifficulty)
	if err != nil {
		return fmt.Errorf("invalid default difficulty: %w", err)
	}

	backends, err := openBackends(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer backends.Close(log)

	gameManager := usecase.NewGameManager(
		logger,
		repository.NewPlayerRepository(backends.kv),
		repository.NewMatchRepository(logger, backends.documents, conf.Documents.Collection),
		repository.NewScoreRepository(backends.kv),
		repository.NewSnapshotRepository(backends.kv),
		service.NewBotService(rand.New(rand.NewSource(time.Now().UnixNano()))), //nolint: gosec // move choice, not security
		usecase.GameOptions{
			ThinkDelay:        conf.Game.ThinkDelay,
			DefaultDifficulty: difficulty,
		},
	)
	authService := service.NewAuthService(conf.JWTSecretKey, conf.TokenTTL)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		handlers := rest.NewHandlers(logger, gameManager, authService)
		if httpErr := rest.Start(ctx, conf.HTTPPort, handlers); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameManager, authService)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// backends holds the stores selected by configuration and whatever must be closed with them.
type backends struct {
	kv        repository.KeyValueStore
	documents repository.DocumentStore
	closers   []io.Closer
}

func (that *backends) Close(log *slog.Logger) {
	for i := len(that.closers) - 1; i >= 0; i-- {
		if err := that.closers[i].Close(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}
}

func openBackends(ctx context.Context, logger *slog.Logger, conf *config.Config) (*backends, error) {
	result := &backends{}

	var redisStorage *storage.RedisStorage
	connectRedis := func() (*storage.RedisStorage, error) {
		if redisStorage != nil {
			return redisStorage, nil
		}

		addr := conf.Redis.GetRedisAddr()
		if conf.Redis.Host == "" {
			return nil, ErrAddrNotFound
		}

		conn, err := storage.NewRedisStorage(ctx, addr, conf.Redis.Password, conf.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		redisStorage = conn
		result.closers = append(result.closers, conn)

		return conn, nil
	}

	fail := func(err error) (*backends, error) {
		result.Close(logger)
		return nil, err
	}

	switch conf.Storage.Backend {
	case config.BackendMemory:
		result.kv = repository.NewMemoryKeyValueStore()
	case config.BackendRedis:
		conn, err := connectRedis()
		if err != nil {
			return fail(err)
		}
		result.kv = repository.NewRedisKeyValueStore(conn.Connection, "triqui:")
	case config.BackendSQLite:
		sqliteStorage, err := storage.NewSQLiteStorage(conf.Storage.SQLitePath)
		if err != nil {
			return fail(fmt.Errorf("could not open sqlite storage: %w", err))
		}
		result.closers = append(result.closers, sqliteStorage)

		if err = sqliteStorage.Init(ctx); err != nil {
			return fail(fmt.Errorf("could not init sqlite storage: %w", err))
		}
		result.kv = repository.NewSQLiteKeyValueStore(sqliteStorage.Connection)
	case config.BackendBolt:
		boltStorage, err := storage.NewBoltStorage(conf.Storage.BoltPath)
		if err != nil {
			return fail(fmt.Errorf("could not open bolt storage: %w", err))
		}
		result.closers = append(result.closers, boltStorage)

		kv, err := repository.NewBoltKeyValueStore(boltStorage.Connection, conf.Storage.Bucket)
		if err != nil {
			return fail(fmt.Errorf("could not init bolt storage: %w", err))
		}
		result.kv = kv
	default:
		return fail(fmt.Errorf("%w: %q", ErrUnknownBackend, conf.Storage.Backend))
	}

	switch conf.Documents.Backend {
	case config.BackendMemory:
		result.documents = repository.NewMemoryDocumentStore()
	case config.BackendRedis:
		conn, err := connectRedis()
		if err != nil {
			return fail(err)
		}
		result.documents = repository.NewRedisDocumentStore(logger, conn.Connection)
	default:
		return fail(fmt.Errorf("%w: %q", ErrUnknownBackend, conf.Documents.Backend))
	}

	return result, nil
}
