package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/triqui/internal/entity"
	"github.com/rocketscienceinc/triqui/internal/repository"
)

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type GameOptions struct {
	ThinkDelay        time.Duration
	DefaultDifficulty entity.Difficulty
}

// GameManager builds sessions over the shared repositories.
type GameManager struct {
	logger *slog.Logger

	playerRepo   playerRepo
	matchRepo    matchRepo
	scoreRepo    scoreRepo
	snapshotRepo snapshotRepo
	bot          botService

	opts GameOptions
}

func NewGameManager(
	logger *slog.Logger,
	playerRepo playerRepo,
	matchRepo matchRepo,
	scoreRepo scoreRepo,
	snapshotRepo snapshotRepo,
	bot botService,
	opts GameOptions,
) *GameManager {
	if opts.DefaultDifficulty == "" {
		opts.DefaultDifficulty = entity.MediumDifficulty
	}

	return &GameManager{
		logger: logger,

		playerRepo:   playerRepo,
		matchRepo:    matchRepo,
		scoreRepo:    scoreRepo,
		snapshotRepo: snapshotRepo,
		bot:          bot,

		opts: opts,
	}
}

// GetOrCreatePlayer returns the stored player, creating one when id is empty or unknown.
func (that *GameManager) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	if id == "" {
		player, err := that.createPlayer(ctx, uuid.NewString())
		if err != nil {
			return nil, fmt.Errorf("failed to create new player %w", err)
		}

		return player, nil
	}

	player, err := that.playerRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		return that.createPlayer(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id %w", err)
	}

	return player, nil
}

// NewLocalGame discards any saved game and starts a fresh one, flipping the saved starter.
func (that *GameManager) NewLocalGame(
	ctx context.Context,
	owner string,
	difficulty entity.Difficulty,
	sound SoundPlayer,
	onChange func(LocalStatus),
) (*LocalSession, LocalStatus, error) {
	log := that.logger.With("method", "NewLocalGame", "owner", owner)

	if difficulty == "" {
		difficulty = that.opts.DefaultDifficulty
	}

	starter := entity.Human

	previous, err := that.snapshotRepo.GetByID(ctx, owner)
	switch {
	case err == nil:
		starter = previous.Starter.Opponent()
	case !errors.Is(err, repository.ErrSnapshotNotFound):
		log.Warn("failed to read previous snapshot", "error", err)
	}

	if err = that.snapshotRepo.DeleteByID(ctx, owner); err != nil {
		return nil, LocalStatus{}, fmt.Errorf("failed to discard snapshot: %w", err)
	}

	session := that.newLocalSession(owner, difficulty, starter, sound, onChange)

	status, err := session.Start(ctx)
	if err != nil {
		session.Close()
		return nil, LocalStatus{}, fmt.Errorf("failed to start local game: %w", err)
	}

	return session, status, nil
}

// ResumeLocalGame restores the saved game, or starts a fresh one when nothing was saved.
func (that *GameManager) ResumeLocalGame(
	ctx context.Context,
	owner string,
	sound SoundPlayer,
	onChange func(LocalStatus),
) (*LocalSession, LocalStatus, error) {
	session := that.newLocalSession(owner, that.opts.DefaultDifficulty, entity.Human, sound, onChange)

	if err := session.Restore(ctx); err != nil {
		session.Close()
		return nil, LocalStatus{}, fmt.Errorf("failed to restore local game: %w", err)
	}

	status, err := session.Start(ctx)
	if err != nil {
		session.Close()
		return nil, LocalStatus{}, fmt.Errorf("failed to start local game: %w", err)
	}

	return session, status, nil
}

func (that *GameManager) HasSavedGame(ctx context.Context, owner string) (bool, error) {
	_, err := that.snapshotRepo.GetByID(ctx, owner)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrSnapshotNotFound), errors.Is(err, repository.ErrInvalidSnapshot):
		return false, nil
	default:
		return false, fmt.Errorf("failed to get snapshot: %w", err)
	}
}

func (that *GameManager) GetScore(ctx context.Context, owner string) (*entity.ScoreTally, error) {
	score, err := that.scoreRepo.GetByID(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to get score: %w", err)
	}

	return score, nil
}

func (that *GameManager) NewMatchSession(playerID string, sound SoundPlayer) *MatchSession {
	return NewMatchSession(that.logger, playerID, that.matchRepo, that.playerRepo, sound)
}

func (that *GameManager) newLocalSession(
	owner string,
	difficulty entity.Difficulty,
	starter entity.Mark,
	sound SoundPlayer,
	onChange func(LocalStatus),
) *LocalSession {
	return NewLocalSession(that.logger, LocalSessionOptions{
		Owner:      owner,
		Difficulty: difficulty,
		Starter:    starter,
		ThinkDelay: that.opts.ThinkDelay,
		Bot:        that.bot,
		Scores:     that.scoreRepo,
		Snapshots:  that.snapshotRepo,
		Sound:      sound,
		OnChange:   onChange,
	})
}

func (that *GameManager) createPlayer(ctx context.Context, id string) (*entity.Player, error) {
	player := &entity.Player{
		ID: id,
	}

	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}
