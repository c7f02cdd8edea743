package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rocketscienceinc/triqui/internal/entity"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrInvalidSnapshot  = errors.New("invalid snapshot")
)

const (
	boardKey      = "board"
	starterKey    = "starter"
	difficultyKey = "difficulty"
)

type SnapshotRepository interface {
	CreateOrUpdate(ctx context.Context, owner string, snapshot *entity.LocalSnapshot) error
	GetByID(ctx context.Context, owner string) (*entity.LocalSnapshot, error)
	DeleteByID(ctx context.Context, owner string) error
}

type kvSnapshot struct {
	store KeyValueStore
}

func NewSnapshotRepository(store KeyValueStore) SnapshotRepository {
	return &kvSnapshot{
		store: store,
	}
}

func (that *kvSnapshot) CreateOrUpdate(ctx context.Context, owner string, snapshot *entity.LocalSnapshot) error {
	// the board goes last so a partially written snapshot is never read as complete
	fields := []struct {
		name  string
		value string
	}{
		{starterKey, strconv.Itoa(int(snapshot.Starter))},
		{difficultyKey, string(snapshot.Difficulty)},
		{boardKey, snapshot.Board.Encode()},
	}

	for _, field := range fields {
		if err := that.store.Set(ctx, ownerKey(owner, field.name), field.value); err != nil {
			return fmt.Errorf("failed to set %s: %w", field.name, err)
		}
	}

	return nil
}

func (that *kvSnapshot) GetByID(ctx context.Context, owner string) (*entity.LocalSnapshot, error) {
	rawBoard, err := that.store.Get(ctx, ownerKey(owner, boardKey))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}

	board, err := entity.DecodeBoard(rawBoard)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	snapshot := &entity.LocalSnapshot{
		Board:      board,
		Starter:    entity.Human,
		Difficulty: entity.MediumDifficulty,
	}

	rawStarter, err := that.store.Get(ctx, ownerKey(owner, starterKey))
	switch {
	case errors.Is(err, ErrKeyNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to get starter: %w", err)
	default:
		starter, convErr := strconv.Atoi(rawStarter)
		if convErr != nil || !entity.Mark(starter).IsPlayer() {
			return nil, fmt.Errorf("%w: starter %q", ErrInvalidSnapshot, rawStarter)
		}
		snapshot.Starter = entity.Mark(starter)
	}

	rawDifficulty, err := that.store.Get(ctx, ownerKey(owner, difficultyKey))
	switch {
	case errors.Is(err, ErrKeyNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to get difficulty: %w", err)
	default:
		difficulty, parseErr := entity.ParseDifficulty(rawDifficulty)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, parseErr)
		}
		snapshot.Difficulty = difficulty
	}

	return snapshot, nil
}

func (that *kvSnapshot) DeleteByID(ctx context.Context, owner string) error {
	for _, name := range []string{boardKey, starterKey, difficultyKey} {
		if err := that.store.Delete(ctx, ownerKey(owner, name)); err != nil {
			return fmt.Errorf("failed to delete %s: %w", name, err)
		}
	}

	return nil
}
