package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rocketscienceinc/triqui/internal/entity"
)

const (
	winsPlayerKey   = "wins_player"
	winsOpponentKey = "wins_opponent"
	drawsKey        = "draws"
)

// ScoreRepository keeps each counter under its own key so older clients can read them.
type ScoreRepository interface {
	CreateOrUpdate(ctx context.Context, owner string, score *entity.ScoreTally) error
	GetByID(ctx context.Context, owner string) (*entity.ScoreTally, error)
}

type kvScore struct {
	store KeyValueStore
}

func NewScoreRepository(store KeyValueStore) ScoreRepository {
	return &kvScore{
		store: store,
	}
}

func (that *kvScore) CreateOrUpdate(ctx context.Context, owner string, score *entity.ScoreTally) error {
	counters := map[string]int{
		winsPlayerKey:   score.WinsPlayer,
		winsOpponentKey: score.WinsOpponent,
		drawsKey:        score.Draws,
	}

	for name, value := range counters {
		if err := that.store.Set(ctx, ownerKey(owner, name), strconv.Itoa(value)); err != nil {
			return fmt.Errorf("failed to set %s: %w", name, err)
		}
	}

	return nil
}

// GetByID returns zero counters for an owner that never finished a game.
func (that *kvScore) GetByID(ctx context.Context, owner string) (*entity.ScoreTally, error) {
	var score entity.ScoreTally

	counters := map[string]*int{
		winsPlayerKey:   &score.WinsPlayer,
		winsOpponentKey: &score.WinsOpponent,
		drawsKey:        &score.Draws,
	}

	for name, target := range counters {
		value, err := that.getCounter(ctx, ownerKey(owner, name))
		if err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", name, err)
		}
		*target = value
	}

	return &score, nil
}

func (that *kvScore) getCounter(ctx context.Context, key string) (int, error) {
	raw, err := that.store.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse counter %q: %w", raw, err)
	}

	return value, nil
}

func ownerKey(owner, name string) string {
	return owner + ":" + name
}
