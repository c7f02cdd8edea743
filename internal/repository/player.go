package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/triqui/internal/entity"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type kvPlayer struct {
	store KeyValueStore
}

func NewPlayerRepository(store KeyValueStore) PlayerRepository {
	return &kvPlayer{
		store: store,
	}
}

func (that *kvPlayer) CreateOrUpdate(ctx context.Context, player *entity.Player) error {
	playerJSON, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	if err = that.store.Set(ctx, "player:"+player.ID, string(playerJSON)); err != nil {
		return fmt.Errorf("failed to set player: %w", err)
	}

	return nil
}

func (that *kvPlayer) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	response, err := that.store.Get(ctx, "player:"+id)

	if errors.Is(err, ErrKeyNotFound) {
		return nil, ErrPlayerNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by ID: %w", err)
	}

	var existingPlayer entity.Player
	if err = json.Unmarshal([]byte(response), &existingPlayer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player: %w", err)
	}

	return &existingPlayer, nil
}
