package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/triqui/internal/entity"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrInvalidMatch  = errors.New("invalid match document")
)

const (
	FieldBoard       = "board"
	FieldTurnOwner   = "turn_owner"
	FieldStatus      = "status"
	FieldWinner      = "winner"
	FieldPlayer1ID   = "player1_id"
	FieldPlayer2ID   = "player2_id"
	FieldWinsPlayer1 = "wins_player1"
	FieldWinsPlayer2 = "wins_player2"
)

var matchFields = []string{
	FieldBoard,
	FieldTurnOwner,
	FieldStatus,
	FieldWinner,
	FieldPlayer1ID,
	FieldPlayer2ID,
	FieldWinsPlayer1,
	FieldWinsPlayer2,
}

var requiredMatchFields = []string{FieldBoard, FieldTurnOwner, FieldStatus, FieldPlayer1ID}

type MatchRepository interface {
	Create(ctx context.Context, match *entity.Match) error
	GetByID(ctx context.Context, id string) (*entity.Match, error)
	GetWaiting(ctx context.Context, excludePlayerID string) (*entity.Match, error)
	// Update merges the named fields into the remote document, or every field when none are named.
	Update(ctx context.Context, match *entity.Match, fields ...string) error
	DeleteByID(ctx context.Context, id string) error
	Subscribe(ctx context.Context, id string, callback func(*entity.Match)) (Subscription, error)
}

type documentMatch struct {
	logger     *slog.Logger
	store      DocumentStore
	collection string
}

func NewMatchRepository(logger *slog.Logger, store DocumentStore, collection string) MatchRepository {
	return &documentMatch{
		logger:     logger.With("component", "matchRepository"),
		store:      store,
		collection: collection,
	}
}

// Create stores a new document and assigns its id to match.
func (that *documentMatch) Create(ctx context.Context, match *entity.Match) error {
	fields, err := matchToFields(match, matchFields)
	if err != nil {
		return err
	}

	id, err := that.store.Create(ctx, that.collection, fields)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}

	match.ID = id

	return nil
}

func (that *documentMatch) GetByID(ctx context.Context, id string) (*entity.Match, error) {
	snapshot, err := that.store.Get(ctx, that.collection, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get match by id: %w", err)
	}

	if !snapshot.Exists {
		return nil, ErrMatchNotFound
	}

	return matchFromSnapshot(snapshot)
}

func (that *documentMatch) GetWaiting(ctx context.Context, excludePlayerID string) (*entity.Match, error) {
	status, _ := json.Marshal(entity.StatusWaiting)
	player, _ := json.Marshal(excludePlayerID)

	snapshot, err := that.store.GetOne(ctx, Query{
		Collection: that.collection,
		Filters: []Filter{
			{Field: FieldStatus, Op: OpEqual, Value: status},
			{Field: FieldPlayer1ID, Op: OpNotEqual, Value: player},
		},
	})
	if errors.Is(err, ErrDocumentNotFound) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find waiting match: %w", err)
	}

	return matchFromSnapshot(snapshot)
}

func (that *documentMatch) Update(ctx context.Context, match *entity.Match, fields ...string) error {
	if len(fields) == 0 {
		fields = matchFields
	}

	values, err := matchToFields(match, fields)
	if err != nil {
		return err
	}

	err = that.store.Update(ctx, that.collection, match.ID, values, true)
	if errors.Is(err, ErrDocumentNotFound) {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, match.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}

	return nil
}

func (that *documentMatch) DeleteByID(ctx context.Context, id string) error {
	if err := that.store.Delete(ctx, that.collection, id); err != nil {
		return fmt.Errorf("failed to delete match by ID: %w", err)
	}

	return nil
}

// Subscribe reports a deleted match as entity.StatusDeleted. Snapshots missing required fields are skipped.
func (that *documentMatch) Subscribe(ctx context.Context, id string, callback func(*entity.Match)) (Subscription, error) {
	log := that.logger.With("method", "Subscribe", "matchID", id)

	subscription, err := that.store.Subscribe(ctx, that.collection, id, func(snapshot *Snapshot) {
		match, err := matchFromSnapshot(snapshot)
		if err != nil {
			log.Warn("skipping match snapshot", "error", err)
			return
		}

		callback(match)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to match: %w", err)
	}

	return subscription, nil
}

func matchToFields(match *entity.Match, names []string) (Fields, error) {
	fields := make(Fields, len(names))

	for _, name := range names {
		var value interface{}

		switch name {
		case FieldBoard:
			value = match.Board
		case FieldTurnOwner:
			value = match.TurnOwner
		case FieldStatus:
			value = match.Status
		case FieldWinner:
			value = match.Winner
		case FieldPlayer1ID:
			value = match.Player1ID
		case FieldPlayer2ID:
			value = match.Player2ID
		case FieldWinsPlayer1:
			value = match.WinsPlayer1
		case FieldWinsPlayer2:
			value = match.WinsPlayer2
		default:
			return nil, fmt.Errorf("%w: unknown field %s", ErrInvalidMatch, name)
		}

		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", name, err)
		}

		fields[name] = encoded
	}

	return fields, nil
}

func matchFromSnapshot(snapshot *Snapshot) (*entity.Match, error) {
	if !snapshot.Exists {
		return entity.DeletedMatch(snapshot.ID), nil
	}

	for _, name := range requiredMatchFields {
		if _, ok := snapshot.Fields[name]; !ok {
			return nil, fmt.Errorf("%w: missing %s", ErrInvalidMatch, name)
		}
	}

	match := &entity.Match{ID: snapshot.ID}

	var cells []int
	if err := decodeField(snapshot.Fields, FieldBoard, &cells); err != nil {
		return nil, err
	}

	board, err := entity.BoardFromCells(cells)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMatch, err)
	}
	match.Board = board

	var turnOwner, winner int
	targets := []struct {
		name   string
		target interface{}
	}{
		{FieldTurnOwner, &turnOwner},
		{FieldStatus, &match.Status},
		{FieldWinner, &winner},
		{FieldPlayer1ID, &match.Player1ID},
		{FieldPlayer2ID, &match.Player2ID},
		{FieldWinsPlayer1, &match.WinsPlayer1},
		{FieldWinsPlayer2, &match.WinsPlayer2},
	}

	for _, field := range targets {
		if err = decodeField(snapshot.Fields, field.name, field.target); err != nil {
			return nil, err
		}
	}

	match.TurnOwner = entity.Mark(turnOwner)
	if !match.TurnOwner.IsPlayer() {
		return nil, fmt.Errorf("%w: turn owner %d", ErrInvalidMatch, turnOwner)
	}

	match.Winner = entity.Mark(winner)
	if match.Winner != entity.EmptyCell && !match.Winner.IsPlayer() {
		return nil, fmt.Errorf("%w: winner %d", ErrInvalidMatch, winner)
	}

	return match, nil
}

// decodeField leaves target untouched when the field is absent.
func decodeField(fields Fields, name string, target interface{}) error {
	raw, ok := fields[name]
	if !ok {
		return nil
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: field %s: %w", ErrInvalidMatch, name, err)
	}

	return nil
}
