package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/triqui/internal/apperror"
	"github.com/rocketscienceinc/triqui/internal/entity"
	"github.com/rocketscienceinc/triqui/internal/repository"
	"github.com/rocketscienceinc/triqui/internal/tictactoe"
)

const matchStreamBuffer = 16

type matchRepo interface {
	Create(ctx context.Context, match *entity.Match) error
	GetByID(ctx context.Context, id string) (*entity.Match, error)
	GetWaiting(ctx context.Context, excludePlayerID string) (*entity.Match, error)
	Update(ctx context.Context, match *entity.Match, fields ...string) error
	DeleteByID(ctx context.Context, id string) error
	Subscribe(ctx context.Context, id string, callback func(*entity.Match)) (repository.Subscription, error)
}

// MatchStream carries every observed version of one match until it is closed.
type MatchStream struct {
	matchID      string
	updates      chan *entity.Match
	done         chan struct{}
	subscription repository.Subscription
	closeOnce    sync.Once
}

func newMatchStream(matchID string) *MatchStream {
	return &MatchStream{
		matchID: matchID,
		updates: make(chan *entity.Match, matchStreamBuffer),
		done:    make(chan struct{}),
	}
}

func (that *MatchStream) MatchID() string {
	return that.matchID
}

// Updates is closed after Close.
func (that *MatchStream) Updates() <-chan *entity.Match {
	return that.updates
}

// Close cancels the subscription. No update is produced after Close returns.
func (that *MatchStream) Close() {
	that.closeOnce.Do(func() {
		close(that.done)

		if that.subscription != nil {
			that.subscription.Remove()
		}

		close(that.updates)
	})
}

func (that *MatchStream) push(match *entity.Match) {
	select {
	case that.updates <- match:
	case <-that.done:
	}
}

func (that *MatchStream) isClosed() bool {
	select {
	case <-that.done:
		return true
	default:
		return false
	}
}

// MatchSession is one player's view of a shared match. The remote document is authoritative;
// the session keeps a mirror and writes only when the player owns the turn.
type MatchSession struct {
	logger *slog.Logger

	playerID string
	matches  matchRepo
	players  playerRepo
	sound    SoundPlayer

	mu     sync.Mutex
	match  *entity.Match
	stream *MatchStream
	closed bool
}

func NewMatchSession(logger *slog.Logger, playerID string, matches matchRepo, players playerRepo, sound SoundPlayer) *MatchSession {
	if sound == nil {
		sound = SoundPlayerFunc(func(entity.SoundEvent) {})
	}

	return &MatchSession{
		logger: logger.With("component", "matchSession", "playerID", playerID),

		playerID: playerID,
		matches:  matches,
		players:  players,
		sound:    sound,
	}
}

func (that *MatchSession) PlayerID() string {
	return that.playerID
}

// CreateMatch opens a waiting match owned by this player.
func (that *MatchSession) CreateMatch(ctx context.Context) (*entity.Match, error) {
	if err := that.checkFree(); err != nil {
		return nil, err
	}

	match := entity.NewMatch(that.playerID)
	if err := that.matches.Create(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", errors.Join(apperror.ErrRemoteWrite, err))
	}

	if err := that.enter(ctx, match); err != nil {
		return nil, err
	}

	return match.Clone(), nil
}

// JoinMatch takes the second seat of a waiting match. Concurrent joiners race and the last write wins.
func (that *MatchSession) JoinMatch(ctx context.Context, matchID string) (*entity.Match, error) {
	if err := that.checkFree(); err != nil {
		return nil, err
	}

	match, err := that.matches.GetByID(ctx, matchID)
	if errors.Is(err, repository.ErrMatchNotFound) {
		return nil, apperror.ErrMatchGone
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", errors.Join(apperror.ErrRemoteRead, err))
	}

	return that.join(ctx, match)
}

// QuickMatch joins the oldest waiting match created by someone else.
func (that *MatchSession) QuickMatch(ctx context.Context) (*entity.Match, error) {
	if err := that.checkFree(); err != nil {
		return nil, err
	}

	match, err := that.matches.GetWaiting(ctx, that.playerID)
	if errors.Is(err, repository.ErrMatchNotFound) {
		return nil, apperror.ErrNoWaitingMatches
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find waiting match: %w", errors.Join(apperror.ErrRemoteRead, err))
	}

	return that.join(ctx, match)
}

// Attach resumes a match this player already takes part in. When the match is gone or was never
// theirs, the player's recorded match is cleared.
func (that *MatchSession) Attach(ctx context.Context, matchID string) (*entity.Match, error) {
	if err := that.checkFree(); err != nil {
		return nil, err
	}

	match, err := that.matches.GetByID(ctx, matchID)
	if errors.Is(err, repository.ErrMatchNotFound) {
		that.forgetMatch(ctx)
		return nil, apperror.ErrMatchGone
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", errors.Join(apperror.ErrRemoteRead, err))
	}

	if match.MarkOf(that.playerID) == entity.EmptyCell {
		that.forgetMatch(ctx)
		return nil, apperror.ErrPlayerNotInGame
	}

	if match.IsGone() {
		that.forgetMatch(ctx)
		return nil, apperror.ErrMatchGone
	}

	if err = that.enter(ctx, match); err != nil {
		return nil, err
	}

	return match.Clone(), nil
}

// Observe returns the live stream of the current match, subscribing on first use.
func (that *MatchSession) Observe(ctx context.Context) (*MatchStream, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return nil, apperror.ErrSessionClosed
	}

	if that.match == nil {
		return nil, apperror.ErrPlayerNotInGame
	}

	if that.stream != nil {
		return that.stream, nil
	}

	stream := newMatchStream(that.match.ID)

	subscription, err := that.matches.Subscribe(ctx, that.match.ID, func(match *entity.Match) {
		that.handleSnapshot(stream, match)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to observe match: %w", errors.Join(apperror.ErrRemoteRead, err))
	}

	stream.subscription = subscription
	that.stream = stream

	return stream, nil
}

// SubmitMove validates against the mirror and writes the whole match. Nothing is written when validation fails.
func (that *MatchSession) SubmitMove(ctx context.Context, cell int) (*entity.Match, error) {
	that.mu.Lock()

	if err := that.checkInMatchLocked(); err != nil {
		that.mu.Unlock()
		return nil, err
	}

	next := that.match.Clone()
	if err := tictactoe.MakeMatchTurn(next, next.MarkOf(that.playerID), cell); err != nil {
		current := that.match.Clone()
		that.mu.Unlock()
		return current, fmt.Errorf("failed to make turn: %w", err)
	}

	that.match = next
	that.mu.Unlock()

	if err := that.write(ctx, next); err != nil {
		return next.Clone(), err
	}

	that.sound.Play(entity.SoundOwnMove)
	if next.IsFinished() {
		that.sound.Play(entity.OutcomeSound(outcomeOf(next), next.MarkOf(that.playerID)))
	}

	return next.Clone(), nil
}

// ResetRound clears the board and keeps the win counters.
func (that *MatchSession) ResetRound(ctx context.Context) (*entity.Match, error) {
	that.mu.Lock()

	if err := that.checkInMatchLocked(); err != nil {
		that.mu.Unlock()
		return nil, err
	}

	if that.match.IsWaiting() {
		that.mu.Unlock()
		return nil, apperror.ErrGameIsNotStarted
	}

	next := that.match.Clone()
	next.ResetRound()
	that.match = next
	that.mu.Unlock()

	err := that.write(ctx, next,
		repository.FieldBoard,
		repository.FieldTurnOwner,
		repository.FieldStatus,
		repository.FieldWinner,
	)
	if err != nil {
		return next.Clone(), err
	}

	return next.Clone(), nil
}

// LeaveMatch stops observing and then deletes the match, which sends the peer the deleted sentinel.
func (that *MatchSession) LeaveMatch(ctx context.Context) error {
	match, err := that.exit()
	if err != nil {
		return err
	}

	if err = that.matches.DeleteByID(ctx, match.ID); err != nil {
		return fmt.Errorf("failed to delete match: %w", errors.Join(apperror.ErrRemoteWrite, err))
	}

	that.forgetMatch(ctx)

	return nil
}

// AbandonMatch stops observing and marks the match abandoned instead of deleting it.
func (that *MatchSession) AbandonMatch(ctx context.Context) error {
	match, err := that.exit()
	if err != nil {
		return err
	}

	match.Status = entity.StatusAbandoned
	match.Winner = entity.EmptyCell

	err = that.matches.Update(ctx, match, repository.FieldStatus, repository.FieldWinner)
	if err != nil && !errors.Is(err, repository.ErrMatchNotFound) {
		return fmt.Errorf("failed to abandon match: %w", errors.Join(apperror.ErrRemoteWrite, err))
	}

	that.forgetMatch(ctx)

	return nil
}

// Match returns a copy of the mirror, or nil outside a match.
func (that *MatchSession) Match() *entity.Match {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.match == nil {
		return nil
	}

	return that.match.Clone()
}

// Close stops observing. The match itself is left in place so the player can attach again.
func (that *MatchSession) Close() {
	that.mu.Lock()
	that.closed = true
	stream := that.stream
	that.stream = nil
	that.mu.Unlock()

	if stream != nil {
		stream.Close()
	}
}

func (that *MatchSession) join(ctx context.Context, match *entity.Match) (*entity.Match, error) {
	switch {
	case match.Player1ID == that.playerID:
		return nil, apperror.ErrCannotJoinOwnGame
	case match.Player2ID == that.playerID && !match.IsGone():
		if err := that.enter(ctx, match); err != nil {
			return nil, err
		}
		return match.Clone(), nil
	case match.IsGone():
		return nil, apperror.ErrMatchGone
	case !match.IsWaiting():
		return nil, apperror.ErrGameAlreadyStarted
	}

	match.Player2ID = that.playerID
	match.Status = entity.StatusActive

	err := that.matches.Update(ctx, match, repository.FieldPlayer2ID, repository.FieldStatus)
	if errors.Is(err, repository.ErrMatchNotFound) {
		return nil, apperror.ErrMatchGone
	}
	if err != nil {
		return nil, fmt.Errorf("failed to join match: %w", errors.Join(apperror.ErrRemoteWrite, err))
	}

	if err = that.enter(ctx, match); err != nil {
		return nil, err
	}

	return match.Clone(), nil
}

// enter makes match the mirror, records it on the player and starts observing.
func (that *MatchSession) enter(ctx context.Context, match *entity.Match) error {
	log := that.logger.With("method", "enter", "matchID", match.ID)

	that.mu.Lock()
	if that.closed {
		that.mu.Unlock()
		return apperror.ErrSessionClosed
	}
	that.match = match.Clone()
	that.mu.Unlock()

	if err := that.players.CreateOrUpdate(ctx, &entity.Player{ID: that.playerID, MatchID: match.ID}); err != nil {
		log.Error("failed to record match on player", "error", err)
	}

	if _, err := that.Observe(ctx); err != nil {
		that.mu.Lock()
		if that.stream == nil {
			that.match = nil
		}
		that.mu.Unlock()

		return err
	}

	log.Info("entered match", "status", match.Status)

	return nil
}

func (that *MatchSession) exit() (*entity.Match, error) {
	that.mu.Lock()

	if that.closed {
		that.mu.Unlock()
		return nil, apperror.ErrSessionClosed
	}

	if that.match == nil {
		that.mu.Unlock()
		return nil, apperror.ErrPlayerNotInGame
	}

	match := that.match.Clone()
	stream := that.stream
	that.stream = nil
	that.match = nil
	that.mu.Unlock()

	// the stream must be gone before the document changes, or this client would see its own exit
	if stream != nil {
		stream.Close()
	}

	return match, nil
}

func (that *MatchSession) forgetMatch(ctx context.Context) {
	if err := that.players.CreateOrUpdate(ctx, &entity.Player{ID: that.playerID}); err != nil {
		that.logger.Error("failed to clear match on player", "method", "forgetMatch", "error", err)
	}
}

func (that *MatchSession) write(ctx context.Context, match *entity.Match, fields ...string) error {
	err := that.matches.Update(ctx, match, fields...)
	if errors.Is(err, repository.ErrMatchNotFound) {
		return apperror.ErrMatchGone
	}
	if err != nil {
		return fmt.Errorf("failed to write match: %w", errors.Join(apperror.ErrRemoteWrite, err))
	}

	return nil
}

func (that *MatchSession) checkFree() error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return apperror.ErrSessionClosed
	}

	if that.match != nil {
		return fmt.Errorf("%w: %s", apperror.ErrGameAlreadyExists, that.match.ID)
	}

	return nil
}

func (that *MatchSession) checkInMatchLocked() error {
	if that.closed {
		return apperror.ErrSessionClosed
	}

	if that.match == nil {
		return apperror.ErrPlayerNotInGame
	}

	if that.match.IsGone() {
		return apperror.ErrMatchGone
	}

	return nil
}

// handleSnapshot replaces the mirror with the remote version and plays the cues it implies.
func (that *MatchSession) handleSnapshot(stream *MatchStream, match *entity.Match) {
	that.mu.Lock()

	if stream.isClosed() || that.stream != stream {
		that.mu.Unlock()
		return
	}

	previous := that.match
	if match.IsGone() && previous != nil {
		gone := previous.Clone()
		gone.Status = match.Status
		match = gone
	}
	that.match = match.Clone()

	mark := match.MarkOf(that.playerID)
	var sounds []entity.SoundEvent

	if previous != nil && !match.IsGone() {
		if opponentMoved(previous.Board, match.Board, mark.Opponent()) {
			sounds = append(sounds, entity.SoundOpponentMove)
		}

		if match.IsFinished() && !previous.IsFinished() {
			sounds = append(sounds, entity.OutcomeSound(outcomeOf(match), mark))
		}
	}

	that.mu.Unlock()

	for _, sound := range sounds {
		that.sound.Play(sound)
	}

	stream.push(match.Clone())
}

func opponentMoved(before, after entity.Board, opponent entity.Mark) bool {
	for i := range after {
		if before[i] == entity.EmptyCell && after[i] == opponent {
			return true
		}
	}

	return false
}

func outcomeOf(match *entity.Match) entity.Outcome {
	if match.Status == entity.StatusDraw {
		return entity.Outcome{Result: entity.Draw}
	}

	if match.Status == entity.StatusFinished && match.Winner.IsPlayer() {
		return entity.Outcome{Result: entity.Win, Winner: match.Winner}
	}

	return entity.Outcome{Result: entity.InProgress}
}
