package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/triqui/internal/apperror"
	"github.com/rocketscienceinc/triqui/internal/entity"
	"github.com/rocketscienceinc/triqui/internal/repository"
	"github.com/rocketscienceinc/triqui/internal/tictactoe"
)

var ErrUnknownPhase = errors.New("unknown phase")

type Phase int

const (
	PhaseAwaitingHuman Phase = iota
	PhaseAwaitingComputer
	PhaseTerminal
)

func (that Phase) String() string {
	switch that {
	case PhaseAwaitingHuman:
		return "awaiting_human"
	case PhaseAwaitingComputer:
		return "awaiting_computer"
	case PhaseTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

func (that Phase) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Phase) UnmarshalText(text []byte) error {
	for _, phase := range []Phase{PhaseAwaitingHuman, PhaseAwaitingComputer, PhaseTerminal} {
		if phase.String() == string(text) {
			*that = phase
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrUnknownPhase, text)
}

// LocalStatus is a copy of the session state safe to hand to other goroutines.
type LocalStatus struct {
	entity.LocalState
	NextTurn entity.Mark `json:"turn"`
	Phase    Phase       `json:"phase"`
}

type botService interface {
	ChooseMove(board entity.Board, difficulty entity.Difficulty, bot, human entity.Mark) (int, error)
}

type scoreRepo interface {
	CreateOrUpdate(ctx context.Context, owner string, score *entity.ScoreTally) error
	GetByID(ctx context.Context, owner string) (*entity.ScoreTally, error)
}

type snapshotRepo interface {
	CreateOrUpdate(ctx context.Context, owner string, snapshot *entity.LocalSnapshot) error
	GetByID(ctx context.Context, owner string) (*entity.LocalSnapshot, error)
	DeleteByID(ctx context.Context, owner string) error
}

type SoundPlayer interface {
	Play(event entity.SoundEvent)
}

type SoundPlayerFunc func(event entity.SoundEvent)

func (that SoundPlayerFunc) Play(event entity.SoundEvent) {
	that(event)
}

type LocalSessionOptions struct {
	Owner      string
	Difficulty entity.Difficulty
	Starter    entity.Mark
	ThinkDelay time.Duration

	Bot       botService
	Scores    scoreRepo
	Snapshots snapshotRepo
	Sound     SoundPlayer

	// OnChange receives the state after each computer move. Direct calls return their state instead.
	OnChange func(LocalStatus)
}

// LocalSession is one device's game against the computer.
type LocalSession struct {
	logger *slog.Logger

	owner      string
	thinkDelay time.Duration
	bot        botService
	scores     scoreRepo
	snapshots  snapshotRepo
	sound      SoundPlayer
	onChange   func(LocalStatus)

	mu         sync.Mutex
	round      *tictactoe.Round
	starter    entity.Mark
	difficulty entity.Difficulty
	score      entity.ScoreTally
	phase      Phase
	generation uint64
	started    bool
	closed     bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewLocalSession(logger *slog.Logger, opts LocalSessionOptions) *LocalSession {
	starter := opts.Starter
	if !starter.IsPlayer() {
		starter = entity.Human
	}

	sound := opts.Sound
	if sound == nil {
		sound = SoundPlayerFunc(func(entity.SoundEvent) {})
	}

	ctx, cancel := context.WithCancel(context.Background())

	session := &LocalSession{
		logger: logger.With("component", "localSession", "owner", opts.Owner),

		owner:      opts.Owner,
		thinkDelay: opts.ThinkDelay,
		bot:        opts.Bot,
		scores:     opts.Scores,
		snapshots:  opts.Snapshots,
		sound:      sound,
		onChange:   opts.OnChange,

		starter:    starter,
		difficulty: opts.Difficulty,
		round:      tictactoe.NewRound(starter),

		ctx:    ctx,
		cancel: cancel,
	}
	session.phase = session.phaseLocked()

	return session
}

// Restore loads the saved game. A missing or unreadable snapshot leaves the session untouched.
func (that *LocalSession) Restore(ctx context.Context) error {
	log := that.logger.With("method", "Restore")

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return apperror.ErrSessionClosed
	}

	if that.started {
		return apperror.ErrGameAlreadyStarted
	}

	snapshot, err := that.snapshots.GetByID(ctx, that.owner)
	switch {
	case errors.Is(err, repository.ErrSnapshotNotFound):
		return nil
	case errors.Is(err, repository.ErrInvalidSnapshot):
		log.Warn("ignoring unreadable snapshot", "error", err)
		return nil
	case err != nil:
		return fmt.Errorf("failed to get snapshot: %w", err)
	}

	that.starter = snapshot.Starter
	that.difficulty = snapshot.Difficulty
	that.round = tictactoe.RoundFromBoard(snapshot.Board, snapshot.Starter)
	that.phase = that.phaseLocked()

	return nil
}

// Start loads the score tally and hands the first move to the starter.
func (that *LocalSession) Start(ctx context.Context) (LocalStatus, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return LocalStatus{}, apperror.ErrSessionClosed
	}

	if that.started {
		return LocalStatus{}, apperror.ErrGameAlreadyStarted
	}

	score, err := that.scores.GetByID(ctx, that.owner)
	if err != nil {
		return LocalStatus{}, fmt.Errorf("failed to load score: %w", err)
	}

	that.score = *score
	that.started = true

	if that.phase == PhaseAwaitingComputer {
		that.scheduleComputerMoveLocked()
	}

	return that.statusLocked(), nil
}

// Play applies the human move. Moves are refused while the computer is thinking.
func (that *LocalSession) Play(ctx context.Context, cell int) (LocalStatus, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.checkPlayableLocked(); err != nil {
		return that.statusLocked(), err
	}

	switch that.phase {
	case PhaseTerminal:
		return that.statusLocked(), apperror.ErrGameFinished
	case PhaseAwaitingComputer:
		return that.statusLocked(), fmt.Errorf("invalid turn: %w", apperror.ErrNotYourTurn)
	}

	if err := tictactoe.MakeTurn(that.round, entity.Human, cell); err != nil {
		return that.statusLocked(), fmt.Errorf("failed to make turn: %w", err)
	}

	that.sound.Play(entity.SoundOwnMove)
	that.afterMoveLocked(ctx)

	return that.statusLocked(), nil
}

// Reset starts a new round with the other party moving first. Scores are never touched.
func (that *LocalSession) Reset(ctx context.Context) (LocalStatus, error) {
	log := that.logger.With("method", "Reset")

	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.checkPlayableLocked(); err != nil {
		return that.statusLocked(), err
	}

	that.generation++
	that.starter = that.starter.Opponent()
	that.round = tictactoe.NewRound(that.starter)
	that.phase = that.phaseLocked()

	if err := that.saveLocked(ctx); err != nil {
		log.Error("failed to save snapshot", "error", err)
	}

	if that.phase == PhaseAwaitingComputer {
		that.scheduleComputerMoveLocked()
	}

	return that.statusLocked(), nil
}

func (that *LocalSession) Save(ctx context.Context) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return apperror.ErrSessionClosed
	}

	return that.saveLocked(ctx)
}

func (that *LocalSession) State() LocalStatus {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.statusLocked()
}

// Close drops any pending computer move and waits for it to finish.
func (that *LocalSession) Close() {
	that.mu.Lock()
	if that.closed {
		that.mu.Unlock()
		return
	}
	that.closed = true
	that.generation++
	that.cancel()
	that.mu.Unlock()

	that.wg.Wait()
}

func (that *LocalSession) checkPlayableLocked() error {
	if that.closed {
		return apperror.ErrSessionClosed
	}

	if !that.started {
		return apperror.ErrGameIsNotStarted
	}

	return nil
}

func (that *LocalSession) afterMoveLocked(ctx context.Context) {
	log := that.logger.With("method", "afterMove")

	if err := that.saveLocked(ctx); err != nil {
		log.Error("failed to save snapshot", "error", err)
	}

	if that.round.Outcome.IsTerminal() {
		that.finishLocked(ctx)
		return
	}

	that.phase = that.phaseLocked()
	if that.phase == PhaseAwaitingComputer {
		that.scheduleComputerMoveLocked()
	}
}

// finishLocked runs once per round, on the move that ends it.
func (that *LocalSession) finishLocked(ctx context.Context) {
	log := that.logger.With("method", "finish")

	that.phase = PhaseTerminal
	that.score.Record(that.round.Outcome)

	score := that.score
	if err := that.scores.CreateOrUpdate(ctx, that.owner, &score); err != nil {
		log.Error("failed to save score", "error", err)
	}

	that.sound.Play(entity.OutcomeSound(that.round.Outcome, entity.Human))

	log.Info("round finished", "result", that.round.Outcome.Result.String(), "winner", that.round.Outcome.Winner.String())
}

// scheduleComputerMoveLocked picks the move now and applies it after the think delay.
func (that *LocalSession) scheduleComputerMoveLocked() {
	log := that.logger.With("method", "scheduleComputerMove")

	cell, err := that.bot.ChooseMove(that.round.Board, that.difficulty, entity.Computer, entity.Human)
	if errors.Is(err, apperror.ErrNoAvailableMove) {
		log.Warn("computer has no move, resolving as draw")
		that.round.Outcome = entity.Outcome{Result: entity.Draw}
		that.round.Turn = entity.EmptyCell
		that.finishLocked(that.ctx)
		return
	}
	if err != nil {
		log.Error("failed to choose computer move", "error", err)
		return
	}

	generation := that.generation

	that.wg.Add(1)
	go func() {
		defer that.wg.Done()

		timer := time.NewTimer(that.thinkDelay)
		defer timer.Stop()

		select {
		case <-that.ctx.Done():
			return
		case <-timer.C:
		}

		that.applyComputerMove(generation, cell)
	}()
}

func (that *LocalSession) applyComputerMove(generation uint64, cell int) {
	log := that.logger.With("method", "applyComputerMove")

	that.mu.Lock()

	if that.closed || generation != that.generation || that.phase != PhaseAwaitingComputer {
		that.mu.Unlock()
		return
	}

	if err := tictactoe.MakeTurn(that.round, entity.Computer, cell); err != nil {
		that.mu.Unlock()
		log.Error("failed to apply computer move", "cell", cell, "error", err)
		return
	}

	that.sound.Play(entity.SoundOpponentMove)
	that.afterMoveLocked(that.ctx)

	status := that.statusLocked()
	onChange := that.onChange
	that.mu.Unlock()

	if onChange != nil {
		onChange(status)
	}
}

func (that *LocalSession) saveLocked(ctx context.Context) error {
	snapshot := entity.LocalSnapshot{
		Board:      that.round.Board,
		Starter:    that.starter,
		Difficulty: that.difficulty,
	}

	if err := that.snapshots.CreateOrUpdate(ctx, that.owner, &snapshot); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

func (that *LocalSession) phaseLocked() Phase {
	switch {
	case that.round.Outcome.IsTerminal():
		return PhaseTerminal
	case that.round.Turn == entity.Computer:
		return PhaseAwaitingComputer
	default:
		return PhaseAwaitingHuman
	}
}

func (that *LocalSession) statusLocked() LocalStatus {
	return LocalStatus{
		LocalState: entity.LocalState{
			Board:      that.round.Board,
			Outcome:    that.round.Outcome,
			Starter:    that.starter,
			Difficulty: that.difficulty,
			Score:      that.score,
		},
		NextTurn: that.round.Turn,
		Phase:    that.phase,
	}
}
