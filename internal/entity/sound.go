package entity

// SoundEvent names a cue for the client's sound side-channel.
type SoundEvent string

const (
	SoundOwnMove      SoundEvent = "move:own"
	SoundOpponentMove SoundEvent = "move:opponent"
	SoundWin          SoundEvent = "win"
	SoundLoss         SoundEvent = "loss"
	SoundDraw         SoundEvent = "draw"
)

// OutcomeSound picks the cue a player hears when a game ends.
func OutcomeSound(outcome Outcome, player Mark) SoundEvent {
	switch {
	case outcome.Result == Draw:
		return SoundDraw
	case outcome.IsWinFor(player):
		return SoundWin
	default:
		return SoundLoss
	}
}
