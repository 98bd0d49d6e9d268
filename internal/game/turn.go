package game

import (
	"errors"

	"github.com/google/uuid"
)

// TurnPhase tracks where a player is within their turn. Transitions are
// deterministic functions of the current phase, the action, and the rolls
// remaining.
type TurnPhase int

const (
	AwaitingFirstRoll TurnPhase = iota
	AwaitingHoldOrReroll
	MustScore
	TurnComplete
)

func (p TurnPhase) String() string {
	switch p {
	case AwaitingFirstRoll:
		return "awaiting_first_roll"
	case AwaitingHoldOrReroll:
		return "awaiting_hold_or_reroll"
	case MustScore:
		return "must_score"
	case TurnComplete:
		return "turn_complete"
	}
	return "unknown"
}

var (
	ErrNoRollsLeft = errors.New("no rolls remaining")
	ErrCannotScore = errors.New("cannot score before rolling")
)

// Turn is the state of one player's turn: the current roll, the hold mask
// for the next re-roll, and the remaining roll budget.
type Turn struct {
	PlayerID       uuid.UUID
	Phase          TurnPhase
	Dice           Dice
	Held           HoldMask
	RollsRemaining int
}

func NewTurn(playerID uuid.UUID) *Turn {
	return &Turn{
		PlayerID:       playerID,
		Phase:          AwaitingFirstRoll,
		RollsRemaining: MaxRolls,
	}
}

// FirstRoll executes the automatic roll that opens a turn: all five dice
// rolled, no holds possible yet.
func (t *Turn) FirstRoll(roller *Roller) {
	t.Dice = roller.Roll(t.Dice, HoldMask{})
	t.RollsRemaining--
	t.Phase = AwaitingHoldOrReroll
}

// Reroll applies the hold mask and replaces the unheld dice. Once the roll
// budget is exhausted the turn moves to MustScore.
func (t *Turn) Reroll(roller *Roller, hold HoldMask) error {
	if t.Phase != AwaitingHoldOrReroll || t.RollsRemaining <= 0 {
		return ErrNoRollsLeft
	}

	t.Held = hold
	t.Dice = roller.Roll(t.Dice, hold)
	t.RollsRemaining--
	if t.RollsRemaining == 0 {
		t.Phase = MustScore
	}
	return nil
}

// CanScore reports whether a scoring action is legal. Scoring is allowed
// any time after the first roll, including with rolls remaining.
func (t *Turn) CanScore() bool {
	return t.Phase == AwaitingHoldOrReroll || t.Phase == MustScore
}

// Complete ends the turn.
func (t *Turn) Complete() {
	t.Phase = TurnComplete
}
