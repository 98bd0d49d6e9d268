package game

import (
	"errors"
	"fmt"
	"sort"

	"github.com/KDT2006/termdice/internal/protocol"
	"github.com/google/uuid"
)

// Phase is the overall match phase.
type Phase int

const (
	PhaseLobby Phase = iota
	PhasePlaying
	PhaseFinished
)

const (
	MinPlayers  = 2
	MaxPlayers  = 6
	TotalRounds = 13
)

var (
	ErrGameNotInProgress = errors.New("game not in progress")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrNoActiveTurn      = errors.New("no active turn")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrNotEnoughPlayers  = errors.New("need at least 2 players")
	ErrTooManyPlayers    = errors.New("too many players (max 6)")
	ErrUnknownPlayer     = errors.New("unknown player")
)

// Player is one seat in the match.
type Player struct {
	ID        uuid.UUID
	Name      string
	Connected bool
	Scorecard *Scorecard
}

func NewPlayer(id uuid.UUID, name string) *Player {
	return &Player{
		ID:        id,
		Name:      name,
		Connected: true,
		Scorecard: NewScorecard(),
	}
}

// AutoScorePolicy picks the category to cross out with 0 when a
// disconnected player's turn comes up. It is only called with at least one
// open category.
type AutoScorePolicy func(*Scorecard) protocol.Category

// LowestOpen is the default policy: the first open category in scorecard
// order, a deterministic tie-break.
func LowestOpen(sc *Scorecard) protocol.Category {
	return sc.Open()[0]
}

// HighestOpen crosses out from the bottom of the scorecard instead.
func HighestOpen(sc *Scorecard) protocol.Category {
	open := sc.Open()
	return open[len(open)-1]
}

// TurnStart reports the opening of a turn, including the automatic first
// roll.
type TurnStart struct {
	PlayerID       uuid.UUID
	Round          int
	Dice           Dice
	RollsRemaining int
}

// RollResult reports the dice after a re-roll.
type RollResult struct {
	Dice           Dice
	Held           HoldMask
	RollsRemaining int
}

// ScoreResult reports a filled category. Bonus is 100 when this scoring
// action also awarded a Yahtzee bonus.
type ScoreResult struct {
	PlayerID uuid.UUID
	Category protocol.Category
	Points   int
	Bonus    int
}

// Standing is one row of the final results.
type Standing struct {
	PlayerID uuid.UUID
	Name     string
	Total    int
}

// State is the authoritative game state: all players in fixed turn order,
// whose turn it is, and the current round. It is owned by exactly one
// goroutine and never shared by reference.
type State struct {
	phase     Phase
	players   []*Player
	current   int
	round     int
	turn      *Turn
	roller    *Roller
	autoScore AutoScorePolicy
}

// NewState builds a match over players whose order is already the turn
// order. The policy defaults to LowestOpen when nil.
func NewState(players []*Player, roller *Roller, policy AutoScorePolicy) *State {
	if policy == nil {
		policy = LowestOpen
	}
	return &State{
		phase:     PhaseLobby,
		players:   players,
		roller:    roller,
		autoScore: policy,
	}
}

func (s *State) Phase() Phase { return s.phase }
func (s *State) Round() int   { return s.round }
func (s *State) Turn() *Turn  { return s.turn }

func (s *State) Players() []*Player { return s.players }

func (s *State) Player(id uuid.UUID) *Player {
	for _, p := range s.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// CurrentPlayer returns the seat whose turn it is.
func (s *State) CurrentPlayer() *Player {
	return s.players[s.current]
}

// Start moves the match from lobby to play. Turn order was fixed when the
// players slice was built.
func (s *State) Start() error {
	if len(s.players) < MinPlayers {
		return ErrNotEnoughPlayers
	}
	if len(s.players) > MaxPlayers {
		return ErrTooManyPlayers
	}

	s.phase = PhasePlaying
	s.current = 0
	s.round = 0
	return nil
}

// BeginTurn opens the next turn. Disconnected seats are auto-scored with 0
// and skipped, so the returned results may contain several crossed-out
// categories before a turn actually starts. The TurnStart is nil when the
// match finished instead.
func (s *State) BeginTurn() ([]ScoreResult, *TurnStart) {
	var autos []ScoreResult

	for s.phase == PhasePlaying {
		player := s.players[s.current]
		if player.Connected {
			s.turn = NewTurn(player.ID)
			s.turn.FirstRoll(s.roller)
			return autos, &TurnStart{
				PlayerID:       player.ID,
				Round:          s.round,
				Dice:           s.turn.Dice,
				RollsRemaining: s.turn.RollsRemaining,
			}
		}

		category := s.autoScore(player.Scorecard)
		player.Scorecard.Record(category, 0)
		autos = append(autos, ScoreResult{
			PlayerID: player.ID,
			Category: category,
			Points:   0,
		})
		s.advanceSeat()
	}

	return autos, nil
}

// Reroll re-rolls the unheld dice for the acting player.
func (s *State) Reroll(playerID uuid.UUID, hold HoldMask) (RollResult, error) {
	if err := s.checkActing(playerID); err != nil {
		return RollResult{}, err
	}

	if err := s.turn.Reroll(s.roller, hold); err != nil {
		return RollResult{}, err
	}
	return RollResult{
		Dice:           s.turn.Dice,
		Held:           s.turn.Held,
		RollsRemaining: s.turn.RollsRemaining,
	}, nil
}

// ScoreCategory records the current roll into a category, applying the
// joker rule when a natural Yahtzee lands after the Yahtzee box was filled
// with 50. The turn ends and the seat advances.
func (s *State) ScoreCategory(playerID uuid.UUID, category protocol.Category) (ScoreResult, error) {
	if err := s.checkActing(playerID); err != nil {
		return ScoreResult{}, err
	}
	if !s.turn.CanScore() {
		return ScoreResult{}, ErrCannotScore
	}
	if !category.Valid() {
		return ScoreResult{}, ErrInvalidCategory
	}

	player := s.players[s.current]
	sc := player.Scorecard
	if sc.Used(category) {
		return ScoreResult{}, ErrCategoryTaken
	}

	points, bonus, err := s.resolveScore(sc, category, s.turn.Dice)
	if err != nil {
		return ScoreResult{}, err
	}

	sc.Record(category, points)
	if bonus > 0 {
		sc.AddYahtzeeBonus()
	}

	s.turn.Complete()
	s.advanceSeat()

	return ScoreResult{
		PlayerID: player.ID,
		Category: category,
		Points:   points,
		Bonus:    bonus,
	}, nil
}

// resolveScore applies base scoring or the forced-joker substitution.
//
// The joker activates only when the roll is a natural Yahtzee and the
// Yahtzee box holds a true 50. A Yahtzee crossed out as 0 never unlocks
// joker behavior: the roll scores like any other.
func (s *State) resolveScore(sc *Scorecard, category protocol.Category, dice Dice) (points, bonus int, err error) {
	yahtzeeScore, yahtzeeUsed := sc.Get(protocol.Yahtzee)
	jokerActive := IsYahtzee(dice) && yahtzeeUsed && yahtzeeScore == YahtzeeScore
	if !jokerActive {
		return Score(category, dice), 0, nil
	}

	bonus = YahtzeeBonusValue
	matching := protocol.UpperCategoryForFace(dice[0])

	switch {
	case !sc.Used(matching):
		// Matching upper box open: the player must take it at its
		// normal upper value.
		if category != matching {
			return 0, 0, fmt.Errorf("joker rule: must score %s", matching)
		}
		return Score(category, dice), bonus, nil
	case sc.OpenLower():
		// Any open lower box at fixed joker values; the Yahtzee box
		// itself is not re-scorable.
		if category.IsUpper() || category == protocol.Yahtzee {
			return 0, 0, errors.New("joker rule: must score an open lower category")
		}
		return jokerScore(category, dice), bonus, nil
	default:
		// Only upper boxes left: any of them, for 0.
		return 0, bonus, nil
	}
}

// jokerScore is the fixed-value table used when a joker fills a lower
// category regardless of the actual dice composition.
func jokerScore(category protocol.Category, dice Dice) int {
	switch category {
	case protocol.FullHouse:
		return FullHouseScore
	case protocol.SmallStraight:
		return SmallStraightScore
	case protocol.LargeStraight:
		return LargeStraightScore
	default:
		// Three/Four-of-a-Kind and Chance: sum of the dice.
		return dice.Sum()
	}
}

// SetConnected flips the liveness flag for a seat.
func (s *State) SetConnected(playerID uuid.UUID, connected bool) error {
	player := s.Player(playerID)
	if player == nil {
		return ErrUnknownPlayer
	}
	player.Connected = connected
	return nil
}

// IsCurrent reports whether it is this player's turn.
func (s *State) IsCurrent(playerID uuid.UUID) bool {
	return s.phase == PhasePlaying && s.players[s.current].ID == playerID
}

// AutoScoreCurrent crosses out the policy-chosen open category with 0 for
// the acting player and advances the seat. Used when the acting player's
// session drops mid-turn.
func (s *State) AutoScoreCurrent() ScoreResult {
	player := s.players[s.current]
	category := s.autoScore(player.Scorecard)
	player.Scorecard.Record(category, 0)

	if s.turn != nil {
		s.turn.Complete()
	}
	s.advanceSeat()

	return ScoreResult{PlayerID: player.ID, Category: category}
}

// advanceSeat hands control to the next seat, bumping the round on wrap,
// and finishes the match once every scorecard is complete.
func (s *State) advanceSeat() {
	s.turn = nil
	s.current++
	if s.current >= len(s.players) {
		s.current = 0
		s.round++
	}

	for _, p := range s.players {
		if !p.Scorecard.Complete() {
			return
		}
	}
	s.phase = PhaseFinished
}

// Standings returns the final results best-first. Ties keep seat order.
func (s *State) Standings() []Standing {
	standings := make([]Standing, 0, len(s.players))
	for _, p := range s.players {
		standings = append(standings, Standing{
			PlayerID: p.ID,
			Name:     p.Name,
			Total:    p.Scorecard.Total(),
		})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Total > standings[j].Total
	})
	return standings
}

func (s *State) checkActing(playerID uuid.UUID) error {
	if s.phase != PhasePlaying {
		return ErrGameNotInProgress
	}
	if s.players[s.current].ID != playerID {
		return ErrNotYourTurn
	}
	if s.turn == nil {
		return ErrNoActiveTurn
	}
	return nil
}
