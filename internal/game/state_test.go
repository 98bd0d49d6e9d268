package game

import (
	"fmt"
	"testing"

	"github.com/KDT2006/termdice/internal/protocol"
	"github.com/google/uuid"
)

func testPlayers(n int) []*Player {
	players := make([]*Player, n)
	for i := range players {
		players[i] = NewPlayer(uuid.New(), fmt.Sprintf("Player%d", i+1))
	}
	return players
}

func testState(t *testing.T, n int) *State {
	t.Helper()
	s := NewState(testPlayers(n), testRoller(99), nil)
	if err := s.Start(); err != nil {
		t.Fatalf("failed to start game: %v", err)
	}
	return s
}

func TestStartPlayerBounds(t *testing.T) {
	if err := NewState(testPlayers(1), testRoller(1), nil).Start(); err != ErrNotEnoughPlayers {
		t.Errorf("1 player: got %v, want ErrNotEnoughPlayers", err)
	}
	if err := NewState(testPlayers(7), testRoller(1), nil).Start(); err != ErrTooManyPlayers {
		t.Errorf("7 players: got %v, want ErrTooManyPlayers", err)
	}
	if err := NewState(testPlayers(2), testRoller(1), nil).Start(); err != nil {
		t.Errorf("2 players: got %v, want nil", err)
	}
}

func TestTurnRollBudget(t *testing.T) {
	s := testState(t, 2)

	_, start := s.BeginTurn()
	if start == nil {
		t.Fatal("expected a turn to start")
	}
	// The first roll is automatic, leaving two re-rolls.
	if start.RollsRemaining != 2 {
		t.Fatalf("rolls remaining after first roll = %d, want 2", start.RollsRemaining)
	}

	cur := s.CurrentPlayer()
	if _, err := s.Reroll(cur.ID, HoldMask{}); err != nil {
		t.Fatalf("first re-roll failed: %v", err)
	}

	res, err := s.Reroll(cur.ID, HoldMask{})
	if err != nil {
		t.Fatalf("second re-roll failed: %v", err)
	}
	if res.RollsRemaining != 0 {
		t.Fatalf("rolls remaining = %d, want 0", res.RollsRemaining)
	}
	if s.Turn().Phase != MustScore {
		t.Fatalf("phase = %v, want MustScore", s.Turn().Phase)
	}

	if _, err := s.Reroll(cur.ID, HoldMask{}); err != ErrNoRollsLeft {
		t.Fatalf("third re-roll: got %v, want ErrNoRollsLeft", err)
	}
}

func TestRerollRespectsHolds(t *testing.T) {
	s := testState(t, 2)
	_, start := s.BeginTurn()

	hold := HoldMask{true, false, true, false, false}
	res, err := s.Reroll(s.CurrentPlayer().ID, hold)
	if err != nil {
		t.Fatal(err)
	}
	if res.Dice[0] != start.Dice[0] || res.Dice[2] != start.Dice[2] {
		t.Errorf("held dice changed: %v -> %v", start.Dice, res.Dice)
	}
	if res.Held != hold {
		t.Errorf("hold mask = %v, want %v", res.Held, hold)
	}
}

func TestActionsOutOfTurn(t *testing.T) {
	s := testState(t, 2)
	s.BeginTurn()

	other := s.Players()[1]
	if s.IsCurrent(other.ID) {
		other = s.Players()[0]
	}

	if _, err := s.Reroll(other.ID, HoldMask{}); err != ErrNotYourTurn {
		t.Errorf("reroll out of turn: got %v, want ErrNotYourTurn", err)
	}
	if _, err := s.ScoreCategory(other.ID, protocol.Chance); err != ErrNotYourTurn {
		t.Errorf("score out of turn: got %v, want ErrNotYourTurn", err)
	}
}

func TestScoreEndsTurn(t *testing.T) {
	s := testState(t, 2)
	s.BeginTurn()

	first := s.CurrentPlayer()

	// Scoring is allowed even with re-rolls left.
	res, err := s.ScoreCategory(first.ID, protocol.Chance)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}
	if res.PlayerID != first.ID || res.Category != protocol.Chance {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Points < 5 || res.Points > 30 {
		t.Errorf("chance points = %d, want 5-30", res.Points)
	}

	if s.CurrentPlayer().ID == first.ID {
		t.Error("turn did not advance")
	}

	// No active turn until BeginTurn runs again.
	if _, err := s.Reroll(s.CurrentPlayer().ID, HoldMask{}); err != ErrNoActiveTurn {
		t.Errorf("got %v, want ErrNoActiveTurn", err)
	}

	// Second seat scores; the round counter advances on wrap.
	s.BeginTurn()
	if _, err := s.ScoreCategory(s.CurrentPlayer().ID, protocol.Chance); err != nil {
		t.Fatal(err)
	}
	if s.Round() != 1 {
		t.Errorf("round = %d, want 1 after both seats played", s.Round())
	}
}

func TestScoreCategoryTaken(t *testing.T) {
	s := testState(t, 2)
	s.BeginTurn()

	cur := s.CurrentPlayer()
	cur.Scorecard.Record(protocol.Chance, 17)

	if _, err := s.ScoreCategory(cur.ID, protocol.Chance); err != ErrCategoryTaken {
		t.Errorf("got %v, want ErrCategoryTaken", err)
	}
}

func TestJokerForcedUpper(t *testing.T) {
	s := testState(t, 2)
	s.BeginTurn()

	cur := s.CurrentPlayer()
	cur.Scorecard.Record(protocol.Yahtzee, YahtzeeScore)
	s.turn.Dice = Dice{4, 4, 4, 4, 4}

	// Fours is open, so the joker forces it.
	if _, err := s.ScoreCategory(cur.ID, protocol.FullHouse); err == nil {
		t.Fatal("expected rejection: joker must take the matching upper category")
	}

	res, err := s.ScoreCategory(cur.ID, protocol.Fours)
	if err != nil {
		t.Fatalf("scoring fours failed: %v", err)
	}
	if res.Points != 20 {
		t.Errorf("points = %d, want 20", res.Points)
	}
	if res.Bonus != YahtzeeBonusValue {
		t.Errorf("bonus = %d, want %d", res.Bonus, YahtzeeBonusValue)
	}
	if cur.Scorecard.YahtzeeBonuses() != 1 {
		t.Errorf("bonus count = %d, want 1", cur.Scorecard.YahtzeeBonuses())
	}
}

func TestJokerLowerFixedValues(t *testing.T) {
	s := testState(t, 2)
	s.BeginTurn()

	cur := s.CurrentPlayer()
	cur.Scorecard.Record(protocol.Yahtzee, YahtzeeScore)
	cur.Scorecard.Record(protocol.Fours, 16)
	s.turn.Dice = Dice{4, 4, 4, 4, 4}

	// Upper boxes are off limits while a lower box is open.
	if _, err := s.ScoreCategory(cur.ID, protocol.Ones); err == nil {
		t.Fatal("expected rejection: joker must take a lower category")
	}

	// Full House pays its fixed 25 regardless of the dice.
	res, err := s.ScoreCategory(cur.ID, protocol.FullHouse)
	if err != nil {
		t.Fatalf("scoring full house failed: %v", err)
	}
	if res.Points != FullHouseScore {
		t.Errorf("points = %d, want %d", res.Points, FullHouseScore)
	}
	if res.Bonus != YahtzeeBonusValue {
		t.Errorf("bonus = %d, want %d", res.Bonus, YahtzeeBonusValue)
	}
}

func TestJokerNoLowerOpen(t *testing.T) {
	s := testState(t, 2)
	s.BeginTurn()

	cur := s.CurrentPlayer()
	cur.Scorecard.Record(protocol.Yahtzee, YahtzeeScore)
	cur.Scorecard.Record(protocol.Fours, 16)
	for _, c := range []protocol.Category{
		protocol.ThreeOfAKind, protocol.FourOfAKind, protocol.FullHouse,
		protocol.SmallStraight, protocol.LargeStraight, protocol.Chance,
	} {
		cur.Scorecard.Record(c, 1)
	}
	s.turn.Dice = Dice{4, 4, 4, 4, 4}

	// Only upper boxes remain: any of them, for 0, bonus still awarded.
	res, err := s.ScoreCategory(cur.ID, protocol.Sixes)
	if err != nil {
		t.Fatalf("scoring sixes failed: %v", err)
	}
	if res.Points != 0 {
		t.Errorf("points = %d, want 0", res.Points)
	}
	if res.Bonus != YahtzeeBonusValue {
		t.Errorf("bonus = %d, want %d", res.Bonus, YahtzeeBonusValue)
	}
}

func TestJokerNotTriggeredByZeroedYahtzee(t *testing.T) {
	s := testState(t, 2)
	s.BeginTurn()

	cur := s.CurrentPlayer()
	cur.Scorecard.Record(protocol.Yahtzee, 0) // crossed out, not a true 50
	s.turn.Dice = Dice{4, 4, 4, 4, 4}

	// Scores normally as any other roll, no bonus, no forced category.
	res, err := s.ScoreCategory(cur.ID, protocol.Chance)
	if err != nil {
		t.Fatalf("scoring chance failed: %v", err)
	}
	if res.Points != 20 {
		t.Errorf("points = %d, want 20", res.Points)
	}
	if res.Bonus != 0 {
		t.Errorf("bonus = %d, want 0", res.Bonus)
	}
	if cur.Scorecard.YahtzeeBonuses() != 0 {
		t.Errorf("bonus count = %d, want 0", cur.Scorecard.YahtzeeBonuses())
	}
}

func TestFullGame(t *testing.T) {
	s := testState(t, 2)

	autos, start := s.BeginTurn()
	if len(autos) != 0 {
		t.Fatalf("unexpected auto-scores at game start: %v", autos)
	}

	turns := 0
	for start != nil {
		turns++
		if turns > 2*TotalRounds {
			t.Fatal("game did not finish within the expected number of turns")
		}

		cur := s.CurrentPlayer()
		scored := false
		for _, cat := range cur.Scorecard.Open() {
			if _, err := s.ScoreCategory(cur.ID, cat); err == nil {
				scored = true
				break
			}
		}
		if !scored {
			t.Fatalf("no scorable category for %s", cur.Name)
		}

		_, start = s.BeginTurn()
	}

	if turns != 2*TotalRounds {
		t.Errorf("game took %d turns, want %d", turns, 2*TotalRounds)
	}
	if s.Phase() != PhaseFinished {
		t.Fatalf("phase = %v, want PhaseFinished", s.Phase())
	}
	for _, p := range s.Players() {
		if !p.Scorecard.Complete() {
			t.Errorf("%s has an incomplete scorecard", p.Name)
		}
	}

	standings := s.Standings()
	if len(standings) != 2 {
		t.Fatalf("got %d standings, want 2", len(standings))
	}
	if standings[0].Total < standings[1].Total {
		t.Error("standings not sorted best-first")
	}
}

func TestDisconnectLiveness(t *testing.T) {
	s := testState(t, 3)
	gone := s.Players()[1]
	s.SetConnected(gone.ID, false)

	autoScores := 0
	_, start := s.BeginTurn()
	for start != nil {
		if start.PlayerID == gone.ID {
			t.Fatal("turn started for a disconnected player")
		}

		cur := s.CurrentPlayer()
		for _, cat := range cur.Scorecard.Open() {
			if _, err := s.ScoreCategory(cur.ID, cat); err == nil {
				break
			}
		}

		var autos []ScoreResult
		autos, start = s.BeginTurn()
		autoScores += len(autos)
	}

	if s.Phase() != PhaseFinished {
		t.Fatal("match with a disconnected player never finished")
	}
	if autoScores != TotalRounds {
		t.Errorf("auto-scored %d categories, want %d", autoScores, TotalRounds)
	}
	if !gone.Scorecard.Complete() {
		t.Error("disconnected player's scorecard not auto-filled")
	}
	if gone.Scorecard.Total() != 0 {
		t.Errorf("disconnected player's total = %d, want 0", gone.Scorecard.Total())
	}
}

func TestAutoScoreCurrent(t *testing.T) {
	s := testState(t, 2)
	s.BeginTurn()

	cur := s.CurrentPlayer()
	s.SetConnected(cur.ID, false)

	res := s.AutoScoreCurrent()
	if res.PlayerID != cur.ID {
		t.Errorf("auto-scored %v, want %v", res.PlayerID, cur.ID)
	}
	if res.Category != protocol.Ones {
		t.Errorf("category = %v, want ones (lowest open)", res.Category)
	}
	if res.Points != 0 {
		t.Errorf("points = %d, want 0", res.Points)
	}
	if s.CurrentPlayer().ID == cur.ID {
		t.Error("seat did not advance")
	}
}

func TestAutoScorePolicies(t *testing.T) {
	sc := NewScorecard()
	if got := LowestOpen(sc); got != protocol.Ones {
		t.Errorf("LowestOpen on fresh card = %v, want ones", got)
	}
	if got := HighestOpen(sc); got != protocol.Chance {
		t.Errorf("HighestOpen on fresh card = %v, want chance", got)
	}

	sc.Record(protocol.Ones, 0)
	if got := LowestOpen(sc); got != protocol.Twos {
		t.Errorf("LowestOpen = %v, want twos", got)
	}
}

func TestStandingsTieKeepsSeatOrder(t *testing.T) {
	players := testPlayers(3)
	players[0].Scorecard.Record(protocol.Chance, 10)
	players[1].Scorecard.Record(protocol.Chance, 20)
	players[2].Scorecard.Record(protocol.Chance, 10)

	s := NewState(players, testRoller(1), nil)
	standings := s.Standings()

	if standings[0].PlayerID != players[1].ID {
		t.Error("highest total not first")
	}
	if standings[1].PlayerID != players[0].ID || standings[2].PlayerID != players[2].ID {
		t.Error("tied players not in seat order")
	}
}
