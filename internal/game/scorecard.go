package game

import (
	"errors"

	"github.com/KDT2006/termdice/internal/protocol"
)

const (
	UpperBonusThreshold = 63
	UpperBonusValue     = 35
	YahtzeeScore        = 50
	YahtzeeBonusValue   = 100
	FullHouseScore      = 25
	SmallStraightScore  = 30
	LargeStraightScore  = 40
)

var ErrCategoryTaken = errors.New("category already scored")

// Score computes the point value of a roll for a category under the base
// rules. It is pure: the same roll always yields the same result.
func Score(category protocol.Category, dice Dice) int {
	switch category {
	case protocol.Ones, protocol.Twos, protocol.Threes,
		protocol.Fours, protocol.Fives, protocol.Sixes:
		return countFace(dice, category.Face())
	case protocol.ThreeOfAKind:
		if hasNOfAKind(dice, 3) {
			return dice.Sum()
		}
		return 0
	case protocol.FourOfAKind:
		if hasNOfAKind(dice, 4) {
			return dice.Sum()
		}
		return 0
	case protocol.FullHouse:
		if isFullHouse(dice) {
			return FullHouseScore
		}
		return 0
	case protocol.SmallStraight:
		if hasStraight(dice, 4) {
			return SmallStraightScore
		}
		return 0
	case protocol.LargeStraight:
		if hasStraight(dice, 5) {
			return LargeStraightScore
		}
		return 0
	case protocol.Yahtzee:
		if IsYahtzee(dice) {
			return YahtzeeScore
		}
		return 0
	case protocol.Chance:
		return dice.Sum()
	}
	return 0
}

// IsYahtzee reports whether all five dice show the same face.
func IsYahtzee(dice Dice) bool {
	return hasNOfAKind(dice, 5)
}

func countFace(dice Dice, face int) int {
	return dice.Counts()[face] * face
}

func hasNOfAKind(dice Dice, n int) bool {
	for _, count := range dice.Counts() {
		if count >= n {
			return true
		}
	}
	return false
}

// isFullHouse requires exactly a triple plus a distinct pair; five of a
// kind does not qualify under the base rule.
func isFullHouse(dice Dice) bool {
	counts := dice.Counts()
	hasThree, hasTwo := false, false
	for _, count := range counts {
		if count == 3 {
			hasThree = true
		}
		if count == 2 {
			hasTwo = true
		}
	}
	return hasThree && hasTwo
}

// hasStraight reports whether length consecutive faces all appear at least
// once.
func hasStraight(dice Dice, length int) bool {
	counts := dice.Counts()
	for start := 1; start+length-1 <= 6; start++ {
		run := true
		for face := start; face < start+length; face++ {
			if counts[face] == 0 {
				run = false
				break
			}
		}
		if run {
			return true
		}
	}
	return false
}

// Scorecard tracks one player's recorded categories. Unscored categories
// are absent, not zero, and a recorded value never changes for the rest of
// the match.
type Scorecard struct {
	scores         map[protocol.Category]int
	yahtzeeBonuses int
}

func NewScorecard() *Scorecard {
	return &Scorecard{scores: make(map[protocol.Category]int)}
}

// Used reports whether the category already holds a value.
func (sc *Scorecard) Used(category protocol.Category) bool {
	_, ok := sc.scores[category]
	return ok
}

// Get returns the recorded value for a category, if any.
func (sc *Scorecard) Get(category protocol.Category) (int, bool) {
	points, ok := sc.scores[category]
	return points, ok
}

// Record fills a category. The value is immutable once set.
func (sc *Scorecard) Record(category protocol.Category, points int) error {
	if sc.Used(category) {
		return ErrCategoryTaken
	}
	sc.scores[category] = points
	return nil
}

// AddYahtzeeBonus counts one extra natural Yahtzee worth 100 points.
func (sc *Scorecard) AddYahtzeeBonus() {
	sc.yahtzeeBonuses++
}

func (sc *Scorecard) YahtzeeBonuses() int {
	return sc.yahtzeeBonuses
}

// UpperSubtotal sums the six upper categories, before any bonus.
func (sc *Scorecard) UpperSubtotal() int {
	total := 0
	for _, c := range protocol.UpperCategories {
		total += sc.scores[c]
	}
	return total
}

// UpperBonus is 35 once the upper subtotal reaches 63, otherwise 0.
func (sc *Scorecard) UpperBonus() int {
	if sc.UpperSubtotal() >= UpperBonusThreshold {
		return UpperBonusValue
	}
	return 0
}

// LowerTotal sums the seven lower categories.
func (sc *Scorecard) LowerTotal() int {
	total := 0
	for _, c := range protocol.Categories {
		if !c.IsUpper() {
			total += sc.scores[c]
		}
	}
	return total
}

// BonusTotal is the accumulated Yahtzee bonus value.
func (sc *Scorecard) BonusTotal() int {
	return sc.yahtzeeBonuses * YahtzeeBonusValue
}

// Total is the final score: upper subtotal, upper bonus, lower total and
// Yahtzee bonuses.
func (sc *Scorecard) Total() int {
	return sc.UpperSubtotal() + sc.UpperBonus() + sc.LowerTotal() + sc.BonusTotal()
}

// Complete reports whether every category holds a value.
func (sc *Scorecard) Complete() bool {
	return len(sc.scores) == len(protocol.Categories)
}

// Open returns the unscored categories in scorecard order.
func (sc *Scorecard) Open() []protocol.Category {
	var open []protocol.Category
	for _, c := range protocol.Categories {
		if !sc.Used(c) {
			open = append(open, c)
		}
	}
	return open
}

// OpenLower reports whether any lower category other than Yahtzee is still
// unscored.
func (sc *Scorecard) OpenLower() bool {
	for _, c := range protocol.Categories {
		if !c.IsUpper() && c != protocol.Yahtzee && !sc.Used(c) {
			return true
		}
	}
	return false
}
