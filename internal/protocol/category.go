package protocol

import "fmt"

// Category is one of the 13 scoring categories. The integer values are
// wire-stable and ordered: upper section first, then the lower section.
type Category int

const (
	Ones Category = iota
	Twos
	Threes
	Fours
	Fives
	Sixes
	ThreeOfAKind
	FourOfAKind
	FullHouse
	SmallStraight
	LargeStraight
	Yahtzee
	Chance
)

// Categories lists every category in scorecard order.
var Categories = []Category{
	Ones, Twos, Threes, Fours, Fives, Sixes,
	ThreeOfAKind, FourOfAKind, FullHouse,
	SmallStraight, LargeStraight, Yahtzee, Chance,
}

// UpperCategories lists the six upper-section categories.
var UpperCategories = []Category{Ones, Twos, Threes, Fours, Fives, Sixes}

func (c Category) Valid() bool {
	return c >= Ones && c <= Chance
}

func (c Category) IsUpper() bool {
	return c >= Ones && c <= Sixes
}

// Face returns the die face an upper category counts, zero for lower
// categories.
func (c Category) Face() int {
	if !c.IsUpper() {
		return 0
	}
	return int(c) + 1
}

// UpperCategoryForFace returns the upper category counting the given face.
func UpperCategoryForFace(face int) Category {
	return Category(face - 1)
}

var categoryNames = map[Category]string{
	Ones:          "ones",
	Twos:          "twos",
	Threes:        "threes",
	Fours:         "fours",
	Fives:         "fives",
	Sixes:         "sixes",
	ThreeOfAKind:  "three-of-a-kind",
	FourOfAKind:   "four-of-a-kind",
	FullHouse:     "full-house",
	SmallStraight: "small-straight",
	LargeStraight: "large-straight",
	Yahtzee:       "yahtzee",
	Chance:        "chance",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// ParseCategory resolves a category from its string name, as typed by a
// client.
func ParseCategory(s string) (Category, error) {
	for c, name := range categoryNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category '%s'", s)
}
