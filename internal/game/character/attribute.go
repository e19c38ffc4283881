// Package character implements the Mercenary attribute engine: base attribute
// generation, dependency-driven derived stats, the shared reroll budget,
// special traits and the finished character sheet.
package character

import (
	"fmt"
	"strconv"
	"strings"
)

// Attribute indexes one of the eight base attributes.
type Attribute int

// Base attributes in sheet order.
const (
	Strength Attribute = iota
	Agility
	Willpower
	Endurance
	LuckBase
	Experience
	Weight
	Intelligence

	// AttributeCount is the number of base attribute slots.
	AttributeCount = 8
)

var attributeNames = [AttributeCount]string{
	"Strength", "Agility", "Willpower", "Endurance",
	"Luck (base)", "Experience", "Weight", "Intelligence",
}

// String returns the display name of the attribute.
func (a Attribute) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Attribute(%d)", int(a))
	}
	return attributeNames[a]
}

// Valid reports whether a indexes one of the eight slots.
func (a Attribute) Valid() bool {
	return a >= 0 && a < AttributeCount
}

// ParseAttribute resolves caller input to an Attribute. It accepts a 0-based
// index ("2"), a display name ("Willpower") or a prefix of at least three
// letters ("wil"), case-insensitively. "luck" resolves to LuckBase.
func ParseAttribute(s string) (Attribute, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("character: empty attribute")
	}
	if n, err := strconv.Atoi(s); err == nil {
		a := Attribute(n)
		if !a.Valid() {
			return 0, fmt.Errorf("character: attribute index %d out of range [0, %d)", n, AttributeCount)
		}
		return a, nil
	}
	if len(s) < 3 {
		return 0, fmt.Errorf("character: attribute %q is ambiguous", s)
	}
	for i, name := range attributeNames {
		if strings.HasPrefix(strings.ToLower(name), s) {
			return Attribute(i), nil
		}
	}
	return 0, fmt.Errorf("character: unknown attribute %q", s)
}

// Formula is a range-plus-offset draw: U[Min, Max] + Offset.
type Formula struct {
	Min    int
	Max    int
	Offset int
}

// Lowest returns the smallest value the formula can produce.
func (f Formula) Lowest() int { return f.Min + f.Offset }

// Highest returns the largest value the formula can produce.
func (f Formula) Highest() int { return f.Max + f.Offset }

var attributeFormulas = [AttributeCount]Formula{
	Strength:     {Min: 4, Max: 40, Offset: 50},
	Agility:      {Min: 5, Max: 50, Offset: 40},
	Willpower:    {Min: 5, Max: 50, Offset: 30},
	Endurance:    {Min: 3, Max: 30, Offset: 60},
	LuckBase:     {Min: 6, Max: 60, Offset: 20},
	Experience:   {Min: 3, Max: 30, Offset: 70},
	Weight:       {Min: 8, Max: 80, Offset: 40},
	Intelligence: {Min: 5, Max: 50, Offset: 30},
}

// FormulaFor returns the generation formula of a.
//
// Precondition: a.Valid() (panics otherwise).
func FormulaFor(a Attribute) Formula {
	mustValid(a)
	return attributeFormulas[a]
}

// AttributeSet holds the eight base attribute values in sheet order.
//
// Invariant: either every slot is zero (not yet generated) or every slot holds
// a value inside its formula's range.
type AttributeSet [AttributeCount]int

// Generated reports whether the set has been populated.
func (s AttributeSet) Generated() bool {
	return s[Strength] != 0
}

// Get returns the value of a.
//
// Precondition: a.Valid() (panics otherwise).
func (s AttributeSet) Get(a Attribute) int {
	mustValid(a)
	return s[a]
}

func mustValid(a Attribute) {
	if !a.Valid() {
		panic(fmt.Sprintf("character: attribute index %d out of range [0, %d)", int(a), AttributeCount))
	}
}
