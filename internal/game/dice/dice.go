// Package dice provides the randomness abstraction, uniform range draws and
// dice-expression rolls used by the character and combat engines.
package dice

import "fmt"

// RollResult holds the full audit trail for a single dice expression roll.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "1d10+2"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"1d10+2 → [7] +2 = 9"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Source is the randomness provider for every draw in the engine.
//
// Implementations used by more than one session MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Between returns a uniformly distributed integer in the inclusive range [min, max].
//
// Precondition: min <= max (panics otherwise); src must be non-nil.
// Postcondition: min <= result <= max.
func Between(src Source, min, max int) int {
	if min > max {
		panic(fmt.Sprintf("dice: Between: min %d exceeds max %d", min, max))
	}
	return min + src.Intn(max-min+1)
}
