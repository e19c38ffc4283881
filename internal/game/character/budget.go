package character

import "errors"

// ErrBudgetExhausted is returned by Reroll and RollTrait once every unit of
// the session's reroll budget has been used. State is left unchanged.
var ErrBudgetExhausted = errors.New("reroll limit reached")

// DefaultRerollLimit is the per-cycle reroll allowance.
const DefaultRerollLimit = 3

// RerollBudget is the allowance shared by attribute rerolls and trait rolls.
//
// Invariant: 0 <= Used <= Limit.
type RerollBudget struct {
	Limit int `json:"limit"`
	Used  int `json:"used"`
}

// Remaining returns the number of rerolls still available.
func (b RerollBudget) Remaining() int {
	return b.Limit - b.Used
}

// Exhausted reports whether no rerolls remain.
func (b RerollBudget) Exhausted() bool {
	return b.Used >= b.Limit
}

// spend consumes one unit, or returns ErrBudgetExhausted without change.
func (b *RerollBudget) spend() error {
	if b.Exhausted() {
		return ErrBudgetExhausted
	}
	b.Used++
	return nil
}
