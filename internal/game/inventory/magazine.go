package inventory

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInsufficientRounds is returned by Consume when fewer rounds are loaded than requested.
var ErrInsufficientRounds = errors.New("insufficient rounds loaded")

// Magazine tracks the loaded round count of one firearm.
// Invariant: 0 <= Loaded <= Capacity.
type Magazine struct {
	// Loaded is the number of rounds currently available.
	Loaded int
	// Capacity is the maximum number of rounds the magazine can hold.
	Capacity int
}

// NewMagazine returns a fully loaded Magazine.
//
// Precondition:  capacity > 0 (panics otherwise).
// Postcondition: Loaded == Capacity == capacity.
func NewMagazine(capacity int) *Magazine {
	if capacity <= 0 {
		panic(fmt.Sprintf("inventory: NewMagazine: capacity must be > 0, got %d", capacity))
	}
	return &Magazine{Loaded: capacity, Capacity: capacity}
}

// IsEmpty returns true when no rounds are loaded.
func (m *Magazine) IsEmpty() bool {
	return m.Loaded <= 0
}

// Consume removes n rounds from the magazine, all or nothing.
//
// Precondition:  n > 0 (panics if n <= 0).
// Postcondition: on success Loaded decreases by n; returns ErrInsufficientRounds
// with Loaded unchanged if Loaded < n.
func (m *Magazine) Consume(n int) error {
	if n <= 0 {
		panic(fmt.Sprintf("inventory: Magazine.Consume: n must be > 0, got %d", n))
	}
	if m.Loaded < n {
		return ErrInsufficientRounds
	}
	m.Loaded -= n
	return nil
}

// Reload restores Loaded to Capacity, discarding any partial magazine.
//
// Postcondition: Loaded == Capacity.
func (m *Magazine) Reload() {
	m.Loaded = m.Capacity
}

// Gauge renders the magazine as one cell per round: full for loaded rounds,
// empty for spent ones.
func (m *Magazine) Gauge(full, empty string) string {
	return strings.Repeat(full, m.Loaded) + strings.Repeat(empty, m.Capacity-m.Loaded)
}
