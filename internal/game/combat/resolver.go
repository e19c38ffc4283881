package combat

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/spacegothic/internal/game/dice"
	"github.com/cory-johannsen/spacegothic/internal/game/inventory"
)

// ErrOutOfAmmo is returned by Fire when the magazine holds fewer rounds than
// the chosen mode needs. The magazine is left unchanged.
var ErrOutOfAmmo = errors.New("out of ammo")

// VolleyResult is the outcome of one trigger pull.
//
// Invariant: len(HitRolls) == len(DamageRolls) == Shots;
// Hits == count(HitRolls[i] <= Chance); TotalDamage == sum(DamageRolls).
type VolleyResult struct {
	Mode        inventory.FireMode
	Chance      int
	Shots       int
	HitRolls    []int
	Hits        int
	DamageRolls []int // 0 for misses
	TotalDamage int
}

// Resolver fires volleys using an injected Source.
type Resolver struct {
	src    dice.Source
	logger *zap.Logger
}

// NewResolver creates a Resolver.
//
// Precondition: src and logger must be non-nil.
func NewResolver(src dice.Source, logger *zap.Logger) *Resolver {
	return &Resolver{src: src, logger: logger}
}

// Fire spends the rounds for mode and then resolves each shot: a hit roll of
// U[1,100] hits iff it is <= the engagement's hit chance, and a hit rolls the
// weapon damage dice. Rounds are spent on the trigger pull, not on hits.
//
// Precondition: mode is configured on the weapon (panics otherwise).
// Postcondition: on success Magazine.Loaded decreases by the mode's shot count;
// returns ErrOutOfAmmo with the engagement unchanged otherwise.
func (r *Resolver) Fire(e *Engagement, mode inventory.FireMode) (VolleyResult, error) {
	shots := e.Weapon.ShotsFor(mode)
	if err := e.Magazine.Consume(shots); err != nil {
		r.logger.Debug("volley refused",
			zap.String("mode", string(mode)),
			zap.Int("shots", shots),
			zap.Int("loaded", e.Magazine.Loaded),
		)
		return VolleyResult{}, fmt.Errorf("%w: %s needs %d rounds, %d loaded", ErrOutOfAmmo, mode.Label(), shots, e.Magazine.Loaded)
	}

	res := VolleyResult{
		Mode:        mode,
		Chance:      e.FinalChance(),
		Shots:       shots,
		HitRolls:    make([]int, shots),
		DamageRolls: make([]int, shots),
	}
	for i := 0; i < shots; i++ {
		roll := dice.Between(r.src, 1, 100)
		res.HitRolls[i] = roll
		if roll > res.Chance {
			continue
		}
		dmg := dice.Evaluate(e.Weapon.Damage(), r.src).Total()
		res.Hits++
		res.DamageRolls[i] = dmg
		res.TotalDamage += dmg
	}

	r.logger.Debug("volley resolved",
		zap.String("mode", string(mode)),
		zap.Int("chance", res.Chance),
		zap.Ints("hit_rolls", res.HitRolls),
		zap.Ints("damage_rolls", res.DamageRolls),
		zap.Int("total_damage", res.TotalDamage),
		zap.Int("loaded", e.Magazine.Loaded),
	)
	return res, nil
}

// Reload refills the magazine to capacity.
//
// Postcondition: e.Magazine.Loaded == e.Magazine.Capacity.
func (r *Resolver) Reload(e *Engagement) {
	e.Magazine.Reload()
	r.logger.Debug("magazine reloaded", zap.Int("loaded", e.Magazine.Loaded))
}
