// Package combat resolves ranged fire: range selection, volleys against a hit
// threshold and magazine consumption.
package combat

import (
	"fmt"

	"github.com/cory-johannsen/spacegothic/internal/game/inventory"
)

// Engagement is the mutable firing context of one character: the weapon in
// hand, its magazine and the currently selected range band.
type Engagement struct {
	Weapon   *inventory.WeaponProfile
	Magazine *inventory.Magazine
	Band     inventory.RangeBand
}

// NewEngagement returns an Engagement with a full magazine at medium range.
//
// Precondition: w must be non-nil and valid.
func NewEngagement(w *inventory.WeaponProfile) *Engagement {
	if w == nil {
		panic("combat: NewEngagement: weapon must not be nil")
	}
	return &Engagement{
		Weapon:   w,
		Magazine: inventory.NewMagazine(w.MagazineCapacity),
		Band:     inventory.RangeMedium,
	}
}

// Clone returns a copy of e with its own magazine.
func (e *Engagement) Clone() *Engagement {
	m := *e.Magazine
	c := *e
	c.Magazine = &m
	return &c
}

// HitChance returns the clamped percentage chance for w to hit at band:
// base chance plus the band modifier, limited to [0, 100].
//
// Precondition: band is a known RangeBand (panics otherwise).
func HitChance(w *inventory.WeaponProfile, band inventory.RangeBand) int {
	return clampPercent(w.BaseChance + w.Range(band).Modifier)
}

// FinalChance returns the hit chance at the engagement's current band.
func (e *Engagement) FinalChance() int {
	return HitChance(e.Weapon, e.Band)
}

// SelectRange sets the engagement band and returns the resulting hit chance.
//
// Precondition: band is a known RangeBand (panics otherwise).
func (e *Engagement) SelectRange(band inventory.RangeBand) int {
	chance := HitChance(e.Weapon, band)
	e.Band = band
	return chance
}

func clampPercent(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

// String describes the engagement, e.g. "Luger .357 Automagnum @ short 20m (75%)".
func (e *Engagement) String() string {
	return fmt.Sprintf("%s @ %s %dm (%d%%)", e.Weapon.Name, e.Band, e.Weapon.Range(e.Band).DistanceMeters, e.FinalChance())
}
