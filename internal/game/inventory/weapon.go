// Package inventory provides weapon profiles and the magazine ammunition model.
package inventory

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/spacegothic/internal/game/dice"
)

// FireMode is a firing mode of a ranged weapon.
type FireMode string

const (
	// FireModeSingle fires one round per action.
	FireModeSingle FireMode = "single"
	// FireModeSemiBurst fires a three-round burst.
	FireModeSemiBurst FireMode = "semi_burst"
	// FireModeFullBurst fires a five-round burst.
	FireModeFullBurst FireMode = "full_burst"
)

// FireModes lists the supported modes in display order.
var FireModes = []FireMode{FireModeSingle, FireModeSemiBurst, FireModeFullBurst}

// Label returns the display name of the mode.
func (m FireMode) Label() string {
	switch m {
	case FireModeSingle:
		return "Single Fire"
	case FireModeSemiBurst:
		return "Semi Burst"
	case FireModeFullBurst:
		return "Full Burst"
	default:
		return string(m)
	}
}

// ParseFireMode resolves caller input such as "single", "semi", "burst" or
// "full" to a FireMode.
func ParseFireMode(s string) (FireMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "1":
		return FireModeSingle, nil
	case "semi", "semi_burst", "semiburst", "burst", "3":
		return FireModeSemiBurst, nil
	case "full", "full_burst", "fullburst", "auto", "5":
		return FireModeFullBurst, nil
	default:
		return "", fmt.Errorf("inventory: unknown fire mode %q", s)
	}
}

// RangeBand is an engagement distance category.
type RangeBand string

const (
	RangeShort  RangeBand = "short"
	RangeMedium RangeBand = "medium"
	RangeLong   RangeBand = "long"
)

// RangeBands lists the bands in display order.
var RangeBands = []RangeBand{RangeShort, RangeMedium, RangeLong}

// ParseRangeBand resolves caller input to a RangeBand.
func ParseRangeBand(s string) (RangeBand, error) {
	switch b := RangeBand(strings.ToLower(strings.TrimSpace(s))); b {
	case RangeShort, RangeMedium, RangeLong:
		return b, nil
	default:
		return "", fmt.Errorf("inventory: unknown range band %q", s)
	}
}

// RangeProfile is the distance and accuracy modifier of one band.
type RangeProfile struct {
	DistanceMeters int `yaml:"distance_m"`
	Modifier       int `yaml:"modifier"`
}

// WeaponProfile defines the static properties of a ranged weapon.
type WeaponProfile struct {
	ID               string                     `yaml:"id"`
	Name             string                     `yaml:"name"`
	DamageDice       string                     `yaml:"damage_dice"`
	BaseChance       int                        `yaml:"base_chance"`
	MagazineCapacity int                        `yaml:"magazine_capacity"`
	Ranges           map[RangeBand]RangeProfile `yaml:"ranges"`
	FireModes        map[FireMode]int           `yaml:"fire_modes"` // rounds per trigger pull

	damage dice.Expression
}

// DefaultWeapon returns the Mercenary's sidearm, the Luger .357 Automagnum.
func DefaultWeapon() *WeaponProfile {
	w := &WeaponProfile{
		ID:               "luger_357_automagnum",
		Name:             "Luger .357 Automagnum",
		DamageDice:       "1d10+2",
		BaseChance:       65,
		MagazineCapacity: 15,
		Ranges: map[RangeBand]RangeProfile{
			RangeShort:  {DistanceMeters: 20, Modifier: 10},
			RangeMedium: {DistanceMeters: 40, Modifier: 0},
			RangeLong:   {DistanceMeters: 60, Modifier: -10},
		},
		FireModes: map[FireMode]int{
			FireModeSingle:    1,
			FireModeSemiBurst: 3,
			FireModeFullBurst: 5,
		},
	}
	if err := w.Validate(); err != nil {
		panic("inventory: DefaultWeapon: " + err.Error())
	}
	return w
}

// Validate checks that the profile satisfies its invariants and caches the
// parsed damage expression.
//
// Postcondition: returns nil iff all fields are valid.
func (w *WeaponProfile) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	expr, err := dice.Parse(w.DamageDice)
	if err != nil {
		errs = append(errs, fmt.Errorf("DamageDice: %w", err))
	} else {
		w.damage = expr
	}
	if w.BaseChance < 0 || w.BaseChance > 100 {
		errs = append(errs, fmt.Errorf("BaseChance must be in [0, 100], got %d", w.BaseChance))
	}
	if w.MagazineCapacity <= 0 {
		errs = append(errs, errors.New("MagazineCapacity must be > 0"))
	}
	for _, b := range RangeBands {
		if _, ok := w.Ranges[b]; !ok {
			errs = append(errs, fmt.Errorf("missing range band %q", b))
		}
	}
	for _, m := range FireModes {
		n, ok := w.FireModes[m]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("missing fire mode %q", m))
		case n <= 0 || n > w.MagazineCapacity:
			errs = append(errs, fmt.Errorf("fire mode %q must use 1..%d rounds, got %d", m, w.MagazineCapacity, n))
		}
	}
	for _, b := range slices.Sorted(maps.Keys(w.Ranges)) {
		if !slices.Contains(RangeBands, b) {
			errs = append(errs, fmt.Errorf("unknown range band %q", b))
		}
	}
	for _, m := range slices.Sorted(maps.Keys(w.FireModes)) {
		if !slices.Contains(FireModes, m) {
			errs = append(errs, fmt.Errorf("unknown fire mode %q", m))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon validation failed: %v", errs)
	}
	return nil
}

// Damage returns the parsed damage expression.
//
// Precondition: Validate has returned nil.
func (w *WeaponProfile) Damage() dice.Expression {
	return w.damage
}

// ShotsFor returns the rounds fired by one trigger pull in mode.
//
// Precondition: mode is one of FireModes (panics otherwise).
func (w *WeaponProfile) ShotsFor(mode FireMode) int {
	n, ok := w.FireModes[mode]
	if !ok {
		panic(fmt.Sprintf("inventory: WeaponProfile.ShotsFor: unknown fire mode %q", mode))
	}
	return n
}

// Range returns the profile of band.
//
// Precondition: band is one of RangeBands (panics otherwise).
func (w *WeaponProfile) Range(band RangeBand) RangeProfile {
	r, ok := w.Ranges[band]
	if !ok {
		panic(fmt.Sprintf("inventory: WeaponProfile.Range: unknown range band %q", band))
	}
	return r
}

// LoadWeapon reads and validates a single weapon profile YAML file.
//
// Postcondition: returns a valid WeaponProfile or a non-nil error.
func LoadWeapon(path string) (*WeaponProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadWeapon: cannot read file %q: %w", path, err)
	}
	var w WeaponProfile
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("LoadWeapon: cannot parse file %q: %w", path, err)
	}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("LoadWeapon: invalid weapon in %q: %w", path, err)
	}
	return &w, nil
}
