package character

import "strings"

// Trait is a special trait name from the fixed catalog.
type Trait string

// Special trait catalog.
const (
	GreaterEndurance Trait = "Greater Endurance"
	PlasmaGunner     Trait = "Plasma Gunner"
	Sharpshooter     Trait = "Sharpshooter"
	Sniper           Trait = "Sniper"
	SixthSense       Trait = "Sixth Sense"
	Cyborg           Trait = "Cyborg"
	CombatFatigue    Trait = "Combat Fatigue"
	Greed            Trait = "Greed"
	KhirfAddiction   Trait = "Khirf Addiction"
	Bully            Trait = "Bully"
)

var traitCatalog = []Trait{
	GreaterEndurance, PlasmaGunner, Sharpshooter, Sniper, SixthSense,
	Cyborg, CombatFatigue, Greed, KhirfAddiction, Bully,
}

// TraitLog is the ordered list of traits rolled in the current cycle.
// Duplicates are allowed.
type TraitLog []Trait

// Strings returns the log as plain strings.
func (l TraitLog) Strings() []string {
	out := make([]string, len(l))
	for i, t := range l {
		out[i] = string(t)
	}
	return out
}

// String joins the log one trait per line.
func (l TraitLog) String() string {
	return strings.Join(l.Strings(), "\n")
}
