package character

import "github.com/cory-johannsen/spacegothic/internal/game/dice"

// DerivedStat identifies a value computed from base attributes.
type DerivedStat int

// Derived stats.
const (
	Luck DerivedStat = iota
	CareerSkillPoints
	FreeSkillPoints
)

// String returns the display name of the derived stat.
func (d DerivedStat) String() string {
	switch d {
	case Luck:
		return "Luck"
	case CareerSkillPoints:
		return "Career Skill Points"
	case FreeSkillPoints:
		return "Free Skill Points"
	default:
		return "DerivedStat(?)"
	}
}

// DerivedStats are the values derived from an AttributeSet.
//
// Invariant: consistent with the AttributeSet they were computed from; only
// recompute writes them.
type DerivedStats struct {
	Luck              int `json:"luck"`
	CareerSkillPoints int `json:"career_skill_points"`
	FreeSkillPoints   int `json:"free_skill_points"`
}

// dependents maps each base attribute to the derived stats that must be
// recomputed when it changes. Attributes absent from the table feed nothing.
var dependents = map[Attribute][]DerivedStat{
	Willpower:    {Luck},
	Experience:   {CareerSkillPoints, FreeSkillPoints},
	Intelligence: {CareerSkillPoints, FreeSkillPoints},
}

var allDerived = []DerivedStat{Luck, CareerSkillPoints, FreeSkillPoints}

// Dependents returns the derived stats recomputed when a changes.
func Dependents(a Attribute) []DerivedStat {
	return append([]DerivedStat(nil), dependents[a]...)
}

// luckRoll is the random component added to luck on every recompute.
var luckRoll = Formula{Min: 3, Max: 30}

// recompute writes the current value of stat into d.
//
//	luck   = ceil(Willpower/2 + 20 + U[3,30])
//	career = ceil(3 * Experience)
//	free   = ceil(Experience + Intelligence)
func (d *DerivedStats) recompute(stat DerivedStat, set AttributeSet, src dice.Source) {
	switch stat {
	case Luck:
		d.Luck = ceilHalf(set[Willpower]) + 20 + dice.Between(src, luckRoll.Min, luckRoll.Max)
	case CareerSkillPoints:
		d.CareerSkillPoints = 3 * set[Experience]
	case FreeSkillPoints:
		d.FreeSkillPoints = set[Experience] + set[Intelligence]
	default:
		panic("character: recompute: unknown derived stat")
	}
}

// ceilHalf returns ceil(n / 2) for n >= 0.
func ceilHalf(n int) int {
	return (n + 1) / 2
}
