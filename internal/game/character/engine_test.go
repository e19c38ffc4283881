package character_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/spacegothic/internal/game/character"
	"github.com/cory-johannsen/spacegothic/internal/game/dice"
)

// fixedSrc returns the same offset for every draw, clamped to n-1.
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(n int) int {
	if f.val >= n {
		return n - 1
	}
	return f.val
}

// seqSrc returns queued offsets in order, then zeroes.
type seqSrc struct {
	vals []int
	pos  int
}

func (s *seqSrc) Intn(n int) int {
	if s.pos >= len(s.vals) {
		return 0
	}
	v := s.vals[s.pos] % n
	s.pos++
	return v
}

func newEngine(t *testing.T, src dice.Source) *character.Engine {
	return character.NewEngine(src, zaptest.NewLogger(t))
}

func generated(t *testing.T, src dice.Source, limit int) (*character.Engine, *character.State) {
	e := newEngine(t, src)
	s := character.NewState(limit)
	e.Generate(s)
	return e, s
}

func TestGenerate_MinimumDraws(t *testing.T) {
	_, s := generated(t, fixedSrc{val: 0}, 3)

	assert.Equal(t, character.AttributeSet{54, 45, 35, 63, 26, 73, 48, 35}, s.Attributes)
	// luck = ceil(35/2 + 20 + 3) = 41
	assert.Equal(t, 41, s.Derived.Luck)
	assert.Equal(t, 219, s.Derived.CareerSkillPoints)
	assert.Equal(t, 108, s.Derived.FreeSkillPoints)
}

func TestGenerate_MaximumDraws(t *testing.T) {
	_, s := generated(t, fixedSrc{val: 1 << 20}, 3)

	assert.Equal(t, character.AttributeSet{90, 90, 80, 90, 80, 100, 120, 80}, s.Attributes)
	assert.Equal(t, 40+20+30, s.Derived.Luck)
	assert.Equal(t, 300, s.Derived.CareerSkillPoints)
	assert.Equal(t, 180, s.Derived.FreeSkillPoints)
}

func TestProperty_Generate_AttributesWithinRanges(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		e := character.NewEngine(dice.NewSeededSource(seed), zaptest.NewLogger(t))
		s := character.NewState(3)
		e.Generate(s)

		for i := 0; i < character.AttributeCount; i++ {
			a := character.Attribute(i)
			f := character.FormulaFor(a)
			v := s.Attributes.Get(a)
			if v < f.Lowest() || v > f.Highest() {
				rt.Fatalf("%s = %d outside [%d, %d]", a, v, f.Lowest(), f.Highest())
			}
		}
		w := s.Attributes.Get(character.Willpower)
		minLuck := (w+1)/2 + 23
		if s.Derived.Luck < minLuck || s.Derived.Luck > minLuck+27 {
			rt.Fatalf("luck %d inconsistent with willpower %d", s.Derived.Luck, w)
		}
		if s.Derived.CareerSkillPoints != 3*s.Attributes.Get(character.Experience) {
			rt.Fatalf("career skill points inconsistent")
		}
		if s.Derived.FreeSkillPoints != s.Attributes.Get(character.Experience)+s.Attributes.Get(character.Intelligence) {
			rt.Fatalf("free skill points inconsistent")
		}
	})
}

func TestGenerate_ResetsBudgetAndTraitsKeepsWage(t *testing.T) {
	e, s := generated(t, dice.NewSeededSource(7), 3)
	require.NoError(t, e.Reroll(s, character.Agility))
	_, err := e.RollTrait(s)
	require.NoError(t, err)
	wage := e.RollMonthlyWage(s)

	e.Generate(s)
	assert.Equal(t, 0, s.Budget.Used)
	assert.Empty(t, s.Traits)
	assert.Equal(t, wage, s.MonthlyWage)
}

func TestReroll_WillpowerRecomputesLuck(t *testing.T) {
	src := &seqSrc{}
	e, s := generated(t, src, 3)
	require.Equal(t, 41, s.Derived.Luck)

	// willpower offset 10 -> 45; luck draw offset 5 -> ceil(22.5)+20+8 = 51
	src.vals, src.pos = []int{10, 5}, 0
	require.NoError(t, e.Reroll(s, character.Willpower))

	assert.Equal(t, 45, s.Attributes.Get(character.Willpower))
	assert.Equal(t, 51, s.Derived.Luck)
	assert.Equal(t, 1, s.Budget.Used)
}

func TestReroll_ExperienceAndIntelligenceRecomputeSkillPoints(t *testing.T) {
	src := &seqSrc{}
	e, s := generated(t, src, 3)

	src.vals, src.pos = []int{27}, 0 // experience -> 100
	require.NoError(t, e.Reroll(s, character.Experience))
	assert.Equal(t, 300, s.Derived.CareerSkillPoints)
	assert.Equal(t, 135, s.Derived.FreeSkillPoints)

	src.vals, src.pos = []int{45}, 0 // intelligence -> 80
	require.NoError(t, e.Reroll(s, character.Intelligence))
	assert.Equal(t, 300, s.Derived.CareerSkillPoints)
	assert.Equal(t, 180, s.Derived.FreeSkillPoints)
	assert.Equal(t, 41, s.Derived.Luck, "luck must not be touched")
}

func TestProperty_Reroll_NonDependencyLeavesSkillPoints(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		a := character.Attribute(rapid.SampledFrom([]int{0, 1, 2, 3, 4, 6}).Draw(rt, "attribute"))

		e := character.NewEngine(dice.NewSeededSource(seed), zaptest.NewLogger(t))
		s := character.NewState(3)
		e.Generate(s)
		before := s.Derived

		if err := e.Reroll(s, a); err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if s.Derived.CareerSkillPoints != before.CareerSkillPoints || s.Derived.FreeSkillPoints != before.FreeSkillPoints {
			rt.Fatalf("reroll of %s changed skill points", a)
		}
		if a != character.Willpower && s.Derived.Luck != before.Luck {
			rt.Fatalf("reroll of %s changed luck", a)
		}
	})
}

func TestReroll_BudgetScenario(t *testing.T) {
	e, s := generated(t, dice.NewSeededSource(99), 3)

	for i := 1; i <= 3; i++ {
		require.NoError(t, e.Reroll(s, character.Experience), "reroll %d", i)
		assert.Equal(t, i, s.Budget.Used)
	}
	before := s.Clone()

	err := e.Reroll(s, character.Experience)
	require.Error(t, err)
	assert.True(t, errors.Is(err, character.ErrBudgetExhausted))
	assert.Equal(t, before, s, "refused reroll must not change state")
	assert.Equal(t, 3, s.Budget.Used)
}

func TestRollTrait_SharesBudgetWithReroll(t *testing.T) {
	e, s := generated(t, dice.NewSeededSource(3), 3)
	require.NoError(t, e.Reroll(s, character.Strength))
	_, err := e.RollTrait(s)
	require.NoError(t, err)
	_, err = e.RollTrait(s)
	require.NoError(t, err)
	before := s.Clone()

	_, err = e.RollTrait(s)
	assert.ErrorIs(t, err, character.ErrBudgetExhausted)
	assert.Equal(t, before, s)

	assert.ErrorIs(t, e.Reroll(s, character.Strength), character.ErrBudgetExhausted)
	assert.Equal(t, before, s)
}

func TestRollTrait_AppendsCatalogEntry(t *testing.T) {
	src := &seqSrc{}
	e, s := generated(t, src, 5)
	src.vals, src.pos = []int{8, 8, 0}, 0

	for _, want := range []character.Trait{character.KhirfAddiction, character.KhirfAddiction, character.GreaterEndurance} {
		got, err := e.RollTrait(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, character.TraitLog{character.KhirfAddiction, character.KhirfAddiction, character.GreaterEndurance}, s.Traits)
	assert.Equal(t, "Khirf Addiction\nKhirf Addiction\nGreater Endurance", s.Traits.String())
}

func TestRollTrait_ZeroLimit(t *testing.T) {
	e := newEngine(t, fixedSrc{})
	s := character.NewState(0)
	_, err := e.RollTrait(s)
	assert.ErrorIs(t, err, character.ErrBudgetExhausted)
	assert.Empty(t, s.Traits)
}

func TestRollMonthlyWage_RangeAndNoBudget(t *testing.T) {
	e, s := generated(t, dice.NewSeededSource(11), 0)
	for i := 0; i < 50; i++ {
		w := e.RollMonthlyWage(s)
		assert.GreaterOrEqual(t, w, 23)
		assert.LessOrEqual(t, w, 50)
		assert.Equal(t, w, s.MonthlyWage)
	}
	assert.Equal(t, 0, s.Budget.Used)
}

func TestReroll_PanicsOnInvalidIndex(t *testing.T) {
	e, s := generated(t, fixedSrc{}, 3)
	assert.Panics(t, func() { _ = e.Reroll(s, character.Attribute(8)) })
	assert.Panics(t, func() { _ = e.Reroll(s, character.Attribute(-1)) })
	assert.Equal(t, 0, s.Budget.Used)
}

func TestReroll_PanicsBeforeGenerate(t *testing.T) {
	e := newEngine(t, fixedSrc{})
	s := character.NewState(3)
	assert.Panics(t, func() { _ = e.Reroll(s, character.Strength) })
}

func TestNewState_PanicsOnNegativeLimit(t *testing.T) {
	assert.Panics(t, func() { character.NewState(-1) })
}

func TestDependents(t *testing.T) {
	assert.Equal(t, []character.DerivedStat{character.Luck}, character.Dependents(character.Willpower))
	assert.Equal(t, []character.DerivedStat{character.CareerSkillPoints, character.FreeSkillPoints}, character.Dependents(character.Experience))
	assert.Equal(t, []character.DerivedStat{character.CareerSkillPoints, character.FreeSkillPoints}, character.Dependents(character.Intelligence))
	assert.Empty(t, character.Dependents(character.Weight))
}
