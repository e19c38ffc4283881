package dice_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/spacegothic/internal/game/dice"
)

// constSource always returns the same offset, clamped to n-1.
type constSource struct{ val int }

func (c constSource) Intn(n int) int {
	if c.val >= n {
		return n - 1
	}
	return c.val
}

func TestRollResult_Total(t *testing.T) {
	r := dice.RollResult{Expression: "1d10+2", Dice: []int{7}, Modifier: 2}
	assert.Equal(t, 9, r.Total())
}

func TestRollResult_String(t *testing.T) {
	r := dice.RollResult{Expression: "2d6+3", Dice: []int{4, 5}, Modifier: 3}
	assert.Equal(t, "2d6+3 → [4 5] +3 = 12", r.String())
}

func TestRollResult_String_PanicsOnEmptyExpression(t *testing.T) {
	r := dice.RollResult{Dice: []int{4}}
	assert.Panics(t, func() { _ = r.String() })
}

func TestBetween_Bounds(t *testing.T) {
	assert.Equal(t, 4, dice.Between(constSource{val: 0}, 4, 40))
	assert.Equal(t, 40, dice.Between(constSource{val: 1000}, 4, 40))
	assert.Equal(t, 7, dice.Between(constSource{val: 0}, 7, 7))
}

func TestBetween_PanicsWhenMinExceedsMax(t *testing.T) {
	assert.Panics(t, func() { dice.Between(constSource{}, 5, 4) })
}

func TestProperty_Between_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(-100, 100).Draw(rt, "min")
		hi := rapid.IntRange(lo, lo+200).Draw(rt, "max")
		v := dice.Between(src, lo, hi)
		if v < lo || v > hi {
			rt.Fatalf("Between(%d, %d) = %d out of range", lo, hi, v)
		}
	})
}

func TestParse_Forms(t *testing.T) {
	cases := map[string]dice.Expression{
		"1d10+2": {Raw: "1d10+2", Count: 1, Sides: 10, Modifier: 2},
		"d100":   {Raw: "d100", Count: 1, Sides: 100},
		"3d6":    {Raw: "3d6", Count: 3, Sides: 6},
		"2D8-1":  {Raw: "2D8-1", Count: 2, Sides: 8, Modifier: -1},
	}
	for in, want := range cases {
		got, err := dice.Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "10", "0d6", "xd6", "1d1", "1dx", "1d6+x"} {
		_, err := dice.Parse(in)
		assert.Error(t, err, "expected error for %q", in)
	}
}

func TestExpression_MinMax(t *testing.T) {
	e := dice.MustParse("1d10+2")
	assert.Equal(t, 3, e.Min())
	assert.Equal(t, 12, e.Max())
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { dice.MustParse("nope") })
}

func TestProperty_Roll_WithinExpressionBounds(t *testing.T) {
	src := dice.NewCryptoSource()
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 5).Draw(rt, "count")
		sides := rapid.IntRange(2, 20).Draw(rt, "sides")
		mod := rapid.IntRange(-5, 5).Draw(rt, "mod")
		expr := dice.Expression{Raw: fmt.Sprintf("%dd%d%+d", count, sides, mod), Count: count, Sides: sides, Modifier: mod}

		res := dice.Roll(expr, src)
		if len(res.Dice) != count {
			rt.Fatalf("expected %d dice, got %d", count, len(res.Dice))
		}
		if res.Total() < expr.Min() || res.Total() > expr.Max() {
			rt.Fatalf("total %d outside [%d, %d]", res.Total(), expr.Min(), expr.Max())
		}
	})
}

func TestEvaluate_UsesRollerWhenAvailable(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := dice.NewLoggedRoller(constSource{val: 4}, zap.New(core))

	res := dice.Evaluate(dice.MustParse("2d6+1"), r)
	assert.Equal(t, []int{5, 5}, res.Dice)
	assert.Equal(t, 11, res.Total())
	assert.Equal(t, 1, logs.FilterMessage("dice roll").Len())
	assert.Zero(t, logs.FilterMessage("random draw").Len())

	plain := dice.Evaluate(dice.MustParse("2d6+1"), constSource{val: 4})
	assert.Equal(t, res, plain)
}

func TestSeededSource_Reproducible(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Intn(100), b.Intn(100), "draw %d diverged", i)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewCryptoSource().Intn(0) })
	assert.Panics(t, func() { dice.NewSeededSource(1).Intn(0) })
}

func TestRoller_IsSourceAndDelegates(t *testing.T) {
	var src dice.Source = dice.NewLoggedRoller(constSource{val: 3}, zaptest.NewLogger(t))
	assert.Equal(t, 3, src.Intn(10))

	r := dice.NewLoggedRoller(constSource{val: 6}, zaptest.NewLogger(t))
	res := r.Roll(dice.MustParse("1d10+2"))
	assert.Equal(t, []int{7}, res.Dice)
	assert.True(t, strings.HasSuffix(res.String(), "= 9"))
}
