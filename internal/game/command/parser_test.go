package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParse(t *testing.T) {
	assert.Equal(t, ParseResult{}, Parse("   "))

	got := Parse("  FIRE   semi ")
	assert.Equal(t, "fire", got.Command)
	assert.Equal(t, []string{"semi"}, got.Args)
	assert.Equal(t, "semi", got.RawArgs)

	got = Parse("dossier Home Planet  =  Tenebris IV")
	assert.Equal(t, "dossier", got.Command)
	assert.Equal(t, "Home Planet  =  Tenebris IV", got.RawArgs)

	got = Parse("sheet")
	assert.Empty(t, got.Args)
	assert.Empty(t, got.RawArgs)
}

func TestSplitAssignment(t *testing.T) {
	field, value, ok := SplitAssignment(" Home Planet = Tenebris = IV ")
	assert.True(t, ok)
	assert.Equal(t, "Home Planet", field)
	assert.Equal(t, "Tenebris = IV", value)

	field, value, ok = SplitAssignment("Rank =")
	assert.True(t, ok)
	assert.Equal(t, "Rank", field)
	assert.Empty(t, value)

	_, _, ok = SplitAssignment("Rank")
	assert.False(t, ok)
}

func TestPropertyParse_CommandIsFirstWordLowercased(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		word := rapid.StringMatching(`[A-Za-z]{1,10}`).Draw(t, "word")
		args := rapid.SliceOfN(rapid.StringMatching(`[a-z0-9]{1,6}`), 0, 4).Draw(t, "args")
		line := word + " " + strings.Join(args, " ")
		got := Parse(line)
		if got.Command != strings.ToLower(word) {
			t.Fatalf("Command = %q, want %q", got.Command, strings.ToLower(word))
		}
		if len(got.Args) != len(args) {
			t.Fatalf("Args = %v, want %v", got.Args, args)
		}
	})
}
