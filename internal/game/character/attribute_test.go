package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/spacegothic/internal/game/character"
)

func TestParseAttribute(t *testing.T) {
	cases := map[string]character.Attribute{
		"0":            character.Strength,
		"7":            character.Intelligence,
		"Willpower":    character.Willpower,
		"wil":          character.Willpower,
		"luck":         character.LuckBase,
		"EXP":          character.Experience,
		"endurance":    character.Endurance,
		" weight ":     character.Weight,
		"intelligence": character.Intelligence,
	}
	for in, want := range cases {
		got, err := character.ParseAttribute(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseAttribute_Errors(t *testing.T) {
	for _, in := range []string{"", "8", "-1", "st", "charisma"} {
		_, err := character.ParseAttribute(in)
		assert.Error(t, err, in)
	}
}

func TestAttribute_String(t *testing.T) {
	assert.Equal(t, "Luck (base)", character.LuckBase.String())
	assert.Equal(t, "Attribute(9)", character.Attribute(9).String())
}

func TestAttributeSet_Generated(t *testing.T) {
	var s character.AttributeSet
	assert.False(t, s.Generated())
	s[character.Strength] = 54
	assert.True(t, s.Generated())
}

func TestFormulaFor_PanicsOutOfRange(t *testing.T) {
	assert.Panics(t, func() { character.FormulaFor(character.AttributeCount) })
}

func TestDossier_Set(t *testing.T) {
	d := character.Dossier{}
	require.NoError(t, d.Set("home planet", "Mars"))
	assert.Equal(t, "Mars", d["Home Planet"])

	require.NoError(t, d.Set("Home Planet", "  "))
	assert.NotContains(t, d, "Home Planet")

	err := d.Set("Blood Type", "O")
	assert.ErrorIs(t, err, character.ErrUnknownDossierField)
}

func TestDossierFields_Count(t *testing.T) {
	assert.Len(t, character.DossierFields(), 26)
}

func TestNewSheet_Snapshot(t *testing.T) {
	s := character.NewState(3)
	s.Attributes = character.AttributeSet{54, 45, 35, 63, 26, 73, 48, 35}
	s.Traits = character.TraitLog{character.Cyborg}
	s.MonthlyWage = 30
	d := character.Dossier{"Name": "Vex"}

	sheet := character.NewSheet("user-1", s, d)
	s.Traits[0] = character.Greed
	d["Name"] = "Other"

	assert.Equal(t, "user-1", sheet.UserID)
	assert.Equal(t, []string{"Cyborg"}, sheet.Traits)
	assert.Equal(t, "Vex", sheet.Dossier["Name"])
	assert.Equal(t, 30, sheet.MonthlyWage)
	assert.Empty(t, sheet.ID)
}
