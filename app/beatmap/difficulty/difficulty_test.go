package difficulty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMods(t *testing.T) {
	tests := []struct {
		name  string
		spec  any
		mods  Modifier
		clock float64
	}{
		{"nil", nil, None, 1},
		{"bitflag", 72, Hidden | DoubleTime, 1.5},
		{"acronyms", "hdDT", Hidden | DoubleTime, 1.5},
		{"separated", "HD, HR", Hidden | HardRock, 1},
		{"list", []string{"EZ", "HT"}, Easy | HalfTime, 0.75},
		{"nightcore", "NC", Nightcore | DoubleTime, 1.5},
		{"perfect", "PF", Perfect | SuddenDeath, 1},
		{"spec with speed", ModSpec{Acronym: "DT", Settings: map[string]any{"speed_change": 1.3}}, DoubleTime, 1.3},
		{"spec list", []ModSpec{{Acronym: "HD"}, {Acronym: "DC"}}, Hidden | Daycore, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := ParseMods(tt.spec)
			require.NoError(t, err)

			assert.Equal(t, tt.mods, set.Mods)
			assert.InDelta(t, tt.clock, set.ClockRate(), 1e-9)
		})
	}
}

func TestParseModsErrors(t *testing.T) {
	for _, spec := range []any{"EZHR", "DTHT", "NCDC", "NFSD", "RXAP", "4K5K", "XY", "HDD", -1, struct{}{},
		ModSpec{Acronym: "DT", Settings: map[string]any{"speed_change": "fast"}}} {
		_, err := ParseMods(spec)
		assert.ErrorIs(t, err, ErrInvalidModifier, "%v", spec)
	}
}

func TestModifierString(t *testing.T) {
	assert.Equal(t, "HDDT", (Hidden | DoubleTime).String())
	assert.Equal(t, "NC", (Nightcore | DoubleTime).String())
	assert.Equal(t, "NM", ModifierSet{}.String())
	assert.Equal(t, 4, (Key4 | Hidden).KeyCount())
	assert.Zero(t, Hidden.KeyCount())
}

func TestScoringSemantics(t *testing.T) {
	assert.True(t, ModifierSet{}.Classic())
	assert.False(t, ModifierSet{Mods: Lazer}.Classic())
	assert.True(t, ModifierSet{Mods: Lazer | Classic}.Classic())
	assert.True(t, ModifierSet{Mods: HardRock}.HardRockOffsets())
}

func TestHardRockAndEasy(t *testing.T) {
	diff := NewDifficulty(5, 4, 8, 9)
	diff.SetMods(HardRock)

	assert.InDelta(t, 5.2, diff.CS, 1e-9)
	assert.InDelta(t, 10, diff.OD, 1e-9)
	assert.InDelta(t, 10, diff.AR, 1e-9)
	assert.InDelta(t, 7, diff.HP, 1e-9)
	assert.True(t, diff.HardRockOffsets)

	diff.SetMods(Easy)

	assert.InDelta(t, 2, diff.CS, 1e-9)
	assert.InDelta(t, 4, diff.OD, 1e-9)
	assert.InDelta(t, 4.5, diff.AR, 1e-9)
	assert.InDelta(t, 2.5, diff.HP, 1e-9)
	assert.False(t, diff.HardRockOffsets)
}

func TestOverrides(t *testing.T) {
	diff := NewDifficulty(5, 4, 8, 9)
	diff.SetMods(HardRock)

	diff.SetAROverride(&Override{Value: 5})
	assert.InDelta(t, 7, diff.AR, 1e-9)

	diff.SetAROverride(&Override{Value: 5, WithMods: true})
	assert.InDelta(t, 5, diff.AR, 1e-9)
	assert.InDelta(t, 5, diff.ARReal, 1e-9)

	diff.SetAROverride(nil)
	assert.InDelta(t, 10, diff.AR, 1e-9)
}

func TestClockRate(t *testing.T) {
	diff := NewDifficulty(5, 4, 8, 5)
	diff.SetMods(DoubleTime)

	assert.InDelta(t, 1.5, diff.Speed, 1e-9)
	assert.InDelta(t, 1200, diff.PreemptU, 1e-9)
	assert.InDelta(t, 800, diff.Preempt, 1e-9)
	assert.InDelta(t, 5+5*400.0/750, diff.ARReal, 1e-9)
	assert.InDelta(t, diff.Hit300U/1.5, diff.Hit300, 1e-9)

	diff.SetCustomSpeed(1.2)
	assert.InDelta(t, 1.2, diff.Speed, 1e-9)

	diff.SetCustomSpeed(0)
	assert.InDelta(t, 1.5, diff.Speed, 1e-9)
}

func TestValidate(t *testing.T) {
	diff := NewDifficulty(5, 4, 8, 9)
	require.NoError(t, diff.Validate())

	diff.SetAROverride(&Override{Value: 21})
	assert.ErrorIs(t, diff.Validate(), ErrInvalidRange)

	diff.SetAROverride(&Override{Value: -20})
	assert.NoError(t, diff.Validate())

	diff.SetCustomSpeed(101)
	assert.ErrorIs(t, diff.Validate(), ErrInvalidRange)

	diff.SetCustomSpeed(0.005)
	assert.ErrorIs(t, diff.Validate(), ErrInvalidRange)

	assert.ErrorIs(t, NewDifficulty(5, -25, 8, 9).Validate(), ErrInvalidRange)
}

func TestHitWindowsAreMonotone(t *testing.T) {
	for _, mods := range []Modifier{None, HardRock, Easy, DoubleTime, HalfTime, HardRock | DoubleTime, Easy | HalfTime} {
		var last *Difficulty

		for od := -20.0; od <= 20; od += 0.25 {
			diff := NewDifficulty(5, 5, od, 5)
			diff.SetMods(mods)

			taikoGreat, taikoOk := diff.TaikoWindows()
			maniaGreat, maniaOk := diff.ManiaWindows(false)

			for _, w := range []float64{diff.Hit300, diff.Hit100, diff.Hit50, taikoGreat, taikoOk, maniaGreat, maniaOk} {
				assert.GreaterOrEqual(t, w, 0.0)
			}

			if last != nil {
				lastTaikoGreat, lastTaikoOk := last.TaikoWindows()
				lastManiaGreat, lastManiaOk := last.ManiaWindows(false)

				assert.LessOrEqual(t, diff.Hit300, last.Hit300, "%s od %.2f", mods, od)
				assert.LessOrEqual(t, diff.Hit100, last.Hit100, "%s od %.2f", mods, od)
				assert.LessOrEqual(t, diff.Hit50, last.Hit50, "%s od %.2f", mods, od)
				assert.LessOrEqual(t, taikoGreat, lastTaikoGreat, "%s od %.2f", mods, od)
				assert.LessOrEqual(t, taikoOk, lastTaikoOk, "%s od %.2f", mods, od)
				assert.LessOrEqual(t, maniaGreat, lastManiaGreat, "%s od %.2f", mods, od)
				assert.LessOrEqual(t, maniaOk, lastManiaOk, "%s od %.2f", mods, od)
			}

			last = diff
		}
	}
}

func TestManiaConvertWindows(t *testing.T) {
	great, ok := NewDifficulty(5, 4, 5, 5).ManiaWindows(true)
	assert.Equal(t, 34.0, great)
	assert.Equal(t, 67.0, ok)

	great, ok = NewDifficulty(5, 4, 4, 5).ManiaWindows(true)
	assert.Equal(t, 47.0, great)
	assert.Equal(t, 77.0, ok)

	hr := NewDifficulty(5, 4, 4, 5)
	hr.SetMods(HardRock)

	great, _ = hr.ManiaWindows(true)
	assert.InDelta(t, 47/1.4, great, 1e-9)
}
