package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wieku/danser-pp/app/beatmap"
)

func TestEmptyAttributes(t *testing.T) {
	for _, mode := range []beatmap.GameMode{beatmap.ModeOsu, beatmap.ModeTaiko, beatmap.ModeCatch, beatmap.ModeMania} {
		attr := EmptyAttributes(mode)

		assert.Equal(t, mode, attr.Mode)
		assert.Zero(t, attr.Stars())
		assert.Zero(t, attr.MaxCombo())
		assert.NotEmpty(t, attr.String())
	}
}

func TestAttributesJSON(t *testing.T) {
	attr := DifficultyAttributes{
		Mode:  beatmap.ModeCatch,
		Catch: &CatchAttributes{Total: 4.5, Fruits: 100, Droplets: 20, TinyDroplets: 300},
	}

	data, err := json.Marshal(attr)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"mode":"catch"`)
	assert.NotContains(t, string(data), `"osu"`)

	var decoded DifficultyAttributes
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, attr, decoded)
	assert.Equal(t, 120, decoded.MaxCombo())
}

func TestPerformanceDifficulty(t *testing.T) {
	osu := &OsuAttributes{Total: 6, MaxCombo: 500}

	perf := PerformanceAttributes{
		Mode: beatmap.ModeOsu,
		Osu:  &OsuPerformance{Difficulty: osu, Total: 300, State: ScoreState{MaxCombo: 500, N300: 400}},
	}

	assert.Equal(t, 300.0, perf.PP())
	assert.Equal(t, 400, perf.State().N300)
	assert.Equal(t, osu, perf.Difficulty().Osu)
}

func TestStrainsSeries(t *testing.T) {
	strains := Strains{
		Mode:          beatmap.ModeTaiko,
		SectionLength: 400,
		Taiko:         &TaikoStrains{Stamina: []float64{1, 2, 3}, Rhythm: []float64{1, 2, 3}},
	}

	names, series := strains.Series()

	assert.Equal(t, []string{"stamina", "rhythm", "color", "reading"}, names)
	assert.Len(t, series, 4)
	assert.Equal(t, 3, strains.Len())
}

func TestParseHitResultPriority(t *testing.T) {
	p, err := ParseHitResultPriority("WorstCase")
	require.NoError(t, err)
	assert.Equal(t, WorstCase, p)

	p, err = ParseHitResultPriority("nearest")
	require.NoError(t, err)
	assert.Equal(t, Nearest, p)
	assert.Equal(t, "nearest", p.String())

	_, err = ParseHitResultPriority("median")
	assert.ErrorIs(t, err, ErrUnknownPriority)
}
