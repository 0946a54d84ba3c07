package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/rulesets/api"
)

func TestStrainRows(t *testing.T) {
	strains := api.Strains{
		Mode:          beatmap.ModeTaiko,
		SectionLength: 400,
		Taiko: &api.TaikoStrains{
			Stamina: []float64{1, 2, 3},
			Rhythm:  []float64{0.5, 0.25, 0},
			Colour:  []float64{4, 4, 4},
			Reading: []float64{0, 0, 1},
		},
	}

	rows := StrainRows("abc", "HR", strains)
	require.Len(t, rows, 12)

	assert.Equal(t, StrainRow{Beatmap: "abc", Mode: "taiko", Mods: "HR", Skill: "stamina", Section: 0, Time: 400, Value: 1}, rows[0])
	assert.Equal(t, "rhythm", rows[3].Skill)
	assert.Equal(t, 1200.0, rows[11].Time)
	assert.Equal(t, 1.0, rows[11].Value)

	assert.Empty(t, StrainRows("abc", "", api.Strains{Mode: beatmap.ModeCatch, Catch: &api.CatchStrains{}}))
}

func TestStrainsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strains.parquet")

	rows := StrainRows("abc", "", api.Strains{
		Mode:          beatmap.ModeMania,
		SectionLength: 400,
		Mania:         &api.ManiaStrains{Strains: []float64{3.5, 1.25, 8}},
	})

	require.NoError(t, WriteStrains(path, rows))

	read, err := ReadStrains(path)
	require.NoError(t, err)
	assert.Equal(t, rows, read)
}

func TestScoresRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.parquet")

	pp := 312.5
	acc := 98.7
	failure := "unknown game mode"

	rows := []ScoreRow{
		{Beatmap: "a", Title: "Artist - Title [Hard]", Mode: "osu", Mods: "HDDT", ClockRate: 1.5, Stars: 6.25, MaxCombo: 1200, PP: &pp, Accuracy: &acc},
		{Beatmap: "b", Mode: "catch", ClockRate: 1, Stars: 3},
		{Beatmap: "c", Error: &failure},
	}

	require.NoError(t, WriteScores(path, rows))

	read, err := ReadScores(path)
	require.NoError(t, err)
	require.Len(t, read, 3)

	assert.Equal(t, rows[0].Title, read[0].Title)
	require.NotNil(t, read[0].PP)
	assert.Equal(t, pp, *read[0].PP)
	assert.Nil(t, read[1].PP)
	assert.Nil(t, read[1].Accuracy)
	require.NotNil(t, read[2].Error)
	assert.Equal(t, failure, *read[2].Error)
}

func TestWriteEmpty(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, Write[StrainRow](buf, nil))
	assert.Greater(t, buf.Len(), 0)

	path := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteStrains(path, nil))

	read, err := ReadStrains(path)
	require.NoError(t, err)
	assert.Empty(t, read)
}
