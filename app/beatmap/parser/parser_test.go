package parser

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/objects"
)

const osuMap = `osu file format v14

[General]
StackLeniency: 0.5
Mode: 0

[Metadata]
Title:Test Song
Artist:Someone
Creator:mapper
Version:Insane
BeatmapID:42

[Difficulty]
HPDrainRate:6
CircleSize:4
OverallDifficulty:8
ApproachRate:9.3
SliderMultiplier:1.4
SliderTickRate:1

[Events]
//Break Periods
2,5000,8000

[TimingPoints]
0,500,4,2,0,100,1,0
1000,-50,4,2,0,100,0,1

[HitObjects]
256,192,2000,5,0,0:0:0:0:
100,100,1000,6,0,B|200:100|300:100,1,140
256,192,9000,12,0,10000,0:0:0:0:
`

func TestParseBytes(t *testing.T) {
	bMap, err := ParseBytes([]byte(osuMap))
	require.NoError(t, err)

	assert.Equal(t, beatmap.ModeOsu, bMap.Mode)
	assert.Equal(t, 14, bMap.Version)
	assert.Equal(t, "Test Song", bMap.Metadata.Title)
	assert.Equal(t, "Insane", bMap.Metadata.DiffName)
	assert.Equal(t, 42, bMap.Metadata.BeatmapID)
	assert.InDelta(t, 9.3, bMap.AR, 1e-9)
	assert.InDelta(t, 0.5, bMap.StackLeniency, 1e-9)
	assert.Len(t, bMap.MD5, 32)

	require.Len(t, bMap.Breaks, 1)
	assert.Equal(t, beatmap.Break{Start: 5000, End: 8000}, bMap.Breaks[0])

	require.Len(t, bMap.HitObjects, 3)

	slider, ok := bMap.HitObjects[0].(*objects.Slider)
	require.True(t, ok, "objects are sorted by start time")

	// SV 2x at 1000ms: 140px / (1.4 * 100 * 2) beats of 500ms
	assert.InDelta(t, 1250, slider.GetEndTime(), 1e-6)
	assert.True(t, slider.IsNewCombo())

	_, ok = bMap.HitObjects[1].(*objects.Circle)
	assert.True(t, ok)

	spinner, ok := bMap.HitObjects[2].(*objects.Spinner)
	require.True(t, ok)
	assert.Equal(t, 10000.0, spinner.GetEndTime())
}

func TestMissingApproachRateFallsBackToOD(t *testing.T) {
	data := strings.Replace(osuMap, "ApproachRate:9.3\n", "", 1)

	bMap, err := ParseBytes([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, 8.0, bMap.AR)
}

func TestByteOrderMark(t *testing.T) {
	bMap, err := ParseBytes([]byte("\ufeff" + osuMap))
	require.NoError(t, err)

	assert.Equal(t, 14, bMap.Version)
	assert.Len(t, bMap.HitObjects, 3)
}

func TestEarlyVersionOffset(t *testing.T) {
	data := strings.Replace(osuMap, "v14", "v4", 1)

	bMap, err := ParseBytes([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, 2024.0, bMap.HitObjects[1].GetStartTime())
}

func TestManiaHoldNotes(t *testing.T) {
	data := `osu file format v14

[General]
Mode: 3

[Difficulty]
CircleSize:4
OverallDifficulty:8

[TimingPoints]
0,500,4,2,0,100,1,0

[HitObjects]
448,192,1000,1,0,0:0:0:0:
64,192,1000,128,0,1500:0:0:0:0:
`

	bMap, err := Decode(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, beatmap.ModeMania, bMap.Mode)
	require.Len(t, bMap.HitObjects, 2)

	hold, ok := bMap.HitObjects[0].(*objects.HoldNote)
	require.True(t, ok, "same-time objects are ordered by column")
	assert.Equal(t, 1500.0, hold.GetEndTime())
}

func TestInvalidInput(t *testing.T) {
	for name, data := range map[string]string{
		"empty":        "",
		"no header":    "[General]\nMode: 0\n",
		"bad number":   "osu file format v14\n[Difficulty]\nCircleSize:abc\n",
		"bad object":   "osu file format v14\n[HitObjects]\n1,2\n",
		"bad timing":   "osu file format v14\n[TimingPoints]\n0,0,4,2,0,100,1,0\n",
		"unknown mode": "osu file format v14\n[General]\nMode: 7\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseBytes([]byte(data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse))
		})
	}
}
