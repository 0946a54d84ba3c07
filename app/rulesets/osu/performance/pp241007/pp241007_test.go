package pp241007

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/beatmap/parser"
	"github.com/wieku/danser-pp/app/rulesets/api"
	"github.com/wieku/danser-pp/app/rulesets/hitresults"
)

const header = `osu file format v14

[General]
StackLeniency: 0.7
Mode: 0

[Difficulty]
HPDrainRate:5
CircleSize:4
OverallDifficulty:8
ApproachRate:9
SliderMultiplier:1.6
SliderTickRate:1

[TimingPoints]
0,300,4,2,0,100,1,0

[HitObjects]
`

func parse(t *testing.T, objects []string) *beatmap.Beatmap {
	t.Helper()

	bMap, err := parser.ParseBytes([]byte(header + strings.Join(objects, "\n") + "\n"))
	require.NoError(t, err)

	return bMap
}

func threeCircles(t *testing.T) *beatmap.Beatmap {
	return parse(t, []string{
		"100,100,1000,1,0",
		"150,100,1300,1,0",
		"300,100,1600,1,0",
	})
}

// jumps builds a pattern of circles and sliders, repeated times with a pause between repetitions
func jumps(t *testing.T, repeated int) *beatmap.Beatmap {
	var lines []string

	offset := 1000

	for r := 0; r < repeated; r++ {
		for i := 0; i < 24; i++ {
			x := 64 + (i*97)%384
			y := 48 + (i*61)%288
			time := offset + i*150

			if i%6 == 5 {
				lines = append(lines, fmt.Sprintf("%d,%d,%d,2,0,L|%d:%d,1,100", x, y, time, x+100, y))
				continue
			}

			lines = append(lines, fmt.Sprintf("%d,%d,%d,1,0", x, y, time))
		}

		offset += 24*150 + 2000
	}

	return parse(t, lines)
}

func TestGradualMatchesBatch(t *testing.T) {
	bMap := threeCircles(t)
	diff := bMap.NewDifficulty()

	calc := NewDifficultyCalculator()

	batch := calc.CalculateSingle(bMap, diff, -1)

	gradual := calc.NewGradual(bMap, diff)
	require.Equal(t, 3, gradual.Len())

	for gradual.Processed() < gradual.Len() {
		gradual.Advance()
	}

	assert.Equal(t, batch, gradual.Attributes())
	assert.Equal(t, 3, batch.Osu.ObjectCount)
	assert.Equal(t, 3, batch.Osu.MaxCombo)
	assert.Greater(t, batch.Stars(), 0.0)
}

func TestGradualPrefixes(t *testing.T) {
	bMap := jumps(t, 1)
	diff := bMap.NewDifficulty()
	diff.SetMods(difficulty.HardRock | difficulty.Hidden)

	calc := NewDifficultyCalculator()
	gradual := calc.NewGradual(bMap, diff)

	for n := 1; n <= gradual.Len(); n++ {
		gradual.Advance()
		assert.Equal(t, calc.CalculateSingle(bMap, diff, n), gradual.Attributes(), "prefix of %d objects", n)
	}
}

func TestEmptyPrefix(t *testing.T) {
	bMap := threeCircles(t)

	attr := NewDifficultyCalculator().CalculateSingle(bMap, bMap.NewDifficulty(), 0)

	assert.Equal(t, beatmap.ModeOsu, attr.Mode)
	require.NotNil(t, attr.Osu)
	assert.Zero(t, attr.Stars())
	assert.Zero(t, attr.Osu.ObjectCount)
}

func TestDuplicatedMapIsNotEasier(t *testing.T) {
	calc := NewDifficultyCalculator()

	single := jumps(t, 1)
	double := jumps(t, 2)

	singleAttr := calc.CalculateSingle(single, single.NewDifficulty(), -1)
	doubleAttr := calc.CalculateSingle(double, double.NewDifficulty(), -1)

	assert.Greater(t, singleAttr.Stars(), 0.0)
	assert.GreaterOrEqual(t, doubleAttr.Stars(), singleAttr.Stars())
	assert.Equal(t, 2*singleAttr.Osu.MaxCombo, doubleAttr.Osu.MaxCombo)
	assert.Equal(t, 8, doubleAttr.Osu.Sliders)
}

func TestModsChangeStars(t *testing.T) {
	bMap := jumps(t, 1)
	calc := NewDifficultyCalculator()

	nomod := calc.CalculateSingle(bMap, bMap.NewDifficulty(), -1)

	dtDiff := bMap.NewDifficulty()
	dtDiff.SetMods(difficulty.DoubleTime)
	dt := calc.CalculateSingle(bMap, dtDiff, -1)

	rxDiff := bMap.NewDifficulty()
	rxDiff.SetMods(difficulty.Relax)
	rx := calc.CalculateSingle(bMap, rxDiff, -1)

	assert.Greater(t, dt.Stars(), nomod.Stars())
	assert.Less(t, rx.Stars(), nomod.Stars())
	assert.Zero(t, rx.Osu.Speed)
	assert.Greater(t, dt.Osu.AR, nomod.Osu.AR)
}

func TestStrainPeaks(t *testing.T) {
	bMap := jumps(t, 1)

	strains := NewDifficultyCalculator().CalculateStrainPeaks(bMap, bMap.NewDifficulty(), -1)

	assert.Equal(t, beatmap.ModeOsu, strains.Mode)
	require.NotNil(t, strains.Osu)
	assert.Equal(t, 400.0, strains.SectionLength)
	assert.NotEmpty(t, strains.Osu.Aim)
	assert.Len(t, strains.Osu.Speed, len(strains.Osu.Aim))
	assert.Len(t, strains.Osu.Total, len(strains.Osu.Aim))
	assert.NotEmpty(t, strains.Osu.Flashlight)
}

func TestStrainTotals(t *testing.T) {
	bMap := jumps(t, 2)
	diff := bMap.NewDifficulty()

	calc := &DifficultyCalculator{}
	peaks := calc.CalculateStrainPeaks(bMap, diff, -1).Osu

	require.Len(t, peaks.AimNoSliders, len(peaks.Aim))

	for i := range peaks.Aim {
		assert.LessOrEqual(t, peaks.AimNoSliders[i], peaks.Aim[i]+1e-9)

		fl := 0.0
		if i < len(peaks.Flashlight) {
			fl = peaks.Flashlight[i]
		}

		section := calc.getStarsFromRawValues(peaks.Aim[i], peaks.AimNoSliders[i], peaks.Speed[i], fl, diff, api.OsuAttributes{})
		assert.InDelta(t, section.Total, peaks.Total[i], 1e-12, "section %d", i)
	}
}

func TestPerformance(t *testing.T) {
	bMap := jumps(t, 1)
	diff := bMap.NewDifficulty()

	attr := NewDifficultyCalculator().CalculateSingle(bMap, diff, -1)

	fc, err := hitresults.Osu(attr.Osu, hitresults.Partial{}, false, false)
	require.NoError(t, err)

	assert.Equal(t, attr.Osu.ObjectCount, fc.N300)
	assert.Equal(t, attr.Osu.MaxCombo, fc.MaxCombo)

	pp := NewPPCalculator()

	fcPP := pp.Calculate(attr, fc, diff)
	require.NotNil(t, fcPP.Osu)

	assert.Greater(t, fcPP.PP(), 0.0)
	assert.Greater(t, fcPP.Osu.Aim, 0.0)
	assert.Greater(t, fcPP.Osu.Speed, 0.0)
	assert.Zero(t, fcPP.Osu.Flashlight)
	assert.Zero(t, fcPP.Osu.EffectiveMissCount)

	missed := fc
	missed.N300 -= 3
	missed.Misses = 3
	missed.MaxCombo = attr.Osu.MaxCombo / 2

	missedPP := pp.Calculate(attr, missed, diff)

	assert.Less(t, missedPP.PP(), fcPP.PP())
	assert.GreaterOrEqual(t, missedPP.Osu.EffectiveMissCount, 3.0)

	empty := pp.Calculate(api.EmptyAttributes(beatmap.ModeOsu), api.ScoreState{}, diff)
	assert.Zero(t, empty.PP())
}

func TestLazerSliderAccuracy(t *testing.T) {
	bMap := jumps(t, 1)

	diff := bMap.NewDifficulty()
	diff.SetMods(difficulty.Lazer)

	attr := NewDifficultyCalculator().CalculateSingle(bMap, diff, -1)

	full, err := hitresults.Osu(attr.Osu, hitresults.Partial{}, true, false)
	require.NoError(t, err)

	dropped, err := hitresults.Osu(attr.Osu, hitresults.Partial{SliderEndHits: new(int)}, true, false)
	require.NoError(t, err)

	pp := NewPPCalculator()

	assert.Less(t, pp.Calculate(attr, dropped, diff).PP(), pp.Calculate(attr, full, diff).PP())
}
