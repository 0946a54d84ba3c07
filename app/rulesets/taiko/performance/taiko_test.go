package performance

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/beatmap/parser"
	"github.com/wieku/danser-pp/app/rulesets/hitresults"
)

func taikoMap(t *testing.T, pattern string, repeats int, mode int) *beatmap.Beatmap {
	t.Helper()

	var b strings.Builder

	fmt.Fprintf(&b, `osu file format v14

[General]
Mode: %d

[Difficulty]
HPDrainRate:5
CircleSize:5
OverallDifficulty:6
ApproachRate:6
SliderMultiplier:1.4
SliderTickRate:1

[TimingPoints]
0,400,4,2,0,100,1,0

[HitObjects]
`, mode)

	time := 1000

	for r := 0; r < repeats; r++ {
		for _, c := range pattern {
			switch c {
			case 'd':
				fmt.Fprintf(&b, "256,192,%d,1,0\n", time)
			case 'k':
				fmt.Fprintf(&b, "256,192,%d,1,2\n", time)
			case ' ':
				time += 200
				continue
			}

			time += 100
		}

		time += 1000
	}

	bMap, err := parser.ParseBytes([]byte(b.String()))
	require.NoError(t, err)

	return bMap
}

func TestColourEncoding(t *testing.T) {
	bMap := taikoMap(t, "ddkkddkkdkdk", 1, 1)

	diffObjects := createDifficultyObjects(bMap, 1)
	require.Len(t, diffObjects, 11)

	// The first note only starts the timeline
	first := diffObjects[0]
	assert.True(t, first.IsHit)
	assert.Equal(t, don, first.Kind)
	assert.Len(t, first.Colour.MonoStreak.Notes, 1)

	kats := diffObjects[1]
	assert.Equal(t, kat, kats.Kind)
	assert.Len(t, kats.Colour.MonoStreak.Notes, 2)
	assert.Same(t, kats, kats.Colour.MonoStreak.first())
	assert.Same(t, first, kats.Colour.PreviousColourChange())

	alternating := diffObjects[len(diffObjects)-1].Colour.Alternating
	require.NotNil(t, alternating)
	assert.Len(t, alternating.Streaks[0].Notes, 1)

	assert.Same(t, diffObjects[0], diffObjects[4].PreviousMono(1))
}

func TestGradualMatchesBatch(t *testing.T) {
	bMap := taikoMap(t, "ddkd kkdk dddd kdkd", 3, 1)
	diff := bMap.NewDifficulty()
	diff.SetMods(difficulty.DoubleTime)

	calc := NewDifficultyCalculator()
	gradual := calc.NewGradual(bMap, diff)

	for n := 1; n <= gradual.Len(); n++ {
		gradual.Advance()
		assert.Equal(t, calc.CalculateSingle(bMap, diff, n), gradual.Attributes(), "prefix of %d objects", n)
	}

	final := gradual.Attributes()
	assert.Greater(t, final.Stars(), 0.0)
	assert.Equal(t, gradual.Len(), final.Taiko.MaxCombo)
}

func TestEmpty(t *testing.T) {
	bMap := taikoMap(t, "dk", 1, 1)

	attr := NewDifficultyCalculator().CalculateSingle(bMap, bMap.NewDifficulty(), 0)

	assert.Equal(t, beatmap.ModeTaiko, attr.Mode)
	assert.Zero(t, attr.Stars())
	assert.Zero(t, attr.MaxCombo())
}

func TestLongerMapIsNotEasier(t *testing.T) {
	calc := NewDifficultyCalculator()

	short := taikoMap(t, "ddkdkkdkddkk", 2, 1)
	long := taikoMap(t, "ddkdkkdkddkk", 4, 1)

	shortStars := calc.CalculateSingle(short, short.NewDifficulty(), -1).Stars()
	longStars := calc.CalculateSingle(long, long.NewDifficulty(), -1).Stars()

	assert.Greater(t, shortStars, 0.0)
	assert.GreaterOrEqual(t, longStars, shortStars)
}

func TestConvert(t *testing.T) {
	osuMap := taikoMap(t, "ddkdkkdkddkk", 2, 0)

	converted, err := osuMap.Convert(beatmap.ModeTaiko, difficulty.None)
	require.NoError(t, err)

	calc := NewDifficultyCalculator()

	attr := calc.CalculateSingle(converted, converted.NewDifficulty(), -1)
	assert.True(t, attr.IsConvert())

	native := taikoMap(t, "ddkdkkdkddkk", 2, 1)
	nativeAttr := calc.CalculateSingle(native, native.NewDifficulty(), -1)

	assert.InDelta(t, nativeAttr.Taiko.Peak, attr.Taiko.Peak, 1e-9)
	assert.Less(t, attr.Stars(), nativeAttr.Stars())
}

func TestStrains(t *testing.T) {
	bMap := taikoMap(t, "ddkd kkdk", 4, 1)

	strains := NewDifficultyCalculator().CalculateStrainPeaks(bMap, bMap.NewDifficulty(), -1)

	require.NotNil(t, strains.Taiko)
	assert.NotEmpty(t, strains.Taiko.Stamina)
	assert.Len(t, strains.Taiko.Colour, len(strains.Taiko.Stamina))
	assert.Len(t, strains.Taiko.Rhythm, len(strains.Taiko.Stamina))
	assert.Len(t, strains.Taiko.Reading, len(strains.Taiko.Stamina))
}

func TestPerformance(t *testing.T) {
	bMap := taikoMap(t, "ddkd kkdk dkkd kddk", 6, 1)
	diff := bMap.NewDifficulty()

	attr := NewDifficultyCalculator().CalculateSingle(bMap, diff, -1)

	fc, err := hitresults.Taiko(attr.Taiko, hitresults.Partial{})
	require.NoError(t, err)

	acc := 0.75
	worse, err := hitresults.Taiko(attr.Taiko, hitresults.Partial{Accuracy: &acc})
	require.NoError(t, err)

	pp := NewPPCalculator()

	fcPP := pp.Calculate(attr, fc, diff)
	worsePP := pp.Calculate(attr, worse, diff)

	require.NotNil(t, fcPP.Taiko)
	assert.Greater(t, fcPP.PP(), 0.0)
	require.NotNil(t, fcPP.Taiko.EstimatedUnstableRate)
	require.NotNil(t, worsePP.Taiko.EstimatedUnstableRate)
	assert.Greater(t, *worsePP.Taiko.EstimatedUnstableRate, *fcPP.Taiko.EstimatedUnstableRate)
	assert.Less(t, worsePP.PP(), fcPP.PP())

	noGreats := fc
	noGreats.N100, noGreats.N300 = fc.N300, 0

	assert.Nil(t, pp.Calculate(attr, noGreats, diff).Taiko.EstimatedUnstableRate)
}
