package performance

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/beatmap/objects"
	"github.com/wieku/danser-pp/app/beatmap/parser"
	"github.com/wieku/danser-pp/app/rulesets/api"
	"github.com/wieku/danser-pp/app/rulesets/hitresults"
)

// maniaMap builds a 4K map from rows, each rune is a column: '1'-'4' a note, 'H' makes the next note a hold
func maniaMap(t *testing.T, rows []string, repeats int) *beatmap.Beatmap {
	t.Helper()

	var b strings.Builder

	b.WriteString(`osu file format v14

[General]
Mode: 3

[Difficulty]
HPDrainRate:8
CircleSize:4
OverallDifficulty:8
ApproachRate:5

[TimingPoints]
0,400,4,2,0,100,1,0

[HitObjects]
`)

	time := 1000

	for r := 0; r < repeats; r++ {
		for _, row := range rows {
			hold := false

			for _, c := range row {
				if c == 'H' {
					hold = true
					continue
				}

				x := objects.ManiaColumnX(int(c-'1'), 4)

				if hold {
					fmt.Fprintf(&b, "%d,192,%d,128,0,%d:0:0:0:0:\n", int(x), time, time+300)
					hold = false
				} else {
					fmt.Fprintf(&b, "%d,192,%d,1,0,0:0:0:0:\n", int(x), time)
				}
			}

			time += 120
		}
	}

	bMap, err := parser.ParseBytes([]byte(b.String()))
	require.NoError(t, err)

	return bMap
}

var stream = []string{"1", "2", "3", "4", "H1", "3", "2", "4"}

func TestColumns(t *testing.T) {
	bMap := maniaMap(t, []string{"1", "2", "3", "4"}, 1)

	diffObjects := createDifficultyObjects(sortedNotes(bMap), keyCount(bMap), 1)
	require.Len(t, diffObjects, 3)

	for i, o := range diffObjects {
		assert.Equal(t, i+1, o.Column)
		assert.InDelta(t, 120, o.DeltaTime, 1e-9)
	}
}

func TestGradualMatchesBatch(t *testing.T) {
	bMap := maniaMap(t, stream, 3)
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
	assert.Equal(t, 24, final.Mania.ObjectCount)
	assert.Equal(t, 3, final.Mania.HoldNotes)
	assert.Equal(t, 27, final.MaxCombo())
}

func TestEmpty(t *testing.T) {
	bMap := maniaMap(t, stream, 1)

	attr := NewDifficultyCalculator().CalculateSingle(bMap, bMap.NewDifficulty(), 0)

	assert.Equal(t, beatmap.ModeMania, attr.Mode)
	assert.Zero(t, attr.Stars())
	assert.Zero(t, attr.MaxCombo())
	assert.Greater(t, attr.Mania.GreatHitWindow, 0.0)
}

func TestChordsAreNotEasier(t *testing.T) {
	calc := NewDifficultyCalculator()

	single := maniaMap(t, []string{"1", "1", "1", "1"}, 6)
	chords := maniaMap(t, []string{"12", "12", "12", "12"}, 6)

	singleStars := calc.CalculateSingle(single, single.NewDifficulty(), -1).Stars()
	chordStars := calc.CalculateSingle(chords, chords.NewDifficulty(), -1).Stars()

	assert.Greater(t, singleStars, 0.0)
	assert.Greater(t, chordStars, singleStars)
}

func TestClockRate(t *testing.T) {
	// Long enough that DT keeps plenty of strain sections
	bMap := maniaMap(t, stream, 30)
	calc := NewDifficultyCalculator()

	normal := calc.CalculateSingle(bMap, bMap.NewDifficulty(), -1)

	fast := bMap.NewDifficulty()
	fast.SetMods(difficulty.DoubleTime)
	fastAttr := calc.CalculateSingle(bMap, fast, -1)

	assert.Greater(t, fastAttr.Stars(), normal.Stars())
	assert.Less(t, fastAttr.Mania.GreatHitWindow, normal.Mania.GreatHitWindow)
}

func TestStrains(t *testing.T) {
	bMap := maniaMap(t, stream, 4)

	strains := NewDifficultyCalculator().CalculateStrainPeaks(bMap, bMap.NewDifficulty(), -1)

	require.NotNil(t, strains.Mania)
	assert.NotEmpty(t, strains.Mania.Strains)
}

func TestPerformance(t *testing.T) {
	bMap := maniaMap(t, stream, 8)
	diff := bMap.NewDifficulty()

	attr := NewDifficultyCalculator().CalculateSingle(bMap, diff, -1)

	perfect, err := hitresults.Mania(attr.Mania, hitresults.Partial{}, false)
	require.NoError(t, err)

	// Every judgement worth 250 on average
	acc := 5.0 / 6
	worse, err := hitresults.Mania(attr.Mania, hitresults.Partial{Accuracy: &acc}, false)
	require.NoError(t, err)

	pp := NewPPCalculator()

	perfectPP := pp.Calculate(attr, perfect, diff)
	worsePP := pp.Calculate(attr, worse, diff)

	require.NotNil(t, perfectPP.Mania)
	assert.Greater(t, perfectPP.PP(), 0.0)
	assert.Less(t, worsePP.PP(), perfectPP.PP())

	// Below 80% custom accuracy nothing is awarded
	bad := api.ScoreState{N50: perfect.NGeki}
	assert.Zero(t, pp.Calculate(attr, bad, diff).PP())

	noFail := bMap.NewDifficulty()
	noFail.SetMods(difficulty.NoFail)
	assert.InDelta(t, perfectPP.PP()*0.75, pp.Calculate(attr, perfect, noFail).PP(), 1e-9)
}

func TestCustomAccuracy(t *testing.T) {
	assert.InDelta(t, 1.0, customAccuracy(api.ScoreState{NGeki: 10}), 1e-12)
	assert.InDelta(t, 300.0/320, customAccuracy(api.ScoreState{N300: 10}), 1e-12)
	assert.Zero(t, customAccuracy(api.ScoreState{}))
}
