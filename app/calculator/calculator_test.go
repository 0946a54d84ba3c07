package calculator

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

func ptr[T any](v T) *T {
	return &v
}

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

func pattern(repeated int) []string {
	var lines []string

	offset := 1000

	for r := 0; r < repeated; r++ {
		for i := 0; i < 16; i++ {
			x := 64 + (i*113)%384
			y := 48 + (i*71)%288
			time := offset + i*180

			if i%4 == 3 {
				lines = append(lines, fmt.Sprintf("%d,%d,%d,2,0,B|%d:%d|%d:%d,1,120", x, y, time, x+60, y+40, x+100, y))
				continue
			}

			lines = append(lines, fmt.Sprintf("%d,%d,%d,1,0", x, y, time))
		}

		offset += 16*180 + 1500
	}

	return lines
}

func TestThreeCirclesGradualNth(t *testing.T) {
	bMap := threeCircles(t)

	calc := NewDifficulty(Args{})

	direct, err := calc.Calculate(bMap)
	require.NoError(t, err)

	gradual, err := calc.Gradual(bMap)
	require.NoError(t, err)
	assert.Equal(t, 3, gradual.NRemaining())

	nth, ok := gradual.Nth(2)
	require.True(t, ok)

	assert.Equal(t, direct, nth)
	assert.Greater(t, direct.Stars(), 0.0)
	assert.Zero(t, gradual.NRemaining())

	_, ok = gradual.Next()
	assert.False(t, ok)
}

func TestCollectMatchesCalculate(t *testing.T) {
	bMap := parse(t, pattern(2))

	for _, mods := range []string{"", "DT", "HDHR", "EZHTFL"} {
		t.Run("mods "+mods, func(t *testing.T) {
			calc := NewDifficulty(Args{Mods: mods})

			direct, err := calc.Calculate(bMap)
			require.NoError(t, err)

			gradual, err := calc.Gradual(bMap)
			require.NoError(t, err)

			all := gradual.Collect()
			require.Len(t, all, len(bMap.HitObjects))

			assert.Equal(t, direct, all[len(all)-1])
		})
	}
}

func TestNthEqualsRepeatedNext(t *testing.T) {
	bMap := parse(t, pattern(1))
	calc := NewDifficulty(Args{Mods: "HD"})

	byNth, err := calc.Gradual(bMap)
	require.NoError(t, err)

	byNext, err := calc.Gradual(bMap)
	require.NoError(t, err)

	for _, n := range []int{0, 3, 5} {
		expected, ok := byNth.Nth(n)
		require.True(t, ok)

		var actual api.DifficultyAttributes
		for i := 0; i <= n; i++ {
			actual, ok = byNext.Next()
			require.True(t, ok)
		}

		assert.Equal(t, expected, actual)
		assert.Equal(t, byNth.NRemaining(), byNext.NRemaining())
	}
}

func TestNthPastTheEnd(t *testing.T) {
	bMap := parse(t, pattern(1))

	gradual, err := NewDifficulty(Args{}).Gradual(bMap)
	require.NoError(t, err)

	final, ok := gradual.Nth(1000)
	require.True(t, ok)

	direct, err := NewDifficulty(Args{}).Calculate(bMap)
	require.NoError(t, err)

	assert.Equal(t, direct, final)

	_, ok = gradual.Nth(0)
	assert.False(t, ok)
	assert.Empty(t, gradual.Collect())
}

func TestPassedObjects(t *testing.T) {
	bMap := parse(t, pattern(2))

	full, err := NewDifficulty(Args{}).Calculate(bMap)
	require.NoError(t, err)

	partial, err := NewDifficulty(Args{PassedObjects: ptr(10)}).Calculate(bMap)
	require.NoError(t, err)

	assert.Equal(t, 10, partial.Osu.ObjectCount)
	assert.Less(t, partial.MaxCombo(), full.MaxCombo())

	gradual, err := NewDifficulty(Args{PassedObjects: ptr(10)}).Gradual(bMap)
	require.NoError(t, err)

	assert.Equal(t, 10, gradual.NRemaining())

	all := gradual.Collect()
	assert.Equal(t, partial, all[len(all)-1])

	empty, err := NewDifficulty(Args{PassedObjects: ptr(0)}).Calculate(bMap)
	require.NoError(t, err)

	assert.Equal(t, beatmap.ModeOsu, empty.Mode)
	assert.Zero(t, empty.Stars())
	assert.Zero(t, empty.MaxCombo())
}

func TestDuplicatedMapIsNotEasier(t *testing.T) {
	calc := NewDifficulty(Args{})

	single, err := calc.Calculate(parse(t, pattern(1)))
	require.NoError(t, err)

	double, err := calc.Calculate(parse(t, pattern(2)))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, double.Stars(), single.Stars())
}

func TestPerfectPlayIgnoresPriority(t *testing.T) {
	bMap := parse(t, pattern(1))

	for _, lazer := range []bool{false, true} {
		for _, priority := range []api.HitResultPriority{api.BestCase, api.WorstCase, api.Fastest} {
			perf := NewPerformance(Args{
				Lazer:    ptr(lazer),
				Accuracy: ptr(100.0),
				Misses:   ptr(0),
				Priority: priority,
			})

			attr, err := perf.Calculate(bMap)
			require.NoError(t, err)
			require.NotNil(t, attr.Osu)

			state := attr.Osu.State

			assert.Zero(t, state.Misses)
			assert.Equal(t, len(bMap.HitObjects), state.N300)
			assert.Equal(t, attr.Osu.Difficulty.MaxCombo, state.MaxCombo)
			assert.Greater(t, attr.PP(), 0.0)
		}
	}
}

func TestCalculateFromAttributes(t *testing.T) {
	bMap := parse(t, pattern(2))
	args := Args{Mods: "HDDT", Accuracy: ptr(97.5), Misses: ptr(1), Priority: api.Nearest}

	attr, err := NewDifficulty(args).Calculate(bMap)
	require.NoError(t, err)

	fromMap, err := NewPerformance(args).Calculate(bMap)
	require.NoError(t, err)

	fromAttr, err := NewPerformance(args).CalculateFromAttributes(attr)
	require.NoError(t, err)

	assert.Equal(t, fromMap, fromAttr)
	assert.Equal(t, 1, fromAttr.Osu.State.Misses)

	acc := hitresults.OsuAccuracy(fromAttr.Osu.State, attr.Osu, true, false)
	assert.InDelta(t, 0.975, acc, 0.005)
}

func TestGradualPerformance(t *testing.T) {
	bMap := parse(t, pattern(1))
	args := Args{Mods: "HR"}

	expected, err := NewPerformance(args).Calculate(bMap)
	require.NoError(t, err)

	gradual, err := NewDifficulty(args).GradualPerformance(bMap)
	require.NoError(t, err)

	first, ok := gradual.Next(api.ScoreState{MaxCombo: 1, N300: 1})
	require.True(t, ok)
	assert.GreaterOrEqual(t, first.PP(), 0.0)

	last, ok := gradual.Nth(expected.Osu.State, gradual.NRemaining()-1)
	require.True(t, ok)

	assert.Equal(t, expected, last)
	assert.Zero(t, gradual.NRemaining())

	_, ok = gradual.Next(expected.Osu.State)
	assert.False(t, ok)
}

func TestConversion(t *testing.T) {
	bMap := parse(t, pattern(2))

	for _, mode := range []beatmap.GameMode{beatmap.ModeTaiko, beatmap.ModeCatch, beatmap.ModeMania} {
		t.Run(mode.String(), func(t *testing.T) {
			args := Args{Mode: ptr(mode)}

			attr, err := NewDifficulty(args).Calculate(bMap)
			require.NoError(t, err)

			assert.Equal(t, mode, attr.Mode)
			assert.True(t, attr.IsConvert())
			assert.Greater(t, attr.Stars(), 0.0)

			perf, err := NewPerformance(args).CalculateFromAttributes(attr)
			require.NoError(t, err)
			assert.Equal(t, mode, perf.Mode)
			assert.Greater(t, perf.PP(), 0.0)

			strains, err := NewDifficulty(args).Strains(bMap)
			require.NoError(t, err)
			assert.Equal(t, mode, strains.Mode)
			assert.Positive(t, strains.Len())
		})
	}
}

func TestErrors(t *testing.T) {
	bMap := parse(t, pattern(1))

	taikoMap := parse(t, pattern(1))
	taikoMap.Mode = beatmap.ModeTaiko

	tests := []struct {
		name   string
		bMap   *beatmap.Beatmap
		args   Args
		target error
	}{
		{"conflicting mods", bMap, Args{Mods: "EZHR"}, difficulty.ErrInvalidModifier},
		{"unknown acronym", bMap, Args{Mods: "XX"}, difficulty.ErrInvalidModifier},
		{"zero clock rate", bMap, Args{ClockRate: ptr(0.0)}, difficulty.ErrInvalidRange},
		{"huge clock rate", bMap, Args{ClockRate: ptr(150.0)}, difficulty.ErrInvalidRange},
		{"ar override", bMap, Args{AR: &difficulty.Override{Value: 25}}, difficulty.ErrInvalidRange},
		{"od override with mods", bMap, Args{OD: &difficulty.Override{Value: -21, WithMods: true}}, difficulty.ErrInvalidRange},
		{"accuracy", bMap, Args{Accuracy: ptr(120.0)}, difficulty.ErrInvalidRange},
		{"too many hits", bMap, Args{N300: ptr(1000)}, hitresults.ErrInconsistentState},
		{"unreachable accuracy", bMap, Args{Accuracy: ptr(100.0), Misses: ptr(3)}, hitresults.ErrInconsistentState},
		{"inexact accuracy", bMap, Args{Accuracy: ptr(80.0), Lazer: ptr(false)}, hitresults.ErrInconsistentState},
		{"conversion", taikoMap, Args{Mode: ptr(beatmap.ModeOsu)}, beatmap.ErrUnsupportedConversion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPerformance(tt.args).Calculate(tt.bMap)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestBeatmapAttributes(t *testing.T) {
	attr, err := NewBeatmapAttributesBuilder(Args{Mods: "DT"}).BuildFromValues(beatmap.ModeOsu, 9, 8, 4, 5)
	require.NoError(t, err)

	assert.InDelta(t, 10.33, attr.AR, 0.01)
	assert.InDelta(t, 1.5, attr.ClockRate, 1e-9)
	assert.InDelta(t, 400, attr.ARHitWindow, 1e-6)
	assert.InDelta(t, 32.0/1.5, attr.ODGreatHitWindow, 1e-6)

	withMods, err := NewBeatmapAttributesBuilder(Args{Mods: "HR", AR: &difficulty.Override{Value: 9.5, WithMods: true}}).
		BuildFromValues(beatmap.ModeOsu, 9, 8, 4, 5)
	require.NoError(t, err)

	assert.InDelta(t, 9.5, withMods.AR, 1e-9)
	assert.InDelta(t, 5.2, withMods.CS, 1e-9)

	beforeMods, err := NewBeatmapAttributesBuilder(Args{Mods: "HR", AR: &difficulty.Override{Value: 5}}).
		BuildFromValues(beatmap.ModeOsu, 9, 8, 4, 5)
	require.NoError(t, err)

	assert.InDelta(t, 7, beforeMods.AR, 1e-6)

	fromMap, err := NewBeatmapAttributesBuilder(Args{}).Build(threeCircles(t))
	require.NoError(t, err)

	assert.InDelta(t, 9, fromMap.AR, 1e-6)
	assert.InDelta(t, 8, fromMap.OD, 1e-6)
}

func TestHitWindowsDecreaseWithOD(t *testing.T) {
	modSets := []string{"", "HR", "EZ", "DT", "HT", "HRDT", "EZHT"}
	modes := []beatmap.GameMode{beatmap.ModeOsu, beatmap.ModeTaiko, beatmap.ModeMania}

	for _, mods := range modSets {
		for _, mode := range modes {
			builder := NewBeatmapAttributesBuilder(Args{Mods: mods})

			var last *api.BeatmapAttributes

			for od := -10.0; od <= 20; od += 0.5 {
				attr, err := builder.BuildFromValues(mode, 5, od, 5, 5)
				require.NoError(t, err)

				assert.GreaterOrEqual(t, attr.ODGreatHitWindow, 0.0)
				assert.GreaterOrEqual(t, attr.ODOkHitWindow, 0.0)
				assert.GreaterOrEqual(t, attr.ODMehHitWindow, 0.0)

				if last != nil {
					assert.LessOrEqual(t, attr.ODGreatHitWindow, last.ODGreatHitWindow, "%s %s od %.1f", mode, mods, od)
					assert.LessOrEqual(t, attr.ODOkHitWindow, last.ODOkHitWindow, "%s %s od %.1f", mode, mods, od)
					assert.LessOrEqual(t, attr.ODMehHitWindow, last.ODMehHitWindow, "%s %s od %.1f", mode, mods, od)
				}

				last = &attr
			}
		}
	}
}

func TestAccuracy(t *testing.T) {
	bMap := threeCircles(t)

	perfect := NewPerformance(Args{})
	perf, err := perfect.Calculate(bMap)
	require.NoError(t, err)

	acc, err := perfect.Accuracy(perf)
	require.NoError(t, err)
	assert.InDelta(t, 100, acc, 1e-9)

	oneMiss := NewPerformance(Args{Misses: ptr(1), Lazer: ptr(false)})
	perf, err = oneMiss.Calculate(bMap)
	require.NoError(t, err)

	acc, err = oneMiss.Accuracy(perf)
	require.NoError(t, err)
	assert.InDelta(t, 200.0/3, acc, 1e-9)

	_, err = perfect.Accuracy(api.PerformanceAttributes{})
	assert.Error(t, err)
}
