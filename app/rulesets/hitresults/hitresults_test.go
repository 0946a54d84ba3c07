package hitresults

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wieku/danser-pp/app/rulesets/api"
)

func ptr[T any](v T) *T {
	return &v
}

func osuAttributes(objects int) *api.OsuAttributes {
	return &api.OsuAttributes{
		ObjectCount: objects,
		Circles:     objects,
		MaxCombo:    objects,
	}
}

func TestSolveWithoutTarget(t *testing.T) {
	counts, err := Solve(Problem{
		Tiers: []Tier{{Value: 300}, {Value: 100}, {Value: 50, Count: 3, Known: true}},
		Total: 20,
	}, api.WorstCase)

	require.NoError(t, err)
	assert.Equal(t, []int{17, 0, 3}, counts)
}

func TestSolveKnownCountsVerbatim(t *testing.T) {
	counts, err := Solve(Problem{
		Tiers: []Tier{{Value: 300, Count: 5, Known: true}, {Value: 100, Count: 1, Known: true}},
		Total: 20,
	}, api.BestCase)

	require.NoError(t, err)
	assert.Equal(t, []int{5, 1}, counts)
}

func TestSolveExceedingCounts(t *testing.T) {
	_, err := Solve(Problem{
		Tiers: []Tier{{Value: 300, Count: 15, Known: true}, {Value: 100, Count: 10, Known: true}},
		Total: 20,
	}, api.BestCase)

	assert.True(t, errors.Is(err, ErrInconsistentState))
}

func TestOsuPerfectPlay(t *testing.T) {
	attr := osuAttributes(250)

	for _, priority := range []api.HitResultPriority{api.BestCase, api.WorstCase, api.Fastest} {
		t.Run(priority.String(), func(t *testing.T) {
			state, err := Osu(attr, Partial{
				Accuracy: ptr(1.0),
				Misses:   ptr(0),
				Combo:    ptr(250),
				Priority: priority,
			}, false, false)

			require.NoError(t, err)
			assert.Equal(t, api.ScoreState{MaxCombo: 250, N300: 250}, state)
		})
	}
}

func TestOsuPriorities(t *testing.T) {
	attr := osuAttributes(100)

	best, err := Osu(attr, Partial{Accuracy: ptr(0.95), Priority: api.BestCase}, false, false)
	require.NoError(t, err)

	assert.Equal(t, 94, best.N300)
	assert.Equal(t, 0, best.N100)
	assert.Equal(t, 6, best.N50)

	worst, err := Osu(attr, Partial{Accuracy: ptr(0.95), Priority: api.WorstCase}, false, false)
	require.NoError(t, err)

	assert.Equal(t, 93, worst.N300)
	assert.Equal(t, 5, worst.N100)
	assert.Equal(t, 2, worst.N50)

	assert.InDelta(t, 0.95, OsuAccuracy(best, attr, false, false), 1e-12)
	assert.InDelta(t, 0.95, OsuAccuracy(worst, attr, false, false), 1e-12)
}

func TestOsuAccuracyRoundTrip(t *testing.T) {
	for _, objects := range []int{37, 100, 537} {
		attr := osuAttributes(objects)

		// Accuracies reachable with whole hit counts
		for _, given := range []api.ScoreState{
			{N300: objects},
			{N300: objects - 1, N50: 1},
			{N300: objects - 3, N100: 2, N50: 1},
			{N300: objects / 2, N100: objects / 3, N50: objects - objects/2 - objects/3},
		} {
			acc := OsuAccuracy(given, attr, false, false)

			for _, priority := range []api.HitResultPriority{api.BestCase, api.WorstCase} {
				t.Run(fmt.Sprintf("%d/%.4f/%s", objects, acc, priority), func(t *testing.T) {
					state, err := Osu(attr, Partial{Accuracy: ptr(acc), Priority: priority}, false, false)
					require.NoError(t, err)

					assert.Equal(t, objects, state.TotalHits())
					assert.InDelta(t, acc, OsuAccuracy(state, attr, false, false), 1e-12)
				})
			}
		}
	}
}

func TestOsuInexactAccuracy(t *testing.T) {
	for _, tt := range []struct {
		objects int
		acc     float64
	}{
		{1, 0.5},
		{1, 0.8},
		{10, 0.905},
		{37, 0.9876},
	} {
		attr := osuAttributes(tt.objects)

		for _, priority := range []api.HitResultPriority{api.BestCase, api.WorstCase, api.Fastest} {
			_, err := Osu(attr, Partial{Accuracy: ptr(tt.acc), Misses: ptr(0), Priority: priority}, false, false)
			assert.True(t, errors.Is(err, ErrInconsistentState), "%d objects at %.4f with %s", tt.objects, tt.acc, priority)
		}

		state, err := Osu(attr, Partial{Accuracy: ptr(tt.acc), Priority: api.Nearest}, false, false)
		require.NoError(t, err)

		assert.Equal(t, tt.objects, state.TotalHits())
		// Half of the widest gap between adjacent results
		assert.InDelta(t, tt.acc, OsuAccuracy(state, attr, false, false), 100.0/(300*float64(tt.objects)))
	}
}

func TestNearestKeepsExactMatches(t *testing.T) {
	attr := osuAttributes(100)

	exact, err := Osu(attr, Partial{Accuracy: ptr(0.95)}, false, false)
	require.NoError(t, err)

	nearest, err := Osu(attr, Partial{Accuracy: ptr(0.95), Priority: api.Nearest}, false, false)
	require.NoError(t, err)

	assert.Equal(t, exact, nearest)
}

func TestSolveAcrossThreeTiers(t *testing.T) {
	// 300 + 200 + 50 is the only way to reach the target with three judgements
	counts, err := Solve(Problem{
		Tiers:     []Tier{{Value: 300}, {Value: 200}, {Value: 100}, {Value: 50}},
		Total:     3,
		Accuracy:  550.0 / 900,
		HasTarget: true,
	}, api.WorstCase)

	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 0, 1}, counts)
}

func TestSolveKnownCountsAgainstTarget(t *testing.T) {
	tiers := []Tier{{Value: 300, Count: 3, Known: true}, {Value: 100, Count: 1, Known: true}}

	counts, err := Solve(Problem{Tiers: tiers, Total: 4, Accuracy: 1000.0 / 1200, HasTarget: true}, api.BestCase)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, counts)

	_, err = Solve(Problem{Tiers: tiers, Total: 4, Accuracy: 0.9, HasTarget: true}, api.BestCase)
	assert.True(t, errors.Is(err, ErrInconsistentState))
}

func TestOsuUnreachableAccuracy(t *testing.T) {
	attr := osuAttributes(100)

	_, err := Osu(attr, Partial{Accuracy: ptr(1.0), Misses: ptr(5)}, false, false)
	assert.True(t, errors.Is(err, ErrInconsistentState))

	_, err = Osu(attr, Partial{Accuracy: ptr(0.1)}, false, false)
	assert.True(t, errors.Is(err, ErrInconsistentState))

	_, err = Osu(attr, Partial{Combo: ptr(101)}, false, false)
	assert.True(t, errors.Is(err, ErrInconsistentState))
}

func TestOsuLazerSliders(t *testing.T) {
	attr := &api.OsuAttributes{
		ObjectCount: 10,
		Circles:     6,
		Sliders:     4,
		LargeTicks:  8,
		MaxCombo:    22,
	}

	state, err := Osu(attr, Partial{SliderEndHits: ptr(2)}, true, false)
	require.NoError(t, err)

	assert.Equal(t, 10, state.N300)
	assert.Equal(t, 8, state.LargeTickHits)
	assert.Equal(t, 2, state.SliderEndHits)

	expected := (300*10 + 30*8 + 150*2) / float64(300*10+30*8+150*4)
	assert.InDelta(t, expected, OsuAccuracy(state, attr, true, false), 1e-12)
	assert.InDelta(t, 1, OsuAccuracy(state, attr, false, false), 1e-12)

	_, err = Osu(attr, Partial{SliderEndHits: ptr(5)}, true, false)
	assert.True(t, errors.Is(err, ErrInconsistentState))
}

func TestTaiko(t *testing.T) {
	attr := &api.TaikoAttributes{MaxCombo: 200}

	state, err := Taiko(attr, Partial{Accuracy: ptr(0.95), Misses: ptr(2)})
	require.NoError(t, err)

	assert.Equal(t, 200, state.TotalHits())
	assert.Equal(t, 2, state.Misses)
	assert.InDelta(t, 0.95, TaikoAccuracy(state), 1e-12)
	assert.Equal(t, 198, state.MaxCombo)
}

func TestCatch(t *testing.T) {
	attr := &api.CatchAttributes{Fruits: 100, Droplets: 20, TinyDroplets: 300}

	state, err := Catch(attr, Partial{Misses: ptr(3), Accuracy: ptr(0.95)})
	require.NoError(t, err)

	assert.Equal(t, 97, state.N300)
	assert.Equal(t, 20, state.N100)
	assert.Equal(t, 300, state.N50+state.NKatu)
	assert.InDelta(t, 0.95, CatchAccuracy(state), 1e-12)

	_, err = Catch(attr, Partial{Misses: ptr(3), Accuracy: ptr(0.98)})
	assert.True(t, errors.Is(err, ErrInconsistentState))

	_, err = Catch(attr, Partial{N300: ptr(50), N100: ptr(20)})
	assert.True(t, errors.Is(err, ErrInconsistentState))
}

func TestMania(t *testing.T) {
	attr := &api.ManiaAttributes{ObjectCount: 300, HoldNotes: 50, MaxCombo: 350}

	stable, err := Mania(attr, Partial{Accuracy: ptr(1.0)}, false)
	require.NoError(t, err)
	assert.Equal(t, 300, stable.NGeki)

	lazer, err := Mania(attr, Partial{Accuracy: ptr(0.96), Priority: api.WorstCase}, true)
	require.NoError(t, err)

	assert.Equal(t, 350, lazer.TotalHits())
	assert.InDelta(t, 0.96, ManiaAccuracy(lazer, true), 1e-12)
}
