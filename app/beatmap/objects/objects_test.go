package objects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/framework/math/curves"
	"github.com/wieku/danser-pp/framework/math/vector"
)

func newTestTimings() *Timings {
	return NewTimings([]TimingPoint{{Time: 0, BeatLength: 500, Uninherited: true}}, 1, 1, 14)
}

func TestSliderScorePoints(t *testing.T) {
	slider := NewSlider(0, vector.NewVec2f(0, 0), 1000, true, 0, curves.CLinear, []vector.Vector2f{{X: 200, Y: 0}}, 2, 200, nil)
	slider.SetTiming(newTestTimings())

	// velocity 100px per 500ms beat, 200px span lasts 1000ms
	assert.InDelta(t, 1000, slider.SpanDuration, 1e-9)
	assert.InDelta(t, 3000, slider.EndTime, 1e-9)

	require.Len(t, slider.ScorePoints, 4)
	assert.Equal(t, PointTick, slider.ScorePoints[0].Kind)
	assert.InDelta(t, 1500, slider.ScorePoints[0].Time, 1e-9)
	assert.Equal(t, PointRepeat, slider.ScorePoints[1].Kind)
	assert.InDelta(t, 2000, slider.ScorePoints[1].Time, 1e-9)
	assert.Equal(t, PointTick, slider.ScorePoints[2].Kind)
	assert.InDelta(t, 2500, slider.ScorePoints[2].Time, 1e-9)
	assert.Equal(t, PointTail, slider.ScorePoints[3].Kind)
	assert.Equal(t, 2, slider.TickCount())
	assert.InDelta(t, 0, slider.EndPosition.X, 1e-3)
}

func TestSliderVelocityFromInheritedPoint(t *testing.T) {
	timings := NewTimings([]TimingPoint{
		{Time: 0, BeatLength: 500, Uninherited: true},
		{Time: 500, BeatLength: -50},
	}, 1, 1, 14)

	assert.InDelta(t, 1, timings.SliderVelocityAt(100), 1e-9)
	assert.InDelta(t, 2, timings.SliderVelocityAt(600), 1e-9)
	assert.InDelta(t, 500, timings.BeatLengthAt(600), 1e-9)
}

func TestStackingAndCopy(t *testing.T) {
	original := []IHitObject{
		NewCircle(0, vector.NewVec2f(100, 100), 0, true, 0),
		NewCircle(1, vector.NewVec2f(100, 100), 100, false, 0),
		NewCircle(2, vector.NewVec2f(101, 100), 200, false, 0),
	}

	stacked := CopyObjects(original)
	ApplyStacking(stacked, 1200, 0.7, -6.4*0.5)

	assert.Equal(t, int64(2), stacked[0].GetStackIndex())
	assert.Equal(t, int64(1), stacked[1].GetStackIndex())
	assert.Equal(t, int64(0), stacked[2].GetStackIndex())
	assert.InDelta(t, 100-6.4, stacked[0].GetStackedStartPosition().X, 1e-4)

	for _, o := range original {
		assert.Equal(t, int64(0), o.GetStackIndex())
	}
}

func TestHardRockFlip(t *testing.T) {
	circle := NewCircle(0, vector.NewVec2f(50, 100), 0, true, 0)

	assert.InDelta(t, 284, circle.GetStackedStartPositionMod(difficulty.HardRock).Y, 1e-4)
	assert.InDelta(t, 100, circle.GetStackedStartPositionMod(difficulty.Hidden).Y, 1e-4)
}

func TestManiaColumns(t *testing.T) {
	for keys := 1; keys <= 10; keys++ {
		for column := range keys {
			assert.Equal(t, column, ManiaColumn(ManiaColumnX(column, keys), keys))
		}
	}
}
