package preprocessing

import (
	"math"

	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/beatmap/objects"
	"github.com/wieku/danser-pp/framework/math/vector"
)

const (
	maximumSliderRadius float32 = NormalizedRadius * 2.4
	assumedSliderRadius float32 = NormalizedRadius * 1.8
)

// LazySlider is a slider with the cursor path of a player that follows it as lazily as possible
type LazySlider struct {
	*objects.Slider

	EndTimeLazer float64

	LazyEndPosition    vector.Vector2f
	LazyTravelDistance float32
	LazyTravelTime     float64

	diff *difficulty.Difficulty
}

func NewLazySlider(slider *objects.Slider, d *difficulty.Difficulty) *LazySlider {
	lazy := &LazySlider{
		Slider:       slider,
		EndTimeLazer: slider.EndTime,
		diff:         d,
	}

	lazy.calculateCursorPath()

	return lazy
}

type nestedPoint struct {
	pos      vector.Vector2f
	isRepeat bool
}

func (s *LazySlider) calculateCursorPath() {
	duration := s.EndTime - s.StartTime

	trackingEndTime := max(s.EndTime+objects.TailLeniency, s.StartTime+duration/2)

	nested := make([]nestedPoint, 0, len(s.ScorePoints))

	lastTickIndex := -1

	for i, p := range s.ScorePoints {
		if p.Kind == objects.PointTick {
			lastTickIndex = i
		}

		nested = append(nested, nestedPoint{
			pos:      s.GetStackedPositionAtProgressMod(p.PathProgress, s.diff.Mods),
			isRepeat: p.Kind == objects.PointRepeat,
		})
	}

	// The last tick is tracked instead of the tail when it comes after the tracking end
	if lastTickIndex >= 0 && s.ScorePoints[lastTickIndex].Time > trackingEndTime {
		trackingEndTime = s.ScorePoints[lastTickIndex].Time

		tick := nested[lastTickIndex]
		nested = append(nested[:lastTickIndex], nested[lastTickIndex+1:]...)
		nested = append(nested, tick)
	}

	s.LazyTravelTime = trackingEndTime - s.StartTime

	endTimeMin := 0.0
	if s.SpanDuration > 0 {
		endTimeMin = s.LazyTravelTime / s.SpanDuration
	}

	if math.Mod(endTimeMin, 2) >= 1 {
		endTimeMin = 1 - math.Mod(endTimeMin, 1)
	} else {
		endTimeMin = math.Mod(endTimeMin, 1)
	}

	s.LazyEndPosition = s.GetStackedPositionAtProgressMod(endTimeMin, s.diff.Mods)

	cursor := s.GetStackedStartPositionMod(s.diff.Mods)
	scalingFactor := NormalizedRadius / float32(s.diff.CircleRadiusU)

	for i, point := range nested {
		movement := point.pos.Sub(cursor)
		movementLength := scalingFactor * movement.Len()

		requiredMovement := assumedSliderRadius

		if i == len(nested)-1 {
			// The end of a slider has special aim rules due to the relaxed time constraint on position
			lazyMovement := s.LazyEndPosition.Sub(cursor)
			if lazyMovement.Len() < movement.Len() {
				movement = lazyMovement
			}

			movementLength = scalingFactor * movement.Len()
		} else if point.isRepeat {
			requiredMovement = NormalizedRadius
		}

		if movementLength > requiredMovement {
			cursor = cursor.Add(movement.Scl((movementLength - requiredMovement) / movementLength))
			movementLength *= (movementLength - requiredMovement) / movementLength
			s.LazyTravelDistance += movementLength
		}

		if i == len(nested)-1 {
			s.LazyEndPosition = cursor
		}
	}
}

// GetStackedPositionAtModLazer returns the stacked position at time, with the tail at the real end of the slider
func (s *LazySlider) GetStackedPositionAtModLazer(time float64, mods difficulty.Modifier) vector.Vector2f {
	if time >= s.EndTimeLazer {
		return s.GetStackedEndPositionMod(mods)
	}

	return s.GetStackedPositionAtMod(time, mods)
}
