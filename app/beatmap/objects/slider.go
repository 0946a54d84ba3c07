package objects

import (
	"math"

	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/framework/math/curves"
	"github.com/wieku/danser-pp/framework/math/vector"
)

const (
	BaseScoringDistance = 100.0

	// TailLeniency moves the judged end of a slider slightly earlier
	TailLeniency = -36.0

	maxTickCount = 32768
)

type PointKind int

const (
	PointTick PointKind = iota
	PointRepeat
	PointTail
)

// TickPoint is a judged point of a slider besides its head
type TickPoint struct {
	Time      float64
	Pos       vector.Vector2f
	Kind      PointKind
	SpanIndex int
	// PathProgress is the position on the path in [0, 1]
	PathProgress float64
}

type Slider struct {
	HitObject

	CurveType     curves.CurveType
	ControlPoints []vector.Vector2f
	PixelLength   float64

	// RepeatCount is the number of spans, so a slider without repeats has 1
	RepeatCount int

	// EdgeHitSounds holds hit sounds of the head, repeats and tail
	EdgeHitSounds []int

	path *curves.Path

	SliderVelocity float64
	BeatLength     float64
	Velocity       float64
	TickDistance   float64
	SpanDuration   float64

	// ScorePoints contains ticks, repeats and the tail in time order
	ScorePoints []TickPoint
}

func NewSlider(id int, pos vector.Vector2f, time float64, newCombo bool, hitSound int, curveType curves.CurveType, controlPoints []vector.Vector2f, repeats int, pixelLength float64, edgeSounds []int) *Slider {
	points := append([]vector.Vector2f{pos}, controlPoints...)

	return &Slider{
		HitObject: HitObject{
			ID:            id,
			StartPosition: pos,
			EndPosition:   pos,
			StartTime:     time,
			EndTime:       time,
			NewCombo:      newCombo,
			HitSound:      hitSound,
		},
		CurveType:     curveType,
		ControlPoints: points,
		PixelLength:   pixelLength,
		RepeatCount:   max(1, repeats),
		EdgeHitSounds: edgeSounds,
	}
}

// SetTiming computes the path, velocity, end time and nested score points
func (s *Slider) SetTiming(timings *Timings) {
	s.path = curves.NewPath(s.CurveType, s.ControlPoints, s.PixelLength)

	if s.PixelLength <= 0 {
		s.PixelLength = s.path.Length()
	}

	s.BeatLength = timings.BeatLengthAt(s.StartTime)
	s.SliderVelocity = timings.SliderVelocityAt(s.StartTime)

	scoringDistance := BaseScoringDistance * timings.SliderMultiplier * s.SliderVelocity

	s.Velocity = scoringDistance / s.BeatLength

	tickDistanceMultiplier := 1.0
	if timings.FormatVersion < 8 {
		tickDistanceMultiplier = 1 / s.SliderVelocity
	}

	s.TickDistance = scoringDistance / timings.TickRate * tickDistanceMultiplier

	s.SpanDuration = s.PixelLength / s.Velocity
	s.EndTime = s.StartTime + s.SpanDuration*float64(s.RepeatCount)

	s.EndPosition = s.GetPositionAt(s.EndTime)

	s.generateScorePoints()
}

// SetTimingRaw is used by conversions that know the velocity up front
func (s *Slider) SetTimingRaw(beatLength, sliderVelocity, sliderMultiplier, tickRate float64) {
	timings := NewTimings([]TimingPoint{
		{Time: math.Inf(-1), BeatLength: beatLength, Uninherited: true},
		{Time: math.Inf(-1), BeatLength: -100 / sliderVelocity},
	}, sliderMultiplier, tickRate, 14)

	s.SetTiming(timings)
}

func (s *Slider) generateScorePoints() {
	s.ScorePoints = s.ScorePoints[:0]

	length := s.PixelLength
	tickDistance := min(s.TickDistance, length)

	if math.IsNaN(tickDistance) || tickDistance <= 0 {
		tickDistance = length
	}

	minDistanceFromEnd := s.Velocity * 10

	for span := 0; span < s.RepeatCount; span++ {
		spanStart := s.StartTime + float64(span)*s.SpanDuration
		reversed := span%2 == 1

		var ticks []TickPoint

		if length > 0 && tickDistance > 0 && len(s.ScorePoints) < maxTickCount {
			for d := tickDistance; d <= length; d += tickDistance {
				if d >= length-minDistanceFromEnd {
					break
				}

				pathProgress := d / length

				timeProgress := pathProgress
				if reversed {
					timeProgress = 1 - pathProgress
				}

				ticks = append(ticks, TickPoint{
					Time:         spanStart + timeProgress*s.SpanDuration,
					Pos:          s.path.PointAt(pathProgress),
					Kind:         PointTick,
					SpanIndex:    span,
					PathProgress: pathProgress,
				})
			}
		}

		if reversed {
			for i, j := 0, len(ticks)-1; i < j; i, j = i+1, j-1 {
				ticks[i], ticks[j] = ticks[j], ticks[i]
			}
		}

		s.ScorePoints = append(s.ScorePoints, ticks...)

		if span < s.RepeatCount-1 {
			progress := 1.0
			if reversed {
				progress = 0
			}

			s.ScorePoints = append(s.ScorePoints, TickPoint{
				Time:         spanStart + s.SpanDuration,
				Pos:          s.path.PointAt(progress),
				Kind:         PointRepeat,
				SpanIndex:    span,
				PathProgress: progress,
			})
		}
	}

	endProgress := 1.0
	if s.RepeatCount%2 == 0 {
		endProgress = 0
	}

	s.ScorePoints = append(s.ScorePoints, TickPoint{
		Time:         s.EndTime,
		Pos:          s.path.PointAt(endProgress),
		Kind:         PointTail,
		SpanIndex:    s.RepeatCount - 1,
		PathProgress: endProgress,
	})
}

// GetPathProgressAt returns the progress along the path at time, accounting for repeats
func (s *Slider) GetPathProgressAt(time float64) float64 {
	if s.SpanDuration <= 0 {
		return 0
	}

	t := min(max(time-s.StartTime, 0), s.EndTime-s.StartTime) / s.SpanDuration

	span := math.Floor(t)
	progress := t - span

	if span >= float64(s.RepeatCount) {
		span = float64(s.RepeatCount - 1)
		progress = 1
	}

	if int(span)%2 == 1 {
		progress = 1 - progress
	}

	return progress
}

func (s *Slider) GetPositionAt(time float64) vector.Vector2f {
	if s.path == nil {
		return s.StartPosition
	}

	return s.path.PointAt(s.GetPathProgressAt(time))
}

// GetPositionAtProgress returns the path position at progress in [0, 1]
func (s *Slider) GetPositionAtProgress(progress float64) vector.Vector2f {
	if s.path == nil {
		return s.StartPosition
	}

	return s.path.PointAt(progress)
}

func (s *Slider) GetStackedPositionAtMod(time float64, mods difficulty.Modifier) vector.Vector2f {
	return modifyPosition(s.GetPositionAt(time), mods).Add(s.StackOffset)
}

func (s *Slider) GetStackedPositionAtProgressMod(progress float64, mods difficulty.Modifier) vector.Vector2f {
	return modifyPosition(s.GetPositionAtProgress(progress), mods).Add(s.StackOffset)
}

// Span count excluding the first one
func (s *Slider) Repeats() int {
	return s.RepeatCount - 1
}

func (s *Slider) TickCount() int {
	count := 0

	for _, p := range s.ScorePoints {
		if p.Kind == PointTick {
			count++
		}
	}

	return count
}

func (s *Slider) Path() *curves.Path {
	return s.path
}

func (s *Slider) Copy() IHitObject {
	slider := *s
	return &slider
}
