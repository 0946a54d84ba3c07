package objects

import (
	"math"
	"sort"
)

const (
	minSliderVelocity = 0.1
	maxSliderVelocity = 10.0
	defaultBeatLength = 60000.0 / 60
)

type TimingPoint struct {
	Time       float64
	BeatLength float64

	// Uninherited points set the beat length, inherited ones only the slider velocity
	Uninherited bool
	Kiai        bool
}

// SliderVelocity returns the velocity multiplier encoded by an inherited point
func (tp TimingPoint) SliderVelocity() float64 {
	if tp.Uninherited || tp.BeatLength >= 0 || math.IsNaN(tp.BeatLength) {
		return 1
	}

	return min(max(100/-tp.BeatLength, minSliderVelocity), maxSliderVelocity)
}

type Timings struct {
	points []TimingPoint

	timing     []TimingPoint
	difficulty []TimingPoint

	SliderMultiplier float64
	TickRate         float64
	FormatVersion    int
}

func NewTimings(points []TimingPoint, sliderMultiplier, tickRate float64, version int) *Timings {
	t := &Timings{
		SliderMultiplier: sliderMultiplier,
		TickRate:         tickRate,
		FormatVersion:    version,
	}

	sorted := append([]TimingPoint(nil), points...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	t.points = sorted

	for _, p := range sorted {
		if p.Uninherited {
			t.timing = append(t.timing, p)
		}

		// Every line carries a velocity, red lines reset it to 1
		t.difficulty = append(t.difficulty, p)
	}

	return t
}

func (t *Timings) Points() []TimingPoint {
	return t.points
}

// BeatLengthAt returns the beat length of the timing point active at time
func (t *Timings) BeatLengthAt(time float64) float64 {
	point, ok := lookup(t.timing, time)
	if !ok {
		return defaultBeatLength
	}

	return point.BeatLength
}

func (t *Timings) SliderVelocityAt(time float64) float64 {
	point, ok := lookup(t.difficulty, time)
	if !ok || time < point.Time {
		return 1
	}

	return point.SliderVelocity()
}

// TimingPointAt returns the uninherited point active at time
func (t *Timings) TimingPointAt(time float64) TimingPoint {
	point, ok := lookup(t.timing, time)
	if !ok {
		return TimingPoint{BeatLength: defaultBeatLength, Uninherited: true}
	}

	return point
}

// lookup returns the last point at or before time, or the first one if time precedes all points
func lookup(points []TimingPoint, time float64) (TimingPoint, bool) {
	if len(points) == 0 {
		return TimingPoint{}, false
	}

	i := sort.Search(len(points), func(i int) bool { return points[i].Time > time })
	if i == 0 {
		return points[0], true
	}

	return points[i-1], true
}
