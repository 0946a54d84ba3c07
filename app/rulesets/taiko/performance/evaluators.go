package performance

import (
	"math"

	"github.com/wieku/danser-pp/framework/math/mutils"
)

func sigmoid(value, center, width, middle, height float64) float64 {
	return math.Tanh(math.E*-(value-center)/width)*(height/2) + middle
}

func evaluateMonoStreak(s *monoStreak) float64 {
	return sigmoid(float64(s.Index), 2, 2, 0.5, 1) * evaluateAlternatingPattern(s.Parent) * 0.5
}

func evaluateAlternatingPattern(p *alternatingMonoPattern) float64 {
	return sigmoid(float64(p.Index), 2, 2, 0.5, 1) * evaluateRepeatingPatterns(p.Parent)
}

func evaluateRepeatingPatterns(r *repeatingHitPatterns) float64 {
	return 2 * (1 - sigmoid(float64(r.RepetitionInterval), 2, 2, 0.5, 1))
}

// evaluateColour rewards the first note of every colour pattern
func evaluateColour(current *difficultyObject) float64 {
	colour := current.Colour

	difficulty := 0.0

	if colour.MonoStreak != nil && colour.MonoStreak.first() == current {
		difficulty += evaluateMonoStreak(colour.MonoStreak)
	}

	if colour.Alternating != nil && colour.Alternating.first() == current {
		difficulty += evaluateAlternatingPattern(colour.Alternating)
	}

	if colour.Repeating != nil && colour.Repeating.first() == current {
		difficulty += evaluateRepeatingPatterns(colour.Repeating)
	}

	return difficulty
}

// availableFingers assumes two fingers per colour unless the colour changes nearby
func availableFingers(current *difficultyObject) int {
	if prev := current.Colour.PreviousColourChange(); prev != nil && current.StartTime-prev.StartTime < 300 {
		return 2
	}

	if next := current.Colour.NextColourChange(); next != nil && next.StartTime-current.StartTime < 300 {
		return 2
	}

	return 4
}

func evaluateStamina(current *difficultyObject) float64 {
	if !current.IsHit {
		return 0
	}

	// Previous note pressed with the same finger
	keyPrevious := current.PreviousMono(availableFingers(current) - 1)
	if keyPrevious == nil {
		return 0
	}

	interval := max(current.StartTime-keyPrevious.StartTime, 1)

	return 0.5 + 30/interval
}

var (
	midVelocity  = [2]float64{360, 480}
	highVelocity = [2]float64{480, 640}
)

// evaluateReading rewards fast scrolling notes, dense patterns lower the threshold of high velocity
func evaluateReading(current *difficultyObject) float64 {
	if !current.IsHit || current.EffectiveBPM <= 0 {
		return 0
	}

	density := mutils.Logistic(current.DeltaTime, 1, -0.02, 200)

	midCenter := (midVelocity[0] + midVelocity[1]) / 2
	highCenter := (highVelocity[0]+highVelocity[1])/2 + 8*density

	mid := 0.5 * mutils.Logistic(current.EffectiveBPM, 1, 10/(midVelocity[1]-midVelocity[0]), midCenter)
	high := (1 - 0.33*density) * mutils.Logistic(current.EffectiveBPM, 1, 10/(highVelocity[1]-highVelocity[0]), highCenter)

	return mid + high
}
