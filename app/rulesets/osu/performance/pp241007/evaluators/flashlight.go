package evaluators

import (
	"math"

	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/rulesets/osu/performance/pp241007/preprocessing"
)

const (
	maxOpacityBonus    float64 = 0.4
	hiddenBonus        float64 = 0.2
	minVelocity        float64 = 0.5
	flSliderMultiplier float64 = 1.3
	minAngleMultiplier float64 = 0.2
)

// EvaluateFlashlight evaluates the difficulty of memorising and hitting an object, based on:
//   - distance between the previous and current object,
//   - the visual opacity of the current object,
//   - length and speed of the current object (for sliders),
//   - and whether the hidden mod is enabled.
func EvaluateFlashlight(current *preprocessing.DifficultyObject) float64 {
	if current.IsSpinner {
		return 0
	}

	hidden := current.Diff.CheckModActive(difficulty.Hidden)

	scalingFactor := 52.0 / current.Diff.CircleRadiusU

	smallDistNerf := 1.0
	cumulativeStrainTime := 0.0

	result := 0.0

	lastObj := current

	angleRepeatCount := 0.0

	currentPos := current.BaseObject.GetStackedStartPositionMod(current.Diff.Mods)

	// This is iterating backwards in time from the current object.
	for i := 0; i < min(current.Index, 10); i++ {
		currentObj := current.Previous(i)

		cumulativeStrainTime += lastObj.StrainTime

		if !currentObj.IsSpinner {
			jumpDistance := float64(currentPos.Dst(currentObj.BaseObject.GetStackedEndPositionMod(current.Diff.Mods)))

			// We want to nerf objects that can be easily seen within the Flashlight circle radius.
			if i == 0 {
				smallDistNerf = min(1.0, jumpDistance/75.0)
			}

			// We also want to nerf stacks so that only the first object of the stack is accounted for.
			stackNerf := min(1.0, (currentObj.LazyJumpDistance/scalingFactor)/25.0)

			// Bonus based on how visible the object is.
			opacityBonus := 1.0 + maxOpacityBonus*(1.0-current.OpacityAt(currentObj.BaseObject.GetStartTime(), hidden))

			result += stackNerf * opacityBonus * scalingFactor * jumpDistance / cumulativeStrainTime

			if !math.IsNaN(currentObj.Angle) && !math.IsNaN(current.Angle) {
				// Objects further back in time should count less for the nerf.
				if math.Abs(currentObj.Angle-current.Angle) < 0.02 {
					angleRepeatCount += max(1.0-0.1*float64(i), 0.0)
				}
			}
		}

		lastObj = currentObj
	}

	result = math.Pow(smallDistNerf*result, 2.0)

	// Additional bonus for Hidden due to there being no approach circles.
	if hidden {
		result *= 1.0 + hiddenBonus
	}

	// Nerf patterns with repeated angles.
	result *= minAngleMultiplier + (1.0-minAngleMultiplier)/(angleRepeatCount+1.0)

	sliderBonus := 0.0

	if slider, ok := current.BaseObject.(*preprocessing.LazySlider); ok {
		// Invert the scaling factor to determine the true travel distance independent of circle size.
		pixelTravelDistance := float64(slider.LazyTravelDistance) / scalingFactor

		// Reward sliders based on velocity.
		sliderBonus = math.Pow(max(0.0, pixelTravelDistance/current.TravelTime-minVelocity), 0.5)

		// Longer sliders require more memorisation.
		sliderBonus *= pixelTravelDistance

		// Nerf sliders with repeats, as less memorisation is required.
		if repeats := slider.Repeats(); repeats > 0 {
			sliderBonus /= float64(repeats + 1)
		}
	}

	result += sliderBonus * flSliderMultiplier

	return result
}
