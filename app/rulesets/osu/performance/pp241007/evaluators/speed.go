package evaluators

import (
	"math"

	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/rulesets/osu/performance/pp241007/preprocessing"
	"github.com/wieku/danser-pp/framework/math/mutils"
)

const (
	singleSpacingThreshold float64 = 125.0 // 1.25 circles distance between centers
	minSpeedBonus          float64 = 75.0  // ~200BPM
	speedBalancingFactor   float64 = 40.0
	distanceMultiplier     float64 = 0.94
)

// EvaluateSpeed evaluates the difficulty of tapping the current object, based on:
//   - time between pressing the previous and current object,
//   - distance between those objects,
//   - and how easily they can be cheesed.
func EvaluateSpeed(current *preprocessing.DifficultyObject) float64 {
	if current.IsSpinner {
		return 0
	}

	osuCurrObj := current
	osuPrevObj := current.Previous(0)
	osuNextObj := current.Next(0)

	strainTime := osuCurrObj.StrainTime
	doubletapness := 1.0 - osuCurrObj.GetDoubletapness(osuNextObj)

	// Cap deltatime to the OD 300 hitwindow.
	// 0.93 is derived from making sure 260bpm OD8 streams aren't nerfed harshly, whilst 0.92 limits the effect of the cap.
	strainTime /= mutils.Clamp((strainTime/osuCurrObj.GreatWindow)/0.93, 0.92, 1)

	// speedBonus will be 0.0 for BPM < 200
	speedBonus := 0.0

	// Add additional scaling bonus for streams/bursts higher than 200bpm
	if strainTime < minSpeedBonus {
		speedBonus = 0.75 * math.Pow((minSpeedBonus-strainTime)/speedBalancingFactor, 2)
	}

	travelDistance := 0.0
	if osuPrevObj != nil {
		travelDistance = osuPrevObj.TravelDistance
	}

	distance := min(singleSpacingThreshold, travelDistance+osuCurrObj.MinimumJumpDistance)

	// Max distance bonus is 1 * `distance_multiplier` at single_spacing_threshold
	distanceBonus := math.Pow(distance/singleSpacingThreshold, 3.95) * distanceMultiplier

	if current.Diff.CheckModActive(difficulty.Relax2) {
		distanceBonus = 0
	}

	// Base difficulty with all bonuses
	return (1 + speedBonus + distanceBonus) * 1000 / strainTime * doubletapness
}
