package pp241007

import (
	"math"

	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/rulesets/api"
	"github.com/wieku/danser-pp/app/rulesets/hitresults"
	"github.com/wieku/danser-pp/app/rulesets/osu/performance/pp241007/skills"
	"github.com/wieku/danser-pp/framework/math/mutils"
)

const (
	PerformanceBaseMultiplier float64 = 1.15
)

/* ------------------------------------------------------------- */
/* pp calc                                                       */

// PPv2 : structure to store ppv2 values
type PPv2 struct {
	attribs *api.OsuAttributes

	scoreMaxCombo      int
	countGreat         int
	countOk            int
	countMeh           int
	countMiss          int
	effectiveMissCount float64

	// Lazer slider judgements, only meaningful without classic slider accuracy
	countSliderEndsDropped int
	countLargeTickMiss     int

	usingClassicSliderAccuracy bool

	diff *difficulty.Difficulty

	totalHits                    int
	accuracy                     float64
	amountHitObjectsWithAccuracy int
}

func NewPPCalculator() api.IPerformanceCalculator {
	return &PPv2{}
}

func (pp *PPv2) Calculate(attribs api.DifficultyAttributes, state api.ScoreState, diff *difficulty.Difficulty) api.PerformanceAttributes {
	attr := attribs.Osu
	if attr == nil {
		attr = &api.OsuAttributes{}
	}

	modSet := diff.ModifierSet()

	pp.attribs = attr
	pp.diff = diff
	pp.totalHits = state.N300 + state.N100 + state.N50 + state.Misses
	pp.scoreMaxCombo = state.MaxCombo
	pp.countGreat = state.N300
	pp.countOk = state.N100
	pp.countMeh = state.N50
	pp.countMiss = state.Misses
	pp.usingClassicSliderAccuracy = modSet.Classic()
	pp.accuracy = hitresults.OsuAccuracy(state, attr, modSet.Lazer(), diff.CheckModActive(difficulty.Classic))

	pp.countSliderEndsDropped = 0
	pp.countLargeTickMiss = 0

	if !pp.usingClassicSliderAccuracy {
		pp.countSliderEndsDropped = max(0, attr.Sliders-state.SliderEndHits)
		pp.countLargeTickMiss = max(0, attr.LargeTicks-state.LargeTickHits)
	}

	pp.effectiveMissCount = pp.calculateEffectiveMissCount()

	if pp.usingClassicSliderAccuracy {
		pp.amountHitObjectsWithAccuracy = attr.Circles
	} else {
		pp.amountHitObjectsWithAccuracy = attr.Circles + attr.Sliders
	}

	result := &api.OsuPerformance{
		Difficulty: attr,
		State:      state,
	}

	if pp.totalHits == 0 {
		return api.PerformanceAttributes{Mode: beatmap.ModeOsu, Osu: result}
	}

	// total pp

	multiplier := PerformanceBaseMultiplier

	if diff.Mods.Active(difficulty.NoFail) {
		multiplier *= max(0.90, 1.0-0.02*pp.effectiveMissCount)
	}

	if diff.Mods.Active(difficulty.SpunOut) {
		multiplier *= 1.0 - math.Pow(float64(attr.Spinners)/float64(pp.totalHits), 0.85)
	}

	if diff.Mods.Active(difficulty.Relax) {
		okMultiplier := 1.0
		mehMultiplier := 1.0

		if attr.OD > 0.0 {
			okMultiplier = max(0.0, 1-math.Pow(attr.OD/13.33, 1.8))
			mehMultiplier = max(0.0, 1-math.Pow(attr.OD/13.33, 5))
		}

		pp.effectiveMissCount = min(pp.effectiveMissCount+float64(pp.countOk)*okMultiplier+float64(pp.countMeh)*mehMultiplier, float64(pp.totalHits))
	}

	result.Aim = pp.computeAimValue()
	result.Speed = pp.computeSpeedValue()
	result.Acc = pp.computeAccuracyValue()
	result.Flashlight = pp.computeFlashlightValue()
	result.EffectiveMissCount = pp.effectiveMissCount

	result.Total = math.Pow(
		math.Pow(result.Aim, 1.1)+
			math.Pow(result.Speed, 1.1)+
			math.Pow(result.Acc, 1.1)+
			math.Pow(result.Flashlight, 1.1),
		1.0/1.1,
	) * multiplier

	return api.PerformanceAttributes{Mode: beatmap.ModeOsu, Osu: result}
}

func (pp *PPv2) lengthBonus() float64 {
	lengthBonus := 0.95 + 0.4*min(1.0, float64(pp.totalHits)/2000.0)
	if pp.totalHits > 2000 {
		lengthBonus += math.Log10(float64(pp.totalHits)/2000.0) * 0.5
	}

	return lengthBonus
}

func (pp *PPv2) computeAimValue() float64 {
	if pp.diff.CheckModActive(difficulty.Relax2) {
		return 0
	}

	aimValue := skills.DefaultDifficultyToPerformance(pp.attribs.Aim)

	// Longer maps are worth more
	lengthBonus := pp.lengthBonus()

	aimValue *= lengthBonus

	if pp.effectiveMissCount > 0 {
		aimValue *= pp.calculateMissPenalty(pp.effectiveMissCount, pp.attribs.AimDifficultStrainCount)
	}

	approachRateFactor := 0.0
	if pp.attribs.AR > 10.33 {
		approachRateFactor = 0.3 * (pp.attribs.AR - 10.33)
	} else if pp.attribs.AR < 8.0 {
		approachRateFactor = 0.05 * (8.0 - pp.attribs.AR)
	}

	if pp.diff.CheckModActive(difficulty.Relax) {
		approachRateFactor = 0.0
	}

	aimValue *= 1.0 + approachRateFactor*lengthBonus

	// We want to give more reward for lower AR when it comes to aim and HD. This nerfs high AR and buffs lower AR.
	if pp.diff.Mods.Active(difficulty.Hidden) {
		aimValue *= 1.0 + 0.04*(12.0-pp.attribs.AR)
	}

	// We assume 15% of sliders in a map are difficult since there's no way to tell from the performance calculator.
	estimateDifficultSliders := float64(pp.attribs.Sliders) * 0.15

	if pp.attribs.Sliders > 0 {
		var estimateImproperlyFollowed float64

		if pp.usingClassicSliderAccuracy {
			maximumPossibleDroppedSliders := pp.countOk + pp.countMeh + pp.countMiss
			estimateImproperlyFollowed = mutils.Clamp(float64(min(maximumPossibleDroppedSliders, pp.attribs.MaxCombo-pp.scoreMaxCombo)), 0, estimateDifficultSliders)
		} else {
			estimateImproperlyFollowed = mutils.Clamp(float64(pp.countSliderEndsDropped+pp.countLargeTickMiss), 0, estimateDifficultSliders)
		}

		sliderNerfFactor := (1-pp.attribs.SliderFactor)*math.Pow(1-estimateImproperlyFollowed/estimateDifficultSliders, 3) + pp.attribs.SliderFactor
		aimValue *= sliderNerfFactor
	}

	aimValue *= pp.accuracy
	// It is important to also consider accuracy difficulty when doing that
	aimValue *= 0.98 + math.Pow(pp.attribs.OD, 2)/2500

	return aimValue
}

func (pp *PPv2) computeSpeedValue() float64 {
	if pp.diff.CheckModActive(difficulty.Relax) {
		return 0
	}

	speedValue := skills.DefaultDifficultyToPerformance(pp.attribs.Speed)

	lengthBonus := pp.lengthBonus()

	speedValue *= lengthBonus

	if pp.effectiveMissCount > 0 {
		speedValue *= pp.calculateMissPenalty(pp.effectiveMissCount, pp.attribs.SpeedDifficultStrainCount)
	}

	approachRateFactor := 0.0
	if pp.attribs.AR > 10.33 && !pp.diff.CheckModActive(difficulty.Relax2) {
		approachRateFactor = 0.3 * (pp.attribs.AR - 10.33)
	}

	speedValue *= 1.0 + approachRateFactor*lengthBonus

	if pp.diff.Mods.Active(difficulty.Hidden) {
		speedValue *= 1.0 + 0.04*(12.0-pp.attribs.AR)
	}

	relevantAccuracy := 0.0
	if pp.attribs.SpeedNoteCount != 0 {
		relevantTotalDiff := float64(pp.totalHits) - pp.attribs.SpeedNoteCount
		relevantCountGreat := max(0, float64(pp.countGreat)-relevantTotalDiff)
		relevantCountOk := max(0, float64(pp.countOk)-max(0, relevantTotalDiff-float64(pp.countGreat)))
		relevantCountMeh := max(0, float64(pp.countMeh)-max(0, relevantTotalDiff-float64(pp.countGreat)-float64(pp.countOk)))
		relevantAccuracy = (relevantCountGreat*6.0 + relevantCountOk*2.0 + relevantCountMeh) / (pp.attribs.SpeedNoteCount * 6.0)
	}

	// Scale the speed value with accuracy and OD
	speedValue *= (0.95 + math.Pow(pp.attribs.OD, 2)/750) * math.Pow((pp.accuracy+relevantAccuracy)/2.0, (14.5-pp.attribs.OD)/2)

	// Scale the speed value with # of 50s to punish doubletapping.
	if float64(pp.countMeh) >= float64(pp.totalHits)/500 {
		speedValue *= math.Pow(0.99, float64(pp.countMeh)-float64(pp.totalHits)/500.0)
	}

	return speedValue
}

func (pp *PPv2) computeAccuracyValue() float64 {
	if pp.diff.Mods.Active(difficulty.Relax) {
		return 0.0
	}

	// This percentage only considers HitCircles of any value - in this part of the calculation we focus on hitting the timing hit window
	betterAccuracyPercentage := 0.0

	if pp.amountHitObjectsWithAccuracy > 0 {
		betterAccuracyPercentage = float64((pp.countGreat-(pp.totalHits-pp.amountHitObjectsWithAccuracy))*6+pp.countOk*2+pp.countMeh) / (float64(pp.amountHitObjectsWithAccuracy) * 6)
	}

	// It is possible to reach a negative accuracy with this formula. Cap it at zero - zero points
	betterAccuracyPercentage = max(0, betterAccuracyPercentage)

	// Lots of arbitrary values from testing.
	accuracyValue := math.Pow(1.52163, pp.attribs.OD) * math.Pow(betterAccuracyPercentage, 24) * 2.83

	// Bonus for many hitcircles - it's harder to keep good accuracy up for longer
	accuracyValue *= min(1.15, math.Pow(float64(pp.amountHitObjectsWithAccuracy)/1000.0, 0.3))

	if pp.diff.Mods.Active(difficulty.Hidden) {
		accuracyValue *= 1.08
	}

	if pp.diff.Mods.Active(difficulty.Flashlight) {
		accuracyValue *= 1.02
	}

	return accuracyValue
}

func (pp *PPv2) computeFlashlightValue() float64 {
	if !pp.diff.Mods.Active(difficulty.Flashlight) {
		return 0
	}

	flashlightValue := skills.FlashlightDifficultyToPerformance(pp.attribs.Flashlight)

	// Penalize misses by assessing # of misses relative to the total # of objects. Default a 3% reduction for any # of misses.
	if pp.effectiveMissCount > 0 {
		flashlightValue *= 0.97 * math.Pow(1-math.Pow(pp.effectiveMissCount/float64(pp.totalHits), 0.775), math.Pow(pp.effectiveMissCount, 0.875))
	}

	flashlightValue *= pp.getComboScalingFactor()

	// Account for shorter maps having a higher ratio of 0 combo/100 combo flashlight radius.
	scale := 0.7 + 0.1*min(1.0, float64(pp.totalHits)/200.0)
	if pp.totalHits > 200 {
		scale += 0.2 * min(1.0, float64(pp.totalHits-200)/200.0)
	}

	flashlightValue *= scale

	// Scale the flashlight value with accuracy _slightly_.
	flashlightValue *= 0.5 + pp.accuracy/2.0
	// It is important to also consider accuracy difficulty when doing that.
	flashlightValue *= 0.98 + math.Pow(pp.attribs.OD, 2)/2500

	return flashlightValue
}

func (pp *PPv2) calculateEffectiveMissCount() float64 {
	// guess the number of misses + slider breaks from combo
	comboBasedMissCount := 0.0

	if pp.attribs.Sliders > 0 {
		if pp.usingClassicSliderAccuracy {
			fullComboThreshold := float64(pp.attribs.MaxCombo) - 0.1*float64(pp.attribs.Sliders)
			if float64(pp.scoreMaxCombo) < fullComboThreshold {
				comboBasedMissCount = fullComboThreshold / max(1.0, float64(pp.scoreMaxCombo))
			}

			// Clamp miss count to maximum amount of possible breaks
			comboBasedMissCount = min(comboBasedMissCount, float64(pp.countOk+pp.countMeh+pp.countMiss))
		} else {
			fullComboThreshold := float64(pp.attribs.MaxCombo - pp.countSliderEndsDropped)
			if float64(pp.scoreMaxCombo) < fullComboThreshold {
				comboBasedMissCount = fullComboThreshold / max(1.0, float64(pp.scoreMaxCombo))
			}

			comboBasedMissCount = min(comboBasedMissCount, float64(pp.countLargeTickMiss+pp.countMiss))
		}
	}

	return max(float64(pp.countMiss), comboBasedMissCount)
}

// calculateMissPenalty keeps the logarithm positive, maps with at most one difficult strain would otherwise yield NaN
func (pp *PPv2) calculateMissPenalty(missCount, difficultStrainCount float64) float64 {
	logCount := max(math.Log(difficultStrainCount), 1e-3)
	return 0.96 / ((missCount / (4 * math.Pow(logCount, 0.94))) + 1)
}

func (pp *PPv2) getComboScalingFactor() float64 {
	if pp.attribs.MaxCombo <= 0 {
		return 1.0
	}

	return min(math.Pow(float64(pp.scoreMaxCombo), 0.8)/math.Pow(float64(pp.attribs.MaxCombo), 0.8), 1.0)
}
