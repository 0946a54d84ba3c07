package performance

import (
	"math"

	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/rulesets/api"
)

// PPv2 : structure to store ppv2 values
type PPv2 struct {
	attribs *api.TaikoAttributes
	diff    *difficulty.Difficulty

	countGreat int
	countOk    int
	countMeh   int
	countMiss  int

	totalHits          int
	effectiveMissCount float64

	estimatedUnstableRate *float64
}

func NewPPCalculator() api.IPerformanceCalculator {
	return &PPv2{}
}

func (pp *PPv2) Calculate(attribs api.DifficultyAttributes, state api.ScoreState, diff *difficulty.Difficulty) api.PerformanceAttributes {
	attr := attribs.Taiko
	if attr == nil {
		attr = &api.TaikoAttributes{}
	}

	pp.attribs = attr
	pp.diff = diff
	pp.countGreat = state.N300
	pp.countOk = state.N100
	pp.countMeh = state.N50
	pp.countMiss = state.Misses
	pp.totalHits = pp.countGreat + pp.countOk + pp.countMeh + pp.countMiss

	pp.estimatedUnstableRate = nil
	if deviation, ok := pp.computeDeviationUpperBound(); ok {
		ur := deviation * 10
		pp.estimatedUnstableRate = &ur
	}

	pp.effectiveMissCount = 0
	if successful := pp.countGreat + pp.countOk + pp.countMeh; successful > 0 {
		pp.effectiveMissCount = max(1.0, 1000.0/float64(successful)) * float64(pp.countMiss)
	}

	result := &api.TaikoPerformance{
		Difficulty:            attr,
		State:                 state,
		EffectiveMissCount:    pp.effectiveMissCount,
		EstimatedUnstableRate: pp.estimatedUnstableRate,
	}

	if pp.totalHits == 0 {
		return api.PerformanceAttributes{Mode: beatmap.ModeTaiko, Taiko: result}
	}

	multiplier := 1.13

	// Converts don't get hidden bonuses as their difficulty doesn't account for it
	if diff.Mods.Active(difficulty.Hidden) && !attr.IsConvert {
		multiplier *= 1.075
	}

	if diff.Mods.Active(difficulty.Easy) {
		multiplier *= 0.950
	}

	result.Diff = pp.computeDifficultyValue()
	result.Acc = pp.computeAccuracyValue()

	result.Total = math.Pow(math.Pow(result.Diff, 1.1)+math.Pow(result.Acc, 1.1), 1.0/1.1) * multiplier

	return api.PerformanceAttributes{Mode: beatmap.ModeTaiko, Taiko: result}
}

func (pp *PPv2) computeDifficultyValue() float64 {
	baseDifficulty := 5*max(1.0, pp.attribs.Total/0.115) - 4.0

	difficultyValue := min(math.Pow(baseDifficulty, 3)/69052.51, math.Pow(baseDifficulty, 2.25)/1250.0)
	difficultyValue *= 1 + 0.10*max(0, pp.attribs.Total-10)

	lengthBonus := 1 + 0.1*min(1.0, float64(pp.totalHits)/1500.0)
	difficultyValue *= lengthBonus

	difficultyValue *= math.Pow(0.986, pp.effectiveMissCount)

	if pp.diff.Mods.Active(difficulty.Easy) {
		difficultyValue *= 0.90
	}

	if pp.diff.Mods.Active(difficulty.Hidden) {
		difficultyValue *= 1.025
	}

	if pp.diff.Mods.Active(difficulty.HardRock) {
		difficultyValue *= 1.10
	}

	if pp.diff.Mods.Active(difficulty.Flashlight) {
		difficultyValue *= max(1, 1.050-min(pp.attribs.MonoStaminaFactor/50, 1)*lengthBonus)
	}

	if pp.estimatedUnstableRate == nil {
		return 0
	}

	// Scale accuracy more harshly on nearly-completely mono speed maps
	accScalingExponent := 2 + pp.attribs.MonoStaminaFactor
	accScalingShift := 500 - 100*(pp.attribs.MonoStaminaFactor*3)

	return difficultyValue * math.Pow(math.Erf(accScalingShift/(math.Sqrt2 * *pp.estimatedUnstableRate)), accScalingExponent)
}

func (pp *PPv2) computeAccuracyValue() float64 {
	if pp.attribs.GreatHitWindow <= 0 || pp.estimatedUnstableRate == nil {
		return 0
	}

	accuracyValue := math.Pow(70 / *pp.estimatedUnstableRate, 1.1) * math.Pow(pp.attribs.Total, 0.4) * 100.0

	lengthBonus := min(1.15, math.Pow(float64(pp.totalHits)/1500.0, 0.3))

	if pp.diff.Mods.Active(difficulty.Flashlight|difficulty.Hidden) && !pp.attribs.IsConvert {
		accuracyValue *= max(1.0, 1.05*lengthBonus)
	}

	return accuracyValue
}

// computeDeviationUpperBound estimates the hit error deviation we are 99% confident the player doesn't exceed,
// from the share of greats and the great window
func (pp *PPv2) computeDeviationUpperBound() (float64, bool) {
	if pp.countGreat == 0 || pp.attribs.GreatHitWindow <= 0 {
		return 0, false
	}

	const z = 2.32634787404 // one-tailed 99% critical value of the normal distribution

	n := float64(pp.totalHits)
	p := float64(pp.countGreat) / n

	// Wilson score interval lower bound of the great ratio
	pLowerBound := (n*p+z*z/2)/(n+z*z) - z/(n+z*z)*math.Sqrt(n*p*(1-p)+z*z/4)
	if pLowerBound <= 0 {
		return 0, false
	}

	return pp.attribs.GreatHitWindow / (math.Sqrt2 * math.Erfinv(pLowerBound)), true
}
