package performance

import (
	"math"

	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/rulesets/api"
	"github.com/wieku/danser-pp/app/rulesets/hitresults"
)

type PPv2 struct{}

func NewPPCalculator() api.IPerformanceCalculator {
	return &PPv2{}
}

func (pp *PPv2) Calculate(attribs api.DifficultyAttributes, state api.ScoreState, diff *difficulty.Difficulty) api.PerformanceAttributes {
	attr := attribs.Catch
	if attr == nil {
		attr = &api.CatchAttributes{}
	}

	result := &api.CatchPerformance{
		Difficulty: attr,
		State:      state,
	}

	totalComboHits := state.N300 + state.N100 + state.Misses
	if totalComboHits == 0 {
		return api.PerformanceAttributes{Mode: beatmap.ModeCatch, Catch: result}
	}

	value := math.Pow(5*max(1, attr.Total/0.0049)-4, 2) / 100000

	lengthBonus := 0.95 + 0.3*min(1, float64(totalComboHits)/2500)
	if totalComboHits > 2500 {
		lengthBonus += math.Log10(float64(totalComboHits)/2500) * 0.475
	}

	value *= lengthBonus

	value *= math.Pow(0.97, float64(state.Misses))

	if maxCombo := attr.MaxCombo(); maxCombo > 0 {
		value *= min(math.Pow(float64(state.MaxCombo), 0.8)/math.Pow(float64(maxCombo), 0.8), 1)
	}

	ar := attr.AR

	arFactor := 1.0
	if ar > 9 {
		arFactor += 0.1 * (ar - 9)
	}

	if ar > 10 {
		arFactor += 0.1 * (ar - 10)
	} else if ar < 8 {
		arFactor += 0.025 * (8 - ar)
	}

	value *= arFactor

	if diff.Mods.Active(difficulty.Hidden) {
		if ar <= 10 {
			value *= 1.05 + 0.075*(10-ar)
		} else {
			value *= 1.01 + 0.04*(11-min(11, ar))
		}
	}

	if diff.Mods.Active(difficulty.Flashlight) {
		value *= 1.35 * lengthBonus
	}

	value *= math.Pow(hitresults.CatchAccuracy(state), 5.5)

	if diff.Mods.Active(difficulty.NoFail) {
		value *= max(0.9, 1-0.02*float64(state.Misses))
	}

	result.Total = value

	return api.PerformanceAttributes{Mode: beatmap.ModeCatch, Catch: result}
}
