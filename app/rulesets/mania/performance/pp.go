package performance

import (
	"math"

	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/rulesets/api"
)

type PPv2 struct{}

func NewPPCalculator() api.IPerformanceCalculator {
	return &PPv2{}
}

func (pp *PPv2) Calculate(attribs api.DifficultyAttributes, state api.ScoreState, diff *difficulty.Difficulty) api.PerformanceAttributes {
	attr := attribs.Mania
	if attr == nil {
		attr = &api.ManiaAttributes{}
	}

	result := &api.ManiaPerformance{
		Difficulty: attr,
		State:      state,
	}

	totalHits := state.TotalHits()
	if totalHits == 0 {
		return api.PerformanceAttributes{Mode: beatmap.ModeMania, Mania: result}
	}

	multiplier := 8.0

	if diff.Mods.Active(difficulty.NoFail) {
		multiplier *= 0.75
	}

	if diff.Mods.Active(difficulty.Easy) {
		multiplier *= 0.5
	}

	result.Diff = math.Pow(max(attr.Total-0.15, 0.05), 2.2) *
		max(0, 5*customAccuracy(state)-4) * // every percent above 80% is worth a twentieth
		(1 + 0.1*min(1, float64(totalHits)/1500))

	result.Total = result.Diff * multiplier

	return api.PerformanceAttributes{Mode: beatmap.ModeMania, Mania: result}
}

// customAccuracy weights perfect hits above greats regardless of the client's scoring
func customAccuracy(state api.ScoreState) float64 {
	total := state.TotalHits()
	if total == 0 {
		return 0
	}

	return (float64(state.NGeki)*320 + float64(state.N300)*300 + float64(state.NKatu)*200 +
		float64(state.N100)*100 + float64(state.N50)*50) / (float64(total) * 320)
}
