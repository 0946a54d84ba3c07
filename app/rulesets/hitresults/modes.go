package hitresults

import (
	"github.com/pkg/errors"
	"github.com/wieku/danser-pp/app/rulesets/api"
)

// Partial is a score state with some counts left out. Nil fields get inferred.
type Partial struct {
	// Accuracy in [0, 1]
	Accuracy *float64

	Combo *int

	NGeki  *int
	NKatu  *int
	N300   *int
	N100   *int
	N50    *int
	Misses *int

	LargeTickHits *int
	SmallTickHits *int
	SliderEndHits *int

	Priority api.HitResultPriority
}

func (p *Partial) problem(tiers []Tier, total int) Problem {
	pr := Problem{
		Tiers: tiers,
		Total: total,
	}

	if p.Accuracy != nil {
		pr.Accuracy = *p.Accuracy
		pr.HasTarget = true
	}

	return pr
}

func tier(value float64, count *int) Tier {
	if count == nil {
		return Tier{Value: value}
	}

	return Tier{Value: value, Count: *count, Known: true}
}

func valueOr(v *int, def int) int {
	if v == nil {
		return def
	}

	return *v
}

func resolveCombo(p *Partial, maxCombo, misses int) (int, error) {
	if p.Combo == nil {
		return max(maxCombo-misses, 0), nil
	}

	if *p.Combo < 0 || *p.Combo > maxCombo {
		return 0, errors.Wrapf(ErrInconsistentState, "combo %d outside of [0, %d]", *p.Combo, maxCombo)
	}

	return *p.Combo, nil
}

func clampCount(name string, v *int, limit int) (int, error) {
	if v == nil {
		return limit, nil
	}

	if *v < 0 || *v > limit {
		return 0, errors.Wrapf(ErrInconsistentState, "%s %d outside of [0, %d]", name, *v, limit)
	}

	return *v, nil
}

// Osu resolves a standard score state. With lazer scoring slider ends and ticks count towards accuracy,
// unless classic is set, then ends are treated as small ticks.
func Osu(attr *api.OsuAttributes, p Partial, lazer, classic bool) (api.ScoreState, error) {
	misses := valueOr(p.Misses, 0)

	pr := p.problem([]Tier{
		tier(300, p.N300),
		tier(100, p.N100),
		tier(50, p.N50),
		{Value: 0, Count: misses, Known: true},
	}, attr.ObjectCount)

	state := api.ScoreState{}

	var err error

	if lazer {
		if state.LargeTickHits, err = clampCount("large tick hits", p.LargeTickHits, attr.LargeTicks); err != nil {
			return api.ScoreState{}, err
		}

		if classic {
			if state.SmallTickHits, err = clampCount("small tick hits", p.SmallTickHits, attr.Sliders); err != nil {
				return api.ScoreState{}, err
			}
		} else if state.SliderEndHits, err = clampCount("slider end hits", p.SliderEndHits, attr.Sliders); err != nil {
			return api.ScoreState{}, err
		}

		pr.ExtraValue, pr.ExtraMax = osuSliderValues(state, attr, lazer, classic)
	}

	counts, err := Solve(pr, p.Priority)
	if err != nil {
		return api.ScoreState{}, errors.Wrap(err, "osu")
	}

	state.N300, state.N100, state.N50, state.Misses = counts[0], counts[1], counts[2], counts[3]

	if state.MaxCombo, err = resolveCombo(&p, attr.MaxCombo, state.Misses); err != nil {
		return api.ScoreState{}, err
	}

	return state, nil
}

func osuSliderValues(state api.ScoreState, attr *api.OsuAttributes, lazer, classic bool) (value, maxValue float64) {
	switch {
	case !lazer:
		return 0, 0
	case classic:
		value = 30*float64(state.LargeTickHits) + 10*float64(state.SmallTickHits)
		maxValue = 30*float64(attr.LargeTicks) + 10*float64(attr.Sliders)
	default:
		value = 30*float64(state.LargeTickHits) + 150*float64(state.SliderEndHits)
		maxValue = 30*float64(attr.LargeTicks) + 150*float64(attr.Sliders)
	}

	return
}

// OsuAccuracy returns accuracy in [0, 1] of a standard score
func OsuAccuracy(state api.ScoreState, attr *api.OsuAttributes, lazer, classic bool) float64 {
	total := state.N300 + state.N100 + state.N50 + state.Misses
	if total == 0 {
		return 0
	}

	sliderValue, sliderMax := osuSliderValues(state, attr, lazer, classic)

	numerator := 300*float64(state.N300) + 100*float64(state.N100) + 50*float64(state.N50) + sliderValue
	denominator := 300*float64(total) + sliderMax

	return numerator / denominator
}

// Taiko resolves a taiko score state, drum rolls and swells don't take part
func Taiko(attr *api.TaikoAttributes, p Partial) (api.ScoreState, error) {
	misses := valueOr(p.Misses, 0)

	pr := p.problem([]Tier{
		tier(2, p.N300),
		tier(1, p.N100),
		{Value: 0, Count: misses, Known: true},
	}, attr.MaxCombo)

	counts, err := Solve(pr, p.Priority)
	if err != nil {
		return api.ScoreState{}, errors.Wrap(err, "taiko")
	}

	state := api.ScoreState{N300: counts[0], N100: counts[1], Misses: counts[2]}

	if state.MaxCombo, err = resolveCombo(&p, attr.MaxCombo, state.Misses); err != nil {
		return api.ScoreState{}, err
	}

	return state, nil
}

func TaikoAccuracy(state api.ScoreState) float64 {
	total := state.N300 + state.N100 + state.Misses
	if total == 0 {
		return 0
	}

	return (float64(state.N300) + 0.5*float64(state.N100)) / float64(total)
}

// Catch resolves a catch score state: N300 are fruits, N100 droplets, N50 tiny droplets
// and NKatu missed tiny droplets. Misses are taken from fruits first.
func Catch(attr *api.CatchAttributes, p Partial) (api.ScoreState, error) {
	misses := valueOr(p.Misses, 0)
	if misses < 0 || misses > attr.MaxCombo() {
		return api.ScoreState{}, errors.Wrapf(ErrInconsistentState, "catch: misses %d outside of [0, %d]", misses, attr.MaxCombo())
	}

	fruits := attr.Fruits - min(misses, attr.Fruits)
	if p.N300 != nil {
		fruits = *p.N300
	}

	droplets := attr.Droplets - (misses - (attr.Fruits - fruits))
	if p.N100 != nil {
		droplets = *p.N100
	}

	if fruits < 0 || fruits > attr.Fruits || droplets < 0 || droplets > attr.Droplets {
		return api.ScoreState{}, errors.Wrapf(ErrInconsistentState, "catch: %d fruits and %d droplets don't fit the beatmap", fruits, droplets)
	}

	if fruits+droplets+misses != attr.MaxCombo() {
		return api.ScoreState{}, errors.Wrapf(ErrInconsistentState, "catch: %d fruits, %d droplets and %d misses don't add up to %d", fruits, droplets, misses, attr.MaxCombo())
	}

	pr := p.problem([]Tier{
		tier(1, p.N50),
		tier(0, p.NKatu),
	}, attr.TinyDroplets)

	pr.ExtraValue = float64(fruits + droplets)
	pr.ExtraMax = float64(attr.MaxCombo())

	counts, err := Solve(pr, p.Priority)
	if err != nil {
		return api.ScoreState{}, errors.Wrap(err, "catch")
	}

	state := api.ScoreState{
		N300:   fruits,
		N100:   droplets,
		N50:    counts[0],
		NKatu:  counts[1],
		Misses: misses,
	}

	if state.MaxCombo, err = resolveCombo(&p, attr.MaxCombo(), misses); err != nil {
		return api.ScoreState{}, err
	}

	return state, nil
}

func CatchAccuracy(state api.ScoreState) float64 {
	total := state.N300 + state.N100 + state.N50 + state.NKatu + state.Misses
	if total == 0 {
		return 0
	}

	return float64(state.N300+state.N100+state.N50) / float64(total)
}

// ManiaJudgements returns the number of judgements of a mania map, lazer judges hold note heads and tails separately
func ManiaJudgements(attr *api.ManiaAttributes, lazer bool) int {
	if lazer {
		return attr.ObjectCount + attr.HoldNotes
	}

	return attr.ObjectCount
}

func maniaPerfectValue(lazer bool) float64 {
	if lazer {
		return 305
	}

	return 300
}

// Mania resolves a mania score state, NGeki are perfect hits and NKatu are 200s
func Mania(attr *api.ManiaAttributes, p Partial, lazer bool) (api.ScoreState, error) {
	misses := valueOr(p.Misses, 0)

	pr := p.problem([]Tier{
		tier(maniaPerfectValue(lazer), p.NGeki),
		tier(300, p.N300),
		tier(200, p.NKatu),
		tier(100, p.N100),
		tier(50, p.N50),
		{Value: 0, Count: misses, Known: true},
	}, ManiaJudgements(attr, lazer))

	counts, err := Solve(pr, p.Priority)
	if err != nil {
		return api.ScoreState{}, errors.Wrap(err, "mania")
	}

	state := api.ScoreState{
		NGeki:  counts[0],
		N300:   counts[1],
		NKatu:  counts[2],
		N100:   counts[3],
		N50:    counts[4],
		Misses: counts[5],
	}

	if state.MaxCombo, err = resolveCombo(&p, attr.MaxCombo, state.Misses); err != nil {
		return api.ScoreState{}, err
	}

	return state, nil
}

func ManiaAccuracy(state api.ScoreState, lazer bool) float64 {
	total := state.TotalHits()
	if total == 0 {
		return 0
	}

	numerator := maniaPerfectValue(lazer)*float64(state.NGeki) + 300*float64(state.N300) +
		200*float64(state.NKatu) + 100*float64(state.N100) + 50*float64(state.N50)

	return numerator / (maniaPerfectValue(lazer) * float64(total))
}
