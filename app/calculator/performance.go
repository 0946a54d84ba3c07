package calculator

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/rulesets/api"
	"github.com/wieku/danser-pp/app/rulesets/hitresults"
)

// Performance rates a play described by the hit result arguments
type Performance struct {
	args Args
}

func NewPerformance(args Args) *Performance {
	return &Performance{args: args}
}

func (p *Performance) Args() Args {
	return p.args
}

// Calculate computes the difficulty of the map first
func (p *Performance) Calculate(bMap *beatmap.Beatmap) (api.PerformanceAttributes, error) {
	attr, err := NewDifficulty(p.args).Calculate(bMap)
	if err != nil {
		return api.PerformanceAttributes{}, err
	}

	return p.CalculateFromAttributes(attr)
}

// CalculateFromAttributes reuses attributes calculated earlier. They have to come
// from the same mods and overrides, mismatches are not detected.
func (p *Performance) CalculateFromAttributes(attr api.DifficultyAttributes) (api.PerformanceAttributes, error) {
	if attr.Osu == nil && attr.Taiko == nil && attr.Catch == nil && attr.Mania == nil {
		return api.PerformanceAttributes{}, errors.Errorf("attributes of %s carry no values", attr.Mode)
	}

	set, err := p.args.modifierSet()
	if err != nil {
		return api.PerformanceAttributes{}, err
	}

	// Attribute based calculators only need mods and clock rate, base values come from attr
	diff, err := p.args.newDifficulty(difficulty.NewDifficulty(5, 5, 5, 5), set)
	if err != nil {
		return api.PerformanceAttributes{}, err
	}

	partial, err := p.args.partial()
	if err != nil {
		return api.PerformanceAttributes{}, err
	}

	state, err := resolveState(attr, partial, set)
	if err != nil {
		return api.PerformanceAttributes{}, err
	}

	calc, err := performanceCalculator(attr.Mode)
	if err != nil {
		return api.PerformanceAttributes{}, err
	}

	startTime := time.Now()

	perf := calc.Calculate(attr, state, diff)

	log.Debug("Performance calculated", "mode", attr.Mode, "state", state.String(), "pp", perf.PP(), "took", time.Since(startTime).Truncate(time.Microsecond))

	return perf, nil
}

// State resolves the score state the arguments describe without rating it
func (p *Performance) State(attr api.DifficultyAttributes) (api.ScoreState, error) {
	set, err := p.args.modifierSet()
	if err != nil {
		return api.ScoreState{}, err
	}

	partial, err := p.args.partial()
	if err != nil {
		return api.ScoreState{}, err
	}

	return resolveState(attr, partial, set)
}

// Accuracy of the play in percent, judged with the score semantics of the arguments
func (p *Performance) Accuracy(perf api.PerformanceAttributes) (float64, error) {
	set, err := p.args.modifierSet()
	if err != nil {
		return 0, err
	}

	state := perf.State()

	var acc float64

	switch {
	case perf.Osu != nil:
		acc = hitresults.OsuAccuracy(state, perf.Osu.Difficulty, set.Lazer(), set.Classic())
	case perf.Taiko != nil:
		acc = hitresults.TaikoAccuracy(state)
	case perf.Catch != nil:
		acc = hitresults.CatchAccuracy(state)
	case perf.Mania != nil:
		acc = hitresults.ManiaAccuracy(state, set.Lazer())
	default:
		return 0, errors.Errorf("performance of %s carries no values", perf.Mode)
	}

	return acc * 100, nil
}
