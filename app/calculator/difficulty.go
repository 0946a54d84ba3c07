package calculator

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/rulesets/api"
)

// Difficulty calculates star ratings and strains of beatmaps with fixed arguments
type Difficulty struct {
	args Args
}

func NewDifficulty(args Args) *Difficulty {
	return &Difficulty{args: args}
}

func (d *Difficulty) Args() Args {
	return d.args
}

// Calculate returns the attributes of the map, or of its first PassedObjects objects.
// Empty maps yield zero attributes of the map's mode.
func (d *Difficulty) Calculate(bMap *beatmap.Beatmap) (api.DifficultyAttributes, error) {
	converted, diff, err := d.args.resolve(bMap)
	if err != nil {
		return api.DifficultyAttributes{}, err
	}

	calc, err := difficultyCalculator(converted.Mode)
	if err != nil {
		return api.DifficultyAttributes{}, err
	}

	log.Debug("Calculating difficulty", "mode", converted.Mode, "mods", diff.ModifierSet().String(), "clock", diff.Speed)

	startTime := time.Now()

	attr := calc.CalculateSingle(converted, diff, d.args.passed())

	log.Debug("Difficulty calculated", "stars", attr.Stars(), "took", time.Since(startTime).Truncate(time.Microsecond))

	return attr, nil
}

// Strains returns the per-section peaks of every skill
func (d *Difficulty) Strains(bMap *beatmap.Beatmap) (api.Strains, error) {
	converted, diff, err := d.args.resolve(bMap)
	if err != nil {
		return api.Strains{}, err
	}

	calc, err := difficultyCalculator(converted.Mode)
	if err != nil {
		return api.Strains{}, err
	}

	return calc.CalculateStrainPeaks(converted, diff, d.args.passed()), nil
}

// Gradual prepares a calculator returning attributes after every object
func (d *Difficulty) Gradual(bMap *beatmap.Beatmap) (*GradualDifficulty, error) {
	converted, diff, err := d.args.resolve(bMap)
	if err != nil {
		return nil, err
	}

	calc, err := difficultyCalculator(converted.Mode)
	if err != nil {
		return nil, err
	}

	return newGradualDifficulty(calc.NewGradual(converted, diff), d.args.passed()), nil
}

// GradualPerformance prepares a calculator returning performance after every object
func (d *Difficulty) GradualPerformance(bMap *beatmap.Beatmap) (*GradualPerformance, error) {
	converted, diff, err := d.args.resolve(bMap)
	if err != nil {
		return nil, err
	}

	calc, err := difficultyCalculator(converted.Mode)
	if err != nil {
		return nil, err
	}

	ppCalc, err := performanceCalculator(converted.Mode)
	if err != nil {
		return nil, err
	}

	return &GradualPerformance{
		difficulty: newGradualDifficulty(calc.NewGradual(converted, diff), d.args.passed()),
		calc:       ppCalc,
		diff:       diff,
	}, nil
}
