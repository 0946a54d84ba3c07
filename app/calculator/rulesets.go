package calculator

import (
	"github.com/pkg/errors"
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/rulesets/api"
	catch "github.com/wieku/danser-pp/app/rulesets/catch/performance"
	mania "github.com/wieku/danser-pp/app/rulesets/mania/performance"
	"github.com/wieku/danser-pp/app/rulesets/osu/performance/pp241007"
	taiko "github.com/wieku/danser-pp/app/rulesets/taiko/performance"
)

func difficultyCalculator(mode beatmap.GameMode) (api.IDifficultyCalculator, error) {
	switch mode {
	case beatmap.ModeOsu:
		return pp241007.NewDifficultyCalculator(), nil
	case beatmap.ModeTaiko:
		return taiko.NewDifficultyCalculator(), nil
	case beatmap.ModeCatch:
		return catch.NewDifficultyCalculator(), nil
	case beatmap.ModeMania:
		return mania.NewDifficultyCalculator(), nil
	}

	return nil, errors.Wrapf(beatmap.ErrUnknownMode, "mode id %d", int(mode))
}

// performanceCalculator returns a fresh calculator, they keep state while calculating
func performanceCalculator(mode beatmap.GameMode) (api.IPerformanceCalculator, error) {
	switch mode {
	case beatmap.ModeOsu:
		return pp241007.NewPPCalculator(), nil
	case beatmap.ModeTaiko:
		return taiko.NewPPCalculator(), nil
	case beatmap.ModeCatch:
		return catch.NewPPCalculator(), nil
	case beatmap.ModeMania:
		return mania.NewPPCalculator(), nil
	}

	return nil, errors.Wrapf(beatmap.ErrUnknownMode, "mode id %d", int(mode))
}

// Version returns the version of the difficulty algorithm used for a mode
func Version(mode beatmap.GameMode) (int, string) {
	calc, err := difficultyCalculator(mode)
	if err != nil {
		return 0, ""
	}

	return calc.GetVersion(), calc.GetVersionMessage()
}
