package performance

import (
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/beatmap/objects"
	"github.com/wieku/danser-pp/app/rulesets/api"
)

const (
	CurrentVersion int = 20220902

	starScalingFactor = 0.018
)

type DifficultyCalculator struct{}

func NewDifficultyCalculator() api.IDifficultyCalculator {
	return &DifficultyCalculator{}
}

func (diffCalc *DifficultyCalculator) getStars(strain *strainSkill, attr api.ManiaAttributes) api.ManiaAttributes {
	attr.Total = strain.DifficultyValue() * starScalingFactor
	return attr
}

func baseAttributes(bMap *beatmap.Beatmap, diff *difficulty.Difficulty) api.ManiaAttributes {
	great, _ := diff.ManiaWindows(bMap.IsConvert)

	return api.ManiaAttributes{
		GreatHitWindow: great,
		IsConvert:      bMap.IsConvert,
	}
}

// addObjectToAttribs counts hold notes twice towards combo, heads and tails are judged separately
func addObjectToAttribs(o objects.IHitObject, attr *api.ManiaAttributes) {
	attr.ObjectCount++
	attr.MaxCombo++

	if _, ok := o.(*objects.HoldNote); ok {
		attr.HoldNotes++
		attr.MaxCombo++
	}
}

// CalculateSingle calculates the final difficulty attributes of a map
func (diffCalc *DifficultyCalculator) CalculateSingle(bMap *beatmap.Beatmap, diff *difficulty.Difficulty, passedObjects int) api.DifficultyAttributes {
	gradual := diffCalc.newGradual(bMap, diff)

	for n := clampPassed(passedObjects, gradual.Len()); n > 0; n-- {
		gradual.Advance()
	}

	return gradual.Attributes()
}

func (diffCalc *DifficultyCalculator) CalculateStrainPeaks(bMap *beatmap.Beatmap, diff *difficulty.Difficulty, passedObjects int) api.Strains {
	gradual := diffCalc.newGradual(bMap, diff)

	for n := clampPassed(passedObjects, gradual.Len()); n > 0; n-- {
		gradual.Advance()
	}

	return gradual.Strains()
}

func (diffCalc *DifficultyCalculator) NewGradual(bMap *beatmap.Beatmap, diff *difficulty.Difficulty) api.IGradualDifficulty {
	return diffCalc.newGradual(bMap, diff)
}

func (diffCalc *DifficultyCalculator) GetVersion() int {
	return CurrentVersion
}

func (diffCalc *DifficultyCalculator) GetVersionMessage() string {
	return "2022-09-02: individual and overall strain with release threshold"
}

func clampPassed(passedObjects, total int) int {
	if passedObjects < 0 {
		return total
	}

	return min(passedObjects, total)
}
