package performance

import (
	"math"

	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/rulesets/api"
)

const (
	CurrentVersion int = 20220701

	starScalingFactor = 0.153
)

// difficultyObject describes the move from Last to Base
type difficultyObject struct {
	Base *catchObject
	Last *catchObject

	StartTime     float64
	LastStartTime float64
	DeltaTime     float64
	StrainTime    float64

	NormalizedPosition     float64
	LastNormalizedPosition float64
}

func (o *difficultyObject) GetStartTime() float64 {
	return o.StartTime
}

func createDifficultyObjects(combo []*catchObject, diff *difficulty.Difficulty) []*difficultyObject {
	halfCatcherWidth := catchWidth(diff.CS) * 0.5

	// Above CS 5.5 the catcher shrinks a bit more to simulate imperfect play
	halfCatcherWidth *= 1 - max(0, diff.CS-5.5)*0.0625

	scalingFactor := normalizedHitObjectRadius / halfCatcherWidth

	result := make([]*difficultyObject, 0, max(0, len(combo)-1))

	for i := 1; i < len(combo); i++ {
		current, last := combo[i], combo[i-1]

		deltaTime := (current.StartTime - last.StartTime) / diff.Speed

		result = append(result, &difficultyObject{
			Base:                   current,
			Last:                   last,
			StartTime:              current.StartTime / diff.Speed,
			LastStartTime:          last.StartTime / diff.Speed,
			DeltaTime:              deltaTime,
			StrainTime:             max(40, deltaTime),
			NormalizedPosition:     float64(current.EffectiveX()) * scalingFactor,
			LastNormalizedPosition: float64(last.EffectiveX()) * scalingFactor,
		})
	}

	return result
}

type DifficultyCalculator struct{}

func NewDifficultyCalculator() api.IDifficultyCalculator {
	return &DifficultyCalculator{}
}

func (diffCalc *DifficultyCalculator) getStars(movement *movementSkill, attr api.CatchAttributes) api.CatchAttributes {
	attr.Total = math.Sqrt(movement.DifficultyValue()) * starScalingFactor
	return attr
}

// CalculateSingle calculates the final difficulty attributes of a map, passedObjects counts fruits and droplets
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
	return "2022-07-01: movement with edge dash bonus"
}

func clampPassed(passedObjects, total int) int {
	if passedObjects < 0 {
		return total
	}

	return min(passedObjects, total)
}
