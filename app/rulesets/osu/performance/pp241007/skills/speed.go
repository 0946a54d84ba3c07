package skills

import (
	"math"

	"github.com/wieku/danser-pp/app/rulesets/osu/performance/pp241007/evaluators"
	"github.com/wieku/danser-pp/app/rulesets/osu/performance/pp241007/preprocessing"
)

const (
	speedSkillMultiplier float64 = 1.430
	speedStrainDecayBase float64 = 0.3
)

type SpeedSkill struct {
	*Skill

	currentStrain float64
	currentRhythm float64
}

func NewSpeedSkill() *SpeedSkill {
	skill := &SpeedSkill{Skill: newOsuSkill(5)}

	skill.StrainValueOf = skill.speedStrainValue
	skill.CalculateInitialStrain = skill.speedInitialStrain

	return skill
}

func (skill *SpeedSkill) strainDecay(ms float64) float64 {
	return math.Pow(speedStrainDecayBase, ms/1000)
}

func (skill *SpeedSkill) speedInitialStrain(time float64, current *preprocessing.DifficultyObject) float64 {
	return (skill.currentStrain * skill.currentRhythm) * skill.strainDecay(time-current.Previous(0).StartTime)
}

func (skill *SpeedSkill) speedStrainValue(current *preprocessing.DifficultyObject) float64 {
	skill.currentStrain *= skill.strainDecay(current.StrainTime)
	skill.currentStrain += evaluators.EvaluateSpeed(current) * speedSkillMultiplier

	skill.currentRhythm = evaluators.EvaluateRhythm(current)

	return skill.currentStrain * skill.currentRhythm
}

// RelevantNoteCount returns the number of notes weighted by their strain relative to the hardest one
func (skill *SpeedSkill) RelevantNoteCount() float64 {
	strains := skill.ObjectStrains()
	if len(strains) == 0 {
		return 0
	}

	maxStrain := 0.0
	for _, s := range strains {
		maxStrain = max(maxStrain, s)
	}

	if maxStrain == 0 {
		return 0
	}

	sum := 0.0
	for _, s := range strains {
		sum += 1.0 / (1.0 + math.Exp(-(s/maxStrain*12.0 - 6.0)))
	}

	return sum
}
