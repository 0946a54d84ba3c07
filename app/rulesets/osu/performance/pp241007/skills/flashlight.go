package skills

import (
	"math"

	"github.com/wieku/danser-pp/app/rulesets/osu/performance/pp241007/evaluators"
	"github.com/wieku/danser-pp/app/rulesets/osu/performance/pp241007/preprocessing"
)

const (
	flashlightSkillMultiplier float64 = 0.05512
	flashlightStrainDecayBase float64 = 0.15
)

type Flashlight struct {
	*Skill

	currentStrain float64
}

func NewFlashlightSkill() *Flashlight {
	skill := &Flashlight{Skill: newOsuSkill(0)}

	skill.StrainValueOf = skill.flashlightStrainValue
	skill.CalculateInitialStrain = skill.flashlightInitialStrain

	return skill
}

func (skill *Flashlight) strainDecay(ms float64) float64 {
	return math.Pow(flashlightStrainDecayBase, ms/1000)
}

func (skill *Flashlight) flashlightInitialStrain(time float64, current *preprocessing.DifficultyObject) float64 {
	return skill.currentStrain * skill.strainDecay(time-current.Previous(0).StartTime)
}

func (skill *Flashlight) flashlightStrainValue(current *preprocessing.DifficultyObject) float64 {
	skill.currentStrain *= skill.strainDecay(current.DeltaTime)
	skill.currentStrain += evaluators.EvaluateFlashlight(current) * flashlightSkillMultiplier

	return skill.currentStrain
}

// DifficultyValue is the plain sum of peaks, flashlight rewards length
func (skill *Flashlight) DifficultyValue() float64 {
	sum := 0.0

	for _, p := range skill.GetCurrentStrainPeaks() {
		sum += p
	}

	return sum
}
