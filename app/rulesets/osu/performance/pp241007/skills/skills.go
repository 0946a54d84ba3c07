package skills

import (
	"math"

	"github.com/wieku/danser-pp/app/rulesets/osu/performance/pp241007/preprocessing"
	base "github.com/wieku/danser-pp/app/rulesets/skills"
)

// Skill is a strain skill fed with osu!standard difficulty objects
type Skill = base.Skill[*preprocessing.DifficultyObject]

func newOsuSkill(reducedSectionCount int) *Skill {
	skill := base.NewSkill[*preprocessing.DifficultyObject]()
	skill.ReducedSectionCount = reducedSectionCount
	skill.ReducedStrainBaseline = 0.75

	return skill
}

// DefaultDifficultyToPerformance converts aim or speed rating to performance points
func DefaultDifficultyToPerformance(difficulty float64) float64 {
	return math.Pow(5.0*max(1.0, difficulty/0.0675)-4.0, 3.0) / 100000.0
}

func FlashlightDifficultyToPerformance(difficulty float64) float64 {
	return 25 * math.Pow(difficulty, 2)
}
