package pp241007

import (
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/rulesets/osu/performance/pp241007/preprocessing"
	"github.com/wieku/danser-pp/app/rulesets/osu/performance/pp241007/skills"
)

type SkillsProcessor struct {
	Aim               *skills.AimSkill
	AimWithoutSliders *skills.AimSkill
	Speed             *skills.SpeedSkill
	Flashlight        *skills.Flashlight

	hasFlashlight bool
}

// NewSkillsProcessor creates all skills, flashlight is only processed when forced or with FL active
func NewSkillsProcessor(d *difficulty.Difficulty, forceFlashlight bool) *SkillsProcessor {
	return &SkillsProcessor{
		Aim:               skills.NewAimSkill(true),
		AimWithoutSliders: skills.NewAimSkill(false),
		Speed:             skills.NewSpeedSkill(),
		Flashlight:        skills.NewFlashlightSkill(),
		hasFlashlight:     forceFlashlight || d.CheckModActive(difficulty.Flashlight),
	}
}

func (skills *SkillsProcessor) Process(current *preprocessing.DifficultyObject) {
	skills.Aim.Process(current)
	skills.AimWithoutSliders.Process(current)
	skills.Speed.Process(current)

	if skills.hasFlashlight {
		skills.Flashlight.Process(current)
	}
}
