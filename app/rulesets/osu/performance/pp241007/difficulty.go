package pp241007

import (
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/beatmap/objects"
	"github.com/wieku/danser-pp/app/rulesets/api"
	"github.com/wieku/danser-pp/app/rulesets/osu/performance/pp241007/preprocessing"
	"github.com/wieku/danser-pp/app/rulesets/osu/performance/pp241007/skills"
	base "github.com/wieku/danser-pp/app/rulesets/skills"
)

const (
	// StarScalingFactor is a global stars multiplier
	StarScalingFactor float64 = 0.0675
	CurrentVersion    int     = 20241007
)

type DifficultyCalculator struct{}

func NewDifficultyCalculator() api.IDifficultyCalculator {
	return &DifficultyCalculator{}
}

// getStarsFromRawValues converts raw skill values to Attributes
func (diffCalc *DifficultyCalculator) getStarsFromRawValues(rawAim, rawAimNoSliders, rawSpeed, rawFlashlight float64, diff *difficulty.Difficulty, attr api.OsuAttributes) api.OsuAttributes {
	aimRating := math.Sqrt(rawAim) * StarScalingFactor
	aimRatingNoSliders := math.Sqrt(rawAimNoSliders) * StarScalingFactor
	speedRating := math.Sqrt(rawSpeed) * StarScalingFactor
	flashlightRating := math.Sqrt(rawFlashlight) * StarScalingFactor

	sliderFactor := 1.0
	if aimRating > 0.00001 {
		sliderFactor = aimRatingNoSliders / aimRating
	}

	if diff.CheckModActive(difficulty.TouchDevice) {
		aimRating = math.Pow(aimRating, 0.8)
		flashlightRating = math.Pow(flashlightRating, 0.8)
	}

	if diff.CheckModActive(difficulty.Relax) {
		aimRating *= 0.9
		speedRating = 0
		flashlightRating *= 0.7
	} else if diff.CheckModActive(difficulty.Relax2) {
		speedRating *= 0.5
		aimRating = 0
		flashlightRating *= 0.4
	}

	baseAimPerformance := skills.DefaultDifficultyToPerformance(aimRating)
	baseSpeedPerformance := skills.DefaultDifficultyToPerformance(speedRating)
	baseFlashlightPerformance := 0.0

	if diff.CheckModActive(difficulty.Flashlight) {
		baseFlashlightPerformance = skills.FlashlightDifficultyToPerformance(flashlightRating)
	}

	basePerformance := math.Pow(
		math.Pow(baseAimPerformance, 1.1)+
			math.Pow(baseSpeedPerformance, 1.1)+
			math.Pow(baseFlashlightPerformance, 1.1),
		1.0/1.1,
	)

	total := 0.0
	if basePerformance > 0.00001 {
		total = math.Cbrt(PerformanceBaseMultiplier) * 0.027 * (math.Cbrt(100000/math.Pow(2, 1/1.1)*basePerformance) + 4)
	}

	attr.Total = total
	attr.Aim = aimRating
	attr.SliderFactor = sliderFactor
	attr.Speed = speedRating
	attr.Flashlight = flashlightRating

	return attr
}

// Retrieves skill values and converts to Attributes
func (diffCalc *DifficultyCalculator) getStars(skills *SkillsProcessor, diff *difficulty.Difficulty, attr api.OsuAttributes) api.OsuAttributes {
	attr = diffCalc.getStarsFromRawValues(
		skills.Aim.DifficultyValue(),
		skills.AimWithoutSliders.DifficultyValue(),
		skills.Speed.DifficultyValue(),
		skills.Flashlight.DifficultyValue(),
		diff,
		attr,
	)

	attr.SpeedNoteCount = skills.Speed.RelevantNoteCount()
	attr.AimDifficultStrainCount = skills.Aim.CountDifficultStrains()
	attr.SpeedDifficultStrainCount = skills.Speed.CountDifficultStrains()

	return attr
}

func (diffCalc *DifficultyCalculator) addObjectToAttribs(o objects.IHitObject, attr *api.OsuAttributes) {
	switch s := o.(type) {
	case *preprocessing.LazySlider:
		attr.Sliders++
		attr.MaxCombo += len(s.ScorePoints)
		attr.LargeTicks += len(s.ScorePoints) - 1
	case *objects.Circle:
		attr.Circles++
	case *objects.Spinner:
		attr.Spinners++
	}

	attr.MaxCombo++
	attr.ObjectCount++
}

func baseAttributes(diff *difficulty.Difficulty) api.OsuAttributes {
	return api.OsuAttributes{
		AR:             diff.ARReal,
		OD:             diff.ODReal,
		HP:             diff.HP,
		GreatHitWindow: diff.Hit300,
		OkHitWindow:    diff.Hit100,
		MehHitWindow:   diff.Hit50,
	}
}

// CalculateSingle calculates the final difficulty attributes of a map
func (diffCalc *DifficultyCalculator) CalculateSingle(bMap *beatmap.Beatmap, diff *difficulty.Difficulty, passedObjects int) api.DifficultyAttributes {
	gradual := diffCalc.newGradual(bMap, diff, false)

	for n := clampPassed(passedObjects, gradual.Len()); n > 0; n-- {
		gradual.Advance()
	}

	return gradual.Attributes()
}

// CalculateStep calculates successive star ratings for every part of a beatmap
func (diffCalc *DifficultyCalculator) CalculateStep(bMap *beatmap.Beatmap, diff *difficulty.Difficulty) []api.DifficultyAttributes {
	log.Debug("Calculating step SR", "mode", bMap.Mode, "mods", diff.ModifierSet().String())

	startTime := time.Now()

	gradual := diffCalc.newGradual(bMap, diff, false)

	stars := make([]api.DifficultyAttributes, 0, gradual.Len())

	for gradual.Processed() < gradual.Len() {
		gradual.Advance()
		stars = append(stars, gradual.Attributes())
	}

	log.Debug("Calculations finished", "took", time.Since(startTime).Truncate(time.Millisecond))

	return stars
}

func (diffCalc *DifficultyCalculator) CalculateStrainPeaks(bMap *beatmap.Beatmap, diff *difficulty.Difficulty, passedObjects int) api.Strains {
	gradual := diffCalc.newGradual(bMap, diff, true)

	for n := clampPassed(passedObjects, gradual.Len()); n > 0; n-- {
		gradual.Advance()
	}

	return gradual.Strains()
}

func (diffCalc *DifficultyCalculator) strainsOf(skills *SkillsProcessor, diff *difficulty.Difficulty) api.Strains {
	peaks := &api.OsuStrains{
		Aim:          skills.Aim.GetCurrentStrainPeaks(),
		AimNoSliders: skills.AimWithoutSliders.GetCurrentStrainPeaks(),
		Speed:        skills.Speed.GetCurrentStrainPeaks(),
		Flashlight:   skills.Flashlight.GetCurrentStrainPeaks(),
	}

	peaks.Total = make([]float64, len(peaks.Aim))

	for i := range peaks.Aim {
		fl := 0.0
		if i < len(peaks.Flashlight) {
			fl = peaks.Flashlight[i]
		}

		stars := diffCalc.getStarsFromRawValues(peaks.Aim[i], peaks.AimNoSliders[i], peaks.Speed[i], fl, diff, api.OsuAttributes{})
		peaks.Total[i] = stars.Total
	}

	return api.Strains{
		Mode:          beatmap.ModeOsu,
		SectionLength: base.DefaultSectionLength,
		Osu:           peaks,
	}
}

func (diffCalc *DifficultyCalculator) NewGradual(bMap *beatmap.Beatmap, diff *difficulty.Difficulty) api.IGradualDifficulty {
	return diffCalc.newGradual(bMap, diff, false)
}

func (diffCalc *DifficultyCalculator) GetVersion() int {
	return CurrentVersion
}

func (diffCalc *DifficultyCalculator) GetVersionMessage() string {
	return "2024-10-07: rhythm islands, acute angle and slider travel changes"
}

func clampPassed(passedObjects, total int) int {
	if passedObjects < 0 {
		return total
	}

	return min(passedObjects, total)
}
