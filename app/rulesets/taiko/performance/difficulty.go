package performance

import (
	"math"

	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/beatmap/objects"
	"github.com/wieku/danser-pp/app/rulesets/api"
	base "github.com/wieku/danser-pp/app/rulesets/skills"
	"github.com/wieku/danser-pp/framework/math/mutils"
)

const (
	CurrentVersion int = 20241007

	difficultyMultiplier = 0.084375

	rhythmRatingMultiplier  = 0.2 * difficultyMultiplier
	colourRatingMultiplier  = 0.375 * difficultyMultiplier
	staminaRatingMultiplier = 0.375 * difficultyMultiplier
	readingRatingMultiplier = 0.1 * difficultyMultiplier
)

type DifficultyCalculator struct{}

func NewDifficultyCalculator() api.IDifficultyCalculator {
	return &DifficultyCalculator{}
}

type skillsProcessor struct {
	Stamina             *staminaSkill
	SingleColourStamina *staminaSkill
	Rhythm              *rhythmSkill
	Colour              *decayingSkill
	Reading             *decayingSkill
}

func newSkillsProcessor() *skillsProcessor {
	return &skillsProcessor{
		Stamina:             newStaminaSkill(false),
		SingleColourStamina: newStaminaSkill(true),
		Rhythm:              newRhythmSkill(),
		Colour:              newColourSkill(),
		Reading:             newReadingSkill(),
	}
}

func (skills *skillsProcessor) Process(current *difficultyObject) {
	skills.Stamina.Process(current)
	skills.SingleColourStamina.Process(current)
	skills.Rhythm.Process(current)
	skills.Colour.Process(current)
	skills.Reading.Process(current)
}

// combinedDifficulty weights sections where several skills peak together
func (skills *skillsProcessor) combinedDifficulty() float64 {
	colourPeaks := skills.Colour.GetCurrentStrainPeaks()
	rhythmPeaks := skills.Rhythm.GetCurrentStrainPeaks()
	staminaPeaks := skills.Stamina.GetCurrentStrainPeaks()
	readingPeaks := skills.Reading.GetCurrentStrainPeaks()

	combined := make([]float64, 0, len(colourPeaks))

	for i := range colourPeaks {
		peak := mutils.Norm(1.5, colourPeaks[i]*colourRatingMultiplier, staminaPeaks[i]*staminaRatingMultiplier)
		peak = mutils.Norm(2, peak, rhythmPeaks[i]*rhythmRatingMultiplier, readingPeaks[i]*readingRatingMultiplier)

		combined = append(combined, peak)
	}

	return base.WeightedSum(combined, base.DefaultDecayWeight)
}

func rescale(stars float64) float64 {
	if stars < 0 {
		return stars
	}

	return 10.43 * math.Log(stars/8+1)
}

func (diffCalc *DifficultyCalculator) getStars(skills *skillsProcessor, isConvert bool, attr api.TaikoAttributes) api.TaikoAttributes {
	colourRating := skills.Colour.DifficultyValue() * colourRatingMultiplier
	rhythmRating := skills.Rhythm.DifficultyValue() * rhythmRatingMultiplier
	staminaRating := skills.Stamina.DifficultyValue() * staminaRatingMultiplier
	monoStaminaRating := skills.SingleColourStamina.DifficultyValue() * staminaRatingMultiplier
	readingRating := skills.Reading.DifficultyValue() * readingRatingMultiplier

	monoStaminaFactor := 1.0
	if staminaRating > 0 {
		monoStaminaFactor = math.Pow(monoStaminaRating/staminaRating, 5)
	}

	combinedRating := skills.combinedDifficulty()
	starRating := rescale(combinedRating * 1.4)

	// Converts can be played with more than two fingers per colour
	if isConvert {
		starRating *= 0.925

		if colourRating < 2 && staminaRating > 8 {
			starRating *= 0.80
		}
	}

	attr.Total = starRating
	attr.Stamina = staminaRating
	attr.Rhythm = rhythmRating
	attr.Colour = colourRating
	attr.Reading = readingRating
	attr.Peak = combinedRating
	attr.MonoStaminaFactor = monoStaminaFactor

	return attr
}

func baseAttributes(bMap *beatmap.Beatmap, diff *difficulty.Difficulty) api.TaikoAttributes {
	great, ok := diff.TaikoWindows()

	return api.TaikoAttributes{
		GreatHitWindow: great,
		OkHitWindow:    ok,
		IsConvert:      bMap.IsConvert,
	}
}

func addObjectToAttribs(o objects.IHitObject, attr *api.TaikoAttributes) {
	if _, ok := o.(*objects.Circle); ok {
		attr.ObjectCount++
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
	return "2024-10-07: colour patterns, mono stamina and scroll speed reading"
}

func clampPassed(passedObjects, total int) int {
	if passedObjects < 0 {
		return total
	}

	return min(passedObjects, total)
}
