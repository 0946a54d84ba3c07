package performance

import (
	"math"

	base "github.com/wieku/danser-pp/app/rulesets/skills"
)

const (
	individualDecayBase = 0.125
	overallDecayBase    = 0.30
	releaseThreshold    = 30.0
)

// strainSkill tracks the strain of every column and of the whole keyboard
type strainSkill struct {
	*base.Skill[*difficultyObject]

	startTimes        []float64
	endTimes          []float64
	individualStrains []float64

	individualStrain float64
	overallStrain    float64
}

func newStrainSkill(keys int) *strainSkill {
	s := &strainSkill{
		Skill:             base.NewSkill[*difficultyObject](),
		startTimes:        make([]float64, keys),
		endTimes:          make([]float64, keys),
		individualStrains: make([]float64, keys),
		overallStrain:     1,
	}

	s.StrainValueOf = s.strainValueOf

	s.CalculateInitialStrain = func(time float64, current *difficultyObject) float64 {
		delta := time - current.PrevStartTime

		return applyDecay(s.individualStrain, delta, individualDecayBase) + applyDecay(s.overallStrain, delta, overallDecayBase)
	}

	return s
}

func applyDecay(value, deltaTime, decayBase float64) float64 {
	return value * math.Pow(decayBase, deltaTime/1000)
}

func definitelyBigger(a, b float64) bool {
	return a-b > 1
}

func (s *strainSkill) strainValueOf(current *difficultyObject) float64 {
	startTime, endTime, column := current.StartTime, current.EndTime, current.Column

	isOverlapping := false

	closestEndTime := math.Abs(endTime - startTime)

	holdFactor := 1.0
	holdAddition := 0.0

	for i := range s.endTimes {
		// Another note is still held over the body of the current one
		isOverlapping = isOverlapping || (definitelyBigger(s.endTimes[i], startTime) &&
			definitelyBigger(endTime, s.endTimes[i]) && definitelyBigger(startTime, s.startTimes[i]))

		if definitelyBigger(s.endTimes[i], endTime) && definitelyBigger(startTime, s.startTimes[i]) {
			holdFactor = 1.25
		}

		closestEndTime = min(closestEndTime, math.Abs(endTime-s.endTimes[i]))
	}

	// Awkward releases only count when no other note ends at a similar time
	if isOverlapping {
		holdAddition = 1 / (1 + math.Exp(0.27*(releaseThreshold-closestEndTime)))
	}

	s.individualStrains[column] = applyDecay(s.individualStrains[column], startTime-s.startTimes[column], individualDecayBase)
	s.individualStrains[column] += 2.0 * holdFactor

	// Chords take the hardest column
	if current.DeltaTime <= 1 {
		s.individualStrain = max(s.individualStrain, s.individualStrains[column])
	} else {
		s.individualStrain = s.individualStrains[column]
	}

	s.overallStrain = applyDecay(s.overallStrain, current.DeltaTime, overallDecayBase)
	s.overallStrain += (1 + holdAddition) * holdFactor

	s.startTimes[column] = startTime
	s.endTimes[column] = endTime

	return s.individualStrain + s.overallStrain
}
