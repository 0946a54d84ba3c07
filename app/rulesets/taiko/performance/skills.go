package performance

import (
	"math"

	base "github.com/wieku/danser-pp/app/rulesets/skills"
)

type skill = base.Skill[*difficultyObject]

const (
	staminaSkillMultiplier = 1.1
	staminaStrainDecayBase = 0.4

	colourSkillMultiplier = 0.12
	colourStrainDecayBase = 0.8

	readingSkillMultiplier = 1.0
	readingStrainDecayBase = 0.4

	rhythmStrainDecay      = 0.96
	rhythmHistoryMaxLength = 8
)

func strainDecay(decayBase, ms float64) float64 {
	return math.Pow(decayBase, ms/1000)
}

// decayingSkill adds the evaluated value to an exponentially decaying strain
type decayingSkill struct {
	*skill

	currentStrain float64
}

func newDecayingSkill(evaluate func(*difficultyObject) float64, multiplier, decayBase float64) *decayingSkill {
	s := &decayingSkill{skill: base.NewSkill[*difficultyObject]()}

	s.StrainValueOf = func(current *difficultyObject) float64 {
		s.currentStrain *= strainDecay(decayBase, current.DeltaTime)
		s.currentStrain += evaluate(current) * multiplier

		return s.currentStrain
	}

	s.CalculateInitialStrain = func(time float64, current *difficultyObject) float64 {
		prev := current.Previous(0)
		if prev == nil {
			return 0
		}

		return s.currentStrain * strainDecay(decayBase, time-prev.StartTime)
	}

	return s
}

func newColourSkill() *decayingSkill {
	return newDecayingSkill(evaluateColour, colourSkillMultiplier, colourStrainDecayBase)
}

func newReadingSkill() *decayingSkill {
	return newDecayingSkill(evaluateReading, readingSkillMultiplier, readingStrainDecayBase)
}

type staminaSkill struct {
	*decayingSkill

	singleColour bool
}

// newStaminaSkill with singleColour only keeps strain of long single colour streams
func newStaminaSkill(singleColour bool) *staminaSkill {
	s := &staminaSkill{
		decayingSkill: newDecayingSkill(evaluateStamina, staminaSkillMultiplier, staminaStrainDecayBase),
		singleColour:  singleColour,
	}

	if !singleColour {
		return s
	}

	strainValueOf := s.StrainValueOf

	s.StrainValueOf = func(current *difficultyObject) float64 {
		strain := strainValueOf(current)

		index := 0
		if ms := current.Colour.MonoStreak; ms != nil {
			index = indexOf(ms.Notes, current)
		}

		return strain / (1 + math.Exp(-float64(index-10)/2.0))
	}

	s.CalculateInitialStrain = nil

	return s
}

func indexOf(list []*difficultyObject, obj *difficultyObject) int {
	for i, o := range list {
		if o == obj {
			return i
		}
	}

	return 0
}

type rhythmSkill struct {
	*skill

	currentStrain          float64
	notesSinceRhythmChange int

	history []*difficultyObject
}

func newRhythmSkill() *rhythmSkill {
	s := &rhythmSkill{skill: base.NewSkill[*difficultyObject]()}
	s.StrainValueOf = s.strainValueOf

	return s
}

func (s *rhythmSkill) strainValueOf(current *difficultyObject) float64 {
	// Drum rolls and swells reset rhythm
	if !current.IsHit {
		s.reset()
		return 0
	}

	s.currentStrain *= rhythmStrainDecay
	s.notesSinceRhythmChange++

	if current.Rhythm.difficulty == 0 {
		return 0
	}

	strain := current.Rhythm.difficulty
	strain *= s.repetitionPenalties(current)
	strain *= patternLengthPenalty(s.notesSinceRhythmChange)
	strain *= s.speedPenalty(current.DeltaTime)

	s.notesSinceRhythmChange = 0

	s.currentStrain += strain

	return s.currentStrain
}

func (s *rhythmSkill) reset() {
	s.currentStrain = 0
	s.notesSinceRhythmChange = 0
}

// repetitionPenalties lowers strain of rhythm changes repeating recent ones
func (s *rhythmSkill) repetitionPenalties(current *difficultyObject) float64 {
	penalty := 1.0

	s.history = append(s.history, current)
	if len(s.history) > rhythmHistoryMaxLength {
		s.history = s.history[1:]
	}

	for length := 2; length <= rhythmHistoryMaxLength/2; length++ {
		for start := len(s.history) - length - 1; start >= 0; start-- {
			if !s.samePattern(start, length) {
				continue
			}

			notesSince := current.Index - s.history[start].Index
			penalty *= min(1.0, 0.032*float64(notesSince))

			break
		}
	}

	return penalty
}

func (s *rhythmSkill) samePattern(start, length int) bool {
	for i := range length {
		if s.history[start+i].Rhythm != s.history[len(s.history)-length+i].Rhythm {
			return false
		}
	}

	return true
}

func patternLengthPenalty(length int) float64 {
	short := min(0.15*float64(length), 1.0)
	long := min(max(2.5-0.15*float64(length), 0.0), 1.0)

	return min(short, long)
}

func (s *rhythmSkill) speedPenalty(deltaTime float64) float64 {
	if deltaTime < 80 {
		return 1
	}

	if deltaTime < 210 {
		return max(0, 1.4-0.005*deltaTime)
	}

	s.reset()

	return 0
}
