package performance

import (
	"math"

	base "github.com/wieku/danser-pp/app/rulesets/skills"
)

const (
	movementSectionLength = 750.0
	movementDecayWeight   = 0.94
	movementDecayBase     = 0.2

	absolutePlayerPositioningError = 16.0
	normalizedHitObjectRadius      = 41.0
	directionChangeBonus           = 21.0
)

// movementSkill models catcher travel between consecutive fruits and droplets
type movementSkill struct {
	*base.Skill[*difficultyObject]

	clockRate float64

	currentStrain float64

	hasLast            bool
	lastPlayerPosition float64
	lastDistanceMoved  float64
	lastStrainTime     float64
}

func newMovementSkill(clockRate float64) *movementSkill {
	s := &movementSkill{
		Skill:     base.NewSkill[*difficultyObject](),
		clockRate: clockRate,
	}

	s.SectionLength = movementSectionLength
	s.DecayWeight = movementDecayWeight

	s.StrainValueOf = func(current *difficultyObject) float64 {
		s.currentStrain *= math.Pow(movementDecayBase, current.DeltaTime/1000)
		s.currentStrain += s.strainValueOf(current)

		return s.currentStrain
	}

	s.CalculateInitialStrain = func(time float64, current *difficultyObject) float64 {
		return s.currentStrain * math.Pow(movementDecayBase, (time-current.LastStartTime)/1000)
	}

	return s
}

func (s *movementSkill) strainValueOf(current *difficultyObject) float64 {
	hadLast := s.hasLast

	if !s.hasLast {
		s.lastPlayerPosition = current.LastNormalizedPosition
		s.hasLast = true
	}

	reach := normalizedHitObjectRadius - absolutePlayerPositioningError

	playerPosition := min(max(s.lastPlayerPosition, current.NormalizedPosition-reach), current.NormalizedPosition+reach)
	distanceMoved := playerPosition - s.lastPlayerPosition

	weightedStrainTime := current.StrainTime + 13 + 3/s.clockRate

	distanceAddition := math.Pow(math.Abs(distanceMoved), 1.3) / 510
	sqrtStrain := math.Sqrt(weightedStrainTime)

	edgeDashBonus := 0.0

	if math.Abs(distanceMoved) > 0.1 {
		if hadLast && s.lastDistanceMoved != 0 && math.Signbit(distanceMoved) != math.Signbit(s.lastDistanceMoved) {
			bonusFactor := min(50, math.Abs(distanceMoved)) / 50
			antiflowFactor := max(min(70, math.Abs(s.lastDistanceMoved))/70, 0.38)

			distanceAddition += directionChangeBonus / math.Sqrt(s.lastStrainTime+16) * bonusFactor * antiflowFactor * max(1-math.Pow(weightedStrainTime/1000, 3), 0)
		}

		// Base bonus for every movement, giving some weight to streams
		distanceAddition += 12.5 * min(math.Abs(distanceMoved), normalizedHitObjectRadius*2) / (normalizedHitObjectRadius * 6) / sqrtStrain
	}

	if current.Last.DistanceToHyperDash <= 20 {
		if !current.Last.HyperDash {
			edgeDashBonus += 5.7
		} else {
			// Hyperdashes always land on the fruit
			playerPosition = current.NormalizedPosition
		}

		// Edge dashes are easier at lower ms values
		distanceAddition *= 1 + edgeDashBonus*((20-float64(current.Last.DistanceToHyperDash))/20)*math.Pow(min(current.StrainTime*s.clockRate, 265)/265, 1.5)
	}

	s.lastPlayerPosition = playerPosition
	s.lastDistanceMoved = distanceMoved
	s.lastStrainTime = current.StrainTime

	return distanceAddition / weightedStrainTime
}
