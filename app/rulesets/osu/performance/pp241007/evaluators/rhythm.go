package evaluators

import (
	"math"

	"github.com/wieku/danser-pp/app/rulesets/osu/performance/pp241007/preprocessing"
	"github.com/wieku/danser-pp/framework/math/mutils"
)

const (
	historyTimeMax          = 5 * 1000 // 5 seconds
	historyObjectsMax       = 32
	rhythmOverallMultiplier = 0.95
	rhythmRatioMultiplier   = 12.0
)

// island is a group of notes with similar delta times
type island struct {
	delta      int
	deltaCount int
	epsilon    float64
}

func newEmptyIsland(epsilon float64) *island {
	return &island{delta: math.MaxInt, epsilon: epsilon}
}

func newIsland(delta int, epsilon float64) *island {
	return &island{delta: max(delta, preprocessing.MinDeltaTime), deltaCount: 1, epsilon: epsilon}
}

func (is *island) addDelta(delta int) {
	if is.delta == math.MaxInt {
		is.delta = max(delta, preprocessing.MinDeltaTime)
	}

	is.deltaCount++
}

func (is *island) isSimilarPolarity(other *island) bool {
	// Single delta islands shouldn't be compared
	return is.deltaCount%2 == other.deltaCount%2
}

func (is *island) equals(other *island) bool {
	return math.Abs(float64(is.delta-other.delta)) < is.epsilon && is.deltaCount == other.deltaCount
}

type islandCount struct {
	island *island
	count  int
}

// EvaluateRhythm calculates a rhythm multiplier for the difficulty of the tap associated with historic data of the current object.
func EvaluateRhythm(current *preprocessing.DifficultyObject) float64 {
	if current.IsSpinner {
		return 0
	}

	rhythmComplexitySum := 0.0

	deltaDifferenceEpsilon := current.GreatWindow * 0.3

	currentIsland := newEmptyIsland(deltaDifferenceEpsilon)
	previousIsland := newEmptyIsland(deltaDifferenceEpsilon)

	var islandCounts []islandCount

	// store the ratio of the current start of an island to buff for tighter rhythms
	startRatio := 0.0

	firstDeltaSwitch := false

	historicalNoteCount := min(current.Index, historyObjectsMax)

	rhythmStart := 0

	for rhythmStart < historicalNoteCount-2 && current.StartTime-current.Previous(rhythmStart).StartTime < historyTimeMax {
		rhythmStart++
	}

	prevObj := current.Previous(rhythmStart)
	lastObj := current.Previous(rhythmStart + 1)

	if prevObj == nil || lastObj == nil {
		return 1
	}

	// we go from the furthest object back to the current one
	for i := rhythmStart; i > 0; i-- {
		currObj := current.Previous(i - 1)

		// scales note 0 to 1 from history to now
		timeDecay := (historyTimeMax - (current.StartTime - currObj.StartTime)) / historyTimeMax
		noteDecay := float64(historicalNoteCount-i) / float64(historicalNoteCount)

		// either we're limited by time or limited by object count.
		currHistoricalDecay := min(noteDecay, timeDecay)

		currDelta := currObj.StrainTime
		prevDelta := prevObj.StrainTime
		lastDelta := lastObj.StrainTime

		// calculate how much current delta difference deserves a rhythm bonus
		// this function is meant to reduce rhythm bonus for deltas that are multiples of each other (i.e 100 and 200)
		deltaDifferenceRatio := min(prevDelta, currDelta) / max(prevDelta, currDelta)
		currRatio := 1.0 + rhythmRatioMultiplier*min(0.5, math.Pow(math.Sin(math.Pi/deltaDifferenceRatio), 2))

		// reduce ratio bonus if delta difference is too big
		fraction := max(prevDelta/currDelta, currDelta/prevDelta)
		fractionMultiplier := mutils.Clamp(2.0-fraction/8.0, 0.0, 1.0)

		windowPenalty := min(1, max(0, math.Abs(prevDelta-currDelta)-deltaDifferenceEpsilon)/deltaDifferenceEpsilon)

		effectiveRatio := windowPenalty * currRatio * fractionMultiplier

		if firstDeltaSwitch {
			if math.Abs(prevDelta-currDelta) < deltaDifferenceEpsilon {
				// island is still progressing
				currentIsland.addDelta(int(currDelta))
			} else {
				// bpm change is into slider, this is easy acc window
				if currObj.IsSlider {
					effectiveRatio *= 0.125
				}

				// bpm change was from a slider, this is easier typically than circle -> circle
				// unintentional side effect is that bursts with kicksliders at the ends might have lower difficulty than bursts without sliders
				if prevObj.IsSlider {
					effectiveRatio *= 0.3
				}

				// repeated island polarity (2 -> 4, 3 -> 5)
				if currentIsland.isSimilarPolarity(previousIsland) {
					effectiveRatio *= 0.5
				}

				// previous increase happened a note ago, 1/1->1/2-1/4, dont want to buff this.
				if lastDelta > prevDelta+deltaDifferenceEpsilon && prevDelta > currDelta+deltaDifferenceEpsilon {
					effectiveRatio *= 0.125
				}

				// repeated island size (ex: triplet -> triplet)
				if previousIsland.deltaCount == currentIsland.deltaCount {
					effectiveRatio *= 0.5
				}

				found := -1

				for j, c := range islandCounts {
					if c.island.equals(currentIsland) {
						found = j
						break
					}
				}

				if found >= 0 {
					// only add island to island counts if they're going one after another
					if previousIsland.equals(currentIsland) {
						islandCounts[found].count++
					}

					// repeated island (ex: triplet -> triplet)
					power := mutils.Logistic(float64(currentIsland.delta), 2.75, 0.24, 58.33)
					count := float64(islandCounts[found].count)

					effectiveRatio *= min(3.0/count, math.Pow(1.0/count, power))
				} else {
					islandCounts = append(islandCounts, islandCount{island: currentIsland, count: 1})
				}

				// scale down the difficulty if the object is doubletappable
				doubletapness := prevObj.GetDoubletapness(currObj)
				effectiveRatio *= 1 - doubletapness*0.75

				rhythmComplexitySum += math.Sqrt(effectiveRatio*startRatio) * currHistoricalDecay

				startRatio = effectiveRatio

				previousIsland = currentIsland

				// we're slowing down, stop counting
				if prevDelta+deltaDifferenceEpsilon < currDelta {
					// if we're speeding up, this stays true and we keep counting island size.
					firstDeltaSwitch = false
				}

				currentIsland = newIsland(int(currDelta), deltaDifferenceEpsilon)
			}
		} else if prevDelta > currDelta+deltaDifferenceEpsilon {
			// we're speeding up.
			// Begin counting island until we change speed again.
			firstDeltaSwitch = true

			// bpm change is into slider, this is easy acc window
			if currObj.IsSlider {
				effectiveRatio *= 0.6
			}

			// bpm change was from a slider, this is easier typically than circle -> circle
			if prevObj.IsSlider {
				effectiveRatio *= 0.6
			}

			startRatio = effectiveRatio

			currentIsland = newIsland(int(currDelta), deltaDifferenceEpsilon)
		}

		lastObj = prevObj
		prevObj = currObj
	}

	// produces multiplier that can be applied to strain. range [1, infinity) (not really though)
	return math.Sqrt(4+rhythmComplexitySum*rhythmOverallMultiplier) / 2
}
