package performance

import (
	"math"
	"sort"

	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/objects"
)

type difficultyObject struct {
	Base objects.IHitObject

	Column int

	StartTime float64
	EndTime   float64
	DeltaTime float64

	PrevStartTime float64
}

func (o *difficultyObject) GetStartTime() float64 {
	return o.StartTime
}

func keyCount(bMap *beatmap.Beatmap) int {
	return max(1, int(math.Round(bMap.CS)))
}

// sortedNotes orders objects by time, notes at the same time stay in map order
func sortedNotes(bMap *beatmap.Beatmap) []objects.IHitObject {
	notes := make([]objects.IHitObject, len(bMap.HitObjects))
	copy(notes, bMap.HitObjects)

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].GetStartTime() < notes[j].GetStartTime()
	})

	return notes
}

func createDifficultyObjects(notes []objects.IHitObject, keys int, clockRate float64) []*difficultyObject {
	result := make([]*difficultyObject, 0, max(0, len(notes)-1))

	for i := 1; i < len(notes); i++ {
		current, last := notes[i], notes[i-1]

		result = append(result, &difficultyObject{
			Base:          current,
			Column:        objects.ManiaColumn(current.GetStartPosition().X, keys),
			StartTime:     current.GetStartTime() / clockRate,
			EndTime:       current.GetEndTime() / clockRate,
			DeltaTime:     (current.GetStartTime() - last.GetStartTime()) / clockRate,
			PrevStartTime: last.GetStartTime() / clockRate,
		})
	}

	return result
}
