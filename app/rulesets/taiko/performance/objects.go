package performance

import (
	"math"

	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/objects"
)

type hitKind int

const (
	don hitKind = iota
	kat
)

func kindOf(o objects.IHitObject) hitKind {
	if o.GetHitSound()&(objects.SoundWhistle|objects.SoundClap) > 0 {
		return kat
	}

	return don
}

// rhythm is a common ratio between consecutive delta times
type rhythm struct {
	ratio      float64
	difficulty float64
}

var commonRhythms = []rhythm{
	{1, 0.0},
	{2.0 / 1.0, 0.3},
	{1.0 / 2.0, 0.5},
	{3.0 / 1.0, 0.3},
	{1.0 / 3.0, 0.35},
	{3.0 / 2.0, 0.6},
	{2.0 / 3.0, 0.4},
	{5.0 / 4.0, 0.5},
	{4.0 / 5.0, 0.7},
}

func closestRhythm(ratio float64) rhythm {
	best := commonRhythms[0]

	for _, r := range commonRhythms[1:] {
		if math.Abs(r.ratio-ratio) < math.Abs(best.ratio-ratio) {
			best = r
		}
	}

	return best
}

type difficultyObject struct {
	Index int

	// NoteIndex and MonoIndex are -1 for drum rolls and swells
	NoteIndex int
	MonoIndex int

	Base  objects.IHitObject
	IsHit bool
	Kind  hitKind

	StartTime float64
	DeltaTime float64

	Rhythm rhythm

	// EffectiveBPM is the scroll speed of the note expressed in beats per minute
	EffectiveBPM float64

	Colour colourData

	all   []*difficultyObject
	notes []*difficultyObject
	mono  []*difficultyObject
}

func (o *difficultyObject) GetStartTime() float64 {
	return o.StartTime
}

func (o *difficultyObject) Previous(backwards int) *difficultyObject {
	return at(o.all, o.Index-(backwards+1))
}

func (o *difficultyObject) PreviousNote(backwards int) *difficultyObject {
	if o.NoteIndex < 0 {
		return nil
	}

	return at(o.notes, o.NoteIndex-(backwards+1))
}

func (o *difficultyObject) NextNote(forwards int) *difficultyObject {
	if o.NoteIndex < 0 {
		return nil
	}

	return at(o.notes, o.NoteIndex+forwards+1)
}

// PreviousMono returns an earlier note of the same colour
func (o *difficultyObject) PreviousMono(backwards int) *difficultyObject {
	if o.MonoIndex < 0 {
		return nil
	}

	return at(o.mono, o.MonoIndex-(backwards+1))
}

func at(list []*difficultyObject, i int) *difficultyObject {
	if i < 0 || i >= len(list) {
		return nil
	}

	return list[i]
}

// createDifficultyObjects skips the first object, it has no delta time
func createDifficultyObjects(bMap *beatmap.Beatmap, clockRate float64) []*difficultyObject {
	hitObjects := bMap.HitObjects

	if len(hitObjects) < 2 {
		return nil
	}

	all := make([]*difficultyObject, 0, len(hitObjects)-1)

	var notes []*difficultyObject
	var monos [2][]*difficultyObject

	for i := 1; i < len(hitObjects); i++ {
		current, last := hitObjects[i], hitObjects[i-1]

		obj := &difficultyObject{
			Index:     len(all),
			NoteIndex: -1,
			MonoIndex: -1,
			Base:      current,
			StartTime: current.GetStartTime() / clockRate,
			DeltaTime: (current.GetStartTime() - last.GetStartTime()) / clockRate,
			Rhythm:    commonRhythms[0],
		}

		if i > 1 {
			lastDelta := (last.GetStartTime() - hitObjects[i-2].GetStartTime()) / clockRate
			if lastDelta > 0 {
				obj.Rhythm = closestRhythm(obj.DeltaTime / lastDelta)
			}
		}

		if bMap.Timings != nil {
			beatLength := bMap.Timings.BeatLengthAt(current.GetStartTime())
			if beatLength > 0 {
				obj.EffectiveBPM = 60000 / beatLength * bMap.Timings.SliderVelocityAt(current.GetStartTime()) * clockRate
			}
		}

		if _, ok := current.(*objects.Circle); ok {
			obj.IsHit = true
			obj.Kind = kindOf(current)

			obj.NoteIndex = len(notes)
			notes = append(notes, obj)

			obj.MonoIndex = len(monos[obj.Kind])
			monos[obj.Kind] = append(monos[obj.Kind], obj)
		}

		all = append(all, obj)
	}

	for _, obj := range all {
		obj.all = all
		obj.notes = notes

		if obj.IsHit {
			obj.mono = monos[obj.Kind]
		}
	}

	encodeColours(notes)

	return all
}
