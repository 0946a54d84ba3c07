package beatmap

import (
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/beatmap/objects"
)

type Break struct {
	Start float64
	End   float64
}

type Metadata struct {
	Artist    string
	Title     string
	Creator   string
	DiffName  string
	BeatmapID int
	SetID     int
}

type Beatmap struct {
	Mode      GameMode
	Version   int
	IsConvert bool

	// MD5 of the source file, used as the cache and replay key
	MD5 string

	Metadata Metadata

	HP float64
	CS float64
	OD float64
	AR float64

	SliderMultiplier float64
	SliderTickRate   float64
	StackLeniency    float64

	Timings *objects.Timings

	Breaks []Break

	HitObjects []objects.IHitObject
}

// Counts returns the number of circles, sliders, spinners and hold notes
func (b *Beatmap) Counts() (circles, sliders, spinners, holds int) {
	for _, o := range b.HitObjects {
		switch o.(type) {
		case *objects.Circle:
			circles++
		case *objects.Slider:
			sliders++
		case *objects.Spinner:
			spinners++
		case *objects.HoldNote:
			holds++
		}
	}

	return
}

// NewDifficulty creates an attribute resolver for this beatmap's base values
func (b *Beatmap) NewDifficulty() *difficulty.Difficulty {
	return difficulty.NewDifficulty(b.HP, b.CS, b.OD, b.AR)
}

// Clone returns a beatmap sharing objects with b, safe as long as objects are not modified
func (b *Beatmap) Clone() *Beatmap {
	clone := *b
	clone.HitObjects = append([]objects.IHitObject(nil), b.HitObjects...)
	clone.Breaks = append([]Break(nil), b.Breaks...)

	return &clone
}

// DrainTime is the playable length without breaks in milliseconds
func (b *Beatmap) DrainTime() float64 {
	if len(b.HitObjects) == 0 {
		return 0
	}

	length := b.HitObjects[len(b.HitObjects)-1].GetEndTime() - b.HitObjects[0].GetStartTime()

	for _, br := range b.Breaks {
		length -= br.End - br.Start
	}

	return max(0, length)
}
