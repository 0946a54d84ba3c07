package beatmap

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/beatmap/objects"
	"github.com/wieku/danser-pp/framework/math/vector"
)

const (
	taikoVelocityMultiplier = 1.4
	maxManiaKeys            = 10
)

var ErrUnsupportedConversion = errors.New("unsupported conversion")

// Convert returns the beatmap as played in the target mode. Only osu!standard
// maps can be converted, converting to the same mode returns a copy.
func (b *Beatmap) Convert(mode GameMode, mods difficulty.Modifier) (*Beatmap, error) {
	if mode == b.Mode {
		return b.Clone(), nil
	}

	if b.Mode != ModeOsu {
		return nil, errors.Wrapf(ErrUnsupportedConversion, "%s to %s", b.Mode, mode)
	}

	converted := b.Clone()
	converted.Mode = mode
	converted.IsConvert = true

	switch mode {
	case ModeTaiko:
		converted.HitObjects = convertTaiko(b)
	case ModeCatch:
		// Catch reads osu! objects directly, juice streams are built by the ruleset
	case ModeMania:
		keys := ManiaKeyCount(b, mods)
		converted.CS = float64(keys)
		converted.HitObjects = convertMania(b, keys)
	default:
		return nil, errors.Wrapf(ErrUnsupportedConversion, "%s to %s", b.Mode, mode)
	}

	return converted, nil
}

func convertTaiko(b *Beatmap) []objects.IHitObject {
	result := make([]objects.IHitObject, 0, len(b.HitObjects))

	for _, o := range b.HitObjects {
		slider, ok := o.(*objects.Slider)
		if !ok {
			result = append(result, o)
			continue
		}

		duration, tickSpacing, split := taikoSliderParams(b, slider)

		if !split {
			drumRoll := slider.Copy().(*objects.Slider)
			drumRoll.EndTime = drumRoll.StartTime + float64(duration)

			result = append(result, drumRoll)

			continue
		}

		sounds := slider.EdgeHitSounds
		if len(sounds) == 0 {
			sounds = []int{slider.HitSound}
		}

		i := 0

		for t := slider.StartTime; t <= slider.StartTime+float64(duration)+tickSpacing/8; t += tickSpacing {
			result = append(result, objects.NewCircle(slider.ID, slider.StartPosition, t, false, sounds[i]))

			i = (i + 1) % len(sounds)

			if math.Abs(tickSpacing) < 1e-7 {
				break
			}
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].GetStartTime() < result[j].GetStartTime()
	})

	return result
}

// taikoSliderParams follows stable's decision of splitting fast sliders into hits
func taikoSliderParams(b *Beatmap, slider *objects.Slider) (duration int, tickSpacing float64, split bool) {
	spans := float64(slider.RepeatCount)
	distance := slider.PixelLength * spans

	timingBeatLength := b.Timings.BeatLengthAt(slider.StartTime)
	beatLength := timingBeatLength / slider.SliderVelocity

	scoringPointDistance := objects.BaseScoringDistance * (b.SliderMultiplier * taikoVelocityMultiplier) / b.SliderTickRate
	taikoVelocity := scoringPointDistance * b.SliderTickRate

	duration = int(distance / taikoVelocity * beatLength)

	osuVelocity := taikoVelocity * (1000 / beatLength)

	if b.Version >= 8 {
		beatLength = timingBeatLength
	}

	tickSpacing = min(beatLength/b.SliderTickRate, float64(duration)/spans)

	split = tickSpacing > 0 && distance/osuVelocity*1000 < 2*beatLength

	return
}

// ManiaKeyCount returns the key count a converted map is played with
func ManiaKeyCount(b *Beatmap, mods difficulty.Modifier) int {
	if keys := mods.KeyCount(); keys > 0 {
		return keys
	}

	if b.Mode == ModeMania {
		return max(1, int(math.Round(b.CS)))
	}

	roundedCS := math.Round(b.CS)
	roundedOD := math.Round(b.OD)

	if len(b.HitObjects) == 0 {
		return 7
	}

	_, sliders, spinners, _ := b.Counts()
	percentSpecial := float64(sliders+spinners) / float64(len(b.HitObjects))

	switch {
	case percentSpecial < 0.2:
		return 7
	case percentSpecial < 0.3 || roundedCS >= 5:
		if roundedOD > 5 {
			return 7
		}

		return 6
	case percentSpecial > 0.6:
		if roundedOD > 4 {
			return 5
		}

		return 4
	}

	return max(4, min(int(roundedOD)+1, 7))
}

// convertMania places every object in the column under its x position and
// moves it to the nearest free column when a hold note still occupies it
func convertMania(b *Beatmap, keys int) []objects.IHitObject {
	keys = min(max(keys, 1), maxManiaKeys)

	busyUntil := make([]float64, keys)
	for i := range busyUntil {
		busyUntil[i] = math.Inf(-1)
	}

	result := make([]objects.IHitObject, 0, len(b.HitObjects))

	for _, o := range b.HitObjects {
		column := objects.ManiaColumn(o.GetPosition().X, keys)

		for offset := 0; offset < keys; offset++ {
			c := (column + offset) % keys
			if busyUntil[c] < o.GetStartTime() {
				column = c
				break
			}
		}

		pos := vector.NewVec2f(objects.ManiaColumnX(column, keys), objects.PlayfieldHeight/2)

		switch o.(type) {
		case *objects.Slider, *objects.Spinner:
			result = append(result, objects.NewHoldNote(o.GetID(), pos, o.GetStartTime(), o.GetEndTime(), o.GetHitSound()))
			busyUntil[column] = o.GetEndTime()
		default:
			result = append(result, objects.NewCircle(o.GetID(), pos, o.GetStartTime(), false, o.GetHitSound()))
			busyUntil[column] = o.GetStartTime()
		}
	}

	SortMania(result, keys)

	return result
}

// SortMania orders objects by time, then by column
func SortMania(objs []objects.IHitObject, keys int) {
	sort.SliceStable(objs, func(i, j int) bool {
		a, b := objs[i], objs[j]
		if a.GetStartTime() != b.GetStartTime() {
			return a.GetStartTime() < b.GetStartTime()
		}

		return objects.ManiaColumn(a.GetPosition().X, keys) < objects.ManiaColumn(b.GetPosition().X, keys)
	})
}
