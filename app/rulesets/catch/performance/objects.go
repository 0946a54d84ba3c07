package performance

import (
	"math"
	"sort"

	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/beatmap/objects"
)

const (
	playfieldWidth = 512

	catcherBaseSize    = 106.75
	allowedCatchRange  = 0.8
	baseDashSpeed      = 1.0
	rngSeed            = 1337
	tinyDropletMinTime = 80
)

type fruitKind int

const (
	kindFruit fruitKind = iota
	kindDroplet
	kindTinyDroplet
	kindBanana
)

// catchObject is a single thing to catch, nested objects of juice streams included
type catchObject struct {
	Kind fruitKind

	StartTime float64

	OriginalX float32
	XOffset   float32

	HyperDash           bool
	DistanceToHyperDash float32
}

func (o *catchObject) EffectiveX() float32 {
	return o.OriginalX + o.XOffset
}

// catchGroup is a top level object with the objects it produces
type catchGroup struct {
	Base   objects.IHitObject
	Nested []*catchObject

	// lastControlX is where stable assumes a juice stream ends
	lastControlX float32
}

func catchWidth(cs float64) float64 {
	scale := 1.0 - 0.7*(cs-5)/5
	return catcherBaseSize * math.Abs(scale) * allowedCatchRange
}

func buildGroups(bMap *beatmap.Beatmap) []*catchGroup {
	groups := make([]*catchGroup, 0, len(bMap.HitObjects))

	for _, o := range bMap.HitObjects {
		group := &catchGroup{Base: o}

		switch s := o.(type) {
		case *objects.Slider:
			group.Nested = juiceStream(s)

			if len(s.ControlPoints) > 0 {
				group.lastControlX = s.ControlPoints[len(s.ControlPoints)-1].X
			}
		case *objects.Spinner:
			group.Nested = bananaShower(s)
		default:
			group.Nested = []*catchObject{{Kind: kindFruit, StartTime: o.GetStartTime(), OriginalX: o.GetStartPosition().X}}
		}

		groups = append(groups, group)
	}

	return groups
}

type sliderEvent struct {
	time     float64
	progress float64
	kind     fruitKind
}

func juiceStream(s *objects.Slider) []*catchObject {
	events := []sliderEvent{{time: s.StartTime, kind: kindFruit}}

	// The last tick is judged slightly before the end
	lastTick := max(s.EndTime+objects.TailLeniency, s.StartTime+(s.EndTime-s.StartTime)/2)

	for _, p := range s.ScorePoints {
		switch p.Kind {
		case objects.PointTick:
			events = append(events, sliderEvent{time: p.Time, progress: p.PathProgress, kind: kindDroplet})
		case objects.PointRepeat:
			events = append(events, sliderEvent{time: p.Time, progress: p.PathProgress, kind: kindFruit})
		case objects.PointTail:
			events = append(events, sliderEvent{time: lastTick, progress: p.PathProgress, kind: kindFruit})
		}
	}

	var result []*catchObject

	for i, e := range events {
		if i > 0 {
			last := events[i-1]

			sinceLastTick := float64(int(e.time) - int(last.time))

			if sinceLastTick > tinyDropletMinTime {
				timeBetweenTiny := sinceLastTick
				for timeBetweenTiny > 100 {
					timeBetweenTiny /= 2
				}

				for t := timeBetweenTiny; t < sinceLastTick; t += timeBetweenTiny {
					progress := last.progress + (t/sinceLastTick)*(e.progress-last.progress)

					result = append(result, &catchObject{
						Kind:      kindTinyDroplet,
						StartTime: t + last.time,
						OriginalX: s.GetPositionAtProgress(progress).X,
					})
				}
			}
		}

		result = append(result, &catchObject{
			Kind:      e.kind,
			StartTime: e.time,
			OriginalX: s.GetPositionAtProgress(e.progress).X,
		})
	}

	return result
}

func bananaShower(s *objects.Spinner) []*catchObject {
	spacing := s.EndTime - s.StartTime
	for spacing > 100 {
		spacing /= 2
	}

	if spacing <= 0 {
		return nil
	}

	var result []*catchObject

	for t := s.StartTime; t <= s.EndTime; t += spacing {
		result = append(result, &catchObject{Kind: kindBanana, StartTime: t})
	}

	return result
}

type offsetState struct {
	lastPosition  float32
	hasLast       bool
	lastStartTime float64
}

// applyPositionOffsets shifts tiny droplets and bananas randomly, and with hardRock also fruits.
// Random numbers are drawn the same way regardless of mods.
func applyPositionOffsets(groups []*catchGroup, hardRock bool) {
	rng := newLegacyRandom(rngSeed)

	state := &offsetState{}

	for _, g := range groups {
		switch g.Base.(type) {
		case *objects.Slider:
			state.lastPosition = g.lastControlX
			state.hasLast = true
			state.lastStartTime = g.Base.GetStartTime()

			for _, n := range g.Nested {
				n.XOffset = 0

				switch n.Kind {
				case kindTinyDroplet:
					offset := float32(rng.nextRange(-20, 20))
					n.XOffset = min(max(offset, -n.OriginalX), playfieldWidth-n.OriginalX)
				case kindDroplet:
					rng.next()
				}
			}
		case *objects.Spinner:
			for _, n := range g.Nested {
				n.XOffset = float32(rng.nextDouble() * playfieldWidth)

				rng.next()
				rng.next()
				rng.next()
			}
		default:
			fruit := g.Nested[0]
			fruit.XOffset = 0

			if hardRock {
				applyHardRockOffset(fruit, state, rng)
			}
		}
	}
}

func applyHardRockOffset(fruit *catchObject, state *offsetState, rng *legacyRandom) {
	offsetPosition := fruit.OriginalX
	startTime := fruit.StartTime

	if !state.hasLast {
		state.lastPosition, state.hasLast, state.lastStartTime = offsetPosition, true, startTime
		return
	}

	positionDiff := offsetPosition - state.lastPosition

	// Stable calculated time differences as integers
	timeDiff := int(startTime - state.lastStartTime)

	if timeDiff > 1000 {
		state.lastPosition, state.lastStartTime = offsetPosition, startTime
		return
	}

	if positionDiff == 0 {
		applyRandomOffset(&offsetPosition, float64(timeDiff)/4, rng)
		fruit.XOffset = offsetPosition - fruit.OriginalX

		return
	}

	if float32(math.Abs(float64(positionDiff))) < float32(timeDiff/3) {
		applyOffset(&offsetPosition, positionDiff)
	}

	fruit.XOffset = offsetPosition - fruit.OriginalX

	state.lastPosition, state.lastStartTime = offsetPosition, startTime
}

func applyRandomOffset(position *float32, maxOffset float64, rng *legacyRandom) {
	right := rng.nextBool()
	random := min(20, float32(rng.nextRange(0, max(0, maxOffset))))

	if right {
		if *position+random <= playfieldWidth {
			*position += random
		} else {
			*position -= random
		}
	} else {
		if *position-random >= 0 {
			*position -= random
		} else {
			*position += random
		}
	}
}

func applyOffset(position *float32, amount float32) {
	if amount > 0 {
		if *position+amount < playfieldWidth {
			*position += amount
		}
	} else if *position+amount > 0 {
		*position += amount
	}
}

// comboObjects returns fruits and droplets in time order with hyperdashes marked
func comboObjects(groups []*catchGroup, diff *difficulty.Difficulty) (combo, tiny []*catchObject) {
	for _, g := range groups {
		for _, n := range g.Nested {
			switch n.Kind {
			case kindFruit, kindDroplet:
				combo = append(combo, n)
			case kindTinyDroplet:
				tiny = append(tiny, n)
			}
		}
	}

	sort.SliceStable(combo, func(i, j int) bool {
		return combo[i].StartTime < combo[j].StartTime
	})

	sort.SliceStable(tiny, func(i, j int) bool {
		return tiny[i].StartTime < tiny[j].StartTime
	})

	initialiseHyperDash(combo, diff.CS)

	return
}

func initialiseHyperDash(palpable []*catchObject, cs float64) {
	// Stable used the full catcher width here
	halfCatcherWidth := catchWidth(cs) / 2 / allowedCatchRange

	lastDirection := 0
	lastExcess := halfCatcherWidth

	for i := 0; i < len(palpable)-1; i++ {
		current, next := palpable[i], palpable[i+1]

		current.HyperDash = false
		current.DistanceToHyperDash = 0

		direction := -1
		if next.EffectiveX() > current.EffectiveX() {
			direction = 1
		}

		timeToNext := float64(int(next.StartTime)-int(current.StartTime)) - 1000.0/60.0/4

		excess := halfCatcherWidth
		if lastDirection == direction {
			excess = lastExcess
		}

		distanceToNext := math.Abs(float64(next.EffectiveX()-current.EffectiveX())) - excess
		distanceToHyper := float32(timeToNext*baseDashSpeed - distanceToNext)

		if distanceToHyper < 0 {
			current.HyperDash = true
			lastExcess = halfCatcherWidth
		} else {
			current.DistanceToHyperDash = distanceToHyper
			lastExcess = min(max(float64(distanceToHyper), 0), halfCatcherWidth)
		}

		lastDirection = direction
	}
}
