package preprocessing

import (
	"math"

	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/beatmap/objects"
	"github.com/wieku/danser-pp/framework/math/math32"
	"github.com/wieku/danser-pp/framework/math/mutils"
	"github.com/wieku/danser-pp/framework/math/vector"
)

const (
	NormalizedRadius        = 50.0
	CircleSizeBuffThreshold = 30.0
	MinDeltaTime            = 25
)

type DifficultyObject struct {
	listOfDiffs *[]*DifficultyObject
	Index       int

	Diff *difficulty.Difficulty

	BaseObject objects.IHitObject

	IsSlider  bool
	IsSpinner bool

	lastObject     objects.IHitObject
	lastLastObject objects.IHitObject

	// Times are adjusted by clock rate
	DeltaTime float64
	StartTime float64
	EndTime   float64

	LazyJumpDistance    float64
	MinimumJumpDistance float64
	TravelDistance      float64

	// Angle is NaN when it can't be computed
	Angle float64

	MinimumJumpTime float64
	TravelTime      float64
	StrainTime      float64

	// GreatWindow is the full 300 window, adjusted by clock rate
	GreatWindow float64
}

func NewDifficultyObject(hitObject, lastLastObject, lastObject objects.IHitObject, d *difficulty.Difficulty, listOfDiffs *[]*DifficultyObject, index int) *DifficultyObject {
	obj := &DifficultyObject{
		listOfDiffs:    listOfDiffs,
		Index:          index,
		Diff:           d,
		BaseObject:     hitObject,
		lastObject:     lastObject,
		lastLastObject: lastLastObject,
		DeltaTime:      (hitObject.GetStartTime() - lastObject.GetStartTime()) / d.Speed,
		StartTime:      hitObject.GetStartTime() / d.Speed,
		EndTime:        hitObject.GetEndTime() / d.Speed,
		Angle:          math.NaN(),
		GreatWindow:    2 * d.Hit300U / d.Speed,
	}

	_, obj.IsSpinner = hitObject.(*objects.Spinner)
	_, obj.IsSlider = hitObject.(*LazySlider)

	obj.StrainTime = max(obj.DeltaTime, MinDeltaTime)

	obj.setDistances()

	return obj
}

// CreateDifficultyObjects expects stacked objects with sliders wrapped in LazySlider.
// The first object has no difficulty object.
func CreateDifficultyObjects(objs []objects.IHitObject, d *difficulty.Difficulty) []*DifficultyObject {
	diffObjects := make([]*DifficultyObject, 0, max(0, len(objs)-1))

	for i := 1; i < len(objs); i++ {
		var lastLast objects.IHitObject
		if i > 1 {
			lastLast = objs[i-2]
		}

		diffObjects = append(diffObjects, NewDifficultyObject(objs[i], lastLast, objs[i-1], d, &diffObjects, i-1))
	}

	return diffObjects
}

func (o *DifficultyObject) GetStartTime() float64 {
	return o.StartTime
}

// GetDoubletapness returns how likely it is that o and the following object are doubletapped
func (o *DifficultyObject) GetDoubletapness(osuNextObj *DifficultyObject) float64 {
	if osuNextObj == nil {
		return 0
	}

	currDeltaTime := max(1, o.DeltaTime)
	nextDeltaTime := max(1, osuNextObj.DeltaTime)
	deltaDifference := math.Abs(nextDeltaTime - currDeltaTime)
	speedRatio := currDeltaTime / max(currDeltaTime, deltaDifference)
	windowRatio := math.Pow(min(1, currDeltaTime/o.GreatWindow), 2)

	return 1 - math.Pow(speedRatio, 1-windowRatio)
}

// OpacityAt returns the opacity of the object at time given in map time
func (o *DifficultyObject) OpacityAt(time float64, hidden bool) float64 {
	if time > o.BaseObject.GetStartTime() {
		return 0
	}

	fadeInStartTime := o.BaseObject.GetStartTime() - o.Diff.PreemptU
	fadeInDuration := o.Diff.TimeFadeIn

	if hidden {
		fadeOutStartTime := o.BaseObject.GetStartTime() - o.Diff.PreemptU + o.Diff.TimeFadeIn
		fadeOutDuration := o.Diff.PreemptU * 0.3

		return min(
			mutils.Clamp((time-fadeInStartTime)/fadeInDuration, 0.0, 1.0),
			1.0-mutils.Clamp((time-fadeOutStartTime)/fadeOutDuration, 0.0, 1.0),
		)
	}

	return mutils.Clamp((time-fadeInStartTime)/fadeInDuration, 0.0, 1.0)
}

func (o *DifficultyObject) Previous(backwardsIndex int) *DifficultyObject {
	index := o.Index - (backwardsIndex + 1)

	if index < 0 {
		return nil
	}

	return (*o.listOfDiffs)[index]
}

func (o *DifficultyObject) Next(forwardsIndex int) *DifficultyObject {
	index := o.Index + (forwardsIndex + 1)

	if index >= len(*o.listOfDiffs) {
		return nil
	}

	return (*o.listOfDiffs)[index]
}

func (o *DifficultyObject) setDistances() {
	if currentSlider, ok := o.BaseObject.(*LazySlider); ok {
		// RepeatCount counts the first span, so it's one more than the number of repeats
		o.TravelDistance = float64(currentSlider.LazyTravelDistance) * math.Pow(1+float64(currentSlider.RepeatCount-1)/2.5, 1.0/2.5)
		o.TravelTime = max(currentSlider.LazyTravelTime/o.Diff.Speed, MinDeltaTime)
	}

	_, ok1 := o.BaseObject.(*objects.Spinner)
	_, ok2 := o.lastObject.(*objects.Spinner)

	if ok1 || ok2 {
		return
	}

	scalingFactor := NormalizedRadius / float32(o.Diff.CircleRadiusU)

	if o.Diff.CircleRadiusU < CircleSizeBuffThreshold {
		smallCircleBonus := min(CircleSizeBuffThreshold-float32(o.Diff.CircleRadiusU), 5.0) / 50.0
		scalingFactor *= 1.0 + smallCircleBonus
	}

	lastCursorPosition := getEndCursorPosition(o.lastObject, o.Diff)

	o.LazyJumpDistance = float64(o.BaseObject.GetStackedStartPositionMod(o.Diff.Mods).Scl(scalingFactor).Dst(lastCursorPosition.Scl(scalingFactor)))
	o.MinimumJumpTime = o.StrainTime
	o.MinimumJumpDistance = o.LazyJumpDistance

	if lastSlider, ok := o.lastObject.(*LazySlider); ok {
		lastTravelTime := max(lastSlider.LazyTravelTime/o.Diff.Speed, MinDeltaTime)
		o.MinimumJumpTime = max(o.StrainTime-lastTravelTime, MinDeltaTime)

		// Players either cut the slider short (lazy jump) or follow it to its tail before jumping,
		// the shorter of both movements is assumed.
		tailJumpDistance := lastSlider.GetStackedPositionAtModLazer(lastSlider.EndTimeLazer, o.Diff.Mods).Dst(o.BaseObject.GetStackedStartPositionMod(o.Diff.Mods)) * scalingFactor
		o.MinimumJumpDistance = max(0, min(o.LazyJumpDistance-float64(maximumSliderRadius-assumedSliderRadius), float64(tailJumpDistance-maximumSliderRadius)))
	}

	if o.lastLastObject == nil {
		return
	}

	if _, ok := o.lastLastObject.(*objects.Spinner); ok {
		return
	}

	lastLastCursorPosition := getEndCursorPosition(o.lastLastObject, o.Diff)

	v1 := lastLastCursorPosition.Sub(o.lastObject.GetStackedStartPositionMod(o.Diff.Mods))
	v2 := o.BaseObject.GetStackedStartPositionMod(o.Diff.Mods).Sub(lastCursorPosition)
	dot := v1.Dot(v2)
	det := v1.X*v2.Y - v1.Y*v2.X

	o.Angle = math.Abs(float64(math32.Atan2(det, dot)))
}

func getEndCursorPosition(obj objects.IHitObject, d *difficulty.Difficulty) (pos vector.Vector2f) {
	pos = obj.GetStackedStartPositionMod(d.Mods)

	if s, ok := obj.(*LazySlider); ok {
		pos = s.LazyEndPosition
	}

	return
}
