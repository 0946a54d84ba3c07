package pp241007

import (
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/beatmap/objects"
	"github.com/wieku/danser-pp/app/rulesets/osu/performance/pp241007/preprocessing"
)

// prepareObjects returns stacked copies of beatmap objects with sliders wrapped for lazy travel calculation.
// The beatmap itself is left untouched.
func prepareObjects(bMap *beatmap.Beatmap, diff *difficulty.Difficulty) []objects.IHitObject {
	objs := objects.CopyObjects(bMap.HitObjects)

	objects.ApplyStacking(objs, diff.PreemptU, bMap.StackLeniency, float32(-6.4*diff.Scale))

	for i, o := range objs {
		if s, ok := o.(*objects.Slider); ok {
			objs[i] = preprocessing.NewLazySlider(s, diff)
		}
	}

	return objs
}
