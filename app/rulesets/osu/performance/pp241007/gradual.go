package pp241007

import (
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/beatmap/objects"
	"github.com/wieku/danser-pp/app/rulesets/api"
	"github.com/wieku/danser-pp/app/rulesets/osu/performance/pp241007/preprocessing"
)

// gradualDifficulty consumes objects one at a time. Difficulty objects are built
// for the whole map up front so lookahead sees the same neighbours as a full calculation.
type gradualDifficulty struct {
	calc *DifficultyCalculator
	diff *difficulty.Difficulty

	objects     []objects.IHitObject
	diffObjects []*preprocessing.DifficultyObject

	skills *SkillsProcessor
	attr   api.OsuAttributes

	processed int
}

func (diffCalc *DifficultyCalculator) newGradual(bMap *beatmap.Beatmap, diff *difficulty.Difficulty, forceFlashlight bool) *gradualDifficulty {
	objs := prepareObjects(bMap, diff)

	return &gradualDifficulty{
		calc:        diffCalc,
		diff:        diff,
		objects:     objs,
		diffObjects: preprocessing.CreateDifficultyObjects(objs, diff),
		skills:      NewSkillsProcessor(diff, forceFlashlight),
		attr:        baseAttributes(diff),
	}
}

func (g *gradualDifficulty) Len() int {
	return len(g.objects)
}

func (g *gradualDifficulty) Processed() int {
	return g.processed
}

func (g *gradualDifficulty) Advance() {
	if g.processed >= len(g.objects) {
		return
	}

	g.calc.addObjectToAttribs(g.objects[g.processed], &g.attr)

	// The first object only sets up the previous position
	if g.processed > 0 {
		g.skills.Process(g.diffObjects[g.processed-1])
	}

	g.processed++
}

func (g *gradualDifficulty) Attributes() api.DifficultyAttributes {
	attr := g.attr

	if g.processed > 0 {
		attr = g.calc.getStars(g.skills, g.diff, attr)
	}

	return api.DifficultyAttributes{Mode: beatmap.ModeOsu, Osu: &attr}
}

func (g *gradualDifficulty) Strains() api.Strains {
	return g.calc.strainsOf(g.skills, g.diff)
}
