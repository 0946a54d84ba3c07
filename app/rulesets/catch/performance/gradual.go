package performance

import (
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/rulesets/api"
)

// gradualDifficulty consumes fruits and droplets one by one, tiny droplets are counted as time passes
type gradualDifficulty struct {
	calc *DifficultyCalculator

	combo       []*catchObject
	tiny        []*catchObject
	diffObjects []*difficultyObject

	movement *movementSkill
	attr     api.CatchAttributes

	processed     int
	tinyProcessed int
}

func (diffCalc *DifficultyCalculator) newGradual(bMap *beatmap.Beatmap, diff *difficulty.Difficulty) *gradualDifficulty {
	groups := buildGroups(bMap)
	applyPositionOffsets(groups, diff.HardRockOffsets)

	combo, tiny := comboObjects(groups, diff)

	return &gradualDifficulty{
		calc:        diffCalc,
		combo:       combo,
		tiny:        tiny,
		diffObjects: createDifficultyObjects(combo, diff),
		movement:    newMovementSkill(diff.Speed),
		attr: api.CatchAttributes{
			AR:        diff.ARReal,
			IsConvert: bMap.IsConvert,
		},
	}
}

func (g *gradualDifficulty) Len() int {
	return len(g.combo)
}

func (g *gradualDifficulty) Processed() int {
	return g.processed
}

func (g *gradualDifficulty) Advance() {
	if g.processed >= g.Len() {
		return
	}

	current := g.combo[g.processed]

	if current.Kind == kindDroplet {
		g.attr.Droplets++
	} else {
		g.attr.Fruits++
	}

	last := g.processed == g.Len()-1

	for g.tinyProcessed < len(g.tiny) && (last || g.tiny[g.tinyProcessed].StartTime <= current.StartTime) {
		g.attr.TinyDroplets++
		g.tinyProcessed++
	}

	if g.processed > 0 {
		g.movement.Process(g.diffObjects[g.processed-1])
	}

	g.processed++
}

func (g *gradualDifficulty) Attributes() api.DifficultyAttributes {
	attr := g.attr

	if g.processed > 0 {
		attr = g.calc.getStars(g.movement, attr)
	}

	return api.DifficultyAttributes{Mode: beatmap.ModeCatch, Catch: &attr}
}

func (g *gradualDifficulty) Strains() api.Strains {
	return api.Strains{
		Mode:          beatmap.ModeCatch,
		SectionLength: movementSectionLength,
		Catch: &api.CatchStrains{
			Movement: g.movement.GetCurrentStrainPeaks(),
		},
	}
}
