package performance

import (
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/beatmap/objects"
	"github.com/wieku/danser-pp/app/rulesets/api"
	base "github.com/wieku/danser-pp/app/rulesets/skills"
)

type gradualDifficulty struct {
	calc *DifficultyCalculator

	notes       []objects.IHitObject
	diffObjects []*difficultyObject

	strain *strainSkill
	attr   api.ManiaAttributes

	processed int
}

func (diffCalc *DifficultyCalculator) newGradual(bMap *beatmap.Beatmap, diff *difficulty.Difficulty) *gradualDifficulty {
	keys := keyCount(bMap)
	notes := sortedNotes(bMap)

	return &gradualDifficulty{
		calc:        diffCalc,
		notes:       notes,
		diffObjects: createDifficultyObjects(notes, keys, diff.Speed),
		strain:      newStrainSkill(keys),
		attr:        baseAttributes(bMap, diff),
	}
}

func (g *gradualDifficulty) Len() int {
	return len(g.notes)
}

func (g *gradualDifficulty) Processed() int {
	return g.processed
}

func (g *gradualDifficulty) Advance() {
	if g.processed >= g.Len() {
		return
	}

	addObjectToAttribs(g.notes[g.processed], &g.attr)

	if g.processed > 0 {
		g.strain.Process(g.diffObjects[g.processed-1])
	}

	g.processed++
}

func (g *gradualDifficulty) Attributes() api.DifficultyAttributes {
	attr := g.attr

	if g.processed > 0 {
		attr = g.calc.getStars(g.strain, attr)
	}

	return api.DifficultyAttributes{Mode: beatmap.ModeMania, Mania: &attr}
}

func (g *gradualDifficulty) Strains() api.Strains {
	return api.Strains{
		Mode:          beatmap.ModeMania,
		SectionLength: base.DefaultSectionLength,
		Mania: &api.ManiaStrains{
			Strains: g.strain.GetCurrentStrainPeaks(),
		},
	}
}
