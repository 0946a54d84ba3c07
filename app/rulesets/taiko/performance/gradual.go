package performance

import (
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/rulesets/api"
	base "github.com/wieku/danser-pp/app/rulesets/skills"
)

type gradualDifficulty struct {
	calc *DifficultyCalculator

	bMap        *beatmap.Beatmap
	diffObjects []*difficultyObject

	skills *skillsProcessor
	attr   api.TaikoAttributes

	processed int
}

func (diffCalc *DifficultyCalculator) newGradual(bMap *beatmap.Beatmap, diff *difficulty.Difficulty) *gradualDifficulty {
	return &gradualDifficulty{
		calc:        diffCalc,
		bMap:        bMap,
		diffObjects: createDifficultyObjects(bMap, diff.Speed),
		skills:      newSkillsProcessor(),
		attr:        baseAttributes(bMap, diff),
	}
}

func (g *gradualDifficulty) Len() int {
	return len(g.bMap.HitObjects)
}

func (g *gradualDifficulty) Processed() int {
	return g.processed
}

func (g *gradualDifficulty) Advance() {
	if g.processed >= g.Len() {
		return
	}

	addObjectToAttribs(g.bMap.HitObjects[g.processed], &g.attr)

	if g.processed > 0 {
		g.skills.Process(g.diffObjects[g.processed-1])
	}

	g.processed++
}

func (g *gradualDifficulty) Attributes() api.DifficultyAttributes {
	attr := g.attr

	if g.processed > 0 {
		attr = g.calc.getStars(g.skills, g.bMap.IsConvert, attr)
	}

	return api.DifficultyAttributes{Mode: beatmap.ModeTaiko, Taiko: &attr}
}

func (g *gradualDifficulty) Strains() api.Strains {
	return api.Strains{
		Mode:          beatmap.ModeTaiko,
		SectionLength: base.DefaultSectionLength,
		Taiko: &api.TaikoStrains{
			Stamina: g.skills.Stamina.GetCurrentStrainPeaks(),
			Rhythm:  g.skills.Rhythm.GetCurrentStrainPeaks(),
			Colour:  g.skills.Colour.GetCurrentStrainPeaks(),
			Reading: g.skills.Reading.GetCurrentStrainPeaks(),
		},
	}
}
