package calculator

import (
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/rulesets/api"
)

// GradualDifficulty returns the attributes after every consumed object.
// Skill state is kept between calls so every object is processed once.
// It must not be used from several goroutines at once.
type GradualDifficulty struct {
	inner api.IGradualDifficulty
	limit int
}

func newGradualDifficulty(inner api.IGradualDifficulty, passed int) *GradualDifficulty {
	limit := inner.Len()
	if passed >= 0 {
		limit = min(passed, limit)
	}

	return &GradualDifficulty{inner: inner, limit: limit}
}

// NRemaining returns the number of objects not consumed yet
func (g *GradualDifficulty) NRemaining() int {
	return g.limit - g.inner.Processed()
}

// Next consumes one object, false is returned once all objects are consumed
func (g *GradualDifficulty) Next() (api.DifficultyAttributes, bool) {
	return g.Nth(0)
}

// Nth consumes n+1 objects and returns the attributes after the last of them.
// If fewer remain, all of them are consumed and their attributes returned.
func (g *GradualDifficulty) Nth(n int) (api.DifficultyAttributes, bool) {
	if n < 0 || g.NRemaining() <= 0 {
		return api.DifficultyAttributes{}, false
	}

	for i := min(n+1, g.NRemaining()); i > 0; i-- {
		g.inner.Advance()
	}

	return g.inner.Attributes(), true
}

// Collect consumes all remaining objects and returns the attributes after each of them
func (g *GradualDifficulty) Collect() []api.DifficultyAttributes {
	result := make([]api.DifficultyAttributes, 0, max(0, g.NRemaining()))

	for {
		attr, ok := g.Next()
		if !ok {
			return result
		}

		result = append(result, attr)
	}
}

// Strains returns the peaks of the consumed objects
func (g *GradualDifficulty) Strains() api.Strains {
	return g.inner.Strains()
}

// GradualPerformance advances a GradualDifficulty and rates the supplied
// cumulative score state against each prefix.
type GradualPerformance struct {
	difficulty *GradualDifficulty
	calc       api.IPerformanceCalculator
	diff       *difficulty.Difficulty
}

func (g *GradualPerformance) NRemaining() int {
	return g.difficulty.NRemaining()
}

// Next consumes one object and rates state, which must cover all consumed objects
func (g *GradualPerformance) Next(state api.ScoreState) (api.PerformanceAttributes, bool) {
	return g.Nth(state, 0)
}

// Nth consumes n+1 objects and rates state
func (g *GradualPerformance) Nth(state api.ScoreState, n int) (api.PerformanceAttributes, bool) {
	attr, ok := g.difficulty.Nth(n)
	if !ok {
		return api.PerformanceAttributes{}, false
	}

	return g.calc.Calculate(attr, state, g.diff), true
}
