package api

import (
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
)

type IDifficultyCalculator interface {
	// CalculateSingle calculates attributes after the first passedObjects objects, all of them if passedObjects < 0
	CalculateSingle(bMap *beatmap.Beatmap, diff *difficulty.Difficulty, passedObjects int) DifficultyAttributes

	// CalculateStrainPeaks returns the section peaks of every skill after the first passedObjects objects
	CalculateStrainPeaks(bMap *beatmap.Beatmap, diff *difficulty.Difficulty, passedObjects int) Strains

	// NewGradual prepares a calculator that consumes objects one by one
	NewGradual(bMap *beatmap.Beatmap, diff *difficulty.Difficulty) IGradualDifficulty

	GetVersion() int
	GetVersionMessage() string
}

// IGradualDifficulty keeps skill state between objects
type IGradualDifficulty interface {
	// Len returns the number of objects that can be consumed
	Len() int

	// Processed returns the number of objects consumed so far
	Processed() int

	// Advance consumes one object, it's a no-op once all objects are consumed
	Advance()

	// Attributes returns the attributes of the consumed prefix
	Attributes() DifficultyAttributes

	// Strains returns the peaks of the consumed prefix, including the open section
	Strains() Strains
}

type IPerformanceCalculator interface {
	// Calculate expects a fully resolved score state
	Calculate(attribs DifficultyAttributes, state ScoreState, diff *difficulty.Difficulty) PerformanceAttributes
}
