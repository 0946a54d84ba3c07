package skills

import (
	"math"
	"slices"

	"github.com/wieku/danser-pp/framework/math/mutils"
)

const (
	DefaultSectionLength = 400.0
	DefaultDecayWeight   = 0.9
)

// Object is a difficulty object of any ruleset
type Object interface {
	GetStartTime() float64
}

// Skill accumulates strain of objects processed in time order and tracks
// the highest strain of every section.
type Skill[T Object] struct {
	// StrainValueOf returns the strain after processing the given object
	StrainValueOf func(current T) float64

	// CalculateInitialStrain returns the strain at the start of a new section, before current is processed
	CalculateInitialStrain func(time float64, current T) float64

	// SectionLength is the length of a strain section in map time
	SectionLength float64

	// DecayWeight is the weight ratio between two consecutive sorted peaks
	DecayWeight float64

	// ReducedSectionCount highest peaks get scaled down towards ReducedStrainBaseline
	ReducedSectionCount   int
	ReducedStrainBaseline float64

	started bool

	currentSectionPeak float64
	currentSectionEnd  float64

	strainPeaks   []float64
	objectStrains []float64
}

func NewSkill[T Object]() *Skill[T] {
	return &Skill[T]{
		SectionLength: DefaultSectionLength,
		DecayWeight:   DefaultDecayWeight,
	}
}

// Process adds a new object to skill's strain sections
func (skill *Skill[T]) Process(current T) {
	startTime := current.GetStartTime()

	if !skill.started {
		skill.currentSectionEnd = math.Ceil(startTime/skill.SectionLength) * skill.SectionLength
		skill.started = true
	}

	for startTime > skill.currentSectionEnd {
		skill.strainPeaks = append(skill.strainPeaks, skill.currentSectionPeak)
		skill.startNewSectionFrom(skill.currentSectionEnd, current)
		skill.currentSectionEnd += skill.SectionLength
	}

	strain := skill.StrainValueOf(current)

	skill.objectStrains = append(skill.objectStrains, strain)
	skill.currentSectionPeak = max(strain, skill.currentSectionPeak)
}

func (skill *Skill[T]) startNewSectionFrom(end float64, current T) {
	skill.currentSectionPeak = 0

	if skill.CalculateInitialStrain != nil {
		skill.currentSectionPeak = skill.CalculateInitialStrain(end, current)
	}
}

// GetCurrentStrainPeaks returns the peaks of closed sections followed by the open one
func (skill *Skill[T]) GetCurrentStrainPeaks() []float64 {
	peaks := make([]float64, len(skill.strainPeaks), len(skill.strainPeaks)+1)
	copy(peaks, skill.strainPeaks)

	if skill.started {
		peaks = append(peaks, skill.currentSectionPeak)
	}

	return peaks
}

// ObjectStrains returns the strain after every processed object
func (skill *Skill[T]) ObjectStrains() []float64 {
	return skill.objectStrains
}

// DifficultyValue sums positive peaks sorted from the highest with geometrically decaying weights
func (skill *Skill[T]) DifficultyValue() float64 {
	strains := skill.sortedPeaks()

	difficulty := 0.0
	weight := 1.0

	for _, strain := range strains {
		difficulty += strain * weight
		weight *= skill.DecayWeight
	}

	return difficulty
}

func (skill *Skill[T]) sortedPeaks() []float64 {
	peaks := skill.GetCurrentStrainPeaks()

	strains := peaks[:0]
	for _, p := range peaks {
		if p > 0 {
			strains = append(strains, p)
		}
	}

	slices.Sort(strains)
	slices.Reverse(strains)

	if skill.ReducedSectionCount <= 0 || len(strains) == 0 {
		return strains
	}

	// Reduce highest strains to lower the impact of difficulty spikes
	for i := range min(len(strains), skill.ReducedSectionCount) {
		scale := math.Log10(mutils.Lerp(1.0, 10.0, mutils.Clamp(float64(i)/float64(skill.ReducedSectionCount), 0, 1)))
		strains[i] *= mutils.Lerp(skill.ReducedStrainBaseline, 1.0, scale)
	}

	slices.Sort(strains)
	slices.Reverse(strains)

	return strains
}

// WeightedSum sums positive values sorted from the highest with geometrically decaying weights
func WeightedSum(values []float64, decayWeight float64) float64 {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 {
			sorted = append(sorted, v)
		}
	}

	slices.Sort(sorted)
	slices.Reverse(sorted)

	sum := 0.0
	weight := 1.0

	for _, v := range sorted {
		sum += v * weight
		weight *= decayWeight
	}

	return sum
}

// CountDifficultStrains returns the weighted number of objects whose strain is close to the top
func (skill *Skill[T]) CountDifficultStrains() float64 {
	difficulty := skill.DifficultyValue()
	if difficulty == 0 {
		return 0
	}

	consistentTopStrain := difficulty / 10

	sum := 0.0
	for _, s := range skill.objectStrains {
		sum += 1.1 / (1 + math.Exp(-10*(s/consistentTopStrain-0.88)))
	}

	return sum
}
