package api

import (
	"fmt"

	"github.com/wieku/danser-pp/app/beatmap"
)

// OsuStrains contains peaks of Aim, Speed and Flashlight skills, as well as peaks passed through star rating formula
type OsuStrains struct {
	// Aim peaks
	Aim []float64 `json:"aim"`

	// AimNoSliders are aim peaks calculated without slider travel
	AimNoSliders []float64 `json:"aimNoSliders"`

	// Speed peaks
	Speed []float64 `json:"speed"`

	// Flashlight peaks
	Flashlight []float64 `json:"flashlight"`

	// Total contains aim, speed and flashlight peaks passed through star rating formula
	Total []float64 `json:"total"`
}

type TaikoStrains struct {
	Stamina []float64 `json:"stamina"`
	Rhythm  []float64 `json:"rhythm"`
	Colour  []float64 `json:"color"`
	Reading []float64 `json:"reading"`
}

type CatchStrains struct {
	Movement []float64 `json:"movement"`
}

type ManiaStrains struct {
	Strains []float64 `json:"strains"`
}

// Strains are per-section peaks of every skill of one mode
type Strains struct {
	Mode beatmap.GameMode `json:"mode"`

	// SectionLength is the duration of one section in map time
	SectionLength float64 `json:"sectionLength"`

	Osu   *OsuStrains   `json:"osu,omitempty"`
	Taiko *TaikoStrains `json:"taiko,omitempty"`
	Catch *CatchStrains `json:"catch,omitempty"`
	Mania *ManiaStrains `json:"mania,omitempty"`
}

// Series returns named peak sequences in a stable order
func (s Strains) Series() (names []string, series [][]float64) {
	add := func(name string, values []float64) {
		names = append(names, name)
		series = append(series, values)
	}

	switch {
	case s.Osu != nil:
		add("aim", s.Osu.Aim)
		add("aimNoSliders", s.Osu.AimNoSliders)
		add("speed", s.Osu.Speed)
		add("flashlight", s.Osu.Flashlight)
		add("total", s.Osu.Total)
	case s.Taiko != nil:
		add("stamina", s.Taiko.Stamina)
		add("rhythm", s.Taiko.Rhythm)
		add("color", s.Taiko.Colour)
		add("reading", s.Taiko.Reading)
	case s.Catch != nil:
		add("movement", s.Catch.Movement)
	case s.Mania != nil:
		add("strains", s.Mania.Strains)
	}

	return
}

// Len returns the number of sections
func (s Strains) Len() int {
	_, series := s.Series()

	n := 0
	for _, v := range series {
		n = max(n, len(v))
	}

	return n
}

func (s Strains) String() string {
	return fmt.Sprintf("%s strains: %d sections of %.0fms", s.Mode.Title(), s.Len(), s.SectionLength)
}
