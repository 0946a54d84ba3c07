package api

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/wieku/danser-pp/app/beatmap"
)

type OsuAttributes struct {
	// Total Star rating, visible on osu!'s beatmap page
	Total float64 `json:"stars"`

	// Aim stars, needed for Performance Points (aka PP) calculations
	Aim float64 `json:"aim"`

	// Speed stars, needed for Performance Points (aka PP) calculations
	Speed float64 `json:"speed"`

	SpeedNoteCount float64 `json:"speedNoteCount"`

	AimDifficultStrainCount   float64 `json:"aimDifficultStrainCount"`
	SpeedDifficultStrainCount float64 `json:"speedDifficultStrainCount"`

	// Flashlight stars, needed for Performance Points (aka PP) calculations
	Flashlight float64 `json:"flashlight"`

	// SliderFactor is a ratio of Aim calculated without sliders to Aim with them
	SliderFactor float64 `json:"sliderFactor"`

	AR float64 `json:"ar"`
	OD float64 `json:"od"`
	HP float64 `json:"hp"`

	GreatHitWindow float64 `json:"greatHitWindow"`
	OkHitWindow    float64 `json:"okHitWindow"`
	MehHitWindow   float64 `json:"mehHitWindow"`

	ObjectCount int `json:"nObjects"`
	Circles     int `json:"nCircles"`
	Sliders     int `json:"nSliders"`
	Spinners    int `json:"nSpinners"`

	// LargeTicks counts slider ticks and repeats
	LargeTicks int `json:"nLargeTicks"`

	MaxCombo int `json:"maxCombo"`
}

type TaikoAttributes struct {
	Total float64 `json:"stars"`

	Stamina float64 `json:"stamina"`
	Rhythm  float64 `json:"rhythm"`
	Colour  float64 `json:"color"`
	Reading float64 `json:"reading"`

	// Peak is the combined difficulty of the hardest sections
	Peak float64 `json:"peak"`

	// MonoStaminaFactor is the share of stamina coming from single-colour streams
	MonoStaminaFactor float64 `json:"monoStaminaFactor"`

	GreatHitWindow float64 `json:"greatHitWindow"`
	OkHitWindow    float64 `json:"okHitWindow"`

	IsConvert bool `json:"isConvert"`

	ObjectCount int `json:"nObjects"`
	MaxCombo    int `json:"maxCombo"`
}

type CatchAttributes struct {
	Total float64 `json:"stars"`

	AR float64 `json:"ar"`

	Fruits       int `json:"nFruits"`
	Droplets     int `json:"nDroplets"`
	TinyDroplets int `json:"nTinyDroplets"`

	IsConvert bool `json:"isConvert"`
}

// MaxCombo counts fruits and droplets, tiny droplets don't give combo
func (attr *CatchAttributes) MaxCombo() int {
	return attr.Fruits + attr.Droplets
}

type ManiaAttributes struct {
	Total float64 `json:"stars"`

	GreatHitWindow float64 `json:"hitWindow"`

	ObjectCount int `json:"nObjects"`
	HoldNotes   int `json:"nHoldNotes"`
	MaxCombo    int `json:"maxCombo"`

	IsConvert bool `json:"isConvert"`
}

// DifficultyAttributes holds the attributes of exactly one mode, selected by Mode
type DifficultyAttributes struct {
	Mode beatmap.GameMode `json:"mode"`

	Osu   *OsuAttributes   `json:"osu,omitempty"`
	Taiko *TaikoAttributes `json:"taiko,omitempty"`
	Catch *CatchAttributes `json:"catch,omitempty"`
	Mania *ManiaAttributes `json:"mania,omitempty"`
}

// EmptyAttributes returns zero attributes of the given mode
func EmptyAttributes(mode beatmap.GameMode) DifficultyAttributes {
	attr := DifficultyAttributes{Mode: mode}

	switch mode {
	case beatmap.ModeOsu:
		attr.Osu = &OsuAttributes{}
	case beatmap.ModeTaiko:
		attr.Taiko = &TaikoAttributes{}
	case beatmap.ModeCatch:
		attr.Catch = &CatchAttributes{}
	case beatmap.ModeMania:
		attr.Mania = &ManiaAttributes{}
	}

	return attr
}

func (attr DifficultyAttributes) Stars() float64 {
	switch {
	case attr.Osu != nil:
		return attr.Osu.Total
	case attr.Taiko != nil:
		return attr.Taiko.Total
	case attr.Catch != nil:
		return attr.Catch.Total
	case attr.Mania != nil:
		return attr.Mania.Total
	}

	return 0
}

func (attr DifficultyAttributes) MaxCombo() int {
	switch {
	case attr.Osu != nil:
		return attr.Osu.MaxCombo
	case attr.Taiko != nil:
		return attr.Taiko.MaxCombo
	case attr.Catch != nil:
		return attr.Catch.MaxCombo()
	case attr.Mania != nil:
		return attr.Mania.MaxCombo
	}

	return 0
}

func (attr DifficultyAttributes) IsConvert() bool {
	switch {
	case attr.Taiko != nil:
		return attr.Taiko.IsConvert
	case attr.Catch != nil:
		return attr.Catch.IsConvert
	case attr.Mania != nil:
		return attr.Mania.IsConvert
	}

	return false
}

func (attr DifficultyAttributes) String() string {
	switch {
	case attr.Osu != nil:
		a := attr.Osu
		return fmt.Sprintf("%s %.2f* (aim %.2f, speed %.2f, fl %.2f, sf %.3f) %sx",
			attr.Mode.Title(), a.Total, a.Aim, a.Speed, a.Flashlight, a.SliderFactor, humanize.Comma(int64(a.MaxCombo)))
	case attr.Taiko != nil:
		a := attr.Taiko
		return fmt.Sprintf("%s %.2f* (stamina %.2f, rhythm %.2f, colour %.2f, reading %.2f) %sx",
			attr.Mode.Title(), a.Total, a.Stamina, a.Rhythm, a.Colour, a.Reading, humanize.Comma(int64(a.MaxCombo)))
	case attr.Catch != nil:
		a := attr.Catch
		return fmt.Sprintf("%s %.2f* (AR %.2f, %d fruits, %d droplets, %d tiny droplets) %sx",
			attr.Mode.Title(), a.Total, a.AR, a.Fruits, a.Droplets, a.TinyDroplets, humanize.Comma(int64(a.MaxCombo())))
	case attr.Mania != nil:
		a := attr.Mania
		return fmt.Sprintf("%s %.2f* (window %.2fms, %d objects) %sx",
			attr.Mode.Title(), a.Total, a.GreatHitWindow, a.ObjectCount, humanize.Comma(int64(a.MaxCombo)))
	}

	return attr.Mode.Title() + " (empty)"
}
