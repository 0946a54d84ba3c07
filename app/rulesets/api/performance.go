package api

import (
	"fmt"

	"github.com/wieku/danser-pp/app/beatmap"
)

type OsuPerformance struct {
	Difficulty *OsuAttributes `json:"difficulty"`
	State      ScoreState     `json:"state"`

	Aim        float64 `json:"ppAim"`
	Speed      float64 `json:"ppSpeed"`
	Acc        float64 `json:"ppAcc"`
	Flashlight float64 `json:"ppFlashlight"`
	Total      float64 `json:"pp"`

	EffectiveMissCount float64 `json:"effectiveMissCount"`
}

type TaikoPerformance struct {
	Difficulty *TaikoAttributes `json:"difficulty"`
	State      ScoreState       `json:"state"`

	Diff  float64 `json:"ppDifficulty"`
	Acc   float64 `json:"ppAcc"`
	Total float64 `json:"pp"`

	EffectiveMissCount float64 `json:"effectiveMissCount"`

	// EstimatedUnstableRate is nil when the great window or hit count don't allow an estimate
	EstimatedUnstableRate *float64 `json:"estimatedUnstableRate,omitempty"`
}

type CatchPerformance struct {
	Difficulty *CatchAttributes `json:"difficulty"`
	State      ScoreState       `json:"state"`

	Total float64 `json:"pp"`
}

type ManiaPerformance struct {
	Difficulty *ManiaAttributes `json:"difficulty"`
	State      ScoreState       `json:"state"`

	Diff  float64 `json:"ppDifficulty"`
	Total float64 `json:"pp"`
}

// PerformanceAttributes holds the performance of exactly one mode, selected by Mode
type PerformanceAttributes struct {
	Mode beatmap.GameMode `json:"mode"`

	Osu   *OsuPerformance   `json:"osu,omitempty"`
	Taiko *TaikoPerformance `json:"taiko,omitempty"`
	Catch *CatchPerformance `json:"catch,omitempty"`
	Mania *ManiaPerformance `json:"mania,omitempty"`
}

func (perf PerformanceAttributes) PP() float64 {
	switch {
	case perf.Osu != nil:
		return perf.Osu.Total
	case perf.Taiko != nil:
		return perf.Taiko.Total
	case perf.Catch != nil:
		return perf.Catch.Total
	case perf.Mania != nil:
		return perf.Mania.Total
	}

	return 0
}

func (perf PerformanceAttributes) State() ScoreState {
	switch {
	case perf.Osu != nil:
		return perf.Osu.State
	case perf.Taiko != nil:
		return perf.Taiko.State
	case perf.Catch != nil:
		return perf.Catch.State
	case perf.Mania != nil:
		return perf.Mania.State
	}

	return ScoreState{}
}

// Difficulty returns the attributes the performance was calculated from
func (perf PerformanceAttributes) Difficulty() DifficultyAttributes {
	attr := DifficultyAttributes{Mode: perf.Mode}

	switch {
	case perf.Osu != nil:
		attr.Osu = perf.Osu.Difficulty
	case perf.Taiko != nil:
		attr.Taiko = perf.Taiko.Difficulty
	case perf.Catch != nil:
		attr.Catch = perf.Catch.Difficulty
	case perf.Mania != nil:
		attr.Mania = perf.Mania.Difficulty
	}

	return attr
}

func (perf PerformanceAttributes) String() string {
	switch {
	case perf.Osu != nil:
		p := perf.Osu
		return fmt.Sprintf("%.2fpp (aim %.2f, speed %.2f, acc %.2f, fl %.2f, %.2f effective misses)",
			p.Total, p.Aim, p.Speed, p.Acc, p.Flashlight, p.EffectiveMissCount)
	case perf.Taiko != nil:
		p := perf.Taiko
		ur := "n/a"
		if p.EstimatedUnstableRate != nil {
			ur = fmt.Sprintf("%.2f", *p.EstimatedUnstableRate)
		}

		return fmt.Sprintf("%.2fpp (difficulty %.2f, acc %.2f, UR %s)", p.Total, p.Diff, p.Acc, ur)
	case perf.Catch != nil:
		return fmt.Sprintf("%.2fpp", perf.Catch.Total)
	case perf.Mania != nil:
		p := perf.Mania
		return fmt.Sprintf("%.2fpp (difficulty %.2f)", p.Total, p.Diff)
	}

	return "0pp"
}
