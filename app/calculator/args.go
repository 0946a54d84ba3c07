package calculator

import (
	"math"

	"github.com/pkg/errors"
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/rulesets/api"
	"github.com/wieku/danser-pp/app/rulesets/hitresults"
)

// Args configures every calculation. Nil fields keep the beatmap's or the mods' defaults.
type Args struct {
	// Mods is anything difficulty.ParseMods accepts: a bitflag, "HDDT", a list of acronyms or mod specs
	Mods any `json:"mods,omitempty" mapstructure:"mods"`

	// Mode converts standard maps before calculating
	Mode *beatmap.GameMode `json:"mode,omitempty" mapstructure:"mode"`

	ClockRate *float64 `json:"clockRate,omitempty" mapstructure:"clock-rate"`

	AR *difficulty.Override `json:"ar,omitempty" mapstructure:"ar"`
	CS *difficulty.Override `json:"cs,omitempty" mapstructure:"cs"`
	HP *difficulty.Override `json:"hp,omitempty" mapstructure:"hp"`
	OD *difficulty.Override `json:"od,omitempty" mapstructure:"od"`

	// PassedObjects limits calculations to a prefix of the map, in catch it counts fruits and droplets
	PassedObjects *int `json:"passedObjects,omitempty" mapstructure:"passed-objects"`

	HardRockOffsets *bool `json:"hardrockOffsets,omitempty" mapstructure:"hardrock-offsets"`

	// Lazer selects lazer score semantics, defaults to true
	Lazer *bool `json:"lazer,omitempty" mapstructure:"lazer"`

	// Accuracy in percent
	Accuracy *float64 `json:"accuracy,omitempty" mapstructure:"accuracy"`
	Combo    *int     `json:"combo,omitempty" mapstructure:"combo"`

	NGeki  *int `json:"nGeki,omitempty" mapstructure:"n-geki"`
	NKatu  *int `json:"nKatu,omitempty" mapstructure:"n-katu"`
	N300   *int `json:"n300,omitempty" mapstructure:"n300"`
	N100   *int `json:"n100,omitempty" mapstructure:"n100"`
	N50    *int `json:"n50,omitempty" mapstructure:"n50"`
	Misses *int `json:"misses,omitempty" mapstructure:"misses"`

	LargeTickHits *int `json:"largeTickHits,omitempty" mapstructure:"large-tick-hits"`
	SmallTickHits *int `json:"smallTickHits,omitempty" mapstructure:"small-tick-hits"`
	SliderEndHits *int `json:"sliderEndHits,omitempty" mapstructure:"slider-end-hits"`

	Priority api.HitResultPriority `json:"hitresultPriority,omitempty" mapstructure:"priority"`
}

func (args *Args) modifierSet() (difficulty.ModifierSet, error) {
	set, err := difficulty.ParseMods(args.Mods)
	if err != nil {
		return difficulty.ModifierSet{}, err
	}

	if args.Lazer == nil || *args.Lazer {
		set.Mods |= difficulty.Lazer
	} else {
		set.Mods &^= difficulty.Lazer
	}

	return set, nil
}

func (args *Args) passed() int {
	if args.PassedObjects == nil {
		return -1
	}

	return max(0, *args.PassedObjects)
}

// prepareMap converts the map to the requested mode
func (args *Args) prepareMap(bMap *beatmap.Beatmap, set difficulty.ModifierSet) (*beatmap.Beatmap, error) {
	if args.Mode == nil || *args.Mode == bMap.Mode {
		return bMap, nil
	}

	return bMap.Convert(*args.Mode, set.Mods)
}

// resolve validates the mods and overrides and builds the map and attribute resolver to calculate with
func (args *Args) resolve(bMap *beatmap.Beatmap) (*beatmap.Beatmap, *difficulty.Difficulty, error) {
	set, err := args.modifierSet()
	if err != nil {
		return nil, nil, err
	}

	converted, err := args.prepareMap(bMap, set)
	if err != nil {
		return nil, nil, err
	}

	diff, err := args.newDifficulty(converted.NewDifficulty(), set)
	if err != nil {
		return nil, nil, err
	}

	return converted, diff, nil
}

func (args *Args) newDifficulty(diff *difficulty.Difficulty, set difficulty.ModifierSet) (*difficulty.Difficulty, error) {
	diff.SetModifierSet(set)

	if args.ClockRate != nil {
		if rate := *args.ClockRate; math.IsNaN(rate) || rate <= 0 {
			return nil, errors.Wrapf(difficulty.ErrInvalidRange, "clock rate %.3f", rate)
		}

		diff.SetCustomSpeed(*args.ClockRate)
	}

	diff.SetAROverride(args.AR)
	diff.SetCSOverride(args.CS)
	diff.SetHPOverride(args.HP)
	diff.SetODOverride(args.OD)

	if args.HardRockOffsets != nil {
		diff.HardRockOffsets = *args.HardRockOffsets
	}

	if err := diff.Validate(); err != nil {
		return nil, err
	}

	return diff, nil
}

func (args *Args) partial() (hitresults.Partial, error) {
	p := hitresults.Partial{
		Combo:         args.Combo,
		NGeki:         args.NGeki,
		NKatu:         args.NKatu,
		N300:          args.N300,
		N100:          args.N100,
		N50:           args.N50,
		Misses:        args.Misses,
		LargeTickHits: args.LargeTickHits,
		SmallTickHits: args.SmallTickHits,
		SliderEndHits: args.SliderEndHits,
		Priority:      args.Priority,
	}

	if args.Accuracy != nil {
		acc := *args.Accuracy
		if math.IsNaN(acc) || acc < 0 || acc > 100 {
			return hitresults.Partial{}, errors.Wrapf(difficulty.ErrInvalidRange, "accuracy %.2f%% is outside [0, 100]", acc)
		}

		acc /= 100
		p.Accuracy = &acc
	}

	return p, nil
}

// resolveState fills in the hit results the arguments leave open
func resolveState(attr api.DifficultyAttributes, p hitresults.Partial, set difficulty.ModifierSet) (api.ScoreState, error) {
	switch {
	case attr.Osu != nil:
		return hitresults.Osu(attr.Osu, p, set.Lazer(), set.Classic())
	case attr.Taiko != nil:
		return hitresults.Taiko(attr.Taiko, p)
	case attr.Catch != nil:
		return hitresults.Catch(attr.Catch, p)
	case attr.Mania != nil:
		return hitresults.Mania(attr.Mania, p, set.Lazer())
	}

	return api.ScoreState{}, errors.Errorf("attributes of %s carry no values", attr.Mode)
}
