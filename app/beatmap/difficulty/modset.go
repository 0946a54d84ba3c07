package difficulty

import (
	"strings"

	"github.com/pkg/errors"
)

// ModSpec is a single modifier with optional settings, as lazer describes them
type ModSpec struct {
	Acronym  string         `json:"acronym" mapstructure:"acronym"`
	Settings map[string]any `json:"settings,omitempty" mapstructure:"settings"`
}

// ModifierSet is a validated set of mods with their settings
type ModifierSet struct {
	Mods Modifier

	// SpeedChange overrides the default clock rate of DT/NC/HT/DC, 0 keeps the default
	SpeedChange float64
}

func NewModifierSet(mods Modifier) (ModifierSet, error) {
	if err := mods.Validate(); err != nil {
		return ModifierSet{}, err
	}

	return ModifierSet{Mods: mods}, nil
}

// ParseMods accepts a bitflag (any integer type or Modifier), an acronym string,
// a list of acronyms, a ModSpec or a list of ModSpecs
func ParseMods(spec any) (ModifierSet, error) {
	set := ModifierSet{}

	switch v := spec.(type) {
	case nil:
	case ModifierSet:
		set = v
	case Modifier:
		set.Mods = v
	case int:
		set.Mods = Modifier(v)
	case int32:
		set.Mods = Modifier(v)
	case int64:
		set.Mods = Modifier(v)
	case uint32:
		set.Mods = Modifier(v)
	case float64:
		set.Mods = Modifier(int64(v))
	case string:
		mods, err := ParseFromAcronyms(v)
		if err != nil {
			return ModifierSet{}, err
		}

		set.Mods = mods
	case []string:
		for _, a := range v {
			mods, err := ParseFromAcronyms(a)
			if err != nil {
				return ModifierSet{}, err
			}

			set.Mods |= mods
		}
	case ModSpec:
		if err := set.addSpec(v); err != nil {
			return ModifierSet{}, err
		}
	case []ModSpec:
		for _, s := range v {
			if err := set.addSpec(s); err != nil {
				return ModifierSet{}, err
			}
		}
	default:
		return ModifierSet{}, errors.Wrapf(ErrInvalidModifier, "unsupported mod specification of type %T", spec)
	}

	if set.Mods < 0 {
		return ModifierSet{}, errors.Wrapf(ErrInvalidModifier, "negative mod bitflag %d", set.Mods)
	}

	if err := set.Mods.Validate(); err != nil {
		return ModifierSet{}, err
	}

	return set, nil
}

func (set *ModifierSet) addSpec(spec ModSpec) error {
	mod, err := ParseAcronym(spec.Acronym)
	if err != nil {
		return err
	}

	set.Mods |= mod

	if raw, ok := spec.Settings["speed_change"]; ok {
		speed, ok := raw.(float64)
		if !ok || speed <= 0 {
			return errors.Wrapf(ErrInvalidModifier, "invalid speed_change %v for %s", raw, strings.ToUpper(spec.Acronym))
		}

		set.SpeedChange = speed
	}

	return nil
}

func (set ModifierSet) Active(mod Modifier) bool {
	return set.Mods.Active(mod)
}

// ClockRate returns the playback rate implied by the speed mods
func (set ModifierSet) ClockRate() float64 {
	switch {
	case set.Mods.Any(speedUp):
		if set.SpeedChange > 0 {
			return set.SpeedChange
		}

		return 1.5
	case set.Mods.Any(speedDown):
		if set.SpeedChange > 0 {
			return set.SpeedChange
		}

		return 0.75
	}

	return 1
}

// HardRockOffsets tells whether catch fruits get randomly shifted by default
func (set ModifierSet) HardRockOffsets() bool {
	return set.Mods.Active(HardRock)
}

func (set ModifierSet) Lazer() bool {
	return set.Mods.Active(Lazer)
}

// Classic tells whether lazer scoring should follow stable's slider accuracy rules
func (set ModifierSet) Classic() bool {
	return !set.Lazer() || set.Mods.Active(Classic)
}

func (set ModifierSet) String() string {
	s := set.Mods.String()
	if s == "" {
		return "NM"
	}

	return s
}
