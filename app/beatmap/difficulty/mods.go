package difficulty

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
)

type Modifier int64

const (
	NoFail Modifier = 1 << iota
	Easy
	TouchDevice
	Hidden
	HardRock
	SuddenDeath
	DoubleTime
	Relax
	HalfTime
	Nightcore
	Flashlight
	Autoplay
	SpunOut
	Relax2
	Perfect
	Key4
	Key5
	Key6
	Key7
	Key8
	FadeIn
	Random
	Cinema
	Target
	Key9
	KeyCoop
	Key1
	Key3
	Key2
	ScoreV2
	Mirror

	// Lazer only mods
	Daycore
	Classic
	DifficultyAdjust

	// Pseudo mod that switches score processing to lazer semantics
	Lazer

	None Modifier = 0

	KeyMods = Key1 | Key2 | Key3 | Key4 | Key5 | Key6 | Key7 | Key8 | Key9 | KeyCoop

	// DifficultyAdjustMask contains mods that alter difficulty attributes or star rating
	DifficultyAdjustMask = HardRock | Easy | DoubleTime | Nightcore | HalfTime | Daycore | Flashlight | Hidden | TouchDevice | Relax | Relax2 | SpunOut | KeyMods | Mirror | Random

	speedUp   = DoubleTime | Nightcore
	speedDown = HalfTime | Daycore
)

var ErrInvalidModifier = errors.New("invalid modifier")

type modInfo struct {
	mod     Modifier
	acronym string
}

// Order matters for String output, it follows the order osu! prints mods in
var modsTable = []modInfo{
	{NoFail, "NF"},
	{Easy, "EZ"},
	{TouchDevice, "TD"},
	{Hidden, "HD"},
	{HardRock, "HR"},
	{SuddenDeath, "SD"},
	{Perfect, "PF"},
	{DoubleTime, "DT"},
	{Nightcore, "NC"},
	{HalfTime, "HT"},
	{Daycore, "DC"},
	{Relax, "RX"},
	{Relax2, "AP"},
	{Flashlight, "FL"},
	{Autoplay, "AT"},
	{SpunOut, "SO"},
	{FadeIn, "FI"},
	{Random, "RD"},
	{Cinema, "CN"},
	{Target, "TP"},
	{Key1, "1K"},
	{Key2, "2K"},
	{Key3, "3K"},
	{Key4, "4K"},
	{Key5, "5K"},
	{Key6, "6K"},
	{Key7, "7K"},
	{Key8, "8K"},
	{Key9, "9K"},
	{KeyCoop, "CO"},
	{ScoreV2, "V2"},
	{Mirror, "MR"},
	{Classic, "CL"},
	{DifficultyAdjust, "DA"},
}

// Each group may contain at most one active mod
var conflictGroups = [][]Modifier{
	{Easy, HardRock},
	{speedUp, speedDown},
	{NoFail, SuddenDeath | Perfect},
	{Relax, Relax2},
	{Relax, Autoplay},
	{Relax2, Autoplay},
	{Relax2, SpunOut},
}

func (mods Modifier) Active(mod Modifier) bool {
	return mods&mod == mod
}

func (mods Modifier) Any(mod Modifier) bool {
	return mods&mod > 0
}

func (mods Modifier) String() string {
	var b strings.Builder

	for _, m := range modsTable {
		if mods&m.mod == 0 {
			continue
		}

		// NC implies DT and PF implies SD in the bitflag, print only the stronger one
		if m.mod == DoubleTime && mods.Active(Nightcore) || m.mod == SuddenDeath && mods.Active(Perfect) {
			continue
		}

		b.WriteString(m.acronym)
	}

	return b.String()
}

// Validate checks the mod combination for mutually exclusive mods
func (mods Modifier) Validate() error {
	// Bitflag form of NC and PF carries DT and SD respectively
	normalized := mods
	if normalized.Active(Nightcore) {
		normalized &^= DoubleTime
	}

	if normalized.Active(Perfect) {
		normalized &^= SuddenDeath
	}

	for _, group := range conflictGroups {
		active := 0

		for _, m := range group {
			if normalized&m > 0 {
				active++
			}
		}

		if active > 1 {
			return errors.Wrapf(ErrInvalidModifier, "conflicting mods in %s", normalized.String())
		}
	}

	if keys := normalized & KeyMods; keys != 0 && keys&(keys-1) != 0 {
		return errors.Wrapf(ErrInvalidModifier, "multiple key mods in %s", normalized.String())
	}

	return nil
}

// KeyCount returns the mania key count forced by a key mod, 0 if none is active
func (mods Modifier) KeyCount() int {
	keys := []Modifier{Key1, Key2, Key3, Key4, Key5, Key6, Key7, Key8, Key9}

	idx := slices.IndexFunc(keys, func(m Modifier) bool { return mods.Active(m) })

	return idx + 1
}

// ParseFromAcronyms parses an acronym string like "HDDT" or "HD,DT" into mods
func ParseFromAcronyms(text string) (Modifier, error) {
	text = strings.ToUpper(strings.TrimSpace(text))
	text = strings.NewReplacer(",", "", " ", "", "+", "").Replace(text)

	if text == "" || text == "NM" {
		return None, nil
	}

	if len(text)%2 != 0 {
		return None, errors.Wrapf(ErrInvalidModifier, "malformed mod string %q", text)
	}

	mods := None

	for i := 0; i < len(text); i += 2 {
		mod, err := ParseAcronym(text[i : i+2])
		if err != nil {
			return None, err
		}

		mods |= mod
	}

	return mods, nil
}

func ParseAcronym(acronym string) (Modifier, error) {
	acronym = strings.ToUpper(acronym)

	idx := slices.IndexFunc(modsTable, func(m modInfo) bool { return m.acronym == acronym })
	if idx < 0 {
		return None, errors.Wrapf(ErrInvalidModifier, "unknown mod %q", acronym)
	}

	mod := modsTable[idx].mod

	// Stable bitflags store NC as NC|DT and PF as PF|SD
	switch mod {
	case Nightcore:
		mod |= DoubleTime
	case Perfect:
		mod |= SuddenDeath
	}

	return mod, nil
}

func GetDiffMaskedMods(mods Modifier) Modifier {
	return mods & DifficultyAdjustMask
}
