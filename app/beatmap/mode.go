package beatmap

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type GameMode int

const (
	ModeOsu GameMode = iota
	ModeTaiko
	ModeCatch
	ModeMania
)

var ErrUnknownMode = errors.New("unknown game mode")

var modeNames = map[GameMode]string{
	ModeOsu:   "osu",
	ModeTaiko: "taiko",
	ModeCatch: "catch",
	ModeMania: "mania",
}

func (mode GameMode) String() string {
	if name, ok := modeNames[mode]; ok {
		return name
	}

	return "unknown"
}

// Title returns the display name, "osu!taiko" style
func (mode GameMode) Title() string {
	if mode == ModeOsu {
		return "osu!"
	}

	return "osu!" + mode.String()
}

// Short returns the capitalized mode name, "Taiko"
func (mode GameMode) Short() string {
	return cases.Title(language.English).String(mode.String())
}

func (mode GameMode) MarshalText() ([]byte, error) {
	return []byte(mode.String()), nil
}

func (mode *GameMode) UnmarshalText(text []byte) error {
	parsed, err := ParseGameMode(string(text))
	if err != nil {
		return err
	}

	*mode = parsed

	return nil
}

// ParseGameMode accepts mode ids and common names ("std", "ctb", "fruits", ...)
func ParseGameMode(text string) (GameMode, error) {
	text = strings.ToLower(strings.TrimSpace(text))

	if id, err := strconv.Atoi(text); err == nil {
		if id >= int(ModeOsu) && id <= int(ModeMania) {
			return GameMode(id), nil
		}

		return 0, errors.Wrapf(ErrUnknownMode, "mode id %d", id)
	}

	switch text {
	case "osu", "std", "standard", "osu!":
		return ModeOsu, nil
	case "taiko", "osu!taiko":
		return ModeTaiko, nil
	case "catch", "ctb", "fruits", "osu!catch":
		return ModeCatch, nil
	case "mania", "osu!mania":
		return ModeMania, nil
	}

	return 0, errors.Wrapf(ErrUnknownMode, "%q", text)
}
