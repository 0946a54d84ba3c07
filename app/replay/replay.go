package replay

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/calculator"
	"github.com/wieku/danser-pp/app/rulesets/api"
	"github.com/wieku/rplpa"
)

var (
	ErrInvalidReplay    = errors.New("invalid replay")
	ErrBeatmapMismatch  = errors.New("replay was played on a different beatmap")
	ErrModeNotSupported = errors.New("replay mode is not supported")
)

// Score is the result of a stable replay
type Score struct {
	Mode       beatmap.GameMode
	BeatmapMD5 string
	Player     string

	Mods  difficulty.Modifier
	State api.ScoreState

	Score   int64
	Perfect bool

	Timestamp time.Time

	// Frames is the number of recorded input frames
	Frames int
}

func ParseFile(path string) (*Score, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read replay %q", path)
	}

	score, err := Parse(data)

	return score, errors.Wrap(err, path)
}

func Parse(data []byte) (score *Score, err error) {
	// rplpa panics on truncated input
	defer func() {
		if r := recover(); r != nil {
			score = nil
			err = errors.Wrapf(ErrInvalidReplay, "%v", r)
		}
	}()

	rep, err := rplpa.ParseReplay(data)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidReplay, err.Error())
	}

	mode := beatmap.GameMode(rep.PlayMode)
	if mode < beatmap.ModeOsu || mode > beatmap.ModeMania {
		return nil, errors.Wrapf(ErrModeNotSupported, "mode id %d", rep.PlayMode)
	}

	mods := difficulty.Modifier(rep.Mods)
	if err = mods.Validate(); err != nil {
		return nil, errors.Wrap(ErrInvalidReplay, err.Error())
	}

	return &Score{
		Mode:       mode,
		BeatmapMD5: rep.BeatmapMD5,
		Player:     rep.Username,
		Mods:       mods,
		State: api.ScoreState{
			MaxCombo: int(rep.MaxCombo),
			NGeki:    int(rep.CountGeki),
			NKatu:    int(rep.CountKatu),
			N300:     int(rep.Count300),
			N100:     int(rep.Count100),
			N50:      int(rep.Count50),
			Misses:   int(rep.CountMiss),
		},
		Score:     int64(rep.Score),
		Perfect:   rep.Fullcombo,
		Timestamp: rep.Timestamp,
		Frames:    len(rep.ReplayData),
	}, nil
}

// Verify checks that the replay belongs to the beatmap
func (s *Score) Verify(bMap *beatmap.Beatmap) error {
	if s.BeatmapMD5 == "" || bMap.MD5 == "" || s.BeatmapMD5 == bMap.MD5 {
		return nil
	}

	return errors.Wrapf(ErrBeatmapMismatch, "replay %s, beatmap %s", s.BeatmapMD5, bMap.MD5)
}

// Args returns calculator arguments reproducing the play with stable score semantics
func (s *Score) Args() calculator.Args {
	mode := s.Mode
	lazer := false
	state := s.State

	args := calculator.Args{
		Mods:   s.Mods,
		Mode:   &mode,
		Lazer:  &lazer,
		Combo:  &state.MaxCombo,
		N300:   &state.N300,
		N100:   &state.N100,
		N50:    &state.N50,
		Misses: &state.Misses,
	}

	// Geki and katu are only judgements of their own in catch and mania
	if s.Mode == beatmap.ModeCatch || s.Mode == beatmap.ModeMania {
		args.NGeki = &state.NGeki
		args.NKatu = &state.NKatu
	}

	return args
}
