package api

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ScoreState holds hit result counts and the combo of one play
type ScoreState struct {
	MaxCombo int `json:"maxCombo"`

	NGeki int `json:"nGeki"`
	NKatu int `json:"nKatu"`
	N300  int `json:"n300"`
	N100  int `json:"n100"`
	N50   int `json:"n50"`

	Misses int `json:"misses"`

	// Lazer slider results, osu!standard only
	LargeTickHits int `json:"largeTickHits"`
	SmallTickHits int `json:"smallTickHits"`
	SliderEndHits int `json:"sliderEndHits"`
}

// TotalHits sums the judged results of objects, slider parts excluded
func (s ScoreState) TotalHits() int {
	return s.NGeki + s.NKatu + s.N300 + s.N100 + s.N50 + s.Misses
}

func (s ScoreState) String() string {
	b := strings.Builder{}

	fmt.Fprintf(&b, "%dx", s.MaxCombo)

	if s.NGeki > 0 || s.NKatu > 0 {
		fmt.Fprintf(&b, " geki:%d katu:%d", s.NGeki, s.NKatu)
	}

	fmt.Fprintf(&b, " 300:%d 100:%d 50:%d miss:%d", s.N300, s.N100, s.N50, s.Misses)

	if s.LargeTickHits > 0 || s.SmallTickHits > 0 || s.SliderEndHits > 0 {
		fmt.Fprintf(&b, " ticks:%d/%d ends:%d", s.LargeTickHits, s.SmallTickHits, s.SliderEndHits)
	}

	return b.String()
}

// HitResultPriority tells how ambiguous hits are distributed when inferring a score state
type HitResultPriority int

const (
	// BestCase assigns ambiguous hits to the best results that still match the accuracy
	BestCase HitResultPriority = iota
	// WorstCase assigns ambiguous hits to the worst results that still match the accuracy
	WorstCase
	// Fastest is accepted for compatibility and behaves like BestCase
	Fastest
	// Nearest settles for the closest reachable accuracy when the target can't be matched, otherwise like BestCase
	Nearest
)

var ErrUnknownPriority = errors.New("unknown hit result priority")

func (p HitResultPriority) String() string {
	switch p {
	case WorstCase:
		return "worst"
	case Fastest:
		return "fastest"
	case Nearest:
		return "nearest"
	}

	return "best"
}

func ParseHitResultPriority(text string) (HitResultPriority, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "best", "bestcase":
		return BestCase, nil
	case "worst", "worstcase":
		return WorstCase, nil
	case "fastest":
		return Fastest, nil
	case "nearest":
		return Nearest, nil
	}

	return BestCase, errors.Wrapf(ErrUnknownPriority, "%q", text)
}
