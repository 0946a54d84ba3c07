package objects

import "github.com/wieku/danser-pp/framework/math/vector"

type Spinner struct {
	HitObject
}

func NewSpinner(id int, startTime, endTime float64, newCombo bool, hitSound int) *Spinner {
	center := vector.NewVec2f(PlayfieldWidth/2, PlayfieldHeight/2)

	return &Spinner{
		HitObject: HitObject{
			ID:            id,
			StartPosition: center,
			EndPosition:   center,
			StartTime:     startTime,
			EndTime:       max(startTime, endTime),
			NewCombo:      newCombo,
			HitSound:      hitSound,
		},
	}
}

func (s *Spinner) Copy() IHitObject {
	spinner := *s
	return &spinner
}
