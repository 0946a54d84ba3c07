package objects

import "github.com/wieku/danser-pp/framework/math/vector"

type Circle struct {
	HitObject
}

func NewCircle(id int, pos vector.Vector2f, time float64, newCombo bool, hitSound int) *Circle {
	return &Circle{
		HitObject: HitObject{
			ID:            id,
			StartPosition: pos,
			EndPosition:   pos,
			StartTime:     time,
			EndTime:       time,
			NewCombo:      newCombo,
			HitSound:      hitSound,
		},
	}
}

func (c *Circle) Copy() IHitObject {
	circle := *c
	return &circle
}
