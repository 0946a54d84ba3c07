package objects

import "github.com/wieku/danser-pp/framework/math/vector"

// HoldNote is a mania long note
type HoldNote struct {
	HitObject
}

func NewHoldNote(id int, pos vector.Vector2f, startTime, endTime float64, hitSound int) *HoldNote {
	return &HoldNote{
		HitObject: HitObject{
			ID:            id,
			StartPosition: pos,
			EndPosition:   pos,
			StartTime:     startTime,
			EndTime:       max(startTime, endTime),
			HitSound:      hitSound,
		},
	}
}

func (h *HoldNote) Copy() IHitObject {
	hold := *h
	return &hold
}

// ManiaColumn maps an x position onto one of keyCount columns
func ManiaColumn(x float32, keyCount int) int {
	column := int(x * float32(keyCount) / PlayfieldWidth)

	return min(max(column, 0), keyCount-1)
}

// ManiaColumnX returns the x position stable writes for a column
func ManiaColumnX(column, keyCount int) float32 {
	return float32(column*PlayfieldWidth/keyCount) + float32(PlayfieldWidth/keyCount/2)
}
