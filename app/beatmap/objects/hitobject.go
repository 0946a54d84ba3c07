package objects

import (
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/framework/math/vector"
)

const (
	PlayfieldWidth  = 512
	PlayfieldHeight = 384
)

const (
	SoundNormal  = 1
	SoundWhistle = 2
	SoundFinish  = 4
	SoundClap    = 8
)

type IHitObject interface {
	GetID() int
	GetStartTime() float64
	GetEndTime() float64
	GetDuration() float64

	GetPosition() vector.Vector2f
	GetStartPosition() vector.Vector2f
	GetEndPosition() vector.Vector2f

	GetStackedStartPosition() vector.Vector2f
	GetStackedEndPosition() vector.Vector2f
	GetStackedStartPositionMod(mods difficulty.Modifier) vector.Vector2f
	GetStackedEndPositionMod(mods difficulty.Modifier) vector.Vector2f

	GetStackIndex() int64
	SetStackIndex(index int64)
	SetStackOffset(offset float32)

	IsNewCombo() bool
	GetHitSound() int

	// Copy returns an object that can be stacked or offset without touching the original
	Copy() IHitObject
}

type HitObject struct {
	ID int

	StartPosition vector.Vector2f
	EndPosition   vector.Vector2f

	StartTime float64
	EndTime   float64

	NewCombo bool
	HitSound int

	StackIndex  int64
	StackOffset vector.Vector2f
}

func (o *HitObject) GetID() int {
	return o.ID
}

func (o *HitObject) GetStartTime() float64 {
	return o.StartTime
}

func (o *HitObject) GetEndTime() float64 {
	return o.EndTime
}

func (o *HitObject) GetDuration() float64 {
	return o.EndTime - o.StartTime
}

func (o *HitObject) GetPosition() vector.Vector2f {
	return o.StartPosition
}

func (o *HitObject) GetStartPosition() vector.Vector2f {
	return o.StartPosition
}

func (o *HitObject) GetEndPosition() vector.Vector2f {
	return o.EndPosition
}

func (o *HitObject) GetStackedStartPosition() vector.Vector2f {
	return o.StartPosition.Add(o.StackOffset)
}

func (o *HitObject) GetStackedEndPosition() vector.Vector2f {
	return o.EndPosition.Add(o.StackOffset)
}

func (o *HitObject) GetStackedStartPositionMod(mods difficulty.Modifier) vector.Vector2f {
	return modifyPosition(o.StartPosition, mods).Add(o.StackOffset)
}

func (o *HitObject) GetStackedEndPositionMod(mods difficulty.Modifier) vector.Vector2f {
	return modifyPosition(o.EndPosition, mods).Add(o.StackOffset)
}

func (o *HitObject) GetStackIndex() int64 {
	return o.StackIndex
}

func (o *HitObject) SetStackIndex(index int64) {
	o.StackIndex = index
}

// SetStackOffset applies the per-stack-level offset, scale * -6.4 in osu!
func (o *HitObject) SetStackOffset(offset float32) {
	o.StackOffset = vector.NewVec2f(float32(o.StackIndex)*offset, float32(o.StackIndex)*offset)
}

func (o *HitObject) IsNewCombo() bool {
	return o.NewCombo
}

func (o *HitObject) GetHitSound() int {
	return o.HitSound
}

// modifyPosition flips the playfield vertically under HardRock
func modifyPosition(pos vector.Vector2f, mods difficulty.Modifier) vector.Vector2f {
	if mods.Active(difficulty.HardRock) {
		pos.Y = PlayfieldHeight - pos.Y
	}

	return pos
}

// CopyObjects returns shallow copies of all objects
func CopyObjects(objs []IHitObject) []IHitObject {
	copies := make([]IHitObject, len(objs))

	for i, o := range objs {
		copies[i] = o.Copy()
	}

	return copies
}
