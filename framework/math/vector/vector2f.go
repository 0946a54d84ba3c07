package vector

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/wieku/danser-pp/framework/math/math32"
)

type Vector2f struct {
	X, Y float32
}

func NewVec2f(x, y float32) Vector2f {
	return Vector2f{x, y}
}

func NewVec2fRad(rad, length float32) Vector2f {
	return Vector2f{math32.Cos(rad) * length, math32.Sin(rad) * length}
}

func (v Vector2f) Add(v1 Vector2f) Vector2f {
	return Vector2f{v.X + v1.X, v.Y + v1.Y}
}

func (v Vector2f) AddS(x, y float32) Vector2f {
	return Vector2f{v.X + x, v.Y + y}
}

func (v Vector2f) Sub(v1 Vector2f) Vector2f {
	return Vector2f{v.X - v1.X, v.Y - v1.Y}
}

func (v Vector2f) Scl(mag float32) Vector2f {
	return Vector2f{v.X * mag, v.Y * mag}
}

func (v Vector2f) Mult(v1 Vector2f) Vector2f {
	return Vector2f{v.X * v1.X, v.Y * v1.Y}
}

func (v Vector2f) Dot(v1 Vector2f) float32 {
	return v.X*v1.X + v.Y*v1.Y
}

func (v Vector2f) Len() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vector2f) LenSq() float32 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vector2f) Dst(v1 Vector2f) float32 {
	return v.Sub(v1).Len()
}

func (v Vector2f) DstSq(v1 Vector2f) float32 {
	return v.Sub(v1).LenSq()
}

func (v Vector2f) Nor() Vector2f {
	l := v.Len()
	if l == 0 {
		return v
	}

	return Vector2f{v.X / l, v.Y / l}
}

func (v Vector2f) Lerp(v1 Vector2f, t float32) Vector2f {
	return Vector2f{v.X + (v1.X-v.X)*t, v.Y + (v1.Y-v.Y)*t}
}

func (v Vector2f) AngleR() float32 {
	return math32.Atan2(v.Y, v.X)
}

func (v Vector2f) Copy64() (float64, float64) {
	return float64(v.X), float64(v.Y)
}

func (v Vector2f) ToMgl() mgl32.Vec2 {
	return mgl32.Vec2{v.X, v.Y}
}

func FromMgl(v mgl32.Vec2) Vector2f {
	return Vector2f{v.X(), v.Y()}
}

func (v Vector2f) String() string {
	return fmt.Sprintf("%.2fx%.2f", v.X, v.Y)
}
