package curves

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/wieku/danser-pp/framework/math/math32"
	"github.com/wieku/danser-pp/framework/math/vector"
)

type CurveType int

const (
	CLinear CurveType = iota
	CPerfect
	CBezier
	CCatmull
)

const (
	bezierTolerance    = float32(0.25)
	circularTolerance  = float32(0.1)
	catmullDetail      = 50
	minBezierPointsLen = 2
)

func TypeFromLetter(letter byte) CurveType {
	switch letter {
	case 'L':
		return CLinear
	case 'P':
		return CPerfect
	case 'C':
		return CCatmull
	}

	return CBezier
}

// Approximate converts control points of a single segment into a polyline
func Approximate(typ CurveType, points []vector.Vector2f) []vector.Vector2f {
	switch typ {
	case CLinear:
		return append([]vector.Vector2f(nil), points...)
	case CPerfect:
		if len(points) == 3 {
			if arc := approximateCircularArc(points[0], points[1], points[2]); arc != nil {
				return arc
			}
		}

		return approximateBezier(points)
	case CCatmull:
		return approximateCatmull(points)
	}

	return approximateBezier(points)
}

func approximateBezier(points []vector.Vector2f) []vector.Vector2f {
	if len(points) < minBezierPointsLen {
		return append([]vector.Vector2f(nil), points...)
	}

	controlLength := float32(0)
	cPoints := make([]mgl32.Vec2, len(points))

	for i, p := range points {
		cPoints[i] = p.ToMgl()

		if i > 0 {
			controlLength += p.Dst(points[i-1])
		}
	}

	numPoints := max(2, int(math32.Ceil(controlLength/bezierTolerance/8))+1)

	line := mgl32.MakeBezierCurve2D(numPoints, cPoints)

	result := make([]vector.Vector2f, len(line))
	for i, p := range line {
		result[i] = vector.FromMgl(p)
	}

	return result
}

func approximateCircularArc(a, b, c vector.Vector2f) []vector.Vector2f {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math32.Abs(d) < 0.001 {
		return nil
	}

	aSq, bSq, cSq := a.LenSq(), b.LenSq(), c.LenSq()

	centre := vector.NewVec2f(
		(aSq*(b.Y-c.Y)+bSq*(c.Y-a.Y)+cSq*(a.Y-b.Y))/d,
		(aSq*(c.X-b.X)+bSq*(a.X-c.X)+cSq*(b.X-a.X))/d,
	)

	dA := a.Sub(centre)
	dC := c.Sub(centre)

	radius := dA.Len()

	thetaStart := float64(dA.AngleR())
	thetaEnd := float64(dC.AngleR())

	for thetaEnd < thetaStart {
		thetaEnd += 2 * math.Pi
	}

	dir := 1.0
	thetaRange := thetaEnd - thetaStart

	orthoAtoC := c.Sub(a)
	orthoAtoC = vector.NewVec2f(orthoAtoC.Y, -orthoAtoC.X)

	if orthoAtoC.Dot(b.Sub(a)) < 0 {
		dir = -dir
		thetaRange = 2*math.Pi - thetaRange
	}

	amountPoints := 2
	if 2*radius > circularTolerance {
		amountPoints = max(2, int(math.Ceil(thetaRange/(2*math.Acos(float64(1-circularTolerance/radius))))))
	}

	result := make([]vector.Vector2f, amountPoints)

	for i := range amountPoints {
		fract := float64(i) / float64(amountPoints-1)
		theta := thetaStart + dir*fract*thetaRange
		result[i] = centre.Add(vector.NewVec2fRad(float32(theta), radius))
	}

	return result
}

func approximateCatmull(points []vector.Vector2f) []vector.Vector2f {
	result := make([]vector.Vector2f, 0, (len(points)-1)*catmullDetail*2)

	for i := 0; i < len(points)-1; i++ {
		v1 := points[max(0, i-1)]
		v2 := points[i]

		v3 := v2.Add(v2.Sub(v1))
		if i < len(points)-1 {
			v3 = points[i+1]
		}

		v4 := v3.Add(v3.Sub(v2))
		if i < len(points)-2 {
			v4 = points[i+2]
		}

		for c := range catmullDetail {
			result = append(result,
				catmullPoint(v1, v2, v3, v4, float32(c)/catmullDetail),
				catmullPoint(v1, v2, v3, v4, float32(c+1)/catmullDetail),
			)
		}
	}

	return result
}

func catmullPoint(v1, v2, v3, v4 vector.Vector2f, t float32) vector.Vector2f {
	t2 := t * t
	t3 := t * t2

	return vector.NewVec2f(
		0.5*(2*v2.X+(-v1.X+v3.X)*t+(2*v1.X-5*v2.X+4*v3.X-v4.X)*t2+(-v1.X+3*v2.X-3*v3.X+v4.X)*t3),
		0.5*(2*v2.Y+(-v1.Y+v3.Y)*t+(2*v1.Y-5*v2.Y+4*v3.Y-v4.Y)*t2+(-v1.Y+3*v2.Y-3*v3.Y+v4.Y)*t3),
	)
}

// Path is a slider path fitted to an expected pixel length
type Path struct {
	points     []vector.Vector2f
	cumulative []float64
}

// NewPath builds a path from the control points. Bezier paths are split into segments on repeated points.
// If expectedLength is positive the path is truncated or linearly extended to match it.
func NewPath(typ CurveType, controlPoints []vector.Vector2f, expectedLength float64) *Path {
	var points []vector.Vector2f

	if typ == CBezier || typ == CPerfect && len(controlPoints) != 3 {
		start := 0
		for i := 1; i <= len(controlPoints); i++ {
			if i == len(controlPoints) || controlPoints[i] == controlPoints[i-1] {
				segment := Approximate(CBezier, controlPoints[start:i])
				if len(points) > 0 && len(segment) > 0 && points[len(points)-1] == segment[0] {
					segment = segment[1:]
				}

				points = append(points, segment...)
				start = i
			}
		}
	} else {
		points = Approximate(typ, controlPoints)
	}

	if len(points) == 0 && len(controlPoints) > 0 {
		points = []vector.Vector2f{controlPoints[0]}
	}

	path := &Path{points: points}
	path.calculateLength(expectedLength)

	return path
}

func (path *Path) calculateLength(expectedLength float64) {
	path.cumulative = make([]float64, len(path.points))

	for i := 1; i < len(path.points); i++ {
		path.cumulative[i] = path.cumulative[i-1] + float64(path.points[i].Dst(path.points[i-1]))
	}

	if expectedLength <= 0 || len(path.points) < 2 {
		return
	}

	total := path.cumulative[len(path.cumulative)-1]
	if math.Abs(total-expectedLength) < 0.0001 {
		return
	}

	if total > expectedLength {
		idx := sort.SearchFloat64s(path.cumulative, expectedLength)

		path.points = path.points[:idx+1]
		path.cumulative = path.cumulative[:idx+1]
	}

	last := len(path.points) - 1
	if last < 1 {
		return
	}

	prev := path.points[last-1]
	segLength := path.cumulative[last] - path.cumulative[last-1]

	if segLength <= 0 {
		path.cumulative[last] = expectedLength
		return
	}

	dir := path.points[last].Sub(prev).Nor()

	path.points[last] = prev.Add(dir.Scl(float32(expectedLength - path.cumulative[last-1])))
	path.cumulative[last] = expectedLength
}

func (path *Path) Length() float64 {
	if len(path.cumulative) == 0 {
		return 0
	}

	return path.cumulative[len(path.cumulative)-1]
}

// PointAt returns the position at progress in [0, 1] of the path's length
func (path *Path) PointAt(progress float64) vector.Vector2f {
	if len(path.points) == 0 {
		return vector.Vector2f{}
	}

	if len(path.points) == 1 {
		return path.points[0]
	}

	d := min(max(progress, 0), 1) * path.Length()

	i := sort.SearchFloat64s(path.cumulative, d)

	if i <= 0 {
		return path.points[0]
	}

	if i >= len(path.points) {
		return path.points[len(path.points)-1]
	}

	d0, d1 := path.cumulative[i-1], path.cumulative[i]
	if d1-d0 < 1e-9 {
		return path.points[i-1]
	}

	return path.points[i-1].Lerp(path.points[i], float32((d-d0)/(d1-d0)))
}

func (path *Path) Points() []vector.Vector2f {
	return path.points
}
