package mutils

import (
	"math"

	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer | constraints.Float
}

func Clamp[T Number](x, min, max T) T {
	if x < min {
		return min
	}

	if x > max {
		return max
	}

	return x
}

func Lerp[T Number, V constraints.Float](start, end T, t V) T {
	return start + T(V(end-start)*t)
}

// ReverseLerp returns where value lies between start and end, clamped to [0, 1]
func ReverseLerp[T constraints.Float](value, start, end T) T {
	if end == start {
		return 0
	}

	return Clamp((value-start)/(end-start), 0, 1)
}

func Abs[T constraints.Signed | constraints.Float](x T) T {
	if x < 0 {
		return -x
	}

	return x
}

func Signum[T constraints.Signed | constraints.Float](x T) T {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}

	return 0
}

// Logistic is a sigmoid with midpoint x0, steepness k and upper bound maxValue
func Logistic(x, maxValue, multiplier, midpointOffset float64) float64 {
	return maxValue / (1 + math.Exp(multiplier*(midpointOffset-x)))
}

// LogisticExp is Logistic with the exponent already computed
func LogisticExp(exponent, maxValue float64) float64 {
	return maxValue / (1 + math.Exp(exponent))
}

func Smoothstep(x, start, end float64) float64 {
	x = ReverseLerp(x, start, end)
	return x * x * (3 - 2*x)
}

func Smootherstep(x, start, end float64) float64 {
	x = ReverseLerp(x, start, end)
	return x * x * x * (x*(6*x-15) + 10)
}

// BellCurve is a gaussian centered at midpoint with the given width
func BellCurve(x, midpoint, width, multiplier float64) float64 {
	return multiplier * math.Exp(math.E*-(math.Pow(x-midpoint, 2)/math.Pow(width, 2)))
}

// Norm returns the p-norm of the given values
func Norm(p float64, values ...float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += math.Pow(v, p)
	}

	return math.Pow(sum, 1/p)
}

// DifficultyRange maps a difficulty value in [0, 10] onto min/mid/max, the value at 5 being mid
func DifficultyRange(difficulty, min, mid, max float64) float64 {
	switch {
	case difficulty > 5:
		return mid + (max-mid)*(difficulty-5)/5
	case difficulty < 5:
		return mid - (mid-min)*(5-difficulty)/5
	}

	return mid
}

// InverseDifficultyRange is the inverse of DifficultyRange for monotone ranges
func InverseDifficultyRange(value, min, mid, max float64) float64 {
	if (value-mid)*(max-mid) > 0 {
		return 5 + 5*(value-mid)/(max-mid)
	}

	return 5 - 5*(mid-value)/(mid-min)
}
