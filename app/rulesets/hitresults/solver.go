package hitresults

import (
	"math"

	"github.com/pkg/errors"
	"github.com/wieku/danser-pp/app/rulesets/api"
)

var ErrInconsistentState = errors.New("inconsistent hit statistics")

const epsilon = 1e-9

// Tier is one kind of judgement, Value is its integral weight in the accuracy formula
type Tier struct {
	Value float64

	// Count is used as given when Known is set
	Count int
	Known bool
}

// Problem describes hit counts to distribute between tiers ordered from the best one
type Problem struct {
	Tiers []Tier

	// Total is the number of judgements shared by all tiers
	Total int

	// Extra judgements outside of tiers, like slider ticks
	ExtraValue float64
	ExtraMax   float64

	// Accuracy in [0, 1], used when HasTarget is set
	Accuracy  float64
	HasTarget bool
}

func (p *Problem) maxValue() float64 {
	return float64(p.Total)*p.Tiers[0].Value + p.ExtraMax
}

func (p *Problem) tolerance() float64 {
	return epsilon * max(1, p.maxValue())
}

// Solve fills unknown tiers so that all counts sum to Total. With a target the counts must reproduce
// the accuracy exactly, unless priority is Nearest, which settles for the closest reachable one.
// Ambiguous solutions are resolved by priority: BestCase prefers better tiers, WorstCase worse ones.
func Solve(p Problem, priority api.HitResultPriority) ([]int, error) {
	if len(p.Tiers) == 0 {
		return nil, errors.Wrap(ErrInconsistentState, "no hit result tiers")
	}

	counts := make([]int, len(p.Tiers))

	remaining := p.Total

	var unknown []int

	for i, t := range p.Tiers {
		if !t.Known {
			unknown = append(unknown, i)
			continue
		}

		if t.Count < 0 {
			return nil, errors.Wrapf(ErrInconsistentState, "negative count %d", t.Count)
		}

		counts[i] = t.Count
		remaining -= t.Count
	}

	if remaining < 0 {
		return nil, errors.Wrapf(ErrInconsistentState, "explicit counts exceed %d judgements by %d", p.Total, -remaining)
	}

	switch {
	case len(unknown) == 0:
		// Fully specified counts describe a partial play and are used verbatim
		if p.HasTarget && priority != api.Nearest && !p.matches(counts) {
			return nil, errors.Wrapf(ErrInconsistentState, "given counts don't add up to %.4f%% accuracy", p.Accuracy*100)
		}

		return counts, nil
	case !p.HasTarget:
		counts[unknown[0]] += remaining
		return counts, nil
	}

	return solveTarget(&p, counts, unknown, remaining, priority)
}

// matches tells whether fully known counts have the target accuracy
func (p *Problem) matches(counts []int) bool {
	numerator, denominator := p.ExtraValue, p.ExtraMax

	for i, c := range counts {
		numerator += float64(c) * p.Tiers[i].Value
		denominator += float64(c) * p.Tiers[0].Value
	}

	if denominator <= 0 {
		return true
	}

	return math.Abs(numerator-p.Accuracy*denominator) <= epsilon*max(1, denominator)
}

func solveTarget(p *Problem, counts []int, unknown []int, remaining int, priority api.HitResultPriority) ([]int, error) {
	values := make([]int, len(unknown))

	for i, u := range unknown {
		v := p.Tiers[u].Value
		if math.Abs(v-math.Round(v)) > epsilon {
			return nil, errors.Wrapf(ErrInconsistentState, "tier value %v isn't integral", v)
		}

		values[i] = int(math.Round(v))
	}

	base := values[len(values)-1]

	// Unknown tiers above the worst one, in units of their greatest common divisor
	coins := make([]int, len(values)-1)
	unit := 0

	for i := range coins {
		coins[i] = values[i] - base
		if coins[i] < 0 {
			return nil, errors.Wrap(ErrInconsistentState, "tiers aren't ordered from the best one")
		}

		unit = gcd(unit, coins[i])
	}

	unit = max(unit, 1)

	maxCoin := 0
	for i := range coins {
		coins[i] /= unit
		maxCoin = max(maxCoin, coins[i])
	}

	fixed := p.ExtraValue
	for i, c := range counts {
		fixed += float64(c) * p.Tiers[i].Value
	}

	want := (p.Accuracy*p.maxValue() - fixed - float64(remaining*base)) / float64(unit)

	l := newLattice(coins, remaining*maxCoin)

	d := int(math.Round(want))

	exact := math.Abs(float64(d)-want)*float64(unit) <= p.tolerance() && l.feasible(0, d, remaining)
	if !exact {
		if priority != api.Nearest {
			return nil, errors.Wrapf(ErrInconsistentState, "no hit results add up to %.4f%% accuracy", p.Accuracy*100)
		}

		d = l.nearest(want, remaining)
	}

	l.distribute(counts, unknown, d, remaining, priority)

	return counts, nil
}

// lattice answers which values the unknown tiers can reach with a limited number of judgements
type lattice struct {
	coins []int

	// fewest[s][d] is the least number of judgements from tiers s and later worth d units
	fewest [][]int32
}

func newLattice(coins []int, limit int) *lattice {
	l := &lattice{
		coins:  coins,
		fewest: make([][]int32, len(coins)),
	}

	for s := len(coins) - 1; s >= 0; s-- {
		f := make([]int32, limit+1)

		for d := 1; d <= limit; d++ {
			f[d] = math.MaxInt32

			for _, c := range coins[s:] {
				if c > 0 && c <= d && f[d-c] != math.MaxInt32 {
					f[d] = min(f[d], f[d-c]+1)
				}
			}
		}

		l.fewest[s] = f
	}

	return l
}

// feasible tells whether tiers s and later can be worth d units using at most n judgements, the rest going to the worst tier
func (l *lattice) feasible(s, d, n int) bool {
	if d < 0 || n < 0 {
		return false
	}

	if s >= len(l.coins) {
		return d == 0
	}

	return d < len(l.fewest[s]) && int(l.fewest[s][d]) <= n
}

// nearest returns the reachable value closest to want, the higher one on ties
func (l *lattice) nearest(want float64, n int) int {
	limit := 0
	if len(l.coins) > 0 {
		limit = len(l.fewest[0]) - 1
	}

	best, bestDist := 0, math.Inf(1)

	for d := 0; d <= limit; d++ {
		if !l.feasible(0, d, n) {
			continue
		}

		if dist := math.Abs(float64(d) - want); dist <= bestDist+epsilon {
			best, bestDist = d, dist
		}
	}

	return best
}

// distribute assigns n judgements worth d units to the unknown tiers in priority order
func (l *lattice) distribute(counts []int, unknown []int, d, n int, priority api.HitResultPriority) {
	for s, c := range l.coins {
		top := n
		if c > 0 {
			top = min(n, d/c)
		}

		var pick int

		if priority == api.WorstCase {
			for pick = 0; pick < top; pick++ {
				if l.feasible(s+1, d-pick*c, n-pick) {
					break
				}
			}
		} else {
			for pick = top; pick > 0; pick-- {
				if l.feasible(s+1, d-pick*c, n-pick) {
					break
				}
			}
		}

		counts[unknown[s]] += pick

		d -= pick * c
		n -= pick
	}

	counts[unknown[len(unknown)-1]] += n
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}

	return a
}
