package difficulty

import (
	"math"

	"github.com/pkg/errors"
	"github.com/wieku/danser-pp/framework/math/mutils"
)

const (
	HitFadeIn     = 400.0
	PreemptMin    = 450.0
	PreemptMid    = 1200.0
	PreemptMax    = 1800.0
	ObjectRadius  = 64.0
	gamefieldFix  = 1.00041
	attributeMin  = -20.0
	attributeMax  = 20.0
	clockRateMin  = 0.01
	clockRateMax  = 100.0
	hardRockRatio = 1.4
)

var ErrInvalidRange = errors.New("value out of range")

// Override replaces a base attribute. WithMods tells that the value already
// accounts for mods and clock rate and is used verbatim.
type Override struct {
	Value    float64
	WithMods bool
}

// Difficulty resolves effective beatmap attributes for a set of mods.
// Fields with U suffix are in map time, the rest are in wall-clock time.
type Difficulty struct {
	Mods Modifier

	modSet ModifierSet

	baseHP float64
	baseCS float64
	baseOD float64
	baseAR float64

	customSpeed float64

	hpOverride *Override
	csOverride *Override
	odOverride *Override
	arOverride *Override

	// HardRockOffsets enables random catch fruit offsets, defaults to HR being active
	HardRockOffsets bool

	Speed float64

	HP float64
	CS float64
	OD float64
	AR float64

	// ARReal and ODReal include clock rate
	ARReal float64
	ODReal float64

	Preempt    float64
	PreemptU   float64
	TimeFadeIn float64

	CircleRadiusU float64
	Scale         float64

	Hit50U  float64
	Hit100U float64
	Hit300U float64

	Hit50  float64
	Hit100 float64
	Hit300 float64

	// Mania windows before HR/EZ scaling
	maniaOD        float64
	maniaODWithMod bool
}

func NewDifficulty(hp, cs, od, ar float64) *Difficulty {
	diff := &Difficulty{
		baseHP: hp,
		baseCS: cs,
		baseOD: od,
		baseAR: ar,
	}

	diff.calculate()

	return diff
}

func (diff *Difficulty) calculate() {
	diff.Speed = diff.modSet.ClockRate()
	if diff.customSpeed > 0 {
		diff.Speed = diff.customSpeed
	}

	diff.HP = diff.applyMods(diff.baseHP, diff.hpOverride, hardRockRatio)
	diff.CS = diff.applyMods(diff.baseCS, diff.csOverride, 1.3)
	diff.OD = diff.applyMods(diff.baseOD, diff.odOverride, hardRockRatio)
	diff.AR = diff.applyMods(diff.baseAR, diff.arOverride, hardRockRatio)

	diff.maniaOD = diff.baseOD
	diff.maniaODWithMod = false

	if diff.odOverride != nil {
		diff.maniaOD = diff.odOverride.Value
		diff.maniaODWithMod = diff.odOverride.WithMods
	}

	diff.Scale = (1.0 - 0.7*(diff.CS-5)/5) / 2 * gamefieldFix
	diff.CircleRadiusU = ObjectRadius * diff.Scale

	if diff.arOverride != nil && diff.arOverride.WithMods {
		diff.Preempt = mutils.DifficultyRange(diff.AR, PreemptMax, PreemptMid, PreemptMin)
		diff.PreemptU = diff.Preempt * diff.Speed
		diff.ARReal = diff.AR
	} else {
		diff.PreemptU = mutils.DifficultyRange(diff.AR, PreemptMax, PreemptMid, PreemptMin)
		diff.Preempt = diff.PreemptU / diff.Speed
		diff.ARReal = mutils.InverseDifficultyRange(diff.Preempt, PreemptMax, PreemptMid, PreemptMin)
	}

	diff.TimeFadeIn = HitFadeIn * min(1, diff.PreemptU/PreemptMin)

	hit300 := mutils.DifficultyRange(diff.OD, 80, 50, 20)

	diff.Hit300U = max(0, hit300)
	diff.Hit100U = max(0, mutils.DifficultyRange(diff.OD, 140, 100, 60))
	diff.Hit50U = max(0, mutils.DifficultyRange(diff.OD, 200, 150, 100))

	if diff.odOverride != nil && diff.odOverride.WithMods {
		diff.ODReal = diff.OD

		diff.Hit300, diff.Hit100, diff.Hit50 = diff.Hit300U, diff.Hit100U, diff.Hit50U
		diff.Hit300U, diff.Hit100U, diff.Hit50U = diff.Hit300*diff.Speed, diff.Hit100*diff.Speed, diff.Hit50*diff.Speed
	} else {
		diff.ODReal = mutils.InverseDifficultyRange(hit300/diff.Speed, 80, 50, 20)

		diff.Hit300 = diff.Hit300U / diff.Speed
		diff.Hit100 = diff.Hit100U / diff.Speed
		diff.Hit50 = diff.Hit50U / diff.Speed
	}
}

func (diff *Difficulty) applyMods(base float64, override *Override, hrRatio float64) float64 {
	value := base

	if override != nil {
		if override.WithMods {
			return override.Value
		}

		value = override.Value
	}

	if diff.Mods.Active(HardRock) {
		value = min(value*hrRatio, 10)
	} else if diff.Mods.Active(Easy) {
		value *= 0.5
	}

	return value
}

func (diff *Difficulty) SetMods(mods Modifier) {
	diff.SetModifierSet(ModifierSet{Mods: mods})
}

func (diff *Difficulty) SetModifierSet(set ModifierSet) {
	diff.modSet = set
	diff.Mods = set.Mods
	diff.HardRockOffsets = set.HardRockOffsets()
	diff.calculate()
}

func (diff *Difficulty) ModifierSet() ModifierSet {
	return diff.modSet
}

// SetCustomSpeed overrides the clock rate implied by mods, 0 restores it
func (diff *Difficulty) SetCustomSpeed(speed float64) {
	diff.customSpeed = speed
	diff.calculate()
}

func (diff *Difficulty) SetHPOverride(o *Override) {
	diff.hpOverride = o
	diff.calculate()
}

func (diff *Difficulty) SetCSOverride(o *Override) {
	diff.csOverride = o
	diff.calculate()
}

func (diff *Difficulty) SetODOverride(o *Override) {
	diff.odOverride = o
	diff.calculate()
}

func (diff *Difficulty) SetAROverride(o *Override) {
	diff.arOverride = o
	diff.calculate()
}

func (diff *Difficulty) CheckModActive(mods Modifier) bool {
	return diff.Mods&mods > 0
}

func (diff *Difficulty) GetBaseCS() float64 {
	return diff.baseCS
}

func (diff *Difficulty) GetBaseOD() float64 {
	return diff.baseOD
}

// Validate checks base values, overrides and clock rate against the allowed ranges
func (diff *Difficulty) Validate() error {
	check := func(name string, value float64) error {
		if math.IsNaN(value) || value < attributeMin || value > attributeMax {
			return errors.Wrapf(ErrInvalidRange, "%s %.2f is outside [%.0f, %.0f]", name, value, attributeMin, attributeMax)
		}

		return nil
	}

	values := []struct {
		name     string
		base     float64
		override *Override
	}{
		{"HP", diff.baseHP, diff.hpOverride},
		{"CS", diff.baseCS, diff.csOverride},
		{"OD", diff.baseOD, diff.odOverride},
		{"AR", diff.baseAR, diff.arOverride},
	}

	for _, v := range values {
		value := v.base
		if v.override != nil {
			value = v.override.Value
		}

		if err := check(v.name, value); err != nil {
			return err
		}
	}

	if math.IsNaN(diff.Speed) || diff.Speed < clockRateMin || diff.Speed > clockRateMax {
		return errors.Wrapf(ErrInvalidRange, "clock rate %.3f is outside [%.2f, %.0f]", diff.Speed, clockRateMin, clockRateMax)
	}

	return nil
}

// TaikoWindows returns great and ok hit windows in wall-clock milliseconds
func (diff *Difficulty) TaikoWindows() (great, ok float64) {
	great = max(0, mutils.DifficultyRange(diff.OD, 50, 35, 20)) / diff.Speed
	ok = max(0, mutils.DifficultyRange(diff.OD, 120, 80, 50)) / diff.Speed

	return
}

// ManiaWindows returns great and ok hit windows in wall-clock milliseconds.
// Mania ignores HR/EZ for OD and scales the windows instead.
func (diff *Difficulty) ManiaWindows(isConvert bool) (great, ok float64) {
	od := diff.maniaOD

	if isConvert {
		great, ok = 47, 77
		if math.Round(od) > 4 {
			great, ok = 34, 67
		}
	} else {
		great = max(0, 64-3*od)
		ok = max(0, 97-3*od)
	}

	if diff.maniaODWithMod {
		return great, ok
	}

	if diff.Mods.Active(HardRock) {
		great /= hardRockRatio
		ok /= hardRockRatio
	} else if diff.Mods.Active(Easy) {
		great *= hardRockRatio
		ok *= hardRockRatio
	}

	return great / diff.Speed, ok / diff.Speed
}

func (diff *Difficulty) Clone() *Difficulty {
	clone := *diff
	return &clone
}
