package cli

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/calculator"
	"github.com/wieku/danser-pp/app/rulesets/api"
)

var overrideKeys = []string{"ar", "cs", "hp", "od"}

func addDifficultyFlags(flags *pflag.FlagSet) {
	flags.StringP("mods", "m", "", `mods as acronyms ("HDDT") or a stable bitflag ("72")`)
	flags.String("mode", "", "convert the beatmap to a mode: osu, taiko, catch or mania")
	flags.Float64("clock-rate", 0, "custom clock rate, overrides the rate of speed changing mods")

	for _, key := range overrideKeys {
		name := strings.ToUpper(key)
		flags.Float64(key, 0, "override "+name)
		flags.Bool(key+"-with-mods", false, "apply mod adjustments to the "+name+" override")
	}

	flags.Int("passed-objects", -1, "calculate only the first n objects")
	flags.Bool("hardrock-offsets", false, "force catch hardrock position offsets regardless of mods")
	flags.Bool("stable", false, "use stable score semantics instead of lazer")
}

func addScoreFlags(flags *pflag.FlagSet) {
	flags.Float64P("accuracy", "a", 0, "accuracy in percent")
	flags.IntP("combo", "c", 0, "max combo")
	flags.Int("n-geki", 0, "gekis (mania perfects)")
	flags.Int("n-katu", 0, "katus (mania 200s, catch missed tiny droplets)")
	flags.Int("n300", 0, "300s")
	flags.Int("n100", 0, "100s")
	flags.Int("n50", 0, "50s")
	flags.IntP("misses", "x", 0, "misses")
	flags.Int("large-tick-hits", 0, "hit slider ticks and repeats (lazer)")
	flags.Int("small-tick-hits", 0, "hit slider tails (lazer classic)")
	flags.Int("slider-end-hits", 0, "hit slider ends (lazer)")
	flags.String("priority", "best", "distribution of unknown hit results: best, worst or nearest (closest reachable accuracy)")
}

// calculationArgs assembles calculator arguments from flags, environment and config file.
// Keys that were never set stay nil so the beatmap's and mods' defaults apply.
func calculationArgs(v *viper.Viper) (calculator.Args, error) {
	args := calculator.Args{}

	mods, err := modsValue(v.Get("mods"))
	if err != nil {
		return args, err
	}

	args.Mods = mods

	if text := v.GetString("mode"); text != "" {
		mode, err := beatmap.ParseGameMode(text)
		if err != nil {
			return args, err
		}

		args.Mode = &mode
	}

	args.ClockRate = floatValue(v, "clock-rate")

	overrides := []**difficulty.Override{&args.AR, &args.CS, &args.HP, &args.OD}
	for i, key := range overrideKeys {
		if value := floatValue(v, key); value != nil {
			*overrides[i] = &difficulty.Override{Value: *value, WithMods: v.GetBool(key + "-with-mods")}
		}
	}

	if passed := v.GetInt("passed-objects"); v.IsSet("passed-objects") && passed >= 0 {
		args.PassedObjects = &passed
	}

	if v.IsSet("hardrock-offsets") {
		offsets := v.GetBool("hardrock-offsets")
		args.HardRockOffsets = &offsets
	}

	lazer := !v.GetBool("stable")
	args.Lazer = &lazer

	args.Accuracy = floatValue(v, "accuracy")
	args.Combo = intValue(v, "combo")
	args.NGeki = intValue(v, "n-geki")
	args.NKatu = intValue(v, "n-katu")
	args.N300 = intValue(v, "n300")
	args.N100 = intValue(v, "n100")
	args.N50 = intValue(v, "n50")
	args.Misses = intValue(v, "misses")
	args.LargeTickHits = intValue(v, "large-tick-hits")
	args.SmallTickHits = intValue(v, "small-tick-hits")
	args.SliderEndHits = intValue(v, "slider-end-hits")

	if args.Priority, err = api.ParseHitResultPriority(v.GetString("priority")); err != nil {
		return args, err
	}

	return args, nil
}

// modsValue normalizes mods coming from a flag, an env variable or a YAML list
func modsValue(raw any) (any, error) {
	switch value := raw.(type) {
	case nil:
		return nil, nil
	case string:
		if id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return difficulty.Modifier(id), nil
		}

		return value, nil
	case int:
		return difficulty.Modifier(value), nil
	case []any:
		acronyms := make([]string, 0, len(value))

		for _, item := range value {
			text, ok := item.(string)
			if !ok {
				return nil, errors.Wrapf(difficulty.ErrInvalidModifier, "unexpected mod %v", item)
			}

			acronyms = append(acronyms, text)
		}

		return acronyms, nil
	case []string:
		return value, nil
	}

	return nil, errors.Wrapf(difficulty.ErrInvalidModifier, "unsupported mods value %v", raw)
}

func modsLabel(args calculator.Args) string {
	set, err := difficulty.ParseMods(args.Mods)
	if err != nil {
		return ""
	}

	return set.String()
}

// usesOverrides tells whether arguments change a map in a way the cache key doesn't capture
func usesOverrides(args calculator.Args) bool {
	return args.AR != nil || args.CS != nil || args.HP != nil || args.OD != nil || args.HardRockOffsets != nil
}

func floatValue(v *viper.Viper, key string) *float64 {
	if !v.IsSet(key) {
		return nil
	}

	value := v.GetFloat64(key)

	return &value
}

func intValue(v *viper.Viper, key string) *int {
	if !v.IsSet(key) {
		return nil
	}

	value := v.GetInt(key)

	return &value
}
