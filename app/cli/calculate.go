package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/beatmap/parser"
	"github.com/wieku/danser-pp/app/calculator"
	"github.com/wieku/danser-pp/app/database"
	"github.com/wieku/danser-pp/app/rulesets/api"
)

func loadBeatmap(path string) (*beatmap.Beatmap, error) {
	bMap, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}

	log.Debug("Loaded beatmap", "path", path, "mode", bMap.Mode, "objects", len(bMap.HitObjects), "md5", bMap.MD5)

	return bMap, nil
}

// cacheKey returns false when the arguments can't be cached
func cacheKey(bMap *beatmap.Beatmap, args calculator.Args) (database.Key, bool) {
	if bMap.MD5 == "" || usesOverrides(args) {
		return database.Key{}, false
	}

	set, err := difficulty.ParseMods(args.Mods)
	if err != nil {
		return database.Key{}, false
	}

	if args.Lazer == nil || *args.Lazer {
		set.Mods |= difficulty.Lazer
	}

	mode := bMap.Mode
	if args.Mode != nil {
		mode = *args.Mode
	}

	passed := -1
	if args.PassedObjects != nil {
		passed = *args.PassedObjects
	}

	version, _ := calculator.Version(mode)

	return database.NewKey(bMap.MD5, mode, set.Mods, clockRateOf(args), passed, version), true
}

// difficultyOf calculates attributes, going through the cache when possible
func (a *app) difficultyOf(ctx context.Context, bMap *beatmap.Beatmap, args calculator.Args) (api.DifficultyAttributes, error) {
	calc := calculator.NewDifficulty(args)

	key, ok := cacheKey(bMap, args)
	cache := a.openCache()

	if !ok || cache == nil {
		return calc.Calculate(bMap)
	}

	entry, cached, err := cache.Remember(ctx, key, func() (database.Entry, error) {
		attr, err := calc.Calculate(bMap)
		return database.Entry{Attributes: attr}, err
	})
	if err != nil {
		return api.DifficultyAttributes{}, err
	}

	log.Debug("Difficulty attributes", "key", key.String(), "cached", cached)

	return entry.Attributes, nil
}

// strainsOf calculates strains together with attributes, cached entries without strains are refreshed
func (a *app) strainsOf(ctx context.Context, bMap *beatmap.Beatmap, args calculator.Args) (api.DifficultyAttributes, api.Strains, error) {
	calc := calculator.NewDifficulty(args)

	compute := func() (database.Entry, error) {
		attr, err := calc.Calculate(bMap)
		if err != nil {
			return database.Entry{}, err
		}

		strains, err := calc.Strains(bMap)
		if err != nil {
			return database.Entry{}, err
		}

		return database.Entry{Attributes: attr, Strains: &strains}, nil
	}

	key, ok := cacheKey(bMap, args)
	cache := a.openCache()

	if ok && cache != nil {
		if entry, err := cache.Get(ctx, key); err == nil && entry.Strains != nil {
			return entry.Attributes, *entry.Strains, nil
		}
	}

	entry, err := compute()
	if err != nil {
		return api.DifficultyAttributes{}, api.Strains{}, err
	}

	if ok && cache != nil {
		entry.Version = key.Version

		if err = cache.Put(ctx, key, entry); err != nil {
			log.Warn("Failed to store strains", "err", err)
		}
	}

	return entry.Attributes, *entry.Strains, nil
}

// clockRateOf returns the custom clock rate or the rate of the speed changing mods
func clockRateOf(args calculator.Args) float64 {
	if args.ClockRate != nil {
		return *args.ClockRate
	}

	set, err := difficulty.ParseMods(args.Mods)
	if err != nil {
		return 1
	}

	return set.ClockRate()
}
