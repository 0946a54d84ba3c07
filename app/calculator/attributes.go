package calculator

import (
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/rulesets/api"
)

// BeatmapAttributesBuilder resolves effective AR, OD, CS, HP and hit windows without calculating difficulty
type BeatmapAttributesBuilder struct {
	args Args
}

func NewBeatmapAttributesBuilder(args Args) *BeatmapAttributesBuilder {
	return &BeatmapAttributesBuilder{args: args}
}

// Build resolves the attributes of a parsed map, its mode selects the hit windows
func (b *BeatmapAttributesBuilder) Build(bMap *beatmap.Beatmap) (api.BeatmapAttributes, error) {
	converted, diff, err := b.args.resolve(bMap)
	if err != nil {
		return api.BeatmapAttributes{}, err
	}

	return attributesOf(diff, converted.Mode, converted.IsConvert), nil
}

// BuildFromValues resolves attributes from raw values as if they came from a map of the given mode
func (b *BeatmapAttributesBuilder) BuildFromValues(mode beatmap.GameMode, ar, od, cs, hp float64) (api.BeatmapAttributes, error) {
	set, err := b.args.modifierSet()
	if err != nil {
		return api.BeatmapAttributes{}, err
	}

	diff, err := b.args.newDifficulty(difficulty.NewDifficulty(hp, cs, od, ar), set)
	if err != nil {
		return api.BeatmapAttributes{}, err
	}

	return attributesOf(diff, mode, false), nil
}

func attributesOf(diff *difficulty.Difficulty, mode beatmap.GameMode, isConvert bool) api.BeatmapAttributes {
	attr := api.BeatmapAttributes{
		AR:          diff.ARReal,
		OD:          diff.ODReal,
		CS:          diff.CS,
		HP:          diff.HP,
		ClockRate:   diff.Speed,
		ARHitWindow: diff.Preempt,
	}

	switch mode {
	case beatmap.ModeOsu:
		attr.ODGreatHitWindow, attr.ODOkHitWindow, attr.ODMehHitWindow = diff.Hit300, diff.Hit100, diff.Hit50
	case beatmap.ModeTaiko:
		attr.ODGreatHitWindow, attr.ODOkHitWindow = diff.TaikoWindows()
	case beatmap.ModeMania:
		attr.ODGreatHitWindow, attr.ODOkHitWindow = diff.ManiaWindows(isConvert)
	}

	return attr
}
