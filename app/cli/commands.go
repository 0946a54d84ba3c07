package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/calculator"
	"github.com/wieku/danser-pp/app/export"
	"github.com/wieku/danser-pp/app/rulesets/api"
)

func (a *app) difficultyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "difficulty <beatmap.osu>",
		Short: "Calculate the star rating of a beatmap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calcArgs, err := calculationArgs(a.v)
			if err != nil {
				return err
			}

			bMap, err := loadBeatmap(args[0])
			if err != nil {
				return err
			}

			if a.v.GetBool("gradual") {
				return a.printGradual(bMap, calcArgs)
			}

			attr, err := a.difficultyOf(cmd.Context(), bMap, calcArgs)
			if err != nil {
				return err
			}

			return a.emit(attr, func(w io.Writer) {
				printMapTitle(w, bMap)
				renderRows(w, difficultyRows(attr))
			})
		},
	}

	addDifficultyFlags(cmd.Flags())
	cmd.Flags().Bool("gradual", false, "print the star rating after every object")

	return cmd
}

func (a *app) printGradual(bMap *beatmap.Beatmap, args calculator.Args) error {
	gradual, err := calculator.NewDifficulty(args).Gradual(bMap)
	if err != nil {
		return err
	}

	steps := gradual.Collect()

	stars := make([]float64, len(steps))
	for i, attr := range steps {
		stars[i] = attr.Stars()
	}

	return a.emit(stars, func(w io.Writer) {
		table := newTable(w, "Object", "Stars", "Max combo")

		for i, attr := range steps {
			table.Append([]string{humanize.Comma(int64(i + 1)), formatStars(attr.Stars()), humanize.Comma(int64(attr.MaxCombo()))})
		}

		table.Render()
	})
}

type performanceOutput struct {
	Difficulty  api.DifficultyAttributes  `json:"difficulty"`
	Performance api.PerformanceAttributes `json:"performance"`
	Accuracy    float64                   `json:"accuracy"`
}

func (a *app) performanceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "performance <beatmap.osu>",
		Short: "Calculate performance points of a play",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calcArgs, err := calculationArgs(a.v)
			if err != nil {
				return err
			}

			bMap, err := loadBeatmap(args[0])
			if err != nil {
				return err
			}

			attr, err := a.difficultyOf(cmd.Context(), bMap, calcArgs)
			if err != nil {
				return err
			}

			return a.printPerformance(bMap, attr, calcArgs)
		},
	}

	addDifficultyFlags(cmd.Flags())
	addScoreFlags(cmd.Flags())

	return cmd
}

func (a *app) printPerformance(bMap *beatmap.Beatmap, attr api.DifficultyAttributes, args calculator.Args) error {
	calc := calculator.NewPerformance(args)

	perf, err := calc.CalculateFromAttributes(attr)
	if err != nil {
		return err
	}

	accuracy, err := calc.Accuracy(perf)
	if err != nil {
		return err
	}

	out := performanceOutput{Difficulty: attr, Performance: perf, Accuracy: accuracy}

	return a.emit(out, func(w io.Writer) {
		printMapTitle(w, bMap)
		renderRows(w, append(difficultyRows(attr), performanceRows(perf, accuracy)...))
	})
}

func (a *app) strainsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strains <beatmap.osu>",
		Short: "Calculate per-section strain peaks of every skill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calcArgs, err := calculationArgs(a.v)
			if err != nil {
				return err
			}

			bMap, err := loadBeatmap(args[0])
			if err != nil {
				return err
			}

			_, strains, err := a.strainsOf(cmd.Context(), bMap, calcArgs)
			if err != nil {
				return err
			}

			if path := a.v.GetString("parquet"); path != "" {
				rows := export.StrainRows(bMap.MD5, modsLabel(calcArgs), strains)

				if err = export.WriteStrains(path, rows); err != nil {
					return errors.Wrapf(err, "failed to export strains to %q", path)
				}

				_, err = fmt.Fprintf(a.out, "Wrote %s strain values to %s\n", humanize.Comma(int64(len(rows))), path)

				return err
			}

			return a.emit(strains, func(w io.Writer) {
				printStrains(w, strains)
			})
		},
	}

	addDifficultyFlags(cmd.Flags())
	cmd.Flags().String("parquet", "", "write strains to a parquet file instead of printing them")

	return cmd
}

func printStrains(w io.Writer, strains api.Strains) {
	names, series := strains.Series()

	table := newTable(w, append([]string{"Time"}, names...)...)

	for i := 0; i < strains.Len(); i++ {
		row := []string{humanize.Comma(int64(float64(i+1) * strains.SectionLength))}

		for _, s := range series {
			if i < len(s) {
				row = append(row, formatFloat(s[i]))
			} else {
				row = append(row, "")
			}
		}

		table.Append(row)
	}

	table.Render()
}

func (a *app) attributesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attributes [beatmap.osu]",
		Short: "Resolve AR, OD, CS, HP and hit windows with mods applied",
		Long:  "Resolves beatmap attributes of a beatmap file, or of raw values given with --base-ar, --base-od, --base-cs and --base-hp.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calcArgs, err := calculationArgs(a.v)
			if err != nil {
				return err
			}

			builder := calculator.NewBeatmapAttributesBuilder(calcArgs)

			var attr api.BeatmapAttributes

			if len(args) == 1 {
				bMap, err := loadBeatmap(args[0])
				if err != nil {
					return err
				}

				attr, err = builder.Build(bMap)
				if err != nil {
					return err
				}
			} else {
				mode := beatmap.ModeOsu
				if calcArgs.Mode != nil {
					mode = *calcArgs.Mode
				}

				attr, err = builder.BuildFromValues(mode, a.v.GetFloat64("base-ar"), a.v.GetFloat64("base-od"), a.v.GetFloat64("base-cs"), a.v.GetFloat64("base-hp"))
				if err != nil {
					return err
				}
			}

			return a.emit(attr, func(w io.Writer) {
				renderRows(w, [][]string{
					{"AR", formatFloat(attr.AR)},
					{"OD", formatFloat(attr.OD)},
					{"CS", formatFloat(attr.CS)},
					{"HP", formatFloat(attr.HP)},
					{"Clock rate", formatFloat(attr.ClockRate)},
					{"Preempt", formatFloat(attr.ARHitWindow) + "ms"},
					{"Great window", formatFloat(attr.ODGreatHitWindow) + "ms"},
					{"Ok window", formatFloat(attr.ODOkHitWindow) + "ms"},
					{"Meh window", formatFloat(attr.ODMehHitWindow) + "ms"},
				})
			})
		},
	}

	addDifficultyFlags(cmd.Flags())

	for _, key := range overrideKeys {
		cmd.Flags().Float64("base-"+key, 5, "base "+key+" when no beatmap is given")
	}

	return cmd
}
