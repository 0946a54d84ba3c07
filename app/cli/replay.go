package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/wieku/danser-pp/app/replay"
)

func (a *app) replayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <replay.osr> <beatmap.osu>",
		Short: "Calculate performance points of a stable replay",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := replay.ParseFile(args[0])
			if err != nil {
				return err
			}

			bMap, err := loadBeatmap(args[1])
			if err != nil {
				return err
			}

			if err = score.Verify(bMap); err != nil {
				if !a.v.GetBool("force") {
					return err
				}

				log.Warn("Calculating anyway", "err", err)
			}

			log.Debug("Loaded replay", "player", score.Player, "mods", score.Mods.String(), "state", score.State.String(), "frames", score.Frames)

			if format, _ := a.format(); format == formatTable {
				_, _ = fmt.Fprintf(a.out, "%s played on %s, %s\n", score.Player, score.Timestamp.Format("2006-01-02 15:04"), score.State.String())
			}

			calcArgs := score.Args()

			attr, err := a.difficultyOf(cmd.Context(), bMap, calcArgs)
			if err != nil {
				return err
			}

			return a.printPerformance(bMap, attr, calcArgs)
		},
	}

	cmd.Flags().Bool("force", false, "calculate even if the replay was played on a different beatmap")

	return cmd
}
