package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/calculator"
)

var errCacheDisabled = errors.New("attribute cache is disabled or unavailable")

func (a *app) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the attribute cache",
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show cache size and age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache := a.openCache()
			if cache == nil {
				return errCacheDisabled
			}

			s, err := cache.Stats(cmd.Context())
			if err != nil {
				return err
			}

			return a.emit(s, func(w io.Writer) {
				rows := [][]string{
					{"Backend", string(cache.Backend())},
					{"Entries", humanize.Comma(s.Entries)},
					{"Beatmaps", humanize.Comma(s.Maps)},
					{"Size", humanize.Bytes(uint64(s.Bytes))},
				}

				if s.Entries > 0 {
					rows = append(rows,
						[]string{"Oldest", humanize.Time(s.Oldest)},
						[]string{"Newest", humanize.Time(s.Newest)},
					)
				}

				renderRows(w, rows)
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear [md5]",
		Short: "Remove cached entries of one beatmap, or all entries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache := a.openCache()
			if cache == nil {
				return errCacheDisabled
			}

			md5 := ""
			if len(args) == 1 {
				md5 = args[0]
			}

			removed, err := cache.Invalidate(cmd.Context(), md5)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(a.out, "Removed %s entries\n", humanize.Comma(removed))

			return err
		},
	}

	prune := &cobra.Command{
		Use:   "prune",
		Short: "Remove entries calculated with outdated algorithm versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache := a.openCache()
			if cache == nil {
				return errCacheDisabled
			}

			removed, err := cache.Prune(cmd.Context(), currentVersions())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(a.out, "Removed %s outdated entries\n", humanize.Comma(removed))

			return err
		},
	}

	cmd.AddCommand(stats, clearCmd, prune)

	return cmd
}

func currentVersions() []int {
	modes := []beatmap.GameMode{beatmap.ModeOsu, beatmap.ModeTaiko, beatmap.ModeCatch, beatmap.ModeMania}

	versions := make([]int, 0, len(modes))

	for _, mode := range modes {
		if version, _ := calculator.Version(mode); version != 0 {
			versions = append(versions, version)
		}
	}

	return versions
}
