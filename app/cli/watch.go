package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/wieku/danser-pp/app/calculator"
)

// Editors save in several steps, events closer than this are merged
const watchDebounce = 250 * time.Millisecond

func (a *app) watchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <directory>",
		Short: "Recalculate beatmaps whenever they change",
		Long:  "Watches a directory, usually a beatmap set being edited, and prints the star rating and performance of every .osu file written to it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calcArgs, err := calculationArgs(a.v)
			if err != nil {
				return err
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return errors.Wrap(err, "failed to create watcher")
			}

			defer watcher.Close()

			if err = watcher.Add(args[0]); err != nil {
				return errors.Wrapf(err, "failed to watch %q", args[0])
			}

			log.Info("Watching for beatmap changes", "dir", args[0])

			return a.watch(cmd.Context(), watcher, calcArgs)
		},
	}

	addDifficultyFlags(cmd.Flags())
	addScoreFlags(cmd.Flags())

	return cmd
}

func (a *app) watch(ctx context.Context, watcher *fsnotify.Watcher, args calculator.Args) error {
	pending := make(map[string]time.Time)

	ticker := time.NewTicker(watchDebounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !strings.EqualFold(filepath.Ext(event.Name), ".osu") {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending[event.Name] = time.Now()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.Warn("Watcher error", "err", err)
		case now := <-ticker.C:
			for path, changed := range pending {
				if now.Sub(changed) < watchDebounce {
					continue
				}

				delete(pending, path)
				a.recalculate(ctx, path, args)
			}
		}
	}
}

func (a *app) recalculate(ctx context.Context, path string, args calculator.Args) {
	bMap, err := loadBeatmap(path)
	if err != nil {
		log.Warn("Failed to load beatmap", "path", filepath.Base(path), "err", err)
		return
	}

	attr, err := a.difficultyOf(ctx, bMap, args)
	if err != nil {
		log.Warn("Failed to calculate difficulty", "path", filepath.Base(path), "err", err)
		return
	}

	perf, err := calculator.NewPerformance(args).CalculateFromAttributes(attr)
	if err != nil {
		log.Warn("Failed to calculate performance", "path", filepath.Base(path), "err", err)
		return
	}

	_, _ = fmt.Fprintf(a.out, "%s %s %s %s\n", time.Now().Format("15:04:05"), filepath.Base(path), formatStars(attr.Stars()), formatPP(perf.PP()))
}
