package cli

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"
	"github.com/wieku/danser-pp/app/calculator"
	"github.com/wieku/danser-pp/app/export"
)

// Rough peak memory of one calculation of a long map
const workerMemory = 64 * 1024 * 1024

type batchResult struct {
	Path     string  `json:"path"`
	Title    string  `json:"title,omitempty"`
	Mode     string  `json:"mode,omitempty"`
	MD5      string  `json:"md5,omitempty"`
	Stars    float64 `json:"stars"`
	MaxCombo int     `json:"maxCombo"`
	PP       float64 `json:"pp"`
	Accuracy float64 `json:"accuracy"`
	Error    string  `json:"error,omitempty"`
}

func (a *app) batchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <path>...",
		Short: "Calculate many beatmaps in parallel",
		Long:  "Calculates every .osu file given directly or found in the given directories with the same arguments.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calcArgs, err := calculationArgs(a.v)
			if err != nil {
				return err
			}

			paths, err := collectBeatmaps(args)
			if err != nil {
				return err
			}

			workers := a.v.GetInt("workers")
			if workers <= 0 {
				workers = defaultWorkers()
			}

			log.Info("Calculating beatmaps", "count", len(paths), "workers", workers)

			startTime := time.Now()

			results := a.runBatch(cmd.Context(), paths, calcArgs, workers)

			log.Info("Batch finished", "took", time.Since(startTime).Truncate(time.Millisecond))

			if path := a.v.GetString("parquet"); path != "" {
				if err = export.WriteScores(path, scoreRows(results, modsLabel(calcArgs), clockRateOf(calcArgs))); err != nil {
					return errors.Wrapf(err, "failed to export results to %q", path)
				}
			}

			return a.emit(results, func(w io.Writer) {
				table := newTable(w, "Beatmap", "Mode", "Stars", "Combo", "PP", "Accuracy")

				for _, r := range results {
					if r.Error != "" {
						table.Append([]string{r.Path, "", "", "", "", insaneColor.Sprint(r.Error)})
						continue
					}

					table.Append([]string{
						r.Title,
						r.Mode,
						formatStars(r.Stars),
						humanize.Comma(int64(r.MaxCombo)),
						formatPP(r.PP),
						formatFloat(r.Accuracy) + "%",
					})
				}

				table.Render()
			})
		},
	}

	addDifficultyFlags(cmd.Flags())
	addScoreFlags(cmd.Flags())
	cmd.Flags().IntP("workers", "w", 0, "parallel calculations (default depends on CPU cores and free memory)")
	cmd.Flags().String("parquet", "", "also write results to a parquet file")

	return cmd
}

// defaultWorkers uses every logical core unless free memory is short
func defaultWorkers() int {
	workers, err := cpu.Counts(true)
	if err != nil || workers <= 0 {
		workers = 1
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		workers = min(workers, max(1, int(vm.Available/workerMemory)))
	}

	return workers
}

func collectBeatmaps(args []string) ([]string, error) {
	var paths []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open %q", arg)
		}

		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".osu") {
				paths = append(paths, path)
			}

			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to scan %q", arg)
		}
	}

	sort.Strings(paths)

	return paths, nil
}

// runBatch calculates paths on a fixed number of workers, results keep the order of paths
func (a *app) runBatch(ctx context.Context, paths []string, args calculator.Args, workers int) []batchResult {
	results := make([]batchResult, len(paths))

	jobs := make(chan int)

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for idx := range jobs {
				results[idx] = a.batchOne(ctx, paths[idx], args)
			}
		}()
	}

	for i := range paths {
		if ctx.Err() != nil {
			results[i] = batchResult{Path: paths[i], Error: ctx.Err().Error()}
			continue
		}

		jobs <- i
	}

	close(jobs)
	wg.Wait()

	return results
}

func (a *app) batchOne(ctx context.Context, path string, args calculator.Args) batchResult {
	result := batchResult{Path: path}

	bMap, err := loadBeatmap(path)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	m := bMap.Metadata
	result.Title = m.Artist + " - " + m.Title + " [" + m.DiffName + "]"
	result.MD5 = bMap.MD5

	attr, err := a.difficultyOf(ctx, bMap, args)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Mode = attr.Mode.String()
	result.Stars = attr.Stars()
	result.MaxCombo = attr.MaxCombo()

	calc := calculator.NewPerformance(args)

	perf, err := calc.CalculateFromAttributes(attr)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.PP = perf.PP()

	if result.Accuracy, err = calc.Accuracy(perf); err != nil {
		result.Error = err.Error()
	}

	return result
}

func scoreRows(results []batchResult, mods string, clockRate float64) []export.ScoreRow {
	rows := make([]export.ScoreRow, len(results))

	for i, r := range results {
		row := export.ScoreRow{
			Beatmap:   r.MD5,
			Title:     r.Title,
			Mode:      r.Mode,
			Mods:      mods,
			ClockRate: clockRate,
			Stars:     r.Stars,
			MaxCombo:  int32(r.MaxCombo),
		}

		if r.Error != "" {
			row.Error = &r.Error
			row.Beatmap = r.Path
		} else {
			row.PP = &r.PP
			row.Accuracy = &r.Accuracy
		}

		rows[i] = row
	}

	return rows
}
