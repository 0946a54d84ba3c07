// Package export writes calculation results to Parquet files for offline analysis.
package export

import (
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"
	"github.com/wieku/danser-pp/app/rulesets/api"
)

// StrainRow is one section peak of one skill
type StrainRow struct {
	Beatmap string `parquet:"beatmap,snappy"`
	Mode    string `parquet:"mode,snappy"`
	Mods    string `parquet:"mods,snappy"`
	Skill   string `parquet:"skill,snappy"`

	Section int32 `parquet:"section,snappy"`

	// Time is the end of the section in milliseconds of map time
	Time  float64 `parquet:"time,snappy"`
	Value float64 `parquet:"value,snappy"`
}

// ScoreRow is the result of one beatmap in a batch
type ScoreRow struct {
	Beatmap string `parquet:"beatmap,snappy"`
	Title   string `parquet:"title,snappy"`
	Mode    string `parquet:"mode,snappy"`
	Mods    string `parquet:"mods,snappy"`

	ClockRate float64 `parquet:"clock_rate,snappy"`
	Stars     float64 `parquet:"stars,snappy"`
	MaxCombo  int32   `parquet:"max_combo,snappy"`

	// PP and Accuracy are empty when only difficulty was calculated
	PP       *float64 `parquet:"pp,optional,snappy"`
	Accuracy *float64 `parquet:"accuracy,optional,snappy"`

	Error *string `parquet:"error,optional,snappy"`
}

// StrainRows flattens strains into rows in skill order, section by section
func StrainRows(beatmap, mods string, strains api.Strains) []StrainRow {
	names, series := strains.Series()

	rows := make([]StrainRow, 0, len(names)*strains.Len())

	for i, name := range names {
		for j, v := range series[i] {
			rows = append(rows, StrainRow{
				Beatmap: beatmap,
				Mode:    strains.Mode.String(),
				Mods:    mods,
				Skill:   name,
				Section: int32(j),
				Time:    float64(j+1) * strains.SectionLength,
				Value:   v,
			})
		}
	}

	return rows
}

func WriteStrains(path string, rows []StrainRow) error {
	return writeFile(path, rows)
}

func WriteScores(path string, rows []ScoreRow) error {
	return writeFile(path, rows)
}

func ReadStrains(path string) ([]StrainRow, error) {
	return readFile[StrainRow](path)
}

func ReadScores(path string) ([]ScoreRow, error) {
	return readFile[ScoreRow](path)
}

func writeFile[T any](path string, rows []T) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create output file")
	}

	if err = Write(file, rows); err != nil {
		_ = file.Close()
		return err
	}

	return errors.Wrap(file.Close(), "failed to close output file")
}

// Write encodes rows with a schema derived from T's struct tags
func Write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)

	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return errors.Wrap(err, "failed to write parquet rows")
	}

	return errors.Wrap(writer.Close(), "failed to finish parquet file")
}

func readFile[T any](path string) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open parquet file")
	}

	defer file.Close()

	reader := parquet.NewGenericReader[T](file)
	defer reader.Close()

	rows := make([]T, reader.NumRows())
	if len(rows) == 0 {
		return rows, nil
	}

	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "failed to read parquet rows")
	}

	return rows[:n], nil
}
