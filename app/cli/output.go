package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/rulesets/api"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

var (
	easyColor   = color.New(color.FgCyan)
	normalColor = color.New(color.FgGreen)
	hardColor   = color.New(color.FgYellow)
	insaneColor = color.New(color.FgRed, color.Bold)
	expertColor = color.New(color.FgMagenta, color.Bold)
	ppColor     = color.New(color.FgHiWhite, color.Bold)
	labelColor  = color.New(color.FgHiBlack)
)

func (a *app) format() (string, error) {
	switch f := a.v.GetString("format"); f {
	case "", formatTable:
		return formatTable, nil
	case formatJSON:
		return formatJSON, nil
	default:
		return "", errors.Errorf("unknown output format %q, must be table or json", f)
	}
}

// emit writes value as JSON or calls table to render it
func (a *app) emit(value any, table func(w io.Writer)) error {
	format, err := a.format()
	if err != nil {
		return err
	}

	if format == formatJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")

		return errors.Wrap(enc.Encode(value), "failed to encode output")
	}

	table(a.out)

	return nil
}

// starColor follows the difficulty names of the beatmap listing
func starColor(stars float64) *color.Color {
	switch {
	case stars < 2:
		return easyColor
	case stars < 2.7:
		return normalColor
	case stars < 4:
		return hardColor
	case stars < 5.3:
		return insaneColor
	}

	return expertColor
}

func formatStars(stars float64) string {
	return starColor(stars).Sprintf("%.2f★", stars)
}

func formatPP(pp float64) string {
	return ppColor.Sprint(humanize.CommafWithDigits(pp, 2) + "pp")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	return table
}

func printMapTitle(w io.Writer, bMap *beatmap.Beatmap) {
	m := bMap.Metadata
	if m.Title == "" && m.Artist == "" {
		return
	}

	_, _ = fmt.Fprintf(w, "%s - %s [%s] %s\n", m.Artist, m.Title, m.DiffName, labelColor.Sprintf("(%s, mapped by %s)", bMap.Mode.Title(), m.Creator))
}

func difficultyRows(attr api.DifficultyAttributes) [][]string {
	rows := [][]string{
		{"Mode", attr.Mode.Title()},
		{"Stars", formatStars(attr.Stars())},
		{"Max combo", humanize.Comma(int64(attr.MaxCombo()))},
	}

	add := func(name string, value float64) {
		rows = append(rows, []string{name, formatFloat(value)})
	}

	addCount := func(name string, value int) {
		rows = append(rows, []string{name, humanize.Comma(int64(value))})
	}

	switch {
	case attr.Osu != nil:
		a := attr.Osu
		add("Aim", a.Aim)
		add("Speed", a.Speed)
		add("Flashlight", a.Flashlight)
		rows = append(rows, []string{"Slider factor", strconv.FormatFloat(a.SliderFactor, 'f', 4, 64)})
		add("Speed notes", a.SpeedNoteCount)
		add("AR", a.AR)
		add("OD", a.OD)
		add("HP", a.HP)
		add("Great window", a.GreatHitWindow)
		addCount("Circles", a.Circles)
		addCount("Sliders", a.Sliders)
		addCount("Spinners", a.Spinners)
	case attr.Taiko != nil:
		a := attr.Taiko
		add("Stamina", a.Stamina)
		add("Rhythm", a.Rhythm)
		add("Colour", a.Colour)
		add("Reading", a.Reading)
		add("Peak", a.Peak)
		add("Great window", a.GreatHitWindow)
		addCount("Objects", a.ObjectCount)
	case attr.Catch != nil:
		a := attr.Catch
		add("AR", a.AR)
		addCount("Fruits", a.Fruits)
		addCount("Droplets", a.Droplets)
		addCount("Tiny droplets", a.TinyDroplets)
	case attr.Mania != nil:
		a := attr.Mania
		add("Great window", a.GreatHitWindow)
		addCount("Objects", a.ObjectCount)
		addCount("Hold notes", a.HoldNotes)
	}

	if attr.IsConvert() {
		rows = append(rows, []string{"Convert", "yes"})
	}

	return rows
}

func performanceRows(perf api.PerformanceAttributes, accuracy float64) [][]string {
	rows := [][]string{
		{"PP", formatPP(perf.PP())},
		{"Accuracy", strconv.FormatFloat(accuracy, 'f', 2, 64) + "%"},
		{"Score", perf.State().String()},
	}

	add := func(name string, value float64) {
		rows = append(rows, []string{name, formatFloat(value)})
	}

	switch {
	case perf.Osu != nil:
		p := perf.Osu
		add("Aim pp", p.Aim)
		add("Speed pp", p.Speed)
		add("Accuracy pp", p.Acc)
		add("Flashlight pp", p.Flashlight)
		add("Effective misses", p.EffectiveMissCount)
	case perf.Taiko != nil:
		p := perf.Taiko
		add("Difficulty pp", p.Diff)
		add("Accuracy pp", p.Acc)
		add("Effective misses", p.EffectiveMissCount)

		if p.EstimatedUnstableRate != nil {
			add("Estimated UR", *p.EstimatedUnstableRate)
		}
	case perf.Mania != nil:
		add("Difficulty pp", perf.Mania.Diff)
	}

	return rows
}

func renderRows(w io.Writer, rows [][]string) {
	table := newTable(w, "Attribute", "Value")
	table.AppendBulk(rows)
	table.Render()
}
