package parser

import (
	"bufio"
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/objects"
	"github.com/wieku/danser-pp/framework/math/curves"
	"github.com/wieku/danser-pp/framework/math/vector"
)

const (
	earlyVersionTimingOffset = 24
	maxLineLength            = 1024 * 1024
)

const (
	typeCircle   = 1
	typeSlider   = 2
	typeNewCombo = 4
	typeSpinner  = 8
	typeHold     = 128
)

var ErrParse = errors.New("failed to parse beatmap")

type section int

const (
	secNone section = iota
	secGeneral
	secMetadata
	secDifficulty
	secEvents
	secTimingPoints
	secHitObjects
)

var sections = map[string]section{
	"[general]":      secGeneral,
	"[metadata]":     secMetadata,
	"[difficulty]":   secDifficulty,
	"[events]":       secEvents,
	"[timingpoints]": secTimingPoints,
	"[hitobjects]":   secHitObjects,
}

func ParseFile(path string) (*beatmap.Beatmap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrParse, "reading %s: %s", path, err)
	}

	return ParseBytes(data)
}

func Decode(r io.Reader) (*beatmap.Beatmap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(ErrParse, "reading beatmap: %s", err)
	}

	return ParseBytes(data)
}

type parseState struct {
	bMap   *beatmap.Beatmap
	points []objects.TimingPoint
	offset float64
	seenAR bool
}

func ParseBytes(data []byte) (*beatmap.Beatmap, error) {
	sum := md5.Sum(data)

	state := &parseState{
		bMap: &beatmap.Beatmap{
			MD5:              hex.EncodeToString(sum[:]),
			Version:          14,
			HP:               5,
			CS:               5,
			OD:               5,
			AR:               5,
			SliderMultiplier: 1.4,
			SliderTickRate:   1,
			StackLeniency:    0.7,
		},
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), maxLineLength)

	sec := secNone
	headerSeen := false
	lineNum := 0

	for scanner.Scan() {
		lineNum++

		line := strings.TrimSpace(scanner.Text())
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		if !headerSeen {
			if !strings.HasPrefix(line, "osu file format v") {
				return nil, errors.Wrapf(ErrParse, "invalid header %q", line)
			}

			version, err := strconv.Atoi(strings.TrimPrefix(line, "osu file format v"))
			if err != nil {
				return nil, errors.Wrapf(ErrParse, "invalid format version in %q", line)
			}

			state.bMap.Version = version
			if version < 5 {
				state.offset = earlyVersionTimingOffset
			}

			headerSeen = true

			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			sec = sections[strings.ToLower(line)]
			continue
		}

		var err error

		switch sec {
		case secGeneral:
			err = state.parseGeneral(line)
		case secMetadata:
			state.parseMetadata(line)
		case secDifficulty:
			err = state.parseDifficulty(line)
		case secEvents:
			err = state.parseEvent(line)
		case secTimingPoints:
			err = state.parseTimingPoint(line)
		case secHitObjects:
			err = state.parseHitObject(line)
		}

		if err != nil {
			return nil, errors.Wrapf(ErrParse, "line %d: %s", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(ErrParse, "scanning: %s", err)
	}

	if !headerSeen {
		return nil, errors.Wrap(ErrParse, "empty file")
	}

	state.finalize()

	return state.bMap, nil
}

func splitKeyValue(line string) (string, string) {
	key, value, _ := strings.Cut(line, ":")
	return strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value)
}

func (state *parseState) parseGeneral(line string) error {
	key, value := splitKeyValue(line)

	switch key {
	case "stackleniency":
		v, err := parseFloat(value)
		if err != nil {
			return err
		}

		state.bMap.StackLeniency = v
	case "mode":
		mode, err := beatmap.ParseGameMode(value)
		if err != nil {
			return err
		}

		state.bMap.Mode = mode
	}

	return nil
}

func (state *parseState) parseMetadata(line string) {
	key, value := splitKeyValue(line)
	meta := &state.bMap.Metadata

	switch key {
	case "title":
		meta.Title = value
	case "artist":
		meta.Artist = value
	case "creator":
		meta.Creator = value
	case "version":
		meta.DiffName = value
	case "beatmapid":
		meta.BeatmapID, _ = strconv.Atoi(value)
	case "beatmapsetid":
		meta.SetID, _ = strconv.Atoi(value)
	}
}

func (state *parseState) parseDifficulty(line string) error {
	key, value := splitKeyValue(line)

	v, err := parseFloat(value)
	if err != nil {
		return err
	}

	switch key {
	case "hpdrainrate":
		state.bMap.HP = v
	case "circlesize":
		state.bMap.CS = v
	case "overalldifficulty":
		state.bMap.OD = v
		if !state.seenAR {
			state.bMap.AR = v
		}
	case "approachrate":
		state.bMap.AR = v
		state.seenAR = true
	case "slidermultiplier":
		state.bMap.SliderMultiplier = min(max(v, 0.4), 3.6)
	case "slidertickrate":
		state.bMap.SliderTickRate = min(max(v, 0.5), 8)
	}

	return nil
}

func (state *parseState) parseEvent(line string) error {
	parts := strings.Split(line, ",")
	if len(parts) < 3 || (parts[0] != "2" && !strings.EqualFold(parts[0], "break")) {
		return nil
	}

	start, err := parseFloat(parts[1])
	if err != nil {
		return err
	}

	end, err := parseFloat(parts[2])
	if err != nil {
		return err
	}

	state.bMap.Breaks = append(state.bMap.Breaks, beatmap.Break{
		Start: start + state.offset,
		End:   max(start, end) + state.offset,
	})

	return nil
}

func (state *parseState) parseTimingPoint(line string) error {
	parts := strings.Split(line, ",")
	if len(parts) < 2 {
		return errors.Errorf("timing point %q has too few fields", line)
	}

	t, err := parseFloat(parts[0])
	if err != nil {
		return err
	}

	beatLength, err := parseFloat(parts[1])
	if err != nil {
		return err
	}

	point := objects.TimingPoint{
		Time:        t + state.offset,
		BeatLength:  beatLength,
		Uninherited: true,
	}

	if len(parts) > 6 {
		point.Uninherited = strings.TrimSpace(parts[6]) == "1"
	}

	if len(parts) > 7 {
		effects, _ := strconv.Atoi(strings.TrimSpace(parts[7]))
		point.Kiai = effects&1 > 0
	}

	if point.Uninherited && (beatLength <= 0 || beatLength != beatLength) {
		return errors.Errorf("uninherited timing point with beat length %v", beatLength)
	}

	state.points = append(state.points, point)

	return nil
}

func (state *parseState) parseHitObject(line string) error {
	parts := strings.Split(line, ",")
	if len(parts) < 4 {
		return errors.Errorf("hit object %q has too few fields", line)
	}

	x, err := parseFloat(parts[0])
	if err != nil {
		return err
	}

	y, err := parseFloat(parts[1])
	if err != nil {
		return err
	}

	t, err := parseFloat(parts[2])
	if err != nil {
		return err
	}

	objType, err := strconv.Atoi(strings.TrimSpace(parts[3]))
	if err != nil {
		return errors.Errorf("invalid object type %q", parts[3])
	}

	hitSound := 0
	if len(parts) > 4 {
		hitSound, _ = strconv.Atoi(strings.TrimSpace(parts[4]))
	}

	id := len(state.bMap.HitObjects)
	pos := vector.NewVec2f(float32(x), float32(y))
	time := t + state.offset
	newCombo := objType&typeNewCombo > 0

	switch {
	case objType&typeCircle > 0:
		state.bMap.HitObjects = append(state.bMap.HitObjects, objects.NewCircle(id, pos, time, newCombo, hitSound))
	case objType&typeSlider > 0:
		slider, err := parseSlider(id, pos, time, newCombo, hitSound, parts)
		if err != nil {
			return err
		}

		state.bMap.HitObjects = append(state.bMap.HitObjects, slider)
	case objType&typeSpinner > 0:
		if len(parts) < 6 {
			return errors.Errorf("spinner %q has no end time", line)
		}

		end, err := parseFloat(parts[5])
		if err != nil {
			return err
		}

		state.bMap.HitObjects = append(state.bMap.HitObjects, objects.NewSpinner(id, time, end+state.offset, newCombo, hitSound))
	case objType&typeHold > 0:
		if len(parts) < 6 {
			return errors.Errorf("hold note %q has no end time", line)
		}

		endStr, _, _ := strings.Cut(parts[5], ":")

		end, err := parseFloat(endStr)
		if err != nil {
			return err
		}

		state.bMap.HitObjects = append(state.bMap.HitObjects, objects.NewHoldNote(id, pos, time, end+state.offset, hitSound))
	default:
		return errors.Errorf("unknown object type %d", objType)
	}

	return nil
}

func parseSlider(id int, pos vector.Vector2f, time float64, newCombo bool, hitSound int, parts []string) (*objects.Slider, error) {
	if len(parts) < 8 {
		return nil, errors.Errorf("slider has %d fields, expected at least 8", len(parts))
	}

	curveData := strings.Split(parts[5], "|")
	if len(curveData) < 2 || curveData[0] == "" {
		return nil, errors.Errorf("slider curve %q has no points", parts[5])
	}

	curveType := curves.TypeFromLetter(curveData[0][0])

	points := make([]vector.Vector2f, 0, len(curveData)-1)

	for _, p := range curveData[1:] {
		xs, ys, ok := strings.Cut(p, ":")
		if !ok {
			return nil, errors.Errorf("malformed slider point %q", p)
		}

		px, err := parseFloat(xs)
		if err != nil {
			return nil, err
		}

		py, err := parseFloat(ys)
		if err != nil {
			return nil, err
		}

		points = append(points, vector.NewVec2f(float32(px), float32(py)))
	}

	repeats, err := strconv.Atoi(strings.TrimSpace(parts[6]))
	if err != nil || repeats < 1 {
		return nil, errors.Errorf("invalid slider repeat count %q", parts[6])
	}

	length, err := parseFloat(parts[7])
	if err != nil {
		return nil, err
	}

	edgeSounds := make([]int, repeats+1)
	for i := range edgeSounds {
		edgeSounds[i] = hitSound
	}

	if len(parts) > 8 && parts[8] != "" {
		for i, s := range strings.Split(parts[8], "|") {
			if i >= len(edgeSounds) {
				break
			}

			edgeSounds[i], _ = strconv.Atoi(strings.TrimSpace(s))
		}
	}

	return objects.NewSlider(id, pos, time, newCombo, hitSound, curveType, points, repeats, length, edgeSounds), nil
}

func (state *parseState) finalize() {
	bMap := state.bMap

	bMap.Timings = objects.NewTimings(state.points, bMap.SliderMultiplier, bMap.SliderTickRate, bMap.Version)

	sort.SliceStable(bMap.HitObjects, func(i, j int) bool {
		return bMap.HitObjects[i].GetStartTime() < bMap.HitObjects[j].GetStartTime()
	})

	for _, o := range bMap.HitObjects {
		if s, ok := o.(*objects.Slider); ok {
			s.SetTiming(bMap.Timings)
		}
	}

	if bMap.Mode == beatmap.ModeMania {
		beatmap.SortMania(bMap.HitObjects, max(1, int(bMap.CS+0.5)))
	}
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.Errorf("invalid number %q", s)
	}

	return v, nil
}
