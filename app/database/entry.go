package database

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/itchio/lzma"
	"github.com/pkg/errors"
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/rulesets/api"
)

// Key identifies one calculation. Mods not affecting difficulty are dropped by NewKey.
type Key struct {
	MD5       string
	Mode      beatmap.GameMode
	Mods      difficulty.Modifier
	ClockRate float64
	Passed    int
	Version   int
}

func NewKey(md5 string, mode beatmap.GameMode, mods difficulty.Modifier, clockRate float64, passed, version int) Key {
	if passed < 0 {
		passed = -1
	}

	return Key{
		MD5:       md5,
		Mode:      mode,
		Mods:      mods & (difficulty.DifficultyAdjustMask | difficulty.Lazer | difficulty.Classic),
		ClockRate: clockRate,
		Passed:    passed,
		Version:   version,
	}
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%d:%s:%d:%d", k.MD5, k.Mode.Short(), int64(k.Mods), strconv.FormatFloat(k.ClockRate, 'f', -1, 64), k.Passed, k.Version)
}

// Entry is a cached calculation result
type Entry struct {
	Attributes api.DifficultyAttributes
	Strains    *api.Strains

	Version int
	Created time.Time
}

func encodeEntry(entry Entry) (rawAttributes, rawStrains []byte, err error) {
	rawAttributes, err = json.Marshal(entry.Attributes)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to encode attributes")
	}

	if entry.Strains == nil {
		return rawAttributes, []byte{}, nil
	}

	jsonStrains, err := json.Marshal(entry.Strains)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to encode strains")
	}

	rawStrains, err = compress(jsonStrains)

	return rawAttributes, rawStrains, err
}

func decodeEntry(rawAttributes, rawStrains []byte) (entry Entry, err error) {
	if err = json.Unmarshal(rawAttributes, &entry.Attributes); err != nil {
		return Entry{}, errors.Wrap(err, "failed to decode attributes")
	}

	if len(rawStrains) == 0 {
		return entry, nil
	}

	jsonStrains, err := decompress(rawStrains)
	if err != nil {
		return Entry{}, err
	}

	entry.Strains = new(api.Strains)

	if err = json.Unmarshal(jsonStrains, entry.Strains); err != nil {
		return Entry{}, errors.Wrap(err, "failed to decode strains")
	}

	return entry, nil
}

// Strain peaks of long maps take a few hundred kilobytes as JSON
func compress(data []byte) ([]byte, error) {
	buf := new(bytes.Buffer)

	writer := lzma.NewWriterLevel(buf, lzma.BestCompression)

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return nil, errors.Wrap(err, "failed to compress strains")
	}

	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to compress strains")
	}

	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	reader := lzma.NewReader(bytes.NewReader(data))
	defer reader.Close()

	out, err := io.ReadAll(reader)

	return out, errors.Wrap(err, "failed to decompress strains")
}
