package replay

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/itchio/lzma"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/beatmap/parser"
	"github.com/wieku/danser-pp/app/calculator"
)

const testMap = `osu file format v14

[General]
Mode: 0

[Difficulty]
HPDrainRate:5
CircleSize:4
OverallDifficulty:8
ApproachRate:9
SliderMultiplier:1.6
SliderTickRate:1

[TimingPoints]
0,300,4,2,0,100,1,0

[HitObjects]
100,100,1000,1,0
250,100,1300,1,0
400,100,1600,1,0
250,300,1900,1,0
`

type header struct {
	mode     int8
	md5      string
	player   string
	counts   [6]uint16 // 300, 100, 50, geki, katu, miss
	score    int32
	combo    uint16
	perfect  bool
	mods     uint32
	truncate int
}

func writeString(buf *bytes.Buffer, s string) {
	if s == "" {
		buf.WriteByte(0)
		return
	}

	buf.WriteByte(0x0b)

	n := uint(len(s))
	for {
		b := byte(n & 0x7f)
		n >>= 7

		if n != 0 {
			buf.WriteByte(b | 0x80)
			continue
		}

		buf.WriteByte(b)

		break
	}

	buf.WriteString(s)
}

func encodeReplay(t *testing.T, h header) []byte {
	t.Helper()

	frames := new(bytes.Buffer)

	writer := lzma.NewWriter(frames)

	_, err := writer.Write([]byte("0|256|-500|0,-1|256|-500|0,16|100|100|1,300|250|100|0,-12345|0|0|7,"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	buf := new(bytes.Buffer)
	le := binary.LittleEndian

	buf.WriteByte(byte(h.mode))
	_ = binary.Write(buf, le, int32(20210520))
	writeString(buf, h.md5)
	writeString(buf, h.player)
	writeString(buf, "0123456789abcdef0123456789abcdef")

	for _, c := range h.counts {
		_ = binary.Write(buf, le, c)
	}

	_ = binary.Write(buf, le, h.score)
	_ = binary.Write(buf, le, h.combo)
	_ = binary.Write(buf, le, h.perfect)
	_ = binary.Write(buf, le, h.mods)
	writeString(buf, "0|1,1000|1,")
	_ = binary.Write(buf, le, int64(637500000000000000))
	_ = binary.Write(buf, le, int32(frames.Len()))
	buf.Write(frames.Bytes())
	_ = binary.Write(buf, le, int64(4242))

	data := buf.Bytes()
	if h.truncate > 0 {
		data = data[:h.truncate]
	}

	return data
}

func TestParse(t *testing.T) {
	data := encodeReplay(t, header{
		mode:    int8(beatmap.ModeTaiko),
		md5:     "ffeeddccbbaa99887766554433221100",
		player:  "peppy",
		counts:  [6]uint16{500, 20, 0, 40, 5, 3},
		score:   1234567,
		combo:   311,
		mods:    uint32(difficulty.Hidden | difficulty.DoubleTime),
		perfect: false,
	})

	score, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, beatmap.ModeTaiko, score.Mode)
	assert.Equal(t, "peppy", score.Player)
	assert.Equal(t, "ffeeddccbbaa99887766554433221100", score.BeatmapMD5)
	assert.Equal(t, difficulty.Hidden|difficulty.DoubleTime, score.Mods)
	assert.EqualValues(t, 1234567, score.Score)
	assert.Equal(t, 311, score.State.MaxCombo)
	assert.Equal(t, 500, score.State.N300)
	assert.Equal(t, 20, score.State.N100)
	assert.Equal(t, 40, score.State.NGeki)
	assert.Equal(t, 5, score.State.NKatu)
	assert.Equal(t, 3, score.State.Misses)

	args := score.Args()
	require.NotNil(t, args.Lazer)
	assert.False(t, *args.Lazer)
	assert.Nil(t, args.NGeki)
	assert.Equal(t, beatmap.ModeTaiko, *args.Mode)

	// Arguments must not alias the score
	*args.N300 = 1
	assert.Equal(t, 500, score.State.N300)
}

func TestManiaArgsKeepGeki(t *testing.T) {
	score, err := Parse(encodeReplay(t, header{
		mode:   int8(beatmap.ModeMania),
		counts: [6]uint16{100, 10, 1, 300, 20, 2},
		combo:  200,
	}))
	require.NoError(t, err)

	args := score.Args()
	require.NotNil(t, args.NGeki)
	assert.Equal(t, 300, *args.NGeki)
	assert.Equal(t, 20, *args.NKatu)
}

func TestInvalid(t *testing.T) {
	_, err := Parse([]byte{1, 2, 3})
	assert.True(t, errors.Is(err, ErrInvalidReplay))

	_, err = Parse(encodeReplay(t, header{mode: 7}))
	assert.True(t, errors.Is(err, ErrModeNotSupported))

	_, err = Parse(encodeReplay(t, header{mods: uint32(difficulty.HardRock | difficulty.Easy)}))
	assert.True(t, errors.Is(err, ErrInvalidReplay))
}

func TestPerformanceFromReplay(t *testing.T) {
	bMap, err := parser.ParseBytes([]byte(testMap))
	require.NoError(t, err)

	score, err := Parse(encodeReplay(t, header{
		md5:     bMap.MD5,
		counts:  [6]uint16{4, 0, 0, 0, 0, 0},
		combo:   4,
		perfect: true,
		mods:    uint32(difficulty.Hidden),
	}))
	require.NoError(t, err)
	require.NoError(t, score.Verify(bMap))

	fromReplay, err := calculator.NewPerformance(score.Args()).Calculate(bMap)
	require.NoError(t, err)

	lazer := false
	direct, err := calculator.NewPerformance(calculator.Args{
		Mods:  "HD",
		Lazer: &lazer,
		N300:  &score.State.N300,
		Combo: &score.State.MaxCombo,
	}).Calculate(bMap)
	require.NoError(t, err)

	assert.Greater(t, fromReplay.PP(), 0.0)
	assert.InDelta(t, direct.PP(), fromReplay.PP(), 1e-9)

	other := *score
	other.BeatmapMD5 = "00000000000000000000000000000000"
	assert.True(t, errors.Is(other.Verify(bMap), ErrBeatmapMismatch))
}
