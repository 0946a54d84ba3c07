package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wieku/danser-pp/app/beatmap"
	"github.com/wieku/danser-pp/app/beatmap/difficulty"
	"github.com/wieku/danser-pp/app/rulesets/api"
)

func openTemp(t *testing.T) *Cache {
	t.Helper()

	cache, err := Open(SQLite, filepath.Join(t.TempDir(), "cache.db"), "")
	require.NoError(t, err)

	t.Cleanup(func() { _ = cache.Close() })

	return cache
}

func osuEntry(stars float64) Entry {
	attr := api.EmptyAttributes(beatmap.ModeOsu)
	attr.Osu.Total = stars
	attr.Osu.Aim = stars / 2
	attr.Osu.MaxCombo = 727

	strains := make([]float64, 500)
	for i := range strains {
		strains[i] = float64(i%17) * 0.25
	}

	return Entry{
		Attributes: attr,
		Strains: &api.Strains{
			Mode:          beatmap.ModeOsu,
			SectionLength: 400,
			Osu: &api.OsuStrains{
				Aim:   strains,
				Speed: strains,
				Total: strains,
			},
		},
	}
}

func TestParseBackend(t *testing.T) {
	for text, want := range map[string]Backend{"": SQLite, "sqlite3": SQLite, "MySQL": MySQL, "postgres": PostgreSQL, "pgx": PostgreSQL} {
		got, err := ParseBackend(text)
		require.NoError(t, err, text)
		assert.Equal(t, want, got, text)
	}

	_, err := ParseBackend("redis")
	assert.True(t, errors.Is(err, ErrUnsupportedBackend))
}

func TestOpenValidation(t *testing.T) {
	_, err := Open(SQLite, filepath.Join(t.TempDir(), "cache.db"), "bad-name; DROP")
	assert.True(t, errors.Is(err, ErrInvalidTable))

	_, err = Open("oracle", "", "")
	assert.True(t, errors.Is(err, ErrUnsupportedBackend))

	_, err = Open(MySQL, "not a dsn", "")
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	key := NewKey("abc", beatmap.ModeTaiko, difficulty.Hidden|difficulty.DoubleTime|difficulty.NoFail, 1.5, -10, 3)

	assert.Equal(t, -1, key.Passed)
	assert.False(t, key.Mods.Active(difficulty.NoFail))
	assert.Equal(t, key.String(), NewKey("abc", beatmap.ModeTaiko, difficulty.Hidden|difficulty.DoubleTime, 1.5, -1, 3).String())
	assert.NotEqual(t, key.String(), NewKey("abc", beatmap.ModeTaiko, difficulty.Hidden|difficulty.DoubleTime, 1.5, -1, 4).String())
}

func TestRoundTrip(t *testing.T) {
	cache := openTemp(t)
	ctx := context.Background()

	key := NewKey("d41d8cd98f00b204e9800998ecf8427e", beatmap.ModeOsu, difficulty.HardRock, 1, -1, 20241007)

	_, err := cache.Get(ctx, key)
	assert.True(t, errors.Is(err, ErrNotFound))

	entry := osuEntry(6.5)
	require.NoError(t, cache.Put(ctx, key, entry))

	got, err := cache.Get(ctx, key)
	require.NoError(t, err)

	assert.Equal(t, beatmap.ModeOsu, got.Attributes.Mode)
	assert.InDelta(t, 6.5, got.Attributes.Stars(), 1e-12)
	assert.Equal(t, 727, got.Attributes.MaxCombo())
	assert.Equal(t, 20241007, got.Version)

	require.NotNil(t, got.Strains)
	assert.Equal(t, entry.Strains.Osu.Aim, got.Strains.Osu.Aim)
	assert.Equal(t, 400.0, got.Strains.SectionLength)

	require.NoError(t, cache.Put(ctx, key, osuEntry(7)))

	got, err = cache.Get(ctx, key)
	require.NoError(t, err)
	assert.InDelta(t, 7, got.Attributes.Stars(), 1e-12)
}

func TestWithoutStrains(t *testing.T) {
	cache := openTemp(t)
	ctx := context.Background()

	key := NewKey("abc", beatmap.ModeMania, 0, 1, -1, 1)

	entry := osuEntry(3)
	entry.Strains = nil

	require.NoError(t, cache.Put(ctx, key, entry))

	got, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got.Strains)
}

func TestRemember(t *testing.T) {
	cache := openTemp(t)
	ctx := context.Background()

	key := NewKey("abc", beatmap.ModeOsu, 0, 1, -1, 1)

	calls := 0
	compute := func() (Entry, error) {
		calls++
		return osuEntry(5), nil
	}

	_, cached, err := cache.Remember(ctx, key, compute)
	require.NoError(t, err)
	assert.False(t, cached)

	entry, cached, err := cache.Remember(ctx, key, compute)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 1, calls)
	assert.InDelta(t, 5, entry.Attributes.Stars(), 1e-12)

	failure := errors.New("boom")

	_, _, err = cache.Remember(ctx, NewKey("other", beatmap.ModeOsu, 0, 1, -1, 1), func() (Entry, error) {
		return Entry{}, failure
	})
	assert.ErrorIs(t, err, failure)
}

func TestInvalidateAndPrune(t *testing.T) {
	cache := openTemp(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, NewKey("a", beatmap.ModeOsu, 0, 1, -1, 1), osuEntry(1)))
	require.NoError(t, cache.Put(ctx, NewKey("a", beatmap.ModeOsu, difficulty.DoubleTime, 1.5, -1, 1), osuEntry(2)))
	require.NoError(t, cache.Put(ctx, NewKey("b", beatmap.ModeOsu, 0, 1, -1, 2), osuEntry(3)))
	require.NoError(t, cache.Put(ctx, NewKey("c", beatmap.ModeOsu, 0, 1, -1, 3), osuEntry(4)))

	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.Entries)
	assert.EqualValues(t, 3, stats.Maps)
	assert.Greater(t, stats.Bytes, int64(0))
	assert.False(t, stats.Newest.Before(stats.Oldest))

	removed, err := cache.Invalidate(ctx, "a")
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	removed, err = cache.Prune(ctx, []int{2})
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	removed, err = cache.Invalidate(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	stats, err = cache.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
	assert.True(t, stats.Oldest.IsZero())
}

func TestCompression(t *testing.T) {
	data := make([]byte, 0, 64*1024)
	for len(data) < cap(data) {
		data = append(data, `{"aim":[1.25,0.5,3.75],"speed":[2,2,2]}`...)
	}

	packed, err := compress(data)
	require.NoError(t, err)
	assert.Less(t, len(packed), len(data)/4)

	unpacked, err := decompress(packed)
	require.NoError(t, err)
	assert.Equal(t, data, unpacked)
}
