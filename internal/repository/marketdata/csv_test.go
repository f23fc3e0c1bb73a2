package marketdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadHistogram(t *testing.T) {
	repo := NewMarketDataRepository()
	path := writeFile(t, "hist.csv", "volume_range,filled_volume\n\"(0, 1]\",5217.78\n\"(1, 2]\",2818.88\n")

	buckets, err := repo.LoadHistogram(path)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, "(0, 1]", buckets[0].RangeLabel)
	assert.Equal(t, 5217.78, buckets[0].FilledVolume)
}

func TestLoadHistogram_MissingFile(t *testing.T) {
	repo := NewMarketDataRepository()
	_, err := repo.LoadHistogram(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestDefaultHistogram(t *testing.T) {
	repo := NewMarketDataRepository()
	buckets, err := repo.DefaultHistogram()
	require.NoError(t, err)
	require.Len(t, buckets, 26)
	assert.Equal(t, "(0, 1]", buckets[0].RangeLabel)
	assert.Equal(t, "(25, 26]", buckets[25].RangeLabel)
	assert.Equal(t, 0.0, buckets[25].FilledVolume)
}

func TestLoadLadder(t *testing.T) {
	repo := NewMarketDataRepository()
	path := writeFile(t, "ladder.csv", "level_id,size,spread_cost\n1,1,31\n2,6,42\n3,11,57\n")

	ladder, err := repo.LoadLadder(path)
	require.NoError(t, err)
	require.Len(t, ladder, 3)
	assert.Equal(t, 2, ladder[1].LevelID)
	assert.Equal(t, 6.0, ladder[1].Size)
	assert.Equal(t, 42.0, ladder[1].SpreadCost)
}
