package mockgen

import (
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/spectorr/internal/storage/flatfile"
)

var reference = time.Date(2025, 11, 8, 17, 0, 0, 0, time.UTC)

func TestGenerate_RowsWithinBounds(t *testing.T) {
	dir := t.TempDir()

	path, err := Generate(dir, 200, rand.New(rand.NewPCG(1, 2)), reference)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	records, err := flatfile.ReadCanonicalCSV(path)
	require.NoError(t, err)
	require.Len(t, records, 200)

	earliest := reference.AddDate(0, 0, -(WindowDays - 1)).Format("2006-01-02")
	latest := reference.Format("2006-01-02")

	for _, r := range records {
		assert.Contains(t, Assets, r.AssetID)
		assert.NotEmpty(t, r.Text)
		assert.GreaterOrEqual(t, r.SourceDateStr, earliest)
		assert.LessOrEqual(t, r.SourceDateStr, latest)
		assert.GreaterOrEqual(t, r.SentimentScore, -1.0)
		assert.LessOrEqual(t, r.SentimentScore, 1.0)
		assert.Equal(t, math.Round(r.SentimentScore*100)/100, r.SentimentScore, "two decimals")
	}
}

func TestGenerate_DeterministicForSeed(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()

	a, err := Generate(dirA, 50, rand.New(rand.NewPCG(42, 42)), reference)
	require.NoError(t, err)
	b, err := Generate(dirB, 50, rand.New(rand.NewPCG(42, 42)), reference)
	require.NoError(t, err)

	dataA, err := os.ReadFile(a)
	require.NoError(t, err)
	dataB, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, dataA, dataB)
}

func TestGenerate_ZeroRowsWritesHeader(t *testing.T) {
	path, err := Generate(t.TempDir(), 0, rand.New(rand.NewPCG(1, 1)), reference)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "asset_id,text,source_date,sentiment_score\n", string(data))
}

func TestGenerate_RejectsNegativeCount(t *testing.T) {
	_, err := Generate(t.TempDir(), -1, rand.New(rand.NewPCG(1, 1)), reference)
	assert.Error(t, err)
}
