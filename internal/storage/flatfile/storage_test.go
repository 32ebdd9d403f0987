package flatfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/spectorr/internal/common"
	"github.com/ternarybob/spectorr/internal/models"
)

func canonical(asset, text, date string, score float64) models.CanonicalRecord {
	d, _ := time.Parse(models.DateLayout, date)
	return models.CanonicalRecord{
		AssetID:        asset,
		Text:           text,
		SourceDate:     d,
		SourceDateStr:  date,
		SentimentScore: score,
	}
}

func TestWriteCanonicalCSV_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curated", "cleaned.csv")

	err := WriteCanonicalCSV(path, []models.CanonicalRecord{
		canonical("AAPL", "great, quarter", "2025-01-01", 0.5),
		canonical("MSFT", "flat", "2025-01-02", -1),
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "asset_id,text,source_date,sentiment_score\n"+
		"AAPL,\"great, quarter\",2025-01-01,0.5\n"+
		"MSFT,flat,2025-01-02,-1\n", string(data))
}

func TestWriteCanonicalCSV_Idempotent(t *testing.T) {
	dir := t.TempDir()
	records := []models.CanonicalRecord{
		canonical("AAPL", "one", "2025-01-01", 0.123456789),
		canonical("AAPL", "two", "2025-01-01", 1.0/3.0),
	}

	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")
	require.NoError(t, WriteCanonicalCSV(first, records))
	require.NoError(t, WriteCanonicalCSV(second, records))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCanonicalRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cleaned.csv")
	records := []models.CanonicalRecord{
		canonical("AAPL", "one", "2025-01-01", 0.1),
		canonical("TSLA", "two", "2025-01-03", -0.75),
	}
	require.NoError(t, WriteCanonicalCSV(path, records))

	loaded, err := ReadCanonicalCSV(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	for i := range records {
		assert.Equal(t, records[i].AssetID, loaded[i].AssetID)
		assert.Equal(t, records[i].Text, loaded[i].Text)
		assert.Equal(t, records[i].SourceDateStr, loaded[i].SourceDateStr)
		assert.True(t, records[i].SourceDate.Equal(loaded[i].SourceDate))
		assert.Equal(t, records[i].SentimentScore, loaded[i].SentimentScore)
		assert.Equal(t, i, loaded[i].Seq)
	}
}

func TestReadCanonicalCSV_Rejects(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{name: "empty", content: ""},
		{name: "missing column", content: "asset_id,text,source_date\nAAPL,x,2025-01-01\n"},
		{name: "bad date", content: "asset_id,text,source_date,sentiment_score\nAAPL,x,01/02/2025,0.1\n"},
		{name: "bad score", content: "asset_id,text,source_date,sentiment_score\nAAPL,x,2025-01-01,high\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := ReadCanonicalCSV(path)
			assert.Error(t, err)
		})
	}
}

func TestReadCanonicalCSV_MissingFile(t *testing.T) {
	_, err := ReadCanonicalCSV(filepath.Join(t.TempDir(), "cleaned.csv"))
	assert.Error(t, err)
}

func TestWriteInsightsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "insights.json")
	records := []models.InsightRecord{
		{
			AssetID:      "AAPL",
			Date:         "2025-01-01",
			AvgSentiment: 0.25,
			N:            2,
			Insight: models.InsightBody{
				Summary:    "Café demand <strong> & rising",
				Drivers:    []string{"demand"},
				Risks:      []string{},
				Tone:       models.TonePositive,
				Confidence: 0.7,
				Method:     models.MethodModel,
			},
		},
	}
	require.NoError(t, WriteInsightsJSON(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.HasPrefix(text, "[\n  {\n    \"asset_id\": \"AAPL\""))
	assert.Contains(t, text, "Café demand <strong> & rising")
	assert.Contains(t, text, `"risks": []`)

	var decoded []models.InsightRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, records, decoded)
}

func TestWriteInsightsJSON_OverwritesAndHandlesEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "insights.json")
	require.NoError(t, os.WriteFile(path, []byte("stale content"), 0644))

	require.NoError(t, WriteInsightsJSON(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestManager_Paths(t *testing.T) {
	root := t.TempDir()
	m := NewManager(arbor.NewLogger(), &common.DataConfig{Root: root})

	assert.Equal(t, filepath.Join(root, "raw"), m.RawDir())

	ctx := context.Background()
	path, err := m.CanonicalStorage().WriteCanonical(ctx, []models.CanonicalRecord{canonical("AAPL", "x", "2025-01-01", 0)})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "curated", "cleaned.csv"), path)

	loaded, err := m.CanonicalStorage().ReadCanonical(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)

	path, err = m.InsightStorage().WriteInsights(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "curated", "insights.json"), path)
}
