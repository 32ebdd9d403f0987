package flatfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/spectorr/internal/services/etl"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDiscoverRawFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", "asset_id\n")
	writeFile(t, dir, "a_note_AAPL.txt", "hello")
	writeFile(t, dir, "c.MD", "# note")
	writeFile(t, dir, "ignored.json", "{}")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0755))

	files, err := DiscoverRawFiles(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "a_note_AAPL.txt"),
		filepath.Join(dir, "b.csv"),
		filepath.Join(dir, "c.MD"),
	}, files)
}

func TestDiscoverRawFiles_MissingDir(t *testing.T) {
	_, err := DiscoverRawFiles(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestReadCSVSource(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.csv", "\ufeffasset_id, text ,source_date,sentiment_score\n"+
		"AAPL,\"great, really\",2025-01-01,0.5\n"+
		"MSFT,short\n")

	source, err := ReadCSVSource(path)
	require.NoError(t, err)

	assert.Equal(t, "notes.csv", source.Name)
	assert.Equal(t, []string{"asset_id", "text", "source_date", "sentiment_score"}, source.Columns)
	require.Len(t, source.Rows, 2)
	assert.Equal(t, []string{"AAPL", "great, really", "2025-01-01", "0.5"}, source.Rows[0])
	assert.Equal(t, []string{"MSFT", "short", "", ""}, source.Rows[1])
}

func TestReadCSVSource_StrayQuotesKeptAsText(t *testing.T) {
	path := writeFile(t, t.TempDir(), "notes.csv", "asset_id,text,source_date\n"+
		"AAPL,fine,2025-01-01\n"+
		"MSFT,CEO said \"great\" quarter,2025-01-02\n"+
		"NVDA,also fine,2025-01-03\n")

	source, err := ReadCSVSource(path)
	require.NoError(t, err)

	require.Len(t, source.Rows, 3)
	assert.Equal(t, []string{"MSFT", `CEO said "great" quarter`, "2025-01-02"}, source.Rows[1])
	assert.Zero(t, source.BadRows)
}

func TestReadCSVSource_EmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.csv", "")

	source, err := ReadCSVSource(path)
	require.NoError(t, err)
	assert.Empty(t, source.Columns)
	assert.Empty(t, source.Rows)
}

func TestReadNoteSource(t *testing.T) {
	dir := t.TempDir()
	today := time.Date(2025, 3, 4, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		filename  string
		wantAsset string
	}{
		{name: "ticker suffix", filename: "call_notes_NVDA.txt", wantAsset: "NVDA"},
		{name: "markdown ticker", filename: "memo_GOOGL.md", wantAsset: "GOOGL"},
		{name: "lowercase suffix", filename: "memo_aapl.txt", wantAsset: UnknownAsset},
		{name: "ticker too long", filename: "memo_ABCDEFG.txt", wantAsset: UnknownAsset},
		{name: "no suffix", filename: "memo.txt", wantAsset: UnknownAsset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.filename, "Strong demand.")

			source, err := ReadNoteSource(path, today)
			require.NoError(t, err)

			assert.Equal(t, []string{etl.ColAssetID, etl.ColText, etl.ColSourceDate}, source.Columns)
			require.Len(t, source.Rows, 1)
			assert.Equal(t, []string{tt.wantAsset, "Strong demand.", "2025-03-04"}, source.Rows[0])
		})
	}
}

func TestReadRawSources_KeepsFileOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "asset_id,text,source_date\nAAPL,x,2025-01-01\n")
	writeFile(t, dir, "b_TSLA.txt", "y")

	files, err := DiscoverRawFiles(dir)
	require.NoError(t, err)

	sources, err := ReadRawSources(files, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "a.csv", sources[0].Name)
	assert.Equal(t, "b_TSLA.txt", sources[1].Name)
	assert.Equal(t, "TSLA", sources[1].Rows[0][0])
}
