// Package mockgen writes synthetic raw notes for demos and local runs.
package mockgen

import (
	"fmt"
	"math"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/ternarybob/spectorr/internal/models"
	"github.com/ternarybob/spectorr/internal/storage/flatfile"
)

// FileName is the raw file the generator writes
const FileName = "notes.csv"

// WindowDays is how far back from the reference date notes are spread
const WindowDays = 7

// Assets are the tickers notes are drawn from
var Assets = []string{"AAPL", "AMZN", "GOOGL", "MSFT", "NVDA", "TSLA"}

var (
	subjects = []string{"quarterly results", "analyst note", "supply chain update", "product launch", "guidance call", "options flow"}
	cues     = []string{"strong", "weak", "record", "miss", "upgrade", "downgrade", "growth", "decline", "robust", "concerns", "steady", "mixed"}
	closers  = []string{"", " ahead of earnings", " despite macro risk", " after the open", " on heavy volume"}
)

// Generate writes n synthetic rows to dir/notes.csv, replacing any previous file.
// Output is deterministic for a given rng state and reference date.
func Generate(dir string, n int, rng *rand.Rand, reference time.Time) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("row count must not be negative: %d", n)
	}

	day := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)
	records := make([]models.CanonicalRecord, 0, n)

	for i := 0; i < n; i++ {
		asset := Assets[rng.IntN(len(Assets))]
		date := day.AddDate(0, 0, -rng.IntN(WindowDays))
		text := fmt.Sprintf("%s %s: %s%s",
			asset,
			subjects[rng.IntN(len(subjects))],
			cues[rng.IntN(len(cues))],
			closers[rng.IntN(len(closers))],
		)
		score := math.Round((rng.Float64()*2-1)*100) / 100
		if score == 0 {
			score = 0 // drop the sign of -0
		}

		records = append(records, models.CanonicalRecord{
			AssetID:        asset,
			Text:           text,
			SourceDate:     date,
			SourceDateStr:  date.Format(models.DateLayout),
			SentimentScore: score,
			Seq:            i,
		})
	}

	path := filepath.Join(dir, FileName)
	if err := flatfile.WriteCanonicalCSV(path, records); err != nil {
		return "", err
	}
	return path, nil
}
