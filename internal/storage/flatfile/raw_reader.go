package flatfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ternarybob/spectorr/internal/models"
	"github.com/ternarybob/spectorr/internal/services/etl"
)

// UnknownAsset is assigned to notes whose filename carries no ticker
const UnknownAsset = "UNKNOWN"

// rawExtensions are the file types picked up from the raw directory
var rawExtensions = map[string]bool{
	".csv": true,
	".txt": true,
	".md":  true,
}

// tickerPattern matches "..._AAPL.txt" style note filenames
var tickerPattern = regexp.MustCompile(`_([A-Z]{2,6})\.[^.]+$`)

// DiscoverRawFiles lists raw input files in dir, sorted by name. Subdirectories are not searched.
func DiscoverRawFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if rawExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// ReadRawSources reads every discovered file in order. Notes are dated today.
func ReadRawSources(files []string, today time.Time) ([]etl.RawSource, error) {
	sources := make([]etl.RawSource, 0, len(files))
	for _, path := range files {
		var (
			source etl.RawSource
			err    error
		)
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			source, err = ReadCSVSource(path)
		} else {
			source, err = ReadNoteSource(path, today)
		}
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	return sources, nil
}

// ReadCSVSource loads a CSV file as an untyped source. Every value stays a string;
// short rows are padded with empty values. An empty file yields a source with no columns.
// Stray quotes inside unquoted fields are kept as text; a row the reader still cannot
// parse is skipped and counted in BadRows.
func ReadCSVSource(path string) (etl.RawSource, error) {
	source := etl.RawSource{Name: filepath.Base(path)}

	f, err := os.Open(path)
	if err != nil {
		return source, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return source, nil
	}
	if err != nil {
		return source, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	source.Columns = header

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			source.BadRows++
			continue
		}
		if err != nil {
			return source, fmt.Errorf("failed to read %s: %w", path, err)
		}
		for len(row) < len(header) {
			row = append(row, "")
		}
		source.Rows = append(source.Rows, row)
	}

	return source, nil
}

// ReadNoteSource loads a free-text note as a single-row source. The asset comes from
// the filename suffix; the date is today.
func ReadNoteSource(path string, today time.Time) (etl.RawSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return etl.RawSource{}, fmt.Errorf("failed to read note %s: %w", path, err)
	}

	return etl.RawSource{
		Name:    filepath.Base(path),
		Columns: []string{etl.ColAssetID, etl.ColText, etl.ColSourceDate},
		Rows: [][]string{
			{AssetFromFilename(path), string(data), today.Format(models.DateLayout)},
		},
	}, nil
}

// AssetFromFilename extracts the ticker from "..._TICKER.ext", else UnknownAsset
func AssetFromFilename(path string) string {
	if m := tickerPattern.FindStringSubmatch(filepath.Base(path)); m != nil {
		return m[1]
	}
	return UnknownAsset
}
