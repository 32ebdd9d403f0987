package etl

// Column names consumed from raw sources
const (
	ColAssetID        = "asset_id"
	ColText           = "text"
	ColSourceDate     = "source_date"
	ColSentimentScore = "sentiment_score"
)

// RequiredColumns must be present in every raw source. sentiment_score is optional;
// when a source omits it the lexicon scorer supplies the score.
var RequiredColumns = []string{ColAssetID, ColText, ColSourceDate}

// RawSource is one untyped tabular input: a header and string rows.
// BadRows counts rows the reader could not parse at all.
type RawSource struct {
	Name    string
	Columns []string
	Rows    [][]string
	BadRows int
}

// columnIndex maps column name to position; the first occurrence of a duplicate wins
func (s *RawSource) columnIndex() map[string]int {
	index := make(map[string]int, len(s.Columns))
	for i, c := range s.Columns {
		if _, ok := index[c]; !ok {
			index[c] = i
		}
	}
	return index
}

// missingColumns lists required columns the source does not carry
func (s *RawSource) missingColumns() []string {
	index := s.columnIndex()
	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// cell returns the value at column, or "" when the row is short
func cell(row []string, index map[string]int, column string) (string, bool) {
	i, ok := index[column]
	if !ok {
		return "", false
	}
	if i >= len(row) {
		return "", true
	}
	return row[i], true
}
