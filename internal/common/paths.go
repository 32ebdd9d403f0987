package common

import "path/filepath"

// RawDir is where raw CSV and note files are discovered
func (d DataConfig) RawDir() string {
	if d.Raw != "" {
		return d.Raw
	}
	return filepath.Join(d.Root, "raw")
}

// CuratedDir holds pipeline outputs. A run key isolates them per run.
func (d DataConfig) CuratedDir() string {
	if d.RunKey != "" {
		return filepath.Join(d.Root, "curated", "runs", d.RunKey)
	}
	return filepath.Join(d.Root, "curated")
}

// CleanedCSV is the canonical intermediate store
func (d DataConfig) CleanedCSV() string {
	return filepath.Join(d.CuratedDir(), "cleaned.csv")
}

// InsightsJSON is the output store
func (d DataConfig) InsightsJSON() string {
	return filepath.Join(d.CuratedDir(), "insights.json")
}
