package models

// GroupKey is the (asset, calendar day) pair a Group is keyed by
type GroupKey struct {
	AssetID string
	Date    string // YYYY-MM-DD
}

// Less orders keys by asset then date.
func (k GroupKey) Less(other GroupKey) bool {
	if k.AssetID != other.AssetID {
		return k.AssetID < other.AssetID
	}
	return k.Date < other.Date
}

// Group holds every canonical record sharing one GroupKey.
// Texts are in ingestion order; Avg is the unweighted mean score.
type Group struct {
	Key   GroupKey
	Texts []string
	Avg   float64
	N     int
}
