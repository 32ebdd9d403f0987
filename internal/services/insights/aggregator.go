package insights

import (
	"sort"

	"github.com/ternarybob/spectorr/internal/models"
)

// Aggregate groups records by exact (asset_id, source_date).
//
// Groups come back in ascending key order. Records are stable-sorted by Seq first,
// so each group's texts follow ingestion order regardless of how the slice arrived.
// The input slice is not modified.
func Aggregate(records []models.CanonicalRecord) []models.Group {
	ordered := make([]models.CanonicalRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Seq < ordered[j].Seq
	})

	index := make(map[models.GroupKey]int)
	groups := make([]models.Group, 0)
	sums := make([]float64, 0)

	for _, r := range ordered {
		key := r.GroupKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, models.Group{Key: key})
			sums = append(sums, 0)
		}
		groups[i].Texts = append(groups[i].Texts, r.Text)
		groups[i].N++
		sums[i] += r.SentimentScore
	}

	for i := range groups {
		groups[i].Avg = mean(sums[i], groups[i].N)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Key.Less(groups[j].Key)
	})

	return groups
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0.0
	}
	return sum / float64(n)
}

// Filter keeps records matching the exact asset and/or date; empty values match all
func Filter(records []models.CanonicalRecord, assetID, date string) []models.CanonicalRecord {
	if assetID == "" && date == "" {
		return records
	}
	out := make([]models.CanonicalRecord, 0, len(records))
	for _, r := range records {
		if assetID != "" && r.AssetID != assetID {
			continue
		}
		if date != "" && r.SourceDateStr != date {
			continue
		}
		out = append(out, r)
	}
	return out
}
