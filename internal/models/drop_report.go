package models

// DropReason explains why a raw row did not become a CanonicalRecord.
// The empty value means the row was kept.
type DropReason string

const (
	DropNone         DropReason = ""
	DropEmptyAssetID DropReason = "empty_asset_id"
	DropEmptyText    DropReason = "empty_text"
	DropBadDate      DropReason = "bad_date"
	DropBadScore     DropReason = "bad_score"
	DropInvalid      DropReason = "invalid_record"
	DropRowCap       DropReason = "row_cap"
	DropBadRow       DropReason = "bad_row"
)

// DropReport summarises one normalization pass
type DropReport struct {
	SourcesIn       int                `json:"sources_in"`
	SourcesRejected int                `json:"sources_rejected"`
	RowsIn          int                `json:"rows_in"`
	RowsOut         int                `json:"rows_out"`
	Dropped         map[DropReason]int `json:"dropped"`
	SchemaErrors    []error            `json:"-"`
}

// NewDropReport creates an empty report
func NewDropReport() *DropReport {
	return &DropReport{Dropped: make(map[DropReason]int)}
}

// Record counts one dropped row.
func (r *DropReport) Record(reason DropReason) {
	if reason == DropNone {
		return
	}
	r.Dropped[reason]++
}

// TotalDropped returns the number of rows dropped for any reason
func (r *DropReport) TotalDropped() int {
	total := 0
	for _, n := range r.Dropped {
		total += n
	}
	return total
}
