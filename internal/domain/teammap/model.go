package teammap

import "time"

// Mapping links a primary-provider team id to the enrichment provider's id
// for the same club. Rows are produced offline by an administrative matching
// run; the pipeline only ever does key lookups against the finished table.
type Mapping struct {
	PrimaryTeamID    int64
	EnrichmentTeamID int64
	TeamName         string
	// Confidence is the offline matcher's score (0..1). Runtime code treats
	// every stored row as usable; the score exists for later audits.
	Confidence float64
	Verified   bool
	CreatedAt  time.Time
}
