package storage

import (
	"fmt"
	"path"
	"regexp"
	"time"
)

const (
	TranscriptRoot = "transcripts"
	SnapshotRoot   = "snapshots"
)

var pathComponentPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,127}$`)

// BuildTranscriptPath returns transcripts/date=YYYY-MM-DD/hour=HH/<id>.json
// using the UTC answer time.
func BuildTranscriptPath(answerID string, answeredAt time.Time) (string, error) {
	if err := validatePathComponent(answerID, "answer id"); err != nil {
		return "", err
	}
	ts := answeredAt.UTC()
	return path.Join(TranscriptRoot, datePartition(ts), fmt.Sprintf("hour=%02d", ts.Hour()), answerID+".json"), nil
}

// BuildSnapshotPath returns snapshots/date=YYYY-MM-DD/stock-<timestamp>.parquet.
func BuildSnapshotPath(takenAt time.Time) (string, error) {
	if takenAt.IsZero() {
		return "", fmt.Errorf("snapshot time is required")
	}
	ts := takenAt.UTC()
	return path.Join(SnapshotRoot, datePartition(ts), "stock-"+ts.Format("20060102T150405Z")+".parquet"), nil
}

func datePartition(ts time.Time) string {
	return fmt.Sprintf("date=%04d-%02d-%02d", ts.Year(), ts.Month(), ts.Day())
}

func validatePathComponent(value, field string) error {
	if !pathComponentPattern.MatchString(value) {
		return fmt.Errorf("invalid %s: %q", field, value)
	}
	return nil
}
