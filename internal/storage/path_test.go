package storage

import (
	"testing"
	"time"
)

func TestBuildTranscriptPath(t *testing.T) {
	ts := time.Date(2026, time.February, 19, 4, 5, 0, 0, time.FixedZone("x", -5*3600))
	key, err := BuildTranscriptPath("01HZX3M0Q8J2S9Y6W4V1T7K5RB", ts)
	if err != nil {
		t.Fatalf("BuildTranscriptPath() error = %v", err)
	}
	want := "transcripts/date=2026-02-19/hour=09/01HZX3M0Q8J2S9Y6W4V1T7K5RB.json"
	if key != want {
		t.Fatalf("BuildTranscriptPath() = %q, want %q", key, want)
	}
}

func TestBuildSnapshotPath(t *testing.T) {
	key, err := BuildSnapshotPath(time.Date(2026, time.October, 16, 23, 59, 7, 0, time.UTC))
	if err != nil {
		t.Fatalf("BuildSnapshotPath() error = %v", err)
	}
	want := "snapshots/date=2026-10-16/stock-20261016T235907Z.parquet"
	if key != want {
		t.Fatalf("BuildSnapshotPath() = %q, want %q", key, want)
	}
	if _, err := BuildSnapshotPath(time.Time{}); err == nil {
		t.Fatal("expected error for zero time")
	}
}

func TestBuildPathRejectsInvalidComponent(t *testing.T) {
	if _, err := BuildTranscriptPath("../oops", time.Now()); err == nil {
		t.Fatal("expected invalid component error")
	}
}
