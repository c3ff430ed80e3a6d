package services

import (
	"testing"
	"time"

	"github.com/talentflow/talentflow/internal/models"
)

func TestTimelineListAscending(t *testing.T) {
	store := newStubStore()
	svc := NewTimelineService(store)

	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	clock := base
	svc.now = func() time.Time {
		clock = clock.Add(24 * time.Hour)
		return clock
	}

	stages := []models.Stage{models.StageApplied, models.StageScreen, models.StageTech}
	for _, st := range stages {
		if _, err := svc.RecordTransition(7, st, ""); err != nil {
			t.Fatalf("record %s: %v", st, err)
		}
	}
	// A second candidate's entries must not leak in.
	if _, err := svc.RecordTransition(8, models.StageApplied, ""); err != nil {
		t.Fatalf("record other candidate: %v", err)
	}

	entries, err := svc.List(7)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	for i, st := range stages {
		if entries[i].Stage != st {
			t.Fatalf("entry %d stage = %s, want %s", i, entries[i].Stage, st)
		}
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Timestamp.Before(entries[i-1].Timestamp) {
			t.Fatalf("entries not ascending at %d", i)
		}
	}
}

func TestRecordTransitionDefaultNotes(t *testing.T) {
	store := newStubStore()
	svc := NewTimelineService(store)

	e, err := svc.RecordTransition(1, models.StageOffer, "")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if e.Notes != "Moved to offer stage" {
		t.Fatalf("notes = %q", e.Notes)
	}

	e, err = svc.RecordTransition(1, models.StageRejected, "Position filled")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if e.Notes != "Position filled" {
		t.Fatalf("custom notes = %q", e.Notes)
	}
}

func TestRecordTransitionRejectsUnknownStage(t *testing.T) {
	svc := NewTimelineService(newStubStore())
	_, err := svc.RecordTransition(1, models.Stage("limbo"), "")
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorInvalid {
		t.Fatalf("err = %v, want invalid", err)
	}
}

func TestAppendRequiresNotes(t *testing.T) {
	svc := NewTimelineService(newStubStore())

	_, err := svc.Append(1, models.StageScreen, "")
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorInvalid {
		t.Fatalf("empty notes err = %v, want invalid", err)
	}

	e, err := svc.Append(1, models.StageScreen, "Left a voicemail")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if e.Notes != "Left a voicemail" {
		t.Fatalf("notes = %q", e.Notes)
	}
}
