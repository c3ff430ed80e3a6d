package services

import (
	"fmt"
	"time"

	"github.com/talentflow/talentflow/internal/models"
)

// TimelineStore is the persistence surface TimelineService needs. The store
// only ever appends; existing entries are immutable.
type TimelineStore interface {
	AppendTimelineEntry(e *models.TimelineEntry) (*models.TimelineEntry, error)
	ListTimeline(candidateID int64) ([]*models.TimelineEntry, error)
}

// TimelineService maintains the append-only audit trail of candidate stage
// transitions and manual notes.
type TimelineService struct {
	store TimelineStore
	now   func() time.Time
}

func NewTimelineService(store TimelineStore) *TimelineService {
	return &TimelineService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// RecordTransition appends an entry for a stage change. Empty notes default
// to "Moved to {stage} stage".
func (s *TimelineService) RecordTransition(candidateID int64, stage models.Stage, notes string) (*models.TimelineEntry, error) {
	if !stage.Valid() {
		return nil, NewInvalidError(fmt.Sprintf("unknown stage %q", stage))
	}
	if notes == "" {
		notes = fmt.Sprintf("Moved to %s stage", stage)
	}
	return s.store.AppendTimelineEntry(&models.TimelineEntry{
		CandidateID: candidateID,
		Stage:       stage,
		Timestamp:   s.now(),
		Notes:       notes,
	})
}

// Append records a manual note-only entry that does not necessarily change
// the candidate's stage.
func (s *TimelineService) Append(candidateID int64, stage models.Stage, notes string) (*models.TimelineEntry, error) {
	if !stage.Valid() {
		return nil, NewInvalidError(fmt.Sprintf("unknown stage %q", stage))
	}
	if notes == "" {
		return nil, NewInvalidError("notes are required")
	}
	return s.store.AppendTimelineEntry(&models.TimelineEntry{
		CandidateID: candidateID,
		Stage:       stage,
		Timestamp:   s.now(),
		Notes:       notes,
	})
}

// List returns the candidate's entries sorted by timestamp ascending.
func (s *TimelineService) List(candidateID int64) ([]*models.TimelineEntry, error) {
	return s.store.ListTimeline(candidateID)
}
