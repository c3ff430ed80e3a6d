package services

import (
	"fmt"

	"github.com/talentflow/talentflow/internal/models"
)

// CandidateStore is the persistence surface CandidateService needs.
type CandidateStore interface {
	GetCandidate(id int64) (*models.Candidate, error)
	UpdateCandidate(id int64, patch models.CandidatePatch) (*models.Candidate, error)
	ListCandidates() ([]*models.Candidate, error)
}

// UpdateCandidateRequest is a partial candidate update. Notes only matter
// when Stage is set: they become the timeline entry text for the transition.
type UpdateCandidateRequest struct {
	Name  *string
	Email *string
	Stage *models.Stage
	JobID *int64
	Notes string
}

// CandidateService owns candidate updates. A stage change automatically
// records a timeline transition; the candidate record itself is never touched
// by the timeline side.
type CandidateService struct {
	store    CandidateStore
	timeline *TimelineService
}

func NewCandidateService(store CandidateStore, timeline *TimelineService) *CandidateService {
	return &CandidateService{store: store, timeline: timeline}
}

// Update merges the supplied fields and, when the update includes a stage,
// appends a timeline entry for the transition.
func (s *CandidateService) Update(id int64, req UpdateCandidateRequest) (*models.Candidate, error) {
	if req.Name != nil && *req.Name == "" {
		return nil, NewInvalidError("name cannot be empty")
	}
	if req.Stage != nil && !req.Stage.Valid() {
		return nil, NewInvalidError(fmt.Sprintf("unknown stage %q", *req.Stage))
	}

	c, err := s.store.UpdateCandidate(id, models.CandidatePatch{
		Name:  req.Name,
		Email: req.Email,
		Stage: req.Stage,
		JobID: req.JobID,
	})
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, NewNotFoundError("candidate not found")
	}

	if req.Stage != nil {
		if _, err := s.timeline.RecordTransition(id, *req.Stage, req.Notes); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Get returns a single candidate.
func (s *CandidateService) Get(id int64) (*models.Candidate, error) {
	c, err := s.store.GetCandidate(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, NewNotFoundError("candidate not found")
	}
	return c, nil
}

// List returns the full candidate snapshot in insertion order.
func (s *CandidateService) List() ([]*models.Candidate, error) { return s.store.ListCandidates() }
