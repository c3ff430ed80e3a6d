package services

import (
	"sort"
	"sync"

	"github.com/talentflow/talentflow/internal/models"
)

// stubStore is a minimal in-memory store shared by the service tests. Like
// the real stores, individual calls serialize; mu guards every method.
type stubStore struct {
	mu sync.Mutex

	jobs        map[int64]*models.Job
	candidates  map[int64]*models.Candidate
	timeline    []*models.TimelineEntry
	assessments map[int64]*models.Assessment // keyed by job id
	submissions []*models.SubmissionResponse

	nextJobID        int64
	nextTimelineID   int64
	nextAssessmentID int64
	nextSubmissionID int64

	applyErr error // forced failure for ApplyJobOrders
}

func newStubStore() *stubStore {
	return &stubStore{
		jobs:        map[int64]*models.Job{},
		candidates:  map[int64]*models.Candidate{},
		assessments: map[int64]*models.Assessment{},
	}
}

func (s *stubStore) InsertJob(j *models.Job) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *j
	s.nextJobID++
	cp.ID = s.nextJobID
	s.jobs[cp.ID] = &cp
	return &cp, nil
}

func (s *stubStore) GetJob(id int64) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (s *stubStore) UpdateJob(id int64, patch models.JobPatch) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	if patch.Title != nil {
		j.Title = *patch.Title
	}
	if patch.Slug != nil {
		j.Slug = *patch.Slug
	}
	if patch.Status != nil {
		j.Status = *patch.Status
	}
	if patch.Tags != nil {
		j.Tags = *patch.Tags
	}
	if patch.Order != nil {
		j.Order = *patch.Order
	}
	cp := *j
	return &cp, nil
}

func (s *stubStore) ListJobs() ([]*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		cp := *j
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func (s *stubStore) ApplyJobOrders(changes []models.OrderChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applyErr != nil {
		return s.applyErr
	}
	for _, ch := range changes {
		s.jobs[ch.JobID].Order = ch.Order
	}
	return nil
}

func (s *stubStore) GetCandidate(id int64) (*models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *stubStore) UpdateCandidate(id int64, patch models.CandidatePatch) (*models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil, nil
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.Stage != nil {
		c.Stage = *patch.Stage
	}
	if patch.JobID != nil {
		c.JobID = *patch.JobID
	}
	cp := *c
	return &cp, nil
}

func (s *stubStore) ListCandidates() ([]*models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func (s *stubStore) AppendTimelineEntry(e *models.TimelineEntry) (*models.TimelineEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.nextTimelineID++
	cp.ID = s.nextTimelineID
	s.timeline = append(s.timeline, &cp)
	return &cp, nil
}

func (s *stubStore) ListTimeline(candidateID int64) ([]*models.TimelineEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.TimelineEntry{}
	for _, e := range s.timeline {
		if e.CandidateID == candidateID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].Timestamp.Before(out[k].Timestamp) })
	return out, nil
}

func (s *stubStore) GetAssessmentByJob(jobID int64) (*models.Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assessments[jobID]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (s *stubStore) UpsertAssessment(a *models.Assessment) (*models.Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	if existing, ok := s.assessments[cp.JobID]; ok {
		cp.ID = existing.ID
		cp.CreatedAt = existing.CreatedAt
	} else {
		s.nextAssessmentID++
		cp.ID = s.nextAssessmentID
	}
	s.assessments[cp.JobID] = &cp
	return &cp, nil
}

func (s *stubStore) InsertSubmission(r *models.SubmissionResponse) (*models.SubmissionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.nextSubmissionID++
	cp.ID = s.nextSubmissionID
	s.submissions = append(s.submissions, &cp)
	return &cp, nil
}
