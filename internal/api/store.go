package api

import (
	"fmt"
	"sort"
	"sync"

	"github.com/talentflow/talentflow/internal/models"
)

// memoryStore keeps every collection in process memory. It is the default
// store: the system models a client-side embedded database, so durability is
// optional and provided by the SQLite variant in internal/db.
//
// A single RWMutex serializes all mutations, which is what makes the staged
// reorder batch atomic: no reader or writer can observe a partially applied
// permutation.
type memoryStore struct {
	mu sync.RWMutex

	jobs        map[int64]*models.Job
	candidates  map[int64]*models.Candidate
	timeline    []*models.TimelineEntry
	assessments map[int64]*models.Assessment // keyed by job id
	submissions []*models.SubmissionResponse

	nextJobID        int64
	nextCandidateID  int64
	nextTimelineID   int64
	nextAssessmentID int64
	nextSubmissionID int64
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() Store { return newMemoryStore() }

func newMemoryStore() *memoryStore {
	return &memoryStore{
		jobs:        map[int64]*models.Job{},
		candidates:  map[int64]*models.Candidate{},
		assessments: map[int64]*models.Assessment{},
	}
}

func cloneJob(j *models.Job) *models.Job {
	cp := *j
	cp.Tags = append([]string(nil), j.Tags...)
	return &cp
}

func cloneCandidate(c *models.Candidate) *models.Candidate {
	cp := *c
	return &cp
}

func cloneEntry(e *models.TimelineEntry) *models.TimelineEntry {
	cp := *e
	return &cp
}

func cloneAssessment(a *models.Assessment) *models.Assessment {
	cp := *a
	cp.Sections = make([]models.Section, len(a.Sections))
	for i, sec := range a.Sections {
		sc := sec
		sc.Questions = make([]models.Question, len(sec.Questions))
		for qi, q := range sec.Questions {
			qc := q
			qc.Options = append([]string(nil), q.Options...)
			sc.Questions[qi] = qc
		}
		cp.Sections[i] = sc
	}
	return &cp
}

func cloneSubmission(r *models.SubmissionResponse) *models.SubmissionResponse {
	cp := *r
	cp.Responses = make(map[string]any, len(r.Responses))
	for k, v := range r.Responses {
		cp.Responses[k] = v
	}
	return &cp
}

// --- Jobs ---

func (s *memoryStore) InsertJob(j *models.Job) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := cloneJob(j)
	s.nextJobID++
	cp.ID = s.nextJobID
	s.jobs[cp.ID] = cp
	return cloneJob(cp), nil
}

func (s *memoryStore) GetJob(id int64) (*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	return cloneJob(j), nil
}

func (s *memoryStore) UpdateJob(id int64, patch models.JobPatch) (*models.Job, error) {
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
		j.Tags = append([]string(nil), *patch.Tags...)
	}
	if patch.Order != nil {
		j.Order = *patch.Order
	}
	return cloneJob(j), nil
}

func (s *memoryStore) ListJobs() ([]*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, cloneJob(j))
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func (s *memoryStore) BulkInsertJobs(jobs []*models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range jobs {
		cp := cloneJob(j)
		if cp.ID == 0 {
			s.nextJobID++
			cp.ID = s.nextJobID
		} else if cp.ID > s.nextJobID {
			s.nextJobID = cp.ID
		}
		s.jobs[cp.ID] = cp
	}
	return nil
}

func (s *memoryStore) ApplyJobOrders(changes []models.OrderChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Stage first: refuse the whole batch if any id is missing.
	for _, ch := range changes {
		if _, ok := s.jobs[ch.JobID]; !ok {
			return fmt.Errorf("apply job orders: job %d not found", ch.JobID)
		}
	}
	for _, ch := range changes {
		s.jobs[ch.JobID].Order = ch.Order
	}
	return nil
}

// --- Candidates ---

func (s *memoryStore) InsertCandidate(c *models.Candidate) (*models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := cloneCandidate(c)
	s.nextCandidateID++
	cp.ID = s.nextCandidateID
	s.candidates[cp.ID] = cp
	return cloneCandidate(cp), nil
}

func (s *memoryStore) GetCandidate(id int64) (*models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil, nil
	}
	return cloneCandidate(c), nil
}

func (s *memoryStore) UpdateCandidate(id int64, patch models.CandidatePatch) (*models.Candidate, error) {
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
	return cloneCandidate(c), nil
}

func (s *memoryStore) ListCandidates() ([]*models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		out = append(out, cloneCandidate(c))
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func (s *memoryStore) BulkInsertCandidates(cs []*models.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range cs {
		cp := cloneCandidate(c)
		if cp.ID == 0 {
			s.nextCandidateID++
			cp.ID = s.nextCandidateID
		} else if cp.ID > s.nextCandidateID {
			s.nextCandidateID = cp.ID
		}
		s.candidates[cp.ID] = cp
	}
	return nil
}

// --- Timeline ---

func (s *memoryStore) AppendTimelineEntry(e *models.TimelineEntry) (*models.TimelineEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := cloneEntry(e)
	s.nextTimelineID++
	cp.ID = s.nextTimelineID
	s.timeline = append(s.timeline, cp)
	return cloneEntry(cp), nil
}

func (s *memoryStore) ListTimeline(candidateID int64) ([]*models.TimelineEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.TimelineEntry{}
	for _, e := range s.timeline {
		if e.CandidateID == candidateID {
			out = append(out, cloneEntry(e))
		}
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].Timestamp.Before(out[k].Timestamp) })
	return out, nil
}

func (s *memoryStore) BulkInsertTimeline(es []*models.TimelineEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range es {
		cp := cloneEntry(e)
		if cp.ID == 0 {
			s.nextTimelineID++
			cp.ID = s.nextTimelineID
		} else if cp.ID > s.nextTimelineID {
			s.nextTimelineID = cp.ID
		}
		s.timeline = append(s.timeline, cp)
	}
	return nil
}

// --- Assessments ---

func (s *memoryStore) GetAssessmentByJob(jobID int64) (*models.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assessments[jobID]
	if !ok {
		return nil, nil
	}
	return cloneAssessment(a), nil
}

func (s *memoryStore) UpsertAssessment(a *models.Assessment) (*models.Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := cloneAssessment(a)
	if existing, ok := s.assessments[cp.JobID]; ok {
		// Update keeps the original identity.
		cp.ID = existing.ID
		cp.CreatedAt = existing.CreatedAt
	} else if cp.ID == 0 {
		s.nextAssessmentID++
		cp.ID = s.nextAssessmentID
	} else if cp.ID > s.nextAssessmentID {
		s.nextAssessmentID = cp.ID
	}
	s.assessments[cp.JobID] = cp
	return cloneAssessment(cp), nil
}

// --- Submissions ---

func (s *memoryStore) InsertSubmission(r *models.SubmissionResponse) (*models.SubmissionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := cloneSubmission(r)
	s.nextSubmissionID++
	cp.ID = s.nextSubmissionID
	s.submissions = append(s.submissions, cp)
	return cloneSubmission(cp), nil
}

func (s *memoryStore) ListSubmissions(assessmentID int64) ([]*models.SubmissionResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.SubmissionResponse{}
	for _, r := range s.submissions {
		if r.AssessmentID == assessmentID {
			out = append(out, cloneSubmission(r))
		}
	}
	return out, nil
}

func (s *memoryStore) Counts() (models.CollectionCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CollectionCounts{
		Jobs:        len(s.jobs),
		Candidates:  len(s.candidates),
		Timeline:    len(s.timeline),
		Assessments: len(s.assessments),
		Submissions: len(s.submissions),
	}, nil
}
