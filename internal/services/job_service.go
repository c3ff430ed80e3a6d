package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/talentflow/talentflow/internal/models"
	"github.com/talentflow/talentflow/internal/utils"
)

type ErrorCode string

const (
	ErrorInvalid  ErrorCode = "invalid"
	ErrorNotFound ErrorCode = "not_found"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error  { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewNotFoundError(msg string) error { return &ServiceError{Code: ErrorNotFound, Message: msg} }

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// JobStore is the persistence surface JobService needs.
type JobStore interface {
	InsertJob(j *models.Job) (*models.Job, error)
	GetJob(id int64) (*models.Job, error)
	UpdateJob(id int64, patch models.JobPatch) (*models.Job, error)
	ListJobs() ([]*models.Job, error)
	ApplyJobOrders(changes []models.OrderChange) error
}

// CreateJobRequest carries the inbound fields for a new job.
type CreateJobRequest struct {
	Title  string
	Slug   string
	Status models.JobStatus
	Tags   []string
}

// JobService owns job creation, partial updates and the dense-order reorder.
// mu serializes every operation that reads the job snapshot and writes back a
// value derived from it (next order rank, slug uniqueness, the reorder shift
// batch). The store serializes individual calls, but the invariants span a
// read-compute-write sequence, so the whole sequence must be one critical
// section.
type JobService struct {
	store JobStore
	now   func() time.Time
	mu    sync.Mutex
}

func NewJobService(store JobStore) *JobService {
	return &JobService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create validates the request, assigns the next order rank (max+1) and
// persists the job. The slug defaults to a slugified title and must be unique.
func (s *JobService) Create(req CreateJobRequest) (*models.Job, error) {
	if req.Title == "" {
		return nil, NewInvalidError("title is required")
	}
	slug := req.Slug
	if slug == "" {
		slug = utils.Slugify(req.Title)
	}
	if slug == "" {
		return nil, NewInvalidError("slug is required")
	}
	status := req.Status
	if status == "" {
		status = models.JobActive
	}
	if !status.Valid() {
		return nil, NewInvalidError(fmt.Sprintf("unknown status %q", status))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	jobs, err := s.store.ListJobs()
	if err != nil {
		return nil, err
	}
	maxOrder := 0
	for _, j := range jobs {
		if j.Slug == slug {
			return nil, NewInvalidError(fmt.Sprintf("slug %q already in use", slug))
		}
		if j.Order > maxOrder {
			maxOrder = j.Order
		}
	}

	job := &models.Job{
		Title:     req.Title,
		Slug:      slug,
		Status:    status,
		Tags:      req.Tags,
		Order:     maxOrder + 1,
		CreatedAt: s.now(),
	}
	if job.Tags == nil {
		job.Tags = []string{}
	}
	return s.store.InsertJob(job)
}

// Update merges the supplied fields into an existing job.
func (s *JobService) Update(id int64, patch models.JobPatch) (*models.Job, error) {
	if patch.Title != nil && *patch.Title == "" {
		return nil, NewInvalidError("title cannot be empty")
	}
	if patch.Slug != nil && *patch.Slug == "" {
		return nil, NewInvalidError("slug cannot be empty")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, NewInvalidError(fmt.Sprintf("unknown status %q", *patch.Status))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if patch.Slug != nil {
		jobs, err := s.store.ListJobs()
		if err != nil {
			return nil, err
		}
		for _, j := range jobs {
			if j.ID != id && j.Slug == *patch.Slug {
				return nil, NewInvalidError(fmt.Sprintf("slug %q already in use", *patch.Slug))
			}
		}
	}
	job, err := s.store.UpdateJob(id, patch)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, NewNotFoundError("job not found")
	}
	return job, nil
}

// Get returns a single job.
func (s *JobService) Get(id int64) (*models.Job, error) {
	job, err := s.store.GetJob(id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, NewNotFoundError("job not found")
	}
	return job, nil
}

// List returns the full job snapshot.
func (s *JobService) List() ([]*models.Job, error) { return s.store.ListJobs() }

// Reorder moves the job with the given id from fromOrder to toOrder and
// shifts every job in between by one, so order values stay a dense 1..N
// permutation. The computed batch is handed to the store in one atomic apply;
// either all affected jobs move or none do. The service mutex covers the
// whole snapshot-compute-apply sequence: two overlapping reorders cannot both
// shift against the same stale permutation.
func (s *JobService) Reorder(jobID int64, fromOrder, toOrder int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs, err := s.store.ListJobs()
	if err != nil {
		return err
	}

	var moved *models.Job
	for _, j := range jobs {
		if j.ID == jobID {
			moved = j
			break
		}
	}
	if moved == nil || moved.Order != fromOrder {
		return NewNotFoundError("job not found at source position")
	}
	if toOrder < 1 || toOrder > len(jobs) {
		return NewInvalidError(fmt.Sprintf("target position %d out of range 1..%d", toOrder, len(jobs)))
	}
	if fromOrder == toOrder {
		return nil
	}

	changes := make([]models.OrderChange, 0, len(jobs))
	for _, j := range jobs {
		switch {
		case j.ID == jobID:
			changes = append(changes, models.OrderChange{JobID: j.ID, Order: toOrder})
		case fromOrder < toOrder && j.Order > fromOrder && j.Order <= toOrder:
			changes = append(changes, models.OrderChange{JobID: j.ID, Order: j.Order - 1})
		case fromOrder > toOrder && j.Order >= toOrder && j.Order < fromOrder:
			changes = append(changes, models.OrderChange{JobID: j.ID, Order: j.Order + 1})
		}
	}
	return s.store.ApplyJobOrders(changes)
}
