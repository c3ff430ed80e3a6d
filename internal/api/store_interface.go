package api

import "github.com/talentflow/talentflow/internal/models"

// Store is the persistence contract shared by the in-memory and SQLite
// implementations. Mutating methods serialize per store; list methods return
// snapshots that never observe a half-applied reorder. Get methods return
// (nil, nil) when the id is absent; services translate that into not-found
// errors.
type Store interface {
	InsertJob(j *models.Job) (*models.Job, error)
	GetJob(id int64) (*models.Job, error)
	UpdateJob(id int64, patch models.JobPatch) (*models.Job, error)
	ListJobs() ([]*models.Job, error)
	BulkInsertJobs(jobs []*models.Job) error
	// ApplyJobOrders applies a staged batch of order changes atomically:
	// either every change lands or none do.
	ApplyJobOrders(changes []models.OrderChange) error

	InsertCandidate(c *models.Candidate) (*models.Candidate, error)
	GetCandidate(id int64) (*models.Candidate, error)
	UpdateCandidate(id int64, patch models.CandidatePatch) (*models.Candidate, error)
	ListCandidates() ([]*models.Candidate, error)
	BulkInsertCandidates(cs []*models.Candidate) error

	AppendTimelineEntry(e *models.TimelineEntry) (*models.TimelineEntry, error)
	ListTimeline(candidateID int64) ([]*models.TimelineEntry, error)
	BulkInsertTimeline(es []*models.TimelineEntry) error

	GetAssessmentByJob(jobID int64) (*models.Assessment, error)
	UpsertAssessment(a *models.Assessment) (*models.Assessment, error)

	InsertSubmission(r *models.SubmissionResponse) (*models.SubmissionResponse, error)
	ListSubmissions(assessmentID int64) ([]*models.SubmissionResponse, error)

	Counts() (models.CollectionCounts, error)
}

var _ Store = (*memoryStore)(nil)
