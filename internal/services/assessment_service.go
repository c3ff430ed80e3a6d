package services

import (
	"fmt"
	"time"

	"github.com/talentflow/talentflow/internal/models"
)

// AssessmentStore is the persistence surface AssessmentService needs.
type AssessmentStore interface {
	GetAssessmentByJob(jobID int64) (*models.Assessment, error)
	UpsertAssessment(a *models.Assessment) (*models.Assessment, error)
	InsertSubmission(r *models.SubmissionResponse) (*models.SubmissionResponse, error)
}

// AssessmentService owns the per-job questionnaire and its submissions.
type AssessmentService struct {
	store AssessmentStore
	now   func() time.Time
}

func NewAssessmentService(store AssessmentStore) *AssessmentService {
	return &AssessmentService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// GetByJob returns the job's assessment, or nil when none exists. Absence is
// not an error here: the surface serves it as a JSON null.
func (s *AssessmentService) GetByJob(jobID int64) (*models.Assessment, error) {
	return s.store.GetAssessmentByJob(jobID)
}

// Upsert creates the job's assessment or updates it in place. The store keeps
// the existing id and creation time on update, so repeated PUTs never grow
// duplicates.
func (s *AssessmentService) Upsert(jobID int64, a models.Assessment) (*models.Assessment, error) {
	if a.Title == "" {
		return nil, NewInvalidError("title is required")
	}
	for si, sec := range a.Sections {
		if sec.Title == "" {
			return nil, NewInvalidError(fmt.Sprintf("section %d: title is required", si+1))
		}
		for qi, q := range sec.Questions {
			if err := validateQuestion(q); err != nil {
				return nil, NewInvalidError(fmt.Sprintf("section %d question %d: %v", si+1, qi+1, err))
			}
		}
	}
	a.JobID = jobID
	a.CreatedAt = s.now()
	return s.store.UpsertAssessment(&a)
}

func validateQuestion(q models.Question) error {
	if !q.Type.Valid() {
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	if q.Question == "" {
		return fmt.Errorf("question text is required")
	}
	// Options travel with choice questions and only with them.
	if q.Type.Choice() && len(q.Options) == 0 {
		return fmt.Errorf("%s questions need options", q.Type)
	}
	if !q.Type.Choice() && len(q.Options) > 0 {
		return fmt.Errorf("%s questions do not take options", q.Type)
	}
	if q.Type == models.QuestionNumeric && q.Min != nil && q.Max != nil && *q.Min > *q.Max {
		return fmt.Errorf("min %d exceeds max %d", *q.Min, *q.Max)
	}
	return nil
}

// Submit records an immutable submission against the job's assessment.
func (s *AssessmentService) Submit(jobID, candidateID int64, responses map[string]any) (*models.SubmissionResponse, error) {
	if candidateID == 0 {
		return nil, NewInvalidError("candidateId is required")
	}
	if responses == nil {
		return nil, NewInvalidError("responses are required")
	}
	a, err := s.store.GetAssessmentByJob(jobID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, NewNotFoundError("no assessment for job")
	}
	return s.store.InsertSubmission(&models.SubmissionResponse{
		AssessmentID: a.ID,
		CandidateID:  candidateID,
		Responses:    responses,
		SubmittedAt:  s.now(),
	})
}
