package models

import "time"

// JobStatus is the lifecycle state of a job posting.
type JobStatus string

const (
	JobActive   JobStatus = "active"
	JobArchived JobStatus = "archived"
)

// Valid reports whether s is one of the known job statuses.
func (s JobStatus) Valid() bool { return s == JobActive || s == JobArchived }

// Stage is one of the six fixed pipeline states a candidate occupies.
type Stage string

const (
	StageApplied  Stage = "applied"
	StageScreen   Stage = "screen"
	StageTech     Stage = "tech"
	StageOffer    Stage = "offer"
	StageHired    Stage = "hired"
	StageRejected Stage = "rejected"
)

// Stages lists all pipeline stages in display order.
var Stages = []Stage{StageApplied, StageScreen, StageTech, StageOffer, StageHired, StageRejected}

// Valid reports whether s is one of the six pipeline stages.
func (s Stage) Valid() bool {
	for _, v := range Stages {
		if s == v {
			return true
		}
	}
	return false
}

// Job is a posting on the board. Order values over all jobs form a dense
// permutation of 1..N.
type Job struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Status    JobStatus `json:"status"`
	Tags      []string  `json:"tags"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}

// JobPatch carries a partial job update; nil fields are left untouched.
type JobPatch struct {
	Title  *string
	Slug   *string
	Status *JobStatus
	Tags   *[]string
	Order  *int
}

// Candidate is an applicant attached to a job. JobID is not enforced as a
// foreign key; it may reference a job that does not exist.
type Candidate struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Stage     Stage     `json:"stage"`
	JobID     int64     `json:"jobId"`
	CreatedAt time.Time `json:"createdAt"`
}

// CandidatePatch carries a partial candidate update.
type CandidatePatch struct {
	Name  *string
	Email *string
	Stage *Stage
	JobID *int64
}

// TimelineEntry records one stage transition or note for a candidate.
// Entries are append-only: never updated or deleted once created.
type TimelineEntry struct {
	ID          int64     `json:"id"`
	CandidateID int64     `json:"candidateId"`
	Stage       Stage     `json:"stage"`
	Timestamp   time.Time `json:"timestamp"`
	Notes       string    `json:"notes"`
}

// QuestionType enumerates the supported assessment question kinds.
type QuestionType string

const (
	QuestionSingleChoice QuestionType = "single-choice"
	QuestionMultiChoice  QuestionType = "multi-choice"
	QuestionShortText    QuestionType = "short-text"
	QuestionLongText     QuestionType = "long-text"
	QuestionNumeric      QuestionType = "numeric"
	QuestionFileUpload   QuestionType = "file-upload"
)

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionSingleChoice, QuestionMultiChoice, QuestionShortText,
		QuestionLongText, QuestionNumeric, QuestionFileUpload:
		return true
	}
	return false
}

// Choice reports whether the type carries an options list.
func (t QuestionType) Choice() bool {
	return t == QuestionSingleChoice || t == QuestionMultiChoice
}

// Question is a single typed prompt inside a section.
type Question struct {
	ID        int64        `json:"id"`
	Type      QuestionType `json:"type"`
	Question  string       `json:"question"`
	Required  bool         `json:"required"`
	Options   []string     `json:"options,omitempty"`
	MaxLength int          `json:"maxLength,omitempty"`
	Min       *int         `json:"min,omitempty"`
	Max       *int         `json:"max,omitempty"`
}

// Section groups questions inside an assessment.
type Section struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Assessment is the per-job questionnaire. At most one exists per job;
// uniqueness is enforced by upsert, not by a hard constraint.
type Assessment struct {
	ID        int64     `json:"id"`
	JobID     int64     `json:"jobId"`
	Title     string    `json:"title"`
	Sections  []Section `json:"sections"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmissionResponse is an immutable recorded assessment submission.
// Responses maps question id (as a string key) to the raw answer.
type SubmissionResponse struct {
	ID           int64          `json:"id"`
	AssessmentID int64          `json:"assessmentId"`
	CandidateID  int64          `json:"candidateId"`
	Responses    map[string]any `json:"responses"`
	SubmittedAt  time.Time      `json:"submittedAt"`
}

// OrderChange is one staged order assignment inside an atomic reorder batch.
type OrderChange struct {
	JobID int64
	Order int
}

// CollectionCounts reports per-collection record counts, used by the seeder
// to decide whether the store is fresh.
type CollectionCounts struct {
	Jobs        int
	Candidates  int
	Timeline    int
	Assessments int
	Submissions int
}
