// Package db provides the durable SQLite implementation of the store
// contract. The memory store stays the default; this variant exists for runs
// that should survive a restart.
package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/talentflow/talentflow/internal/api"
	"github.com/talentflow/talentflow/internal/models"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ api.Store = (*SQLiteStore)(nil)

// Open opens (creating if needed) the database at path and migrates it. The
// busy timeout makes overlapping writers queue instead of failing fast.
func Open(path string) (*SQLiteStore, error) {
	dbh, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return NewSQLiteStore(dbh)
}

func NewSQLiteStore(dbh *sql.DB) (*SQLiteStore, error) {
	if dbh == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := dbh.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	if err := Migrate(dbh); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: dbh}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeTags(raw sql.NullString) []string {
	if !raw.Valid || strings.TrimSpace(raw.String) == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		return []string{}
	}
	return out
}

// --- Jobs ---

func scanJob(row interface{ Scan(...any) error }) (*models.Job, error) {
	var j models.Job
	var tags sql.NullString
	if err := row.Scan(&j.ID, &j.Title, &j.Slug, &j.Status, &tags, &j.Order, &j.CreatedAt); err != nil {
		return nil, err
	}
	j.Tags = decodeTags(tags)
	return &j, nil
}

const jobCols = "id, title, slug, status, tags, sort_order, created_at"

func (s *SQLiteStore) InsertJob(j *models.Job) (*models.Job, error) {
	tags, err := encodeJSON(j.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	res, err := s.db.Exec(
		"INSERT INTO jobs (title, slug, status, tags, sort_order, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		j.Title, j.Slug, j.Status, tags, j.Order, j.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetJob(id)
}

func (s *SQLiteStore) GetJob(id int64) (*models.Job, error) {
	j, err := scanJob(s.db.QueryRow("SELECT "+jobCols+" FROM jobs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

func (s *SQLiteStore) UpdateJob(id int64, patch models.JobPatch) (*models.Job, error) {
	sets := []string{}
	args := []any{}
	if patch.Title != nil {
		sets, args = append(sets, "title = ?"), append(args, *patch.Title)
	}
	if patch.Slug != nil {
		sets, args = append(sets, "slug = ?"), append(args, *patch.Slug)
	}
	if patch.Status != nil {
		sets, args = append(sets, "status = ?"), append(args, *patch.Status)
	}
	if patch.Tags != nil {
		tags, err := encodeJSON(*patch.Tags)
		if err != nil {
			return nil, fmt.Errorf("encode tags: %w", err)
		}
		sets, args = append(sets, "tags = ?"), append(args, tags)
	}
	if patch.Order != nil {
		sets, args = append(sets, "sort_order = ?"), append(args, *patch.Order)
	}
	if len(sets) > 0 {
		args = append(args, id)
		res, err := s.db.Exec("UPDATE jobs SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
		if err != nil {
			return nil, fmt.Errorf("update job: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, nil
		}
	}
	return s.GetJob(id)
}

func (s *SQLiteStore) ListJobs() ([]*models.Job, error) {
	rows, err := s.db.Query("SELECT " + jobCols + " FROM jobs ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()
	var out []*models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) BulkInsertJobs(jobs []*models.Job) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, j := range jobs {
		tags, err := encodeJSON(j.Tags)
		if err != nil {
			return fmt.Errorf("encode tags: %w", err)
		}
		if j.ID != 0 {
			_, err = tx.Exec(
				"INSERT INTO jobs (id, title, slug, status, tags, sort_order, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
				j.ID, j.Title, j.Slug, j.Status, tags, j.Order, j.CreatedAt,
			)
		} else {
			_, err = tx.Exec(
				"INSERT INTO jobs (title, slug, status, tags, sort_order, created_at) VALUES (?, ?, ?, ?, ?, ?)",
				j.Title, j.Slug, j.Status, tags, j.Order, j.CreatedAt,
			)
		}
		if err != nil {
			return fmt.Errorf("bulk insert job: %w", err)
		}
	}
	return tx.Commit()
}

// ApplyJobOrders runs the whole reorder batch in one transaction: either
// every order change lands or the permutation is left untouched.
func (s *SQLiteStore) ApplyJobOrders(changes []models.OrderChange) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, ch := range changes {
		res, err := tx.Exec("UPDATE jobs SET sort_order = ? WHERE id = ?", ch.Order, ch.JobID)
		if err != nil {
			return fmt.Errorf("apply job orders: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("apply job orders: job %d not found", ch.JobID)
		}
	}
	return tx.Commit()
}

// --- Candidates ---

func scanCandidate(row interface{ Scan(...any) error }) (*models.Candidate, error) {
	var c models.Candidate
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Stage, &c.JobID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

const candidateCols = "id, name, email, stage, job_id, created_at"

func (s *SQLiteStore) InsertCandidate(c *models.Candidate) (*models.Candidate, error) {
	res, err := s.db.Exec(
		"INSERT INTO candidates (name, email, stage, job_id, created_at) VALUES (?, ?, ?, ?, ?)",
		c.Name, c.Email, c.Stage, c.JobID, c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert candidate: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetCandidate(id)
}

func (s *SQLiteStore) GetCandidate(id int64) (*models.Candidate, error) {
	c, err := scanCandidate(s.db.QueryRow("SELECT "+candidateCols+" FROM candidates WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get candidate: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) UpdateCandidate(id int64, patch models.CandidatePatch) (*models.Candidate, error) {
	sets := []string{}
	args := []any{}
	if patch.Name != nil {
		sets, args = append(sets, "name = ?"), append(args, *patch.Name)
	}
	if patch.Email != nil {
		sets, args = append(sets, "email = ?"), append(args, *patch.Email)
	}
	if patch.Stage != nil {
		sets, args = append(sets, "stage = ?"), append(args, *patch.Stage)
	}
	if patch.JobID != nil {
		sets, args = append(sets, "job_id = ?"), append(args, *patch.JobID)
	}
	if len(sets) > 0 {
		args = append(args, id)
		res, err := s.db.Exec("UPDATE candidates SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
		if err != nil {
			return nil, fmt.Errorf("update candidate: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, nil
		}
	}
	return s.GetCandidate(id)
}

func (s *SQLiteStore) ListCandidates() ([]*models.Candidate, error) {
	rows, err := s.db.Query("SELECT " + candidateCols + " FROM candidates ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()
	var out []*models.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) BulkInsertCandidates(cs []*models.Candidate) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, c := range cs {
		if c.ID != 0 {
			_, err = tx.Exec(
				"INSERT INTO candidates (id, name, email, stage, job_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
				c.ID, c.Name, c.Email, c.Stage, c.JobID, c.CreatedAt,
			)
		} else {
			_, err = tx.Exec(
				"INSERT INTO candidates (name, email, stage, job_id, created_at) VALUES (?, ?, ?, ?, ?)",
				c.Name, c.Email, c.Stage, c.JobID, c.CreatedAt,
			)
		}
		if err != nil {
			return fmt.Errorf("bulk insert candidate: %w", err)
		}
	}
	return tx.Commit()
}

// --- Timeline ---

func (s *SQLiteStore) AppendTimelineEntry(e *models.TimelineEntry) (*models.TimelineEntry, error) {
	res, err := s.db.Exec(
		"INSERT INTO timeline_entries (candidate_id, stage, ts, notes) VALUES (?, ?, ?, ?)",
		e.CandidateID, e.Stage, e.Timestamp, e.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("append timeline entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	cp := *e
	cp.ID = id
	return &cp, nil
}

func (s *SQLiteStore) ListTimeline(candidateID int64) ([]*models.TimelineEntry, error) {
	rows, err := s.db.Query(
		"SELECT id, candidate_id, stage, ts, notes FROM timeline_entries WHERE candidate_id = ? ORDER BY ts, id",
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("list timeline: %w", err)
	}
	defer rows.Close()
	out := []*models.TimelineEntry{}
	for rows.Next() {
		var e models.TimelineEntry
		if err := rows.Scan(&e.ID, &e.CandidateID, &e.Stage, &e.Timestamp, &e.Notes); err != nil {
			return nil, fmt.Errorf("scan timeline entry: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) BulkInsertTimeline(es []*models.TimelineEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, e := range es {
		if e.ID != 0 {
			_, err = tx.Exec(
				"INSERT INTO timeline_entries (id, candidate_id, stage, ts, notes) VALUES (?, ?, ?, ?, ?)",
				e.ID, e.CandidateID, e.Stage, e.Timestamp, e.Notes,
			)
		} else {
			_, err = tx.Exec(
				"INSERT INTO timeline_entries (candidate_id, stage, ts, notes) VALUES (?, ?, ?, ?)",
				e.CandidateID, e.Stage, e.Timestamp, e.Notes,
			)
		}
		if err != nil {
			return fmt.Errorf("bulk insert timeline entry: %w", err)
		}
	}
	return tx.Commit()
}

// --- Assessments ---

func scanAssessment(row interface{ Scan(...any) error }) (*models.Assessment, error) {
	var a models.Assessment
	var sections string
	if err := row.Scan(&a.ID, &a.JobID, &a.Title, &sections, &a.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(sections), &a.Sections); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	return &a, nil
}

func (s *SQLiteStore) GetAssessmentByJob(jobID int64) (*models.Assessment, error) {
	a, err := scanAssessment(s.db.QueryRow(
		"SELECT id, job_id, title, sections, created_at FROM assessments WHERE job_id = ? ORDER BY id LIMIT 1",
		jobID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	return a, nil
}

func (s *SQLiteStore) UpsertAssessment(a *models.Assessment) (*models.Assessment, error) {
	sections, err := encodeJSON(a.Sections)
	if err != nil {
		return nil, fmt.Errorf("encode sections: %w", err)
	}
	// The unique index on job_id turns the insert into a single atomic
	// upsert; a conflicting row keeps its id and created_at, so an update
	// never changes the assessment's identity. Concurrent PUTs for the same
	// job therefore cannot produce two rows.
	if a.ID != 0 {
		_, err = s.db.Exec(
			`INSERT INTO assessments (id, job_id, title, sections, created_at) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(job_id) DO UPDATE SET title = excluded.title, sections = excluded.sections`,
			a.ID, a.JobID, a.Title, sections, a.CreatedAt,
		)
	} else {
		_, err = s.db.Exec(
			`INSERT INTO assessments (job_id, title, sections, created_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(job_id) DO UPDATE SET title = excluded.title, sections = excluded.sections`,
			a.JobID, a.Title, sections, a.CreatedAt,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert assessment: %w", err)
	}
	return s.GetAssessmentByJob(a.JobID)
}

// --- Submissions ---

func (s *SQLiteStore) InsertSubmission(r *models.SubmissionResponse) (*models.SubmissionResponse, error) {
	responses, err := encodeJSON(r.Responses)
	if err != nil {
		return nil, fmt.Errorf("encode responses: %w", err)
	}
	res, err := s.db.Exec(
		"INSERT INTO submissions (assessment_id, candidate_id, responses, submitted_at) VALUES (?, ?, ?, ?)",
		r.AssessmentID, r.CandidateID, responses, r.SubmittedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	cp := *r
	cp.ID = id
	return &cp, nil
}

func (s *SQLiteStore) ListSubmissions(assessmentID int64) ([]*models.SubmissionResponse, error) {
	rows, err := s.db.Query(
		"SELECT id, assessment_id, candidate_id, responses, submitted_at FROM submissions WHERE assessment_id = ? ORDER BY id",
		assessmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()
	out := []*models.SubmissionResponse{}
	for rows.Next() {
		var r models.SubmissionResponse
		var responses string
		if err := rows.Scan(&r.ID, &r.AssessmentID, &r.CandidateID, &responses, &r.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		if err := json.Unmarshal([]byte(responses), &r.Responses); err != nil {
			return nil, fmt.Errorf("decode responses: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Counts() (models.CollectionCounts, error) {
	var counts models.CollectionCounts
	for _, q := range []struct {
		table string
		dst   *int
	}{
		{"jobs", &counts.Jobs},
		{"candidates", &counts.Candidates},
		{"timeline_entries", &counts.Timeline},
		{"assessments", &counts.Assessments},
		{"submissions", &counts.Submissions},
	} {
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + q.table).Scan(q.dst); err != nil {
			return counts, fmt.Errorf("count %s: %w", q.table, err)
		}
	}
	return counts, nil
}
