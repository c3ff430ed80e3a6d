package seed

import (
	"math/rand"
	"testing"

	"github.com/talentflow/talentflow/internal/api"
	"github.com/talentflow/talentflow/internal/models"
)

func newSeededStore(t *testing.T, candidates int) api.Store {
	t.Helper()
	store := api.NewMemoryStore()
	g := NewGenerator(store, candidates)
	g.rng = rand.New(rand.NewSource(1))
	seeded, err := g.Run()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !seeded {
		t.Fatal("fresh store was not seeded")
	}
	return store
}

func TestSeedCounts(t *testing.T) {
	store := newSeededStore(t, 0) // 0 falls back to the default

	counts, err := store.Counts()
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.Jobs != 5 {
		t.Fatalf("jobs = %d, want 5", counts.Jobs)
	}
	if counts.Candidates != DefaultCandidateCount {
		t.Fatalf("candidates = %d, want %d", counts.Candidates, DefaultCandidateCount)
	}
	if counts.Assessments != 2 {
		t.Fatalf("assessments = %d, want 2", counts.Assessments)
	}
	// Every candidate has at least the "Application submitted" entry.
	if counts.Timeline < counts.Candidates {
		t.Fatalf("timeline = %d, want >= %d", counts.Timeline, counts.Candidates)
	}
}

func TestSeedIdempotent(t *testing.T) {
	store := newSeededStore(t, 50)

	again := NewGenerator(store, 50)
	seeded, err := again.Run()
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if seeded {
		t.Fatal("second run reseeded a populated store")
	}
	counts, _ := store.Counts()
	if counts.Candidates != 50 {
		t.Fatalf("candidates after second run = %d", counts.Candidates)
	}
}

func TestSeedJobLiterals(t *testing.T) {
	store := newSeededStore(t, 10)

	jobs, err := store.ListJobs()
	if err != nil {
		t.Fatalf("list jobs: %v", err)
	}
	if len(jobs) != 5 {
		t.Fatalf("jobs = %d", len(jobs))
	}
	if jobs[0].Title != "Senior Frontend Developer" || jobs[0].Slug != "senior-frontend-developer" {
		t.Fatalf("job 1 = %+v", jobs[0])
	}
	if jobs[3].Status != models.JobArchived {
		t.Fatalf("DevOps job status = %s, want archived", jobs[3].Status)
	}
	for i, j := range jobs {
		if j.Order != i+1 {
			t.Fatalf("job %d order = %d", j.ID, j.Order)
		}
	}
}

func TestSeedCandidateShape(t *testing.T) {
	store := newSeededStore(t, 25)

	cs, err := store.ListCandidates()
	if err != nil {
		t.Fatalf("list candidates: %v", err)
	}
	if len(cs) != 25 {
		t.Fatalf("candidates = %d", len(cs))
	}
	for _, c := range cs {
		if !c.Stage.Valid() {
			t.Fatalf("candidate %d stage %q invalid", c.ID, c.Stage)
		}
		if c.JobID < 1 || c.JobID > 5 {
			t.Fatalf("candidate %d job id %d out of range", c.ID, c.JobID)
		}
		if c.Name == "" || c.Email == "" {
			t.Fatalf("candidate %d missing identity: %+v", c.ID, c)
		}
	}
}

func TestSeedTimelineWalk(t *testing.T) {
	cs := []*models.Candidate{
		{ID: 1, Stage: models.StageApplied, CreatedAt: date(2024, 3, 1)},
		{ID: 2, Stage: models.StageTech, CreatedAt: date(2024, 3, 1)},
		{ID: 3, Stage: models.StageRejected, CreatedAt: date(2024, 3, 1)},
	}
	entries := generateTimelines(cs)

	byCandidate := map[int64][]*models.TimelineEntry{}
	for _, e := range entries {
		byCandidate[e.CandidateID] = append(byCandidate[e.CandidateID], e)
	}

	// Applied candidates get only the application entry.
	if len(byCandidate[1]) != 1 || byCandidate[1][0].Notes != "Application submitted" {
		t.Fatalf("applied walk = %+v", byCandidate[1])
	}

	// Tech candidates walk screen then tech.
	got := byCandidate[2]
	if len(got) != 3 || got[1].Stage != models.StageScreen || got[2].Stage != models.StageTech {
		t.Fatalf("tech walk = %+v", got)
	}

	// Rejected candidates accumulate the whole walk, hired included.
	got = byCandidate[3]
	if len(got) != 6 {
		t.Fatalf("rejected walk length = %d, want 6", len(got))
	}
	if got[4].Stage != models.StageHired || got[5].Stage != models.StageRejected {
		t.Fatalf("rejected walk tail = %s, %s", got[4].Stage, got[5].Stage)
	}

	// Entries are spaced a week apart from the application date.
	if !got[1].Timestamp.Equal(cs[2].CreatedAt.AddDate(0, 0, 7)) {
		t.Fatalf("first transition at %v", got[1].Timestamp)
	}
}

func TestSeedAssessmentsCoverAllQuestionTypes(t *testing.T) {
	store := newSeededStore(t, 10)

	seen := map[models.QuestionType]bool{}
	for _, jobID := range []int64{1, 2} {
		a, err := store.GetAssessmentByJob(jobID)
		if err != nil {
			t.Fatalf("get assessment %d: %v", jobID, err)
		}
		if a == nil {
			t.Fatalf("job %d has no assessment", jobID)
		}
		for _, sec := range a.Sections {
			for _, q := range sec.Questions {
				seen[q.Type] = true
			}
		}
	}
	for _, qt := range []models.QuestionType{
		models.QuestionSingleChoice, models.QuestionMultiChoice,
		models.QuestionShortText, models.QuestionLongText,
		models.QuestionNumeric, models.QuestionFileUpload,
	} {
		if !seen[qt] {
			t.Fatalf("question type %s not covered by seed assessments", qt)
		}
	}
}

func TestSeedExplicitIDsDoNotCollideWithInserts(t *testing.T) {
	store := newSeededStore(t, 10)

	j, err := store.InsertJob(&models.Job{Title: "New Role", Order: 6})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if j.ID <= 5 {
		t.Fatalf("new job id %d collides with seeded range", j.ID)
	}

	c, err := store.InsertCandidate(&models.Candidate{Name: "New", Email: "new@email.com", Stage: models.StageApplied, JobID: 1})
	if err != nil {
		t.Fatalf("insert candidate: %v", err)
	}
	if c.ID <= 10 {
		t.Fatalf("new candidate id %d collides with seeded range", c.ID)
	}
}
