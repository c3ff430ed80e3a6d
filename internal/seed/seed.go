// Package seed populates a fresh store with the initial dataset: five
// literal jobs, a thousand randomized candidates with derived timelines, and
// two assessments exercising every question type.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/talentflow/talentflow/internal/models"
)

// DefaultCandidateCount matches the dataset size of the original tool.
const DefaultCandidateCount = 1000

// Store is the persistence surface the generator needs.
type Store interface {
	BulkInsertJobs(jobs []*models.Job) error
	BulkInsertCandidates(cs []*models.Candidate) error
	BulkInsertTimeline(es []*models.TimelineEntry) error
	UpsertAssessment(a *models.Assessment) (*models.Assessment, error)
	Counts() (models.CollectionCounts, error)
}

// Generator seeds a store on first boot. The rand source is injectable so
// tests get a deterministic dataset.
type Generator struct {
	store          Store
	rng            *rand.Rand
	candidateCount int
}

func NewGenerator(store Store, candidateCount int) *Generator {
	if candidateCount <= 0 {
		candidateCount = DefaultCandidateCount
	}
	return &Generator{
		store:          store,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		candidateCount: candidateCount,
	}
}

// Run seeds the store unless it already holds jobs. It reports whether
// seeding happened, so running it against a populated store is a no-op.
func (g *Generator) Run() (bool, error) {
	counts, err := g.store.Counts()
	if err != nil {
		return false, fmt.Errorf("seed: count collections: %w", err)
	}
	if counts.Jobs > 0 {
		return false, nil
	}

	if err := g.store.BulkInsertJobs(seedJobs()); err != nil {
		return false, fmt.Errorf("seed jobs: %w", err)
	}
	candidates := g.generateCandidates()
	if err := g.store.BulkInsertCandidates(candidates); err != nil {
		return false, fmt.Errorf("seed candidates: %w", err)
	}
	if err := g.store.BulkInsertTimeline(generateTimelines(candidates)); err != nil {
		return false, fmt.Errorf("seed timelines: %w", err)
	}
	for _, a := range seedAssessments() {
		if _, err := g.store.UpsertAssessment(a); err != nil {
			return false, fmt.Errorf("seed assessment %q: %w", a.Title, err)
		}
	}
	return true, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedJobs() []*models.Job {
	return []*models.Job{
		{ID: 1, Title: "Senior Frontend Developer", Slug: "senior-frontend-developer", Status: models.JobActive, Tags: []string{"React", "TypeScript", "CSS"}, Order: 1, CreatedAt: date(2024, time.January, 15)},
		{ID: 2, Title: "Full Stack Engineer", Slug: "full-stack-engineer", Status: models.JobActive, Tags: []string{"Node.js", "React", "PostgreSQL"}, Order: 2, CreatedAt: date(2024, time.January, 20)},
		{ID: 3, Title: "UI/UX Designer", Slug: "ui-ux-designer", Status: models.JobActive, Tags: []string{"Figma", "Design Systems", "User Research"}, Order: 3, CreatedAt: date(2024, time.February, 1)},
		{ID: 4, Title: "DevOps Engineer", Slug: "devops-engineer", Status: models.JobArchived, Tags: []string{"AWS", "Docker", "Kubernetes"}, Order: 4, CreatedAt: date(2024, time.January, 10)},
		{ID: 5, Title: "Product Manager", Slug: "product-manager", Status: models.JobActive, Tags: []string{"Strategy", "Analytics", "Leadership"}, Order: 5, CreatedAt: date(2024, time.February, 10)},
	}
}

var (
	firstNames = []string{"John", "Jane", "Mike", "Sarah", "David", "Emily", "Chris", "Lisa", "Tom", "Anna"}
	lastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez"}
)

func (g *Generator) generateCandidates() []*models.Candidate {
	out := make([]*models.Candidate, 0, g.candidateCount)
	for i := 1; i <= g.candidateCount; i++ {
		first := firstNames[g.rng.Intn(len(firstNames))]
		last := lastNames[g.rng.Intn(len(lastNames))]
		out = append(out, &models.Candidate{
			ID:        int64(i),
			Name:      first + " " + last,
			Email:     fmt.Sprintf("%s.%s%d@email.com", strings.ToLower(first), strings.ToLower(last), i),
			Stage:     models.Stages[g.rng.Intn(len(models.Stages))],
			JobID:     int64(g.rng.Intn(5) + 1),
			CreatedAt: date(2024, time.Month(g.rng.Intn(12)+1), g.rng.Intn(28)+1),
		})
	}
	return out
}

// progression is the fixed stage walk used when synthesizing timelines.
// The walk always runs from screen up to the index of the candidate's current
// stage, so a candidate sitting at "rejected" also accumulates entries for
// offer and hired. Known quirk of the seeded dataset; kept as-is.
var progression = []models.Stage{models.StageScreen, models.StageTech, models.StageOffer, models.StageHired, models.StageRejected}

func generateTimelines(candidates []*models.Candidate) []*models.TimelineEntry {
	out := []*models.TimelineEntry{}
	for _, c := range candidates {
		out = append(out, &models.TimelineEntry{
			CandidateID: c.ID,
			Stage:       models.StageApplied,
			Timestamp:   c.CreatedAt,
			Notes:       "Application submitted",
		})
		idx := -1
		for i, st := range progression {
			if st == c.Stage {
				idx = i
				break
			}
		}
		for i := 0; i <= idx; i++ {
			out = append(out, &models.TimelineEntry{
				CandidateID: c.ID,
				Stage:       progression[i],
				Timestamp:   c.CreatedAt.AddDate(0, 0, (i+1)*7),
				Notes:       fmt.Sprintf("Moved to %s stage", progression[i]),
			})
		}
	}
	return out
}

func intPtr(v int) *int { return &v }

func seedAssessments() []*models.Assessment {
	return []*models.Assessment{
		{
			ID:    1,
			JobID: 1,
			Title: "Frontend Developer Assessment",
			Sections: []models.Section{
				{
					ID:    1,
					Title: "Technical Knowledge",
					Questions: []models.Question{
						{ID: 1, Type: models.QuestionSingleChoice, Question: "Which React hook is used for side effects?", Options: []string{"useState", "useEffect", "useMemo", "useCallback"}, Required: true},
						{ID: 2, Type: models.QuestionMultiChoice, Question: "Select all valid CSS display values:", Options: []string{"block", "inline", "flex", "grid", "table"}, Required: true},
						{ID: 3, Type: models.QuestionShortText, Question: "What is your experience with TypeScript?", MaxLength: 200, Required: true},
					},
				},
				{
					ID:    2,
					Title: "Problem Solving",
					Questions: []models.Question{
						{ID: 4, Type: models.QuestionLongText, Question: "Describe how you would optimize a React application's performance.", MaxLength: 1000, Required: true},
						{ID: 5, Type: models.QuestionNumeric, Question: "How many years of React experience do you have?", Min: intPtr(0), Max: intPtr(20), Required: true},
					},
				},
			},
			CreatedAt: date(2024, time.January, 15),
		},
		{
			ID:    2,
			JobID: 2,
			Title: "Full Stack Assessment",
			Sections: []models.Section{
				{
					ID:    1,
					Title: "Backend Knowledge",
					Questions: []models.Question{
						{ID: 1, Type: models.QuestionSingleChoice, Question: "Which is NOT a HTTP method?", Options: []string{"GET", "POST", "FETCH", "DELETE"}, Required: true},
						{ID: 2, Type: models.QuestionShortText, Question: "Explain REST API principles briefly:", MaxLength: 300, Required: true},
						{ID: 3, Type: models.QuestionFileUpload, Question: "Upload a code sample or portfolio.", Required: false},
					},
				},
			},
			CreatedAt: date(2024, time.January, 20),
		},
	}
}
