package services

import (
	"testing"
	"time"

	"github.com/talentflow/talentflow/internal/models"
)

func TestAnalyticsSummary(t *testing.T) {
	store := newStubStore()
	store.jobs[1] = &models.Job{ID: 1, Title: "Backend Engineer", Order: 2}
	store.jobs[2] = &models.Job{ID: 2, Title: "Frontend Developer", Order: 1}

	add := func(id int64, stage models.Stage, jobID int64, month time.Month) {
		store.candidates[id] = &models.Candidate{
			ID: id, Stage: stage, JobID: jobID,
			CreatedAt: time.Date(2024, month, 10, 0, 0, 0, 0, time.UTC),
		}
	}
	add(1, models.StageApplied, 1, time.January)
	add(2, models.StageApplied, 2, time.January)
	add(3, models.StageScreen, 1, time.February)
	add(4, models.StageHired, 2, time.March)

	summary, err := NewAnalyticsService(store).Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if summary.TotalCandidates != 4 {
		t.Fatalf("total = %d", summary.TotalCandidates)
	}

	// Every stage present, in display order, zeros included.
	if len(summary.Stages) != len(models.Stages) {
		t.Fatalf("stage buckets = %d", len(summary.Stages))
	}
	byStage := map[models.Stage]int{}
	for _, sc := range summary.Stages {
		byStage[sc.Stage] = sc.Count
	}
	if byStage[models.StageApplied] != 2 || byStage[models.StageHired] != 1 || byStage[models.StageRejected] != 0 {
		t.Fatalf("stage counts = %v", byStage)
	}

	// Jobs ordered by board position, not id.
	if summary.Jobs[0].JobID != 2 || summary.Jobs[0].Candidates != 2 {
		t.Fatalf("first job bucket = %+v", summary.Jobs[0])
	}
	if summary.Jobs[1].JobID != 1 || summary.Jobs[1].Candidates != 2 {
		t.Fatalf("second job bucket = %+v", summary.Jobs[1])
	}

	want := []MonthCount{{"2024-01", 2}, {"2024-02", 1}, {"2024-03", 1}}
	if len(summary.Timeseries) != len(want) {
		t.Fatalf("timeseries = %+v", summary.Timeseries)
	}
	for i, mc := range want {
		if summary.Timeseries[i] != mc {
			t.Fatalf("timeseries[%d] = %+v, want %+v", i, summary.Timeseries[i], mc)
		}
	}
}

func TestAnalyticsSummaryEmptyStore(t *testing.T) {
	summary, err := NewAnalyticsService(newStubStore()).Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalCandidates != 0 || len(summary.Timeseries) != 0 {
		t.Fatalf("empty summary = %+v", summary)
	}
	if len(summary.Stages) != len(models.Stages) {
		t.Fatalf("stage buckets = %d", len(summary.Stages))
	}
}
