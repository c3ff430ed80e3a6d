package services

import (
	"sort"

	"github.com/talentflow/talentflow/internal/models"
)

// AnalyticsStore is the read surface the analytics service needs.
type AnalyticsStore interface {
	ListJobs() ([]*models.Job, error)
	ListCandidates() ([]*models.Candidate, error)
}

type AnalyticsService struct {
	store AnalyticsStore
}

type StageCount struct {
	Stage models.Stage `json:"stage"`
	Count int          `json:"count"`
}

type JobCount struct {
	JobID      int64  `json:"jobId"`
	Title      string `json:"title"`
	Candidates int    `json:"candidates"`
}

type MonthCount struct {
	Month string `json:"month"` // YYYY-MM of the application date
	Count int    `json:"count"`
}

// PipelineSummary aggregates the candidate pipeline for the stats endpoint.
type PipelineSummary struct {
	TotalCandidates int          `json:"totalCandidates"`
	Stages          []StageCount `json:"stages"`
	Jobs            []JobCount   `json:"jobs"`
	Timeseries      []MonthCount `json:"timeseries"`
}

func NewAnalyticsService(store AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{store: store}
}

// Summary builds the per-stage histogram, per-job candidate counts and the
// applications-per-month timeseries from current snapshots.
func (s *AnalyticsService) Summary() (*PipelineSummary, error) {
	jobs, err := s.store.ListJobs()
	if err != nil {
		return nil, err
	}
	candidates, err := s.store.ListCandidates()
	if err != nil {
		return nil, err
	}

	byStage := map[models.Stage]int{}
	byJob := map[int64]int{}
	byMonth := map[string]int{}
	for _, c := range candidates {
		byStage[c.Stage]++
		byJob[c.JobID]++
		byMonth[c.CreatedAt.Format("2006-01")]++
	}

	stages := make([]StageCount, 0, len(models.Stages))
	for _, st := range models.Stages {
		stages = append(stages, StageCount{Stage: st, Count: byStage[st]})
	}

	sort.SliceStable(jobs, func(i, k int) bool { return jobs[i].Order < jobs[k].Order })
	jobCounts := make([]JobCount, 0, len(jobs))
	for _, j := range jobs {
		jobCounts = append(jobCounts, JobCount{JobID: j.ID, Title: j.Title, Candidates: byJob[j.ID]})
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)
	series := make([]MonthCount, 0, len(months))
	for _, m := range months {
		series = append(series, MonthCount{Month: m, Count: byMonth[m]})
	}

	return &PipelineSummary{
		TotalCandidates: len(candidates),
		Stages:          stages,
		Jobs:            jobCounts,
		Timeseries:      series,
	}, nil
}
