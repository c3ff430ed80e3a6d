package services

import (
	"sort"
	"strings"

	"github.com/talentflow/talentflow/internal/models"
)

// Default page sizes for the two paginated collections.
const (
	DefaultJobPageSize       = 10
	DefaultCandidatePageSize = 50
)

// PageRequest is a 1-based pagination request.
type PageRequest struct {
	Page     int
	PageSize int
}

// JobQuery filters and orders a job snapshot.
type JobQuery struct {
	Search string
	Status models.JobStatus
	Sort   string // order | title | createdAt
	PageRequest
}

// JobPage is one page of a job query result.
type JobPage struct {
	Jobs       []*models.Job `json:"jobs"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
}

// CandidateQuery filters a candidate snapshot.
type CandidateQuery struct {
	Search string
	Stage  models.Stage
	PageRequest
}

// CandidatePage is one page of a candidate query result.
type CandidatePage struct {
	Candidates []*models.Candidate `json:"candidates"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	TotalPages int                 `json:"totalPages"`
}

// FilterJobs returns the jobs matching the search term (case-insensitive
// substring over title and tags) and status. Empty values match everything.
func FilterJobs(jobs []*models.Job, search string, status models.JobStatus) []*models.Job {
	needle := strings.ToLower(search)
	out := make([]*models.Job, 0, len(jobs))
	for _, j := range jobs {
		if status != "" && j.Status != status {
			continue
		}
		if needle != "" && !jobMatches(j, needle) {
			continue
		}
		out = append(out, j)
	}
	return out
}

func jobMatches(j *models.Job, needle string) bool {
	if strings.Contains(strings.ToLower(j.Title), needle) {
		return true
	}
	for _, tag := range j.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// FilterCandidates returns the candidates matching the search term
// (case-insensitive substring over name and email) and stage.
func FilterCandidates(cs []*models.Candidate, search string, stage models.Stage) []*models.Candidate {
	needle := strings.ToLower(search)
	out := make([]*models.Candidate, 0, len(cs))
	for _, c := range cs {
		if stage != "" && c.Stage != stage {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.Name), needle) &&
			!strings.Contains(strings.ToLower(c.Email), needle) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func sortJobs(jobs []*models.Job, key string) {
	switch key {
	case "title":
		sort.SliceStable(jobs, func(i, k int) bool { return jobs[i].Title < jobs[k].Title })
	case "createdAt":
		sort.SliceStable(jobs, func(i, k int) bool { return jobs[i].CreatedAt.Before(jobs[k].CreatedAt) })
	default:
		sort.SliceStable(jobs, func(i, k int) bool { return jobs[i].Order < jobs[k].Order })
	}
}

// paginate normalizes the request and returns the slice bounds plus page
// metadata. An out-of-range page yields start == end, never an error.
func paginate(total int, pr PageRequest, defaultSize int) (start, end, page, size, totalPages int) {
	page = pr.Page
	if page < 1 {
		page = 1
	}
	size = pr.PageSize
	if size < 1 {
		size = defaultSize
	}
	totalPages = (total + size - 1) / size
	start = (page - 1) * size
	if start > total {
		start = total
	}
	end = start + size
	if end > total {
		end = total
	}
	return start, end, page, size, totalPages
}

// QueryJobs is a pure function of its inputs: it filters, sorts and paginates
// a job snapshot without touching any shared state.
func QueryJobs(jobs []*models.Job, q JobQuery) JobPage {
	matched := FilterJobs(jobs, q.Search, q.Status)
	sortJobs(matched, q.Sort)
	start, end, page, size, totalPages := paginate(len(matched), q.PageRequest, DefaultJobPageSize)
	return JobPage{
		Jobs:       matched[start:end],
		Total:      len(matched),
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
	}
}

// QueryCandidates filters and paginates a candidate snapshot. Candidates keep
// insertion (id) order; the snapshot from the store is already sorted by id.
func QueryCandidates(cs []*models.Candidate, q CandidateQuery) CandidatePage {
	matched := FilterCandidates(cs, q.Search, q.Stage)
	start, end, page, size, totalPages := paginate(len(matched), q.PageRequest, DefaultCandidatePageSize)
	return CandidatePage{
		Candidates: matched[start:end],
		Total:      len(matched),
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
	}
}
