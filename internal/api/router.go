package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/talentflow/talentflow/internal/models"
	"github.com/talentflow/talentflow/internal/services"
)

// Router exposes the hiring-pipeline request surface over HTTP. All state
// lives in the injected Store; the router itself is stateless.
type Router struct {
	store       Store
	jobs        *services.JobService
	candidates  *services.CandidateService
	timeline    *services.TimelineService
	assessments *services.AssessmentService
	analytics   *services.AnalyticsService
}

func NewRouter(store Store) *Router {
	timeline := services.NewTimelineService(store)
	return &Router{
		store:       store,
		jobs:        services.NewJobService(store),
		candidates:  services.NewCandidateService(store, timeline),
		timeline:    timeline,
		assessments: services.NewAssessmentService(store),
		analytics:   services.NewAnalyticsService(store),
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/jobs", rt.handleJobs)                         // GET, POST
	mux.HandleFunc("/api/jobs/", rt.handleJobScoped)                   // PATCH /api/jobs/{id}[/reorder]
	mux.HandleFunc("/api/candidates", rt.handleCandidates)             // GET
	mux.HandleFunc("/api/candidates/export", rt.handleCandidateExport) // GET
	mux.HandleFunc("/api/candidates/", rt.handleCandidateScoped)       // PATCH /{id}, GET /{id}/timeline
	mux.HandleFunc("/api/assessments/", rt.handleAssessmentScoped)     // GET/PUT /{jobId}, POST /{jobId}/submit
	mux.HandleFunc("/api/stats", rt.handleStats)                       // GET
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	if se, ok := services.AsServiceError(err); ok {
		switch se.Code {
		case services.ErrorNotFound:
			writeError(w, http.StatusNotFound, se.Message)
		default:
			writeError(w, http.StatusBadRequest, se.Message)
		}
		return
	}
	writeError(w, http.StatusInternalServerError, "Server error")
}

func queryInt(r *http.Request, key, def string) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		v = def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// --- Jobs ---

func (rt *Router) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rt.listJobs(w, r)
	case http.MethodPost:
		rt.createJob(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (rt *Router) listJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := rt.jobs.List()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	page := services.QueryJobs(jobs, services.JobQuery{
		Search: r.URL.Query().Get("search"),
		Status: models.JobStatus(r.URL.Query().Get("status")),
		Sort:   r.URL.Query().Get("sort"),
		PageRequest: services.PageRequest{
			Page:     queryInt(r, "page", "1"),
			PageSize: queryInt(r, "pageSize", "10"),
		},
	})
	writeJSON(w, http.StatusOK, page)
}

func (rt *Router) createJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title  string           `json:"title"`
		Slug   string           `json:"slug"`
		Status models.JobStatus `json:"status"`
		Tags   []string         `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	job, err := rt.jobs.Create(services.CreateJobRequest{
		Title:  req.Title,
		Slug:   req.Slug,
		Status: req.Status,
		Tags:   req.Tags,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (rt *Router) handleJobScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	parts := strings.Split(rest, "/")
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}
	switch {
	case len(parts) == 1 && r.Method == http.MethodPatch:
		rt.patchJob(w, r, id)
	case len(parts) == 2 && parts[1] == "reorder" && r.Method == http.MethodPatch:
		rt.reorderJob(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (rt *Router) patchJob(w http.ResponseWriter, r *http.Request, id int64) {
	var req struct {
		Title  *string           `json:"title"`
		Slug   *string           `json:"slug"`
		Status *models.JobStatus `json:"status"`
		Tags   *[]string         `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	job, err := rt.jobs.Update(id, models.JobPatch{
		Title:  req.Title,
		Slug:   req.Slug,
		Status: req.Status,
		Tags:   req.Tags,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (rt *Router) reorderJob(w http.ResponseWriter, r *http.Request, id int64) {
	var req struct {
		FromOrder int `json:"fromOrder"`
		ToOrder   int `json:"toOrder"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := rt.jobs.Reorder(id, req.FromOrder, req.ToOrder); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --- Candidates ---

func (rt *Router) handleCandidates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	cs, err := rt.candidates.List()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	page := services.QueryCandidates(cs, services.CandidateQuery{
		Search: r.URL.Query().Get("search"),
		Stage:  models.Stage(r.URL.Query().Get("stage")),
		PageRequest: services.PageRequest{
			Page:     queryInt(r, "page", "1"),
			PageSize: queryInt(r, "pageSize", "50"),
		},
	})
	writeJSON(w, http.StatusOK, page)
}

func (rt *Router) handleCandidateExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	cs, err := rt.candidates.List()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	filtered := services.FilterCandidates(cs,
		r.URL.Query().Get("search"),
		models.Stage(r.URL.Query().Get("stage")))
	b, err := services.ExportCandidatesCSV(filtered)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=candidates.csv")
	_, _ = w.Write(b)
}

func (rt *Router) handleCandidateScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/candidates/")
	parts := strings.Split(rest, "/")
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid candidate id")
		return
	}
	switch {
	case len(parts) == 1 && r.Method == http.MethodPatch:
		rt.patchCandidate(w, r, id)
	case len(parts) == 2 && parts[1] == "timeline" && r.Method == http.MethodGet:
		rt.candidateTimeline(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (rt *Router) patchCandidate(w http.ResponseWriter, r *http.Request, id int64) {
	var req struct {
		Name  *string       `json:"name"`
		Email *string       `json:"email"`
		Stage *models.Stage `json:"stage"`
		JobID *int64        `json:"jobId"`
		Notes string        `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := rt.candidates.Update(id, services.UpdateCandidateRequest{
		Name:  req.Name,
		Email: req.Email,
		Stage: req.Stage,
		JobID: req.JobID,
		Notes: req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (rt *Router) candidateTimeline(w http.ResponseWriter, _ *http.Request, id int64) {
	entries, err := rt.timeline.List(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// --- Assessments ---

func (rt *Router) handleAssessmentScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/assessments/")
	parts := strings.Split(rest, "/")
	jobID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}
	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		rt.getAssessment(w, jobID)
	case len(parts) == 1 && r.Method == http.MethodPut:
		rt.putAssessment(w, r, jobID)
	case len(parts) == 2 && parts[1] == "submit" && r.Method == http.MethodPost:
		rt.submitAssessment(w, r, jobID)
	default:
		http.NotFound(w, r)
	}
}

func (rt *Router) getAssessment(w http.ResponseWriter, jobID int64) {
	a, err := rt.assessments.GetByJob(jobID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	// A missing assessment serializes as JSON null, matching the contract.
	writeJSON(w, http.StatusOK, a)
}

func (rt *Router) putAssessment(w http.ResponseWriter, r *http.Request, jobID int64) {
	var body models.Assessment
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := rt.assessments.Upsert(jobID, body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (rt *Router) submitAssessment(w http.ResponseWriter, r *http.Request, jobID int64) {
	var req struct {
		CandidateID int64          `json:"candidateId"`
		Responses   map[string]any `json:"responses"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sub, err := rt.assessments.Submit(jobID, req.CandidateID, req.Responses)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "submissionId": sub.ID})
}

// --- Stats ---

func (rt *Router) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	summary, err := rt.analytics.Summary()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
