package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/coursewise/coursewise/internal/api/middleware"
	"github.com/coursewise/coursewise/internal/api/shared"
	"github.com/coursewise/coursewise/internal/domain"
	"github.com/coursewise/coursewise/internal/service"
)

// JobResponse represents the response data for a summary job
type JobResponse struct {
	JobID        string    `json:"job_id"`
	CourseID     string    `json:"course_id,omitempty"`
	Status       string    `json:"status"`
	Result       string    `json:"result,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SummaryHandler handles summary job dispatch and status requests
type SummaryHandler struct {
	summaryService service.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(summaryService service.SummaryService) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
	}
}

// RequestSummary handles POST /api/courses/{id}/summary requests.
// Dispatches a generation job and returns 202 with the handle to poll.
func (h *SummaryHandler) RequestSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid course ID")
		return
	}

	handle, err := h.summaryService.RequestSummary(r.Context(), userID, courseID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, handle)
}

// AwaitSummary handles POST /api/courses/{id}/summary/wait requests.
// Dispatches a generation job and waits for it within the patience budget.
// A timeout is not an error to the client: the job is still running, so the
// handle comes back as 202 and can be polled.
func (h *SummaryHandler) AwaitSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid course ID")
		return
	}

	handle, job, err := h.summaryService.AwaitSummary(r.Context(), userID, courseID)
	switch {
	case err == nil:
		shared.RespondWithJSON(w, r, http.StatusOK, jobToResponse(job))

	case errors.Is(err, service.ErrAwaitTimedOut):
		shared.RespondWithJSON(w, r, http.StatusAccepted, handle)

	case errors.Is(err, service.ErrJobFailed):
		// The job row carries the diagnostic; surface it with the job state.
		shared.RespondWithJSON(w, r, http.StatusBadGateway, jobToResponse(job))

	default:
		RespondWithMappedError(w, r, err)
	}
}

// GetJobStatus handles GET /api/summary-jobs/{id} requests.
// A job dispatched moments ago may not have a row yet; that reads as 404
// and the client simply polls again.
func (h *SummaryHandler) GetJobStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := h.summaryService.GetJobStatus(r.Context(), jobID, userID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, jobToResponse(job))
}

// jobToResponse converts a domain.SummaryJob to a JobResponse
func jobToResponse(job *domain.SummaryJob) JobResponse {
	return JobResponse{
		JobID:        job.ID.String(),
		CourseID:     job.CourseID.String(),
		Status:       string(job.Status),
		Result:       job.Result,
		ErrorMessage: job.ErrorMessage,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
	}
}
