package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/coursewise/coursewise/internal/api/middleware"
	"github.com/coursewise/coursewise/internal/api/shared"
	"github.com/coursewise/coursewise/internal/domain"
	"github.com/coursewise/coursewise/internal/service"
)

// CreateCourseRequest represents the request body for creating a course
type CreateCourseRequest struct {
	Title       string `json:"title"       validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"required,min=1"`
}

// FinalizeSummaryRequest represents the request body for finalizing a
// course summary. An empty summary keeps the generated one.
type FinalizeSummaryRequest struct {
	Summary string `json:"summary"`
}

// CourseResponse represents the response data for a course
type CourseResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Summary     string    `json:"summary,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CourseHandler handles course-related HTTP requests
type CourseHandler struct {
	courseService service.CourseService
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(courseService service.CourseService) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
	}
}

// CreateCourse handles POST /api/courses requests
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateCourseRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	course, err := h.courseService.CreateCourse(r.Context(), userID, req.Title, req.Description)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, courseToResponse(course))
}

// GetCourse handles GET /api/courses/{id} requests
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
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

	course, err := h.courseService.GetCourse(r.Context(), courseID, userID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, courseToResponse(course))
}

// FinalizeSummary handles PUT /api/courses/{id}/summary requests.
// Only a completed course can be finalized; the optional body replaces the
// generated summary with a human-edited version.
func (h *CourseHandler) FinalizeSummary(w http.ResponseWriter, r *http.Request) {
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

	var req FinalizeSummaryRequest
	if r.ContentLength > 0 {
		if err := shared.DecodeJSON(r, &req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
			return
		}
	}

	course, err := h.courseService.FinalizeSummary(r.Context(), courseID, userID, req.Summary)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, courseToResponse(course))
}

// courseToResponse converts a domain.Course to a CourseResponse
func courseToResponse(course *domain.Course) CourseResponse {
	return CourseResponse{
		ID:          course.ID.String(),
		UserID:      course.UserID.String(),
		Title:       course.Title,
		Description: course.Description,
		Summary:     course.Summary,
		Status:      string(course.Status),
		CreatedAt:   course.CreatedAt,
		UpdatedAt:   course.UpdatedAt,
	}
}
