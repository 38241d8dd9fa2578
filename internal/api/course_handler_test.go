package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursewise/coursewise/internal/api/shared"
	"github.com/coursewise/coursewise/internal/domain"
	"github.com/coursewise/coursewise/internal/store"
)

// MockCourseService is a mock implementation of service.CourseService for testing
type MockCourseService struct {
	CreateCourseFn    func(ctx context.Context, userID uuid.UUID, title, description string) (*domain.Course, error)
	GetCourseFn       func(ctx context.Context, courseID, userID uuid.UUID) (*domain.Course, error)
	FinalizeSummaryFn func(ctx context.Context, courseID, userID uuid.UUID, summary string) (*domain.Course, error)
}

// CreateCourse implements service.CourseService
func (m *MockCourseService) CreateCourse(
	ctx context.Context,
	userID uuid.UUID,
	title, description string,
) (*domain.Course, error) {
	if m.CreateCourseFn != nil {
		return m.CreateCourseFn(ctx, userID, title, description)
	}
	return nil, nil
}

// GetCourse implements service.CourseService
func (m *MockCourseService) GetCourse(
	ctx context.Context,
	courseID, userID uuid.UUID,
) (*domain.Course, error) {
	if m.GetCourseFn != nil {
		return m.GetCourseFn(ctx, courseID, userID)
	}
	return nil, nil
}

// FinalizeSummary implements service.CourseService
func (m *MockCourseService) FinalizeSummary(
	ctx context.Context,
	courseID, userID uuid.UUID,
	summary string,
) (*domain.Course, error) {
	if m.FinalizeSummaryFn != nil {
		return m.FinalizeSummaryFn(ctx, courseID, userID, summary)
	}
	return nil, nil
}

// newJSONRequest builds an authenticated request with a JSON body and an
// optional chi "id" route parameter.
func newJSONRequest(t *testing.T, method, target string, userID uuid.UUID, paramID string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	if paramID != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", paramID)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}

	return req.WithContext(ctx)
}

func TestCourseHandler_CreateCourse(t *testing.T) {
	fixedUserID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	fixedCourseID := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	fixedTime := time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)

	t.Run("successful_creation_returns_201", func(t *testing.T) {
		svc := &MockCourseService{
			CreateCourseFn: func(ctx context.Context, userID uuid.UUID, title, description string) (*domain.Course, error) {
				assert.Equal(t, fixedUserID, userID)
				return &domain.Course{
					ID:          fixedCourseID,
					UserID:      userID,
					Title:       title,
					Description: description,
					Status:      domain.CourseStatusPending,
					CreatedAt:   fixedTime,
					UpdatedAt:   fixedTime,
				}, nil
			},
		}
		handler := NewCourseHandler(svc)

		req := newJSONRequest(t, http.MethodPost, "/api/courses", fixedUserID, "", CreateCourseRequest{
			Title:       "Distributed Systems",
			Description: "Consensus and replication.",
		})
		rr := httptest.NewRecorder()
		handler.CreateCourse(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)

		var resp CourseResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, fixedCourseID.String(), resp.ID)
		assert.Equal(t, "Distributed Systems", resp.Title)
		assert.Equal(t, string(domain.CourseStatusPending), resp.Status)
		assert.Empty(t, resp.Summary)
	})

	t.Run("missing_title_returns_400", func(t *testing.T) {
		handler := NewCourseHandler(&MockCourseService{})

		req := newJSONRequest(t, http.MethodPost, "/api/courses", fixedUserID, "", CreateCourseRequest{
			Description: "No title.",
		})
		rr := httptest.NewRecorder()
		handler.CreateCourse(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed_body_returns_400", func(t *testing.T) {
		handler := NewCourseHandler(&MockCourseService{})

		req := httptest.NewRequest(http.MethodPost, "/api/courses", bytes.NewBufferString("{not json"))
		req = req.WithContext(context.WithValue(req.Context(), shared.UserIDContextKey, fixedUserID))

		rr := httptest.NewRecorder()
		handler.CreateCourse(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing_user_returns_401", func(t *testing.T) {
		handler := NewCourseHandler(&MockCourseService{})

		req := httptest.NewRequest(http.MethodPost, "/api/courses", bytes.NewBufferString("{}"))
		rr := httptest.NewRecorder()
		handler.CreateCourse(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestCourseHandler_GetCourse(t *testing.T) {
	fixedUserID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	fixedCourseID := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	t.Run("known_course_returns_200", func(t *testing.T) {
		svc := &MockCourseService{
			GetCourseFn: func(ctx context.Context, courseID, userID uuid.UUID) (*domain.Course, error) {
				assert.Equal(t, fixedCourseID, courseID)
				assert.Equal(t, fixedUserID, userID)
				return &domain.Course{
					ID:          courseID,
					UserID:      userID,
					Title:       "Networking",
					Description: "TCP and UDP.",
					Summary:     "a summary",
					Status:      domain.CourseStatusCompleted,
				}, nil
			},
		}
		handler := NewCourseHandler(svc)

		req := newJSONRequest(t, http.MethodGet, "/api/courses/"+fixedCourseID.String(),
			fixedUserID, fixedCourseID.String(), nil)
		rr := httptest.NewRecorder()
		handler.GetCourse(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp CourseResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "a summary", resp.Summary)
		assert.Equal(t, string(domain.CourseStatusCompleted), resp.Status)
	})

	t.Run("unknown_course_returns_404", func(t *testing.T) {
		svc := &MockCourseService{
			GetCourseFn: func(ctx context.Context, courseID, userID uuid.UUID) (*domain.Course, error) {
				return nil, store.ErrCourseNotFound
			},
		}
		handler := NewCourseHandler(svc)

		req := newJSONRequest(t, http.MethodGet, "/api/courses/"+fixedCourseID.String(),
			fixedUserID, fixedCourseID.String(), nil)
		rr := httptest.NewRecorder()
		handler.GetCourse(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid_course_id_returns_400", func(t *testing.T) {
		handler := NewCourseHandler(&MockCourseService{})

		req := newJSONRequest(t, http.MethodGet, "/api/courses/not-a-uuid",
			fixedUserID, "not-a-uuid", nil)
		rr := httptest.NewRecorder()
		handler.GetCourse(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestCourseHandler_FinalizeSummary(t *testing.T) {
	fixedUserID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	fixedCourseID := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	t.Run("finalize_with_edited_summary_returns_200", func(t *testing.T) {
		svc := &MockCourseService{
			FinalizeSummaryFn: func(ctx context.Context, courseID, userID uuid.UUID, summary string) (*domain.Course, error) {
				assert.Equal(t, "human-edited summary", summary)
				return &domain.Course{
					ID:          courseID,
					UserID:      userID,
					Title:       "Databases",
					Description: "Storage engines.",
					Summary:     summary,
					Status:      domain.CourseStatusFinalized,
				}, nil
			},
		}
		handler := NewCourseHandler(svc)

		req := newJSONRequest(t, http.MethodPut, "/api/courses/"+fixedCourseID.String()+"/summary",
			fixedUserID, fixedCourseID.String(), FinalizeSummaryRequest{Summary: "human-edited summary"})
		rr := httptest.NewRecorder()
		handler.FinalizeSummary(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp CourseResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "human-edited summary", resp.Summary)
		assert.Equal(t, string(domain.CourseStatusFinalized), resp.Status)
	})

	t.Run("finalize_without_body_keeps_generated_summary", func(t *testing.T) {
		svc := &MockCourseService{
			FinalizeSummaryFn: func(ctx context.Context, courseID, userID uuid.UUID, summary string) (*domain.Course, error) {
				assert.Empty(t, summary)
				return &domain.Course{
					ID:          courseID,
					UserID:      userID,
					Title:       "Databases",
					Description: "Storage engines.",
					Summary:     "generated summary",
					Status:      domain.CourseStatusFinalized,
				}, nil
			},
		}
		handler := NewCourseHandler(svc)

		req := newJSONRequest(t, http.MethodPut, "/api/courses/"+fixedCourseID.String()+"/summary",
			fixedUserID, fixedCourseID.String(), nil)
		rr := httptest.NewRecorder()
		handler.FinalizeSummary(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp CourseResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "generated summary", resp.Summary)
	})

	t.Run("pending_course_returns_409", func(t *testing.T) {
		svc := &MockCourseService{
			FinalizeSummaryFn: func(ctx context.Context, courseID, userID uuid.UUID, summary string) (*domain.Course, error) {
				return nil, domain.ErrCourseStatusTransition
			},
		}
		handler := NewCourseHandler(svc)

		req := newJSONRequest(t, http.MethodPut, "/api/courses/"+fixedCourseID.String()+"/summary",
			fixedUserID, fixedCourseID.String(), nil)
		rr := httptest.NewRecorder()
		handler.FinalizeSummary(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("unknown_course_returns_404", func(t *testing.T) {
		svc := &MockCourseService{
			FinalizeSummaryFn: func(ctx context.Context, courseID, userID uuid.UUID, summary string) (*domain.Course, error) {
				return nil, store.ErrCourseNotFound
			},
		}
		handler := NewCourseHandler(svc)

		req := newJSONRequest(t, http.MethodPut, "/api/courses/"+fixedCourseID.String()+"/summary",
			fixedUserID, fixedCourseID.String(), nil)
		rr := httptest.NewRecorder()
		handler.FinalizeSummary(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
