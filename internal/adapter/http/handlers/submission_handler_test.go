package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cartcure_ops/internal/adapter/http/handlers/mocks"
	"cartcure_ops/internal/domain/entities"
	"cartcure_ops/internal/domain/ratelimit"
	"cartcure_ops/internal/domain/validation"
	"cartcure_ops/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func TestSubmissionHandler_Intake(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockISubmissionUseCase(ctrl)
		h := NewSubmissionHandler(uc)

		r := gin.New()
		r.POST("/v1/submissions", h.Intake)

		req := httptest.NewRequest(http.MethodPost, "/v1/submissions", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("missing required fields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockISubmissionUseCase(ctrl)
		h := NewSubmissionHandler(uc)

		r := gin.New()
		r.POST("/v1/submissions", h.Intake)

		req := httptest.NewRequest(http.MethodPost, "/v1/submissions", bytes.NewBufferString(`{"message":"help"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("validation failure maps to 400", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockISubmissionUseCase(ctrl)
		h := NewSubmissionHandler(uc)

		r := gin.New()
		r.POST("/v1/submissions", h.Intake)

		uc.EXPECT().Intake(gomock.Any(), gomock.Any()).Return(entities.Submission{},
			&validation.FieldError{Field: "email", Message: "invalid email address"})

		req := httptest.NewRequest(http.MethodPost, "/v1/submissions", bytes.NewBufferString(`{"name":"Sam","email":"bad"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("rate limited sets retry-after", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockISubmissionUseCase(ctrl)
		h := NewSubmissionHandler(uc)

		r := gin.New()
		r.POST("/v1/submissions", h.Intake)

		uc.EXPECT().Intake(gomock.Any(), gomock.Any()).Return(entities.Submission{},
			&ratelimit.LimitError{Identity: "sam@example.com", RetryAfter: 2 * time.Minute})

		req := httptest.NewRequest(http.MethodPost, "/v1/submissions", bytes.NewBufferString(`{"name":"Sam","email":"sam@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", w.Code)
		}
		if w.Header().Get("Retry-After") != "120" {
			t.Fatalf("expected Retry-After 120, got %q", w.Header().Get("Retry-After"))
		}
	})

	t.Run("duplicate maps to 409", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockISubmissionUseCase(ctrl)
		h := NewSubmissionHandler(uc)

		r := gin.New()
		r.POST("/v1/submissions", h.Intake)

		uc.EXPECT().Intake(gomock.Any(), gomock.Any()).Return(entities.Submission{}, usecase.ErrSubmissionAlreadyExists)

		req := httptest.NewRequest(http.MethodPost, "/v1/submissions", bytes.NewBufferString(`{"name":"Sam","email":"sam@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockISubmissionUseCase(ctrl)
		h := NewSubmissionHandler(uc)

		r := gin.New()
		r.POST("/v1/submissions", h.Intake)

		now := time.Now().UTC()
		uc.EXPECT().Intake(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, in usecase.IntakeInput) (entities.Submission, error) {
				if in.Name != "Sam" || in.Email != "sam@example.com" {
					t.Fatalf("unexpected input: %+v", in)
				}
				return entities.Submission{
					ID: "CC-MAPLE-042", Name: in.Name, Email: in.Email,
					Status: entities.SubmissionStatusNew, CreatedAt: now, UpdatedAt: now,
				}, nil
			},
		)

		req := httptest.NewRequest(http.MethodPost, "/v1/submissions", bytes.NewBufferString(`{"name":"Sam","email":"sam@example.com","message":"checkout is broken"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["id"] != "CC-MAPLE-042" {
			t.Fatalf("unexpected response body: %s", w.Body.String())
		}
	})
}

func TestSubmissionHandler_ReviewActions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		wire   func(uc *mocks.MockISubmissionUseCase) *gomock.Call
		attach func(r *gin.Engine, h *SubmissionHandler)
	}{
		{
			name:   "review",
			wire:   func(uc *mocks.MockISubmissionUseCase) *gomock.Call { return uc.EXPECT().Review(gomock.Any(), "CC-MAPLE-042") },
			attach: func(r *gin.Engine, h *SubmissionHandler) { r.PATCH("/v1/submissions/:id/review", h.ReviewSubmission) },
		},
		{
			name:   "decline",
			wire:   func(uc *mocks.MockISubmissionUseCase) *gomock.Call { return uc.EXPECT().Decline(gomock.Any(), "CC-MAPLE-042") },
			attach: func(r *gin.Engine, h *SubmissionHandler) { r.PATCH("/v1/submissions/:id/review", h.DeclineSubmission) },
		},
		{
			name:   "spam",
			wire:   func(uc *mocks.MockISubmissionUseCase) *gomock.Call { return uc.EXPECT().MarkSpam(gomock.Any(), "CC-MAPLE-042") },
			attach: func(r *gin.Engine, h *SubmissionHandler) { r.PATCH("/v1/submissions/:id/review", h.MarkSubmissionSpam) },
		},
	}

	for _, tc := range cases {
		t.Run(tc.name+" success", func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			uc := mocks.NewMockISubmissionUseCase(ctrl)
			h := NewSubmissionHandler(uc)
			r := gin.New()
			tc.attach(r, h)

			tc.wire(uc).Return(entities.Submission{ID: "CC-MAPLE-042", Status: entities.SubmissionStatusInReview}, nil)

			req := httptest.NewRequest(http.MethodPatch, "/v1/submissions/CC-MAPLE-042/review", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
		})

		t.Run(tc.name+" not found", func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			uc := mocks.NewMockISubmissionUseCase(ctrl)
			h := NewSubmissionHandler(uc)
			r := gin.New()
			tc.attach(r, h)

			tc.wire(uc).Return(entities.Submission{}, usecase.ErrSubmissionNotFound)

			req := httptest.NewRequest(http.MethodPatch, "/v1/submissions/CC-MAPLE-042/review", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusNotFound {
				t.Fatalf("expected 404, got %d", w.Code)
			}
		})
	}
}

func TestSubmissionHandler_CreateJob(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not reviewable maps to 409", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockISubmissionUseCase(ctrl)
		h := NewSubmissionHandler(uc)
		r := gin.New()
		r.POST("/v1/submissions/:id/jobs", h.CreateJob)

		uc.EXPECT().CreateJob(gomock.Any(), "CC-MAPLE-042", "bug_fix", "Fix the checkout").Return(
			entities.Job{}, usecase.ErrSubmissionNotReviewable)

		req := httptest.NewRequest(http.MethodPost, "/v1/submissions/CC-MAPLE-042/jobs",
			bytes.NewBufferString(`{"category":"bug_fix","description":"Fix the checkout"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockISubmissionUseCase(ctrl)
		h := NewSubmissionHandler(uc)
		r := gin.New()
		r.POST("/v1/submissions/:id/jobs", h.CreateJob)

		uc.EXPECT().CreateJob(gomock.Any(), "CC-MAPLE-042", "bug_fix", "Fix the checkout").Return(
			entities.Job{ID: "J-MAPLE-042", SubmissionID: "CC-MAPLE-042", Status: entities.JobStatusPendingQuote}, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/submissions/CC-MAPLE-042/jobs",
			bytes.NewBufferString(`{"category":"bug_fix","description":"Fix the checkout"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["id"] != "J-MAPLE-042" {
			t.Fatalf("unexpected response body: %s", w.Body.String())
		}
	})
}

func TestMapSubmissionError(t *testing.T) {
	if got := mapSubmissionError(&validation.FieldError{Field: "email", Message: "bad"}); got.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected 400")
	}
	if got := mapSubmissionError(ratelimit.ErrRateLimitExceeded); got.HTTPStatus != http.StatusTooManyRequests {
		t.Fatalf("expected 429")
	}
	if got := mapSubmissionError(usecase.ErrInvalidSubmissionID); got.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected 400")
	}
	if got := mapSubmissionError(usecase.ErrSubmissionAlreadyExists); got.HTTPStatus != http.StatusConflict {
		t.Fatalf("expected 409")
	}
	if got := mapSubmissionError(usecase.ErrSubmissionNotFound); got.HTTPStatus != http.StatusNotFound {
		t.Fatalf("expected 404")
	}
	if got := mapSubmissionError(usecase.ErrSubmissionNotReviewable); got.HTTPStatus != http.StatusConflict {
		t.Fatalf("expected 409")
	}
	if got := mapSubmissionError(errors.New("x")); got.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected 500")
	}
}
