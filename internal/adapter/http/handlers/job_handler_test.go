package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cartcure_ops/internal/adapter/http/handlers/mocks"
	"cartcure_ops/internal/domain/entities"
	"cartcure_ops/internal/domain/sla"
	"cartcure_ops/internal/domain/workflow"
	"cartcure_ops/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func TestJobHandler_GetJob(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIJobUseCase(ctrl)
		h := NewJobHandler(uc)
		r := gin.New()
		r.GET("/v1/jobs/:id", h.GetJob)

		uc.EXPECT().GetByID(gomock.Any(), "J-MAPLE-042").Return(usecase.JobView{}, usecase.ErrJobNotFound)

		req := httptest.NewRequest(http.MethodGet, "/v1/jobs/J-MAPLE-042", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("success includes sla fields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIJobUseCase(ctrl)
		h := NewJobHandler(uc)
		r := gin.New()
		r.GET("/v1/jobs/:id", h.GetJob)

		due := time.Now().UTC().AddDate(0, 0, 5)
		remaining := 5
		uc.EXPECT().GetByID(gomock.Any(), "J-MAPLE-042").Return(usecase.JobView{
			Job: entities.Job{
				ID: "J-MAPLE-042", SubmissionID: "CC-MAPLE-042",
				Status: entities.JobStatusInProgress, DueDate: &due,
			},
			SLAStatus:     sla.StatusOnTrack,
			DaysRemaining: &remaining,
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/jobs/J-MAPLE-042", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["sla_status"] != string(sla.StatusOnTrack) {
			t.Fatalf("unexpected response body: %s", w.Body.String())
		}
	})
}

func TestJobHandler_PrepareQuote(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIJobUseCase(ctrl)
		h := NewJobHandler(uc)
		r := gin.New()
		r.POST("/v1/jobs/:id/quote", h.PrepareQuote)

		req := httptest.NewRequest(http.MethodPost, "/v1/jobs/J-MAPLE-042/quote", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("non-positive amount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIJobUseCase(ctrl)
		h := NewJobHandler(uc)
		r := gin.New()
		r.POST("/v1/jobs/:id/quote", h.PrepareQuote)

		req := httptest.NewRequest(http.MethodPost, "/v1/jobs/J-MAPLE-042/quote", bytes.NewBufferString(`{"amount":-10}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("illegal transition maps to 409", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIJobUseCase(ctrl)
		h := NewJobHandler(uc)
		r := gin.New()
		r.POST("/v1/jobs/:id/quote", h.PrepareQuote)

		uc.EXPECT().PrepareQuote(gomock.Any(), "J-MAPLE-042", 300.0, 0).Return(entities.Job{},
			&workflow.InvalidTransitionError{Entity: "job", From: "completed", To: "quoted"})

		req := httptest.NewRequest(http.MethodPost, "/v1/jobs/J-MAPLE-042/quote", bytes.NewBufferString(`{"amount":300}`))
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
		uc := mocks.NewMockIJobUseCase(ctrl)
		h := NewJobHandler(uc)
		r := gin.New()
		r.POST("/v1/jobs/:id/quote", h.PrepareQuote)

		uc.EXPECT().PrepareQuote(gomock.Any(), "J-MAPLE-042", 300.0, 10).Return(entities.Job{
			ID: "J-MAPLE-042", Status: entities.JobStatusQuoted, Amount: 300, Tax: 45, Total: 345,
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/jobs/J-MAPLE-042/quote",
			bytes.NewBufferString(`{"amount":300,"turnaround_days":10}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["total"] != 345.0 {
			t.Fatalf("unexpected response body: %s", w.Body.String())
		}
	})
}

func TestJobHandler_StatusActions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		wire   func(uc *mocks.MockIJobUseCase) *gomock.Call
		attach func(r *gin.Engine, h *JobHandler)
	}{
		{
			name:   "accept",
			wire:   func(uc *mocks.MockIJobUseCase) *gomock.Call { return uc.EXPECT().AcceptQuote(gomock.Any(), "J-MAPLE-042") },
			attach: func(r *gin.Engine, h *JobHandler) { r.PATCH("/v1/jobs/:id/action", h.AcceptQuote) },
		},
		{
			name:   "start",
			wire:   func(uc *mocks.MockIJobUseCase) *gomock.Call { return uc.EXPECT().Start(gomock.Any(), "J-MAPLE-042") },
			attach: func(r *gin.Engine, h *JobHandler) { r.PATCH("/v1/jobs/:id/action", h.StartJob) },
		},
		{
			name:   "resume",
			wire:   func(uc *mocks.MockIJobUseCase) *gomock.Call { return uc.EXPECT().Resume(gomock.Any(), "J-MAPLE-042") },
			attach: func(r *gin.Engine, h *JobHandler) { r.PATCH("/v1/jobs/:id/action", h.ResumeJob) },
		},
		{
			name:   "complete",
			wire:   func(uc *mocks.MockIJobUseCase) *gomock.Call { return uc.EXPECT().Complete(gomock.Any(), "J-MAPLE-042") },
			attach: func(r *gin.Engine, h *JobHandler) { r.PATCH("/v1/jobs/:id/action", h.CompleteJob) },
		},
	}

	for _, tc := range cases {
		t.Run(tc.name+" success", func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			uc := mocks.NewMockIJobUseCase(ctrl)
			h := NewJobHandler(uc)
			r := gin.New()
			tc.attach(r, h)

			tc.wire(uc).Return(entities.Job{ID: "J-MAPLE-042", Status: entities.JobStatusInProgress}, nil)

			req := httptest.NewRequest(http.MethodPatch, "/v1/jobs/J-MAPLE-042/action", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
		})

		t.Run(tc.name+" illegal transition", func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			uc := mocks.NewMockIJobUseCase(ctrl)
			h := NewJobHandler(uc)
			r := gin.New()
			tc.attach(r, h)

			tc.wire(uc).Return(entities.Job{}, &workflow.InvalidTransitionError{Entity: "job", From: "cancelled", To: "in_progress"})

			req := httptest.NewRequest(http.MethodPatch, "/v1/jobs/J-MAPLE-042/action", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusConflict {
				t.Fatalf("expected 409, got %d", w.Code)
			}
		})
	}
}

func TestJobHandler_ReasonActions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("decline passes the reason through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIJobUseCase(ctrl)
		h := NewJobHandler(uc)
		r := gin.New()
		r.PATCH("/v1/jobs/:id/decline", h.DeclineQuote)

		uc.EXPECT().DeclineQuote(gomock.Any(), "J-MAPLE-042", "too expensive").Return(
			entities.Job{ID: "J-MAPLE-042", Status: entities.JobStatusDeclined}, nil)

		req := httptest.NewRequest(http.MethodPatch, "/v1/jobs/J-MAPLE-042/decline",
			bytes.NewBufferString(`{"reason":"too expensive"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("cancel works without a body", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIJobUseCase(ctrl)
		h := NewJobHandler(uc)
		r := gin.New()
		r.PATCH("/v1/jobs/:id/cancel", h.CancelJob)

		uc.EXPECT().Cancel(gomock.Any(), "J-MAPLE-042", "").Return(
			entities.Job{ID: "J-MAPLE-042", Status: entities.JobStatusCancelled}, nil)

		req := httptest.NewRequest(http.MethodPatch, "/v1/jobs/J-MAPLE-042/cancel", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("hold not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIJobUseCase(ctrl)
		h := NewJobHandler(uc)
		r := gin.New()
		r.PATCH("/v1/jobs/:id/hold", h.HoldJob)

		uc.EXPECT().Hold(gomock.Any(), "J-MAPLE-042", "").Return(entities.Job{}, usecase.ErrJobNotFound)

		req := httptest.NewRequest(http.MethodPatch, "/v1/jobs/J-MAPLE-042/hold", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}

func TestMapJobError(t *testing.T) {
	if got := mapJobError(usecase.ErrInvalidJobID); got.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected 400")
	}
	if got := mapJobError(usecase.ErrInvalidQuoteVal); got.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected 400")
	}
	if got := mapJobError(usecase.ErrJobNotFound); got.HTTPStatus != http.StatusNotFound {
		t.Fatalf("expected 404")
	}
	if got := mapJobError(&workflow.InvalidTransitionError{Entity: "job", From: "quoted", To: "completed"}); got.HTTPStatus != http.StatusConflict {
		t.Fatalf("expected 409")
	}
	if got := mapJobError(workflow.ErrInvalidStateTransition); got.HTTPStatus != http.StatusConflict {
		t.Fatalf("expected 409")
	}
	if got := mapJobError(errors.New("x")); got.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected 500")
	}
}
