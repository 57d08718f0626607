package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cartcure_ops/internal/config"
	"cartcure_ops/internal/domain/entities"
	"cartcure_ops/internal/domain/pricing"
	"cartcure_ops/internal/domain/ratelimit"
	"cartcure_ops/internal/domain/validation"
	"cartcure_ops/internal/domain/workflow"
	"cartcure_ops/internal/usecase/interfaces"
	mock_interfaces "cartcure_ops/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func testSettings() config.Settings {
	return config.Settings{
		SubmissionPrefix: "CC",
		JobPrefix:        "J",
		InvoicePrefix:    "INV",
		Pricing: pricing.Config{
			TaxRate:           0.15,
			TaxRegistered:     true,
			DepositThreshold:  200,
			SmallMax:          200,
			MediumMax:         500,
			LateFeeRatePerDay: 0.01,
		},
		DefaultTurnaroundDays: 7,
		AtRiskThresholdDays:   2,
		InvoiceDueDays:        7,
		RateLimitCeiling:      5,
		RateLimitWindow:       time.Hour,
		MaxMessageLength:      5000,
		MaxNameLength:         100,
		MaxAudioBytes:         10 * 1024 * 1024,
	}
}

// stubRateStore serves a fixed window; it never accepts writes.
type stubRateStore struct {
	window ratelimit.Window
}

func (s *stubRateStore) Get(context.Context, string) (ratelimit.Window, error) {
	return s.window, nil
}

func (s *stubRateStore) Put(context.Context, string, ratelimit.Window, int64) error {
	return nil
}

func intakeInput() IntakeInput {
	return IntakeInput{
		Name:    "Sam Taylor",
		Email:   "sam@example.com",
		Message: "My checkout page is broken after the theme update.",
	}
}

func TestSubmissionUseCase_Intake(t *testing.T) {
	t.Run("invalid email", func(t *testing.T) {
		uc := NewSubmissionUseCase(nil, nil, nil, nil, testSettings())
		in := intakeInput()
		in.Email = "not-an-email"

		_, err := uc.Intake(context.Background(), in)
		var fieldErr *validation.FieldError
		if !errors.As(err, &fieldErr) || fieldErr.Field != "email" {
			t.Fatalf("expected email field error, got %v", err)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		uc := NewSubmissionUseCase(nil, nil, nil, nil, testSettings())
		in := intakeInput()
		in.Name = "   "

		_, err := uc.Intake(context.Background(), in)
		var fieldErr *validation.FieldError
		if !errors.As(err, &fieldErr) || fieldErr.Field != "name" {
			t.Fatalf("expected name field error, got %v", err)
		}
	})

	t.Run("rate limited before any write", func(t *testing.T) {
		now := time.Now().UTC()
		store := &stubRateStore{window: ratelimit.Window{
			Timestamps: []time.Time{now, now, now, now, now},
			Version:    5,
		}}
		limiter := ratelimit.NewLimiter(store, 5, time.Hour)
		uc := NewSubmissionUseCase(nil, nil, limiter, nil, testSettings())

		_, err := uc.Intake(context.Background(), intakeInput())
		if !errors.Is(err, ratelimit.ErrRateLimitExceeded) {
			t.Fatalf("expected ErrRateLimitExceeded, got %v", err)
		}
		var limitErr *ratelimit.LimitError
		if !errors.As(err, &limitErr) || limitErr.RetryAfter <= 0 {
			t.Fatalf("expected a retry-after hint, got %v", err)
		}
	})

	t.Run("duplicate submission number", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISubmissionRepository(ctrl)
		uc := NewSubmissionUseCase(repo, nil, nil, nil, testSettings())

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Submission{}, interfaces.ErrAlreadyExists)

		in := intakeInput()
		in.SubmissionNumber = "CC-MAPLE-042"
		_, err := uc.Intake(context.Background(), in)
		if !errors.Is(err, ErrSubmissionAlreadyExists) {
			t.Fatalf("expected ErrSubmissionAlreadyExists, got %v", err)
		}
	})

	t.Run("success sanitizes and stores", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISubmissionRepository(ctrl)
		gateway := mock_interfaces.NewMockINotificationGateway(ctrl)
		uc := NewSubmissionUseCase(repo, nil, nil, gateway, testSettings())

		repo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Submission{})).DoAndReturn(
			func(_ context.Context, s entities.Submission) (entities.Submission, error) {
				if s.Email != "sam@example.com" {
					t.Fatalf("expected normalized email, got %q", s.Email)
				}
				if strings.Contains(s.Name, "<") {
					t.Fatalf("expected sanitized name, got %q", s.Name)
				}
				if s.Status != entities.SubmissionStatusNew {
					t.Fatalf("expected new status, got %s", s.Status)
				}
				if !strings.HasPrefix(s.ID, "CC-") {
					t.Fatalf("expected generated submission number, got %q", s.ID)
				}
				if s.CreatedAt.IsZero() || s.UpdatedAt.IsZero() {
					t.Fatalf("expected timestamps")
				}
				return s, nil
			},
		)
		gateway.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)

		in := intakeInput()
		in.Email = "  Sam@Example.COM "
		in.Name = "Sam <b>Taylor</b>"
		res, err := uc.Intake(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.ID == "" {
			t.Fatalf("expected generated id")
		}
	})

	t.Run("caller supplied number is validated", func(t *testing.T) {
		uc := NewSubmissionUseCase(nil, nil, nil, nil, testSettings())
		in := intakeInput()
		in.SubmissionNumber = "XX-MAPLE-042"

		_, err := uc.Intake(context.Background(), in)
		var fieldErr *validation.FieldError
		if !errors.As(err, &fieldErr) {
			t.Fatalf("expected field error, got %v", err)
		}
	})
}

func TestSubmissionUseCase_ReviewFlows(t *testing.T) {
	cases := []struct {
		name   string
		call   func(uc *SubmissionUseCase, ctx context.Context, id string) (entities.Submission, error)
		status entities.SubmissionStatus
	}{
		{name: "review", call: (*SubmissionUseCase).Review, status: entities.SubmissionStatusInReview},
		{name: "decline", call: (*SubmissionUseCase).Decline, status: entities.SubmissionStatusDeclined},
		{name: "spam", call: (*SubmissionUseCase).MarkSpam, status: entities.SubmissionStatusSpam},
	}

	for _, tc := range cases {
		t.Run(tc.name+" invalid id", func(t *testing.T) {
			uc := NewSubmissionUseCase(nil, nil, nil, nil, testSettings())
			_, err := tc.call(uc, context.Background(), "  ")
			if !errors.Is(err, ErrInvalidSubmissionID) {
				t.Fatalf("expected ErrInvalidSubmissionID, got %v", err)
			}
		})

		t.Run(tc.name+" not found", func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			repo := mock_interfaces.NewMockISubmissionRepository(ctrl)
			uc := NewSubmissionUseCase(repo, nil, nil, nil, testSettings())
			repo.EXPECT().GetByID(gomock.Any(), "CC-MAPLE-042").Return(entities.Submission{}, nil)

			_, err := tc.call(uc, context.Background(), "CC-MAPLE-042")
			if !errors.Is(err, ErrSubmissionNotFound) {
				t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
			}
		})

		t.Run(tc.name+" illegal from terminal", func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			repo := mock_interfaces.NewMockISubmissionRepository(ctrl)
			uc := NewSubmissionUseCase(repo, nil, nil, nil, testSettings())
			repo.EXPECT().GetByID(gomock.Any(), "CC-MAPLE-042").Return(
				entities.Submission{ID: "CC-MAPLE-042", Status: entities.SubmissionStatusJobCreated}, nil)

			_, err := tc.call(uc, context.Background(), "CC-MAPLE-042")
			if !errors.Is(err, workflow.ErrInvalidStateTransition) {
				t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
			}
		})

		t.Run(tc.name+" success", func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			repo := mock_interfaces.NewMockISubmissionRepository(ctrl)
			uc := NewSubmissionUseCase(repo, nil, nil, nil, testSettings())
			repo.EXPECT().GetByID(gomock.Any(), "CC-MAPLE-042").Return(
				entities.Submission{ID: "CC-MAPLE-042", Status: entities.SubmissionStatusNew}, nil)
			repo.EXPECT().UpdateStatus(gomock.Any(), "CC-MAPLE-042", tc.status).Return(
				entities.Submission{ID: "CC-MAPLE-042", Status: tc.status}, nil)

			res, err := tc.call(uc, context.Background(), " CC-MAPLE-042 ")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Status != tc.status {
				t.Fatalf("expected %s got %s", tc.status, res.Status)
			}
		})
	}
}

func TestSubmissionUseCase_CreateJob(t *testing.T) {
	t.Run("submission not reviewable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISubmissionRepository(ctrl)
		jobRepo := mock_interfaces.NewMockIJobRepository(ctrl)
		uc := NewSubmissionUseCase(repo, jobRepo, nil, nil, testSettings())

		repo.EXPECT().GetByID(gomock.Any(), "CC-MAPLE-042").Return(
			entities.Submission{ID: "CC-MAPLE-042", Status: entities.SubmissionStatusSpam}, nil)
		jobRepo.EXPECT().ListBySubmissionID(gomock.Any(), "CC-MAPLE-042").Return(nil, nil)

		_, err := uc.CreateJob(context.Background(), "CC-MAPLE-042", "bug_fix", "Fix the checkout")
		if !errors.Is(err, ErrSubmissionNotReviewable) {
			t.Fatalf("expected ErrSubmissionNotReviewable, got %v", err)
		}
	})

	t.Run("first job derives the number and promotes the submission", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISubmissionRepository(ctrl)
		jobRepo := mock_interfaces.NewMockIJobRepository(ctrl)
		uc := NewSubmissionUseCase(repo, jobRepo, nil, nil, testSettings())

		repo.EXPECT().GetByID(gomock.Any(), "CC-MAPLE-042").Return(
			entities.Submission{ID: "CC-MAPLE-042", Status: entities.SubmissionStatusInReview}, nil)
		jobRepo.EXPECT().ListBySubmissionID(gomock.Any(), "CC-MAPLE-042").Return(nil, nil)
		jobRepo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Job{})).DoAndReturn(
			func(_ context.Context, j entities.Job) (entities.Job, error) {
				if j.ID != "J-MAPLE-042" {
					t.Fatalf("expected derived job number, got %q", j.ID)
				}
				if j.Status != entities.JobStatusPendingQuote || j.PaymentStatus != entities.PaymentStatusUnpaid {
					t.Fatalf("unexpected job: %+v", j)
				}
				if j.TurnaroundDays != 7 {
					t.Fatalf("expected default turnaround, got %d", j.TurnaroundDays)
				}
				return j, nil
			},
		)
		repo.EXPECT().UpdateStatus(gomock.Any(), "CC-MAPLE-042", entities.SubmissionStatusJobCreated).Return(
			entities.Submission{ID: "CC-MAPLE-042", Status: entities.SubmissionStatusJobCreated}, nil)

		res, err := uc.CreateJob(context.Background(), "CC-MAPLE-042", "bug_fix", "Fix the checkout")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.SubmissionID != "CC-MAPLE-042" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("repeat job gets a suffix and skips the promotion", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISubmissionRepository(ctrl)
		jobRepo := mock_interfaces.NewMockIJobRepository(ctrl)
		uc := NewSubmissionUseCase(repo, jobRepo, nil, nil, testSettings())

		repo.EXPECT().GetByID(gomock.Any(), "CC-MAPLE-042").Return(
			entities.Submission{ID: "CC-MAPLE-042", Status: entities.SubmissionStatusJobCreated}, nil)
		jobRepo.EXPECT().ListBySubmissionID(gomock.Any(), "CC-MAPLE-042").Return(
			[]entities.Job{{ID: "J-MAPLE-042"}}, nil)
		jobRepo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Job{})).DoAndReturn(
			func(_ context.Context, j entities.Job) (entities.Job, error) {
				if j.ID != "J-MAPLE-042-2" {
					t.Fatalf("expected suffixed job number, got %q", j.ID)
				}
				return j, nil
			},
		)

		if _, err := uc.CreateJob(context.Background(), "CC-MAPLE-042", "", ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestSubmissionUseCase_GetByID(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		uc := NewSubmissionUseCase(nil, nil, nil, nil, testSettings())
		_, err := uc.GetByID(context.Background(), "")
		if !errors.Is(err, ErrInvalidSubmissionID) {
			t.Fatalf("expected ErrInvalidSubmissionID, got %v", err)
		}
	})

	t.Run("repo error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISubmissionRepository(ctrl)
		uc := NewSubmissionUseCase(repo, nil, nil, nil, testSettings())
		repo.EXPECT().GetByID(gomock.Any(), "CC-MAPLE-042").Return(entities.Submission{}, errors.New("db"))

		_, err := uc.GetByID(context.Background(), "CC-MAPLE-042")
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISubmissionRepository(ctrl)
		uc := NewSubmissionUseCase(repo, nil, nil, nil, testSettings())
		repo.EXPECT().GetByID(gomock.Any(), "CC-MAPLE-042").Return(entities.Submission{ID: "CC-MAPLE-042"}, nil)

		res, err := uc.GetByID(context.Background(), " CC-MAPLE-042 ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.ID != "CC-MAPLE-042" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})
}
