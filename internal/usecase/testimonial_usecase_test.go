package usecase

import (
	"context"
	"errors"
	"testing"

	"cartcure_ops/internal/domain/entities"
	"cartcure_ops/internal/domain/validation"
	"cartcure_ops/internal/usecase/interfaces"
	mock_interfaces "cartcure_ops/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func testimonialInput() TestimonialInput {
	return TestimonialInput{
		JobID:  "J-MAPLE-042",
		Name:   "Sam Taylor",
		Rating: 5,
		Body:   "Fixed our checkout in a day, great communication throughout.",
	}
}

func TestTestimonialUseCase_Submit(t *testing.T) {
	t.Run("invalid job id", func(t *testing.T) {
		uc := NewTestimonialUseCase(nil, nil, testSettings())
		in := testimonialInput()
		in.JobID = "  "

		_, err := uc.Submit(context.Background(), in)
		if !errors.Is(err, ErrInvalidJobID) {
			t.Fatalf("expected ErrInvalidJobID, got %v", err)
		}
	})

	t.Run("job not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		jobRepo := mock_interfaces.NewMockIJobRepository(ctrl)
		uc := NewTestimonialUseCase(nil, jobRepo, testSettings())
		jobRepo.EXPECT().GetByID(gomock.Any(), "J-MAPLE-042").Return(entities.Job{}, nil)

		_, err := uc.Submit(context.Background(), testimonialInput())
		if !errors.Is(err, ErrJobNotFound) {
			t.Fatalf("expected ErrJobNotFound, got %v", err)
		}
	})

	t.Run("missing body", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		jobRepo := mock_interfaces.NewMockIJobRepository(ctrl)
		uc := NewTestimonialUseCase(nil, jobRepo, testSettings())
		jobRepo.EXPECT().GetByID(gomock.Any(), "J-MAPLE-042").Return(entities.Job{ID: "J-MAPLE-042"}, nil)

		in := testimonialInput()
		in.Body = "   "
		_, err := uc.Submit(context.Background(), in)
		var fieldErr *validation.FieldError
		if !errors.As(err, &fieldErr) || fieldErr.Field != "testimonial" {
			t.Fatalf("expected testimonial field error, got %v", err)
		}
	})

	t.Run("second testimonial for the job", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockITestimonialRepository(ctrl)
		jobRepo := mock_interfaces.NewMockIJobRepository(ctrl)
		uc := NewTestimonialUseCase(repo, jobRepo, testSettings())

		jobRepo.EXPECT().GetByID(gomock.Any(), "J-MAPLE-042").Return(entities.Job{ID: "J-MAPLE-042"}, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Testimonial{}, interfaces.ErrAlreadyExists)

		_, err := uc.Submit(context.Background(), testimonialInput())
		if !errors.Is(err, ErrTestimonialExists) {
			t.Fatalf("expected ErrTestimonialExists, got %v", err)
		}
	})

	t.Run("success clamps the rating and starts unapproved", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockITestimonialRepository(ctrl)
		jobRepo := mock_interfaces.NewMockIJobRepository(ctrl)
		uc := NewTestimonialUseCase(repo, jobRepo, testSettings())

		jobRepo.EXPECT().GetByID(gomock.Any(), "J-MAPLE-042").Return(entities.Job{ID: "J-MAPLE-042"}, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Testimonial{})).DoAndReturn(
			func(_ context.Context, tm entities.Testimonial) (entities.Testimonial, error) {
				if tm.ID == "" {
					t.Fatalf("expected generated id")
				}
				if tm.Rating != 5 {
					t.Fatalf("expected rating clamped to 5, got %d", tm.Rating)
				}
				if tm.Approved {
					t.Fatalf("expected unapproved on submit")
				}
				if tm.CreatedAt.IsZero() || tm.UpdatedAt.IsZero() {
					t.Fatalf("expected timestamps")
				}
				return tm, nil
			},
		)

		in := testimonialInput()
		in.Rating = 12
		res, err := uc.Submit(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.JobID != "J-MAPLE-042" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})
}

func TestTestimonialUseCase_Approve(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		uc := NewTestimonialUseCase(nil, nil, testSettings())
		_, err := uc.Approve(context.Background(), "  ")
		if !errors.Is(err, ErrInvalidTestimonial) {
			t.Fatalf("expected ErrInvalidTestimonial, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockITestimonialRepository(ctrl)
		uc := NewTestimonialUseCase(repo, nil, testSettings())
		repo.EXPECT().SetApproved(gomock.Any(), "t-1", true).Return(entities.Testimonial{}, nil)

		_, err := uc.Approve(context.Background(), "t-1")
		if !errors.Is(err, ErrTestimonialNotFound) {
			t.Fatalf("expected ErrTestimonialNotFound, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockITestimonialRepository(ctrl)
		uc := NewTestimonialUseCase(repo, nil, testSettings())
		repo.EXPECT().SetApproved(gomock.Any(), "t-1", true).Return(
			entities.Testimonial{ID: "t-1", Approved: true}, nil)

		res, err := uc.Approve(context.Background(), " t-1 ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Approved {
			t.Fatalf("expected approved")
		}
	})
}

func TestTestimonialUseCase_ListApproved(t *testing.T) {
	cases := []struct {
		name       string
		minRating  int
		limit      int
		wantRating int
		wantLimit  int
	}{
		{name: "defaults", minRating: 0, limit: 0, wantRating: 1, wantLimit: 10},
		{name: "passthrough", minRating: 4, limit: 5, wantRating: 4, wantLimit: 5},
		{name: "clamped", minRating: 9, limit: 500, wantRating: 5, wantLimit: 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			repo := mock_interfaces.NewMockITestimonialRepository(ctrl)
			uc := NewTestimonialUseCase(repo, nil, testSettings())
			repo.EXPECT().ListApproved(gomock.Any(), tc.wantRating, tc.wantLimit).Return(nil, nil)

			if _, err := uc.ListApproved(context.Background(), tc.minRating, tc.limit); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
