package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"cartcure_ops/internal/config"
	"cartcure_ops/internal/domain/entities"
	"cartcure_ops/internal/domain/ratelimit"
	"cartcure_ops/internal/domain/validation"
	"cartcure_ops/internal/domain/workflow"
	"cartcure_ops/internal/infrastructure/observability"
	"cartcure_ops/internal/usecase/interfaces"
)

var (
	ErrSubmissionNotFound      = errors.New("submission not found")
	ErrInvalidSubmissionID     = errors.New("invalid submission id")
	ErrSubmissionAlreadyExists = errors.New("submission already exists")
	ErrSubmissionNotReviewable = errors.New("submission is not in a reviewable state")
)

// IntakeInput is the raw contact form as parsed from the request body.
// Nothing here is trusted; every field goes through the validator.
type IntakeInput struct {
	SubmissionNumber string
	Name             string
	Email            string
	Phone            string
	StoreURL         string
	Message          string
	VoiceNote        string // data:audio/...;base64 envelope, optional
}

// ISubmissionUseCase exposes submission intake and review operations.

type ISubmissionUseCase interface {
	Intake(ctx context.Context, in IntakeInput) (entities.Submission, error)
	Review(ctx context.Context, id string) (entities.Submission, error)
	Decline(ctx context.Context, id string) (entities.Submission, error)
	MarkSpam(ctx context.Context, id string) (entities.Submission, error)
	CreateJob(ctx context.Context, submissionID, category, description string) (entities.Job, error)
	GetByID(ctx context.Context, id string) (entities.Submission, error)
}

type SubmissionUseCase struct {
	repo     interfaces.ISubmissionRepository
	jobRepo  interfaces.IJobRepository
	limiter  *ratelimit.Limiter
	notify   *notifier
	settings config.Settings
}

var _ ISubmissionUseCase = (*SubmissionUseCase)(nil)

func NewSubmissionUseCase(
	repo interfaces.ISubmissionRepository,
	jobRepo interfaces.IJobRepository,
	limiter *ratelimit.Limiter,
	gateway interfaces.INotificationGateway,
	settings config.Settings,
) *SubmissionUseCase {
	return &SubmissionUseCase{
		repo:     repo,
		jobRepo:  jobRepo,
		limiter:  limiter,
		notify:   &notifier{gateway: gateway, adminEmail: settings.AdminEmail},
		settings: settings,
	}
}

// Intake validates, rate-limits and stores one contact-form submission.
// The rate-limit hit is only recorded after the create succeeded, so a
// rejected or duplicate post does not consume the submitter's quota.
func (u *SubmissionUseCase) Intake(ctx context.Context, in IntakeInput) (entities.Submission, error) {
	now := time.Now().UTC()

	email, err := validation.Email(in.Email)
	if err != nil {
		observability.SubmissionsRejected.WithLabelValues("validation").Inc()
		return entities.Submission{}, err
	}

	// Identity for rate limiting is the sanitized email.
	if u.limiter != nil {
		if _, err := u.limiter.Check(ctx, email, now); err != nil {
			if errors.Is(err, ratelimit.ErrRateLimitExceeded) {
				observability.SubmissionsRejected.WithLabelValues("rate_limit").Inc()
			}
			return entities.Submission{}, err
		}
	}

	name, err := validation.Text(in.Name, "name", u.settings.MaxNameLength, true)
	if err != nil {
		observability.SubmissionsRejected.WithLabelValues("validation").Inc()
		return entities.Submission{}, err
	}
	phone, err := validation.Phone(in.Phone)
	if err != nil {
		observability.SubmissionsRejected.WithLabelValues("validation").Inc()
		return entities.Submission{}, err
	}
	storeURL, err := validation.URL(in.StoreURL)
	if err != nil {
		observability.SubmissionsRejected.WithLabelValues("validation").Inc()
		return entities.Submission{}, err
	}
	message, err := validation.Text(in.Message, "message", u.settings.MaxMessageLength, in.VoiceNote == "")
	if err != nil {
		observability.SubmissionsRejected.WithLabelValues("validation").Inc()
		return entities.Submission{}, err
	}

	voiceRef := ""
	if in.VoiceNote != "" {
		_, mimeType, err := validation.AudioPayload(in.VoiceNote, u.settings.MaxAudioBytes)
		if err != nil {
			observability.SubmissionsRejected.WithLabelValues("validation").Inc()
			return entities.Submission{}, err
		}
		// Blob storage is the host's concern; the submission keeps a typed
		// reference only.
		voiceRef = mimeType
	}

	id := in.SubmissionNumber
	if strings.TrimSpace(id) == "" {
		id = validation.NewSubmissionNumber(u.settings.SubmissionPrefix)
	} else {
		id, err = validation.SubmissionNumber(id, u.settings.SubmissionPrefix)
		if err != nil {
			observability.SubmissionsRejected.WithLabelValues("validation").Inc()
			return entities.Submission{}, err
		}
	}

	s := entities.Submission{
		ID:           id,
		Name:         name,
		Email:        email,
		Phone:        phone,
		StoreURL:     storeURL,
		Message:      message,
		VoiceNoteRef: voiceRef,
		Status:       entities.SubmissionStatusNew,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := u.repo.Create(ctx, s)
	if err != nil {
		if errors.Is(err, interfaces.ErrAlreadyExists) {
			observability.SubmissionsRejected.WithLabelValues("duplicate").Inc()
			return entities.Submission{}, fmt.Errorf("%s: %w", s.ID, ErrSubmissionAlreadyExists)
		}
		return entities.Submission{}, err
	}
	log.Printf("[submission][usecase] intake success id=%s email=%s", created.ID, created.Email)

	if u.limiter != nil {
		if err := u.limiter.Record(ctx, email, now); err != nil {
			// The submission is already stored; losing one counter hit is
			// preferable to failing the intake.
			log.Printf("[submission][usecase] rate limit record failed id=%s err=%v", created.ID, err)
		}
	}

	hasVoice := "false"
	if voiceRef != "" {
		hasVoice = "true"
	}
	observability.SubmissionsReceived.WithLabelValues(hasVoice).Inc()

	subject, body := renderSubmissionReceived(created)
	u.notify.send(ctx, []string{created.Email}, subject, body)
	subject, body = renderSubmissionAlert(created)
	u.notify.sendAdmin(ctx, subject, body)

	return created, nil
}

func (u *SubmissionUseCase) Review(ctx context.Context, id string) (entities.Submission, error) {
	return u.updateStatus(ctx, id, entities.SubmissionStatusInReview)
}

func (u *SubmissionUseCase) Decline(ctx context.Context, id string) (entities.Submission, error) {
	return u.updateStatus(ctx, id, entities.SubmissionStatusDeclined)
}

func (u *SubmissionUseCase) MarkSpam(ctx context.Context, id string) (entities.Submission, error) {
	return u.updateStatus(ctx, id, entities.SubmissionStatusSpam)
}

func (u *SubmissionUseCase) updateStatus(ctx context.Context, id string, status entities.SubmissionStatus) (entities.Submission, error) {
	s, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Submission{}, err
	}
	if !s.Status.CanTransitionTo(status) {
		return entities.Submission{}, &workflow.InvalidTransitionError{
			Entity: "submission", From: string(s.Status), To: string(status),
		}
	}

	updated, err := u.repo.UpdateStatus(ctx, s.ID, status)
	if err != nil {
		return entities.Submission{}, err
	}
	if updated.ID == "" {
		return entities.Submission{}, ErrSubmissionNotFound
	}
	return updated, nil
}

// CreateJob promotes a reviewed submission to a job in PendingQuote. Repeat
// jobs on the same submission get a numeric suffix (J-MAPLE-042-2).
func (u *SubmissionUseCase) CreateJob(ctx context.Context, submissionID, category, description string) (entities.Job, error) {
	s, err := u.GetByID(ctx, submissionID)
	if err != nil {
		return entities.Job{}, err
	}

	description, err = validation.Text(description, "description", u.settings.MaxMessageLength, false)
	if err != nil {
		return entities.Job{}, err
	}
	category, err = validation.Text(category, "category", u.settings.MaxNameLength, false)
	if err != nil {
		return entities.Job{}, err
	}

	existing, err := u.jobRepo.ListBySubmissionID(ctx, s.ID)
	if err != nil {
		return entities.Job{}, err
	}

	firstJob := len(existing) == 0
	if firstJob && !s.Status.CanTransitionTo(entities.SubmissionStatusJobCreated) {
		return entities.Job{}, fmt.Errorf("%w: status %s", ErrSubmissionNotReviewable, s.Status)
	}

	now := time.Now().UTC()
	job := entities.Job{
		ID:             validation.DerivedNumber(s.ID, u.settings.JobPrefix, len(existing)+1),
		SubmissionID:   s.ID,
		Category:       category,
		Description:    description,
		Status:         entities.JobStatusPendingQuote,
		TurnaroundDays: u.settings.DefaultTurnaroundDays,
		PaymentStatus:  entities.PaymentStatusUnpaid,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := u.jobRepo.Create(ctx, job)
	if err != nil {
		return entities.Job{}, err
	}

	if firstJob {
		if _, err := u.repo.UpdateStatus(ctx, s.ID, entities.SubmissionStatusJobCreated); err != nil {
			log.Printf("[submission][usecase] status update after job create failed id=%s err=%v", s.ID, err)
		}
	}

	observability.JobTransitions.WithLabelValues(string(entities.JobStatusPendingQuote)).Inc()
	log.Printf("[submission][usecase] job created submission_id=%s job_id=%s", s.ID, created.ID)
	return created, nil
}

func (u *SubmissionUseCase) GetByID(ctx context.Context, id string) (entities.Submission, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Submission{}, ErrInvalidSubmissionID
	}

	s, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Submission{}, err
	}
	if s.ID == "" {
		return entities.Submission{}, ErrSubmissionNotFound
	}
	return s, nil
}
