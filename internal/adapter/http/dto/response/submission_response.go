package response

import (
	"time"

	"cartcure_ops/internal/domain/entities"
)

type SubmissionResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	StoreURL     string    `json:"store_url,omitempty"`
	Message      string    `json:"message,omitempty"`
	HasVoiceNote bool      `json:"has_voice_note"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func FromSubmission(s entities.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:           s.ID,
		Name:         s.Name,
		Email:        s.Email,
		Phone:        s.Phone,
		StoreURL:     s.StoreURL,
		Message:      s.Message,
		HasVoiceNote: s.VoiceNoteRef != "",
		Status:       string(s.Status),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
