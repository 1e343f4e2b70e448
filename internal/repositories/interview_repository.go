package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"mockmate/interview/internal/models"
)

// ErrInterviewNotFound covers both a missing record and a record owned
// by someone else, so callers cannot probe for existence.
var ErrInterviewNotFound = errors.New("interview not found")

type InterviewRepository struct {
	DB *gorm.DB
}

func (r *InterviewRepository) Create(interview *models.Interview) error {
	return r.DB.Create(interview).Error
}

// GetForUser loads an interview with its transcript in append order.
func (r *InterviewRepository) GetForUser(id, userID string) (*models.Interview, error) {
	var interview models.Interview
	err := r.DB.
		Preload("Transcript", func(db *gorm.DB) *gorm.DB {
			return db.Order("turns.id ASC")
		}).
		First(&interview, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInterviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

// ListForUser returns the user's interviews without transcripts, newest first.
func (r *InterviewRepository) ListForUser(userID string) ([]models.Interview, error) {
	var interviews []models.Interview
	err := r.DB.
		Select("id", "user_id", "status", "start_time", "end_time", "duration_sec", "created_at", "updated_at").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&interviews).Error
	return interviews, err
}

// AddTurn appends a single turn to an interview's transcript.
func (r *InterviewRepository) AddTurn(turn *models.Turn) error {
	return r.DB.Create(turn).Error
}

// MarkCompleted records the terminal transition. EndTime and duration
// are written once and never recomputed.
func (r *InterviewRepository) MarkCompleted(id string, endTime time.Time, durationSec int) error {
	return r.DB.Model(&models.Interview{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.StatusCompleted,
			"end_time":     endTime,
			"duration_sec": durationSec,
		}).Error
}

// SetFeedbackID links a generated feedback record to its interview.
func (r *InterviewRepository) SetFeedbackID(id, feedbackID string) error {
	return r.DB.Model(&models.Interview{}).
		Where("id = ?", id).
		Update("feedback_id", feedbackID).Error
}

// GetByID loads an interview regardless of owner. Used by the feedback
// pipeline, which runs outside any request context.
func (r *InterviewRepository) GetByID(id string) (*models.Interview, error) {
	var interview models.Interview
	err := r.DB.
		Preload("Transcript", func(db *gorm.DB) *gorm.DB {
			return db.Order("turns.id ASC")
		}).
		First(&interview, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInterviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &interview, nil
}
