package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"mockmate/interview/internal/models"
)

var ErrFeedbackNotFound = errors.New("feedback not found")

type FeedbackRepository struct {
	DB *gorm.DB
}

func (r *FeedbackRepository) Create(feedback *models.Feedback) error {
	return r.DB.Create(feedback).Error
}

func (r *FeedbackRepository) GetByID(id string) (*models.Feedback, error) {
	var feedback models.Feedback
	err := r.DB.First(&feedback, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFeedbackNotFound
	}
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

// GetUnexported retrieves feedback records not yet written out by the
// export job, oldest first.
func (r *FeedbackRepository) GetUnexported(limit int) ([]models.Feedback, error) {
	var feedback []models.Feedback
	query := r.DB.Where("exported = ?", false).Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&feedback).Error; err != nil {
		return nil, err
	}
	return feedback, nil
}

// MarkExported flags feedback records as exported.
func (r *FeedbackRepository) MarkExported(ids []string) (int64, error) {
	now := time.Now()
	result := r.DB.Model(&models.Feedback{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"exported":    true,
			"exported_at": now,
		})
	return result.RowsAffected, result.Error
}
