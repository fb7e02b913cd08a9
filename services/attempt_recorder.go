package services

import (
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/skill_assessment/models"
	"gorm.io/gorm"
)

// AttemptRecorder persists graded attempts. Attempts are append-only: there
// is no update or delete path.
type AttemptRecorder struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewAttemptRecorder(db *gorm.DB) *AttemptRecorder {
	return &AttemptRecorder{DB: db, Now: time.Now}
}

// Record writes the attempt row and one answer row per graded question in a
// single transaction. startedAt is optional; when given, the elapsed time to
// completion is stored in whole seconds.
func (r *AttemptRecorder) Record(ctx context.Context, userID, skillID uint, result GradingResult, startedAt *time.Time) (*models.QuizAttempt, error) {
	now := r.Now()

	attempt := models.QuizAttempt{
		UserID:      userID,
		SkillID:     skillID,
		Score:       result.Score,
		Total:       result.Total,
		StartedAt:   now,
		CompletedAt: &now,
	}
	if startedAt != nil && !startedAt.IsZero() {
		attempt.StartedAt = *startedAt
		secs := int(now.Sub(*startedAt).Seconds())
		if secs < 0 {
			secs = 0
		}
		attempt.DurationSeconds = &secs
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&attempt).Error; err != nil {
			return fmt.Errorf("create attempt: %w", err)
		}
		if len(result.Answers) == 0 {
			return nil
		}

		answers := make([]models.QuizAnswer, len(result.Answers))
		for i, a := range result.Answers {
			answers[i] = models.QuizAnswer{
				AttemptID:      attempt.ID,
				QuestionID:     a.QuestionID,
				SelectedOption: a.SelectedOption,
				IsCorrect:      a.IsCorrect,
				PointsEarned:   a.PointsEarned,
			}
		}
		if err := tx.Create(&answers).Error; err != nil {
			return fmt.Errorf("create answers: %w", err)
		}
		attempt.Answers = answers
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}
