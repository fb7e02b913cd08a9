package models

import "time"

type QuizAnswer struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	AttemptID      uint    `gorm:"not null;index" json:"attempt_id"`
	QuestionID     uint    `gorm:"not null;index" json:"question_id"`
	SelectedOption *string `gorm:"size:255" json:"selected_option"`
	IsCorrect      bool    `gorm:"not null;default:false" json:"is_correct"`
	PointsEarned   float64 `gorm:"not null;default:0" json:"points_earned"`

	CreatedAt time.Time `json:"created_at"`
}
