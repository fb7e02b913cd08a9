package models

import "time"

type QuizAttempt struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;index" json:"user_id"`
	SkillID         uint       `gorm:"not null;index" json:"skill_id"`
	Score           float64    `gorm:"not null" json:"score"`
	Total           float64    `gorm:"not null" json:"total"`
	StartedAt       time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	DurationSeconds *int       `json:"duration_seconds"`

	Skill   *Skill       `gorm:"foreignKey:SkillID" json:"skill,omitempty"`
	Answers []QuizAnswer `gorm:"foreignKey:AttemptID" json:"answers,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
