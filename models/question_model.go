package models

import (
	"time"

	"gorm.io/datatypes"
)

// Question.Options holds whatever shape was written historically; readers
// always pass it through services.NormalizeOptions.
type Question struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	SkillID       uint           `gorm:"not null;index" json:"skill_id"`
	Text          string         `gorm:"type:text;not null" json:"text"`
	Options       datatypes.JSON `gorm:"not null" json:"options"`
	CorrectOption string         `gorm:"size:255;not null" json:"correct_option"`
	Weight        int            `gorm:"not null;default:1" json:"weight"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Points is the question's weight, with unset or invalid weights counting as 1.
func (q Question) Points() float64 {
	if q.Weight < 1 {
		return 1
	}
	return float64(q.Weight)
}
