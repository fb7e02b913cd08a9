package services

import (
	"path/filepath"
	"testing"

	"github.com/anjiri1684/skill_assessment/database"
	"github.com/anjiri1684/skill_assessment/models"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect("sqlite", filepath.Join(t.TempDir(), "services.db"))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("create %T: %v", v, err)
	}
}

func seedSkill(t *testing.T, db *gorm.DB, name string) models.Skill {
	t.Helper()
	s := models.Skill{Name: name}
	mustCreate(t, db, &s)
	return s
}

func seedQuestion(t *testing.T, db *gorm.DB, skillID uint, correct string, weight int) models.Question {
	t.Helper()
	q := models.Question{
		SkillID:       skillID,
		Text:          "Question for " + correct,
		Options:       EncodeOptions([]Option{{ID: "A", Text: "a"}, {ID: "B", Text: "b"}, {ID: "C", Text: "c"}}),
		CorrectOption: correct,
		Weight:        weight,
	}
	mustCreate(t, db, &q)
	return q
}

func seedAttempt(t *testing.T, db *gorm.DB, userID, skillID uint, score, total float64) models.QuizAttempt {
	t.Helper()
	a := models.QuizAttempt{UserID: userID, SkillID: skillID, Score: score, Total: total}
	mustCreate(t, db, &a)
	return a
}
