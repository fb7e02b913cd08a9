package handlers

import (
	"errors"
	"log"

	config "github.com/anjiri1684/skill_assessment/configs"
	"github.com/anjiri1684/skill_assessment/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Handler owns the dependencies every route needs. It is built once in main
// and its methods are registered as Fiber handlers.
type Handler struct {
	DB       *gorm.DB
	Settings config.Settings

	Quiz    *services.QuizService
	Reports *services.ReportService
	Catalog *services.CatalogService
}

func New(db *gorm.DB, s config.Settings) *Handler {
	return &Handler{
		DB:       db,
		Settings: s,
		Quiz:     services.NewQuizService(db, s.QuizDefaultLimit, s.QuizMaxLimit),
		Reports:  services.NewReportService(db),
		Catalog:  services.NewCatalogService(db, s.StrictCorrectOption),
	}
}

// serviceError maps service errors to responses. Anything unrecognized is a
// storage fault: it is logged and reported as an opaque 500.
func serviceError(c *fiber.Ctx, err error, failure string) error {
	switch {
	case errors.Is(err, services.ErrSkillNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Skill not found"})
	case errors.Is(err, services.ErrQuestionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
	case errors.Is(err, services.ErrAttemptNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Attempt not found"})
	case errors.Is(err, services.ErrSkillExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Skill name already exists"})
	case errors.Is(err, services.ErrNoAnswers),
		errors.Is(err, services.ErrTooFewOptions),
		errors.Is(err, services.ErrInvalidCorrectOption):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	log.Printf("🔥 %s | Path: %s | %v", failure, c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": failure})
}
