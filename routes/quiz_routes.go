package routes

import (
	"github.com/anjiri1684/skill_assessment/handlers"
	"github.com/anjiri1684/skill_assessment/middleware"
	"github.com/gofiber/fiber/v2"
)

func QuizRoutes(app *fiber.App, h *handlers.Handler) {
	quiz := app.Group("/api/v1/quiz")
	quiz.Get("/skill/:skillId", h.GetQuizQuestions)

	protected := quiz.Group("", middleware.Protected(h.Settings.JWTSecret), middleware.ActiveAccount(h.DB))
	protected.Post("/attempt", h.SubmitAttempt)
	protected.Get("/attempts/:attemptId", h.GetAttempt)
}
