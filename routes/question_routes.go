package routes

import (
	"github.com/anjiri1684/skill_assessment/handlers"
	"github.com/anjiri1684/skill_assessment/middleware"
	"github.com/gofiber/fiber/v2"
)

func QuestionRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	questions := api.Group("/admin/questions", middleware.Protected(h.Settings.JWTSecret), middleware.ActiveAccount(h.DB), middleware.AdminRequired())
	questions.Post("", h.CreateQuestion)
	questions.Get("", h.ListQuestions)
	questions.Get("/:questionId", h.GetQuestion)
	questions.Put("/:questionId", h.UpdateQuestion)
	questions.Delete("/:questionId", h.DeleteQuestion)
}
