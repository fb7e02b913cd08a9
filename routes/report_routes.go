package routes

import (
	"github.com/anjiri1684/skill_assessment/handlers"
	"github.com/anjiri1684/skill_assessment/middleware"
	"github.com/gofiber/fiber/v2"
)

func ReportRoutes(app *fiber.App, h *handlers.Handler) {
	reports := app.Group("/api/v1/reports", middleware.Protected(h.Settings.JWTSecret), middleware.ActiveAccount(h.DB))
	reports.Get("/user/:userId", h.GetUserAttempts)

	admin := reports.Group("", middleware.AdminRequired())
	admin.Get("/skill-gaps", h.GetSkillGaps)
	admin.Get("/time", h.GetTimeReport)
}
