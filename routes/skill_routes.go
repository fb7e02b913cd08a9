package routes

import (
	"github.com/anjiri1684/skill_assessment/handlers"
	"github.com/anjiri1684/skill_assessment/middleware"
	"github.com/gofiber/fiber/v2"
)

func SkillRoutes(app *fiber.App, h *handlers.Handler) {
	skills := app.Group("/api/v1/skills")
	skills.Get("", h.ListSkills)
	skills.Get("/:skillId", h.GetSkill)

	admin := skills.Group("", middleware.Protected(h.Settings.JWTSecret), middleware.ActiveAccount(h.DB), middleware.AdminRequired())
	admin.Post("", h.CreateSkill)
	admin.Put("/:skillId", h.UpdateSkill)
	admin.Delete("/:skillId", h.DeleteSkill)
}
