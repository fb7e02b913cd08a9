package handlers

import (
	"github.com/anjiri1684/skill_assessment/utils"
	"github.com/gofiber/fiber/v2"
)

type SkillRequest struct {
	Name        string `json:"name" validate:"required,max=150"`
	Description string `json:"description"`
}

func (h *Handler) ListSkills(c *fiber.Ctx) error {
	skills, err := h.Catalog.ListSkills(c.UserContext())
	if err != nil {
		return serviceError(c, err, "Failed to fetch skills")
	}
	return c.JSON(skills)
}

func (h *Handler) GetSkill(c *fiber.Ctx) error {
	skillID, err := utils.ParseID(c.Params("skillId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid skill id"})
	}
	skill, err := h.Catalog.GetSkill(c.UserContext(), skillID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch skill")
	}
	return c.JSON(skill)
}

func (h *Handler) CreateSkill(c *fiber.Ctx) error {
	var req SkillRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	skill, err := h.Catalog.CreateSkill(c.UserContext(), req.Name, req.Description)
	if err != nil {
		return serviceError(c, err, "Failed to create skill")
	}
	return c.Status(fiber.StatusCreated).JSON(skill)
}

func (h *Handler) UpdateSkill(c *fiber.Ctx) error {
	skillID, err := utils.ParseID(c.Params("skillId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid skill id"})
	}

	var req SkillRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	skill, err := h.Catalog.UpdateSkill(c.UserContext(), skillID, req.Name, req.Description)
	if err != nil {
		return serviceError(c, err, "Failed to update skill")
	}
	return c.JSON(skill)
}

// DeleteSkill removes the skill only; its questions and attempts remain.
func (h *Handler) DeleteSkill(c *fiber.Ctx) error {
	skillID, err := utils.ParseID(c.Params("skillId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid skill id"})
	}
	if err := h.Catalog.DeleteSkill(c.UserContext(), skillID); err != nil {
		return serviceError(c, err, "Failed to delete skill")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
