package handlers

import (
	"time"

	"github.com/anjiri1684/skill_assessment/middleware"
	"github.com/anjiri1684/skill_assessment/services"
	"github.com/anjiri1684/skill_assessment/utils"
	"github.com/gofiber/fiber/v2"
)

type SubmitAttemptRequest struct {
	SkillID     uint                       `json:"skill_id" validate:"required"`
	Answers     []services.SubmittedAnswer `json:"answers" validate:"required,min=1,dive"`
	QuestionIDs []uint                     `json:"question_ids" validate:"omitempty,dive,required"`
	StartedAt   *time.Time                 `json:"started_at"`
}

// GetQuizQuestions serves a skill's questions without grading fields.
func (h *Handler) GetQuizQuestions(c *fiber.Ctx) error {
	skillID, err := utils.ParseID(c.Params("skillId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid skill id"})
	}

	questions, err := h.Quiz.QuestionsForSkill(c.UserContext(), skillID, c.QueryInt("limit", 0))
	if err != nil {
		return serviceError(c, err, "Failed to load quiz questions")
	}
	return c.JSON(questions)
}

func (h *Handler) SubmitAttempt(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	var req SubmitAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	attempt, result, err := h.Quiz.Submit(c.UserContext(), user.ID, services.Submission{
		SkillID:     req.SkillID,
		Answers:     req.Answers,
		QuestionIDs: req.QuestionIDs,
		StartedAt:   req.StartedAt,
	})
	if err != nil {
		return serviceError(c, err, "Failed to save attempt")
	}

	return c.JSON(fiber.Map{
		"attempt_id": attempt.ID,
		"score":      result.Score,
		"total":      result.Total,
	})
}

// GetAttempt returns one attempt with its answers to its owner or an admin.
func (h *Handler) GetAttempt(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}
	attemptID, err := utils.ParseID(c.Params("attemptId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid attempt id"})
	}

	attempt, err := h.Quiz.Attempt(c.UserContext(), attemptID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch attempt")
	}
	if attempt.UserID != user.ID && !user.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}
	return c.JSON(attempt)
}
