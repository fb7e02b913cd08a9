package handlers

import (
	"github.com/anjiri1684/skill_assessment/models"
	"github.com/anjiri1684/skill_assessment/services"
	"github.com/anjiri1684/skill_assessment/utils"
	"github.com/gofiber/fiber/v2"
)

// QuestionRequest accepts options as a list of strings or {id,text}
// objects, a JSON string, or delimited text.
type QuestionRequest struct {
	SkillID       uint   `json:"skill_id" validate:"required"`
	Text          string `json:"text" validate:"required,min=3"`
	Options       any    `json:"options" validate:"required"`
	CorrectOption string `json:"correct_option" validate:"required,max=255"`
	Weight        int    `json:"weight" validate:"gte=0"`
}

// AdminQuestion is the full question view, including grading fields.
type AdminQuestion struct {
	ID            uint              `json:"id"`
	SkillID       uint              `json:"skill_id"`
	Text          string            `json:"text"`
	Options       []services.Option `json:"options"`
	CorrectOption string            `json:"correct_option"`
	Weight        int               `json:"weight"`
}

func toAdminQuestion(q models.Question) AdminQuestion {
	return AdminQuestion{
		ID:            q.ID,
		SkillID:       q.SkillID,
		Text:          q.Text,
		Options:       services.NormalizeOptions(q.Options),
		CorrectOption: q.CorrectOption,
		Weight:        int(q.Points()),
	}
}

func (req QuestionRequest) input() services.QuestionInput {
	return services.QuestionInput{
		SkillID:       req.SkillID,
		Text:          req.Text,
		Options:       req.Options,
		CorrectOption: req.CorrectOption,
		Weight:        req.Weight,
	}
}

// parseQuestionRequest returns the decoded body, or a client error message.
func parseQuestionRequest(c *fiber.Ctx) (QuestionRequest, string) {
	var req QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return req, "Cannot parse JSON"
	}
	if err := validate.Struct(req); err != nil {
		return req, err.Error()
	}
	return req, ""
}

func (h *Handler) CreateQuestion(c *fiber.Ctx) error {
	req, msg := parseQuestionRequest(c)
	if msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	q, err := h.Catalog.CreateQuestion(c.UserContext(), req.input())
	if err != nil {
		return serviceError(c, err, "Failed to create question")
	}
	return c.Status(fiber.StatusCreated).JSON(toAdminQuestion(*q))
}

func (h *Handler) ListQuestions(c *fiber.Ctx) error {
	var skillID uint
	if raw := c.Query("skill_id"); raw != "" {
		id, err := utils.ParseID(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid skill id"})
		}
		skillID = id
	}

	questions, err := h.Catalog.ListQuestions(c.UserContext(), skillID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch questions")
	}

	out := make([]AdminQuestion, len(questions))
	for i, q := range questions {
		out[i] = toAdminQuestion(q)
	}
	return c.JSON(out)
}

func (h *Handler) GetQuestion(c *fiber.Ctx) error {
	questionID, err := utils.ParseID(c.Params("questionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid question id"})
	}
	q, err := h.Catalog.GetQuestion(c.UserContext(), questionID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch question")
	}
	return c.JSON(toAdminQuestion(*q))
}

func (h *Handler) UpdateQuestion(c *fiber.Ctx) error {
	questionID, err := utils.ParseID(c.Params("questionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid question id"})
	}
	req, msg := parseQuestionRequest(c)
	if msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	q, err := h.Catalog.UpdateQuestion(c.UserContext(), questionID, req.input())
	if err != nil {
		return serviceError(c, err, "Failed to update question")
	}
	return c.JSON(toAdminQuestion(*q))
}

func (h *Handler) DeleteQuestion(c *fiber.Ctx) error {
	questionID, err := utils.ParseID(c.Params("questionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid question id"})
	}
	if err := h.Catalog.DeleteQuestion(c.UserContext(), questionID); err != nil {
		return serviceError(c, err, "Failed to delete question")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
