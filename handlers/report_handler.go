package handlers

import (
	"math"
	"strconv"

	"github.com/anjiri1684/skill_assessment/middleware"
	"github.com/anjiri1684/skill_assessment/utils"
	"github.com/gofiber/fiber/v2"
)

// GetSkillGaps compares a user's per-skill average with the global one.
func (h *Handler) GetSkillGaps(c *fiber.Ctx) error {
	rawUser := c.Query("user_id")
	if rawUser == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id query parameter is required"})
	}
	userID, err := utils.ParseID(rawUser)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	var threshold float64
	if raw := c.Query("threshold"); raw != "" {
		threshold, err = strconv.ParseFloat(raw, 64)
		if err != nil || threshold < 0 || math.IsNaN(threshold) || math.IsInf(threshold, 0) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "threshold must be a non-negative number"})
		}
	}

	gaps, err := h.Reports.SkillGaps(c.UserContext(), userID, threshold)
	if err != nil {
		return serviceError(c, err, "Failed to compute skill gaps")
	}
	return c.JSON(gaps)
}

// GetUserAttempts lists a user's attempts. Users may only read their own.
func (h *Handler) GetUserAttempts(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}
	userID, err := utils.ParseID(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}
	if userID != user.ID && !user.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	attempts, err := h.Reports.UserHistory(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch user reports")
	}
	return c.JSON(fiber.Map{"attempts": attempts})
}

func (h *Handler) GetTimeReport(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	rows, err := h.Reports.ScoresByUser(c.UserContext(), days)
	if err != nil {
		return serviceError(c, err, "Failed to compute time report")
	}
	return c.JSON(fiber.Map{"by_user": rows})
}
