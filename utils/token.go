package utils

import (
	"fmt"
	"strconv"
	"time"

	"github.com/anjiri1684/skill_assessment/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// GenerateToken signs an HS256 token carrying the user's id, role and email.
func GenerateToken(secret string, ttl time.Duration, user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": strconv.FormatUint(uint64(user.ID), 10),
		"role":    user.Role,
		"email":   user.Email,
		"jti":     uuid.NewString(),
		"exp":     time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseID parses a positive numeric id from a path or query value.
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}
