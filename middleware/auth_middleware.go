package middleware

import (
	"errors"
	"log"

	"github.com/anjiri1684/skill_assessment/models"
	"github.com/anjiri1684/skill_assessment/utils"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// AuthUser is the identity carried by a verified token.
type AuthUser struct {
	ID    uint
	Role  string
	Email string
}

func (u AuthUser) IsAdmin() bool { return u.Role == models.RoleAdmin }

func Protected(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(secret),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

// CurrentUser reads the identity stored by Protected.
func CurrentUser(c *fiber.Ctx) (AuthUser, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return AuthUser{}, errors.New("no token in request context")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return AuthUser{}, errors.New("unexpected claims type")
	}

	var user AuthUser
	switch v := claims["user_id"].(type) {
	case string:
		id, err := utils.ParseID(v)
		if err != nil {
			return AuthUser{}, err
		}
		user.ID = id
	case float64:
		if v < 1 {
			return AuthUser{}, errors.New("invalid user_id claim")
		}
		user.ID = uint(v)
	default:
		return AuthUser{}, errors.New("missing user_id claim")
	}
	user.Role, _ = claims["role"].(string)
	user.Email, _ = claims["email"].(string)
	return user, nil
}

func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
		}
		if !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Admin access required",
			})
		}
		return c.Next()
	}
}

// ActiveAccount rejects tokens whose user has since been deactivated or
// removed. It must run after Protected.
func ActiveAccount(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
		}

		var account models.User
		err = db.WithContext(c.UserContext()).Select("id", "active").First(&account, user.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Account no longer exists"})
		}
		if err != nil {
			log.Printf("🔥 Failed to load account %d: %v", user.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to verify account"})
		}
		if !account.Active {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Account is deactivated"})
		}
		return c.Next()
	}
}
