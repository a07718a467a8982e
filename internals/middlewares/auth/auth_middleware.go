// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// AuthMiddleware memverifikasi bearer JWT lalu menyimpan Identity di locals.
func AuthMiddleware(db *gorm.DB, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1) Ambil Authorization (atau cookie)
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		// 2) Parse & verifikasi signature
		if secret == "" {
			log.Println("[Auth] ERROR JWT secret is empty")
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - authentication is not configured")
		}
		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true, ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}); err != nil {
			log.Println("[Auth] token parse error:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		// 3) Validasi exp (toleransi clock skew)
		if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
			log.Println("[Auth] exp validation:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		// 4) sub → customer aktif
		userID, err := extractUserID(claims)
		if err != nil {
			log.Println("[Auth] sub:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
		}

		identity, err := loadIdentity(c, db, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - User not found")
			}
			if errors.Is(err, errUserInactive) {
				return fiber.NewError(fiber.StatusForbidden, "Account is deactivated")
			}
			log.Println("[Auth] ERROR load identity:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
		}

		c.Locals(LocIdentity, identity)
		return c.Next()
	}
}

// RequireStaff hanya meloloskan customer dengan is_staff = true.
func RequireStaff(message string) fiber.Handler {
	if message == "" {
		message = "Forbidden: staff only"
	}
	return func(c *fiber.Ctx) error {
		id, err := GetIdentity(c)
		if err != nil {
			return err
		}
		if !id.IsStaff {
			log.Printf("[Auth] forbidden user=%s role=%s %s %s", id.UserID, id.Role(), c.Method(), c.Path())
			return fiber.NewError(fiber.StatusForbidden, message)
		}
		return c.Next()
	}
}
