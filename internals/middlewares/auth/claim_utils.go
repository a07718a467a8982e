// internals/middlewares/auth/claim_utils.go
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"library_backend/internals/constants"
	customerModel "library_backend/internals/features/customers/model"
)

const LocIdentity = "identity"

var errUserInactive = errors.New("user inactive")

// Identity = caller yang sudah terautentikasi.
type Identity struct {
	UserID   uuid.UUID
	FullName string
	IsStaff  bool
}

func (i Identity) Role() string { return constants.RoleOf(i.IsStaff) }

// GetIdentity: 401 kalau middleware auth belum jalan.
func GetIdentity(c *fiber.Ctx) (Identity, error) {
	id, ok := c.Locals(LocIdentity).(Identity)
	if !ok || id.UserID == uuid.Nil {
		return Identity{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return id, nil
}

/* ======== Extractors ======== */

func extractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if auth == "" {
		if cookieTok := c.Cookies("access_token"); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", fmt.Errorf("unauthorized - No token provided")
	}

	// toleransi spasi ganda & case-insensitive
	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", fmt.Errorf("unauthorized - Invalid token format")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", fmt.Errorf("unauthorized - Empty token")
	}
	return tok, nil
}

func validateTokenExpiry(claims jwt.MapClaims, skew time.Duration) error {
	expVal, ok := claims["exp"]
	if !ok {
		return fmt.Errorf("token has no exp")
	}

	var expUnix int64
	switch t := expVal.(type) {
	case float64:
		expUnix = int64(t)
	case int64:
		expUnix = t
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid exp format")
		}
		expUnix = n
	default:
		return fmt.Errorf("invalid exp type")
	}

	expTime := time.Unix(expUnix, 0).UTC()
	if time.Now().UTC().After(expTime.Add(skew)) {
		return fmt.Errorf("token expired at %v", expTime)
	}
	return nil
}

func extractUserID(claims jwt.MapClaims) (uuid.UUID, error) {
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("no sub claim")
	}
	id, err := uuid.Parse(strings.TrimSpace(sub))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid sub claim")
	}
	return id, nil
}

// loadIdentity membaca customer dari DB supaya nama & status staf selalu terbaru.
func loadIdentity(c *fiber.Ctx, db *gorm.DB, userID uuid.UUID) (Identity, error) {
	var cust customerModel.CustomerModel
	if err := db.WithContext(c.UserContext()).
		Select("customer_id", "customer_full_name", "customer_is_staff", "customer_is_active").
		Where("customer_id = ?", userID).
		First(&cust).Error; err != nil {
		return Identity{}, err
	}
	if !cust.CustomerIsActive {
		return Identity{}, errUserInactive
	}
	return Identity{
		UserID:   cust.CustomerID,
		FullName: cust.CustomerFullName,
		IsStaff:  cust.CustomerIsStaff,
	}, nil
}
