package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	customerModel "library_backend/internals/features/customers/model"
)

const DefaultAccessTTL = 24 * time.Hour

// IssueAccessToken menandatangani access token HS256 untuk customer.
// Alur login ada di luar service ini; fungsi ini dipakai seeder & test.
func IssueAccessToken(secret string, cust customerModel.CustomerModel, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret is empty")
	}
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":       cust.CustomerID.String(),
		"full_name": cust.CustomerFullName,
		"is_staff":  cust.CustomerIsStaff,
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
