package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"library_backend/internals/databases/dbtest"
	customerModel "library_backend/internals/features/customers/model"
)

const testSecret = "test-secret"

func newTestApp(db *gorm.DB) *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthMiddleware(db, testSecret), func(c *fiber.Ctx) error {
		id, err := GetIdentity(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"user_id": id.UserID, "full_name": id.FullName, "is_staff": id.IsStaff})
	})
	app.Get("/staff", AuthMiddleware(db, testSecret), RequireStaff(""), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func givenCustomer(t *testing.T, db *gorm.DB, staff, active bool) customerModel.CustomerModel {
	t.Helper()
	cust := customerModel.CustomerModel{
		CustomerEmail:    "reader@example.com",
		CustomerFullName: "Ann Reader",
		CustomerPassword: "x",
		CustomerIsStaff:  staff,
		CustomerIsActive: true,
	}
	require.NoError(t, db.Create(&cust).Error)
	if !active {
		require.NoError(t, db.Model(&cust).Update("customer_is_active", false).Error)
	}
	return cust
}

func get(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	db := dbtest.Open(t)
	cust := givenCustomer(t, db, false, true)
	tok, err := IssueAccessToken(testSecret, cust, time.Hour)
	require.NoError(t, err)

	app := newTestApp(db)

	assert.Equal(t, fiber.StatusOK, get(t, app, "/me", tok))
	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/staff", tok))
}

func TestAuthMiddleware_StaffPasses(t *testing.T) {
	db := dbtest.Open(t)
	cust := givenCustomer(t, db, true, true)
	tok, err := IssueAccessToken(testSecret, cust, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, get(t, newTestApp(db), "/staff", tok))
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	db := dbtest.Open(t)
	cust := givenCustomer(t, db, false, true)
	app := newTestApp(db)

	wrongSecret, err := IssueAccessToken("other-secret", cust, time.Hour)
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": cust.CustomerID.String(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", ""))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", "garbage"))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", wrongSecret))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", expired))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", noSub))
}

func TestAuthMiddleware_InactiveCustomer(t *testing.T) {
	db := dbtest.Open(t)
	cust := givenCustomer(t, db, false, false)
	tok, err := IssueAccessToken(testSecret, cust, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusForbidden, get(t, newTestApp(db), "/me", tok))
}

func TestAuthMiddleware_CookieFallback(t *testing.T) {
	db := dbtest.Open(t)
	cust := givenCustomer(t, db, false, true)
	tok, err := IssueAccessToken(testSecret, cust, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Cookie", "access_token="+tok)
	resp, err := newTestApp(db).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestIssueAccessToken_RequiresSecret(t *testing.T) {
	_, err := IssueAccessToken("", customerModel.CustomerModel{}, time.Hour)
	assert.Error(t, err)
}

func TestIdentityRole(t *testing.T) {
	assert.Equal(t, "staff", Identity{IsStaff: true}.Role())
	assert.Equal(t, "customer", Identity{}.Role())
}
