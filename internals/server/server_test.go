package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library_backend/internals/configs"
	"library_backend/internals/databases/dbtest"
	bookModel "library_backend/internals/features/books/model"
	customerModel "library_backend/internals/features/customers/model"
	notifService "library_backend/internals/features/notifications/service"
	"library_backend/internals/middlewares/auth"
)

func testConfig() configs.Config {
	return configs.Config{
		Environment:        "test",
		JWTSecret:          "server-test-secret",
		LibraryTimezone:    "UTC",
		CORSOrigins:        []string{"http://localhost:5173"},
		RateLimitPerMinute: 1000,
	}
}

func TestHealth(t *testing.T) {
	app := NewApp(testConfig(), dbtest.Open(t), notifService.NoopNotifier{})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "test", body["environment"])
}

func TestUnknownRoute_UsesJSONEnvelope(t *testing.T) {
	app := NewApp(testConfig(), dbtest.Open(t), notifService.NoopNotifier{})

	resp, err := app.Test(httptest.NewRequest("GET", "/nope", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "NOT_FOUND", body["error_code"])
}

func TestBorrowFlowThroughFullApp(t *testing.T) {
	cfg := testConfig()
	db := dbtest.Open(t)

	cust := customerModel.CustomerModel{CustomerEmail: "ann@example.com", CustomerFullName: "Ann", CustomerPassword: "x", CustomerIsActive: true}
	require.NoError(t, db.Create(&cust).Error)
	book := bookModel.BookModel{BookTitle: "Dune", BookAuthor: "Frank Herbert", BookCover: bookModel.BookCoverHard, BookInventory: 1}
	require.NoError(t, db.Create(&book).Error)
	tok, err := auth.IssueAccessToken(cfg.JWTSecret, cust, time.Hour)
	require.NoError(t, err)

	app := NewApp(cfg, db, notifService.NoopNotifier{})

	req := httptest.NewRequest("POST", "/api/borrowings",
		strings.NewReader(`{"book_id":"`+book.BookID.String()+`","expected_return_date":"2999-12-31"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	req = httptest.NewRequest("POST", "/api/borrowings",
		strings.NewReader(`{"book_id":"`+book.BookID.String()+`","expected_return_date":"2999-12-31"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
