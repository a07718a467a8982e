package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"library_backend/internals/configs"
	"library_backend/internals/middlewares/logger"
)

// SetupMiddlewares memasang rantai middleware global. Urutan penting:
// recover paling luar supaya panic di middleware lain ikut tertangkap.
func SetupMiddlewares(app *fiber.App, cfg configs.Config) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestContext(5 * time.Second))
	app.Use(logger.LoggerMiddleware(cfg.LibraryTimezone))
	app.Use(CorsMiddleware(cfg.CORSOrigins))
	app.Use(GlobalRateLimiter(cfg.RateLimitPerMinute))
}
