// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"library_backend/internals/configs"
	bookRoute "library_backend/internals/features/books/route"
	bookService "library_backend/internals/features/books/service"
	borrowingRoute "library_backend/internals/features/borrowings/route"
	borrowingService "library_backend/internals/features/borrowings/service"
	notifService "library_backend/internals/features/notifications/service"
	"library_backend/internals/middlewares/auth"
)

// Deps = kolaborator yang dibangun sekali di server lalu dibagikan ke route.
type Deps struct {
	Config   configs.Config
	DB       *gorm.DB
	Notifier notifService.Notifier
}

func SetupRoutes(app *fiber.App, deps Deps) {
	startTime := time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, deps.DB, deps.Config.Environment, startTime)

	authMw := auth.AuthMiddleware(deps.DB, deps.Config.JWTSecret)
	api := app.Group("/api")

	log.Println("[INFO] Mounting Books routes...")
	bookRoute.BookRoutes(api, deps.DB, authMw)

	log.Println("[INFO] Mounting Borrowings routes...")
	lifecycle := borrowingService.NewLifecycle(
		deps.DB,
		bookService.NewInventoryLedger(),
		deps.Notifier,
		deps.Config.Location(),
	)
	borrowingRoute.BorrowingRoutes(api, lifecycle, authMw)
}
