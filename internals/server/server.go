// file: internals/server/server.go
package server

import (
	"context"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"library_backend/internals/configs"
	notifService "library_backend/internals/features/notifications/service"
	helper "library_backend/internals/helpers"
	middlewares "library_backend/internals/middlewares"
	routes "library_backend/internals/route"
)

// NewApp merakit fiber app lengkap (middleware + route) tanpa listen.
func NewApp(cfg configs.Config, db *gorm.DB, notifier notifService.Notifier) *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ErrorHandler:          helper.ErrorHandler,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           90 * time.Second,
	})

	middlewares.SetupMiddlewares(app, cfg)

	if notifier == nil {
		notifier = notifService.NewNotifier(cfg)
	}
	routes.SetupRoutes(app, routes.Deps{Config: cfg, DB: db, Notifier: notifier})
	return app
}

// Run listen di cfg.Port sampai ctx selesai, lalu shutdown dengan batas waktu.
func Run(ctx context.Context, app *fiber.App, port string) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("✅ Listening on :%s", port)
		errCh <- app.Listen("0.0.0.0:" + port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("[Server] shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
