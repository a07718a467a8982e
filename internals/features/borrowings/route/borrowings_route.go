// file: internals/features/borrowings/route/borrowings_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	borrowingCtl "library_backend/internals/features/borrowings/controller"
	"library_backend/internals/features/borrowings/service"
)

// BorrowingRoutes: semua endpoint butuh login; scope per-user diurus service.
func BorrowingRoutes(api fiber.Router, svc *service.Lifecycle, authMw fiber.Handler) {
	ctl := borrowingCtl.NewBorrowingController(svc)

	r := api.Group("/borrowings", authMw)
	r.Get("/", ctl.List)
	r.Post("/", ctl.Create)
	r.Get("/:id", ctl.GetByID)
	r.Post("/:id/return", ctl.Return)
}
