// file: internals/features/books/route/books_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"library_backend/internals/constants"
	bookCtl "library_backend/internals/features/books/controller"
	"library_backend/internals/middlewares/auth"
)

// BookRoutes: baca publik, tulis khusus staf.
func BookRoutes(api fiber.Router, db *gorm.DB, authMw fiber.Handler) {
	ctl := bookCtl.NewBookController(db)

	r := api.Group("/books")
	r.Get("/", ctl.List)
	r.Get("/:id", ctl.GetByID)

	staff := r.Group("", authMw, auth.RequireStaff(constants.RoleErrorStaff("manage books")))
	staff.Post("/", ctl.Create)
	staff.Patch("/:id", ctl.Patch)
	staff.Delete("/:id", ctl.Delete)
}
