// file: internals/features/borrowings/controller/borrowings_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	dto "library_backend/internals/features/borrowings/dto"
	"library_backend/internals/features/borrowings/service"
	helper "library_backend/internals/helpers"
	"library_backend/internals/middlewares/auth"
)

/* ============================================
   Controller
============================================ */

type BorrowingController struct {
	Svc *service.Lifecycle
}

func NewBorrowingController(svc *service.Lifecycle) *BorrowingController {
	return &BorrowingController{Svc: svc}
}

func actorFrom(c *fiber.Ctx) (service.Actor, error) {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return service.Actor{}, err
	}
	return service.Actor{UserID: id.UserID, FullName: id.FullName, IsStaff: id.IsStaff}, nil
}

// writeServiceError: sentinel lifecycle → status HTTP.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		msg := strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, "VALIDATION_ERROR", msg)
	case errors.Is(err, service.ErrOutOfStock):
		return helper.JsonErrorCode(c, fiber.StatusConflict, "OUT_OF_STOCK", "The book is out of stock")
	case errors.Is(err, service.ErrAlreadyReturned):
		return helper.JsonErrorCode(c, fiber.StatusConflict, "ALREADY_RETURNED", "The book has already been returned by user")
	case errors.Is(err, service.ErrBookNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Book not found")
	case errors.Is(err, service.ErrNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Borrowing not found")
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	log.Printf("[Borrowings] %s %s: %v", c.Method(), c.Path(), err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "")
}

/* ============================================
   CREATE
   POST /api/borrowings
============================================ */

func (ctl *BorrowingController) Create(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req dto.CreateBorrowingRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	req.Normalize()
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	in, fieldErrs := req.Parse()
	if fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	rec, err := ctl.Svc.Create(c.UserContext(), service.CreateInput{
		Actor:              actor,
		BookID:             in.BookID,
		BorrowDate:         in.BorrowDate,
		ExpectedReturnDate: in.ExpectedReturnDate,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonCreated(c, "Borrowing created", dto.FromModel(rec))
}

/* ============================================
   RETURN
   POST /api/borrowings/:id/return
============================================ */

func (ctl *BorrowingController) Return(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid borrowing id")
	}

	var req dto.ReturnBorrowingRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
		}
	}
	actual, err := req.Parse()
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{"actual_return_date": {err.Error()}})
	}

	rec, err := ctl.Svc.Return(c.UserContext(), service.ReturnInput{
		Actor:            actor,
		BorrowingID:      id,
		ActualReturnDate: actual,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Borrowing returned", dto.FromModel(rec))
}

/* ============================================
   READ
   GET /api/borrowings
   GET /api/borrowings/:id
============================================ */

func (ctl *BorrowingController) GetByID(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid borrowing id")
	}
	rec, err := ctl.Svc.Get(c.UserContext(), id, actor)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(rec))
}

func (ctl *BorrowingController) List(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 10, 100)
	filter := service.ListFilter{
		Actor:    actor,
		IsActive: parseIsActive(c.Query("is_active")),
		Offset:   paging.Offset,
		Limit:    paging.Limit,
	}
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" && actor.IsStaff {
		uid, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonValidationError(c, map[string][]string{"user_id": {"must be a valid UUID"}})
		}
		filter.UserID = &uid
	}

	rows, total, err := ctl.Svc.List(c.UserContext(), filter)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildPagination(total, paging, len(rows)))
}

// parseIsActive: hanya true/false/True/False, nilai lain diabaikan.
func parseIsActive(raw string) *bool {
	var v bool
	switch strings.TrimSpace(raw) {
	case "true", "True":
		v = true
	case "false", "False":
		v = false
	default:
		return nil
	}
	return &v
}
