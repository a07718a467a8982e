// file: internals/features/books/controller/books_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	database "library_backend/internals/databases"
	dto "library_backend/internals/features/books/dto"
	model "library_backend/internals/features/books/model"
	borrowingModel "library_backend/internals/features/borrowings/model"
	helper "library_backend/internals/helpers"
)

type BookController struct {
	DB *gorm.DB
}

func NewBookController(db *gorm.DB) *BookController {
	return &BookController{DB: db}
}

func parseBookID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid book id")
	}
	return id, nil
}

func writeDBError(c *fiber.Ctx, op string, err error) error {
	if _, ok := database.CheckViolation(err); ok {
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "Book values violate constraints")
	}
	log.Printf("[Books] %s: %v", op, err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "")
}

/* ============================================
   CREATE (staff)
   POST /api/books
============================================ */

func (ctl *BookController) Create(c *fiber.Ctx) error {
	var req dto.CreateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	req.Normalize()
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	book := req.ToModel()
	if err := ctl.DB.WithContext(c.UserContext()).Create(&book).Error; err != nil {
		return writeDBError(c, "create", err)
	}
	log.Printf("[Books] created id=%s %s inventory=%d", book.BookID, book.String(), book.BookInventory)
	return helper.JsonCreated(c, "Book created", dto.FromModel(book))
}

/* ============================================
   LIST (public)
   GET /api/books?q=&cover=&page=&per_page=
============================================ */

func (ctl *BookController) List(c *fiber.Ctx) error {
	var q dto.ListBooksQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid query")
	}
	q.Cover = strings.ToLower(strings.TrimSpace(q.Cover))
	if err := helper.Validate.Struct(&q); err != nil {
		return helper.ValidationError(c, err)
	}
	paging := helper.ResolvePaging(c, 10, 100)

	tx := ctl.DB.WithContext(c.UserContext()).Model(&model.BookModel{})
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("LOWER(book_title) LIKE ? OR LOWER(book_author) LIKE ?", like, like)
	}
	if q.Cover != "" {
		tx = tx.Where("book_cover = ?", q.Cover)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return writeDBError(c, "count", err)
	}

	var rows []model.BookModel
	if err := tx.Order("book_title ASC").Order("book_id ASC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return writeDBError(c, "list", err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildPagination(total, paging, len(rows)))
}

/* ============================================
   DETAIL (public)
   GET /api/books/:id
============================================ */

func (ctl *BookController) GetByID(c *fiber.Ctx) error {
	id, err := parseBookID(c)
	if err != nil {
		return err
	}
	var book model.BookModel
	if err := ctl.DB.WithContext(c.UserContext()).First(&book, "book_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Book not found")
		}
		return writeDBError(c, "get", err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(book))
}

/* ============================================
   PATCH (staff)
   PATCH /api/books/:id
============================================ */

func (ctl *BookController) Patch(c *fiber.Ctx) error {
	id, err := parseBookID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	req.Normalize()
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	updates := req.ToUpdateMap()

	var book model.BookModel
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		// lock supaya tidak balapan dengan pinjam/kembali
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&book, "book_id = ?", id).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&book).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&book, "book_id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Book not found")
		}
		return writeDBError(c, "patch", err)
	}
	return helper.JsonUpdated(c, "Book updated", dto.FromModel(book))
}

/* ============================================
   DELETE (staff)
   DELETE /api/books/:id
============================================ */

func (ctl *BookController) Delete(c *fiber.Ctx) error {
	id, err := parseBookID(c)
	if err != nil {
		return err
	}

	var deleted model.BookModel
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&deleted, "book_id = ?", id).Error; err != nil {
			return err
		}

		var open int64
		if err := tx.Model(&borrowingModel.BorrowingModel{}).
			Where("borrowing_book_id = ? AND borrowing_actual_return_date IS NULL", id).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return fiber.NewError(fiber.StatusConflict, "Book still has open borrowings")
		}
		return tx.Delete(&model.BookModel{}, "book_id = ?", id).Error
	})
	if err != nil {
		var fe *fiber.Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Book not found")
		case errors.As(err, &fe):
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return writeDBError(c, "delete", err)
	}
	log.Printf("[Books] deleted id=%s", id)
	return helper.JsonDeleted(c, "Book deleted", fiber.Map{"book_id": id})
}
