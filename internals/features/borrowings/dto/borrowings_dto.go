// file: internals/features/borrowings/dto/borrowings_dto.go
package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	model "library_backend/internals/features/borrowings/model"
	"library_backend/internals/helpers/dbtime"
)

// =======================
// Request DTO
// =======================

// Tanggal dikirim sebagai "YYYY-MM-DD".
type CreateBorrowingRequest struct {
	BookID             string  `json:"book_id"              validate:"required,uuid"`
	BorrowDate         *string `json:"borrow_date,omitempty"`
	ExpectedReturnDate string  `json:"expected_return_date" validate:"required"`
}

type ReturnBorrowingRequest struct {
	// kosong = hari ini
	ActualReturnDate *string `json:"actual_return_date,omitempty"`
}

// Parsed: hasil konversi request ke tipe domain.
type ParsedCreate struct {
	BookID             uuid.UUID
	BorrowDate         time.Time
	ExpectedReturnDate time.Time
}

func (r *CreateBorrowingRequest) Normalize() {
	r.BookID = strings.TrimSpace(r.BookID)
	r.ExpectedReturnDate = strings.TrimSpace(r.ExpectedReturnDate)
	if r.BorrowDate != nil {
		s := strings.TrimSpace(*r.BorrowDate)
		if s == "" {
			r.BorrowDate = nil
		} else {
			r.BorrowDate = &s
		}
	}
}

// Parse mengembalikan map field → pesan kalau ada tanggal/uuid yang tidak valid.
func (r *CreateBorrowingRequest) Parse() (ParsedCreate, map[string][]string) {
	var out ParsedCreate
	errs := map[string][]string{}

	id, err := uuid.Parse(r.BookID)
	if err != nil {
		errs["book_id"] = []string{"must be a valid UUID"}
	}
	out.BookID = id

	if r.BorrowDate != nil {
		d, err := dbtime.ParseDate(*r.BorrowDate)
		if err != nil {
			errs["borrow_date"] = []string{err.Error()}
		}
		out.BorrowDate = d
	}

	exp, err := dbtime.ParseDate(r.ExpectedReturnDate)
	if err != nil {
		errs["expected_return_date"] = []string{err.Error()}
	}
	out.ExpectedReturnDate = exp

	if len(errs) > 0 {
		return out, errs
	}
	return out, nil
}

func (r *ReturnBorrowingRequest) Parse() (time.Time, error) {
	if r.ActualReturnDate == nil || strings.TrimSpace(*r.ActualReturnDate) == "" {
		return time.Time{}, nil
	}
	d, err := dbtime.ParseDate(*r.ActualReturnDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("actual_return_date: %w", err)
	}
	return d, nil
}

// =======================
// Response DTO
// =======================

type BookBrief struct {
	BookID     uuid.UUID `json:"book_id"`
	BookTitle  string    `json:"book_title"`
	BookAuthor string    `json:"book_author"`
}

type UserBrief struct {
	CustomerID       uuid.UUID `json:"customer_id"`
	CustomerFullName string    `json:"customer_full_name"`
}

type BorrowingResponse struct {
	BorrowingID                 uuid.UUID `json:"borrowing_id"`
	BorrowingBorrowDate         string    `json:"borrowing_borrow_date"`
	BorrowingExpectedReturnDate string    `json:"borrowing_expected_return_date"`
	BorrowingActualReturnDate   *string   `json:"borrowing_actual_return_date"`
	BorrowingStatus             string    `json:"borrowing_status"`
	BorrowingIsActive           bool      `json:"borrowing_is_active"`

	BorrowingBookID uuid.UUID  `json:"borrowing_book_id"`
	BorrowingUserID uuid.UUID  `json:"borrowing_user_id"`
	Book            *BookBrief `json:"book,omitempty"`
	User            *UserBrief `json:"user,omitempty"`

	BorrowingCreatedAt time.Time `json:"borrowing_created_at"`
	BorrowingUpdatedAt time.Time `json:"borrowing_updated_at"`
}

func FromModel(m *model.BorrowingModel) BorrowingResponse {
	resp := BorrowingResponse{
		BorrowingID:                 m.BorrowingID,
		BorrowingBorrowDate:         dbtime.FormatDate(m.BorrowingBorrowDate),
		BorrowingExpectedReturnDate: dbtime.FormatDate(m.BorrowingExpectedReturnDate),
		BorrowingActualReturnDate:   dbtime.FormatDatePtr(m.BorrowingActualReturnDate),
		BorrowingStatus:             string(m.Status()),
		BorrowingIsActive:           m.IsOpen(),
		BorrowingBookID:             m.BorrowingBookID,
		BorrowingUserID:             m.BorrowingUserID,
		BorrowingCreatedAt:          m.BorrowingCreatedAt,
		BorrowingUpdatedAt:          m.BorrowingUpdatedAt,
	}
	if m.Book != nil {
		resp.Book = &BookBrief{BookID: m.Book.BookID, BookTitle: m.Book.BookTitle, BookAuthor: m.Book.BookAuthor}
	}
	if m.User != nil {
		resp.User = &UserBrief{CustomerID: m.User.CustomerID, CustomerFullName: m.User.CustomerFullName}
	}
	return resp
}

func FromModels(rows []model.BorrowingModel) []BorrowingResponse {
	out := make([]BorrowingResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
