// file: internals/features/books/dto/books_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	model "library_backend/internals/features/books/model"
)

// =======================
// Request DTO
// =======================

type CreateBookRequest struct {
	BookTitle     string  `json:"book_title"      validate:"required,max=255"`
	BookAuthor    string  `json:"book_author"     validate:"required,max=255"`
	BookCover     string  `json:"book_cover"      validate:"required,oneof=hard soft"`
	BookInventory int     `json:"book_inventory"  validate:"gte=0"`
	BookDailyFee  float64 `json:"book_daily_fee"  validate:"gte=0"`
}

// pointer: bedakan "tidak dikirim" vs nilai nol
type UpdateBookRequest struct {
	BookTitle     *string  `json:"book_title,omitempty"     validate:"omitempty,min=1,max=255"`
	BookAuthor    *string  `json:"book_author,omitempty"    validate:"omitempty,min=1,max=255"`
	BookCover     *string  `json:"book_cover,omitempty"     validate:"omitempty,oneof=hard soft"`
	BookInventory *int     `json:"book_inventory,omitempty" validate:"omitempty,gte=0"`
	BookDailyFee  *float64 `json:"book_daily_fee,omitempty" validate:"omitempty,gte=0"`
}

func (r *CreateBookRequest) Normalize() {
	r.BookTitle = strings.TrimSpace(r.BookTitle)
	r.BookAuthor = strings.TrimSpace(r.BookAuthor)
	r.BookCover = strings.ToLower(strings.TrimSpace(r.BookCover))
}

func (r *CreateBookRequest) ToModel() model.BookModel {
	return model.BookModel{
		BookTitle:     r.BookTitle,
		BookAuthor:    r.BookAuthor,
		BookCover:     model.BookCover(r.BookCover),
		BookInventory: r.BookInventory,
		BookDailyFee:  r.BookDailyFee,
	}
}

func (r *UpdateBookRequest) Normalize() {
	trim := func(p *string) {
		if p != nil {
			s := strings.TrimSpace(*p)
			*p = s
		}
	}
	trim(r.BookTitle)
	trim(r.BookAuthor)
	if r.BookCover != nil {
		s := strings.ToLower(strings.TrimSpace(*r.BookCover))
		r.BookCover = &s
	}
}

// ToUpdateMap: hanya kolom yang dikirim.
func (r *UpdateBookRequest) ToUpdateMap() map[string]any {
	m := map[string]any{}
	if r.BookTitle != nil {
		m["book_title"] = *r.BookTitle
	}
	if r.BookAuthor != nil {
		m["book_author"] = *r.BookAuthor
	}
	if r.BookCover != nil {
		m["book_cover"] = *r.BookCover
	}
	if r.BookInventory != nil {
		m["book_inventory"] = *r.BookInventory
	}
	if r.BookDailyFee != nil {
		m["book_daily_fee"] = *r.BookDailyFee
	}
	return m
}

// =======================
// Query DTO
// =======================

type ListBooksQuery struct {
	Q     string `query:"q"`
	Cover string `query:"cover" validate:"omitempty,oneof=hard soft"`
}

// =======================
// Response DTO
// =======================

type BookResponse struct {
	BookID        uuid.UUID `json:"book_id"`
	BookTitle     string    `json:"book_title"`
	BookAuthor    string    `json:"book_author"`
	BookCover     string    `json:"book_cover"`
	BookInventory int       `json:"book_inventory"`
	BookDailyFee  float64   `json:"book_daily_fee"`
	BookCreatedAt time.Time `json:"book_created_at"`
	BookUpdatedAt time.Time `json:"book_updated_at"`
}

func FromModel(m model.BookModel) BookResponse {
	return BookResponse{
		BookID:        m.BookID,
		BookTitle:     m.BookTitle,
		BookAuthor:    m.BookAuthor,
		BookCover:     string(m.BookCover),
		BookInventory: m.BookInventory,
		BookDailyFee:  m.BookDailyFee,
		BookCreatedAt: m.BookCreatedAt,
		BookUpdatedAt: m.BookUpdatedAt,
	}
}

func FromModels(rows []model.BookModel) []BookResponse {
	out := make([]BookResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromModel(r))
	}
	return out
}
