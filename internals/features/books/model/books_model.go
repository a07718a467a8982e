package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookCover string

const (
	BookCoverHard BookCover = "hard"
	BookCoverSoft BookCover = "soft"
)

func (c BookCover) Valid() bool {
	return c == BookCoverHard || c == BookCoverSoft
}

// BookModel: book_inventory = jumlah eksemplar yang masih bisa dipinjam.
type BookModel struct {
	BookID        uuid.UUID `gorm:"type:uuid;primaryKey;column:book_id"                                                    json:"book_id"`
	BookTitle     string    `gorm:"type:varchar(255);not null;column:book_title"                                           json:"book_title"`
	BookAuthor    string    `gorm:"type:varchar(255);not null;column:book_author"                                          json:"book_author"`
	BookCover     BookCover `gorm:"type:varchar(8);not null;column:book_cover;check:chk_book_cover,book_cover IN ('hard','soft')" json:"book_cover"`
	BookInventory int       `gorm:"not null;default:0;column:book_inventory;check:chk_book_inventory,book_inventory >= 0"  json:"book_inventory"`
	BookDailyFee  float64   `gorm:"type:numeric(10,2);not null;default:0;column:book_daily_fee;check:chk_book_daily_fee,book_daily_fee >= 0" json:"book_daily_fee"`

	BookCreatedAt time.Time `gorm:"column:book_created_at;autoCreateTime" json:"book_created_at"`
	BookUpdatedAt time.Time `gorm:"column:book_updated_at;autoUpdateTime" json:"book_updated_at"`
}

func (BookModel) TableName() string { return "books" }

func (m *BookModel) BeforeCreate(tx *gorm.DB) error {
	if m.BookID == uuid.Nil {
		m.BookID = uuid.New()
	}
	return nil
}

// String dipakai di log katalog & peminjaman.
func (m *BookModel) String() string {
	return `"` + m.BookTitle + `" by ` + m.BookAuthor
}
