package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	bookModel "library_backend/internals/features/books/model"
	customerModel "library_backend/internals/features/customers/model"
)

type BorrowingStatus string

const (
	BorrowingOpen     BorrowingStatus = "open"
	BorrowingReturned BorrowingStatus = "returned"
)

// BorrowingModel: satu eksemplar dipinjam satu customer.
// borrowing_actual_return_date NULL = masih OPEN.
type BorrowingModel struct {
	BorrowingID                 uuid.UUID       `gorm:"type:uuid;primaryKey;column:borrowing_id" json:"borrowing_id"`
	BorrowingBorrowDate         datatypes.Date  `gorm:"not null;index;column:borrowing_borrow_date" json:"borrowing_borrow_date"`
	BorrowingExpectedReturnDate datatypes.Date  `gorm:"not null;column:borrowing_expected_return_date;check:chk_borrowing_expected_return_date,borrowing_expected_return_date >= borrowing_borrow_date" json:"borrowing_expected_return_date"`
	BorrowingActualReturnDate   *datatypes.Date `gorm:"column:borrowing_actual_return_date;check:chk_borrowing_actual_return_date,borrowing_actual_return_date IS NULL OR borrowing_actual_return_date >= borrowing_borrow_date" json:"borrowing_actual_return_date,omitempty"`

	BorrowingBookID uuid.UUID `gorm:"type:uuid;not null;index;column:borrowing_book_id" json:"borrowing_book_id"`
	BorrowingUserID uuid.UUID `gorm:"type:uuid;not null;index;column:borrowing_user_id" json:"borrowing_user_id"`

	Book *bookModel.BookModel         `gorm:"foreignKey:BorrowingBookID;references:BookID;constraint:OnDelete:CASCADE" json:"book,omitempty"`
	User *customerModel.CustomerModel `gorm:"foreignKey:BorrowingUserID;references:CustomerID;constraint:OnDelete:CASCADE" json:"user,omitempty"`

	BorrowingCreatedAt time.Time `gorm:"column:borrowing_created_at;autoCreateTime" json:"borrowing_created_at"`
	BorrowingUpdatedAt time.Time `gorm:"column:borrowing_updated_at;autoUpdateTime" json:"borrowing_updated_at"`
}

func (BorrowingModel) TableName() string { return "borrowings" }

func (m *BorrowingModel) BeforeCreate(tx *gorm.DB) error {
	if m.BorrowingID == uuid.Nil {
		m.BorrowingID = uuid.New()
	}
	return nil
}

func (m *BorrowingModel) Status() BorrowingStatus {
	if m.BorrowingActualReturnDate == nil {
		return BorrowingOpen
	}
	return BorrowingReturned
}

func (m *BorrowingModel) IsOpen() bool { return m.Status() == BorrowingOpen }
