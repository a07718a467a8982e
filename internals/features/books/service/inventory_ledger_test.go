package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"library_backend/internals/databases/dbtest"
	bookModel "library_backend/internals/features/books/model"
	"library_backend/internals/features/books/service"
)

func givenBook(t *testing.T, db *gorm.DB, inventory int) bookModel.BookModel {
	t.Helper()
	b := bookModel.BookModel{
		BookTitle:     "Dune",
		BookAuthor:    "Frank Herbert",
		BookCover:     bookModel.BookCoverSoft,
		BookInventory: inventory,
		BookDailyFee:  0.5,
	}
	require.NoError(t, db.Create(&b).Error)
	return b
}

func inventoryOf(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var b bookModel.BookModel
	require.NoError(t, db.First(&b, "book_id = ?", id).Error)
	return b.BookInventory
}

func Test_Decrement_ReducesInventoryByOne(t *testing.T) {
	db := dbtest.Open(t)
	book := givenBook(t, db, 3)
	ledger := service.NewInventoryLedger()

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Decrement(tx, book.BookID)
	})

	require.NoError(t, err)
	assert.Equal(t, 2, inventoryOf(t, db, book.BookID))
}

func Test_Decrement_OutOfStock_LeavesInventoryUnchanged(t *testing.T) {
	db := dbtest.Open(t)
	book := givenBook(t, db, 0)
	ledger := service.NewInventoryLedger()

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Decrement(tx, book.BookID)
	})

	assert.ErrorIs(t, err, service.ErrOutOfStock)
	assert.Equal(t, 0, inventoryOf(t, db, book.BookID))
}

func Test_Decrement_UnknownBook(t *testing.T) {
	db := dbtest.Open(t)
	ledger := service.NewInventoryLedger()

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Decrement(tx, uuid.New())
	})

	assert.ErrorIs(t, err, service.ErrBookNotFound)
}

func Test_Increment(t *testing.T) {
	db := dbtest.Open(t)
	book := givenBook(t, db, 0)
	ledger := service.NewInventoryLedger()

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return ledger.Increment(tx, book.BookID)
	}))
	assert.Equal(t, 1, inventoryOf(t, db, book.BookID))

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Increment(tx, uuid.New())
	})
	assert.ErrorIs(t, err, service.ErrBookNotFound)
}

func Test_Decrement_RolledBackWithCallerTransaction(t *testing.T) {
	db := dbtest.Open(t)
	book := givenBook(t, db, 1)
	ledger := service.NewInventoryLedger()

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := ledger.Decrement(tx, book.BookID); err != nil {
			return err
		}
		return assert.AnError // penulisan berikutnya gagal → seluruh tx batal
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, inventoryOf(t, db, book.BookID))
}
