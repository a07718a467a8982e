package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookModel "library_backend/internals/features/books/model"
)

var (
	ErrOutOfStock   = errors.New("the book is out of stock")
	ErrBookNotFound = errors.New("book not found")
)

// InventoryLedger mengubah book_inventory hanya di dalam transaksi milik
// pemanggil, supaya hitungan stok selalu commit/rollback bareng record peminjaman.
type InventoryLedger interface {
	Decrement(tx *gorm.DB, bookID uuid.UUID) error
	Increment(tx *gorm.DB, bookID uuid.UUID) error
}

type inventoryLedger struct{}

func NewInventoryLedger() InventoryLedger {
	return &inventoryLedger{}
}

func (l *inventoryLedger) Decrement(tx *gorm.DB, bookID uuid.UUID) error {
	dec := tx.Model(&bookModel.BookModel{}).
		Where("book_id = ?", bookID).
		Where("book_inventory > 0").
		UpdateColumns(map[string]any{
			"book_inventory":  gorm.Expr("book_inventory - 1"),
			"book_updated_at": time.Now(),
		})
	if dec.Error != nil {
		log.Printf("[InventoryLedger] ERROR Decrement bookID=%s err=%v", bookID, dec.Error)
		return fmt.Errorf("decrement inventory: %w", dec.Error)
	}
	if dec.RowsAffected == 1 {
		log.Printf("[InventoryLedger] Decrement bookID=%s", bookID)
		return nil
	}

	// 0 row: buku tidak ada atau stok habis
	exists, err := bookExists(tx, bookID)
	if err != nil {
		return err
	}
	if !exists {
		log.Printf("[InventoryLedger] NOT FOUND Decrement bookID=%s", bookID)
		return ErrBookNotFound
	}
	log.Printf("[InventoryLedger] FAIL Decrement bookID=%s (out of stock)", bookID)
	return ErrOutOfStock
}

func (l *inventoryLedger) Increment(tx *gorm.DB, bookID uuid.UUID) error {
	inc := tx.Model(&bookModel.BookModel{}).
		Where("book_id = ?", bookID).
		UpdateColumns(map[string]any{
			"book_inventory":  gorm.Expr("book_inventory + 1"),
			"book_updated_at": time.Now(),
		})
	if inc.Error != nil {
		log.Printf("[InventoryLedger] ERROR Increment bookID=%s err=%v", bookID, inc.Error)
		return fmt.Errorf("increment inventory: %w", inc.Error)
	}
	if inc.RowsAffected == 0 {
		log.Printf("[InventoryLedger] NOT FOUND Increment bookID=%s", bookID)
		return ErrBookNotFound
	}
	log.Printf("[InventoryLedger] Increment bookID=%s", bookID)
	return nil
}

func bookExists(tx *gorm.DB, bookID uuid.UUID) (bool, error) {
	var cnt int64
	if err := tx.Model(&bookModel.BookModel{}).
		Where("book_id = ?", bookID).
		Count(&cnt).Error; err != nil {
		return false, fmt.Errorf("check book: %w", err)
	}
	return cnt > 0, nil
}
