package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	database "library_backend/internals/databases"
	bookModel "library_backend/internals/features/books/model"
	bookService "library_backend/internals/features/books/service"
	model "library_backend/internals/features/borrowings/model"
	notifService "library_backend/internals/features/notifications/service"
	"library_backend/internals/helpers/dbtime"
)

// Actor = caller yang sudah lolos auth. Non-staf hanya boleh menyentuh
// peminjamannya sendiri.
type Actor struct {
	UserID   uuid.UUID
	FullName string
	IsStaff  bool
}

type CreateInput struct {
	Actor              Actor
	BookID             uuid.UUID
	BorrowDate         time.Time // zero → hari ini (zona perpustakaan)
	ExpectedReturnDate time.Time
}

type ReturnInput struct {
	Actor            Actor
	BorrowingID      uuid.UUID
	ActualReturnDate time.Time // zero → hari ini (zona perpustakaan)
}

type ListFilter struct {
	Actor    Actor
	IsActive *bool
	UserID   *uuid.UUID // hanya dipakai kalau actor staf
	Offset   int
	Limit    int
}

// Lifecycle: OPEN (actual_return_date NULL) → RETURNED (terminal).
type Lifecycle struct {
	db       *gorm.DB
	ledger   bookService.InventoryLedger
	notifier notifService.Notifier
	loc      *time.Location
	now      func() time.Time
}

type Option func(*Lifecycle)

func WithClock(now func() time.Time) Option {
	return func(l *Lifecycle) { l.now = now }
}

func NewLifecycle(db *gorm.DB, ledger bookService.InventoryLedger, notifier notifService.Notifier, loc *time.Location, opts ...Option) *Lifecycle {
	if loc == nil {
		loc = time.UTC
	}
	if notifier == nil {
		notifier = notifService.NoopNotifier{}
	}
	l := &Lifecycle{db: db, ledger: ledger, notifier: notifier, loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (s *Lifecycle) today() time.Time {
	return dbtime.Today(s.now(), s.loc)
}

/* =========================================================
   CREATE: validasi tanggal → lock buku → stok -1 → simpan OPEN
   ========================================================= */
func (s *Lifecycle) Create(ctx context.Context, in CreateInput) (*model.BorrowingModel, error) {
	borrowDate := s.today()
	if !in.BorrowDate.IsZero() {
		borrowDate = dbtime.DateOf(in.BorrowDate)
	}
	if in.ExpectedReturnDate.IsZero() {
		return nil, fmt.Errorf("%w: expected return date is required", ErrValidation)
	}
	expected := dbtime.DateOf(in.ExpectedReturnDate)
	if expected.Before(borrowDate) {
		return nil, fmt.Errorf("%w: expected return date should be greater or equal then borrow date", ErrValidation)
	}

	var rec model.BorrowingModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book bookModel.BookModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("book_id = ?", in.BookID).
			First(&book).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return fmt.Errorf("load book: %w", err)
		}

		if err := s.ledger.Decrement(tx, book.BookID); err != nil {
			return err
		}

		rec = model.BorrowingModel{
			BorrowingBorrowDate:         dbtime.ToDate(borrowDate),
			BorrowingExpectedReturnDate: dbtime.ToDate(expected),
			BorrowingBookID:             book.BookID,
			BorrowingUserID:             in.Actor.UserID,
		}
		if err := tx.Omit(clause.Associations).Create(&rec).Error; err != nil {
			return translateWriteError("create borrowing", err)
		}
		return loadFull(tx, &rec)
	})
	if err != nil {
		log.Printf("[Borrowings] Create FAIL book=%s user=%s err=%v", in.BookID, in.Actor.UserID, err)
		return nil, err
	}

	log.Printf("[Borrowings] Create OK id=%s book=%s user=%s", rec.BorrowingID, bookLabel(&rec), rec.BorrowingUserID)
	// setelah commit; Notify blocking, dibatasi TELEGRAM_TIMEOUT dan deadline request
	s.notifier.Notify(ctx, fmt.Sprintf("%s: %s was borrowed by %s (id=%s)",
		dbtime.FormatDate(rec.BorrowingBorrowDate), bookTitle(&rec), borrowerName(&rec, in.Actor), rec.BorrowingID))
	return &rec, nil
}

/* =========================================================
   RETURN: lock record → harus OPEN → validasi tanggal → stok +1
   ========================================================= */
func (s *Lifecycle) Return(ctx context.Context, in ReturnInput) (*model.BorrowingModel, error) {
	actual := s.today()
	if !in.ActualReturnDate.IsZero() {
		actual = dbtime.DateOf(in.ActualReturnDate)
	}

	var rec model.BorrowingModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := scopeToActor(tx, in.Actor).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("borrowing_id = ?", in.BorrowingID).
			First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load borrowing: %w", err)
		}

		if !rec.IsOpen() {
			return ErrAlreadyReturned
		}
		if actual.Before(dbtime.FromDate(rec.BorrowingBorrowDate)) {
			return fmt.Errorf("%w: actual return date should be greater or equal then borrow date", ErrValidation)
		}

		if err := s.ledger.Increment(tx, rec.BorrowingBookID); err != nil {
			return err
		}

		d := dbtime.ToDate(actual)
		if err := tx.Model(&model.BorrowingModel{}).
			Where("borrowing_id = ?", rec.BorrowingID).
			UpdateColumns(map[string]any{
				"borrowing_actual_return_date": d,
				"borrowing_updated_at":         time.Now(),
			}).Error; err != nil {
			return translateWriteError("return borrowing", err)
		}
		return loadFull(tx, &rec)
	})
	if err != nil {
		log.Printf("[Borrowings] Return FAIL id=%s user=%s err=%v", in.BorrowingID, in.Actor.UserID, err)
		return nil, err
	}

	log.Printf("[Borrowings] Return OK id=%s book=%s", rec.BorrowingID, bookLabel(&rec))
	s.notifier.Notify(ctx, fmt.Sprintf("%s: %s was returned by %s (id=%s)",
		dbtime.FormatDate(dbtime.ToDate(actual)), bookTitle(&rec), in.Actor.FullName, rec.BorrowingID))
	return &rec, nil
}

/* =========================================================
   READ
   ========================================================= */
func (s *Lifecycle) Get(ctx context.Context, id uuid.UUID, actor Actor) (*model.BorrowingModel, error) {
	var rec model.BorrowingModel
	err := scopeToActor(s.db.WithContext(ctx), actor).
		Preload("Book").Preload("User").
		Where("borrowing_id = ?", id).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get borrowing: %w", err)
	}
	return &rec, nil
}

func (s *Lifecycle) List(ctx context.Context, f ListFilter) ([]model.BorrowingModel, int64, error) {
	q := scopeToActor(s.db.WithContext(ctx).Model(&model.BorrowingModel{}), f.Actor)
	if f.Actor.IsStaff && f.UserID != nil {
		q = q.Where("borrowing_user_id = ?", *f.UserID)
	}
	if f.IsActive != nil {
		if *f.IsActive {
			q = q.Where("borrowing_actual_return_date IS NULL")
		} else {
			q = q.Where("borrowing_actual_return_date IS NOT NULL")
		}
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count borrowings: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	var rows []model.BorrowingModel
	if err := q.Preload("Book").Preload("User").
		Order("borrowing_borrow_date DESC").
		Order("borrowing_created_at DESC").
		Offset(f.Offset).Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list borrowings: %w", err)
	}
	return rows, total, nil
}

/* =========================================================
   helpers
   ========================================================= */

func scopeToActor(q *gorm.DB, actor Actor) *gorm.DB {
	if actor.IsStaff {
		return q
	}
	return q.Where("borrowing_user_id = ?", actor.UserID)
}

func loadFull(tx *gorm.DB, rec *model.BorrowingModel) error {
	if err := tx.Preload("Book").Preload("User").
		Where("borrowing_id = ?", rec.BorrowingID).
		First(rec).Error; err != nil {
		return fmt.Errorf("reload borrowing: %w", err)
	}
	return nil
}

// translateWriteError: CHECK tanggal di DB → ErrValidation, FK user → ErrNotFound.
func translateWriteError(op string, err error) error {
	if name, ok := database.CheckViolation(err); ok {
		return fmt.Errorf("%w: %s violated", ErrValidation, name)
	}
	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: referenced customer or book does not exist", ErrValidation)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func bookTitle(rec *model.BorrowingModel) string {
	if rec.Book != nil {
		return rec.Book.BookTitle
	}
	return rec.BorrowingBookID.String()
}

// bookLabel untuk log: judul + penulis kalau relasi Book sudah dimuat.
func bookLabel(rec *model.BorrowingModel) string {
	if rec.Book != nil {
		return rec.Book.String()
	}
	return rec.BorrowingBookID.String()
}

func borrowerName(rec *model.BorrowingModel, actor Actor) string {
	if rec.User != nil && rec.User.CustomerFullName != "" {
		return rec.User.CustomerFullName
	}
	return actor.FullName
}
