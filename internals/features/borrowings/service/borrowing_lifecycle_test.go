package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"library_backend/internals/databases/dbtest"
	bookModel "library_backend/internals/features/books/model"
	bookService "library_backend/internals/features/books/service"
	"library_backend/internals/features/borrowings/service"
	customerModel "library_backend/internals/features/customers/model"
)

type notifierSpy struct {
	mu       sync.Mutex
	messages []string
}

func (n *notifierSpy) Notify(_ context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *notifierSpy) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

type fixture struct {
	db       *gorm.DB
	svc      *service.Lifecycle
	notifier *notifierSpy
	reader   service.Actor
	staff    service.Actor
}

var today = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

func setup(t *testing.T) fixture {
	t.Helper()
	db := dbtest.Open(t)
	spy := &notifierSpy{}

	reader := customerModel.CustomerModel{CustomerEmail: "ann@example.com", CustomerFullName: "Ann Reader", CustomerPassword: "x"}
	staff := customerModel.CustomerModel{CustomerEmail: "bob@example.com", CustomerFullName: "Bob Staff", CustomerPassword: "x", CustomerIsStaff: true}
	require.NoError(t, db.Create(&reader).Error)
	require.NoError(t, db.Create(&staff).Error)

	svc := service.NewLifecycle(db, bookService.NewInventoryLedger(), spy, time.UTC,
		service.WithClock(func() time.Time { return today.Add(9 * time.Hour) }))

	return fixture{
		db:       db,
		svc:      svc,
		notifier: spy,
		reader:   service.Actor{UserID: reader.CustomerID, FullName: reader.CustomerFullName},
		staff:    service.Actor{UserID: staff.CustomerID, FullName: staff.CustomerFullName, IsStaff: true},
	}
}

func (f fixture) givenBook(t *testing.T, title string, inventory int) bookModel.BookModel {
	t.Helper()
	b := bookModel.BookModel{
		BookTitle: title, BookAuthor: "Someone", BookCover: bookModel.BookCoverHard,
		BookInventory: inventory, BookDailyFee: 1.25,
	}
	require.NoError(t, f.db.Create(&b).Error)
	return b
}

func (f fixture) inventory(t *testing.T, id uuid.UUID) int {
	t.Helper()
	var b bookModel.BookModel
	require.NoError(t, f.db.First(&b, "book_id = ?", id).Error)
	return b.BookInventory
}

func (f fixture) borrow(t *testing.T, actor service.Actor, bookID uuid.UUID) uuid.UUID {
	t.Helper()
	rec, err := f.svc.Create(context.Background(), service.CreateInput{
		Actor: actor, BookID: bookID, ExpectedReturnDate: today.AddDate(0, 0, 7),
	})
	require.NoError(t, err)
	return rec.BorrowingID
}

func Test_Create_DecrementsInventory_AndReturnRestoresIt(t *testing.T) {
	f := setup(t)
	book := f.givenBook(t, "Dune", 3)

	rec, err := f.svc.Create(context.Background(), service.CreateInput{
		Actor: f.reader, BookID: book.BookID, ExpectedReturnDate: today.AddDate(0, 0, 14),
	})
	require.NoError(t, err)
	assert.True(t, rec.IsOpen())
	assert.Equal(t, 2, f.inventory(t, book.BookID))
	require.NotNil(t, rec.Book)
	assert.Equal(t, "Dune", rec.Book.BookTitle)
	require.NotNil(t, rec.User)
	assert.Equal(t, "Ann Reader", rec.User.CustomerFullName)

	returned, err := f.svc.Return(context.Background(), service.ReturnInput{
		Actor: f.reader, BorrowingID: rec.BorrowingID, ActualReturnDate: today.AddDate(0, 0, 5),
	})
	require.NoError(t, err)
	assert.False(t, returned.IsOpen())
	assert.Equal(t, 3, f.inventory(t, book.BookID))
}

func Test_Create_DefaultsBorrowDateToToday(t *testing.T) {
	f := setup(t)
	book := f.givenBook(t, "Dune", 1)

	rec, err := f.svc.Create(context.Background(), service.CreateInput{
		Actor: f.reader, BookID: book.BookID, ExpectedReturnDate: today,
	})
	require.NoError(t, err)
	assert.Equal(t, today, time.Time(rec.BorrowingBorrowDate).UTC())
}

func Test_Create_OutOfStock_LeavesInventoryUnchanged(t *testing.T) {
	f := setup(t)
	book := f.givenBook(t, "Dune", 0)

	_, err := f.svc.Create(context.Background(), service.CreateInput{
		Actor: f.reader, BookID: book.BookID, ExpectedReturnDate: today.AddDate(0, 0, 7),
	})

	assert.ErrorIs(t, err, service.ErrOutOfStock)
	assert.Equal(t, 0, f.inventory(t, book.BookID))

	var cnt int64
	require.NoError(t, f.db.Table("borrowings").Count(&cnt).Error)
	assert.Zero(t, cnt)
	assert.Empty(t, f.notifier.all())
}

func Test_Create_RejectsExpectedReturnBeforeBorrowDate(t *testing.T) {
	f := setup(t)
	book := f.givenBook(t, "Dune", 2)

	_, err := f.svc.Create(context.Background(), service.CreateInput{
		Actor:              f.reader,
		BookID:             book.BookID,
		BorrowDate:         today,
		ExpectedReturnDate: today.AddDate(0, 0, -1),
	})

	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Equal(t, 2, f.inventory(t, book.BookID))
}

func Test_Create_SameDayReturnIsAllowed(t *testing.T) {
	f := setup(t)
	book := f.givenBook(t, "Dune", 1)

	_, err := f.svc.Create(context.Background(), service.CreateInput{
		Actor: f.reader, BookID: book.BookID, BorrowDate: today, ExpectedReturnDate: today,
	})
	assert.NoError(t, err)
}

func Test_Create_MissingExpectedReturnDate(t *testing.T) {
	f := setup(t)
	book := f.givenBook(t, "Dune", 1)

	_, err := f.svc.Create(context.Background(), service.CreateInput{Actor: f.reader, BookID: book.BookID})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func Test_Create_UnknownBook(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Create(context.Background(), service.CreateInput{
		Actor: f.reader, BookID: uuid.New(), ExpectedReturnDate: today,
	})
	assert.ErrorIs(t, err, service.ErrBookNotFound)
}

func Test_Return_AlreadyReturned_LeavesInventoryUnchanged(t *testing.T) {
	f := setup(t)
	book := f.givenBook(t, "Dune", 1)
	id := f.borrow(t, f.reader, book.BookID)

	_, err := f.svc.Return(context.Background(), service.ReturnInput{Actor: f.reader, BorrowingID: id})
	require.NoError(t, err)
	require.Equal(t, 1, f.inventory(t, book.BookID))

	_, err = f.svc.Return(context.Background(), service.ReturnInput{Actor: f.reader, BorrowingID: id})
	assert.ErrorIs(t, err, service.ErrAlreadyReturned)
	assert.Equal(t, 1, f.inventory(t, book.BookID))
}

func Test_Return_RejectsDateBeforeBorrowDate(t *testing.T) {
	f := setup(t)
	book := f.givenBook(t, "Dune", 1)
	id := f.borrow(t, f.reader, book.BookID)

	_, err := f.svc.Return(context.Background(), service.ReturnInput{
		Actor: f.reader, BorrowingID: id, ActualReturnDate: today.AddDate(0, 0, -3),
	})

	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Equal(t, 0, f.inventory(t, book.BookID))

	rec, err := f.svc.Get(context.Background(), id, f.reader)
	require.NoError(t, err)
	assert.True(t, rec.IsOpen())
}

func Test_Return_OtherCustomersBorrowing_IsNotFound(t *testing.T) {
	f := setup(t)
	book := f.givenBook(t, "Dune", 1)
	id := f.borrow(t, f.staff, book.BookID)

	_, err := f.svc.Return(context.Background(), service.ReturnInput{Actor: f.reader, BorrowingID: id})
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Equal(t, 0, f.inventory(t, book.BookID))

	_, err = f.svc.Return(context.Background(), service.ReturnInput{Actor: f.reader, BorrowingID: uuid.New()})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func Test_Return_StaffMayReturnAnyBorrowing(t *testing.T) {
	f := setup(t)
	book := f.givenBook(t, "Dune", 1)
	id := f.borrow(t, f.reader, book.BookID)

	_, err := f.svc.Return(context.Background(), service.ReturnInput{Actor: f.staff, BorrowingID: id})
	require.NoError(t, err)
	assert.Equal(t, 1, f.inventory(t, book.BookID))
}

func Test_Notifications(t *testing.T) {
	f := setup(t)
	book := f.givenBook(t, "Dune", 1)
	id := f.borrow(t, f.reader, book.BookID)

	_, err := f.svc.Return(context.Background(), service.ReturnInput{
		Actor: f.reader, BorrowingID: id, ActualReturnDate: today.AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"2024-06-10: Dune was borrowed by Ann Reader (id=" + id.String() + ")",
		"2024-06-12: Dune was returned by Ann Reader (id=" + id.String() + ")",
	}, f.notifier.all())
}

func Test_List_FiltersAndScopes(t *testing.T) {
	f := setup(t)
	dune := f.givenBook(t, "Dune", 5)
	emma := f.givenBook(t, "Emma", 5)

	mine := f.borrow(t, f.reader, dune.BookID)
	returned := f.borrow(t, f.reader, emma.BookID)
	_, err := f.svc.Return(context.Background(), service.ReturnInput{Actor: f.reader, BorrowingID: returned})
	require.NoError(t, err)
	f.borrow(t, f.staff, dune.BookID)

	rows, total, err := f.svc.List(context.Background(), service.ListFilter{Actor: f.reader})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)

	active := true
	rows, total, err = f.svc.List(context.Background(), service.ListFilter{Actor: f.reader, IsActive: &active})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, mine, rows[0].BorrowingID)

	inactive := false
	_, total, err = f.svc.List(context.Background(), service.ListFilter{Actor: f.reader, IsActive: &inactive})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	// user_id diabaikan untuk non-staf
	other := f.staff.UserID
	_, total, err = f.svc.List(context.Background(), service.ListFilter{Actor: f.reader, UserID: &other})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	_, total, err = f.svc.List(context.Background(), service.ListFilter{Actor: f.staff})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	_, total, err = f.svc.List(context.Background(), service.ListFilter{Actor: f.staff, UserID: &other})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	rows, total, err = f.svc.List(context.Background(), service.ListFilter{Actor: f.staff, Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, rows, 1)
}

func Test_Get_ScopedToOwner(t *testing.T) {
	f := setup(t)
	book := f.givenBook(t, "Dune", 1)
	id := f.borrow(t, f.staff, book.BookID)

	_, err := f.svc.Get(context.Background(), id, f.reader)
	assert.ErrorIs(t, err, service.ErrNotFound)

	rec, err := f.svc.Get(context.Background(), id, f.staff)
	require.NoError(t, err)
	assert.Equal(t, id, rec.BorrowingID)
}

func Test_Create_ConcurrentBorrowsNeverOversellLastCopy(t *testing.T) {
	f := setup(t)
	book := f.givenBook(t, "Dune", 1)

	const workers = 8
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, workers)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.svc.Create(context.Background(), service.CreateInput{
				Actor: f.reader, BookID: book.BookID, ExpectedReturnDate: today.AddDate(0, 0, 7),
			})
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, outOfStock int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, service.ErrOutOfStock):
			outOfStock++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, outOfStock)
	assert.Equal(t, 0, f.inventory(t, book.BookID))

	var open int64
	require.NoError(t, f.db.Table("borrowings").Where("borrowing_actual_return_date IS NULL").Count(&open).Error)
	assert.EqualValues(t, 1, open)
	assert.Len(t, f.notifier.all(), 1)
}
