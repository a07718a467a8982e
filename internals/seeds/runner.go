package seeds

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	bookModel "library_backend/internals/features/books/model"
	bookService "library_backend/internals/features/books/service"
	borrowingService "library_backend/internals/features/borrowings/service"
	customerModel "library_backend/internals/features/customers/model"
	notifService "library_backend/internals/features/notifications/service"
	"library_backend/internals/helpers/dbtime"
)

const DefaultFixturesPath = "internals/seeds/data/library_fixtures.yaml"

type CustomerSeed struct {
	Email    string `yaml:"email"`
	FullName string `yaml:"full_name"`
	Password string `yaml:"password"`
	IsStaff  bool   `yaml:"is_staff"`
}

type BookSeed struct {
	Title     string  `yaml:"title"`
	Author    string  `yaml:"author"`
	Cover     string  `yaml:"cover"`
	Inventory int     `yaml:"inventory"`
	DailyFee  float64 `yaml:"daily_fee"`
}

// BorrowingSeed merujuk customer lewat email dan buku lewat judul.
type BorrowingSeed struct {
	Customer           string `yaml:"customer"`
	Book               string `yaml:"book"`
	BorrowDate         string `yaml:"borrow_date"`
	ExpectedReturnDate string `yaml:"expected_return_date"`
	ActualReturnDate   string `yaml:"actual_return_date"`
}

type Fixtures struct {
	Customers  []CustomerSeed  `yaml:"customers"`
	Books      []BookSeed      `yaml:"books"`
	Borrowings []BorrowingSeed `yaml:"borrowings"`
}

// Result dipakai CLI untuk mencetak token dev.
type Result struct {
	Customers  []customerModel.CustomerModel
	Books      int
	Borrowings int
}

func LoadFixtures(path string) (Fixtures, error) {
	log.Println("📥 Membaca file fixtures:", path)
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("read fixtures: %w", err)
	}
	var fx Fixtures
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return Fixtures{}, fmt.Errorf("decode fixtures: %w", err)
	}
	return fx, nil
}

// RunAllSeeds memuat fixtures dari path lalu menerapkannya.
func RunAllSeeds(ctx context.Context, db *gorm.DB, path string) (Result, error) {
	fx, err := LoadFixtures(path)
	if err != nil {
		return Result{}, err
	}
	return Apply(ctx, db, fx)
}

// Apply idempotent untuk customer & buku (yang sudah ada dilewati).
// Peminjaman hanya dibuat kalau tabel borrowings masih kosong, lewat
// lifecycle supaya stok buku ikut konsisten.
func Apply(ctx context.Context, db *gorm.DB, fx Fixtures) (Result, error) {
	var res Result

	customers := map[string]customerModel.CustomerModel{}
	for _, s := range fx.Customers {
		cust, err := seedCustomer(db, s)
		if err != nil {
			return res, err
		}
		customers[strings.ToLower(cust.CustomerEmail)] = cust
		res.Customers = append(res.Customers, cust)
	}

	books := map[string]bookModel.BookModel{}
	for _, s := range fx.Books {
		book, created, err := seedBook(db, s)
		if err != nil {
			return res, err
		}
		books[book.BookTitle] = book
		if created {
			res.Books++
		}
	}

	var existing int64
	if err := db.Table("borrowings").Count(&existing).Error; err != nil {
		return res, fmt.Errorf("count borrowings: %w", err)
	}
	if existing > 0 {
		log.Printf("ℹ️ Tabel borrowings sudah berisi %d baris, seed peminjaman dilewati.", existing)
		return res, nil
	}

	lifecycle := borrowingService.NewLifecycle(db, bookService.NewInventoryLedger(), notifService.NoopNotifier{}, nil)
	for i, s := range fx.Borrowings {
		if err := seedBorrowing(ctx, lifecycle, customers, books, s); err != nil {
			return res, fmt.Errorf("borrowing #%d: %w", i+1, err)
		}
		res.Borrowings++
	}

	log.Printf("✅ Seed selesai: %d customer, %d buku baru, %d peminjaman", len(res.Customers), res.Books, res.Borrowings)
	return res, nil
}

func seedCustomer(db *gorm.DB, s CustomerSeed) (customerModel.CustomerModel, error) {
	email := strings.ToLower(strings.TrimSpace(s.Email))
	var cust customerModel.CustomerModel
	err := db.Where("customer_email = ?", email).First(&cust).Error
	if err == nil {
		log.Printf("ℹ️ Customer dengan email '%s' sudah ada, dilewati.", email)
		return cust, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return cust, fmt.Errorf("lookup customer %s: %w", email, err)
	}

	cust = customerModel.CustomerModel{
		CustomerEmail:    email,
		CustomerFullName: strings.TrimSpace(s.FullName),
		CustomerIsStaff:  s.IsStaff,
		CustomerIsActive: true,
	}
	// 🔐 Hash password sebelum disimpan
	if err := cust.SetPassword(s.Password); err != nil {
		return cust, fmt.Errorf("hash password %s: %w", email, err)
	}
	if err := db.Create(&cust).Error; err != nil {
		return cust, fmt.Errorf("insert customer %s: %w", email, err)
	}
	log.Printf("✅ Berhasil insert customer '%s'", email)
	return cust, nil
}

func seedBook(db *gorm.DB, s BookSeed) (bookModel.BookModel, bool, error) {
	title := strings.TrimSpace(s.Title)
	var book bookModel.BookModel
	err := db.Where("book_title = ? AND book_author = ?", title, s.Author).First(&book).Error
	if err == nil {
		return book, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return book, false, fmt.Errorf("lookup book %q: %w", title, err)
	}

	cover := bookModel.BookCover(strings.ToLower(strings.TrimSpace(s.Cover)))
	if !cover.Valid() {
		return book, false, fmt.Errorf("book %q: invalid cover %q", title, s.Cover)
	}
	if s.Inventory < 0 || s.DailyFee < 0 {
		return book, false, fmt.Errorf("book %q: inventory and daily_fee must be >= 0", title)
	}
	book = bookModel.BookModel{
		BookTitle:     title,
		BookAuthor:    strings.TrimSpace(s.Author),
		BookCover:     cover,
		BookInventory: s.Inventory,
		BookDailyFee:  s.DailyFee,
	}
	if err := db.Create(&book).Error; err != nil {
		return book, false, fmt.Errorf("insert book %q: %w", title, err)
	}
	return book, true, nil
}

func seedBorrowing(
	ctx context.Context,
	lifecycle *borrowingService.Lifecycle,
	customers map[string]customerModel.CustomerModel,
	books map[string]bookModel.BookModel,
	s BorrowingSeed,
) error {
	cust, ok := customers[strings.ToLower(strings.TrimSpace(s.Customer))]
	if !ok {
		return fmt.Errorf("unknown customer %q", s.Customer)
	}
	book, ok := books[strings.TrimSpace(s.Book)]
	if !ok {
		return fmt.Errorf("unknown book %q", s.Book)
	}

	borrow, err := dbtime.ParseDate(s.BorrowDate)
	if err != nil {
		return err
	}
	expected, err := dbtime.ParseDate(s.ExpectedReturnDate)
	if err != nil {
		return err
	}

	actor := borrowingService.Actor{UserID: cust.CustomerID, FullName: cust.CustomerFullName, IsStaff: cust.CustomerIsStaff}
	rec, err := lifecycle.Create(ctx, borrowingService.CreateInput{
		Actor:              actor,
		BookID:             book.BookID,
		BorrowDate:         borrow,
		ExpectedReturnDate: expected,
	})
	if err != nil {
		return err
	}

	if strings.TrimSpace(s.ActualReturnDate) == "" {
		return nil
	}
	actual, err := dbtime.ParseDate(s.ActualReturnDate)
	if err != nil {
		return err
	}
	_, err = lifecycle.Return(ctx, borrowingService.ReturnInput{
		Actor:            actor,
		BorrowingID:      rec.BorrowingID,
		ActualReturnDate: actual,
	})
	return err
}
