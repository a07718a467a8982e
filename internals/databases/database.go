package database

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	_ "github.com/lib/pq" // driver "postgres" untuk DB_DRIVER=postgres
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"library_backend/internals/configs"
	bookModel "library_backend/internals/features/books/model"
	borrowingModel "library_backend/internals/features/borrowings/model"
	customerModel "library_backend/internals/features/customers/model"
)

// DSN dengan statement_timeout supaya query macet tidak menahan row lock terlalu lama.
func DSN(cfg configs.Config) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.DBUser, cfg.DBPassword),
		Host:   cfg.DBHost + ":" + cfg.DBPort,
		Path:   "/" + cfg.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", cfg.DBSSLMode)
	q.Set("application_name", "library_backend")
	q.Set("options", "-c statement_timeout=3000")
	u.RawQuery = q.Encode()
	return u.String()
}

func ConnectDB(cfg configs.Config) (*gorm.DB, error) {
	log.Printf("[DB] connecting to %s:%s/%s (driver=%s)", cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBDriver)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  DSN(cfg),
		DriverName:           cfg.DBDriver,
		PreferSimpleProtocol: true, // aman untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger: configs.NewGormLogger(cfg.DBLogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	log.Println("[DB] connected")
	return db, nil
}

func TunePool(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("[DB] pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// Models = semua tabel yang dikelola AutoMigrate, urut dari yang direferensikan.
func Models() []any {
	return []any{
		&customerModel.CustomerModel{},
		&bookModel.BookModel{},
		&borrowingModel.BorrowingModel{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Printf("[DB] migrated %d tables", len(Models()))
	return nil
}
