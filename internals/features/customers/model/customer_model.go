package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CustomerModel = pengguna perpustakaan (peminjam / staf).
type CustomerModel struct {
	CustomerID       uuid.UUID `gorm:"type:uuid;primaryKey;column:customer_id"                       json:"customer_id"`
	CustomerEmail    string    `gorm:"type:varchar(255);not null;uniqueIndex;column:customer_email"  json:"customer_email"`
	CustomerFullName string    `gorm:"type:varchar(255);not null;column:customer_full_name"          json:"customer_full_name"`
	CustomerPassword string    `gorm:"type:varchar(255);not null;column:customer_password"           json:"-"`
	CustomerIsStaff  bool      `gorm:"not null;default:false;column:customer_is_staff"               json:"customer_is_staff"`
	CustomerIsActive bool      `gorm:"not null;default:true;column:customer_is_active"               json:"customer_is_active"`

	CustomerCreatedAt time.Time `gorm:"column:customer_created_at;autoCreateTime" json:"customer_created_at"`
	CustomerUpdatedAt time.Time `gorm:"column:customer_updated_at;autoUpdateTime" json:"customer_updated_at"`
}

func (CustomerModel) TableName() string { return "customers" }

func (m *CustomerModel) BeforeCreate(tx *gorm.DB) error {
	if m.CustomerID == uuid.Nil {
		m.CustomerID = uuid.New()
	}
	return nil
}

// SetPassword menyimpan hash bcrypt, bukan plaintext.
func (m *CustomerModel) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	m.CustomerPassword = string(hash)
	return nil
}

func (m *CustomerModel) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(m.CustomerPassword), []byte(plain)) == nil
}
