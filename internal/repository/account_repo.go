package repository

import (
	"context"
	"time"

	"eventgenie/internal/domain"

	"gorm.io/gorm"
)

// AccountRepository holds the customer, vendor and admin records.
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

type customerModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	Phone        string    `gorm:"column:phone"`
	PasswordHash string    `gorm:"column:password_hash"`
	Expenditure  int64     `gorm:"column:expenditure;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (customerModel) TableName() string { return "customers" }

type vendorModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name"`
	BusinessName string    `gorm:"column:business_name"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	Phone        string    `gorm:"column:phone"`
	PasswordHash string    `gorm:"column:password_hash"`
	UPIID        string    `gorm:"column:upi_id"`
	Revenue      int64     `gorm:"column:revenue;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (vendorModel) TableName() string { return "vendors" }

type adminModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (adminModel) TableName() string { return "admins" }

func toDomainCustomer(m customerModel) *domain.Customer {
	return &domain.Customer{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Phone:        m.Phone,
		PasswordHash: m.PasswordHash,
		Expenditure:  m.Expenditure,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toDomainVendor(m vendorModel) *domain.Vendor {
	return &domain.Vendor{
		ID:           m.ID,
		Name:         m.Name,
		BusinessName: m.BusinessName,
		Email:        m.Email,
		Phone:        m.Phone,
		PasswordHash: m.PasswordHash,
		UPIID:        m.UPIID,
		Revenue:      m.Revenue,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toDomainAdmin(m adminModel) *domain.Admin {
	return &domain.Admin{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (r *AccountRepository) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	m := customerModel{Name: c.Name, Email: c.Email, Phone: c.Phone, PasswordHash: c.PasswordHash}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	*c = *toDomainCustomer(m)
	return nil
}

func (r *AccountRepository) CreateVendor(ctx context.Context, v *domain.Vendor) error {
	m := vendorModel{
		Name:         v.Name,
		BusinessName: v.BusinessName,
		Email:        v.Email,
		Phone:        v.Phone,
		PasswordHash: v.PasswordHash,
		UPIID:        v.UPIID,
	}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	*v = *toDomainVendor(m)
	return nil
}

func (r *AccountRepository) CreateAdmin(ctx context.Context, a *domain.Admin) error {
	m := adminModel{Name: a.Name, Email: a.Email, PasswordHash: a.PasswordHash}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	*a = *toDomainAdmin(m)
	return nil
}

func (r *AccountRepository) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	var m customerModel
	if tx := r.db.WithContext(ctx).First(&m, id); tx.Error != nil {
		return nil, translateNotFound(tx.Error)
	}
	return toDomainCustomer(m), nil
}

func (r *AccountRepository) GetVendor(ctx context.Context, id int64) (*domain.Vendor, error) {
	var m vendorModel
	if tx := r.db.WithContext(ctx).First(&m, id); tx.Error != nil {
		return nil, translateNotFound(tx.Error)
	}
	return toDomainVendor(m), nil
}

func (r *AccountRepository) GetAdmin(ctx context.Context, id int64) (*domain.Admin, error) {
	var m adminModel
	if tx := r.db.WithContext(ctx).First(&m, id); tx.Error != nil {
		return nil, translateNotFound(tx.Error)
	}
	return toDomainAdmin(m), nil
}

func (r *AccountRepository) GetCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var m customerModel
	if tx := r.db.WithContext(ctx).Where("email = ?", email).First(&m); tx.Error != nil {
		return nil, translateNotFound(tx.Error)
	}
	return toDomainCustomer(m), nil
}

func (r *AccountRepository) GetVendorByEmail(ctx context.Context, email string) (*domain.Vendor, error) {
	var m vendorModel
	if tx := r.db.WithContext(ctx).Where("email = ?", email).First(&m); tx.Error != nil {
		return nil, translateNotFound(tx.Error)
	}
	return toDomainVendor(m), nil
}

func (r *AccountRepository) GetAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var m adminModel
	if tx := r.db.WithContext(ctx).Where("email = ?", email).First(&m); tx.Error != nil {
		return nil, translateNotFound(tx.Error)
	}
	return toDomainAdmin(m), nil
}
