package auth

import (
	"context"

	"eventgenie/internal/domain"
)

type AccountRepository interface {
	CreateCustomer(ctx context.Context, c *domain.Customer) error
	CreateVendor(ctx context.Context, v *domain.Vendor) error
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	GetVendor(ctx context.Context, id int64) (*domain.Vendor, error)
	GetAdmin(ctx context.Context, id int64) (*domain.Admin, error)
	GetCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error)
	GetVendorByEmail(ctx context.Context, email string) (*domain.Vendor, error)
	GetAdminByEmail(ctx context.Context, email string) (*domain.Admin, error)
}
