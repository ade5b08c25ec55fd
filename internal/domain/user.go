package domain

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

type Customer struct {
	ID           int64  `json:"id"`
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"-"`
	// Running total of verified advance payments, in whole currency units.
	// Only ever incremented, inside the payment verification transaction.
	Expenditure int64     `json:"expenditure"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Vendor struct {
	ID           int64  `json:"id"`
	Name         string `json:"name" validate:"required"`
	BusinessName string `json:"business_name"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"-"`
	// UPI payee id in name@bank format; payment intents are addressed to it.
	UPIID     string    `json:"upi_id"`
	Revenue   int64     `json:"revenue"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Admin struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
