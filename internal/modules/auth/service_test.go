package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"eventgenie/internal/pkg/jwt"
	"eventgenie/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

func setupAuthService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	return NewService(repository.NewAccountRepository(db), jwt.New("test-secret", time.Hour))
}

func TestRegisterCustomer_ThenLogin(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	customer, err := svc.RegisterCustomer(ctx, RegisterCustomerRequest{
		Name:     "Priya",
		Email:    "  Priya@Example.COM ",
		Password: "customer123",
	})
	require.NoError(t, err)
	assert.Equal(t, "priya@example.com", customer.Email)
	assert.Empty(t, customer.PasswordHash)

	result, err := svc.LoginCustomer(ctx, LoginRequest{Email: "priya@example.com", Password: "customer123"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "customer", result.Role)
	assert.Equal(t, customer.ID, result.ID)
}

func TestRegisterCustomer_DuplicateEmail(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	req := RegisterCustomerRequest{Name: "Priya", Email: "priya@example.com", Password: "customer123"}
	_, err := svc.RegisterCustomer(ctx, req)
	require.NoError(t, err)

	_, err = svc.RegisterCustomer(ctx, req)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestRegisterVendor_RejectsBadUPIID(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.RegisterVendor(context.Background(), RegisterVendorRequest{
		Name:     "Anita",
		Email:    "anita@example.com",
		Password: "vendor123",
		UPIID:    "not a upi id",
	})
	assert.ErrorIs(t, err, ErrInvalidUPIID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.RegisterCustomer(ctx, RegisterCustomerRequest{Name: "Priya", Email: "priya@example.com", Password: "customer123"})
	require.NoError(t, err)

	_, err = svc.LoginCustomer(ctx, LoginRequest{Email: "priya@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.LoginCustomer(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
