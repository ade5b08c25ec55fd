package auth

import (
	"context"
	"errors"
	"strings"

	"eventgenie/internal/domain"
	"eventgenie/internal/modules/payment"
	"eventgenie/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type jwtService interface {
	GenerateToken(userID int64, role, name string) (string, error)
}

// Service contains registration and login logic for all three account types.
type Service struct {
	accounts AccountRepository
	jwt      jwtService
}

type LoginResult struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func NewService(accounts AccountRepository, jwt jwtService) *Service {
	return &Service{accounts: accounts, jwt: jwt}
}

func (s *Service) RegisterCustomer(ctx context.Context, req RegisterCustomerRequest) (*domain.Customer, error) {
	email := normalizeEmail(req.Email)
	if err := s.ensureCustomerEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	customer := &domain.Customer{
		Name:         req.Name,
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: hash,
	}
	if err := s.accounts.CreateCustomer(ctx, customer); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	customer.PasswordHash = ""
	return customer, nil
}

func (s *Service) RegisterVendor(ctx context.Context, req RegisterVendorRequest) (*domain.Vendor, error) {
	email := normalizeEmail(req.Email)
	if err := s.ensureVendorEmailFree(ctx, email); err != nil {
		return nil, err
	}
	if !payment.ValidateUPIID(req.UPIID) {
		return nil, ErrInvalidUPIID
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	vendor := &domain.Vendor{
		Name:         req.Name,
		BusinessName: req.BusinessName,
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: hash,
		UPIID:        req.UPIID,
	}
	if err := s.accounts.CreateVendor(ctx, vendor); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	vendor.PasswordHash = ""
	return vendor, nil
}

func (s *Service) LoginCustomer(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	customer, err := s.accounts.GetCustomerByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, credentialError(err)
	}
	if err := checkPassword(customer.PasswordHash, req.Password); err != nil {
		return nil, err
	}
	return s.issue(customer.ID, domain.RoleCustomer, customer.Name, customer.Email)
}

func (s *Service) LoginVendor(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	vendor, err := s.accounts.GetVendorByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, credentialError(err)
	}
	if err := checkPassword(vendor.PasswordHash, req.Password); err != nil {
		return nil, err
	}
	return s.issue(vendor.ID, domain.RoleVendor, vendor.Name, vendor.Email)
}

func (s *Service) LoginAdmin(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	admin, err := s.accounts.GetAdminByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, credentialError(err)
	}
	if err := checkPassword(admin.PasswordHash, req.Password); err != nil {
		return nil, err
	}
	return s.issue(admin.ID, domain.RoleAdmin, admin.Name, admin.Email)
}

// CurrentUser resolves the authenticated identity back to its account record.
func (s *Service) CurrentUser(ctx context.Context, userID int64, role domain.Role) (any, error) {
	switch role {
	case domain.RoleCustomer:
		c, err := s.accounts.GetCustomer(ctx, userID)
		if err != nil {
			return nil, err
		}
		c.PasswordHash = ""
		return c, nil
	case domain.RoleVendor:
		v, err := s.accounts.GetVendor(ctx, userID)
		if err != nil {
			return nil, err
		}
		v.PasswordHash = ""
		return v, nil
	case domain.RoleAdmin:
		a, err := s.accounts.GetAdmin(ctx, userID)
		if err != nil {
			return nil, err
		}
		a.PasswordHash = ""
		return a, nil
	default:
		return nil, ErrInvalidCredentials
	}
}

func (s *Service) issue(id int64, role domain.Role, name, email string) (*LoginResult, error) {
	token, err := s.jwt.GenerateToken(id, string(role), name)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Role: string(role), ID: id, Name: name, Email: email}, nil
}

func (s *Service) ensureCustomerEmailFree(ctx context.Context, email string) error {
	_, err := s.accounts.GetCustomerByEmail(ctx, email)
	return emailFree(err)
}

func (s *Service) ensureVendorEmailFree(ctx context.Context, email string) error {
	_, err := s.accounts.GetVendorByEmail(ctx, email)
	return emailFree(err)
}

func emailFree(err error) error {
	if err == nil {
		return ErrEmailAlreadyExists
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}

func credentialError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidCredentials
	}
	return err
}

func checkPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
