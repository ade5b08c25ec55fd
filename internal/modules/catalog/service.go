package catalog

import (
	"context"
	"errors"

	"eventgenie/internal/domain"
)

var (
	ErrInvalidCategory = errors.New("unknown service category")
	ErrInvalidPrice    = errors.New("price must be positive")
)

type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) error
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	ListByVendor(ctx context.Context, vendorID int64) ([]domain.Service, error)
	ListByCategory(ctx context.Context, category domain.ServiceCategory) ([]domain.Service, error)
	BlockedDates(ctx context.Context, serviceID int64) ([]string, error)
}

// Service manages the vendor-facing catalog of bookable offerings.
type Service struct {
	services ServiceRepository
}

func NewService(services ServiceRepository) *Service {
	return &Service{services: services}
}

type CreateServiceRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"required"`
}

func (s *Service) Create(ctx context.Context, vendorID int64, req CreateServiceRequest) (*domain.Service, error) {
	category := domain.ServiceCategory(req.Category)
	if !domain.ValidCategory(category) {
		return nil, ErrInvalidCategory
	}
	if req.Price <= 0 {
		return nil, ErrInvalidPrice
	}

	svc := &domain.Service{
		VendorID:    vendorID,
		Name:        req.Name,
		Category:    category,
		Description: req.Description,
		Price:       req.Price,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	return s.services.GetByID(ctx, id)
}

func (s *Service) ListByVendor(ctx context.Context, vendorID int64) ([]domain.Service, error) {
	return s.services.ListByVendor(ctx, vendorID)
}

// Browse lists the catalog, optionally narrowed to one category.
func (s *Service) Browse(ctx context.Context, category string) ([]domain.Service, error) {
	if category == "" {
		return s.services.ListByCategory(ctx, "")
	}
	cat := domain.ServiceCategory(category)
	if !domain.ValidCategory(cat) {
		return nil, ErrInvalidCategory
	}
	return s.services.ListByCategory(ctx, cat)
}

// BlockedDates returns the dates already reserved for a service.
func (s *Service) BlockedDates(ctx context.Context, serviceID int64) ([]string, error) {
	if _, err := s.services.GetByID(ctx, serviceID); err != nil {
		return nil, err
	}
	return s.services.BlockedDates(ctx, serviceID)
}
