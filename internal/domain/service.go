package domain

import "time"

type ServiceCategory string

const (
	CategoryVenue         ServiceCategory = "Venue"
	CategoryCatering      ServiceCategory = "Catering"
	CategoryDecor         ServiceCategory = "Decor"
	CategoryEntertainment ServiceCategory = "Entertainment"
)

func ValidCategory(c ServiceCategory) bool {
	switch c {
	case CategoryVenue, CategoryCatering, CategoryDecor, CategoryEntertainment:
		return true
	}
	return false
}

// Service is a bookable offering published by a vendor.
type Service struct {
	ID          int64           `json:"id"`
	VendorID    int64           `json:"vendor_id" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Category    ServiceCategory `json:"category" validate:"required"`
	Description string          `json:"description,omitempty"`
	// Price in whole currency units.
	Price     int64     `json:"price" validate:"required,gte=0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
