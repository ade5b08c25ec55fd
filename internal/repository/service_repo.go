package repository

import (
	"context"
	"time"

	"eventgenie/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

type serviceModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	VendorID    int64     `gorm:"column:vendor_id;index"`
	Name        string    `gorm:"column:name"`
	Category    string    `gorm:"column:category"`
	Description string    `gorm:"column:description;type:text"`
	Price       int64     `gorm:"column:price"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (serviceModel) TableName() string { return "services" }

// blockedDateModel is the availability index: one row per reserved
// (service, date) pair. The unique index makes Reserve idempotent and
// at-most-once across concurrent writers.
type blockedDateModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	ServiceID int64     `gorm:"column:service_id;uniqueIndex:idx_service_date"`
	EventDate string    `gorm:"column:event_date;size:10;uniqueIndex:idx_service_date"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (blockedDateModel) TableName() string { return "service_blocked_dates" }

func toDomainService(m serviceModel) *domain.Service {
	return &domain.Service{
		ID:          m.ID,
		VendorID:    m.VendorID,
		Name:        m.Name,
		Category:    domain.ServiceCategory(m.Category),
		Description: m.Description,
		Price:       m.Price,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	m := serviceModel{
		VendorID:    s.VendorID,
		Name:        s.Name,
		Category:    string(s.Category),
		Description: s.Description,
		Price:       s.Price,
	}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	*s = *toDomainService(m)
	return nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	var m serviceModel
	if tx := r.db.WithContext(ctx).First(&m, id); tx.Error != nil {
		return nil, translateNotFound(tx.Error)
	}
	return toDomainService(m), nil
}

func (r *ServiceRepository) ListByVendor(ctx context.Context, vendorID int64) ([]domain.Service, error) {
	var ms []serviceModel
	if tx := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID).Find(&ms); tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Service, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainService(m))
	}
	return out, nil
}

// ListByCategory returns the catalog for one category, or everything when
// the category is empty.
func (r *ServiceRepository) ListByCategory(ctx context.Context, category domain.ServiceCategory) ([]domain.Service, error) {
	q := r.db.WithContext(ctx).Model(&serviceModel{})
	if category != "" {
		q = q.Where("category = ?", string(category))
	}
	var ms []serviceModel
	if tx := q.Order("id").Find(&ms); tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Service, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainService(m))
	}
	return out, nil
}

func (r *ServiceRepository) IsDateBlocked(ctx context.Context, serviceID int64, date string) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&blockedDateModel{}).
		Where("service_id = ? AND event_date = ?", serviceID, date).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

func (r *ServiceRepository) BlockedDates(ctx context.Context, serviceID int64) ([]string, error) {
	var dates []string
	tx := r.db.WithContext(ctx).Model(&blockedDateModel{}).
		Where("service_id = ?", serviceID).
		Order("event_date").
		Pluck("event_date", &dates)
	return dates, tx.Error
}

// Reserve adds a date to the service's blocked set, idempotently.
func (r *ServiceRepository) Reserve(ctx context.Context, serviceID int64, date string) error {
	return reserveDateTx(r.db.WithContext(ctx), serviceID, date)
}

func reserveDateTx(tx *gorm.DB, serviceID int64, date string) error {
	m := blockedDateModel{ServiceID: serviceID, EventDate: date}
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&m).Error
	if err != nil && IsUniqueViolation(err) {
		return nil
	}
	return err
}
