package repository

import (
	"context"
	"time"

	"eventgenie/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID         int64 `gorm:"column:id;primaryKey"`
	CustomerID int64 `gorm:"column:customer_id;index:idx_bookings_customer_status"`
	VendorID   int64 `gorm:"column:vendor_id;index:idx_bookings_vendor_status"`
	ServiceID  int64 `gorm:"column:service_id"`

	EventDate string `gorm:"column:event_date;size:10"`

	TotalAmount   int64 `gorm:"column:total_amount"`
	AdvanceAmount int64 `gorm:"column:advance_amount"`
	AdvancePaid   bool  `gorm:"column:advance_paid"`

	UPITransactionID string `gorm:"column:upi_transaction_id"`

	AdvancePaymentExpiry *time.Time `gorm:"column:advance_payment_expiry;index"`
	Status               string     `gorm:"column:status;index:idx_bookings_customer_status;index:idx_bookings_vendor_status"`

	Notes       string `gorm:"column:notes;type:text"`
	VendorNotes string `gorm:"column:vendor_notes;type:text"`

	VendorApprovalDate       *time.Time `gorm:"column:vendor_approval_date"`
	AdvancePaymentDate       *time.Time `gorm:"column:advance_payment_date"`
	PaymentVerificationDate  *time.Time `gorm:"column:payment_verification_date"`
	PaymentVerificationNotes string     `gorm:"column:payment_verification_notes;type:text"`

	CustomerName  string `gorm:"column:customer_name"`
	CustomerEmail string `gorm:"column:customer_email"`
	CustomerPhone string `gorm:"column:customer_phone"`
	ServiceName   string `gorm:"column:service_name"`
	VendorName    string `gorm:"column:vendor_name"`

	Version int64 `gorm:"column:version;default:0"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		ID:                       m.ID,
		CustomerID:               m.CustomerID,
		VendorID:                 m.VendorID,
		ServiceID:                m.ServiceID,
		EventDate:                m.EventDate,
		TotalAmount:              m.TotalAmount,
		AdvanceAmount:            m.AdvanceAmount,
		AdvancePaid:              m.AdvancePaid,
		UPITransactionID:         m.UPITransactionID,
		AdvancePaymentExpiry:     m.AdvancePaymentExpiry,
		Status:                   domain.BookingStatus(m.Status),
		Notes:                    m.Notes,
		VendorNotes:              m.VendorNotes,
		VendorApprovalDate:       m.VendorApprovalDate,
		AdvancePaymentDate:       m.AdvancePaymentDate,
		PaymentVerificationDate:  m.PaymentVerificationDate,
		PaymentVerificationNotes: m.PaymentVerificationNotes,
		CustomerName:             m.CustomerName,
		CustomerEmail:            m.CustomerEmail,
		CustomerPhone:            m.CustomerPhone,
		ServiceName:              m.ServiceName,
		VendorName:               m.VendorName,
		Version:                  m.Version,
		CreatedAt:                m.CreatedAt,
		UpdatedAt:                m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:                       b.ID,
		CustomerID:               b.CustomerID,
		VendorID:                 b.VendorID,
		ServiceID:                b.ServiceID,
		EventDate:                b.EventDate,
		TotalAmount:              b.TotalAmount,
		AdvanceAmount:            b.AdvanceAmount,
		AdvancePaid:              b.AdvancePaid,
		UPITransactionID:         b.UPITransactionID,
		AdvancePaymentExpiry:     b.AdvancePaymentExpiry,
		Status:                   string(b.Status),
		Notes:                    b.Notes,
		VendorNotes:              b.VendorNotes,
		VendorApprovalDate:       b.VendorApprovalDate,
		AdvancePaymentDate:       b.AdvancePaymentDate,
		PaymentVerificationDate:  b.PaymentVerificationDate,
		PaymentVerificationNotes: b.PaymentVerificationNotes,
		CustomerName:             b.CustomerName,
		CustomerEmail:            b.CustomerEmail,
		CustomerPhone:            b.CustomerPhone,
		ServiceName:              b.ServiceName,
		VendorName:               b.VendorName,
		Version:                  b.Version,
		CreatedAt:                b.CreatedAt,
		UpdatedAt:                b.UpdatedAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	if tx := r.db.WithContext(ctx).First(&m, id); tx.Error != nil {
		return nil, translateNotFound(tx.Error)
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	return r.list(ctx, "customer_id = ?", customerID)
}

func (r *BookingRepository) ListByVendor(ctx context.Context, vendorID int64) ([]domain.Booking, error) {
	return r.list(ctx, "vendor_id = ?", vendorID)
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	var ms []bookingModel
	tx := r.db.WithContext(ctx).Where(query, args...).Order("created_at DESC").Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Booking, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// ListExpiredApproved returns approved, unpaid bookings whose payment window
// lapsed before now. Used by the expiry sweep; a full scan is fine at this
// data scale.
func (r *BookingRepository) ListExpiredApproved(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	var ms []bookingModel
	tx := r.db.WithContext(ctx).
		Where("status = ? AND advance_paid = ? AND advance_payment_expiry < ?",
			string(domain.BookingApproved), false, now).
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Booking, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// transition performs a compare-and-swap status update guarded by the
// booking's version. fields must not contain "version".
func transitionTx(tx *gorm.DB, id, version int64, fields map[string]any) error {
	fields["version"] = gorm.Expr("version + 1")
	res := tx.Model(&bookingModel{}).
		Where("id = ? AND version = ?", id, version).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *BookingRepository) transition(ctx context.Context, id, version int64, fields map[string]any) error {
	return transitionTx(r.db.WithContext(ctx), id, version, fields)
}

func (r *BookingRepository) Approve(ctx context.Context, b *domain.Booking, vendorNotes string, approvedAt time.Time, expiry time.Time) error {
	return r.transition(ctx, b.ID, b.Version, map[string]any{
		"status":                 string(domain.BookingApproved),
		"vendor_notes":           vendorNotes,
		"vendor_approval_date":   approvedAt,
		"advance_payment_expiry": expiry,
	})
}

func (r *BookingRepository) Reject(ctx context.Context, b *domain.Booking, vendorNotes string, decidedAt time.Time) error {
	return r.transition(ctx, b.ID, b.Version, map[string]any{
		"status":               string(domain.BookingRejected),
		"vendor_notes":         vendorNotes,
		"vendor_approval_date": decidedAt,
	})
}

func (r *BookingRepository) Cancel(ctx context.Context, b *domain.Booking) error {
	return r.transition(ctx, b.ID, b.Version, map[string]any{
		"status": string(domain.BookingCancelled),
	})
}

func (r *BookingRepository) RecordPaymentSubmission(ctx context.Context, b *domain.Booking, txnID string, submittedAt time.Time) error {
	return r.transition(ctx, b.ID, b.Version, map[string]any{
		"status":               string(domain.BookingPendingVerification),
		"upi_transaction_id":   txnID,
		"advance_payment_date": submittedAt,
	})
}

func (r *BookingRepository) MarkVerificationFailed(ctx context.Context, b *domain.Booking, notes string, verifiedAt time.Time) error {
	return r.transition(ctx, b.ID, b.Version, map[string]any{
		"status":                     string(domain.BookingPaymentFailed),
		"payment_verification_date":  verifiedAt,
		"payment_verification_notes": notes,
	})
}

// MarkAdvanceVerified applies the whole verified-payment effect in one
// transaction: the status flip, the date reservation, and the vendor/customer
// accumulators. The booking either fully advances or stays untouched.
func (r *BookingRepository) MarkAdvanceVerified(ctx context.Context, b *domain.Booking, notes string, verifiedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := transitionTx(tx, b.ID, b.Version, map[string]any{
			"status":                     string(domain.BookingAdvancePaid),
			"advance_paid":               true,
			"payment_verification_date":  verifiedAt,
			"payment_verification_notes": notes,
		}); err != nil {
			return err
		}
		if err := reserveDateTx(tx, b.ServiceID, b.EventDate); err != nil {
			return err
		}
		res := tx.Model(&vendorModel{}).Where("id = ?", b.VendorID).
			Update("revenue", gorm.Expr("revenue + ?", b.AdvanceAmount))
		if res.Error != nil {
			return res.Error
		}
		res = tx.Model(&customerModel{}).Where("id = ?", b.CustomerID).
			Update("expenditure", gorm.Expr("expenditure + ?", b.AdvanceAmount))
		return res.Error
	})
}

func (r *BookingRepository) Complete(ctx context.Context, b *domain.Booking) error {
	return r.transition(ctx, b.ID, b.Version, map[string]any{
		"status": string(domain.BookingCompleted),
	})
}
