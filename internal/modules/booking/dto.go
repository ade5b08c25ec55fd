package booking

type CreateBookingRequest struct {
	ServiceID int64  `json:"service_id" binding:"required"`
	EventDate string `json:"event_date" binding:"required"`
	Notes     string `json:"notes"`
}

type DecideRequest struct {
	Status      string `json:"status" binding:"required"` // approved | rejected
	VendorNotes string `json:"vendor_notes"`
}

type SubmitPaymentRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
}

type CaptureOrderRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

type VerifyPaymentRequest struct {
	VerificationStatus string `json:"verification_status" binding:"required"` // verified | failed
	Notes              string `json:"notes"`
}
