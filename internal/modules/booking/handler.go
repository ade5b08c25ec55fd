package booking

import (
	"errors"
	"net/http"
	"strconv"

	"eventgenie/internal/domain"
	"eventgenie/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers booking routes under the protected group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/bookings")
	{
		g.POST("", h.Create)
		g.GET("/customer", h.ListMine)
		g.GET("/vendor", h.ListForVendor)
		g.GET("/:id", h.GetByID)
		g.PUT("/:id/decide", h.Decide)
		g.POST("/:id/create-payment", h.CreatePayment)
		g.POST("/:id/submit-payment", h.SubmitPayment)
		g.POST("/:id/verify-payment", h.VerifyPayment)
		g.POST("/:id/paypal/order", h.CreateProviderOrder)
		g.POST("/:id/paypal/capture", h.CaptureProviderPayment)
		g.POST("/:id/complete", h.Complete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	if c.GetString("role") != string(domain.RoleCustomer) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only customers can create bookings")
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) ListMine(c *gin.Context) {
	list, err := h.service.ListByCustomer(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_ERROR", err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) ListForVendor(c *gin.Context) {
	list, err := h.service.ListByVendor(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_ERROR", err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	b, err := h.service.GetByID(c.Request.Context(), id, domain.Role(c.GetString("role")), c.GetInt64("user_id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) Decide(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	b, err := h.service.Decide(c.Request.Context(), id, c.GetInt64("user_id"), req)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CreatePayment(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	intent, b, err := h.service.CreatePaymentIntent(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"upi_id":           intent.UPIID,
		"upi_url":          intent.UPIURL,
		"qr_code_data_url": intent.QRCodeDataURL,
		"amount":           intent.Amount,
		"vendor_name":      intent.PayeeName,
		"service_name":     b.ServiceName,
	})
}

func (h *Handler) SubmitPayment(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	b, err := h.service.SubmitPayment(c.Request.Context(), id, c.GetInt64("user_id"), req)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"message": "Payment submitted successfully. Waiting for vendor verification.",
		"booking": b,
	})
}

func (h *Handler) VerifyPayment(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	b, err := h.service.VerifyPayment(c.Request.Context(), id, c.GetInt64("user_id"), req)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CreateProviderOrder(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	orderID, err := h.service.CreateProviderOrder(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"order_id": orderID})
}

func (h *Handler) CaptureProviderPayment(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req CaptureOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	b, err := h.service.CaptureProviderPayment(c.Request.Context(), id, c.GetInt64("user_id"), req.OrderID)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) Complete(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	b, err := h.service.Complete(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return 0, false
	}
	return id, true
}

func respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrDateUnavailable):
		response.Error(c, http.StatusBadRequest, "DATE_UNAVAILABLE", err.Error())
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, ErrNotApproved):
		response.Error(c, http.StatusBadRequest, "NOT_APPROVED", err.Error())
	case errors.Is(err, ErrAlreadyPaid):
		response.Error(c, http.StatusBadRequest, "ALREADY_PAID", err.Error())
	case errors.Is(err, ErrPaymentWindowExpired):
		response.Error(c, http.StatusBadRequest, "PAYMENT_EXPIRED", err.Error())
	case errors.Is(err, ErrNotPendingVerification):
		response.Error(c, http.StatusConflict, "NOT_PENDING_VERIFICATION", err.Error())
	case errors.Is(err, ErrConcurrentModification):
		response.Error(c, http.StatusConflict, "CONCURRENT_MODIFICATION", err.Error())
	case errors.Is(err, ErrPaymentIntentGeneration):
		response.Error(c, http.StatusBadGateway, "PAYMENT_INTENT_FAILED", err.Error())
	case errors.Is(err, ErrProviderUnavailable):
		response.Error(c, http.StatusServiceUnavailable, "PROVIDER_UNAVAILABLE", err.Error())
	case errors.Is(err, ErrPaymentCaptureFailed):
		response.Error(c, http.StatusBadGateway, "PAYMENT_CAPTURE_FAILED", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
