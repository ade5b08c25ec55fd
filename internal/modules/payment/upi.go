package payment

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"regexp"

	qrcode "github.com/skip2/go-qrcode"
)

var (
	ErrInvalidUPIID     = errors.New("invalid upi id")
	ErrIntentGeneration = errors.New("payment intent generation failed")
)

// upiIDPattern matches the name@bank payee id format.
var upiIDPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z]{3,}$`)

func ValidateUPIID(upiID string) bool {
	return upiIDPattern.MatchString(upiID)
}

// Intent is a payee/amount/memo descriptor plus its rendered forms. It is
// not itself a payment.
type Intent struct {
	UPIID       string `json:"upi_id"`
	Amount      int64  `json:"amount"`
	PayeeName   string `json:"payee_name"`
	Description string `json:"description"`

	// Canonical upi://pay URI.
	UPIURL string `json:"upi_url"`
	// PNG QR code as a data URL, ready for an <img> tag.
	QRCodeDataURL string `json:"qr_code_data_url"`
}

// UPIGenerator renders payment intents as UPI URIs with a scannable QR code.
type UPIGenerator struct {
	qrSize int
}

func NewUPIGenerator() *UPIGenerator {
	return &UPIGenerator{qrSize: 256}
}

func (g *UPIGenerator) Generate(upiID string, amount int64, payeeName, description string) (*Intent, error) {
	if !ValidateUPIID(upiID) {
		return nil, ErrInvalidUPIID
	}

	upiURL := fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%d&tn=%s&cu=INR",
		upiID,
		url.QueryEscape(payeeName),
		amount,
		url.QueryEscape(description),
	)

	png, err := qrcode.Encode(upiURL, qrcode.Medium, g.qrSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIntentGeneration, err)
	}

	return &Intent{
		UPIID:         upiID,
		Amount:        amount,
		PayeeName:     payeeName,
		Description:   description,
		UPIURL:        upiURL,
		QRCodeDataURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	}, nil
}
