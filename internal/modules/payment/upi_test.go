package payment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUPIID(t *testing.T) {
	valid := []string{
		"grandpalace@okhdfc",
		"spice.route@okicici",
		"user_name-1@paytm",
	}
	for _, id := range valid {
		assert.True(t, ValidateUPIID(id), id)
	}

	invalid := []string{
		"",
		"noatsign",
		"@okhdfc",
		"name@ab", // bank handle too short
		"name@bank extra",
		"na me@okhdfc",
	}
	for _, id := range invalid {
		assert.False(t, ValidateUPIID(id), id)
	}
}

func TestGenerate_RendersURIAndQR(t *testing.T) {
	g := NewUPIGenerator()

	intent, err := g.Generate("grandpalace@okhdfc", 500, "Grand Palace", "Advance payment for Banquet Hall - EventGenie")
	require.NoError(t, err)

	assert.Equal(t, "upi://pay?pa=grandpalace@okhdfc&pn=Grand+Palace&am=500&tn=Advance+payment+for+Banquet+Hall+-+EventGenie&cu=INR", intent.UPIURL)
	assert.Equal(t, int64(500), intent.Amount)
	assert.True(t, strings.HasPrefix(intent.QRCodeDataURL, "data:image/png;base64,"))
	assert.Greater(t, len(intent.QRCodeDataURL), len("data:image/png;base64,"))
}

func TestGenerate_RejectsBadPayee(t *testing.T) {
	g := NewUPIGenerator()

	_, err := g.Generate("not a upi id", 500, "X", "Y")
	assert.ErrorIs(t, err, ErrInvalidUPIID)
}
