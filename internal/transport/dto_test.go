package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/tourbook/pkg/validation"
)

func TestTourRequests_PriceBounds(t *testing.T) {
	v := validation.New()

	ok := CreateTourRequest{Title: "Kyoto", Location: "Kyoto", Currency: "JPY", PriceMinor: 1_000_000_000_000}
	assert.NoError(t, v.Validate(&ok))

	tooHigh := ok
	tooHigh.PriceMinor++
	assert.Error(t, v.Validate(&tooHigh))

	price := int64(1_000_000_000_001)
	assert.Error(t, v.Validate(&PatchTourRequest{PriceMinor: &price}))

	price = 4500
	assert.NoError(t, v.Validate(&PatchTourRequest{PriceMinor: &price}))
}
