package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/storeadmin/app/models"
)

func TestStatusEqualsIgnoresCaseAndSpace(t *testing.T) {
	assert.True(t, models.StatusEquals("available", models.ProductAvailable))
	assert.True(t, models.StatusEquals(" OUT_OF_STOCK ", "out_of_stock"))
	assert.False(t, models.StatusEquals("AVAILABLE", "INACTIVE"))
}

func TestValidProductStatus(t *testing.T) {
	assert.True(t, models.ValidProductStatus("coming_soon"))
	assert.False(t, models.ValidProductStatus("DISCONTINUED"))
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, models.ValidOrderStatus("Shipped"))
	assert.False(t, models.ValidOrderStatus("LOST"))
}

func TestNormalizeForWrite(t *testing.T) {
	p := models.Product{Price: 120, OriginalPrice: 100, Discount: 20}
	p.NormalizeForWrite()
	assert.True(t, p.Promo, "a discount forces the promo flag")
	assert.Equal(t, 100.0, p.Price, "price never exceeds the original price")

	q := models.Product{Price: 50, OriginalPrice: 0}
	q.NormalizeForWrite()
	assert.False(t, q.Promo)
	assert.Equal(t, 50.0, q.Price, "no original price, nothing to clamp")
}
