package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/utsavhq/utsav-api/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestDerivePriceDirectField(t *testing.T) {
	assert.Equal(t, 42000.0, DerivePrice(ServiceTarget{Price: floatPtr(42000)}))
	// zero is a valid stored price and wins over later rules
	assert.Equal(t, 0.0, DerivePrice(ServiceTarget{
		Price:        floatPtr(0),
		CategoryName: "Catering",
	}))
}

func TestDerivePriceFormDataPrice(t *testing.T) {
	target := ServiceTarget{
		FormData: map[string]interface{}{"price": 2500.0},
	}
	assert.Equal(t, 2500.0, DerivePrice(target))
}

func TestDerivePriceFormFieldsPrice(t *testing.T) {
	target := ServiceTarget{
		FormData: map[string]interface{}{
			"fields": map[string]interface{}{"Price": "1500"},
		},
	}
	assert.Equal(t, 1500.0, DerivePrice(target))

	// zero form-field price falls through to the next rule
	target = ServiceTarget{
		FormData: map[string]interface{}{
			"fields": map[string]interface{}{"Price": "0"},
		},
		CategoryName: "Photography",
	}
	assert.Equal(t, 2000.0, DerivePrice(target))
}

func TestDerivePricePricingArrayAverage(t *testing.T) {
	target := ServiceTarget{
		Pricing: []models.PriceEntry{{Price: 100}, {Price: 300}},
	}
	assert.Equal(t, 200.0, DerivePrice(target))

	// same array embedded in form data
	target = ServiceTarget{
		FormData: map[string]interface{}{
			"pricing": []interface{}{
				map[string]interface{}{"price": 100.0},
				map[string]interface{}{"price": 300.0},
			},
		},
	}
	assert.Equal(t, 200.0, DerivePrice(target))

	// average rounds to the nearest integer
	target = ServiceTarget{
		Pricing: []models.PriceEntry{{Price: 100}, {Price: 101}, {Price: 101}},
	}
	assert.Equal(t, 101.0, DerivePrice(target))
}

func TestDerivePriceDirectBeatsPricingArray(t *testing.T) {
	target := ServiceTarget{
		Price:   floatPtr(999),
		Pricing: []models.PriceEntry{{Price: 100}, {Price: 300}},
	}
	assert.Equal(t, 999.0, DerivePrice(target))
}

func TestDerivePriceCategoryTable(t *testing.T) {
	cases := []struct {
		category string
		want     float64
	}{
		{"Photography", 2000},
		{"Wedding Photographer", 2000},
		{"South Indian Catering", 100},
		{"Food Truck", 100},
		{"Banquet Hall", 50000},
		{"Bridal Makeup Artist", 3000},
		{"DJ & Sound", 10000},
		{"Floral Decor", 15000},
		{"Transportation", 5000}, // no keyword match, generic table
	}
	for _, tc := range cases {
		got := DerivePrice(ServiceTarget{CategoryName: tc.category})
		assert.Equalf(t, tc.want, got, "category %q", tc.category)
	}
}

func TestDerivePriceCategoryIDOnly(t *testing.T) {
	// category id present but name unresolved: generic table applies
	assert.Equal(t, 5000.0, DerivePrice(ServiceTarget{CategoryID: "64b0c8f2a1"}))
}

func TestDerivePriceTitleKeyword(t *testing.T) {
	assert.Equal(t, 50000.0, DerivePrice(ServiceTarget{Title: "Grand Venue Hall"}))
	assert.Equal(t, 15000.0, DerivePrice(ServiceTarget{Title: "Candid Photographer"}))
	assert.Equal(t, 5000.0, DerivePrice(ServiceTarget{Title: "Royal Catering Co"}))
}

func TestDerivePriceAbsoluteFallback(t *testing.T) {
	assert.Equal(t, float64(DefaultPrice), DerivePrice(ServiceTarget{Title: "Mystery Service"}))
	assert.Equal(t, float64(DefaultPrice), DerivePrice(ServiceTarget{}))
}

func TestDerivePriceDeterministic(t *testing.T) {
	target := ServiceTarget{
		FormData: map[string]interface{}{
			"pricing": []interface{}{
				map[string]interface{}{"price": 100.0},
				map[string]interface{}{"price": 300.0},
			},
		},
		CategoryName: "Photography",
		Title:        "Venue of Dreams",
	}
	first := DerivePrice(target)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, DerivePrice(target))
	}
	assert.Equal(t, 200.0, first)
}

func TestCategoryPriceListFirstEntries(t *testing.T) {
	assert.Equal(t, "Veg Price Per Plate", CategoryPriceList("catering")[0].Name)
	assert.Equal(t, 100.0, CategoryPriceList("catering")[0].Price)
	assert.Equal(t, 2000.0, CategoryPriceList("photography")[0].Price)
	assert.Equal(t, GenericPriceTable, CategoryPriceList("unheard of"))
}
