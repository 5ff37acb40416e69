package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/utsavhq/utsav-api/internal/models"
)

// DefaultPrice is the absolute fallback when no derivation rule matches.
const DefaultPrice = 15000

// CategoryPricing maps category-name keywords to a provider-style price list.
type CategoryPricing struct {
	Keywords []string
	Entries  []models.PriceEntry
}

// CategoryPriceTables holds the generated price lists keyed by category
// keywords. Matching is a case-insensitive substring check; the first table
// whose keyword matches wins.
var CategoryPriceTables = []CategoryPricing{
	{
		Keywords: []string{"catering", "food"},
		Entries: []models.PriceEntry{
			{Name: "Veg Price Per Plate", Price: 100},
			{Name: "Non-Veg Price Per Plate", Price: 150},
			{Name: "Premium Price Per Plate", Price: 250},
		},
	},
	{
		Keywords: []string{"photographer", "photography"},
		Entries: []models.PriceEntry{
			{Name: "Basic Package", Price: 2000},
			{Name: "Standard Package", Price: 3500},
			{Name: "Premium Package", Price: 5000},
		},
	},
	{
		Keywords: []string{"venue", "hall", "banquet", "wedding"},
		Entries: []models.PriceEntry{
			{Name: "Morning Slot", Price: 50000},
			{Name: "Evening Slot", Price: 75000},
			{Name: "Full Day Booking", Price: 100000},
		},
	},
	{
		Keywords: []string{"makeup", "beauty", "bridal"},
		Entries: []models.PriceEntry{
			{Name: "Party Makeup", Price: 3000},
			{Name: "Engagement Makeup", Price: 5000},
			{Name: "Bridal Makeup", Price: 8000},
		},
	},
	{
		Keywords: []string{"music", "dj", "sound"},
		Entries: []models.PriceEntry{
			{Name: "DJ Only", Price: 10000},
			{Name: "DJ With Sound System", Price: 15000},
			{Name: "Live Band", Price: 25000},
		},
	},
	{
		Keywords: []string{"decor", "floral"},
		Entries: []models.PriceEntry{
			{Name: "Basic Decoration", Price: 15000},
			{Name: "Standard Decoration", Price: 25000},
			{Name: "Premium Decoration", Price: 40000},
		},
	},
}

// GenericPriceTable covers categories with no keyword match.
var GenericPriceTable = []models.PriceEntry{
	{Name: "Basic Package", Price: 5000},
	{Name: "Standard Package", Price: 10000},
	{Name: "Premium Package", Price: 20000},
}

// CategoryPriceList returns the generated price list for a category name.
func CategoryPriceList(categoryName string) []models.PriceEntry {
	lower := strings.ToLower(categoryName)
	for _, table := range CategoryPriceTables {
		for _, keyword := range table.Keywords {
			if strings.Contains(lower, keyword) {
				return table.Entries
			}
		}
	}
	return GenericPriceTable
}

type priceRule struct {
	name string
	eval func(t ServiceTarget) (float64, bool)
}

// priceRules is the ordered fallback chain for display-price derivation.
// The first satisfied rule wins; a rule that cannot be evaluated falls
// through to the next.
var priceRules = []priceRule{
	{
		name: "direct price field",
		eval: func(t ServiceTarget) (float64, bool) {
			if t.Price != nil && *t.Price >= 0 {
				return *t.Price, true
			}
			return 0, false
		},
	},
	{
		name: "form data price",
		eval: func(t ServiceTarget) (float64, bool) {
			if v, ok := toFloat(t.FormData["price"]); ok && v >= 0 {
				return v, true
			}
			return 0, false
		},
	},
	{
		name: "form data fields.Price",
		eval: func(t ServiceTarget) (float64, bool) {
			fields, ok := t.FormData["fields"].(map[string]interface{})
			if !ok {
				return 0, false
			}
			if v, ok := toInt(fields["Price"]); ok && v > 0 {
				return float64(v), true
			}
			return 0, false
		},
	},
	{
		name: "pricing array average",
		eval: func(t ServiceTarget) (float64, bool) {
			prices := pricingValues(t)
			if len(prices) == 0 {
				return 0, false
			}
			var sum float64
			for _, p := range prices {
				sum += p
			}
			return math.Round(sum / float64(len(prices))), true
		},
	},
	{
		name: "category price table",
		eval: func(t ServiceTarget) (float64, bool) {
			if t.CategoryName == "" && t.CategoryID == "" {
				return 0, false
			}
			entries := CategoryPriceList(t.CategoryName)
			if len(entries) == 0 {
				return 0, false
			}
			return entries[0].Price, true
		},
	},
	{
		name: "title keyword",
		eval: func(t ServiceTarget) (float64, bool) {
			title := strings.ToLower(t.Title)
			switch {
			case strings.Contains(title, "venue"):
				return 50000, true
			case strings.Contains(title, "photographer"):
				return 15000, true
			case strings.Contains(title, "catering"):
				return 5000, true
			}
			return 0, false
		},
	},
}

// DerivePrice computes the single display price for a resolved target. Pure
// function of its input; deterministic across calls.
func DerivePrice(t ServiceTarget) float64 {
	for _, rule := range priceRules {
		if v, ok := rule.eval(t); ok {
			return v
		}
	}
	return DefaultPrice
}

// pricingValues collects the per-entry prices from the typed pricing array,
// falling back to the formData copy when the typed one is empty.
func pricingValues(t ServiceTarget) []float64 {
	if len(t.Pricing) > 0 {
		prices := make([]float64, 0, len(t.Pricing))
		for _, entry := range t.Pricing {
			prices = append(prices, entry.Price)
		}
		return prices
	}

	raw, ok := t.FormData["pricing"].([]interface{})
	if !ok {
		return nil
	}
	var prices []float64
	for _, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if v, ok := toFloat(entry["price"]); ok {
			prices = append(prices, v)
		}
	}
	return prices
}

// toFloat normalizes the numeric types the bson decoder may produce.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// toInt parses form-field values that arrive as numbers or numeric strings.
func toInt(v interface{}) (int, bool) {
	if f, ok := toFloat(v); ok {
		return int(f), true
	}
	if s, ok := v.(string); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n, true
		}
	}
	return 0, false
}
