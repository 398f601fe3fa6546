package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(fields ...string) []string { return fields }

func TestNormalizeRowMinimalValid(t *testing.T) {
	candidate, err := NormalizeRow(row("AirPods Pro", "Earbuds", "249.99"), 1, nil)
	require.NoError(t, err)

	assert.Equal(t, "AirPods Pro", candidate.Name)
	assert.Equal(t, 249.99, candidate.Price)
	assert.Equal(t, "consumer-electronics", candidate.Category)
	assert.Equal(t, "New", candidate.Condition)
	assert.Equal(t, "active", candidate.Status)
	assert.Equal(t, 0, candidate.Stock)
	assert.Nil(t, candidate.OriginalPrice)
}

func TestNormalizeRowTooFewColumns(t *testing.T) {
	_, err := NormalizeRow(row("only", "two"), 4, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 4: too few columns")
}

func TestNormalizeRowMissingName(t *testing.T) {
	_, err := NormalizeRow(row("", "desc", "10"), 2, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2: name is required")
}

func TestNormalizeRowPrice(t *testing.T) {
	tests := []struct {
		price string
		ok    bool
	}{
		{"10", true},
		{"0.01", true},
		{"0", false},
		{"-5", false},
		{"abc", false},
		{"NaN", false},
		{"Inf", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			_, err := NormalizeRow(row("Widget", "", tt.price), 1, nil)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "price must be a positive number")
			}
		})
	}
}

func TestNormalizeRowFullRow(t *testing.T) {
	images := ImageMapping{
		"buds-front": "https://cdn.example.com/buds-front.jpg",
		"buds-case":  "https://cdn.example.com/buds-case.jpg",
	}
	fields := row(
		"Galaxy Buds", "ANC earbuds", "129.99", "199.99",
		"Audio", "open box", "Active", "25",
		"buds-front", "buds-case, buds-missing", "Bluetooth 5.3",
	)

	candidate, err := NormalizeRow(fields, 3, images)
	require.NoError(t, err)

	require.NotNil(t, candidate.OriginalPrice)
	assert.Equal(t, 199.99, *candidate.OriginalPrice)
	assert.Equal(t, "audio", candidate.Category)
	assert.Equal(t, "Open Box", candidate.Condition)
	assert.Equal(t, "active", candidate.Status)
	assert.Equal(t, 25, candidate.Stock)
	assert.Equal(t, "https://cdn.example.com/buds-front.jpg", candidate.ImageURL)
	// Unresolvable additional references are dropped, not errored.
	assert.Equal(t, []string{"https://cdn.example.com/buds-case.jpg"}, candidate.AdditionalImages)
	assert.Equal(t, "Bluetooth 5.3", candidate.DetailedSpecs)
}

func TestNormalizeRowBadStockDefaultsToZero(t *testing.T) {
	candidate, err := NormalizeRow(row("Widget", "", "10", "", "", "", "", "lots"), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, candidate.Stock)
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "audio", NormalizeCategory("audio"))
	assert.Equal(t, "smart-home", NormalizeCategory("Smart Home"))
	assert.Equal(t, "laptops", NormalizeCategory("  LAPTOPS  "))
	assert.Equal(t, "consumer-electronics", NormalizeCategory("furniture"))
	assert.Equal(t, "consumer-electronics", NormalizeCategory(""))
	// Normalization is idempotent.
	assert.Equal(t, "smart-home", NormalizeCategory(NormalizeCategory("Smart Home")))
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, "draft", NormalizeStatus("Draft"))
	assert.Equal(t, "archived", NormalizeStatus(" archived "))
	assert.Equal(t, "active", NormalizeStatus("published"))
	assert.Equal(t, "active", NormalizeStatus(""))
}

func TestNormalizeCondition(t *testing.T) {
	assert.Equal(t, "Open Box", NormalizeCondition("opened - like new"))
	assert.Equal(t, "Renewed", NormalizeCondition("certified renewed"))
	assert.Equal(t, "Used", NormalizeCondition("used"))
	assert.Equal(t, "New", NormalizeCondition("NEW"))
	assert.Equal(t, "New", NormalizeCondition(""))
	// Unmatched labels pass through untouched.
	assert.Equal(t, "Refurbished", NormalizeCondition("Refurbished"))
}

func TestToProduct(t *testing.T) {
	op := 199.99
	candidate := CandidateProduct{
		Name:             "Galaxy Buds",
		Price:            129.99,
		OriginalPrice:    &op,
		Category:         "audio",
		Condition:        "New",
		Status:           "active",
		Stock:            10,
		ImageURL:         "https://cdn.example.com/buds.jpg",
		AdditionalImages: []string{"https://cdn.example.com/case.jpg"},
	}

	product := candidate.ToProduct()
	assert.Equal(t, "Galaxy Buds", product.Name)
	assert.Equal(t, 129.99, product.Price)
	require.NotNil(t, product.AdditionalImages)
	assert.Len(t, *product.AdditionalImages, 1)
}
