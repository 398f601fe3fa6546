package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"storefront-service/internal/models"
)

// Positional CSV columns. The header row is ignored; authors must keep this
// order: name, description, price, original_price, category, condition,
// status, stock, image_url, additional_images, detailed_specs.
const (
	colName = iota
	colDescription
	colPrice
	colOriginalPrice
	colCategory
	colCondition
	colStatus
	colStock
	colImageURL
	colAdditionalImages
	colDetailedSpecs
)

// ImageMapping maps bare filenames (extension stripped) to public URLs. It is
// built during image upload and lives for one import session.
type ImageMapping map[string]string

// CandidateProduct is a normalized, not-yet-persisted product derived from
// one CSV row. It is never mutated after creation.
type CandidateProduct struct {
	Name             string
	Description      string
	Price            float64
	OriginalPrice    *float64
	Category         string
	Condition        string
	Status           string
	Stock            int
	ImageURL         string
	AdditionalImages []string
	DetailedSpecs    string
}

var statusAllowList = map[string]bool{
	"active":   true,
	"inactive": true,
	"draft":    true,
	"archived": true,
}

const defaultStatus = "active"

var categoryAllowList = func() map[string]bool {
	m := make(map[string]bool, len(models.Categories))
	for _, c := range models.Categories {
		m[c] = true
	}
	return m
}()

// NormalizeRow converts a positional field list into a CandidateProduct, or
// returns a descriptive error keyed by the 1-based row number. Only name and
// price are hard requirements; category, status, condition, and stock degrade
// to defaults so a sloppy spreadsheet does not sink its rows.
func NormalizeRow(fields []string, rowNum int, images ImageMapping) (CandidateProduct, error) {
	if len(fields) < 3 {
		return CandidateProduct{}, fmt.Errorf("row %d: too few columns (need at least name, description, price)", rowNum)
	}

	name := field(fields, colName)
	if name == "" {
		return CandidateProduct{}, fmt.Errorf("row %d: name is required", rowNum)
	}

	price, err := strconv.ParseFloat(field(fields, colPrice), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return CandidateProduct{}, fmt.Errorf("row %d: price must be a positive number, got %q", rowNum, field(fields, colPrice))
	}

	candidate := CandidateProduct{
		Name:          name,
		Description:   field(fields, colDescription),
		Price:         price,
		Category:      NormalizeCategory(field(fields, colCategory)),
		Condition:     NormalizeCondition(field(fields, colCondition)),
		Status:        NormalizeStatus(field(fields, colStatus)),
		DetailedSpecs: field(fields, colDetailedSpecs),
	}

	if raw := field(fields, colOriginalPrice); raw != "" {
		if op, err := strconv.ParseFloat(raw, 64); err == nil && op > 0 && !math.IsInf(op, 0) {
			candidate.OriginalPrice = &op
		}
	}

	if stock, err := strconv.Atoi(field(fields, colStock)); err == nil {
		candidate.Stock = stock
	}

	if ref := field(fields, colImageURL); ref != "" {
		candidate.ImageURL = images[StripExtension(ref)]
	}
	for _, ref := range strings.Split(field(fields, colAdditionalImages), ",") {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		if url, ok := images[StripExtension(ref)]; ok {
			candidate.AdditionalImages = append(candidate.AdditionalImages, url)
		}
	}

	return candidate, nil
}

func field(fields []string, idx int) string {
	if idx < len(fields) {
		return fields[idx]
	}
	return ""
}

// NormalizeCategory lower-cases, replaces spaces with hyphens, and checks the
// allow-list. Unrecognized values silently fall back to the default category;
// this function is total and never errors.
func NormalizeCategory(raw string) string {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), " ", "-")
	if categoryAllowList[normalized] {
		return normalized
	}
	return models.DefaultCategory
}

// NormalizeStatus checks the status allow-list with a default fallback.
func NormalizeStatus(raw string) string {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), " ", "-")
	if statusAllowList[normalized] {
		return normalized
	}
	return defaultStatus
}

// NormalizeCondition maps condition via substring heuristics; unmatched
// values pass through unchanged so operators can use their own labels.
func NormalizeCondition(raw string) string {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)
	switch {
	case strings.Contains(lower, "open"):
		return "Open Box"
	case strings.Contains(lower, "renew"):
		return "Renewed"
	case lower == "used":
		return "Used"
	case lower == "new" || trimmed == "":
		return "New"
	default:
		return trimmed
	}
}

// ToProduct converts a candidate into the persistence model.
func (c CandidateProduct) ToProduct() *models.Product {
	product := &models.Product{
		Name:          c.Name,
		Description:   c.Description,
		Price:         c.Price,
		OriginalPrice: c.OriginalPrice,
		Category:      c.Category,
		Condition:     c.Condition,
		Status:        models.ProductStatus(c.Status),
		Stock:         c.Stock,
		ImageURL:      c.ImageURL,
		DetailedSpecs: c.DetailedSpecs,
	}
	if len(c.AdditionalImages) > 0 {
		arr := make(models.JSONArray, 0, len(c.AdditionalImages))
		for _, url := range c.AdditionalImages {
			arr = append(arr, url)
		}
		product.AdditionalImages = &arr
	}
	return product
}
