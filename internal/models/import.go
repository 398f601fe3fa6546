package models

// ImportFormat represents the file format for import
type ImportFormat string

const (
	ImportFormatCSV  ImportFormat = "csv"
	ImportFormatXLSX ImportFormat = "xlsx"
)

// ImportTemplateColumn defines a column in the import template
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"` // string, number
	Example     string `json:"example"`
}

// ImportTemplate defines the structure of an import template
type ImportTemplate struct {
	Entity  string                 `json:"entity"`
	Version string                 `json:"version"`
	Columns []ImportTemplateColumn `json:"columns"`
}

// ImportResult is the accumulated outcome of one bulk import run.
type ImportResult struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors"`
}

// ImportResponse is the terminal report returned by the bulk upload endpoint.
type ImportResponse struct {
	Message    string   `json:"message"`
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors"`
}

// ProductImportColumns returns the positional column definitions for the
// product CSV. The header row is present in uploaded files but ignored;
// columns are matched by position.
func ProductImportColumns() []ImportTemplateColumn {
	return []ImportTemplateColumn{
		{Name: "name", Description: "Product name", Required: true, Type: "string", Example: "Galaxy Buds Pro"},
		{Name: "description", Description: "Short description", Required: false, Type: "string", Example: "Wireless earbuds with ANC"},
		{Name: "price", Description: "Sale price, must be > 0", Required: true, Type: "number", Example: "129.99"},
		{Name: "original_price", Description: "Pre-discount price", Required: false, Type: "number", Example: "199.99"},
		{Name: "category", Description: "Category (falls back to consumer-electronics)", Required: false, Type: "string", Example: "audio"},
		{Name: "condition", Description: "New / Used / Open Box / Renewed", Required: false, Type: "string", Example: "New"},
		{Name: "status", Description: "active / inactive / draft / archived", Required: false, Type: "string", Example: "active"},
		{Name: "stock", Description: "Units in stock", Required: false, Type: "number", Example: "25"},
		{Name: "image_url", Description: "Main image as bare filename, no extension", Required: false, Type: "string", Example: "buds-pro-front"},
		{Name: "additional_images", Description: "Comma-separated bare filenames", Required: false, Type: "string", Example: "buds-pro-case,buds-pro-side"},
		{Name: "detailed_specs", Description: "Free-text specifications", Required: false, Type: "string", Example: "Bluetooth 5.3; IPX7"},
	}
}

// ProductImportTemplate returns the template definition for products
func ProductImportTemplate() ImportTemplate {
	return ImportTemplate{
		Entity:  "products",
		Version: "1.0",
		Columns: ProductImportColumns(),
	}
}
