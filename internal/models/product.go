package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductStatus represents the lifecycle status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusArchived ProductStatus = "archived"
)

// DefaultCategory is the fallback for unrecognized category values.
const DefaultCategory = "consumer-electronics"

// Categories is the fixed allow-list for the catalog.
var Categories = []string{
	"smartphones",
	"laptops",
	"tablets",
	"audio",
	"wearables",
	"cameras",
	"gaming",
	"smart-home",
	"accessories",
	DefaultCategory,
}

// JSONArray type for PostgreSQL JSONB (array)
type JSONArray []interface{}

func (j JSONArray) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSONArray, 0)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// Product represents a catalog product
type Product struct {
	ID               uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name             string          `json:"name" gorm:"not null;index"`
	Description      string          `json:"description"`
	Price            float64         `json:"price" gorm:"not null"`
	OriginalPrice    *float64        `json:"originalPrice,omitempty"`
	Category         string          `json:"category" gorm:"not null;index;default:'consumer-electronics'"`
	Condition        string          `json:"condition" gorm:"default:'New'"`
	Status           ProductStatus   `json:"status" gorm:"not null;default:'active';index"`
	Stock            int             `json:"stock" gorm:"not null;default:0"`
	ImageURL         string          `json:"imageUrl"`
	AdditionalImages *JSONArray      `json:"additionalImages,omitempty" gorm:"type:jsonb"`
	DetailedSpecs    string          `json:"detailedSpecs"`
	Source           *string         `json:"source,omitempty" gorm:"index"`
	ExternalID       *string         `json:"externalId,omitempty" gorm:"index"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
	DeletedAt        *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// CreateProductRequest is the payload for creating one product. It is shaped
// to accept Bizhub inventory import payloads directly.
type CreateProductRequest struct {
	Name             string   `json:"name" binding:"required"`
	Description      string   `json:"description"`
	Price            float64  `json:"price" binding:"required,gt=0"`
	OriginalPrice    *float64 `json:"originalPrice,omitempty"`
	Category         string   `json:"category"`
	Condition        string   `json:"condition"`
	Status           string   `json:"status"`
	Stock            int      `json:"stock"`
	ImageURL         string   `json:"imageUrl"`
	AdditionalImages []string `json:"additionalImages,omitempty"`
	DetailedSpecs    string   `json:"detailedSpecs"`
	ExternalID       *string  `json:"externalId,omitempty"`
}

// UpdateProductRequest is a partial update; nil fields are left untouched.
type UpdateProductRequest struct {
	Name             *string  `json:"name,omitempty"`
	Description      *string  `json:"description,omitempty"`
	Price            *float64 `json:"price,omitempty"`
	OriginalPrice    *float64 `json:"originalPrice,omitempty"`
	Category         *string  `json:"category,omitempty"`
	Condition        *string  `json:"condition,omitempty"`
	Status           *string  `json:"status,omitempty"`
	Stock            *int     `json:"stock,omitempty"`
	ImageURL         *string  `json:"imageUrl,omitempty"`
	AdditionalImages []string `json:"additionalImages,omitempty"`
	DetailedSpecs    *string  `json:"detailedSpecs,omitempty"`
}

// ListProductsQuery holds the supported query filters for product listing.
type ListProductsQuery struct {
	Status   string `form:"status"`
	Category string `form:"category"`
	Search   string `form:"search"`
	Limit    int    `form:"limit"`
	Page     int    `form:"page"`
}

// Response types

type PaginationInfo struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

type ProductResponse struct {
	Success bool     `json:"success"`
	Data    *Product `json:"data"`
	Message *string  `json:"message,omitempty"`
}

type ProductListResponse struct {
	Success    bool            `json:"success"`
	Data       []Product       `json:"data"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}

type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message *string     `json:"message,omitempty"`
}
