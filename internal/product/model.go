package product

import "time"

type Product struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"` // seller that owns the listing
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// We store price as a string to avoid rounding errors (NUMERIC in Postgres)
	Price       string    `json:"price"`
	Stock       int       `json:"stock"`
	WeightGrams int       `json:"weight_grams"`
	Category    string    `json:"category,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	DiscountPct int       `json:"discount_pct"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error message
	// example: not found
	Error string `json:"error"`
}

// ListResponse represents the paginated response of products.
// swagger:model
type ListResponse struct {
	// search query applied
	Q string `json:"q,omitempty"`
	// limit applied
	Limit int `json:"limit"`
	// offset applied
	Offset int `json:"offset"`
	// items found
	Items []Product `json:"items"`
}

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	UserID      string `json:"user_id"      example:"b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"`
	Name        string `json:"name"         example:"Rice Cooker Mini"`
	Description string `json:"description"  example:"0.6L, 300W"`
	Price       string `json:"price"        example:"189900"`
	Stock       int    `json:"stock"        example:"10"`
	WeightGrams int    `json:"weight_grams" example:"1500"`
	Category    string `json:"category"     example:"kitchen"`
	ImageURL    string `json:"image_url"    example:"https://cdn.example.com/p/rc-mini.jpg"`
	DiscountPct int    `json:"discount_pct" example:"5"`
}

// UpdateProductRequest payload of partial update.
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	WeightGrams int    `json:"weight_grams"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
	DiscountPct int    `json:"discount_pct"`
}
