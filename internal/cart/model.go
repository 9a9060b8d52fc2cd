package cart

import (
	"time"

	"github.com/adityarizkyr/gerai-backend/internal/product"
)

type CartItem struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ProductID  string    `json:"product_id"`
	Quantity   int       `json:"quantity"`
	CheckoutID *string   `json:"checkout_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Seller is the listing owner as shown inside a cart line.
type Seller struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	City     string `json:"city,omitempty"`
}

// ListedItem is a cart line joined with its product and seller,
// with the discounted subtotal already computed.
type ListedItem struct {
	CartItem
	Product  product.Product `json:"product"`
	Seller   Seller          `json:"seller"`
	Subtotal string          `json:"subtotal"`
}

// AddItemRequest payload for adding a product to a cart.
// swagger:model AddItemRequest
type AddItemRequest struct {
	UserID    string `json:"user_id"    example:"b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"`
	ProductID string `json:"product_id" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
}

// SetQuantityRequest payload for overwriting a line quantity.
// swagger:model SetQuantityRequest
type SetQuantityRequest struct {
	NewQuantity int `json:"new_quantity" example:"3"`
}
