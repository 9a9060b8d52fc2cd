package checkout

import (
	"time"

	"github.com/adityarizkyr/gerai-backend/internal/address"
	"github.com/adityarizkyr/gerai-backend/internal/payment"
	"github.com/adityarizkyr/gerai-backend/internal/product"
)

type Checkout struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	// AddressID is the shipping address attached at creation, when the
	// user had a default one.
	AddressID *string `json:"address_id,omitempty"`
	// PurchasedItem is set by the payment-initiation step once the
	// checkout turns into a purchase; history only lists rows where it
	// is non-null.
	PurchasedItem *string   `json:"purchased_item,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// SellerDetail is a product owner expanded with their default address,
// as shown in the latest-checkout view.
type SellerDetail struct {
	ID             string           `json:"id"`
	Username       string           `json:"username"`
	City           string           `json:"city,omitempty"`
	DefaultAddress *address.Address `json:"default_address,omitempty"`
}

// DetailItem is one checkout line with product and seller expanded.
type DetailItem struct {
	ID       string          `json:"id"`
	Quantity int             `json:"quantity"`
	Subtotal string          `json:"subtotal"`
	Product  product.Product `json:"product"`
	Seller   SellerDetail    `json:"seller"`
}

// LatestDetail is the newest checkout of a user, deep-expanded.
type LatestDetail struct {
	Checkout
	Items      []DetailItem `json:"items"`
	ItemsTotal string       `json:"items_total"`
}

// HistoryEntry is a purchased checkout with its payments, for history
// listings.
type HistoryEntry struct {
	Checkout
	Payments []payment.Payment `json:"payments"`
}

// Detail is a single checkout with shipping address and payments
// expanded.
type Detail struct {
	Checkout
	Address  *address.Address  `json:"address,omitempty"`
	Payments []payment.Payment `json:"payments"`
}

// CreateCheckoutItem selects one cart line for consolidation.
// swagger:model CreateCheckoutItem
type CreateCheckoutItem struct {
	CartItemID string `json:"cartItemId" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
}

// CreateCheckoutRequest payload of consolidation.
// swagger:model CreateCheckoutRequest
type CreateCheckoutRequest struct {
	UserID string               `json:"userId" example:"b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"`
	Items  []CreateCheckoutItem `json:"items"`
}
