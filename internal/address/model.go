package address

import "time"

// Address is a shipping destination. At most one address per user is
// flagged default; SetDefault keeps that invariant.
type Address struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Recipient  string    `json:"recipient"`
	Phone      string    `json:"phone"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	Province   string    `json:"province"`
	PostalCode string    `json:"postal_code"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateAddressRequest payload of creation.
// swagger:model CreateAddressRequest
type CreateAddressRequest struct {
	UserID     string `json:"user_id"     example:"b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"`
	Recipient  string `json:"recipient"   example:"Budi Santoso"`
	Phone      string `json:"phone"       example:"+6281234567890"`
	Street     string `json:"street"      example:"Jl. Kaliurang KM 5 No. 21"`
	City       string `json:"city"        example:"Sleman"`
	Province   string `json:"province"    example:"DI Yogyakarta"`
	PostalCode string `json:"postal_code" example:"55281"`
	IsDefault  bool   `json:"is_default"`
}
