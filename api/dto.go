/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Amounts travel both as raw cents (for clients that do arithmetic) and
  as a fixed-point display string rendered through decimal, e.g.
  {"price": 250, "price_display": "2.50"}.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/storefront/shop"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// UserDTO represents a user in API responses.
type UserDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Balance        int64  `json:"balance"`
	BalanceDisplay string `json:"balance_display"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// RegisterUserRequest is the request to register a user. Balance is
// optional; omitted or zero means the default purse.
type RegisterUserRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Balance *int64 `json:"balance,omitempty"`
}

// ProductDTO represents a catalog item in API responses.
type ProductDTO struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	Price        int64  `json:"price"`
	PriceDisplay string `json:"price_display"`
	Stock        int    `json:"stock"`
}

// SaveProductRequest creates or updates a product (admin only).
type SaveProductRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
}

// PurchaseDTO represents a purchase line item.
type PurchaseDTO struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Cost        int64  `json:"cost"`
	CostDisplay string `json:"cost_display"`
	CreatedAt   string `json:"created_at"`
}

// CreatePurchaseRequest buys a product as the authenticated user.
type CreatePurchaseRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// ReturnDTO represents a pending return request.
type ReturnDTO struct {
	ID         string `json:"id"`
	PurchaseID string `json:"purchase_id"`
	CreatedAt  string `json:"created_at"`
}

// JournalEntryDTO represents one audit journal entry.
type JournalEntryDTO struct {
	ID            string `json:"id"`
	At            string `json:"at"`
	Kind          string `json:"kind"`
	ActorID       string `json:"actor_id"`
	PurchaseID    string `json:"purchase_id"`
	UserID        string `json:"user_id"`
	ProductID     string `json:"product_id"`
	Quantity      int    `json:"quantity"`
	Amount        int64  `json:"amount"`
	AmountDisplay string `json:"amount_display"`
}

// PageDTO wraps a paged list response.
type PageDTO[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func userDTO(u shop.User) UserDTO {
	return UserDTO{
		ID:             string(u.ID),
		Name:           u.Name,
		Balance:        int64(u.Balance),
		BalanceDisplay: u.Balance.String(),
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
	}
}

func productDTO(p shop.Product) ProductDTO {
	return ProductDTO{
		ID:           string(p.ID),
		Title:        p.Title,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		Price:        int64(p.Price),
		PriceDisplay: p.Price.String(),
		Stock:        p.Stock,
	}
}

func purchaseDTO(p shop.Purchase) PurchaseDTO {
	return PurchaseDTO{
		ID:          string(p.ID),
		UserID:      string(p.UserID),
		ProductID:   string(p.ProductID),
		Quantity:    p.Quantity,
		UnitPrice:   int64(p.UnitPrice),
		Cost:        int64(p.Cost()),
		CostDisplay: p.Cost().String(),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

func returnDTO(r shop.Return) ReturnDTO {
	return ReturnDTO{
		ID:         string(r.ID),
		PurchaseID: string(r.PurchaseID),
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
}

func journalEntryDTO(e shop.JournalEntry) JournalEntryDTO {
	return JournalEntryDTO{
		ID:            e.ID,
		At:            e.At.Format(time.RFC3339),
		Kind:          string(e.Kind),
		ActorID:       string(e.ActorID),
		PurchaseID:    string(e.PurchaseID),
		UserID:        string(e.UserID),
		ProductID:     string(e.ProductID),
		Quantity:      e.Quantity,
		Amount:        int64(e.Amount),
		AmountDisplay: e.Amount.String(),
	}
}
