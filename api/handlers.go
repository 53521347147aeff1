/*
handlers.go - HTTP API handlers for the storefront

PURPOSE:
  Exposes the storefront core via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the purchase/return services.

ENDPOINTS:
  Catalog:
    GET    /api/products                    List products (paged)
    GET    /api/products/{id}               Product detail
    POST   /api/products                    Create product (admin)
    PUT    /api/products/{id}               Update product (admin)

  Users:
    POST   /api/users                       Register (default purse)
    GET    /api/users/{id}                  User detail (self or admin)
    GET    /api/users/{id}/purchases        Purchase history (self or admin)

  Ledger:
    POST   /api/purchases                   Buy a product
    POST   /api/purchases/{id}/returns      Request a return
    GET    /api/returns                     Open returns (admin)
    POST   /api/returns/{id}/approve        Approve: reverse the purchase (admin)
    POST   /api/returns/{id}/cancel         Cancel: drop the request (admin)
    GET    /api/admin/journal               Audit journal (admin)

IDENTITY:
  Authentication is owned by an upstream proxy (external collaborator).
  It injects two trusted headers:
    X-User-ID:    the authenticated user's id
    X-Admin-Role: "admin" when the user holds the administrator claim
  Handlers map these to shop.Actor; the services re-check the admin
  claim themselves rather than trusting the routing layer.

ERROR HANDLING:
  Core errors map to HTTP status via statusFor:
  - 400: malformed input
  - 401: missing identity header
  - 403: Unauthorized (non-admin, non-owner)
  - 404: NotFound
  - 409: InsufficientStock, InsufficientFunds, ReturnWindowExpired,
         ReturnAlreadyRequested, InvalidQuantity
  - 500: everything else

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warp/storefront/shop"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     shop.TxStore
	Purchases *shop.PurchaseService
	Returns   *shop.ReturnService
}

// NewHandler creates a handler with services wired to the given store.
func NewHandler(store shop.TxStore) *Handler {
	return &Handler{
		Store:     store,
		Purchases: shop.NewPurchaseService(store),
		Returns:   shop.NewReturnService(store),
	}
}

// =============================================================================
// IDENTITY
// =============================================================================

// actorFrom extracts the caller identity from the trusted upstream
// headers. ok is false when no identity is present.
func actorFrom(r *http.Request) (shop.Actor, bool) {
	id := r.Header.Get("X-User-ID")
	if id == "" {
		return shop.Actor{}, false
	}
	return shop.Actor{
		ID:    shop.UserID(id),
		Admin: r.Header.Get("X-Admin-Role") == "admin",
	}, true
}

func (h *Handler) requireActor(w http.ResponseWriter, r *http.Request) (shop.Actor, bool) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing X-User-ID header", nil)
	}
	return actor, ok
}

func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) (shop.Actor, bool) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return actor, false
	}
	if !actor.Admin {
		writeError(w, http.StatusForbidden, "Administrator role required", nil)
		return actor, false
	}
	return actor, true
}

// =============================================================================
// CATALOG
// =============================================================================

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := pageParams(r)
	products, err := h.Store.ListProducts(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list products", err)
		return
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, productDTO(p))
	}
	writeJSON(w, http.StatusOK, PageDTO[ProductDTO]{Items: dtos, Page: page, PageSize: limit})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := shop.ProductID(chi.URLParam(r, "id"))
	product, err := h.Store.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productDTO(*product))
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, "")
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, shop.ProductID(chi.URLParam(r, "id")))
}

func (h *Handler) saveProduct(w http.ResponseWriter, r *http.Request, id shop.ProductID) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	var req SaveProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required", nil)
		return
	}
	if req.Price < 0 || req.Stock < 0 {
		writeError(w, http.StatusBadRequest, "Price and stock must be non-negative", nil)
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()
	status := http.StatusOK

	product := shop.Product{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Price:       shop.Cents(req.Price),
		Stock:       req.Stock,
		UpdatedAt:   now,
	}
	if id == "" {
		// Create. Honor a client-chosen id if one was sent.
		product.ID = shop.ProductID(req.ID)
		if product.ID == "" {
			product.ID = shop.ProductID(uuid.NewString())
		}
		product.CreatedAt = now
		status = http.StatusCreated
	} else {
		existing, err := h.Store.GetProduct(ctx, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		product.ID = existing.ID
		product.CreatedAt = existing.CreatedAt
	}

	if err := h.Store.SaveProduct(ctx, product); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save product", err)
		return
	}
	writeJSON(w, status, productDTO(product))
}

// =============================================================================
// USERS
// =============================================================================

func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}

	balance := shop.DefaultPurse
	if req.Balance != nil {
		if *req.Balance < 0 {
			writeError(w, http.StatusBadRequest, "Balance must be non-negative", nil)
			return
		}
		balance = shop.Cents(*req.Balance)
	}

	user := shop.User{
		ID:        shop.UserID(req.ID),
		Name:      req.Name,
		Balance:   balance,
		CreatedAt: time.Now().UTC(),
	}
	if user.ID == "" {
		user.ID = shop.UserID(uuid.NewString())
	}

	if err := h.Store.CreateUser(r.Context(), user); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create user", err)
		return
	}
	writeJSON(w, http.StatusCreated, userDTO(user))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	id := shop.UserID(chi.URLParam(r, "id"))
	if actor.ID != id && !actor.Admin {
		writeError(w, http.StatusForbidden, "Cannot view another user", nil)
		return
	}

	user, err := h.Store.GetUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userDTO(*user))
}

func (h *Handler) ListUserPurchases(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	id := shop.UserID(chi.URLParam(r, "id"))
	if actor.ID != id && !actor.Admin {
		writeError(w, http.StatusForbidden, "Cannot view another user's purchases", nil)
		return
	}

	page, limit, offset := pageParams(r)
	purchases, err := h.Store.ListPurchasesByUser(r.Context(), id, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list purchases", err)
		return
	}

	dtos := make([]PurchaseDTO, 0, len(purchases))
	for _, p := range purchases {
		dtos = append(dtos, purchaseDTO(p))
	}
	writeJSON(w, http.StatusOK, PageDTO[PurchaseDTO]{Items: dtos, Page: page, PageSize: limit})
}

// =============================================================================
// LEDGER - Purchases and returns
// =============================================================================

func (h *Handler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	var req CreatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "product_id is required", nil)
		return
	}

	purchase, err := h.Purchases.CreatePurchase(r.Context(), actor, shop.ProductID(req.ProductID), req.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, purchaseDTO(*purchase))
}

func (h *Handler) RequestReturn(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	purchaseID := shop.PurchaseID(chi.URLParam(r, "id"))
	ret, err := h.Returns.RequestReturn(r.Context(), actor, purchaseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, returnDTO(*ret))
}

func (h *Handler) ListReturns(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	page, limit, offset := pageParams(r)
	returns, err := h.Store.ListReturns(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list returns", err)
		return
	}

	dtos := make([]ReturnDTO, 0, len(returns))
	for _, ret := range returns {
		dtos = append(dtos, returnDTO(ret))
	}
	writeJSON(w, http.StatusOK, PageDTO[ReturnDTO]{Items: dtos, Page: page, PageSize: limit})
}

func (h *Handler) ApproveReturn(w http.ResponseWriter, r *http.Request) {
	h.resolveReturn(w, r, shop.DecisionApprove)
}

func (h *Handler) CancelReturn(w http.ResponseWriter, r *http.Request) {
	h.resolveReturn(w, r, shop.DecisionCancel)
}

func (h *Handler) resolveReturn(w http.ResponseWriter, r *http.Request, decision shop.ReturnDecision) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	returnID := shop.ReturnID(chi.URLParam(r, "id"))
	if err := h.Returns.ResolveReturn(r.Context(), actor, returnID, decision); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"return_id": string(returnID),
		"decision":  string(decision),
	})
}

// =============================================================================
// ADMIN - Audit journal
// =============================================================================

func (h *Handler) ListJournal(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	page, limit, offset := pageParams(r)
	entries, err := h.Store.JournalEntries(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list journal", err)
		return
	}

	dtos := make([]JournalEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, journalEntryDTO(e))
	}
	writeJSON(w, http.StatusOK, PageDTO[JournalEntryDTO]{Items: dtos, Page: page, PageSize: limit})
}

// =============================================================================
// HELPERS
// =============================================================================

// pageParams reads ?page= (1-based) and returns page, limit, offset.
func pageParams(r *http.Request) (page, limit, offset int) {
	page = 1
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	limit = shop.DefaultPageSize
	return page, limit, (page - 1) * limit
}

// writeServiceError maps core errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error(), nil)
}

func statusFor(err error) int {
	switch {
	case shop.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, shop.ErrUnauthorized):
		return http.StatusForbidden
	case shop.IsClientError(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
