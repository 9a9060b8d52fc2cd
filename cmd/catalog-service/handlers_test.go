package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adityarizkyr/gerai-backend/internal/cart"
	"github.com/adityarizkyr/gerai-backend/internal/product"
)

//
// ---------- STUBS ----------
//

// stubCartRepo implements cart.Repository in memory.
type stubCartRepo struct {
	items map[string]*cart.CartItem
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{items: map[string]*cart.CartItem{}}
}

func (s *stubCartRepo) AddItem(ctx context.Context, userID, productID, newID string) (*cart.CartItem, bool, error) {
	for _, it := range s.items {
		if it.UserID == userID && it.ProductID == productID {
			it.Quantity++
			cp := *it
			return &cp, false, nil
		}
	}
	it := &cart.CartItem{ID: newID, UserID: userID, ProductID: productID, Quantity: 1}
	s.items[newID] = it
	cp := *it
	return &cp, true, nil
}

func (s *stubCartRepo) Increment(ctx context.Context, id string) (*cart.CartItem, error) {
	it, ok := s.items[id]
	if !ok {
		return nil, cart.ErrNotFound
	}
	it.Quantity++
	cp := *it
	return &cp, nil
}

func (s *stubCartRepo) Decrement(ctx context.Context, id string) (*cart.CartItem, bool, error) {
	it, ok := s.items[id]
	if !ok {
		return nil, false, cart.ErrNotFound
	}
	if it.Quantity > 1 {
		it.Quantity--
		cp := *it
		return &cp, false, nil
	}
	delete(s.items, id)
	return nil, true, nil
}

func (s *stubCartRepo) SetQuantity(ctx context.Context, id string, quantity int) (*cart.CartItem, error) {
	it, ok := s.items[id]
	if !ok {
		return nil, cart.ErrNotFound
	}
	it.Quantity = quantity
	cp := *it
	return &cp, nil
}

func (s *stubCartRepo) Remove(ctx context.Context, id string) (bool, error) {
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func (s *stubCartRepo) ListByUser(ctx context.Context, userID string) ([]cart.ListedItem, error) {
	var out []cart.ListedItem
	for _, it := range s.items {
		if it.UserID == userID {
			out = append(out, cart.ListedItem{CartItem: *it})
		}
	}
	return out, nil
}

// stubProductRepo implements product.Repository in memory.
type stubProductRepo struct {
	products map[string]*product.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: map[string]*product.Product{}}
}

func (s *stubProductRepo) Create(ctx context.Context, p *product.Product) error {
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *stubProductRepo) GetByID(ctx context.Context, id string) (*product.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubProductRepo) List(ctx context.Context, q product.Query) ([]product.Product, error) {
	var out []product.Product
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubProductRepo) Update(ctx context.Context, p *product.Product, updatePrice bool) error {
	cur, ok := s.products[p.ID]
	if !ok {
		return fmt.Errorf("not found")
	}
	if p.Name != "" {
		cur.Name = p.Name
	}
	if updatePrice {
		cur.Price = p.Price
	}
	cur.Stock = p.Stock
	return nil
}

func (s *stubProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := s.products[id]; !ok {
		return false, nil
	}
	delete(s.products, id)
	return true, nil
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

//
// ---------- TESTS ----------
//

func TestAddToCart_NewThenExisting(t *testing.T) {
	t.Parallel()

	repo := newStubCartRepo()
	r := gin.New()
	r.POST("/cart", addToCartHandler(repo))

	uid, pid := uuid.NewString(), uuid.NewString()
	body := fmt.Sprintf(`{"user_id":%q,"product_id":%q}`, uid, pid)

	w := doJSON(r, http.MethodPost, "/cart", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s (expected 201 on first add)", w.Code, w.Body.String())
	}
	if len(repo.items) != 1 {
		t.Fatalf("rows=%d, want 1", len(repo.items))
	}

	w = doJSON(r, http.MethodPost, "/cart", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s (expected 200 on repeat add)", w.Code, w.Body.String())
	}
	if len(repo.items) != 1 {
		t.Fatalf("repeat add created a new row: rows=%d", len(repo.items))
	}
	for _, it := range repo.items {
		if it.Quantity != 2 {
			t.Fatalf("quantity=%d, want 2", it.Quantity)
		}
	}
}

func TestDecrementCart(t *testing.T) {
	t.Parallel()

	repo := newStubCartRepo()
	id2 := uuid.NewString()
	repo.items[id2] = &cart.CartItem{ID: id2, UserID: "u1", ProductID: "p1", Quantity: 2}
	id1 := uuid.NewString()
	repo.items[id1] = &cart.CartItem{ID: id1, UserID: "u1", ProductID: "p2", Quantity: 1}

	r := gin.New()
	r.POST("/cart/:id/decrement", decrementCartHandler(repo))

	// quantity 2 -> 1, row persists
	w := doJSON(r, http.MethodPost, "/cart/"+id2+"/decrement", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if it := repo.items[id2]; it == nil || it.Quantity != 1 {
		t.Fatalf("expected quantity 1, row kept: %+v", it)
	}

	// quantity 1 -> row deleted
	w = doJSON(r, http.MethodPost, "/cart/"+id1+"/decrement", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if _, ok := repo.items[id1]; ok {
		t.Fatal("row with quantity 1 was not deleted on decrement")
	}

	// absent -> 404
	w = doJSON(r, http.MethodPost, "/cart/"+uuid.NewString()+"/decrement", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404 for unknown item", w.Code)
	}
}

func TestSetCartQuantity_RejectsNonPositive(t *testing.T) {
	t.Parallel()

	repo := newStubCartRepo()
	id := uuid.NewString()
	repo.items[id] = &cart.CartItem{ID: id, UserID: "u1", ProductID: "p1", Quantity: 3}

	r := gin.New()
	r.PUT("/cart/:id/quantity", setCartQuantityHandler(repo))

	for _, q := range []int{0, -2} {
		w := doJSON(r, http.MethodPut, "/cart/"+id+"/quantity", fmt.Sprintf(`{"new_quantity":%d}`, q))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("new_quantity=%d: status=%d, want 400", q, w.Code)
		}
	}
	if repo.items[id].Quantity != 3 {
		t.Fatalf("quantity changed on rejected request: %d", repo.items[id].Quantity)
	}

	w := doJSON(r, http.MethodPut, "/cart/"+id+"/quantity", `{"new_quantity":5}`)
	if w.Code != http.StatusOK || repo.items[id].Quantity != 5 {
		t.Fatalf("status=%d quantity=%d, want 200 and 5", w.Code, repo.items[id].Quantity)
	}
}

func TestListCart_ScopedToUser(t *testing.T) {
	t.Parallel()

	repo := newStubCartRepo()
	a, b := uuid.NewString(), uuid.NewString()
	repo.items["i1"] = &cart.CartItem{ID: "i1", UserID: a, ProductID: "p1", Quantity: 1}
	repo.items["i2"] = &cart.CartItem{ID: "i2", UserID: b, ProductID: "p1", Quantity: 1}

	r := gin.New()
	r.GET("/cart", listCartHandler(repo))

	// user filter is mandatory
	w := doJSON(r, http.MethodGet, "/cart", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400 without user_id", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/cart?user_id="+a, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Items []cart.ListedItem `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].UserID != a {
		t.Fatalf("expected only user %s items, got %+v", a, resp.Items)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	t.Parallel()

	repo := newStubProductRepo()
	r := gin.New()
	r.POST("/products", createProductHandler(repo))

	cases := []string{
		`{"name":"x","price":"10"}`,                                      // missing user_id
		fmt.Sprintf(`{"user_id":%q,"name":"x"}`, uuid.NewString()),       // missing price
		fmt.Sprintf(`{"user_id":%q,"name":"x","price":"abc"}`, uuid.NewString()),
		fmt.Sprintf(`{"user_id":%q,"name":"x","price":"-5"}`, uuid.NewString()),
		fmt.Sprintf(`{"user_id":%q,"name":"x","price":"5","discount_pct":120}`, uuid.NewString()),
	}
	for _, body := range cases {
		w := doJSON(r, http.MethodPost, "/products", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body=%s: status=%d, want 400", body, w.Code)
		}
	}
	if len(repo.products) != 0 {
		t.Fatalf("invalid requests persisted products: %d", len(repo.products))
	}

	ok := fmt.Sprintf(`{"user_id":%q,"name":"Rice Cooker","price":"189900","stock":3,"weight_grams":1500}`, uuid.NewString())
	w := doJSON(r, http.MethodPost, "/products", ok)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.GET("/products/:id", getProductHandler(newStubProductRepo()))

	w := doJSON(r, http.MethodGet, "/products/"+uuid.NewString(), "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", w.Code)
	}
}

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
}
