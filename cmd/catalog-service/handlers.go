package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adityarizkyr/gerai-backend/internal/cart"
	"github.com/adityarizkyr/gerai-backend/internal/product"
	"github.com/adityarizkyr/gerai-backend/internal/user"
)

// registerUserHandler POST /users
func registerUserHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if req.Username == "" || req.Email == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username, email and password are required"})
			return
		}
		hash, err := user.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "hash error"})
			return
		}
		u := &user.User{
			ID:           uuid.NewString(),
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			City:         req.City,
		}
		if err := repo.Create(c.Request.Context(), u); err != nil {
			if errors.Is(err, user.ErrAlreadyExist) {
				c.JSON(http.StatusConflict, gin.H{"error": "user exists (username/email)"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create error"})
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

// loginUserHandler POST /users/login verifies credentials and returns
// the user id. No session or token is issued.
func loginUserHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}
		u, err := repo.GetByEmail(c.Request.Context(), req.Email)
		if err != nil || !user.CheckPassword(u.PasswordHash, req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": u.ID, "ok": true})
	}
}

// getUserHandler GET /users/:id
func getUserHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "get error"})
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// deleteUserHandler DELETE /users/:id
func deleteUserHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete error"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

// createProductHandler POST /products
func createProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if req.UserID == "" || req.Name == "" || req.Price == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id, name and price are required"})
			return
		}
		price, err := decimal.NewFromString(req.Price)
		if err != nil || price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a non-negative number"})
			return
		}
		if req.Stock < 0 || req.WeightGrams < 0 || req.DiscountPct < 0 || req.DiscountPct > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stock, weight or discount"})
			return
		}
		p := &product.Product{
			ID:          uuid.NewString(),
			UserID:      req.UserID,
			Name:        req.Name,
			Description: req.Description,
			Price:       price.String(),
			Stock:       req.Stock,
			WeightGrams: req.WeightGrams,
			Category:    req.Category,
			ImageURL:    req.ImageURL,
			DiscountPct: req.DiscountPct,
		}
		if err := repo.Create(c.Request.Context(), p); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create error"})
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// listProductsHandler GET /products?q=&limit=&offset=
func listProductsHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := product.Query{Q: c.Query("q")}
		q.Limit = intQuery(c, "limit", 20)
		q.Offset = intQuery(c, "offset", 0)

		items, err := repo.List(c.Request.Context(), q)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list error"})
			return
		}
		if items == nil {
			items = []product.Product{}
		}
		c.JSON(http.StatusOK, product.ListResponse{Q: q.Q, Limit: q.Limit, Offset: q.Offset, Items: items})
	}
}

// getProductHandler GET /products/:id
func getProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// updateProductHandler PUT /products/:id
func updateProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		updatePrice := req.Price != ""
		if updatePrice {
			price, err := decimal.NewFromString(req.Price)
			if err != nil || price.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a non-negative number"})
				return
			}
			req.Price = price.String()
		}
		cur, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		p := &product.Product{
			ID:          cur.ID,
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Stock:       req.Stock,
			WeightGrams: req.WeightGrams,
			Category:    req.Category,
			ImageURL:    req.ImageURL,
			DiscountPct: req.DiscountPct,
		}
		if err := repo.Update(c.Request.Context(), p, updatePrice); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update error"})
			return
		}
		out, err := repo.GetByID(c.Request.Context(), cur.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "refetch error"})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// deleteProductHandler DELETE /products/:id
func deleteProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete error"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

// addToCartHandler POST /cart
func addToCartHandler(repo cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cart.AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if req.UserID == "" || req.ProductID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and product_id are required"})
			return
		}
		it, created, err := repo.AddItem(c.Request.Context(), req.UserID, req.ProductID, uuid.NewString())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "add to cart error"})
			return
		}
		status := http.StatusOK
		msg := "quantity increased"
		if created {
			status = http.StatusCreated
			msg = "product added to cart"
		}
		c.JSON(status, gin.H{"item": it, "message": msg})
	}
}

// listCartHandler GET /cart?user_id=
// The listing is scoped to one user; a global dump is never served.
func listCartHandler(repo cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}
		items, err := repo.ListByUser(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list cart error"})
			return
		}
		if items == nil {
			items = []cart.ListedItem{}
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// incrementCartHandler POST /cart/:id/increment
func incrementCartHandler(repo cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		it, err := repo.Increment(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, cart.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "increment error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"item": it})
	}
}

// decrementCartHandler POST /cart/:id/decrement
func decrementCartHandler(repo cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		it, deleted, err := repo.Decrement(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, cart.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decrement error"})
			return
		}
		if deleted {
			c.JSON(http.StatusOK, gin.H{"deleted": true, "message": "cart item removed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"item": it})
	}
}

// setCartQuantityHandler PUT /cart/:id/quantity
func setCartQuantityHandler(repo cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cart.SetQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if req.NewQuantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "new_quantity must be at least 1"})
			return
		}
		it, err := repo.SetQuantity(c.Request.Context(), c.Param("id"), req.NewQuantity)
		if err != nil {
			if errors.Is(err, cart.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "set quantity error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"item": it})
	}
}

// removeCartHandler DELETE /cart/:id
func removeCartHandler(repo cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Remove(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "remove error"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

func intQuery(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
