package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adityarizkyr/gerai-backend/internal/address"
	"github.com/adityarizkyr/gerai-backend/internal/checkout"
	"github.com/adityarizkyr/gerai-backend/internal/payment"
	"github.com/adityarizkyr/gerai-backend/internal/shipping"
)

// createAddressHandler POST /addresses
func createAddressHandler(repo address.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req address.CreateAddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if req.UserID == "" || req.Recipient == "" || req.Street == "" || req.City == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id, recipient, street and city are required"})
			return
		}
		a := &address.Address{
			ID:         uuid.NewString(),
			UserID:     req.UserID,
			Recipient:  req.Recipient,
			Phone:      req.Phone,
			Street:     req.Street,
			City:       req.City,
			Province:   req.Province,
			PostalCode: req.PostalCode,
			IsDefault:  req.IsDefault,
		}
		if err := repo.Create(c.Request.Context(), a); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create address error"})
			return
		}
		c.JSON(http.StatusCreated, a)
	}
}

// listAddressesHandler GET /addresses?user_id=
func listAddressesHandler(repo address.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}
		out, err := repo.ListByUser(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list addresses error"})
			return
		}
		if out == nil {
			out = []address.Address{}
		}
		c.JSON(http.StatusOK, gin.H{"addresses": out})
	}
}

// defaultAddressHandler GET /addresses/default?user_id=
func defaultAddressHandler(repo address.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}
		a, err := repo.DefaultByUser(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, address.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no default address"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "default address error"})
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

// updateAddressHandler PUT /addresses/:id
func updateAddressHandler(repo address.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req address.CreateAddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		a := &address.Address{
			ID:         c.Param("id"),
			Recipient:  req.Recipient,
			Phone:      req.Phone,
			Street:     req.Street,
			City:       req.City,
			Province:   req.Province,
			PostalCode: req.PostalCode,
		}
		if err := repo.Update(c.Request.Context(), a); err != nil {
			if errors.Is(err, address.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update address error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": true})
	}
}

// deleteAddressHandler DELETE /addresses/:id
func deleteAddressHandler(repo address.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete address error"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

// setDefaultAddressHandler PATCH /addresses/:id/default
func setDefaultAddressHandler(repo address.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			UserID string `json:"user_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}
		if err := repo.SetDefault(c.Request.Context(), req.UserID, c.Param("id")); err != nil {
			if errors.Is(err, address.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "set default error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"default": true})
	}
}

// shippingCostHandler GET /shipping/cost?destination=&weight=&courier=[&origin=]
func shippingCostHandler(courier *shipping.Client, defaultOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Query("origin")
		if origin == "" {
			origin = defaultOrigin
		}
		weight, err := strconv.Atoi(c.Query("weight"))
		if err != nil || weight <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "weight must be a positive number of grams"})
			return
		}
		dest := c.Query("destination")
		if dest == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "destination is required"})
			return
		}
		code := c.DefaultQuery("courier", "jne")

		rates, err := courier.Cost(c.Request.Context(), origin, dest, weight, code)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "courier api error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"rates": rates})
	}
}

// createCheckoutHandler POST /checkouts
func createCheckoutHandler(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkout.CreateCheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		itemIDs := make([]string, 0, len(req.Items))
		for _, it := range req.Items {
			if it.CartItemID != "" {
				itemIDs = append(itemIDs, it.CartItemID)
			}
		}
		out, outcome, err := svc.Consolidate(c.Request.Context(), req.UserID, itemIDs)
		if err != nil {
			if errors.Is(err, checkout.ErrInvalidInput) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "userId and items are required"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout error"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"checkout": out, "message": outcome.Message()})
	}
}

// latestCheckoutHandler GET /checkouts/latest?user_id=
func latestCheckoutHandler(repo checkout.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}
		out, err := repo.LatestWithDetails(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, checkout.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no checkout found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "latest checkout error"})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// checkoutHistoryHandler GET /checkouts/history?user_id=
func checkoutHistoryHandler(repo checkout.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}
		out, err := repo.HistoryWithPayments(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "history error"})
			return
		}
		if out == nil {
			out = []checkout.HistoryEntry{}
		}
		c.JSON(http.StatusOK, gin.H{"checkouts": out})
	}
}

// checkoutDetailHandler GET /checkouts/:id
func checkoutDetailHandler(repo checkout.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := repo.Detail(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, checkout.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "checkout not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "detail error"})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// paymentNotificationHandler POST /payments/notification
// Body uses the gateway's wire names; order_id carries our transaction id.
func paymentNotificationHandler(repo payment.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req payment.NotificationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if req.OrderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order_id is required"})
			return
		}
		status := payment.StatusFromGateway(req.TransactionStatus)
		p, err := repo.UpdateByTransactionID(c.Request.Context(), req.OrderID, status, req.PaymentType, req.TransactionStatus)
		if err != nil {
			if errors.Is(err, payment.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "notification error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"payment": p})
	}
}
