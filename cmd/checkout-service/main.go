package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adityarizkyr/gerai-backend/internal/address"
	"github.com/adityarizkyr/gerai-backend/internal/checkout"
	"github.com/adityarizkyr/gerai-backend/internal/config"
	"github.com/adityarizkyr/gerai-backend/internal/httpx"
	"github.com/adityarizkyr/gerai-backend/internal/payment"
	"github.com/adityarizkyr/gerai-backend/internal/shipping"
)

func main() {
	cfg := config.Load()

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("pgxpool: %v", err)
	}
	defer pool.Close()

	addresses := address.NewPGRepo(pool)
	payments := payment.NewPGRepo(pool)
	store := checkout.NewPGStore(pool)
	consolidator := checkout.NewService(store)
	courier := shipping.NewClient(cfg.CourierBaseURL, cfg.CourierAPIKey)

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.CORS())

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })

	r.POST("/addresses", createAddressHandler(addresses))
	r.GET("/addresses", listAddressesHandler(addresses))
	r.GET("/addresses/default", defaultAddressHandler(addresses))
	r.PUT("/addresses/:id", updateAddressHandler(addresses))
	r.DELETE("/addresses/:id", deleteAddressHandler(addresses))
	r.PATCH("/addresses/:id/default", setDefaultAddressHandler(addresses))

	r.GET("/shipping/cost", shippingCostHandler(courier, cfg.ShippingOrigin))

	r.POST("/checkouts", createCheckoutHandler(consolidator))
	r.GET("/checkouts/latest", latestCheckoutHandler(store))
	r.GET("/checkouts/history", checkoutHistoryHandler(store))
	r.GET("/checkouts/:id", checkoutDetailHandler(store))

	r.POST("/payments/notification", paymentNotificationHandler(payments))

	log.Printf("checkout-service listening on %s", cfg.CheckoutSvcAddr)
	log.Fatal(r.Run(cfg.CheckoutSvcAddr))
}
