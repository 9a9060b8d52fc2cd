package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adityarizkyr/gerai-backend/internal/cart"
	"github.com/adityarizkyr/gerai-backend/internal/config"
	"github.com/adityarizkyr/gerai-backend/internal/httpx"
	"github.com/adityarizkyr/gerai-backend/internal/product"
	"github.com/adityarizkyr/gerai-backend/internal/user"
)

func main() {
	cfg := config.Load()

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("pgxpool: %v", err)
	}
	defer pool.Close()

	users := user.NewPGRepo(pool)
	products := product.NewPGRepo(pool)
	carts := cart.NewPGRepo(pool)

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.CORS())

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })

	r.POST("/users", registerUserHandler(users))
	r.POST("/users/login", loginUserHandler(users))
	r.GET("/users/:id", getUserHandler(users))
	r.DELETE("/users/:id", deleteUserHandler(users))

	r.POST("/products", createProductHandler(products))
	r.GET("/products", listProductsHandler(products))
	r.GET("/products/:id", getProductHandler(products))
	r.PUT("/products/:id", updateProductHandler(products))
	r.DELETE("/products/:id", deleteProductHandler(products))

	r.POST("/cart", addToCartHandler(carts))
	r.GET("/cart", listCartHandler(carts))
	r.POST("/cart/:id/increment", incrementCartHandler(carts))
	r.POST("/cart/:id/decrement", decrementCartHandler(carts))
	r.PUT("/cart/:id/quantity", setCartQuantityHandler(carts))
	r.DELETE("/cart/:id", removeCartHandler(carts))

	log.Printf("catalog-service listening on %s", cfg.CatalogSvcAddr)
	log.Fatal(r.Run(cfg.CatalogSvcAddr))
}
