package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/example/furniture-shop/internal/api"
	"github.com/example/furniture-shop/internal/auth"
	"github.com/example/furniture-shop/internal/cart"
	"github.com/example/furniture-shop/internal/catalog"
	"github.com/example/furniture-shop/internal/checkout"
	"github.com/example/furniture-shop/internal/config"
	"github.com/example/furniture-shop/internal/events"
	"github.com/example/furniture-shop/internal/order"
	"github.com/example/furniture-shop/internal/store"
	"github.com/example/furniture-shop/internal/user"
	"github.com/example/furniture-shop/internal/wishlist"
)

const tokenExpiry = 7 * 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("loading configuration")
	}
	if err := cfg.ValidateAPI(); err != nil {
		log.Fatal(err)
	}

	logger := log.WithField("component", "api")
	logger.WithFields(log.Fields{
		"addr":  cfg.ListenAddr,
		"kafka": cfg.KafkaBrokers,
		"topic": cfg.KafkaTopic,
	}).Info("starting storefront API")

	db, err := store.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("connecting to postgres")
	}
	defer db.Close()

	if err := store.EnsureSchema(db); err != nil {
		logger.WithError(err).Fatal("ensuring schema")
	}
	logger.Info("connected to postgres")

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	products := store.NewPostgresProductStore(db)
	carts := store.NewPostgresCartStore(db)
	orders := store.NewPostgresOrderStore(db)
	users := store.NewPostgresUserStore(db)
	wishlists := store.NewPostgresWishlistStore(db)

	jwtService := auth.NewJWTService(cfg.JWTSecret, tokenExpiry)

	userSvc := user.NewService(users)
	catalogSvc := catalog.NewService(products)
	cartSvc := cart.NewService(carts, products)
	orderSvc := order.NewService(orders, producer)
	wishlistSvc := wishlist.NewService(wishlists, products, cartSvc)
	engine := checkout.NewEngine(store.NewPostgresCheckout(db), users, producer)

	router := api.NewRouter(api.Handlers{
		Auth:     api.NewAuthHandlers(userSvc, jwtService),
		Product:  api.NewProductHandlers(catalogSvc),
		Cart:     api.NewCartHandlers(cartSvc, engine),
		Order:    api.NewOrderHandlers(orderSvc),
		User:     api.NewUserHandlers(userSvc),
		Wishlist: api.NewWishlistHandlers(wishlistSvc),
	}, jwtService)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	go func() {
		logger.WithField("addr", cfg.ListenAddr).Info("listening")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("shutdown")
	}
}
