package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Houssam-Chakir/motoshop-backend/handlers"
	"github.com/Houssam-Chakir/motoshop-backend/internal/assets"
	"github.com/Houssam-Chakir/motoshop-backend/internal/catalog"
	"github.com/Houssam-Chakir/motoshop-backend/internal/checkout"
	"github.com/Houssam-Chakir/motoshop-backend/internal/clock"
	"github.com/Houssam-Chakir/motoshop-backend/internal/repository"
)

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	log.Printf("Using fallback for env var %s: %s", key, fallback)
	return fallback
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	mongoCfg := repository.MongoConfig{
		URI:      getEnv("MONGO_URI", ""),
		Host:     getEnv("MONGO_HOST", "localhost"),
		Port:     getEnv("MONGO_PORT", "27017"),
		User:     getEnv("MONGO_USER", ""),
		Password: getEnv("MONGO_PASSWORD", ""),
		DBName:   getEnv("MONGO_DBNAME", "motoshop_db"),
		Timeout:  15 * time.Second,
	}
	httpPort := getEnv("HTTP_PORT", "8080")
	cloudinaryURL := getEnv("CLOUDINARY_URL", "")
	adminToken := getEnv("ADMIN_TOKEN", "")

	dbClient := repository.NewClient(mongoCfg)
	if err := dbClient.Connect(context.Background()); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB client...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := dbClient.Disconnect(ctx); err != nil {
			log.Printf("Error disconnecting MongoDB client: %v", err)
		}
	}()

	assetStore, err := assets.NewCloudinaryStore(cloudinaryURL)
	if err != nil {
		log.Fatalf("Failed to init Cloudinary: %v", err)
	}

	db := dbClient.Database()
	productStore := repository.NewMongoProductStore(db)
	categoryStore := repository.NewMongoCategoryStore(db)
	typeStore := repository.NewMongoTypeStore(db)
	stockStore := repository.NewMongoStockStore(db)
	saleStore := repository.NewMongoSaleStore(db)
	orderStore := repository.NewMongoOrderStore(db)
	userStore := repository.NewMongoUserStore(db)
	cartStore := repository.NewMongoCartStore(db)

	txnRunner := repository.NewMongoTxnRunner(dbClient.Mongo())
	clk := clock.RealClock{}

	checkoutSvc := checkout.NewService(txnRunner, productStore, saleStore, stockStore, orderStore, clk)
	catalogSvc := catalog.NewService(txnRunner, categoryStore, typeStore, productStore, stockStore, assetStore)

	auth := handlers.AuthConfig{AdminToken: adminToken}
	router := handlers.NewRouter(handlers.RouterDeps{
		Products: handlers.NewProductHandler(productStore, stockStore, saleStore, catalogSvc, auth, clk),
		Category: handlers.NewCategoryHandler(categoryStore, typeStore, catalogSvc, auth),
		Orders:   handlers.NewOrderHandler(checkoutSvc, orderStore, cartStore),
		Sales:    handlers.NewSaleHandler(saleStore, clk),
		Account:  handlers.NewAccountHandler(userStore, cartStore),
		Auth:     auth,
	})

	server := &http.Server{
		Addr:    ":" + httpPort,
		Handler: router,
	}

	go func() {
		log.Printf("Starting motoshop backend on port %s", httpPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server exiting")
}
