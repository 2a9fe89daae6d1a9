package main

import (
	"log"
	"net/http"

	"finpay-bridge/internal/api"
	"finpay-bridge/internal/cart"
	"finpay-bridge/internal/checkout"
	"finpay-bridge/internal/config"
	"finpay-bridge/internal/db"
	"finpay-bridge/internal/finpay"
	"finpay-bridge/internal/finpay/webhook"
	"finpay-bridge/internal/logger"
	"finpay-bridge/internal/middleware"
	"finpay-bridge/internal/order"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	creds := cfg.Resolve()
	if creds.MerchantID == "" || creds.MerchantSecret == "" {
		logger.L().Warn("finpay merchant credentials are empty; initiation requests will be rejected by the gateway")
	}

	database := db.InitDB(cfg)
	defer database.Close()

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo)

	cartRepo := cart.NewRepository(database)

	gateway := finpay.NewClient(cfg.RequestTimeout)
	checkoutSvc := checkout.NewService(cfg, gateway, orderSvc, cartRepo)

	apiHandler := api.NewHandler(checkoutSvc, orderSvc)
	webhookHandler := webhook.NewHandler(cfg, orderSvc)

	mux := http.NewServeMux()
	mux.HandleFunc("/webhook/finpay", webhookHandler.HandleNotification)
	mux.Handle("POST /api/checkout/{orderID}/pay", middleware.RequireAuth(http.HandlerFunc(apiHandler.InitiatePayment)))
	mux.Handle("GET /api/orders/{orderID}/payment", middleware.RequireAuth(http.HandlerFunc(apiHandler.PaymentStatus)))

	handler := logger.RequestIDMiddleware(
		logger.LoggingMiddleware(
			middleware.RateLimitMiddleware(mux),
		),
	)

	log.Printf("finpay bridge running on :%s (%s)", cfg.AppPort, cfg.FinpayEnv)
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, handler))
}
