package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"sky_flights_booking/internal/config"
	"sky_flights_booking/internal/database"
	"sky_flights_booking/internal/handlers"
	"sky_flights_booking/internal/logger"
	"sky_flights_booking/internal/services"
)

func main() {
	config.Load()
	logger.Init(config.AppConfig.Env)
	defer logger.Sync()
	log := logger.Get()

	log.Info("starting booking service")

	cache, err := database.NewRedisClient(
		config.AppConfig.RedisAddr,
		config.AppConfig.RedisPassword,
		config.AppConfig.RedisDB,
	)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer cache.Close()

	bookingService := services.NewBookingService(cache, config.AppConfig.CabinLayout())
	bookingHandlers := handlers.NewBookingHandlers(bookingService)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/bookings", bookingHandlers.StartBooking)
	mux.HandleFunc("GET /api/bookings/{id}", bookingHandlers.GetBooking)
	mux.HandleFunc("POST /api/bookings/{id}/advance", bookingHandlers.Advance)
	mux.HandleFunc("POST /api/bookings/{id}/retreat", bookingHandlers.Retreat)
	mux.HandleFunc("POST /api/bookings/{id}/complete", bookingHandlers.Complete)
	mux.HandleFunc("PUT /api/bookings/{id}/passenger", bookingHandlers.SetPassenger)
	mux.HandleFunc("PUT /api/bookings/{id}/payment", bookingHandlers.SetPayment)
	mux.HandleFunc("GET /api/bookings/{id}/seatmap", bookingHandlers.SeatMap)
	mux.HandleFunc("PUT /api/bookings/{id}/seat", bookingHandlers.SelectSeat)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"booking-service"}`))
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: config.AppConfig.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowedHeaders: []string{"Content-Type", "X-Client-ID"},
	}).Handler(mux)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.BookingPort,
		Handler:      corsHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("booking service listening", zap.String("port", config.AppConfig.BookingPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down booking service")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("booking service exited")
}
