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
	"sky_flights_booking/internal/skyapi"
)

func main() {
	config.Load()
	logger.Init(config.AppConfig.Env)
	defer logger.Sync()
	log := logger.Get()

	log.Info("starting search service")

	cache, err := database.NewRedisClient(
		config.AppConfig.RedisAddr,
		config.AppConfig.RedisPassword,
		config.AppConfig.RedisDB,
	)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer cache.Close()

	apiClient := skyapi.NewClient(
		config.AppConfig.SkyAPIBaseURL,
		config.AppConfig.SkyAPIKey,
		time.Duration(config.AppConfig.SkyAPITimeoutSec)*time.Second,
	)

	searchService := services.NewSearchService(cache, apiClient)
	searchHandlers := handlers.NewSearchHandlers(searchService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/airports/search", searchHandlers.SearchAirports)
	mux.HandleFunc("GET /api/search/form", searchHandlers.GetForm)
	mux.HandleFunc("PUT /api/search/form", searchHandlers.UpdateForm)
	mux.HandleFunc("POST /api/search/form/passengers", searchHandlers.AdjustPassengers)
	mux.HandleFunc("POST /api/search/form/search", searchHandlers.Search)
	mux.HandleFunc("POST /api/search/form/modify", searchHandlers.ModifySearch)
	mux.HandleFunc("GET /api/search/link", searchHandlers.ShareLink)
	mux.HandleFunc("GET /api/flights/search", searchHandlers.Results)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"search-service"}`))
	})

	// The browser front end is the caller
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: config.AppConfig.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowedHeaders: []string{"Content-Type", "X-Client-ID"},
	}).Handler(mux)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.SearchPort,
		Handler:      corsHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("search service listening", zap.String("port", config.AppConfig.SearchPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down search service")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("search service exited")
}
