package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/rs/cors"

	"mgnrega_api/config"
	"mgnrega_api/handlers"
	"mgnrega_api/middleware"
	"mgnrega_api/services"
	"mgnrega_api/store"
)

type HealthResponse struct {
	Status      string `json:"status"`
	StoreStatus string `json:"store_status"`
	Backend     string `json:"backend"`
	Error       string `json:"error,omitempty"`
}

func healthCheck(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Status:  "ok",
			Backend: config.StoreBackend(),
		}

		if err := st.Ping(r.Context()); err != nil {
			response.Status = "error"
			response.StoreStatus = "connection_error"
			response.Error = fmt.Sprintf("Store ping failed: %v", err)
		} else {
			response.StoreStatus = "connected"
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}

func main() {
	startTime := time.Now()
	log.Printf("Starting server initialization at %s", startTime.Format(time.RFC3339))

	if err := config.LoadEnv(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		log.Printf("No PORT environment variable found, using default: %s", port)
	}

	config.InitCache()

	log.Printf("Initializing %s store...", config.StoreBackend())
	st, err := config.OpenStore(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()
	log.Printf("Store initialized successfully")

	clock := clockwork.NewRealClock()
	maxAge := config.CacheMaxAge()
	client := services.NewDataGovClient(config.DataGovAPIKey())

	mgnregaService := services.NewMGNREGAService(st, client, clock, maxAge)
	locationService := services.NewLocationService()
	handlers.Init(mgnregaService, locationService, client)

	scheduler := services.NewScheduler(
		config.OpenStore, client, clock, maxAge,
		config.RefreshInterval(), config.CleanupInterval(), config.CleanupRetention(),
	)
	scheduler.Start()

	r := mux.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:8080",
		},
		AllowedMethods: []string{
			"GET", "POST", "OPTIONS",
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Requested-With",
			"Origin",
		},
		ExposedHeaders: []string{
			"Content-Length",
			"Content-Type",
		},
		AllowCredentials: false,
		MaxAge:           86400,
	})

	r.Use(corsHandler.Handler)
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)

	api := r.PathPrefix("/api/v1").Subrouter()
	registerRoutes(api)
	api.HandleFunc("/health/detailed", healthCheck(st)).Methods("GET")
	log.Println("Routes registered successfully")

	srv := &http.Server{
		Handler:           r,
		Addr:              ":" + port,
		WriteTimeout:      15 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Printf("Starting server on port %s...", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
			serverErrors <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("Shutdown signal received")
	case err := <-serverErrors:
		log.Printf("Server error received: %v", err)
	}

	log.Println("Shutting down server...")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	} else {
		log.Println("Server shutdown completed successfully")
	}
}

func registerRoutes(api *mux.Router) {
	// District data routes
	api.HandleFunc("/data/{district_code}", handlers.GetDistrictData).Methods("GET", "OPTIONS")
	api.HandleFunc("/stats/{district_code}", handlers.GetDistrictStats).Methods("GET", "OPTIONS")
	api.HandleFunc("/compare", handlers.CompareDistricts).Methods("POST", "OPTIONS")

	// Cache management routes
	api.HandleFunc("/refresh-data", handlers.RefreshData).Methods("GET")
	api.HandleFunc("/cache-status", handlers.GetCacheStatus).Methods("GET")

	// Location routes
	api.HandleFunc("/detect-district", handlers.DetectDistrict).Methods("POST", "OPTIONS")
	api.HandleFunc("/districts/{state}", handlers.GetDistrictsByState).Methods("GET")

	// Summary routes
	api.HandleFunc("/summary/state/{state_code}", handlers.GetStateSummary).Methods("GET")
	api.HandleFunc("/summary/national", handlers.GetNationalSummary).Methods("GET")

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")
}
