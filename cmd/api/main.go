// cmd/api/main.go
// Main entry point for the matchmaking engine
// This file bootstraps all components and starts the server

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

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	// Internal packages
	"github.com/AnnedithB/BellaDating-sub003/internal/auth"
	"github.com/AnnedithB/BellaDating-sub003/internal/common/database"
	"github.com/AnnedithB/BellaDating-sub003/internal/config"
	"github.com/AnnedithB/BellaDating-sub003/internal/matchmaking"
)

var startTime = time.Now()

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting BellaDating Matchmaking API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load and validate configuration
	log.Println("\n📋 Step 2: Loading configuration...")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed:", err)
	}
	log.Println("✅ Configuration loaded and valid")

	// 3. Connect to PostgreSQL (optional; memory repository otherwise)
	log.Println("\n🗄️  Step 3: Connecting to PostgreSQL...")
	var repo matchmaking.Repository
	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("❌ Failed to connect to PostgreSQL:", err)
		}
		defer db.Close()
		repo = matchmaking.NewPostgresRepository(db)
		log.Println("✅ Connected to PostgreSQL successfully")
	} else {
		repo = matchmaking.NewMemoryRepository()
		log.Println("⚠️  DATABASE_URL not configured, using in-memory repository (development mode)")
	}

	// 4. Connect to Redis (optional)
	log.Println("\n📮 Step 4: Connecting to Redis...")
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis connection failed: %v, continuing without Redis", err)
		} else {
			redisClient = client
			defer redisClient.Close()
			log.Println("✅ Connected to Redis successfully")
		}
	} else {
		log.Println("⚠️  Redis URL not configured, scheduler lease and stats cache disabled")
	}

	// 5. Initialize matchmaking engine
	log.Println("\n💘 Step 5: Initializing matchmaking engine...")

	queueStore := matchmaking.NewQueueStore()
	prefStore := matchmaking.NewPreferenceStore(repo)

	weights := matchmaking.ScoreWeights{
		Gender:    cfg.WeightGender,
		Location:  cfg.WeightLocation,
		Age:       cfg.WeightAge,
		Intent:    cfg.WeightIntent,
		Interests: cfg.WeightInterests,
		Lifestyle: cfg.WeightLifestyle,
		Languages: cfg.WeightLanguages,
	}
	scorer := matchmaking.NewScorer(weights, cfg.ReferenceDistanceKm)

	schedulerConfig := matchmaking.SchedulerConfig{
		TickInterval:        cfg.TickInterval,
		AcceptanceThreshold: cfg.AcceptanceThreshold,
		LockTTL:             cfg.SchedulerLockTTL,
	}

	// Profile resolution is owned by the identity service; the mock admits
	// everyone until that integration is wired.
	resolver := matchmaking.NewMockProfileResolver()

	matchService := matchmaking.NewService(queueStore, prefStore, scorer, repo, resolver, redisClient, schedulerConfig)
	matchHandler := matchmaking.NewHandler(matchService)

	scheduler := matchmaking.NewScheduler(queueStore, prefStore, scorer, repo, redisClient, schedulerConfig)

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	go scheduler.Start(schedulerCtx)
	log.Printf("✅ Matchmaking engine initialized (tick %s, threshold %d)", cfg.TickInterval, cfg.AcceptanceThreshold)

	// 6. Setup routes
	log.Println("\n🛣️  Step 6: Setting up routes...")
	router := mux.NewRouter()

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	authMiddleware := auth.NewMiddleware(cfg.JWTSecret)
	matchmaking.RegisterRoutes(router, matchHandler, authMiddleware)
	log.Println("✅ Routes registered")

	// 7. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("\n========================================")
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n⚠️  Shutdown signal received...")

	// Stop the scheduler before draining connections
	stopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited gracefully")
}

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
