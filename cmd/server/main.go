package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"credit-engine/internal/cache"
	"credit-engine/internal/config"
	"credit-engine/internal/engine"
	"credit-engine/internal/model"
	"credit-engine/internal/repository"
	"credit-engine/internal/service"
	"credit-engine/internal/transport/rest"
	"credit-engine/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	questionnaireRepo := repository.NewQuestionnaireRepo(db)
	screeningRepo := repository.NewScreeningRepo(db)
	responseRepo := repository.NewResponseRepo(db)
	calcRepo := repository.NewCalculationRepo(db)
	referenceRepo := repository.NewReferenceRepo(db)

	// Initialize caches
	questionnaireCache := cache.NewQuestionnaireCache(rdb)
	responseCache := cache.NewResponseCache(rdb)
	progressCache := cache.NewProgressCache(rdb)

	// Build the engine from the reference tables
	eng := buildEngine(ctx, cfg, referenceRepo)

	// Initialize services
	authSvc := service.NewAuthService()
	questionnaireSvc := service.NewQuestionnaireService(questionnaireRepo, questionnaireCache, eng)
	screeningSvc := service.NewScreeningService(screeningRepo, responseRepo, responseCache, progressCache, questionnaireSvc, eng, authSvc)
	calcSvc := service.NewCalculationService(calcRepo, screeningRepo, eng)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	screeningSvc.SetBroadcaster(wsHub)
	calcSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:          authSvc,
		QuestionnaireService: questionnaireSvc,
		ScreeningService:     screeningSvc,
		CalculationService:   calcSvc,
		ProgressCache:        progressCache,
		WSHub:                wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST/GET /v1/questionnaires")
		log.Println("  POST /v1/questionnaires/{id}/publish")
		log.Println("  POST/GET /v1/screenings")
		log.Println("  POST /v1/screenings/{id}/answers")
		log.Println("  GET/PUT /v1/screenings/{id}/credits")
		log.Println("  POST /v1/credits/payroll-batch")
		log.Println("  WS  /v1/ws/dashboard")
		log.Println("  WS  /v1/ws/screenings/{id}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// buildEngine constructs the calculation engine, preferring the Mongo
// reference tables when configured and falling back to the built-in ones
func buildEngine(ctx context.Context, cfg *config.Config, referenceRepo repository.ReferenceRepo) *engine.Engine {
	groups := model.DefaultTargetGroups()
	var programs map[string]model.ProgramFormula

	if cfg.ReferenceFromDB {
		loaded, err := referenceRepo.LoadTargetGroups(ctx)
		if err != nil || len(loaded) == 0 {
			log.Println("Warning: no target groups in DB, using built-in table")
		} else {
			groups = loaded
		}
		programs, err = referenceRepo.LoadProgramFormulas(ctx)
		if err != nil {
			log.Println("Warning: failed to load program formulas:", err)
		}
	}

	log.Printf("Engine loaded: %d target groups, %d program formulas", len(groups), len(programs))
	return engine.New(groups, programs)
}
