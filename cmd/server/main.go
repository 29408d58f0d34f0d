package main

import (
	"advokit/case-app/internal/api"
	"advokit/case-app/internal/config"
	"advokit/case-app/internal/repository/mongo"
	"advokit/case-app/internal/service"
	"advokit/case-app/internal/storage"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	log.Println("Starting case management server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureCaseIndexes(ctx, appDB.Collection("cases"))
		mongo.EnsureNoteIndexes(ctx, appDB.Collection("notes"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Printf("Initializing file storage (driver: %s)...", cfg.Storage.Driver)
	var fileStorage storage.FileStorage
	switch cfg.Storage.Driver {
	case config.StorageDriverS3:
		fileStorage, err = storage.NewS3Storage(cfg.Storage.S3)
	default:
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.Local.Dir, cfg.Storage.Local.PublicBase)
	}
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize file storage: %v", err)
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	caseRepo := mongo.NewMongoCaseRepository(appDB)
	noteRepo := mongo.NewMongoNoteRepository(appDB)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	caseService := service.NewCaseService(caseRepo, noteRepo, fileStorage)
	noteService := service.NewNoteService(noteRepo)
	dashboardService := service.NewDashboardService(caseRepo)

	// --- Initialize Gin Engine ---
	router := gin.Default()

	// The local driver serves uploaded documents straight off disk. The S3
	// driver hands out presigned URLs instead, so no static route is needed.
	if cfg.Storage.Driver == config.StorageDriverLocal {
		router.Static(cfg.Storage.Local.PublicBase, cfg.Storage.Local.Dir)
	}

	// --- Setup Routes ---
	dbPing := func(ctx context.Context) error {
		return dbClient.Ping(ctx, readpref.Primary())
	}
	api.SetupRoutes(router, cfg.JWT.Secret, dbPing, authService, caseService, noteService, dashboardService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
