package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/prepdeck/prepdeck-backend/internal/db"
	"github.com/prepdeck/prepdeck-backend/internal/handlers"
	"github.com/prepdeck/prepdeck-backend/internal/logger"
	"github.com/prepdeck/prepdeck-backend/internal/notes"
	"github.com/prepdeck/prepdeck-backend/internal/render"
	"github.com/prepdeck/prepdeck-backend/internal/repos"
	"github.com/prepdeck/prepdeck-backend/internal/server"
	"github.com/prepdeck/prepdeck-backend/internal/services"
	"github.com/prepdeck/prepdeck-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	port := utils.GetEnv("PORT", "8080", log)
	requireCategory := utils.GetEnvAsBool("NOTES_REQUIRE_CATEGORY", true, log)
	allowOrigins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173", log), ",")

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	noteRepo := repos.NewNoteRepo(thePG, log)
	companyRepo := repos.NewCompanyRepo(thePG, log)
	employeeRepo := repos.NewEmployeeRepo(thePG, log)
	repoCardRepo := repos.NewRepoCardRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	bucketService, err := services.NewBucketService(log)
	if err != nil {
		log.Error("Could not init BucketService", "error", err)
		os.Exit(1)
	}
	policy := notes.ValidatePolicy{RequireCategory: requireCategory}
	noteService := services.NewNoteService(thePG, log, noteRepo, policy)
	ingestService := services.NewIngestService(log, noteService, bucketService, policy)
	avatarService := services.NewAvatarService(log, bucketService)
	companyService := services.NewCompanyService(thePG, log, companyRepo)
	employeeService := services.NewEmployeeService(thePG, log, employeeRepo, companyRepo, avatarService)
	repoCardService := services.NewRepoCardService(thePG, log, repoCardRepo)
	noteRenderer := render.NewNoteRenderer(render.DefaultConfig(), log)

	// Handlers
	log.Info("Setting up handlers from main...")
	noteHandler := handlers.NewNoteHandler(log, noteService, ingestService, noteRenderer)
	companyHandler := handlers.NewCompanyHandler(log, companyService)
	employeeHandler := handlers.NewEmployeeHandler(log, employeeService)
	repoCardHandler := handlers.NewRepoCardHandler(log, repoCardService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		Log:             log,
		AllowOrigins:    allowOrigins,
		NoteHandler:     noteHandler,
		CompanyHandler:  companyHandler,
		EmployeeHandler: employeeHandler,
		RepoCardHandler: repoCardHandler,
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Info("Server listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("Forced shutdown", "error", err)
	}
	log.Info("Server stopped")
}
