package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caseflow/caseflow/internal/analytics"
	"github.com/caseflow/caseflow/internal/api"
	"github.com/caseflow/caseflow/internal/audit"
	"github.com/caseflow/caseflow/internal/auth"
	"github.com/caseflow/caseflow/internal/config"
	"github.com/caseflow/caseflow/internal/db"
	"github.com/caseflow/caseflow/internal/export"
	"github.com/caseflow/caseflow/internal/hints"
	"github.com/caseflow/caseflow/internal/middleware"
	"github.com/caseflow/caseflow/internal/notify"
	"github.com/caseflow/caseflow/internal/repository"
	"github.com/caseflow/caseflow/internal/templates"
	"github.com/caseflow/caseflow/internal/workflow"

	"github.com/rs/cors"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbConfig, err := config.LoadDBConfig(".")
	if err != nil {
		log.Fatalf("Failed to load database config: %v", err)
	}
	serverConfig, err := config.LoadServerConfig(".")
	if err != nil {
		log.Fatalf("Failed to load server config: %v", err)
	}

	conn, err := db.NewConnection(ctx, dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	if err := db.RunMigrations(ctx, conn.Pool, serverConfig.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Generic record store and the typed repositories over it.
	store := repository.NewRecordStore(conn.Pool)
	caseRepo := repository.NewCaseRepository(store)
	stageRepo := repository.NewStageRepository(store)
	taskRepo := repository.NewTaskRepository(store)
	guideRepo := repository.NewGuideRepository(store)
	stepRepo := repository.NewGuideStepRepository(store)
	linkRepo := repository.NewCaseGuideLinkRepository(store)
	notificationRepo := repository.NewNotificationRepository(store)
	auditRepo := repository.NewAuditLogRepository(store)
	templateRepo := repository.NewTemplateRepository(store)
	userRepo := repository.NewUserRepository(store)
	clientRepo := repository.NewClientRepository(store)
	wfTypeRepo := repository.NewWorkflowTypeRepository(store)
	documentRepo := repository.NewDocumentRepository(store)

	// Services.
	auditor := audit.NewRecorder(auditRepo)
	notifier := notify.NewService(notificationRepo, taskRepo)
	orchestrator := workflow.NewService(caseRepo, stageRepo, taskRepo, wfTypeRepo, auditor, notifier)
	hintService := hints.NewService(linkRepo, guideRepo, stepRepo, taskRepo)
	templateService := templates.NewService(templateRepo)
	analyticsService := analytics.NewService(caseRepo, taskRepo)
	exportService := export.NewService(orchestrator, clientRepo)

	handler := api.NewHandler(api.Deps{
		Cases:     caseRepo,
		Stages:    stageRepo,
		Tasks:     taskRepo,
		Guides:    guideRepo,
		Steps:     stepRepo,
		Links:     linkRepo,
		Users:     userRepo,
		Clients:   clientRepo,
		WfTypes:   wfTypeRepo,
		Documents: documentRepo,

		Orchestrator: orchestrator,
		Hints:        hintService,
		Notify:       notifier,
		Templates:    templateService,
		Analytics:    analyticsService,
		Export:       exportService,
		Auditor:      auditor,
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   serverConfig.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	root := corsHandler.Handler(
		middleware.LoggingMiddleware(
			auth.Middleware(
				middleware.DataLoaderMiddleware(store)(handler.Routes()),
			),
		),
	)

	server := &http.Server{
		Addr:         serverConfig.Addr,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting caseflow API on %s", serverConfig.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
