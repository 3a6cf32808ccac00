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

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"resultboard/internal/cache"
	"resultboard/internal/config"
	"resultboard/internal/database"
	"resultboard/internal/handler"
	"resultboard/internal/service"
)

func main() {
	cfg := config.Load()

	// Initialize database
	db := database.InitDB(cfg)
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database handle:", err)
	}
	defer sqlDB.Close()

	tableCache, err := cache.Connect(context.Background(), cfg.RedisAddr, cfg.RedisDB, cfg.CacheTTL)
	if err != nil {
		log.Fatal(err)
	}

	// Create uploads directory
	if err := os.MkdirAll(cfg.UploadDir, os.ModePerm); err != nil {
		log.Fatal("Failed to create uploads directory:", err)
	}

	r, importHandler := newRouter(cfg, db, tableCache)
	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
	)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handlers.LoggingHandler(os.Stdout, cors(r)),
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Println("Shutdown error:", err)
		}
	}()

	log.Printf("Server running on port %s", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Server error:", err)
	}

	log.Println("Waiting for running imports...")
	importHandler.Wait()
	log.Println("Server gracefully stopped")
}

func newRouter(cfg *config.Config, db *gorm.DB, tableCache cache.TableCache) (*mux.Router, *handler.ImportHandler) {
	// Initialize services
	reportService := service.NewReportService(db, tableCache, cfg.DefaultPolicy)
	resultService := service.NewResultService(db)
	importService := service.NewImportService(db, reportService)

	// Initialize handlers
	reportHandler := handler.NewReportHandler(reportService, cfg.MaxUploadMB)
	resultHandler := handler.NewResultHandler(resultService)
	importHandler := handler.NewImportHandler(importService, cfg.UploadDir, cfg.MaxUploadMB)
	progressHandler := handler.NewProgressHandler(importService)

	r := mux.NewRouter()

	r.HandleFunc("/reports", reportHandler.UploadReport).Methods("POST")
	r.HandleFunc("/reports/{id}", reportHandler.GetReport).Methods("GET")
	r.HandleFunc("/reports/{id}/dashboard", reportHandler.Dashboard).Methods("GET")
	r.HandleFunc("/reports/{id}/charts", reportHandler.Charts).Methods("GET")
	r.HandleFunc("/results", resultHandler.ListResults).Methods("GET")

	r.HandleFunc("/imports", importHandler.ImportFiles).Methods("POST")
	r.HandleFunc("/progress", progressHandler.GetAllProgress).Methods("GET")
	r.HandleFunc("/progress/file", progressHandler.GetFileProgress).Methods("GET")
	r.HandleFunc("/progress/stream", progressHandler.SSEProgress).Methods("GET")

	if sqlDB, err := db.DB(); err == nil {
		r.HandleFunc("/health", handler.NewHealthHandler(sqlDB).Health).Methods("GET")
	}

	return r, importHandler
}
