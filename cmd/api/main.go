//	@title			Droplet API
//	@version		1.0
//	@description	Self-hosted file and image hosting: POST a file, get a public URL.
//
//	@host		localhost:8088
//	@BasePath	/

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/droplet/service/internal/artifact"
	"github.com/droplet/service/internal/config"
	"github.com/droplet/service/internal/db"
	appMiddleware "github.com/droplet/service/internal/middleware"
	"github.com/droplet/service/internal/response"
	"github.com/droplet/service/internal/storage"
	"github.com/droplet/service/internal/thumbnail"

	_ "github.com/droplet/service/docs/swagger"
)

func main() {
	cfg := config.Load()

	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	store, err := storage.NewDiskStore(cfg.StorageDir)
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}

	// Wire dependencies: repository → service → handler
	repo := artifact.NewPostgresRepository(pool)
	thumbs := thumbnail.NewGenerator(store, cfg.ThumbnailSize)
	svc := artifact.NewService(repo, store, thumbs, cfg.MaxUploadBytes, cfg.PublicBaseURL)
	handler := artifact.NewHandler(svc, cfg.RecentLimit)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Delete-Token", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI — available at http://localhost:8088/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Upload and listing, optionally behind basic auth. Serving stays open:
	// read-path protection is the reverse proxy's job.
	r.Group(func(r chi.Router) {
		if cfg.AuthEnabled() {
			r.Use(appMiddleware.RequireBasicAuth(cfg.AuthUser, cfg.AuthPass))
		}
		r.Get("/", handler.Index)
		r.Post("/", handler.Upload)
		r.Get("/recent", handler.Recent)
	})

	r.Get("/{id}", handler.Serve)
	r.Get("/{id}/thumbnail", handler.ServeThumbnail)
	r.Delete("/{id}", handler.Delete)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "not_found")
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
		// No ReadTimeout: uploads may legitimately stream for a long time.
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on :%s (env=%s)", cfg.Port, cfg.AppEnv)
		log.Printf("storing files in %s, max upload %d bytes", cfg.StorageDir, cfg.MaxUploadBytes)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Println("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server stopped")
}
