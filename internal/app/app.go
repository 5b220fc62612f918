// Package app wires configuration, storage, services, and the HTTP
// server together and owns graceful shutdown.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"planner/internal/config"
	"planner/internal/handlers"
	"planner/internal/logger"
	"planner/internal/middleware"
	"planner/internal/repository"
	"planner/internal/repository/task/inmemory"
	"planner/internal/repository/task/sqlite"
	"planner/internal/service"
	"planner/internal/worker"
)

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	repo      repository.TaskRepository
	watcher   *worker.DeadlineWatcher
	shutdowns []func()
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: flushing logs")
		logger.Sync()
	})

	if err := a.initRepository(); err != nil {
		return err
	}

	taskService := service.NewTaskService(a.repo)
	taskHandler := handlers.NewTaskHandler(taskService)

	a.router = chi.NewRouter()
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logging)
	a.router.Use(middleware.RateLimit(600))
	// The desktop shell loads the UI from file://, so the Origin header
	// is "null"; allow everything on this loopback-only server.
	a.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	a.router.Route("/tasks", func(r chi.Router) {
		r.Get("/", taskHandler.GetTasks)    // GET /tasks
		r.Post("/", taskHandler.PostTask)   // POST /tasks
		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", taskHandler.UpdateTaskByID)    // PUT /tasks/{id}
			r.Delete("/", taskHandler.DeleteTaskByID) // DELETE /tasks/{id}
		})
	})
	a.router.Get("/reports/{startDate}/{endDate}", taskHandler.GetReport)
	a.router.Get("/calendar/{startDate}/{endDate}", taskHandler.GetCalendar)
	a.router.Get("/health", taskHandler.HealthCheck)

	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           a.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if a.config.Worker.Enabled {
		a.watcher = worker.NewDeadlineWatcher(a.repo, time.Duration(a.config.Worker.Interval))
	}

	return nil
}

func (a *App) initRepository() error {
	switch a.config.Repository.Type {
	case "inmemory":
		a.repo = inmemory.NewTaskStorage()
		logger.Info("App: using in-memory repository")
	case "sqlite", "":
		store, err := sqlite.New(a.config.Database.Path)
		if err != nil {
			return fmt.Errorf("open task store: %w", err)
		}
		a.repo = store
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("App: closing task store")
			store.Close()
		})
	default:
		return fmt.Errorf("unknown repository type %q", a.config.Repository.Type)
	}
	return nil
}

// Run serves until ctx is canceled, then drains in-flight requests and
// runs the registered shutdown hooks in reverse order.
func (a *App) Run(ctx context.Context) error {
	if a.watcher != nil {
		go a.watcher.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("App: server started", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.runShutdowns()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("App: server shutdown", err)
	}

	a.runShutdowns()
	return nil
}

func (a *App) runShutdowns() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}
