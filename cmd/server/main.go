package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"store_rating/internal/config"
	"store_rating/internal/controller"
	"store_rating/internal/middleware"
	"store_rating/internal/model"
	"store_rating/internal/repository"
	"store_rating/internal/router"
	"store_rating/internal/service"
	"store_rating/internal/task"
	"store_rating/pkg/database"
	"store_rating/pkg/logger"
)

//go:generate swag init --dir ../../ --generalInfo cmd/server/main.go --output ../../docs --parseInternal

// @title Store Rating API
// @version 1.0
// @description Role based store rating platform: users rate stores, owners read their ratings, admins manage accounts and stores.
// @host localhost:5000
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configFile := flag.String("config", "", "path to a config file (yaml)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Must(cfg.Log.Level, cfg.Log.Format)

	os.Exit(exitCode(log, run(cfg, log)))
}

// exitCode logs a failed run and flushes the logger, since os.Exit skips defers.
func exitCode(log *zap.Logger, err error) int {
	code := 0
	if err != nil {
		log.Error("server stopped with error", zap.Error(err))
		code = 1
	}
	_ = log.Sync()
	return code
}

func run(cfg *config.Config, log *zap.Logger) error {
	// 1. tokens
	middleware.SetJWTConfig(&middleware.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenTTL:  cfg.JWT.AccessTTL,
		RefreshTokenTTL: cfg.JWT.RefreshTTL,
		Issuer:          cfg.JWT.Issuer,
	})

	// 2. database
	db, err := initDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	// 3. dependencies
	deps := initDependencies(db, log)

	// 4. seed admin
	if _, err := deps.Services.Auth.EnsureAdmin(context.Background(), cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	// 5. background tasks
	tasks, err := task.NewTaskManager(&task.TaskManagerDeps{Stats: deps.Services.Stats},
		task.TaskManagerConfig{StatsCron: cfg.Tasks.StatsCron}, log.Named("tasks"))
	if err != nil {
		return err
	}
	tasks.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tasks.Stop(ctx); err != nil {
			log.Warn("background tasks did not stop in time", zap.Error(err))
		}
	}()

	// 6. routes
	gin.SetMode(cfg.Server.Mode)
	r := router.SetupRouter(router.Options{
		Logger:         log,
		AllowedOrigins: []string{cfg.Server.FrontendURL},
		AuthLimiter:    middleware.NewClientRateLimiter(cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst),
		Users:          deps.Repos.User,
	}, deps.Controllers)

	// 7. serve
	return startServer(r, cfg.Server, log)
}

// ==================== dependency container ====================

type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

type Repositories struct {
	User   repository.UserRepository
	Store  repository.StoreRepository
	Rating repository.RatingRepository
}

type Services struct {
	Auth   *service.AuthService
	User   *service.UserService
	Store  *service.StoreService
	Rating *service.RatingService
	Stats  *service.StatsService
}

func initDatabase(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := database.Open(database.Options{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DatabaseDSN(),
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}, log, &model.User{}, &model.Store{}, &model.Rating{})
	if err != nil {
		return nil, err
	}

	if err := middleware.RegisterAuditCallbacks(db); err != nil {
		return nil, fmt.Errorf("register audit callbacks: %w", err)
	}
	return db, nil
}

func initDependencies(db *gorm.DB, log *zap.Logger) *Dependencies {
	repos := &Repositories{
		User:   repository.NewUserRepository(db),
		Store:  repository.NewStoreRepository(db),
		Rating: repository.NewRatingRepository(db),
	}

	services := &Services{
		Auth:   service.NewAuthService(repos.User, log.Named("auth")),
		User:   service.NewUserService(repos.User, repos.Store, repos.Rating, log.Named("users")),
		Store:  service.NewStoreService(repos.Store, repos.User, repos.Rating, log.Named("stores")),
		Rating: service.NewRatingService(repos.User, repos.Store, repos.Rating, log.Named("ratings")),
		Stats:  service.NewStatsService(repos.User, repos.Store, repos.Rating),
	}

	controllers := &router.Controllers{
		Auth:   controller.NewAuthController(services.Auth),
		User:   controller.NewUserController(services.User),
		Store:  controller.NewStoreController(services.Store, services.Stats),
		Rating: controller.NewRatingController(services.Rating, services.Stats),
		Health: controller.NewHealthController(db),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// ==================== server ====================

func startServer(r *gin.Engine, cfg config.ServerConfig, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
