package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/fitness-records/internal/auth"
	"github.com/iliyamo/fitness-records/internal/config"
	"github.com/iliyamo/fitness-records/internal/database"
	"github.com/iliyamo/fitness-records/internal/handler"
	"github.com/iliyamo/fitness-records/internal/logging"
	"github.com/iliyamo/fitness-records/internal/middleware"
	"github.com/iliyamo/fitness-records/internal/queue"
	"github.com/iliyamo/fitness-records/internal/repository"
	"github.com/iliyamo/fitness-records/internal/router"
	"github.com/iliyamo/fitness-records/internal/service"
	"github.com/iliyamo/fitness-records/internal/utils"
)

func main() {
	_ = godotenv.Load() // a missing .env is fine; the environment may already be set

	cfg := config.Load()
	log := logging.New(cfg.Env, cfg.LogLevel, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()
	if cfg.DBMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.WithError(err).Fatal("database migration failed")
		}
	}

	rdb, err := config.NewRedisClient()
	if err != nil {
		log.WithError(err).Warn("redis unavailable; caching and rate limiting disabled")
		rdb = nil
	}

	users := repository.NewUserRepo(db)
	revoked, pruner := newRevocationRegistry(cfg.Revocation, rdb, db, log)
	if pruner != nil {
		defer pruner.Stop()
	}

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenExpiry)
	hasher := utils.NewBcrypt(cfg.BcryptCost)
	gate := &auth.Gate{Tokens: issuer, Revoked: revoked, Privileges: users}

	var events service.Publisher = service.NopPublisher{}
	if cfg.Events.Enabled {
		events = service.NewAMQPPublisher(cfg.Events.URL, log)
		if cfg.Events.RunConsumer {
			consumer := &queue.Consumer{URL: cfg.Events.URL, LogPath: cfg.Events.ConsumerLog, Log: log}
			go func() {
				if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.WithError(err).Error("recommendation consumer stopped")
				}
			}()
		}
	}
	advisor := service.NewAdvisor(repository.NewRecommendationRepo(db), events, log)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler(log)
	e.Use(middleware.RequestLogger(log))

	guards := router.Guards{
		Authenticate: middleware.Authenticate(gate, log),
		RequireAdmin: middleware.RequireAdmin(gate, log),
		RateLimit:    middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
		Cache:        middleware.NewRedisCache(config.LoadCacheConfig(), rdb, log),
	}
	router.RegisterRoutes(e, handler.Health(db))
	router.RegisterAuth(e, handler.NewAuthHandler(users, issuer, revoked, hasher), guards)
	router.RegisterRecords(e, router.Records{
		Profile:         handler.NewProfileHandler(users, revoked, log),
		Workouts:        handler.NewWorkoutHandler(repository.NewWorkoutRepo(db), advisor, log),
		Meals:           handler.NewMealHandler(repository.NewMealRepo(db), advisor, log),
		Goals:           handler.NewGoalHandler(repository.NewGoalRepo(db)),
		Recommendations: handler.NewRecommendationHandler(repository.NewRecommendationRepo(db)),
	}, guards)
	router.RegisterAdmin(e, handler.NewAdminHandler(users, hasher), guards)

	addr := ":" + cfg.Port
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env, "revocation": cfg.Revocation.Backend}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

// newRevocationRegistry builds the registry named by cfg.Backend.  Redis
// falls back to memory when no client is available.  The returned scheduler
// is nil for backends that expire entries on their own.
func newRevocationRegistry(cfg config.RevocationConfig, rdb *redis.Client, db *sql.DB, log logrus.FieldLogger) (auth.RevocationRegistry, *cron.Cron) {
	var (
		reg    auth.RevocationRegistry
		pruner auth.Pruner
	)
	switch cfg.Backend {
	case "redis":
		if rdb != nil {
			return auth.NewRedisRegistry(rdb, cfg.Prefix), nil
		}
		log.Warn("revocation: redis unavailable, using in-memory registry")
		mem := auth.NewMemoryRegistry()
		reg, pruner = mem, mem
	case "mysql":
		repo := repository.NewRevokedTokenRepo(db)
		reg, pruner = repo, repo
	default:
		mem := auth.NewMemoryRegistry()
		reg, pruner = mem, mem
	}

	c, err := auth.SchedulePrune(cfg.PruneSpec, pruner, log)
	if err != nil {
		log.WithError(err).WithField("spec", cfg.PruneSpec).Warn("revocation: invalid prune schedule, pruning disabled")
		return reg, nil
	}
	return reg, c
}
