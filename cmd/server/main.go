package main // Entry point package

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/train-ticket-booking/internal/booking"
	"github.com/iliyamo/train-ticket-booking/internal/config"
	"github.com/iliyamo/train-ticket-booking/internal/database"
	"github.com/iliyamo/train-ticket-booking/internal/handler"
	"github.com/iliyamo/train-ticket-booking/internal/middleware"
	"github.com/iliyamo/train-ticket-booking/internal/queue"
	"github.com/iliyamo/train-ticket-booking/internal/repository"
	"github.com/iliyamo/train-ticket-booking/internal/router"
	"github.com/iliyamo/train-ticket-booking/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		logger.Info("schema applied")
	}

	// nil when Redis is unreachable; cache and rate limit are then disabled.
	rdb := config.NewRedisClient(ctx)
	if rdb != nil {
		defer rdb.Close()
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	stations := repository.NewStationRepo(db)
	routes := repository.NewRouteRepo(db)
	trainTypes := repository.NewTrainTypeRepo(db)
	trains := repository.NewTrainRepo(db)
	crews := repository.NewCrewRepo(db)
	journeys := repository.NewJourneyRepo(db)
	orders := repository.NewOrderRepo(db)
	tx := repository.NewTxManager(db)

	var pub booking.Publisher
	if cfg.AMQPURL != "" {
		pub = queue.NewPublisher(cfg.AMQPURL)
	} else {
		logger.Warn("AMQP URL not set; order events disabled")
	}

	var images storage.ImageStore
	if cfg.GCSBucket != "" {
		gcs, err := storage.NewGCSImageStore(ctx, cfg.GCSBucket)
		if err != nil {
			return err
		}
		defer gcs.Close()
		images = gcs
	}

	svc := booking.NewService(tx, journeys, orders, pub, logger)
	h := router.Handlers{
		Auth:       handler.NewAuthHandler(cfg, users, tokens, tx),
		Stations:   handler.NewStationHandler(stations),
		Routes:     handler.NewRouteHandler(routes),
		TrainTypes: handler.NewTrainTypeHandler(trainTypes),
		Trains:     handler.NewTrainHandler(trains, tx, images),
		Crew:       handler.NewCrewHandler(crews, svc),
		Journeys:   handler.NewJourneyHandler(svc, journeys, tx),
		Orders:     handler.NewOrderHandler(svc),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))

	cacheCfg := config.LoadCacheConfig()
	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, h.Auth, cfg.JWTSecret, rdb)
	router.RegisterPublic(e, h, cacheCfg, rdb)
	router.RegisterAdmin(e, h, cfg.JWTSecret, cacheCfg, rdb)
	router.RegisterPassenger(e, h, cfg.JWTSecret, rdb)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		logger.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(sctx)
	})
	if cfg.ConsumerEnabled && cfg.AMQPURL != "" {
		g.Go(func() error {
			return queue.StartOrderConsumer(gctx, cfg.AMQPURL, cfg.BookingLogDir)
		})
	}
	return g.Wait()
}
