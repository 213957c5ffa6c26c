package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barbertrack-backend/config"
	"barbertrack-backend/repository"
	"barbertrack-backend/routes"
	"barbertrack-backend/services"
	"barbertrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := config.NewLogger(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	store, err := openStore(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open store")
	}

	now := time.Now
	agg := services.NewAggregator(now)
	dashboard := services.NewDashboard(store, agg, log)
	sessions := services.NewSessionRegistry(dashboard)
	if err := sessions.StartSweeper(cfg.SessionSweep); err != nil {
		log.WithError(err).Fatal("failed to start session sweeper")
	}
	defer sessions.Stop()
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL())

	auth := services.NewAuthService(store, sessions, tokens, log)
	catalog := services.NewCatalogService(store, log)

	var sender services.MessageSender
	if cfg.ReportsEnabled() {
		sender = services.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber, cfg.TwilioWhatsAppNumber)
	}
	reports := services.NewReportService(store, sender, agg, log)
	if sender != nil {
		if err := reports.StartScheduler(cfg.DailyReportCron); err != nil {
			log.WithError(err).Fatal("failed to start report scheduler")
		}
		defer reports.Stop()
	} else {
		log.Info("twilio not configured, daily report delivery disabled")
	}

	r := routes.SetupRouter(routes.Deps{
		Config:  cfg,
		Log:     log,
		Auth:    auth,
		Catalog: catalog,
		Reports: reports,
		Store:   store,
	})
	printRoutes(r, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown failed")
	}
	log.Info("server stopped")
}

type appStore interface {
	services.Store
	Ping(ctx context.Context) error
}

func openStore(cfg config.App, log logrus.FieldLogger) (appStore, error) {
	switch cfg.StoreDriver {
	case "memory":
		mem := repository.NewMemoryStore()
		config.SeedMemory(mem)
		log.Warn("using in-memory store, data is lost on restart")
		return mem, nil
	case "postgres", "":
		db, err := config.ConnectDB(cfg)
		if err != nil {
			return nil, err
		}
		store := repository.NewStore(db)
		if err := store.Migrate(); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		if err := config.SeedServiceTypes(db); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func printRoutes(r *gin.Engine, log logrus.FieldLogger) {
	for _, route := range r.Routes() {
		log.Debugf("%-6s %s", route.Method, route.Path)
	}
}
