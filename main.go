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

	"laundrypro-backend/config"
	"laundrypro-backend/models"
	"laundrypro-backend/routes"
	"laundrypro-backend/services"
	"laundrypro-backend/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	log, err := config.InitLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	seed, err := loadSeed(cfg.Store.SeedFile)
	if err != nil {
		log.Fatal("Failed to load catalog seed", zap.Error(err))
	}
	catalog, studios, err := openStore(cfg.Store, seed, log)
	if err != nil {
		log.Fatal("Failed to open catalog store", zap.Error(err))
	}

	metrics := config.NewMetrics("laundrypro")
	deps := routes.Deps{
		Config:   cfg,
		Log:      log,
		Metrics:  metrics,
		Catalog:  catalog,
		Studios:  studios,
		IDs:      services.UUIDProvider{},
		Forms:    services.NewSessionStore[*services.ServiceForm](cfg.Sessions.TTL),
		Browsers: services.NewSessionStore[*services.CatalogBrowser](cfg.Sessions.TTL),
		Drafts:   services.NewSessionStore[*services.StudioForm](cfg.Sessions.TTL),
	}
	if cfg.Twilio.Enabled() {
		deps.Messenger = services.NewTwilioMessenger(services.TwilioConfig{
			AccountSID:     cfg.Twilio.AccountSID,
			AuthToken:      cfg.Twilio.AuthToken,
			PhoneNumber:    cfg.Twilio.PhoneNumber,
			WhatsAppNumber: cfg.Twilio.WhatsAppNumber,
		}, log)
		log.Info("Studio welcome messages enabled")
	}

	sweeper, err := services.StartSessionSweeper(cfg.Sessions.SweepSpec, log, map[string]services.Sweeper{
		"service_form":    gaugedSweeper(deps.Forms, metrics, "service_form"),
		"catalog_browser": gaugedSweeper(deps.Browsers, metrics, "catalog_browser"),
		"studio_draft":    gaugedSweeper(deps.Drafts, metrics, "studio_draft"),
	})
	if err != nil {
		log.Fatal("Failed to start session sweeper", zap.Error(err))
	}
	defer sweeper.Stop()

	r := routes.SetupRouter(deps)
	printRoutes(r, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}
	go func() {
		log.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

func loadSeed(path string) ([]models.Service, error) {
	if path == "" {
		return store.DefaultSeed()
	}
	return store.LoadSeedFile(path)
}

// openStore returns the catalog and studio repositories for the configured
// driver.
func openStore(cfg config.StoreConfig, seed []models.Service, log *zap.Logger) (store.Catalog, store.StudioStore, error) {
	switch cfg.Driver {
	case "", "memory":
		mem := store.NewMemoryCatalog(seed)
		log.Info("Using in-memory catalog", zap.Int("services", len(seed)))
		return mem, mem, nil
	case "postgres":
		db, err := config.ConnectDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Migrate(db); err != nil {
			return nil, nil, err
		}
		gc := store.NewGormCatalog(db)
		if err := gc.SeedIfEmpty(context.Background(), seed); err != nil {
			return nil, nil, err
		}
		log.Info("Using postgres catalog")
		return gc, gc, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Driver)
	}
}

type sessionCounter interface {
	Sweep() int
	Len() int
}

func gaugedSweeper(s sessionCounter, m *config.Metrics, kind string) services.Sweeper {
	return services.SweeperFunc(func() int {
		n := s.Sweep()
		m.ActiveSessions.WithLabelValues(kind).Set(float64(s.Len()))
		return n
	})
}

func printRoutes(r *gin.Engine, log *zap.Logger) {
	for _, route := range r.Routes() {
		log.Debug("route", zap.String("method", route.Method), zap.String("path", route.Path))
	}
}
