package main

import (
	"context"
	"net/http"
	"os"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/spf13/cobra"

	"github.com/InsiderP/smart-energy/internal/aggregation"
	"github.com/InsiderP/smart-energy/internal/api"
	"github.com/InsiderP/smart-energy/internal/catalog"
	"github.com/InsiderP/smart-energy/internal/energy"
	"github.com/InsiderP/smart-energy/internal/energy/memory"
	energypostgres "github.com/InsiderP/smart-energy/internal/energy/postgres"
	"github.com/InsiderP/smart-energy/internal/feed"
	"github.com/InsiderP/smart-energy/internal/observability/metrics"
	"github.com/InsiderP/smart-energy/internal/publisher"
	"github.com/InsiderP/smart-energy/internal/simulator"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the telemetry simulator and API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger()
	metrics.Init()

	var (
		devices  energy.DeviceRepository
		readings energy.ReadingRepository
		budgets  energy.BudgetRepository
	)
	if cfg.InMemory {
		logger.Printf("running with in-memory storage")
		devices = memory.NewDeviceRepository()
		readings = memory.NewReadingRepository()
		budgets = memory.NewBudgetRepository()
	} else {
		db, err := openDB(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		devices = energypostgres.NewDeviceRepository(db)
		readings = energypostgres.NewReadingRepository(db)
		budgets = energypostgres.NewBudgetRepository(db)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	seeder := catalog.NewSeeder(devices, logger)
	if err := seeder.Seed(ctx); err != nil {
		return err
	}

	service := aggregation.NewService(devices, readings, budgets)
	hub := feed.NewHub(service, logger)

	sinks := []simulator.ReadingSink{hub}
	if cfg.MQTT.Enabled {
		mqttPublisher, err := publisher.New(cfg.MQTT, logger)
		if err != nil {
			return err
		}
		defer mqttPublisher.Close()
		sinks = append(sinks, mqttPublisher)
	}

	sim := simulator.New(devices, readings, simulator.NewPayloadRegistry(), logger, simulator.WithSinks(sinks...))
	scheduler := simulator.NewScheduler(sim, cfg.TickInterval, logger)
	go scheduler.Start(ctx)

	handler := api.NewHandler(service, budgets, logger)
	feedHandler := feed.NewHandler(hub, cfg.FrontendURL, logger)
	router := api.NewRouter(handler, feedHandler)

	var root http.Handler = router
	if cfg.FrontendURL != "" {
		root = gorillahandlers.CORS(
			gorillahandlers.AllowedOrigins([]string{cfg.FrontendURL}),
			gorillahandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
			gorillahandlers.AllowCredentials(),
		)(root)
	}
	root = gorillahandlers.CombinedLoggingHandler(os.Stdout, root)

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: root}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	return server.ListenAndServe()
}
