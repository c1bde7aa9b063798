package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"groundops-service/internal/domain/repository"
	"groundops-service/internal/infrastructure/config"
	"groundops-service/internal/infrastructure/identity"
	"groundops-service/internal/infrastructure/mirror"
	"groundops-service/internal/infrastructure/oauth"
	"groundops-service/internal/infrastructure/persistence"
	"groundops-service/internal/infrastructure/router"
	"groundops-service/internal/interface/api"
	"groundops-service/internal/interface/gmail"
	repo "groundops-service/internal/interface/repository"
	"groundops-service/internal/usecase"
	"groundops-service/pkg/logger"
	"groundops-service/pkg/metrics"
	"groundops-service/templates"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting GroundOps Service", "version", cfg.AppVersion, "station", cfg.StationAirport)

	m := metrics.NewMetrics("groundops")
	location := cfg.Location()
	clock := time.Now

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := identity.NewSession(cfg.DefaultUserID)

	// Remote document store
	var (
		mongoClient *mongo.Client
		mongoDB     *mongo.Database
		redisClient *redis.Client
		docs        repository.DocumentStore
	)
	switch cfg.MirrorBackend {
	case config.MirrorBackendMongo:
		log.Info("Connecting to MongoDB")
		mongoClient, err = persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		mongoDB = persistence.GetDatabase(mongoClient, cfg.MongoDB)
		if err := persistence.CheckChangeStreams(ctx, mongoDB); err != nil {
			log.Warn("Remote changes will not be delivered", "error", err)
		}
		docs = repo.NewMongoDocumentStore(mongoDB, cfg.MongoCollection, log)
	case config.MirrorBackendRedis:
		log.Info("Connecting to Redis")
		redisClient, err = persistence.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal("Failed to connect to Redis", "error", err)
		}
		docs = repo.NewRedisDocumentStore(redisClient, cfg.RedisKeyPrefix, log)
	default:
		log.Warn("Using in-memory mirror, data is not shared", "backend", cfg.MirrorBackend)
		docs = repo.NewMemoryDocumentStore()
	}

	// Outbox
	var outbox mirror.Outbox = mirror.NewMemoryOutbox()
	if cfg.OutboxPath != "" {
		sqliteOutbox, err := mirror.OpenSQLiteOutbox(cfg.OutboxPath)
		if err != nil {
			log.Fatal("Failed to open outbox", "path", cfg.OutboxPath, "error", err)
		}
		defer sqliteOutbox.Close()
		outbox = sqliteOutbox
	}
	worker := mirror.NewWorker(outbox, docs, mirror.WorkerOptions{
		PollInterval:  cfg.SyncPollInterval,
		PushTimeout:   cfg.SyncPushTimeout,
		MaxRetries:    cfg.SyncMaxRetries,
		RatePerSecond: cfg.SyncRatePerSecond,
		BatchSize:     cfg.SyncBatchSize,
	}, log, m)

	// Local stores and their mirrors
	flightStore := usecase.NewFlightStore(clock)
	processStore := usecase.NewProcessStore(clock)
	paymentStore := usecase.NewPaymentStore(clock)
	lostItemStore := usecase.NewLostItemStore(clock)

	logPanics := func(name string) func(interface{}) {
		return func(r interface{}) {
			log.Error("Subscriber panicked", "collection", name, "panic", r)
		}
	}
	flightStore.Bus().OnPanic(logPanics(flightStore.Name()))
	processStore.Bus().OnPanic(logPanics(processStore.Name()))
	paymentStore.Bus().OnPanic(logPanics(paymentStore.Name()))
	lostItemStore.Bus().OnPanic(logPanics(lostItemStore.Name()))

	flightBridge := mirror.NewBridge(flightStore, mirror.FlightCodec(), docs, session, worker, log, m)
	processBridge := mirror.NewBridge(processStore, mirror.ProcessCodec(), docs, session, worker, log, m)
	paymentBridge := mirror.NewBridge(paymentStore, mirror.PaymentCodec(), docs, session, worker, log, m)
	lostItemBridge := mirror.NewBridge(lostItemStore, mirror.LostItemCodec(), docs, session, worker, log, m)
	flightBridge.Attach()
	processBridge.Attach()
	paymentBridge.Attach()
	lostItemBridge.Attach()

	group := mirror.NewGroup(log, flightBridge, processBridge, paymentBridge, lostItemBridge)
	group.Start(ctx)

	unsubscribeSession := session.OnChange(func(uid string) {
		log.Info("Identity changed, restarting mirror subscriptions", "user_id", uid)
		group.Restart(ctx)
	})
	defer unsubscribeSession()

	// Reference data and alert history
	var (
		airlineRepository  repository.AirlineRepository
		timezoneRepository repository.TimezoneRepository
		alertRepository    repository.AlertRepository
	)
	if cfg.PostgresURI != "" {
		gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI, &repo.Alerts{})
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		airlineRepository = repo.NewGormAirlineRepository(gormDB)
		timezoneRepository = repo.NewGormTimezoneRepository(gormDB)
		alertRepository = repo.NewGormAlertRepository(gormDB)
	} else {
		log.Warn("PostgreSQL not configured, airline names and alert history disabled")
	}

	// Alerts
	alertRouter := router.NewAlertRouter(log)
	alertRouter.Register(templates.NewFlightLandingTemplate())
	alertRouter.Register(templates.NewProcessDeadlineTemplate())
	alertRouter.Register(templates.NewBoardingTemplate())
	alertRouter.Register(templates.NewRunwayCutoffTemplate())
	alertRouter.Register(templates.NewLostItemDeadlineTemplate())

	scheduler := repo.NewPushAlertRepository(cfg.NotificationEndpoint, cfg.NotificationToken, log)
	planner := usecase.NewAlertPlanner(alertRouter, scheduler, alertRepository, session, location, clock, log, m)

	// Services
	flightService := usecase.NewFlightService(flightStore, airlineRepository, timezoneRepository, planner, cfg.StationAirport, location, clock, log)
	processService := usecase.NewProcessService(processStore, planner, clock, log)
	paymentService := usecase.NewPaymentService(paymentStore, clock, log)
	lostItemService := usecase.NewLostItemService(lostItemStore, planner, clock, log)
	boardingTimer := usecase.NewBoardingTimer(planner, location, clock)
	runwayTimer := usecase.NewRunwayTimer(planner, location, clock)

	// Set up HTTP server
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})
	mux.Handle("/status", api.NewStatusHandler(flightService, processService, paymentService, lostItemService, clock, log))
	api.NewSessionHandler(session, log).Register(mux)
	api.NewFlightHandler(flightService, location, clock, log).Register(mux)
	api.NewProcessHandler(processService, log).Register(mux)
	api.NewPaymentHandler(paymentService, log).Register(mux)
	api.NewLostItemHandler(lostItemService, log).Register(mux)
	api.NewTimerHandler(boardingTimer, runwayTimer, clock, log).Register(mux)

	// Incident reports go out through Gmail
	gmailOAuth := oauth.NewGmailOAuth(
		cfg.GmailClientID,
		cfg.GmailClientSecret,
		cfg.GmailRefreshToken,
		log,
	)
	if gmailOAuth.Configured() {
		mailer, err := gmail.NewIncidentMailer(ctx, gmailOAuth.GetTokenSource(ctx), cfg.IncidentSender, location, log)
		if err != nil {
			log.Fatal("Failed to create Gmail service", "error", err)
		}
		var incidentLogs repository.IncidentLogRepository
		if mongoDB != nil {
			incidentLogs = repo.NewMongoIncidentLogRepository(mongoDB)
		}
		reporter := usecase.NewIncidentReporter(mailer, incidentLogs, cfg.IncidentRecipient, clock, log, m)
		mux.Handle("/incidents", api.NewIncidentHandler(reporter, log))
	} else {
		log.Warn("Gmail not configured, incident reports disabled")
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	// Outbox worker
	g.Go(func() error {
		return worker.Run(gctx)
	})

	// Expired process sweeper
	g.Go(func() error {
		ticker := time.NewTicker(cfg.ExpireSweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				log.Info("Expire sweeper stopped")
				return nil
			case <-ticker.C:
				n, err := processService.ExpireOverdue(clock())
				if err != nil {
					log.Error("Error expiring processes", "error", err)
					continue
				}
				if n > 0 {
					log.Info("Expired overdue processes", "count", n)
				}
			}
		}
	})

	g.Go(func() error {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		log.Info("Received signal", "signal", sig)
	case <-gctx.Done():
		log.Error("Background task failed", "error", context.Cause(gctx))
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Background task error", "error", err)
	}

	// Flush what is left in the outbox before closing the clients
	if pushed, err := worker.Drain(shutdownCtx); err != nil {
		log.Error("Final outbox drain failed", "pushed", pushed, "error", err)
	} else if pushed > 0 {
		log.Info("Final outbox drain", "pushed", pushed)
	}
	group.Stop()

	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Redis close error", "error", err)
		}
	}

	log.Info("GroundOps Service stopped")
}
