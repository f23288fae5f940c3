package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/application/reconcile"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/finance"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/cache"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/config"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/logger"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/persistence"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/scheduler"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/telemetry"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/interfaces/http/handler"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/interfaces/http/middleware"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

//go:generate swag init --generalInfo main.go --dir ./,../../internal/interfaces/http --output ../../docs

//	@title			Fintrack Reconciler API
//	@version		1.0
//	@description	Operator API of the periodic reconciliation service: manual job runs and scheduler status

//	@host		localhost:8081
//	@BasePath	/api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// OTLP log export tees every zap entry once the provider is up
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log := bootLog
	if logProvider.IsEnabled() {
		log, err = logger.New(logCfg, logProvider.NewZapCore(logger.ParseLevel(cfg.Log.Level)))
		if err != nil {
			bootLog.Fatal("Failed to initialize logger", zap.Error(err))
		}
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting reconciliation service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Telemetry.SpanProfilesEnabled && profiler.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel),
		logger.WithSlowThreshold(cfg.Database.SlowThreshold),
	)
	tracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem(cfg.Database.Driver),
	}, log)

	if cfg.Database.MigrateOnStart && cfg.Database.Driver == "postgres" {
		if err := applyMigrations(cfg.Database.DSN(), log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(gormLog),
		persistence.WithSetup(tracing.Register),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", db.Driver()))

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get database handle", zap.Error(err))
	}
	runRepo := scheduler.NewJobRunRepository(db.DB)
	if cfg.Database.AutoMigrate {
		if err := runRepo.Migrate(ctx); err != nil {
			log.Fatal("Failed to create job run table", zap.Error(err))
		}
	}

	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DefaultDBMetricsConfig(), log)
	if err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}

	appCtx, stopApp := context.WithCancel(ctx)
	defer stopApp()
	if dbMetrics != nil {
		dbMetrics.StartPoolStatsCollection(appCtx)
	}

	reconcileMetrics, err := telemetry.NewReconcileMetrics(telemetry.ReconcileMetricsConfig{
		Meter:   meterProvider.Meter("reconcile"),
		Logger:  log,
		Backlog: telemetry.NewGormBacklogProvider(db.DB),
	})
	if err != nil {
		log.Fatal("Failed to create reconcile metrics", zap.Error(err))
	}
	if meterProvider.IsEnabled() {
		reconcileMetrics.StartPeriodicCollection(appCtx)
	}

	loc, err := finance.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatal("Invalid reporting timezone", zap.Error(err))
	}
	svc := reconcile.NewService(persistence.NewGormUnitOfWork(db.DB), reconcile.Config{
		Location:         loc,
		Locale:           cfg.Notification.Locale,
		DedupWindow:      cfg.Notification.DedupWindow,
		ReminderInterval: cfg.Scheduler.ReminderInterval,
		UnitTimeout:      cfg.Scheduler.UnitTimeout,
		RetryAttempts:    cfg.Scheduler.RetryAttempts,
		RetryDelay:       cfg.Scheduler.RetryDelay,
		RetryMaxDelay:    cfg.Scheduler.RetryMaxDelay,
	}, log)

	schedules, err := reconcile.Schedules(cfg.Scheduler, loc)
	if err != nil {
		log.Fatal("Invalid schedule configuration", zap.Error(err))
	}

	lock, err := cache.NewJobLockFactory(cfg.Redis, cache.WithLogger(log)).CreateLock()
	if err != nil {
		log.Fatal("Failed to create job lock", zap.Error(err))
	}

	schedulerCfg := scheduler.DefaultConfig()
	schedulerCfg.CheckInterval = cfg.Scheduler.CheckInterval
	schedulerCfg.LockTTL = cfg.Scheduler.LockTTL
	sched, err := scheduler.New(schedulerCfg, svc, schedules, log,
		scheduler.WithJobLock(lock),
		scheduler.WithRunRepository(runRepo),
		scheduler.WithRunRecorder(reconcileMetrics),
	)
	if err != nil {
		log.Fatal("Failed to create scheduler", zap.Error(err))
	}

	if cfg.Scheduler.Enabled {
		if err := sched.Start(appCtx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
	} else {
		log.Info("Scheduler disabled; no jobs will run")
	}

	var srv *http.Server
	if cfg.HTTP.Enabled {
		srv = newHTTPServer(cfg, log, meterProvider, sqlDB, sched, runRepo)
		go func() {
			log.Info("Operator API starting", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal("Failed to start server", zap.Error(err))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Operator API forced to shutdown", zap.Error(err))
		}
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		log.Error("Scheduler did not stop cleanly", zap.Error(err))
	}
	stopApp()
	reconcileMetrics.Stop()
	if dbMetrics != nil {
		dbMetrics.Stop()
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	log.Info("Service exited gracefully")
	_ = logProvider.Shutdown(shutdownCtx)
}

func newHTTPServer(cfg *config.Config, log *zap.Logger, mp *telemetry.MeterProvider, db handler.Pinger, sched *scheduler.Scheduler, runs *scheduler.JobRunRepository) *http.Server {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.HTTPMetrics(mp),
		middleware.TracingAttributeInjector(),
		middleware.SpanErrorMarker(),
		middleware.Secure(),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	var scheduled interface{ IsRunning() bool }
	if cfg.Scheduler.Enabled {
		scheduled = sched
	}
	handler.NewHealthHandler(db, scheduled).Register(engine)

	router.MountSwagger(engine, middleware.SwaggerProtection(middleware.SwaggerConfig{
		Enabled:    cfg.Swagger.Enabled,
		AllowedIPs: cfg.Swagger.AllowedIPs,
	}))

	router.NewRouter(engine).
		Register(handler.NewReconcileHandler(sched, runs)).
		Setup()

	return &http.Server{
		Addr:           ":" + cfg.HTTP.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}
}
