package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/frahmantamala/hr-records/api"
	"github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/auth"
	authPostgres "github.com/frahmantamala/hr-records/internal/auth/postgres"
	"github.com/frahmantamala/hr-records/internal/company"
	companyPostgres "github.com/frahmantamala/hr-records/internal/company/postgres"
	"github.com/frahmantamala/hr-records/internal/core/events"
	"github.com/frahmantamala/hr-records/internal/employee"
	employeePostgres "github.com/frahmantamala/hr-records/internal/employee/postgres"
	"github.com/frahmantamala/hr-records/internal/transport"
	"github.com/frahmantamala/hr-records/internal/transport/middleware"
	"github.com/frahmantamala/hr-records/internal/transport/openapi"
	"github.com/frahmantamala/hr-records/internal/transport/rest"
	"github.com/frahmantamala/hr-records/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config       *internal.Config
	DB           *gorm.DB
	SQLDB        *sql.DB
	Router       *chi.Mux
	EventBus     *events.EventBus
	KafkaSink    *events.KafkaSink
	LoginLimiter *middleware.LimiterStore
	Logger       *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		deps.Logger.Error("failed to set up routes", "error", err)
		os.Exit(1)
	}

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	if deps.LoginLimiter != nil {
		deps.LoginLimiter.StartJanitor(janitorCtx, time.Minute)
	}

	serverCfg := deps.Config.Server
	addr := fmt.Sprintf(":%d", serverCfg.Port)
	deps.Logger.Info("starting HTTP server", "address", addr, "require_auth", deps.Config.Security.RequireAuth)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: serverCfg.ReadHeaderTimeout,
		ReadTimeout:       serverCfg.ReadTimeout,
		WriteTimeout:      serverCfg.WriteTimeout,
		IdleTimeout:       serverCfg.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		stopJanitor()
		if err := deps.EventBus.Wait(ctx); err != nil {
			deps.Logger.Warn("event handlers still running at shutdown", "error", err)
		}
		if deps.KafkaSink != nil {
			if err := deps.KafkaSink.Close(); err != nil {
				deps.Logger.Error("kafka sink close error", "error", err)
			}
		}
		if err := deps.SQLDB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	slogger := deps.Logger
	base := &transport.BaseHandler{Logger: slogger}

	formula, err := employee.ParseMinutesFormula(cfg.Ledger.MinutesFormula)
	if err != nil {
		return err
	}

	tokens := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration)
	authService := auth.NewService(authPostgres.NewRepository(deps.DB), tokens, cfg.Security.BCryptCost, deps.EventBus, slogger)
	companyService := company.NewService(companyPostgres.NewCompanyRepository(deps.DB), deps.EventBus, slogger)
	employeeService := employee.NewService(employeePostgres.NewEmployeeRepository(deps.DB), deps.EventBus, formula, slogger)

	validator, err := openapi.NewValidator(api.Spec, slogger)
	if err != nil {
		return fmt.Errorf("load api document: %w", err)
	}

	rest.RegisterAllRoutes(deps.Router, rest.Dependencies{
		AuthHandler:     auth.NewHandler(base, authService),
		CompanyHandler:  company.NewHandler(base, companyService),
		EmployeeHandler: employee.NewHandler(base, employeeService),
		Health:          rest.NewHealthHandler(deps.SQLDB),
		Validator:       validator,
		LoginLimiter:    deps.LoginLimiter,
		Spec:            api.Spec,
		AllowedOrigins:  cfg.Server.Origins(),
		AllowLocalhost:  cfg.Environment != "production",
		RequireAuth:     cfg.Security.RequireAuth,
		Logger:          slogger,
	})
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	slogger := logger.LoggerWrapper()

	db, err := initDB(config.Database, slogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql db: %w", err)
	}

	bus := events.NewEventBus(slogger)
	bus.SubscribeAll(events.AuditLogHandler(slogger))

	var sink *events.KafkaSink
	if config.Events.Kafka.Enabled() {
		sink = events.NewKafkaSink(config.Events.Kafka.Brokers, config.Events.Kafka.Topic, slogger)
		bus.SubscribeAll(sink.Handle)
		slogger.Info("forwarding ledger events to kafka",
			"brokers", config.Events.Kafka.Brokers,
			"topic", config.Events.Kafka.Topic)
	}

	var limiter *middleware.LimiterStore
	if rl := config.Security.LoginRateLimit; rl.RPS > 0 && rl.Burst > 0 {
		limiter = middleware.NewLimiterStore(rl.RPS, rl.Burst).TrustProxy(rl.TrustProxy)
	}

	return &Dependencies{
		Config:       config,
		DB:           db,
		SQLDB:        sqlDB,
		Router:       chi.NewRouter(),
		EventBus:     bus,
		KafkaSink:    sink,
		LoginLimiter: limiter,
		Logger:       slogger,
	}, nil
}

// initDB opens the gorm pool, retrying the first ping while the database
// comes up.
func initDB(cfg internal.DatabaseConfig, slogger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(cfg.ConnectRetries))
	ping := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return sqlDB.PingContext(ctx)
	}
	notify := func(err error, wait time.Duration) {
		slogger.Warn("database not reachable, retrying", "error", err, "retry_in", wait)
	}
	if err := backoff.RetryNotify(ping, policy, notify); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
