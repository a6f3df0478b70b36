package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riandyrn/otelchi"
	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/exaring/otelpgx"

	"github.com/MarlonMora23/API-Calinema/internal/domain"
	"github.com/MarlonMora23/API-Calinema/internal/fetch"
	"github.com/MarlonMora23/API-Calinema/internal/repository"
	"github.com/MarlonMora23/API-Calinema/internal/runner"
	"github.com/MarlonMora23/API-Calinema/internal/sites"
	appvalidator "github.com/MarlonMora23/API-Calinema/internal/validator"
	"github.com/MarlonMora23/API-Calinema/internal/vcs"
	"github.com/MarlonMora23/API-Calinema/migrations"
)

var (
	version = vcs.Version()
)

// ingestor triggers scraping runs. The runner implements it in production;
// handler tests substitute a stub.
type ingestor interface {
	UpdateMovies(ctx context.Context) domain.RunSummary
	UpdateShowtimes(ctx context.Context) domain.RunSummary
	UpdateAll(ctx context.Context) domain.RunSummary
}

type application struct {
	config    config
	logger    *slog.Logger
	db        *pgxpool.Pool
	validator *validator.Validate

	movieRepo    domain.MovieRepository
	showtimeRepo domain.ShowtimeRepository

	runner ingestor
}

type config struct {
	port int
	env  string
	db   struct {
		dsn          string
		maxOpenConns int
		maxIdleTime  time.Duration
		automigrate  bool
	}
	scrape struct {
		fetchTimeout time.Duration
		waitTimeout  time.Duration
		maxSessions  int64
		runTimeout   time.Duration
	}
	otelCollectorUrl string
}

func Run() error {
	var cfg config

	flag.IntVar(&cfg.port, "port", 3000, "server port")
	flag.StringVar(&cfg.env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.db.dsn, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.db.maxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")
	flag.BoolVar(&cfg.db.automigrate, "db-automigrate", true, "Run database migrations on startup")

	flag.DurationVar(&cfg.scrape.fetchTimeout, "scrape-fetch-timeout", 10*time.Second, "HTTP timeout for static page fetches")
	flag.DurationVar(&cfg.scrape.waitTimeout, "scrape-wait-timeout", 3*time.Second, "Wait bound for elements on dynamic pages")
	flag.Int64Var(&cfg.scrape.maxSessions, "scrape-max-sessions", 2, "Max concurrent browser sessions")
	flag.DurationVar(&cfg.scrape.runTimeout, "scrape-run-timeout", 10*time.Minute, "Deadline for a full scraping run")

	flag.StringVar(&cfg.otelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector URL")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := newDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.db.automigrate {
		if err := migrateDatabase(cfg, logger); err != nil {
			return err
		}
	}

	browser := fetch.NewBrowser(cfg.scrape.maxSessions, cfg.scrape.waitTimeout)
	defer browser.Close()

	static := fetch.NewClient(cfg.scrape.fetchTimeout)

	movieRepo := repository.NewPostgresMovieRepository(db)
	showtimeRepo := repository.NewPostgresShowtimeRepository(db)

	validator := appvalidator.NewValidator()

	adapters := sites.All(logger, static, browser)

	app := &application{
		config:       cfg,
		logger:       logger,
		db:           db,
		validator:    validator,
		movieRepo:    movieRepo,
		showtimeRepo: showtimeRepo,
		runner:       runner.New(adapters, movieRepo, showtimeRepo, validator, logger),
	}

	shutdownTelemetry, err := app.initTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.otelCollectorUrl != "" {
		app.logger = slog.New(NewMultiHandler(logger.Handler(), otelslog.NewHandler("calinema-api")))
	}

	return app.run()
}

func newDatabasePool(cfg config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.db.maxIdleTime
	config.MaxConns = int32(cfg.db.maxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func migrateDatabase(cfg config, logger *slog.Logger) error {
	source, err := iofs.New(migrations.Files, ".")
	if err != nil {
		return err
	}

	// The pgx v5 migrate driver registers itself under the pgx5 scheme.
	dsn := strings.Replace(cfg.db.dsn, "postgres://", "pgx5://", 1)

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	logger.Info("database migrations applied")

	return nil
}

func (app *application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: app.config.scrape.runTimeout + 10*time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)
	r.Use(otelchi.Middleware("calinema-api", otelchi.WithChiRoutes(r)))

	r.Get("/health", app.GetHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/movies", app.GetMovies)
		r.Get("/movies/{id}", app.GetMovie)
		r.Get("/showtimes", app.GetShowtimes)

		r.Route("/update", func(r chi.Router) {
			r.Post("/movies", app.TriggerMoviesUpdate)
			r.Post("/showtimes", app.TriggerShowtimesUpdate)
			r.Post("/all", app.TriggerFullUpdate)
		})
	})

	return r
}
