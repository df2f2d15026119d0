package testcards

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/alovak/cardsynth/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"golang.org/x/exp/slog"
)

// App wires the repository, service and HTTP server of the test card
// service and is responsible for starting and stopping them.
type App struct {
	srv    *http.Server
	wg     *sync.WaitGroup
	db     *sql.DB
	Addr   string
	logger *slog.Logger
	config *Config
}

func NewApp(logger *slog.Logger, config *Config) *App {
	logger = logger.With(slog.String("app", "testcards"))

	if config == nil {
		config = DefaultConfig()
	}

	return &App{
		wg:     &sync.WaitGroup{},
		logger: logger,
		config: config,
	}
}

func (a *App) Start() error {
	a.logger.Info("starting app...")

	repository, err := a.openRepository()
	if err != nil {
		return err
	}

	svc := NewService(repository, a.config)
	if a.config.ExpiryTZ != "" {
		if loc, err := time.LoadLocation(a.config.ExpiryTZ); err == nil {
			svc.SetExpiryLocation(loc)
		} else {
			a.logger.Info("invalid ExpiryTZ; using default UTC", slog.String("tz", a.config.ExpiryTZ), slog.Any("err", err))
		}
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(middleware.NewStructuredLogger(a.logger))
	router.Use(chimw.Recoverer)

	NewAPI(svc).AppendRoutes(router)

	router.Get("/-/live", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	router.Get("/-/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := svc.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	l, err := net.Listen("tcp", a.config.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening tcp port: %w", err)
	}

	a.Addr = l.Addr().String()

	a.srv = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.logger.Info("http server started", slog.String("addr", a.Addr))

		if err := a.srv.Serve(l); err != nil {
			if err != http.ErrServerClosed {
				a.logger.Error("starting http server", "err", err)
			}

			a.logger.Info("http server stopped")
		}
	}()

	return nil
}

func (a *App) openRepository() (*Repository, error) {
	switch a.config.RepoBackend {
	case "", "mem":
		return NewRepository(), nil
	case "pg":
		if a.config.DBDSN == "" {
			return nil, fmt.Errorf("DB DSN is required for pg backend")
		}
		db, err := sql.Open("postgres", a.config.DBDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		db.SetMaxIdleConns(5)
		db.SetMaxOpenConns(10)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		repo := NewPGRepository(db, []byte(a.config.PANHashKey))
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		a.db = db
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported repo backend %q", a.config.RepoBackend)
	}
}

func (a *App) Shutdown() {
	a.logger.Info("shutting down app...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if a.srv != nil {
		if err := a.srv.Shutdown(ctx); err != nil {
			a.logger.Error("shutting down http server", "err", err)
		}
	}

	a.wg.Wait()

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("closing db", "err", err)
		}
	}

	a.logger.Info("app stopped")
}
