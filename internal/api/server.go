// Package api serves the dashboard panels over HTTP as JSON.
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/gdp-dashboard/internal/dashboard"
	"github.com/sells-group/gdp-dashboard/internal/geo"
	"github.com/sells-group/gdp-dashboard/internal/model"
)

// TableProvider hands out the loaded fact table. *loader.Cache implements it.
type TableProvider interface {
	Table(ctx context.Context) (*model.Table, error)
}

// Config holds the dependencies of the server.
type Config struct {
	Tables    TableProvider
	Catalog   *geo.Catalog
	Dashboard dashboard.Options
	Port      int
	// RateLimit is the sustained requests per second across all clients.
	// Zero disables limiting.
	RateLimit      float64
	RateBurst      int
	AllowedOrigins []string
}

// Server is the HTTP front end of the dashboard.
type Server struct {
	tables  TableProvider
	catalog *geo.Catalog
	opts    dashboard.Options
	port    int
	limiter *rate.Limiter
	origins []string
}

// New creates a server. A nil catalog uses geo.Default().
func New(cfg Config) *Server {
	s := &Server{
		tables:  cfg.Tables,
		catalog: cfg.Catalog,
		opts:    cfg.Dashboard,
		port:    cfg.Port,
		origins: cfg.AllowedOrigins,
	}
	if s.catalog == nil {
		s.catalog = geo.Default()
	}
	if len(s.origins) == 0 {
		s.origins = []string{"*"}
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = int(cfg.RateLimit) + 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return s
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(
		requestID,
		accessLog,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
			ExposedHeaders: []string{requestIDHeader},
			MaxAge:         300,
		}),
	)

	r.Get("/health", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Get("/years", s.years)
		r.Get("/regions", s.regions)
		r.Get("/states", s.states)
		r.Get("/municipalities", s.municipalities)
		r.Get("/dashboard", s.dashboard)
	})
	return r
}

// Serve listens on the configured port until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Router(),
		BaseContext: func(_ net.Listener) context.Context {
			return gctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		zap.L().Info("api: starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "api: listen")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		zap.L().Info("api: shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
