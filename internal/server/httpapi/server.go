// Package httpapi exposes the blog over REST: posts, authentication, health
// and Prometheus metrics, routed with gorilla/mux.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/config"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/services"
	"github.com/gorilla/mux"
)

type PostService interface {
	List(ctx context.Context) ([]*models.Post, error)
	Get(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, title, content, author string) (*models.Post, error)
	Update(ctx context.Context, id int64, title, content *string) (*models.Post, error)
	Delete(ctx context.Context, id int64) error
}

type UserService interface {
	Register(ctx context.Context, username, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, username, password string) (*services.AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 60 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type HTTPServer struct {
	address       string
	allowedOrigin string
	jwtSecret     []byte
	posts         PostService
	users         UserService
	logger        logging.Logger
	metrics       *Metrics
	limiters      *limiterPool
	started       time.Time
	now           func() time.Time
}

func NewHTTPServer(cfg *config.Config, l logging.Logger, ps PostService, us UserService) *HTTPServer {
	s := &HTTPServer{
		address:       cfg.EndpointAddrHTTP,
		allowedOrigin: cfg.AllowedOrigin,
		jwtSecret:     []byte(cfg.SecretKey),
		posts:         ps,
		users:         us,
		logger:        l.With("module", "http_server"),
		metrics:       NewMetrics(),
		started:       time.Now(),
		now:           time.Now,
	}
	if cfg.RateLimitRPS > 0 {
		s.limiters = newLimiterPool(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	return s
}

// Handler builds the full middleware chain around the router.
func (s *HTTPServer) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.metricsMiddleware)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		JSONError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		JSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Methods(http.MethodGet).Path("/health").HandlerFunc(s.health)
	r.Methods(http.MethodGet).Path("/metrics").Handler(s.metrics.Handler())

	api := r.PathPrefix("/api").Subrouter()

	api.Methods(http.MethodGet).Path("/posts").HandlerFunc(s.listPosts)
	api.Methods(http.MethodPost).Path("/posts").HandlerFunc(s.createPost)
	api.Methods(http.MethodGet).Path("/posts/{id}").HandlerFunc(s.getPost)
	api.Methods(http.MethodPut).Path("/posts/{id}").HandlerFunc(s.updatePost)
	api.Methods(http.MethodDelete).Path("/posts/{id}").HandlerFunc(s.deletePost)

	api.Methods(http.MethodPost).Path("/auth/register").HandlerFunc(s.register)
	api.Methods(http.MethodPost).Path("/auth/login").HandlerFunc(s.login)
	api.Methods(http.MethodPost).Path("/auth/refresh").HandlerFunc(s.refresh)

	var h http.Handler = r
	h = s.identityMiddleware(h)
	h = s.rateLimitMiddleware(h)
	h = s.corsMiddleware(h)
	h = s.accessLogMiddleware(h)
	h = s.requestIDMiddleware(h)
	return h
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.shutdownLimiters()
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	s.shutdownLimiters()
	if err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) shutdownLimiters() {
	if s.limiters != nil {
		s.limiters.Shutdown()
	}
}
