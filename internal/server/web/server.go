// Package web exposes the item form over HTTP/JSON for browser frontends.
// Images arrive as multipart uploads; everything else is JSON.
package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/framekeeper/internal/catalog"
	"github.com/dmitrijs2005/framekeeper/internal/logging"
	"github.com/dmitrijs2005/framekeeper/internal/server/form"
	"github.com/dmitrijs2005/framekeeper/internal/server/models"
	"github.com/dmitrijs2005/framekeeper/internal/server/services"
	"github.com/dmitrijs2005/framekeeper/internal/server/viewstate"
)

type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.LoginResult, error)
}

type CatalogService interface {
	Session(ctx context.Context, user viewstate.User) *form.Form
	EndSession(userID string)
	ListItems(ctx context.Context, user viewstate.User, refresh bool) ([]*models.Item, error)
	Reference() catalog.ReferenceData
}

type Options struct {
	EnableCORS bool
	// Gatherer backs GET /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// MaxUploadSize caps image request bodies, plus room for multipart
	// framing. Zero means no cap at the HTTP layer.
	MaxUploadSize int64
}

// multipartOverhead is allowed on top of MaxUploadSize for boundaries and
// part headers.
const multipartOverhead = 64 << 10

type Server struct {
	address   string
	users     UserService
	catalog   CatalogService
	logger    logging.Logger
	jwtSecret []byte
	maxUpload int64
	engine    *gin.Engine
}

func NewServer(a string, l logging.Logger, us UserService, cs CatalogService, secretKey string, opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		address:   a,
		users:     us,
		catalog:   cs,
		logger:    l.With("module", "http_server"),
		jwtSecret: []byte(secretKey),
		maxUpload: opts.MaxUploadSize,
		engine:    gin.New(),
	}

	s.engine.Use(gin.Recovery(), s.requestLogger())

	if opts.EnableCORS {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"}
		corsConfig.ExposeHeaders = []string{"X-Request-Id"}
		s.engine.Use(cors.New(corsConfig))
	}

	s.setupRoutes(opts.Gatherer)
	return s
}

func (s *Server) setupRoutes(gatherer prometheus.Gatherer) {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if gatherer != nil {
		s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := s.engine.Group("/api")
	api.POST("/register", s.register)
	api.POST("/login", s.login)
	api.GET("/reference", s.reference)

	authed := api.Group("", s.bearerAuth())
	{
		authed.POST("/logout", s.logout)
		authed.GET("/form", s.getForm)
		authed.PATCH("/form", s.updateForm)
		authed.POST("/form/image", s.uploadImage)
		authed.DELETE("/form/image", s.deleteImage)
		authed.POST("/form/save", s.saveDetails)
		authed.GET("/items", s.listItems)
	}
}

// Handler returns the routed engine.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve accepts connections on lis until ctx is cancelled, then shuts down
// and waits up to five seconds for in-flight requests.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(context.Background(), "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
