package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"hrblog/internal/lib/logger/sl"
	"hrblog/internal/lib/validate"
	hrmiddleware "hrblog/internal/middleware"
	httprouters "hrblog/internal/transport/http"

	"github.com/arl/statsviz"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	m       *http.ServeMux
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	auth    hrmiddleware.Authenticator
	host    string
	port    string
}

type Options struct {
	Host        string
	Port        string
	Timeout     time.Duration
	IdleTimeout time.Duration
}

func New(log *slog.Logger, opts Options, routers *httprouters.Routers, auth hrmiddleware.Authenticator) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = opts.Timeout
	e.Server.WriteTimeout = opts.Timeout
	e.Server.IdleTimeout = opts.IdleTimeout

	e.Validator = &CustomValidator{validator: validate.New()}

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(hrmiddleware.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogLatency:   true,
		LogMethod:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
				slog.String("request_id", v.RequestID),
				slog.Duration("latency", v.Latency),
			)

			return nil
		},
	}))

	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		log.Warn("statsviz not registered", sl.Err(err))
	}

	return &Server{
		m:       mux,
		log:     log,
		e:       e,
		routers: routers,
		auth:    auth,
		host:    opts.Host,
		port:    opts.Port,
	}
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info("starting http server", slog.String("op", op), slog.String("addr", s.addr()))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(s.addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	const op = "http.Server.Stop"

	s.log.Info("stopping http server", slog.String("op", op))

	if err := s.e.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

// Handler exposes the configured echo instance, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) addr() string {
	return net.JoinHostPort(s.host, s.port)
}

func (s *Server) BuildRouters() {
	s.e.GET("/health", s.routers.Health)
	s.e.GET("/metrics", echoprometheus.NewHandler())

	debug := s.e.Group("/debug")
	{
		debug.GET("/statsviz/", echo.WrapHandler(s.m))
		debug.GET("/statsviz/*", echo.WrapHandler(s.m))
	}

	swagger := s.e.Group("/swag")
	{
		swagger.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	api := s.e.Group("/api/v1")
	{
		posts := api.Group("/posts")
		posts.GET("", s.routers.ListPosts)
		posts.GET("/by-slug/:slug", s.routers.GetPostBySlug)

		adminOnly := hrmiddleware.AdminOnly(s.log, s.auth)
		posts.POST("", s.routers.CreatePost, adminOnly)
		posts.PUT("/:id", s.routers.UpdatePost, adminOnly)
		posts.DELETE("/:id", s.routers.DeletePost, adminOnly)
	}
}
