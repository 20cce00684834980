package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/portal/core"
	"github.com/trezcool/portal/core/auth"
	"github.com/trezcool/portal/core/classroom"
	"github.com/trezcool/portal/core/dashboard"
	"github.com/trezcool/portal/core/evaluation"
	"github.com/trezcool/portal/core/student"
)

type (
	// Snapshotter gives a point-in-time copy of the portal data.
	Snapshotter interface {
		Snapshot(ctx context.Context) (dashboard.Snapshot, error)
	}

	ServerDeps struct {
		Conf          *core.Config
		Logger        core.Logger
		AuthSvc       *auth.Service
		ClassSvc      *classroom.Service
		StudentSvc    *student.Service
		EvaluationSvc *evaluation.Service
		Snapshotter   Snapshotter
		Validate      *validator.Validate
		Translator    ut.Translator
		Metrics       *Metrics // optional
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	if s.deps.Metrics != nil {
		s.app.Use(s.deps.Metrics.middleware())
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	api := s.app.Group("/api", simulateLatency(conf.Server.LatencyMin, conf.Server.LatencyMax))
	authed := bearerAuth(s.deps.AuthSvc)

	registerAuthAPI(api, authed, s.deps.AuthSvc, s.deps.Validate)
	registerStudentAPI(api, authed, s.deps.StudentSvc, s.deps.Validate)
	registerClassAPI(api, authed, s.deps.ClassSvc, s.deps.Validate)
	registerEvaluationAPI(api, authed, s.deps.EvaluationSvc, s.deps.Validate)
	registerDashboardAPI(api, authed, s.deps.Snapshotter)
}

// Start listens on the configured address; errors are delivered on Errors().
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Bem-vindo à API do Portal do Professor!")
}
