package echoapi

import (
	"context"
	"net/http"
	"os"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/tricitytutors/backend/core"
	"github.com/tricitytutors/backend/core/message"
	"github.com/tricitytutors/backend/core/otp"
	"github.com/tricitytutors/backend/core/requirement"
	"github.com/tricitytutors/backend/core/review"
	"github.com/tricitytutors/backend/core/tutor"
	"github.com/tricitytutors/backend/core/user"
	"github.com/tricitytutors/backend/core/wallet"
)

type (
	Deps struct {
		Conf   core.Config
		Logger core.Logger

		UserSvc        user.Service
		OTPSvc         otp.Service
		TutorSvc       tutor.Service
		RequirementSvc requirement.Service
		ReviewSvc      review.Service
		MessageSvc     message.Service
		WalletSvc      wallet.Service

		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server interface {
		http.Handler
		Start() error
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		addr     string
		shutdown chan os.Signal
		deps     *Deps
		app      *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(addr string, shutdown chan os.Signal, deps *Deps) Server {
	s := &server{
		addr:     addr,
		shutdown: shutdown,
		deps:     deps,
		app:      echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf
	initAuth(conf)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerAuthAPI(v1, jwt, s.deps)
	registerTutorAPI(v1, jwt, s.deps)
	registerRequirementAPI(v1, jwt, s.deps)
	registerReviewAPI(v1, jwt, s.deps)
	registerMessageAPI(v1, jwt, s.deps)
	registerWalletAPI(v1, jwt, s.deps)
}

// signalShutdown lets the error handler request a graceful stop when an
// unrecoverable error bubbles up.
func (s *server) signalShutdown() {
	if s.shutdown != nil {
		s.shutdown <- syscall.SIGTERM
	}
}

func (s *server) Start() error {
	return s.app.Start(s.addr)
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to TricityTutors API!")
}
