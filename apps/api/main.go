package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/tricitytutors/backend/apps/api/echo"
	"github.com/tricitytutors/backend/core"
	"github.com/tricitytutors/backend/core/message"
	"github.com/tricitytutors/backend/core/otp"
	"github.com/tricitytutors/backend/core/requirement"
	"github.com/tricitytutors/backend/core/review"
	"github.com/tricitytutors/backend/core/tutor"
	"github.com/tricitytutors/backend/core/user"
	"github.com/tricitytutors/backend/core/wallet"
	emailsvc "github.com/tricitytutors/backend/services/email"
	logsvc "github.com/tricitytutors/backend/services/logger"
	paymentsvc "github.com/tricitytutors/backend/services/payment"
	smssvc "github.com/tricitytutors/backend/services/sms"
	"github.com/tricitytutors/backend/storage/database"
	sqlxrepos "github.com/tricitytutors/backend/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		*conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		*conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(*conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(*conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(*conf, logger)
	}
	var smsSvc core.SMSService
	if conf.Debug {
		smsSvc = smssvc.NewConsoleService()
	} else {
		smsSvc = smssvc.NewTwilioService(*conf)
	}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db))
	otpSvc := otp.NewService(sqlxrepos.NewOTPRepository(db), mailSvc, smsSvc, conf, logger)
	tutorSvc := tutor.NewService(sqlxrepos.NewTutorRepository(db))
	reqSvc := requirement.NewService(sqlxrepos.NewRequirementRepository(db))
	reviewSvc := review.NewService(sqlxrepos.NewReviewRepository(db), tutorSvc)
	walletSvc := wallet.NewService(sqlxrepos.NewWalletRepository(db), paymentsvc.NewRazorpayGateway(*conf))
	msgSvc := message.NewService(sqlxrepos.NewMessageRepository(db), usrSvc, walletSvc)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	wallet.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(
		conf.Server.Address(),
		shutdown,
		&echoapi.Deps{
			Conf:           *conf,
			Logger:         logger,
			UserSvc:        usrSvc,
			OTPSvc:         otpSvc,
			TutorSvc:       tutorSvc,
			RequirementSvc: reqSvc,
			ReviewSvc:      reviewSvc,
			MessageSvc:     msgSvc,
			WalletSvc:      walletSvc,
			Validate:       validate,
			Translator:     translator,
		},
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-serverErrors:
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
