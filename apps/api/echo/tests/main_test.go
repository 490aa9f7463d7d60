package tests

import (
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

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
	paymentsvc "github.com/tricitytutors/backend/services/payment"
	smssvc "github.com/tricitytutors/backend/services/sms"
	dummydb "github.com/tricitytutors/backend/storage/database/dummy"
)

var (
	app     echoapi.Server
	conf    core.Config
	gateway = paymentsvc.NewMockGateway()

	usrSvc    user.Service
	otpSvc    otp.Service
	tutorSvc  tutor.Service
	reqSvc    requirement.Service
	reviewSvc review.Service
	msgSvc    message.Service
	walletSvc wallet.Service

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func testConfig() core.Config {
	conf := core.Config{
		TestMode:  true,
		AppName:   "TricityTutors",
		SecretKey: "test-secret",
	}
	conf.Server.JWTExpirationDelta = time.Hour
	conf.Server.JWTRefreshExpirationDelta = 4 * time.Hour
	conf.OTP.Timeout = 10 * time.Minute
	conf.SMS.CountryPrefix = "+91"
	return conf
}

// resetApp rebuilds the whole stack on a fresh in-memory DB.
func resetApp(t *testing.T) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	emailsvc.ClearSentMessages()
	smssvc.ClearSentMessages()

	conf = testConfig()
	logger := nopLogger{}

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	smsSvc := smssvc.NewConsoleServiceMock()

	usrSvc = user.NewService(dummydb.NewUserRepository(db))
	otpSvc = otp.NewService(dummydb.NewOTPRepository(db), mailSvc, smsSvc, &conf, logger)
	tutorSvc = tutor.NewService(dummydb.NewTutorRepository(db))
	reqSvc = requirement.NewService(dummydb.NewRequirementRepository(db))
	reviewSvc = review.NewService(dummydb.NewReviewRepository(db), tutorSvc)
	walletSvc = wallet.NewService(dummydb.NewWalletRepository(db), gateway)
	msgSvc = message.NewService(dummydb.NewMessageRepository(db), usrSvc, walletSvc)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	wallet.InitValidators(validate, translator)

	app = echoapi.NewServer(
		"",  /* addr */
		nil, /* shutdown */
		&echoapi.Deps{
			Conf:           conf,
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
}

// createUser provisions a user directly on the service layer.
func createUser(t *testing.T, name, email, role string, verified bool) user.User {
	usr, err := usrSvc.Create(user.NewUser{
		Email:    email,
		Password: "s3cr3t",
		Role:     role,
		Name:     name,
	})
	if err != nil {
		t.Fatalf("usrSvc.Create() failed, %v", err)
	}
	if verified {
		if err = usrSvc.MarkVerified(usr, "email"); err != nil {
			t.Fatalf("usrSvc.MarkVerified() failed, %v", err)
		}
		usr.EmailVerified = true
	}
	if usr.IsTutor() {
		if _, err = tutorSvc.CreateFor(usr); err != nil {
			t.Fatalf("tutorSvc.CreateFor() failed, %v", err)
		}
	}
	return usr
}

// fundUser credits coins through a confirmed gateway purchase.
func fundUser(t *testing.T, usr user.User, pkg int) {
	res, err := walletSvc.Purchase(usr.ID, pkg)
	if err != nil {
		t.Fatalf("walletSvc.Purchase() failed, %v", err)
	}
	if _, err = walletSvc.ConfirmPurchase(usr.ID, wallet.PaymentVerification{
		OrderID:       res.OrderID,
		PaymentID:     "pay_test",
		Signature:     paymentsvc.Signature(res.OrderID, "pay_test"),
		TransactionID: res.TransactionID,
	}); err != nil {
		t.Fatalf("walletSvc.ConfirmPurchase() failed, %v", err)
	}
}
