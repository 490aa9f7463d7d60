package otp_test

import (
	"strings"
	"testing"
	"time"

	emailsvc "github.com/tricitytutors/backend/services/email"
	smssvc "github.com/tricitytutors/backend/services/sms"
	dummydb "github.com/tricitytutors/backend/storage/database/dummy"

	"github.com/tricitytutors/backend/core"
	"github.com/tricitytutors/backend/core/otp"
	"github.com/tricitytutors/backend/core/user"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func setup(t *testing.T, conf *core.Config) otp.Service {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	emailsvc.ClearSentMessages()
	smssvc.ClearSentMessages()

	return otp.NewService(
		dummydb.NewOTPRepository(db),
		emailsvc.NewConsoleServiceMock(*conf),
		smssvc.NewConsoleServiceMock(),
		conf,
		nopLogger{},
	)
}

func testConfig() *core.Config {
	conf := &core.Config{AppName: "TricityTutors"}
	conf.OTP.Timeout = 10 * time.Minute
	conf.SMS.CountryPrefix = "+91"
	return conf
}

var testUser = user.User{
	ID:     "usr-1",
	Email:  "awe@test.in",
	Name:   "Awe",
	Mobile: "9876543210",
}

func Test_service_IssueVerify(t *testing.T) {
	svc := setup(t, testConfig())

	code, mode, err := svc.Issue(testUser, otp.PurposeEmail)
	if err != nil {
		t.Fatalf("Issue() failed, %v", err)
	}
	if len(code) != 6 {
		t.Errorf("Issue() code = %q, want 6 digits", code)
	}
	// console delivery degrades to mock mode
	if mode != otp.ModeMock {
		t.Errorf("Issue() mode = %s, want %s", mode, otp.ModeMock)
	}
	if len(emailsvc.SentMessages) != 1 {
		t.Fatalf("got %d sent emails, want 1", len(emailsvc.SentMessages))
	}
	if msg := emailsvc.SentMessages[0]; !strings.Contains(msg.Subject, code) {
		t.Errorf("email subject %q does not contain the code", msg.Subject)
	}

	if err = svc.Verify(testUser.Email, otp.PurposeEmail, "000000"); err != otp.ErrMismatch {
		t.Errorf("Verify() error = %v, wantErr %v", err, otp.ErrMismatch)
	}
	if err = svc.Verify(testUser.Email, otp.PurposeEmail, code); err != nil {
		t.Errorf("Verify() failed, %v", err)
	}
	// codes are single-use
	if err = svc.Verify(testUser.Email, otp.PurposeEmail, code); err != otp.ErrNotFound {
		t.Errorf("Verify() error = %v, wantErr %v", err, otp.ErrNotFound)
	}
}

func Test_service_Issue_mobile(t *testing.T) {
	svc := setup(t, testConfig())

	code, _, err := svc.Issue(testUser, otp.PurposeMobile)
	if err != nil {
		t.Fatalf("Issue() failed, %v", err)
	}
	if len(smssvc.SentMessages) != 1 {
		t.Fatalf("got %d sent SMS, want 1", len(smssvc.SentMessages))
	}
	msg := smssvc.SentMessages[0]
	if msg.To != "+919876543210" {
		t.Errorf("SMS To = %s, want +919876543210", msg.To)
	}
	if !strings.Contains(msg.Body, code) {
		t.Errorf("SMS body %q does not contain the code", msg.Body)
	}
}

func Test_service_Issue_reissueInvalidatesPrior(t *testing.T) {
	svc := setup(t, testConfig())

	code1, _, err := svc.Issue(testUser, otp.PurposeEmail)
	if err != nil {
		t.Fatalf("Issue() failed, %v", err)
	}
	code2, _, err := svc.Issue(testUser, otp.PurposeEmail)
	if err != nil {
		t.Fatalf("Issue() failed, %v", err)
	}

	if code1 != code2 {
		if err = svc.Verify(testUser.Email, otp.PurposeEmail, code1); err != otp.ErrMismatch {
			t.Errorf("Verify() error = %v, wantErr %v", err, otp.ErrMismatch)
		}
	}
	if err = svc.Verify(testUser.Email, otp.PurposeEmail, code2); err != nil {
		t.Errorf("Verify() failed, %v", err)
	}
}

func Test_service_Verify_expired(t *testing.T) {
	svc := setup(t, testConfig())

	code, _, err := svc.Issue(testUser, otp.PurposeReset)
	if err != nil {
		t.Fatalf("Issue() failed, %v", err)
	}

	otp.NowFunc = func() time.Time { return time.Now().Add(11 * time.Minute) }
	defer func() { otp.NowFunc = time.Now }()

	if err = svc.Verify(testUser.Email, otp.PurposeReset, code); err != otp.ErrExpired {
		t.Errorf("Verify() error = %v, wantErr %v", err, otp.ErrExpired)
	}
	// the expired record is evicted
	if err = svc.Verify(testUser.Email, otp.PurposeReset, code); err != otp.ErrNotFound {
		t.Errorf("Verify() error = %v, wantErr %v", err, otp.ErrNotFound)
	}
}

func Test_service_Verify_unknown(t *testing.T) {
	svc := setup(t, testConfig())

	if err := svc.Verify("nobody@test.in", otp.PurposeEmail, "123456"); err != otp.ErrNotFound {
		t.Errorf("Verify() error = %v, wantErr %v", err, otp.ErrNotFound)
	}
}

func Test_service_Verify_bypassCode(t *testing.T) {
	conf := testConfig()
	conf.OTP.BypassCode = "424242"
	svc := setup(t, conf)

	// bypass works even without an issued code
	if err := svc.Verify(testUser.Email, otp.PurposeEmail, "424242"); err != nil {
		t.Errorf("Verify() failed, %v", err)
	}

	// unconfigured bypass is just a wrong code
	svc = setup(t, testConfig())
	if err := svc.Verify(testUser.Email, otp.PurposeEmail, "424242"); err != otp.ErrNotFound {
		t.Errorf("Verify() error = %v, wantErr %v", err, otp.ErrNotFound)
	}
}
