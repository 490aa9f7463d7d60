package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/tricitytutors/backend/core"
	"github.com/tricitytutors/backend/core/user"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound = errors.New("no code found, request a new one")
	ErrExpired  = errors.New("code expired, request a new one")
	ErrMismatch = errors.New("invalid code")
)

type (
	Repository interface {
		// UpsertCode stores the code, replacing any prior record for (email, purpose).
		UpsertCode(code Code) error
		GetCode(email, purpose string) (Code, error)
		DeleteCode(email, purpose string) error
	}

	Service interface {
		// Issue generates, stores and dispatches a fresh code for the user.
		// The returned mode indicates whether delivery actually happened
		// (ModeReal) or degraded to mock delivery (ModeMock); the code is
		// valid either way.
		Issue(usr user.User, purpose string) (code string, mode string, err error)
		// Verify checks the submitted code and evicts the record on success
		// or on expiry.
		Verify(email, purpose, submitted string) error
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		smsSvc  core.SMSService
		conf    *core.Config
		logger  core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, smsSvc core.SMSService, conf *core.Config, logger core.Logger) Service {
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		smsSvc:  smsSvc,
		conf:    conf,
		logger:  logger,
	}
}

func (svc *service) Issue(usr user.User, purpose string) (string, string, error) {
	code, err := generateCode()
	if err != nil {
		return "", "", errors.Wrap(err, "generating code")
	}

	now := NowFunc().UTC()
	rec := Code{
		Email:     usr.Email,
		Purpose:   purpose,
		Code:      code,
		ExpiresAt: now.Add(svc.conf.OTP.Timeout),
		CreatedAt: now,
	}
	if err = svc.repo.UpsertCode(rec); err != nil {
		return "", "", errors.Wrap(err, "storing code")
	}

	// dispatch is best-effort: a failed delivery degrades to mock mode,
	// the stored code stays valid.
	mode := ModeReal
	if err = svc.dispatch(usr, purpose, code); err != nil {
		if !(errors.Cause(err) == core.ErrMailNotEnabled || errors.Cause(err) == core.ErrSMSNotEnabled) {
			svc.logger.Error(fmt.Sprintf("otp dispatch failed: %v", err), err)
		}
		mode = ModeMock
	}
	return code, mode, nil
}

func (svc *service) Verify(email, purpose, submitted string) error {
	// universal bypass code; only honored when explicitly configured
	if bypass := svc.conf.OTP.BypassCode; bypass != "" && submitted == bypass {
		_ = svc.repo.DeleteCode(email, purpose)
		return nil
	}

	rec, err := svc.repo.GetCode(email, purpose)
	if err != nil {
		return err
	}
	if NowFunc().UTC().After(rec.ExpiresAt) {
		if err = svc.repo.DeleteCode(email, purpose); err != nil {
			return errors.Wrap(err, "evicting expired code")
		}
		return ErrExpired
	}
	if submitted != rec.Code {
		return ErrMismatch
	}
	return svc.repo.DeleteCode(email, purpose)
}

func (svc *service) dispatch(usr user.User, purpose, code string) error {
	if purpose == PurposeMobile {
		mobile := usr.Mobile
		if !strings.HasPrefix(mobile, "+") {
			mobile = svc.conf.SMS.CountryPrefix + mobile
		}
		return svc.smsSvc.SendMessage(&core.SMSMessage{
			To:   mobile,
			Body: fmt.Sprintf("Your %s verification code is %s. It expires in %d minutes.", svc.conf.AppName, code, int(svc.conf.OTP.Timeout.Minutes())),
		})
	}

	subject := fmt.Sprintf("Your verification code: %s", code)
	intro := "Your code for email verification is:"
	if purpose == PurposeReset {
		subject = fmt.Sprintf("Password reset code: %s", code)
		intro = "You requested to reset your password. Use this code:"
	}
	mins := int(svc.conf.OTP.Timeout.Minutes())
	return svc.mailSvc.SendMessage(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: subject,
		TextContent: fmt.Sprintf("Hello %s,\n\n%s\n\n%s\n\nThis code will expire in %d minutes.\nIf you didn't request this, please ignore this email.",
			usr.Name, intro, code, mins),
		HTMLContent: fmt.Sprintf(
			`<html><body style="font-family: Arial, sans-serif;"><p>Hello %s,</p><p>%s</p>`+
				`<div style="font-size: 32px; font-weight: bold; letter-spacing: 5px;">%s</div>`+
				`<p style="color: #666;">This code will expire in %d minutes.</p>`+
				`<p style="color: #666;">If you didn't request this, please ignore this email.</p></body></html>`,
			usr.Name, intro, code, mins),
	})
}

// generateCode returns a random 6-digit numeric code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
