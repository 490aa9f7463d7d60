package echoapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tricitytutors/backend/core"
	"github.com/tricitytutors/backend/core/otp"
	"github.com/tricitytutors/backend/core/user"
)

type accountApi struct {
	deps *Deps
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := accountApi{deps: deps}

	ag := g.Group("/auth")
	ag.POST("/signup", api.signup)
	ag.POST("/login", api.login)
	ag.POST("/send-otp", api.sendOTP)
	ag.POST("/verify-otp", api.verifyOTP)
	ag.POST("/forgot-password", api.forgotPassword)
	ag.POST("/reset-password", api.resetPassword)
	ag.POST("/token-refresh", api.refreshToken, jwt)

	g.GET("/me", api.me, jwt)
}

// Handlers

func (api *accountApi) signup(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.deps.Validate, api.deps.UserSvc); err != nil {
		return err
	}

	usr, err := api.deps.UserSvc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}

	// tutors start with an empty directory profile
	if usr.IsTutor() {
		if _, err = api.deps.TutorSvc.CreateFor(usr); err != nil {
			return errors.Wrap(err, "creating tutor profile")
		}
	}

	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, AuthResponse{
		Message: "Signup successful",
		Token:   token,
		User:    usr.Summary(),
	})
}

func (api *accountApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	claims, usr, err := authenticate(data.Email, data.Password, api.deps.UserSvc)
	if err != nil {
		return err
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    usr.Summary(),
	})
}

func (api *accountApi) sendOTP(ctx echo.Context) error {
	var data SendOTPRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SendOTPRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	usr, err := api.deps.UserSvc.GetByEmail(data.Email)
	if err != nil {
		return err
	}

	code, mode, err := api.deps.OTPSvc.Issue(usr, data.Purpose)
	if err != nil {
		return errors.Wrap(err, "issuing code")
	}
	return ctx.JSON(http.StatusOK, newOTPResponse(data.Purpose, code, mode))
}

func (api *accountApi) verifyOTP(ctx echo.Context) error {
	var data VerifyOTPRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to VerifyOTPRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	usr, err := api.deps.UserSvc.GetByEmail(data.Email)
	if err != nil {
		return err
	}
	if err = api.deps.OTPSvc.Verify(data.Email, data.Purpose, data.OTP); err != nil {
		return err
	}
	if err = api.deps.UserSvc.MarkVerified(usr, data.Purpose); err != nil {
		return errors.Wrap(err, "marking verified")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("%s verified successfully", strings.Title(data.Purpose)),
	})
}

func (api *accountApi) forgotPassword(ctx echo.Context) error {
	var data ForgotPasswordRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ForgotPasswordRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	genericMsg := "If this email is registered, you will receive an OTP shortly."

	usr, err := api.deps.UserSvc.GetByEmail(data.Email)
	if err != nil {
		// do not reveal whether the email exists
		if errors.Cause(err) != user.ErrNotFound {
			ctx.Logger().Errorf("%+v", errors.Wrap(err, "finding user by email"))
		}
		return ctx.JSON(http.StatusOK, MessageResponse{Message: genericMsg})
	}

	code, mode, err := api.deps.OTPSvc.Issue(usr, otp.PurposeReset)
	if err != nil {
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "issuing code"))
		return ctx.JSON(http.StatusOK, MessageResponse{Message: genericMsg})
	}
	return ctx.JSON(http.StatusOK, newOTPResponse(otp.PurposeReset, code, mode))
}

func (api *accountApi) resetPassword(ctx echo.Context) error {
	var data ResetPasswordRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetPasswordRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	usr, err := api.deps.UserSvc.GetByEmail(data.Email)
	if err != nil {
		return err
	}
	if err = api.deps.OTPSvc.Verify(data.Email, otp.PurposeReset, data.OTP); err != nil {
		return err
	}
	if err = api.deps.UserSvc.ResetPassword(usr, data.NewPassword); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Password reset successfully"})
}

func (api *accountApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}

func (api *accountApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

// Bindings

type (
	AuthResponse struct {
		Message string       `json:"message"`
		Token   string       `json:"token"`
		User    user.Summary `json:"user"`
	}

	TokenResponse struct {
		Token string `json:"token"`
	}

	MessageResponse struct {
		Message string `json:"message"`
	}

	OTPResponse struct {
		Message string `json:"message"`
		Mode    string `json:"mode"`
		OTP     string `json:"otp,omitempty"` // mock mode only
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	SendOTPRequest struct {
		Email   string `json:"email" validate:"required,email"`
		Purpose string `json:"otp_type" validate:"required,oneof=email mobile"`
	}

	VerifyOTPRequest struct {
		Email   string `json:"email" validate:"required,email"`
		OTP     string `json:"otp" validate:"required"`
		Purpose string `json:"otp_type" validate:"required,oneof=email mobile"`
	}

	ForgotPasswordRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ResetPasswordRequest struct {
		Email       string `json:"email" validate:"required,email"`
		OTP         string `json:"otp" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=6"`
	}
)

func newOTPResponse(purpose, code, mode string) OTPResponse {
	res := OTPResponse{Mode: mode}
	msg := "OTP sent to " + purpose
	if purpose == otp.PurposeReset {
		msg = "Password reset OTP sent"
	}
	if mode == otp.ModeMock {
		res.Message = msg + " (Mock Mode)"
		res.OTP = code // never echoed when delivery is real
	} else {
		res.Message = msg
	}
	return res
}

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

func (r *SendOTPRequest) Validate(validate *validator.Validate) error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return validate.Struct(r)
}

func (r *VerifyOTPRequest) Validate(validate *validator.Validate) error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return validate.Struct(r)
}

func (r *ForgotPasswordRequest) Validate(validate *validator.Validate) error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return validate.Struct(r)
}

func (r *ResetPasswordRequest) Validate(validate *validator.Validate) error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return validate.Struct(r)
}
