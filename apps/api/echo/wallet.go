package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tricitytutors/backend/core/tutor"
	"github.com/tricitytutors/backend/core/user"
	"github.com/tricitytutors/backend/core/wallet"
)

type walletApi struct {
	deps *Deps
}

func registerWalletAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := walletApi{deps: deps}

	wg := g.Group("/wallet", jwt)
	wg.GET("", api.wallet)
	wg.POST("/purchase", api.purchase)
	wg.POST("/verify-payment", api.verifyPayment)
	wg.POST("/spend", api.spend)

	g.GET("/check-tutor-access/:tutorID", api.checkTutorAccess, jwt)
}

// Handlers

func (api *walletApi) wallet(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	balance, txns, err := api.deps.WalletSvc.Wallet(usr.ID)
	if err != nil {
		return errors.Wrap(err, "reading wallet")
	}
	return ctx.JSON(http.StatusOK, WalletResponse{Coins: balance, Transactions: txns})
}

func (api *walletApi) purchase(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data wallet.NewPurchase
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPurchase")
	}
	if err = api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	res, err := api.deps.WalletSvc.Purchase(usr.ID, data.Package)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *walletApi) verifyPayment(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data wallet.PaymentVerification
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PaymentVerification")
	}
	if err = api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	coins, err := api.deps.WalletSvc.ConfirmPurchase(usr.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"message":     "Payment verified successfully",
		"coins_added": coins,
	})
}

func (api *walletApi) spend(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data wallet.NewSpend
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSpend")
	}
	if err = api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	balance, err := api.deps.WalletSvc.Spend(usr.ID, data.Coins, data.Purpose, data.TargetID)
	if err != nil {
		// the generic mapping reserves 402 for the messaging gate
		if errors.Cause(err) == wallet.ErrInsufficientFunds {
			return echo.NewHTTPError(http.StatusBadRequest, wallet.ErrInsufficientFunds.Error())
		}
		return err
	}

	unlocked, err := api.unlockedPayload(data.Purpose, data.TargetID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SpendResponse{
		Message:        "Coins spent successfully",
		RemainingCoins: balance,
		Data:           unlocked,
	})
}

// unlockedPayload fetches what the spend paid for.
func (api *walletApi) unlockedPayload(purpose, targetID string) (interface{}, error) {
	if targetID == "" {
		return nil, nil
	}
	switch purpose {
	case wallet.PurposeViewRequirement:
		r, err := api.deps.RequirementSvc.GetByID(targetID)
		if err != nil {
			return nil, err
		}
		return r, nil
	case wallet.PurposeContactTutor:
		p, err := api.deps.TutorSvc.Get(targetID)
		if err != nil {
			return nil, err
		}
		contact := tutor.Contact{Mobile: p.Mobile}
		if tutorUsr, err := api.deps.UserSvc.GetByID(targetID); err == nil {
			contact.Email = tutorUsr.Email
		} else if errors.Cause(err) != user.ErrNotFound {
			return nil, err
		}
		return contact, nil
	}
	return nil, nil
}

func (api *walletApi) checkTutorAccess(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	tutorID := ctx.Param("tutorID")

	hasMessage, err := api.deps.WalletSvc.CheckAccess(usr.ID, tutorID, wallet.PurposeMessageTutor)
	if err != nil {
		return errors.Wrap(err, "checking message access")
	}
	hasContact, err := api.deps.WalletSvc.CheckAccess(usr.ID, tutorID, wallet.PurposeContactTutor)
	if err != nil {
		return errors.Wrap(err, "checking contact access")
	}

	return ctx.JSON(http.StatusOK, AccessResponse{
		HasMessageAccess: hasMessage,
		HasContactAccess: hasContact,
		CurrentCoins:     usr.Coins,
	})
}

// Bindings

type (
	WalletResponse struct {
		Coins        int                  `json:"coins"`
		Transactions []wallet.Transaction `json:"transactions"`
	}

	SpendResponse struct {
		Message        string      `json:"message"`
		RemainingCoins int         `json:"remaining_coins"`
		Data           interface{} `json:"data"`
	}

	AccessResponse struct {
		HasMessageAccess bool `json:"has_message_access"`
		HasContactAccess bool `json:"has_contact_access"`
		CurrentCoins     int  `json:"current_coins"`
	}
)
