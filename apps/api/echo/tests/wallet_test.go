package tests

import (
	"net/http"
	"testing"

	paymentsvc "github.com/tricitytutors/backend/services/payment"

	"github.com/tricitytutors/backend/core/user"
	"github.com/tricitytutors/backend/core/wallet"
)

func Test_walletApi_purchaseFlow(t *testing.T) {
	resetApp(t)

	usr := createUser(t, "Awe", "awe@test.in", user.RoleStudent, true)
	token := getToken(t, usr)

	// auth required
	req, rec := newRequest(http.MethodPost, "/v1/wallet/purchase", []byte(`{"package":100}`))
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusUnauthorized, rec)

	// unknown package
	tt := httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, httpErr{Error: "invalid package"}),
	}
	req, rec = newAuthRequest(http.MethodPost, "/v1/wallet/purchase", token, []byte(`{"package":42}`))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)

	// open a gateway order for the 100-coin package
	req, rec = newAuthRequest(http.MethodPost, "/v1/wallet/purchase", token, []byte(`{"package":100}`))
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusOK, rec)

	var res wallet.PurchaseResult
	unmarchallObj(t, rec.Body.Bytes(), &res)
	if res.Mock || res.OrderID == "" || res.TransactionID == "" {
		t.Fatalf("unexpected response %s", rec.Body.String())
	}
	// 100 coins cost ₹200, quoted in paise
	if res.Amount != 20000 || res.Currency != "INR" {
		t.Errorf("order = %d %s, want 20000 INR", res.Amount, res.Currency)
	}

	// nothing credited until the gateway confirms
	req, rec = newAuthRequest(http.MethodGet, "/v1/wallet", token)
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusOK, rec)
	var w struct {
		Coins        int                  `json:"coins"`
		Transactions []wallet.Transaction `json:"transactions"`
	}
	unmarchallObj(t, rec.Body.Bytes(), &w)
	if w.Coins != 0 || len(w.Transactions) != 1 || w.Transactions[0].Status != wallet.StatusPending {
		t.Fatalf("unexpected wallet %s", rec.Body.String())
	}

	// forged signature
	body := marchallObj(t, wallet.PaymentVerification{
		OrderID: res.OrderID, PaymentID: "pay_1", Signature: "forged", TransactionID: res.TransactionID,
	})
	tt = httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, httpErr{Error: "invalid payment signature"}),
	}
	req, rec = newAuthRequest(http.MethodPost, "/v1/wallet/verify-payment", token, body)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)

	// a failed transaction stays failed
	body = marchallObj(t, wallet.PaymentVerification{
		OrderID: res.OrderID, PaymentID: "pay_1",
		Signature:     paymentsvc.Signature(res.OrderID, "pay_1"),
		TransactionID: res.TransactionID,
	})
	req, rec = newAuthRequest(http.MethodPost, "/v1/wallet/verify-payment", token, body)
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusBadRequest, rec)

	// fresh order, valid confirmation
	req, rec = newAuthRequest(http.MethodPost, "/v1/wallet/purchase", token, []byte(`{"package":100}`))
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusOK, rec)
	unmarchallObj(t, rec.Body.Bytes(), &res)

	body = marchallObj(t, wallet.PaymentVerification{
		OrderID: res.OrderID, PaymentID: "pay_2",
		Signature:     paymentsvc.Signature(res.OrderID, "pay_2"),
		TransactionID: res.TransactionID,
	})
	tt = httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, map[string]interface{}{"message": "Payment verified successfully", "coins_added": 100}),
	}
	req, rec = newAuthRequest(http.MethodPost, "/v1/wallet/verify-payment", token, body)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)

	// a replay cannot credit twice
	req, rec = newAuthRequest(http.MethodPost, "/v1/wallet/verify-payment", token, body)
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusBadRequest, rec)

	req, rec = newAuthRequest(http.MethodGet, "/v1/wallet", token)
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusOK, rec)
	unmarchallObj(t, rec.Body.Bytes(), &w)
	if w.Coins != 100 {
		t.Errorf("coins = %d, want 100", w.Coins)
	}
}

func Test_walletApi_spend(t *testing.T) {
	resetApp(t)

	student := createUser(t, "Awe", "awe@test.in", user.RoleStudent, true)
	poster := createUser(t, "Mdr", "mdr@test.in", user.RoleStudent, true)
	token := getToken(t, student)

	r, err := reqSvc.Create(poster, requirementFixture())
	if err != nil {
		t.Fatalf("reqSvc.Create() failed, %v", err)
	}

	// empty wallet
	tt := httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, httpErr{Error: "insufficient coins"}),
	}
	body := []byte(`{"coins":50,"purpose":"view_requirement","target_id":"` + r.ID + `"}`)
	req, rec := newAuthRequest(http.MethodPost, "/v1/wallet/spend", token, body)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)

	// unknown purpose is rejected before touching the wallet
	fundUser(t, student, 100)
	req, rec = newAuthRequest(http.MethodPost, "/v1/wallet/spend", token, []byte(`{"coins":50,"purpose":"lol"}`))
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusBadRequest, rec)

	// a successful spend unlocks the requirement payload
	req, rec = newAuthRequest(http.MethodPost, "/v1/wallet/spend", token, body)
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusOK, rec)

	var res struct {
		Message        string                 `json:"message"`
		RemainingCoins int                    `json:"remaining_coins"`
		Data           map[string]interface{} `json:"data"`
	}
	unmarchallObj(t, rec.Body.Bytes(), &res)
	if res.Message != "Coins spent successfully" || res.RemainingCoins != 50 {
		t.Fatalf("unexpected response %s", rec.Body.String())
	}
	if res.Data["id"] != r.ID || res.Data["phone"] != r.Phone {
		t.Errorf("unlocked payload = %v, want requirement %s", res.Data, r.ID)
	}
}

func Test_walletApi_checkTutorAccess(t *testing.T) {
	resetApp(t)

	student := createUser(t, "Awe", "awe@test.in", user.RoleStudent, true)
	tutorUsr := createUser(t, "Prof X", "prof@test.in", user.RoleTutor, true)
	token := getToken(t, student)

	fundUser(t, student, 250)

	var res struct {
		HasMessageAccess bool `json:"has_message_access"`
		HasContactAccess bool `json:"has_contact_access"`
		CurrentCoins     int  `json:"current_coins"`
	}

	req, rec := newAuthRequest(http.MethodGet, "/v1/check-tutor-access/"+tutorUsr.ID, token)
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusOK, rec)
	unmarchallObj(t, rec.Body.Bytes(), &res)
	if res.HasMessageAccess || res.HasContactAccess || res.CurrentCoins != 250 {
		t.Fatalf("unexpected response %s", rec.Body.String())
	}

	// messaging the tutor grants message access only
	if _, err := walletSvc.Spend(student.ID, wallet.MessageTutorPrice, wallet.PurposeMessageTutor, tutorUsr.ID); err != nil {
		t.Fatalf("Spend() failed, %v", err)
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/check-tutor-access/"+tutorUsr.ID, token)
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusOK, rec)
	unmarchallObj(t, rec.Body.Bytes(), &res)
	if !res.HasMessageAccess || res.HasContactAccess || res.CurrentCoins != 150 {
		t.Fatalf("unexpected response %s", rec.Body.String())
	}
}
