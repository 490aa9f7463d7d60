package user_test

import (
	"testing"

	"github.com/tricitytutors/backend/core"
	"github.com/tricitytutors/backend/core/user"
	dummydb "github.com/tricitytutors/backend/storage/database/dummy"
)

func setup(t *testing.T) user.Service {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	return user.NewService(dummydb.NewUserRepository(db))
}

func Test_service_Create(t *testing.T) {
	svc := setup(t)

	usr, err := svc.Create(user.NewUser{
		Email:    "ravi@test.cc",
		Password: "Secret123",
		Role:     user.RoleStudent,
		Name:     "Ravi Kumar",
	})
	if err != nil {
		t.Fatalf("Create() failed, %v", err)
	}
	if usr.ID == "" {
		t.Error("Create() did not assign an id")
	}
	if usr.Coins != 0 {
		t.Errorf("Coins = %d; want 0", usr.Coins)
	}
	if usr.EmailVerified || usr.MobileVerified {
		t.Error("new user must start unverified")
	}
	if err := usr.CheckPassword("Secret123"); err != nil {
		t.Errorf("CheckPassword() failed, %v", err)
	}
	if err := usr.CheckPassword("wrong"); err == nil {
		t.Error("CheckPassword() accepted a wrong password")
	}

	// duplicate email surfaces as a field error
	err = svc.CheckEmailUniqueness("ravi@test.cc")
	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("CheckEmailUniqueness() error = %v; want *core.ValidationError", err)
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "email" {
		t.Errorf("Fields = %+v; want single email error", vErr.Fields)
	}
}

func Test_service_GetByEmail(t *testing.T) {
	svc := setup(t)

	usr, err := svc.Create(user.NewUser{
		Email:    "asha@test.cc",
		Password: "Secret123",
		Role:     user.RoleTutor,
		Name:     "Asha Verma",
	})
	if err != nil {
		t.Fatalf("Create() failed, %v", err)
	}

	// lookup normalizes case and whitespace
	got, err := svc.GetByEmail("  Asha@Test.CC ")
	if err != nil {
		t.Fatalf("GetByEmail() failed, %v", err)
	}
	if got.ID != usr.ID {
		t.Errorf("GetByEmail() id = %q; want %q", got.ID, usr.ID)
	}

	if _, err = svc.GetByEmail("ghost@test.cc"); err != user.ErrNotFound {
		t.Errorf("GetByEmail(unknown) error = %v; want ErrNotFound", err)
	}
}

func Test_service_ResetPassword(t *testing.T) {
	svc := setup(t)

	usr, err := svc.Create(user.NewUser{
		Email:    "raj@test.cc",
		Password: "OldSecret",
		Role:     user.RoleParent,
		Name:     "Raj Singh",
	})
	if err != nil {
		t.Fatalf("Create() failed, %v", err)
	}

	if err = svc.ResetPassword(usr, "NewSecret"); err != nil {
		t.Fatalf("ResetPassword() failed, %v", err)
	}
	usr, err = svc.GetByID(usr.ID)
	if err != nil {
		t.Fatalf("GetByID() failed, %v", err)
	}
	if err = usr.CheckPassword("NewSecret"); err != nil {
		t.Errorf("CheckPassword(new) failed, %v", err)
	}
	if err = usr.CheckPassword("OldSecret"); err == nil {
		t.Error("CheckPassword(old) still accepted after reset")
	}
}

func Test_service_MarkVerified(t *testing.T) {
	svc := setup(t)

	usr, err := svc.Create(user.NewUser{
		Email:    "nisha@test.cc",
		Password: "Secret123",
		Role:     user.RoleStudent,
		Name:     "Nisha Gupta",
	})
	if err != nil {
		t.Fatalf("Create() failed, %v", err)
	}

	if err = svc.MarkVerified(usr, "email"); err != nil {
		t.Fatalf("MarkVerified(email) failed, %v", err)
	}
	if err = svc.MarkVerified(usr, "mobile"); err != nil {
		t.Fatalf("MarkVerified(mobile) failed, %v", err)
	}

	usr, err = svc.GetByID(usr.ID)
	if err != nil {
		t.Fatalf("GetByID() failed, %v", err)
	}
	if !usr.EmailVerified || !usr.MobileVerified {
		t.Errorf("verification flags = (%t, %t); want both true", usr.EmailVerified, usr.MobileVerified)
	}
}

func Test_service_SetLastLogin(t *testing.T) {
	svc := setup(t)

	usr, err := svc.Create(user.NewUser{
		Email:    "amit@test.cc",
		Password: "Secret123",
		Role:     user.RoleCoaching,
		Name:     "Amit Institute",
	})
	if err != nil {
		t.Fatalf("Create() failed, %v", err)
	}
	if !usr.LastLogin.IsZero() {
		t.Error("LastLogin must be zero before first login")
	}

	usr, err = svc.SetLastLogin(usr)
	if err != nil {
		t.Fatalf("SetLastLogin() failed, %v", err)
	}
	if usr.LastLogin.IsZero() {
		t.Error("SetLastLogin() did not stamp the login time")
	}
}
