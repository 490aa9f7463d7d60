package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/tricitytutors/backend/core"
)

// Roles
const (
	RoleTutor    = "tutor"
	RoleStudent  = "student"
	RoleParent   = "parent"
	RoleCoaching = "coaching"
	RoleCompany  = "company"
)

var (
	AllRoles = []string{RoleTutor, RoleStudent, RoleParent, RoleCoaching, RoleCompany}

	// PayingRoles must spend coins before contacting a tutor.
	PayingRoles = []string{RoleStudent, RoleParent, RoleCoaching, RoleCompany}
)

type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	Mobile         string    `json:"mobile,omitempty"`
	CompanyName    string    `json:"company_name,omitempty"`
	InstituteName  string    `json:"institute_name,omitempty"`
	EmailVerified  bool      `json:"email_verified"`
	MobileVerified bool      `json:"mobile_verified"`
	Coins          int       `json:"coins"`
	PasswordHash   []byte    `json:"-"`
	CreatedAt      time.Time `json:"created_at"` // UTC
	LastLogin      time.Time `json:"last_login"` // UTC; zero until first login
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsTutor() bool { return u.Role == RoleTutor }

func (u *User) IsPayingRole() bool {
	for _, r := range PayingRoles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// Summary is the compact representation returned on signup/login.
type Summary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	Coins int    `json:"coins"`
}

func (u *User) Summary() Summary {
	return Summary{ID: u.ID, Email: u.Email, Role: u.Role, Name: u.Name, Coins: u.Coins}
}

// NewUser contains information needed to sign a new User up.
type NewUser struct {
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=6"`
	Role          string `json:"role" validate:"required,role"`
	Name          string `json:"name" validate:"required"`
	Mobile        string `json:"mobile" validate:"omitempty,mobile"`
	CompanyName   string `json:"company_name"`
	InstituteName string `json:"institute_name"`
}

func (nu *NewUser) Validate(validate *validator.Validate, svc Service) error {
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Name = core.CleanString(nu.Name)
	nu.Mobile = core.CleanMobile(nu.Mobile)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(nu.Email)
}
