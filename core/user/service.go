package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tricitytutors/backend/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("email already registered")
)

type (
	Repository interface {
		CheckEmailUniqueness(email string) error
		CreateUser(usr User) (User, error)
		GetUserByID(id string) (User, error)
		GetUserByEmail(email string) (User, error)
		SetLastLogin(usr User) (User, error)
		UpdatePassword(id string, hash []byte) error
		SetEmailVerified(id string) error
		SetMobileVerified(id string) error
	}

	Service interface {
		CheckEmailUniqueness(email string) error
		Create(nu NewUser) (User, error)
		GetByID(id string) (User, error)
		GetByEmail(email string) (User, error)
		SetLastLogin(usr User) (User, error)
		ResetPassword(usr User, newPwd string) error
		MarkVerified(usr User, channel string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CheckEmailUniqueness(email string) error {
	if err := svc.repo.CheckEmailUniqueness(email); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(nu NewUser) (User, error) {
	usr := User{
		ID:            uuid.New().String(),
		Email:         nu.Email,
		Name:          nu.Name,
		Role:          nu.Role,
		Mobile:        nu.Mobile,
		CompanyName:   nu.CompanyName,
		InstituteName: nu.InstituteName,
		CreatedAt:     time.Now().UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(usr)
}

func (svc *service) GetByID(id string) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
}

func (svc *service) SetLastLogin(usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.SetLastLogin(usr)
}

func (svc *service) ResetPassword(usr User, newPwd string) error {
	if err := usr.SetPassword(newPwd); err != nil {
		return err
	}
	return svc.repo.UpdatePassword(usr.ID, usr.PasswordHash)
}

// MarkVerified flips the verification flag for the given channel ("email" or "mobile").
func (svc *service) MarkVerified(usr User, channel string) error {
	if channel == "mobile" {
		return svc.repo.SetMobileVerified(usr.ID)
	}
	return svc.repo.SetEmailVerified(usr.ID)
}
