package requirement

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tricitytutors/backend/core"
	"github.com/tricitytutors/backend/core/user"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound         = errors.New("requirement not found")
	ErrEmailNotVerified = errors.New("please verify your email before posting a requirement")
	ErrNotOwner         = errors.New("not the owner of this requirement")
)

type (
	Repository interface {
		CreateRequirement(r Requirement) (Requirement, error)
		GetRequirementByID(id string) (Requirement, error)
		// FilterRequirements applies AND on set QueryFilter fields; Subject
		// matches case-insensitively as a substring. Newest first.
		FilterRequirements(filter QueryFilter) ([]Requirement, error)
		QueryByStudent(studentID string) ([]Requirement, error)
		CloseRequirement(id string) error
	}

	Service interface {
		// Create posts a requirement; the poster's email must be verified.
		Create(usr user.User, nr NewRequirement) (Requirement, error)
		GetByID(id string) (Requirement, error)
		Filter(filter QueryFilter) ([]Requirement, error)
		QueryMine(usr user.User) ([]Requirement, error)
		// Close closes (never deletes) a requirement owned by the caller.
		Close(usr user.User, id string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(usr user.User, nr NewRequirement) (Requirement, error) {
	if !usr.EmailVerified {
		return Requirement{}, ErrEmailNotVerified
	}
	return svc.repo.CreateRequirement(Requirement{
		ID:               uuid.New().String(),
		StudentID:        usr.ID,
		StudentName:      usr.Name,
		Subject:          nr.Subject,
		LevelClass:       nr.LevelClass,
		Mode:             nr.Mode,
		RequirementType:  nr.RequirementType,
		GenderPreference: nr.GenderPreference,
		TimePreference:   nr.TimePreference,
		Languages:        nr.Languages,
		Location:         nr.Location,
		Phone:            nr.Phone,
		Description:      nr.Description,
		Status:           StatusActive,
		PhoneVerified:    true,
		CreatedAt:        NowFunc().UTC(),
	})
}

func (svc *service) GetByID(id string) (Requirement, error) {
	return svc.repo.GetRequirementByID(id)
}

func (svc *service) Filter(filter QueryFilter) ([]Requirement, error) {
	if filter.Status == "" {
		filter.Status = StatusActive
	}
	filter.Subject = core.CleanString(filter.Subject)
	return svc.repo.FilterRequirements(filter)
}

func (svc *service) QueryMine(usr user.User) ([]Requirement, error) {
	return svc.repo.QueryByStudent(usr.ID)
}

func (svc *service) Close(usr user.User, id string) error {
	r, err := svc.repo.GetRequirementByID(id)
	if err != nil {
		return err
	}
	if r.StudentID != usr.ID {
		return ErrNotOwner
	}
	return svc.repo.CloseRequirement(id)
}
