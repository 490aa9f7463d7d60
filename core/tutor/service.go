package tutor

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tricitytutors/backend/core"
	"github.com/tricitytutors/backend/core/user"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound = errors.New("tutor not found")
)

type (
	Repository interface {
		CreateProfile(p Profile) (Profile, error)
		GetProfileByUserID(userID string) (Profile, error)
		// SaveProfile replaces the stored profile for p.UserID.
		SaveProfile(p Profile) (Profile, error)
		FilterProfiles(filter QueryFilter) ([]Profile, error)
		IncrementViews(userID string) error
		SetPhoto(userID, photoURL string) error
		SetRating(userID string, avg float64) error
	}

	Service interface {
		// CreateFor provisions the empty profile created on tutor signup.
		CreateFor(usr user.User) (Profile, error)
		Get(userID string) (Profile, error)
		Update(userID string, up UpdateProfile) (Profile, error)
		Search(filter QueryFilter) ([]Profile, error)
		// Retrieve fetches a profile by tutor id and bumps its view counter.
		Retrieve(tutorID string) (Profile, error)
		SetPhoto(userID, photoURL string) error
		SetRating(tutorID string, avg float64) error
		HasProfile(userID string) (bool, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CreateFor(usr user.User) (Profile, error) {
	return svc.repo.CreateProfile(Profile{
		ID:           uuid.New().String(),
		UserID:       usr.ID,
		Name:         usr.Name,
		Mobile:       usr.Mobile,
		Experience:   []Experience{},
		Subjects:     []SubjectClass{},
		Languages:    []string{},
		RegisteredAt: NowFunc().UTC(),
	})
}

func (svc *service) Get(userID string) (Profile, error) {
	return svc.repo.GetProfileByUserID(userID)
}

func (svc *service) Update(userID string, up UpdateProfile) (Profile, error) {
	p, err := svc.repo.GetProfileByUserID(userID)
	if err != nil {
		return Profile{}, err
	}
	up.apply(&p)
	if err = validateProfile(p); err != nil {
		return Profile{}, err
	}
	return svc.repo.SaveProfile(p)
}

func (svc *service) Search(filter QueryFilter) ([]Profile, error) {
	filter.Subject = core.CleanString(filter.Subject)
	filter.Location = core.CleanString(filter.Location)
	return svc.repo.FilterProfiles(filter)
}

func (svc *service) Retrieve(tutorID string) (Profile, error) {
	p, err := svc.repo.GetProfileByUserID(tutorID)
	if err != nil {
		return Profile{}, err
	}
	if err = svc.repo.IncrementViews(tutorID); err != nil {
		return Profile{}, errors.Wrap(err, "incrementing views")
	}
	return p, nil
}

func (svc *service) SetPhoto(userID, photoURL string) error {
	return svc.repo.SetPhoto(userID, photoURL)
}

func (svc *service) SetRating(tutorID string, avg float64) error {
	return svc.repo.SetRating(tutorID, avg)
}

func (svc *service) HasProfile(userID string) (bool, error) {
	if _, err := svc.repo.GetProfileByUserID(userID); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (up *UpdateProfile) apply(p *Profile) {
	if up.Name != nil {
		p.Name = core.CleanString(*up.Name)
	}
	if up.Education != nil {
		p.Education = *up.Education
	}
	if up.Experience != nil {
		p.Experience = up.Experience
	}
	if up.Subjects != nil {
		p.Subjects = up.Subjects
	}
	if up.Languages != nil {
		p.Languages = up.Languages
	}
	if up.FeeMin != nil {
		p.FeeMin = *up.FeeMin
	}
	if up.FeeMax != nil {
		p.FeeMax = *up.FeeMax
	}
	if up.Mobile != nil {
		p.Mobile = core.CleanMobile(*up.Mobile)
	}
	if up.CanTravel != nil {
		p.CanTravel = *up.CanTravel
	}
	if up.TeachesOnline != nil {
		p.TeachesOnline = *up.TeachesOnline
	}
	if up.OnlineExperience != nil {
		p.OnlineExperience = *up.OnlineExperience
	}
	if up.TeachesAtHome != nil {
		p.TeachesAtHome = *up.TeachesAtHome
	}
	if up.HomeworkHelp != nil {
		p.HomeworkHelp = *up.HomeworkHelp
	}
	if up.Gender != nil {
		p.Gender = *up.Gender
	}
	if up.WorksAs != nil {
		p.WorksAs = *up.WorksAs
	}
	if up.IntroVideoURL != nil {
		p.IntroVideoURL = *up.IntroVideoURL
	}
	if up.Location != nil {
		p.Location = core.CleanString(*up.Location)
	}
	if up.TotalTeachingExp != nil {
		p.TotalTeachingExp = *up.TotalTeachingExp
	}
}

// validateProfile checks the mandatory fields of a publishable profile and
// reports all problems at once, joined into a single message.
func validateProfile(p Profile) error {
	var msgs []string
	if p.Name == "" {
		msgs = append(msgs, "Name is required")
	}
	if len(p.Mobile) != 10 {
		msgs = append(msgs, "Valid 10-digit mobile number is required")
	}
	if p.Location == "" {
		msgs = append(msgs, "Location is required")
	}
	if len(p.Subjects) == 0 {
		msgs = append(msgs, "At least one subject is required")
	}
	if p.FeeMin <= 0 {
		msgs = append(msgs, "Minimum fee is required")
	}
	if p.FeeMax <= 0 {
		msgs = append(msgs, "Maximum fee is required")
	}
	if p.FeeMin > 0 && p.FeeMax > 0 && p.FeeMin >= p.FeeMax {
		msgs = append(msgs, "Maximum fee must be greater than minimum fee")
	}
	if msgs != nil {
		return core.NewValidationError(errors.New(strings.Join(msgs, "; ")))
	}
	return nil
}
