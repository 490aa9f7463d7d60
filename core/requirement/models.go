package requirement

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tricitytutors/backend/core"
)

// Lifecycle statuses.
const (
	StatusActive = "active"
	StatusClosed = "closed"
)

// Requirement is a student-posted tutoring request.
type Requirement struct {
	ID               string    `json:"id"`
	StudentID        string    `json:"student_id"`
	StudentName      string    `json:"student_name"`
	Subject          string    `json:"subject"`
	LevelClass       string    `json:"level_class"`
	Mode             string    `json:"mode"`
	RequirementType  string    `json:"requirement_type"`
	GenderPreference string    `json:"gender_preference,omitempty"`
	TimePreference   string    `json:"time_preference"`
	Languages        []string  `json:"languages"`
	Location         string    `json:"location"`
	Phone            string    `json:"phone"`
	Description      string    `json:"description,omitempty"`
	Status           string    `json:"status"`
	PhoneVerified    bool      `json:"phone_verified"`
	CreatedAt        time.Time `json:"created_at"` // UTC
}

// NewRequirement contains information needed to post a Requirement.
type NewRequirement struct {
	Subject          string   `json:"subject" validate:"required"`
	LevelClass       string   `json:"level_class" validate:"required"`
	Mode             string   `json:"mode" validate:"required"`
	RequirementType  string   `json:"requirement_type" validate:"required"`
	GenderPreference string   `json:"gender_preference"`
	TimePreference   string   `json:"time_preference" validate:"required"`
	Languages        []string `json:"languages" validate:"required,min=1"`
	Location         string   `json:"location" validate:"required"`
	Phone            string   `json:"phone" validate:"required,mobile"`
	Description      string   `json:"description"`
}

func (nr *NewRequirement) Validate(validate *validator.Validate) error {
	nr.Subject = core.CleanString(nr.Subject)
	nr.Location = core.CleanString(nr.Location)
	nr.Phone = core.CleanMobile(nr.Phone)
	return validate.Struct(nr)
}

// QueryFilter narrows requirement listings; zero fields are skipped.
type QueryFilter struct {
	Subject string `query:"subject"`
	Mode    string `query:"mode"`
	Status  string `query:"status"`
}
