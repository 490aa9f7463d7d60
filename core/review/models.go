package review

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tricitytutors/backend/core"
)

type (
	Review struct {
		ID          string    `json:"id"`
		TutorID     string    `json:"tutor_id"`
		StudentID   string    `json:"student_id"`
		StudentName string    `json:"student_name"`
		Rating      int       `json:"rating"`
		Comment     string    `json:"comment"`
		CreatedAt   time.Time `json:"created_at"`
	}

	NewReview struct {
		TutorID string `json:"tutor_id" validate:"required"`
		Rating  int    `json:"rating" validate:"required,min=1,max=5"`
		Comment string `json:"comment"`
	}
)

func (nr *NewReview) Validate(validate *validator.Validate) error {
	nr.Comment = core.CleanString(nr.Comment)
	return validate.Struct(nr)
}
