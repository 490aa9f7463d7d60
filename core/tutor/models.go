package tutor

import "time"

type (
	EducationLevel struct {
		School string `json:"school,omitempty"`
		Board  string `json:"board,omitempty"`
		Year   string `json:"year,omitempty"`
	}

	HigherEducation struct {
		Degree  string `json:"degree,omitempty"`
		College string `json:"college,omitempty"`
		Year    string `json:"year,omitempty"`
	}

	PhDEducation struct {
		Specialization string `json:"specialization,omitempty"`
		University     string `json:"university,omitempty"`
		Year           string `json:"year,omitempty"`
	}

	DiplomaEducation struct {
		Course    string `json:"course,omitempty"`
		Institute string `json:"institute,omitempty"`
		Year      string `json:"year,omitempty"`
	}

	Education struct {
		Tenth          *EducationLevel   `json:"tenth,omitempty"`
		Twelfth        *EducationLevel   `json:"twelfth,omitempty"`
		Graduation     *HigherEducation  `json:"graduation,omitempty"`
		PostGraduation *HigherEducation  `json:"postgraduation,omitempty"`
		PhD            *PhDEducation     `json:"phd,omitempty"`
		Diploma        *DiplomaEducation `json:"diploma,omitempty"`
		OtherCourses   []string          `json:"other_courses,omitempty"`
	}

	Experience struct {
		Role             string `json:"role"`
		CompanyInstitute string `json:"company_institute"`
		Duration         string `json:"duration"`
	}

	SubjectClass struct {
		Subject string   `json:"subject"`
		Classes []string `json:"classes"`
	}
)

// Profile is the searchable tutor profile, owned 1:1 by a tutor User.
type Profile struct {
	ID               string         `json:"id"`
	UserID           string         `json:"user_id"`
	Name             string         `json:"name"`
	Education        Education      `json:"education"`
	Experience       []Experience   `json:"experience"`
	Subjects         []SubjectClass `json:"subjects"`
	Languages        []string       `json:"languages"`
	FeeMin           int            `json:"fee_min"`
	FeeMax           int            `json:"fee_max"`
	Mobile           string         `json:"mobile,omitempty"`
	ProfilePhoto     string         `json:"profile_photo,omitempty"`
	CanTravel        bool           `json:"can_travel"`
	TeachesOnline    bool           `json:"teaches_online"`
	OnlineExperience string         `json:"online_experience,omitempty"`
	TeachesAtHome    bool           `json:"teaches_at_home"`
	HomeworkHelp     bool           `json:"homework_help"`
	Gender           string         `json:"gender,omitempty"`
	WorksAs          string         `json:"works_as,omitempty"`
	IntroVideoURL    string         `json:"intro_video_url,omitempty"`
	Location         string         `json:"location,omitempty"`
	TotalTeachingExp string         `json:"total_teaching_exp,omitempty"`
	AverageRating    float64        `json:"average_rating"`
	ProfileViews     int            `json:"profile_views"`
	RegisteredAt     time.Time      `json:"registered_at"` // UTC
}

// UpdateProfile defines what may be provided to modify a Profile.
// Nil fields are left untouched.
type UpdateProfile struct {
	Name             *string         `json:"name"`
	Education        *Education      `json:"education"`
	Experience       []Experience    `json:"experience"`
	Subjects         []SubjectClass  `json:"subjects"`
	Languages        []string        `json:"languages"`
	FeeMin           *int            `json:"fee_min"`
	FeeMax           *int            `json:"fee_max"`
	Mobile           *string         `json:"mobile"`
	CanTravel        *bool           `json:"can_travel"`
	TeachesOnline    *bool           `json:"teaches_online"`
	OnlineExperience *string         `json:"online_experience"`
	TeachesAtHome    *bool           `json:"teaches_at_home"`
	HomeworkHelp     *bool           `json:"homework_help"`
	Gender           *string         `json:"gender"`
	WorksAs          *string         `json:"works_as"`
	IntroVideoURL    *string         `json:"intro_video_url"`
	Location         *string         `json:"location"`
	TotalTeachingExp *string         `json:"total_teaching_exp"`
}

// QueryFilter narrows tutor searches; zero fields are skipped.
// MinFee/MaxFee select tutors whose fee range overlaps the requested one.
type QueryFilter struct {
	Subject  string `query:"subject"`
	Location string `query:"location"`
	MinFee   *int   `query:"min_fee"`
	MaxFee   *int   `query:"max_fee"`
}

// Stats is the tutor dashboard summary.
type Stats struct {
	ProfileViews int     `json:"profile_views"`
	Applications int     `json:"applications"`
	Rating       float64 `json:"rating"`
	ReviewsCount int     `json:"reviews_count"`
	Coins        int     `json:"coins"`
}

// Contact is the paid-unlock payload for a tutor's private contact info.
type Contact struct {
	Mobile string `json:"mobile"`
	Email  string `json:"email,omitempty"`
}
