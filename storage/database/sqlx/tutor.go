package sqlxrepos

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tricitytutors/backend/core/tutor"
)

type tutorRepository struct {
	db *sqlx.DB
}

var _ tutor.Repository = (*tutorRepository)(nil) // interface compliance check

func NewTutorRepository(db *sqlx.DB) *tutorRepository {
	return &tutorRepository{db: db}
}

// nested profile fields live in jsonb columns
type tutorRow struct {
	ID               string    `db:"id"`
	UserID           string    `db:"user_id"`
	Name             string    `db:"name"`
	Education        []byte    `db:"education"`
	Experience       []byte    `db:"experience"`
	Subjects         []byte    `db:"subjects"`
	Languages        []byte    `db:"languages"`
	FeeMin           int       `db:"fee_min"`
	FeeMax           int       `db:"fee_max"`
	Mobile           string    `db:"mobile"`
	ProfilePhoto     string    `db:"profile_photo"`
	CanTravel        bool      `db:"can_travel"`
	TeachesOnline    bool      `db:"teaches_online"`
	OnlineExperience string    `db:"online_experience"`
	TeachesAtHome    bool      `db:"teaches_at_home"`
	HomeworkHelp     bool      `db:"homework_help"`
	Gender           string    `db:"gender"`
	WorksAs          string    `db:"works_as"`
	IntroVideoURL    string    `db:"intro_video_url"`
	Location         string    `db:"location"`
	TotalTeachingExp string    `db:"total_teaching_exp"`
	AverageRating    float64   `db:"average_rating"`
	ProfileViews     int       `db:"profile_views"`
	RegisteredAt     time.Time `db:"registered_at"`
}

func toTutorRow(p tutor.Profile) (tutorRow, error) {
	row := tutorRow{
		ID:               p.ID,
		UserID:           p.UserID,
		Name:             p.Name,
		FeeMin:           p.FeeMin,
		FeeMax:           p.FeeMax,
		Mobile:           p.Mobile,
		ProfilePhoto:     p.ProfilePhoto,
		CanTravel:        p.CanTravel,
		TeachesOnline:    p.TeachesOnline,
		OnlineExperience: p.OnlineExperience,
		TeachesAtHome:    p.TeachesAtHome,
		HomeworkHelp:     p.HomeworkHelp,
		Gender:           p.Gender,
		WorksAs:          p.WorksAs,
		IntroVideoURL:    p.IntroVideoURL,
		Location:         p.Location,
		TotalTeachingExp: p.TotalTeachingExp,
		AverageRating:    p.AverageRating,
		ProfileViews:     p.ProfileViews,
		RegisteredAt:     p.RegisteredAt.UTC(),
	}
	var err error
	if row.Education, err = json.Marshal(p.Education); err != nil {
		return tutorRow{}, errors.Wrap(err, "marshalling education")
	}
	if row.Experience, err = json.Marshal(p.Experience); err != nil {
		return tutorRow{}, errors.Wrap(err, "marshalling experience")
	}
	if row.Subjects, err = json.Marshal(p.Subjects); err != nil {
		return tutorRow{}, errors.Wrap(err, "marshalling subjects")
	}
	if row.Languages, err = json.Marshal(p.Languages); err != nil {
		return tutorRow{}, errors.Wrap(err, "marshalling languages")
	}
	return row, nil
}

func (row tutorRow) toProfile() (tutor.Profile, error) {
	p := tutor.Profile{
		ID:               row.ID,
		UserID:           row.UserID,
		Name:             row.Name,
		FeeMin:           row.FeeMin,
		FeeMax:           row.FeeMax,
		Mobile:           row.Mobile,
		ProfilePhoto:     row.ProfilePhoto,
		CanTravel:        row.CanTravel,
		TeachesOnline:    row.TeachesOnline,
		OnlineExperience: row.OnlineExperience,
		TeachesAtHome:    row.TeachesAtHome,
		HomeworkHelp:     row.HomeworkHelp,
		Gender:           row.Gender,
		WorksAs:          row.WorksAs,
		IntroVideoURL:    row.IntroVideoURL,
		Location:         row.Location,
		TotalTeachingExp: row.TotalTeachingExp,
		AverageRating:    row.AverageRating,
		ProfileViews:     row.ProfileViews,
		RegisteredAt:     row.RegisteredAt,
	}
	if err := json.Unmarshal(row.Education, &p.Education); err != nil {
		return tutor.Profile{}, errors.Wrap(err, "unmarshalling education")
	}
	if err := json.Unmarshal(row.Experience, &p.Experience); err != nil {
		return tutor.Profile{}, errors.Wrap(err, "unmarshalling experience")
	}
	if err := json.Unmarshal(row.Subjects, &p.Subjects); err != nil {
		return tutor.Profile{}, errors.Wrap(err, "unmarshalling subjects")
	}
	if err := json.Unmarshal(row.Languages, &p.Languages); err != nil {
		return tutor.Profile{}, errors.Wrap(err, "unmarshalling languages")
	}
	return p, nil
}

func (repo tutorRepository) CreateProfile(p tutor.Profile) (tutor.Profile, error) {
	row, err := toTutorRow(p)
	if err != nil {
		return tutor.Profile{}, err
	}
	_, err = repo.db.NamedExec(`
		INSERT INTO tutor_profiles (id, user_id, name, education, experience, subjects, languages,
		                            fee_min, fee_max, mobile, profile_photo, can_travel, teaches_online,
		                            online_experience, teaches_at_home, homework_help, gender, works_as,
		                            intro_video_url, location, total_teaching_exp, average_rating,
		                            profile_views, registered_at)
		VALUES (:id, :user_id, :name, :education, :experience, :subjects, :languages,
		        :fee_min, :fee_max, :mobile, :profile_photo, :can_travel, :teaches_online,
		        :online_experience, :teaches_at_home, :homework_help, :gender, :works_as,
		        :intro_video_url, :location, :total_teaching_exp, :average_rating,
		        :profile_views, :registered_at)`,
		row,
	)
	if err != nil {
		return tutor.Profile{}, errors.Wrap(err, "creating profile")
	}
	return p, nil
}

func (repo tutorRepository) GetProfileByUserID(userID string) (tutor.Profile, error) {
	var row tutorRow
	if err := repo.db.Get(&row, "SELECT * FROM tutor_profiles WHERE user_id = $1", userID); err != nil {
		if err == sql.ErrNoRows {
			return tutor.Profile{}, tutor.ErrNotFound
		}
		return tutor.Profile{}, errors.Wrap(err, "getting profile")
	}
	return row.toProfile()
}

func (repo tutorRepository) SaveProfile(p tutor.Profile) (tutor.Profile, error) {
	row, err := toTutorRow(p)
	if err != nil {
		return tutor.Profile{}, err
	}
	res, err := repo.db.NamedExec(`
		UPDATE tutor_profiles
		SET name = :name, education = :education, experience = :experience, subjects = :subjects,
		    languages = :languages, fee_min = :fee_min, fee_max = :fee_max, mobile = :mobile,
		    can_travel = :can_travel, teaches_online = :teaches_online,
		    online_experience = :online_experience, teaches_at_home = :teaches_at_home,
		    homework_help = :homework_help, gender = :gender, works_as = :works_as,
		    intro_video_url = :intro_video_url, location = :location,
		    total_teaching_exp = :total_teaching_exp
		WHERE user_id = :user_id`,
		row,
	)
	if err != nil {
		return tutor.Profile{}, errors.Wrap(err, "saving profile")
	}
	if err = checkFound(res, tutor.ErrNotFound); err != nil {
		return tutor.Profile{}, err
	}
	return p, nil
}

func (repo tutorRepository) FilterProfiles(filter tutor.QueryFilter) ([]tutor.Profile, error) {
	q := "SELECT * FROM tutor_profiles"
	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Subject != "" {
		conds = append(conds, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM jsonb_array_elements(subjects) AS s
			WHERE s->>'subject' ILIKE '%%' || %s || '%%'
		)`, arg(filter.Subject)))
	}
	if filter.Location != "" {
		conds = append(conds, fmt.Sprintf("location ILIKE '%%' || %s || '%%'", arg(filter.Location)))
	}
	if filter.MinFee != nil {
		conds = append(conds, fmt.Sprintf("fee_max >= %s", arg(*filter.MinFee)))
	}
	if filter.MaxFee != nil {
		conds = append(conds, fmt.Sprintf("fee_min <= %s", arg(*filter.MaxFee)))
	}
	for i, cond := range conds {
		if i == 0 {
			q += " WHERE " + cond
		} else {
			q += " AND " + cond
		}
	}
	q += " ORDER BY average_rating DESC, profile_views DESC LIMIT 100"

	var rows []tutorRow
	if err := repo.db.Select(&rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering profiles")
	}
	profiles := make([]tutor.Profile, 0, len(rows))
	for _, row := range rows {
		p, err := row.toProfile()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (repo tutorRepository) IncrementViews(userID string) error {
	_, err := repo.db.Exec("UPDATE tutor_profiles SET profile_views = profile_views + 1 WHERE user_id = $1", userID)
	return errors.Wrap(err, "incrementing views")
}

func (repo tutorRepository) SetPhoto(userID, photoURL string) error {
	res, err := repo.db.Exec("UPDATE tutor_profiles SET profile_photo = $1 WHERE user_id = $2", photoURL, userID)
	if err != nil {
		return errors.Wrap(err, "setting photo")
	}
	return checkFound(res, tutor.ErrNotFound)
}

func (repo tutorRepository) SetRating(userID string, avg float64) error {
	res, err := repo.db.Exec("UPDATE tutor_profiles SET average_rating = $1 WHERE user_id = $2", avg, userID)
	if err != nil {
		return errors.Wrap(err, "setting rating")
	}
	return checkFound(res, tutor.ErrNotFound)
}
