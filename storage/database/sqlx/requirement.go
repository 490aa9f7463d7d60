package sqlxrepos

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tricitytutors/backend/core/requirement"
)

type requirementRepository struct {
	db *sqlx.DB
}

var _ requirement.Repository = (*requirementRepository)(nil) // interface compliance check

func NewRequirementRepository(db *sqlx.DB) *requirementRepository {
	return &requirementRepository{db: db}
}

type requirementRow struct {
	ID               string    `db:"id"`
	StudentID        string    `db:"student_id"`
	StudentName      string    `db:"student_name"`
	Subject          string    `db:"subject"`
	LevelClass       string    `db:"level_class"`
	Mode             string    `db:"mode"`
	RequirementType  string    `db:"requirement_type"`
	GenderPreference string    `db:"gender_preference"`
	TimePreference   string    `db:"time_preference"`
	Languages        []byte    `db:"languages"`
	Location         string    `db:"location"`
	Phone            string    `db:"phone"`
	Description      string    `db:"description"`
	Status           string    `db:"status"`
	PhoneVerified    bool      `db:"phone_verified"`
	CreatedAt        time.Time `db:"created_at"`
}

func toRequirementRow(r requirement.Requirement) (requirementRow, error) {
	langs, err := json.Marshal(r.Languages)
	if err != nil {
		return requirementRow{}, errors.Wrap(err, "marshalling languages")
	}
	return requirementRow{
		ID:               r.ID,
		StudentID:        r.StudentID,
		StudentName:      r.StudentName,
		Subject:          r.Subject,
		LevelClass:       r.LevelClass,
		Mode:             r.Mode,
		RequirementType:  r.RequirementType,
		GenderPreference: r.GenderPreference,
		TimePreference:   r.TimePreference,
		Languages:        langs,
		Location:         r.Location,
		Phone:            r.Phone,
		Description:      r.Description,
		Status:           r.Status,
		PhoneVerified:    r.PhoneVerified,
		CreatedAt:        r.CreatedAt.UTC(),
	}, nil
}

func (row requirementRow) toRequirement() (requirement.Requirement, error) {
	r := requirement.Requirement{
		ID:               row.ID,
		StudentID:        row.StudentID,
		StudentName:      row.StudentName,
		Subject:          row.Subject,
		LevelClass:       row.LevelClass,
		Mode:             row.Mode,
		RequirementType:  row.RequirementType,
		GenderPreference: row.GenderPreference,
		TimePreference:   row.TimePreference,
		Location:         row.Location,
		Phone:            row.Phone,
		Description:      row.Description,
		Status:           row.Status,
		PhoneVerified:    row.PhoneVerified,
		CreatedAt:        row.CreatedAt,
	}
	if err := json.Unmarshal(row.Languages, &r.Languages); err != nil {
		return requirement.Requirement{}, errors.Wrap(err, "unmarshalling languages")
	}
	return r, nil
}

func (repo requirementRepository) CreateRequirement(r requirement.Requirement) (requirement.Requirement, error) {
	row, err := toRequirementRow(r)
	if err != nil {
		return requirement.Requirement{}, err
	}
	_, err = repo.db.NamedExec(`
		INSERT INTO requirements (id, student_id, student_name, subject, level_class, mode,
		                          requirement_type, gender_preference, time_preference, languages,
		                          location, phone, description, status, phone_verified, created_at)
		VALUES (:id, :student_id, :student_name, :subject, :level_class, :mode,
		        :requirement_type, :gender_preference, :time_preference, :languages,
		        :location, :phone, :description, :status, :phone_verified, :created_at)`,
		row,
	)
	if err != nil {
		return requirement.Requirement{}, errors.Wrap(err, "creating requirement")
	}
	return r, nil
}

func (repo requirementRepository) GetRequirementByID(id string) (requirement.Requirement, error) {
	var row requirementRow
	if err := repo.db.Get(&row, "SELECT * FROM requirements WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return requirement.Requirement{}, requirement.ErrNotFound
		}
		return requirement.Requirement{}, errors.Wrap(err, "getting requirement")
	}
	return row.toRequirement()
}

func (repo requirementRepository) FilterRequirements(filter requirement.QueryFilter) ([]requirement.Requirement, error) {
	q := "SELECT * FROM requirements"
	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Subject != "" {
		conds = append(conds, fmt.Sprintf("subject ILIKE '%%' || %s || '%%'", arg(filter.Subject)))
	}
	if filter.Mode != "" {
		conds = append(conds, fmt.Sprintf("mode = %s", arg(filter.Mode)))
	}
	if filter.Status != "" {
		conds = append(conds, fmt.Sprintf("status = %s", arg(filter.Status)))
	}
	for i, cond := range conds {
		if i == 0 {
			q += " WHERE " + cond
		} else {
			q += " AND " + cond
		}
	}
	q += " ORDER BY created_at DESC LIMIT 100"

	var rows []requirementRow
	if err := repo.db.Select(&rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering requirements")
	}
	return rowsToRequirements(rows)
}

func (repo requirementRepository) QueryByStudent(studentID string) ([]requirement.Requirement, error) {
	var rows []requirementRow
	err := repo.db.Select(&rows,
		"SELECT * FROM requirements WHERE student_id = $1 ORDER BY created_at DESC",
		studentID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying requirements")
	}
	return rowsToRequirements(rows)
}

func (repo requirementRepository) CloseRequirement(id string) error {
	res, err := repo.db.Exec(
		"UPDATE requirements SET status = $1 WHERE id = $2",
		requirement.StatusClosed, id,
	)
	if err != nil {
		return errors.Wrap(err, "closing requirement")
	}
	return checkFound(res, requirement.ErrNotFound)
}

func rowsToRequirements(rows []requirementRow) ([]requirement.Requirement, error) {
	reqs := make([]requirement.Requirement, 0, len(rows))
	for _, row := range rows {
		r, err := row.toRequirement()
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, r)
	}
	return reqs, nil
}
