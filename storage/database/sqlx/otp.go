package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tricitytutors/backend/core/otp"
)

type otpRepository struct {
	db *sqlx.DB
}

var _ otp.Repository = (*otpRepository)(nil) // interface compliance check

func NewOTPRepository(db *sqlx.DB) *otpRepository {
	return &otpRepository{db: db}
}

type otpRow struct {
	Email     string    `db:"email"`
	Purpose   string    `db:"purpose"`
	Code      string    `db:"code"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

func (repo otpRepository) UpsertCode(code otp.Code) error {
	_, err := repo.db.Exec(`
		INSERT INTO otp_codes (email, purpose, code, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email, purpose)
		DO UPDATE SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at, created_at = EXCLUDED.created_at`,
		code.Email, code.Purpose, code.Code, code.ExpiresAt.UTC(), code.CreatedAt.UTC(),
	)
	return errors.Wrap(err, "upserting code")
}

func (repo otpRepository) GetCode(email, purpose string) (otp.Code, error) {
	var row otpRow
	err := repo.db.Get(&row, "SELECT * FROM otp_codes WHERE email = $1 AND purpose = $2", email, purpose)
	if err != nil {
		if err == sql.ErrNoRows {
			return otp.Code{}, otp.ErrNotFound
		}
		return otp.Code{}, errors.Wrap(err, "getting code")
	}
	return otp.Code{
		Email:     row.Email,
		Purpose:   row.Purpose,
		Code:      row.Code,
		ExpiresAt: row.ExpiresAt,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (repo otpRepository) DeleteCode(email, purpose string) error {
	_, err := repo.db.Exec("DELETE FROM otp_codes WHERE email = $1 AND purpose = $2", email, purpose)
	return errors.Wrap(err, "deleting code")
}
