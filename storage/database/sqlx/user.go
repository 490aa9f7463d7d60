package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tricitytutors/backend/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

type userRow struct {
	ID             string    `db:"id"`
	Email          string    `db:"email"`
	Name           string    `db:"name"`
	Role           string    `db:"role"`
	Mobile         string    `db:"mobile"`
	CompanyName    string    `db:"company_name"`
	InstituteName  string    `db:"institute_name"`
	EmailVerified  bool      `db:"email_verified"`
	MobileVerified bool      `db:"mobile_verified"`
	Coins          int       `db:"coins"`
	PasswordHash   []byte    `db:"password_hash"`
	CreatedAt      time.Time `db:"created_at"`
	LastLogin      time.Time `db:"last_login"`
}

func toUserRow(usr user.User) userRow {
	return userRow{
		ID:             usr.ID,
		Email:          usr.Email,
		Name:           usr.Name,
		Role:           usr.Role,
		Mobile:         usr.Mobile,
		CompanyName:    usr.CompanyName,
		InstituteName:  usr.InstituteName,
		EmailVerified:  usr.EmailVerified,
		MobileVerified: usr.MobileVerified,
		Coins:          usr.Coins,
		PasswordHash:   usr.PasswordHash,
		CreatedAt:      usr.CreatedAt.UTC(),
		LastLogin:      usr.LastLogin.UTC(),
	}
}

func (row userRow) toUser() user.User {
	return user.User{
		ID:             row.ID,
		Email:          row.Email,
		Name:           row.Name,
		Role:           row.Role,
		Mobile:         row.Mobile,
		CompanyName:    row.CompanyName,
		InstituteName:  row.InstituteName,
		EmailVerified:  row.EmailVerified,
		MobileVerified: row.MobileVerified,
		Coins:          row.Coins,
		PasswordHash:   row.PasswordHash,
		CreatedAt:      row.CreatedAt,
		LastLogin:      row.LastLogin,
	}
}

func (repo userRepository) CheckEmailUniqueness(email string) error {
	var exists bool
	err := repo.db.Get(&exists, "SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", email)
	if err != nil {
		return errors.Wrap(err, "checking email")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(usr user.User) (user.User, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO users (id, email, name, role, mobile, company_name, institute_name,
		                   email_verified, mobile_verified, coins, password_hash, created_at, last_login)
		VALUES (:id, :email, :name, :role, :mobile, :company_name, :institute_name,
		        :email_verified, :mobile_verified, :coins, :password_hash, :created_at, :last_login)`,
		toUserRow(usr),
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (repo userRepository) GetUserByID(id string) (user.User, error) {
	var row userRow
	if err := repo.db.Get(&row, "SELECT * FROM users WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return row.toUser(), nil
}

func (repo userRepository) GetUserByEmail(email string) (user.User, error) {
	var row userRow
	if err := repo.db.Get(&row, "SELECT * FROM users WHERE email = $1", email); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return row.toUser(), nil
}

func (repo userRepository) SetLastLogin(usr user.User) (user.User, error) {
	_, err := repo.db.Exec("UPDATE users SET last_login = $1 WHERE id = $2", usr.LastLogin.UTC(), usr.ID)
	if err != nil {
		return user.User{}, errors.Wrap(err, "setting last login")
	}
	return usr, nil
}

func (repo userRepository) UpdatePassword(id string, hash []byte) error {
	res, err := repo.db.Exec("UPDATE users SET password_hash = $1 WHERE id = $2", hash, id)
	if err != nil {
		return errors.Wrap(err, "updating password")
	}
	return checkFound(res, user.ErrNotFound)
}

func (repo userRepository) SetEmailVerified(id string) error {
	res, err := repo.db.Exec("UPDATE users SET email_verified = true WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "setting email verified")
	}
	return checkFound(res, user.ErrNotFound)
}

func (repo userRepository) SetMobileVerified(id string) error {
	res, err := repo.db.Exec("UPDATE users SET mobile_verified = true WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "setting mobile verified")
	}
	return checkFound(res, user.ErrNotFound)
}

// checkFound returns notFound when an UPDATE touched no rows.
func checkFound(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "checking rows affected")
	}
	if n == 0 {
		return notFound
	}
	return nil
}
