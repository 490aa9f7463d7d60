package dummydb

import (
	"github.com/tricitytutors/backend/core/otp"
)

type otpRepository struct {
	db *otpTable
}

var _ otp.Repository = (*otpRepository)(nil) // interface compliance check

func NewOTPRepository(db *DB) otp.Repository {
	return &otpRepository{db: db.otp}
}

func (repo *otpRepository) UpsertCode(code otp.Code) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[[2]string{code.Email, code.Purpose}] = &code
	return nil
}

func (repo *otpRepository) GetCode(email, purpose string) (otp.Code, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if code, ok := repo.db.table[[2]string{email, purpose}]; ok {
		return *code, nil
	}
	return otp.Code{}, otp.ErrNotFound
}

func (repo *otpRepository) DeleteCode(email, purpose string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.table, [2]string{email, purpose})
	return nil
}
