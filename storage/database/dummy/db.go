package dummydb

import (
	"sync"

	"github.com/tricitytutors/backend/core/message"
	"github.com/tricitytutors/backend/core/otp"
	"github.com/tricitytutors/backend/core/requirement"
	"github.com/tricitytutors/backend/core/review"
	"github.com/tricitytutors/backend/core/tutor"
	"github.com/tricitytutors/backend/core/user"
	"github.com/tricitytutors/backend/core/wallet"
)

type (
	DB struct {
		user        *userTable
		otp         *otpTable
		transaction *transactionTable
		tutor       *tutorTable
		requirement *requirementTable
		review      *reviewTable
		message     *messageTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	otpTable struct {
		sync.RWMutex
		table map[[2]string]*otp.Code // (email, purpose)
	}

	transactionTable struct {
		sync.RWMutex
		table []*wallet.Transaction // insertion order
	}

	tutorTable struct {
		sync.RWMutex
		table map[string]*tutor.Profile // by user id
	}

	requirementTable struct {
		sync.RWMutex
		table map[string]*requirement.Requirement
	}

	reviewTable struct {
		sync.RWMutex
		table map[string]*review.Review
	}

	messageTable struct {
		sync.RWMutex
		table []*message.Message // insertion order
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:        &userTable{table: make(map[string]*user.User)},
		otp:         &otpTable{table: make(map[[2]string]*otp.Code)},
		transaction: &transactionTable{},
		tutor:       &tutorTable{table: make(map[string]*tutor.Profile)},
		requirement: &requirementTable{table: make(map[string]*requirement.Requirement)},
		review:      &reviewTable{table: make(map[string]*review.Review)},
		message:     &messageTable{},
	}
	return db, nil
}
