package dummydb

import (
	"sort"
	"strings"

	"github.com/tricitytutors/backend/core/requirement"
)

type requirementRepository struct {
	db *requirementTable
}

var _ requirement.Repository = (*requirementRepository)(nil) // interface compliance check

func NewRequirementRepository(db *DB) requirement.Repository {
	return &requirementRepository{db: db.requirement}
}

func (repo *requirementRepository) CreateRequirement(r requirement.Requirement) (requirement.Requirement, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[r.ID] = &r
	return r, nil
}

func (repo *requirementRepository) GetRequirementByID(id string) (requirement.Requirement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r, ok := repo.db.table[id]; ok {
		return *r, nil
	}
	return requirement.Requirement{}, requirement.ErrNotFound
}

func (repo *requirementRepository) FilterRequirements(filter requirement.QueryFilter) ([]requirement.Requirement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	reqs := make([]requirement.Requirement, 0, len(repo.db.table))
	for _, r := range repo.db.table {
		if filter.Subject != "" &&
			!strings.Contains(strings.ToLower(r.Subject), strings.ToLower(filter.Subject)) {
			continue
		}
		if filter.Mode != "" && r.Mode != filter.Mode {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		reqs = append(reqs, *r)
	}
	sortNewestFirst(reqs)
	return reqs, nil
}

func (repo *requirementRepository) QueryByStudent(studentID string) ([]requirement.Requirement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	reqs := make([]requirement.Requirement, 0)
	for _, r := range repo.db.table {
		if r.StudentID == studentID {
			reqs = append(reqs, *r)
		}
	}
	sortNewestFirst(reqs)
	return reqs, nil
}

func (repo *requirementRepository) CloseRequirement(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	r, ok := repo.db.table[id]
	if !ok {
		return requirement.ErrNotFound
	}
	r.Status = requirement.StatusClosed
	return nil
}

func sortNewestFirst(reqs []requirement.Requirement) {
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].CreatedAt.After(reqs[j].CreatedAt) })
}
