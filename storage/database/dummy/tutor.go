package dummydb

import (
	"sort"
	"strings"

	"github.com/tricitytutors/backend/core/tutor"
)

type tutorRepository struct {
	db *tutorTable
}

var _ tutor.Repository = (*tutorRepository)(nil) // interface compliance check

func NewTutorRepository(db *DB) tutor.Repository {
	return &tutorRepository{db: db.tutor}
}

func (repo *tutorRepository) CreateProfile(p tutor.Profile) (tutor.Profile, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[p.UserID] = &p
	return p, nil
}

func (repo *tutorRepository) GetProfileByUserID(userID string) (tutor.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.table[userID]; ok {
		return *p, nil
	}
	return tutor.Profile{}, tutor.ErrNotFound
}

func (repo *tutorRepository) SaveProfile(p tutor.Profile) (tutor.Profile, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[p.UserID]
	if !ok {
		return tutor.Profile{}, tutor.ErrNotFound
	}
	// counters and photo have their own setters
	p.ProfileViews = orig.ProfileViews
	p.AverageRating = orig.AverageRating
	p.ProfilePhoto = orig.ProfilePhoto
	repo.db.table[p.UserID] = &p
	return p, nil
}

func (repo *tutorRepository) FilterProfiles(filter tutor.QueryFilter) ([]tutor.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	profiles := make([]tutor.Profile, 0, len(repo.db.table))
	for _, p := range repo.db.table {
		if filter.Subject != "" && !hasSubject(*p, filter.Subject) {
			continue
		}
		if filter.Location != "" &&
			!strings.Contains(strings.ToLower(p.Location), strings.ToLower(filter.Location)) {
			continue
		}
		if filter.MinFee != nil && p.FeeMax < *filter.MinFee {
			continue
		}
		if filter.MaxFee != nil && p.FeeMin > *filter.MaxFee {
			continue
		}
		profiles = append(profiles, *p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].AverageRating != profiles[j].AverageRating {
			return profiles[i].AverageRating > profiles[j].AverageRating
		}
		return profiles[i].ProfileViews > profiles[j].ProfileViews
	})
	return profiles, nil
}

func (repo *tutorRepository) IncrementViews(userID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if p, ok := repo.db.table[userID]; ok {
		p.ProfileViews++
	}
	return nil
}

func (repo *tutorRepository) SetPhoto(userID, photoURL string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	p, ok := repo.db.table[userID]
	if !ok {
		return tutor.ErrNotFound
	}
	p.ProfilePhoto = photoURL
	return nil
}

func (repo *tutorRepository) SetRating(userID string, avg float64) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	p, ok := repo.db.table[userID]
	if !ok {
		return tutor.ErrNotFound
	}
	p.AverageRating = avg
	return nil
}

func hasSubject(p tutor.Profile, subject string) bool {
	for _, s := range p.Subjects {
		if strings.Contains(strings.ToLower(s.Subject), strings.ToLower(subject)) {
			return true
		}
	}
	return false
}
