package dummydb

import (
	"sort"

	"github.com/tricitytutors/backend/core/review"
)

type reviewRepository struct {
	db *reviewTable
}

var _ review.Repository = (*reviewRepository)(nil) // interface compliance check

func NewReviewRepository(db *DB) review.Repository {
	return &reviewRepository{db: db.review}
}

func (repo *reviewRepository) CreateReview(rev review.Review) (review.Review, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[rev.ID] = &rev
	return rev, nil
}

func (repo *reviewRepository) UpdateReview(rev review.Review) (review.Review, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[rev.ID]
	if !ok {
		return review.Review{}, review.ErrNotFound
	}
	orig.Rating = rev.Rating
	orig.Comment = rev.Comment
	orig.CreatedAt = rev.CreatedAt
	return *orig, nil
}

func (repo *reviewRepository) GetReviewByStudentAndTutor(studentID, tutorID string) (review.Review, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, rev := range repo.db.table {
		if rev.StudentID == studentID && rev.TutorID == tutorID {
			return *rev, nil
		}
	}
	return review.Review{}, review.ErrNotFound
}

func (repo *reviewRepository) QueryByTutor(tutorID string) ([]review.Review, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	revs := make([]review.Review, 0)
	for _, rev := range repo.db.table {
		if rev.TutorID == tutorID {
			revs = append(revs, *rev)
		}
	}
	sort.Slice(revs, func(i, j int) bool { return revs[i].CreatedAt.After(revs[j].CreatedAt) })
	return revs, nil
}
