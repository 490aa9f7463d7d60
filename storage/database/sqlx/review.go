package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tricitytutors/backend/core/review"
)

type reviewRepository struct {
	db *sqlx.DB
}

var _ review.Repository = (*reviewRepository)(nil) // interface compliance check

func NewReviewRepository(db *sqlx.DB) *reviewRepository {
	return &reviewRepository{db: db}
}

type reviewRow struct {
	ID          string    `db:"id"`
	TutorID     string    `db:"tutor_id"`
	StudentID   string    `db:"student_id"`
	StudentName string    `db:"student_name"`
	Rating      int       `db:"rating"`
	Comment     string    `db:"comment"`
	CreatedAt   time.Time `db:"created_at"`
}

func (row reviewRow) toReview() review.Review {
	return review.Review(row)
}

func (repo reviewRepository) CreateReview(rev review.Review) (review.Review, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO reviews (id, tutor_id, student_id, student_name, rating, comment, created_at)
		VALUES (:id, :tutor_id, :student_id, :student_name, :rating, :comment, :created_at)`,
		reviewRow{
			ID:          rev.ID,
			TutorID:     rev.TutorID,
			StudentID:   rev.StudentID,
			StudentName: rev.StudentName,
			Rating:      rev.Rating,
			Comment:     rev.Comment,
			CreatedAt:   rev.CreatedAt.UTC(),
		},
	)
	if err != nil {
		return review.Review{}, errors.Wrap(err, "creating review")
	}
	return rev, nil
}

func (repo reviewRepository) UpdateReview(rev review.Review) (review.Review, error) {
	res, err := repo.db.Exec(
		"UPDATE reviews SET rating = $1, comment = $2, created_at = $3 WHERE id = $4",
		rev.Rating, rev.Comment, rev.CreatedAt.UTC(), rev.ID,
	)
	if err != nil {
		return review.Review{}, errors.Wrap(err, "updating review")
	}
	if err = checkFound(res, review.ErrNotFound); err != nil {
		return review.Review{}, err
	}
	return rev, nil
}

func (repo reviewRepository) GetReviewByStudentAndTutor(studentID, tutorID string) (review.Review, error) {
	var row reviewRow
	err := repo.db.Get(&row, "SELECT * FROM reviews WHERE student_id = $1 AND tutor_id = $2", studentID, tutorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return review.Review{}, review.ErrNotFound
		}
		return review.Review{}, errors.Wrap(err, "getting review")
	}
	return row.toReview(), nil
}

func (repo reviewRepository) QueryByTutor(tutorID string) ([]review.Review, error) {
	var rows []reviewRow
	err := repo.db.Select(&rows, "SELECT * FROM reviews WHERE tutor_id = $1 ORDER BY created_at DESC", tutorID)
	if err != nil {
		return nil, errors.Wrap(err, "querying reviews")
	}
	revs := make([]review.Review, 0, len(rows))
	for _, row := range rows {
		revs = append(revs, row.toReview())
	}
	return revs, nil
}
