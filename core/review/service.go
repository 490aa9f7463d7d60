package review

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tricitytutors/backend/core/tutor"
	"github.com/tricitytutors/backend/core/user"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound = errors.New("review not found")
)

type (
	Repository interface {
		CreateReview(rev Review) (Review, error)
		UpdateReview(rev Review) (Review, error)
		GetReviewByStudentAndTutor(studentID, tutorID string) (Review, error)
		// QueryByTutor returns a tutor's reviews, newest first.
		QueryByTutor(tutorID string) ([]Review, error)
	}

	Service interface {
		// Submit records usr's review for a tutor; a repeat submission
		// replaces the previous one. The tutor's average rating is
		// recomputed from all reviews on every call.
		Submit(usr user.User, nr NewReview) (Review, error)
		QueryByTutor(tutorID string) ([]Review, error)
	}

	service struct {
		repo     Repository
		tutorSvc tutor.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, tutorSvc tutor.Service) Service {
	return &service{
		repo:     repo,
		tutorSvc: tutorSvc,
	}
}

func (svc *service) Submit(usr user.User, nr NewReview) (Review, error) {
	if _, err := svc.tutorSvc.Get(nr.TutorID); err != nil {
		return Review{}, err
	}

	rev, err := svc.repo.GetReviewByStudentAndTutor(usr.ID, nr.TutorID)
	switch errors.Cause(err) {
	case nil:
		rev.Rating = nr.Rating
		rev.Comment = nr.Comment
		rev.CreatedAt = NowFunc().UTC()
		if rev, err = svc.repo.UpdateReview(rev); err != nil {
			return Review{}, err
		}
	case ErrNotFound:
		rev = Review{
			ID:          uuid.New().String(),
			TutorID:     nr.TutorID,
			StudentID:   usr.ID,
			StudentName: usr.Name,
			Rating:      nr.Rating,
			Comment:     nr.Comment,
			CreatedAt:   NowFunc().UTC(),
		}
		if rev, err = svc.repo.CreateReview(rev); err != nil {
			return Review{}, err
		}
	default:
		return Review{}, err
	}

	if err = svc.refreshRating(nr.TutorID); err != nil {
		return Review{}, err
	}
	return rev, nil
}

func (svc *service) QueryByTutor(tutorID string) ([]Review, error) {
	return svc.repo.QueryByTutor(tutorID)
}

func (svc *service) refreshRating(tutorID string) error {
	revs, err := svc.repo.QueryByTutor(tutorID)
	if err != nil {
		return err
	}
	var avg float64
	if len(revs) > 0 {
		var sum int
		for _, rev := range revs {
			sum += rev.Rating
		}
		avg = float64(sum) / float64(len(revs))
	}
	return svc.tutorSvc.SetRating(tutorID, avg)
}
