package review_test

import (
	"testing"

	dummydb "github.com/tricitytutors/backend/storage/database/dummy"

	"github.com/tricitytutors/backend/core/review"
	"github.com/tricitytutors/backend/core/tutor"
	"github.com/tricitytutors/backend/core/user"
)

func setup(t *testing.T) (review.Service, tutor.Service, user.User) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	tutorSvc := tutor.NewService(dummydb.NewTutorRepository(db))

	tutorUsr := user.User{ID: "tutor-1", Name: "Prof X", Role: user.RoleTutor}
	if _, err = tutorSvc.CreateFor(tutorUsr); err != nil {
		t.Fatalf("tutorSvc.CreateFor() failed, %v", err)
	}

	return review.NewService(dummydb.NewReviewRepository(db), tutorSvc), tutorSvc, tutorUsr
}

func rating(t *testing.T, tutorSvc tutor.Service, tutorID string) float64 {
	p, err := tutorSvc.Get(tutorID)
	if err != nil {
		t.Fatalf("tutorSvc.Get() failed, %v", err)
	}
	return p.AverageRating
}

func Test_service_Submit(t *testing.T) {
	svc, tutorSvc, tutorUsr := setup(t)

	student := user.User{ID: "student-1", Name: "Awe", Role: user.RoleStudent}

	rev, err := svc.Submit(student, review.NewReview{TutorID: tutorUsr.ID, Rating: 5, Comment: "great"})
	if err != nil {
		t.Fatalf("Submit() failed, %v", err)
	}
	if rev.StudentName != student.Name || rev.Rating != 5 {
		t.Errorf("Submit() = %s/%d, want %s/5", rev.StudentName, rev.Rating, student.Name)
	}
	if avg := rating(t, tutorSvc, tutorUsr.ID); avg != 5 {
		t.Errorf("AverageRating = %v, want 5", avg)
	}

	// a second student pulls the average down
	other := user.User{ID: "student-2", Name: "Mdr", Role: user.RoleParent}
	if _, err = svc.Submit(other, review.NewReview{TutorID: tutorUsr.ID, Rating: 1}); err != nil {
		t.Fatalf("Submit() failed, %v", err)
	}
	if avg := rating(t, tutorSvc, tutorUsr.ID); avg != 3 {
		t.Errorf("AverageRating = %v, want 3", avg)
	}

	// a repeat submission replaces, never duplicates
	if _, err = svc.Submit(student, review.NewReview{TutorID: tutorUsr.ID, Rating: 3, Comment: "ok"}); err != nil {
		t.Fatalf("Submit() failed, %v", err)
	}
	revs, err := svc.QueryByTutor(tutorUsr.ID)
	if err != nil {
		t.Fatalf("QueryByTutor() failed, %v", err)
	}
	if len(revs) != 2 {
		t.Fatalf("got %d reviews, want 2", len(revs))
	}
	if avg := rating(t, tutorSvc, tutorUsr.ID); avg != 2 {
		t.Errorf("AverageRating = %v, want 2", avg)
	}
}

func Test_service_Submit_unknownTutor(t *testing.T) {
	svc, _, _ := setup(t)

	student := user.User{ID: "student-1", Name: "Awe", Role: user.RoleStudent}
	if _, err := svc.Submit(student, review.NewReview{TutorID: "nope", Rating: 4}); err != tutor.ErrNotFound {
		t.Errorf("Submit() error = %v, wantErr %v", err, tutor.ErrNotFound)
	}
}
