package tests

import (
	"net/http"
	"testing"

	"github.com/tricitytutors/backend/core/review"
	"github.com/tricitytutors/backend/core/user"
)

func Test_reviewApi(t *testing.T) {
	resetApp(t)

	tutorUsr := createUser(t, "Prof X", "prof@test.in", user.RoleTutor, true)
	student := createUser(t, "Awe", "awe@test.in", user.RoleStudent, true)
	token := getToken(t, student)

	// auth required to post
	req, rec := newRequest(http.MethodPost, "/v1/reviews", []byte(`{"tutor_id":"`+tutorUsr.ID+`","rating":5}`))
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusUnauthorized, rec)

	// rating bounds
	req, rec = newAuthRequest(http.MethodPost, "/v1/reviews", token, []byte(`{"tutor_id":"`+tutorUsr.ID+`","rating":6}`))
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusBadRequest, rec)

	// unknown tutor
	req, rec = newAuthRequest(http.MethodPost, "/v1/reviews", token, []byte(`{"tutor_id":"ghost","rating":4}`))
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusNotFound, rec)

	req, rec = newAuthRequest(http.MethodPost, "/v1/reviews", token, []byte(`{"tutor_id":"`+tutorUsr.ID+`","rating":5,"comment":"great"}`))
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusCreated, rec)

	var rev review.Review
	unmarchallObj(t, rec.Body.Bytes(), &rev)
	if rev.StudentName != student.Name || rev.Rating != 5 {
		t.Errorf("unexpected review %s", rec.Body.String())
	}

	// resubmitting replaces the old review
	req, rec = newAuthRequest(http.MethodPost, "/v1/reviews", token, []byte(`{"tutor_id":"`+tutorUsr.ID+`","rating":3}`))
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusCreated, rec)

	// the listing is public
	req, rec = newRequest(http.MethodGet, "/v1/reviews/"+tutorUsr.ID)
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusOK, rec)
	var revs []review.Review
	unmarchallObj(t, rec.Body.Bytes(), &revs)
	if len(revs) != 1 || revs[0].Rating != 3 {
		t.Errorf("unexpected reviews %s", rec.Body.String())
	}

	// the tutor's average tracks the latest submissions
	p, err := tutorSvc.Get(tutorUsr.ID)
	if err != nil {
		t.Fatalf("tutorSvc.Get() failed, %v", err)
	}
	if p.AverageRating != 3 {
		t.Errorf("AverageRating = %v, want 3", p.AverageRating)
	}

	// no reviews is an empty list, not a 404
	tt := httpTest{wantCode: http.StatusOK, wantData: marchallList(t)}
	req, rec = newRequest(http.MethodGet, "/v1/reviews/"+student.ID)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}
