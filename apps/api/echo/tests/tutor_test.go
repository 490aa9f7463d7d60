package tests

import (
	"net/http"
	"testing"

	"github.com/tricitytutors/backend/core/message"
	"github.com/tricitytutors/backend/core/review"
	"github.com/tricitytutors/backend/core/tutor"
	"github.com/tricitytutors/backend/core/user"
)

func publishProfile(t *testing.T, tutorUsr user.User, subject, location string, feeMin, feeMax int) tutor.Profile {
	p, err := tutorSvc.Update(tutorUsr.ID, tutor.UpdateProfile{
		Subjects: []tutor.SubjectClass{{Subject: subject, Classes: []string{"9", "10"}}},
		Location: &location,
		Mobile:   &tutorUsr.Mobile,
		FeeMin:   &feeMin,
		FeeMax:   &feeMax,
	})
	if err != nil {
		t.Fatalf("tutorSvc.Update() failed, %v", err)
	}
	return p
}

func newTutor(t *testing.T, name, email, subject, location string, feeMin, feeMax int) user.User {
	usr, err := usrSvc.Create(user.NewUser{
		Email: email, Password: "s3cr3t", Role: user.RoleTutor, Name: name, Mobile: "9876543210",
	})
	if err != nil {
		t.Fatalf("usrSvc.Create() failed, %v", err)
	}
	if _, err = tutorSvc.CreateFor(usr); err != nil {
		t.Fatalf("tutorSvc.CreateFor() failed, %v", err)
	}
	publishProfile(t, usr, subject, location, feeMin, feeMax)
	return usr
}

func Test_tutorApi_search(t *testing.T) {
	resetApp(t)

	t1 := newTutor(t, "Prof X", "x@test.in", "Mathematics", "Chandigarh", 300, 600)
	newTutor(t, "Prof Y", "y@test.in", "Physics", "Mohali", 500, 900)

	// the directory is public
	req, rec := newRequest(http.MethodGet, "/v1/tutors")
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusOK, rec)
	var profiles []tutor.Profile
	unmarchallObj(t, rec.Body.Bytes(), &profiles)
	if len(profiles) != 2 {
		t.Fatalf("got %d profiles, want 2", len(profiles))
	}

	req, rec = newRequest(http.MethodGet, "/v1/tutors?subject=math")
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusOK, rec)
	unmarchallObj(t, rec.Body.Bytes(), &profiles)
	if len(profiles) != 1 || profiles[0].UserID != t1.ID {
		t.Errorf("unexpected results %s", rec.Body.String())
	}

	req, rec = newRequest(http.MethodGet, "/v1/tutors?min_fee=650&max_fee=1000")
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusOK, rec)
	unmarchallObj(t, rec.Body.Bytes(), &profiles)
	if len(profiles) != 1 || profiles[0].Name != "Prof Y" {
		t.Errorf("unexpected results %s", rec.Body.String())
	}

	// an unparsable filter is an error, not an empty result
	req, rec = newRequest(http.MethodGet, "/v1/tutors?min_fee=cheap")
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusBadRequest, rec)

	// retrieving a profile bumps its view counter
	req, rec = newRequest(http.MethodGet, "/v1/tutors/"+t1.ID)
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusOK, rec)

	p, err := tutorSvc.Get(t1.ID)
	if err != nil {
		t.Fatalf("tutorSvc.Get() failed, %v", err)
	}
	if p.ProfileViews != 1 {
		t.Errorf("ProfileViews = %d, want 1", p.ProfileViews)
	}

	req, rec = newRequest(http.MethodGet, "/v1/tutors/ghost")
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusNotFound, rec)
}

func Test_tutorApi_profile(t *testing.T) {
	resetApp(t)

	tutorUsr := createUser(t, "Prof X", "prof@test.in", user.RoleTutor, true)
	token := getToken(t, tutorUsr)

	// incomplete profiles are rejected with the full list of problems
	req, rec := newAuthRequest(http.MethodPut, "/v1/tutor/profile", token, []byte(`{"fee_min":300}`))
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusBadRequest, rec)

	body := marchallObj(t, map[string]interface{}{
		"subjects": []map[string]interface{}{{"subject": "Mathematics", "classes": []string{"9", "10"}}},
		"location": "Chandigarh",
		"mobile":   "98765 43210",
		"fee_min":  300,
		"fee_max":  600,
	})
	tt := httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, map[string]string{"message": "Profile updated successfully"}),
	}
	req, rec = newAuthRequest(http.MethodPut, "/v1/tutor/profile", token, body)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)

	req, rec = newAuthRequest(http.MethodGet, "/v1/tutor/profile", token)
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusOK, rec)
	var p tutor.Profile
	unmarchallObj(t, rec.Body.Bytes(), &p)
	if p.Location != "Chandigarh" || p.Mobile != "9876543210" || p.FeeMin != 300 {
		t.Errorf("unexpected profile %s", rec.Body.String())
	}

	// photo URL must be a URL
	req, rec = newAuthRequest(http.MethodPost, "/v1/tutor/profile/photo", token, []byte(`{"photo_url":"lol"}`))
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusBadRequest, rec)

	tt = httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, map[string]string{"message": "Profile photo updated"}),
	}
	req, rec = newAuthRequest(http.MethodPost, "/v1/tutor/profile/photo", token, []byte(`{"photo_url":"https://cdn.test.in/prof.jpg"}`))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}

func Test_tutorApi_stats(t *testing.T) {
	resetApp(t)

	tutorUsr := newTutor(t, "Prof X", "prof@test.in", "Mathematics", "Chandigarh", 300, 600)
	student := createUser(t, "Awe", "awe@test.in", user.RoleStudent, true)

	// one view, one message, one review
	if _, err := tutorSvc.Retrieve(tutorUsr.ID); err != nil {
		t.Fatalf("Retrieve() failed, %v", err)
	}
	fundUser(t, student, 100)
	if _, err := msgSvc.Send(student, message.NewMessage{RecipientID: tutorUsr.ID, Body: "hi"}); err != nil {
		t.Fatalf("Send() failed, %v", err)
	}
	if _, err := reviewSvc.Submit(student, review.NewReview{TutorID: tutorUsr.ID, Rating: 4}); err != nil {
		t.Fatalf("Submit() failed, %v", err)
	}

	tt := httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, tutor.Stats{
			ProfileViews: 1,
			Applications: 1,
			Rating:       4,
			ReviewsCount: 1,
			Coins:        0,
		}),
	}
	req, rec := newAuthRequest(http.MethodGet, "/v1/tutor/stats", getToken(t, tutorUsr))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}
