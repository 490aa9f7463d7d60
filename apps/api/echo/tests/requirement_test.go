package tests

import (
	"net/http"
	"testing"

	"github.com/tricitytutors/backend/core/requirement"
	"github.com/tricitytutors/backend/core/user"
)

func requirementFixture() requirement.NewRequirement {
	return requirement.NewRequirement{
		Subject:         "Mathematics",
		LevelClass:      "Class 10",
		Mode:            "online",
		RequirementType: "tutor",
		TimePreference:  "evening",
		Languages:       []string{"English", "Hindi"},
		Location:        "Chandigarh",
		Phone:           "9876543210",
	}
}

func Test_requirementApi_create(t *testing.T) {
	resetApp(t)

	verified := createUser(t, "Awe", "awe@test.in", user.RoleStudent, true)
	unverified := createUser(t, "Lol", "lol@test.in", user.RoleStudent, false)

	body := marchallObj(t, requirementFixture())

	// auth required
	req, rec := newRequest(http.MethodPost, "/v1/requirements", body)
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusUnauthorized, rec)

	// posting requires a verified email
	tt := httpTest{
		wantCode: http.StatusForbidden,
		wantData: marchallObj(t, httpErr{Error: "please verify your email before posting a requirement"}),
	}
	req, rec = newAuthRequest(http.MethodPost, "/v1/requirements", getToken(t, unverified), body)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)

	// missing fields
	req, rec = newAuthRequest(http.MethodPost, "/v1/requirements", getToken(t, verified), []byte(`{"subject":"Maths"}`))
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusBadRequest, rec)

	req, rec = newAuthRequest(http.MethodPost, "/v1/requirements", getToken(t, verified), body)
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusCreated, rec)

	var r requirement.Requirement
	unmarchallObj(t, rec.Body.Bytes(), &r)
	if r.StudentID != verified.ID || r.Status != requirement.StatusActive {
		t.Errorf("unexpected requirement %s", rec.Body.String())
	}
}

func Test_requirementApi_queryAndClose(t *testing.T) {
	resetApp(t)

	poster := createUser(t, "Awe", "awe@test.in", user.RoleStudent, true)
	other := createUser(t, "Mdr", "mdr@test.in", user.RoleParent, true)
	posterToken := getToken(t, poster)

	r1, err := reqSvc.Create(poster, requirementFixture())
	if err != nil {
		t.Fatalf("reqSvc.Create() failed, %v", err)
	}
	nr := requirementFixture()
	nr.Subject = "Physics"
	nr.Mode = "offline"
	if _, err = reqSvc.Create(other, nr); err != nil {
		t.Fatalf("reqSvc.Create() failed, %v", err)
	}

	// the board shows everyone's active requirements
	req, rec := newAuthRequest(http.MethodGet, "/v1/requirements", posterToken)
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusOK, rec)
	var reqs []requirement.Requirement
	unmarchallObj(t, rec.Body.Bytes(), &reqs)
	if len(reqs) != 2 {
		t.Errorf("got %d requirements, want 2", len(reqs))
	}

	// subject filter, case-insensitive
	req, rec = newAuthRequest(http.MethodGet, "/v1/requirements?subject=math", posterToken)
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusOK, rec)
	unmarchallObj(t, rec.Body.Bytes(), &reqs)
	if len(reqs) != 1 || reqs[0].ID != r1.ID {
		t.Errorf("unexpected results %s", rec.Body.String())
	}

	// /my only shows the caller's
	req, rec = newAuthRequest(http.MethodGet, "/v1/requirements/my", posterToken)
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusOK, rec)
	unmarchallObj(t, rec.Body.Bytes(), &reqs)
	if len(reqs) != 1 || reqs[0].ID != r1.ID {
		t.Errorf("unexpected results %s", rec.Body.String())
	}

	// only the owner may close
	tt := httpTest{
		wantCode: http.StatusForbidden,
		wantData: marchallObj(t, httpErr{Error: "not the owner of this requirement"}),
	}
	req, rec = newAuthRequest(http.MethodDelete, "/v1/requirements/"+r1.ID, getToken(t, other))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)

	tt = httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, map[string]string{"message": "Requirement closed"}),
	}
	req, rec = newAuthRequest(http.MethodDelete, "/v1/requirements/"+r1.ID, posterToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)

	// closed requirements drop off the board but stay stored
	req, rec = newAuthRequest(http.MethodGet, "/v1/requirements", posterToken)
	app.ServeHTTP(rec, req)
	checkCode(t, http.StatusOK, rec)
	unmarchallObj(t, rec.Body.Bytes(), &reqs)
	if len(reqs) != 1 {
		t.Errorf("got %d requirements, want 1", len(reqs))
	}
	if r, err := reqSvc.GetByID(r1.ID); err != nil || r.Status != requirement.StatusClosed {
		t.Errorf("GetByID() = %v, %v; want closed requirement", r.Status, err)
	}
}
