package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landcheck/models"
	"landcheck/wizard"
)

// fakeAPI stands in for the persistence and auth API.
type fakeAPI struct {
	mu       sync.Mutex
	status   int
	received []models.Submission
}

func (f *fakeAPI) setStatus(code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = code
}

func (f *fakeAPI) submissions() []models.Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Submission(nil), f.received...)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.URL.Path {
	case "/visitors":
		if f.status != 0 && f.status != http.StatusCreated {
			http.Error(w, "boom", f.status)
			return
		}
		var s models.Submission
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		f.received = append(f.received, s)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"v-1","status":"saved"}`))
	case "/auth/me":
		if r.Header.Get("Authorization") != "Bearer user-token" {
			http.Error(w, "nope", http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(models.UserProfile{ID: "u1", FirstName: "Nimal", LastName: "Perera", Email: "nimal@example.com"})
	default:
		http.NotFound(w, r)
	}
}

func testConfig(apiURL string) Config {
	return Config{
		Port:            "0",
		APIBaseURL:      apiURL,
		APITimeout:      2 * time.Second,
		BreakerFailures: 5,
		BreakerOpenFor:  time.Minute,
		SessionSecret:   "test-secret",
		SessionTTL:      time.Hour,
		SessionStore:    "memory",
		Locale:          "en",
		CORSOrigins:     []string{"http://localhost:3000"},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{}
	upstream := httptest.NewServer(api)
	t.Cleanup(upstream.Close)

	app, err := newApp(context.Background(), testConfig(upstream.URL), newLogger(io.Discard, "error", "text"))
	require.NoError(t, err)
	srv := httptest.NewServer(app.routes())
	t.Cleanup(srv.Close)
	return srv, api
}

type apiSession struct {
	t     *testing.T
	base  string
	token string
}

func startWizard(t *testing.T, base string) *apiSession {
	t.Helper()
	resp, err := http.Post(base+"/api/wizard", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out createWizardResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Token)
	assert.Equal(t, wizard.StepPersonalInfo, out.View.Step)
	return &apiSession{t: t, base: base, token: out.Token}
}

// call returns the status and the decoded view, if any.
func (s *apiSession) call(method, path string, body any) (int, errorResp) {
	s.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.base+path, rd)
	require.NoError(s.t, err)
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var out errorResp
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func (s *apiSession) set(fields map[wizard.Field]string) {
	s.t.Helper()
	code, _ := s.call(http.MethodPatch, "/api/wizard/fields", setFieldsReq{Fields: fields})
	require.Equal(s.t, http.StatusOK, code)
}

func (s *apiSession) next() (int, errorResp) {
	s.t.Helper()
	return s.call(http.MethodPost, "/api/wizard/next", nil)
}

func (s *apiSession) toLandDetails() {
	s.t.Helper()
	steps := []map[wizard.Field]string{
		{wizard.FieldTitle: "Mr", wizard.FieldFirstName: "Nimal", wizard.FieldLastName: "Perera",
			wizard.FieldNIC: "852345678V", wizard.FieldPhone: "771234567", wizard.FieldEmail: "nimal@example.com"},
		{wizard.FieldHasOwnLand: "yes"},
		{wizard.FieldProvince: "Central", wizard.FieldDistrict: "Kandy", wizard.FieldCity: "Peradeniya"},
		{wizard.FieldClimateZone: "WM"},
	}
	for _, fields := range steps {
		s.set(fields)
		code, _ := s.next()
		require.Equal(s.t, http.StatusOK, code)
	}
}

func TestWizardAPI_CompleteFlow(t *testing.T) {
	srv, api := newTestServer(t)
	s := startWizard(t, srv.URL)
	s.toLandDetails()

	s.set(map[wizard.Field]string{
		wizard.FieldLandShape: "Hilly", wizard.FieldSoilType: "Clay", wizard.FieldHasStones: "no",
		wizard.FieldHasLandslideRisk: "no", wizard.FieldHasForestry: "no", wizard.FieldLandSize: "40",
	})
	code, out := s.next()
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, out.View)
	assert.Equal(t, wizard.StepResults, out.View.Step)
	require.NotNil(t, out.View.Result)
	assert.True(t, out.View.Result.OverallEligible)
	assert.False(t, out.View.Result.SoilTypeEligible)

	subs := api.submissions()
	require.Len(t, subs, 1)
	assert.Equal(t, "852345678V", subs[0].NIC)
	assert.Equal(t, "Peradeniya", subs[0].City)
	assert.Nil(t, subs[0].HasWater)
	assert.InDelta(t, 40, subs[0].LandSize, 0)
	assert.True(t, subs[0].Eligibility.Overall)

	// Results are final.
	code, _ = s.next()
	assert.Equal(t, http.StatusConflict, code)
	code, _ = s.call(http.MethodPost, "/api/wizard/goto/1", nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Len(t, api.submissions(), 1)
}

func TestWizardAPI_ValidationErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	s := startWizard(t, srv.URL)

	s.set(map[wizard.Field]string{wizard.FieldFirstName: "Nimal2", wizard.FieldNIC: "12345"})
	code, out := s.next()
	require.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, out.View)
	assert.Equal(t, wizard.StepPersonalInfo, out.View.Step)
	assert.Contains(t, out.View.Errors, wizard.FieldFirstName)
	assert.Contains(t, out.View.Errors, wizard.FieldNIC)
	assert.Contains(t, out.View.Errors, wizard.FieldTitle)
	assert.NotContains(t, out.View.Errors, wizard.FieldEmail)

	code, out = s.call(http.MethodPatch, "/api/wizard/fields", setFieldsReq{Fields: map[wizard.Field]string{"favouriteColour": "green"}})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotNil(t, out.View)
}

func TestWizardAPI_NoOwnLand(t *testing.T) {
	srv, _ := newTestServer(t)
	s := startWizard(t, srv.URL)
	s.set(map[wizard.Field]string{wizard.FieldTitle: "Ms", wizard.FieldFirstName: "Ama", wizard.FieldLastName: "Fernando",
		wizard.FieldNIC: "200112345678", wizard.FieldPhone: "701234567"})
	code, _ := s.next()
	require.Equal(t, http.StatusOK, code)

	s.set(map[wizard.Field]string{wizard.FieldHasOwnLand: "no"})
	code, out := s.next()
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, wizard.NoOwnLandNotice, out.Error)
	require.NotNil(t, out.View)
	assert.Equal(t, wizard.StepLandOwnership, out.View.Step)
	assert.Equal(t, wizard.NoOwnLandNotice, out.View.Notice)
}

func TestWizardAPI_HardStop(t *testing.T) {
	srv, api := newTestServer(t)
	s := startWizard(t, srv.URL)
	s.toLandDetails()

	s.set(map[wizard.Field]string{
		wizard.FieldLandShape: "Flat", wizard.FieldHasWater: "yes", wizard.FieldSoilType: "Loam",
		wizard.FieldHasStones: "no", wizard.FieldHasLandslideRisk: "no", wizard.FieldHasForestry: "yes",
		wizard.FieldLandSize: "20",
	})
	code, out := s.next()
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, out.View)
	assert.True(t, out.View.HardStop)
	assert.Equal(t, wizard.StepLandDetails, out.View.Step)
	assert.Empty(t, api.submissions())

	// Changing the answer lifts the stop.
	s.set(map[wizard.Field]string{wizard.FieldHasWater: "no"})
	code, out = s.next()
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, wizard.StepResults, out.View.Step)
	subs := api.submissions()
	require.Len(t, subs, 1)
	require.NotNil(t, subs[0].HasWater)
	assert.False(t, *subs[0].HasWater)
}

func TestWizardAPI_SubmissionFailureIsRetryable(t *testing.T) {
	srv, api := newTestServer(t)
	s := startWizard(t, srv.URL)
	s.toLandDetails()
	s.set(map[wizard.Field]string{
		wizard.FieldLandShape: "Sloped", wizard.FieldSoilType: "Red Earth", wizard.FieldHasStones: "yes",
		wizard.FieldHasLandslideRisk: "no", wizard.FieldHasForestry: "yes", wizard.FieldLandSize: "12.5",
	})

	api.setStatus(http.StatusInternalServerError)
	code, out := s.next()
	require.Equal(t, http.StatusBadGateway, code)
	require.NotNil(t, out.View)
	assert.Equal(t, wizard.StepLandDetails, out.View.Step)
	assert.NotEmpty(t, out.View.SubmitError)
	assert.Equal(t, "Nimal", out.View.State.FirstName)
	assert.InDelta(t, 12.5, out.View.State.LandSize, 0)

	api.setStatus(0)
	code, out = s.next()
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, wizard.StepResults, out.View.Step)
	assert.Empty(t, out.View.SubmitError)
	require.NotNil(t, out.View.Result)
	assert.False(t, out.View.Result.OverallEligible)
	assert.Len(t, api.submissions(), 1)
}

func TestWizardAPI_GoToAndSession(t *testing.T) {
	srv, _ := newTestServer(t)
	s := startWizard(t, srv.URL)
	s.toLandDetails()

	code, out := s.call(http.MethodPost, "/api/wizard/goto/location", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, wizard.StepLocation, out.View.Step)
	assert.Equal(t, "Kandy", out.View.State.District)

	code, out = s.call(http.MethodPost, "/api/wizard/goto/5", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, wizard.StepLandDetails, out.View.Step)

	code, _ = s.call(http.MethodPost, "/api/wizard/goto/9", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.call(http.MethodDelete, "/api/wizard", nil)
	require.Equal(t, http.StatusNoContent, code)
	code, _ = s.call(http.MethodGet, "/api/wizard", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	resp, err := http.Get(srv.URL + "/api/wizard")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWizardAPI_EarlierAnswersEditedOnTheirStep(t *testing.T) {
	srv, api := newTestServer(t)
	s := startWizard(t, srv.URL)
	s.toLandDetails()

	code, out := s.call(http.MethodPatch, "/api/wizard/fields",
		setFieldsReq{Fields: map[wizard.Field]string{wizard.FieldNIC: "not-a-nic"}})
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, out.View)
	assert.Equal(t, "852345678V", out.View.State.NIC)

	code, _ = s.call(http.MethodPost, "/api/wizard/goto/1", nil)
	require.Equal(t, http.StatusOK, code)
	s.set(map[wizard.Field]string{wizard.FieldNIC: "not-a-nic"})
	code, out = s.call(http.MethodPost, "/api/wizard/goto/5", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, out.View)
	assert.Equal(t, wizard.StepPersonalInfo, out.View.Step)
	assert.Contains(t, out.View.Errors, wizard.FieldNIC)

	s.set(map[wizard.Field]string{wizard.FieldNIC: "199012345678"})
	code, _ = s.call(http.MethodPost, "/api/wizard/goto/5", nil)
	require.Equal(t, http.StatusOK, code)
	s.set(map[wizard.Field]string{
		wizard.FieldLandShape: "Hilly", wizard.FieldSoilType: "Loam", wizard.FieldHasStones: "no",
		wizard.FieldHasLandslideRisk: "no", wizard.FieldHasForestry: "no", wizard.FieldLandSize: "40",
	})
	code, _ = s.next()
	require.Equal(t, http.StatusOK, code)
	subs := api.submissions()
	require.Len(t, subs, 1)
	assert.Equal(t, "199012345678", subs[0].NIC)
}

func TestLocationsAPI(t *testing.T) {
	srv, _ := newTestServer(t)

	get := func(path string) (int, locationsResp) {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		var out locationsResp
		_ = json.NewDecoder(resp.Body).Decode(&out)
		return resp.StatusCode, out
	}

	code, out := get("/api/locations")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, out.Items, 9)
	assert.Equal(t, "Western", out.Items[0])

	code, out = get("/api/locations/Central")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"Kandy", "Matale", "Nuwara Eliya"}, out.Items)

	code, out = get("/api/locations/Central/Kandy")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, out.Items, "Peradeniya")

	code, _ = get("/api/locations/Central/Galle")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = get("/api/locations/Atlantis")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestMeForwardsToken(t *testing.T) {
	srv, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/me", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var u models.UserProfile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&u))
	assert.Equal(t, "Nimal Perera", u.DisplayName())

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/api/me", nil)
	req.Header.Set("Authorization", "Bearer stale")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/projection?landSize=10")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "landcheck_projections_total 1")

	resp, err = http.Get(srv.URL + "/api/openapi.yaml")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
