package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/goliatone/go-surveyform/pkg/metrics"
	"github.com/goliatone/go-surveyform/pkg/openapi"
	"github.com/goliatone/go-surveyform/pkg/orchestrator"
	"github.com/goliatone/go-surveyform/pkg/questions"
	"github.com/goliatone/go-surveyform/pkg/render"
	"github.com/goliatone/go-surveyform/pkg/renderers/html"
	"github.com/goliatone/go-surveyform/pkg/renderers/tui"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const longFeedback = "The survey was clear and the follow-up questions were relevant to me."

type testServer struct {
	*Server
	registry *prometheus.Registry
}

func newTestServer(t *testing.T, options ...Option) *testServer {
	t.Helper()

	htmlRenderer, err := html.New()
	require.NoError(t, err)
	registry := render.NewRegistry()
	registry.MustRegister(htmlRenderer)
	registry.MustRegister(tui.MarkdownRenderer{})

	promReg := prometheus.NewRegistry()
	collector, err := metrics.New(promReg)
	require.NoError(t, err)

	doc, err := openapi.NewDocument(context.Background(), openapi.DocumentOptions{})
	require.NoError(t, err)

	fetcher := questions.Static(map[string][]string{
		"Education": {"What inspired you to study?"},
		"Health":    {"How many hours do you sleep?"},
	})

	base := []Option{
		WithRegistry(registry),
		WithMetrics(collector, promReg),
		WithDocument(doc),
		WithAssets(html.AssetsFS()),
		WithOrchestratorOptions(orchestrator.WithFetcher(fetcher)),
	}
	srv, err := New(append(base, options...)...)
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, registry: promReg}
}

func (ts *testServer) do(t *testing.T, method, target string, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) createSession(t *testing.T) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/sessions", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var payload struct {
		Session string `json:"session"`
		State   string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.Session)
	assert.Equal(t, "editing", payload.State)
	return payload.Session
}

func formHeader() http.Header {
	return http.Header{"Content-Type": {"application/x-www-form-urlencoded"}}
}

func jsonHeader() http.Header {
	return http.Header{"Content-Type": {"application/json"}}
}

func TestNewRequiresRenderer(t *testing.T) {
	_, err := New()
	require.Error(t, err)
}

func TestIndexRedirectsToNewSession(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/sessions/"))
	assert.Equal(t, 1, ts.sessions.len())
}

func TestFormPostShowsSummary(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)

	form := url.Values{
		"fullName":                              {"Ada Lovelace"},
		"email":                                 {"ada@example.com"},
		"surveyTopic":                           {"Education"},
		"educationSection.highestQualification": {"PhD"},
		"educationSection.fieldOfStudy":         {"Mathematics"},
		"feedback":                              {longFeedback},
		render.HiddenRevision:                   {"0"},
		render.HiddenIntent:                     {render.IntentSubmit},
	}
	rec := ts.do(t, http.MethodPost, "/sessions/"+id, form.Encode(), formHeader())
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/sessions/"+id, rec.Header().Get("Location"))

	rec = ts.do(t, http.MethodGet, "/sessions/"+id, "", http.Header{"Accept": {"text/markdown"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "# Survey Summary")
	assert.Contains(t, body, "- **Full Name:** Ada Lovelace")
	assert.Contains(t, body, "- **Field of Study:** Mathematics")
	assert.Contains(t, body, "What inspired you to study?")

	rec = ts.do(t, http.MethodGet, "/sessions/"+id, "", http.Header{"Accept": {"text/html"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Additional Questions")
}

func TestFormPostInvalidKeepsEditing(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)

	form := url.Values{"fullName": {"Ada"}, "email": {"not-an-email"}, render.HiddenIntent: {render.IntentSubmit}}
	rec := ts.do(t, http.MethodPost, "/sessions/"+id, form.Encode(), formHeader())
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = ts.do(t, http.MethodGet, "/sessions/"+id+"/view", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		State  string            `json:"state"`
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "editing", view.State)
	assert.Contains(t, view.Errors, "email")
	assert.Contains(t, view.Errors, "surveyTopic")
	assert.NotContains(t, view.Errors, "fullName")
}

func TestFormPostUpdateRevealsSectionWithoutValidating(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)

	form := url.Values{
		"fullName":          {"Ada Lovelace"},
		"email":             {"ada@example.com"},
		"surveyTopic":       {"Technology"},
		render.HiddenIntent: {render.IntentUpdate},
	}
	rec := ts.do(t, http.MethodPost, "/sessions/"+id, form.Encode(), formHeader())
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = ts.do(t, http.MethodGet, "/sessions/"+id+"/view", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		State          string            `json:"state"`
		Errors         map[string]string `json:"errors"`
		VisibleSection string            `json:"visibleSection"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "editing", view.State)
	assert.Empty(t, view.Errors)
	assert.Equal(t, "technologySection", view.VisibleSection)

	rec = ts.do(t, http.MethodGet, "/sessions/"+id, "", http.Header{"Accept": {"text/html"}})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="technologySection.favoriteLanguage"`)
	assert.NotContains(t, body, "survey-field-error")
}

func TestFormPostWithoutIntentDoesNotValidate(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)

	form := url.Values{"surveyTopic": {"Health"}}
	rec := ts.do(t, http.MethodPost, "/sessions/"+id, form.Encode(), formHeader())
	require.Equal(t, http.StatusSeeOther, rec.Code)

	sess, err := ts.sessions.get(id)
	require.NoError(t, err)
	assert.Empty(t, sess.orch.Errors())
	assert.Equal(t, []string{"How many hours do you sleep?"}, sess.orch.View().AdditionalQuestions)
}

func TestFormPostRejectsUnknownIntent(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)

	form := url.Values{render.HiddenIntent: {"publish"}}
	rec := ts.do(t, http.MethodPost, "/sessions/"+id, form.Encode(), formHeader())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFormPostRejectsStaleRevision(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)

	rec := ts.do(t, http.MethodPatch, "/sessions/"+id+"/fields", `{"field":"fullName","value":"Ada"}`, jsonHeader())
	require.Equal(t, http.StatusOK, rec.Code)

	form := url.Values{
		"fullName":            {"Grace"},
		render.HiddenRevision: {"0"},
		render.HiddenIntent:   {render.IntentSubmit},
	}
	rec = ts.do(t, http.MethodPost, "/sessions/"+id, form.Encode(), formHeader())
	assert.Equal(t, http.StatusConflict, rec.Code)

	sess, err := ts.sessions.get(id)
	require.NoError(t, err)
	assert.Equal(t, "Ada", sess.orch.View().Answers.FullName)
	assert.Empty(t, sess.orch.Errors())

	form.Set(render.HiddenRevision, "not-a-number")
	rec = ts.do(t, http.MethodPost, "/sessions/"+id, form.Encode(), formHeader())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFormPostRejectsUnknownTopic(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)

	form := url.Values{"surveyTopic": {"Astronomy"}}
	rec := ts.do(t, http.MethodPost, "/sessions/"+id, form.Encode(), formHeader())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFormPostEditIntent(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)

	sess, err := ts.sessions.get(id)
	require.NoError(t, err)
	for _, step := range [][3]string{
		{"", "fullName", "Ada Lovelace"},
		{"", "email", "ada@example.com"},
		{"", "surveyTopic", "Health"},
		{"healthSection", "exerciseFrequency", "Daily"},
		{"healthSection", "dietPreference", "Vegan"},
		{"", "feedback", longFeedback},
	} {
		require.NoError(t, sess.orch.HandleField(step[0], step[1], step[2]))
	}
	require.NoError(t, sess.orch.Wait(context.Background()))
	require.True(t, sess.orch.Submit().Valid)

	form := url.Values{render.HiddenIntent: {render.IntentEdit}}
	rec := ts.do(t, http.MethodPost, "/sessions/"+id, form.Encode(), formHeader())
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, orchestrator.StateEditing, sess.orch.State())
}

func TestFieldPatchAndSubmit(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)

	changes := []fieldChange{
		{Field: "fullName", Value: "Grace Hopper"},
		{Field: "email", Value: "grace@example.com"},
		{Field: "surveyTopic", Value: "Technology"},
		{Section: "technologySection", Field: "favoriteLanguage", Value: "Python"},
		{Section: "technologySection", Field: "yearsOfExperience", Value: "40"},
		{Field: "feedback", Value: longFeedback},
	}
	for _, change := range changes {
		body, err := json.Marshal(change)
		require.NoError(t, err)
		rec := ts.do(t, http.MethodPatch, "/sessions/"+id+"/fields", string(body), jsonHeader())
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := ts.do(t, http.MethodPost, "/sessions/"+id+"/submit", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Valid  bool              `json:"valid"`
		Errors map[string]string `json:"errors"`
		State  string            `json:"state"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "summary", result.State)

	rec = ts.do(t, http.MethodPost, "/sessions/"+id+"/edit", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"editing"`)
}

func TestFieldPatchRejectsBadInput(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)

	cases := map[string]string{
		"unknown field":  `{"section":"technologySection","field":"shoeSize","value":"42"}`,
		"invalid topic":  `{"field":"surveyTopic","value":"Astronomy"}`,
		"malformed json": `{"field":`,
		"extra keys":     `{"field":"email","value":"a@b.co","extra":true}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPatch, "/sessions/"+id+"/fields", body, jsonHeader())
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestUnknownSession(t *testing.T) {
	ts := newTestServer(t)

	for _, target := range []string{"/sessions/missing", "/sessions/missing/view"} {
		rec := ts.do(t, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
	}
	rec := ts.do(t, http.MethodDelete, "/sessions/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSessionUpdatesGauge(t *testing.T) {
	ts := newTestServer(t)
	first := ts.createSession(t)
	ts.createSession(t)

	rec := ts.do(t, http.MethodDelete, "/sessions/"+first, "", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	expected := `
# HELP surveyform_sessions_active Open HTTP survey sessions.
# TYPE surveyform_sessions_active gauge
surveyform_sessions_active 1
`
	require.NoError(t, testutil.GatherAndCompare(ts.registry, strings.NewReader(expected), "surveyform_sessions_active"))

	rec = ts.do(t, http.MethodGet, "/sessions/"+first, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)

	now := time.Now()
	ts.sessions.now = func() time.Time { return now.Add(time.Hour) }
	assert.Equal(t, 1, ts.sessions.sweep(30*time.Minute))
	assert.Equal(t, 0, ts.sessions.len())

	rec := ts.do(t, http.MethodGet, "/sessions/"+id+"/view", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunClosesSessionsOnShutdown(t *testing.T) {
	ts := newTestServer(t, WithSessionTTL(time.Minute))
	ts.createSession(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ts.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 0, ts.sessions.len())
}

func TestRunWithTinySessionTTL(t *testing.T) {
	assert.Equal(t, time.Second, sweepInterval(time.Nanosecond))
	assert.Equal(t, time.Minute, sweepInterval(2*time.Minute))

	ts := newTestServer(t, WithSessionTTL(time.Nanosecond))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ts.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestAmbientRoutes(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/openapi.json", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/sessions/{id}/fields"`)

	rec = ts.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "surveyform_sessions_active")

	rec = ts.do(t, http.MethodGet, "/assets/"+html.StylesheetName, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
