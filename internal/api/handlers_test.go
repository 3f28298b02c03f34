package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ignite/phishing-trainer/internal/domain"
	"github.com/ignite/phishing-trainer/internal/pkg/distlock"
	"github.com/ignite/phishing-trainer/internal/quiz"
	"github.com/ignite/phishing-trainer/internal/service/campaign"
	"github.com/ignite/phishing-trainer/internal/service/recorder"
	"github.com/ignite/phishing-trainer/internal/storage"
	"github.com/ignite/phishing-trainer/internal/templates"
	"github.com/ignite/phishing-trainer/internal/tracking"
)

type memStore struct {
	mu   sync.Mutex
	snap storage.Snapshot
}

func (m *memStore) Load(_ context.Context) (storage.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := storage.Snapshot{}
	for id, c := range m.snap {
		out[id] = c
	}
	return out, nil
}

func (m *memStore) Save(_ context.Context, snap storage.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
	return nil
}

const testSecret = "handler-test-secret-key"

func newTestRouter(t *testing.T) (http.Handler, *campaign.Service) {
	t.Helper()
	store := &memStore{snap: storage.Snapshot{}}
	signer := tracking.NewSigner(testSecret)
	links := tracking.NewLinkGenerator(signer, "http://localhost:8080/track")
	locks := distlock.NewKeyedMutex()

	campaigns := campaign.NewService(store, links, locks)
	rec := recorder.NewService(store, signer, locks)
	h := NewHandlers(campaigns, rec, quiz.DefaultBank(), templates.NewEngine(), 3)
	return SetupRoutes(h), campaigns
}

func createCampaign(t *testing.T, campaigns *campaign.Service) *domain.Campaign {
	t.Helper()
	c, err := campaigns.Create(context.Background(), campaign.CreateInput{
		Name:     "drill",
		Company:  domain.CompanyInfo{Name: "Acme"},
		Scenario: domain.ScenarioInfo{Type: domain.ScenarioCredentialTheft, Difficulty: 3},
		Targets:  []string{"a@example.com", "b@example.com"},
	})
	require.NoError(t, err)
	return c
}

func clickTarget(t *testing.T, router http.Handler, c *domain.Campaign, rid string) {
	t.Helper()
	sig := tracking.NewSigner(testSecret).Sign(c.ID, rid)
	req := httptest.NewRequest("GET", "/track?track=1&cid="+c.ID+"&rid="+rid+"&sig="+sig, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"ok"`)
}

func TestTrackValidClickServesLesson(t *testing.T) {
	router, campaigns := newTestRouter(t)
	c := createCampaign(t, campaigns)
	rid := c.Targets[0].ID
	sig := tracking.NewSigner(testSecret).Sign(c.ID, rid)

	req := httptest.NewRequest("GET", "/track?track=1&cid="+c.ID+"&rid="+rid+"&sig="+sig, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rr.Body.String(), "phishing simulation")

	got, err := campaigns.Get(context.Background(), c.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TargetClicked, got.Target(rid).Status)
}

func TestTrackForgedSignature(t *testing.T) {
	router, campaigns := newTestRouter(t)
	c := createCampaign(t, campaigns)
	rid := c.Targets[0].ID

	req := httptest.NewRequest("GET", "/track?track=1&cid="+c.ID+"&rid="+rid+"&sig=deadbeef", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)

	got, _ := campaigns.Get(context.Background(), c.ID)
	require.Equal(t, domain.TargetQueued, got.Target(rid).Status)
	require.Empty(t, got.Events)
}

func TestTrackMissingParams(t *testing.T) {
	router, _ := newTestRouter(t)
	for _, path := range []string{"/track", "/track?track=1", "/track?track=1&cid=c&rid=r"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
		require.Equal(t, http.StatusBadRequest, rr.Code, path)
	}
}

func TestTrackUnknownTarget(t *testing.T) {
	router, _ := newTestRouter(t)
	sig := tracking.NewSigner(testSecret).Sign("ghost-campaign", "ghost-rid")
	req := httptest.NewRequest("GET", "/track?track=1&cid=ghost-campaign&rid=ghost-rid&sig="+sig, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetQuiz(t *testing.T) {
	router, campaigns := newTestRouter(t)
	c := createCampaign(t, campaigns)
	rid := c.Targets[0].ID

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/quiz?cid="+c.ID+"&rid="+rid, nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		MaxScore  int `json:"max_score"`
		Questions []struct {
			ID      string   `json:"id"`
			Options []string `json:"options"`
		} `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, 3, body.MaxScore)
	require.Len(t, body.Questions, 3)
	// Answer key must not leak.
	require.NotContains(t, rr.Body.String(), "correct_answer")
	require.NotContains(t, rr.Body.String(), "explanation")
}

func TestSubmitQuizFlow(t *testing.T) {
	router, campaigns := newTestRouter(t)
	c := createCampaign(t, campaigns)
	rid := c.Targets[0].ID
	clickTarget(t, router, c, rid)

	// Answer every question correctly using the bank's key.
	bank := quiz.DefaultBank()
	qz := bank.QuizFor(c.ID, 3)
	answers := map[string]int{}
	for _, q := range qz.Questions {
		answers[q.ID] = q.CorrectAnswer
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"campaign_id": c.ID, "recipient_id": rid, "answers": answers,
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("POST", "/quiz", bytes.NewReader(payload)))
	require.Equal(t, http.StatusOK, rr.Code)

	var res quizResultView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, 3, res.Score)
	require.Equal(t, 3, res.MaxScore)
	require.Equal(t, string(domain.TargetCompletedQuiz), res.Status)
	require.Len(t, res.Explanations, 3)

	// A second submission conflicts.
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("POST", "/quiz", bytes.NewReader(payload)))
	require.Equal(t, http.StatusConflict, rr.Code)
}

func TestSubmitQuizBeforeClick(t *testing.T) {
	router, campaigns := newTestRouter(t)
	c := createCampaign(t, campaigns)
	payload, _ := json.Marshal(map[string]interface{}{
		"campaign_id": c.ID, "recipient_id": c.Targets[0].ID,
		"answers": map[string]int{},
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("POST", "/quiz", bytes.NewReader(payload)))
	require.Equal(t, http.StatusConflict, rr.Code)
}

func TestCreateCampaignEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	payload := `{"name":"drill","company_info":{"name":"Acme"},"scenario_info":{"type":"invoice"},"targets":["x@example.com"]}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("POST", "/api/campaigns", bytes.NewReader([]byte(payload))))
	require.Equal(t, http.StatusCreated, rr.Code)

	var c domain.Campaign
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &c))
	require.NotEmpty(t, c.ID)
	require.Contains(t, c.Targets[0].TrackURL, "sig=")
}

func TestCreateCampaignNoTargets(t *testing.T) {
	router, _ := newTestRouter(t)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("POST", "/api/campaigns",
		bytes.NewReader([]byte(`{"name":"empty","targets":[]}`))))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCampaignStatisticsEndpoint(t *testing.T) {
	router, campaigns := newTestRouter(t)
	c := createCampaign(t, campaigns)
	require.NoError(t, campaigns.MarkSent(context.Background(), c.ID, c.Targets[0].ID, "m1"))
	clickTarget(t, router, c, c.Targets[0].ID)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/campaigns/"+c.ID+"/statistics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var stats campaign.Statistics
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	require.Equal(t, 2, stats.TotalTargets)
	require.Equal(t, float64(1), stats.ClickRate)
}

func TestPreviewEmailEndpoint(t *testing.T) {
	router, campaigns := newTestRouter(t)
	c := createCampaign(t, campaigns)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/campaigns/"+c.ID+"/preview/"+c.Targets[0].ID, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Acme")
}

func TestMarkSentEndpointConflict(t *testing.T) {
	router, campaigns := newTestRouter(t)
	c := createCampaign(t, campaigns)
	rid := c.Targets[0].ID
	url := "/api/campaigns/" + c.ID + "/targets/" + rid + "/sent"
	body := `{"message_id":"m1"}`

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("POST", url, bytes.NewReader([]byte(body))))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("POST", url, bytes.NewReader([]byte(body))))
	require.Equal(t, http.StatusConflict, rr.Code)
}

func TestDeleteCampaignEndpoint(t *testing.T) {
	router, campaigns := newTestRouter(t)
	c := createCampaign(t, campaigns)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("DELETE", "/api/campaigns/"+c.ID, nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/campaigns/"+c.ID, nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCloneCampaignEndpoint(t *testing.T) {
	router, campaigns := newTestRouter(t)
	c := createCampaign(t, campaigns)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("POST", "/api/campaigns/"+c.ID+"/clone", nil))
	require.Equal(t, http.StatusCreated, rr.Code)

	var clone domain.Campaign
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &clone))
	require.Equal(t, "drill (Clone)", clone.Name)
	require.NotEqual(t, c.ID, clone.ID)
}
