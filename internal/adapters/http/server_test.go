package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envrisk/internal/domain"
	"envrisk/internal/ports"
	"envrisk/internal/services/assessments"
	"envrisk/internal/thresholds"
)

// memStore is an in-memory stand-in for the Postgres adapter.
type memStore struct {
	mu          sync.Mutex
	sites       map[string]domain.Site
	assessments map[string]*domain.Assessment
	jobs        map[string]*memJob
	seq         int
}

type memJob struct {
	id           string
	assessmentID string
	status       string
}

func newMemStore() *memStore {
	return &memStore{
		sites:       make(map[string]domain.Site),
		assessments: make(map[string]*domain.Assessment),
		jobs:        make(map[string]*memJob),
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) CreateSite(_ context.Context, site domain.Site) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	site.ID = m.nextID("site")
	site.CreatedAt = time.Now()
	m.sites[site.ID] = site
	return site.ID, nil
}

func (m *memStore) GetSite(_ context.Context, id string) (domain.Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	site, ok := m.sites[id]
	if !ok {
		return domain.Site{}, ports.ErrNotFound
	}
	return site, nil
}

func (m *memStore) CreateAssessment(_ context.Context, a domain.Assessment) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.nextID("assessment")
	a.CreatedAt = time.Now()
	m.assessments[a.ID] = &a
	jobID := m.nextID("job")
	m.jobs[jobID] = &memJob{id: jobID, assessmentID: a.ID, status: domain.StatusQueued}
	return a.ID, nil
}

func (m *memStore) GetAssessment(_ context.Context, id string) (domain.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assessments[id]
	if !ok {
		return domain.Assessment{}, ports.ErrNotFound
	}
	return *a, nil
}

func (m *memStore) AssessmentStatus(_ context.Context, id string) (string, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assessments[id]
	if !ok {
		return "", 0, ports.ErrNotFound
	}
	return a.Status, a.Progress, nil
}

func (m *memStore) StoreResult(_ context.Context, id string, result []byte, degraded bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assessments[id]
	if !ok {
		return ports.ErrNotFound
	}
	a.Result = result
	a.Degraded = degraded
	return nil
}

func (m *memStore) ClaimNext(context.Context) (ports.AssessmentJob, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.status == domain.StatusQueued {
			j.status = domain.StatusRunning
			m.assessments[j.assessmentID].Status = domain.StatusRunning
			return ports.AssessmentJob{ID: j.id, AssessmentID: j.assessmentID}, true, nil
		}
	}
	return ports.AssessmentJob{}, false, nil
}

func (m *memStore) MarkRunning(_ context.Context, jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if j, ok := m.jobs[jobID]; ok {
		j.status = domain.StatusRunning
	}
	return nil
}

func (m *memStore) UpdateProgress(_ context.Context, assessmentID string, progress float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.assessments[assessmentID]; ok {
		a.Progress = progress
	}
	return nil
}

func (m *memStore) MarkCompleted(_ context.Context, jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[jobID]
	if !ok {
		return ports.ErrNotFound
	}
	j.status = domain.StatusCompleted
	a := m.assessments[j.assessmentID]
	a.Status = domain.StatusCompleted
	a.Progress = 1
	return nil
}

func (m *memStore) MarkFailed(_ context.Context, jobID string, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[jobID]
	if !ok {
		return ports.ErrNotFound
	}
	j.status = domain.StatusFailed
	m.assessments[j.assessmentID].Status = domain.StatusFailed
	return nil
}

func (m *memStore) StartJobForAssessment(_ context.Context, assessmentID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.assessmentID == assessmentID && j.status == domain.StatusQueued {
			j.status = domain.StatusRunning
			m.assessments[assessmentID].Status = domain.StatusRunning
			return j.id, nil
		}
	}
	return "", ports.ErrNotFound
}

func newTestServer(t *testing.T) (*httptest.Server, *memStore) {
	t.Helper()
	logger := slog.Default()
	mem := newMemStore()
	store := thresholds.NewStore("", nil, logger)
	processor := assessments.NewProcessor(mem, mem, mem, nil, store, time.Second, logger)
	svc := assessments.NewService(mem, mem, "default", logger)
	srv := New(svc, mem, processor, logger)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, mem
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode(t, resp)["status"])
}

func TestSiteLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/sites", map[string]any{
		"name": "quarry north", "latitude": 48.8, "longitude": 2.3, "country": "default",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := decode(t, resp)["site_id"].(string)

	got, err := http.Get(ts.URL + "/sites/" + id)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, got.StatusCode)
	assert.Equal(t, "quarry north", decode(t, got)["name"])

	missing, err := http.Get(ts.URL + "/sites/nope")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestCreateSiteValidation(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/sites", map[string]any{"latitude": 48.8, "longitude": 2.3})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/sites", map[string]any{"name": "x", "latitude": 123, "longitude": 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestSnapshotAssessmentInline(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/assessments?wait=true", map[string]any{
		"kind":    "snapshot",
		"country": "default",
		"records": []map[string]any{{"pm25": 5, "pm10": 30}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "completed", body["status"])
	require.Contains(t, body, "result")
}

func TestPhasesAssessmentInline(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/assessments?wait=true", map[string]any{
		"kind":         "phases",
		"project_type": "quarry",
		"measurements": map[string]any{
			"water": map[string]any{
				"pH": map[string]any{"value": 9.5},
			},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "completed", body["status"])

	result := body["result"].(map[string]any)
	synthesis := result["synthesis"].(map[string]any)
	assert.Equal(t, false, synthesis["compliant"])
	assert.Equal(t, "OPERATION", synthesis["most_critical_phase"])
}

func TestAsyncAssessmentAccepted(t *testing.T) {
	ts, mem := newTestServer(t)

	resp := postJSON(t, ts.URL+"/assessments", map[string]any{
		"kind":    "snapshot",
		"records": []map[string]any{{"pm25": 5}},
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	id := decode(t, resp)["assessment_id"].(string)

	status, err := http.Get(ts.URL + "/assessments/" + id)
	require.NoError(t, err)
	assert.Equal(t, "queued", decode(t, status)["status"])

	// result is not available before processing
	conflict, err := http.Get(ts.URL + "/assessments/" + id + "/result")
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, conflict.StatusCode)
	conflict.Body.Close()

	// a job row is waiting for the workers
	job, found, err := mem.ClaimNext(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, id, job.AssessmentID)
}

func TestCreateAssessmentValidation(t *testing.T) {
	ts, _ := newTestServer(t)

	// unknown kind
	resp := postJSON(t, ts.URL+"/assessments", map[string]any{"kind": "banana"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// no input and no collection
	resp = postJSON(t, ts.URL+"/assessments", map[string]any{"kind": "snapshot"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// unknown site
	siteID := "ghost"
	resp = postJSON(t, ts.URL+"/assessments", map[string]any{
		"kind": "snapshot", "site_id": siteID, "records": []map[string]any{{"pm25": 5}},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestReportDownload(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/assessments?wait=true", map[string]any{
		"kind":    "snapshot",
		"records": []map[string]any{{"pm25": 5}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	id := decode(t, resp)["assessment_id"].(string)

	report, err := http.Get(ts.URL + "/assessments/" + id + "/report")
	require.NoError(t, err)
	defer report.Body.Close()
	assert.Equal(t, http.StatusOK, report.StatusCode)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		report.Header.Get("Content-Type"))
}
