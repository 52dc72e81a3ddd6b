package recordapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnquest/internal/achievement"
	"github.com/abhisek/learnquest/internal/config"
	"github.com/abhisek/learnquest/internal/store"
)

type record struct {
	ID    int    `json:"Id"`
	Skill string `json:"skill"`
	Level int    `json:"level"`
}

// rejectingBackend fails updates of selected ids, or whole calls.
type rejectingBackend struct {
	*store.Memory
	rejectID  int
	failWhole bool
}

func (b *rejectingBackend) Update(ctx context.Context, coll string, records []json.RawMessage) ([]store.ItemResult, error) {
	if b.failWhole {
		return nil, errors.New("disk full")
	}
	out := make([]store.ItemResult, len(records))
	for i, raw := range records {
		var r record
		_ = json.Unmarshal(raw, &r)
		if r.ID == b.rejectID {
			out[i] = store.ItemResult{Message: "write conflict"}
			continue
		}
		res, err := b.Memory.Update(ctx, coll, []json.RawMessage{raw})
		if err != nil {
			return nil, err
		}
		out[i] = res[0]
	}
	return out, nil
}

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{AllowedOrigins: []string{"*"}}
}

func newTestClient(t *testing.T, backend store.Backend) (*Client, *Server) {
	t.Helper()
	srv := NewServer(backend, testServerConfig(), nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c, err := NewClient(ts.URL, WithHTTPClient(ts.Client()))
	require.NoError(t, err)
	return c, srv
}

func TestClientRoundTrip(t *testing.T) {
	c, _ := newTestClient(t, store.NewMemory())
	ctx := context.Background()
	coll := store.NewCollection[record](c, store.Challenges)

	created, err := coll.Create(ctx,
		record{Skill: "addition", Level: 1},
		record{Skill: "rhyming", Level: 2},
		record{Skill: "addition", Level: 3},
	)
	require.NoError(t, err)
	require.Len(t, created, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{created[0].ID, created[1].ID, created[2].ID})

	got, err := coll.Fetch(ctx, store.Query{
		Where:   []store.Condition{store.Eq("skill", "addition")},
		OrderBy: []store.Order{{Field: "level", Desc: true}},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].ID)

	one, err := coll.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "rhyming", one.Skill)

	updated, err := coll.Update(ctx, record{ID: 2, Skill: "rhyming", Level: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, updated[0].Level)

	require.NoError(t, coll.Delete(ctx, 1))
	_, err = coll.Get(ctx, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)

	all, err := coll.Fetch(ctx, store.Query{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestClientErrorsMapToSentinels(t *testing.T) {
	c, _ := newTestClient(t, store.NewMemory())
	ctx := context.Background()

	_, err := c.Fetch(ctx, "gems", store.Query{})
	assert.ErrorIs(t, err, store.ErrUnknownCollection)

	_, err = c.Fetch(ctx, store.Sessions, store.Query{Limit: -1})
	assert.ErrorIs(t, err, store.ErrInvalidQuery)

	_, err = c.FetchByID(ctx, store.Sessions, 42)
	assert.ErrorIs(t, err, store.ErrNotFound)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestClientPartialBatchFailure(t *testing.T) {
	backend := &rejectingBackend{Memory: store.NewMemory(), rejectID: 5}
	c, srv := newTestClient(t, backend)
	ctx := context.Background()

	recs := store.NewCollection[achievement.Achievement](c, store.Achievements)
	_, err := achievement.NewCatalog(recs).Seed(ctx)
	require.NoError(t, err)

	avg := 3.0
	unlocked, err := achievement.NewEvaluator(recs).Check(ctx, achievement.Stats{AverageTime: &avg, Accuracy: 100, IsTimed: true})
	var be *store.BatchError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, []int{5}, be.FailedIDs())

	ids := make([]int, len(unlocked))
	for i, a := range unlocked {
		ids[i] = a.ID
	}
	assert.Equal(t, []int{1, 4}, ids)

	families, err := srv.Metrics().Registry().Gather()
	require.NoError(t, err)
	var failures float64
	for _, f := range families {
		if f.GetName() == "learnquest_recordapi_item_failures_total" {
			for _, m := range f.GetMetric() {
				failures += m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, failures)
}

func TestClientWholeBatchFailure(t *testing.T) {
	backend := &rejectingBackend{Memory: store.NewMemory(), failWhole: true}
	c, _ := newTestClient(t, backend)
	ctx := context.Background()

	coll := store.NewCollection[record](c, store.Progress)
	_, err := coll.Create(ctx, record{Skill: "x"})
	require.NoError(t, err)

	_, err = coll.Update(ctx, record{ID: 1, Skill: "y"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, CodeInternal, apiErr.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := NewServer(store.NewMemory(), testServerConfig(), nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	var env Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), `learnquest_recordapi_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestRequestValidation(t *testing.T) {
	srv := NewServer(store.NewMemory(), testServerConfig(), nil)
	h := srv.Handler()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"bad json", http.MethodPost, "/api/v1/records/sessions", "{", http.StatusBadRequest, CodeBadRequest},
		{"empty records", http.MethodPost, "/api/v1/records/sessions", `{"records":[]}`, http.StatusBadRequest, CodeBadRequest},
		{"unknown field", http.MethodPut, "/api/v1/records/sessions", `{"rows":[{}]}`, http.StatusBadRequest, CodeBadRequest},
		{"bad id", http.MethodGet, "/api/v1/records/sessions/abc", "", http.StatusBadRequest, CodeBadRequest},
		{"empty delete", http.MethodDelete, "/api/v1/records/sessions", `{"recordIds":[]}`, http.StatusBadRequest, CodeBadRequest},
		{"unknown collection", http.MethodPost, "/api/v1/records/users/query", `{}`, http.StatusNotFound, CodeUnknownCollection},
		{"bad operator", http.MethodPost, "/api/v1/records/sessions/query", `{"where":[{"field":"x","op":"like","value":1}]}`, http.StatusBadRequest, CodeInvalidQuery},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			var env Envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.False(t, env.Success)
			assert.Equal(t, tt.code, env.Code)
		})
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testServerConfig()
	cfg.RateLimit = 0.001
	cfg.RateBurst = 1
	h := NewServer(store.NewMemory(), cfg, nil).Handler()

	do := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/records/progress/query", strings.NewReader(`{}`)))
		return rec
	}
	assert.Equal(t, http.StatusOK, do().Code)
	rec := do()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), CodeRateLimited)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	cfg := testServerConfig()
	cfg.Addr = "127.0.0.1:0"
	cfg.ShutdownTimeout = time.Second
	srv := NewServer(store.NewMemory(), cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNewClientRejectsBadURL(t *testing.T) {
	for _, u := range []string{"", "localhost:8080", "ftp://host", "http://"} {
		_, err := NewClient(u)
		assert.Error(t, err, u)
	}
}
