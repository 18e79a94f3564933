package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/modelgraph/internal/datasource"
	"github.com/matsen/modelgraph/internal/entity"
	"github.com/matsen/modelgraph/internal/gate"
	"github.com/matsen/modelgraph/internal/metrics"
	"github.com/matsen/modelgraph/internal/viz"
)

// tableSource serves fixed tables.
type tableSource struct {
	entities []entity.Entity
	rels     []entity.Relationship
}

func (t *tableSource) Entities() ([]entity.Entity, error)            { return t.entities, nil }
func (t *tableSource) Relationships() ([]entity.Relationship, error) { return t.rels, nil }

// newTestServer starts a server over src with a throwaway temp dir.
func newTestServer(t *testing.T, src datasource.Source, mutate func(*Options)) (*httptest.Server, *Server) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	opts := Options{
		Source:     src,
		Renderer:   viz.NewRenderer(t.TempDir(), logger),
		Metrics:    metrics.NewRegistry(),
		Logger:     logger,
		SessionTTL: time.Hour,
	}
	if mutate != nil {
		mutate(&opts)
	}
	srv := NewServer(opts)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, srv
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func get(t *testing.T, c *http.Client, u string) (int, string) {
	t.Helper()
	resp, err := c.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func post(t *testing.T, c *http.Client, u string, form url.Values) (int, string) {
	t.Helper()
	resp, err := c.PostForm(u, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func login(t *testing.T, c *http.Client, base, password string) string {
	t.Helper()
	status, body := post(t, c, base+"/login", url.Values{"password": {password}})
	require.Equal(t, http.StatusOK, status)
	return body
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t, nil, nil)
	status, body := get(t, newClient(t), ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestIndex_Unverified(t *testing.T) {
	ts, _ := newTestServer(t, nil, nil)
	status, body := get(t, newClient(t), ts.URL+"/")

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `type="password"`)
	assert.NotContains(t, body, msgPasswordIncorrect)
	assert.NotContains(t, body, "<iframe")
}

func TestLogin_Rejected(t *testing.T) {
	ts, _ := newTestServer(t, nil, nil)
	c := newClient(t)

	body := login(t, c, ts.URL, "wrong")
	assert.Contains(t, body, msgPasswordIncorrect)
	assert.Contains(t, body, `type="password"`)
	assert.NotContains(t, body, "Refresh Graph")

	status, _ := get(t, c, ts.URL+"/graph")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLogin_AcceptedAfterRejection(t *testing.T) {
	ts, srv := newTestServer(t, nil, nil)
	c := newClient(t)

	login(t, c, ts.URL, "wrong")
	body := login(t, c, ts.URL, gate.DefaultPassword)

	assert.Contains(t, body, "Data Model : System Management")
	assert.Contains(t, body, "Refresh Graph")
	assert.Contains(t, body, `src="/graph?v=0"`)
	assert.Contains(t, body, `height="900"`)
	assert.NotContains(t, body, msgPasswordIncorrect)

	assert.Equal(t, 1.0, testutil.ToFloat64(srv.metrics.LoginAttemptsTotal.WithLabelValues(metrics.LoginRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.metrics.LoginAttemptsTotal.WithLabelValues(metrics.LoginAccepted)))
}

func TestSessionsAreIndependent(t *testing.T) {
	ts, _ := newTestServer(t, nil, nil)
	alice, bob := newClient(t), newClient(t)

	login(t, alice, ts.URL, gate.DefaultPassword)

	status, _ := get(t, bob, ts.URL+"/graph")
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = get(t, alice, ts.URL+"/graph")
	assert.Equal(t, http.StatusOK, status)
}

func TestGraph_ServesDocument(t *testing.T) {
	ts, _ := newTestServer(t, nil, nil)
	c := newClient(t)
	login(t, c, ts.URL, gate.DefaultPassword)

	status, body := get(t, c, ts.URL+"/graph?v=0")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "vis.Network")
	assert.Contains(t, body, datasource.RootEntity)
	assert.Equal(t, 1, strings.Count(body, `id="modelgraph-fullscreen"`))
}

func TestGraph_CachedUntilRefresh(t *testing.T) {
	ts, srv := newTestServer(t, nil, nil)
	c := newClient(t)
	login(t, c, ts.URL, gate.DefaultPassword) // renders once for the page

	get(t, c, ts.URL+"/graph?v=0")
	get(t, c, ts.URL+"/graph?v=0")

	renders := srv.metrics.RendersTotal.WithLabelValues(metrics.ResultSuccess)
	assert.Equal(t, 1.0, testutil.ToFloat64(renders))
	assert.Equal(t, 2.0, testutil.ToFloat64(srv.metrics.RenderCacheHits))

	status, body := post(t, c, ts.URL+"/refresh", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `src="/graph?v=1"`)
	assert.Equal(t, 2.0, testutil.ToFloat64(renders))
	assert.Equal(t, uint64(1), srv.cache.Generation())

	_, body = post(t, c, ts.URL+"/refresh", nil)
	assert.Contains(t, body, `src="/graph?v=2"`)
}

func TestRefresh_RequiresAuthentication(t *testing.T) {
	ts, srv := newTestServer(t, nil, nil)
	status, _ := post(t, newClient(t), ts.URL+"/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, uint64(0), srv.cache.Generation())
}

func TestIndex_RenderErrorIsShownNotFatal(t *testing.T) {
	src := &tableSource{
		entities: []entity.Entity{{Name: "A"}},
		rels:     []entity.Relationship{{Source: "A", Target: "Z"}},
	}
	ts, srv := newTestServer(t, src, nil)
	c := newClient(t)

	body := login(t, c, ts.URL, gate.DefaultPassword)
	assert.Contains(t, body, msgRenderFailed)
	assert.Contains(t, body, `&#34;Z&#34;`)
	assert.NotContains(t, body, "<iframe")
	assert.Contains(t, body, "Refresh Graph")

	status, graphBody := get(t, c, ts.URL+"/graph")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.True(t, strings.HasPrefix(graphBody, msgRenderFailed))

	// The process keeps serving; fixing the data and refreshing recovers.
	src.rels = []entity.Relationship{{Source: "A", Target: "A"}}
	_, body = post(t, c, ts.URL+"/refresh", nil)
	assert.Contains(t, body, `src="/graph?v=1"`)
	assert.NotContains(t, body, msgRenderFailed)

	assert.GreaterOrEqual(t, testutil.ToFloat64(srv.metrics.RendersTotal.WithLabelValues(metrics.ResultError)), 1.0)
}

func TestLogin_RateLimited(t *testing.T) {
	ts, srv := newTestServer(t, nil, func(o *Options) {
		o.LoginRate = 0.001
		o.LoginBurst = 1
	})
	c := newClient(t)

	login(t, c, ts.URL, "wrong")
	status, _ := post(t, c, ts.URL+"/login", url.Values{"password": {gate.DefaultPassword}})
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.metrics.LoginAttemptsTotal.WithLabelValues(metrics.LoginThrottled)))

	status, _ = get(t, c, ts.URL+"/graph")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, nil, nil)
	c := newClient(t)
	login(t, c, ts.URL, gate.DefaultPassword)

	status, body := get(t, c, ts.URL+"/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "modelgraph_renders_total")
	assert.Contains(t, body, "modelgraph_graph_nodes 28")
}

func TestActiveSessionsGaugeDropsExpired(t *testing.T) {
	ts, srv := newTestServer(t, nil, nil)
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	srv.sessions.now = clock.Now

	alice, bob := newClient(t), newClient(t)
	get(t, alice, ts.URL+"/")
	get(t, bob, ts.URL+"/")
	assert.Equal(t, 2.0, testutil.ToFloat64(srv.metrics.ActiveSessions))

	clock.Advance(2 * time.Hour)
	_, body := get(t, newClient(t), ts.URL+"/metrics")
	assert.Contains(t, body, "modelgraph_active_sessions 0")
	assert.Equal(t, 0, srv.sessions.Len())
}

func TestCustomViewport(t *testing.T) {
	view := viz.DefaultOptions()
	view.Height = 640
	view.Width = "1200px"
	ts, _ := newTestServer(t, nil, func(o *Options) { o.View = view })
	c := newClient(t)

	body := login(t, c, ts.URL, gate.DefaultPassword)
	assert.Contains(t, body, `height="640"`)
	assert.Contains(t, body, `width="1200px"`)
}

func TestShutdown(t *testing.T) {
	_, srv := newTestServer(t, nil, nil)
	httpSrv := &http.Server{Addr: "127.0.0.1:0", Handler: srv.Handler()}
	assert.NoError(t, Shutdown(httpSrv, time.Second))
}
