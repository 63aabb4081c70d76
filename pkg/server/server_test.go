package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gtreader/internal/testutil"
	"github.com/matzehuels/gtreader/pkg/catalog"
	"github.com/matzehuels/gtreader/pkg/errors"
	"github.com/matzehuels/gtreader/pkg/observability"
	"github.com/matzehuels/gtreader/pkg/pipeline"
)

func newTestServer(t *testing.T, cfg Config) (*Server, *httptest.Server) {
	t.Helper()
	runner := pipeline.NewRunner(nil, nil, nil)
	runner.Catalog = catalog.NewMemoryStore()
	s := New(runner, nil, cfg)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func upload(t *testing.T, ts *httptest.Server, body []byte) string {
	t.Helper()
	resp, err := http.Post(ts.URL+"/graphs", "application/octet-stream", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.ID)
	return out.ID
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestCreateAndQuery(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	id := upload(t, ts, testutil.Zstd(t, testutil.Sample()))
	base := ts.URL + "/graphs/" + id

	var summary struct {
		ID      string `json:"id"`
		Source  string `json:"source"`
		Summary struct {
			Directed    bool   `json:"directed"`
			VertexCount uint64 `json:"vertex_count"`
			EdgeCount   uint64 `json:"edge_count"`
		} `json:"summary"`
	}
	assert.Equal(t, http.StatusOK, getJSON(t, base, &summary))
	assert.Equal(t, id, summary.ID)
	assert.Equal(t, "upload", summary.Source)
	assert.True(t, summary.Summary.Directed)
	assert.Equal(t, uint64(3), summary.Summary.VertexCount)
	assert.Equal(t, uint64(4), summary.Summary.EdgeCount)

	var edges struct {
		Edges []struct{ Source, Target uint64 } `json:"edges"`
	}
	assert.Equal(t, http.StatusOK, getJSON(t, base+"/edges", &edges))
	assert.Len(t, edges.Edges, 4)

	var ns struct {
		Neighbors []uint64 `json:"neighbors"`
	}
	assert.Equal(t, http.StatusOK, getJSON(t, base+"/vertices/0/out", &ns))
	assert.Equal(t, []uint64{1, 2}, ns.Neighbors)
	assert.Equal(t, http.StatusOK, getJSON(t, base+"/vertices/2/in", &ns))
	assert.Equal(t, []uint64{0, 1}, ns.Neighbors)

	var props struct {
		Properties []struct{ Name string } `json:"properties"`
	}
	assert.Equal(t, http.StatusOK, getJSON(t, base+"/properties?map=vertex", &props))
	assert.Len(t, props.Properties, 2)

	var prop struct {
		Values []any `json:"values"`
	}
	assert.Equal(t, http.StatusOK, getJSON(t, base+"/properties/weight?map=edge", &prop))
	assert.Equal(t, []any{10.0, 20.0, 30.0, 40.0}, prop.Values)
	assert.Equal(t, http.StatusOK, getJSON(t, base+"/properties/name", &prop))
	assert.Equal(t, []any{"a", "b", "c"}, prop.Values)
}

func TestErrorStatuses(t *testing.T) {
	_, ts := newTestServer(t, Config{MaxUploadBytes: 1024})
	id := upload(t, ts, testutil.Sample())
	base := ts.URL + "/graphs/" + id

	tests := []struct {
		name   string
		url    string
		status int
		code   errors.Code
	}{
		{"unknown graph", ts.URL + "/graphs/nope", http.StatusNotFound, errors.ErrCodeNotFound},
		{"vertex out of range", base + "/vertices/3/out", http.StatusNotFound, errors.ErrCodeNotFound},
		{"bad vertex", base + "/vertices/x/in", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad map", base + "/properties?map=face", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"missing property", base + "/properties/weight?map=graph", http.StatusNotFound, errors.ErrCodeNotFound},
		{"bad format", base + "/export?format=pdf", http.StatusBadRequest, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body errorBody
			assert.Equal(t, tt.status, getJSON(t, tt.url, &body))
			assert.Equal(t, string(tt.code), body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestCreateErrors(t *testing.T) {
	_, ts := newTestServer(t, Config{MaxUploadBytes: 64})

	tests := []struct {
		name   string
		query  string
		body   []byte
		status int
	}{
		{"empty body", "", nil, http.StatusBadRequest},
		{"too large", "", bytes.Repeat([]byte{0}, 65), http.StatusRequestEntityTooLarge},
		{"malformed", "", []byte("definitely not a gt file"), http.StatusUnprocessableEntity},
		{"gzip", "", []byte{0x1F, 0x8B, 0x08, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, http.StatusUnsupportedMediaType},
		{"local path", "?source=/etc/passwd", nil, http.StatusBadRequest},
		{"bad strict", "?strict=maybe", testutil.Example(), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/graphs"+tt.query, "application/octet-stream", bytes.NewReader(tt.body))
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestCreateFromURL(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(testutil.Example())
	}))
	defer origin.Close()

	_, ts := newTestServer(t, Config{})
	resp, err := http.Post(ts.URL+"/graphs?source="+origin.URL+"/g.gt", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var catalogBody struct {
		Records []catalog.Record `json:"records"`
	}
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/catalog", &catalogBody))
	require.Len(t, catalogBody.Records, 1)
	assert.Equal(t, origin.URL+"/g.gt", catalogBody.Records[0].Ref)
}

func TestDeleteAndList(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	a := upload(t, ts, testutil.Example())
	b := upload(t, ts, testutil.Sample())

	var list struct {
		Graphs []struct{ ID string } `json:"graphs"`
	}
	getJSON(t, ts.URL+"/graphs", &list)
	require.Len(t, list.Graphs, 2)
	assert.Equal(t, a, list.Graphs[0].ID)

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/graphs/"+a, nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	getJSON(t, ts.URL+"/graphs", &list)
	require.Len(t, list.Graphs, 1)
	assert.Equal(t, b, list.Graphs[0].ID)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegistryEviction(t *testing.T) {
	s, ts := newTestServer(t, Config{MaxGraphs: 2})
	first := upload(t, ts, testutil.Example())
	upload(t, ts, testutil.Example())
	upload(t, ts, testutil.Example())

	assert.Equal(t, 2, s.reg.len())
	_, ok := s.reg.get(first)
	assert.False(t, ok, "oldest graph should be evicted")
}

func TestExport(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	id := upload(t, ts, testutil.Sample())

	resp, err := http.Get(ts.URL + "/graphs/" + id + "/export?format=dot&vertex_label=name")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/vnd.graphviz", resp.Header.Get("Content-Type"))

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	assert.True(t, strings.HasPrefix(buf.String(), "digraph"))
	assert.Contains(t, buf.String(), `[label="c"]`)
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	upload(t, ts, testutil.Example())

	var body struct {
		Status string `json:"status"`
		Graphs int    `json:"graphs"`
	}
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/healthz", &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 1, body.Graphs)
}

type recordingServerHooks struct {
	mu     sync.Mutex
	routes []string
}

func (h *recordingServerHooks) OnServerRequest(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, fmt.Sprintf("%s %s %d", method, route, status))
}

func (h *recordingServerHooks) has(route string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Contains(h.routes, route)
}

func TestServerHooksUseRoutePattern(t *testing.T) {
	t.Cleanup(observability.Reset)
	hooks := &recordingServerHooks{}
	observability.SetServerHooks(hooks)

	_, ts := newTestServer(t, Config{})
	id := upload(t, ts, testutil.Sample())
	getJSON(t, ts.URL+"/graphs/"+id+"/vertices/1/out", nil)

	assert.Eventually(t, func() bool {
		return hooks.has("GET /graphs/{id}/vertices/{v}/out 200")
	}, time.Second, 5*time.Millisecond)
}

func TestMetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# metrics\n"))
	})
	_, ts := newTestServer(t, Config{Metrics: metrics})

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServeShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(pipeline.NewRunner(nil, nil, nil), nil, Config{ShutdownTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(errors.ErrCodeMalformedProperty))
	assert.Equal(t, http.StatusBadGateway, statusFor(errors.ErrCodeNetwork))
	assert.Equal(t, http.StatusInternalServerError, statusFor(""))
}
