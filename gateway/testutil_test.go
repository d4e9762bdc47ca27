package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/TykTechnologies/kvrouter/config"
	"github.com/TykTechnologies/kvrouter/storage"
)

// failingBackend fails every call with err.
type failingBackend struct {
	*storage.MemoryBackend
	err error
}

func newFailingBackend(err error) *failingBackend {
	return &failingBackend{MemoryBackend: storage.NewMemoryBackend(), err: err}
}

func (f *failingBackend) Addr() string { return "redis:6379" }

func (f *failingBackend) Ping(context.Context) error { return f.err }

func (f *failingBackend) Get(context.Context, string) (string, error) { return "", f.err }

func (f *failingBackend) SetGet(context.Context, string, string) (string, bool, error) {
	return "", false, f.err
}

func (f *failingBackend) Scan(context.Context, func(string) error) error { return f.err }

func (f *failingBackend) Size(context.Context) (int64, error) { return 0, f.err }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	conf, err := config.NewDefaultWithEnv()
	require.NoError(t, err)
	conf.Storage.Type = config.StorageMemory
	return conf
}

func memoryBackends() *storage.Backends {
	m := storage.NewMemoryBackend()
	return &storage.Backends{Write: m, Read: m}
}

// testGateway starts a gateway over an in-memory backend.
func testGateway(t *testing.T, mutate ...func(*config.Config)) *Gateway {
	t.Helper()
	conf := testConfig(t)
	for _, m := range mutate {
		m(conf)
	}
	return NewGateway(conf, memoryBackends())
}

type testResponse struct {
	Code   int
	Header http.Header
	Body   string
}

func (r testResponse) decode(t *testing.T) map[string]interface{} {
	t.Helper()
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(r.Body), &out), r.Body)
	return out
}

func do(t *testing.T, h http.Handler, method, target string, body io.Reader, contentType string) testResponse {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return testResponse{Code: rec.Code, Header: rec.Header(), Body: rec.Body.String()}
}

func get(t *testing.T, h http.Handler, target string) testResponse {
	t.Helper()
	return do(t, h, http.MethodGet, target, nil, "")
}

func postForm(t *testing.T, h http.Handler, form string) testResponse {
	t.Helper()
	return do(t, h, http.MethodPost, "/set", strings.NewReader(form), "application/x-www-form-urlencoded")
}
