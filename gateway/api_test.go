package gateway

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TykTechnologies/kvrouter/config"
	"github.com/TykTechnologies/kvrouter/storage"
)

func TestSetHandler_Outcomes(t *testing.T) {
	h := testGateway(t).Handler()

	res := postForm(t, h, "key=abc&value=xyz")
	assert.Equal(t, http.StatusCreated, res.Code)
	assert.JSONEq(t, `{"msg":"created key:value 'abc':'xyz'"}`, res.Body)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	res = postForm(t, h, "key=abc&value=uvw")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"msg":"updated key:value 'abc':'uvw'"}`, res.Body)

	res = postForm(t, h, "key=abc&value=uvw")
	assert.Equal(t, http.StatusNotModified, res.Code)
	assert.Empty(t, res.Body)

	res = get(t, h, "/get/abc")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"value":"uvw"}`, res.Body)
}

func TestSetHandler_JSONBody(t *testing.T) {
	h := testGateway(t).Handler()

	res := do(t, h, http.MethodPost, "/set", strings.NewReader(`{"key":"abc","value":"xyz"}`), "application/json; charset=utf-8")
	assert.Equal(t, http.StatusCreated, res.Code)
	assert.JSONEq(t, `{"msg":"created key:value 'abc':'xyz'"}`, res.Body)
}

func TestSetHandler_JSONTrailingWhitespace(t *testing.T) {
	h := testGateway(t).Handler()

	res := do(t, h, http.MethodPost, "/set", strings.NewReader("{\"key\":\"abc\",\"value\":\"xyz\"}\n"), "application/json")
	assert.Equal(t, http.StatusCreated, res.Code)
}

func TestSetHandler_Multipart(t *testing.T) {
	h := testGateway(t).Handler()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("key", "abc"))
	require.NoError(t, mw.WriteField("value", "xyz"))
	require.NoError(t, mw.Close())

	res := do(t, h, http.MethodPost, "/set", body, mw.FormDataContentType())
	assert.Equal(t, http.StatusCreated, res.Code)
}

func TestSetHandler_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		msg         string
	}{
		{
			name:        "invalid key",
			body:        "key=ABC&value=xyz",
			contentType: "application/x-www-form-urlencoded",
			msg:         "invalid key 'ABC'",
		},
		{
			name:        "missing key",
			body:        "value=xyz",
			contentType: "application/x-www-form-urlencoded",
			msg:         "invalid key ''",
		},
		{
			name:        "invalid value",
			body:        "key=abc&value=x_y",
			contentType: "application/x-www-form-urlencoded",
			msg:         "invalid value 'x_y'",
		},
		{
			name:        "missing value",
			body:        "key=abc",
			contentType: "application/x-www-form-urlencoded",
			msg:         "invalid value ''",
		},
		{
			name:        "both invalid reports key",
			body:        "key=A&value=B",
			contentType: "application/x-www-form-urlencoded",
			msg:         "invalid key 'A'",
		},
		{
			name:        "json missing fields",
			body:        `{}`,
			contentType: "application/json",
			msg:         "invalid key ''",
		},
		{
			name:        "trailing data after json",
			body:        `{"key":"abc","value":"xyz"}xyz`,
			contentType: "application/json",
			msg:         "invalid request body",
		},
		{
			name:        "two json objects",
			body:        `{"key":"abc","value":"xyz"} {"key":"abd","value":"xyz"}`,
			contentType: "application/json",
			msg:         "invalid request body",
		},
		{
			name:        "malformed json",
			body:        `{"key":`,
			contentType: "application/json",
			msg:         "invalid request body",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gw := testGateway(t)

			res := do(t, gw.Handler(), http.MethodPost, "/set", strings.NewReader(tc.body), tc.contentType)
			assert.Equal(t, http.StatusBadRequest, res.Code)
			assert.Equal(t, tc.msg, res.decode(t)["msg"])

			size, err := gw.backends.Write.Size(context.Background())
			require.NoError(t, err)
			assert.Zero(t, size, "rejected input must not reach the backend")
		})
	}
}

func TestSetHandler_BodyTooLarge(t *testing.T) {
	h := testGateway(t, func(c *config.Config) {
		c.MaxRequestBodySize = 16
	}).Handler()

	res := postForm(t, h, "key=abc&value="+strings.Repeat("x", 64))
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.JSONEq(t, `{"msg":"invalid request body"}`, res.Body)
}

func TestGetHandler(t *testing.T) {
	h := testGateway(t).Handler()

	res := get(t, h, "/get/nope")
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.JSONEq(t, `{"msg":"key not found 'nope'"}`, res.Body)

	res = get(t, h, "/get/ABC")
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.JSONEq(t, `{"msg":"invalid key 'ABC'"}`, res.Body)

	postForm(t, h, "key=abc&value=xyz")
	for i := 0; i < 3; i++ {
		res = get(t, h, "/get/abc")
		assert.Equal(t, http.StatusOK, res.Code)
		assert.JSONEq(t, `{"value":"xyz"}`, res.Body)
	}
}

func TestSearchHandler(t *testing.T) {
	gw := testGateway(t)
	h := gw.Handler()
	for _, k := range []string{"abc", "abd", "xyz", "xcd"} {
		_, _, err := gw.backends.Write.SetGet(context.Background(), k, "v")
		require.NoError(t, err)
	}

	t.Run("prefix", func(t *testing.T) {
		res := get(t, h, "/search?prefix=ab")
		require.Equal(t, http.StatusOK, res.Code)

		body := res.decode(t)
		assert.NotContains(t, body, "msg")
		results := body["results"].(map[string]interface{})
		assert.ElementsMatch(t, []interface{}{"abc", "abd"}, results["prefix"])
		assert.NotContains(t, results, "suffix")
	})

	t.Run("prefix and suffix", func(t *testing.T) {
		res := get(t, h, "/search?prefix=x&suffix=d")
		require.Equal(t, http.StatusOK, res.Code)

		results := res.decode(t)["results"].(map[string]interface{})
		assert.ElementsMatch(t, []interface{}{"xyz", "xcd"}, results["prefix"])
		assert.ElementsMatch(t, []interface{}{"abd", "xcd"}, results["suffix"])
	})

	t.Run("no params", func(t *testing.T) {
		res := get(t, h, "/search")
		assert.Equal(t, http.StatusBadRequest, res.Code)
		assert.JSONEq(t, `{"msg":"no search params"}`, res.Body)
	})

	t.Run("no usable predicate", func(t *testing.T) {
		res := get(t, h, "/search?prefix=AB")
		assert.Equal(t, http.StatusBadRequest, res.Code)
		assert.JSONEq(t, `{"msg":"no usable search params: invalid prefix"}`, res.Body)
	})

	t.Run("graceful degrade", func(t *testing.T) {
		res := get(t, h, "/search?prefix=AB&suffix=cd")
		require.Equal(t, http.StatusOK, res.Code)

		body := res.decode(t)
		assert.Equal(t, "invalid prefix", body["msg"])
		results := body["results"].(map[string]interface{})
		assert.Equal(t, []interface{}{"xcd"}, results["suffix"])
		assert.NotContains(t, results, "prefix")
	})
}

func TestSearchHandler_EmptyKeyspace(t *testing.T) {
	h := testGateway(t).Handler()

	res := get(t, h, "/search?prefix=ab&suffix=cd")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"results":{"prefix":[],"suffix":[]}}`, res.Body)
}

func TestBackendErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{
			name: "connection refused",
			err:  errString("dial tcp 10.0.0.1:6379: connect: connection refused"),
			code: http.StatusBadGateway,
			msg:  "backend error: connection_refused",
		},
		{
			name: "timeout",
			err:  context.DeadlineExceeded,
			code: http.StatusGatewayTimeout,
			msg:  "backend error: context_deadline_exceeded",
		},
		{
			name: "generic",
			err:  errString("ERR unknown command"),
			code: http.StatusBadGateway,
			msg:  "backend error: backend_error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := newFailingBackend(tc.err)
			gw := NewGateway(testConfig(t), &storage.Backends{Write: b, Read: b})
			h := gw.Handler()

			for _, res := range []testResponse{
				postForm(t, h, "key=abc&value=xyz"),
				get(t, h, "/get/abc"),
				get(t, h, "/search?prefix=ab"),
			} {
				assert.Equal(t, tc.code, res.Code)
				assert.Equal(t, tc.msg, res.decode(t)["msg"])
				assert.NotContains(t, res.Body, "10.0.0.1", "raw backend errors must not be echoed")
			}
		})
	}
}

func TestRouting(t *testing.T) {
	h := testGateway(t).Handler()

	res := get(t, h, "/set")
	assert.Equal(t, http.StatusMethodNotAllowed, res.Code)

	res = get(t, h, "/delete/abc")
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = get(t, h, "/get/")
	assert.Equal(t, http.StatusNotFound, res.Code)
}

type errString string

func (e errString) Error() string { return string(e) }
