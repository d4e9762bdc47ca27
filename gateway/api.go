package gateway

import (
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/TykTechnologies/kvrouter/headers"
	"github.com/TykTechnologies/kvrouter/internal/errors"
	"github.com/TykTechnologies/kvrouter/internal/model"
	"github.com/TykTechnologies/kvrouter/internal/search"
)

// multipart bodies are parsed in memory up to this size, the remainder
// spills to temporary files.
const maxMultipartMemory = 32 << 10

var errTrailingData = errors.New("unexpected data after JSON body")

type apiMsg struct {
	Msg string `json:"msg"`
}

type apiValue struct {
	Value string `json:"value"`
}

type apiSearch struct {
	Msg     string         `json:"msg,omitempty"`
	Results search.Results `json:"results"`
}

type apiSetRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func apiMessage(msg string) apiMsg {
	return apiMsg{Msg: msg}
}

func doJSONWrite(w http.ResponseWriter, code int, obj interface{}) {
	w.Header().Set(headers.ContentType, headers.ApplicationJSON)
	w.Header().Set(headers.XContentTypeOptions, "nosniff")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(obj); err != nil {
		log.WithError(err).Error("Failed to write response")
	}
}

// setHandler stores a key and value taken from a JSON, urlencoded or
// multipart body.
func (gw *Gateway) setHandler(w http.ResponseWriter, r *http.Request) {
	req, err := readSetRequest(r)
	if err != nil {
		gwLog.WithError(err).Debug("Could not read set request")
		doJSONWrite(w, http.StatusBadRequest, apiMessage("invalid request body"))
		return
	}

	outcome, err := gw.kv.Set(r.Context(), req.Key, req.Value)
	if err != nil {
		gw.handleError(w, err)
		return
	}

	msg := fmt.Sprintf("%s key:value '%s':'%s'", outcome, req.Key, req.Value)
	switch outcome {
	case model.Created:
		doJSONWrite(w, http.StatusCreated, apiMessage(msg))
	case model.Updated:
		doJSONWrite(w, http.StatusOK, apiMessage(msg))
	case model.Unchanged:
		// 304 must not carry a body
		gwLog.Debug(msg)
		w.WriteHeader(http.StatusNotModified)
	default:
		gwLog.Errorf("Unexpected set outcome %s", outcome)
		doJSONWrite(w, http.StatusInternalServerError, apiMessage(http.StatusText(http.StatusInternalServerError)))
	}
}

func readSetRequest(r *http.Request) (apiSetRequest, error) {
	var req apiSetRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get(headers.ContentType))
	switch mediaType {
	case headers.ApplicationJSON:
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&req); err != nil {
			return req, err
		}
		// the body must hold exactly one object
		if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
			return req, errTrailingData
		}
		return req, nil
	case headers.MultipartFormData:
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return req, err
		}
	default:
		if err := r.ParseForm(); err != nil {
			return req, err
		}
	}

	req.Key = r.PostForm.Get("key")
	req.Value = r.PostForm.Get("value")
	return req, nil
}

func (gw *Gateway) getHandler(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	value, outcome, err := gw.kv.Get(r.Context(), key)
	if err != nil {
		gw.handleError(w, err)
		return
	}

	if outcome == model.NotFound {
		doJSONWrite(w, http.StatusNotFound, apiMessage(fmt.Sprintf("key not found '%s'", key)))
		return
	}
	doJSONWrite(w, http.StatusOK, apiValue{Value: value})
}

func (gw *Gateway) searchHandler(w http.ResponseWriter, r *http.Request) {
	q, warnings, err := search.ParseQuery(r.URL.Query(), gw.queryLog)
	if err != nil {
		gw.handleError(w, err)
		return
	}

	results, err := gw.searcher.Search(r.Context(), q)
	if err != nil {
		gw.handleError(w, err)
		return
	}

	doJSONWrite(w, http.StatusOK, apiSearch{
		Msg:     errors.Formatter(warnings),
		Results: results,
	})
}

// handleError maps an error of the kv or search layer to a response.
// Backend errors are logged in full but only their classification is
// returned to the client.
func (gw *Gateway) handleError(w http.ResponseWriter, err error) {
	var (
		invalid   *errors.InvalidInputError
		predicate *errors.PredicateError
		backend   *errors.BackendError
	)

	switch {
	case errors.As(err, &invalid):
		doJSONWrite(w, http.StatusBadRequest, apiMessage(invalid.Error()))
	case errors.Is(err, errors.ErrNoSearchParams):
		doJSONWrite(w, http.StatusBadRequest, apiMessage(err.Error()))
	case errors.As(err, &predicate):
		doJSONWrite(w, http.StatusBadRequest, apiMessage(predicate.Error()))
	case errors.As(err, &backend):
		ec := backend.Classify()
		gwLog.WithError(backend.Err).WithField("flag", ec.Flag).WithField("target", ec.Target).Error("Backend call failed")
		doJSONWrite(w, ec.StatusCode(), apiMessage("backend error: "+ec.Details))
	default:
		gwLog.WithError(err).Error("Unhandled error")
		doJSONWrite(w, http.StatusInternalServerError, apiMessage(http.StatusText(http.StatusInternalServerError)))
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	doJSONWrite(w, http.StatusNotFound, apiMessage(http.StatusText(http.StatusNotFound)))
}

func methodNotAllowedHandler(w http.ResponseWriter, _ *http.Request) {
	doJSONWrite(w, http.StatusMethodNotAllowed, apiMessage(http.StatusText(http.StatusMethodNotAllowed)))
}
