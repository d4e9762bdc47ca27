package gateway

import (
	"context"
	"net/http"

	"github.com/TykTechnologies/kvrouter/internal/healthcheck"
	"github.com/TykTechnologies/kvrouter/storage"
)

// backendCheck pings one backend connection.
func backendCheck(role string, backend storage.Backend) healthcheck.Checker {
	return healthcheck.NewCheckFunc(role+":"+backend.Addr(), backend.Ping)
}

// newHealthRunner requires every distinct backend connection to answer a
// ping. A connection shared by both roles is checked once.
func newHealthRunner(backends *storage.Backends) *healthcheck.Runner {
	runner := healthcheck.NewRunner(gwLog)
	if backends.Shared() {
		runner.Require(backendCheck(backends.Write.Name(), backends.Write))
		return runner
	}
	runner.Require(
		backendCheck("write", backends.Write),
		backendCheck("read", backends.Read),
	)
	return runner
}

func liveCheckHandler(w http.ResponseWriter, _ *http.Request) {
	doJSONWrite(w, http.StatusOK, healthcheck.Response{Status: healthcheck.StatusPass})
}

func (gw *Gateway) readyCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if timeout := gw.config.BackendCallTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res := gw.health.Do(ctx)
	doJSONWrite(w, res.StatusCode, res)
}
