package healthcheck

import (
	"context"
	"net/http"
)

// Runner is an object holding Checker implementations.
type Runner struct {
	required []Checker

	logger Logger
}

// NewRunner creates a new runner for Checkers. It requires
// a passed logger, and optionally takes required checks.
func NewRunner(logger Logger, required ...Checker) *Runner {
	return &Runner{
		logger:   logger,
		required: required,
	}
}

// Require adds a new required Checker to the runner.
// The checks must pass.
func (r *Runner) Require(check ...Checker) {
	r.required = append(r.required, check...)
}

// Do will run all health checks sequentially. Any failing check fails the
// whole response with HTTP 502.
func (r *Runner) Do(ctx context.Context) Response {
	result := Response{
		Status:     StatusPass,
		StatusCode: http.StatusOK,
	}

	for _, check := range r.required {
		checkResult := NewCheckResult(check.Name(), StatusPass)
		if err := check.Result(ctx); err != nil {
			r.logger.Warnf("HealthCheck %s failed: %s", check.Name(), err)

			checkResult.Status = StatusFail
			checkResult.Output = err.Error()
			result.Status = StatusFail
			result.StatusCode = http.StatusBadGateway
		}
		result.Components = append(result.Components, checkResult)
	}

	return result
}
