package healthcheck

import (
	"context"
)

// CheckFunc turns a probe function into a named Checker.
type CheckFunc struct {
	name  string
	probe func(context.Context) error
}

func NewCheckFunc(name string, probe func(context.Context) error) CheckFunc {
	return CheckFunc{
		name:  name,
		probe: probe,
	}
}

func (c CheckFunc) Name() string {
	return c.name
}

// Result runs the probe. A nil probe always passes.
func (c CheckFunc) Result(ctx context.Context) error {
	if c.probe == nil {
		return nil
	}
	return c.probe(ctx)
}
