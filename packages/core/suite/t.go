package suite

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/abdul-hamid-achik/restcheck/packages/assertions"
	"github.com/abdul-hamid-achik/restcheck/packages/http"
)

// T is handed to every running case. It carries the suite defaults; a case
// builds its own overrides on top of them.
type T struct {
	ctx  context.Context
	name string

	Client       *http.Client
	RequestSpec  *http.RequestSpec
	ResponseSpec *assertions.ResponseSpec
	Logger       logrus.FieldLogger
}

func (t *T) Context() context.Context {
	return t.ctx
}

// Name returns the case name, including the tuple index for parameterized
// tests.
func (t *T) Name() string {
	return t.name
}

// Check evaluates resp against the suite response spec merged with spec.
func (t *T) Check(resp *http.Response, spec *assertions.ResponseSpec) error {
	return assertions.Evaluate(resp, assertions.Merge(t.ResponseSpec, spec))
}

func (t *T) Logf(format string, args ...any) {
	t.Logger.WithField("test", t.name).Infof(format, args...)
}
