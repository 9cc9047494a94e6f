package reqres

import (
	"bytes"
	"context"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/restcheck/packages/assertions"
	"github.com/abdul-hamid-achik/restcheck/packages/core/suite"
	"github.com/abdul-hamid-achik/restcheck/packages/http"
	"github.com/abdul-hamid-achik/restcheck/packages/mock"
)

func quietLogger() (*logrus.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger, &buf
}

func newMockAPI(t *testing.T) *httptest.Server {
	t.Helper()
	logger, _ := quietLogger()
	srv := httptest.NewServer(mock.NewServer(mock.WithLogger(logger)).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func baseSpec(t *testing.T, srv *httptest.Server) *http.RequestSpec {
	t.Helper()
	spec, err := http.NewRequestSpec(srv.URL + "/api/users/")
	require.NoError(t, err)
	return spec
}

func newRegistry(t *testing.T) *suite.Registry {
	t.Helper()
	reg := suite.NewRegistry()
	require.NoError(t, RegisterTests(reg))
	return reg
}

func TestRegisterTests(t *testing.T) {
	reg := newRegistry(t)
	require.Equal(t, 10, reg.Len())

	names := make([]string, 0, reg.Len())
	for _, test := range reg.Tests() {
		names = append(names, test.Name)
		assert.Equal(t, Epic, test.Epic, test.Name)
		assert.Equal(t, Feature, test.Feature, test.Name)
		assert.NotEmpty(t, test.Description, test.Name)
	}
	assert.Equal(t, []string{
		"validateNumberAssertions",
		"validateGreaterThanAssertions",
		"validateLessThanAssertions",
		"validateStringAssertions",
		"validateAuthenticationToken",
		"printAuthToken",
		"deleteUserTest",
		"validateExpect",
		"validateBodyUsingExpect",
		"getRequestWithConfigTest",
	}, names)

	critical, ok := reg.Lookup("getRequestWithConfigTest")
	require.True(t, ok)
	assert.Equal(t, suite.SeverityCritical, critical.Severity)
	assert.Equal(t, StoryConfig, critical.Story)

	del, ok := reg.Lookup("deleteUserTest")
	require.True(t, ok)
	assert.Equal(t, StoryDelete, del.Story)

	assert.Error(t, RegisterTests(reg), "second registration must hit duplicate names")
}

func TestTests_StoriesAndSeverities(t *testing.T) {
	stories := map[string]string{
		"deleteUserTest":           StoryDelete,
		"getRequestWithConfigTest": StoryConfig,
	}
	for _, test := range Tests() {
		want, ok := stories[test.Name]
		if !ok {
			want = StoryAssertions
		}
		assert.Equal(t, want, test.Story, test.Name)

		if test.Name == "getRequestWithConfigTest" {
			assert.Equal(t, suite.SeverityCritical, test.Severity)
		} else {
			assert.Equal(t, suite.SeverityNormal, test.Severity, test.Name)
		}
	}
	assert.NotEqual(t, StoryAssertions, StoryDelete)
	assert.NotEqual(t, StoryAssertions, StoryConfig)
}

func TestSuite_AgainstMock(t *testing.T) {
	srv := newMockAPI(t)
	logger, logs := quietLogger()

	runner := suite.NewRunner(&suite.Config{
		RequestSpec: baseSpec(t, srv),
		Logger:      logger,
	})

	var timings []suite.Timing
	runner.AfterTest(func(tm suite.Timing) { timings = append(timings, tm) })

	result := runner.Run(context.Background(), newRegistry(t))

	for _, c := range result.Cases {
		assert.Equal(t, suite.StatusPassed, c.Status, "%s: %v", c.Name, c.Err)
	}
	assert.Equal(t, 10, result.Passed)
	assert.True(t, result.OK())

	require.Len(t, timings, 10)
	assert.Equal(t, "deleteUserTest", timings[6].MethodName)
	assert.Equal(t, "deleteUserTest[0]", timings[6].Case)

	out := logs.String()
	assert.Contains(t, out, "auth token for eve.holt@reqres.in: "+mock.Token("eve.holt@reqres.in"))
	assert.Contains(t, out, `"msg":"request"`)
	assert.Contains(t, out, `"msg":"response"`)
}

func TestSuite_StatusMismatchFails(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)
	}))
	defer srv.Close()
	logger, _ := quietLogger()

	runner := suite.NewRunner(&suite.Config{
		RequestSpec: baseSpec(t, srv),
		Logger:      logger,
		NameFilter:  "deleteUserTest",
	})
	result := runner.Run(context.Background(), newRegistry(t))

	assert.Equal(t, 1, result.Failed)
	var failed *suite.CaseResult
	for _, c := range result.Cases {
		if c.Status == suite.StatusFailed {
			failed = c
		}
	}
	require.NotNil(t, failed)
	require.Len(t, failed.Failures, 1)
	assert.Equal(t, assertions.StatusPath, failed.Failures[0].Path)
	assert.Contains(t, failed.Failures[0].Message, "expected status 204, got 200")
}

func TestSuite_UnreachableHostErrors(t *testing.T) {
	srv := httptest.NewServer(nethttp.NotFoundHandler())
	base := baseSpec(t, srv)
	srv.Close()
	logger, _ := quietLogger()

	runner := suite.NewRunner(&suite.Config{
		RequestSpec: base,
		Logger:      logger,
		NameFilter:  "validateExpect",
	})
	result := runner.Run(context.Background(), newRegistry(t))

	assert.Equal(t, 1, result.Errored)
	for _, c := range result.Cases {
		if c.Status == suite.StatusErrored {
			assert.True(t, errors.Is(c.Err, http.ErrTransport))
		}
	}
}

func TestRequestSpec_LayersSuiteDefaults(t *testing.T) {
	base, err := http.NewRequestSpec("https://reqres.in/api/users/", http.WithHeader("x-api-key", "k"))
	require.NoError(t, err)
	logger, _ := quietLogger()

	spec := RequestSpec(base, logger)
	assert.Equal(t, "2", spec.QueryParams()["page"])
	assert.Equal(t, "k", spec.Headers()["x-api-key"])
	assert.Len(t, spec.Filters(), 2)
	assert.Empty(t, base.Filters())
}

func TestResponseSpec(t *testing.T) {
	status, ok := ResponseSpec.ExpectedStatus()
	require.True(t, ok)
	assert.Equal(t, 200, status)
	require.Len(t, ResponseSpec.Expectations(), 1)
	assert.Equal(t, "page", ResponseSpec.Expectations()[0].Path)
}

func TestDataProviders(t *testing.T) {
	assert.Equal(t, [][]any{{"eve.holt@reqres.in", "pistol"}}, AuthenticationData())
	assert.Equal(t, [][]any{{2}}, DeleteUserData())
}
