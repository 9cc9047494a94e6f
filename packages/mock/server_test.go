package mock

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	srv := httptest.NewServer(NewServer(append([]Option{WithLogger(logger)}, opts...)...).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, gjson.Result) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, gjson.ParseBytes(data)
}

func TestUsers(t *testing.T) {
	users := Users()
	require.Len(t, users, 12)
	assert.Equal(t, User{
		ID:        7,
		Email:     "michael.lawson@reqres.in",
		FirstName: "Michael",
		LastName:  "Lawson",
		Avatar:    "https://reqres.in/img/faces/7-image.jpg",
	}, users[6])
	assert.Equal(t, "eve.holt@reqres.in", users[3].Email)
}

func TestListUsers(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name      string
		path      string
		page      int64
		firstName string
		count     int
	}{
		{name: "default page", path: "/api/users", page: 1, firstName: "George", count: 6},
		{name: "page two", path: "/api/users/?page=2", page: 2, firstName: "Michael", count: 6},
		{name: "past the end", path: "/api/users?page=3", page: 3, count: 0},
		{name: "garbage page", path: "/api/users?page=abc", page: 1, firstName: "George", count: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodGet, srv.URL+tt.path, "")
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

			assert.Equal(t, tt.page, body.Get("page").Int())
			assert.Equal(t, int64(6), body.Get("per_page").Int())
			assert.Equal(t, int64(12), body.Get("total").Int())
			assert.Equal(t, int64(2), body.Get("total_pages").Int())
			assert.Len(t, body.Get("data").Array(), tt.count)
			if tt.firstName != "" {
				assert.Equal(t, tt.firstName, body.Get("data.0.first_name").String())
			}
			assert.True(t, body.Get("support.url").Exists())
		})
	}
}

func TestListUsers_PerPage(t *testing.T) {
	srv := newTestServer(t)
	_, body := do(t, http.MethodGet, srv.URL+"/api/users?per_page=5&page=3", "")
	assert.Equal(t, int64(3), body.Get("total_pages").Int())
	assert.Len(t, body.Get("data").Array(), 2)
	assert.Equal(t, int64(11), body.Get("data.0.id").Int())
}

func TestGetUser(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/users/2", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(2), body.Get("data.id").Int())
	assert.Equal(t, "janet.weaver@reqres.in", body.Get("data.email").String())
	assert.Equal(t, "Weaver", body.Get("data.last_name").String())

	for _, path := range []string{"/api/users/23", "/api/users/abc", "/api/unknown"} {
		resp, body = do(t, http.MethodGet, srv.URL+path, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, "{}", body.Raw, path)
	}
}

func TestDeleteUser(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, http.MethodDelete, srv.URL+"/api/users/2", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, body.Raw)
}

func TestCreateAndUpdateUser(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/api/users", `{"name": "morpheus", "job": "leader"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "morpheus", body.Get("name").String())
	assert.Equal(t, "13", body.Get("id").String())
	assert.True(t, body.Get("createdAt").Exists())

	resp, body = do(t, http.MethodPut, srv.URL+"/api/users/2", `{"job": "zion resident"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "zion resident", body.Get("job").String())
	assert.True(t, body.Get("updatedAt").Exists())

	resp, _ = do(t, http.MethodPatch, srv.URL+"/api/users/2", `[1, 2]`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegister(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		errMsg string
	}{
		{name: "defined user", body: `{"email": "eve.holt@reqres.in", "password": "pistol"}`, status: http.StatusOK},
		{name: "missing password", body: `{"email": "sydney@fife"}`, status: http.StatusBadRequest, errMsg: "Missing password"},
		{name: "missing email", body: `{"password": "pistol"}`, status: http.StatusBadRequest, errMsg: "Missing email or username"},
		{name: "undefined user", body: `{"email": "sydney@fife", "password": "pistol"}`, status: http.StatusBadRequest, errMsg: "Note: Only defined users succeed registration"},
		{name: "empty body", body: "", status: http.StatusBadRequest, errMsg: "Missing email or username"},
		{name: "not json", body: "email=eve", status: http.StatusBadRequest, errMsg: "body must be a JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, srv.URL+"/api/register", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.errMsg != "" {
				assert.Equal(t, tt.errMsg, body.Get("error").String())
				return
			}
			assert.Equal(t, int64(4), body.Get("id").Int())
			assert.Equal(t, Token("eve.holt@reqres.in"), body.Get("token").String())
		})
	}
}

func TestToken(t *testing.T) {
	a := Token("eve.holt@reqres.in")
	assert.Len(t, a, 17)
	assert.Equal(t, a, Token("EVE.HOLT@reqres.in"))
	assert.NotEqual(t, a, Token("janet.weaver@reqres.in"))
}

func TestDelay(t *testing.T) {
	srv := newTestServer(t, WithDelay(50*time.Millisecond))

	start := time.Now()
	resp, _ := do(t, http.MethodGet, srv.URL+"/api/users/1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestVerboseLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)

	srv := httptest.NewServer(NewServer(WithLogger(logger), WithVerbose(true)).Handler())
	defer srv.Close()

	do(t, http.MethodGet, srv.URL+"/api/users?page=2", "")
	assert.Contains(t, buf.String(), "mock request")
	assert.Contains(t, buf.String(), "/api/users?page=2")
}

func TestStartWithContext(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s := NewServer(WithPort(0), WithLogger(logger))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.StartWithContext(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
