package services

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/hcm-console/pkg/backend"
)

type reply struct {
	status int
	body   string
}

// fakeBackend answers by path and records every path it was asked for.
type fakeBackend struct {
	srv     *httptest.Server
	mu      sync.Mutex
	replies map[string]reply
	paths   []string
	bodies  map[string]string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{replies: map[string]reply{}, bodies: map[string]string{}}
	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.paths = append(fb.paths, r.URL.Path)
		fb.bodies[r.URL.Path] = string(body)
		rep, ok := fb.replies[r.URL.Path]
		fb.mu.Unlock()
		if !ok {
			rep = reply{status: http.StatusNotFound, body: `{"detail":"Not Found"}`}
		}
		if rep.status == 0 {
			rep.status = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rep.status)
		_, _ = w.Write([]byte(rep.body))
	}))
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) on(path string, status int, body string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.replies[path] = reply{status: status, body: body}
}

func (fb *fakeBackend) calls() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.paths...)
}

func (fb *fakeBackend) body(path string) string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.bodies[path]
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func (fb *fakeBackend) client(t *testing.T) *backend.Client {
	t.Helper()
	client, err := backend.NewClient(fb.srv.URL, backend.Options{Logger: quietLogger()})
	require.NoError(t, err)
	return client
}

func config() *backend.ConnectionConfig {
	return &backend.ConnectionConfig{
		InstanceURL: "https://tenant.example.com",
		Username:    "admin",
		Password:    "secret",
	}
}

const usersBody = `{"totalResults":2,"Resources":[
	{"id":"1","userName":"john.doe","displayName":"John Doe","active":true,
	 "name":{"givenName":"John","familyName":"Doe"},
	 "emails":[{"value":"john@example.com","primary":true}],
	 "roles":[{"value":"HR_MANAGER","displayName":"HR Manager","description":"Manages HR"},{"value":"EMPLOYEE"}],
	 "meta":{"created":"2024-01-01","lastModified":"2024-02-01"}},
	{"id":"2","userName":"jane.smith","active":false,"meta":{}}
]}`

const aorsBody = `{"items":[{"id":7,"name":"HR_DEPARTMENT","type":"HR"},{"id":"8","displayName":"IT_SUPPORT"}]}`
