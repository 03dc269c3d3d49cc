package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/hcm-console/pkg/bulk"
	"github.com/iota-uz/hcm-console/pkg/configuration"
)

const usersBody = `{"Resources":[
 {"id":"1","userName":"john.doe","displayName":"John Doe","active":true,"emails":[{"value":"john@example.com","primary":true}],"roles":[{"value":"HR_MANAGER"}]},
 {"id":"2","userName":"jane.smith","displayName":"Jane Smith","active":false}
]}`

type backendStub struct {
	srv     *httptest.Server
	mu      sync.Mutex
	replies map[string]string
	status  map[string]int
	calls   []string
	bodies  map[string]string
}

func newBackendStub(t *testing.T) *backendStub {
	t.Helper()
	b := &backendStub{replies: map[string]string{}, status: map[string]int{}, bodies: map[string]string{}}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.calls = append(b.calls, r.URL.Path)
		b.bodies[r.URL.Path] = string(body) + r.URL.RawQuery
		reply, ok := b.replies[r.URL.Path]
		status := b.status[r.URL.Path]
		b.mu.Unlock()
		if !ok {
			status, reply = http.StatusNotFound, `{"detail":"Not Found"}`
		}
		if status == 0 {
			status = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(b.srv.Close)
	b.on("/users/", http.StatusOK, usersBody)
	return b
}

func (b *backendStub) on(path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies[path] = body
	b.status[path] = status
}

// body returns the last request body, or the query of a GET, sent to path.
func (b *backendStub) body(path string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[path]
}

func (b *backendStub) called() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

type harness struct {
	backend  *backendStub
	storeDir string
	defaults rootOptions
	last     *runtime
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{backend: newBackendStub(t), storeDir: t.TempDir()}
}

func (h *harness) run(args ...string) (int, string, string) {
	full := append([]string{"--backend-url", h.backend.srv.URL, "--store-dir", h.storeDir}, args...)
	return h.runBare(full...)
}

// runBare runs without the backend and store flags.
func (h *harness) runBare(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	h.last = &runtime{defaults: h.defaults}
	code := run(h.last, args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// parseEnv builds the configuration from the process environment with the
// given variables set and every other hcmctl variable unset.
func parseEnv(t *testing.T, vars map[string]string) *configuration.Configuration {
	t.Helper()
	for _, key := range []string{"BACKEND_URL", "BACKEND_TIMEOUT", "BULK_MODE", "HCMCTL_STORE_DIR", "HCM_PASSWORD"} {
		if prev, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { _ = os.Setenv(key, prev) })
		} else {
			t.Cleanup(func() { _ = os.Unsetenv(key) })
		}
		require.NoError(t, os.Unsetenv(key))
	}
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
	}
	conf := &configuration.Configuration{}
	require.NoError(t, env.Parse(conf))
	return conf
}

func (h *harness) connect(t *testing.T) {
	t.Helper()
	code, out, stderr := h.run("connect", "--instance-url", "https://hcm.example.com", "--username", "admin", "--password", "secret")
	require.Equal(t, exitOK, code, stderr)
	require.Contains(t, out, "Connection successful")
}

func TestSession(t *testing.T) {
	h := newHarness(t)

	code, out, _ := h.run("status")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Not connected")

	h.connect(t)

	code, out, _ = h.run("status")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Connected to https://hcm.example.com as admin")

	code, out, _ = h.run("status", "--json")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, `"connected": true`)
	assert.NotContains(t, out, "secret")

	code, _, _ = h.run("disconnect")
	require.Equal(t, exitOK, code)
	code, out, _ = h.run("status")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Not connected")
}

func TestDefaults_FromConfiguration(t *testing.T) {
	h := newHarness(t)
	h.defaults = defaultsFrom(parseEnv(t, map[string]string{
		"BACKEND_URL":      h.backend.srv.URL,
		"HCMCTL_STORE_DIR": h.storeDir,
		"BULK_MODE":        "strict",
	}))

	code, _, stderr := h.runBare("connect", "--instance-url", "https://hcm.example.com", "--username", "admin", "--password", "secret")
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, h.backend.srv.URL, h.last.opts.backendURL)
	assert.Equal(t, h.storeDir, h.last.opts.storeDir)
	assert.Equal(t, "strict", h.last.opts.bulkMode)
	assert.Zero(t, h.last.opts.timeout)
	assert.FileExists(t, filepath.Join(h.storeDir, browserID+".json"))

	code, _, stderr = h.runBare("--timeout", "5s", "status")
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, 5*time.Second, h.last.opts.timeout)
}

func TestDefaults_StoreDirFallsBackToUserConfigDir(t *testing.T) {
	d := defaultsFrom(parseEnv(t, nil))
	assert.Equal(t, "http://localhost:8000", d.backendURL)
	assert.Equal(t, defaultStoreDir(), d.storeDir)
	assert.Equal(t, "lenient", d.bulkMode)
	assert.Zero(t, d.timeout)
	assert.Empty(t, d.password)
}

func TestConnect_PasswordFromEnv(t *testing.T) {
	h := newHarness(t)
	h.defaults = defaultsFrom(parseEnv(t, map[string]string{"HCM_PASSWORD": "from-env"}))

	code, _, stderr := h.run("connect", "--instance-url", "https://hcm.example.com", "--username", "admin")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, h.backend.body("/users/"), "password=from-env")
}

func TestConnect_MissingFields(t *testing.T) {
	h := newHarness(t)

	code, _, stderr := h.run("connect", "--instance-url", "https://hcm.example.com")
	assert.Equal(t, exitValidation, code)
	assert.NotEmpty(t, stderr)
	assert.Empty(t, h.backend.called())
}

func TestConnect_FailedCheckSavesNothing(t *testing.T) {
	h := newHarness(t)
	h.backend.on("/users/", http.StatusUnauthorized, `{"detail":"Invalid credentials"}`)

	code, _, stderr := h.run("connect", "--instance-url", "https://hcm.example.com", "--username", "admin", "--password", "bad")
	assert.Equal(t, exitBackend, code)
	assert.Contains(t, stderr, "Invalid credentials")

	code, out, _ := h.run("status")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Not connected")
}

func TestNotConnected(t *testing.T) {
	h := newHarness(t)

	code, _, stderr := h.run("users", "list")
	assert.Equal(t, exitValidation, code)
	assert.Contains(t, stderr, "Please connect to Oracle first")
	assert.Empty(t, h.backend.called())
}

func TestUsers(t *testing.T) {
	h := newHarness(t)
	h.connect(t)

	code, out, _ := h.run("users", "list")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "john.doe")
	assert.Contains(t, out, "john@example.com")
	assert.Contains(t, out, "jane.smith")

	h.backend.on("/users/details", http.StatusOK, `{"username":"john.doe","display_name":"John Doe","areas_of_responsibility":[{"id":7,"name":"HR"}]}`)
	code, out, _ = h.run("users", "details", "john.doe")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, `"display_name": "John Doe"`)
	assert.Contains(t, out, `"id": "7"`)

	h.backend.on("/users/john.doe", http.StatusOK, `{"id":"1","userName":"john.doe","displayName":"John Doe","active":true,"meta":{"resourceType":"User"}}`)
	code, out, stderr := h.run("users", "get", "john.doe")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, out, `"userName": "john.doe"`)
	assert.Contains(t, h.backend.body("/users/john.doe"), "oracle_username=admin")

	code, _, _ = h.run("users", "get", "ghost")
	assert.Equal(t, exitBackend, code)

	target := filepath.Join(t.TempDir(), "users.xlsx")
	code, out, _ = h.run("users", "export", "--out", target)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, target)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

func TestRoles(t *testing.T) {
	h := newHarness(t)
	h.connect(t)
	h.backend.on("/users/roles/assign", http.StatusOK, `{"success":true,"message":"Role HR_MANAGER assigned to john.doe"}`)

	code, out, _ := h.run("roles", "assign", "john.doe", "HR_MANAGER")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Role HR_MANAGER assigned to john.doe")

	h.backend.on("/users/roles/remove", http.StatusOK, `{"success":true}`)
	code, out, _ = h.run("roles", "remove", "john.doe", "HR_MANAGER")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Role removed successfully")
}

func TestRoles_Validation(t *testing.T) {
	h := newHarness(t)
	h.connect(t)
	before := len(h.backend.called())

	code, _, _ := h.run("roles", "assign", "john.doe", "  ")
	assert.Equal(t, exitValidation, code)
	assert.Len(t, h.backend.called(), before)
}

func TestRoles_BackendFailure(t *testing.T) {
	h := newHarness(t)
	h.connect(t)
	h.backend.on("/users/roles/assign", http.StatusInternalServerError, `{"detail":"Oracle is down"}`)

	code, _, stderr := h.run("roles", "assign", "john.doe", "HR_MANAGER")
	assert.Equal(t, exitBackend, code)
	assert.Contains(t, stderr, "Oracle is down")
}

func TestUsage(t *testing.T) {
	h := newHarness(t)

	for _, args := range [][]string{
		{"roles", "assign", "john.doe"},
		{"nope"},
		{"users", "list", "--bogus"},
		{"template", "role", "--format", "pdf"},
		{"template", "unknown"},
		{"roles", "bulk"},
		{"--bulk-mode", "sloppy", "users", "list"},
	} {
		code, _, _ := h.run(args...)
		assert.Equal(t, exitUsage, code, "%v", args)
	}
	assert.Empty(t, h.backend.called())
}

func TestBulk(t *testing.T) {
	h := newHarness(t)
	h.connect(t)
	h.backend.on("/users/roles/bulk-assign", http.StatusOK, `{"total_operations":2,"successful_operations":1,"failed_operations":1,
	 "results":[{"success":true,"message":"ok"},{"success":false,"message":"failed","error":"Role not found"}]}`)

	input := filepath.Join(t.TempDir(), "roles.csv")
	require.NoError(t, os.WriteFile(input, []byte("john.doe,HR_MANAGER\nbroken\njane.smith,NOPE\n"), 0o600))

	code, out, _ := h.run("roles", "bulk", "--file", input)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Bulk operation completed: 1 successful, 1 failed")
	assert.Contains(t, out, "#2: Role not found")
	assert.Contains(t, out, "Skipped 1 invalid lines:\n  line 2: missing role_name")
	assert.Contains(t, h.backend.body("/users/roles/bulk-assign"), `"role_name":"NOPE"`)
}

func TestBulk_StrictMode(t *testing.T) {
	h := newHarness(t)
	h.connect(t)
	before := len(h.backend.called())

	input := filepath.Join(t.TempDir(), "security.csv")
	require.NoError(t, os.WriteFile(input, []byte("john.doe,HR_MANAGER,DEPARTMENT\n"), 0o600))

	code, _, stderr := h.run("--bulk-mode", "strict", "security", "bulk", "--file", input)
	assert.Equal(t, exitValidation, code)
	assert.NotEmpty(t, stderr)
	assert.Len(t, h.backend.called(), before)
}

func TestAOR(t *testing.T) {
	h := newHarness(t)
	h.connect(t)
	h.backend.on("/areas-of-responsibility/", http.StatusOK, `{"items":[{"id":7,"name":"HR_DEPARTMENT","type":"HR"},{"id":"8","displayName":"IT Support"}]}`)
	h.backend.on("/areas-of-responsibility/assign", http.StatusOK, `{"success":true}`)

	code, out, _ := h.run("aor", "list")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "HR_DEPARTMENT")
	assert.Contains(t, out, "IT Support")
	assert.Contains(t, out, "General")

	code, out, _ = h.run("aor", "assign", "john.doe", "HR_DEPARTMENT")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Area of responsibility assigned successfully")
	assert.Contains(t, h.backend.body("/areas-of-responsibility/assign"), `"aor_type":"GENERAL"`)
}

func TestSearch(t *testing.T) {
	h := newHarness(t)
	h.connect(t)
	h.backend.on("/users/search", http.StatusOK, usersBody)
	h.backend.on("/areas-of-responsibility/search", http.StatusOK, `{"items":[{"id":7,"name":"HR_DEPARTMENT"}]}`)

	code, out, _ := h.run("search", "users", "--username", "j")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Search results (2 users found)")
	assert.Contains(t, h.backend.body("/users/search"), `"username":"j"`)

	code, out, _ = h.run("search", "aors", "--name", "HR")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Search results (1 AORs found)")
}

func TestPassword(t *testing.T) {
	h := newHarness(t)
	h.connect(t)
	h.backend.on("/users/password/reset", http.StatusOK, `{"success":true}`)
	before := len(h.backend.called())

	code, _, _ := h.run("password", "reset", "john.doe")
	assert.Equal(t, exitValidation, code)
	assert.Len(t, h.backend.called(), before)

	code, out, _ := h.run("password", "reset", "john.doe", "--new-password", "N3w!")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Password reset successfully")
}

func TestTemplate(t *testing.T) {
	h := newHarness(t)

	code, out, _ := h.run("template", "role", "--out", "-")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "username,role_name\njohn.doe,HR_MANAGER\njane.smith,EMPLOYEE\n", out)

	target := filepath.Join(t.TempDir(), "aor.xlsx")
	code, _, _ = h.run("template", "aor", "--format", "xlsx", "--out", target)
	require.Equal(t, exitOK, code)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

func TestUpload(t *testing.T) {
	h := newHarness(t)
	h.connect(t)
	h.backend.on("/upload/excel", http.StatusOK, `{"success_count":1,"failure_count":1,"errors":[{"row":3,"username":"jane.smith","error":"Role not found"}]}`)

	tmpl, err := bulk.Lookup("role")
	require.NoError(t, err)
	data, err := tmpl.XLSX()
	require.NoError(t, err)
	file := filepath.Join(t.TempDir(), "roles.xlsx")
	require.NoError(t, os.WriteFile(file, data, 0o600))

	code, out, stderr := h.run("upload", file, "--operation", "role_assignment")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, out, "Upload completed: 1 successful, 1 failed")
	assert.Contains(t, out, "row 3 jane.smith: Role not found")

	notWorkbook := filepath.Join(t.TempDir(), "roles.xlsx")
	require.NoError(t, os.WriteFile(notWorkbook, []byte(strings.Repeat("plain text ", 10)), 0o600))
	code, _, _ = h.run("upload", notWorkbook, "--operation", "role_assignment")
	assert.Equal(t, exitValidation, code)
}
