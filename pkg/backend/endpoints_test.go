package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	method string
	path   string
	query  map[string]string
	body   map[string]any
	form   map[string]string
	file   string
}

func captureServer(t *testing.T, response string) (*httptest.Server, chan captured) {
	t.Helper()
	ch := make(chan captured, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := captured{method: r.Method, path: r.URL.Path, query: map[string]string{}}
		for k := range r.URL.Query() {
			c.query[k] = r.URL.Query().Get(k)
		}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			c.form = map[string]string{}
			for k, v := range r.MultipartForm.Value {
				c.form[k] = v[0]
			}
			f, _, err := r.FormFile("file")
			if err == nil {
				b, _ := io.ReadAll(f)
				c.file = string(b)
				_ = f.Close()
			}
		} else if r.Body != nil {
			b, _ := io.ReadAll(r.Body)
			if len(b) > 0 {
				_ = json.Unmarshal(b, &c.body)
			}
		}
		ch <- c
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, ch
}

func oracleConfigJSON() map[string]any {
	return map[string]any{
		"instance_url": "https://tenant.example.com",
		"username":     "admin",
		"password":     "secret",
	}
}

func TestListUsers_QueryCredentials(t *testing.T) {
	t.Parallel()

	srv, ch := captureServer(t, `{"Resources":[]}`)
	res := newTestClient(t, srv, nil).ListUsers(context.Background(), testConfig())
	require.True(t, res.Success)

	got := <-ch
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/users/", got.path)
	assert.Equal(t, map[string]string{
		"instance_url":    "https://tenant.example.com",
		"oracle_username": "admin",
		"oracle_password": "secret",
	}, got.query)
}

func TestListAORs_Path(t *testing.T) {
	t.Parallel()

	srv, ch := captureServer(t, `{"items":[{"name":"HR","type":"HR"},{"displayName":"IT"}]}`)
	res := newTestClient(t, srv, nil).ListAORs(context.Background(), testConfig())
	require.True(t, res.Success)
	assert.Equal(t, "/areas-of-responsibility/", (<-ch).path)

	var page AORPage
	require.NoError(t, res.Decode(&page))
	require.Len(t, page.Items, 2)
	assert.Equal(t, "IT", page.Items[1].Label())
	assert.Equal(t, "General", page.Items[1].TypeLabel())
}

func TestGetUser_EscapesUsername(t *testing.T) {
	t.Parallel()

	srv, ch := captureServer(t, `{}`)
	_ = newTestClient(t, srv, nil).GetUser(context.Background(), "john doe", testConfig())
	assert.Equal(t, "/users/john doe", (<-ch).path)
}

func TestPostEndpoints_Bodies(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cases := []struct {
		name string
		call func(c *Client) OperationResult
		path string
		body map[string]any
	}{
		{
			name: "user details",
			call: func(c *Client) OperationResult { return c.UserDetails(context.Background(), "john.doe", cfg) },
			path: "/users/details",
			body: map[string]any{"username": "john.doe", "oracle_config": oracleConfigJSON()},
		},
		{
			name: "role assign",
			call: func(c *Client) OperationResult {
				return c.AssignRole(context.Background(), RoleAssignment{Username: "john.doe", RoleName: "HR_MANAGER"}, cfg)
			},
			path: "/users/roles/assign",
			body: map[string]any{"username": "john.doe", "role_name": "HR_MANAGER", "oracle_config": oracleConfigJSON()},
		},
		{
			name: "role remove",
			call: func(c *Client) OperationResult {
				return c.RemoveRole(context.Background(), RoleAssignment{Username: "john.doe", RoleName: "HR_MANAGER"}, cfg)
			},
			path: "/users/roles/remove",
			body: map[string]any{"username": "john.doe", "role_name": "HR_MANAGER", "oracle_config": oracleConfigJSON()},
		},
		{
			name: "data security assign",
			call: func(c *Client) OperationResult {
				return c.AssignDataSecurity(context.Background(), DataSecurityAssignment{
					Username: "john.doe", RoleName: "HR_MANAGER", DataSecurityContext: "DEPARTMENT", DataSecurityValue: "IT",
				}, cfg)
			},
			path: "/users/data-security/assign",
			body: map[string]any{
				"username": "john.doe", "role_name": "HR_MANAGER",
				"data_security_context": "DEPARTMENT", "data_security_value": "IT",
				"oracle_config": oracleConfigJSON(),
			},
		},
		{
			name: "aor assign defaults type",
			call: func(c *Client) OperationResult {
				return c.AssignAOR(context.Background(), AORAssignment{Username: "john.doe", AORName: "HR_DEPARTMENT"}, cfg)
			},
			path: "/areas-of-responsibility/assign",
			body: map[string]any{
				"username": "john.doe", "aor_name": "HR_DEPARTMENT", "aor_type": "GENERAL",
				"oracle_config": oracleConfigJSON(),
			},
		},
		{
			name: "aor remove",
			call: func(c *Client) OperationResult {
				return c.RemoveAOR(context.Background(), AORRemoval{Username: "john.doe", AORID: "300100"}, cfg)
			},
			path: "/areas-of-responsibility/remove",
			body: map[string]any{"username": "john.doe", "aor_id": "300100", "oracle_config": oracleConfigJSON()},
		},
		{
			name: "password reset",
			call: func(c *Client) OperationResult {
				return c.ResetPassword(context.Background(), PasswordReset{Username: "john.doe", NewPassword: "n3w"}, cfg)
			},
			path: "/users/password/reset",
			body: map[string]any{"username": "john.doe", "new_password": "n3w", "oracle_config": oracleConfigJSON()},
		},
		{
			name: "password update",
			call: func(c *Client) OperationResult {
				return c.UpdatePassword(context.Background(), PasswordUpdate{
					Username: "john.doe", CurrentPassword: "old", NewPassword: "n3w",
				}, cfg)
			},
			path: "/users/password/update",
			body: map[string]any{
				"username": "john.doe", "current_password": "old", "new_password": "n3w",
				"oracle_config": oracleConfigJSON(),
			},
		},
		{
			name: "user search keeps only set criteria",
			call: func(c *Client) OperationResult {
				return c.SearchUsers(context.Background(), UserCriteria{Email: "john@example.com"}, cfg)
			},
			path: "/users/search",
			body: map[string]any{
				"search_criteria": map[string]any{"email": "john@example.com"},
				"oracle_config":   oracleConfigJSON(),
			},
		},
		{
			name: "aor search",
			call: func(c *Client) OperationResult {
				return c.SearchAORs(context.Background(), AORCriteria{Name: "HR", Type: "HR"}, cfg)
			},
			path: "/areas-of-responsibility/search",
			body: map[string]any{
				"search_criteria": map[string]any{"name": "HR", "type": "HR"},
				"oracle_config":   oracleConfigJSON(),
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv, ch := captureServer(t, `{"message":"ok"}`)
			res := tc.call(newTestClient(t, srv, nil))
			require.True(t, res.Success)

			got := <-ch
			assert.Equal(t, http.MethodPost, got.method)
			assert.Equal(t, tc.path, got.path)
			assert.Equal(t, tc.body, got.body)
		})
	}
}

func TestBulkAssignRoles_Body(t *testing.T) {
	t.Parallel()

	srv, ch := captureServer(t, `{"total_operations":2,"successful_operations":1,"failed_operations":1,"results":[]}`)
	res := newTestClient(t, srv, nil).BulkAssignRoles(context.Background(), []RoleAssignment{
		{Username: "john.doe", RoleName: "HR_MANAGER"},
		{Username: "jane.smith", RoleName: "EMPLOYEE"},
	}, testConfig())
	require.True(t, res.Success)

	var out BulkOperationResponse
	require.NoError(t, res.Decode(&out))
	assert.Equal(t, 1, out.SuccessfulOperations)
	assert.Equal(t, 1, out.FailedOperations)

	got := <-ch
	assert.Equal(t, "/users/roles/bulk-assign", got.path)
	assert.Equal(t, oracleConfigJSON(), got.body["oracle_config"])
	rows, ok := got.body["assignments"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]any{
		"username": "jane.smith", "role_name": "EMPLOYEE", "oracle_config": oracleConfigJSON(),
	}, rows[1])
}

func TestBulkAssignAORs_DefaultsType(t *testing.T) {
	t.Parallel()

	srv, ch := captureServer(t, `{"successful_operations":1,"failed_operations":0}`)
	_ = newTestClient(t, srv, nil).BulkAssignAORs(context.Background(), []AORAssignment{
		{Username: "john.doe", AORName: "HR_DEPARTMENT"},
	}, testConfig())

	got := <-ch
	assert.Equal(t, "/areas-of-responsibility/bulk-assign", got.path)
	rows := got.body["assignments"].([]any)
	assert.Equal(t, "GENERAL", rows[0].(map[string]any)["aor_type"])
}

func TestBulkAssign_LeavesCallerRowsUntouched(t *testing.T) {
	t.Parallel()

	srv, ch := captureServer(t, `{"successful_operations":1,"failed_operations":0}`)
	client := newTestClient(t, srv, nil)

	roles := []RoleAssignment{{Username: "john.doe", RoleName: "HR_MANAGER"}}
	_ = client.BulkAssignRoles(context.Background(), roles, testConfig())
	<-ch
	assert.Nil(t, roles[0].OracleConfig)

	grants := []DataSecurityAssignment{{Username: "john.doe"}}
	_ = client.BulkAssignDataSecurity(context.Background(), grants, testConfig())
	<-ch
	assert.Nil(t, grants[0].OracleConfig)

	aors := []AORAssignment{{Username: "john.doe", AORName: "HR_DEPARTMENT"}}
	_ = client.BulkAssignAORs(context.Background(), aors, testConfig())
	got := <-ch
	assert.Nil(t, aors[0].OracleConfig)
	assert.Empty(t, aors[0].AORType)
	assert.Equal(t, "GENERAL", got.body["assignments"].([]any)[0].(map[string]any)["aor_type"])
}

func TestUploadExcel_Multipart(t *testing.T) {
	t.Parallel()

	srv, ch := captureServer(t, `{"success_count":2,"failure_count":1,"errors":[{"row":3,"error":"bad role"}],"processed_records":[{"row":1,"status":"success"}]}`)
	res := newTestClient(t, srv, nil).UploadExcel(context.Background(), OperationRoleAssignment,
		"roles.xlsx", strings.NewReader("workbook-bytes"), testConfig())
	require.True(t, res.Success)

	var out UploadResponse
	require.NoError(t, res.Decode(&out))
	assert.Equal(t, 3, out.Total())
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "bad role", out.Errors[0].Error)

	got := <-ch
	assert.Equal(t, "/upload/excel", got.path)
	assert.Equal(t, "workbook-bytes", got.file)
	assert.Equal(t, map[string]string{
		"operation_type":  "role_assignment",
		"instance_url":    "https://tenant.example.com",
		"oracle_username": "admin",
		"oracle_password": "secret",
	}, got.form)
}

func TestUserDetails_Decode(t *testing.T) {
	t.Parallel()

	srv, _ := captureServer(t, `{
		"username":"john.doe","display_name":"John Doe","is_active":true,
		"assigned_roles":[{"value":"HR_MANAGER","description":"HR"},{"displayName":"Employee"}],
		"areas_of_responsibility":[{"name":"HR_DEPARTMENT"}],
		"data_security_contexts":[{"context":"DEPARTMENT","value":"IT"}]
	}`)
	res := newTestClient(t, srv, nil).UserDetails(context.Background(), "john.doe", testConfig())

	var d UserDetails
	require.NoError(t, res.Decode(&d))
	assert.Equal(t, "John Doe", d.DisplayName)
	require.Len(t, d.AssignedRoles, 2)
	assert.Equal(t, "HR_MANAGER", d.AssignedRoles[0].Label())
	assert.Equal(t, "Employee", d.AssignedRoles[1].Label())
	assert.Equal(t, "General", d.AreasOfResponsibility[0].TypeLabel())
	assert.Equal(t, "IT", d.DataSecurityContexts[0].Value)
}
