package backend

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"slices"
)

const (
	usersPath = "/users"
	aorPath   = "/areas-of-responsibility"
)

type RoleAssignment struct {
	Username     string            `json:"username"`
	RoleName     string            `json:"role_name"`
	OracleConfig *ConnectionConfig `json:"oracle_config,omitempty"`
}

type DataSecurityAssignment struct {
	Username            string            `json:"username"`
	RoleName            string            `json:"role_name"`
	DataSecurityContext string            `json:"data_security_context"`
	DataSecurityValue   string            `json:"data_security_value"`
	OracleConfig        *ConnectionConfig `json:"oracle_config,omitempty"`
}

type AORAssignment struct {
	Username     string            `json:"username"`
	AORName      string            `json:"aor_name"`
	AORType      string            `json:"aor_type"`
	OracleConfig *ConnectionConfig `json:"oracle_config,omitempty"`
}

type AORRemoval struct {
	Username     string            `json:"username"`
	AORID        string            `json:"aor_id"`
	OracleConfig *ConnectionConfig `json:"oracle_config,omitempty"`
}

type PasswordReset struct {
	Username     string            `json:"username"`
	NewPassword  string            `json:"new_password"`
	OracleConfig *ConnectionConfig `json:"oracle_config,omitempty"`
}

type PasswordUpdate struct {
	Username        string            `json:"username"`
	CurrentPassword string            `json:"current_password"`
	NewPassword     string            `json:"new_password"`
	OracleConfig    *ConnectionConfig `json:"oracle_config,omitempty"`
}

// UserCriteria and AORCriteria only carry the fields the user filled in.
type UserCriteria struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Active   string `json:"active,omitempty"`
}

func (c UserCriteria) Empty() bool {
	return c.Username == "" && c.Email == "" && c.Active == ""
}

type AORCriteria struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
}

func (c AORCriteria) Empty() bool {
	return c.Name == "" && c.Type == ""
}

type bulkPayload[T any] struct {
	Assignments  []T               `json:"assignments"`
	OracleConfig *ConnectionConfig `json:"oracle_config"`
}

type searchPayload[T any] struct {
	SearchCriteria T                 `json:"search_criteria"`
	OracleConfig   *ConnectionConfig `json:"oracle_config"`
}

type usernamePayload struct {
	Username     string            `json:"username"`
	OracleConfig *ConnectionConfig `json:"oracle_config"`
}

func (c *Client) get(ctx context.Context, action, endpoint string, cfg *ConnectionConfig) OperationResult {
	var q url.Values
	if cfg.Complete() {
		q = cfg.Query()
	}
	return c.Call(ctx, Request{
		Action:   action,
		Method:   http.MethodGet,
		Endpoint: endpoint,
		Query:    q,
	}, cfg)
}

func (c *Client) post(ctx context.Context, action, subject, endpoint string, payload any, cfg *ConnectionConfig) OperationResult {
	return c.Call(ctx, Request{
		Action:   action,
		Subject:  subject,
		Method:   http.MethodPost,
		Endpoint: endpoint,
		Payload:  payload,
	}, cfg)
}

// ListUsers also verifies credentials on connect.
func (c *Client) ListUsers(ctx context.Context, cfg *ConnectionConfig) OperationResult {
	return c.get(ctx, "users.list", usersPath+"/", cfg)
}

func (c *Client) GetUser(ctx context.Context, username string, cfg *ConnectionConfig) OperationResult {
	return c.get(ctx, "users.get", usersPath+"/"+url.PathEscape(username), cfg)
}

func (c *Client) UserDetails(ctx context.Context, username string, cfg *ConnectionConfig) OperationResult {
	return c.post(ctx, "users.details", username, usersPath+"/details",
		usernamePayload{Username: username, OracleConfig: cfg}, cfg)
}

func (c *Client) AssignRole(ctx context.Context, a RoleAssignment, cfg *ConnectionConfig) OperationResult {
	a.OracleConfig = cfg
	return c.post(ctx, "role.assign", a.Username, usersPath+"/roles/assign", a, cfg)
}

func (c *Client) RemoveRole(ctx context.Context, a RoleAssignment, cfg *ConnectionConfig) OperationResult {
	a.OracleConfig = cfg
	return c.post(ctx, "role.remove", a.Username, usersPath+"/roles/remove", a, cfg)
}

func (c *Client) BulkAssignRoles(ctx context.Context, rows []RoleAssignment, cfg *ConnectionConfig) OperationResult {
	rows = slices.Clone(rows)
	for i := range rows {
		rows[i].OracleConfig = cfg
	}
	return c.post(ctx, "role.bulk_assign", "", usersPath+"/roles/bulk-assign",
		bulkPayload[RoleAssignment]{Assignments: rows, OracleConfig: cfg}, cfg)
}

func (c *Client) AssignDataSecurity(ctx context.Context, a DataSecurityAssignment, cfg *ConnectionConfig) OperationResult {
	a.OracleConfig = cfg
	return c.post(ctx, "security.assign", a.Username, usersPath+"/data-security/assign", a, cfg)
}

func (c *Client) BulkAssignDataSecurity(ctx context.Context, rows []DataSecurityAssignment, cfg *ConnectionConfig) OperationResult {
	rows = slices.Clone(rows)
	for i := range rows {
		rows[i].OracleConfig = cfg
	}
	return c.post(ctx, "security.bulk_assign", "", usersPath+"/data-security/bulk-assign",
		bulkPayload[DataSecurityAssignment]{Assignments: rows, OracleConfig: cfg}, cfg)
}

func (c *Client) ListAORs(ctx context.Context, cfg *ConnectionConfig) OperationResult {
	return c.get(ctx, "aor.list", aorPath+"/", cfg)
}

func (c *Client) AssignAOR(ctx context.Context, a AORAssignment, cfg *ConnectionConfig) OperationResult {
	if a.AORType == "" {
		a.AORType = DefaultAORType
	}
	a.OracleConfig = cfg
	return c.post(ctx, "aor.assign", a.Username, aorPath+"/assign", a, cfg)
}

func (c *Client) RemoveAOR(ctx context.Context, a AORRemoval, cfg *ConnectionConfig) OperationResult {
	a.OracleConfig = cfg
	return c.post(ctx, "aor.remove", a.Username, aorPath+"/remove", a, cfg)
}

func (c *Client) BulkAssignAORs(ctx context.Context, rows []AORAssignment, cfg *ConnectionConfig) OperationResult {
	rows = slices.Clone(rows)
	for i := range rows {
		if rows[i].AORType == "" {
			rows[i].AORType = DefaultAORType
		}
		rows[i].OracleConfig = cfg
	}
	return c.post(ctx, "aor.bulk_assign", "", aorPath+"/bulk-assign",
		bulkPayload[AORAssignment]{Assignments: rows, OracleConfig: cfg}, cfg)
}

func (c *Client) SearchAORs(ctx context.Context, criteria AORCriteria, cfg *ConnectionConfig) OperationResult {
	return c.post(ctx, "aor.search", criteria.Name, aorPath+"/search",
		searchPayload[AORCriteria]{SearchCriteria: criteria, OracleConfig: cfg}, cfg)
}

func (c *Client) SearchUsers(ctx context.Context, criteria UserCriteria, cfg *ConnectionConfig) OperationResult {
	return c.post(ctx, "users.search", criteria.Username, usersPath+"/search",
		searchPayload[UserCriteria]{SearchCriteria: criteria, OracleConfig: cfg}, cfg)
}

func (c *Client) ResetPassword(ctx context.Context, p PasswordReset, cfg *ConnectionConfig) OperationResult {
	p.OracleConfig = cfg
	return c.post(ctx, "password.reset", p.Username, usersPath+"/password/reset", p, cfg)
}

func (c *Client) UpdatePassword(ctx context.Context, p PasswordUpdate, cfg *ConnectionConfig) OperationResult {
	p.OracleConfig = cfg
	return c.post(ctx, "password.update", p.Username, usersPath+"/password/update", p, cfg)
}

// UploadExcel sends the workbook as multipart form data with the
// credentials as plain fields.
func (c *Client) UploadExcel(ctx context.Context, operation OperationType, fileName string, file io.Reader, cfg *ConnectionConfig) OperationResult {
	form := &MultipartForm{
		FileField: "file",
		FileName:  fileName,
		File:      file,
		Fields:    []FormField{{Name: "operation_type", Value: string(operation)}},
	}
	if cfg.Complete() {
		form.Fields = append(form.Fields,
			FormField{Name: "instance_url", Value: cfg.InstanceURL},
			FormField{Name: "oracle_username", Value: cfg.Username},
			FormField{Name: "oracle_password", Value: cfg.Password},
		)
	}
	return c.Call(ctx, Request{
		Action:   "upload.excel",
		Subject:  fileName,
		Method:   http.MethodPost,
		Endpoint: "/upload/excel",
		Form:     form,
	}, cfg)
}
