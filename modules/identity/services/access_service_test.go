package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/hcm-console/pkg/backend"
	"github.com/iota-uz/hcm-console/pkg/bulk"
	"github.com/iota-uz/hcm-console/pkg/notify"
)

const bulkBody = `{"total_operations":2,"successful_operations":1,"failed_operations":1,
	"results":[{"success":true,"message":"ok"},{"success":false,"message":"failed","error":"no such role"}]}`

func TestAccessService_Validation(t *testing.T) {
	fb := newFakeBackend(t)
	svc := NewAccessService(fb.client(t), bulk.Lenient)
	ctx := context.Background()

	cases := []struct {
		name string
		run  func() backend.OperationResult
		want string
	}{
		{"assign role without role", func() backend.OperationResult {
			return svc.AssignRole(ctx, backend.RoleAssignment{Username: "john"}, config())
		}, notify.MsgFillAllFields},
		{"remove role with blank username", func() backend.OperationResult {
			return svc.RemoveRole(ctx, backend.RoleAssignment{Username: "  ", RoleName: "HR"}, config())
		}, notify.MsgFillAllFields},
		{"data security missing value", func() backend.OperationResult {
			return svc.AssignDataSecurity(ctx, backend.DataSecurityAssignment{
				Username: "john", RoleName: "HR", DataSecurityContext: "DEPARTMENT",
			}, config())
		}, notify.MsgFillAllFields},
		{"aor without name", func() backend.OperationResult {
			return svc.AssignAOR(ctx, backend.AORAssignment{Username: "john"}, config())
		}, notify.MsgFillAllFields},
		{"remove aor without id", func() backend.OperationResult {
			return svc.RemoveAOR(ctx, backend.AORRemoval{Username: "john"}, config())
		}, notify.MsgFillAllFields},
		{"empty bulk text", func() backend.OperationResult {
			_, res := svc.BulkAssignRoles(ctx, " \n ", config())
			return res
		}, notify.MsgEnterBulkData},
		{"bulk without a valid row", func() backend.OperationResult {
			_, res := svc.BulkAssignAORs(ctx, "username,aor_name\njohn,\n", config())
			return res
		}, notify.MsgNoValidAssignments},
		{"aor search without criteria", func() backend.OperationResult {
			_, res := svc.SearchAORs(ctx, backend.AORCriteria{Name: " "}, config())
			return res
		}, notify.MsgSearchCriteria},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := tc.run()
			assert.False(t, res.Success)
			assert.Equal(t, backend.KindValidation, res.Kind)
			assert.Equal(t, tc.want, res.Error)
		})
	}
	assert.Empty(t, fb.calls())
}

func TestAccessService_AssignRoleTrims(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("/users/roles/assign", http.StatusOK, `{"success":true,"message":"Role assigned"}`)
	svc := NewAccessService(fb.client(t), bulk.Lenient)

	res := svc.AssignRole(context.Background(), backend.RoleAssignment{Username: " john ", RoleName: " HR "}, config())
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Role assigned", res.Message)

	var sent backend.RoleAssignment
	require.NoError(t, json.Unmarshal([]byte(fb.body("/users/roles/assign")), &sent))
	assert.Equal(t, "john", sent.Username)
	assert.Equal(t, "HR", sent.RoleName)
}

func TestAccessService_AssignAORDefaultsType(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("/areas-of-responsibility/assign", http.StatusOK, `{"success":true}`)
	svc := NewAccessService(fb.client(t), bulk.Lenient)

	res := svc.AssignAOR(context.Background(), backend.AORAssignment{Username: "john", AORName: "HR_DEPARTMENT"}, config())
	require.True(t, res.Success, res.Error)

	var sent backend.AORAssignment
	require.NoError(t, json.Unmarshal([]byte(fb.body("/areas-of-responsibility/assign")), &sent))
	assert.Equal(t, backend.DefaultAORType, sent.AORType)
}

func TestAccessService_BulkLenientReportsSkippedLines(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("/users/roles/bulk-assign", http.StatusOK, bulkBody)
	svc := NewAccessService(fb.client(t), bulk.Lenient)

	out, res := svc.BulkAssignRoles(context.Background(), "username,role_name\njohn,HR\nbroken\n\njane,EMPLOYEE\n", config())
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 1, out.SuccessfulOperations)
	assert.Equal(t, 1, out.FailedOperations)
	require.Len(t, out.Results, 2)
	assert.Equal(t, "no such role", out.Results[1].Error)
	assert.Equal(t, []string{"line 3: missing role_name"}, out.SkippedLines)

	var sent struct {
		Assignments []backend.RoleAssignment `json:"assignments"`
	}
	require.NoError(t, json.Unmarshal([]byte(fb.body("/users/roles/bulk-assign")), &sent))
	require.Len(t, sent.Assignments, 2)
	assert.Equal(t, "john", sent.Assignments[0].Username)
	assert.Equal(t, "jane", sent.Assignments[1].Username)
}

func TestAccessService_BulkStrictRejectsBatch(t *testing.T) {
	fb := newFakeBackend(t)
	svc := NewAccessService(fb.client(t), bulk.Strict)
	assert.Equal(t, bulk.Strict, svc.Mode())

	_, res := svc.BulkAssignDataSecurity(context.Background(), "john,HR,DEPARTMENT,IT\njane,HR,DEPARTMENT\n", config())
	assert.Equal(t, backend.KindValidation, res.Kind)
	assert.Contains(t, res.Error, "security_value")
	assert.Empty(t, fb.calls())
}

func TestAccessService_ListAndSearchAORs(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("/areas-of-responsibility/", http.StatusOK, aorsBody)
	fb.on("/areas-of-responsibility/search", http.StatusOK, `{"items":[{"id":"9","name":"FIN","type":"FINANCE"}]}`)
	svc := NewAccessService(fb.client(t), bulk.Lenient)

	items, res := svc.ListAORs(context.Background(), config())
	require.True(t, res.Success, res.Error)
	require.Len(t, items, 2)
	assert.Equal(t, backend.ID("7"), items[0].ID)
	assert.Equal(t, "IT_SUPPORT", items[1].Label())

	found, res := svc.SearchAORs(context.Background(), backend.AORCriteria{Type: " FINANCE "}, config())
	require.True(t, res.Success, res.Error)
	require.Len(t, found, 1)
	assert.Equal(t, "FIN", found[0].Name)
}

func TestAccessService_BulkBackendFailure(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("/areas-of-responsibility/bulk-assign", http.StatusBadGateway, `upstream down`)
	svc := NewAccessService(fb.client(t), bulk.Lenient)

	out, res := svc.BulkAssignAORs(context.Background(), "john,HR_DEPARTMENT", config())
	assert.Nil(t, out)
	assert.Equal(t, backend.KindBackend, res.Kind)
	assert.Equal(t, http.StatusBadGateway, res.Status)
}
