package services

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/iota-uz/hcm-console/pkg/backend"
	"github.com/iota-uz/hcm-console/pkg/bulk"
	"github.com/iota-uz/hcm-console/pkg/notify"
)

// AccessService grants and revokes roles, data security contexts and
// areas of responsibility.
type AccessService struct {
	client *backend.Client
	mode   bulk.Mode
}

func NewAccessService(client *backend.Client, mode bulk.Mode) *AccessService {
	return &AccessService{client: client, mode: mode}
}

func (s *AccessService) Mode() bulk.Mode {
	return s.mode
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// parsed turns a bulk parse error into the warning shown for it. Lines a
// lenient parse skipped are returned as messages.
func parsed[T any](text string, parse func(string, bulk.Mode) ([]T, []bulk.RowError, error), mode bulk.Mode) ([]T, []string, *backend.OperationResult) {
	if strings.TrimSpace(text) == "" {
		res := backend.Invalid(notify.MsgEnterBulkData)
		return nil, nil, &res
	}
	rows, skipped, err := parse(text, mode)
	switch {
	case errors.Is(err, bulk.ErrNoValidRows):
		res := backend.Invalid(notify.MsgNoValidAssignments)
		return nil, nil, &res
	case err != nil:
		res := backend.Invalid(err.Error())
		return nil, nil, &res
	}
	lines := make([]string, 0, len(skipped))
	for i := range skipped {
		lines = append(lines, skipped[i].Error())
	}
	return rows, lines, nil
}

func bulkResponse(res backend.OperationResult, skipped []string) (*backend.BulkOperationResponse, backend.OperationResult) {
	if !res.Success {
		return nil, res
	}
	out := &backend.BulkOperationResponse{}
	if err := res.Decode(out); err != nil {
		return nil, backend.Failed(backend.KindDecode, res.Status, err.Error())
	}
	if len(skipped) > 0 {
		out.SkippedLines = skipped
	}
	return out, res
}

func trimRole(a backend.RoleAssignment) backend.RoleAssignment {
	a.Username = strings.TrimSpace(a.Username)
	a.RoleName = strings.TrimSpace(a.RoleName)
	return a
}

func (s *AccessService) AssignRole(ctx context.Context, a backend.RoleAssignment, cfg *backend.ConnectionConfig) backend.OperationResult {
	a = trimRole(a)
	if blank(a.Username, a.RoleName) {
		return backend.Invalid(notify.MsgFillAllFields)
	}
	return s.client.AssignRole(ctx, a, cfg)
}

func (s *AccessService) RemoveRole(ctx context.Context, a backend.RoleAssignment, cfg *backend.ConnectionConfig) backend.OperationResult {
	a = trimRole(a)
	if blank(a.Username, a.RoleName) {
		return backend.Invalid(notify.MsgFillAllFields)
	}
	return s.client.RemoveRole(ctx, a, cfg)
}

// BulkAssignRoles submits every valid line of text as one batch. In lenient
// mode the rejected lines are listed in SkippedLines.
func (s *AccessService) BulkAssignRoles(ctx context.Context, text string, cfg *backend.ConnectionConfig) (*backend.BulkOperationResponse, backend.OperationResult) {
	rows, skipped, invalid := parsed(text, bulk.ParseRoles, s.mode)
	if invalid != nil {
		return nil, *invalid
	}
	return bulkResponse(s.client.BulkAssignRoles(ctx, rows, cfg), skipped)
}

func (s *AccessService) AssignDataSecurity(ctx context.Context, a backend.DataSecurityAssignment, cfg *backend.ConnectionConfig) backend.OperationResult {
	a.Username = strings.TrimSpace(a.Username)
	a.RoleName = strings.TrimSpace(a.RoleName)
	a.DataSecurityContext = strings.TrimSpace(a.DataSecurityContext)
	a.DataSecurityValue = strings.TrimSpace(a.DataSecurityValue)
	if blank(a.Username, a.RoleName, a.DataSecurityContext, a.DataSecurityValue) {
		return backend.Invalid(notify.MsgFillAllFields)
	}
	return s.client.AssignDataSecurity(ctx, a, cfg)
}

func (s *AccessService) BulkAssignDataSecurity(ctx context.Context, text string, cfg *backend.ConnectionConfig) (*backend.BulkOperationResponse, backend.OperationResult) {
	rows, skipped, invalid := parsed(text, bulk.ParseDataSecurity, s.mode)
	if invalid != nil {
		return nil, *invalid
	}
	return bulkResponse(s.client.BulkAssignDataSecurity(ctx, rows, cfg), skipped)
}

func (s *AccessService) ListAORs(ctx context.Context, cfg *backend.ConnectionConfig) ([]backend.AOR, backend.OperationResult) {
	res := s.client.ListAORs(ctx, cfg)
	return aors(res)
}

func aors(res backend.OperationResult) ([]backend.AOR, backend.OperationResult) {
	if !res.Success {
		return nil, res
	}
	var page backend.AORPage
	if err := res.Decode(&page); err != nil {
		return nil, backend.Failed(backend.KindDecode, res.Status, err.Error())
	}
	return page.Items, res
}

// AssignAOR defaults a blank type to GENERAL.
func (s *AccessService) AssignAOR(ctx context.Context, a backend.AORAssignment, cfg *backend.ConnectionConfig) backend.OperationResult {
	a.Username = strings.TrimSpace(a.Username)
	a.AORName = strings.TrimSpace(a.AORName)
	a.AORType = strings.TrimSpace(a.AORType)
	if blank(a.Username, a.AORName) {
		return backend.Invalid(notify.MsgFillAllFields)
	}
	if a.AORType == "" {
		a.AORType = backend.DefaultAORType
	}
	return s.client.AssignAOR(ctx, a, cfg)
}

func (s *AccessService) RemoveAOR(ctx context.Context, a backend.AORRemoval, cfg *backend.ConnectionConfig) backend.OperationResult {
	a.Username = strings.TrimSpace(a.Username)
	a.AORID = strings.TrimSpace(a.AORID)
	if blank(a.Username, a.AORID) {
		return backend.Invalid(notify.MsgFillAllFields)
	}
	return s.client.RemoveAOR(ctx, a, cfg)
}

func (s *AccessService) BulkAssignAORs(ctx context.Context, text string, cfg *backend.ConnectionConfig) (*backend.BulkOperationResponse, backend.OperationResult) {
	rows, skipped, invalid := parsed(text, bulk.ParseAORs, s.mode)
	if invalid != nil {
		return nil, *invalid
	}
	return bulkResponse(s.client.BulkAssignAORs(ctx, rows, cfg), skipped)
}

func (s *AccessService) SearchAORs(ctx context.Context, criteria backend.AORCriteria, cfg *backend.ConnectionConfig) ([]backend.AOR, backend.OperationResult) {
	criteria = backend.AORCriteria{
		Name: strings.TrimSpace(criteria.Name),
		Type: strings.TrimSpace(criteria.Type),
	}
	if criteria.Empty() {
		return nil, backend.Invalid(notify.MsgSearchCriteria)
	}
	return aors(s.client.SearchAORs(ctx, criteria, cfg))
}
