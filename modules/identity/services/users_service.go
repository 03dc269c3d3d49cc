package services

import (
	"context"
	"strings"

	"github.com/iota-uz/hcm-console/pkg/backend"
	"github.com/iota-uz/hcm-console/pkg/notify"
)

// UsersService covers user lookup, search, export and passwords.
type UsersService struct {
	client *backend.Client
}

func NewUsersService(client *backend.Client) *UsersService {
	return &UsersService{client: client}
}

func (s *UsersService) Details(ctx context.Context, username string, cfg *backend.ConnectionConfig) (*backend.UserDetails, backend.OperationResult) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, backend.Invalid(notify.MsgEnterUsername)
	}
	res := s.client.UserDetails(ctx, username, cfg)
	if !res.Success {
		return nil, res
	}
	details := &backend.UserDetails{}
	if err := res.Decode(details); err != nil {
		return nil, backend.Failed(backend.KindDecode, res.Status, err.Error())
	}
	return details, res
}

// Get reads the raw SCIM record of one user.
func (s *UsersService) Get(ctx context.Context, username string, cfg *backend.ConnectionConfig) (*backend.ScimUser, backend.OperationResult) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, backend.Invalid(notify.MsgEnterUsername)
	}
	res := s.client.GetUser(ctx, username, cfg)
	if !res.Success {
		return nil, res
	}
	user := &backend.ScimUser{}
	if err := res.Decode(user); err != nil {
		return nil, backend.Failed(backend.KindDecode, res.Status, err.Error())
	}
	return user, res
}

func (s *UsersService) List(ctx context.Context, cfg *backend.ConnectionConfig) ([]backend.ScimUser, backend.OperationResult) {
	res := s.client.ListUsers(ctx, cfg)
	if !res.Success {
		return nil, res
	}
	var page backend.UsersPage
	if err := res.Decode(&page); err != nil {
		return nil, backend.Failed(backend.KindDecode, res.Status, err.Error())
	}
	return page.Resources, res
}

// Export lists every user and renders the users workbook.
func (s *UsersService) Export(ctx context.Context, cfg *backend.ConnectionConfig) ([]byte, backend.OperationResult) {
	users, res := s.List(ctx, cfg)
	if !res.Success {
		return nil, res
	}
	data, err := UsersWorkbook(users)
	if err != nil {
		return nil, backend.Failed(backend.KindEncode, 0, err.Error())
	}
	return data, res
}

func (s *UsersService) Search(ctx context.Context, criteria backend.UserCriteria, cfg *backend.ConnectionConfig) ([]backend.ScimUser, backend.OperationResult) {
	criteria = backend.UserCriteria{
		Username: strings.TrimSpace(criteria.Username),
		Email:    strings.TrimSpace(criteria.Email),
		Active:   strings.TrimSpace(criteria.Active),
	}
	if criteria.Empty() {
		return nil, backend.Invalid(notify.MsgSearchCriteria)
	}
	res := s.client.SearchUsers(ctx, criteria, cfg)
	if !res.Success {
		return nil, res
	}
	var page backend.UsersPage
	if err := res.Decode(&page); err != nil {
		return nil, backend.Failed(backend.KindDecode, res.Status, err.Error())
	}
	return page.Resources, res
}

// ResetPassword never trims passwords; only the username is trimmed.
func (s *UsersService) ResetPassword(ctx context.Context, p backend.PasswordReset, cfg *backend.ConnectionConfig) backend.OperationResult {
	p.Username = strings.TrimSpace(p.Username)
	if p.Username == "" || p.NewPassword == "" {
		return backend.Invalid(notify.MsgFillAllFields)
	}
	return s.client.ResetPassword(ctx, p, cfg)
}

func (s *UsersService) UpdatePassword(ctx context.Context, p backend.PasswordUpdate, cfg *backend.ConnectionConfig) backend.OperationResult {
	p.Username = strings.TrimSpace(p.Username)
	if p.Username == "" || p.CurrentPassword == "" || p.NewPassword == "" {
		return backend.Invalid(notify.MsgFillAllFields)
	}
	return s.client.UpdatePassword(ctx, p, cfg)
}
