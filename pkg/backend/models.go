package backend

import (
	"bytes"
	"encoding/json"
)

type ScimValue struct {
	Value   string `json:"value"`
	Type    string `json:"type,omitempty"`
	Primary bool   `json:"primary,omitempty"`
}

type ScimName struct {
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
}

type ScimRole struct {
	ID          string `json:"id,omitempty"`
	Value       string `json:"value"`
	DisplayName string `json:"displayName,omitempty"`
	Display     string `json:"display,omitempty"`
	Description string `json:"description,omitempty"`
}

// Label is the name shown for a role: its value, falling back to the display name.
func (r ScimRole) Label() string {
	switch {
	case r.Value != "":
		return r.Value
	case r.DisplayName != "":
		return r.DisplayName
	default:
		return r.Display
	}
}

type ScimMeta struct {
	Created      string `json:"created"`
	LastModified string `json:"lastModified"`
}

type ScimManager struct {
	DisplayName string `json:"displayName"`
}

type ScimUser struct {
	ID             string       `json:"id"`
	UserName       string       `json:"userName"`
	DisplayName    string       `json:"displayName"`
	Active         bool         `json:"active"`
	Name           *ScimName    `json:"name,omitempty"`
	Emails         []ScimValue  `json:"emails,omitempty"`
	Roles          []ScimRole   `json:"roles,omitempty"`
	UserType       string       `json:"userType,omitempty"`
	Title          string       `json:"title,omitempty"`
	Organization   string       `json:"organization,omitempty"`
	Department     string       `json:"department,omitempty"`
	Manager        *ScimManager `json:"manager,omitempty"`
	Meta           ScimMeta     `json:"meta"`
	ExternalID     string       `json:"externalId,omitempty"`
	EmployeeNumber string       `json:"employeeNumber,omitempty"`
	CostCenter     string       `json:"costCenter,omitempty"`
	Division       string       `json:"division,omitempty"`
}

func (u ScimUser) PrimaryEmail() string {
	if len(u.Emails) == 0 {
		return ""
	}
	return u.Emails[0].Value
}

// UsersPage is the SCIM-like list shape with a top-level Resources array.
type UsersPage struct {
	TotalResults int        `json:"totalResults,omitempty"`
	Resources    []ScimUser `json:"Resources"`
}

// ID accepts both numeric and string identifiers.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	*id = ID(b)
	return nil
}

type AOR struct {
	ID          ID     `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Type        string `json:"type,omitempty"`
	UserAccount string `json:"userAccountId,omitempty"`
}

func (a AOR) Label() string {
	if a.Name != "" {
		return a.Name
	}
	return a.DisplayName
}

func (a AOR) TypeLabel() string {
	if a.Type == "" {
		return "General"
	}
	return a.Type
}

type AORPage struct {
	Items []AOR `json:"items"`
}

type SecurityContext struct {
	Context string `json:"context"`
	Value   string `json:"value"`
}

type UserDetails struct {
	Username              string            `json:"username"`
	PersonNumber          string            `json:"person_number"`
	DisplayName           string            `json:"display_name"`
	Email                 string            `json:"email"`
	IsActive              bool              `json:"is_active"`
	UserGUID              string            `json:"user_guid"`
	CreatedDate           string            `json:"created_date"`
	LastModified          string            `json:"last_modified"`
	AssignedRoles         []ScimRole        `json:"assigned_roles"`
	AreasOfResponsibility []AOR             `json:"areas_of_responsibility"`
	DataSecurityContexts  []SecurityContext `json:"data_security_contexts"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type OperationStatus struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type BulkOperationResponse struct {
	TotalOperations      int               `json:"total_operations"`
	SuccessfulOperations int               `json:"successful_operations"`
	FailedOperations     int               `json:"failed_operations"`
	Results              []OperationStatus `json:"results"`
	// SkippedLines are input lines rejected before the batch was sent.
	SkippedLines []string `json:"skipped_lines,omitempty"`
}

type UploadError struct {
	Row      int    `json:"row"`
	Username string `json:"username,omitempty"`
	Error    string `json:"error"`
}

type ProcessedRecord struct {
	Row      int    `json:"row"`
	Username string `json:"username,omitempty"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
}

type UploadResponse struct {
	SuccessCount     int               `json:"success_count"`
	FailureCount     int               `json:"failure_count"`
	Errors           []UploadError     `json:"errors"`
	ProcessedRecords []ProcessedRecord `json:"processed_records"`
}

func (u UploadResponse) Total() int {
	return u.SuccessCount + u.FailureCount
}
