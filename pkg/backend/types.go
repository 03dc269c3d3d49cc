package backend

import (
	"encoding/json"
	"io"
	"net/url"
	"strings"

	"github.com/go-faster/errors"
)

// NotConnectedMessage is shown whenever a tenant scoped action is attempted
// without a complete connection config.
const NotConnectedMessage = "Please connect to Oracle first"

var ErrNotConnected = errors.New(NotConnectedMessage)

// ConnectionConfig holds the credentials of one backend tenant. The same
// shape is embedded as oracle_config in request bodies and persisted as the
// browser's connection record.
type ConnectionConfig struct {
	InstanceURL string `json:"instance_url" form:"instanceUrl" validate:"required"`
	Username    string `json:"username" form:"username" validate:"required"`
	Password    string `json:"password" form:"password" validate:"required"`
}

// Complete reports whether every credential field is populated.
func (c *ConnectionConfig) Complete() bool {
	return c != nil &&
		strings.TrimSpace(c.InstanceURL) != "" &&
		strings.TrimSpace(c.Username) != "" &&
		strings.TrimSpace(c.Password) != ""
}

// Query returns the credentials in the query-string shape used by GET endpoints.
func (c *ConnectionConfig) Query() url.Values {
	q := url.Values{}
	q.Set("instance_url", c.InstanceURL)
	q.Set("oracle_username", c.Username)
	q.Set("oracle_password", c.Password)
	return q
}

func (c *ConnectionConfig) Clone() *ConnectionConfig {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

type ResultKind int

const (
	KindOK ResultKind = iota
	KindNotConnected
	KindEncode
	KindTransport
	KindBackend
	KindDecode
	KindValidation
)

func (k ResultKind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindNotConnected:
		return "not_connected"
	case KindEncode:
		return "encode"
	case KindTransport:
		return "transport"
	case KindBackend:
		return "backend"
	case KindDecode:
		return "decode"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// OperationResult is the outcome of exactly one pipeline call.
type OperationResult struct {
	Success bool
	Kind    ResultKind
	Status  int
	Message string
	Error   string
	Data    json.RawMessage
}

func NotConnected() OperationResult {
	return OperationResult{
		Kind:  KindNotConnected,
		Error: NotConnectedMessage,
	}
}

// Invalid is returned for input rejected before any request is built.
func Invalid(message string) OperationResult {
	return OperationResult{Kind: KindValidation, Error: message}
}

func Failed(kind ResultKind, status int, text string) OperationResult {
	return OperationResult{Kind: kind, Status: status, Error: text}
}

// Decode unmarshals the JSON body of a successful result into out.
func (r OperationResult) Decode(out any) error {
	if !r.Success {
		return errors.New(r.Error)
	}
	if len(r.Data) == 0 {
		return errors.New("empty response body")
	}
	if err := json.Unmarshal(r.Data, out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

// Value returns the generic JSON value of the response body.
func (r OperationResult) Value() (any, error) {
	var v any
	if err := r.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Err returns nil for a successful result and the error text otherwise.
func (r OperationResult) Err() error {
	if r.Success {
		return nil
	}
	if r.Kind == KindNotConnected {
		return ErrNotConnected
	}
	return errors.New(r.Error)
}

type FormField struct {
	Name  string
	Value string
}

// MultipartForm is sent instead of a JSON payload for file uploads.
type MultipartForm struct {
	Fields    []FormField
	FileField string
	FileName  string
	File      io.Reader
}

// Request describes one outbound call. Action and Subject only feed logs,
// metrics and the activity log.
type Request struct {
	Action   string
	Subject  string
	Method   string
	Endpoint string
	Query    url.Values
	Payload  any
	Form     *MultipartForm
}

const DefaultAORType = "GENERAL"

// OperationType selects how the backend interprets an uploaded workbook.
type OperationType string

const (
	OperationRoleAssignment OperationType = "role_assignment"
	OperationDataSecurity   OperationType = "data_security"
	OperationAORAssignment  OperationType = "aor_assignment"
)

func (o OperationType) Valid() bool {
	switch o {
	case OperationRoleAssignment, OperationDataSecurity, OperationAORAssignment:
		return true
	}
	return false
}
