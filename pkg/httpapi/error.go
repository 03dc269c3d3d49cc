// Package httpapi writes the JSON responses of the download, ops and JSON
// endpoints, with one error envelope for all of them.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/iota-uz/hcm-console/pkg/backend"
)

// Error codes of the envelope.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInternal         = "INTERNAL_SERVER_ERROR"
	CodeNoWorkspace      = "NO_WORKSPACE"
	CodeLogsUnavailable  = "LOGS_UNAVAILABLE"
	CodeValidation       = "VALIDATION_FAILED"
	CodeNotConnected     = "NOT_CONNECTED"
	CodeBackend          = "BACKEND_ERROR"
	CodeBackendDown      = "BACKEND_UNREACHABLE"
	CodeBadResponse      = "BAD_BACKEND_RESPONSE"
)

// ErrorEnvelope is the body of every JSON error.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// WantsJSON reports whether the client asked for JSON, by ?format=json or
// the Accept header.
func WantsJSON(r *http.Request) bool {
	return r.URL.Query().Get("format") == "json" ||
		strings.Contains(strings.ToLower(r.Header.Get("Accept")), "application/json")
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// ResultStatus maps a failed operation to its HTTP status and error code.
// A backend rejection keeps the backend's 4xx status; anything else it
// answers is a bad gateway.
func ResultStatus(res backend.OperationResult) (int, string) {
	switch res.Kind {
	case backend.KindValidation:
		return http.StatusUnprocessableEntity, CodeValidation
	case backend.KindNotConnected:
		return http.StatusUnauthorized, CodeNotConnected
	case backend.KindTransport:
		return http.StatusBadGateway, CodeBackendDown
	case backend.KindDecode:
		return http.StatusBadGateway, CodeBadResponse
	case backend.KindBackend:
		if res.Status >= 400 && res.Status < 500 {
			return res.Status, CodeBackend
		}
		return http.StatusBadGateway, CodeBackend
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// WriteResult writes a failed operation as an error envelope. The result
// kind and the backend status go into meta.
func WriteResult(w http.ResponseWriter, res backend.OperationResult) error {
	status, code := ResultStatus(res)
	meta := map[string]string{"kind": res.Kind.String()}
	if res.Status != 0 {
		meta["backend_status"] = strconv.Itoa(res.Status)
	}
	return WriteError(w, status, code, res.Error, meta)
}
