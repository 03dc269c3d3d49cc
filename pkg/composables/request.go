package composables

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hcm-console/pkg/constants"
	"github.com/iota-uz/hcm-console/pkg/types"
)

var (
	ErrNoBrowserID = errors.New("browser id not found")
)

type Params struct {
	IP        string
	UserAgent string
	Request   *http.Request
	Writer    http.ResponseWriter
}

// UseParams returns the request parameters from the context.
// If the parameters are not found, the second return value will be false.
func UseParams(ctx context.Context) (*Params, bool) {
	params, ok := ctx.Value(constants.ParamsKey).(*Params)
	return params, ok
}

// WithParams returns a new context with the request parameters.
func WithParams(ctx context.Context, params *Params) context.Context {
	return context.WithValue(ctx, constants.ParamsKey, params)
}

// UseLogger returns the request scoped logger.
// Outside of an HTTP request (CLI, background tasks) the standard logger is used.
func UseLogger(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(constants.LoggerKey).(*logrus.Entry); ok && entry != nil {
		return entry
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, entry)
}

// UseBrowserID returns the id of the browser the request belongs to.
func UseBrowserID(ctx context.Context) (string, error) {
	id, ok := ctx.Value(constants.BrowserIDKey).(string)
	if !ok || id == "" {
		return "", ErrNoBrowserID
	}
	return id, nil
}

func WithBrowserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, constants.BrowserIDKey, id)
}

// UseIP returns the IP address from the context.
// If the IP address is not found, the second return value will be false.
func UseIP(ctx context.Context) (string, bool) {
	params, ok := UseParams(ctx)
	if !ok {
		return "", false
	}
	return params.IP, true
}

// UseUserAgent returns the user agent from the context.
// If the user agent is not found, the second return value will be false.
func UseUserAgent(ctx context.Context) (string, bool) {
	params, ok := UseParams(ctx)
	if !ok {
		return "", false
	}
	return params.UserAgent, true
}

func WithPageCtx(ctx context.Context, p types.PageContextProvider) context.Context {
	return context.WithValue(ctx, constants.PageContextKey, p)
}

// UsePageCtx returns the page context of the request. Outside a request a
// context without localizer is returned, which echoes message ids.
func UsePageCtx(ctx context.Context) types.PageContextProvider {
	if p, ok := ctx.Value(constants.PageContextKey).(types.PageContextProvider); ok {
		return p
	}
	return &types.PageContext{}
}

func UseQuery[T comparable](v T, r *http.Request) (T, error) {
	return v, constants.Decoder.Decode(v, r.URL.Query())
}

// UseForm decodes the request form into v. Multipart bodies must be parsed
// by the caller first.
func UseForm[T comparable](v T, r *http.Request) (T, error) {
	if r.MultipartForm == nil {
		if err := r.ParseForm(); err != nil {
			return v, err
		}
	}
	return v, constants.Decoder.Decode(v, r.Form)
}

func WithAppearance(ctx context.Context, a types.Appearance) context.Context {
	return context.WithValue(ctx, constants.AppearanceKey, a)
}

// UseAppearance returns the appearance settings of the request, or the
// light theme defaults.
func UseAppearance(ctx context.Context) types.Appearance {
	if a, ok := ctx.Value(constants.AppearanceKey).(types.Appearance); ok {
		return a
	}
	return types.Appearance{Theme: "light"}
}
