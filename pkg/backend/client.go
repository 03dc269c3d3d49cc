package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/iota-uz/hcm-console/pkg/composables"
	"github.com/iota-uz/hcm-console/pkg/eventbus"
)

var tracer = otel.Tracer("hcm-console-backend")

// OperationCompleted is published after every call that reached the network
// or was rejected for lack of a session.
type OperationCompleted struct {
	BrowserID string
	Action    string
	Subject   string
	Method    string
	Endpoint  string
	Result    OperationResult
	Duration  time.Duration
	At        time.Time
}

type Options struct {
	// Timeout of zero leaves the round trip unbounded.
	Timeout         time.Duration
	RequestIDHeader string
	HTTPClient      *http.Client
	Logger          *logrus.Logger
	EventBus        eventbus.EventBus
}

type Client struct {
	baseURL         *url.URL
	httpClient      *http.Client
	requestIDHeader string
	log             *logrus.Logger
	bus             eventbus.EventBus
}

func NewClient(baseURL string, opts Options) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("invalid backend url: %q", baseURL)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		baseURL:         u,
		httpClient:      httpClient,
		requestIDHeader: opts.RequestIDHeader,
		log:             log,
		bus:             opts.EventBus,
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Call performs exactly one round trip for a tenant scoped request. Without a
// complete config no request is sent.
func (c *Client) Call(ctx context.Context, req Request, cfg *ConnectionConfig) OperationResult {
	start := time.Now()
	if !cfg.Complete() {
		res := NotConnected()
		c.complete(ctx, req, res, start)
		return res
	}

	ctx, span := tracer.Start(ctx, "backend."+req.actionName(),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("backend.endpoint", req.Endpoint),
		),
	)
	defer span.End()

	res := c.do(ctx, req)
	span.SetAttributes(attribute.Int("http.status_code", res.Status))
	if !res.Success {
		span.SetStatus(codes.Error, res.Kind.String())
	}
	c.complete(ctx, req, res, start)
	return res
}

func (c *Client) do(ctx context.Context, req Request) OperationResult {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return Failed(KindEncode, 0, err.Error())
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Failed(KindTransport, 0, transportMessage(err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Failed(KindTransport, resp.StatusCode, err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Failed(KindBackend, resp.StatusCode, string(body))
	}
	if !json.Valid(body) {
		return Failed(KindDecode, resp.StatusCode, "invalid JSON in response body")
	}
	return OperationResult{
		Success: true,
		Kind:    KindOK,
		Status:  resp.StatusCode,
		Message: messageOf(body),
		Data:    json.RawMessage(body),
	}
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + req.Endpoint
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Form != nil:
		buf, ct, err := encodeMultipart(req.Form)
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	case req.Payload != nil:
		b, err := json.Marshal(req.Payload)
		if err != nil {
			return nil, errors.Wrap(err, "json marshal request")
		}
		body, contentType = bytes.NewReader(b), "application/json"
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "http request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if c.requestIDHeader != "" {
		httpReq.Header.Set(c.requestIDHeader, uuid.NewString())
	}
	return httpReq, nil
}

func encodeMultipart(form *MultipartForm) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	if form.File != nil {
		field := form.FileField
		if field == "" {
			field = "file"
		}
		part, err := w.CreateFormFile(field, form.FileName)
		if err != nil {
			return nil, "", errors.Wrap(err, "multipart file")
		}
		if _, err := io.Copy(part, form.File); err != nil {
			return nil, "", errors.Wrap(err, "multipart copy")
		}
	}
	for _, f := range form.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", errors.Wrap(err, "multipart field")
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "multipart close")
	}
	return buf, w.FormDataContentType(), nil
}

func (c *Client) complete(ctx context.Context, req Request, res OperationResult, start time.Time) {
	duration := time.Since(start)
	observe(req.actionName(), res, duration)

	fields := logrus.Fields{
		"component": "backend",
		"action":    req.actionName(),
		"endpoint":  req.Endpoint,
		"result":    res.Kind.String(),
		"status":    res.Status,
		"duration":  duration,
	}
	if res.Success {
		composables.UseLogger(ctx).WithFields(fields).Debug("backend call completed")
	} else {
		composables.UseLogger(ctx).WithFields(fields).WithField("error", res.Error).Info("backend call failed")
	}

	if c.bus == nil {
		return
	}
	browserID, _ := composables.UseBrowserID(ctx)
	// The activity log must outlive a cancelled navigation.
	_ = c.bus.Publish(context.WithoutCancel(ctx), OperationCompleted{
		BrowserID: browserID,
		Action:    req.actionName(),
		Subject:   req.Subject,
		Method:    req.Method,
		Endpoint:  req.Endpoint,
		Result:    res,
		Duration:  duration,
		At:        start,
	})
}

func (r Request) actionName() string {
	if r.Action != "" {
		return r.Action
	}
	return strings.Trim(r.Endpoint, "/")
}

// transportMessage unwraps *url.Error so the shown text is the cause only.
func transportMessage(err error) string {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		return uerr.Err.Error()
	}
	return err.Error()
}

func messageOf(body []byte) string {
	var m struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &m); err != nil {
		return ""
	}
	return m.Message
}
