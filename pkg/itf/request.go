package itf

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Request struct {
	suite   *Suite
	method  string
	path    string
	form    url.Values
	body    io.Reader
	headers http.Header
	files   []file
}

type file struct {
	field, name string
	content     []byte
}

func (s *Suite) GET(path string) *Request {
	return &Request{suite: s, method: http.MethodGet, path: path, headers: http.Header{}}
}

func (s *Suite) POST(path string) *Request {
	return &Request{suite: s, method: http.MethodPost, path: path, headers: http.Header{}}
}

func (r *Request) Form(values url.Values) *Request {
	r.form = values
	return r
}

func (r *Request) Header(key, value string) *Request {
	r.headers.Set(key, value)
	return r
}

// File switches the request to multipart and attaches content as field.
func (r *Request) File(field, name string, content []byte) *Request {
	r.files = append(r.files, file{field: field, name: name, content: content})
	return r
}

func (r *Request) build(tb testing.TB) *http.Request {
	tb.Helper()
	var (
		body        io.Reader = r.body
		contentType string
	)
	switch {
	case len(r.files) > 0:
		buf := &bytes.Buffer{}
		w := multipart.NewWriter(buf)
		for _, f := range r.files {
			part, err := w.CreateFormFile(f.field, f.name)
			require.NoError(tb, err)
			_, err = part.Write(f.content)
			require.NoError(tb, err)
		}
		for k, vs := range r.form {
			for _, v := range vs {
				require.NoError(tb, w.WriteField(k, v))
			}
		}
		require.NoError(tb, w.Close())
		body, contentType = buf, w.FormDataContentType()
	case r.form != nil:
		body, contentType = strings.NewReader(r.form.Encode()), "application/x-www-form-urlencoded"
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, vs := range r.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.AddCookie(&http.Cookie{Name: BrowserCookie, Value: r.suite.browserID})
	req.Header.Set("Accept-Language", r.suite.language)
	return req
}

// Expect performs the request.
func (r *Request) Expect(tb testing.TB) *Response {
	tb.Helper()
	rec := httptest.NewRecorder()
	r.suite.handler().ServeHTTP(rec, r.build(tb))
	return &Response{tb: tb, rec: rec}
}

type Response struct {
	tb  testing.TB
	rec *httptest.ResponseRecorder
}

func (r *Response) Status(code int) *Response {
	r.tb.Helper()
	assert.Equal(r.tb, code, r.rec.Code, "body: %s", r.rec.Body.String())
	return r
}

func (r *Response) RedirectTo(location string) *Response {
	r.tb.Helper()
	assert.Equal(r.tb, location, r.rec.Header().Get("Location"))
	return r
}

func (r *Response) Contains(text string) *Response {
	r.tb.Helper()
	assert.Contains(r.tb, r.rec.Body.String(), text)
	return r
}

func (r *Response) NotContains(text string) *Response {
	r.tb.Helper()
	assert.NotContains(r.tb, r.rec.Body.String(), text)
	return r
}

func (r *Response) HeaderEquals(key, value string) *Response {
	r.tb.Helper()
	assert.Equal(r.tb, value, r.rec.Header().Get(key))
	return r
}

func (r *Response) Body() string {
	return r.rec.Body.String()
}

func (r *Response) Bytes() []byte {
	return r.rec.Body.Bytes()
}

func (r *Response) Header() http.Header {
	return r.rec.Header()
}

// HTML parses the body as a document for selector based assertions.
func (r *Response) HTML() *goquery.Document {
	r.tb.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.rec.Body.Bytes()))
	require.NoError(r.tb, err)
	return doc
}

// Element asserts that selector matches at least once and returns the matches.
func (r *Response) Element(selector string) *goquery.Selection {
	r.tb.Helper()
	sel := r.HTML().Find(selector)
	assert.NotZero(r.tb, sel.Length(), "no element matches %q", selector)
	return sel
}
