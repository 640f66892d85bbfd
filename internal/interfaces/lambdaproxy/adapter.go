// Package lambdaproxy serves an http.Handler behind API Gateway proxy
// integrations.
package lambdaproxy

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/valyala/bytebufferpool"

	"github.com/derekensign/mls-fantasy-sub000/internal/platform/logging"
)

type Adapter struct {
	handler http.Handler
	logger  *logging.Logger
}

func New(handler http.Handler, logger *logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Adapter{handler: handler, logger: logger}
}

// Handle converts the proxy event into a request, runs the router and folds
// the recorded response back into a proxy response.
func (a *Adapter) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	req, err := newRequest(ctx, event)
	if err != nil {
		a.logger.WarnContext(ctx, "invalid proxy event", "path", event.Path, "error", err)
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
			Body:       "bad request",
		}, nil
	}

	w := newResponseWriter()
	defer w.release()

	a.handler.ServeHTTP(w, req)
	return w.proxyResponse(), nil
}

func newRequest(ctx context.Context, event events.APIGatewayProxyRequest) (*http.Request, error) {
	path := event.Path
	if path == "" {
		path = "/"
	}

	u := url.URL{Path: path}
	query := url.Values{}
	for k, vs := range event.MultiValueQueryStringParameters {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	for k, v := range event.QueryStringParameters {
		if _, ok := query[k]; !ok {
			query.Set(k, v)
		}
	}
	u.RawQuery = query.Encode()

	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return nil, fmt.Errorf("decode base64 body: %w", err)
		}
		body = string(decoded)
	}

	method := event.HTTPMethod
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for k, vs := range event.MultiValueHeaders {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, v := range event.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	req.ContentLength = int64(len(body))
	req.RemoteAddr = event.RequestContext.Identity.SourceIP
	if host := req.Header.Get("Host"); host != "" {
		req.Host = host
	}
	req.RequestURI = u.RequestURI()

	return req, nil
}

type responseWriter struct {
	header http.Header
	status int
	body   *bytebufferpool.ByteBuffer
}

func newResponseWriter() *responseWriter {
	return &responseWriter{
		header: http.Header{},
		body:   bytebufferpool.Get(),
	}
}

func (w *responseWriter) Header() http.Header {
	return w.header
}

func (w *responseWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
}

func (w *responseWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.body.Write(p)
}

func (w *responseWriter) release() {
	bytebufferpool.Put(w.body)
	w.body = nil
}

func (w *responseWriter) proxyResponse() events.APIGatewayProxyResponse {
	status := w.status
	if status == 0 {
		status = http.StatusOK
	}

	resp := events.APIGatewayProxyResponse{
		StatusCode:        status,
		Headers:           make(map[string]string, len(w.header)),
		MultiValueHeaders: make(map[string][]string, len(w.header)),
	}
	for k, vs := range w.header {
		if len(vs) == 0 {
			continue
		}
		resp.Headers[k] = vs[0]
		resp.MultiValueHeaders[k] = append([]string(nil), vs...)
	}

	if isTextContent(w.header.Get("Content-Type")) {
		resp.Body = w.body.String()
	} else {
		resp.Body = base64.StdEncoding.EncodeToString(w.body.B)
		resp.IsBase64Encoded = true
	}
	return resp
}

func isTextContent(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch {
	case strings.HasPrefix(mediaType, "text/"),
		mediaType == "application/json",
		mediaType == "application/yaml",
		strings.HasSuffix(mediaType, "+json"):
		return true
	default:
		return false
	}
}
