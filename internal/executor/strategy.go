package executor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/studiowebux/hac/internal/collection"
)

// Strategy knows how to send a request of one body kind
type Strategy interface {
	Execute(ctx context.Context, client *http.Client, req collection.Request) Response
}

// HTTPStrategy sends plain HTTP requests, with or without a JSON body
type HTTPStrategy struct{}

var strategies = map[collection.BodyKind]Strategy{
	collection.BodyNone: HTTPStrategy{},
	collection.BodyJSON: HTTPStrategy{},
}

// StrategyFor returns the strategy registered for a body kind
func StrategyFor(kind collection.BodyKind) (Strategy, error) {
	s, ok := strategies[kind]
	if !ok {
		return nil, fmt.Errorf("no strategy for body kind %q", kind)
	}
	return s, nil
}

// Execute performs the request and decodes the response. It never returns
// an error: failures are reported as error responses.
func (HTTPStrategy) Execute(ctx context.Context, client *http.Client, req collection.Request) Response {
	start := time.Now()

	httpReq, err := BuildRequest(ctx, req)
	if err != nil {
		return errorResponse(err, time.Since(start))
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return errorResponse(err, time.Since(start))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	duration := time.Since(start)
	if err != nil {
		status := resp.StatusCode
		return Response{
			Status:   &status,
			Duration: duration,
			IsError:  true,
			Cause:    fmt.Sprintf("failed to read response body: %v", err),
		}
	}

	return DecoderFor(resp.Header.Get("Content-Type")).Decode(RawResponse{
		Status:   resp.StatusCode,
		Headers:  flattenHeaders(resp.Header),
		Body:     body,
		Duration: duration,
	})
}

// BuildRequest converts a stored request into an *http.Request.
// Only enabled headers are copied. A body is attached only for JSON
// requests, along with a JSON content type unless one is already set.
func BuildRequest(ctx context.Context, req collection.Request) (*http.Request, error) {
	if strings.TrimSpace(req.URI) == "" {
		return nil, fmt.Errorf("request has no URI")
	}

	var body io.Reader
	if req.BodyKind == collection.BodyJSON && req.Body != nil {
		body = strings.NewReader(*req.Body)
	}

	method := req.Method
	if method == "" {
		method = collection.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(method), req.URI, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	hasContentType := false
	for _, h := range req.EnabledHeaders() {
		httpReq.Header.Add(h.Name, h.Value)
		if strings.EqualFold(h.Name, "Content-Type") {
			hasContentType = true
		}
	}
	if body != nil && !hasContentType {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	return httpReq, nil
}
